package controller

import (
	"context"
	"errors"
	"math"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	errx "github.com/aura-uw-poc/server/internal/core/error"
	"github.com/aura-uw-poc/server/internal/underwriting/conversations"
	"github.com/aura-uw-poc/server/internal/underwriting/model"
	"github.com/aura-uw-poc/server/internal/underwriting/rating"
	"github.com/aura-uw-poc/server/internal/underwriting/reasoning"
	logx "github.com/aura-uw-poc/server/pkg/logger"
)

// GreetingText opens every session, before any reasoning call is made.
const GreetingText = "Hello! I'm Aura, your agentic underwriting assistant. " +
	"Let's start your Individual Life Application. What is your current age?"

// Controller drives one underwriting conversation end-to-end: it records the
// user message, invokes the reasoning service, merges the returned profile
// delta, cross-checks quotes, and produces the next transcript turn. One
// controller per session; sessions share nothing.
//
// Turn state machine: Idle -> AwaitingResponse -> Idle. At most one reasoning
// call is ever in flight; a submission while one is outstanding is rejected,
// not queued. A fatal call failure degrades to a retry prompt on the
// transcript and leaves history and profile untouched.
type Controller struct {
	sessionID string
	svc       reasoning.Service
	sessions  *conversations.Manager
	pricing   model.PricingConfig

	inFlight atomic.Bool

	mu         sync.Mutex
	transcript []model.Turn
}

// New creates a controller for one session, with the opening greeting already
// on the transcript.
func New(sessionID string, svc reasoning.Service, sessions *conversations.Manager, pricing model.PricingConfig) *Controller {
	return &Controller{
		sessionID:  sessionID,
		svc:        svc,
		sessions:   sessions,
		pricing:    pricing,
		transcript: []model.Turn{{Role: model.RoleAgent, Text: GreetingText}},
	}
}

// Submit runs one conversation turn. Returns the agent-facing turn on
// success, or the fixed retry-prompt turn when the reasoning call failed
// fatally (internal detail never reaches the user). Precondition violations
// (blank input, a turn already in flight) return a sentinel error and change
// nothing.
func (c *Controller) Submit(ctx context.Context, input string) (*model.Turn, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, errx.ErrEmptyInput
	}
	if !c.inFlight.CompareAndSwap(false, true) {
		return nil, errx.ErrBusy
	}
	defer c.inFlight.Store(false)

	// Load context and call the service before anything is persisted, so a
	// failed exchange cannot poison history or profile.
	history, err := c.sessions.History(ctx, c.sessionID)
	if err != nil {
		return c.failTurn(input, err), nil
	}

	result, err := c.svc.SubmitTurn(ctx, history, input)
	if err != nil {
		return c.failTurn(input, err), nil
	}

	merged, err := c.sessions.CommitTurn(ctx, c.sessionID, input, result)
	if err != nil {
		return c.failTurn(input, err), nil
	}

	agentTurn := model.Turn{
		Role:         model.RoleAgent,
		Text:         result.NextQuestion,
		Options:      result.Options,
		AgentActions: result.AgentActions,
		IsQuote:      result.ShowQuote,
		Complete:     result.Complete,
	}
	if result.ShowQuote {
		c.crossCheckQuote(ctx, &agentTurn, merged)
	}

	c.mu.Lock()
	c.transcript = append(c.transcript,
		model.Turn{Role: model.RoleUser, Text: input},
		agentTurn,
	)
	c.mu.Unlock()
	return &agentTurn, nil
}

// failTurn records the user's message and the fixed retry prompt on the
// transcript only. History and profile stay exactly as they were.
func (c *Controller) failTurn(input string, cause error) *model.Turn {
	logx.Error().Err(cause).Str("sessionID", c.sessionID).Msg("turn failed, degrading to retry prompt")
	prompt := model.Turn{Role: model.RoleAgent, Text: errx.RetryPromptMessage}
	c.mu.Lock()
	c.transcript = append(c.transcript,
		model.Turn{Role: model.RoleUser, Text: input},
		prompt,
	)
	c.mu.Unlock()
	return &prompt
}

// crossCheckQuote independently recomputes the premium for a quote-ready
// turn. An incomplete profile suppresses the quote (the precondition was not
// actually met); a divergence beyond the configured tolerance flags the turn
// for review instead of silently trusting either figure.
func (c *Controller) crossCheckQuote(ctx context.Context, turn *model.Turn, merged model.Profile) {
	local, err := rating.Premium(merged)
	if err != nil {
		turn.IsQuote = false
		if errors.Is(err, errx.ErrIncompleteProfile) {
			logx.Warn().Err(err).Str("sessionID", c.sessionID).Msg("quote declared ready on incomplete profile, suppressed")
		} else {
			logx.Error().Err(err).Str("sessionID", c.sessionID).Msg("rate table lookup failed, quote suppressed")
		}
		return
	}

	turn.LocalPremium = local
	switch {
	case merged.AnnualPremium == nil:
		// The service produced no figure of its own; adopt the local one.
		merged.AnnualPremium = model.Ptr(local)
		if err := c.sessions.SaveProfile(ctx, c.sessionID, merged); err != nil {
			logx.Error().Err(err).Str("sessionID", c.sessionID).Msg("failed to store computed premium")
		}
	case math.Abs(*merged.AnnualPremium-local) > c.pricing.ToleranceUSD:
		turn.PremiumMismatch = true
		logx.Warn().
			Str("sessionID", c.sessionID).
			Float64("external", *merged.AnnualPremium).
			Float64("local", local).
			Float64("tolerance", c.pricing.ToleranceUSD).
			Msg("premium divergence beyond tolerance, flagged for review")
	}
}

// ConfirmPayment finalizes the purchase by assigning a generated policy
// number into the profile. It requires a priced profile.
func (c *Controller) ConfirmPayment(ctx context.Context) (string, error) {
	profile, err := c.sessions.Profile(ctx, c.sessionID)
	if err != nil {
		return "", err
	}
	if profile.AnnualPremium == nil {
		return "", errx.ErrIncompleteProfile
	}

	number := "AURA-" + strings.ToUpper(uuid.NewString()[:8])
	profile = profile.Merge(model.Profile{PolicyNumber: model.Ptr(number)})
	if err := c.sessions.SaveProfile(ctx, c.sessionID, profile); err != nil {
		return "", err
	}
	logx.Info().Str("sessionID", c.sessionID).Str("policyNumber", number).Msg("policy issued")
	return number, nil
}

// Reset wipes the session: history, profile and transcript, back to the
// opening greeting.
func (c *Controller) Reset(ctx context.Context) error {
	if err := c.sessions.Reset(ctx, c.sessionID); err != nil {
		return err
	}
	c.mu.Lock()
	c.transcript = []model.Turn{{Role: model.RoleAgent, Text: GreetingText}}
	c.mu.Unlock()
	return nil
}

// Transcript returns a copy of the UI-facing transcript.
func (c *Controller) Transcript() []model.Turn {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.Turn, len(c.transcript))
	copy(out, c.transcript)
	return out
}

// Profile exposes the current accumulated profile for rendering.
func (c *Controller) Profile(ctx context.Context) (model.Profile, error) {
	return c.sessions.Profile(ctx, c.sessionID)
}
