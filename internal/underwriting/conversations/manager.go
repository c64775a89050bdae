package conversations

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cloudwego/eino/schema"

	"github.com/aura-uw-poc/server/internal/underwriting/model"
	logx "github.com/aura-uw-poc/server/pkg/logger"
)

// Manager exposes the session-scoped operations the controller needs on top
// of a SessionRepository. Nothing here talks to the reasoning service; the
// controller decides when a completed exchange is committed, which is what
// keeps a failed call from ever touching stored state.
type Manager struct {
	repo model.SessionRepository
}

func NewManager(repo model.SessionRepository) *Manager {
	return &Manager{repo: repo}
}

// History loads the full reasoning history for a session. The reasoning
// service always receives the complete context, so there is no windowing.
func (m *Manager) History(ctx context.Context, sessionID string) ([]*schema.Message, error) {
	h, err := m.repo.LoadHistory(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return h.Messages, nil
}

// Profile loads the accumulated applicant profile for a session.
func (m *Manager) Profile(ctx context.Context, sessionID string) (model.Profile, error) {
	return m.repo.LoadProfile(ctx, sessionID)
}

// SaveProfile stores the profile as-is, replacing the previous snapshot.
func (m *Manager) SaveProfile(ctx context.Context, sessionID string, p model.Profile) error {
	return m.repo.SaveProfile(ctx, sessionID, p)
}

// CommitTurn persists one successful exchange: the user message, the raw
// structured result as the assistant message (the raw JSON is what becomes
// context for the next call, not display text), and the profile with the
// turn's delta merged in. Returns the merged profile.
func (m *Manager) CommitTurn(ctx context.Context, sessionID, userText string, result *model.TurnResult) (model.Profile, error) {
	raw, err := json.Marshal(result)
	if err != nil {
		return model.Profile{}, fmt.Errorf("marshal turn result: %w", err)
	}

	if err := m.repo.AppendMessage(ctx, sessionID, schema.UserMessage(userText)); err != nil {
		return model.Profile{}, err
	}
	if err := m.repo.AppendMessage(ctx, sessionID, schema.AssistantMessage(string(raw), nil)); err != nil {
		return model.Profile{}, err
	}

	current, err := m.repo.LoadProfile(ctx, sessionID)
	if err != nil {
		return model.Profile{}, err
	}
	merged := current.Merge(result.Delta)
	if err := m.repo.SaveProfile(ctx, sessionID, merged); err != nil {
		return model.Profile{}, err
	}

	logx.Debug().
		Str("sessionID", sessionID).
		Str("profile", merged.Summary()).
		Msg("turn committed")
	return merged, nil
}

// Reset wipes all session state for a full restart.
func (m *Manager) Reset(ctx context.Context, sessionID string) error {
	return m.repo.Clear(ctx, sessionID)
}

// MessageCount returns the number of stored history messages.
func (m *Manager) MessageCount(ctx context.Context, sessionID string) (int, error) {
	return m.repo.MessageCount(ctx, sessionID)
}
