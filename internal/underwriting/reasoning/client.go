package reasoning

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/gemini"
	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"

	errx "github.com/aura-uw-poc/server/internal/core/error"
	"github.com/aura-uw-poc/server/internal/underwriting/model"
	logx "github.com/aura-uw-poc/server/pkg/logger"
)

// Service is the boundary to the external reasoning collaborator: the full
// conversation so far plus one new user input in, one validated structured
// turn result out. Implementations must not touch session state; applying
// the result is the controller's job.
type Service interface {
	SubmitTurn(ctx context.Context, history []*schema.Message, userInput string) (*model.TurnResult, error)
}

// ClientConfig holds everything needed to build the Gemini-backed service.
type ClientConfig struct {
	APIKey  string
	BaseURL string
	Model   model.ReasoningModelConfig
	Prompt  model.PromptConfig
	Retry   model.RetryConfig

	// Test seams; nil selects real sleeping and real jitter.
	Sleep  SleepFunc
	Jitter JitterFunc
}

// GeminiService submits turns to a Gemini chat model and validates the
// structured response. Transient upstream failures are retried internally
// with exponential backoff; the caller only ever sees a result or a fatal
// error.
type GeminiService struct {
	chat         einomodel.BaseChatModel
	systemPrompt string
	retry        *retrier
}

// NewChatModel creates the underlying Gemini chat model.
func NewChatModel(ctx context.Context, apiKey, baseURL string, cfg model.ReasoningModelConfig) (*gemini.ChatModel, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		clientCfg.HTTPOptions.BaseURL = baseURL
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		logx.Error().Err(err).Msg("Error creating Gemini client")
		return nil, fmt.Errorf("error creating Gemini client: %w", err)
	}

	chatModel, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      client,
		Model:       cfg.Model,
		Temperature: &cfg.Temperature,
		MaxTokens:   &cfg.MaxTokens,
	})
	if err != nil {
		logx.Error().Err(err).Msg("Error creating reasoning model")
		return nil, fmt.Errorf("error creating reasoning model: %w", err)
	}
	return chatModel, nil
}

// NewGeminiService wires the chat model, rendered system prompt and retry
// policy into a Service.
func NewGeminiService(ctx context.Context, chat einomodel.BaseChatModel, cfg ClientConfig) (*GeminiService, error) {
	if chat == nil {
		return nil, fmt.Errorf("chat model is nil")
	}
	sys, err := RenderSystemPrompt(ctx, cfg.Prompt)
	if err != nil {
		return nil, err
	}
	return &GeminiService{
		chat:         chat,
		systemPrompt: sys,
		retry:        newRetrier(cfg.Retry.MaxAttempts, cfg.Sleep, cfg.Jitter),
	}, nil
}

// SubmitTurn sends the system prompt, the full prior history and the new user
// input to the model, then parses the structured result. History is read
// only; the caller decides what to persist.
func (s *GeminiService) SubmitTurn(ctx context.Context, history []*schema.Message, userInput string) (*model.TurnResult, error) {
	userInput = strings.TrimSpace(userInput)
	if userInput == "" {
		return nil, errx.ErrEmptyInput
	}

	messages := make([]*schema.Message, 0, len(history)+2)
	messages = append(messages, schema.SystemMessage(s.systemPrompt))
	messages = append(messages, history...)
	messages = append(messages, schema.UserMessage(userInput))

	out, err := s.retry.Do(ctx, func(ctx context.Context) (*schema.Message, error) {
		return s.chat.Generate(ctx, messages)
	})
	if err != nil {
		logx.Error().Err(err).Int("history_len", len(history)).Msg("reasoning call failed")
		return nil, errx.WrapReasoning(err)
	}
	if out == nil {
		return nil, fmt.Errorf("%w: nil message", errx.ErrMalformedResponse)
	}

	result, err := ParseTurnResult(out.Content)
	if err != nil {
		return nil, err
	}
	return result, nil
}

var _ Service = (*GeminiService)(nil)
