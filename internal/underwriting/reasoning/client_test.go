package reasoning

import (
	"context"
	"errors"
	"testing"
	"time"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errx "github.com/aura-uw-poc/server/internal/core/error"
	"github.com/aura-uw-poc/server/internal/underwriting/model"
)

// fakeChatModel plays back a scripted sequence of responses and records what
// it was asked.
type fakeChatModel struct {
	script []func() (*schema.Message, error)
	calls  int
	seen   [][]*schema.Message
}

func (f *fakeChatModel) Generate(_ context.Context, input []*schema.Message, _ ...einomodel.Option) (*schema.Message, error) {
	f.seen = append(f.seen, input)
	step := f.script[f.calls]
	if f.calls < len(f.script)-1 {
		f.calls++
	}
	return step()
}

func (f *fakeChatModel) Stream(context.Context, []*schema.Message, ...einomodel.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("streaming not supported")
}

var _ einomodel.BaseChatModel = (*fakeChatModel)(nil)

func respondWith(content string) func() (*schema.Message, error) {
	return func() (*schema.Message, error) {
		return schema.AssistantMessage(content, nil), nil
	}
}

func failWith(err error) func() (*schema.Message, error) {
	return func() (*schema.Message, error) { return nil, err }
}

func newTestService(t *testing.T, chat einomodel.BaseChatModel) *GeminiService {
	t.Helper()
	svc, err := NewGeminiService(context.Background(), chat, ClientConfig{
		Prompt: model.PromptConfig{CompanyName: "AuraLife", AssistantName: "Aura"},
		Retry:  model.RetryConfig{MaxAttempts: 5},
		Sleep:  func(context.Context, time.Duration) error { return nil },
		Jitter: zeroJitter,
	})
	require.NoError(t, err)
	return svc
}

func TestGeminiService_SubmitTurn(t *testing.T) {
	chat := &fakeChatModel{script: []func() (*schema.Message, error){respondWith(validTurnJSON)}}
	svc := newTestService(t, chat)

	history := []*schema.Message{
		schema.UserMessage("I am 30"),
		schema.AssistantMessage(`{"nextQuestion":"..."}`, nil),
	}
	got, err := svc.SubmitTurn(context.Background(), history, "  Male  ")
	require.NoError(t, err)
	assert.Equal(t, "What is your gender?", got.NextQuestion)

	// The request carries the system prompt, the full prior history and the
	// trimmed new input, in order.
	require.Len(t, chat.seen, 1)
	sent := chat.seen[0]
	require.Len(t, sent, 4)
	assert.Equal(t, schema.System, sent[0].Role)
	assert.Contains(t, sent[0].Content, "AuraLife")
	assert.Contains(t, sent[0].Content, "Aura")
	assert.Equal(t, history[0], sent[1])
	assert.Equal(t, history[1], sent[2])
	assert.Equal(t, schema.User, sent[3].Role)
	assert.Equal(t, "Male", sent[3].Content)
}

func TestGeminiService_EmptyInputRejected(t *testing.T) {
	chat := &fakeChatModel{script: []func() (*schema.Message, error){respondWith(validTurnJSON)}}
	svc := newTestService(t, chat)

	_, err := svc.SubmitTurn(context.Background(), nil, "   ")
	assert.ErrorIs(t, err, errx.ErrEmptyInput)
	assert.Empty(t, chat.seen, "no call is dispatched for blank input")
}

func TestGeminiService_TransientsRecoveredThenSuccess(t *testing.T) {
	chat := &fakeChatModel{script: []func() (*schema.Message, error){
		failWith(transientErr()),
		failWith(transientErr()),
		failWith(transientErr()),
		respondWith(validTurnJSON),
	}}
	svc := newTestService(t, chat)

	got, err := svc.SubmitTurn(context.Background(), nil, "I am 30")
	require.NoError(t, err)
	assert.Equal(t, "What is your gender?", got.NextQuestion)
	assert.Len(t, chat.seen, 4)
}

func TestGeminiService_ExhaustionIsFatal(t *testing.T) {
	chat := &fakeChatModel{script: []func() (*schema.Message, error){failWith(transientErr())}}
	svc := newTestService(t, chat)

	_, err := svc.SubmitTurn(context.Background(), nil, "I am 30")
	assert.ErrorIs(t, err, errx.ErrRetriesExhausted)
	assert.Len(t, chat.seen, 5)
}

func TestGeminiService_MalformedResponseNotRetried(t *testing.T) {
	chat := &fakeChatModel{script: []func() (*schema.Message, error){respondWith("not json at all")}}
	svc := newTestService(t, chat)

	_, err := svc.SubmitTurn(context.Background(), nil, "I am 30")
	assert.ErrorIs(t, err, errx.ErrMalformedResponse)
	assert.Len(t, chat.seen, 1, "a parse failure must not trigger retries")
}
