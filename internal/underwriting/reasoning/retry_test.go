package reasoning

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errx "github.com/aura-uw-poc/server/internal/core/error"
)

func recordingSleeper(record *[]time.Duration) SleepFunc {
	return func(_ context.Context, d time.Duration) error {
		*record = append(*record, d)
		return nil
	}
}

func zeroJitter() float64 { return 0 }

func transientErr() error {
	return fmt.Errorf("%w: simulated 429", errx.ErrTransient)
}

func TestRetrier_ExhaustsBudgetWithDoublingBackoff(t *testing.T) {
	var sleeps []time.Duration
	r := newRetrier(5, recordingSleeper(&sleeps), zeroJitter)

	calls := 0
	_, err := r.Do(context.Background(), func(context.Context) (*schema.Message, error) {
		calls++
		return nil, transientErr()
	})

	require.ErrorIs(t, err, errx.ErrRetriesExhausted)
	assert.Equal(t, 5, calls, "total attempts never exceed the budget")
	require.Equal(t, []time.Duration{
		2 * time.Second,
		4 * time.Second,
		8 * time.Second,
		16 * time.Second,
	}, sleeps)
	for i := 1; i < len(sleeps); i++ {
		assert.Equal(t, 2*sleeps[i-1], sleeps[i], "base wait strictly doubles")
	}
}

func TestRetrier_TransientsThenSuccess(t *testing.T) {
	var sleeps []time.Duration
	r := newRetrier(5, recordingSleeper(&sleeps), zeroJitter)

	calls := 0
	out, err := r.Do(context.Background(), func(context.Context) (*schema.Message, error) {
		calls++
		if calls <= 3 {
			return nil, transientErr()
		}
		return schema.AssistantMessage("ok", nil), nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", out.Content)
	assert.Equal(t, 4, calls)
	assert.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second, 8 * time.Second}, sleeps)
}

func TestRetrier_FatalErrorNotRetried(t *testing.T) {
	var sleeps []time.Duration
	r := newRetrier(5, recordingSleeper(&sleeps), zeroJitter)

	calls := 0
	fatal := errors.New("invalid argument")
	_, err := r.Do(context.Background(), func(context.Context) (*schema.Message, error) {
		calls++
		return nil, fatal
	})

	require.ErrorIs(t, err, fatal)
	assert.NotErrorIs(t, err, errx.ErrRetriesExhausted)
	assert.Equal(t, 1, calls)
	assert.Empty(t, sleeps)
}

func TestRetrier_JitterAddsUpToOneSecond(t *testing.T) {
	var sleeps []time.Duration
	r := newRetrier(2, recordingSleeper(&sleeps), func() float64 { return 0.5 })

	_, err := r.Do(context.Background(), func(context.Context) (*schema.Message, error) {
		return nil, transientErr()
	})

	require.ErrorIs(t, err, errx.ErrRetriesExhausted)
	require.Len(t, sleeps, 1)
	assert.Equal(t, 2*time.Second+500*time.Millisecond, sleeps[0])
}

func TestRetrier_SleepAbortPropagates(t *testing.T) {
	r := newRetrier(5, func(context.Context, time.Duration) error {
		return context.Canceled
	}, zeroJitter)

	_, err := r.Do(context.Background(), func(context.Context) (*schema.Message, error) {
		return nil, transientErr()
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"sentinel", transientErr(), true},
		{"http 429 text", errors.New("googleapi: Error 429: too many requests"), true},
		{"quota text", errors.New("quota exceeded for project"), true},
		{"resource exhausted", errors.New("rpc error: code = ResourceExhausted desc = RESOURCE_EXHAUSTED"), true},
		{"plain failure", errors.New("connection reset by peer"), false},
		{"bad request", errors.New("400 invalid request"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isTransient(tt.err))
		})
	}
}
