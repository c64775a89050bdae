package reasoning

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/cloudwego/eino/schema"

	errx "github.com/aura-uw-poc/server/internal/core/error"
	logx "github.com/aura-uw-poc/server/pkg/logger"
)

// SleepFunc suspends for d or until ctx is done. Injected so tests run with a
// fake clock instead of real delays.
type SleepFunc func(ctx context.Context, d time.Duration) error

// JitterFunc yields a value in [0,1), one second of which is added to each
// backoff wait.
type JitterFunc func() float64

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// retrier runs a model call with bounded exponential backoff on transient
// failures. Fatal errors propagate immediately, untouched.
type retrier struct {
	maxAttempts int
	sleep       SleepFunc
	jitter      JitterFunc
}

func newRetrier(maxAttempts int, sleep SleepFunc, jitter JitterFunc) *retrier {
	if maxAttempts <= 0 {
		maxAttempts = 1
	}
	if sleep == nil {
		sleep = sleepContext
	}
	if jitter == nil {
		jitter = rand.Float64
	}
	return &retrier{maxAttempts: maxAttempts, sleep: sleep, jitter: jitter}
}

// backoffDelay returns the wait before the retry that follows failed attempt
// k (0-indexed): 2^(k+1) seconds plus jitter in [0,1) seconds. The base wait
// strictly doubles across attempts.
func (r *retrier) backoffDelay(k int) time.Duration {
	base := time.Duration(1<<uint(k+1)) * time.Second
	return base + time.Duration(r.jitter()*float64(time.Second))
}

// Do runs call until it succeeds, fails fatally, or the attempt budget is
// spent. Budget exhaustion converts the last transient error into
// errx.ErrRetriesExhausted.
func (r *retrier) Do(ctx context.Context, call func(context.Context) (*schema.Message, error)) (*schema.Message, error) {
	var lastErr error
	for attempt := 0; attempt < r.maxAttempts; attempt++ {
		out, err := call(ctx)
		if err == nil {
			return out, nil
		}
		if !isTransient(err) {
			return nil, err
		}
		lastErr = err
		if attempt == r.maxAttempts-1 {
			break
		}
		delay := r.backoffDelay(attempt)
		logx.Warn().
			Err(err).
			Int("attempt", attempt).
			Dur("backoff", delay).
			Msg("transient reasoning failure, backing off")
		if serr := r.sleep(ctx, delay); serr != nil {
			return nil, serr
		}
	}
	return nil, fmt.Errorf("%w after %d attempts: %v", errx.ErrRetriesExhausted, r.maxAttempts, lastErr)
}

// isTransient classifies an upstream error. Only explicit rate-limit/quota
// signals are worth retrying; everything else is fatal. The Gemini backend
// surfaces throttling as 429 / RESOURCE_EXHAUSTED in the error text.
func isTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, errx.ErrTransient) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "quota") ||
		strings.Contains(msg, "resource_exhausted") ||
		strings.Contains(msg, "resource exhausted")
}
