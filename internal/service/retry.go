package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"quiz-diagnosis/internal/domain"
	"quiz-diagnosis/internal/logger"
)

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Retrier runs an attempt function under a RetryPolicy. Configuration and
// Parsing failures end the loop at once; Request and Timeout failures are
// retried until MaxAttempts, waiting BaseDelay*attempt in between.
type Retrier struct {
	policy domain.RetryPolicy
	sleep  Sleeper
}

// NewRetrier builds a Retrier. A nil sleeper uses a real timer.
func NewRetrier(policy domain.RetryPolicy, sleep Sleeper) *Retrier {
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}
	if sleep == nil {
		sleep = sleepContext
	}
	return &Retrier{policy: policy, sleep: sleep}
}

// Policy returns the effective policy.
func (r *Retrier) Policy() domain.RetryPolicy { return r.policy }

// Do calls fn with attempt numbers starting at 1 until it succeeds, fails
// with a terminal kind, or the attempts run out. The returned error is
// always an *domain.AIError: the last one observed.
func (r *Retrier) Do(ctx context.Context, fn func(ctx context.Context, attempt int) error) error {
	var last *domain.AIError
	for attempt := 1; attempt <= r.policy.MaxAttempts; attempt++ {
		err := fn(ctx, attempt)
		if err == nil {
			return nil
		}
		last = domain.AsAIError(err)

		if !last.Kind.Retryable() || attempt == r.policy.MaxAttempts {
			return last
		}

		delay := r.policy.BaseDelay * time.Duration(attempt)
		logger.Get().Info("Retrying AI attempt",
			zap.Int("attempt", attempt),
			zap.String("kind", string(last.Kind)),
			zap.Duration("backoff", delay))
		if err := r.sleep(ctx, delay); err != nil {
			// Caller went away; report what the provider last said.
			return last
		}
	}
	return last
}
