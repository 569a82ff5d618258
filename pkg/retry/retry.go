package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

type Policy struct {
	MaxAttempts     int
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Multiplier      float64
	MaxElapsedTime  time.Duration
}

func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:     3,
		InitialInterval: 1 * time.Second,
		MaxInterval:     30 * time.Second,
		Multiplier:      2.0,
	}
}

func (p Policy) backoff(ctx context.Context) backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = p.InitialInterval
	exp.MaxInterval = p.MaxInterval
	exp.Multiplier = p.Multiplier
	exp.MaxElapsedTime = p.MaxElapsedTime

	var b backoff.BackOff = exp
	if p.MaxAttempts > 0 {
		b = backoff.WithMaxRetries(b, uint64(p.MaxAttempts-1))
	}
	return backoff.WithContext(b, ctx)
}

// Do runs op under the policy, retrying on error with exponential backoff.
func Do(ctx context.Context, policy Policy, op func() error) error {
	return backoff.Retry(op, policy.backoff(ctx))
}

// DoWithCallback is Do with a per-retry notification (attempt counter,
// the error that caused the retry, and the delay before the next attempt).
func DoWithCallback(ctx context.Context, policy Policy, op func() error, onRetry func(attempt int, err error, nextDelay time.Duration)) error {
	attempt := 0
	notify := func(err error, delay time.Duration) {
		attempt++
		if onRetry != nil {
			onRetry(attempt, err, delay)
		}
	}
	return backoff.RetryNotify(op, policy.backoff(ctx), notify)
}
