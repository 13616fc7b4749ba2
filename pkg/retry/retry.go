// Package retry runs an operation again after a delay until it succeeds or
// a bounded number of attempts is used up.
//
//	p := retry.Policy{MaxAttempts: 5, Delay: 5 * time.Second}
//	err := p.Do(ctx, func(ctx context.Context, attempt int) error {
//	    return dial(ctx)
//	})
//	if errors.Is(err, retry.ErrExhausted) { ... }
//
// Attempts run strictly one after another. Tests substitute the Sleeper so
// no real time passes.
package retry

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrExhausted is matched by the error Do returns after the last failed attempt.
var ErrExhausted = errors.New("retry: attempts exhausted")

// Sleeper waits for d or until ctx is done.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// SleeperFunc adapts a plain function to Sleeper.
type SleeperFunc func(ctx context.Context, d time.Duration) error

func (f SleeperFunc) Sleep(ctx context.Context, d time.Duration) error { return f(ctx, d) }

// RealSleeper waits on the wall clock.
type RealSleeper struct{}

func (RealSleeper) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Policy describes how often and how patiently to retry.
type Policy struct {
	// MaxAttempts counts the first try. Values below 1 mean a single attempt.
	MaxAttempts int
	// Delay is the wait before the second attempt.
	Delay time.Duration
	// Multiplier scales Delay for each further attempt. 0 or 1 keeps it fixed.
	Multiplier float64
	// Sleeper defaults to RealSleeper.
	Sleeper Sleeper
}

// Fixed returns a policy with a constant delay between attempts.
func Fixed(attempts int, delay time.Duration) Policy {
	return Policy{MaxAttempts: attempts, Delay: delay}
}

// Exponential returns a policy whose delay doubles after every attempt.
func Exponential(attempts int, initial time.Duration) Policy {
	return Policy{MaxAttempts: attempts, Delay: initial, Multiplier: 2}
}

// WithSleeper returns a copy of p that waits through s.
func (p Policy) WithSleeper(s Sleeper) Policy {
	p.Sleeper = s
	return p
}

// Attempts returns the effective number of attempts.
func (p Policy) Attempts() int {
	if p.MaxAttempts < 1 {
		return 1
	}
	return p.MaxAttempts
}

// Backoff is the wait that follows the given failed attempt (1-based).
func (p Policy) Backoff(attempt int) time.Duration {
	if attempt < 1 || p.Delay <= 0 {
		return 0
	}
	if p.Multiplier <= 1 {
		return p.Delay
	}
	return time.Duration(float64(p.Delay) * math.Pow(p.Multiplier, float64(attempt-1)))
}

// Do calls fn until it returns nil or the attempts run out. It never waits
// after the final attempt. The returned error matches ErrExhausted and wraps
// the last error fn returned; a context cancelled while waiting ends the loop
// with ctx.Err().
func (p Policy) Do(ctx context.Context, fn func(ctx context.Context, attempt int) error) error {
	sleeper := p.Sleeper
	if sleeper == nil {
		sleeper = RealSleeper{}
	}

	max := p.Attempts()
	var last error

	for attempt := 1; attempt <= max; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		last = fn(ctx, attempt)
		if last == nil {
			return nil
		}

		if attempt < max {
			if err := sleeper.Sleep(ctx, p.Backoff(attempt)); err != nil {
				return err
			}
		}
	}

	return fmt.Errorf("%w after %d attempts: %w", ErrExhausted, max, last)
}
