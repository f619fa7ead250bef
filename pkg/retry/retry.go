// Package retry implements a bounded exponential backoff policy for
// external collaborator calls.
package retry

import (
	"context"
	"fmt"
	"time"
)

// Policy controls how many times an operation is attempted and how long
// to wait between attempts. The wait doubles after each failure, clamped
// to [MinDelay, MaxDelay].
type Policy struct {
	MaxAttempts int
	MinDelay    time.Duration
	MaxDelay    time.Duration
}

// DefaultPolicy matches the application-wide retry defaults.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: 3,
		MinDelay:    2 * time.Second,
		MaxDelay:    30 * time.Second,
	}
}

func (p Policy) normalize() Policy {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = 1
	}
	if p.MinDelay <= 0 {
		p.MinDelay = time.Second
	}
	if p.MaxDelay < p.MinDelay {
		p.MaxDelay = p.MinDelay
	}
	return p
}

// Do invokes fn until it succeeds, the attempt cap is reached, or ctx is
// cancelled. The last error is returned when all attempts are exhausted.
func (p Policy) Do(ctx context.Context, fn func() error) error {
	p = p.normalize()

	var lastErr error
	delay := p.MinDelay
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		if attempt == p.MaxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}

		delay *= 2
		if delay > p.MaxDelay {
			delay = p.MaxDelay
		}
	}

	return fmt.Errorf("retry exhausted after %d attempts: %w", p.MaxAttempts, lastErr)
}
