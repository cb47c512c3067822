// Package retry computes backoff delays and retries transient failures.
package retry

import (
	"context"
	"time"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
)

// Mode selects how the delay grows between attempts.
type Mode string

const (
	Fixed       Mode = "fixed"
	Linear      Mode = "linear"
	Exponential Mode = "exponential"
)

// Policy encapsulates retry/backoff settings for transient failures.
// It is immutable after construction.
type Policy struct {
	Mode       Mode
	Initial    time.Duration // base delay
	Max        time.Duration // cap for growth
	MaxRetries int           // retries after the first failure
}

// DefaultPolicy returns linear backoff from 1s, capped at 30s, with 2 retries.
func DefaultPolicy() Policy {
	return Policy{Mode: Linear, Initial: time.Second, Max: 30 * time.Second, MaxRetries: 2}
}

// NewPolicy builds a policy; zero or unknown values fall back to the defaults.
func NewPolicy(mode Mode, initial, maxDuration time.Duration, maxRetries int) Policy {
	p := DefaultPolicy()
	if maxRetries >= 0 {
		p.MaxRetries = maxRetries
	}
	if initial > 0 {
		p.Initial = initial
	}
	if maxDuration > 0 {
		p.Max = maxDuration
	}
	switch mode {
	case Fixed, Linear, Exponential:
		p.Mode = mode
	}
	if p.Initial > p.Max {
		p.Initial = p.Max
	}
	return p
}

// Delay returns the backoff before retry number retryCount (first retry is 1).
func (p Policy) Delay(retryCount int) time.Duration {
	if retryCount <= 0 {
		return 0
	}
	switch p.Mode {
	case Fixed:
		return p.Initial
	case Exponential:
		d := p.Initial * (1 << (retryCount - 1))
		if d > p.Max || d <= 0 {
			return p.Max
		}
		return d
	default:
		d := time.Duration(retryCount) * p.Initial
		if d > p.Max {
			return p.Max
		}
		return d
	}
}

// Validate ensures the policy can be applied. Policies from NewPolicy always
// pass; a hand-built Policy literal may not.
func (p Policy) Validate() error {
	var msg string
	switch {
	case p.Initial <= 0:
		msg = "retry initial delay must be >0"
	case p.Max <= 0:
		msg = "retry max delay must be >0"
	case p.MaxRetries < 0:
		msg = "retry count cannot be negative"
	default:
		return nil
	}
	return errors.ValidationError(msg).
		WithContext("mode", string(p.Mode)).
		Build()
}

// Do calls fn until it succeeds, the retries are exhausted, or ctx ends.
// A classified error that does not allow retry stops immediately; other
// errors are retried. The last error is returned. An invalid policy fails
// before fn is called.
func (p Policy) Do(ctx context.Context, fn func(attempt int) error) error {
	if err := p.Validate(); err != nil {
		return err
	}
	var err error
	for attempt := 0; ; attempt++ {
		if err = fn(attempt); err == nil {
			return nil
		}
		if ce, ok := errors.AsClassified(err); ok && !ce.CanRetry() {
			return err
		}
		if attempt >= p.MaxRetries {
			return err
		}
		t := time.NewTimer(p.Delay(attempt + 1))
		select {
		case <-ctx.Done():
			t.Stop()
			return err
		case <-t.C:
		}
	}
}
