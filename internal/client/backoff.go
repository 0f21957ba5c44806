// Package client drives downloads against a running movvify server.
package client

import "time"

const (
	InitialDelay           = 3 * time.Second
	RateLimitMaxDelay      = 30 * time.Second
	FailureMaxDelay        = 20 * time.Second
	MaxConsecutiveFailures = 3
)

// Backoff is the pacing state of a sequential batch. Transitions return a new
// value and never mutate the receiver.
type Backoff struct {
	Delay               time.Duration
	ConsecutiveFailures int
}

// NewBackoff returns the state a batch starts in.
func NewBackoff() Backoff {
	return Backoff{Delay: InitialDelay}
}

// OnRateLimited doubles the delay, up to RateLimitMaxDelay. Rate limiting is
// not counted as a failure.
func (b Backoff) OnRateLimited() Backoff {
	b.Delay = min(b.Delay*2, RateLimitMaxDelay)
	return b
}

// OnFailure counts a failure and stretches the delay by half, up to
// FailureMaxDelay. abort is true once MaxConsecutiveFailures is reached.
func (b Backoff) OnFailure() (next Backoff, abort bool) {
	b.ConsecutiveFailures++
	if b.ConsecutiveFailures >= MaxConsecutiveFailures {
		return b, true
	}
	b.Delay = min(scale(b.Delay, 1.5), FailureMaxDelay)
	return b, false
}

// OnSuccess clears the failure count and eases the delay back toward InitialDelay.
func (b Backoff) OnSuccess() Backoff {
	b.ConsecutiveFailures = 0
	b.Delay = max(scale(b.Delay, 0.8), InitialDelay)
	return b
}

func scale(d time.Duration, f float64) time.Duration {
	return time.Duration(float64(d) * f)
}
