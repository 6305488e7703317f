// Package stream runs the backend's push channels: long-lived WebSocket
// connections that deliver balance, position, and activity updates. All
// channels share one reconnection policy.
package stream

import "time"

// ReconnectPolicy bounds how a channel comes back after a drop: capped
// exponential backoff and a hard attempt limit. A normal closure never
// triggers reconnection.
type ReconnectPolicy struct {
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// DefaultPolicy matches the stream defaults in config.
func DefaultPolicy() ReconnectPolicy {
	return ReconnectPolicy{
		MaxAttempts:    8,
		InitialBackoff: time.Second,
		MaxBackoff:     30 * time.Second,
	}
}

// Backoff returns the delay before reconnect attempt n (0-based): initial
// backoff doubled per attempt, capped at MaxBackoff.
func (p ReconnectPolicy) Backoff(attempt int) time.Duration {
	d := p.InitialBackoff
	for i := 0; i < attempt; i++ {
		d *= 2
		if d >= p.MaxBackoff {
			return p.MaxBackoff
		}
	}
	if d > p.MaxBackoff {
		return p.MaxBackoff
	}
	return d
}

// Exhausted reports whether attempt n is past the allowed budget.
func (p ReconnectPolicy) Exhausted(attempt int) bool {
	return attempt >= p.MaxAttempts
}
