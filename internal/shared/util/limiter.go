package util

import (
	"time"

	"golang.org/x/time/rate"
)

// Limiter spaces out events; callers reserve a slot and sleep off the delay.
type Limiter struct {
	inner *rate.Limiter
}

// NewIntervalLimiter allows one event per interval. A non-positive
// interval never limits.
func NewIntervalLimiter(interval time.Duration) *Limiter {
	if interval <= 0 {
		return &Limiter{inner: rate.NewLimiter(rate.Inf, 1)}
	}
	return &Limiter{inner: rate.NewLimiter(rate.Every(interval), 1)}
}

// Take reserves one token and reports how long the caller has to wait for it.
func (l *Limiter) Take() time.Duration {
	return l.inner.Reserve().Delay()
}
