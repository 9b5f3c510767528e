package ratelimit

import (
	"sync"
	"time"
)

// Limiter defines the interface for request pacing
type Limiter interface {
	// Wait blocks until the pacing policy allows another request
	Wait()
	// Reset resets the limiter state
	Reset()
}

// IntervalLimiter enforces a minimum interval between consecutive requests.
// Wait subtracts the time already elapsed since the previous request was
// released, so a slow request does not pay the full delay again on top of
// its own latency.
type IntervalLimiter struct {
	interval time.Duration
	last     time.Time
	mu       sync.Mutex
}

// NewInterval creates an interval limiter with the given minimum spacing.
func NewInterval(interval time.Duration) *IntervalLimiter {
	return &IntervalLimiter{
		interval: interval,
	}
}

// Wait blocks until at least the configured interval has passed since the
// previous Wait returned. The first call returns immediately.
func (il *IntervalLimiter) Wait() {
	il.mu.Lock()
	defer il.mu.Unlock()

	if !il.last.IsZero() {
		if remaining := il.interval - time.Since(il.last); remaining > 0 {
			time.Sleep(remaining)
		}
	}
	il.last = time.Now()
}

// Reset forgets the previous request time so the next Wait returns
// immediately.
func (il *IntervalLimiter) Reset() {
	il.mu.Lock()
	defer il.mu.Unlock()

	il.last = time.Time{}
}

// Interval returns the configured minimum spacing.
func (il *IntervalLimiter) Interval() time.Duration {
	return il.interval
}
