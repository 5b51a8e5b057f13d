// Package ratelimit provides request pacing for polite API access.
package ratelimit

import (
	"sync"
	"time"
)

// Limiter defines the interface for rate limiting.
type Limiter interface {
	// Allow checks if a request is allowed under the current rate limit.
	Allow() bool
	// Wait blocks until the rate limit allows another request.
	Wait()
	// Reset resets the rate limiter state.
	Reset()
}

// TokenBucket implements a token bucket rate limiter. With capacity 1 it
// degrades into a fixed inter-request delay, which is how the discovery
// phase paces its search queries.
type TokenBucket struct {
	capacity     int
	tokens       int
	refillPeriod time.Duration
	lastRefill   time.Time
	mu           sync.Mutex
}

// NewTokenBucket creates a new token bucket rate limiter.
func NewTokenBucket(capacity int, refillPeriod time.Duration) *TokenBucket {
	return &TokenBucket{
		capacity:     capacity,
		tokens:       capacity,
		refillPeriod: refillPeriod,
		lastRefill:   time.Now(),
	}
}

// Allow checks if a request can proceed.
func (tb *TokenBucket) Allow() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refill()

	if tb.tokens > 0 {
		tb.tokens--
		return true
	}
	return false
}

// Wait blocks until a token is available.
func (tb *TokenBucket) Wait() {
	for !tb.Allow() {
		tb.mu.Lock()
		timeUntilRefill := tb.refillPeriod - time.Since(tb.lastRefill)
		tb.mu.Unlock()

		if timeUntilRefill > 0 {
			time.Sleep(timeUntilRefill)
		} else {
			time.Sleep(10 * time.Millisecond)
		}
	}
}

// Reset restores the bucket to full capacity.
func (tb *TokenBucket) Reset() {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.tokens = tb.capacity
	tb.lastRefill = time.Now()
}

// refill adds tokens once the refill period has elapsed.
func (tb *TokenBucket) refill() {
	now := time.Now()
	if now.Sub(tb.lastRefill) >= tb.refillPeriod {
		tb.tokens = tb.capacity
		tb.lastRefill = now
	}
}
