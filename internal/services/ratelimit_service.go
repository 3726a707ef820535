package services

import (
	"sync"
	"time"

	"github.com/you/authsvc/domain"
)

// RateLimiterImpl implements domain.RateLimiter with fixed counting
// windows per key. A window is reset wholesale once it elapses; a fresh
// attempt after expiry starts a new window with count 1.
type RateLimiterImpl struct {
	mu          sync.Mutex
	buckets     map[string]*domain.RateLimitBucket
	maxAttempts int
	window      time.Duration
	clock       domain.Clock
}

// NewRateLimiter creates a new fixed-window rate limiter
func NewRateLimiter(maxAttempts int, window time.Duration, clock domain.Clock) domain.RateLimiter {
	return &RateLimiterImpl{
		buckets:     make(map[string]*domain.RateLimitBucket),
		maxAttempts: maxAttempts,
		window:      window,
		clock:       clock,
	}
}

// IsLimited implements domain.RateLimiter
func (l *RateLimiterImpl) IsLimited(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	bucket, ok := l.buckets[key]
	if !ok {
		return false
	}
	if bucket.Expired(l.clock.Now()) {
		return false
	}
	return bucket.Attempts >= bucket.MaxAttempts
}

// RecordAttempt implements domain.RateLimiter
func (l *RateLimiterImpl) RecordAttempt(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	bucket, ok := l.buckets[key]
	if !ok || bucket.Expired(now) {
		l.buckets[key] = &domain.RateLimitBucket{
			Key:         key,
			Attempts:    1,
			WindowStart: now,
			Window:      l.window,
			MaxAttempts: l.maxAttempts,
		}
		return
	}
	bucket.Attempts++
}

// Reset implements domain.RateLimiter
func (l *RateLimiterImpl) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.buckets, key)
}
