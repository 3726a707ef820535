package mocks

// MockRateLimiter implements domain.RateLimiter for testing
type MockRateLimiter struct {
	IsLimitedFunc     func(key string) bool
	RecordAttemptFunc func(key string)
	ResetFunc         func(key string)

	Attempts map[string]int
}

// NewMockRateLimiter creates a new MockRateLimiter that counts attempts
func NewMockRateLimiter() *MockRateLimiter {
	return &MockRateLimiter{Attempts: make(map[string]int)}
}

// IsLimited reports whether a key is limited
func (m *MockRateLimiter) IsLimited(key string) bool {
	if m.IsLimitedFunc != nil {
		return m.IsLimitedFunc(key)
	}
	return false
}

// RecordAttempt counts an attempt for a key
func (m *MockRateLimiter) RecordAttempt(key string) {
	if m.RecordAttemptFunc != nil {
		m.RecordAttemptFunc(key)
		return
	}
	m.Attempts[key]++
}

// Reset clears a key
func (m *MockRateLimiter) Reset(key string) {
	if m.ResetFunc != nil {
		m.ResetFunc(key)
		return
	}
	delete(m.Attempts, key)
}
