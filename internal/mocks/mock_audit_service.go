package mocks

import (
	"context"
	"sync"

	"github.com/you/authsvc/domain"
)

// MockAuditService implements domain.AuditService for testing. By default
// it records entries and attempts in memory for assertions.
type MockAuditService struct {
	mu       sync.Mutex
	Entries  []*domain.AuditEntry
	Attempts []*domain.LoginAttempt

	RecordEntryFunc   func(ctx context.Context, entry *domain.AuditEntry)
	RecordAttemptFunc func(ctx context.Context, attempt *domain.LoginAttempt)
	QueryAuditFunc    func(ctx context.Context, filter domain.AuditFilter, limit int) ([]*domain.AuditEntry, error)
	QueryAttemptsFunc func(ctx context.Context, filter domain.AttemptFilter, limit int) ([]*domain.LoginAttempt, error)
}

// NewMockAuditService creates a new MockAuditService
func NewMockAuditService() *MockAuditService {
	return &MockAuditService{}
}

// RecordEntry records an audit entry
func (m *MockAuditService) RecordEntry(ctx context.Context, entry *domain.AuditEntry) {
	if m.RecordEntryFunc != nil {
		m.RecordEntryFunc(ctx, entry)
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Entries = append(m.Entries, entry)
}

// RecordAttempt records a login attempt
func (m *MockAuditService) RecordAttempt(ctx context.Context, attempt *domain.LoginAttempt) {
	if m.RecordAttemptFunc != nil {
		m.RecordAttemptFunc(ctx, attempt)
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Attempts = append(m.Attempts, attempt)
}

// QueryAudit returns recorded entries
func (m *MockAuditService) QueryAudit(ctx context.Context, filter domain.AuditFilter, limit int) ([]*domain.AuditEntry, error) {
	if m.QueryAuditFunc != nil {
		return m.QueryAuditFunc(ctx, filter, limit)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Entries, nil
}

// QueryAttempts returns recorded attempts
func (m *MockAuditService) QueryAttempts(ctx context.Context, filter domain.AttemptFilter, limit int) ([]*domain.LoginAttempt, error) {
	if m.QueryAttemptsFunc != nil {
		return m.QueryAttemptsFunc(ctx, filter, limit)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Attempts, nil
}
