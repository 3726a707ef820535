package repositories

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/you/authsvc/domain"
)

// AuditLogRepositoryImpl implements domain.AuditLogRepository as an
// append-only in-memory log. Entries are never mutated after insertion.
type AuditLogRepositoryImpl struct {
	mu      sync.RWMutex
	entries []*domain.AuditEntry
}

// NewAuditLogRepository creates a new in-memory audit log
func NewAuditLogRepository() domain.AuditLogRepository {
	return &AuditLogRepositoryImpl{}
}

// Append implements domain.AuditLogRepository
func (r *AuditLogRepositoryImpl) Append(ctx context.Context, entry *domain.AuditEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	cp := *entry
	r.entries = append(r.entries, &cp)
	return nil
}

// Query implements domain.AuditLogRepository, most recent first
func (r *AuditLogRepositoryImpl) Query(ctx context.Context, filter domain.AuditFilter, limit int) ([]*domain.AuditEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*domain.AuditEntry
	for i := len(r.entries) - 1; i >= 0; i-- {
		entry := r.entries[i]
		if !matchAudit(entry, filter) {
			continue
		}
		cp := *entry
		out = append(out, &cp)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func matchAudit(entry *domain.AuditEntry, filter domain.AuditFilter) bool {
	if filter.UserID != "" && entry.UserID != filter.UserID {
		return false
	}
	if filter.Action != "" && entry.Action != filter.Action {
		return false
	}
	if filter.Severity != "" && entry.Severity != filter.Severity {
		return false
	}
	if !filter.Since.IsZero() && entry.Timestamp.Before(filter.Since) {
		return false
	}
	return true
}
