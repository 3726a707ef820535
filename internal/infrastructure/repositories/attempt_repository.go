package repositories

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/you/authsvc/domain"
)

// LoginAttemptRepositoryImpl implements domain.LoginAttemptRepository as
// an append-only in-memory log.
type LoginAttemptRepositoryImpl struct {
	mu       sync.RWMutex
	attempts []*domain.LoginAttempt
}

// NewLoginAttemptRepository creates a new in-memory attempt log
func NewLoginAttemptRepository() domain.LoginAttemptRepository {
	return &LoginAttemptRepositoryImpl{}
}

// Append implements domain.LoginAttemptRepository
func (r *LoginAttemptRepositoryImpl) Append(ctx context.Context, attempt *domain.LoginAttempt) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if attempt.ID == "" {
		attempt.ID = uuid.NewString()
	}
	cp := cloneAttempt(attempt)
	r.attempts = append(r.attempts, cp)
	return nil
}

// Query implements domain.LoginAttemptRepository, most recent first
func (r *LoginAttemptRepositoryImpl) Query(ctx context.Context, filter domain.AttemptFilter, limit int) ([]*domain.LoginAttempt, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*domain.LoginAttempt
	for i := len(r.attempts) - 1; i >= 0; i-- {
		attempt := r.attempts[i]
		if !matchAttempt(attempt, filter) {
			continue
		}
		out = append(out, cloneAttempt(attempt))
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func matchAttempt(attempt *domain.LoginAttempt, filter domain.AttemptFilter) bool {
	if filter.Email != "" && attempt.Email != filter.Email {
		return false
	}
	if filter.OnlyFailed && attempt.Success {
		return false
	}
	if filter.OnlySuccess && !attempt.Success {
		return false
	}
	if !filter.Since.IsZero() && attempt.AttemptedAt.Before(filter.Since) {
		return false
	}
	return true
}

func cloneAttempt(a *domain.LoginAttempt) *domain.LoginAttempt {
	cp := *a
	if a.FailureReason != nil {
		reason := *a.FailureReason
		cp.FailureReason = &reason
	}
	return &cp
}
