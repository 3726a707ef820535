package repositories

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/you/authsvc/domain"
)

// ResetTokenRepositoryImpl implements domain.ResetTokenRepository with an
// in-memory store indexed by the opaque token value.
type ResetTokenRepositoryImpl struct {
	mu      sync.RWMutex
	byID    map[string]*domain.PasswordResetToken
	byToken map[string]string
}

// NewResetTokenRepository creates a new in-memory reset token repository
func NewResetTokenRepository() domain.ResetTokenRepository {
	return &ResetTokenRepositoryImpl{
		byID:    make(map[string]*domain.PasswordResetToken),
		byToken: make(map[string]string),
	}
}

// Create implements domain.ResetTokenRepository
func (r *ResetTokenRepositoryImpl) Create(ctx context.Context, token *domain.PasswordResetToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if token.ID == "" {
		token.ID = uuid.NewString()
	}
	cp := *token
	r.byID[token.ID] = &cp
	r.byToken[token.Token] = token.ID
	return nil
}

// FindByToken implements domain.ResetTokenRepository
func (r *ResetTokenRepositoryImpl) FindByToken(ctx context.Context, token string) (*domain.PasswordResetToken, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byToken[token]
	if !ok {
		return nil, domain.ErrTokenInvalid
	}
	cp := *r.byID[id]
	return &cp, nil
}

// Update implements domain.ResetTokenRepository. Used to mark a token as
// redeemed; the used flag is never cleared again.
func (r *ResetTokenRepositoryImpl) Update(ctx context.Context, token *domain.PasswordResetToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[token.ID]; !ok {
		return domain.ErrTokenInvalid
	}
	cp := *token
	r.byID[token.ID] = &cp
	return nil
}
