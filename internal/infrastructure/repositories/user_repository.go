package repositories

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/you/authsvc/domain"
)

// UserRepositoryImpl implements domain.UserRepository with an in-memory
// store. All access is serialized through a single RWMutex so concurrent
// callers observe consistent snapshots.
type UserRepositoryImpl struct {
	mu      sync.RWMutex
	byID    map[string]*domain.User
	byEmail map[string]string
}

// NewUserRepository creates a new in-memory user repository
func NewUserRepository() domain.UserRepository {
	return &UserRepositoryImpl{
		byID:    make(map[string]*domain.User),
		byEmail: make(map[string]string),
	}
}

// Create implements domain.UserRepository. Email uniqueness is enforced
// case-insensitively.
func (r *UserRepositoryImpl) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.ToLower(user.Email)
	if _, exists := r.byEmail[key]; exists {
		return domain.ErrEmailExists
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}

	stored := cloneUser(user)
	r.byID[user.ID] = stored
	r.byEmail[key] = user.ID
	return nil
}

// FindByEmail implements domain.UserRepository
func (r *UserRepositoryImpl) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(r.byID[id]), nil
}

// FindByID implements domain.UserRepository
func (r *UserRepositoryImpl) FindByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(user), nil
}

// Update implements domain.UserRepository
func (r *UserRepositoryImpl) Update(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.byID[user.ID]
	if !ok {
		return domain.ErrUserNotFound
	}

	// Keep the email index coherent if the address changed
	oldKey := strings.ToLower(existing.Email)
	newKey := strings.ToLower(user.Email)
	if oldKey != newKey {
		if _, taken := r.byEmail[newKey]; taken {
			return domain.ErrEmailExists
		}
		delete(r.byEmail, oldKey)
		r.byEmail[newKey] = user.ID
	}

	r.byID[user.ID] = cloneUser(user)
	return nil
}

func cloneUser(u *domain.User) *domain.User {
	cp := *u
	if u.LastLoginAt != nil {
		t := *u.LastLoginAt
		cp.LastLoginAt = &t
	}
	if u.Metadata != nil {
		cp.Metadata = make(map[string]string, len(u.Metadata))
		for k, v := range u.Metadata {
			cp.Metadata[k] = v
		}
	}
	return &cp
}
