package repositories

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/you/authsvc/domain"
)

// SessionRepositoryImpl implements domain.SessionRepository with an
// in-memory store indexed by ID, access token and refresh token. Expired
// sessions are not swept; validity is checked lazily by callers.
type SessionRepositoryImpl struct {
	mu        sync.RWMutex
	byID      map[string]*domain.Session
	byAccess  map[string]string
	byRefresh map[string]string
	byUser    map[string]map[string]struct{}
}

// NewSessionRepository creates a new in-memory session repository
func NewSessionRepository() domain.SessionRepository {
	return &SessionRepositoryImpl{
		byID:      make(map[string]*domain.Session),
		byAccess:  make(map[string]string),
		byRefresh: make(map[string]string),
		byUser:    make(map[string]map[string]struct{}),
	}
}

// Create implements domain.SessionRepository
func (r *SessionRepositoryImpl) Create(ctx context.Context, session *domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if session.ID == "" {
		session.ID = uuid.NewString()
	}

	r.byID[session.ID] = cloneSession(session)
	r.byAccess[session.AccessToken] = session.ID
	r.byRefresh[session.RefreshToken] = session.ID
	if r.byUser[session.UserID] == nil {
		r.byUser[session.UserID] = make(map[string]struct{})
	}
	r.byUser[session.UserID][session.ID] = struct{}{}
	return nil
}

// FindByID implements domain.SessionRepository
func (r *SessionRepositoryImpl) FindByID(ctx context.Context, sessionID string) (*domain.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.byID[sessionID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return cloneSession(session), nil
}

// FindByAccessToken implements domain.SessionRepository
func (r *SessionRepositoryImpl) FindByAccessToken(ctx context.Context, token string) (*domain.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byAccess[token]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return cloneSession(r.byID[id]), nil
}

// FindByRefreshToken implements domain.SessionRepository
func (r *SessionRepositoryImpl) FindByRefreshToken(ctx context.Context, token string) (*domain.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byRefresh[token]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return cloneSession(r.byID[id]), nil
}

// Update implements domain.SessionRepository
func (r *SessionRepositoryImpl) Update(ctx context.Context, session *domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[session.ID]; !ok {
		return domain.ErrSessionNotFound
	}
	r.byID[session.ID] = cloneSession(session)
	return nil
}

// DeactivateByUser implements domain.SessionRepository. Every session
// owned by the user is switched off in a single critical section.
func (r *SessionRepositoryImpl) DeactivateByUser(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id := range r.byUser[userID] {
		if session, ok := r.byID[id]; ok {
			session.Active = false
		}
	}
	return nil
}

func cloneSession(s *domain.Session) *domain.Session {
	cp := *s
	if s.Location != nil {
		loc := *s.Location
		cp.Location = &loc
	}
	return &cp
}
