package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/you/authsvc/domain"
)

// SessionServiceImpl implements domain.SessionService. Refresh tokens are
// single-use: a refresh deactivates the old session and issues a new one.
type SessionServiceImpl struct {
	sessionRepo     domain.SessionRepository
	userRepo        domain.UserRepository
	tokenSvc        domain.TokenService
	clock           domain.Clock
	sessionDuration time.Duration

	// rotateMu makes the lookup-check-deactivate sequence in Refresh
	// atomic, so one refresh token cannot be redeemed twice by racing
	// callers
	rotateMu sync.Mutex
}

// NewSessionService creates a new session service
func NewSessionService(sessionRepo domain.SessionRepository, userRepo domain.UserRepository, tokenSvc domain.TokenService, clock domain.Clock, sessionDuration time.Duration) domain.SessionService {
	return &SessionServiceImpl{
		sessionRepo:     sessionRepo,
		userRepo:        userRepo,
		tokenSvc:        tokenSvc,
		clock:           clock,
		sessionDuration: sessionDuration,
	}
}

// Create implements domain.SessionService
func (s *SessionServiceImpl) Create(ctx context.Context, user *domain.User, device domain.DeviceInfo) (*domain.Session, error) {
	refreshToken, err := s.tokenSvc.GenerateOpaqueToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	now := s.clock.Now()
	session := &domain.Session{
		ID:             uuid.NewString(),
		UserID:         user.ID,
		RefreshToken:   refreshToken,
		Device:         device.Device,
		IPAddress:      device.IPAddress,
		Location:       device.Location,
		CreatedAt:      now,
		ExpiresAt:      now.Add(s.sessionDuration),
		LastActivityAt: now,
		Active:         true,
	}

	// The access token carries the session ID, so the ID is minted here
	// rather than by the store
	accessToken, err := s.tokenSvc.GenerateAccessToken(user.ID, session.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	session.AccessToken = accessToken

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return session, nil
}

// Validate implements domain.SessionService. Returns the session when the
// token is genuine and the session is active and unexpired.
func (s *SessionServiceImpl) Validate(ctx context.Context, accessToken string) (*domain.Session, error) {
	claims, err := s.tokenSvc.ValidateAccessToken(accessToken)
	if err != nil {
		return nil, err
	}

	session, err := s.sessionRepo.FindByID(ctx, claims.SessionID)
	if err != nil {
		return nil, domain.ErrSessionNotFound
	}
	if !session.IsValid(s.clock.Now()) {
		return nil, domain.ErrSessionExpired
	}
	if session.UserID != claims.UserID {
		return nil, domain.ErrTokenInvalid
	}

	session.LastActivityAt = s.clock.Now()
	if err := s.sessionRepo.Update(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Refresh implements domain.SessionService. Rotation: the presented
// refresh token's session is deactivated before the replacement is
// issued, so a second refresh with the same token fails.
func (s *SessionServiceImpl) Refresh(ctx context.Context, refreshToken string) (*domain.Session, error) {
	s.rotateMu.Lock()
	defer s.rotateMu.Unlock()

	session, err := s.sessionRepo.FindByRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, domain.ErrTokenInvalid
	}
	if !session.Active {
		return nil, domain.ErrSessionExpired
	}
	if !s.clock.Now().Before(session.ExpiresAt) {
		return nil, domain.ErrSessionExpired
	}

	user, err := s.userRepo.FindByID(ctx, session.UserID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	session.Active = false
	if err := s.sessionRepo.Update(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to deactivate session: %w", err)
	}

	return s.Create(ctx, user, domain.DeviceInfo{
		Device:    session.Device,
		IPAddress: session.IPAddress,
		Location:  session.Location,
	})
}

// InvalidateAllForUser implements domain.SessionService
func (s *SessionServiceImpl) InvalidateAllForUser(ctx context.Context, userID string) error {
	return s.sessionRepo.DeactivateByUser(ctx, userID)
}

// Logout implements domain.SessionService. Idempotent: logging out a
// session that is already inactive or missing is not an error.
func (s *SessionServiceImpl) Logout(ctx context.Context, sessionID string) error {
	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return nil
	}
	if !session.Active {
		return nil
	}
	session.Active = false
	return s.sessionRepo.Update(ctx, session)
}
