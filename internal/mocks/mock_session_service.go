package mocks

import (
	"context"
	"time"

	"github.com/you/authsvc/domain"
)

// MockSessionService implements domain.SessionService for testing
type MockSessionService struct {
	CreateFunc               func(ctx context.Context, user *domain.User, device domain.DeviceInfo) (*domain.Session, error)
	ValidateFunc             func(ctx context.Context, accessToken string) (*domain.Session, error)
	RefreshFunc              func(ctx context.Context, refreshToken string) (*domain.Session, error)
	InvalidateAllForUserFunc func(ctx context.Context, userID string) error
	LogoutFunc               func(ctx context.Context, sessionID string) error
}

// NewMockSessionService creates a new MockSessionService with default behaviors
func NewMockSessionService() *MockSessionService {
	return &MockSessionService{}
}

// Create creates a session
func (m *MockSessionService) Create(ctx context.Context, user *domain.User, device domain.DeviceInfo) (*domain.Session, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user, device)
	}
	now := time.Now()
	return &domain.Session{
		ID:           "session-1",
		UserID:       user.ID,
		AccessToken:  "access-token",
		RefreshToken: "refresh-token",
		Device:       device.Device,
		IPAddress:    device.IPAddress,
		CreatedAt:    now,
		ExpiresAt:    now.Add(24 * time.Hour),
		Active:       true,
	}, nil
}

// Validate validates an access token
func (m *MockSessionService) Validate(ctx context.Context, accessToken string) (*domain.Session, error) {
	if m.ValidateFunc != nil {
		return m.ValidateFunc(ctx, accessToken)
	}
	return nil, domain.ErrSessionNotFound
}

// Refresh rotates a refresh token
func (m *MockSessionService) Refresh(ctx context.Context, refreshToken string) (*domain.Session, error) {
	if m.RefreshFunc != nil {
		return m.RefreshFunc(ctx, refreshToken)
	}
	return nil, domain.ErrTokenInvalid
}

// InvalidateAllForUser deactivates every session for a user
func (m *MockSessionService) InvalidateAllForUser(ctx context.Context, userID string) error {
	if m.InvalidateAllForUserFunc != nil {
		return m.InvalidateAllForUserFunc(ctx, userID)
	}
	return nil
}

// Logout deactivates one session
func (m *MockSessionService) Logout(ctx context.Context, sessionID string) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx, sessionID)
	}
	return nil
}
