package mocks

import (
	"context"

	"github.com/you/authsvc/domain"
)

// MockAuthService implements domain.AuthService for handler testing
type MockAuthService struct {
	RegisterFunc             func(ctx context.Context, email, username, password string, metadata map[string]string) (*domain.User, error)
	LoginFunc                func(ctx context.Context, email, password, mfaCode string, device domain.DeviceInfo) (*domain.AuthResult, error)
	LogoutFunc               func(ctx context.Context, sessionID string) error
	RefreshSessionFunc       func(ctx context.Context, refreshToken string) (*domain.AuthResult, error)
	SetupMFAFunc             func(ctx context.Context, userID string, deviceType domain.MFADeviceType, name string) (*domain.MFASetupResult, error)
	ConfirmMFADeviceFunc     func(ctx context.Context, userID, deviceID, code string) error
	RequestPasswordResetFunc func(ctx context.Context, email string) error
	RedeemPasswordResetFunc  func(ctx context.Context, token, newPassword string) error
	VerifyEmailFunc          func(ctx context.Context, userID string) error
	GetUserProfileFunc       func(ctx context.Context, userID string) (*domain.User, error)
}

// NewMockAuthService creates a new MockAuthService
func NewMockAuthService() *MockAuthService {
	return &MockAuthService{}
}

// Register registers a user
func (m *MockAuthService) Register(ctx context.Context, email, username, password string, metadata map[string]string) (*domain.User, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, email, username, password, metadata)
	}
	return &domain.User{ID: "user-1", Email: email, Username: username, Status: domain.StatusPendingVerification}, nil
}

// Login authenticates a user
func (m *MockAuthService) Login(ctx context.Context, email, password, mfaCode string, device domain.DeviceInfo) (*domain.AuthResult, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password, mfaCode, device)
	}
	return nil, domain.ErrInvalidCredentials
}

// Logout ends a session
func (m *MockAuthService) Logout(ctx context.Context, sessionID string) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx, sessionID)
	}
	return nil
}

// RefreshSession rotates a refresh token
func (m *MockAuthService) RefreshSession(ctx context.Context, refreshToken string) (*domain.AuthResult, error) {
	if m.RefreshSessionFunc != nil {
		return m.RefreshSessionFunc(ctx, refreshToken)
	}
	return nil, domain.ErrTokenInvalid
}

// SetupMFA enrolls a device
func (m *MockAuthService) SetupMFA(ctx context.Context, userID string, deviceType domain.MFADeviceType, name string) (*domain.MFASetupResult, error) {
	if m.SetupMFAFunc != nil {
		return m.SetupMFAFunc(ctx, userID, deviceType, name)
	}
	return &domain.MFASetupResult{DeviceID: "device-1"}, nil
}

// ConfirmMFADevice confirms an enrolled device
func (m *MockAuthService) ConfirmMFADevice(ctx context.Context, userID, deviceID, code string) error {
	if m.ConfirmMFADeviceFunc != nil {
		return m.ConfirmMFADeviceFunc(ctx, userID, deviceID, code)
	}
	return nil
}

// RequestPasswordReset issues a reset token
func (m *MockAuthService) RequestPasswordReset(ctx context.Context, email string) error {
	if m.RequestPasswordResetFunc != nil {
		return m.RequestPasswordResetFunc(ctx, email)
	}
	return nil
}

// RedeemPasswordReset consumes a reset token
func (m *MockAuthService) RedeemPasswordReset(ctx context.Context, token, newPassword string) error {
	if m.RedeemPasswordResetFunc != nil {
		return m.RedeemPasswordResetFunc(ctx, token, newPassword)
	}
	return nil
}

// VerifyEmail marks an address verified
func (m *MockAuthService) VerifyEmail(ctx context.Context, userID string) error {
	if m.VerifyEmailFunc != nil {
		return m.VerifyEmailFunc(ctx, userID)
	}
	return nil
}

// GetUserProfile returns a user
func (m *MockAuthService) GetUserProfile(ctx context.Context, userID string) (*domain.User, error) {
	if m.GetUserProfileFunc != nil {
		return m.GetUserProfileFunc(ctx, userID)
	}
	return nil, domain.ErrUserNotFound
}
