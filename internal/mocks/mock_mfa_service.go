package mocks

import (
	"context"

	"github.com/you/authsvc/domain"
)

// MockMFAService implements domain.MFAService for testing
type MockMFAService struct {
	SetupFunc             func(ctx context.Context, userID string, deviceType domain.MFADeviceType, name string) (*domain.MFASetupResult, error)
	ConfirmDeviceFunc     func(ctx context.Context, userID, deviceID, code string) error
	VerifyCodeFunc        func(ctx context.Context, userID, code string) (bool, error)
	ChallengeFunc         func(ctx context.Context, userID string) error
	HasVerifiedDeviceFunc func(ctx context.Context, userID string) (bool, error)
}

// NewMockMFAService creates a new MockMFAService with default behaviors
func NewMockMFAService() *MockMFAService {
	return &MockMFAService{}
}

// Setup enrolls a device
func (m *MockMFAService) Setup(ctx context.Context, userID string, deviceType domain.MFADeviceType, name string) (*domain.MFASetupResult, error) {
	if m.SetupFunc != nil {
		return m.SetupFunc(ctx, userID, deviceType, name)
	}
	return &domain.MFASetupResult{
		DeviceID:      "device-1",
		Secret:        "SECRET",
		BackupCodes:   []string{"aaaa", "bbbb"},
		EnrollmentURI: "otpauth://totp/test",
	}, nil
}

// ConfirmDevice confirms an enrolled device
func (m *MockMFAService) ConfirmDevice(ctx context.Context, userID, deviceID, code string) error {
	if m.ConfirmDeviceFunc != nil {
		return m.ConfirmDeviceFunc(ctx, userID, deviceID, code)
	}
	return nil
}

// VerifyCode checks a second-factor code
func (m *MockMFAService) VerifyCode(ctx context.Context, userID, code string) (bool, error) {
	if m.VerifyCodeFunc != nil {
		return m.VerifyCodeFunc(ctx, userID, code)
	}
	return false, nil
}

// Challenge dispatches a challenge code
func (m *MockMFAService) Challenge(ctx context.Context, userID string) error {
	if m.ChallengeFunc != nil {
		return m.ChallengeFunc(ctx, userID)
	}
	return nil
}

// HasVerifiedDevice reports whether the user has a confirmed device
func (m *MockMFAService) HasVerifiedDevice(ctx context.Context, userID string) (bool, error) {
	if m.HasVerifiedDeviceFunc != nil {
		return m.HasVerifiedDeviceFunc(ctx, userID)
	}
	return false, nil
}
