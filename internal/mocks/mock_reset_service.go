package mocks

import (
	"context"

	"github.com/you/authsvc/domain"
)

// MockResetService implements domain.ResetService for testing
type MockResetService struct {
	RequestFunc func(ctx context.Context, email string) error
	RedeemFunc  func(ctx context.Context, token, newPassword string) (*domain.User, error)
}

// NewMockResetService creates a new MockResetService with default behaviors
func NewMockResetService() *MockResetService {
	return &MockResetService{}
}

// Request issues a reset token
func (m *MockResetService) Request(ctx context.Context, email string) error {
	if m.RequestFunc != nil {
		return m.RequestFunc(ctx, email)
	}
	return nil
}

// Redeem consumes a reset token
func (m *MockResetService) Redeem(ctx context.Context, token, newPassword string) (*domain.User, error) {
	if m.RedeemFunc != nil {
		return m.RedeemFunc(ctx, token, newPassword)
	}
	return nil, domain.ErrTokenInvalid
}
