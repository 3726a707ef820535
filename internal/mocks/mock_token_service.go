package mocks

import (
	"fmt"
	"sync/atomic"

	"github.com/you/authsvc/domain"
)

// MockTokenService implements domain.TokenService for testing
type MockTokenService struct {
	GenerateAccessTokenFunc func(userID, sessionID string) (string, error)
	ValidateAccessTokenFunc func(token string) (*domain.TokenClaims, error)
	GenerateOpaqueTokenFunc func() (string, error)

	counter atomic.Int64
}

// NewMockTokenService creates a new MockTokenService with default behaviors
func NewMockTokenService() *MockTokenService {
	return &MockTokenService{}
}

// GenerateAccessToken mints a deterministic token
func (m *MockTokenService) GenerateAccessToken(userID, sessionID string) (string, error) {
	if m.GenerateAccessTokenFunc != nil {
		return m.GenerateAccessTokenFunc(userID, sessionID)
	}
	return fmt.Sprintf("access:%s:%s", userID, sessionID), nil
}

// ValidateAccessToken parses the deterministic token format
func (m *MockTokenService) ValidateAccessToken(token string) (*domain.TokenClaims, error) {
	if m.ValidateAccessTokenFunc != nil {
		return m.ValidateAccessTokenFunc(token)
	}
	var userID, sessionID string
	if _, err := fmt.Sscanf(token, "access:%s", &userID); err != nil {
		return nil, domain.ErrTokenInvalid
	}
	for i := range userID {
		if userID[i] == ':' {
			sessionID = userID[i+1:]
			userID = userID[:i]
			break
		}
	}
	if sessionID == "" {
		return nil, domain.ErrTokenInvalid
	}
	return &domain.TokenClaims{UserID: userID, SessionID: sessionID}, nil
}

// GenerateOpaqueToken mints a unique opaque token
func (m *MockTokenService) GenerateOpaqueToken() (string, error) {
	if m.GenerateOpaqueTokenFunc != nil {
		return m.GenerateOpaqueTokenFunc()
	}
	return fmt.Sprintf("opaque-%d", m.counter.Add(1)), nil
}
