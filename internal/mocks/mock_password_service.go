package mocks

// MockPasswordService implements domain.PasswordService for testing
type MockPasswordService struct {
	HashFunc             func(password string) (string, error)
	VerifyFunc           func(hashedPassword, password string) bool
	ValidateStrengthFunc func(password string) error
}

// NewMockPasswordService creates a new MockPasswordService with default behaviors
func NewMockPasswordService() *MockPasswordService {
	return &MockPasswordService{}
}

// Hash hashes a password
func (m *MockPasswordService) Hash(password string) (string, error) {
	if m.HashFunc != nil {
		return m.HashFunc(password)
	}
	return "hashed_" + password, nil
}

// Verify verifies a password against a hash
func (m *MockPasswordService) Verify(hashedPassword, password string) bool {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(hashedPassword, password)
	}
	return hashedPassword == "hashed_"+password
}

// ValidateStrength checks a password against the policy
func (m *MockPasswordService) ValidateStrength(password string) error {
	if m.ValidateStrengthFunc != nil {
		return m.ValidateStrengthFunc(password)
	}
	return nil
}
