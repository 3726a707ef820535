package auth

import (
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"github.com/you/authsvc/domain"
)

// PasswordServiceImpl implements domain.PasswordService using bcrypt.
// Each hash carries its own random salt.
type PasswordServiceImpl struct {
	cost      int
	minLength int
}

// NewPasswordService creates a new password service
func NewPasswordService(cost, minLength int) domain.PasswordService {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	if minLength == 0 {
		minLength = 8
	}
	return &PasswordServiceImpl{cost: cost, minLength: minLength}
}

// Hash implements domain.PasswordService
func (p *PasswordServiceImpl) Hash(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

// Verify implements domain.PasswordService
func (p *PasswordServiceImpl) Verify(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}

// ValidateStrength implements domain.PasswordService. The policy requires
// minimum length plus at least one upper, one lower and one digit.
func (p *PasswordServiceImpl) ValidateStrength(password string) error {
	if len(password) < p.minLength {
		return domain.ErrWeakPassword
	}

	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}

	if !hasUpper || !hasLower || !hasDigit {
		return domain.ErrWeakPassword
	}
	return nil
}
