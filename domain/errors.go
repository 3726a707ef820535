package domain

import "errors"

// Registration errors
var (
	ErrInvalidEmail = errors.New("invalid email format")
	ErrEmailExists  = errors.New("email already registered")
	ErrWeakPassword = errors.New("password does not meet strength requirements")
)

// Authentication errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountSuspended   = errors.New("account is suspended")
	ErrRateLimitExceeded  = errors.New("too many attempts, try again later")
)

// MFA errors
var (
	ErrInvalidMFACode     = errors.New("invalid mfa code")
	ErrMFADeviceNotFound  = errors.New("mfa device not found")
	ErrChallengeNotFound  = errors.New("mfa challenge not found")
	ErrChallengeExpired   = errors.New("mfa challenge has expired")
	ErrTooManyMFAAttempts = errors.New("maximum mfa attempts exceeded")
)

// Token errors
var (
	ErrTokenInvalid = errors.New("invalid token")
	ErrTokenExpired = errors.New("token has expired")
)

// Session errors
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session has expired")
)
