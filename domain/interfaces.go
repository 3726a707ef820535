package domain

import (
	"context"
	"time"
)

// Clock abstracts wall-clock reads so expiry logic is testable
type Clock interface {
	Now() time.Time
}

// UserRepository defines user data access operations.
// Email lookups are case-insensitive.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	Update(ctx context.Context, user *User) error
}

// SessionRepository defines session data access operations
type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	FindByID(ctx context.Context, sessionID string) (*Session, error)
	FindByAccessToken(ctx context.Context, token string) (*Session, error)
	FindByRefreshToken(ctx context.Context, token string) (*Session, error)
	Update(ctx context.Context, session *Session) error
	DeactivateByUser(ctx context.Context, userID string) error
}

// MFADeviceRepository defines MFA device data access operations
type MFADeviceRepository interface {
	Create(ctx context.Context, device *MFADevice) error
	FindByID(ctx context.Context, deviceID string) (*MFADevice, error)
	FindByUser(ctx context.Context, userID string) ([]*MFADevice, error)
	Update(ctx context.Context, device *MFADevice) error
}

// ResetTokenRepository defines password-reset token data access operations
type ResetTokenRepository interface {
	Create(ctx context.Context, token *PasswordResetToken) error
	FindByToken(ctx context.Context, token string) (*PasswordResetToken, error)
	Update(ctx context.Context, token *PasswordResetToken) error
}

// AuditLogRepository stores append-only audit entries
type AuditLogRepository interface {
	Append(ctx context.Context, entry *AuditEntry) error
	Query(ctx context.Context, filter AuditFilter, limit int) ([]*AuditEntry, error)
}

// LoginAttemptRepository stores append-only login attempts
type LoginAttemptRepository interface {
	Append(ctx context.Context, attempt *LoginAttempt) error
	Query(ctx context.Context, filter AttemptFilter, limit int) ([]*LoginAttempt, error)
}

// RateLimiter tracks attempt counts per key within a fixed window.
// A fresh attempt after the window elapses resets the counter to 1.
type RateLimiter interface {
	IsLimited(key string) bool
	RecordAttempt(key string)
	Reset(key string)
}

// PasswordService defines password hashing and policy operations
type PasswordService interface {
	Hash(password string) (string, error)
	Verify(hashedPassword, password string) bool
	ValidateStrength(password string) error
}

// TokenClaims represents the claims carried by an access token
type TokenClaims struct {
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}

// TokenService defines token minting and validation operations
type TokenService interface {
	GenerateAccessToken(userID, sessionID string) (string, error)
	ValidateAccessToken(token string) (*TokenClaims, error)
	GenerateOpaqueToken() (string, error)
}

// SessionService issues, validates, rotates and revokes sessions
type SessionService interface {
	Create(ctx context.Context, user *User, device DeviceInfo) (*Session, error)
	Validate(ctx context.Context, accessToken string) (*Session, error)
	Refresh(ctx context.Context, refreshToken string) (*Session, error)
	InvalidateAllForUser(ctx context.Context, userID string) error
	Logout(ctx context.Context, sessionID string) error
}

// MFAService enrolls and verifies second-factor devices
type MFAService interface {
	Setup(ctx context.Context, userID string, deviceType MFADeviceType, name string) (*MFASetupResult, error)
	ConfirmDevice(ctx context.Context, userID, deviceID, code string) error
	VerifyCode(ctx context.Context, userID, code string) (bool, error)
	Challenge(ctx context.Context, userID string) error
	HasVerifiedDevice(ctx context.Context, userID string) (bool, error)
}

// ResetService issues and redeems single-use password-reset tokens
type ResetService interface {
	Request(ctx context.Context, email string) error
	Redeem(ctx context.Context, token, newPassword string) (*User, error)
}

// AuditService records security events without ever failing the caller
type AuditService interface {
	RecordEntry(ctx context.Context, entry *AuditEntry)
	RecordAttempt(ctx context.Context, attempt *LoginAttempt)
	QueryAudit(ctx context.Context, filter AuditFilter, limit int) ([]*AuditEntry, error)
	QueryAttempts(ctx context.Context, filter AttemptFilter, limit int) ([]*LoginAttempt, error)
}

// NotificationService defines notification operations
type NotificationService interface {
	SendSMS(to, message string) error
	SendEmail(to, subject, body string) error
}

// AuthService defines the authentication orchestration surface
type AuthService interface {
	Register(ctx context.Context, email, username, password string, metadata map[string]string) (*User, error)
	Login(ctx context.Context, email, password, mfaCode string, device DeviceInfo) (*AuthResult, error)
	Logout(ctx context.Context, sessionID string) error
	RefreshSession(ctx context.Context, refreshToken string) (*AuthResult, error)
	SetupMFA(ctx context.Context, userID string, deviceType MFADeviceType, name string) (*MFASetupResult, error)
	ConfirmMFADevice(ctx context.Context, userID, deviceID, code string) error
	RequestPasswordReset(ctx context.Context, email string) error
	RedeemPasswordReset(ctx context.Context, token, newPassword string) error
	VerifyEmail(ctx context.Context, userID string) error
	GetUserProfile(ctx context.Context, userID string) (*User, error)
}
