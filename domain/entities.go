package domain

import "time"

// AccountStatus represents the lifecycle state of a user account
type AccountStatus string

const (
	StatusPendingVerification AccountStatus = "pending_verification"
	StatusActive              AccountStatus = "active"
	StatusSuspended           AccountStatus = "suspended"
	StatusDeleted             AccountStatus = "deleted"
)

// MFADeviceType represents the kind of second factor a device provides
type MFADeviceType string

const (
	MFATypeTOTP  MFADeviceType = "totp"
	MFATypeSMS   MFADeviceType = "sms"
	MFATypeEmail MFADeviceType = "email"
)

// User represents a user in the system
type User struct {
	ID            string
	Email         string
	Username      string
	PasswordHash  string
	EmailVerified bool
	PhoneVerified bool
	MFAEnabled    bool
	Status        AccountStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
	LastLoginAt   *time.Time
	Metadata      map[string]string
}

// CanLogin reports whether the account status permits authentication.
// Pending-verification accounts may still log in; verification gates
// other surfaces, not the credential check.
func (u *User) CanLogin() bool {
	return u.Status == StatusActive || u.Status == StatusPendingVerification
}

// DeviceInfo describes the client device originating a request
type DeviceInfo struct {
	Device    string
	IPAddress string
	Location  *string
}

// Session represents a live authenticated context bound to one device
type Session struct {
	ID             string
	UserID         string
	AccessToken    string
	RefreshToken   string
	Device         string
	IPAddress      string
	Location       *string
	CreatedAt      time.Time
	ExpiresAt      time.Time
	LastActivityAt time.Time
	Active         bool
}

// IsValid reports whether the session is usable at the given instant.
// Expiry is lazy: expired sessions stay in the store until rotated out.
func (s *Session) IsValid(now time.Time) bool {
	return s.Active && now.Before(s.ExpiresAt)
}

// MFADevice represents an enrolled second-factor device
type MFADevice struct {
	ID          string
	UserID      string
	Type        MFADeviceType
	Name        string
	Secret      string
	BackupCodes []BackupCode
	Verified    bool
	CreatedAt   time.Time
}

// BackupCode is a single-use recovery code, stored hashed
type BackupCode struct {
	CodeHash string
	UsedAt   *time.Time
}

// LoginAttempt is an append-only record of one authentication attempt
type LoginAttempt struct {
	ID            string
	Email         string
	Success       bool
	FailureReason *string
	IPAddress     string
	Device        string
	MFAUsed       bool
	AttemptedAt   time.Time
}

// PasswordResetToken authorizes exactly one password change
type PasswordResetToken struct {
	ID        string
	UserID    string
	Token     string
	ExpiresAt time.Time
	Used      bool
	CreatedAt time.Time
}

// IsValid reports whether the token can still be redeemed
func (t *PasswordResetToken) IsValid(now time.Time) bool {
	return !t.Used && now.Before(t.ExpiresAt)
}

// RateLimitBucket is a fixed-window attempt counter for one key
type RateLimitBucket struct {
	Key         string
	Attempts    int
	WindowStart time.Time
	Window      time.Duration
	MaxAttempts int
}

// Expired reports whether the counting window has elapsed
func (b *RateLimitBucket) Expired(now time.Time) bool {
	return !now.Before(b.WindowStart.Add(b.Window))
}

// AuthResult represents authentication outcome. When MFARequired is set
// no session was created and the caller must retry with a second factor.
type AuthResult struct {
	User         *User
	Session      *Session
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
	MFARequired  bool
}

// MFASetupResult carries the enrollment material returned once at setup
type MFASetupResult struct {
	DeviceID      string
	Secret        string
	BackupCodes   []string
	EnrollmentURI string
}
