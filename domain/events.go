package domain

import "time"

// AuditAction defines the type of security-relevant action being recorded
type AuditAction string

const (
	ActionLogin             AuditAction = "LOGIN"
	ActionLogout            AuditAction = "LOGOUT"
	ActionPasswordChanged   AuditAction = "PASSWORD_CHANGED"
	ActionPasswordReset     AuditAction = "PASSWORD_RESET"
	ActionMFAEnabled        AuditAction = "MFA_ENABLED"
	ActionMFADisabled       AuditAction = "MFA_DISABLED"
	ActionEmailVerified     AuditAction = "EMAIL_VERIFIED"
	ActionAccountCreated    AuditAction = "ACCOUNT_CREATED"
	ActionAccountSuspended  AuditAction = "ACCOUNT_SUSPENDED"
	ActionAccountDeleted    AuditAction = "ACCOUNT_DELETED"
	ActionPermissionGranted AuditAction = "PERMISSION_GRANTED"
	ActionPermissionRevoked AuditAction = "PERMISSION_REVOKED"
)

// AuditSeverity classifies how alarming an audit entry is
type AuditSeverity string

const (
	SeverityInfo     AuditSeverity = "info"
	SeverityWarning  AuditSeverity = "warning"
	SeverityCritical AuditSeverity = "critical"
)

// AuditEntry is an append-only record of a security-relevant action.
// UserID is empty for pre-authentication events.
type AuditEntry struct {
	ID        string
	UserID    string
	Action    AuditAction
	Resource  string
	Details   map[string]string
	IPAddress string
	Timestamp time.Time
	Severity  AuditSeverity
}

// NewAuditEntry creates an audit entry with common fields populated
func NewAuditEntry(action AuditAction, userID string) *AuditEntry {
	return &AuditEntry{
		UserID:   userID,
		Action:   action,
		Details:  make(map[string]string),
		Severity: SeverityInfo,
	}
}

// WithSeverity sets the severity level
func (e *AuditEntry) WithSeverity(sev AuditSeverity) *AuditEntry {
	e.Severity = sev
	return e
}

// WithResource sets the resource reference
func (e *AuditEntry) WithResource(resource string) *AuditEntry {
	e.Resource = resource
	return e
}

// WithIPAddress sets the originating address
func (e *AuditEntry) WithIPAddress(addr string) *AuditEntry {
	e.IPAddress = addr
	return e
}

// WithDetail adds one detail key to the entry
func (e *AuditEntry) WithDetail(key, value string) *AuditEntry {
	e.Details[key] = value
	return e
}

// AuditFilter narrows an audit log query. Zero values match everything.
type AuditFilter struct {
	UserID   string
	Action   AuditAction
	Severity AuditSeverity
	Since    time.Time
}

// AttemptFilter narrows a login-attempt query. Zero values match everything.
type AttemptFilter struct {
	Email       string
	OnlyFailed  bool
	OnlySuccess bool
	Since       time.Time
}
