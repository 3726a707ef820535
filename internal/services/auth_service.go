package services

import (
	"context"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/you/authsvc/domain"
)

// dummyHash keeps the unknown-user login path doing the same bcrypt work
// as the wrong-password path, so the two are not separable by timing.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// AuthServiceImpl implements domain.AuthService by composing the rate
// limiter, credential store, session manager, MFA subsystem, reset flow
// and audit log.
type AuthServiceImpl struct {
	userRepo    domain.UserRepository
	sessionSvc  domain.SessionService
	passwordSvc domain.PasswordService
	mfaSvc      domain.MFAService
	resetSvc    domain.ResetService
	rateLimiter domain.RateLimiter
	auditSvc    domain.AuditService
	clock       domain.Clock
	logger      *slog.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo domain.UserRepository,
	sessionSvc domain.SessionService,
	passwordSvc domain.PasswordService,
	mfaSvc domain.MFAService,
	resetSvc domain.ResetService,
	rateLimiter domain.RateLimiter,
	auditSvc domain.AuditService,
	clock domain.Clock,
	logger *slog.Logger,
) domain.AuthService {
	return &AuthServiceImpl{
		userRepo:    userRepo,
		sessionSvc:  sessionSvc,
		passwordSvc: passwordSvc,
		mfaSvc:      mfaSvc,
		resetSvc:    resetSvc,
		rateLimiter: rateLimiter,
		auditSvc:    auditSvc,
		clock:       clock,
		logger:      logger,
	}
}

// Register implements domain.AuthService. Validation order: email shape,
// password strength, then uniqueness at the store. No session is created;
// verification is a separate step.
func (s *AuthServiceImpl) Register(ctx context.Context, email, username, password string, metadata map[string]string) (*domain.User, error) {
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, domain.ErrInvalidEmail
	}
	if err := s.passwordSvc.ValidateStrength(password); err != nil {
		return nil, err
	}

	hash, err := s.passwordSvc.Hash(password)
	if err != nil {
		s.logger.Error("password hashing failed", "error", err)
		return nil, err
	}

	now := s.clock.Now()
	user := &domain.User{
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		Status:       domain.StatusPendingVerification,
		CreatedAt:    now,
		UpdatedAt:    now,
		Metadata:     metadata,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.auditSvc.RecordEntry(ctx, domain.NewAuditEntry(domain.ActionAccountCreated, user.ID).
		WithResource("user:"+user.ID).
		WithDetail("email", user.Email))

	s.logger.Info("user registered", "user_id", user.ID)
	return user, nil
}

// Login implements domain.AuthService. Ordering: rate limit, lookup,
// password, account status, MFA gate, session. Every failure before
// session creation records an attempt and feeds the limiter, except the
// MFA-required short circuit, which is not an attack signal.
func (s *AuthServiceImpl) Login(ctx context.Context, email, password, mfaCode string, device domain.DeviceInfo) (*domain.AuthResult, error) {
	key := "login:" + strings.ToLower(email)

	if s.rateLimiter.IsLimited(key) {
		s.recordFailure(ctx, email, device, "rate_limit_exceeded", mfaCode != "")
		s.rateLimiter.RecordAttempt(key)
		return nil, domain.ErrRateLimitExceeded
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		// Same work and same error as a wrong password
		s.passwordSvc.Verify(dummyHash, password)
		s.recordFailure(ctx, email, device, "invalid_credentials", mfaCode != "")
		s.rateLimiter.RecordAttempt(key)
		return nil, domain.ErrInvalidCredentials
	}

	if !s.passwordSvc.Verify(user.PasswordHash, password) {
		s.recordFailure(ctx, email, device, "invalid_credentials", mfaCode != "")
		s.rateLimiter.RecordAttempt(key)
		return nil, domain.ErrInvalidCredentials
	}

	if !user.CanLogin() {
		if user.Status == domain.StatusSuspended {
			s.recordFailure(ctx, email, device, "account_suspended", mfaCode != "")
			s.rateLimiter.RecordAttempt(key)
			return nil, domain.ErrAccountSuspended
		}
		// Deleted accounts are indistinguishable from unknown ones
		s.recordFailure(ctx, email, device, "invalid_credentials", mfaCode != "")
		s.rateLimiter.RecordAttempt(key)
		return nil, domain.ErrInvalidCredentials
	}

	mfaUsed := false
	if user.MFAEnabled {
		gated, err := s.mfaSvc.HasVerifiedDevice(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		if gated {
			if mfaCode == "" {
				// Not a failure, not a success: the caller should prompt
				// for a second factor and retry
				if err := s.mfaSvc.Challenge(ctx, user.ID); err != nil {
					s.logger.Error("mfa challenge dispatch failed", "user_id", user.ID, "error", err)
				}
				return &domain.AuthResult{User: user, MFARequired: true}, nil
			}
			ok, err := s.mfaSvc.VerifyCode(ctx, user.ID, mfaCode)
			if err != nil || !ok {
				s.recordFailure(ctx, email, device, "invalid_mfa_code", true)
				s.rateLimiter.RecordAttempt(key)
				return nil, domain.ErrInvalidMFACode
			}
			mfaUsed = true
		}
	}

	session, err := s.sessionSvc.Create(ctx, user, device)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	user.LastLoginAt = &now
	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error("last login update failed", "user_id", user.ID, "error", err)
	}

	s.rateLimiter.Reset(key)
	s.auditSvc.RecordAttempt(ctx, &domain.LoginAttempt{
		Email:     email,
		Success:   true,
		IPAddress: device.IPAddress,
		Device:    device.Device,
		MFAUsed:   mfaUsed,
	})
	s.auditSvc.RecordEntry(ctx, domain.NewAuditEntry(domain.ActionLogin, user.ID).
		WithResource("session:"+session.ID).
		WithIPAddress(device.IPAddress))

	return &domain.AuthResult{
		User:         user,
		Session:      session,
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
		ExpiresIn:    int64(session.ExpiresAt.Sub(now).Seconds()),
	}, nil
}

// Logout implements domain.AuthService. Idempotent by delegation.
func (s *AuthServiceImpl) Logout(ctx context.Context, sessionID string) error {
	if err := s.sessionSvc.Logout(ctx, sessionID); err != nil {
		return err
	}
	s.auditSvc.RecordEntry(ctx, domain.NewAuditEntry(domain.ActionLogout, "").
		WithResource("session:"+sessionID))
	return nil
}

// RefreshSession implements domain.AuthService
func (s *AuthServiceImpl) RefreshSession(ctx context.Context, refreshToken string) (*domain.AuthResult, error) {
	session, err := s.sessionSvc.Refresh(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, session.UserID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	return &domain.AuthResult{
		User:         user,
		Session:      session,
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
		ExpiresIn:    int64(session.ExpiresAt.Sub(s.clock.Now()).Seconds()),
	}, nil
}

// SetupMFA implements domain.AuthService
func (s *AuthServiceImpl) SetupMFA(ctx context.Context, userID string, deviceType domain.MFADeviceType, name string) (*domain.MFASetupResult, error) {
	return s.mfaSvc.Setup(ctx, userID, deviceType, name)
}

// ConfirmMFADevice implements domain.AuthService. A confirmed device
// turns the account's MFA gate on.
func (s *AuthServiceImpl) ConfirmMFADevice(ctx context.Context, userID, deviceID, code string) error {
	if err := s.mfaSvc.ConfirmDevice(ctx, userID, deviceID, code); err != nil {
		return err
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if !user.MFAEnabled {
		user.MFAEnabled = true
		user.UpdatedAt = s.clock.Now()
		if err := s.userRepo.Update(ctx, user); err != nil {
			return err
		}
		s.auditSvc.RecordEntry(ctx, domain.NewAuditEntry(domain.ActionMFAEnabled, userID).
			WithResource("device:"+deviceID).
			WithSeverity(domain.SeverityWarning))
	}
	return nil
}

// RequestPasswordReset implements domain.AuthService. Always succeeds at
// the contract level regardless of whether the email exists.
func (s *AuthServiceImpl) RequestPasswordReset(ctx context.Context, email string) error {
	return s.resetSvc.Request(ctx, email)
}

// RedeemPasswordReset implements domain.AuthService
func (s *AuthServiceImpl) RedeemPasswordReset(ctx context.Context, token, newPassword string) error {
	user, err := s.resetSvc.Redeem(ctx, token, newPassword)
	if err != nil {
		return err
	}
	s.auditSvc.RecordEntry(ctx, domain.NewAuditEntry(domain.ActionPasswordReset, user.ID).
		WithResource("user:"+user.ID).
		WithSeverity(domain.SeverityWarning))
	return nil
}

// VerifyEmail implements domain.AuthService. Marks the address verified
// and promotes a pending account to active.
func (s *AuthServiceImpl) VerifyEmail(ctx context.Context, userID string) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	user.EmailVerified = true
	if user.Status == domain.StatusPendingVerification {
		user.Status = domain.StatusActive
	}
	user.UpdatedAt = s.clock.Now()
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	s.auditSvc.RecordEntry(ctx, domain.NewAuditEntry(domain.ActionEmailVerified, userID).
		WithResource("user:"+userID))
	return nil
}

// GetUserProfile implements domain.AuthService
func (s *AuthServiceImpl) GetUserProfile(ctx context.Context, userID string) (*domain.User, error) {
	return s.userRepo.FindByID(ctx, userID)
}

// recordFailure appends a failed attempt record, best-effort
func (s *AuthServiceImpl) recordFailure(ctx context.Context, email string, device domain.DeviceInfo, reason string, mfaUsed bool) {
	s.auditSvc.RecordAttempt(ctx, &domain.LoginAttempt{
		Email:         email,
		Success:       false,
		FailureReason: &reason,
		IPAddress:     device.IPAddress,
		Device:        device.Device,
		MFAUsed:       mfaUsed,
	})
}
