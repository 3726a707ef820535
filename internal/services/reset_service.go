package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/you/authsvc/domain"
)

// ResetServiceImpl implements domain.ResetService. Requests never reveal
// whether the email is registered, and notification dispatch is
// fire-and-forget so the response does not depend on the notifier.
type ResetServiceImpl struct {
	userRepo        domain.UserRepository
	tokenRepo       domain.ResetTokenRepository
	sessionSvc      domain.SessionService
	passwordSvc     domain.PasswordService
	tokenSvc        domain.TokenService
	notificationSvc domain.NotificationService
	clock           domain.Clock
	tokenTTL        time.Duration
	logger          *slog.Logger
}

// NewResetService creates a new password-reset service
func NewResetService(
	userRepo domain.UserRepository,
	tokenRepo domain.ResetTokenRepository,
	sessionSvc domain.SessionService,
	passwordSvc domain.PasswordService,
	tokenSvc domain.TokenService,
	notificationSvc domain.NotificationService,
	clock domain.Clock,
	tokenTTL time.Duration,
	logger *slog.Logger,
) domain.ResetService {
	return &ResetServiceImpl{
		userRepo:        userRepo,
		tokenRepo:       tokenRepo,
		sessionSvc:      sessionSvc,
		passwordSvc:     passwordSvc,
		tokenSvc:        tokenSvc,
		notificationSvc: notificationSvc,
		clock:           clock,
		tokenTTL:        tokenTTL,
		logger:          logger,
	}
}

// Request implements domain.ResetService. Always reports success; the
// unknown-email path does the same work minus the store write so the two
// are not distinguishable by response or latency.
func (s *ResetServiceImpl) Request(ctx context.Context, email string) error {
	value, err := s.tokenSvc.GenerateOpaqueToken()
	if err != nil {
		s.logger.Error("reset token generation failed", "error", err)
		return nil
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil
	}

	now := s.clock.Now()
	token := &domain.PasswordResetToken{
		UserID:    user.ID,
		Token:     value,
		ExpiresAt: now.Add(s.tokenTTL),
		CreatedAt: now,
	}
	if err := s.tokenRepo.Create(ctx, token); err != nil {
		s.logger.Error("reset token store failed", "error", err)
		return nil
	}

	go func() {
		body := fmt.Sprintf("Use this token to reset your password: %s. It expires in %d minutes.", value, int(s.tokenTTL.Minutes()))
		if err := s.notificationSvc.SendEmail(user.Email, "Password reset", body); err != nil {
			s.logger.Error("reset notification failed", "error", err)
		}
	}()

	return nil
}

// Redeem implements domain.ResetService. Single-use: the token is marked
// used before the caller sees success, and every session for the user is
// invalidated before returning.
func (s *ResetServiceImpl) Redeem(ctx context.Context, token, newPassword string) (*domain.User, error) {
	record, err := s.tokenRepo.FindByToken(ctx, token)
	if err != nil {
		return nil, domain.ErrTokenInvalid
	}
	if record.Used {
		return nil, domain.ErrTokenInvalid
	}
	if !s.clock.Now().Before(record.ExpiresAt) {
		return nil, domain.ErrTokenExpired
	}

	if err := s.passwordSvc.ValidateStrength(newPassword); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, record.UserID)
	if err != nil {
		return nil, err
	}

	hash, err := s.passwordSvc.Hash(newPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user.PasswordHash = hash
	user.UpdatedAt = s.clock.Now()
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update password: %w", err)
	}

	record.Used = true
	if err := s.tokenRepo.Update(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to consume reset token: %w", err)
	}

	// A password reset logs out every device
	if err := s.sessionSvc.InvalidateAllForUser(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("failed to invalidate sessions: %w", err)
	}

	return user, nil
}
