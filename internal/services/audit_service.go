package services

import (
	"context"
	"log/slog"

	"github.com/you/authsvc/domain"
)

// AuditServiceImpl implements domain.AuditService. Recording is
// best-effort: a failed append is logged and swallowed so it can never
// abort the primary operation.
type AuditServiceImpl struct {
	auditRepo   domain.AuditLogRepository
	attemptRepo domain.LoginAttemptRepository
	clock       domain.Clock
	logger      *slog.Logger
}

// NewAuditService creates a new audit service
func NewAuditService(auditRepo domain.AuditLogRepository, attemptRepo domain.LoginAttemptRepository, clock domain.Clock, logger *slog.Logger) domain.AuditService {
	return &AuditServiceImpl{
		auditRepo:   auditRepo,
		attemptRepo: attemptRepo,
		clock:       clock,
		logger:      logger,
	}
}

// RecordEntry implements domain.AuditService
func (s *AuditServiceImpl) RecordEntry(ctx context.Context, entry *domain.AuditEntry) {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = s.clock.Now()
	}
	if entry.Severity == "" {
		entry.Severity = domain.SeverityInfo
	}
	if err := s.auditRepo.Append(ctx, entry); err != nil {
		s.logger.Error("audit append failed", "action", entry.Action, "error", err)
	}
}

// RecordAttempt implements domain.AuditService
func (s *AuditServiceImpl) RecordAttempt(ctx context.Context, attempt *domain.LoginAttempt) {
	if attempt.AttemptedAt.IsZero() {
		attempt.AttemptedAt = s.clock.Now()
	}
	if err := s.attemptRepo.Append(ctx, attempt); err != nil {
		s.logger.Error("attempt append failed", "email", attempt.Email, "error", err)
	}
}

// QueryAudit implements domain.AuditService
func (s *AuditServiceImpl) QueryAudit(ctx context.Context, filter domain.AuditFilter, limit int) ([]*domain.AuditEntry, error) {
	return s.auditRepo.Query(ctx, filter, limit)
}

// QueryAttempts implements domain.AuditService
func (s *AuditServiceImpl) QueryAttempts(ctx context.Context, filter domain.AttemptFilter, limit int) ([]*domain.LoginAttempt, error) {
	return s.attemptRepo.Query(ctx, filter, limit)
}
