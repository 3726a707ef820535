package app

import (
	"log/slog"

	"github.com/you/authsvc/domain"
	"github.com/you/authsvc/internal/config"
	"github.com/you/authsvc/internal/infrastructure/auth"
	"github.com/you/authsvc/internal/infrastructure/clock"
	"github.com/you/authsvc/internal/infrastructure/notifications"
	"github.com/you/authsvc/internal/infrastructure/repositories"
	"github.com/you/authsvc/internal/services"
)

// Container holds all dependencies
type Container struct {
	Config *config.Config
	Logger *slog.Logger
	Clock  domain.Clock

	// Repositories
	UserRepo    domain.UserRepository
	SessionRepo domain.SessionRepository
	MFARepo     domain.MFADeviceRepository
	ResetRepo   domain.ResetTokenRepository
	AuditRepo   domain.AuditLogRepository
	AttemptRepo domain.LoginAttemptRepository

	// Services
	PasswordSvc     domain.PasswordService
	TokenSvc        domain.TokenService
	NotificationSvc domain.NotificationService
	SessionSvc      domain.SessionService
	MFASvc          domain.MFAService
	ResetSvc        domain.ResetService
	RateLimiter     domain.RateLimiter
	AuditSvc        domain.AuditService
	AuthSvc         domain.AuthService
}

// NewContainer creates and initializes all dependencies
func NewContainer(cfg *config.Config, logger *slog.Logger) *Container {
	c := &Container{
		Config: cfg,
		Logger: logger,
		Clock:  clock.System{},
	}

	c.initRepositories()
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	c.UserRepo = repositories.NewUserRepository()
	c.SessionRepo = repositories.NewSessionRepository()
	c.MFARepo = repositories.NewMFADeviceRepository()
	c.ResetRepo = repositories.NewResetTokenRepository()
	c.AuditRepo = repositories.NewAuditLogRepository()
	c.AttemptRepo = repositories.NewLoginAttemptRepository()
}

func (c *Container) initServices() {
	c.PasswordSvc = auth.NewPasswordService(c.Config.BcryptCost, c.Config.PasswordMinLength)
	c.TokenSvc = auth.NewJWTService(c.Config.JWTSecret, c.Config.JWTIssuer, c.Config.AccessTTL, c.Clock)

	if c.Config.TwilioSID != "" {
		c.NotificationSvc = notifications.NewTwilioService(c.Config.TwilioSID, c.Config.TwilioToken, c.Config.TwilioFrom, c.Logger)
	} else {
		c.NotificationSvc = notifications.NewLogService(c.Logger)
	}

	c.SessionSvc = services.NewSessionService(c.SessionRepo, c.UserRepo, c.TokenSvc, c.Clock, c.Config.SessionDuration)
	c.RateLimiter = services.NewRateLimiter(c.Config.RateLimitMax, c.Config.RateLimitWindow, c.Clock)
	c.AuditSvc = services.NewAuditService(c.AuditRepo, c.AttemptRepo, c.Clock, c.Logger)

	c.MFASvc = services.NewMFAService(c.MFARepo, c.UserRepo, c.NotificationSvc, c.Clock, services.MFAConfig{
		Issuer:       c.Config.MFAIssuer,
		CodeLength:   c.Config.MFACodeLength,
		ChallengeTTL: c.Config.MFAChallengeTTL,
		MaxAttempts:  c.Config.MFAMaxAttempts,
		BackupCodes:  c.Config.MFABackupCodes,
	})

	c.ResetSvc = services.NewResetService(
		c.UserRepo,
		c.ResetRepo,
		c.SessionSvc,
		c.PasswordSvc,
		c.TokenSvc,
		c.NotificationSvc,
		c.Clock,
		c.Config.ResetTokenTTL,
		c.Logger,
	)

	c.AuthSvc = services.NewAuthService(
		c.UserRepo,
		c.SessionSvc,
		c.PasswordSvc,
		c.MFASvc,
		c.ResetSvc,
		c.RateLimiter,
		c.AuditSvc,
		c.Clock,
		c.Logger,
	)
}
