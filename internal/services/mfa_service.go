package services

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	"golang.org/x/crypto/bcrypt"

	"github.com/you/authsvc/domain"
)

// MFAConfig carries second-factor policy settings
type MFAConfig struct {
	Issuer       string
	CodeLength   int
	ChallengeTTL time.Duration
	MaxAttempts  int
	BackupCodes  int
}

// challenge is a pending numeric code for an sms or email device
type challenge struct {
	code      string
	expiresAt time.Time
	attempts  int
}

// MFAServiceImpl implements domain.MFAService. TOTP devices validate
// locally against their shared secret; sms and email devices validate
// against a dispatched challenge code held with a TTL and attempt cap.
type MFAServiceImpl struct {
	deviceRepo      domain.MFADeviceRepository
	userRepo        domain.UserRepository
	notificationSvc domain.NotificationService
	clock           domain.Clock
	config          MFAConfig

	mu         sync.Mutex
	challenges map[string]*challenge
}

// NewMFAService creates a new MFA service
func NewMFAService(deviceRepo domain.MFADeviceRepository, userRepo domain.UserRepository, notificationSvc domain.NotificationService, clock domain.Clock, config MFAConfig) domain.MFAService {
	return &MFAServiceImpl{
		deviceRepo:      deviceRepo,
		userRepo:        userRepo,
		notificationSvc: notificationSvc,
		clock:           clock,
		config:          config,
		challenges:      make(map[string]*challenge),
	}
}

// Setup implements domain.MFAService. The secret and the plaintext backup
// codes are returned exactly once; only hashes are retained.
func (s *MFAServiceImpl) Setup(ctx context.Context, userID string, deviceType domain.MFADeviceType, name string) (*domain.MFASetupResult, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      s.config.Issuer,
		AccountName: user.Email,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate totp key: %w", err)
	}

	codes, hashed, err := s.generateBackupCodes()
	if err != nil {
		return nil, fmt.Errorf("failed to generate backup codes: %w", err)
	}

	device := &domain.MFADevice{
		UserID:      userID,
		Type:        deviceType,
		Name:        name,
		Secret:      key.Secret(),
		BackupCodes: hashed,
		Verified:    false,
		CreatedAt:   s.clock.Now(),
	}
	if err := s.deviceRepo.Create(ctx, device); err != nil {
		return nil, fmt.Errorf("failed to store mfa device: %w", err)
	}

	// sms and email devices are confirmed against a dispatched code, so
	// the first challenge goes out at enrollment
	if deviceType != domain.MFATypeTOTP {
		if err := s.dispatchChallenge(user, device); err != nil {
			return nil, fmt.Errorf("failed to dispatch confirmation code: %w", err)
		}
	}

	return &domain.MFASetupResult{
		DeviceID:      device.ID,
		Secret:        key.Secret(),
		BackupCodes:   codes,
		EnrollmentURI: key.URL(),
	}, nil
}

// ConfirmDevice implements domain.MFAService. A device must prove one
// successful code before it counts toward the login gate.
func (s *MFAServiceImpl) ConfirmDevice(ctx context.Context, userID, deviceID, code string) error {
	device, err := s.deviceRepo.FindByID(ctx, deviceID)
	if err != nil {
		return err
	}
	if device.UserID != userID {
		return domain.ErrMFADeviceNotFound
	}

	ok, err := s.verifyDeviceCode(userID, device, code)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrInvalidMFACode
	}

	device.Verified = true
	return s.deviceRepo.Update(ctx, device)
}

// VerifyCode implements domain.MFAService. Accepts a valid code for any
// verified device, or an unused backup code, which is then consumed.
func (s *MFAServiceImpl) VerifyCode(ctx context.Context, userID, code string) (bool, error) {
	devices, err := s.deviceRepo.FindByUser(ctx, userID)
	if err != nil {
		return false, err
	}

	challengeGated := false
	for _, device := range devices {
		if !device.Verified {
			continue
		}
		if device.Type == domain.MFATypeTOTP {
			if s.verifyTOTP(device, code) {
				return true, nil
			}
			continue
		}
		challengeGated = true
	}

	// One pending challenge exists per user, so it is checked once no
	// matter how many sms or email devices are enrolled
	if challengeGated {
		ok, err := s.verifyChallenge(userID, code)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}

	// Fall back to backup codes across all devices
	now := s.clock.Now()
	for _, device := range devices {
		for i := range device.BackupCodes {
			bc := &device.BackupCodes[i]
			if bc.UsedAt != nil {
				continue
			}
			if bcrypt.CompareHashAndPassword([]byte(bc.CodeHash), []byte(code)) == nil {
				bc.UsedAt = &now
				if err := s.deviceRepo.Update(ctx, device); err != nil {
					return false, err
				}
				return true, nil
			}
		}
	}

	return false, nil
}

// Challenge implements domain.MFAService. Generates and dispatches a
// numeric code for the user's first verified sms or email device. TOTP
// devices need no dispatch.
func (s *MFAServiceImpl) Challenge(ctx context.Context, userID string) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	devices, err := s.deviceRepo.FindByUser(ctx, userID)
	if err != nil {
		return err
	}

	for _, device := range devices {
		if !device.Verified || device.Type == domain.MFATypeTOTP {
			continue
		}
		return s.dispatchChallenge(user, device)
	}

	return nil
}

// dispatchChallenge mints a numeric code, stores it against the user and
// sends it through the device's channel
func (s *MFAServiceImpl) dispatchChallenge(user *domain.User, device *domain.MFADevice) error {
	code, err := s.generateNumericCode()
	if err != nil {
		return fmt.Errorf("failed to generate challenge code: %w", err)
	}

	s.mu.Lock()
	s.challenges[user.ID] = &challenge{
		code:      code,
		expiresAt: s.clock.Now().Add(s.config.ChallengeTTL),
	}
	s.mu.Unlock()

	message := fmt.Sprintf("Your verification code is: %s. Valid for %d minutes.", code, int(s.config.ChallengeTTL.Minutes()))
	if device.Type == domain.MFATypeSMS {
		return s.notificationSvc.SendSMS(user.Metadata["phone"], message)
	}
	return s.notificationSvc.SendEmail(user.Email, "Your verification code", message)
}

// HasVerifiedDevice implements domain.MFAService
func (s *MFAServiceImpl) HasVerifiedDevice(ctx context.Context, userID string) (bool, error) {
	devices, err := s.deviceRepo.FindByUser(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, device := range devices {
		if device.Verified {
			return true, nil
		}
	}
	return false, nil
}

// verifyDeviceCode checks one code against one device
func (s *MFAServiceImpl) verifyDeviceCode(userID string, device *domain.MFADevice, code string) (bool, error) {
	if device.Type == domain.MFATypeTOTP {
		return s.verifyTOTP(device, code), nil
	}
	return s.verifyChallenge(userID, code)
}

// verifyTOTP checks a code against a device's shared secret. A malformed
// code is simply a non-match.
func (s *MFAServiceImpl) verifyTOTP(device *domain.MFADevice, code string) bool {
	ok, err := totp.ValidateCustom(code, device.Secret, s.clock.Now(), totp.ValidateOpts{
		Period:    30,
		Skew:      1,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	if err != nil {
		return false
	}
	return ok
}

// verifyChallenge consumes a pending sms/email challenge code
func (s *MFAServiceImpl) verifyChallenge(userID, code string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch, ok := s.challenges[userID]
	if !ok {
		return false, nil
	}
	if s.clock.Now().After(ch.expiresAt) {
		delete(s.challenges, userID)
		return false, nil
	}

	ch.attempts++
	if ch.attempts > s.config.MaxAttempts {
		delete(s.challenges, userID)
		return false, domain.ErrTooManyMFAAttempts
	}

	if subtle.ConstantTimeCompare([]byte(ch.code), []byte(code)) != 1 {
		return false, nil
	}

	// One success per code
	delete(s.challenges, userID)
	return true, nil
}

// generateNumericCode mints a cryptographically secure numeric code
func (s *MFAServiceImpl) generateNumericCode() (string, error) {
	digits := make([]byte, s.config.CodeLength)
	for i := 0; i < s.config.CodeLength; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		digits[i] = byte('0' + num.Int64())
	}
	return string(digits), nil
}

// generateBackupCodes returns plaintext codes and their bcrypt hashes
func (s *MFAServiceImpl) generateBackupCodes() ([]string, []domain.BackupCode, error) {
	codes := make([]string, s.config.BackupCodes)
	hashed := make([]domain.BackupCode, s.config.BackupCodes)
	for i := range codes {
		raw := make([]byte, 5)
		if _, err := rand.Read(raw); err != nil {
			return nil, nil, err
		}
		codes[i] = hex.EncodeToString(raw)
		hash, err := bcrypt.GenerateFromPassword([]byte(codes[i]), bcrypt.MinCost)
		if err != nil {
			return nil, nil, err
		}
		hashed[i] = domain.BackupCode{CodeHash: string(hash)}
	}
	return codes, hashed, nil
}
