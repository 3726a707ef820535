package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type AppConfig struct {
	Port    int    `yaml:"port"`
	GinMode string `yaml:"gin_mode"`
}

type JWTConfig struct {
	Secret    string `yaml:"secret"`
	Issuer    string `yaml:"issuer"`
	AccessTTL string `yaml:"access_ttl"`
}

type SessionConfig struct {
	Duration string `yaml:"duration"`
}

type PasswordConfig struct {
	MinLength  int `yaml:"min_length"`
	BcryptCost int `yaml:"bcrypt_cost"`
}

type RateLimitConfig struct {
	MaxAttempts int    `yaml:"max_attempts"`
	Window      string `yaml:"window"`
}

type MFAConfig struct {
	Issuer       string `yaml:"issuer"`
	CodeLength   int    `yaml:"code_length"`
	ChallengeTTL string `yaml:"challenge_ttl"`
	MaxAttempts  int    `yaml:"max_attempts"`
	BackupCodes  int    `yaml:"backup_codes"`
}

type ResetConfig struct {
	TokenTTL string `yaml:"token_ttl"`
}

type TwilioConfig struct {
	AccountSID string `yaml:"account_sid"`
	AuthToken  string `yaml:"auth_token"`
	FromNumber string `yaml:"from_number"`
}

type ConfigFile struct {
	App       AppConfig       `yaml:"app"`
	JWT       JWTConfig       `yaml:"jwt"`
	Session   SessionConfig   `yaml:"session"`
	Password  PasswordConfig  `yaml:"password"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	MFA       MFAConfig       `yaml:"mfa"`
	Reset     ResetConfig     `yaml:"reset"`
	Twilio    TwilioConfig    `yaml:"twilio"`
}

type Config struct {
	Port              string
	GinMode           string
	JWTSecret         string
	JWTIssuer         string
	AccessTTL         time.Duration
	SessionDuration   time.Duration
	PasswordMinLength int
	BcryptCost        int
	RateLimitMax      int
	RateLimitWindow   time.Duration
	MFAIssuer         string
	MFACodeLength     int
	MFAChallengeTTL   time.Duration
	MFAMaxAttempts    int
	MFABackupCodes    int
	ResetTokenTTL     time.Duration
	TwilioSID         string
	TwilioToken       string
	TwilioFrom        string
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// Load reads config/config.yml and applies environment overrides for
// secrets. Missing durations and counts fall back to policy defaults.
func Load() (*Config, error) {
	path := env("AUTHSVC_CONFIG", "config/config.yml")
	configFile, err := loadConfigFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	accTTL, err := duration(configFile.JWT.AccessTTL, 15*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT access TTL: %w", err)
	}
	sessDur, err := duration(configFile.Session.Duration, 24*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("invalid session duration: %w", err)
	}
	rlWindow, err := duration(configFile.RateLimit.Window, 15*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("invalid rate limit window: %w", err)
	}
	mfaTTL, err := duration(configFile.MFA.ChallengeTTL, 5*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("invalid MFA challenge TTL: %w", err)
	}
	resetTTL, err := duration(configFile.Reset.TokenTTL, time.Hour)
	if err != nil {
		return nil, fmt.Errorf("invalid reset token TTL: %w", err)
	}

	cfg := &Config{
		Port:              fmt.Sprintf("%d", configFile.App.Port),
		GinMode:           configFile.App.GinMode,
		JWTSecret:         env("AUTHSVC_JWT_SECRET", configFile.JWT.Secret),
		JWTIssuer:         configFile.JWT.Issuer,
		AccessTTL:         accTTL,
		SessionDuration:   sessDur,
		PasswordMinLength: configFile.Password.MinLength,
		BcryptCost:        configFile.Password.BcryptCost,
		RateLimitMax:      configFile.RateLimit.MaxAttempts,
		RateLimitWindow:   rlWindow,
		MFAIssuer:         configFile.MFA.Issuer,
		MFACodeLength:     configFile.MFA.CodeLength,
		MFAChallengeTTL:   mfaTTL,
		MFAMaxAttempts:    configFile.MFA.MaxAttempts,
		MFABackupCodes:    configFile.MFA.BackupCodes,
		ResetTokenTTL:     resetTTL,
		TwilioSID:         env("TWILIO_ACCOUNT_SID", configFile.Twilio.AccountSID),
		TwilioToken:       env("TWILIO_AUTH_TOKEN", configFile.Twilio.AuthToken),
		TwilioFrom:        configFile.Twilio.FromNumber,
	}

	if cfg.PasswordMinLength == 0 {
		cfg.PasswordMinLength = 8
	}
	if cfg.RateLimitMax == 0 {
		cfg.RateLimitMax = 5
	}
	if cfg.MFACodeLength == 0 {
		cfg.MFACodeLength = 6
	}
	if cfg.MFAMaxAttempts == 0 {
		cfg.MFAMaxAttempts = 3
	}
	if cfg.MFABackupCodes == 0 {
		cfg.MFABackupCodes = 8
	}
	if cfg.MFAIssuer == "" {
		cfg.MFAIssuer = cfg.JWTIssuer
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}

	return cfg, nil
}

func loadConfigFile(path string) (*ConfigFile, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config file at %s: %w", path, err)
	}

	var config ConfigFile
	if err := yaml.Unmarshal(bytes, &config); err != nil {
		return nil, fmt.Errorf("could not parse config yaml: %w", err)
	}

	return &config, nil
}

func duration(s string, def time.Duration) (time.Duration, error) {
	if s == "" {
		return def, nil
	}
	return time.ParseDuration(s)
}
