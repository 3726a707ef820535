package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/you/authsvc/domain"
	"github.com/you/authsvc/internal/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func performJSON(handler gin.HandlerFunc, method, path string, body interface{}, keys map[string]string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	c.Request = httptest.NewRequest(method, path, &buf)
	c.Request.Header.Set("Content-Type", "application/json")
	for k, v := range keys {
		c.Set(k, v)
	}

	handler(c)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding response body: %v", err)
	}
	return body
}

func TestAuthHandlers_Register(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    interface{}
		setupMocks     func(*mocks.MockAuthService)
		expectedStatus int
		expectedError  string
	}{
		{
			name: "successful registration",
			requestBody: RegisterRequest{
				Email:    "user@example.com",
				Username: "user",
				Password: "Password1",
			},
			setupMocks: func(authSvc *mocks.MockAuthService) {
				authSvc.RegisterFunc = func(ctx context.Context, email, username, password string, metadata map[string]string) (*domain.User, error) {
					return &domain.User{ID: "user-1", Email: email, Status: domain.StatusPendingVerification}, nil
				}
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "malformed body",
			requestBody:    map[string]string{"email": "user@example.com"},
			setupMocks:     func(authSvc *mocks.MockAuthService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "duplicate email",
			requestBody: RegisterRequest{
				Email:    "taken@example.com",
				Username: "user",
				Password: "Password1",
			},
			setupMocks: func(authSvc *mocks.MockAuthService) {
				authSvc.RegisterFunc = func(ctx context.Context, email, username, password string, metadata map[string]string) (*domain.User, error) {
					return nil, domain.ErrEmailExists
				}
			},
			expectedStatus: http.StatusConflict,
			expectedError:  "Email already registered",
		},
		{
			name: "weak password",
			requestBody: RegisterRequest{
				Email:    "user@example.com",
				Username: "user",
				Password: "lowercase1",
			},
			setupMocks: func(authSvc *mocks.MockAuthService) {
				authSvc.RegisterFunc = func(ctx context.Context, email, username, password string, metadata map[string]string) (*domain.User, error) {
					return nil, domain.ErrWeakPassword
				}
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Password does not meet strength requirements",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authSvc := mocks.NewMockAuthService()
			tt.setupMocks(authSvc)
			h := NewAuthHandlers(authSvc)

			w := performJSON(h.Register, http.MethodPost, "/auth/register", tt.requestBody, nil)

			if w.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d: %s", tt.expectedStatus, w.Code, w.Body.String())
			}
			if tt.expectedError != "" {
				body := decodeBody(t, w)
				if body["error"] != tt.expectedError {
					t.Errorf("expected error %q, got %v", tt.expectedError, body["error"])
				}
			}
		})
	}
}

func TestAuthHandlers_Login(t *testing.T) {
	successResult := &domain.AuthResult{
		User:         &domain.User{ID: "user-1", Email: "user@example.com", Username: "user"},
		Session:      &domain.Session{ID: "session-1"},
		AccessToken:  "access-token",
		RefreshToken: "refresh-token",
		ExpiresIn:    900,
	}

	tests := []struct {
		name           string
		requestBody    interface{}
		setupMocks     func(*mocks.MockAuthService)
		expectedStatus int
		validateBody   func(t *testing.T, body map[string]interface{})
	}{
		{
			name:        "successful login",
			requestBody: LoginRequest{Email: "user@example.com", Password: "Password1"},
			setupMocks: func(authSvc *mocks.MockAuthService) {
				authSvc.LoginFunc = func(ctx context.Context, email, password, mfaCode string, device domain.DeviceInfo) (*domain.AuthResult, error) {
					return successResult, nil
				}
			},
			expectedStatus: http.StatusOK,
			validateBody: func(t *testing.T, body map[string]interface{}) {
				data := body["data"].(map[string]interface{})
				if data["access_token"] != "access-token" {
					t.Errorf("expected access token in response, got %v", data["access_token"])
				}
				if data["token_type"] != "Bearer" {
					t.Errorf("expected Bearer token type, got %v", data["token_type"])
				}
			},
		},
		{
			name:        "mfa required",
			requestBody: LoginRequest{Email: "user@example.com", Password: "Password1"},
			setupMocks: func(authSvc *mocks.MockAuthService) {
				authSvc.LoginFunc = func(ctx context.Context, email, password, mfaCode string, device domain.DeviceInfo) (*domain.AuthResult, error) {
					return &domain.AuthResult{User: successResult.User, MFARequired: true}, nil
				}
			},
			expectedStatus: http.StatusOK,
			validateBody: func(t *testing.T, body map[string]interface{}) {
				data := body["data"].(map[string]interface{})
				if data["mfa_required"] != true {
					t.Error("expected mfa_required flag")
				}
				if _, ok := data["access_token"]; ok {
					t.Error("MFA-required response must not carry tokens")
				}
			},
		},
		{
			name:        "invalid credentials",
			requestBody: LoginRequest{Email: "user@example.com", Password: "Wrong1"},
			setupMocks: func(authSvc *mocks.MockAuthService) {
				authSvc.LoginFunc = func(ctx context.Context, email, password, mfaCode string, device domain.DeviceInfo) (*domain.AuthResult, error) {
					return nil, domain.ErrInvalidCredentials
				}
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:        "suspended account",
			requestBody: LoginRequest{Email: "user@example.com", Password: "Password1"},
			setupMocks: func(authSvc *mocks.MockAuthService) {
				authSvc.LoginFunc = func(ctx context.Context, email, password, mfaCode string, device domain.DeviceInfo) (*domain.AuthResult, error) {
					return nil, domain.ErrAccountSuspended
				}
			},
			expectedStatus: http.StatusForbidden,
		},
		{
			name:        "rate limited",
			requestBody: LoginRequest{Email: "user@example.com", Password: "Password1"},
			setupMocks: func(authSvc *mocks.MockAuthService) {
				authSvc.LoginFunc = func(ctx context.Context, email, password, mfaCode string, device domain.DeviceInfo) (*domain.AuthResult, error) {
					return nil, domain.ErrRateLimitExceeded
				}
			},
			expectedStatus: http.StatusTooManyRequests,
		},
		{
			name:           "missing password",
			requestBody:    map[string]string{"email": "user@example.com"},
			setupMocks:     func(authSvc *mocks.MockAuthService) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authSvc := mocks.NewMockAuthService()
			tt.setupMocks(authSvc)
			h := NewAuthHandlers(authSvc)

			w := performJSON(h.Login, http.MethodPost, "/auth/login", tt.requestBody, nil)

			if w.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d: %s", tt.expectedStatus, w.Code, w.Body.String())
			}
			if tt.validateBody != nil {
				tt.validateBody(t, decodeBody(t, w))
			}
		})
	}
}

func TestAuthHandlers_Refresh(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    interface{}
		setupMocks     func(*mocks.MockAuthService)
		expectedStatus int
	}{
		{
			name:        "successful refresh",
			requestBody: RefreshRequest{RefreshToken: "refresh-token"},
			setupMocks: func(authSvc *mocks.MockAuthService) {
				authSvc.RefreshSessionFunc = func(ctx context.Context, refreshToken string) (*domain.AuthResult, error) {
					return &domain.AuthResult{
						User:         &domain.User{ID: "user-1"},
						Session:      &domain.Session{ID: "session-2"},
						AccessToken:  "new-access",
						RefreshToken: "new-refresh",
						ExpiresIn:    900,
					}, nil
				}
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:        "replayed token",
			requestBody: RefreshRequest{RefreshToken: "already-used"},
			setupMocks: func(authSvc *mocks.MockAuthService) {
				authSvc.RefreshSessionFunc = func(ctx context.Context, refreshToken string) (*domain.AuthResult, error) {
					return nil, domain.ErrSessionExpired
				}
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "missing token",
			requestBody:    map[string]string{},
			setupMocks:     func(authSvc *mocks.MockAuthService) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authSvc := mocks.NewMockAuthService()
			tt.setupMocks(authSvc)
			h := NewAuthHandlers(authSvc)

			w := performJSON(h.Refresh, http.MethodPost, "/auth/refresh", tt.requestBody, nil)

			if w.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d: %s", tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestAuthHandlers_ForgotPassword_NoEnumeration(t *testing.T) {
	authSvc := mocks.NewMockAuthService()
	h := NewAuthHandlers(authSvc)

	known := performJSON(h.ForgotPassword, http.MethodPost, "/auth/password/forgot",
		ForgotPasswordRequest{Email: "known@example.com"}, nil)
	unknown := performJSON(h.ForgotPassword, http.MethodPost, "/auth/password/forgot",
		ForgotPasswordRequest{Email: "unknown@example.com"}, nil)

	if known.Code != http.StatusOK || unknown.Code != http.StatusOK {
		t.Fatalf("expected 200 for both, got %d and %d", known.Code, unknown.Code)
	}
	if known.Body.String() != unknown.Body.String() {
		t.Error("responses must be identical for known and unknown addresses")
	}
}

func TestAuthHandlers_ResetPassword(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    interface{}
		setupMocks     func(*mocks.MockAuthService)
		expectedStatus int
	}{
		{
			name:        "successful reset",
			requestBody: ResetPasswordRequest{Token: "reset-token", NewPassword: "NewPassword1"},
			setupMocks: func(authSvc *mocks.MockAuthService) {
				authSvc.RedeemPasswordResetFunc = func(ctx context.Context, token, newPassword string) error {
					return nil
				}
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:        "invalid token",
			requestBody: ResetPasswordRequest{Token: "bogus", NewPassword: "NewPassword1"},
			setupMocks: func(authSvc *mocks.MockAuthService) {
				authSvc.RedeemPasswordResetFunc = func(ctx context.Context, token, newPassword string) error {
					return domain.ErrTokenInvalid
				}
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:        "expired token",
			requestBody: ResetPasswordRequest{Token: "old", NewPassword: "NewPassword1"},
			setupMocks: func(authSvc *mocks.MockAuthService) {
				authSvc.RedeemPasswordResetFunc = func(ctx context.Context, token, newPassword string) error {
					return domain.ErrTokenExpired
				}
			},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authSvc := mocks.NewMockAuthService()
			tt.setupMocks(authSvc)
			h := NewAuthHandlers(authSvc)

			w := performJSON(h.ResetPassword, http.MethodPost, "/auth/password/reset", tt.requestBody, nil)

			if w.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d: %s", tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestAuthHandlers_Me(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	authSvc := mocks.NewMockAuthService()
	authSvc.GetUserProfileFunc = func(ctx context.Context, userID string) (*domain.User, error) {
		return &domain.User{
			ID:        userID,
			Email:     "user@example.com",
			Username:  "user",
			Status:    domain.StatusActive,
			CreatedAt: now,
		}, nil
	}
	h := NewAuthHandlers(authSvc)

	w := performJSON(h.Me, http.MethodGet, "/auth/me", nil, map[string]string{"user_id": "user-1"})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	data := decodeBody(t, w)["data"].(map[string]interface{})
	if data["id"] != "user-1" || data["email"] != "user@example.com" {
		t.Errorf("unexpected profile payload: %v", data)
	}
}

func TestAuthHandlers_Logout(t *testing.T) {
	authSvc := mocks.NewMockAuthService()
	var loggedOut string
	authSvc.LogoutFunc = func(ctx context.Context, sessionID string) error {
		loggedOut = sessionID
		return nil
	}
	h := NewAuthHandlers(authSvc)

	w := performJSON(h.Logout, http.MethodPost, "/auth/logout", nil, map[string]string{"session_id": "session-1"})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if loggedOut != "session-1" {
		t.Errorf("expected session-1 to be logged out, got %q", loggedOut)
	}

	// Without a session in context the handler rejects the call
	w = performJSON(h.Logout, http.MethodPost, "/auth/logout", nil, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without a session, got %d", w.Code)
	}
}

func TestAuthHandlers_SetupAndConfirmMFA(t *testing.T) {
	authSvc := mocks.NewMockAuthService()
	authSvc.SetupMFAFunc = func(ctx context.Context, userID string, deviceType domain.MFADeviceType, name string) (*domain.MFASetupResult, error) {
		return &domain.MFASetupResult{
			DeviceID:      "device-1",
			Secret:        "SECRET",
			BackupCodes:   []string{"aaaa", "bbbb"},
			EnrollmentURI: "otpauth://totp/test",
		}, nil
	}
	h := NewAuthHandlers(authSvc)

	w := performJSON(h.SetupMFA, http.MethodPost, "/auth/mfa/setup",
		MFASetupRequest{Type: "totp", Name: "phone"}, map[string]string{"user_id": "user-1"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	data := decodeBody(t, w)["data"].(map[string]interface{})
	if data["device_id"] != "device-1" || data["secret"] != "SECRET" {
		t.Errorf("unexpected setup payload: %v", data)
	}

	// Unsupported device type fails binding
	w = performJSON(h.SetupMFA, http.MethodPost, "/auth/mfa/setup",
		MFASetupRequest{Type: "carrier-pigeon", Name: "bird"}, map[string]string{"user_id": "user-1"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for an unsupported type, got %d", w.Code)
	}

	authSvc.ConfirmMFADeviceFunc = func(ctx context.Context, userID, deviceID, code string) error {
		if code != "123456" {
			return domain.ErrInvalidMFACode
		}
		return nil
	}

	w = performJSON(h.ConfirmMFA, http.MethodPost, "/auth/mfa/confirm",
		MFAConfirmRequest{DeviceID: "device-1", Code: "123456"}, map[string]string{"user_id": "user-1"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = performJSON(h.ConfirmMFA, http.MethodPost, "/auth/mfa/confirm",
		MFAConfirmRequest{DeviceID: "device-1", Code: "000000"}, map[string]string{"user_id": "user-1"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a wrong code, got %d", w.Code)
	}
}
