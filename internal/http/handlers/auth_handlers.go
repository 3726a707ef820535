package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/you/authsvc/domain"
)

// AuthHandlers handles authentication HTTP requests
type AuthHandlers struct {
	authSvc domain.AuthService
}

// NewAuthHandlers creates new auth handlers
func NewAuthHandlers(authSvc domain.AuthService) *AuthHandlers {
	return &AuthHandlers{authSvc: authSvc}
}

// RegisterRequest represents registration request
type RegisterRequest struct {
	Email    string            `json:"email" binding:"required,email"`
	Username string            `json:"username" binding:"required"`
	Password string            `json:"password" binding:"required,min=8"`
	Profile  map[string]string `json:"profile,omitempty"`
}

// LoginRequest represents login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	MFACode  string `json:"mfa_code,omitempty"`
	Device   string `json:"device,omitempty"`
}

// RefreshRequest represents token refresh request
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// MFASetupRequest represents MFA enrollment request
type MFASetupRequest struct {
	Type string `json:"type" binding:"required,oneof=totp sms email"`
	Name string `json:"name" binding:"required"`
}

// MFAConfirmRequest represents MFA device confirmation request
type MFAConfirmRequest struct {
	DeviceID string `json:"device_id" binding:"required"`
	Code     string `json:"code" binding:"required"`
}

// ForgotPasswordRequest represents a reset-link request
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest represents a reset redemption request
type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

// Register handles user registration
func (h *AuthHandlers) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.authSvc.Register(c.Request.Context(), req.Email, req.Username, req.Password, req.Profile)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidEmail):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email format"})
		case errors.Is(err, domain.ErrWeakPassword):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Password does not meet strength requirements"})
		case errors.Is(err, domain.ErrEmailExists):
			c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register user"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"data": gin.H{
			"user_id": user.ID,
			"status":  user.Status,
		},
	})
}

// Login handles user login, including the MFA short circuit
func (h *AuthHandlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	device := domain.DeviceInfo{
		Device:    req.Device,
		IPAddress: c.ClientIP(),
	}
	if device.Device == "" {
		device.Device = c.Request.UserAgent()
	}

	result, err := h.authSvc.Login(c.Request.Context(), req.Email, req.Password, req.MFACode, device)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		case errors.Is(err, domain.ErrInvalidMFACode):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid MFA code"})
		case errors.Is(err, domain.ErrAccountSuspended):
			c.JSON(http.StatusForbidden, gin.H{"error": "Account is suspended"})
		case errors.Is(err, domain.ErrRateLimitExceeded):
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many attempts, try again later"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
		}
		return
	}

	if result.MFARequired {
		c.JSON(http.StatusOK, gin.H{
			"data": gin.H{
				"mfa_required": true,
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"access_token":  result.AccessToken,
			"refresh_token": result.RefreshToken,
			"token_type":    "Bearer",
			"expires_in":    result.ExpiresIn,
			"user": gin.H{
				"id":       result.User.ID,
				"email":    result.User.Email,
				"username": result.User.Username,
			},
		},
	})
}

// Refresh handles refresh-token rotation
func (h *AuthHandlers) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.authSvc.RefreshSession(c.Request.Context(), req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTokenInvalid), errors.Is(err, domain.ErrTokenExpired):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired refresh token"})
		case errors.Is(err, domain.ErrSessionExpired), errors.Is(err, domain.ErrSessionNotFound):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Session expired"})
		case errors.Is(err, domain.ErrUserNotFound):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Session expired"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Token refresh failed"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"access_token":  result.AccessToken,
			"refresh_token": result.RefreshToken,
			"token_type":    "Bearer",
			"expires_in":    result.ExpiresIn,
		},
	})
}

// ForgotPassword handles reset-token requests. The response never
// reveals whether the email is registered.
func (h *AuthHandlers) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.authSvc.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Request failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"message": "If the address is registered, a reset link has been sent",
		},
	})
}

// ResetPassword handles reset-token redemption
func (h *AuthHandlers) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.authSvc.RedeemPasswordReset(c.Request.Context(), req.Token, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, domain.ErrTokenInvalid):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reset token"})
		case errors.Is(err, domain.ErrTokenExpired):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Reset token has expired"})
		case errors.Is(err, domain.ErrWeakPassword):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Password does not meet strength requirements"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Password reset failed"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"message": "Password has been reset. All sessions have been logged out.",
		},
	})
}

// SetupMFA handles MFA enrollment (requires authentication)
func (h *AuthHandlers) SetupMFA(c *gin.Context) {
	var req MFASetupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetString("user_id")
	result, err := h.authSvc.SetupMFA(c.Request.Context(), userID, domain.MFADeviceType(req.Type), req.Name)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "MFA setup failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"device_id":      result.DeviceID,
			"secret":         result.Secret,
			"backup_codes":   result.BackupCodes,
			"enrollment_uri": result.EnrollmentURI,
		},
	})
}

// ConfirmMFA handles MFA device confirmation (requires authentication)
func (h *AuthHandlers) ConfirmMFA(c *gin.Context) {
	var req MFAConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetString("user_id")
	if err := h.authSvc.ConfirmMFADevice(c.Request.Context(), userID, req.DeviceID, req.Code); err != nil {
		switch {
		case errors.Is(err, domain.ErrMFADeviceNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "MFA device not found"})
		case errors.Is(err, domain.ErrInvalidMFACode):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid MFA code"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "MFA confirmation failed"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"message": "MFA device confirmed",
		},
	})
}

// Me handles getting user profile (requires authentication)
func (h *AuthHandlers) Me(c *gin.Context) {
	userID := c.GetString("user_id")

	user, err := h.authSvc.GetUserProfile(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get user profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"id":             user.ID,
			"email":          user.Email,
			"username":       user.Username,
			"status":         user.Status,
			"email_verified": user.EmailVerified,
			"mfa_enabled":    user.MFAEnabled,
			"created_at":     user.CreatedAt,
			"last_login_at":  user.LastLoginAt,
		},
	})
}

// Logout handles user logout (requires authentication)
func (h *AuthHandlers) Logout(c *gin.Context) {
	sessionID := c.GetString("session_id")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Session ID not found"})
		return
	}

	if err := h.authSvc.Logout(c.Request.Context(), sessionID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Logout failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"message": "Logged out successfully",
		},
	})
}
