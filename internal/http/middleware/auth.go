package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/you/authsvc/domain"
)

// AuthMW wraps the session service for middleware
type AuthMW struct {
	sessionSvc domain.SessionService
}

// NewAuthMW creates new auth middleware wrapper
func NewAuthMW(sessionSvc domain.SessionService) *AuthMW {
	return &AuthMW{sessionSvc: sessionSvc}
}

// RequireSession validates the bearer access token and the backing
// session, and puts user_id and session_id on the request context
func (mw *AuthMW) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		tokenParts := strings.SplitN(authHeader, " ", 2)
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			c.Abort()
			return
		}

		session, err := mw.sessionSvc.Validate(c.Request.Context(), tokenParts[1])
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrTokenExpired), errors.Is(err, domain.ErrSessionExpired):
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Session expired"})
			default:
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			}
			c.Abort()
			return
		}

		c.Set("user_id", session.UserID)
		c.Set("session_id", session.ID)
		c.Next()
	}
}
