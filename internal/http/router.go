package httpx

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/you/authsvc/internal/http/handlers"
	"github.com/you/authsvc/internal/http/middleware"
)

func BuildRouter(ah *handlers.AuthHandlers, audh *handlers.AuditHandlers, authmw *middleware.AuthMW) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Throttle(rate.Limit(20), 40))

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	auth := r.Group("/auth")
	auth.POST("/register", ah.Register)
	auth.POST("/login", ah.Login)
	auth.POST("/refresh", ah.Refresh)
	auth.POST("/password/forgot", ah.ForgotPassword)
	auth.POST("/password/reset", ah.ResetPassword)

	v := r.Group("/").Use(authmw.RequireSession())
	v.GET("/auth/me", ah.Me)
	v.POST("/auth/logout", ah.Logout)
	v.POST("/auth/mfa/setup", ah.SetupMFA)
	v.POST("/auth/mfa/confirm", ah.ConfirmMFA)

	adm := r.Group("/admin").Use(authmw.RequireSession())
	adm.GET("/audit", audh.ListAudit)
	adm.GET("/attempts", audh.ListAttempts)

	return r
}
