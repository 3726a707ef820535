package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/you/authsvc/domain"
)

// AuditHandlers exposes read-only audit and attempt queries for
// dashboard consumers
type AuditHandlers struct {
	auditSvc domain.AuditService
}

// NewAuditHandlers creates new audit handlers
func NewAuditHandlers(auditSvc domain.AuditService) *AuditHandlers {
	return &AuditHandlers{auditSvc: auditSvc}
}

// ListAudit returns recent audit entries, most recent first
func (h *AuditHandlers) ListAudit(c *gin.Context) {
	filter := domain.AuditFilter{
		UserID:   c.Query("user_id"),
		Action:   domain.AuditAction(c.Query("action")),
		Severity: domain.AuditSeverity(c.Query("severity")),
	}

	entries, err := h.auditSvc.QueryAudit(c.Request.Context(), filter, queryLimit(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Audit query failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"entries": entries}})
}

// ListAttempts returns recent login attempts, most recent first
func (h *AuditHandlers) ListAttempts(c *gin.Context) {
	filter := domain.AttemptFilter{
		Email:      c.Query("email"),
		OnlyFailed: c.Query("failed") == "true",
	}

	attempts, err := h.auditSvc.QueryAttempts(c.Request.Context(), filter, queryLimit(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Attempt query failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"attempts": attempts}})
}

func queryLimit(c *gin.Context) int {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 {
		return 50
	}
	return limit
}
