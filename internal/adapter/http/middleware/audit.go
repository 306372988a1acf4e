package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"case-opening-platform/internal/core/domain"
	"case-opening-platform/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AuditLog creates an audit middleware that records successful admin writes.
// Routes are matched by their registered template, so it must be attached
// to a router group rather than used before routing.
func AuditLog(auditSvc ports.AuditService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// Only audit successful write operations (status 2xx)
		if c.Writer.Status() < 200 || c.Writer.Status() >= 300 {
			return
		}
		if c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead || c.Request.Method == http.MethodOptions {
			return
		}

		action, resourceType := mapRouteToAction(c.FullPath(), c.Request.Method)
		if action == "" {
			return
		}

		var accountID *uuid.UUID
		if id, ok := AccountID(c); ok {
			accountID = &id
		}

		details, _ := json.Marshal(map[string]interface{}{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"request_id": c.GetString(CtxRequestID),
		})

		auditSvc.Log(c.Request.Context(), &domain.AuditLog{
			ID:           uuid.New(),
			AccountID:    accountID,
			Action:       action,
			ResourceType: resourceType,
			ResourceID:   c.Param("id"),
			IPAddress:    c.ClientIP(),
			Details:      string(details),
			CreatedAt:    time.Now(),
		})
	}
}

func mapRouteToAction(route, method string) (domain.AuditAction, string) {
	switch {
	case route == "/api/v1/admin/cases/:id/items" && method == http.MethodPut:
		return domain.AuditActionSetCaseItems, "case"
	case route == "/api/v1/admin/catalog/reload" && method == http.MethodPost:
		return domain.AuditActionReloadCatalog, "catalog"
	case route == "/api/v1/admin/probabilities/preview" && method == http.MethodPost:
		return domain.AuditActionPreview, "probabilities"
	}
	return "", ""
}
