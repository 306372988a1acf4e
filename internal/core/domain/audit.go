package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditAction represents the type of audited action.
type AuditAction string

const (
	AuditActionSetCaseItems  AuditAction = "SET_CASE_ITEMS"
	AuditActionReloadCatalog AuditAction = "RELOAD_CATALOG"
	AuditActionPreview       AuditAction = "PREVIEW_PROBABILITIES"
)

// AuditLog records a single administrative action.
type AuditLog struct {
	ID           uuid.UUID   `json:"id"`
	AccountID    *uuid.UUID  `json:"account_id,omitempty"`
	Action       AuditAction `json:"action"`
	ResourceType string      `json:"resource_type"`
	ResourceID   string      `json:"resource_id,omitempty"`
	Details      string      `json:"details,omitempty"` // JSON string
	IPAddress    string      `json:"ip_address"`
	CreatedAt    time.Time   `json:"created_at"`
}
