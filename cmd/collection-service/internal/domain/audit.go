package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditEvent records one mutation for the audit trail. Emission is
// best-effort: a failed publish never fails the operation it describes.
type AuditEvent struct {
	ID         string                 `json:"id"`
	TenantID   string                 `json:"tenant_id"`
	UserID     string                 `json:"user_id"`
	Action     string                 `json:"action"`   // collection.created, collection.member_added, ...
	ResourceID string                 `json:"resource_id"`
	Details    map[string]interface{} `json:"details,omitempty"`
	OccurredAt time.Time              `json:"occurred_at"`
}

// NewAuditEvent creates an audit event.
func NewAuditEvent(tenantID, userID, action, resourceID string, details map[string]interface{}) *AuditEvent {
	return &AuditEvent{
		ID:         "audit_" + uuid.New().String(),
		TenantID:   tenantID,
		UserID:     userID,
		Action:     action,
		ResourceID: resourceID,
		Details:    details,
		OccurredAt: time.Now().UTC(),
	}
}
