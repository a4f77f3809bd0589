package dto

import (
	"encoding/json"
	"time"

	"kardex/internal/domain/audit"
)

// AuditEntryResponse is one audit trail row in wire shape.
type AuditEntryResponse struct {
	ID         string          `json:"id"`
	EntityType string          `json:"entityType"`
	EntityID   string          `json:"entityId"`
	Action     string          `json:"action"`
	UserID     string          `json:"userId,omitempty"`
	Changes    json.RawMessage `json:"changes,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// FromAuditEntries converts recorded audit entries.
func FromAuditEntries(items []audit.Entry) []AuditEntryResponse {
	out := make([]AuditEntryResponse, 0, len(items))
	for _, e := range items {
		out = append(out, AuditEntryResponse{
			ID:         e.ID.String(),
			EntityType: e.EntityType,
			EntityID:   e.EntityID.String(),
			Action:     string(e.Action),
			UserID:     e.UserID,
			Changes:    e.Changes,
			CreatedAt:  e.CreatedAt,
		})
	}
	return out
}
