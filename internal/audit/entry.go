// Package audit persists who changed what. Mutations are written to an outbox
// first, and the scheduler moves each outbox row into the audit log.
package audit

import (
	"time"

	"github.com/google/uuid"
)

// Entry is one audited mutation.
type Entry struct {
	UserID       uuid.UUID      `json:"userId"`
	Action       string         `json:"action"`
	ResourceType string         `json:"resourceType"`
	ResourceID   uuid.UUID      `json:"resourceId"`
	Details      map[string]any `json:"details,omitempty"`
	OccurredAt   time.Time      `json:"occurredAt"`
}
