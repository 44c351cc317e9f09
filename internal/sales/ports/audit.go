package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Audit actions recorded by the sales module.
const (
	ActionCreateProcess  = "CREATE_PROCESS"
	ActionUpdateStatus   = "UPDATE_STATUS"
	ActionAbandonProcess = "ABANDON_PROCESS"
	ActionAddProspect    = "ADD_PROSPECT"
	ActionAddVisit       = "ADD_VISIT"
	ActionAddOffer       = "ADD_OFFER"
	ActionAcceptOffer    = "ACCEPT_OFFER"
	ActionRejectOffer    = "REJECT_OFFER"
	ActionCounterOffer   = "COUNTER_OFFER"
	ActionRecompute      = "RECOMPUTE"
)

const (
	ResourceSaleProcess = "SALE_PROCESS"
	ResourceProspect    = "SALE_PROSPECT"
	ResourceVisit       = "SALE_VISIT"
	ResourceOffer       = "SALE_OFFER"
)

// AuditEntry describes one user-visible mutation.
type AuditEntry struct {
	UserID       uuid.UUID
	Action       string
	ResourceType string
	ResourceID   uuid.UUID
	Details      map[string]any
	Timestamp    time.Time
}

// AuditSink records audit entries. Recording happens after the mutation has
// committed and a failure never undoes it.
type AuditSink interface {
	Record(ctx context.Context, entry AuditEntry) error
}
