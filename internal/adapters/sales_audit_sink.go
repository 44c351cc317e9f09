package adapters

import (
	"context"

	"immopilot_backend/internal/audit"
	"immopilot_backend/internal/sales/ports"
)

// AuditRecorder is the narrow interface of the audit outbox recorder.
type AuditRecorder interface {
	Record(ctx context.Context, entry audit.Entry) error
}

// SalesAuditSink forwards sales audit entries to the audit module.
// It satisfies ports.AuditSink.
type SalesAuditSink struct {
	recorder AuditRecorder
}

// NewSalesAuditSink creates a new audit sink adapter.
func NewSalesAuditSink(recorder AuditRecorder) *SalesAuditSink {
	return &SalesAuditSink{recorder: recorder}
}

// Record converts the entry and hands it to the recorder.
func (a *SalesAuditSink) Record(ctx context.Context, entry ports.AuditEntry) error {
	return a.recorder.Record(ctx, audit.Entry{
		UserID:       entry.UserID,
		Action:       entry.Action,
		ResourceType: entry.ResourceType,
		ResourceID:   entry.ResourceID,
		Details:      entry.Details,
		OccurredAt:   entry.Timestamp,
	})
}
