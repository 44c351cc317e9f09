package audit

import (
	"context"
	"time"

	"immopilot_backend/internal/events"
	"immopilot_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	maxOutboxAttempts    = 5
	outboxRetryBaseDelay = 10 * time.Second
	outboxRetryMaxDelay  = 10 * time.Minute
)

// OutboxStore is the part of the outbox the delivery handler needs.
type OutboxStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (Record, error)
	MarkProcessing(ctx context.Context, id uuid.UUID) error
	MarkSucceeded(ctx context.Context, id uuid.UUID) error
	MarkFailed(ctx context.Context, id uuid.UUID, lastError string) error
	ScheduleRetry(ctx context.Context, id uuid.UUID, runAt time.Time, lastError string) error
}

// LogStore writes delivered entries.
type LogStore interface {
	WriteLog(ctx context.Context, id uuid.UUID, entry Entry) error
}

// Module delivers audit outbox rows into the audit log.
type Module struct {
	outbox OutboxStore
	logs   LogStore
	log    *logger.Logger
	now    func() time.Time
}

// NewModule wires the audit module on the Postgres outbox and log tables.
func NewModule(pool *pgxpool.Pool, log *logger.Logger) *Module {
	return NewModuleWithStores(NewOutboxRepository(pool), NewLogWriter(pool), log)
}

// NewModuleWithStores builds the module on explicit stores.
func NewModuleWithStores(outbox OutboxStore, logs LogStore, log *logger.Logger) *Module {
	return &Module{outbox: outbox, logs: logs, log: log, now: time.Now}
}

// RegisterHandlers subscribes the module to the bus.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.AuditOutboxDue{}.EventName(), m)
}

// Handle routes events to the appropriate handler method.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.AuditOutboxDue:
		return m.handleOutboxDue(ctx, e)
	default:
		m.log.Warn("unhandled event type", "event", event.EventName())
		return nil
	}
}

func (m *Module) handleOutboxDue(ctx context.Context, e events.AuditOutboxDue) error {
	rec, err := m.outbox.GetByID(ctx, e.OutboxID)
	if err != nil {
		return err
	}
	if rec.Status == StatusSucceeded || rec.Status == StatusFailed {
		m.log.Debug("audit outbox record already settled; skipping", "outboxId", rec.ID.String(), "status", rec.Status)
		return nil
	}
	if err := m.outbox.MarkProcessing(ctx, rec.ID); err != nil {
		return err
	}

	entry, err := rec.Entry()
	if err != nil {
		// A payload that cannot be decoded never will be.
		_ = m.outbox.MarkFailed(ctx, rec.ID, err.Error())
		m.log.Warn("audit outbox payload invalid", "outboxId", rec.ID.String(), "error", err)
		return nil
	}

	if err := m.logs.WriteLog(ctx, rec.ID, entry); err != nil {
		m.handleWriteError(ctx, rec, err)
		return err
	}

	if err := m.outbox.MarkSucceeded(ctx, rec.ID); err != nil {
		return err
	}
	m.log.Debug("audit entry written", "outboxId", rec.ID.String(), "action", entry.Action)
	return nil
}

func (m *Module) handleWriteError(ctx context.Context, rec Record, writeErr error) {
	attempt := rec.Attempts + 1
	if attempt >= maxOutboxAttempts {
		_ = m.outbox.MarkFailed(ctx, rec.ID, writeErr.Error())
		m.log.Warn("audit outbox exhausted retries",
			"outboxId", rec.ID.String(),
			"attempt", attempt,
			"error", writeErr,
		)
		return
	}

	retryAt := m.now().UTC().Add(retryDelay(attempt))
	if err := m.outbox.ScheduleRetry(ctx, rec.ID, retryAt, writeErr.Error()); err != nil {
		_ = m.outbox.MarkFailed(ctx, rec.ID, writeErr.Error())
		m.log.Error("audit outbox retry scheduling failed; marked failed", "outboxId", rec.ID.String(), "error", err)
		return
	}
	m.log.Warn("audit outbox scheduled retry", "outboxId", rec.ID.String(), "attempt", attempt, "retryAt", retryAt, "error", writeErr)
}

func retryDelay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	delay := outboxRetryBaseDelay << (attempt - 1)
	if delay > outboxRetryMaxDelay {
		return outboxRetryMaxDelay
	}
	return delay
}
