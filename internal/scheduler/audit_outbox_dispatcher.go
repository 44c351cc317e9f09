package scheduler

import (
	"context"
	"time"

	"immopilot_backend/internal/audit"
	"immopilot_backend/platform/config"
	"immopilot_backend/platform/logger"

	"github.com/google/uuid"
)

// OutboxClaimer hands out due audit outbox rows.
type OutboxClaimer interface {
	ClaimPending(ctx context.Context, limit int) ([]audit.Record, error)
	MarkPending(ctx context.Context, id uuid.UUID, lastError *string) error
}

// OutboxEnqueuer schedules delivery of a claimed row.
type OutboxEnqueuer interface {
	EnqueueAuditOutboxDue(ctx context.Context, payload AuditOutboxDuePayload, runAt time.Time) error
}

// AuditOutboxDispatcher polls the audit outbox and enqueues a task per due row.
type AuditOutboxDispatcher struct {
	queue    OutboxEnqueuer
	repo     OutboxClaimer
	interval time.Duration
	batch    int
	log      *logger.Logger
}

func NewAuditOutboxDispatcher(cfg config.AuditDispatchConfig, repo OutboxClaimer, queue OutboxEnqueuer, log *logger.Logger) *AuditOutboxDispatcher {
	interval := cfg.GetAuditDispatchInterval()
	if interval <= 0 {
		interval = 2 * time.Second
	}
	batch := cfg.GetAuditDispatchBatch()
	if batch < 1 {
		batch = 50
	}

	return &AuditOutboxDispatcher{
		queue:    queue,
		repo:     repo,
		interval: interval,
		batch:    batch,
		log:      log,
	}
}

func (d *AuditOutboxDispatcher) Run(ctx context.Context) {
	if d == nil || d.queue == nil || d.repo == nil {
		return
	}

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if _, err := d.DispatchOnce(ctx); err != nil {
			d.log.Warn("audit outbox claim failed", "error", err)
		}
	}
}

// DispatchOnce claims one batch and enqueues it. Rows that cannot be enqueued
// go back to pending with the error. It returns how many rows were enqueued.
func (d *AuditOutboxDispatcher) DispatchOnce(ctx context.Context) (int, error) {
	records, err := d.repo.ClaimPending(ctx, d.batch)
	if err != nil {
		return 0, err
	}

	enqueued := 0
	for _, rec := range records {
		err := d.queue.EnqueueAuditOutboxDue(ctx, AuditOutboxDuePayload{OutboxID: rec.ID.String()}, rec.RunAt)
		if err != nil {
			msg := err.Error()
			_ = d.repo.MarkPending(ctx, rec.ID, &msg)
			continue
		}
		enqueued++
	}
	return enqueued, nil
}
