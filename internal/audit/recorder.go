package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// OutboxWriter enqueues an entry for later delivery into the audit log.
type OutboxWriter interface {
	Insert(ctx context.Context, entry Entry, runAt time.Time) (uuid.UUID, error)
}

// Recorder records entries through the outbox.
type Recorder struct {
	outbox OutboxWriter
}

func NewRecorder(outbox OutboxWriter) *Recorder {
	return &Recorder{outbox: outbox}
}

func (r *Recorder) Record(ctx context.Context, entry Entry) error {
	if entry.OccurredAt.IsZero() {
		entry.OccurredAt = time.Now().UTC()
	}
	_, err := r.outbox.Insert(ctx, entry, entry.OccurredAt)
	return err
}
