package audit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// The log row reuses the outbox id, so a redelivered task writes nothing new.
const queryInsertLog = `INSERT INTO audit_logs (id, user_id, action, resource_type, resource_id, details, occurred_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (id) DO NOTHING`

// LogWriter appends entries to audit_logs.
type LogWriter struct {
	pool *pgxpool.Pool
}

func NewLogWriter(pool *pgxpool.Pool) *LogWriter {
	return &LogWriter{pool: pool}
}

func (w *LogWriter) WriteLog(ctx context.Context, id uuid.UUID, entry Entry) error {
	if w == nil || w.pool == nil {
		return errors.New("audit log writer not configured")
	}

	details, err := detailsText(entry.Details)
	if err != nil {
		return err
	}

	_, err = w.pool.Exec(ctx, queryInsertLog,
		id, nullableUUID(entry.UserID), entry.Action, entry.ResourceType,
		nullableUUID(entry.ResourceID), details, entry.OccurredAt,
	)
	return err
}

func detailsText(details map[string]any) (string, error) {
	if len(details) == 0 {
		return "", nil
	}
	raw, err := json.Marshal(details)
	if err != nil {
		return "", fmt.Errorf("marshal audit details: %w", err)
	}
	return string(raw), nil
}

func nullableUUID(id uuid.UUID) *uuid.UUID {
	if id == uuid.Nil {
		return nil
	}
	return &id
}
