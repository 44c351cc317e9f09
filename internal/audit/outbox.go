package audit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Status string

const (
	StatusPending        Status = "pending"
	StatusEnqueued       Status = "enqueued"
	StatusProcessing     Status = "processing"
	StatusSucceeded      Status = "succeeded"
	StatusFailed         Status = "failed"
	errRepoNotConfigured        = "audit outbox repository not configured"
)

const (
	queryInsertOutbox = `INSERT INTO audit_outbox (payload, run_at, status)
		 VALUES ($1, $2, $3)
		 RETURNING id`

	queryGetOutbox = `SELECT id, payload, run_at, status, attempts
		 FROM audit_outbox
		 WHERE id = $1`

	queryClaimPending = `WITH cte AS (
		SELECT id
		FROM audit_outbox
		WHERE status = 'pending' AND run_at <= now()
		ORDER BY run_at ASC
		LIMIT $1
		FOR UPDATE SKIP LOCKED
	)
	UPDATE audit_outbox o
	SET status = 'enqueued', updated_at = now()
	FROM cte
	WHERE o.id = cte.id
	RETURNING o.id, o.payload, o.run_at, o.status, o.attempts`

	queryMarkPending = `UPDATE audit_outbox
		 SET status = 'pending', last_error = $2, updated_at = now()
		 WHERE id = $1`

	queryMarkProcessing = `UPDATE audit_outbox
		 SET status = 'processing', attempts = attempts + 1, updated_at = now()
		 WHERE id = $1`

	queryMarkSucceeded = `UPDATE audit_outbox
		 SET status = 'succeeded', last_error = NULL, updated_at = now()
		 WHERE id = $1`

	queryMarkFailed = `UPDATE audit_outbox
		 SET status = 'failed', last_error = $2, updated_at = now()
		 WHERE id = $1`

	queryScheduleRetry = `UPDATE audit_outbox
		 SET status = 'pending', run_at = $2, last_error = $3, updated_at = now()
		 WHERE id = $1`
)

// Record is one audit_outbox row.
type Record struct {
	ID       uuid.UUID
	Payload  json.RawMessage
	RunAt    time.Time
	Status   Status
	Attempts int
}

// Entry decodes the audited mutation carried by the row.
func (r Record) Entry() (Entry, error) {
	var entry Entry
	if err := json.Unmarshal(r.Payload, &entry); err != nil {
		return Entry{}, fmt.Errorf("decode audit payload: %w", err)
	}
	return entry, nil
}

// OutboxRepository stores pending audit entries in audit_outbox.
type OutboxRepository struct {
	pool *pgxpool.Pool
}

func NewOutboxRepository(pool *pgxpool.Pool) *OutboxRepository {
	return &OutboxRepository{pool: pool}
}

func (r *OutboxRepository) Insert(ctx context.Context, entry Entry, runAt time.Time) (uuid.UUID, error) {
	if r == nil || r.pool == nil {
		return uuid.Nil, errors.New(errRepoNotConfigured)
	}
	if entry.Action == "" {
		return uuid.Nil, fmt.Errorf("action is required")
	}
	if entry.ResourceType == "" {
		return uuid.Nil, fmt.Errorf("resourceType is required")
	}
	if runAt.IsZero() {
		runAt = time.Now().UTC()
	}

	payload, err := json.Marshal(entry)
	if err != nil {
		return uuid.Nil, fmt.Errorf("marshal payload: %w", err)
	}

	var id uuid.UUID
	if err := r.pool.QueryRow(ctx, queryInsertOutbox, payload, runAt, string(StatusPending)).Scan(&id); err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

func (r *OutboxRepository) GetByID(ctx context.Context, id uuid.UUID) (Record, error) {
	if r == nil || r.pool == nil {
		return Record{}, errors.New(errRepoNotConfigured)
	}

	var rec Record
	var status string
	err := r.pool.QueryRow(ctx, queryGetOutbox, id).Scan(&rec.ID, &rec.Payload, &rec.RunAt, &status, &rec.Attempts)
	if err != nil {
		return Record{}, err
	}
	rec.Status = Status(status)
	return rec, nil
}

func (r *OutboxRepository) ClaimPending(ctx context.Context, limit int) ([]Record, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New(errRepoNotConfigured)
	}
	if limit < 1 {
		limit = 50
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	rows, err := tx.Query(ctx, queryClaimPending, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []Record
	for rows.Next() {
		var rec Record
		var status string
		if err := rows.Scan(&rec.ID, &rec.Payload, &rec.RunAt, &status, &rec.Attempts); err != nil {
			return nil, err
		}
		rec.Status = Status(status)
		results = append(results, rec)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *OutboxRepository) MarkPending(ctx context.Context, id uuid.UUID, lastError *string) error {
	return r.exec(ctx, queryMarkPending, id, lastError)
}

func (r *OutboxRepository) MarkProcessing(ctx context.Context, id uuid.UUID) error {
	return r.exec(ctx, queryMarkProcessing, id)
}

func (r *OutboxRepository) MarkSucceeded(ctx context.Context, id uuid.UUID) error {
	return r.exec(ctx, queryMarkSucceeded, id)
}

func (r *OutboxRepository) MarkFailed(ctx context.Context, id uuid.UUID, lastError string) error {
	return r.exec(ctx, queryMarkFailed, id, lastError)
}

// ScheduleRetry puts the row back to pending, due at runAt.
func (r *OutboxRepository) ScheduleRetry(ctx context.Context, id uuid.UUID, runAt time.Time, lastError string) error {
	return r.exec(ctx, queryScheduleRetry, id, runAt, lastError)
}

func (r *OutboxRepository) exec(ctx context.Context, query string, args ...any) error {
	if r == nil || r.pool == nil {
		return errors.New(errRepoNotConfigured)
	}
	_, err := r.pool.Exec(ctx, query, args...)
	return err
}
