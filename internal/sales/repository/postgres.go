package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"immopilot_backend/internal/sales/domain"
	"immopilot_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

const (
	uniqueViolation = "23505"

	idxActiveUnit   = "idx_sale_processes_active_unit"
	idxActiveGlobal = "idx_sale_processes_active_global"
)

const processColumns = `id, property_id, unit_id, status, asking_price, net_price, agency_fee, target_price,
	estimated_margin, acquisition_price, total_works_amount, total_charges_amount, estimated_net_gain,
	global_roi, listing_date, closing_date, abandon_reason, created_at, updated_at`

const (
	QueryGetProcess          = `SELECT ` + processColumns + ` FROM sale_processes WHERE id = $1`
	QueryGetProcessForUpdate = QueryGetProcess + ` FOR UPDATE`
	QueryListByProperty      = `SELECT ` + processColumns + ` FROM sale_processes WHERE property_id = $1 ORDER BY created_at DESC`
	QueryLockProperty        = `SELECT pg_advisory_xact_lock(hashtextextended($1::text, 0))`
	QueryInsertProcess       = `INSERT INTO sale_processes (` + processColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		RETURNING ` + processColumns
	QueryUpdateProcess = `UPDATE sale_processes SET
		status = $2, asking_price = $3, net_price = $4, agency_fee = $5, target_price = $6,
		estimated_margin = $7, acquisition_price = $8, total_works_amount = $9, total_charges_amount = $10,
		estimated_net_gain = $11, global_roi = $12, listing_date = $13, closing_date = $14,
		abandon_reason = $15, updated_at = $16
		WHERE id = $1
		RETURNING ` + processColumns
	QueryInsertTransition = `INSERT INTO sale_status_transitions (id, process_id, from_status, to_status, event, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	QueryListTransitions = `SELECT id, process_id, from_status, to_status, event, reason, created_at
		FROM sale_status_transitions WHERE process_id = $1 ORDER BY created_at ASC, id ASC`
)

// Repository is the Postgres Store.
type Repository struct {
	pool *pgxpool.Pool
	db   DBTX
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool, db: pool}
}

// WithinTx runs fn against a single transaction and commits when fn succeeds.
func (r *Repository) WithinTx(ctx context.Context, fn func(q Queries) error) error {
	if r.pool == nil {
		return fn(r)
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(&Repository{db: tx}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *Repository) GetProcess(ctx context.Context, id uuid.UUID) (SaleProcess, error) {
	return r.getProcess(ctx, QueryGetProcess, id)
}

func (r *Repository) GetProcessForUpdate(ctx context.Context, id uuid.UUID) (SaleProcess, error) {
	return r.getProcess(ctx, QueryGetProcessForUpdate, id)
}

func (r *Repository) getProcess(ctx context.Context, query string, id uuid.UUID) (SaleProcess, error) {
	p, err := scanProcess(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return SaleProcess{}, apperr.NotFound(msgProcessNotFound)
	}
	if err != nil {
		return SaleProcess{}, fmt.Errorf("failed to get sale process: %w", err)
	}
	return p, nil
}

func (r *Repository) ListProcessesByProperty(ctx context.Context, propertyID uuid.UUID) ([]SaleProcess, error) {
	rows, err := r.db.Query(ctx, QueryListByProperty, propertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sale processes: %w", err)
	}
	defer rows.Close()

	items := make([]SaleProcess, 0)
	for rows.Next() {
		p, err := scanProcess(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sale process: %w", err)
		}
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list sale processes: %w", err)
	}
	return items, nil
}

func (r *Repository) LockProperty(ctx context.Context, propertyID uuid.UUID) error {
	if _, err := r.db.Exec(ctx, QueryLockProperty, propertyID); err != nil {
		return fmt.Errorf("failed to lock property: %w", err)
	}
	return nil
}

func (r *Repository) InsertProcess(ctx context.Context, p SaleProcess) (SaleProcess, error) {
	out, err := scanProcess(r.db.QueryRow(ctx, QueryInsertProcess,
		p.ID, p.PropertyID, p.UnitID, string(p.Status), p.AskingPrice, p.NetPrice, p.AgencyFee, p.TargetPrice,
		p.EstimatedMargin, p.AcquisitionPrice, p.TotalWorksAmount, p.TotalChargesAmount, p.EstimatedNetGain,
		p.GlobalRoi, p.ListingDate, p.ClosingDate, p.AbandonReason, p.CreatedAt, p.UpdatedAt,
	))
	if err != nil {
		if conflict := mapUniqueViolation(err); conflict != nil {
			return SaleProcess{}, conflict
		}
		return SaleProcess{}, fmt.Errorf("failed to insert sale process: %w", err)
	}
	return out, nil
}

func (r *Repository) UpdateProcess(ctx context.Context, p SaleProcess) (SaleProcess, error) {
	out, err := scanProcess(r.db.QueryRow(ctx, QueryUpdateProcess,
		p.ID, string(p.Status), p.AskingPrice, p.NetPrice, p.AgencyFee, p.TargetPrice,
		p.EstimatedMargin, p.AcquisitionPrice, p.TotalWorksAmount, p.TotalChargesAmount,
		p.EstimatedNetGain, p.GlobalRoi, p.ListingDate, p.ClosingDate,
		p.AbandonReason, p.UpdatedAt,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return SaleProcess{}, apperr.NotFound(msgProcessNotFound)
	}
	if err != nil {
		if conflict := mapUniqueViolation(err); conflict != nil {
			return SaleProcess{}, conflict
		}
		return SaleProcess{}, fmt.Errorf("failed to update sale process: %w", err)
	}
	return out, nil
}

func (r *Repository) InsertTransition(ctx context.Context, t Transition) error {
	var from *string
	if t.FromStatus != nil {
		s := string(*t.FromStatus)
		from = &s
	}
	_, err := r.db.Exec(ctx, QueryInsertTransition,
		t.ID, t.ProcessID, from, string(t.ToStatus), string(t.Event), t.Reason, t.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert status transition: %w", err)
	}
	return nil
}

func (r *Repository) ListTransitions(ctx context.Context, processID uuid.UUID) ([]Transition, error) {
	rows, err := r.db.Query(ctx, QueryListTransitions, processID)
	if err != nil {
		return nil, fmt.Errorf("failed to list status transitions: %w", err)
	}
	defer rows.Close()

	items := make([]Transition, 0)
	for rows.Next() {
		var t Transition
		var from *string
		var to, event string
		if err := rows.Scan(&t.ID, &t.ProcessID, &from, &to, &event, &t.Reason, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan status transition: %w", err)
		}
		if from != nil {
			s := domain.Status(*from)
			t.FromStatus = &s
		}
		t.ToStatus = domain.Status(to)
		t.Event = domain.Event(event)
		items = append(items, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list status transitions: %w", err)
	}
	return items, nil
}

func scanProcess(row pgx.Row) (SaleProcess, error) {
	var p SaleProcess
	var status string
	err := row.Scan(
		&p.ID, &p.PropertyID, &p.UnitID, &status, &p.AskingPrice, &p.NetPrice, &p.AgencyFee, &p.TargetPrice,
		&p.EstimatedMargin, &p.AcquisitionPrice, &p.TotalWorksAmount, &p.TotalChargesAmount, &p.EstimatedNetGain,
		&p.GlobalRoi, &p.ListingDate, &p.ClosingDate, &p.AbandonReason, &p.CreatedAt, &p.UpdatedAt,
	)
	p.Status = domain.Status(status)
	return p, err
}

// mapUniqueViolation turns a hit on one of the active-process indexes into a
// Conflict. It returns nil for any other error.
func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return apperr.Conflict(conflictMessage(pgErr.ConstraintName)).WithDetails(map[string]string{
			"constraint": pgErr.ConstraintName,
		})
	}

	msg := err.Error()
	if strings.Contains(msg, idxActiveUnit) || strings.Contains(msg, idxActiveGlobal) {
		return apperr.Conflict(conflictMessage(msg))
	}
	return nil
}

func conflictMessage(constraint string) string {
	switch {
	case strings.Contains(constraint, idxActiveUnit):
		return "a sale process is already active for this unit"
	case strings.Contains(constraint, idxActiveGlobal):
		return "a global sale process is already active for this property"
	default:
		return "sale process already exists"
	}
}

var _ Store = (*Repository)(nil)
