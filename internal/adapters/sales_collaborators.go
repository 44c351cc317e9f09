package adapters

import (
	"context"
	"errors"
	"fmt"

	"immopilot_backend/internal/sales/ports"
	"immopilot_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

// Querier is the pgx surface the collaborator readers need. *pgxpool.Pool satisfies it.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

const (
	queryGetProperty = `SELECT id, user_id, property_type, price FROM properties WHERE id = $1`

	queryListUnitIDs = `SELECT id FROM property_units WHERE property_id = $1 ORDER BY created_at ASC, id ASC`

	queryListProjectBudgets = `SELECT id, budget_total FROM construction_projects
		WHERE property_id = $1
		ORDER BY created_at ASC, id ASC`

	queryLifetimeStats = `SELECT
		COALESCE(SUM(amount) FILTER (WHERE operation_type = 'REVENUE'), 0),
		COALESCE(SUM(amount) FILTER (WHERE operation_type = 'EXPENSE'), 0)
		FROM financial_operations
		WHERE property_id = $1`
)

// PropertyReader reads properties and their units for the sales domain.
// It satisfies ports.PropertyLookup.
type PropertyReader struct {
	db Querier
}

// NewPropertyReader creates a new property reader adapter.
func NewPropertyReader(db Querier) *PropertyReader {
	return &PropertyReader{db: db}
}

// GetProperty returns the property with its unit ids.
func (a *PropertyReader) GetProperty(ctx context.Context, propertyID uuid.UUID) (ports.PropertySnapshot, error) {
	var p ports.PropertySnapshot
	err := a.db.QueryRow(ctx, queryGetProperty, propertyID).Scan(&p.ID, &p.UserID, &p.PropertyType, &p.Price)
	if errors.Is(err, pgx.ErrNoRows) {
		return ports.PropertySnapshot{}, apperr.NotFound("property not found")
	}
	if err != nil {
		return ports.PropertySnapshot{}, fmt.Errorf("property adapter: get property: %w", err)
	}

	rows, err := a.db.Query(ctx, queryListUnitIDs, propertyID)
	if err != nil {
		return ports.PropertySnapshot{}, fmt.Errorf("property adapter: list units: %w", err)
	}
	unitIDs, err := pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
	if err != nil {
		return ports.PropertySnapshot{}, fmt.Errorf("property adapter: scan units: %w", err)
	}
	p.UnitIDs = unitIDs
	return p, nil
}

// ConstructionBudgetReader lists construction project budgets.
// It satisfies ports.ConstructionReader.
type ConstructionBudgetReader struct {
	db Querier
}

// NewConstructionBudgetReader creates a new construction reader adapter.
func NewConstructionBudgetReader(db Querier) *ConstructionBudgetReader {
	return &ConstructionBudgetReader{db: db}
}

// ListProjectBudgets returns every project of the property, oldest first.
func (a *ConstructionBudgetReader) ListProjectBudgets(ctx context.Context, propertyID uuid.UUID) ([]ports.ProjectBudget, error) {
	rows, err := a.db.Query(ctx, queryListProjectBudgets, propertyID)
	if err != nil {
		return nil, fmt.Errorf("construction adapter: list projects: %w", err)
	}
	defer rows.Close()

	var budgets []ports.ProjectBudget
	for rows.Next() {
		var b ports.ProjectBudget
		if err := rows.Scan(&b.ProjectID, &b.BudgetTotal); err != nil {
			return nil, fmt.Errorf("construction adapter: scan project: %w", err)
		}
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}

// CashflowReader aggregates the finance ledger. It satisfies ports.FinanceReader.
type CashflowReader struct {
	db Querier
}

// NewCashflowReader creates a new finance reader adapter.
func NewCashflowReader(db Querier) *CashflowReader {
	return &CashflowReader{db: db}
}

// GetLifetimeStats sums revenue and expense over every operation of the property.
func (a *CashflowReader) GetLifetimeStats(ctx context.Context, propertyID uuid.UUID) (ports.CashflowStats, error) {
	var revenue, expense decimal.Decimal
	if err := a.db.QueryRow(ctx, queryLifetimeStats, propertyID).Scan(&revenue, &expense); err != nil {
		return ports.CashflowStats{}, fmt.Errorf("finance adapter: lifetime stats: %w", err)
	}
	return cashflowStats(revenue, expense), nil
}

func cashflowStats(revenue, expense decimal.Decimal) ports.CashflowStats {
	return ports.CashflowStats{
		TotalRevenue: revenue,
		TotalExpense: expense,
		Cashflow:     revenue.Sub(expense),
	}
}
