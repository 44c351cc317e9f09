// Package ports defines what the sales domain needs from the property,
// construction, finance and audit modules. The sales module never imports
// those modules directly; the composition root wires adapters that satisfy
// these interfaces.
package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PropertySnapshot is the part of a property the sales domain reads.
type PropertySnapshot struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	PropertyType string
	// Price is the purchase price recorded on the property, if any.
	Price   *decimal.Decimal
	UnitIDs []uuid.UUID
}

// HasUnit reports whether unitID belongs to the property.
func (p PropertySnapshot) HasUnit(unitID uuid.UUID) bool {
	for _, id := range p.UnitIDs {
		if id == unitID {
			return true
		}
	}
	return false
}

// PropertyLookup resolves properties.
type PropertyLookup interface {
	// GetProperty returns an apperr NotFound error for an unknown property.
	GetProperty(ctx context.Context, propertyID uuid.UUID) (PropertySnapshot, error)
}

// ProjectBudget is one construction project's budget. A nil BudgetTotal counts as zero.
type ProjectBudget struct {
	ProjectID   uuid.UUID
	BudgetTotal *decimal.Decimal
}

// ConstructionReader lists the construction projects of a property.
type ConstructionReader interface {
	ListProjectBudgets(ctx context.Context, propertyID uuid.UUID) ([]ProjectBudget, error)
}

// CashflowStats are lifetime totals of a property's financial operations.
type CashflowStats struct {
	TotalRevenue decimal.Decimal
	TotalExpense decimal.Decimal
	Cashflow     decimal.Decimal
}

// FinanceReader aggregates a property's financial operations.
type FinanceReader interface {
	GetLifetimeStats(ctx context.Context, propertyID uuid.UUID) (CashflowStats, error)
}
