package repository

import (
	"context"

	"github.com/google/uuid"
)

const (
	msgProcessNotFound  = "sale process not found"
	msgProspectNotFound = "prospect not found"
	msgOfferNotFound    = "offer not found"
)

// ProcessStore reads and writes sale processes and their status log.
type ProcessStore interface {
	GetProcess(ctx context.Context, id uuid.UUID) (SaleProcess, error)
	// GetProcessForUpdate locks the row until the surrounding transaction ends.
	GetProcessForUpdate(ctx context.Context, id uuid.UUID) (SaleProcess, error)
	ListProcessesByProperty(ctx context.Context, propertyID uuid.UUID) ([]SaleProcess, error)
	// LockProperty serialises process creation for one property.
	LockProperty(ctx context.Context, propertyID uuid.UUID) error
	InsertProcess(ctx context.Context, p SaleProcess) (SaleProcess, error)
	UpdateProcess(ctx context.Context, p SaleProcess) (SaleProcess, error)
	InsertTransition(ctx context.Context, t Transition) error
	ListTransitions(ctx context.Context, processID uuid.UUID) ([]Transition, error)
}

// PipelineStore reads and writes prospects, visits and offers.
type PipelineStore interface {
	InsertProspect(ctx context.Context, p Prospect) (Prospect, error)
	GetProspect(ctx context.Context, id uuid.UUID) (Prospect, error)
	ListProspects(ctx context.Context, processID uuid.UUID) ([]Prospect, error)
	InsertVisit(ctx context.Context, v Visit) (Visit, error)
	ListVisits(ctx context.Context, processID uuid.UUID) ([]Visit, error)
	CountVisits(ctx context.Context, processID, prospectID uuid.UUID) (int, error)
	InsertOffer(ctx context.Context, o Offer) (Offer, error)
	GetOffer(ctx context.Context, id uuid.UUID) (Offer, error)
	GetOfferForUpdate(ctx context.Context, id uuid.UUID) (Offer, error)
	UpdateOffer(ctx context.Context, o Offer) (Offer, error)
	ListOffers(ctx context.Context, processID uuid.UUID) ([]Offer, error)
}

// Queries is everything a single unit of work may touch.
type Queries interface {
	ProcessStore
	PipelineStore
}

// Store runs Queries outside or inside a transaction. When fn returns an
// error, nothing it wrote is kept.
type Store interface {
	Queries
	WithinTx(ctx context.Context, fn func(q Queries) error) error
}
