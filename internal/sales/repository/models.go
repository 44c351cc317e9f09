package repository

import (
	"time"

	"immopilot_backend/internal/sales/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleProcess is one attempt to sell a property or one of its units.
type SaleProcess struct {
	ID                 uuid.UUID
	PropertyID         uuid.UUID
	UnitID             *uuid.UUID
	Status             domain.Status
	AskingPrice        *decimal.Decimal
	NetPrice           *decimal.Decimal
	AgencyFee          *decimal.Decimal
	TargetPrice        *decimal.Decimal
	EstimatedMargin    *decimal.Decimal
	AcquisitionPrice   *decimal.Decimal
	TotalWorksAmount   *decimal.Decimal
	TotalChargesAmount *decimal.Decimal
	EstimatedNetGain   *decimal.Decimal
	GlobalRoi          *decimal.Decimal
	ListingDate        *time.Time
	ClosingDate        *time.Time
	AbandonReason      *string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Scope returns the fields the exclusivity rule reads.
func (p SaleProcess) Scope() domain.Scope {
	return domain.Scope{ProcessID: p.ID, UnitID: p.UnitID, Status: p.Status}
}

type Prospect struct {
	ID         uuid.UUID
	ProcessID  uuid.UUID
	FirstName  *string
	LastName   string
	Email      *string
	Phone      *string
	Source     *string
	Notes      *string
	Engagement domain.Engagement
	CreatedAt  time.Time
}

type Visit struct {
	ID            uuid.UUID
	ProcessID     uuid.UUID
	ProspectID    uuid.UUID
	VisitDate     time.Time
	VisitType     *string
	Feedback      *string
	InterestLevel domain.InterestLevel
	CreatedAt     time.Time
}

type Offer struct {
	ID           uuid.UUID
	ProcessID    uuid.UUID
	ProspectID   uuid.UUID
	OfferDate    time.Time
	OfferAmount  decimal.Decimal
	Conditions   *string
	Status       domain.OfferStatus
	ValidityDate *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Transition is one entry of the append-only status log. FromStatus is nil
// for the creation entry.
type Transition struct {
	ID         uuid.UUID
	ProcessID  uuid.UUID
	FromStatus *domain.Status
	ToStatus   domain.Status
	Event      domain.Event
	Reason     *string
	CreatedAt  time.Time
}
