package transport

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const DateLayout = "2006-01-02"

type CreateProcessRequest struct {
	PropertyID       uuid.UUID        `json:"propertyId" validate:"required"`
	UnitID           *uuid.UUID       `json:"unitId,omitempty"`
	Status           *string          `json:"status,omitempty" validate:"omitempty,oneof=DRAFT ON_MARKET"`
	AskingPrice      *decimal.Decimal `json:"askingPrice,omitempty" validate:"omitempty,positive_decimal"`
	TargetPrice      *decimal.Decimal `json:"targetPrice,omitempty" validate:"omitempty,positive_decimal"`
	AgencyFee        *decimal.Decimal `json:"agencyFee,omitempty" validate:"omitempty,nonnegative_decimal"`
	EstimatedMargin  *decimal.Decimal `json:"estimatedMargin,omitempty"`
	AcquisitionPrice *decimal.Decimal `json:"acquisitionPrice,omitempty" validate:"omitempty,nonnegative_decimal"`
	ListingDate      *string          `json:"listingDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,max=32"`
}

type AbandonProcessRequest struct {
	Reason string `json:"reason" validate:"required,max=2000"`
}

type CreateProspectRequest struct {
	FirstName  *string `json:"firstName,omitempty" validate:"omitempty,max=100"`
	LastName   string  `json:"lastName" validate:"required,max=100"`
	Email      *string `json:"email,omitempty" validate:"omitempty,email,max=254"`
	Phone      *string `json:"phone,omitempty" validate:"omitempty,max=40"`
	Source     *string `json:"source,omitempty" validate:"omitempty,max=100"`
	Notes      *string `json:"notes,omitempty" validate:"omitempty,max=5000"`
	Engagement *string `json:"engagement,omitempty" validate:"omitempty,oneof=COLD WARM HOT"`
}

type CreateVisitRequest struct {
	ProspectID    uuid.UUID `json:"prospectId" validate:"required"`
	VisitDate     time.Time `json:"visitDate" validate:"required"`
	VisitType     *string   `json:"visitType,omitempty" validate:"omitempty,max=50"`
	Feedback      *string   `json:"feedback,omitempty" validate:"omitempty,max=5000"`
	InterestLevel *string   `json:"interestLevel,omitempty" validate:"omitempty,oneof=LOW MEDIUM HIGH"`
}

type CreateOfferRequest struct {
	ProspectID   uuid.UUID       `json:"prospectId" validate:"required"`
	OfferAmount  decimal.Decimal `json:"offerAmount" validate:"positive_decimal"`
	OfferDate    *time.Time      `json:"offerDate,omitempty"`
	Conditions   *string         `json:"conditions,omitempty" validate:"omitempty,max=5000"`
	ValidityDate *string         `json:"validityDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

type UpdateOfferStatusRequest struct {
	Status string `json:"status" validate:"required,max=32"`
}
