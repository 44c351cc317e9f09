package transport

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ProcessResponse struct {
	ID                 uuid.UUID        `json:"id"`
	PropertyID         uuid.UUID        `json:"propertyId"`
	UnitID             *uuid.UUID       `json:"unitId,omitempty"`
	Status             string           `json:"status"`
	AskingPrice        *decimal.Decimal `json:"askingPrice,omitempty"`
	NetPrice           *decimal.Decimal `json:"netPrice,omitempty"`
	AgencyFee          *decimal.Decimal `json:"agencyFee,omitempty"`
	TargetPrice        *decimal.Decimal `json:"targetPrice,omitempty"`
	EstimatedMargin    *decimal.Decimal `json:"estimatedMargin,omitempty"`
	AcquisitionPrice   *decimal.Decimal `json:"acquisitionPrice,omitempty"`
	TotalWorksAmount   *decimal.Decimal `json:"totalWorksAmount,omitempty"`
	TotalChargesAmount *decimal.Decimal `json:"totalChargesAmount,omitempty"`
	EstimatedNetGain   *decimal.Decimal `json:"estimatedNetGain,omitempty"`
	GlobalRoi          *decimal.Decimal `json:"globalRoi,omitempty"`
	ListingDate        *string          `json:"listingDate,omitempty"`
	ClosingDate        *string          `json:"closingDate,omitempty"`
	AbandonReason      *string          `json:"abandonReason,omitempty"`
	CreatedAt          time.Time        `json:"createdAt"`
	UpdatedAt          time.Time        `json:"updatedAt"`
}

type ProcessListResponse struct {
	Items []ProcessResponse `json:"items"`
}

type ProspectResponse struct {
	ID         uuid.UUID `json:"id"`
	ProcessID  uuid.UUID `json:"processId"`
	FirstName  *string   `json:"firstName,omitempty"`
	LastName   string    `json:"lastName"`
	Email      *string   `json:"email,omitempty"`
	Phone      *string   `json:"phone,omitempty"`
	Source     *string   `json:"source,omitempty"`
	Notes      *string   `json:"notes,omitempty"`
	Engagement string    `json:"engagement"`
	CreatedAt  time.Time `json:"createdAt"`
}

type ProspectListResponse struct {
	Items []ProspectResponse `json:"items"`
}

type VisitResponse struct {
	ID            uuid.UUID `json:"id"`
	ProcessID     uuid.UUID `json:"processId"`
	ProspectID    uuid.UUID `json:"prospectId"`
	VisitDate     time.Time `json:"visitDate"`
	VisitType     *string   `json:"visitType,omitempty"`
	Feedback      *string   `json:"feedback,omitempty"`
	InterestLevel string    `json:"interestLevel"`
	CreatedAt     time.Time `json:"createdAt"`
}

type VisitListResponse struct {
	Items []VisitResponse `json:"items"`
}

type OfferResponse struct {
	ID           uuid.UUID       `json:"id"`
	ProcessID    uuid.UUID       `json:"processId"`
	ProspectID   uuid.UUID       `json:"prospectId"`
	OfferDate    time.Time       `json:"offerDate"`
	OfferAmount  decimal.Decimal `json:"offerAmount"`
	Conditions   *string         `json:"conditions,omitempty"`
	Status       string          `json:"status"`
	ValidityDate *string         `json:"validityDate,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

type OfferListResponse struct {
	Items []OfferResponse `json:"items"`
}

// OfferStatusResponse returns the offer together with its process, whose
// status changes when the offer is accepted.
type OfferStatusResponse struct {
	Offer   OfferResponse   `json:"offer"`
	Process ProcessResponse `json:"process"`
}

type TransitionResponse struct {
	ID         uuid.UUID `json:"id"`
	FromStatus *string   `json:"fromStatus"`
	ToStatus   string    `json:"toStatus"`
	Event      string    `json:"event"`
	Reason     *string   `json:"reason,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

type TransitionListResponse struct {
	Items []TransitionResponse `json:"items"`
}

type RecommendationResponse struct {
	Action          string          `json:"action"`
	Reason          string          `json:"reason"`
	Color           string          `json:"color"`
	DaysOnMarket    int             `json:"daysOnMarket"`
	VisitCount      int             `json:"visitCount"`
	OfferCount      int             `json:"offerCount"`
	BestOfferAmount decimal.Decimal `json:"bestOfferAmount"`
}
