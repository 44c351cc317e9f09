// Package domain holds the pure sale-process rules: statuses, the transition
// table, the exclusivity rule, the financial indicators and the advisor.
// Nothing in this package performs I/O.
package domain

import (
	"strings"

	"immopilot_backend/platform/apperr"
)

// Status is the lifecycle status of a sale process.
type Status string

const (
	StatusDraft           Status = "DRAFT"
	StatusOnMarket        Status = "ON_MARKET"
	StatusVisits          Status = "VISITS"
	StatusOffers          Status = "OFFERS"
	StatusNegotiation     Status = "NEGOTIATION"
	StatusOfferAccepted   Status = "OFFER_ACCEPTED"
	StatusCompromisSigned Status = "COMPROMIS_SIGNED"
	StatusPromesseSigned  Status = "PROMESSE_SIGNED"
	StatusActSigned       Status = "ACT_SIGNED"
	StatusAbandoned       Status = "ABANDONED"
	StatusCancelled       Status = "CANCELLED"
)

// AllStatuses lists every status in lifecycle order.
var AllStatuses = []Status{
	StatusDraft, StatusOnMarket, StatusVisits, StatusOffers, StatusNegotiation,
	StatusOfferAccepted, StatusCompromisSigned, StatusPromesseSigned, StatusActSigned,
	StatusAbandoned, StatusCancelled,
}

// ParseStatus parses a status name, case-insensitively.
func ParseStatus(raw string) (Status, error) {
	s := Status(strings.ToUpper(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", apperr.Validation("unknown sale status " + raw)
	}
	return s, nil
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// IsTerminal reports whether s ends the process. Terminal processes no longer
// block new processes on their scope and reject every mutation.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusActSigned, StatusCancelled, StatusAbandoned:
		return true
	default:
		return false
	}
}

// IsLockedForOffers reports whether an offer has already been accepted.
func (s Status) IsLockedForOffers() bool {
	return s == StatusOfferAccepted || s == StatusPromesseSigned
}

// OfferStatus is the status of a single offer.
type OfferStatus string

const (
	OfferPending      OfferStatus = "PENDING"
	OfferAccepted     OfferStatus = "ACCEPTED"
	OfferRejected     OfferStatus = "REJECTED"
	OfferCounterOffer OfferStatus = "COUNTER_OFFER"
)

// ParseOfferStatus parses an offer status name, case-insensitively.
func ParseOfferStatus(raw string) (OfferStatus, error) {
	s := OfferStatus(strings.ToUpper(strings.TrimSpace(raw)))
	switch s {
	case OfferPending, OfferAccepted, OfferRejected, OfferCounterOffer:
		return s, nil
	default:
		return "", apperr.Validation("unknown offer status " + raw)
	}
}

// Engagement is how warm a prospect is.
type Engagement string

const (
	EngagementCold Engagement = "COLD"
	EngagementWarm Engagement = "WARM"
	EngagementHot  Engagement = "HOT"
)

// InterestLevel is the interest a prospect showed during a visit.
type InterestLevel string

const (
	InterestLow    InterestLevel = "LOW"
	InterestMedium InterestLevel = "MEDIUM"
	InterestHigh   InterestLevel = "HIGH"
)
