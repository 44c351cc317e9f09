package domain

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// Action is the next step suggested for a sale process.
type Action string

const (
	ActionAdjustPrice Action = "ADJUST_PRICE"
	ActionWait        Action = "WAIT"
	ActionMarketing   Action = "MARKETING"
	ActionAccept      Action = "ACCEPT"
	ActionNegotiate   Action = "NEGOTIATE"
	ActionClosed      Action = "CLOSED"
)

const (
	staleListingDays  = 60
	goodTrafficVisits = 5
)

var acceptRatio = decimal.RequireFromString("0.95")

type advice struct {
	reason string
	color  string
}

var advices = map[Action]advice{
	ActionAdjustPrice: {"More than 60 days without an offer and few visits. Consider lowering the price.", "red"},
	ActionWait:        {"Visit traffic is good. An offer should arrive soon.", "blue"},
	ActionMarketing:   {"Increase the listing's visibility (photos, ads) to attract visits.", "orange"},
	ActionAccept:      {"You have an excellent offer (at least 95% of the target price). Secure the sale.", "green"},
	ActionNegotiate:   {"Offers are in, but below expectations. Negotiate to close the gap.", "purple"},
	ActionClosed:      {"The process is finished or locked.", "gray"},
}

// AdviceInput is the read-only view the advisor works from.
type AdviceInput struct {
	Status       Status
	ListingDate  *time.Time
	CreatedAt    time.Time
	TargetPrice  *decimal.Decimal
	AskingPrice  *decimal.Decimal
	VisitCount   int
	OfferAmounts []decimal.Decimal
	Today        time.Time
}

// Recommendation is the advisor's answer together with the figures it used.
type Recommendation struct {
	Action          Action
	Reason          string
	Color           string
	DaysOnMarket    int
	VisitCount      int
	OfferCount      int
	BestOfferAmount decimal.Decimal
}

// Recommend walks the decision tree. It has no side effects.
func Recommend(in AdviceInput) Recommendation {
	best := decimal.Zero
	for i, amount := range in.OfferAmounts {
		if i == 0 || amount.GreaterThan(best) {
			best = amount
		}
	}

	days := DaysOnMarket(in.ListingDate, in.CreatedAt, in.Today)
	action := decide(in, days, best)

	a := advices[action]
	return Recommendation{
		Action:          action,
		Reason:          a.reason,
		Color:           a.color,
		DaysOnMarket:    days,
		VisitCount:      in.VisitCount,
		OfferCount:      len(in.OfferAmounts),
		BestOfferAmount: best,
	}
}

func decide(in AdviceInput, days int, best decimal.Decimal) Action {
	if in.Status.IsTerminal() || in.Status.IsLockedForOffers() {
		return ActionClosed
	}

	goodTraffic := in.VisitCount >= goodTrafficVisits
	if len(in.OfferAmounts) == 0 {
		switch {
		case days > staleListingDays && !goodTraffic:
			return ActionAdjustPrice
		case goodTraffic:
			return ActionWait
		default:
			return ActionMarketing
		}
	}

	target := in.TargetPrice
	if target == nil {
		target = in.AskingPrice
	}
	threshold := orZero(target).Mul(acceptRatio)
	if best.GreaterThanOrEqual(threshold) {
		return ActionAccept
	}
	return ActionNegotiate
}

// DaysOnMarket counts calendar days from the listing date, falling back to
// the creation date, then to today. The listing date is a calendar date and
// is read as-is; createdAt is an instant and is moved to today's location.
func DaysOnMarket(listingDate *time.Time, createdAt, today time.Time) int {
	loc := today.Location()
	to := dateOf(today)

	from := to
	switch {
	case listingDate != nil && !listingDate.IsZero():
		y, m, d := listingDate.Date()
		from = time.Date(y, m, d, 0, 0, 0, 0, loc)
	case !createdAt.IsZero():
		from = dateOf(createdAt.In(loc))
	}

	return int(math.Round(to.Sub(from).Hours() / 24))
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
