package domain

import (
	"immopilot_backend/platform/apperr"
)

// Event is something that may move a sale process between statuses.
type Event string

const (
	// EventCreated only labels the first transition log entry; it is never decided.
	EventCreated            Event = "created"
	EventManual             Event = "manual"
	EventProspectAdded      Event = "prospect_added"
	EventVisitAdded         Event = "visit_added"
	EventOfferAdded         Event = "offer_added"
	EventOfferStatusChanged Event = "offer_status_changed"
	EventOfferAccepted      Event = "offer_accepted"
	EventRecompute          Event = "recompute"
	EventAbandon            Event = "abandon"
)

// AllEvents lists every decidable event.
var AllEvents = []Event{
	EventManual, EventProspectAdded, EventVisitAdded, EventOfferAdded,
	EventOfferStatusChanged, EventOfferAccepted, EventRecompute, EventAbandon,
}

// Effect is a side effect the caller must apply together with the status change.
type Effect uint8

const (
	EffectStampClosingDate Effect = 1 << iota
	EffectRecompute
	EffectSetNetPrice
	EffectRecordAbandonReason
)

// Transition is one cell of the transition table.
type Transition struct {
	Allowed bool
	// Next is the status after the event. Empty keeps the current status.
	Next       Status
	Effects    Effect
	RejectKind apperr.Kind
	Reason     string
}

// Outcome is a decided transition for a concrete current status.
type Outcome struct {
	From    Status
	To      Status
	Effects Effect
}

// Changed reports whether the status moves.
func (o Outcome) Changed() bool { return o.From != o.To }

// Has reports whether the outcome carries e.
func (o Outcome) Has(e Effect) bool { return o.Effects&e != 0 }

type eventRules struct {
	byStatus map[Status]Transition
	fallback Transition
}

const (
	reasonVisitStatus     = "cannot add visit: status must be ON_MARKET or VISITS"
	reasonOfferLocked     = "cannot add offer: an offer is already accepted and waiting for signature"
	reasonAlreadyAccepted = "an offer is already accepted for this process"
)

var allow = Transition{Allowed: true}

// transitionTable maps (event, current status) to the transition. Terminal
// statuses are rejected before the table is consulted, and manual moves are
// decided from their target, so neither appears here.
var transitionTable = map[Event]eventRules{
	EventProspectAdded: {fallback: allow},
	EventVisitAdded: {
		byStatus: map[Status]Transition{
			StatusOnMarket: {Allowed: true, Next: StatusVisits},
			StatusVisits:   allow,
		},
		fallback: Transition{RejectKind: apperr.KindConflict, Reason: reasonVisitStatus},
	},
	EventOfferAdded: {
		byStatus: map[Status]Transition{
			StatusOnMarket:       {Allowed: true, Next: StatusOffers},
			StatusVisits:         {Allowed: true, Next: StatusOffers},
			StatusOfferAccepted:  {RejectKind: apperr.KindConflict, Reason: reasonOfferLocked},
			StatusPromesseSigned: {RejectKind: apperr.KindConflict, Reason: reasonOfferLocked},
		},
		fallback: allow,
	},
	EventOfferStatusChanged: {fallback: allow},
	EventOfferAccepted: {
		byStatus: map[Status]Transition{
			StatusOfferAccepted:  {RejectKind: apperr.KindConflict, Reason: reasonAlreadyAccepted},
			StatusPromesseSigned: {RejectKind: apperr.KindConflict, Reason: reasonAlreadyAccepted},
		},
		fallback: Transition{Allowed: true, Next: StatusPromesseSigned, Effects: EffectSetNetPrice | EffectRecompute},
	},
	EventRecompute: {fallback: Transition{Allowed: true, Effects: EffectRecompute}},
	EventAbandon: {
		fallback: Transition{Allowed: true, Next: StatusAbandoned, Effects: EffectRecordAbandonReason},
	},
}

// Decide resolves event against the current status. target is only read for
// EventManual. A rejected transition is returned as an *apperr.Error.
func Decide(current Status, event Event, target Status) (Outcome, error) {
	if current.IsTerminal() {
		return Outcome{}, apperr.InvalidState(lockedReason(current))
	}

	if event == EventManual {
		return decideManual(current, target)
	}

	rules, ok := transitionTable[event]
	if !ok {
		return Outcome{}, apperr.Internal("unknown sale event " + string(event))
	}

	tr, ok := rules.byStatus[current]
	if !ok {
		tr = rules.fallback
	}
	if !tr.Allowed {
		return Outcome{}, apperr.New(tr.RejectKind, tr.Reason)
	}

	next := tr.Next
	if next == "" {
		next = current
	}
	return Outcome{From: current, To: next, Effects: tr.Effects}, nil
}

func decideManual(current, target Status) (Outcome, error) {
	if !target.Valid() {
		return Outcome{}, apperr.Validation("unknown sale status " + string(target))
	}
	if target == StatusAbandoned {
		return Outcome{}, apperr.Validation("use abandon to move a process to ABANDONED with a reason")
	}

	out := Outcome{From: current, To: target}
	if target == current {
		return out, nil
	}
	if target == StatusActSigned {
		out.Effects = EffectStampClosingDate | EffectRecompute
	}
	return out, nil
}

func lockedReason(s Status) string {
	switch s {
	case StatusActSigned:
		return "sale is finalized (ACT_SIGNED); no further changes are permitted"
	case StatusAbandoned:
		return "sale process is abandoned; no further changes are permitted"
	default:
		return "sale process is cancelled; no further changes are permitted"
	}
}
