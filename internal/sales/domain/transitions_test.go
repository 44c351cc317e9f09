package domain

import (
	"testing"

	"immopilot_backend/platform/apperr"
)

func TestTerminalStatusesRejectEveryEvent(t *testing.T) {
	for _, status := range AllStatuses {
		if !status.IsTerminal() {
			continue
		}
		for _, event := range AllEvents {
			_, err := Decide(status, event, StatusOnMarket)
			if !apperr.Is(err, apperr.KindInvalidState) {
				t.Fatalf("%s on %s: expected invalid state, got %v", event, status, err)
			}
		}
	}
}

func TestEveryCellIsDecided(t *testing.T) {
	for _, status := range AllStatuses {
		for _, event := range AllEvents {
			out, err := Decide(status, event, StatusNegotiation)
			if err != nil {
				if apperr.GetKind(err) == apperr.KindUnknown || apperr.Is(err, apperr.KindInternal) {
					t.Fatalf("%s on %s: untyped rejection %v", event, status, err)
				}
				continue
			}
			if out.From != status || !out.To.Valid() {
				t.Fatalf("%s on %s: malformed outcome %+v", event, status, out)
			}
		}
	}
}

func TestVisitTransitions(t *testing.T) {
	out, err := Decide(StatusOnMarket, EventVisitAdded, "")
	if err != nil || out.To != StatusVisits {
		t.Fatalf("expected ON_MARKET -> VISITS, got %+v %v", out, err)
	}

	out, err = Decide(StatusVisits, EventVisitAdded, "")
	if err != nil || out.Changed() {
		t.Fatalf("expected VISITS to stay, got %+v %v", out, err)
	}

	for _, status := range []Status{StatusDraft, StatusOffers, StatusNegotiation, StatusPromesseSigned} {
		if _, err := Decide(status, EventVisitAdded, ""); !apperr.Is(err, apperr.KindConflict) {
			t.Fatalf("visit in %s: expected conflict, got %v", status, err)
		}
	}
}

func TestOfferAddedTransitions(t *testing.T) {
	cases := []struct {
		from Status
		to   Status
		kind apperr.Kind
	}{
		{StatusOnMarket, StatusOffers, apperr.KindUnknown},
		{StatusVisits, StatusOffers, apperr.KindUnknown},
		{StatusOffers, StatusOffers, apperr.KindUnknown},
		{StatusNegotiation, StatusNegotiation, apperr.KindUnknown},
		{StatusOfferAccepted, "", apperr.KindConflict},
		{StatusPromesseSigned, "", apperr.KindConflict},
		{StatusActSigned, "", apperr.KindInvalidState},
		{StatusAbandoned, "", apperr.KindInvalidState},
		{StatusCancelled, "", apperr.KindInvalidState},
	}

	for _, tc := range cases {
		out, err := Decide(tc.from, EventOfferAdded, "")
		if tc.kind != apperr.KindUnknown {
			if !apperr.Is(err, tc.kind) {
				t.Fatalf("offer in %s: expected %s, got %v", tc.from, tc.kind, err)
			}
			continue
		}
		if err != nil || out.To != tc.to {
			t.Fatalf("offer in %s: expected %s, got %+v %v", tc.from, tc.to, out, err)
		}
	}
}

func TestOfferAcceptedFastPath(t *testing.T) {
	out, err := Decide(StatusOffers, EventOfferAccepted, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.To != StatusPromesseSigned {
		t.Fatalf("expected PROMESSE_SIGNED, got %s", out.To)
	}
	if !out.Has(EffectSetNetPrice) || !out.Has(EffectRecompute) {
		t.Fatalf("expected net price and recompute effects, got %b", out.Effects)
	}

	for _, status := range []Status{StatusOfferAccepted, StatusPromesseSigned} {
		_, err := Decide(status, EventOfferAccepted, "")
		if !apperr.Is(err, apperr.KindConflict) {
			t.Fatalf("accept in %s: expected conflict, got %v", status, err)
		}
	}
}

func TestManualTransitions(t *testing.T) {
	out, err := Decide(StatusPromesseSigned, EventManual, StatusActSigned)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.Has(EffectStampClosingDate) || !out.Has(EffectRecompute) {
		t.Fatalf("expected ACT_SIGNED to stamp closing date and recompute, got %b", out.Effects)
	}

	out, err = Decide(StatusOffers, EventManual, StatusOffers)
	if err != nil || out.Changed() || out.Effects != 0 {
		t.Fatalf("expected same-status move to be a no-op, got %+v %v", out, err)
	}

	if _, err := Decide(StatusOffers, EventManual, StatusAbandoned); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected manual abandon to be a validation error, got %v", err)
	}
	if _, err := Decide(StatusOffers, EventManual, Status("SOLD")); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected unknown target to be a validation error, got %v", err)
	}
	if _, err := Decide(StatusActSigned, EventManual, StatusActSigned); !apperr.Is(err, apperr.KindInvalidState) {
		t.Fatalf("expected ACT_SIGNED to stay frozen, got %v", err)
	}
}

func TestAbandonRecordsReasonEffect(t *testing.T) {
	out, err := Decide(StatusNegotiation, EventAbandon, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.To != StatusAbandoned || !out.Has(EffectRecordAbandonReason) {
		t.Fatalf("unexpected outcome %+v", out)
	}
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus(" on_market ")
	if err != nil || s != StatusOnMarket {
		t.Fatalf("expected ON_MARKET, got %q %v", s, err)
	}
	if _, err := ParseStatus("SOLD"); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
