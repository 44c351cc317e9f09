package service

import (
	"context"
	"sync"
	"testing"

	"immopilot_backend/internal/sales/domain"
	"immopilot_backend/internal/sales/transport"
	"immopilot_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestConcurrentCreateAdmitsOneActiveProcess(t *testing.T) {
	ctx := context.Background()
	h := newHarness()
	unit := uuid.New()
	propertyID := h.addProperty(nil, unit)

	const callers = 30
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		created   int
		conflicts int
		others    []error
	)
	for i := 0; i < callers; i++ {
		req := transport.CreateProcessRequest{PropertyID: propertyID}
		if i%2 == 1 {
			req.UnitID = &unit
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := h.svc.CreateProcess(ctx, h.user, req)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				created++
			case apperr.Is(err, apperr.KindConflict):
				conflicts++
			default:
				others = append(others, err)
			}
		}()
	}
	wg.Wait()

	if len(others) > 0 {
		t.Fatalf("unexpected errors: %v", others)
	}
	if created != 1 || conflicts != callers-1 {
		t.Fatalf("expected 1 created and %d conflicts, got %d and %d", callers-1, created, conflicts)
	}

	listed, err := h.svc.ListProcessesByProperty(ctx, propertyID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(listed.Items) != 1 {
		t.Fatalf("expected one stored process, got %d", len(listed.Items))
	}
}

func TestConcurrentAcceptanceAcceptsOneOffer(t *testing.T) {
	ctx := context.Background()
	h := newHarness()
	processID := h.onMarket(t, transport.CreateProcessRequest{PropertyID: h.addProperty(nil), AgencyFee: money(5000)})
	prospect := h.visitedProspect(t, processID)

	const callers = 10
	offerIDs := make([]uuid.UUID, 0, callers)
	amounts := make(map[uuid.UUID]decimal.Decimal, callers)
	for i := 0; i < callers; i++ {
		amount := decimal.NewFromInt(int64(200000 + i*1000))
		offer, err := h.svc.AddOffer(ctx, h.user, processID, transport.CreateOfferRequest{ProspectID: prospect, OfferAmount: amount})
		if err != nil {
			t.Fatalf("add offer: %v", err)
		}
		offerIDs = append(offerIDs, offer.ID)
		amounts[offer.ID] = amount
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		winners   []*transport.OfferStatusResponse
		conflicts int
		others    []error
	)
	for _, id := range offerIDs {
		wg.Add(1)
		go func(offerID uuid.UUID) {
			defer wg.Done()
			res, err := h.svc.UpdateOfferStatus(ctx, h.user, offerID, transport.UpdateOfferStatusRequest{Status: "ACCEPTED"})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				winners = append(winners, res)
			case apperr.Is(err, apperr.KindConflict):
				conflicts++
			default:
				others = append(others, err)
			}
		}(id)
	}
	wg.Wait()

	if len(others) > 0 {
		t.Fatalf("unexpected errors: %v", others)
	}
	if len(winners) != 1 || conflicts != callers-1 {
		t.Fatalf("expected 1 acceptance and %d conflicts, got %d and %d", callers-1, len(winners), conflicts)
	}

	offers, err := h.svc.ListOffers(ctx, processID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var accepted []transport.OfferResponse
	for _, o := range offers.Items {
		if o.Status == string(domain.OfferAccepted) {
			accepted = append(accepted, o)
		}
	}
	if len(accepted) != 1 {
		t.Fatalf("expected exactly one ACCEPTED offer, got %d", len(accepted))
	}

	process, err := h.svc.GetProcess(ctx, processID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if process.Status != string(domain.StatusPromesseSigned) {
		t.Fatalf("expected PROMESSE_SIGNED, got %s", process.Status)
	}
	want := amounts[accepted[0].ID].Sub(decimal.NewFromInt(5000))
	if process.NetPrice == nil || !process.NetPrice.Equal(want) {
		t.Fatalf("expected net price %s, got %v", want, process.NetPrice)
	}
}
