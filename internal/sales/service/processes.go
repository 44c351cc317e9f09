package service

import (
	"context"
	"strings"
	"time"

	"immopilot_backend/internal/sales/domain"
	"immopilot_backend/internal/sales/ports"
	"immopilot_backend/internal/sales/repository"
	"immopilot_backend/internal/sales/transport"
	"immopilot_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const (
	errUnitNotOnProperty = "unit does not belong to the property"
	errInitialStatus     = "a sale process starts as DRAFT or ON_MARKET"
	errAbandonReason     = "an abandon reason is required"
	errInvalidDate       = "dates must use the YYYY-MM-DD format"
)

// CreateProcess opens a sale process on a property or one of its units.
func (s *Service) CreateProcess(ctx context.Context, userID uuid.UUID, req transport.CreateProcessRequest) (*transport.ProcessResponse, error) {
	property, err := s.properties.GetProperty(ctx, req.PropertyID)
	if err != nil {
		return nil, err
	}
	if req.UnitID != nil && !property.HasUnit(*req.UnitID) {
		return nil, apperr.Validation(errUnitNotOnProperty)
	}

	status := domain.StatusDraft
	if req.Status != nil {
		status, err = domain.ParseStatus(*req.Status)
		if err != nil {
			return nil, err
		}
		if status != domain.StatusDraft && status != domain.StatusOnMarket {
			return nil, apperr.Validation(errInitialStatus)
		}
	}

	listingDate, err := parseDate(req.ListingDate)
	if err != nil {
		return nil, err
	}
	if status == domain.StatusOnMarket && listingDate == nil {
		today := s.today()
		listingDate = &today
	}

	now := s.now().UTC()
	process := repository.SaleProcess{
		ID:               uuid.New(),
		PropertyID:       req.PropertyID,
		UnitID:           req.UnitID,
		Status:           status,
		AskingPrice:      req.AskingPrice,
		AgencyFee:        req.AgencyFee,
		TargetPrice:      req.TargetPrice,
		EstimatedMargin:  req.EstimatedMargin,
		AcquisitionPrice: req.AcquisitionPrice,
		ListingDate:      listingDate,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	var saved repository.SaleProcess
	err = s.store.WithinTx(ctx, func(q repository.Queries) error {
		if err := q.LockProperty(ctx, process.PropertyID); err != nil {
			return err
		}
		existing, err := q.ListProcessesByProperty(ctx, process.PropertyID)
		if err != nil {
			return err
		}
		scopes := make([]domain.Scope, 0, len(existing))
		for _, p := range existing {
			scopes = append(scopes, p.Scope())
		}
		if err := domain.CanCreate(process.UnitID, scopes); err != nil {
			return err
		}

		saved, err = q.InsertProcess(ctx, process)
		if err != nil {
			return err
		}
		return q.InsertTransition(ctx, repository.Transition{
			ID:        uuid.New(),
			ProcessID: saved.ID,
			ToStatus:  saved.Status,
			Event:     domain.EventCreated,
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, err
	}

	s.log.WithContext(ctx).StatusTransition(saved.ID.String(), "", string(saved.Status), string(domain.EventCreated))
	s.record(ctx, ports.AuditEntry{
		UserID:       userID,
		Action:       ports.ActionCreateProcess,
		ResourceType: ports.ResourceSaleProcess,
		ResourceID:   saved.ID,
		Details: map[string]any{
			"propertyId": saved.PropertyID.String(),
			"unitId":     uuidString(saved.UnitID),
			"status":     string(saved.Status),
		},
	})

	resp := toProcessResponse(saved)
	return &resp, nil
}

// GetProcess returns one sale process.
func (s *Service) GetProcess(ctx context.Context, id uuid.UUID) (*transport.ProcessResponse, error) {
	p, err := s.store.GetProcess(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toProcessResponse(p)
	return &resp, nil
}

// ListProcessesByProperty returns every process of a property, newest first,
// terminal ones included.
func (s *Service) ListProcessesByProperty(ctx context.Context, propertyID uuid.UUID) (*transport.ProcessListResponse, error) {
	if _, err := s.properties.GetProperty(ctx, propertyID); err != nil {
		return nil, err
	}
	items, err := s.store.ListProcessesByProperty(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	resp := transport.ProcessListResponse{Items: make([]transport.ProcessResponse, 0, len(items))}
	for _, p := range items {
		resp.Items = append(resp.Items, toProcessResponse(p))
	}
	return &resp, nil
}

// SetStatus moves a process to any status but ABANDONED. Moving to the
// current status changes nothing.
func (s *Service) SetStatus(ctx context.Context, userID, id uuid.UUID, req transport.UpdateStatusRequest) (*transport.ProcessResponse, error) {
	target, err := domain.ParseStatus(req.Status)
	if err != nil {
		return nil, err
	}

	saved, out, err := s.run(ctx, id, step{event: domain.EventManual, target: target})
	if err != nil {
		return nil, err
	}

	if out.Changed() {
		s.record(ctx, ports.AuditEntry{
			UserID:       userID,
			Action:       ports.ActionUpdateStatus,
			ResourceType: ports.ResourceSaleProcess,
			ResourceID:   saved.ID,
			Details:      map[string]any{"from": string(out.From), "to": string(out.To)},
		})
	}

	resp := toProcessResponse(saved)
	return &resp, nil
}

// AbandonProcess ends a process with a mandatory reason.
func (s *Service) AbandonProcess(ctx context.Context, userID, id uuid.UUID, req transport.AbandonProcessRequest) (*transport.ProcessResponse, error) {
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return nil, apperr.Validation(errAbandonReason)
	}

	saved, out, err := s.run(ctx, id, step{
		event:  domain.EventAbandon,
		reason: &reason,
		apply: func(_ context.Context, _ repository.Queries, p *repository.SaleProcess, out domain.Outcome) error {
			if out.Has(domain.EffectRecordAbandonReason) {
				p.AbandonReason = &reason
			}
			return nil
		},
	})
	if err != nil {
		return nil, err
	}

	s.record(ctx, ports.AuditEntry{
		UserID:       userID,
		Action:       ports.ActionAbandonProcess,
		ResourceType: ports.ResourceSaleProcess,
		ResourceID:   saved.ID,
		Details:      map[string]any{"from": string(out.From), "reason": reason},
	})

	resp := toProcessResponse(saved)
	return &resp, nil
}

// Recompute refreshes the financial indicators of a process.
func (s *Service) Recompute(ctx context.Context, userID, id uuid.UUID) (*transport.ProcessResponse, error) {
	saved, _, err := s.run(ctx, id, step{event: domain.EventRecompute})
	if err != nil {
		return nil, err
	}

	s.record(ctx, ports.AuditEntry{
		UserID:       userID,
		Action:       ports.ActionRecompute,
		ResourceType: ports.ResourceSaleProcess,
		ResourceID:   saved.ID,
		Details:      map[string]any{"globalRoi": decimalString(saved.GlobalRoi)},
	})

	resp := toProcessResponse(saved)
	return &resp, nil
}

// ListTransitions returns the status history of a process, oldest first.
func (s *Service) ListTransitions(ctx context.Context, id uuid.UUID) (*transport.TransitionListResponse, error) {
	if _, err := s.store.GetProcess(ctx, id); err != nil {
		return nil, err
	}
	items, err := s.store.ListTransitions(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := transport.TransitionListResponse{Items: make([]transport.TransitionResponse, 0, len(items))}
	for _, t := range items {
		resp.Items = append(resp.Items, toTransitionResponse(t))
	}
	return &resp, nil
}

// Recommend suggests the next step for a process. It never writes.
func (s *Service) Recommend(ctx context.Context, id uuid.UUID) (*transport.RecommendationResponse, error) {
	p, err := s.store.GetProcess(ctx, id)
	if err != nil {
		return nil, err
	}

	var visits []repository.Visit
	var offers []repository.Offer
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		visits, err = s.store.ListVisits(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		offers, err = s.store.ListOffers(gctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	in := domain.AdviceInput{
		Status:       p.Status,
		ListingDate:  p.ListingDate,
		CreatedAt:    p.CreatedAt,
		TargetPrice:  p.TargetPrice,
		AskingPrice:  p.AskingPrice,
		VisitCount:   len(visits),
		OfferAmounts: make([]decimal.Decimal, 0, len(offers)),
		Today:        s.today(),
	}
	for _, o := range offers {
		in.OfferAmounts = append(in.OfferAmounts, o.OfferAmount)
	}

	rec := domain.Recommend(in)
	return &transport.RecommendationResponse{
		Action:          string(rec.Action),
		Reason:          rec.Reason,
		Color:           rec.Color,
		DaysOnMarket:    rec.DaysOnMarket,
		VisitCount:      rec.VisitCount,
		OfferCount:      rec.OfferCount,
		BestOfferAmount: rec.BestOfferAmount,
	}, nil
}

func parseDate(raw *string) (*time.Time, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	d, err := time.Parse(transport.DateLayout, strings.TrimSpace(*raw))
	if err != nil {
		return nil, apperr.Validation(errInvalidDate)
	}
	return &d, nil
}
