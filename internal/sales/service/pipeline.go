package service

import (
	"context"
	"strings"

	"immopilot_backend/internal/sales/domain"
	"immopilot_backend/internal/sales/ports"
	"immopilot_backend/internal/sales/repository"
	"immopilot_backend/internal/sales/transport"
	"immopilot_backend/platform/apperr"
	"immopilot_backend/platform/phone"
	"immopilot_backend/platform/sanitize"

	"github.com/google/uuid"
)

const (
	errLastNameRequired    = "lastName is required"
	errProspectElsewhere   = "prospect belongs to another sale process"
	errVisitBeforeOffer    = "prospect must visit the property before making an offer"
	errOfferAmount         = "offerAmount must be greater than zero"
	errAcceptedOfferLocked = "an accepted offer cannot change status"
)

// AddProspect registers a prospective buyer on a process.
func (s *Service) AddProspect(ctx context.Context, userID, processID uuid.UUID, req transport.CreateProspectRequest) (*transport.ProspectResponse, error) {
	lastName := sanitize.Text(req.LastName)
	if lastName == "" {
		return nil, apperr.Validation(errLastNameRequired)
	}

	engagement := domain.EngagementWarm
	if req.Engagement != nil {
		engagement = domain.Engagement(strings.ToUpper(strings.TrimSpace(*req.Engagement)))
	}

	prospect := repository.Prospect{
		ID:         uuid.New(),
		ProcessID:  processID,
		FirstName:  sanitize.TextPtr(req.FirstName),
		LastName:   lastName,
		Email:      normalizeEmail(req.Email),
		Phone:      phone.NormalizeE164Ptr(req.Phone, s.phoneRegion),
		Source:     sanitize.TextPtr(req.Source),
		Notes:      sanitize.TextPtr(req.Notes),
		Engagement: engagement,
		CreatedAt:  s.now().UTC(),
	}

	var saved repository.Prospect
	_, _, err := s.run(ctx, processID, step{
		event: domain.EventProspectAdded,
		apply: func(ctx context.Context, q repository.Queries, _ *repository.SaleProcess, _ domain.Outcome) error {
			var err error
			saved, err = q.InsertProspect(ctx, prospect)
			return err
		},
	})
	if err != nil {
		return nil, err
	}

	s.record(ctx, ports.AuditEntry{
		UserID:       userID,
		Action:       ports.ActionAddProspect,
		ResourceType: ports.ResourceProspect,
		ResourceID:   saved.ID,
		Details:      map[string]any{"processId": processID.String()},
	})

	resp := toProspectResponse(saved)
	return &resp, nil
}

// ListProspects returns the prospects of a process in creation order.
func (s *Service) ListProspects(ctx context.Context, processID uuid.UUID) (*transport.ProspectListResponse, error) {
	if _, err := s.store.GetProcess(ctx, processID); err != nil {
		return nil, err
	}
	items, err := s.store.ListProspects(ctx, processID)
	if err != nil {
		return nil, err
	}

	resp := transport.ProspectListResponse{Items: make([]transport.ProspectResponse, 0, len(items))}
	for _, p := range items {
		resp.Items = append(resp.Items, toProspectResponse(p))
	}
	return &resp, nil
}

// AddVisit records a visit. The first visit on an ON_MARKET process moves it to VISITS.
func (s *Service) AddVisit(ctx context.Context, userID, processID uuid.UUID, req transport.CreateVisitRequest) (*transport.VisitResponse, error) {
	interest := domain.InterestMedium
	if req.InterestLevel != nil {
		interest = domain.InterestLevel(strings.ToUpper(strings.TrimSpace(*req.InterestLevel)))
	}

	now := s.now().UTC()
	visit := repository.Visit{
		ID:            uuid.New(),
		ProcessID:     processID,
		ProspectID:    req.ProspectID,
		VisitDate:     req.VisitDate,
		VisitType:     sanitize.TextPtr(req.VisitType),
		Feedback:      sanitize.TextPtr(req.Feedback),
		InterestLevel: interest,
		CreatedAt:     now,
	}

	var saved repository.Visit
	_, out, err := s.run(ctx, processID, step{
		event: domain.EventVisitAdded,
		apply: func(ctx context.Context, q repository.Queries, _ *repository.SaleProcess, _ domain.Outcome) error {
			if err := s.ensureProspectOf(ctx, q, processID, req.ProspectID); err != nil {
				return err
			}
			var err error
			saved, err = q.InsertVisit(ctx, visit)
			return err
		},
	})
	if err != nil {
		return nil, err
	}

	s.record(ctx, ports.AuditEntry{
		UserID:       userID,
		Action:       ports.ActionAddVisit,
		ResourceType: ports.ResourceVisit,
		ResourceID:   saved.ID,
		Details: map[string]any{
			"processId":     processID.String(),
			"prospectId":    req.ProspectID.String(),
			"processStatus": string(out.To),
		},
	})

	resp := toVisitResponse(saved)
	return &resp, nil
}

// ListVisits returns the visits of a process, latest visit first.
func (s *Service) ListVisits(ctx context.Context, processID uuid.UUID) (*transport.VisitListResponse, error) {
	if _, err := s.store.GetProcess(ctx, processID); err != nil {
		return nil, err
	}
	items, err := s.store.ListVisits(ctx, processID)
	if err != nil {
		return nil, err
	}

	resp := transport.VisitListResponse{Items: make([]transport.VisitResponse, 0, len(items))}
	for _, v := range items {
		resp.Items = append(resp.Items, toVisitResponse(v))
	}
	return &resp, nil
}

// AddOffer records an offer from a prospect who has visited the property.
func (s *Service) AddOffer(ctx context.Context, userID, processID uuid.UUID, req transport.CreateOfferRequest) (*transport.OfferResponse, error) {
	if !req.OfferAmount.IsPositive() {
		return nil, apperr.Validation(errOfferAmount)
	}
	validity, err := parseDate(req.ValidityDate)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	offerDate := now
	if req.OfferDate != nil && !req.OfferDate.IsZero() {
		offerDate = req.OfferDate.UTC()
	}
	offer := repository.Offer{
		ID:           uuid.New(),
		ProcessID:    processID,
		ProspectID:   req.ProspectID,
		OfferDate:    offerDate,
		OfferAmount:  req.OfferAmount,
		Conditions:   sanitize.TextPtr(req.Conditions),
		Status:       domain.OfferPending,
		ValidityDate: validity,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	var saved repository.Offer
	_, out, err := s.run(ctx, processID, step{
		event: domain.EventOfferAdded,
		apply: func(ctx context.Context, q repository.Queries, _ *repository.SaleProcess, _ domain.Outcome) error {
			if err := s.ensureProspectOf(ctx, q, processID, req.ProspectID); err != nil {
				return err
			}
			visits, err := q.CountVisits(ctx, processID, req.ProspectID)
			if err != nil {
				return err
			}
			if visits == 0 {
				return apperr.Conflict(errVisitBeforeOffer)
			}
			saved, err = q.InsertOffer(ctx, offer)
			return err
		},
	})
	if err != nil {
		return nil, err
	}

	s.record(ctx, ports.AuditEntry{
		UserID:       userID,
		Action:       ports.ActionAddOffer,
		ResourceType: ports.ResourceOffer,
		ResourceID:   saved.ID,
		Details: map[string]any{
			"processId":     processID.String(),
			"amount":        saved.OfferAmount.String(),
			"processStatus": string(out.To),
		},
	})

	resp := toOfferResponse(saved)
	return &resp, nil
}

// ListOffers returns the offers of a process, latest offer first.
func (s *Service) ListOffers(ctx context.Context, processID uuid.UUID) (*transport.OfferListResponse, error) {
	if _, err := s.store.GetProcess(ctx, processID); err != nil {
		return nil, err
	}
	items, err := s.store.ListOffers(ctx, processID)
	if err != nil {
		return nil, err
	}

	resp := transport.OfferListResponse{Items: make([]transport.OfferResponse, 0, len(items))}
	for _, o := range items {
		resp.Items = append(resp.Items, toOfferResponse(o))
	}
	return &resp, nil
}

// UpdateOfferStatus changes an offer's status. Accepting an offer moves the
// process to PROMESSE_SIGNED, sets its net price and recomputes it. Other
// offers keep their status.
func (s *Service) UpdateOfferStatus(ctx context.Context, userID, offerID uuid.UUID, req transport.UpdateOfferStatusRequest) (*transport.OfferStatusResponse, error) {
	status, err := domain.ParseOfferStatus(req.Status)
	if err != nil {
		return nil, err
	}
	current, err := s.store.GetOffer(ctx, offerID)
	if err != nil {
		return nil, err
	}

	event := domain.EventOfferStatusChanged
	if status == domain.OfferAccepted {
		event = domain.EventOfferAccepted
	}

	var saved repository.Offer
	process, _, err := s.run(ctx, current.ProcessID, step{
		event: event,
		apply: func(ctx context.Context, q repository.Queries, p *repository.SaleProcess, out domain.Outcome) error {
			offer, err := q.GetOfferForUpdate(ctx, offerID)
			if err != nil {
				return err
			}
			if offer.Status == domain.OfferAccepted {
				return apperr.Conflict(errAcceptedOfferLocked)
			}

			offer.Status = status
			offer.UpdatedAt = s.now().UTC()
			saved, err = q.UpdateOffer(ctx, offer)
			if err != nil {
				return err
			}

			if out.Has(domain.EffectSetNetPrice) {
				net := domain.NetPriceAfterFee(offer.OfferAmount, p.AgencyFee)
				p.NetPrice = &net
			}
			return nil
		},
	})
	if err != nil {
		return nil, err
	}

	if action := offerAuditAction(status); action != "" {
		s.record(ctx, ports.AuditEntry{
			UserID:       userID,
			Action:       action,
			ResourceType: ports.ResourceOffer,
			ResourceID:   saved.ID,
			Details: map[string]any{
				"processId":     process.ID.String(),
				"amount":        saved.OfferAmount.String(),
				"processStatus": string(process.Status),
			},
		})
	}

	return &transport.OfferStatusResponse{
		Offer:   toOfferResponse(saved),
		Process: toProcessResponse(process),
	}, nil
}

func (s *Service) ensureProspectOf(ctx context.Context, q repository.Queries, processID, prospectID uuid.UUID) error {
	prospect, err := q.GetProspect(ctx, prospectID)
	if err != nil {
		return err
	}
	if prospect.ProcessID != processID {
		return apperr.Conflict(errProspectElsewhere)
	}
	return nil
}

func offerAuditAction(status domain.OfferStatus) string {
	switch status {
	case domain.OfferAccepted:
		return ports.ActionAcceptOffer
	case domain.OfferRejected:
		return ports.ActionRejectOffer
	case domain.OfferCounterOffer:
		return ports.ActionCounterOffer
	default:
		return ""
	}
}

func normalizeEmail(email *string) *string {
	if email == nil {
		return nil
	}
	out := strings.ToLower(strings.TrimSpace(*email))
	if out == "" {
		return nil
	}
	return &out
}
