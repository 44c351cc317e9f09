package service

import (
	"time"

	"immopilot_backend/internal/sales/repository"
	"immopilot_backend/internal/sales/transport"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func toProcessResponse(p repository.SaleProcess) transport.ProcessResponse {
	return transport.ProcessResponse{
		ID:                 p.ID,
		PropertyID:         p.PropertyID,
		UnitID:             p.UnitID,
		Status:             string(p.Status),
		AskingPrice:        p.AskingPrice,
		NetPrice:           p.NetPrice,
		AgencyFee:          p.AgencyFee,
		TargetPrice:        p.TargetPrice,
		EstimatedMargin:    p.EstimatedMargin,
		AcquisitionPrice:   p.AcquisitionPrice,
		TotalWorksAmount:   p.TotalWorksAmount,
		TotalChargesAmount: p.TotalChargesAmount,
		EstimatedNetGain:   p.EstimatedNetGain,
		GlobalRoi:          p.GlobalRoi,
		ListingDate:        formatDate(p.ListingDate),
		ClosingDate:        formatDate(p.ClosingDate),
		AbandonReason:      p.AbandonReason,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
}

func toProspectResponse(p repository.Prospect) transport.ProspectResponse {
	return transport.ProspectResponse{
		ID:         p.ID,
		ProcessID:  p.ProcessID,
		FirstName:  p.FirstName,
		LastName:   p.LastName,
		Email:      p.Email,
		Phone:      p.Phone,
		Source:     p.Source,
		Notes:      p.Notes,
		Engagement: string(p.Engagement),
		CreatedAt:  p.CreatedAt,
	}
}

func toVisitResponse(v repository.Visit) transport.VisitResponse {
	return transport.VisitResponse{
		ID:            v.ID,
		ProcessID:     v.ProcessID,
		ProspectID:    v.ProspectID,
		VisitDate:     v.VisitDate,
		VisitType:     v.VisitType,
		Feedback:      v.Feedback,
		InterestLevel: string(v.InterestLevel),
		CreatedAt:     v.CreatedAt,
	}
}

func toOfferResponse(o repository.Offer) transport.OfferResponse {
	return transport.OfferResponse{
		ID:           o.ID,
		ProcessID:    o.ProcessID,
		ProspectID:   o.ProspectID,
		OfferDate:    o.OfferDate,
		OfferAmount:  o.OfferAmount,
		Conditions:   o.Conditions,
		Status:       string(o.Status),
		ValidityDate: formatDate(o.ValidityDate),
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
}

func toTransitionResponse(t repository.Transition) transport.TransitionResponse {
	var from *string
	if t.FromStatus != nil {
		s := string(*t.FromStatus)
		from = &s
	}
	return transport.TransitionResponse{
		ID:         t.ID,
		FromStatus: from,
		ToStatus:   string(t.ToStatus),
		Event:      string(t.Event),
		Reason:     t.Reason,
		CreatedAt:  t.CreatedAt,
	}
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(transport.DateLayout)
	return &s
}

func uuidString(id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	return id.String()
}

func decimalString(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return d.String()
}
