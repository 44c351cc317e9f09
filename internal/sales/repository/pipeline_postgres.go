package repository

import (
	"context"
	"errors"
	"fmt"

	"immopilot_backend/internal/sales/domain"
	"immopilot_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const prospectColumns = `id, process_id, first_name, last_name, email, phone, source, notes, engagement, created_at`

const visitColumns = `id, process_id, prospect_id, visit_date, visit_type, feedback, interest_level, created_at`

const offerColumns = `id, process_id, prospect_id, offer_date, offer_amount, conditions, status, validity_date,
	created_at, updated_at`

const (
	QueryInsertProspect = `INSERT INTO sale_prospects (` + prospectColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + prospectColumns
	QueryGetProspect   = `SELECT ` + prospectColumns + ` FROM sale_prospects WHERE id = $1`
	QueryListProspects = `SELECT ` + prospectColumns + ` FROM sale_prospects WHERE process_id = $1 ORDER BY created_at ASC`
	QueryInsertVisit   = `INSERT INTO sale_visits (` + visitColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + visitColumns
	QueryListVisits  = `SELECT ` + visitColumns + ` FROM sale_visits WHERE process_id = $1 ORDER BY visit_date DESC`
	QueryCountVisits = `SELECT COUNT(*) FROM sale_visits WHERE process_id = $1 AND prospect_id = $2`
	QueryInsertOffer = `INSERT INTO sale_offers (` + offerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + offerColumns
	QueryGetOffer          = `SELECT ` + offerColumns + ` FROM sale_offers WHERE id = $1`
	QueryGetOfferForUpdate = QueryGetOffer + ` FOR UPDATE`
	QueryUpdateOffer       = `UPDATE sale_offers SET status = $2, updated_at = $3 WHERE id = $1 RETURNING ` + offerColumns
	QueryListOffers        = `SELECT ` + offerColumns + ` FROM sale_offers WHERE process_id = $1 ORDER BY offer_date DESC`
)

func (r *Repository) InsertProspect(ctx context.Context, p Prospect) (Prospect, error) {
	out, err := scanProspect(r.db.QueryRow(ctx, QueryInsertProspect,
		p.ID, p.ProcessID, p.FirstName, p.LastName, p.Email, p.Phone, p.Source, p.Notes, string(p.Engagement), p.CreatedAt))
	if err != nil {
		return Prospect{}, fmt.Errorf("failed to insert prospect: %w", err)
	}
	return out, nil
}

func (r *Repository) GetProspect(ctx context.Context, id uuid.UUID) (Prospect, error) {
	p, err := scanProspect(r.db.QueryRow(ctx, QueryGetProspect, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Prospect{}, apperr.NotFound(msgProspectNotFound)
	}
	if err != nil {
		return Prospect{}, fmt.Errorf("failed to get prospect: %w", err)
	}
	return p, nil
}

func (r *Repository) ListProspects(ctx context.Context, processID uuid.UUID) ([]Prospect, error) {
	rows, err := r.db.Query(ctx, QueryListProspects, processID)
	if err != nil {
		return nil, fmt.Errorf("failed to list prospects: %w", err)
	}
	defer rows.Close()

	items := make([]Prospect, 0)
	for rows.Next() {
		p, err := scanProspect(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan prospect: %w", err)
		}
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list prospects: %w", err)
	}
	return items, nil
}

func (r *Repository) InsertVisit(ctx context.Context, v Visit) (Visit, error) {
	out, err := scanVisit(r.db.QueryRow(ctx, QueryInsertVisit,
		v.ID, v.ProcessID, v.ProspectID, v.VisitDate, v.VisitType, v.Feedback, string(v.InterestLevel), v.CreatedAt))
	if err != nil {
		return Visit{}, fmt.Errorf("failed to insert visit: %w", err)
	}
	return out, nil
}

func (r *Repository) ListVisits(ctx context.Context, processID uuid.UUID) ([]Visit, error) {
	rows, err := r.db.Query(ctx, QueryListVisits, processID)
	if err != nil {
		return nil, fmt.Errorf("failed to list visits: %w", err)
	}
	defer rows.Close()

	items := make([]Visit, 0)
	for rows.Next() {
		v, err := scanVisit(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan visit: %w", err)
		}
		items = append(items, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list visits: %w", err)
	}
	return items, nil
}

func (r *Repository) CountVisits(ctx context.Context, processID, prospectID uuid.UUID) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, QueryCountVisits, processID, prospectID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count visits: %w", err)
	}
	return count, nil
}

func (r *Repository) InsertOffer(ctx context.Context, o Offer) (Offer, error) {
	out, err := scanOffer(r.db.QueryRow(ctx, QueryInsertOffer,
		o.ID, o.ProcessID, o.ProspectID, o.OfferDate, o.OfferAmount, o.Conditions, string(o.Status), o.ValidityDate,
		o.CreatedAt, o.UpdatedAt))
	if err != nil {
		return Offer{}, fmt.Errorf("failed to insert offer: %w", err)
	}
	return out, nil
}

func (r *Repository) GetOffer(ctx context.Context, id uuid.UUID) (Offer, error) {
	return r.getOffer(ctx, QueryGetOffer, id)
}

func (r *Repository) GetOfferForUpdate(ctx context.Context, id uuid.UUID) (Offer, error) {
	return r.getOffer(ctx, QueryGetOfferForUpdate, id)
}

func (r *Repository) getOffer(ctx context.Context, query string, id uuid.UUID) (Offer, error) {
	o, err := scanOffer(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Offer{}, apperr.NotFound(msgOfferNotFound)
	}
	if err != nil {
		return Offer{}, fmt.Errorf("failed to get offer: %w", err)
	}
	return o, nil
}

func (r *Repository) UpdateOffer(ctx context.Context, o Offer) (Offer, error) {
	out, err := scanOffer(r.db.QueryRow(ctx, QueryUpdateOffer, o.ID, string(o.Status), o.UpdatedAt))
	if errors.Is(err, pgx.ErrNoRows) {
		return Offer{}, apperr.NotFound(msgOfferNotFound)
	}
	if err != nil {
		return Offer{}, fmt.Errorf("failed to update offer: %w", err)
	}
	return out, nil
}

func (r *Repository) ListOffers(ctx context.Context, processID uuid.UUID) ([]Offer, error) {
	rows, err := r.db.Query(ctx, QueryListOffers, processID)
	if err != nil {
		return nil, fmt.Errorf("failed to list offers: %w", err)
	}
	defer rows.Close()

	items := make([]Offer, 0)
	for rows.Next() {
		o, err := scanOffer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan offer: %w", err)
		}
		items = append(items, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list offers: %w", err)
	}
	return items, nil
}

func scanProspect(row pgx.Row) (Prospect, error) {
	var p Prospect
	var engagement string
	err := row.Scan(&p.ID, &p.ProcessID, &p.FirstName, &p.LastName, &p.Email, &p.Phone, &p.Source, &p.Notes,
		&engagement, &p.CreatedAt)
	p.Engagement = domain.Engagement(engagement)
	return p, err
}

func scanVisit(row pgx.Row) (Visit, error) {
	var v Visit
	var interest string
	err := row.Scan(&v.ID, &v.ProcessID, &v.ProspectID, &v.VisitDate, &v.VisitType, &v.Feedback, &interest, &v.CreatedAt)
	v.InterestLevel = domain.InterestLevel(interest)
	return v, err
}

func scanOffer(row pgx.Row) (Offer, error) {
	var o Offer
	var status string
	err := row.Scan(&o.ID, &o.ProcessID, &o.ProspectID, &o.OfferDate, &o.OfferAmount, &o.Conditions, &status,
		&o.ValidityDate, &o.CreatedAt, &o.UpdatedAt)
	o.Status = domain.OfferStatus(status)
	return o, err
}
