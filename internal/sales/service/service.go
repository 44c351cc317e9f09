// Package service implements the sale-process use cases on top of the
// domain rules and the repository Store.
package service

import (
	"context"
	"time"

	"immopilot_backend/internal/sales/domain"
	"immopilot_backend/internal/sales/ports"
	"immopilot_backend/internal/sales/repository"
	"immopilot_backend/platform/logger"
	"immopilot_backend/platform/phone"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// Service provides the sale-process business logic.
type Service struct {
	store        repository.Store
	properties   ports.PropertyLookup
	construction ports.ConstructionReader
	finance      ports.FinanceReader
	audit        ports.AuditSink
	log          *logger.Logger
	phoneRegion  string
	now          func() time.Time
}

// New creates a sales service. The audit sink is optional and set with SetAuditSink.
func New(store repository.Store, properties ports.PropertyLookup, construction ports.ConstructionReader, finance ports.FinanceReader, log *logger.Logger) *Service {
	return &Service{
		store:        store,
		properties:   properties,
		construction: construction,
		finance:      finance,
		log:          log,
		phoneRegion:  phone.DefaultRegion,
		now:          time.Now,
	}
}

// SetAuditSink sets where audit entries are recorded after each mutation.
func (s *Service) SetAuditSink(sink ports.AuditSink) {
	s.audit = sink
}

// SetPhoneRegion sets the region used to read national prospect phone numbers.
func (s *Service) SetPhoneRegion(region string) {
	if region != "" {
		s.phoneRegion = region
	}
}

// SetClock replaces the time source. Used by tests.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// today is the current UTC calendar date. Listing, closing and
// days-on-market all read the same calendar.
func (s *Service) today() time.Time {
	y, m, d := s.now().UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// indicatorSources are the collaborator snapshots Recompute reads.
type indicatorSources struct {
	property ports.PropertySnapshot
	budgets  []ports.ProjectBudget
	stats    ports.CashflowStats
}

func (s *Service) loadSources(ctx context.Context, propertyID uuid.UUID) (indicatorSources, error) {
	var src indicatorSources

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		property, err := s.properties.GetProperty(gctx, propertyID)
		src.property = property
		return err
	})
	g.Go(func() error {
		budgets, err := s.construction.ListProjectBudgets(gctx, propertyID)
		src.budgets = budgets
		return err
	})
	g.Go(func() error {
		stats, err := s.finance.GetLifetimeStats(gctx, propertyID)
		src.stats = stats
		return err
	})

	if err := g.Wait(); err != nil {
		return indicatorSources{}, err
	}
	return src, nil
}

func applyIndicators(p *repository.SaleProcess, src indicatorSources) {
	budgets := make([]*decimal.Decimal, 0, len(src.budgets))
	for _, b := range src.budgets {
		budgets = append(budgets, b.BudgetTotal)
	}

	ind := domain.ComputeIndicators(domain.IndicatorInputs{
		AcquisitionPrice: p.AcquisitionPrice,
		NetPrice:         p.NetPrice,
		AskingPrice:      p.AskingPrice,
		AgencyFee:        p.AgencyFee,
		PropertyPrice:    src.property.Price,
		ProjectBudgets:   budgets,
		TotalExpense:     src.stats.TotalExpense,
	})

	p.AcquisitionPrice = ind.AcquisitionPrice
	p.TotalWorksAmount = &ind.TotalWorksAmount
	p.TotalChargesAmount = &ind.TotalChargesAmount
	p.EstimatedNetGain = &ind.EstimatedNetGain
	p.GlobalRoi = &ind.GlobalRoi
}

// step is one event applied to a locked process. apply runs inside the
// transaction after the event has been accepted and before effects are applied.
type step struct {
	event  domain.Event
	target domain.Status
	reason *string
	apply  func(ctx context.Context, q repository.Queries, p *repository.SaleProcess, out domain.Outcome) error
}

// run decides st against the process, applies it in one transaction and
// appends the status log entry when the status changes.
func (s *Service) run(ctx context.Context, processID uuid.UUID, st step) (repository.SaleProcess, domain.Outcome, error) {
	current, err := s.store.GetProcess(ctx, processID)
	if err != nil {
		return repository.SaleProcess{}, domain.Outcome{}, err
	}
	pre, err := domain.Decide(current.Status, st.event, st.target)
	if err != nil {
		return repository.SaleProcess{}, domain.Outcome{}, err
	}

	var src *indicatorSources
	if pre.Has(domain.EffectRecompute) {
		loaded, err := s.loadSources(ctx, current.PropertyID)
		if err != nil {
			return repository.SaleProcess{}, domain.Outcome{}, err
		}
		src = &loaded
	}

	var saved repository.SaleProcess
	var out domain.Outcome
	err = s.store.WithinTx(ctx, func(q repository.Queries) error {
		p, err := q.GetProcessForUpdate(ctx, processID)
		if err != nil {
			return err
		}
		out, err = domain.Decide(p.Status, st.event, st.target)
		if err != nil {
			return err
		}

		if st.apply != nil {
			if err := st.apply(ctx, q, &p, out); err != nil {
				return err
			}
		}

		if !out.Changed() && out.Effects == 0 {
			saved = p
			return nil
		}

		now := s.now().UTC()
		p.Status = out.To
		if out.To == domain.StatusOnMarket && p.ListingDate == nil {
			today := s.today()
			p.ListingDate = &today
		}
		if out.Has(domain.EffectStampClosingDate) {
			today := s.today()
			p.ClosingDate = &today
		}
		if out.Has(domain.EffectRecompute) {
			if src == nil {
				loaded, err := s.loadSources(ctx, p.PropertyID)
				if err != nil {
					return err
				}
				src = &loaded
			}
			applyIndicators(&p, *src)
		}
		p.UpdatedAt = now

		saved, err = q.UpdateProcess(ctx, p)
		if err != nil {
			return err
		}

		if out.Changed() {
			from := out.From
			return q.InsertTransition(ctx, repository.Transition{
				ID:         uuid.New(),
				ProcessID:  p.ID,
				FromStatus: &from,
				ToStatus:   out.To,
				Event:      st.event,
				Reason:     st.reason,
				CreatedAt:  now,
			})
		}
		return nil
	})
	if err != nil {
		return repository.SaleProcess{}, domain.Outcome{}, err
	}

	if out.Changed() {
		s.log.WithContext(ctx).StatusTransition(processID.String(), string(out.From), string(out.To), string(st.event))
	}
	return saved, out, nil
}

// record hands an entry to the audit sink. The mutation has already been
// committed, so a failure is only logged.
func (s *Service) record(ctx context.Context, entry ports.AuditEntry) {
	if s.audit == nil {
		return
	}
	entry.Timestamp = s.now().UTC()
	if err := s.audit.Record(ctx, entry); err != nil {
		s.log.WithContext(ctx).Warn("sale audit record failed",
			"action", entry.Action,
			"resource_id", entry.ResourceID.String(),
			"error", err,
		)
	}
}
