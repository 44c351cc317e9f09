package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"immopilot_backend/internal/sales/ports"
	"immopilot_backend/internal/sales/repository"
	"immopilot_backend/platform/apperr"
	"immopilot_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type fakeProperties struct {
	items map[uuid.UUID]ports.PropertySnapshot
}

func (f *fakeProperties) GetProperty(_ context.Context, id uuid.UUID) (ports.PropertySnapshot, error) {
	p, ok := f.items[id]
	if !ok {
		return ports.PropertySnapshot{}, apperr.NotFound("property not found")
	}
	return p, nil
}

type fakeConstruction struct {
	budgets map[uuid.UUID][]ports.ProjectBudget
}

func (f *fakeConstruction) ListProjectBudgets(_ context.Context, propertyID uuid.UUID) ([]ports.ProjectBudget, error) {
	return f.budgets[propertyID], nil
}

type fakeFinance struct {
	stats map[uuid.UUID]ports.CashflowStats
	err   error
}

func (f *fakeFinance) GetLifetimeStats(_ context.Context, propertyID uuid.UUID) (ports.CashflowStats, error) {
	if f.err != nil {
		return ports.CashflowStats{}, f.err
	}
	return f.stats[propertyID], nil
}

type fakeAudit struct {
	mu      sync.Mutex
	entries []ports.AuditEntry
	fail    bool
}

func (f *fakeAudit) Record(_ context.Context, entry ports.AuditEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("outbox unavailable")
	}
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeAudit) actions() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.entries))
	for _, e := range f.entries {
		out = append(out, e.Action)
	}
	return out
}

type harness struct {
	svc          *Service
	store        *repository.MemoryStore
	properties   *fakeProperties
	construction *fakeConstruction
	finance      *fakeFinance
	audit        *fakeAudit
	user         uuid.UUID
	now          time.Time
}

func newHarness() *harness {
	h := &harness{
		store:        repository.NewMemoryStore(),
		properties:   &fakeProperties{items: map[uuid.UUID]ports.PropertySnapshot{}},
		construction: &fakeConstruction{budgets: map[uuid.UUID][]ports.ProjectBudget{}},
		finance:      &fakeFinance{stats: map[uuid.UUID]ports.CashflowStats{}},
		audit:        &fakeAudit{},
		user:         uuid.New(),
		now:          time.Date(2026, 5, 20, 9, 0, 0, 0, time.UTC),
	}
	h.svc = New(h.store, h.properties, h.construction, h.finance, logger.Discard())
	h.svc.SetAuditSink(h.audit)
	h.svc.SetClock(func() time.Time { return h.now })
	return h
}

func (h *harness) addProperty(price *decimal.Decimal, units ...uuid.UUID) uuid.UUID {
	id := uuid.New()
	h.properties.items[id] = ports.PropertySnapshot{
		ID:           id,
		UserID:       h.user,
		PropertyType: "BUILDING",
		Price:        price,
		UnitIDs:      units,
	}
	return id
}

func money(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func strPtr(s string) *string { return &s }
