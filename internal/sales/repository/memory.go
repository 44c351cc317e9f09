package repository

import (
	"context"
	"sort"
	"sync"

	"immopilot_backend/platform/apperr"

	"github.com/google/uuid"
)

// MemoryStore is an in-process Store used by tests and local tooling.
// Transactions are serialised and roll back by restoring a snapshot.
type MemoryStore struct {
	mu    sync.Mutex
	state *memState
}

type memState struct {
	processes   map[uuid.UUID]SaleProcess
	transitions []Transition
	prospects   map[uuid.UUID]Prospect
	visits      []Visit
	offers      map[uuid.UUID]Offer
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{state: &memState{
		processes: make(map[uuid.UUID]SaleProcess),
		prospects: make(map[uuid.UUID]Prospect),
		offers:    make(map[uuid.UUID]Offer),
	}}
}

func (s *MemoryStore) WithinTx(ctx context.Context, fn func(q Queries) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.state.clone()
	if err := fn(s.state); err != nil {
		s.state = snapshot
		return err
	}
	return nil
}

func (s *MemoryStore) GetProcess(ctx context.Context, id uuid.UUID) (SaleProcess, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.GetProcess(ctx, id)
}

func (s *MemoryStore) GetProcessForUpdate(ctx context.Context, id uuid.UUID) (SaleProcess, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.GetProcessForUpdate(ctx, id)
}

func (s *MemoryStore) ListProcessesByProperty(ctx context.Context, propertyID uuid.UUID) ([]SaleProcess, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.ListProcessesByProperty(ctx, propertyID)
}

func (s *MemoryStore) LockProperty(ctx context.Context, propertyID uuid.UUID) error {
	return nil
}

func (s *MemoryStore) InsertProcess(ctx context.Context, p SaleProcess) (SaleProcess, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.InsertProcess(ctx, p)
}

func (s *MemoryStore) UpdateProcess(ctx context.Context, p SaleProcess) (SaleProcess, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.UpdateProcess(ctx, p)
}

func (s *MemoryStore) InsertTransition(ctx context.Context, t Transition) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.InsertTransition(ctx, t)
}

func (s *MemoryStore) ListTransitions(ctx context.Context, processID uuid.UUID) ([]Transition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.ListTransitions(ctx, processID)
}

func (s *MemoryStore) InsertProspect(ctx context.Context, p Prospect) (Prospect, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.InsertProspect(ctx, p)
}

func (s *MemoryStore) GetProspect(ctx context.Context, id uuid.UUID) (Prospect, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.GetProspect(ctx, id)
}

func (s *MemoryStore) ListProspects(ctx context.Context, processID uuid.UUID) ([]Prospect, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.ListProspects(ctx, processID)
}

func (s *MemoryStore) InsertVisit(ctx context.Context, v Visit) (Visit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.InsertVisit(ctx, v)
}

func (s *MemoryStore) ListVisits(ctx context.Context, processID uuid.UUID) ([]Visit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.ListVisits(ctx, processID)
}

func (s *MemoryStore) CountVisits(ctx context.Context, processID, prospectID uuid.UUID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.CountVisits(ctx, processID, prospectID)
}

func (s *MemoryStore) InsertOffer(ctx context.Context, o Offer) (Offer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.InsertOffer(ctx, o)
}

func (s *MemoryStore) GetOffer(ctx context.Context, id uuid.UUID) (Offer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.GetOffer(ctx, id)
}

func (s *MemoryStore) GetOfferForUpdate(ctx context.Context, id uuid.UUID) (Offer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.GetOfferForUpdate(ctx, id)
}

func (s *MemoryStore) UpdateOffer(ctx context.Context, o Offer) (Offer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.UpdateOffer(ctx, o)
}

func (s *MemoryStore) ListOffers(ctx context.Context, processID uuid.UUID) ([]Offer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.ListOffers(ctx, processID)
}

// Stored values are replaced, never mutated in place, so copying the
// containers is enough for a snapshot.
func (m *memState) clone() *memState {
	out := &memState{
		processes:   make(map[uuid.UUID]SaleProcess, len(m.processes)),
		transitions: append([]Transition(nil), m.transitions...),
		prospects:   make(map[uuid.UUID]Prospect, len(m.prospects)),
		visits:      append([]Visit(nil), m.visits...),
		offers:      make(map[uuid.UUID]Offer, len(m.offers)),
	}
	for k, v := range m.processes {
		out.processes[k] = v
	}
	for k, v := range m.prospects {
		out.prospects[k] = v
	}
	for k, v := range m.offers {
		out.offers[k] = v
	}
	return out
}

func (m *memState) GetProcess(_ context.Context, id uuid.UUID) (SaleProcess, error) {
	p, ok := m.processes[id]
	if !ok {
		return SaleProcess{}, apperr.NotFound(msgProcessNotFound)
	}
	return p, nil
}

func (m *memState) GetProcessForUpdate(ctx context.Context, id uuid.UUID) (SaleProcess, error) {
	return m.GetProcess(ctx, id)
}

func (m *memState) ListProcessesByProperty(_ context.Context, propertyID uuid.UUID) ([]SaleProcess, error) {
	items := make([]SaleProcess, 0)
	for _, p := range m.processes {
		if p.PropertyID == propertyID {
			items = append(items, p)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.After(items[j].CreatedAt) })
	return items, nil
}

func (m *memState) LockProperty(context.Context, uuid.UUID) error {
	return nil
}

func (m *memState) InsertProcess(_ context.Context, p SaleProcess) (SaleProcess, error) {
	if _, exists := m.processes[p.ID]; exists {
		return SaleProcess{}, apperr.Conflict("sale process already exists")
	}
	if err := m.checkActiveIndexes(p); err != nil {
		return SaleProcess{}, err
	}
	m.processes[p.ID] = p
	return p, nil
}

func (m *memState) UpdateProcess(_ context.Context, p SaleProcess) (SaleProcess, error) {
	if _, ok := m.processes[p.ID]; !ok {
		return SaleProcess{}, apperr.NotFound(msgProcessNotFound)
	}
	if err := m.checkActiveIndexes(p); err != nil {
		return SaleProcess{}, err
	}
	m.processes[p.ID] = p
	return p, nil
}

// checkActiveIndexes mirrors the two partial unique indexes on sale_processes.
func (m *memState) checkActiveIndexes(p SaleProcess) error {
	if p.Status.IsTerminal() {
		return nil
	}
	for _, other := range m.processes {
		if other.ID == p.ID || other.PropertyID != p.PropertyID || other.Status.IsTerminal() {
			continue
		}
		switch {
		case p.UnitID == nil && other.UnitID == nil:
			return apperr.Conflict(conflictMessage(idxActiveGlobal))
		case p.UnitID != nil && other.UnitID != nil && *p.UnitID == *other.UnitID:
			return apperr.Conflict(conflictMessage(idxActiveUnit))
		}
	}
	return nil
}

func (m *memState) InsertTransition(_ context.Context, t Transition) error {
	m.transitions = append(m.transitions, t)
	return nil
}

func (m *memState) ListTransitions(_ context.Context, processID uuid.UUID) ([]Transition, error) {
	items := make([]Transition, 0)
	for _, t := range m.transitions {
		if t.ProcessID == processID {
			items = append(items, t)
		}
	}
	return items, nil
}

func (m *memState) InsertProspect(_ context.Context, p Prospect) (Prospect, error) {
	m.prospects[p.ID] = p
	return p, nil
}

func (m *memState) GetProspect(_ context.Context, id uuid.UUID) (Prospect, error) {
	p, ok := m.prospects[id]
	if !ok {
		return Prospect{}, apperr.NotFound(msgProspectNotFound)
	}
	return p, nil
}

func (m *memState) ListProspects(_ context.Context, processID uuid.UUID) ([]Prospect, error) {
	items := make([]Prospect, 0)
	for _, p := range m.prospects {
		if p.ProcessID == processID {
			items = append(items, p)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.Before(items[j].CreatedAt) })
	return items, nil
}

func (m *memState) InsertVisit(_ context.Context, v Visit) (Visit, error) {
	m.visits = append(m.visits, v)
	return v, nil
}

func (m *memState) ListVisits(_ context.Context, processID uuid.UUID) ([]Visit, error) {
	items := make([]Visit, 0)
	for _, v := range m.visits {
		if v.ProcessID == processID {
			items = append(items, v)
		}
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].VisitDate.After(items[j].VisitDate) })
	return items, nil
}

func (m *memState) CountVisits(_ context.Context, processID, prospectID uuid.UUID) (int, error) {
	count := 0
	for _, v := range m.visits {
		if v.ProcessID == processID && v.ProspectID == prospectID {
			count++
		}
	}
	return count, nil
}

func (m *memState) InsertOffer(_ context.Context, o Offer) (Offer, error) {
	m.offers[o.ID] = o
	return o, nil
}

func (m *memState) GetOffer(_ context.Context, id uuid.UUID) (Offer, error) {
	o, ok := m.offers[id]
	if !ok {
		return Offer{}, apperr.NotFound(msgOfferNotFound)
	}
	return o, nil
}

func (m *memState) GetOfferForUpdate(ctx context.Context, id uuid.UUID) (Offer, error) {
	return m.GetOffer(ctx, id)
}

func (m *memState) UpdateOffer(_ context.Context, o Offer) (Offer, error) {
	current, ok := m.offers[o.ID]
	if !ok {
		return Offer{}, apperr.NotFound(msgOfferNotFound)
	}
	current.Status = o.Status
	current.UpdatedAt = o.UpdatedAt
	m.offers[o.ID] = current
	return current, nil
}

func (m *memState) ListOffers(_ context.Context, processID uuid.UUID) ([]Offer, error) {
	items := make([]Offer, 0)
	for _, o := range m.offers {
		if o.ProcessID == processID {
			items = append(items, o)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].OfferDate.After(items[j].OfferDate) })
	return items, nil
}

var (
	_ Store   = (*MemoryStore)(nil)
	_ Queries = (*memState)(nil)
)
