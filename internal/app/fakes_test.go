package app

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/guregu/null.v4"

	"github.com/umgjosem/Arqui-parqueo/internal/domain"
)

// memStore backs the fake repositories with one shared state so the
// session flow can be exercised end to end. A single mutex serializes
// every operation, which is what makes the concurrent entry test
// deterministic: claims behave like the compare-and-set the real
// storage does.
type memStore struct {
	mu      sync.Mutex
	clients map[string]domain.Client
	spaces  map[string]domain.Space
	rates   map[string]domain.Rate
	tickets map[string]domain.Ticket
}

func newMemStore() *memStore {
	return &memStore{
		clients: make(map[string]domain.Client),
		spaces:  make(map[string]domain.Space),
		rates:   make(map[string]domain.Rate),
		tickets: make(map[string]domain.Ticket),
	}
}

func (m *memStore) addClient(c domain.Client) { m.clients[c.ID] = c }
func (m *memStore) addSpace(s domain.Space)   { m.spaces[s.ID] = s }
func (m *memStore) addRate(r domain.Rate)     { m.rates[r.ID] = r }
func (m *memStore) addTicket(t domain.Ticket) { m.tickets[t.ID] = t }

func (m *memStore) getClient(id string) (domain.Client, error) {
	c, ok := m.clients[id]
	if !ok {
		return domain.Client{}, domain.ErrClientNotFound
	}
	return c, nil
}

func (m *memStore) getSpace(id string) (domain.Space, error) {
	s, ok := m.spaces[id]
	if !ok {
		return domain.Space{}, domain.ErrSpaceNotFound
	}
	return s, nil
}

func (m *memStore) getRate(id string) (domain.Rate, error) {
	r, ok := m.rates[id]
	if !ok {
		return domain.Rate{}, domain.ErrRateNotFound
	}
	return r, nil
}

func (m *memStore) claimSpace(id string) error {
	s, ok := m.spaces[id]
	if !ok || s.State != domain.SpaceFree {
		return domain.ErrSpaceOccupied
	}
	s.State = domain.SpaceOccupied
	m.spaces[id] = s
	return nil
}

func (m *memStore) releaseSpace(id string) error {
	s, ok := m.spaces[id]
	if !ok || s.State != domain.SpaceOccupied {
		return domain.ErrSpaceNotHeld
	}
	s.State = domain.SpaceFree
	m.spaces[id] = s
	return nil
}

func (m *memStore) firstActiveRate() (domain.Rate, error) {
	var active []domain.Rate
	for _, r := range m.rates {
		if r.Active {
			active = append(active, r)
		}
	}
	if len(active) == 0 {
		return domain.Rate{}, domain.ErrNoActiveRate
	}
	sort.Slice(active, func(i, j int) bool {
		if !active[i].CreatedAt.Equal(active[j].CreatedAt) {
			return active[i].CreatedAt.Before(active[j].CreatedAt)
		}
		return active[i].ID < active[j].ID
	})
	return active[0], nil
}

func (m *memStore) activeTicketCount() int {
	n := 0
	for _, t := range m.tickets {
		if t.Status == domain.TicketActive {
			n++
		}
	}
	return n
}

// fakeSessionRepo implements SessionRepository over a memStore.
type fakeSessionRepo struct {
	store *memStore

	releaseErr error
}

func (f *fakeSessionRepo) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (f *fakeSessionRepo) GetClient(_ context.Context, id string) (domain.Client, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	return f.store.getClient(id)
}

func (f *fakeSessionRepo) GetSpaceForUpdate(_ context.Context, id string) (domain.Space, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	return f.store.getSpace(id)
}

func (f *fakeSessionRepo) ClaimSpace(_ context.Context, id string) error {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	return f.store.claimSpace(id)
}

func (f *fakeSessionRepo) ReleaseSpace(_ context.Context, id string) error {
	if f.releaseErr != nil {
		return f.releaseErr
	}
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	return f.store.releaseSpace(id)
}

func (f *fakeSessionRepo) GetRate(_ context.Context, id string) (domain.Rate, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	return f.store.getRate(id)
}

func (f *fakeSessionRepo) FirstActiveRate(_ context.Context) (domain.Rate, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	return f.store.firstActiveRate()
}

// fakeTicketRepo implements TicketRepository over the same memStore,
// so session tests run the real ticket service on top of it.
type fakeTicketRepo struct {
	store *memStore
}

func (f *fakeTicketRepo) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (f *fakeTicketRepo) CreateTicket(_ context.Context, ticket domain.Ticket) error {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	for _, t := range f.store.tickets {
		if t.Status == domain.TicketActive && t.SpaceID == ticket.SpaceID {
			return domain.ErrSpaceOccupied
		}
	}
	f.store.tickets[ticket.ID] = ticket
	return nil
}

func (f *fakeTicketRepo) GetTicketForUpdate(_ context.Context, id string) (domain.Ticket, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	t, ok := f.store.tickets[id]
	if !ok {
		return domain.Ticket{}, domain.ErrTicketNotFound
	}
	return t, nil
}

func (f *fakeTicketRepo) GetTicketDetail(_ context.Context, id string) (domain.TicketDetail, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	t, ok := f.store.tickets[id]
	if !ok {
		return domain.TicketDetail{}, domain.ErrTicketNotFound
	}
	return f.detailLocked(t), nil
}

func (f *fakeTicketRepo) detailLocked(t domain.Ticket) domain.TicketDetail {
	return domain.TicketDetail{
		Ticket: t,
		Client: f.store.clients[t.ClientID],
		Space:  f.store.spaces[t.SpaceID],
		Rate:   f.store.rates[t.RateID],
	}
}

func (f *fakeTicketRepo) ListTicketDetails(_ context.Context, status domain.TicketStatus) ([]domain.TicketDetail, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	var out []domain.TicketDetail
	for _, t := range f.store.tickets {
		if t.Status == status {
			out = append(out, f.detailLocked(t))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Ticket.EntryTime.After(out[j].Ticket.EntryTime)
	})
	return out, nil
}

func (f *fakeTicketRepo) ListTicketsByClient(_ context.Context, clientID string) ([]domain.Ticket, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	var out []domain.Ticket
	for _, t := range f.store.tickets {
		if t.ClientID == clientID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].EntryTime.After(out[j].EntryTime)
	})
	return out, nil
}

func (f *fakeTicketRepo) FinalizeTicket(_ context.Context, id string, exitTime time.Time, hours, amount decimal.Decimal) error {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	t, ok := f.store.tickets[id]
	if !ok || t.Status != domain.TicketActive {
		return domain.ErrTicketNotActive
	}
	t.ExitTime = null.TimeFrom(exitTime)
	t.Hours = hours
	t.Amount = amount
	t.Status = domain.TicketFinalized
	f.store.tickets[id] = t
	return nil
}

func (f *fakeTicketRepo) SetTicketStatus(_ context.Context, id string, status domain.TicketStatus) error {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	t, ok := f.store.tickets[id]
	if !ok {
		return domain.ErrTicketNotFound
	}
	t.Status = status
	f.store.tickets[id] = t
	return nil
}

func (f *fakeTicketRepo) UpdateTicketRefs(_ context.Context, id, clientID, spaceID, rateID string) error {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	t, ok := f.store.tickets[id]
	if !ok {
		return domain.ErrTicketNotFound
	}
	if t.Status != domain.TicketActive {
		return domain.ErrTicketNotActive
	}
	t.ClientID = clientID
	t.SpaceID = spaceID
	t.RateID = rateID
	f.store.tickets[id] = t
	return nil
}

func (f *fakeTicketRepo) GetClient(_ context.Context, id string) (domain.Client, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	return f.store.getClient(id)
}

func (f *fakeTicketRepo) GetSpaceForUpdate(_ context.Context, id string) (domain.Space, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	return f.store.getSpace(id)
}

func (f *fakeTicketRepo) ClaimSpace(_ context.Context, id string) error {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	return f.store.claimSpace(id)
}

func (f *fakeTicketRepo) ReleaseSpace(_ context.Context, id string) error {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	return f.store.releaseSpace(id)
}

func (f *fakeTicketRepo) GetRate(_ context.Context, id string) (domain.Rate, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	return f.store.getRate(id)
}
