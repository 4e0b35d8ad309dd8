package services

import (
	"cleaning-match-service/internal/domain"
	"context"
	"fmt"
	"sync"
)

func rating(f float64) *float64 { return &f }

func coords(lon, lat float64) *domain.Coordinates {
	return &domain.Coordinates{Lon: lon, Lat: lat}
}

type memHomes struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*domain.Home
}

func newMemHomes(homes ...*domain.Home) *memHomes {
	m := &memHomes{byID: map[int64]*domain.Home{}}
	for _, h := range homes {
		m.byID[h.ID] = h
		if h.ID > m.nextID {
			m.nextID = h.ID
		}
	}
	return m
}

func (m *memHomes) CreateHome(_ context.Context, h *domain.Home) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	h.ID = m.nextID
	cp := *h
	m.byID[h.ID] = &cp
	return nil
}

func (m *memHomes) GetHome(_ context.Context, id int64) (*domain.Home, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.byID[id]
	if !ok {
		return nil, fmt.Errorf("home %d: %w", id, domain.ErrNotFound)
	}
	cp := *h
	return &cp, nil
}

func (m *memHomes) SetHomeCoordinates(_ context.Context, id int64, c domain.Coordinates) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	h.Coordinates = &c
	return nil
}

func (m *memHomes) ListUngeocodedHomes(context.Context) ([]*domain.Home, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Home
	for id := int64(1); id <= m.nextID; id++ {
		if h, ok := m.byID[id]; ok && h.Coordinates == nil {
			out = append(out, h)
		}
	}
	return out, nil
}

// memProviders returns every stored provider from ListProvidersByMinRating so
// the filter's own rating rule is exercised.
type memProviders struct {
	mu      sync.Mutex
	list    []*domain.ServiceProvider
	listErr error
}

func newMemProviders(ps ...*domain.ServiceProvider) *memProviders {
	return &memProviders{list: ps}
}

func (m *memProviders) CreateProvider(_ context.Context, p *domain.ServiceProvider) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.ID = int64(len(m.list) + 1)
	cp := *p
	m.list = append(m.list, &cp)
	return nil
}

func (m *memProviders) GetProvider(_ context.Context, id int64) (*domain.ServiceProvider, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.list {
		if p.ID == id {
			cp := *p
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("provider %d: %w", id, domain.ErrNotFound)
}

func (m *memProviders) ListProvidersByMinRating(context.Context, float64) ([]*domain.ServiceProvider, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	return append([]*domain.ServiceProvider(nil), m.list...), nil
}

func (m *memProviders) SetProviderCoordinates(_ context.Context, id int64, c domain.Coordinates) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.list {
		if p.ID == id {
			p.Coordinates = &c
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *memProviders) ListUngeocodedProviders(context.Context) ([]*domain.ServiceProvider, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.ServiceProvider
	for _, p := range m.list {
		if p.Coordinates == nil {
			out = append(out, p)
		}
	}
	return out, nil
}

// fakeMatrix returns canned distances and records what it was asked.
type fakeMatrix struct {
	distances []*float64
	err       error
	calls     int
	gotDest   domain.Coordinates
	gotSrc    []domain.Coordinates
}

func (f *fakeMatrix) SourceDistances(
	_ context.Context,
	destination domain.Coordinates,
	sources []domain.Coordinates,
) ([]*float64, error) {
	f.calls++
	f.gotDest = destination
	f.gotSrc = append([]domain.Coordinates(nil), sources...)
	if f.err != nil {
		return nil, f.err
	}
	return f.distances, nil
}

func dists(vs ...float64) []*float64 {
	out := make([]*float64, len(vs))
	for i := range vs {
		v := vs[i]
		out[i] = &v
	}
	return out
}
