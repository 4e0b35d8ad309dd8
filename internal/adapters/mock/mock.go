// Package mock provides offline stand-ins for the LocationIQ client. The
// server falls back to them in development when no API key is configured.
package mock

import (
	"cleaning-match-service/internal/domain"
	"context"
	"errors"
	"sync"
)

// Geocoder resolves addresses from a fixed query -> coordinates table.
type Geocoder struct {
	mu    sync.Mutex
	m     map[string]domain.Coordinates
	calls []string
	Err   error
}

func NewGeocoder(known map[string]domain.Coordinates) *Geocoder {
	m := make(map[string]domain.Coordinates, len(known))
	for k, v := range known {
		m[k] = v
	}
	return &Geocoder{m: m}
}

func (g *Geocoder) Set(query string, c domain.Coordinates) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.m[query] = c
}

func (g *Geocoder) Geocode(ctx context.Context, address domain.Address) (domain.Coordinates, error) {
	q := address.GeocodeQuery()

	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, q)

	if g.Err != nil {
		return domain.Coordinates{}, &domain.GeocodingError{Query: q, Err: g.Err}
	}
	c, ok := g.m[q]
	if !ok {
		return domain.Coordinates{}, &domain.GeocodingError{Query: q, Err: errors.New("no matches")}
	}
	return c, nil
}

// Calls returns every query seen so far, in order.
func (g *Geocoder) Calls() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.calls...)
}

// StraightLineMatrix answers distance lookups with great-circle distances.
type StraightLineMatrix struct{}

func (StraightLineMatrix) SourceDistances(
	ctx context.Context,
	destination domain.Coordinates,
	sources []domain.Coordinates,
) ([]*float64, error) {
	out := make([]*float64, len(sources))
	for i, s := range sources {
		d := s.StraightLineMeters(destination)
		out[i] = &d
	}
	return out, nil
}
