package services

import (
	"cleaning-match-service/internal/adapters/locationiq"
	"cleaning-match-service/internal/domain"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMatcher(homes *memHomes, providers *memProviders, matrix *fakeMatrix) *Matcher {
	return NewMatcher(
		homes,
		NewEligibilityFilter(providers, nil),
		NewDistanceRanker(matrix, 0, nil),
		MatcherConfig{MinRating: DefaultMinRating, MaxResults: DefaultMaxResults},
		nil,
	)
}

func TestNearbyProvidersEndToEnd(t *testing.T) {
	var gotPath, gotSources string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotSources = r.URL.Query().Get("sources")
		w.Write([]byte(`{"code":"Ok","distances":[[120.5],[900.2]]}`))
	}))
	defer srv.Close()

	client, err := locationiq.NewClient(locationiq.Options{APIKey: "k", BaseURL: srv.URL, MaxAttempts: 1}, nil)
	require.NoError(t, err)

	homes := newMemHomes(&domain.Home{ID: 1, Coordinates: coords(-122.4, 37.8)})
	providers := newMemProviders(
		&domain.ServiceProvider{ID: 1, Rating: rating(4.5), Coordinates: coords(-122.5, 37.7)},
		&domain.ServiceProvider{ID: 2, Rating: rating(4.0), Coordinates: coords(-122.1, 37.9)},
		&domain.ServiceProvider{ID: 3, Rating: rating(4.8)},
	)
	m := NewMatcher(
		homes,
		NewEligibilityFilter(providers, nil),
		NewDistanceRanker(client, 0, nil),
		MatcherConfig{MinRating: 3.0, MaxResults: 10},
		nil,
	)

	res, err := m.NearbyProviders(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, res.Degraded)
	assert.Equal(t, []int64{1, 2}, rankedIDs(res.Providers))
	assert.Equal(t, []float64{120.5, 900.2}, rankedDistances(res.Providers))

	segments := strings.Split(strings.TrimPrefix(gotPath, "/matrix/driving/"), ";")
	assert.Equal(t, []string{"-122.4,37.8", "-122.5,37.7", "-122.1,37.9"}, segments)
	assert.Equal(t, "1;2", gotSources)
}

func TestNearbyProvidersUnknownHome(t *testing.T) {
	m := newMatcher(newMemHomes(), newMemProviders(), &fakeMatrix{})

	_, err := m.NearbyProviders(context.Background(), 42)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestNearbyProvidersHomeWithoutCoordinates(t *testing.T) {
	matrix := &fakeMatrix{}
	m := newMatcher(
		newMemHomes(&domain.Home{ID: 1}),
		newMemProviders(&domain.ServiceProvider{ID: 1, Rating: rating(5), Coordinates: coords(1, 1)}),
		matrix,
	)

	res, err := m.NearbyProviders(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, res.Degraded)
	assert.Empty(t, res.Providers)
	assert.Equal(t, 0, matrix.calls)
}

func TestNearbyProvidersNoEligibleProviders(t *testing.T) {
	matrix := &fakeMatrix{}
	m := newMatcher(
		newMemHomes(&domain.Home{ID: 1, Coordinates: coords(0, 0)}),
		newMemProviders(&domain.ServiceProvider{ID: 1, Rating: rating(1.5), Coordinates: coords(1, 1)}),
		matrix,
	)

	res, err := m.NearbyProviders(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, res.Degraded)
	assert.Empty(t, res.Providers)
	assert.Equal(t, 0, matrix.calls)
}

func TestNearbyProvidersUpstreamDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client, err := locationiq.NewClient(locationiq.Options{APIKey: "k", BaseURL: srv.URL, MaxAttempts: 1}, nil)
	require.NoError(t, err)

	m := NewMatcher(
		newMemHomes(&domain.Home{ID: 1, Coordinates: coords(0, 0)}),
		NewEligibilityFilter(newMemProviders(&domain.ServiceProvider{ID: 1, Rating: rating(5), Coordinates: coords(1, 1)}), nil),
		NewDistanceRanker(client, 0, nil),
		MatcherConfig{MinRating: 3},
		nil,
	)

	res, err := m.NearbyProviders(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, res.Degraded)
	assert.Empty(t, res.Providers)
}
