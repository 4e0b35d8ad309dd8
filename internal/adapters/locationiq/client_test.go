package locationiq

import (
	"cleaning-match-service/internal/domain"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, maxAttempts int) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(Options{
		APIKey:      "secret",
		BaseURL:     srv.URL,
		Timeout:     2 * time.Second,
		MaxAttempts: maxAttempts,
	}, zap.NewNop())
	require.NoError(t, err)
	return c
}

func TestNewClientRequiresKey(t *testing.T) {
	_, err := NewClient(Options{}, nil)
	assert.Error(t, err)
}

func TestGeocodeBuildsQueryAndParsesFirstMatch(t *testing.T) {
	var gotPath, gotQ, gotKey, gotFormat string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQ = r.URL.Query().Get("q")
		gotKey = r.URL.Query().Get("key")
		gotFormat = r.URL.Query().Get("format")
		w.Write([]byte(`[{"lon":"-89.65","lat":"39.78"},{"lon":"1","lat":"2"}]`))
	}, 1)

	coords, err := c.Geocode(context.Background(), domain.Address{
		AddressLineOne: "1 Main St",
		State:          "CA",
		City:           "Springfield",
	})
	require.NoError(t, err)

	assert.Equal(t, "/search", gotPath)
	assert.Equal(t, "1 Main St CA, Springfield", gotQ)
	assert.Equal(t, "secret", gotKey)
	assert.Equal(t, "json", gotFormat)
	assert.Equal(t, domain.Coordinates{Lon: -89.65, Lat: 39.78}, coords)
}

func TestGeocodeFailures(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"empty list": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[]`))
		},
		"not found": func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":"Unable to geocode"}`, http.StatusNotFound)
		},
		"bad lon": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[{"lon":"west","lat":"1"}]`))
		},
		"not json": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`<html>`))
		},
		"out of range": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[{"lon":"500","lat":"1"}]`))
		},
	}

	for name, h := range cases {
		t.Run(name, func(t *testing.T) {
			c := newTestClient(t, h, 1)

			coords, err := c.Geocode(context.Background(), domain.Address{AddressLineOne: "x"})
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrGeocodingFailure))

			var ge *domain.GeocodingError
			require.True(t, errors.As(err, &ge))
			assert.Equal(t, "x , ", ge.Query)
			assert.Equal(t, domain.Coordinates{}, coords)
		})
	}
}

func TestDoWithRetryRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`[{"lon":"1","lat":"2"}]`))
	}, 3)

	coords, err := c.Geocode(context.Background(), domain.Address{AddressLineOne: "x"})
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, domain.Coordinates{Lon: 1, Lat: 2}, coords)
}

func TestDoWithRetryDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}, 3)

	_, err := c.Geocode(context.Background(), domain.Address{AddressLineOne: "x"})
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())

	var he *httpStatusError
	require.True(t, errors.As(err, &he))
	assert.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestTransportErrorDoesNotLeakKey(t *testing.T) {
	c, err := NewClient(Options{
		APIKey:      "topsecret",
		BaseURL:     "http://127.0.0.1:1",
		MaxAttempts: 1,
	}, nil)
	require.NoError(t, err)

	_, err = c.Geocode(context.Background(), domain.Address{AddressLineOne: "x"})
	require.Error(t, err)
	assert.False(t, strings.Contains(err.Error(), "topsecret"))
}

func TestSourceDistancesBuildsMatrixRequest(t *testing.T) {
	var gotPath, gotSources, gotDest, gotAnnotations string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotSources = r.URL.Query().Get("sources")
		gotDest = r.URL.Query().Get("destinations")
		gotAnnotations = r.URL.Query().Get("annotations")
		w.Write([]byte(`{"code":"Ok","distances":[[120.5],[null],[900.2]]}`))
	}, 1)

	got, err := c.SourceDistances(context.Background(),
		domain.Coordinates{Lon: -122.4, Lat: 37.8},
		[]domain.Coordinates{
			{Lon: -122.5, Lat: 37.7},
			{Lon: -122.3, Lat: 37.6},
			{Lon: -122.1, Lat: 37.9},
		},
	)
	require.NoError(t, err)

	assert.Equal(t, "/matrix/driving/-122.4,37.8;-122.5,37.7;-122.3,37.6;-122.1,37.9", gotPath)
	assert.Equal(t, "1;2;3", gotSources)
	assert.Equal(t, "0", gotDest)
	assert.Equal(t, "distance", gotAnnotations)

	require.Len(t, got, 3)
	require.NotNil(t, got[0])
	assert.Equal(t, 120.5, *got[0])
	assert.Nil(t, got[1])
	require.NotNil(t, got[2])
	assert.Equal(t, 900.2, *got[2])
}

func TestSourceDistancesNoSourcesSkipsCall(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}, 1)

	got, err := c.SourceDistances(context.Background(), domain.Coordinates{}, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, int32(0), calls.Load())
}

func TestSourceDistancesMalformedResponses(t *testing.T) {
	cases := map[string]string{
		"missing distances": `{"code":"Ok"}`,
		"null distances":    `{"distances":null}`,
		"string distances":  `{"distances":"oops"}`,
		"object distances":  `{"distances":{"a":1}}`,
		"empty distances":   `{"distances":[]}`,
		"row mismatch":      `{"distances":[[1.0]]}`,
		"empty row":         `{"distances":[[1.0],[]]}`,
		"non-list row":      `{"distances":[[1.0],5]}`,
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(body))
			}, 1)

			got, err := c.SourceDistances(context.Background(),
				domain.Coordinates{},
				[]domain.Coordinates{{Lon: 1, Lat: 1}, {Lon: 2, Lat: 2}},
			)
			assert.Error(t, err)
			assert.Nil(t, got)
		})
	}
}

func TestSourceDistancesHonoursTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{"distances":[[1.0]]}`))
	}))
	t.Cleanup(srv.Close)

	c, err := NewClient(Options{
		APIKey:      "k",
		BaseURL:     srv.URL,
		Timeout:     20 * time.Millisecond,
		MaxAttempts: 1,
	}, nil)
	require.NoError(t, err)

	_, err = c.SourceDistances(context.Background(), domain.Coordinates{}, []domain.Coordinates{{Lon: 1, Lat: 1}})
	assert.Error(t, err)
}
