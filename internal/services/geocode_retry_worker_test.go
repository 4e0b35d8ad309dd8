package services

import (
	"cleaning-match-service/internal/adapters/mock"
	"cleaning-match-service/internal/domain"
	"cleaning-match-service/internal/ports"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestDrainGeocodesQueuedEntities(t *testing.T) {
	ctx := context.Background()
	homes := newMemHomes(&domain.Home{ID: 1, Address: springfield})
	geo := mock.NewGeocoder(map[string]domain.Coordinates{springfieldQuery: {Lon: 1, Lat: 2}})
	q := newRedisQueue(t)
	reg := NewRegistration(homes, newMemProviders(), geo, q, time.Second, nil)
	w := NewGeocodeRetryWorker(q, reg, time.Minute, 3, nil)

	require.NoError(t, q.Enqueue(ctx, ports.GeocodeJob{Kind: ports.GeocodeTargetHome, ID: 1, Attempts: 1}))

	res, err := w.Drain(ctx)
	require.NoError(t, err)
	assert.Equal(t, DrainResult{Geocoded: 1}, res)

	h, err := homes.GetHome(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, &domain.Coordinates{Lon: 1, Lat: 2}, h.Coordinates)
}

func TestDrainRequeuesThenFlagsExhaustedJobs(t *testing.T) {
	ctx := context.Background()
	core, logs := observer.New(zap.WarnLevel)
	homes := newMemHomes(&domain.Home{ID: 1, Address: springfield})
	q := newRedisQueue(t)
	reg := NewRegistration(homes, newMemProviders(), mock.NewGeocoder(nil), q, time.Second, nil)
	w := NewGeocodeRetryWorker(q, reg, time.Minute, 3, zap.New(core))

	require.NoError(t, q.Enqueue(ctx, ports.GeocodeJob{Kind: ports.GeocodeTargetHome, ID: 1, Attempts: 1}))

	res, err := w.Drain(ctx)
	require.NoError(t, err)
	assert.Equal(t, DrainResult{Requeued: 1}, res)

	job, ok, err := q.Dequeue(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 2, job.Attempts)
	require.NoError(t, q.Enqueue(ctx, job))

	res, err = w.Drain(ctx)
	require.NoError(t, err)
	assert.Equal(t, DrainResult{Exhausted: 1}, res)

	_, ok, err = q.Dequeue(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Equal(t, 1, logs.FilterMessage("geocode retries exhausted").Len())
}

func TestDrainDropsMissingEntities(t *testing.T) {
	ctx := context.Background()
	q := newRedisQueue(t)
	reg := NewRegistration(newMemHomes(), newMemProviders(), mock.NewGeocoder(nil), q, time.Second, nil)
	w := NewGeocodeRetryWorker(q, reg, time.Minute, 3, nil)

	require.NoError(t, q.Enqueue(ctx, ports.GeocodeJob{Kind: ports.GeocodeTargetProvider, ID: 9}))

	res, err := w.Drain(ctx)
	require.NoError(t, err)
	assert.Equal(t, DrainResult{Dropped: 1}, res)
}

func TestRunStopsOnCancel(t *testing.T) {
	q := newRedisQueue(t)
	reg := NewRegistration(newMemHomes(), newMemProviders(), mock.NewGeocoder(nil), q, time.Second, nil)
	w := NewGeocodeRetryWorker(q, reg, 5*time.Millisecond, 3, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after cancel")
	}
}
