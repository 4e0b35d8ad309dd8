package services

import (
	"cleaning-match-service/internal/domain"
	"cleaning-match-service/internal/ports"
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// GeocodeRetryWorker periodically drains the geocode retry queue.
type GeocodeRetryWorker struct {
	queue       ports.GeocodeQueue
	reg         *Registration
	interval    time.Duration
	maxAttempts int
	logger      *zap.Logger
}

func NewGeocodeRetryWorker(
	queue ports.GeocodeQueue,
	reg *Registration,
	interval time.Duration,
	maxAttempts int,
	logger *zap.Logger,
) *GeocodeRetryWorker {
	if interval <= 0 {
		interval = time.Minute
	}
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GeocodeRetryWorker{
		queue:       queue,
		reg:         reg,
		interval:    interval,
		maxAttempts: maxAttempts,
		logger:      logger,
	}
}

// Run drains the queue every interval until ctx is cancelled.
func (w *GeocodeRetryWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := w.Drain(ctx); err != nil && ctx.Err() == nil {
				w.logger.Error("geocode retry drain", zap.Error(err))
			}
		}
	}
}

type DrainResult struct {
	Geocoded  int
	Requeued  int
	Exhausted int
	Dropped   int
}

// Drain processes every job currently queued. Jobs that fail again are put
// back once the pass is over, so one pass never loops on the same job.
// A job that reaches maxAttempts is flagged in the log and dropped.
func (w *GeocodeRetryWorker) Drain(ctx context.Context) (DrainResult, error) {
	var res DrainResult
	var retry []ports.GeocodeJob

	defer func() {
		for _, job := range retry {
			if err := w.queue.Enqueue(context.WithoutCancel(ctx), job); err != nil {
				w.logger.Error("requeue geocode job",
					zap.String("kind", string(job.Kind)),
					zap.Int64("id", job.ID),
					zap.Error(err),
				)
			}
		}
	}()

	for {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		job, ok, err := w.queue.Dequeue(ctx)
		if err != nil {
			return res, fmt.Errorf("drain geocode queue: %w", err)
		}
		if !ok {
			return res, nil
		}

		_, err = w.reg.Regeocode(ctx, job.Kind, job.ID)
		switch {
		case err == nil:
			res.Geocoded++
		case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrInvalidInput):
			res.Dropped++
			w.logger.Warn("dropping geocode job",
				zap.String("kind", string(job.Kind)),
				zap.Int64("id", job.ID),
				zap.Error(err),
			)
		default:
			job.Attempts++
			if job.Attempts >= w.maxAttempts {
				res.Exhausted++
				w.logger.Error("geocode retries exhausted",
					zap.String("kind", string(job.Kind)),
					zap.Int64("id", job.ID),
					zap.Int("attempts", job.Attempts),
					zap.Error(err),
				)
				continue
			}
			res.Requeued++
			retry = append(retry, job)
		}
	}
}
