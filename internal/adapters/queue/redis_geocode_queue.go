package queue

import (
	"cleaning-match-service/internal/ports"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const DefaultGeocodeRetryKey = "geocode:retry"

// RedisGeocodeQueue is a FIFO of geocode retry jobs stored in a Redis list.
// Jobs are pushed on the left and popped from the right.
type RedisGeocodeQueue struct {
	client *redis.Client
	key    string
}

func NewRedisGeocodeQueue(client *redis.Client, key string) *RedisGeocodeQueue {
	if key == "" {
		key = DefaultGeocodeRetryKey
	}
	return &RedisGeocodeQueue{client: client, key: key}
}

func (q *RedisGeocodeQueue) Enqueue(ctx context.Context, job ports.GeocodeJob) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("enqueue geocode job: marshal: %w", err)
	}

	if err := q.client.LPush(ctx, q.key, payload).Err(); err != nil {
		return fmt.Errorf("enqueue geocode job %s/%d: %w", job.Kind, job.ID, err)
	}
	return nil
}

func (q *RedisGeocodeQueue) Dequeue(ctx context.Context) (ports.GeocodeJob, bool, error) {
	payload, err := q.client.RPop(ctx, q.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ports.GeocodeJob{}, false, nil
	}
	if err != nil {
		return ports.GeocodeJob{}, false, fmt.Errorf("dequeue geocode job: %w", err)
	}

	var job ports.GeocodeJob
	if err := json.Unmarshal(payload, &job); err != nil {
		return ports.GeocodeJob{}, false, fmt.Errorf("dequeue geocode job: unmarshal %q: %w", payload, err)
	}
	return job, true, nil
}

// Len reports how many jobs are waiting.
func (q *RedisGeocodeQueue) Len(ctx context.Context) (int64, error) {
	n, err := q.client.LLen(ctx, q.key).Result()
	if err != nil {
		return 0, fmt.Errorf("geocode queue length: %w", err)
	}
	return n, nil
}

// NoopGeocodeQueue discards jobs. It stands in when Redis is not configured;
// ungeocoded rows are then picked up by the geocode-pending sweep.
type NoopGeocodeQueue struct{}

func (NoopGeocodeQueue) Enqueue(context.Context, ports.GeocodeJob) error { return nil }

func (NoopGeocodeQueue) Dequeue(context.Context) (ports.GeocodeJob, bool, error) {
	return ports.GeocodeJob{}, false, nil
}
