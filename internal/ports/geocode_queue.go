package ports

import "context"

type GeocodeTargetKind string

const (
	GeocodeTargetHome     GeocodeTargetKind = "home"
	GeocodeTargetProvider GeocodeTargetKind = "provider"
)

// A pending geocode for an entity whose coordinates are still null.
type GeocodeJob struct {
	Kind     GeocodeTargetKind `json:"kind"`
	ID       int64             `json:"id"`
	Attempts int               `json:"attempts"`
}

// Queue of entities awaiting a geocoding retry.
type GeocodeQueue interface {
	Enqueue(ctx context.Context, job GeocodeJob) error
	// Return ok=false when the queue is empty.
	Dequeue(ctx context.Context) (job GeocodeJob, ok bool, err error)
}
