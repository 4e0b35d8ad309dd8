package ports

import (
	"cleaning-match-service/internal/domain"
	"context"
)

// Contract for a many-sources to one-destination travel distance lookup.
type DistanceMatrixProvider interface {
	// Return one distance per source, in source order, measured from the
	// source to destination. A nil entry means the pair is not routable.
	SourceDistances(ctx context.Context, destination domain.Coordinates, sources []domain.Coordinates) ([]*float64, error)
}
