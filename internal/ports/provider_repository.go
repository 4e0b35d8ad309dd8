package ports

import (
	"cleaning-match-service/internal/domain"
	"context"
)

// Port: a boundary for storing and retrieving ServiceProvider entities.
type ProviderRepository interface {
	CreateProvider(ctx context.Context, p *domain.ServiceProvider) error
	// Return domain.ErrNotFound when no provider has the id.
	GetProvider(ctx context.Context, id int64) (*domain.ServiceProvider, error)
	// Return providers with a non-null rating >= minRating, ordered by id.
	ListProvidersByMinRating(ctx context.Context, minRating float64) ([]*domain.ServiceProvider, error)
	SetProviderCoordinates(ctx context.Context, id int64, c domain.Coordinates) error
	ListUngeocodedProviders(ctx context.Context) ([]*domain.ServiceProvider, error)
}
