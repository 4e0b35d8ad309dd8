package ports

import (
	"cleaning-match-service/internal/domain"
	"context"
)

// Port: a boundary for storing and retrieving Home entities.
type HomeRepository interface {
	CreateHome(ctx context.Context, home *domain.Home) error
	// Return domain.ErrNotFound when no home has the id.
	GetHome(ctx context.Context, id int64) (*domain.Home, error)
	SetHomeCoordinates(ctx context.Context, id int64, c domain.Coordinates) error
	ListUngeocodedHomes(ctx context.Context) ([]*domain.Home, error)
}
