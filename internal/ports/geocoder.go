package ports

import (
	"cleaning-match-service/internal/domain"
	"context"
)

// Contract for resolving a postal address to coordinates.
type Geocoder interface {
	// Return the coordinates of the first match for the address.
	// Failures satisfy errors.Is(err, domain.ErrGeocodingFailure).
	Geocode(ctx context.Context, address domain.Address) (domain.Coordinates, error)
}
