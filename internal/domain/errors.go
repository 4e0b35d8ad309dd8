package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("not found")

	ErrInvalidInput = errors.New("invalid input")

	// ErrGeocodingFailure marks an address that could not be resolved to coordinates.
	ErrGeocodingFailure = errors.New("geocoding failure")

	// ErrRankingDegraded marks a distance ranking that fell back to an empty result.
	ErrRankingDegraded = errors.New("ranking degraded")
)

// GeocodingError carries the query that failed and the underlying cause.
type GeocodingError struct {
	Query string
	Err   error
}

func (e *GeocodingError) Error() string {
	return fmt.Sprintf("geocode %q: %v", e.Query, e.Err)
}

func (e *GeocodingError) Unwrap() error { return e.Err }

func (e *GeocodingError) Is(target error) bool { return target == ErrGeocodingFailure }
