package domain

import (
	"fmt"
	"strconv"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// Immutable geographic coordinates (longitude, latitude).
type Coordinates struct {
	Lon float64
	Lat float64
}

// Return coordinates as "lon,lat" for matrix path segments.
func (c Coordinates) PathSegment() string {
	return strconv.FormatFloat(c.Lon, 'f', -1, 64) + "," + strconv.FormatFloat(c.Lat, 'f', -1, 64)
}

func (c Coordinates) Point() orb.Point { return orb.Point{c.Lon, c.Lat} }

// StraightLineMeters returns the great-circle distance to other in meters.
func (c Coordinates) StraightLineMeters(other Coordinates) float64 {
	return geo.Distance(c.Point(), other.Point())
}

// Validate rejects coordinates outside the WGS84 range.
func (c Coordinates) Validate() error {
	if c.Lon < -180 || c.Lon > 180 {
		return fmt.Errorf("longitude %v out of range: %w", c.Lon, ErrInvalidInput)
	}
	if c.Lat < -90 || c.Lat > 90 {
		return fmt.Errorf("latitude %v out of range: %w", c.Lat, ErrInvalidInput)
	}
	return nil
}
