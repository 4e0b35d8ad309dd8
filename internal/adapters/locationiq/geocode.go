package locationiq

import (
	"cleaning-match-service/internal/domain"
	"cleaning-match-service/internal/platform/obs"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// LocationIQ reports coordinates as strings.
type searchResult struct {
	Lon string `json:"lon"`
	Lat string `json:"lat"`
}

// Geocode resolves an address with /search and returns the first match.
// Any failure is reported as a *domain.GeocodingError; there is no fallback
// coordinate.
func (c *Client) Geocode(ctx context.Context, address domain.Address) (_ domain.Coordinates, err error) {
	defer obs.Time(ctx, c.logger, "locationiq.Geocode")(&err)

	query := address.GeocodeQuery()
	fail := func(cause error) (domain.Coordinates, error) {
		return domain.Coordinates{}, &domain.GeocodingError{Query: query, Err: cause}
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")

	resp, err := c.doWithRetry(ctx, func() (*http.Request, error) {
		return c.newRequest(ctx, "/search", params)
	})
	if err != nil {
		return fail(fmt.Errorf("execute request: %w", err))
	}
	defer resp.Body.Close()

	var results []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return fail(fmt.Errorf("decode search response: %w", err))
	}

	if len(results) == 0 {
		return fail(errors.New("no matches"))
	}

	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return fail(fmt.Errorf("parse lon %q: %w", results[0].Lon, err))
	}
	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return fail(fmt.Errorf("parse lat %q: %w", results[0].Lat, err))
	}

	coords := domain.Coordinates{Lon: lon, Lat: lat}
	if err := coords.Validate(); err != nil {
		return fail(err)
	}

	return coords, nil
}
