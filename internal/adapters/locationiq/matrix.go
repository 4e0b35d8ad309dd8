package locationiq

import (
	"bytes"
	"cleaning-match-service/internal/domain"
	"cleaning-match-service/internal/platform/obs"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

type matrixResponse struct {
	Distances json.RawMessage `json:"distances"`
}

// SourceDistances fetches driving distances from every source to a single
// destination in one /matrix/driving call.
//
// The destination is location 0 and sources are 1..N, so each returned row
// holds exactly one cell. A null cell comes back as a nil entry. Any
// structural problem with the response is an error.
func (c *Client) SourceDistances(
	ctx context.Context,
	destination domain.Coordinates,
	sources []domain.Coordinates,
) (_ []*float64, err error) {
	defer obs.Time(ctx, c.logger, "locationiq.SourceDistances")(&err)

	if len(sources) == 0 {
		return []*float64{}, nil
	}

	segments := make([]string, 0, 1+len(sources))
	segments = append(segments, destination.PathSegment())
	sourceIdx := make([]string, 0, len(sources))
	for i, s := range sources {
		segments = append(segments, s.PathSegment())
		sourceIdx = append(sourceIdx, strconv.Itoa(i+1))
	}

	path := "/matrix/driving/" + strings.Join(segments, ";")

	params := url.Values{}
	params.Set("sources", strings.Join(sourceIdx, ";"))
	params.Set("destinations", "0")
	params.Set("annotations", "distance")

	resp, err := c.doWithRetry(ctx, func() (*http.Request, error) {
		return c.newRequest(ctx, path, params)
	})
	if err != nil {
		return nil, fmt.Errorf("matrix request failed: %w", err)
	}
	defer resp.Body.Close()

	var mr matrixResponse
	if err := json.NewDecoder(resp.Body).Decode(&mr); err != nil {
		return nil, fmt.Errorf("decode matrix response: %w", err)
	}

	raw := bytes.TrimSpace(mr.Distances)
	if len(raw) == 0 || raw[0] != '[' {
		return nil, errors.New("matrix response has no distances list")
	}

	var rows [][]*float64
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("decode distances: %w", err)
	}

	if len(rows) != len(sources) {
		return nil, fmt.Errorf(
			"row count does not match sources: rows=%d sources=%d",
			len(rows), len(sources),
		)
	}

	out := make([]*float64, len(rows))
	for i, row := range rows {
		if len(row) == 0 {
			return nil, fmt.Errorf("matrix row %d is empty", i)
		}
		out[i] = row[0]
	}

	return out, nil
}
