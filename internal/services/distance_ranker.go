package services

import (
	"cleaning-match-service/internal/domain"
	"cleaning-match-service/internal/ports"
	"cmp"
	"context"
	"fmt"
	"slices"

	"go.uber.org/zap"
)

const DefaultMaxResults = 10

// A provider paired with the coordinates it is ranked by.
type candidate struct {
	provider *domain.ServiceProvider
	coords   domain.Coordinates
}

// DistanceRanker orders providers by driving distance to a customer.
type DistanceRanker struct {
	matrix ports.DistanceMatrixProvider
	// When > 0, only the nearest N candidates by straight-line distance are
	// sent to the matrix.
	maxMatrixCandidates int
	logger              *zap.Logger
}

func NewDistanceRanker(
	matrix ports.DistanceMatrixProvider,
	maxMatrixCandidates int,
	logger *zap.Logger,
) *DistanceRanker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DistanceRanker{matrix: matrix, maxMatrixCandidates: maxMatrixCandidates, logger: logger}
}

// Rank returns up to maxResults providers sorted by ascending distance.
//
// Providers without coordinates are skipped, and so is any provider the
// matrix cannot route. When the matrix call itself fails or returns
// something unusable, Rank returns an empty result with degraded set.
func (r *DistanceRanker) Rank(
	ctx context.Context,
	origin domain.Coordinates,
	providers []*domain.ServiceProvider,
	maxResults int,
) (ranked []domain.ProviderWithDistance, degraded bool) {
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}

	candidates := make([]candidate, 0, len(providers))
	for _, p := range providers {
		if p == nil || p.Coordinates == nil {
			continue
		}
		candidates = append(candidates, candidate{provider: p, coords: *p.Coordinates})
	}

	if len(candidates) == 0 {
		return []domain.ProviderWithDistance{}, false
	}

	candidates = r.preCap(origin, candidates)

	sources := make([]domain.Coordinates, len(candidates))
	for i, c := range candidates {
		sources[i] = c.coords
	}

	distances, err := r.matrix.SourceDistances(ctx, origin, sources)
	if err == nil && len(distances) != len(candidates) {
		err = fmt.Errorf("got %d distances for %d candidates", len(distances), len(candidates))
	}
	if err != nil {
		r.logger.Warn("RankingDegraded",
			zap.Int("candidates", len(candidates)),
			zap.Error(fmt.Errorf("%w: %w", domain.ErrRankingDegraded, err)),
		)
		return []domain.ProviderWithDistance{}, true
	}

	ranked = make([]domain.ProviderWithDistance, 0, len(candidates))
	for i, c := range candidates {
		d := distances[i]
		if d == nil {
			r.logger.Debug("dropping unroutable provider", zap.Int64("provider_id", c.provider.ID))
			continue
		}
		ranked = append(ranked, domain.ProviderWithDistance{Provider: c.provider, Distance: *d})
	}

	slices.SortStableFunc(ranked, func(a, b domain.ProviderWithDistance) int {
		return cmp.Compare(a.Distance, b.Distance)
	})

	if len(ranked) > maxResults {
		ranked = ranked[:maxResults]
	}

	return ranked, false
}

// preCap keeps the nearest maxMatrixCandidates by great-circle distance,
// preserving input order among ties.
func (r *DistanceRanker) preCap(origin domain.Coordinates, candidates []candidate) []candidate {
	if r.maxMatrixCandidates <= 0 || len(candidates) <= r.maxMatrixCandidates {
		return candidates
	}

	type scored struct {
		c candidate
		d float64
	}
	all := make([]scored, len(candidates))
	for i, c := range candidates {
		all[i] = scored{c: c, d: origin.StraightLineMeters(c.coords)}
	}
	slices.SortStableFunc(all, func(a, b scored) int { return cmp.Compare(a.d, b.d) })

	out := make([]candidate, r.maxMatrixCandidates)
	for i := range out {
		out[i] = all[i].c
	}

	r.logger.Debug("capped matrix candidates",
		zap.Int("candidates", len(candidates)),
		zap.Int("kept", len(out)),
	)
	return out
}
