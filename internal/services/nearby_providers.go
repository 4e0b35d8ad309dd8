package services

import (
	"cleaning-match-service/internal/domain"
	"cleaning-match-service/internal/platform/obs"
	"cleaning-match-service/internal/ports"
	"context"
	"fmt"

	"go.uber.org/zap"
)

type NearbyResult struct {
	Providers []domain.ProviderWithDistance
	// Degraded is set when ranking could not run and Providers is empty for
	// that reason rather than because nobody is eligible.
	Degraded bool
}

type MatcherConfig struct {
	MinRating  float64
	MaxResults int
}

// Matcher answers "which providers are nearest to this home".
type Matcher struct {
	homes  ports.HomeRepository
	filter *EligibilityFilter
	ranker *DistanceRanker
	cfg    MatcherConfig
	logger *zap.Logger
}

func NewMatcher(
	homes ports.HomeRepository,
	filter *EligibilityFilter,
	ranker *DistanceRanker,
	cfg MatcherConfig,
	logger *zap.Logger,
) *Matcher {
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = DefaultMaxResults
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Matcher{homes: homes, filter: filter, ranker: ranker, cfg: cfg, logger: logger}
}

// NearbyProviders loads the home, filters eligible providers and ranks them
// by driving distance. A missing home is domain.ErrNotFound; upstream
// failures only ever show up as an empty, degraded result.
func (m *Matcher) NearbyProviders(ctx context.Context, homeID int64) (_ NearbyResult, err error) {
	defer obs.Time(ctx, m.logger, "matcher.NearbyProviders")(&err)

	home, err := m.homes.GetHome(ctx, homeID)
	if err != nil {
		return NearbyResult{}, fmt.Errorf("nearby providers: %w", err)
	}

	if home.Coordinates == nil {
		m.logger.Warn("RankingDegraded",
			zap.String("req_id", obs.RequestID(ctx)),
			zap.Int64("home_id", homeID),
			zap.String("reason", "home has no coordinates"),
		)
		return NearbyResult{Providers: []domain.ProviderWithDistance{}, Degraded: true}, nil
	}

	eligible, err := m.filter.Eligible(ctx, home, m.cfg.MinRating)
	if err != nil {
		return NearbyResult{}, fmt.Errorf("nearby providers: %w", err)
	}

	ranked, degraded := m.ranker.Rank(ctx, *home.Coordinates, eligible, m.cfg.MaxResults)

	return NearbyResult{Providers: ranked, Degraded: degraded}, nil
}
