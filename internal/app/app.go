// Package app assembles concrete adapters behind ports. It is the composition
// root shared by the server and the matchctl CLI.
package app

import (
	"cleaning-match-service/internal/adapters/locationiq"
	"cleaning-match-service/internal/adapters/mock"
	"cleaning-match-service/internal/adapters/queue"
	"cleaning-match-service/internal/adapters/repositories"
	"cleaning-match-service/internal/config"
	"cleaning-match-service/internal/platform/db"
	"cleaning-match-service/internal/ports"
	"cleaning-match-service/internal/services"
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type App struct {
	Cfg     *config.Config
	Logger  *zap.Logger
	DB      *sql.DB
	Dialect repositories.Dialect

	Homes     *repositories.SQLHomeRepository
	Providers *repositories.SQLProviderRepository

	Registration *services.Registration
	Matcher      *services.Matcher
	RetryWorker  *services.GeocodeRetryWorker

	redis *redis.Client
}

// New opens the database and Redis (when configured) and wires services.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	dialect, err := repositories.DialectFor(cfg.DBDriver)
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}

	conn, err := db.Open(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}

	a := &App{Cfg: cfg, Logger: logger, DB: conn, Dialect: dialect}

	a.Homes = repositories.NewSQLHomeRepository(conn, dialect)
	a.Providers = repositories.NewSQLProviderRepository(conn, dialect)

	geocoder, matrix, err := a.upstream()
	if err != nil {
		a.Close()
		return nil, err
	}

	retryQueue, err := a.retryQueue(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.Registration = services.NewRegistration(
		a.Homes,
		a.Providers,
		geocoder,
		retryQueue,
		cfg.Geocode.Timeout,
		logger.Named("registration"),
	)

	var rules []services.EligibilityRule
	if cfg.Match.AllergyExclusion {
		rules = append(rules, services.AllergyRule{})
	}

	a.Matcher = services.NewMatcher(
		a.Homes,
		services.NewEligibilityFilter(a.Providers, logger.Named("eligibility"), rules...),
		services.NewDistanceRanker(matrix, cfg.Match.MaxMatrixCandidates, logger.Named("ranker")),
		services.MatcherConfig{MinRating: cfg.Match.MinRating, MaxResults: cfg.Match.MaxResults},
		logger.Named("matcher"),
	)

	if a.redis != nil {
		a.RetryWorker = services.NewGeocodeRetryWorker(
			retryQueue,
			a.Registration,
			cfg.Geocode.RetryInterval,
			cfg.Geocode.RetryMaxAttempts,
			logger.Named("geocode_retry"),
		)
	}

	return a, nil
}

// upstream picks the LocationIQ client, or the offline mocks in development
// when no API key is set.
func (a *App) upstream() (ports.Geocoder, ports.DistanceMatrixProvider, error) {
	key := a.Cfg.LocationIQ.APIKey
	if key == "" {
		if a.Cfg.IsProduction() {
			return nil, nil, errors.New("app: LOCATIONIQ_API_KEY is required in production")
		}
		a.Logger.Warn("LOCATIONIQ_API_KEY not set; using offline geocoder and straight-line distances")
		return mock.NewGeocoder(nil), mock.StraightLineMatrix{}, nil
	}

	client, err := locationiq.NewClient(locationiq.Options{
		APIKey:      key,
		BaseURL:     a.Cfg.LocationIQ.BaseURL,
		Timeout:     a.Cfg.LocationIQ.Timeout,
		RatePerSec:  a.Cfg.LocationIQ.RatePerSec,
		Burst:       a.Cfg.LocationIQ.Burst,
		MaxAttempts: a.Cfg.LocationIQ.MaxAttempts,
	}, a.Logger.Named("locationiq"))
	if err != nil {
		return nil, nil, fmt.Errorf("app: %w", err)
	}
	return client, client, nil
}

func (a *App) retryQueue(ctx context.Context) (ports.GeocodeQueue, error) {
	if a.Cfg.Redis.Addr == "" {
		a.Logger.Info("REDIS_ADDR not set; geocode retries rely on matchctl geocode-pending")
		return queue.NoopGeocodeQueue{}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     a.Cfg.Redis.Addr,
		Password: a.Cfg.Redis.Password,
		DB:       a.Cfg.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("app: ping redis %s: %w", a.Cfg.Redis.Addr, err)
	}
	a.redis = client

	return queue.NewRedisGeocodeQueue(client, queue.DefaultGeocodeRetryKey), nil
}

// Migrate creates the schema and, when SEED_PATH is set, loads demo data.
func (a *App) Migrate(ctx context.Context, seed bool) error {
	if err := repositories.InitSchema(ctx, a.DB, a.Dialect); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	if !seed || a.Cfg.SeedPath == "" {
		return nil
	}
	if err := repositories.SeedFromJSON(ctx, a.DB, a.Dialect, a.Cfg.SeedPath); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func (a *App) Close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.Logger.Warn("close redis", zap.Error(err))
		}
	}
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			a.Logger.Warn("close database", zap.Error(err))
		}
	}
}
