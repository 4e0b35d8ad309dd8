package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Env         string
	Port        string
	LogLevel    string
	DBDriver    string
	DatabaseURL string
	SeedPath    string

	LocationIQ LocationIQConfig
	Match      MatchConfig
	Redis      RedisConfig
	Geocode    GeocodeConfig
}

type LocationIQConfig struct {
	APIKey      string
	BaseURL     string
	Timeout     time.Duration
	RatePerSec  float64
	Burst       int
	MaxAttempts int
}

type MatchConfig struct {
	MinRating           float64
	MaxResults          int
	AllergyExclusion    bool
	MaxMatrixCandidates int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type GeocodeConfig struct {
	RetryInterval    time.Duration
	RetryMaxAttempts int
	Timeout          time.Duration
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", "development")
	v.SetDefault("PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DATABASE_URL", "data/app.db")
	v.SetDefault("SEED_PATH", "data/seeds/marketplace.json")

	v.SetDefault("LOCATIONIQ_API_KEY", "")
	v.SetDefault("LOCATIONIQ_BASE_URL", "https://us1.locationiq.com/v1")
	v.SetDefault("LOCATIONIQ_TIMEOUT", "10s")
	v.SetDefault("LOCATIONIQ_RATE_PER_SEC", 2.0)
	v.SetDefault("LOCATIONIQ_BURST", 1)
	v.SetDefault("LOCATIONIQ_MAX_ATTEMPTS", 3)

	v.SetDefault("MATCH_MIN_RATING", 3.0)
	v.SetDefault("MATCH_MAX_RESULTS", 10)
	v.SetDefault("MATCH_ALLERGY_EXCLUSION", false)
	v.SetDefault("MATCH_MAX_MATRIX_CANDIDATES", 0)

	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("GEOCODE_RETRY_INTERVAL", "1m")
	v.SetDefault("GEOCODE_RETRY_MAX_ATTEMPTS", 5)
	v.SetDefault("GEOCODE_TIMEOUT", "5s")
}

// Load reads an optional .env file, then environment variables, falling back
// to defaults for anything unset.
func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Env:         v.GetString("ENV"),
		Port:        v.GetString("PORT"),
		LogLevel:    v.GetString("LOG_LEVEL"),
		DBDriver:    strings.ToLower(v.GetString("DB_DRIVER")),
		DatabaseURL: v.GetString("DATABASE_URL"),
		SeedPath:    v.GetString("SEED_PATH"),
		LocationIQ: LocationIQConfig{
			APIKey:      strings.TrimSpace(v.GetString("LOCATIONIQ_API_KEY")),
			BaseURL:     v.GetString("LOCATIONIQ_BASE_URL"),
			Timeout:     v.GetDuration("LOCATIONIQ_TIMEOUT"),
			RatePerSec:  v.GetFloat64("LOCATIONIQ_RATE_PER_SEC"),
			Burst:       v.GetInt("LOCATIONIQ_BURST"),
			MaxAttempts: v.GetInt("LOCATIONIQ_MAX_ATTEMPTS"),
		},
		Match: MatchConfig{
			MinRating:           v.GetFloat64("MATCH_MIN_RATING"),
			MaxResults:          v.GetInt("MATCH_MAX_RESULTS"),
			AllergyExclusion:    v.GetBool("MATCH_ALLERGY_EXCLUSION"),
			MaxMatrixCandidates: v.GetInt("MATCH_MAX_MATRIX_CANDIDATES"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Geocode: GeocodeConfig{
			RetryInterval:    v.GetDuration("GEOCODE_RETRY_INTERVAL"),
			RetryMaxAttempts: v.GetInt("GEOCODE_RETRY_MAX_ATTEMPTS"),
			Timeout:          v.GetDuration("GEOCODE_TIMEOUT"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error

	switch c.DBDriver {
	case "pgx", "sqlite":
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER must be pgx or sqlite, got %q", c.DBDriver))
	}
	if strings.TrimSpace(c.DatabaseURL) == "" {
		errs = append(errs, errors.New("DATABASE_URL is required"))
	}
	if c.Match.MinRating < 0 || c.Match.MinRating > 5 {
		errs = append(errs, fmt.Errorf("MATCH_MIN_RATING must be within 0..5, got %v", c.Match.MinRating))
	}
	if c.Match.MaxResults <= 0 {
		errs = append(errs, fmt.Errorf("MATCH_MAX_RESULTS must be positive, got %d", c.Match.MaxResults))
	}
	if c.Match.MaxMatrixCandidates < 0 {
		errs = append(errs, fmt.Errorf("MATCH_MAX_MATRIX_CANDIDATES must be >= 0, got %d", c.Match.MaxMatrixCandidates))
	}
	if c.LocationIQ.Timeout <= 0 {
		errs = append(errs, errors.New("LOCATIONIQ_TIMEOUT must be positive"))
	}
	if c.Geocode.RetryInterval <= 0 {
		errs = append(errs, errors.New("GEOCODE_RETRY_INTERVAL must be positive"))
	}
	if c.Geocode.RetryMaxAttempts <= 0 {
		errs = append(errs, errors.New("GEOCODE_RETRY_MAX_ATTEMPTS must be positive"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

func (c *Config) IsProduction() bool { return c.Env == "production" }
