package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	cfg, err := fromViper(v)
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 3.0, cfg.Match.MinRating)
	assert.Equal(t, 10, cfg.Match.MaxResults)
	assert.False(t, cfg.Match.AllergyExclusion)
	assert.Equal(t, 0, cfg.Match.MaxMatrixCandidates)
	assert.Equal(t, 10*time.Second, cfg.LocationIQ.Timeout)
	assert.Equal(t, 3, cfg.LocationIQ.MaxAttempts)
	assert.Equal(t, time.Minute, cfg.Geocode.RetryInterval)
	assert.False(t, cfg.IsProduction())
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("DB_DRIVER", "PGX")
	t.Setenv("DATABASE_URL", "postgres://localhost/match")
	t.Setenv("MATCH_MIN_RATING", "4.5")
	t.Setenv("MATCH_ALLERGY_EXCLUSION", "true")
	t.Setenv("LOCATIONIQ_TIMEOUT", "3s")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "pgx", cfg.DBDriver)
	assert.Equal(t, 4.5, cfg.Match.MinRating)
	assert.True(t, cfg.Match.AllergyExclusion)
	assert.Equal(t, 3*time.Second, cfg.LocationIQ.Timeout)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
}

func TestValidateRejectsBadValues(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("DB_DRIVER", "mysql")
	v.Set("MATCH_MAX_RESULTS", 0)
	v.Set("MATCH_MIN_RATING", 7)

	_, err := fromViper(v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_DRIVER")
	assert.Contains(t, err.Error(), "MATCH_MAX_RESULTS")
	assert.Contains(t, err.Error(), "MATCH_MIN_RATING")
}
