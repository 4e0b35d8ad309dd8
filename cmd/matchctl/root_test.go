package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSeedThenNearby(t *testing.T) {
	t.Setenv("ENV", "development")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DATABASE_URL", filepath.Join(t.TempDir(), "ctl.db"))
	t.Setenv("SEED_PATH", filepath.Join("..", "..", "data", "seeds", "marketplace.json"))
	t.Setenv("LOCATIONIQ_API_KEY", "")
	t.Setenv("REDIS_ADDR", "")

	_, err := runCmd(t, "seed")
	require.NoError(t, err)

	out, err := runCmd(t, "nearby", "1")
	require.NoError(t, err)

	var got []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got), out)
	assert.NotEmpty(t, got)
	for _, p := range got {
		assert.Contains(t, p, "distance")
		assert.GreaterOrEqual(t, p["rating"], 3.0)
	}

	out, err = runCmd(t, "geocode-pending")
	require.NoError(t, err)
	assert.Contains(t, out, "geocoded=0 failed=2")
}

func TestNearbyRejectsBadID(t *testing.T) {
	_, err := runCmd(t, "nearby", "abc")
	assert.Error(t, err)
}
