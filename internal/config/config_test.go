package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAppliesDefaults(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost/reports")
	t.Setenv("JWT_ACCESS_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "0.0.0.0", cfg.HTTP.Host)
	assert.Equal(t, 7090, cfg.HTTP.Port)
	assert.Equal(t, []string{"NORMAL"}, cfg.Reports.TripStatuses)
	assert.Equal(t, 366, cfg.Reports.MaxRangeDays)
}

func TestLoadRequiresDSN(t *testing.T) {
	t.Setenv("DB_DSN", "")
	t.Setenv("JWT_ACCESS_SECRET", "secret")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadParsesStatusList(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost/reports")
	t.Setenv("JWT_ACCESS_SECRET", "secret")
	t.Setenv("REPORT_TRIP_STATUSES", "NORMAL, NO_SHOW")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"NORMAL", "NO_SHOW"}, cfg.Reports.TripStatuses)
}
