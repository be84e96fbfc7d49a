package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "./data/centerline", cfg.Dataset.Path)
	assert.Equal(t, 15, cfg.Geocode.TimeoutSecs)
	assert.InDelta(t, 1.0, cfg.Geocode.RateLimit, 1e-9)
	assert.Equal(t, "https://nominatim.openstreetmap.org", cfg.Geocode.NominatimBaseURL)
	assert.False(t, cfg.Geocode.CensusEnabled)
	assert.Equal(t, []string{"html", "svg"}, cfg.Export.Formats)
	assert.Equal(t, 1000, cfg.Export.SVG.CanvasPx)
	assert.Equal(t, 101, cfg.Export.XLSX.GridSize)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("STREETLINE_LOG_LEVEL", "debug")
	t.Setenv("STREETLINE_GEOCODE_TIMEOUT_SECS", "30")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 30, cfg.Geocode.TimeoutSecs)
}

func TestInitLogger_RejectsBadLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "shouting", Format: "console"})
	require.Error(t, err)
}
