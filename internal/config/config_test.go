package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 10, cfg.Server.AnalyzeRPM)
	assert.Equal(t, 5, cfg.Server.PDFRPM)
	assert.Equal(t, "memory", cfg.Cache.Backend)
	assert.Equal(t, 24, cfg.Cache.TTLHours)
	assert.Equal(t, "http://landregistry.data.gov.uk/landregistry/query", cfg.LandRegistry.Endpoint)
	assert.Equal(t, "https://api.postcodes.io", cfg.Transport.PostcodesBaseURL)
	assert.Equal(t, "wkhtmltopdf", cfg.Report.WkhtmltopdfPath)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Empty(t, cfg.PropertyData.Key, "no API key by default")
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("ANALYZER_SERVER_PORT", "9099")
	t.Setenv("ANALYZER_CACHE_BACKEND", "redis")
	t.Setenv("ANALYZER_PROPERTY_DATA_KEY", "pd-test-key")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9099, cfg.Server.Port)
	assert.Equal(t, "redis", cfg.Cache.Backend)
	assert.Equal(t, "pd-test-key", cfg.PropertyData.Key)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	assert.Error(t, InitLogger(LogConfig{Level: "shouty", Format: "json"}), "bad level rejected")
}
