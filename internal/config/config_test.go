package config_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csg33k/people-indicators/internal/adapters/geo"
	"github.com/csg33k/people-indicators/internal/adapters/sqlite"
	"github.com/csg33k/people-indicators/internal/config"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := config.Parse(env.Options{Environment: map[string]string{}})
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, sqlite.MemoryDSN, cfg.DBPath)
	assert.Equal(t, geo.DefaultURL, cfg.GeoJSONURL)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 5*time.Minute, cfg.SessionSweepInterval)
	assert.EqualValues(t, 32<<20, cfg.MaxUploadBytes)
	assert.True(t, cfg.MetricsEnabled)
	assert.Equal(t, "/metrics", cfg.MetricsPath)
}

func TestParse_Overrides(t *testing.T) {
	cfg, err := config.Parse(env.Options{Environment: map[string]string{
		"PORT":             "9000",
		"DB_PATH":          "people.db",
		"SESSION_TTL":      "30m",
		"MAX_UPLOAD_BYTES": "1024",
		"METRICS_ENABLED":  "false",
		"METRICS_PATH":     "internal/metrics",
		"LOG_FORMAT":       "json",
	}})
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Addr())
	assert.Equal(t, "people.db", cfg.DBPath)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.EqualValues(t, 1024, cfg.MaxUploadBytes)
	assert.False(t, cfg.MetricsEnabled)
	assert.Equal(t, "/internal/metrics", cfg.MetricsPath)
}

func TestParse_Invalid(t *testing.T) {
	for name, environ := range map[string]map[string]string{
		"bad duration":    {"SESSION_TTL": "soon"},
		"zero ttl":        {"SESSION_TTL": "0s"},
		"negative upload": {"MAX_UPLOAD_BYTES": "-1"},
		"bad bool":        {"METRICS_ENABLED": "maybe"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := config.Parse(env.Options{Environment: environ})
			assert.Error(t, err)
		})
	}
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := &config.Config{LogLevel: "warn", LogFormat: "json"}
	log := cfg.Logger(&buf)

	log.Info("hidden")
	log.Warn("shown", "k", "v")
	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"k":"v"`)
}
