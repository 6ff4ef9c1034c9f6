package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/storm-data-climo/internal/domain"
)

const (
	testHurdatPath  = "/data/hurdat2.txt"
	testMapboxToken = "pk.test-token"
)

// setRequired sets the variables Load cannot default.
func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("HURDAT2_PATH", testHurdatPath)
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, testHurdatPath, cfg.HurdatPath)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.False(t, cfg.PipelineEnabled())
	assert.Equal(t, "climo-requests", cfg.KafkaRequestTopic)
	assert.Equal(t, "climo-reports", cfg.KafkaReportTopic)
	assert.Equal(t, "storm-data-climo", cfg.KafkaGroupID)
	assert.Equal(t, 50, cfg.BatchSize)
	assert.Equal(t, 500*time.Millisecond, cfg.BatchFlushInterval)
	assert.Equal(t, domain.DefaultLimits(), cfg.Limits())
	assert.Nil(t, cfg.LandfallCaveat)
	assert.False(t, cfg.MapboxEnabled)
	assert.Empty(t, cfg.MapboxToken)
	assert.Equal(t, 5*time.Second, cfg.MapboxTimeout)
	assert.Equal(t, 1000, cfg.MapboxCacheSize)
	assert.Empty(t, cfg.GeocodeCachePath)
}

func TestLoad_CustomEnv(t *testing.T) {
	setRequired(t)
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_REQUEST_TOPIC", "custom-requests")
	t.Setenv("KAFKA_REPORT_TOPIC", "custom-reports")
	t.Setenv("KAFKA_GROUP_ID", "custom-group")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("BATCH_SIZE", "100")
	t.Setenv("BATCH_FLUSH_INTERVAL", "1s")
	t.Setenv("RANK_MIN_QUANTITY", "1")
	t.Setenv("RANK_MAX_QUANTITY", "500")
	t.Setenv("CLIMATOLOGY", "10")
	t.Setenv("INCREMENT", "1")
	t.Setenv("LANDFALL_CAVEAT", "1967-1991")
	t.Setenv("MAPBOX_TOKEN", testMapboxToken)
	t.Setenv("MAPBOX_TIMEOUT", "10s")
	t.Setenv("MAPBOX_CACHE_SIZE", "500")
	t.Setenv("GEOCODE_CACHE_PATH", "/var/lib/climo/geocode.db")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.True(t, cfg.PipelineEnabled())
	assert.Equal(t, "custom-requests", cfg.KafkaRequestTopic)
	assert.Equal(t, "custom-reports", cfg.KafkaReportTopic)
	assert.Equal(t, "custom-group", cfg.KafkaGroupID)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 100, cfg.BatchSize)
	assert.Equal(t, 1*time.Second, cfg.BatchFlushInterval)
	assert.Equal(t, domain.Limits{
		MinQuantity:    1,
		MaxQuantity:    500,
		Climatology:    10,
		Increment:      1,
		LandfallCaveat: &domain.YearSpan{From: 1967, To: 1991},
	}, cfg.Limits())
	assert.True(t, cfg.MapboxEnabled)
	assert.Equal(t, testMapboxToken, cfg.MapboxToken)
	assert.Equal(t, 10*time.Second, cfg.MapboxTimeout)
	assert.Equal(t, 500, cfg.MapboxCacheSize)
	assert.Equal(t, "/var/lib/climo/geocode.db", cfg.GeocodeCachePath)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"invalid shutdown timeout", map[string]string{"SHUTDOWN_TIMEOUT": "not-a-duration"}, "SHUTDOWN_TIMEOUT"},
		{"negative shutdown timeout", map[string]string{"SHUTDOWN_TIMEOUT": "-1s"}, "SHUTDOWN_TIMEOUT"},
		{"zero batch size", map[string]string{"BATCH_SIZE": "0"}, "BATCH_SIZE"},
		{"batch size too large", map[string]string{"BATCH_SIZE": "9999"}, "BATCH_SIZE"},
		{"invalid flush interval", map[string]string{"BATCH_FLUSH_INTERVAL": "soon"}, "BATCH_FLUSH_INTERVAL"},
		{"invalid mapbox timeout", map[string]string{"MAPBOX_TIMEOUT": "bad"}, "MAPBOX_TIMEOUT"},
		{"mapbox enabled without token", map[string]string{"MAPBOX_ENABLED": "true"}, "MAPBOX_TOKEN"},
		{"invalid climatology", map[string]string{"CLIMATOLOGY": "0"}, "CLIMATOLOGY"},
		{"invalid increment", map[string]string{"INCREMENT": "five"}, "INCREMENT"},
		{"invalid cache size", map[string]string{"MAPBOX_CACHE_SIZE": "-3"}, "MAPBOX_CACHE_SIZE"},
		{"min above max", map[string]string{"RANK_MIN_QUANTITY": "50", "RANK_MAX_QUANTITY": "10"}, "RANK_MIN_QUANTITY"},
		{"invalid caveat", map[string]string{"LANDFALL_CAVEAT": "1991-1967"}, "LANDFALL_CAVEAT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad_MissingHurdatPath(t *testing.T) {
	t.Setenv("HURDAT2_PATH", "")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HURDAT2_PATH")
}

func TestLoad_MapboxTokenImpliesEnabled(t *testing.T) {
	setRequired(t)
	t.Setenv("MAPBOX_TOKEN", testMapboxToken)
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.MapboxEnabled)
}

func TestLoad_MapboxExplicitlyDisabled(t *testing.T) {
	setRequired(t)
	t.Setenv("MAPBOX_TOKEN", testMapboxToken)
	t.Setenv("MAPBOX_ENABLED", "false")
	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.MapboxEnabled)
}
