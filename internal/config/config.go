package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"

	"github.com/couchcryptid/storm-data-climo/internal/domain"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HurdatPath      string
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Request pipeline. Empty KafkaBrokers disables it.
	KafkaBrokers       []string
	KafkaRequestTopic  string
	KafkaReportTopic   string
	KafkaGroupID       string
	BatchSize          int
	BatchFlushInterval time.Duration

	// Ranking limits.
	RankMinQuantity int
	RankMaxQuantity int
	Climatology     int
	Increment       int
	LandfallCaveat  *domain.YearSpan

	// Mapbox geocoding configuration.
	MapboxToken     string
	MapboxEnabled   bool
	MapboxTimeout   time.Duration
	MapboxCacheSize int

	// GeocodeCachePath is a SQLite file keeping geocoding results across
	// restarts. Empty keeps results in memory only.
	GeocodeCachePath string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	batchSize, err := sharedcfg.ParseBatchSize()
	if err != nil {
		return nil, err
	}

	flushInterval, err := sharedcfg.ParseBatchFlushInterval()
	if err != nil {
		return nil, err
	}

	mapboxTimeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("MAPBOX_TIMEOUT", "5s"))
	if err != nil || mapboxTimeout <= 0 {
		return nil, errors.New("invalid MAPBOX_TIMEOUT")
	}

	cfg := &Config{
		HurdatPath:      strings.TrimSpace(os.Getenv("HURDAT2_PATH")),
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		KafkaRequestTopic:  sharedcfg.EnvOrDefault("KAFKA_REQUEST_TOPIC", "climo-requests"),
		KafkaReportTopic:   sharedcfg.EnvOrDefault("KAFKA_REPORT_TOPIC", "climo-reports"),
		KafkaGroupID:       sharedcfg.EnvOrDefault("KAFKA_GROUP_ID", "storm-data-climo"),
		BatchSize:          batchSize,
		BatchFlushInterval: flushInterval,

		MapboxToken:      os.Getenv("MAPBOX_TOKEN"),
		MapboxTimeout:    mapboxTimeout,
		GeocodeCachePath: strings.TrimSpace(os.Getenv("GEOCODE_CACHE_PATH")),
	}
	if brokers := strings.TrimSpace(os.Getenv("KAFKA_BROKERS")); brokers != "" {
		cfg.KafkaBrokers = sharedcfg.ParseBrokers(brokers)
	}

	ints := []struct {
		env string
		def int
		dst *int
	}{
		{"RANK_MIN_QUANTITY", domain.DefaultMinQuantity, &cfg.RankMinQuantity},
		{"RANK_MAX_QUANTITY", domain.DefaultMaxQuantity, &cfg.RankMaxQuantity},
		{"CLIMATOLOGY", domain.DefaultClimatology, &cfg.Climatology},
		{"INCREMENT", domain.DefaultIncrement, &cfg.Increment},
		{"MAPBOX_CACHE_SIZE", 1000, &cfg.MapboxCacheSize},
	}
	for _, v := range ints {
		n, err := parsePositiveInt(v.env, v.def)
		if err != nil {
			return nil, err
		}
		*v.dst = n
	}

	if s := os.Getenv("LANDFALL_CAVEAT"); s != "" {
		span, err := domain.ParseYearSpan(s)
		if err != nil {
			return nil, fmt.Errorf("invalid LANDFALL_CAVEAT: %w", err)
		}
		cfg.LandfallCaveat = &span
	}

	cfg.MapboxEnabled = cfg.MapboxToken != ""
	if v := os.Getenv("MAPBOX_ENABLED"); v != "" {
		cfg.MapboxEnabled = v == "true"
	}

	if cfg.HurdatPath == "" {
		return nil, errors.New("HURDAT2_PATH is required")
	}
	if cfg.PipelineEnabled() {
		if cfg.KafkaRequestTopic == "" {
			return nil, errors.New("KAFKA_REQUEST_TOPIC is required")
		}
		if cfg.KafkaReportTopic == "" {
			return nil, errors.New("KAFKA_REPORT_TOPIC is required")
		}
	}
	if cfg.RankMinQuantity > cfg.RankMaxQuantity {
		return nil, errors.New("RANK_MIN_QUANTITY must not exceed RANK_MAX_QUANTITY")
	}
	if cfg.MapboxEnabled && cfg.MapboxToken == "" {
		return nil, errors.New("MAPBOX_ENABLED is true but MAPBOX_TOKEN is not set")
	}

	return cfg, nil
}

// PipelineEnabled reports whether Kafka brokers were configured.
func (c *Config) PipelineEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

// Limits returns the ranking limits configured for the service.
func (c *Config) Limits() domain.Limits {
	return domain.Limits{
		MinQuantity:    c.RankMinQuantity,
		MaxQuantity:    c.RankMaxQuantity,
		Climatology:    c.Climatology,
		Increment:      c.Increment,
		LandfallCaveat: c.LandfallCaveat,
	}
}

func parsePositiveInt(env string, def int) (int, error) {
	s := os.Getenv(env)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s: must be a positive integer", env)
	}
	return n, nil
}
