package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"

	"github.com/couchcryptid/storm-data-climo/internal/adapter/geocache"
	"github.com/couchcryptid/storm-data-climo/internal/adapter/httpadapter"
	"github.com/couchcryptid/storm-data-climo/internal/adapter/hurdat2"
	kafkaadapter "github.com/couchcryptid/storm-data-climo/internal/adapter/kafka"
	"github.com/couchcryptid/storm-data-climo/internal/adapter/mapbox"
	"github.com/couchcryptid/storm-data-climo/internal/config"
	"github.com/couchcryptid/storm-data-climo/internal/domain"
	"github.com/couchcryptid/storm-data-climo/internal/observability"
	"github.com/couchcryptid/storm-data-climo/internal/pipeline"
)

// alwaysReady reports ready once the record is loaded, for deployments
// without the Kafka pipeline.
type alwaysReady struct{}

func (alwaysReady) CheckReadiness(context.Context) error { return nil }

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	rec, err := hurdat2.LoadFile(cfg.HurdatPath)
	if err != nil {
		logger.Error("failed to load hurdat2 record", "path", cfg.HurdatPath, "error", err)
		os.Exit(1)
	}
	metrics.SetRecord(rec)
	y1, y2 := rec.RecordRange()
	logger.Info("record loaded", "path", cfg.HurdatPath, "basin", rec.Basin(), "storms", rec.Len(), "year1", y1, "year2", y2)

	ranker := domain.NewRanker(rec, cfg.Limits())

	var closers []func() error

	// Initialize geocoder (feature-flagged via MAPBOX_ENABLED / MAPBOX_TOKEN).
	var geocoder domain.Geocoder
	if cfg.MapboxEnabled {
		var inner domain.Geocoder = mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, metrics, logger)
		if cfg.GeocodeCachePath != "" {
			store, err := geocache.Open(cfg.GeocodeCachePath, inner, logger)
			if err != nil {
				logger.Error("failed to open geocode cache", "path", cfg.GeocodeCachePath, "error", err)
				os.Exit(1)
			}
			closers = append(closers, store.Close)
			inner = store
			logger.Info("persistent geocode cache enabled", "path", cfg.GeocodeCachePath)
		}
		geocoder = mapbox.NewCachedGeocoder(inner, cfg.MapboxCacheSize, metrics)
		metrics.GeocodeEnabled.Set(1)
		logger.Info("mapbox geocoding enabled", "cache_size", cfg.MapboxCacheSize, "timeout", cfg.MapboxTimeout)
	} else {
		logger.Info("mapbox geocoding disabled")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var ready sharedobs.ReadinessChecker = alwaysReady{}
	if cfg.PipelineEnabled() {
		reader := kafkaadapter.NewReader(cfg, logger)
		writer := kafkaadapter.NewWriter(cfg, logger)
		closers = append(closers, reader.Close, writer.Close)

		transformer := pipeline.NewTransformer(ranker, geocoder, metrics, logger)
		p := pipeline.New(reader, transformer, writer, logger, metrics, cfg.BatchSize)
		ready = p

		go func() {
			if err := p.Run(ctx); err != nil {
				logger.Error("pipeline error", "error", err)
			}
		}()
	} else {
		logger.Info("kafka pipeline disabled", "reason", "KAFKA_BROKERS not set")
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, ready, ranker, geocoder, metrics, logger)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	for _, closeFn := range closers {
		if err := closeFn(); err != nil {
			logger.Error("close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
