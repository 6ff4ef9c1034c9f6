package observability

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/couchcryptid/storm-data-climo/internal/config"
	"github.com/couchcryptid/storm-data-climo/internal/domain"
)

func TestNewLogger(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	tests := []struct {
		level   string
		format  string
		enabled slog.Level
		hidden  slog.Level
	}{
		{"debug", "text", slog.LevelDebug, slog.LevelDebug - 1},
		{"INFO", "json", slog.LevelInfo, slog.LevelDebug},
		{"warning", "json", slog.LevelWarn, slog.LevelInfo},
		{"error", "text", slog.LevelError, slog.LevelWarn},
		{"chatty", "json", slog.LevelInfo, slog.LevelDebug},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logger := NewLogger(&config.Config{LogLevel: tt.level, LogFormat: tt.format})

			ctx := context.Background()
			assert.True(t, logger.Enabled(ctx, tt.enabled))
			assert.False(t, logger.Enabled(ctx, tt.hidden))
			assert.Same(t, logger, slog.Default(), "installed as the default logger")
		})
	}
}

func TestObserveRank(t *testing.T) {
	m := NewMetricsForTesting()

	m.ObserveRank("seasons", time.Millisecond, nil)
	m.ObserveRank("seasons", time.Millisecond, &domain.ValidationError{Field: "quantity", Reason: "too small"})
	m.ObserveRank("storms", time.Millisecond, errors.New("boom"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RankRequests.WithLabelValues("seasons", OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RankRequests.WithLabelValues("seasons", OutcomeInvalid)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RankRequests.WithLabelValues("storms", OutcomeError)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ValidationFailures.WithLabelValues("quantity")))
}

func TestObserveRank_UnknownKind(t *testing.T) {
	m := NewMetricsForTesting()

	m.ObserveRank("tracks; drop table", 0, &domain.ValidationError{Field: "kind", Reason: "unknown"})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RankRequests.WithLabelValues("unknown", OutcomeInvalid)))
}
