package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/storm-data-climo/internal/domain"
	"github.com/couchcryptid/storm-data-climo/internal/observability"
)

// ReportTransformer implements Transformer by running each request through
// the Ranker, with optional reverse geocoding of storm landfalls.
type ReportTransformer struct {
	ranker   *domain.Ranker
	geocoder domain.Geocoder
	metrics  *observability.Metrics
	logger   *slog.Logger
}

// NewTransformer creates a ReportTransformer. Pass a nil geocoder to disable
// landfall enrichment.
func NewTransformer(ranker *domain.Ranker, geocoder domain.Geocoder, metrics *observability.Metrics, logger *slog.Logger) *ReportTransformer {
	return &ReportTransformer{
		ranker:   ranker,
		geocoder: geocoder,
		metrics:  metrics,
		logger:   logger,
	}
}

// Transform answers one rank request. The message key is the report id when
// the request carries none; storm rows get geocoded landfalls.
func (t *ReportTransformer) Transform(ctx context.Context, raw domain.RawEvent) (domain.OutputEvent, error) {
	req, err := domain.ParseRankRequest(raw.Value)
	if err != nil {
		return domain.OutputEvent{}, err
	}
	if req.ID == "" {
		req.ID = string(raw.Key)
	}

	start := time.Now()
	report, err := t.ranker.Report(req)
	t.metrics.ObserveRank(string(req.Kind), time.Since(start), err)
	if err != nil {
		return domain.OutputEvent{}, fmt.Errorf("request %s: %w", req.ID, err)
	}

	if t.geocoder != nil {
		for i := range report.Rows {
			st := report.Rows[i].Storm
			if st == nil || len(st.Landfalls) == 0 {
				continue
			}
			st.Landfalls = domain.EnrichLandfalls(ctx, st.ID, st.Landfalls, t.geocoder, t.logger)
		}
	}

	t.logger.Debug("report built", "id", report.ID, "kind", report.Kind, "metric", report.Metric, "rows", len(report.Rows))
	return domain.SerializeReport(report)
}
