package observability

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/couchcryptid/storm-data-climo/internal/domain"
)

const namespace = "storm_climo"

// Rank outcomes recorded on RankRequests.
const (
	OutcomeOK       = "ok"
	OutcomeInvalid  = "invalid"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

// Metrics holds the Prometheus collectors for the ranking service.
type Metrics struct {
	// Ranking metrics.
	RankRequests       *prometheus.CounterVec   // labels: kind, outcome
	ValidationFailures *prometheus.CounterVec   // labels: field
	RankDuration       *prometheus.HistogramVec // labels: kind

	// Loaded record.
	RecordStorms  prometheus.Gauge
	RecordSeasons prometheus.Gauge

	// Request pipeline metrics.
	MessagesConsumed        prometheus.Counter
	MessagesProduced        prometheus.Counter
	TransformErrors         prometheus.Counter
	PipelineRunning         prometheus.Gauge
	BatchSize               prometheus.Histogram
	BatchProcessingDuration prometheus.Histogram

	// Geocoding metrics.
	GeocodeRequests    *prometheus.CounterVec // labels: outcome={success,error,empty}
	GeocodeCache       *prometheus.CounterVec // labels: result={hit,miss}
	GeocodeAPIDuration prometheus.Histogram
	GeocodeEnabled     prometheus.Gauge
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(m.collectors()...)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, so tests can
// build as many as they like.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		RankRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rank_requests_total",
			Help:      "Ranking and standing requests by kind and outcome.",
		}, []string{"kind", "outcome"}),
		ValidationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validation_failures_total",
			Help:      "Rejected requests by offending field.",
		}, []string{"field"}),
		RankDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rank_duration_seconds",
			Help:      "Time to compute a ranking or standing.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"kind"}),
		RecordStorms: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "record_storms",
			Help:      "Storms in the loaded HURDAT2 record.",
		}),
		RecordSeasons: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "record_seasons",
			Help:      "Seasons in the loaded HURDAT2 record.",
		}),
		MessagesConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_consumed_total",
			Help:      "Total rank requests read from the request topic.",
		}),
		MessagesProduced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reports_produced_total",
			Help:      "Total reports written to the report topic.",
		}),
		TransformErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "request_errors_total",
			Help:      "Rank requests that could not be answered.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pipeline_running",
			Help:      "1 when the request pipeline is active, 0 when shut down.",
		}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_size",
			Help:      "Number of requests per batch extracted from Kafka.",
			Buckets:   []float64{1, 5, 10, 20, 30, 40, 50, 75, 100},
		}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_processing_duration_seconds",
			Help:      "Duration of a complete extract-rank-load cycle.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_requests_total",
			Help:      "Reverse geocoding API requests by outcome.",
		}, []string{"outcome"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_cache_total",
			Help:      "Geocoding cache lookups by result.",
		}, []string{"result"}),
		GeocodeAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "geocode_api_duration_seconds",
			Help:      "Mapbox API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		GeocodeEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "geocode_enabled",
			Help:      "1 when landfall geocoding is enabled, 0 otherwise.",
		}),
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.RankRequests,
		m.ValidationFailures,
		m.RankDuration,
		m.RecordStorms,
		m.RecordSeasons,
		m.MessagesConsumed,
		m.MessagesProduced,
		m.TransformErrors,
		m.PipelineRunning,
		m.BatchSize,
		m.BatchProcessingDuration,
		m.GeocodeRequests,
		m.GeocodeCache,
		m.GeocodeAPIDuration,
		m.GeocodeEnabled,
	}
}

// SetRecord publishes the size of the loaded record.
func (m *Metrics) SetRecord(r *domain.Record) {
	m.RecordStorms.Set(float64(r.Len()))
	m.RecordSeasons.Set(float64(len(r.Seasons())))
}

// ObserveRank records the outcome and latency of one ranking request.
// Validation errors are also counted by field. Kinds outside the known set
// are labelled "unknown" to bound label cardinality.
func (m *Metrics) ObserveRank(kind string, elapsed time.Duration, err error) {
	switch domain.RequestKind(kind) {
	case domain.KindStorms, domain.KindSeasons, domain.KindClimo, domain.KindStanding:
	default:
		kind = "unknown"
	}
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			outcome = OutcomeInvalid
			m.ValidationFailures.WithLabelValues(verr.Field).Inc()
		}
	}
	m.RankRequests.WithLabelValues(kind, outcome).Inc()
	m.RankDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
}
