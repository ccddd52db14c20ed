package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// IndexerMetrics covers the background indexing process.
type IndexerMetrics struct {
	registry *prometheus.Registry

	indexTotal    *prometheus.CounterVec
	indexDuration *prometheus.HistogramVec
	indexInFlight prometheus.Gauge
	skippedLines  prometheus.Counter
}

func NewIndexerMetrics(service string) *IndexerMetrics {
	registry := prometheus.NewRegistry()

	indexTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mentormate",
			Subsystem: "indexer",
			Name:      "files_total",
			Help:      "Total indexed FAQ files by status.",
		},
		[]string{"service", "status"},
	)
	indexDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "mentormate",
			Subsystem: "indexer",
			Name:      "file_duration_seconds",
			Help:      "FAQ file indexing duration in seconds by status.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "status"},
	)
	indexInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "mentormate",
			Subsystem: "indexer",
			Name:      "files_in_flight",
			Help:      "Number of FAQ files currently being indexed.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	skippedLines := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "mentormate",
			Subsystem: "indexer",
			Name:      "skipped_lines_total",
			Help:      "Total malformed source lines skipped during parsing.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)

	registry.MustRegister(indexTotal, indexDuration, indexInFlight, skippedLines)

	return &IndexerMetrics{
		registry:      registry,
		indexTotal:    indexTotal,
		indexDuration: indexDuration,
		indexInFlight: indexInFlight,
		skippedLines:  skippedLines,
	}
}

func (m *IndexerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *IndexerMetrics) IndexStarted() func(status string) {
	start := time.Now()
	m.indexInFlight.Inc()
	return func(status string) {
		m.indexInFlight.Dec()
		if status == "" {
			status = "unknown"
		}
		m.indexTotal.WithLabelValues("indexer", status).Inc()
		m.indexDuration.WithLabelValues("indexer", status).Observe(time.Since(start).Seconds())
	}
}

func (m *IndexerMetrics) AddSkippedLines(count int) {
	if count > 0 {
		m.skippedLines.Add(float64(count))
	}
}
