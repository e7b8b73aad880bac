// Package metrics provides Prometheus metrics for the race data pipeline.
//
// The pipeline is a batch job, so metrics live on a private registry and
// are optionally pushed to a Pushgateway at the end of a run instead of
// being served over HTTP.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns all Prometheus metrics for one pipeline process.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         *prometheus.Registry

	// Extraction metrics
	driversProcessed  prometheus.Counter
	driversSkipped    prometheus.Counter
	samplesExtracted  prometheus.Counter
	extractionLatency prometheus.Histogram

	// Upstream source metrics
	sourceRequests *prometheus.CounterVec

	// Assembly and export metrics
	pipelineDuration prometheus.Histogram
	exportBytes      prometheus.Gauge
	workerCount      prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Private registry so the default Go collectors stay out of the push payload.
var registry = prometheus.NewRegistry() //nolint:gochecknoglobals // singleton registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithRegistry(registry))
}

// NewManager creates a metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "racedata",
		subsystem:        "pipeline",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.driversProcessed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "drivers_processed_total",
		Help:      "Drivers whose telemetry was successfully extracted",
	})

	m.driversSkipped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "drivers_skipped_total",
		Help:      "Drivers dropped due to missing channels or extraction errors",
	})

	m.samplesExtracted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "samples_extracted_total",
		Help:      "Telemetry samples extracted across all drivers",
	})

	m.extractionLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "extraction_latency_milliseconds",
		Help:      "Per-driver extraction latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.sourceRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "source_requests_total",
		Help:      "Upstream telemetry requests by outcome (hit, miss, error)",
	}, []string{"outcome"})

	m.pipelineDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "run_duration_seconds",
		Help:      "End-to-end pipeline run duration in seconds",
		Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600},
	})

	m.exportBytes = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "export_bytes",
		Help:      "Size of the last exported dataset in bytes",
	})

	m.workerCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_count",
		Help:      "Extraction workers used for the run",
	})
}

// Package-level helpers operating on the global manager.

// RecordDriverProcessed counts one successfully extracted driver.
func RecordDriverProcessed() { globalManager.driversProcessed.Inc() }

// RecordDriverSkipped counts one dropped driver.
func RecordDriverSkipped() { globalManager.driversSkipped.Inc() }

// AddSamplesExtracted counts extracted telemetry samples.
func AddSamplesExtracted(n int) { globalManager.samplesExtracted.Add(float64(n)) }

// RecordExtractionLatency records one driver's extraction latency.
func RecordExtractionLatency(ms float64) { globalManager.extractionLatency.Observe(ms) }

// RecordSourceRequest counts one upstream request by outcome.
func RecordSourceRequest(outcome string) { globalManager.sourceRequests.WithLabelValues(outcome).Inc() }

// RecordRunDuration records the end-to-end run duration.
func RecordRunDuration(seconds float64) { globalManager.pipelineDuration.Observe(seconds) }

// SetExportBytes records the size of the exported artifact.
func SetExportBytes(n int64) { globalManager.exportBytes.Set(float64(n)) }

// SetWorkerCount records the extraction worker count.
func SetWorkerCount(n int) { globalManager.workerCount.Set(float64(n)) }

// Registry exposes the private registry for pushing and tests.
func Registry() *prometheus.Registry { return registry }
