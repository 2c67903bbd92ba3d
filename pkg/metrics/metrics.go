// Package metrics provides Prometheus metrics for the matching engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager holds all Prometheus metrics for the engine.
type Manager struct {
	namespace string
	subsystem string
	buckets   []float64
	registry  prometheus.Registerer

	// Indexing (write path)
	documentsIndexed prometheus.Counter
	indexingSkipped  prometheus.Counter
	indexingLatency  prometheus.Histogram

	// Embedding provider
	embeddingLatency prometheus.Histogram
	embeddingErrors  prometheus.Counter

	// Retrieval (read path)
	retrievalLatency prometheus.Histogram
	retrievalResults prometheus.Histogram

	// Matching
	matchRequests     prometheus.Counter
	matchPairFailures prometheus.Counter
	matchLatency      prometheus.Histogram

	// Vector store
	storeDocumentsTotal prometheus.Gauge
	storeUpsertLatency  prometheus.Histogram
	storeQueryLatency   prometheus.Histogram

	// Reindex queue and workers
	queueSize               prometheus.Gauge
	queueEnqueueErrors      prometheus.Counter
	workerCount             prometheus.Gauge
	workerErrors            prometheus.Counter
	workerProcessingLatency prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// Option applies a configuration option to the Manager.
type Option func(*Manager)

// WithRegistry sets the Prometheus registerer used for all metrics.
func WithRegistry(r prometheus.Registerer) Option {
	return func(m *Manager) {
		if r != nil {
			m.registry = r
		}
	}
}

// WithNamespace overrides the metric namespace.
func WithNamespace(ns string) Option {
	return func(m *Manager) {
		if ns != "" {
			m.namespace = ns
		}
	}
}

// NewManager creates a metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: "matchengine",
		subsystem: "matching",
		buckets:   prometheus.DefBuckets,
		registry:  prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

// Registry returns the registry backing the global manager, for the ops
// HTTP handler.
func Registry() *prometheus.Registry {
	return customRegistry
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.documentsIndexed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "documents_indexed_total",
		Help: "Total number of documents upserted into the vector store",
	})
	m.indexingSkipped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "indexing_skipped_total",
		Help: "Total number of indexing calls skipped (no content or unchanged fingerprint)",
	})
	m.indexingLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "indexing_latency_milliseconds",
		Help:    "Histogram of end-to-end indexing latency in milliseconds",
		Buckets: m.buckets,
	})

	m.embeddingLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "embedding_latency_milliseconds",
		Help:    "Histogram of embedding provider latency in milliseconds",
		Buckets: m.buckets,
	})
	m.embeddingErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "embedding_errors_total",
		Help: "Total number of embedding provider failures",
	})

	m.retrievalLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "retrieval_latency_milliseconds",
		Help:    "Histogram of retrieval latency in milliseconds",
		Buckets: m.buckets,
	})
	m.retrievalResults = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "retrieval_results",
		Help:    "Histogram of result counts returned per retrieval",
		Buckets: []float64{0, 1, 2, 5, 10, 20, 50, 100},
	})

	m.matchRequests = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "match_requests_total",
		Help: "Total number of match queries served",
	})
	m.matchPairFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "match_pair_failures_total",
		Help: "Total number of candidate/posting pairs excluded from a ranked result",
	})
	m.matchLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "match_latency_milliseconds",
		Help:    "Histogram of end-to-end match query latency in milliseconds",
		Buckets: m.buckets,
	})

	m.storeDocumentsTotal = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "store_documents_total",
		Help: "Current number of documents in the vector store",
	})
	m.storeUpsertLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "store_upsert_latency_milliseconds",
		Help:    "Histogram of vector store upsert latency in milliseconds",
		Buckets: m.buckets,
	})
	m.storeQueryLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "store_query_latency_milliseconds",
		Help:    "Histogram of vector store query latency in milliseconds",
		Buckets: m.buckets,
	})

	m.queueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "reindex_queue_size",
		Help: "Current number of queued reindex tasks",
	})
	m.queueEnqueueErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "reindex_enqueue_errors_total",
		Help: "Total number of rejected reindex enqueues (full or closed queue)",
	})
	m.workerCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "worker_count",
		Help: "Number of indexing workers",
	})
	m.workerErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "worker_errors_total",
		Help: "Total number of failed reindex tasks",
	})
	m.workerProcessingLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "worker_processing_latency_milliseconds",
		Help:    "Histogram of per-task worker latency in milliseconds",
		Buckets: m.buckets,
	})
}

// Package-level helpers over the global manager.

func RecordDocumentIndexed()             { globalManager.documentsIndexed.Inc() }
func RecordIndexingSkipped()             { globalManager.indexingSkipped.Inc() }
func RecordIndexingLatency(ms float64)   { globalManager.indexingLatency.Observe(ms) }
func RecordEmbeddingLatency(ms float64)  { globalManager.embeddingLatency.Observe(ms) }
func RecordEmbeddingError()              { globalManager.embeddingErrors.Inc() }
func RecordRetrievalLatency(ms float64)  { globalManager.retrievalLatency.Observe(ms) }
func RecordRetrieval(results int)        { globalManager.retrievalResults.Observe(float64(results)) }
func RecordMatchRequest()                { globalManager.matchRequests.Inc() }
func RecordMatchPairFailure()            { globalManager.matchPairFailures.Inc() }
func RecordMatchLatency(ms float64)      { globalManager.matchLatency.Observe(ms) }
func UpdateStoreDocumentsTotal(n int)    { globalManager.storeDocumentsTotal.Set(float64(n)) }
func RecordStoreUpsertLatency(ms float64) { globalManager.storeUpsertLatency.Observe(ms) }
func RecordStoreQueryLatency(ms float64)  { globalManager.storeQueryLatency.Observe(ms) }
func UpdateQueueSize(n int)              { globalManager.queueSize.Set(float64(n)) }
func RecordQueueEnqueueError()           { globalManager.queueEnqueueErrors.Inc() }
func UpdateWorkerCount(n int)            { globalManager.workerCount.Set(float64(n)) }
func RecordWorkerError()                 { globalManager.workerErrors.Inc() }
func RecordWorkerProcessingLatency(ms float64) {
	globalManager.workerProcessingLatency.Observe(ms)
}
