// Package observability exposes Prometheus metrics for the memory store
// and the retrieval pipeline.
package observability

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type coreMetrics struct {
	retrievalDuration  prometheus.Histogram
	storeWriteDuration prometheus.Histogram
	extractionTotal    *prometheus.CounterVec
	memoriesTotal      prometheus.Gauge
}

var (
	metricsOnce sync.Once
	metricsInst *coreMetrics
)

func getMetrics() *coreMetrics {
	metricsOnce.Do(func() {
		m := &coreMetrics{
			retrievalDuration: prometheus.NewHistogram(
				prometheus.HistogramOpts{
					Name:    "cortex_retrieval_duration_seconds",
					Help:    "Hybrid retrieval latency.",
					Buckets: prometheus.DefBuckets,
				},
			),
			storeWriteDuration: prometheus.NewHistogram(
				prometheus.HistogramOpts{
					Name:    "cortex_store_write_duration_seconds",
					Help:    "Memory store write latency.",
					Buckets: prometheus.DefBuckets,
				},
			),
			extractionTotal: prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Name: "cortex_extraction_total",
					Help: "Extraction pipeline runs by status.",
				},
				[]string{"status"},
			),
			memoriesTotal: prometheus.NewGauge(
				prometheus.GaugeOpts{
					Name: "cortex_memories_total",
					Help: "Number of stored long-term memories.",
				},
			),
		}

		prometheus.MustRegister(
			m.retrievalDuration,
			m.storeWriteDuration,
			m.extractionTotal,
			m.memoriesTotal,
		)

		metricsInst = m
	})
	return metricsInst
}

// EnsureRegistered registers all metrics with the default registry.
func EnsureRegistered() {
	getMetrics()
}

// RecordRetrieval records the latency of one hybrid retrieval.
func RecordRetrieval(d time.Duration) {
	getMetrics().retrievalDuration.Observe(d.Seconds())
}

// RecordStoreWrite records the latency of one store write.
func RecordStoreWrite(d time.Duration) {
	getMetrics().storeWriteDuration.Observe(d.Seconds())
}

// RecordExtraction counts one extraction run.
func RecordExtraction(status string) {
	getMetrics().extractionTotal.WithLabelValues(status).Inc()
}

// SetMemoriesTotal updates the stored-memory gauge.
func SetMemoriesTotal(n int) {
	getMetrics().memoriesTotal.Set(float64(n))
}

// Handler returns the Prometheus scrape handler.
func Handler() http.Handler {
	EnsureRegistered()
	return promhttp.Handler()
}
