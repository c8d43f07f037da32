package core

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are the Prometheus collectors for import runs.
type Metrics struct {
	RunsTotal      *prometheus.CounterVec
	RowsExtracted  *prometheus.CounterVec
	RowsFailed     *prometheus.CounterVec
	RecordsLoaded  *prometheus.CounterVec
	BatchFallbacks *prometheus.CounterVec
	CacheDegraded  *prometheus.CounterVec
	RunDuration    *prometheus.HistogramVec
	RunsActive     prometheus.Gauge
}

var metricsSingleton = sync.OnceValue(func() *Metrics {
	return &Metrics{
		RunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gtd_import",
			Name:      "runs_total",
			Help:      "Import runs by entity and result.",
		}, []string{"entity", "result"}),
		RowsExtracted: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gtd_import",
			Name:      "rows_extracted_total",
			Help:      "Data rows read from export files.",
		}, []string{"entity"}),
		RowsFailed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gtd_import",
			Name:      "rows_failed_total",
			Help:      "Rows lost, by stage.",
		}, []string{"entity", "stage"}),
		RecordsLoaded: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gtd_import",
			Name:      "records_loaded_total",
			Help:      "Records persisted, by write mode (batch or single).",
		}, []string{"entity", "mode"}),
		BatchFallbacks: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gtd_import",
			Name:      "batch_fallbacks_total",
			Help:      "Batches retried one record at a time.",
		}, []string{"entity"}),
		CacheDegraded: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gtd_import",
			Name:      "lookup_cache_degraded_total",
			Help:      "Lookup cache primings that fell back to built-in defaults.",
		}, []string{"lookup"}),
		RunDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "gtd_import",
			Name:      "run_duration_seconds",
			Help:      "Wall time of import runs.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		}, []string{"entity"}),
		RunsActive: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: "gtd_import",
			Name:      "runs_active",
			Help:      "Import runs currently holding an owner lock.",
		}),
	}
})

// DefaultMetrics returns the process-wide collectors registered with the
// default Prometheus registry.
func DefaultMetrics() *Metrics {
	return metricsSingleton()
}
