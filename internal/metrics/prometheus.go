package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the prediction service

var (
	// Upstream API metrics
	APICallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nhlpred_api_calls_total",
			Help: "Total number of upstream API calls",
		},
		[]string{"endpoint", "status"},
	)

	APICallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nhlpred_api_call_duration_seconds",
			Help:    "Duration of upstream API calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	// Prediction metrics
	PredictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nhlpred_predictions_total",
			Help: "Total number of predictions computed",
		},
		[]string{"status"},
	)

	PredictionAccuracy = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "nhlpred_prediction_accuracy_pct",
			Help: "Running accuracy over completed predictions",
		},
	)

	// Reconciliation metrics
	ReconcileRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nhlpred_reconcile_runs_total",
			Help: "Total number of reconciliation runs",
		},
		[]string{"type", "status"},
	)

	ReconcileDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nhlpred_reconcile_duration_seconds",
			Help:    "Duration of reconciliation runs in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300},
		},
		[]string{"type"},
	)

	// Maintenance metrics
	PredictionsCleaned = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nhlpred_predictions_cleaned_total",
			Help: "Total prediction rows removed by maintenance routines",
		},
		[]string{"reason"},
	)

	// Cache metrics
	CacheHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nhlpred_cache_hits_total",
			Help: "Total number of cache hits",
		},
	)

	CacheMissesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nhlpred_cache_misses_total",
			Help: "Total number of cache misses",
		},
	)

	// Error metrics
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nhlpred_errors_total",
			Help: "Total number of errors",
		},
		[]string{"component", "error_type"},
	)

	// System metrics
	SystemUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "nhlpred_system_uptime_seconds",
			Help: "System uptime in seconds",
		},
	)
)

// RecordAPICall records an upstream API call metric
func RecordAPICall(endpoint, status string, duration float64) {
	APICallsTotal.WithLabelValues(endpoint, status).Inc()
	APICallDuration.WithLabelValues(endpoint).Observe(duration)
}

// RecordPrediction records a computed prediction. Status is "computed"
// for a full model run and "fallback" for the neutral default.
func RecordPrediction(status string) {
	PredictionsTotal.WithLabelValues(status).Inc()
}

// RecordReconcile records a reconciliation run
func RecordReconcile(runType, status string, duration float64) {
	ReconcileRunsTotal.WithLabelValues(runType, status).Inc()
	ReconcileDuration.WithLabelValues(runType).Observe(duration)
}

// RecordCleanup records prediction rows removed by maintenance
func RecordCleanup(reason string, rows int) {
	PredictionsCleaned.WithLabelValues(reason).Add(float64(rows))
}

// SetAccuracy updates the running accuracy gauge
func SetAccuracy(pct float64) {
	PredictionAccuracy.Set(pct)
}

// RecordCacheHit records a cache hit
func RecordCacheHit() {
	CacheHitsTotal.Inc()
}

// RecordCacheMiss records a cache miss
func RecordCacheMiss() {
	CacheMissesTotal.Inc()
}

// RecordError records an error
func RecordError(component, errorType string) {
	ErrorsTotal.WithLabelValues(component, errorType).Inc()
}
