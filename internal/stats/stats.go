// Package stats exposes Prometheus instrumentation for the analytics service.
package stats

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ProcessingRuns counts completed analytics processing runs.
	ProcessingRuns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "craftwatch_processing_runs_total",
		Help: "Completed analytics processing runs.",
	})

	// ProcessingFailures counts runs aborted by an unrecoverable error.
	ProcessingFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "craftwatch_processing_failures_total",
		Help: "Analytics processing runs that failed.",
	})

	// SkippedSamples counts sample lines discarded as malformed, per category.
	SkippedSamples = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "craftwatch_skipped_samples_total",
		Help: "Malformed sample lines skipped during reads.",
	}, []string{"category"})

	// AnomaliesDetected counts anomalies flagged in full reports, per metric.
	AnomaliesDetected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "craftwatch_anomalies_detected_total",
		Help: "Anomalies flagged during report generation.",
	}, []string{"metric"})

	// CollectorRuns counts external collector invocations by outcome.
	CollectorRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "craftwatch_collector_runs_total",
		Help: "External collector invocations.",
	}, []string{"outcome"})
)

// Handler returns the HTTP handler serving the Prometheus registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
