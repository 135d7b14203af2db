// Package metrics exposes the operator's Prometheus counters: how many
// times each controller reconciled, how many of those reconciliations
// failed (and why), how long a reconcile took, and how many Kubernetes API
// calls were issued per kind/verb.
//
// Grounded on original_source/src/metrics.rs's Metrics struct (there built
// on an OpenTelemetry meter backed by a Prometheus exporter); rendered here
// directly on prometheus/client_golang in the teacher's idiom
// (pkg/metrics/metrics.go: package-level prometheus.NewCounterVec +
// registry.MustRegister in init), since this repo carries no OpenTelemetry
// dependency anywhere else.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registry = prometheus.NewRegistry()

	reconciliationCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tor_operator_reconciliations_total",
			Help: "The total number of reconciliations, per controller.",
		},
		[]string{"controller"},
	)

	reconciliationErrorCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tor_operator_reconciliation_errors_total",
			Help: "The total number of reconciliation errors, per controller and error kind.",
		},
		[]string{"controller", "error"},
	)

	reconcileDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "tor_operator_reconcile_duration_seconds",
			Help: "The reconcile duration in seconds, per controller.",
		},
		[]string{"controller"},
	)

	kubernetesAPIUsageCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tor_operator_kubernetes_api_usage_total",
			Help: "The total number of Kubernetes API requests made, per resource kind and verb.",
		},
		[]string{"kind", "verb"},
	)
)

func init() {
	registry.MustRegister(
		reconciliationCount,
		reconciliationErrorCount,
		reconcileDurationSeconds,
		kubernetesAPIUsageCount,
	)
}

// CountAndMeasure records one reconciliation for controller and starts a
// timer; the returned func must be deferred to record the duration.
func CountAndMeasure(controller string) func() {
	reconciliationCount.WithLabelValues(controller).Inc()
	start := time.Now()
	return func() {
		reconcileDurationSeconds.WithLabelValues(controller).Observe(time.Since(start).Seconds())
	}
}

// ReconcileFailure records a failed reconciliation for controller, tagged
// with a short error kind (e.g. "kube", "missing object key").
func ReconcileFailure(controller, errorKind string) {
	reconciliationErrorCount.WithLabelValues(controller, errorKind).Inc()
}

// KubernetesAPIUsageCount records one Kubernetes API call for kind/verb
// (e.g. kind="OnionKey", verb="watch").
func KubernetesAPIUsageCount(kind, verb string) {
	kubernetesAPIUsageCount.WithLabelValues(kind, verb).Inc()
}
