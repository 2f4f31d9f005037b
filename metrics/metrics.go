// Package metrics exposes Prometheus collectors for the HTTP layer and the
// interaction registry. Collectors are registered with the default registry
// at package initialization.
package metrics

import (
	"github.com/giygas/knowyourdrug/interactions"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "knowyourdrug"

var (
	HTTPRequestTotals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_request_total",
			Help:      "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"method", "path"},
	)

	HTTPRequestInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_request_in_flight",
			Help:      "Current in-flight requests",
		},
	)

	RateLimiterBucketsTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "rate_limiter_buckets_total",
			Help:      "Client IPs with a live token bucket",
		},
	)

	InteractionChecksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "interaction_checks_total",
			Help:      "Completed interaction checks by highest severity found",
		},
		[]string{"highest_severity"},
	)

	PairsCheckedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pairs_checked_total",
			Help:      "Drug pairs examined across all checks",
		},
	)

	RegistryPairs = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "registry_pairs",
			Help:      "Distinct interacting pairs in the current registry",
		},
	)

	RegistryDrugs = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "registry_drugs",
			Help:      "Known drug names in the current registry",
		},
	)

	RegistryReloadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registry_reloads_total",
			Help:      "Interaction table reload attempts by result",
		},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(
		HTTPRequestTotals,
		HTTPRequestDuration,
		HTTPRequestInFlight,
		RateLimiterBucketsTotal,
		InteractionChecksTotal,
		PairsCheckedTotal,
		RegistryPairs,
		RegistryDrugs,
		RegistryReloadsTotal,
	)

	// Pre-create one series per severity so dashboards see zeros
	for _, sev := range interactions.Severities {
		InteractionChecksTotal.WithLabelValues(sev.String())
	}
}

// ObserveCheck records a completed check
func ObserveCheck(highest interactions.Severity, pairsChecked int) {
	InteractionChecksTotal.WithLabelValues(highest.String()).Inc()
	PairsCheckedTotal.Add(float64(pairsChecked))
}

// ObserveRegistry publishes the size of the registry being served
func ObserveRegistry(r *interactions.Registry) {
	RegistryPairs.Set(float64(r.PairCount()))
	RegistryDrugs.Set(float64(r.DrugCount()))
}

// ObserveReload counts a reload attempt. result is "success", "failure" or "skipped".
func ObserveReload(result string) {
	RegistryReloadsTotal.WithLabelValues(result).Inc()
}
