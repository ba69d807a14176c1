// Package internalmetrics registers and exposes the Prometheus metrics
// described in §4.9: per-route request counters and latency histograms, and
// planning-outcome counters/histograms.
package internalmetrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "topo_planner_requests_total",
		Help: "Count of handled HTTP requests, by route.",
	}, []string{"route"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name: "topo_planner_request_duration_seconds",
		Help: "HTTP handler latency, by route.",
	}, []string{"route"})

	plansTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "topo_planner_plans_total",
		Help: "Count of planning outcomes, by status (success or an error type tag).",
	}, []string{"status"})

	planNodes = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "topo_planner_plan_nodes",
		Help:    "Size of the node set planned per run.",
		Buckets: prometheus.ExponentialBuckets(1, 2, 10),
	})
)

// GetRequestTimer returns a timer that, once ObserveDuration is called on
// it, records the elapsed time in the request-duration histogram for route.
func GetRequestTimer(route string) *prometheus.Timer {
	requestsTotal.WithLabelValues(route).Inc()
	return prometheus.NewTimer(requestDuration.WithLabelValues(route))
}

// ObservePlanOutcome records one planning run's outcome and, on success,
// the size of the node set it planned.
func ObservePlanOutcome(status string, nodeCount int) {
	plansTotal.WithLabelValues(status).Inc()
	if status == "success" {
		planNodes.Observe(float64(nodeCount))
	}
}
