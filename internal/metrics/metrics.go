// Package metrics provides Prometheus metrics for the dashboard's fetch cycle.
// Scrape them at /metrics when metrics.listen_addr is configured.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// FetchTotal counts analysis fetches by result (ok, network, http_status, parse, backend).
	FetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trendwatch_fetch_total",
			Help: "Total number of analysis fetches by result",
		},
		[]string{"result"},
	)

	FetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "trendwatch_fetch_duration_seconds",
			Help:    "Analysis fetch latency in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)

	// StaleResponsesTotal counts completions discarded because a newer fetch was issued.
	StaleResponsesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "trendwatch_stale_responses_total",
			Help: "Fetch responses discarded because a newer request superseded them",
		},
	)

	// Status is 0 loading, 1 ready, 2 errored.
	Status = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "trendwatch_status",
			Help: "Current dashboard status (0 loading, 1 ready, 2 errored)",
		},
	)

	SelectionChangesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trendwatch_selection_changes_total",
			Help: "Total number of coin/period selection changes",
		},
		[]string{"field"},
	)
)

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
