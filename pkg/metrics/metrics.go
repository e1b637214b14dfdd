// Package metrics exposes the engine's Prometheus instrumentation.
// Counters aggregate across every peer living in the process.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WedgesChecked = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ktruss_wedges_checked_total",
			Help: "Total closure probes delivered",
		},
	)

	TrianglesFound = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ktruss_triangles_found_total",
			Help: "Total wedge closures that matched a directed edge",
		},
	)

	EdgesDeleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ktruss_edges_deleted_total",
			Help: "Directed edges pruned across all k iterations",
		},
	)

	Restarts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ktruss_bin_restarts_total",
			Help: "Counter resets caused by heavy deletion in a bin",
		},
	)

	EdgesRemaining = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ktruss_edges_remaining",
			Help: "Directed edges surviving the most recent k iteration",
		},
	)

	CurrentK = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ktruss_current_k",
			Help: "k value the engine is currently pruning for",
		},
	)

	KDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ktruss_k_duration_seconds",
			Help:    "Wall time spent per k iteration",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60, 300, 600},
		},
	)
)
