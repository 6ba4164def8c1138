// Package metrics exposes the storage engine's Prometheus instrumentation:
// commit counts/latency, TTL cleanup activity, and registry cell counts.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	Commits = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "kvs_commits_total",
		Help: "Total number of committed edits by store name and outcome.",
	}, []string{"store", "outcome"})

	CommitLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "kvs_commit_latency_seconds",
		Help:    "Commit latency in seconds by store name.",
		Buckets: prometheus.ExponentialBuckets(0.0001, 2.0, 16),
	}, []string{"store"})

	TTLCleanupRemoved = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "kvs_ttl_cleanup_removed_total",
		Help: "Total number of expired entries removed, by store name and trigger.",
	}, []string{"store", "trigger"})

	RegisteredCells = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "kvs_registered_cells",
		Help: "Number of PersistentCell instances currently registered in the process.",
	})
)

func init() {
	prometheus.MustRegister(Commits)
	prometheus.MustRegister(CommitLatency)
	prometheus.MustRegister(TTLCleanupRemoved)
	prometheus.MustRegister(RegisteredCells)
}

// ObserveCommit records the outcome and latency of a single commit.
func ObserveCommit(store, outcome string, seconds float64) {
	Commits.WithLabelValues(store, outcome).Inc()
	CommitLatency.WithLabelValues(store).Observe(seconds)
}

// ObserveCleanup records how many expired entries a cleanup pass removed.
// trigger is one of "lazy_get_all", "periodic".
func ObserveCleanup(store, trigger string, removed int) {
	if removed <= 0 {
		return
	}
	TTLCleanupRemoved.WithLabelValues(store, trigger).Add(float64(removed))
}

// SetRegisteredCells updates the registered-cells gauge.
func SetRegisteredCells(n int) {
	RegisteredCells.Set(float64(n))
}
