// Package metrics provides Prometheus metrics for EcoSnap.
// Counters and gauges for submissions, points, badges, and the live feed.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ─── Actions ────────────────────────────────────────────────────────────────

// ActionsSubmitted tracks accepted submissions by category.
var ActionsSubmitted = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "ecosnap",
	Name:      "actions_submitted_total",
	Help:      "Total accepted action submissions.",
}, []string{"category"})

// ActionsRejected tracks rejected submissions by reason.
var ActionsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "ecosnap",
	Name:      "actions_rejected_total",
	Help:      "Total rejected action submissions.",
}, []string{"reason"})

// PointsAwarded tracks total points awarded across all users.
var PointsAwarded = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "ecosnap",
	Name:      "points_awarded_total",
	Help:      "Total points awarded for accepted actions.",
})

// ─── Badges ─────────────────────────────────────────────────────────────────

// BadgesEarned tracks newly earned badges by rarity.
var BadgesEarned = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "ecosnap",
	Name:      "badges_earned_total",
	Help:      "Total badges newly earned.",
}, []string{"rarity"})

// ─── Aggregation ────────────────────────────────────────────────────────────

// SnapshotLatency tracks stats snapshot computation time in seconds.
var SnapshotLatency = promauto.NewHistogram(prometheus.HistogramOpts{
	Namespace: "ecosnap",
	Name:      "snapshot_latency_seconds",
	Help:      "Stats snapshot computation duration in seconds.",
	Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5},
})

// ─── Live Feed ──────────────────────────────────────────────────────────────

// LiveClients tracks currently connected live-feed clients.
var LiveClients = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "ecosnap",
	Name:      "live_clients",
	Help:      "Number of connected live activity feed clients.",
})
