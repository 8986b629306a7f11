package observability

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/waypoint/pkg/domain"
)

// Metrics holds the Prometheus collectors fed by planner hooks.
type Metrics struct {
	Searches       *prometheus.CounterVec
	SearchNodes    prometheus.Histogram
	SearchDuration prometheus.Histogram
	Commits        *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil registerer skips registration.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Searches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "waypoint",
				Name:      "searches_total",
				Help:      "Total number of route searches by outcome",
			},
			[]string{"outcome"},
		),
		SearchNodes: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "waypoint",
				Name:      "search_nodes",
				Help:      "Contexts expanded per search",
				Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
			},
		),
		SearchDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "waypoint",
				Name:      "search_duration_seconds",
				Help:      "Duration of route searches",
				Buckets:   prometheus.DefBuckets,
			},
		),
		Commits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "waypoint",
				Name:      "commits_total",
				Help:      "Total number of actions committed to the real state",
			},
			[]string{"action"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.Searches, m.SearchNodes, m.SearchDuration, m.Commits)
	}
	return m
}

// Hooks records every completed search and every commit.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnSearchComplete: func(_ context.Context, e *domain.SearchEvent) {
			m.Searches.WithLabelValues(string(e.Outcome)).Inc()
			m.SearchNodes.Observe(float64(e.Stats.NodesExpanded))
			m.SearchDuration.Observe(e.Stats.Duration.Seconds())
		},
		OnCommit: func(_ context.Context, e *domain.CommitEvent) {
			m.Commits.WithLabelValues(e.Action).Inc()
		},
	}
}
