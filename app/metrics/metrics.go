// Package metrics holds the Prometheus collectors shared by the modules.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles the collectors the services record into.
type Metrics struct {
	PlaybackTransitions *prometheus.CounterVec
	BusyRejections      prometheus.Counter
	TweenJoinDuration   prometheus.Histogram
	DirtyFlips          prometheus.Counter
	EntityOperations    *prometheus.CounterVec
}

// New registers the courtplan collectors on the given registry.
func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		PlaybackTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "courtplan_playback_transitions_total",
			Help: "Playback step transitions by outcome.",
		}, []string{"result"}),
		BusyRejections: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "courtplan_playback_busy_rejections_total",
			Help: "Play requests rejected because a transition was in flight.",
		}),
		TweenJoinDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "courtplan_tween_join_duration_seconds",
			Help:    "Wall time from transition start to all-token join.",
			Buckets: prometheus.DefBuckets,
		}),
		DirtyFlips: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "courtplan_modified_flag_flips_total",
			Help: "Times the modified flag changed value.",
		}),
		EntityOperations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "courtplan_entity_operations_total",
			Help: "Entity CRUD operations by entity and operation.",
		}, []string{"entity", "operation"}),
	}

	reg.MustRegister(
		m.PlaybackTransitions,
		m.BusyRejections,
		m.TweenJoinDuration,
		m.DirtyFlips,
		m.EntityOperations,
	)

	return m
}

// NewUnregistered returns collectors without a registry, for tests.
func NewUnregistered() *Metrics {
	return New(prometheus.NewRegistry())
}
