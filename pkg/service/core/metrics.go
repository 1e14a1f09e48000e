package core

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics are the counters the services report to.
type Metrics struct {
	// Errors counts failures that are logged but not returned, by location.
	Errors *prometheus.CounterVec
	// Searches counts search requests by outcome.
	Searches *prometheus.CounterVec
	// Toggles counts completed PII toggles by approval variant.
	Toggles *prometheus.CounterVec
}

// Search outcomes.
const (
	SearchOutcomeShort  = "short"
	SearchOutcomeOK     = "ok"
	SearchOutcomeStale  = "stale"
	SearchOutcomeFailed = "failed"
)

func NewMetrics(errors *prometheus.CounterVec) *Metrics {
	return &Metrics{
		Errors: errors,
		Searches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mesh_console",
			Name:      "search_requests_total",
			Help:      "Search requests by outcome.",
		}, []string{"outcome"}),
		Toggles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mesh_console",
			Name:      "pii_toggles_total",
			Help:      "Completed PII flag toggles by approval variant.",
		}, []string{"variant"}),
	}
}

func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.Searches,
		m.Toggles,
	}
}

// NewNopMetrics returns metrics that are not registered anywhere.
func NewNopMetrics() *Metrics {
	return NewMetrics(prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "errors",
	}, []string{"location"}))
}
