package routes

import (
	"net/http"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsPath is served outside the authenticated routes and is left out of
// the request log.
const MetricsPath = "/internal/metrics"

type MetricsEndpoints struct {
	GetMetrics http.Handler
}

// NewMetricsEndpoints serves the registry, scrape failures are counted on
// the registry itself.
func NewMetricsEndpoints(promReg *prometheus.Registry) *MetricsEndpoints {
	return &MetricsEndpoints{
		GetMetrics: promhttp.HandlerFor(promReg, promhttp.HandlerOpts{
			Registry:          promReg,
			EnableOpenMetrics: true,
		}),
	}
}

func NewMetricsRoutes(endpoints *MetricsEndpoints) AddRoutesFn {
	return func(router chi.Router) {
		router.Method(http.MethodGet, MetricsPath, endpoints.GetMetrics)
	}
}
