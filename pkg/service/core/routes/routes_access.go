package routes

import (
	"net/http"

	"github.com/datamesh/mesh-console/pkg/service/core/handlers"
	"github.com/datamesh/mesh-console/pkg/service/core/transport"
	"github.com/go-chi/chi"
	"github.com/rs/zerolog"
)

type AccessEndpoints struct {
	ToggleDatabasePII http.HandlerFunc
	ToggleTablePII    http.HandlerFunc
	RequestAccess     http.HandlerFunc
}

func NewAccessEndpoints(log zerolog.Logger, h *handlers.AccessHandler) *AccessEndpoints {
	return &AccessEndpoints{
		ToggleDatabasePII: transport.For(h.ToggleDatabasePII).Build(log),
		ToggleTablePII:    transport.For(h.ToggleTablePII).Build(log),
		RequestAccess:     transport.For(h.RequestAccess).RequestFromForm().Build(log),
	}
}

func NewAccessRoutes(endpoints *AccessEndpoints, auth func(http.Handler) http.Handler) AddRoutesFn {
	return func(router chi.Router) {
		router.Route("/api/pii", func(r chi.Router) {
			r.Use(auth)
			r.Post("/database/{dbname}", endpoints.ToggleDatabasePII)
			r.Post("/table/{dbname}/{tablename}", endpoints.ToggleTablePII)
		})

		router.Route("/api/request-access", func(r chi.Router) {
			r.Use(auth)
			r.Post("/{dbname}/{tablename}", endpoints.RequestAccess)
		})
	}
}
