package routes

import (
	"net/http"

	"github.com/datamesh/mesh-console/pkg/service/core/handlers"
	"github.com/datamesh/mesh-console/pkg/service/core/transport"
	"github.com/go-chi/chi"
	"github.com/rs/zerolog"
)

type VersionsEndpoints struct {
	GetDatabaseVersion http.HandlerFunc
	GetTableVersion    http.HandlerFunc
}

func NewVersionsEndpoints(log zerolog.Logger, h *handlers.VersionsHandler) *VersionsEndpoints {
	return &VersionsEndpoints{
		GetDatabaseVersion: transport.For(h.GetDatabaseVersion).Build(log),
		GetTableVersion:    transport.For(h.GetTableVersion).Build(log),
	}
}

func NewVersionsRoutes(endpoints *VersionsEndpoints, auth func(http.Handler) http.Handler) AddRoutesFn {
	return func(router chi.Router) {
		router.Route("/api/versions", func(r chi.Router) {
			r.Use(auth)
			r.Get("/database/{dbname}", endpoints.GetDatabaseVersion)
			r.Get("/table/{dbname}/{tablename}", endpoints.GetTableVersion)
		})
	}
}
