package routes

import (
	"net/http"

	"github.com/datamesh/mesh-console/pkg/service/core/handlers"
	"github.com/datamesh/mesh-console/pkg/service/core/transport"
	"github.com/go-chi/chi"
	"github.com/rs/zerolog"
)

type CatalogEndpoints struct {
	GetDatabaseDetails http.HandlerFunc
	GetTableDetails    http.HandlerFunc
}

func NewCatalogEndpoints(log zerolog.Logger, h *handlers.CatalogHandler) *CatalogEndpoints {
	return &CatalogEndpoints{
		GetDatabaseDetails: transport.For(h.GetDatabaseDetails).Build(log),
		GetTableDetails:    transport.For(h.GetTableDetails).Build(log),
	}
}

func NewCatalogRoutes(endpoints *CatalogEndpoints, auth func(http.Handler) http.Handler) AddRoutesFn {
	return func(router chi.Router) {
		router.Route("/api/databases/{dbname}", func(r chi.Router) {
			r.Use(auth)
			r.Get("/", endpoints.GetDatabaseDetails)
			r.Get("/tables/{tablename}", endpoints.GetTableDetails)
		})
	}
}
