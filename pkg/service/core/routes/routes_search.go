package routes

import (
	"net/http"

	"github.com/datamesh/mesh-console/pkg/service/core/handlers"
	"github.com/datamesh/mesh-console/pkg/service/core/transport"
	"github.com/go-chi/chi"
	"github.com/rs/zerolog"
)

type SearchEndpoints struct {
	Search http.HandlerFunc
	Select http.HandlerFunc
}

func NewSearchEndpoints(log zerolog.Logger, h *handlers.SearchHandler) *SearchEndpoints {
	return &SearchEndpoints{
		Search: transport.For(h.Search).Build(log),
		Select: transport.For(h.Select).Build(log),
	}
}

func NewSearchRoutes(endpoints *SearchEndpoints, auth func(http.Handler) http.Handler) AddRoutesFn {
	return func(router chi.Router) {
		router.Route("/api/search", func(r chi.Router) {
			r.Use(auth)
			r.Get("/", endpoints.Search)
			r.Get("/select", endpoints.Select)
		})
	}
}
