package routes

import (
	"net/http"

	"github.com/datamesh/mesh-console/pkg/service/core/handlers"
	"github.com/datamesh/mesh-console/pkg/service/core/transport"
	"github.com/go-chi/chi"
	"github.com/rs/zerolog"
)

type DataProductEndpoints struct {
	RegisterDataProduct http.HandlerFunc
}

func NewDataProductEndpoints(log zerolog.Logger, h *handlers.DataProductHandler) *DataProductEndpoints {
	return &DataProductEndpoints{
		RegisterDataProduct: transport.For(h.RegisterDataProduct).RequestFromForm().Build(log),
	}
}

func NewDataProductRoutes(endpoints *DataProductEndpoints, auth func(http.Handler) http.Handler) AddRoutesFn {
	return func(router chi.Router) {
		router.Route("/api/product-registration", func(r chi.Router) {
			r.Use(auth)
			r.Post("/{domainId}", endpoints.RegisterDataProduct)
		})
	}
}
