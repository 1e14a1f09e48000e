package routes

import (
	"net/http"

	"github.com/datamesh/mesh-console/pkg/service/core/handlers"
	"github.com/datamesh/mesh-console/pkg/service/core/transport"
	"github.com/go-chi/chi"
	"github.com/rs/zerolog"
)

type ApprovalsEndpoints struct {
	Approve http.HandlerFunc
	Deny    http.HandlerFunc
}

func NewApprovalsEndpoints(log zerolog.Logger, h *handlers.ApprovalsHandler) *ApprovalsEndpoints {
	return &ApprovalsEndpoints{
		Approve: transport.For(h.Approve).Build(log),
		Deny:    transport.For(h.Deny).RequestFromForm().Build(log),
	}
}

func NewApprovalsRoutes(endpoints *ApprovalsEndpoints, auth func(http.Handler) http.Handler) AddRoutesFn {
	return func(router chi.Router) {
		router.Route("/api/approvals/{id}", func(r chi.Router) {
			r.Use(auth)
			r.Post("/approve", endpoints.Approve)
			r.Post("/deny", endpoints.Deny)
		})
	}
}
