package routes

import (
	"net/http"

	"github.com/datamesh/mesh-console/pkg/service/core/handlers"
	"github.com/datamesh/mesh-console/pkg/service/core/transport"
	"github.com/go-chi/chi"
	"github.com/rs/zerolog"
)

type UserEndpoints struct {
	GetUserData  http.HandlerFunc
	GetHelpPanel http.HandlerFunc
}

func NewUserEndpoints(log zerolog.Logger, h *handlers.Handlers) *UserEndpoints {
	return &UserEndpoints{
		GetUserData:  transport.For(h.UserHandler.GetUserData).Build(log),
		GetHelpPanel: transport.For(h.ShellHandler.GetHelpPanel).Build(log),
	}
}

func NewUserRoutes(endpoints *UserEndpoints, auth func(http.Handler) http.Handler) AddRoutesFn {
	return func(router chi.Router) {
		router.Route("/api/userData", func(r chi.Router) {
			r.Use(auth)
			r.Get("/", endpoints.GetUserData)
		})

		router.Route("/api/help", func(r chi.Router) {
			r.Use(auth)
			r.Get("/", endpoints.GetHelpPanel)
		})
	}
}
