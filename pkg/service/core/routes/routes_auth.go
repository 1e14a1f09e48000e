package routes

import (
	"net/http"

	"github.com/datamesh/mesh-console/pkg/api"
	"github.com/go-chi/chi"
)

// AuthEndpoints drive the login flow against the hosted UI. They are
// mounted without the session middleware.
type AuthEndpoints struct {
	Login    http.HandlerFunc
	Signup   http.HandlerFunc
	Callback http.HandlerFunc
	Logout   http.HandlerFunc
}

func NewAuthEndpoints(api api.HTTP) *AuthEndpoints {
	return &AuthEndpoints{
		Login:    api.Login,
		Signup:   api.Signup,
		Callback: api.Callback,
		Logout:   api.Logout,
	}
}

func NewAuthRoutes(endpoints *AuthEndpoints) AddRoutesFn {
	return func(router chi.Router) {
		router.Route("/api", func(r chi.Router) {
			r.Get("/login", endpoints.Login)
			r.Get("/signup", endpoints.Signup)
			r.Get("/oauth2/callback", endpoints.Callback)
			r.HandleFunc("/logout", endpoints.Logout)
		})
	}
}
