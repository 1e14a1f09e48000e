package handlers

import (
	"context"
	"net/http"
	"net/url"

	"github.com/datamesh/mesh-console/pkg/auth"
	"github.com/datamesh/mesh-console/pkg/console"
	"github.com/datamesh/mesh-console/pkg/service"
	"github.com/datamesh/mesh-console/pkg/service/core/transport"
)

type ShellHandler struct {
	shellService service.ShellService
	gate         *auth.RegistrationGate
	pages        *pages
}

// LoginPage offers to sign in, and to sign up when the request carries the
// registration token of the deployment.
func (h *ShellHandler) LoginPage(ctx context.Context, r *http.Request, _ any) (*transport.Page, error) {
	q := url.Values{}
	if redirectURI := r.URL.Query().Get("redirect_uri"); redirectURI != "" {
		q.Set("redirect_uri", redirectURI)
	}

	page := &console.LoginPage{
		LoginURL: withQuery("/api/login", q),
		Error:    r.URL.Query().Get("error"),
	}

	if h.gate.Enabled(r) {
		signup := url.Values{}
		for k, v := range q {
			signup[k] = v
		}

		signup.Set(auth.RegistrationTokenParam, r.URL.Query().Get(auth.RegistrationTokenParam))
		page.SignupURL = withQuery("/api/signup", signup)
	}

	return transport.NewPage(r, h.pages.renderer, console.PageLogin, console.NewView(nil, nil, "", page)), nil
}

func (h *ShellHandler) GetHelpPanel(ctx context.Context, _ *http.Request, _ any) (*service.HelpPanel, error) {
	return h.shellService.GetHelpPanel(ctx), nil
}

func withQuery(path string, q url.Values) string {
	if len(q) == 0 {
		return path
	}

	return path + "?" + q.Encode()
}

func NewShellHandler(shellService service.ShellService, gate *auth.RegistrationGate, pages *pages) *ShellHandler {
	return &ShellHandler{
		shellService: shellService,
		gate:         gate,
		pages:        pages,
	}
}
