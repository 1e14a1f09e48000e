package handlers

import (
	"context"
	"net/http"

	"github.com/datamesh/mesh-console/pkg/auth"
	"github.com/datamesh/mesh-console/pkg/console"
	"github.com/datamesh/mesh-console/pkg/invalidation"
	"github.com/datamesh/mesh-console/pkg/service"
	"github.com/datamesh/mesh-console/pkg/service/core"
	"github.com/datamesh/mesh-console/pkg/service/core/transport"
)

type Handlers struct {
	CatalogHandler     *CatalogHandler
	AccessHandler      *AccessHandler
	SearchHandler      *SearchHandler
	WorkflowHandler    *WorkflowHandler
	ApprovalsHandler   *ApprovalsHandler
	DataProductHandler *DataProductHandler
	UserHandler        *UserHandler
	VersionsHandler    *VersionsHandler
	ShellHandler       *ShellHandler
}

func NewHandlers(
	s *core.Services,
	renderer transport.Renderer,
	gate *auth.RegistrationGate,
	tracker *invalidation.Tracker,
) *Handlers {
	p := newPages(renderer, s.ShellService)

	return &Handlers{
		CatalogHandler:     NewCatalogHandler(s.CatalogService, p),
		AccessHandler:      NewAccessHandler(s.AccessService),
		SearchHandler:      NewSearchHandler(s.SearchService),
		WorkflowHandler:    NewWorkflowHandler(s.WorkflowService, p),
		ApprovalsHandler:   NewApprovalsHandler(s.ApprovalsService, p),
		DataProductHandler: NewDataProductHandler(s.DataProductService, p),
		UserHandler:        NewUserHandler(s.UserService),
		VersionsHandler:    NewVersionsHandler(tracker),
		ShellHandler:       NewShellHandler(s.ShellService, gate, p),
	}
}

// pages wraps view models in the console layout.
type pages struct {
	renderer transport.Renderer
	shell    service.ShellService
}

// page builds the response for a console page. The help panel is only
// fetched for browsers, JSON clients get the bare view model.
func (p *pages) page(ctx context.Context, r *http.Request, name, active string, data any, crumbs ...console.Breadcrumb) *transport.Page {
	var help *service.HelpPanel
	if !transport.AcceptsJSON(r) {
		help = p.shell.GetHelpPanel(ctx)
	}

	return transport.NewPage(r, p.renderer, name, console.NewView(auth.GetUser(ctx), help, active, data, crumbs...))
}

func newPages(renderer transport.Renderer, shell service.ShellService) *pages {
	return &pages{
		renderer: renderer,
		shell:    shell,
	}
}

var homeCrumb = console.Breadcrumb{Label: "Data Domains", Href: service.RouteDataDomains}
