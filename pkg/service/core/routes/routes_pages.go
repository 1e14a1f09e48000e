package routes

import (
	"net/http"

	"github.com/datamesh/mesh-console/pkg/auth"
	"github.com/datamesh/mesh-console/pkg/service"
	"github.com/datamesh/mesh-console/pkg/service/core/handlers"
	"github.com/datamesh/mesh-console/pkg/service/core/transport"
	"github.com/go-chi/chi"
	"github.com/rs/zerolog"
)

const authLoginPath = auth.LoginPath

type PageEndpoints struct {
	Login               http.HandlerFunc
	DataDomains         http.HandlerFunc
	Tables              http.HandlerFunc
	RequestAccess       http.HandlerFunc
	WorkflowExecutions  http.HandlerFunc
	ExecutionDetails    http.HandlerFunc
	DataProductDetails  http.HandlerFunc
	ProductRegistration http.HandlerFunc
	PendingApprovals    http.HandlerFunc
}

func NewPageEndpoints(log zerolog.Logger, h *handlers.Handlers) *PageEndpoints {
	return &PageEndpoints{
		Login:               transport.For(h.ShellHandler.LoginPage).Build(log),
		DataDomains:         transport.For(h.CatalogHandler.DataDomainsPage).Build(log),
		Tables:              transport.For(h.CatalogHandler.TablesPage).Build(log),
		RequestAccess:       transport.For(h.CatalogHandler.RequestAccessPage).Build(log),
		WorkflowExecutions:  transport.For(h.WorkflowHandler.WorkflowExecutionsPage).Build(log),
		ExecutionDetails:    transport.For(h.WorkflowHandler.ExecutionDetailsPage).Build(log),
		DataProductDetails:  transport.For(h.DataProductHandler.DataProductDetailsPage).Build(log),
		ProductRegistration: transport.For(h.DataProductHandler.ProductRegistrationPage).Build(log),
		PendingApprovals:    transport.For(h.ApprovalsHandler.PendingApprovalsPage).Build(log),
	}
}

// NewPageRoutes mounts the route table of the console. Every page but the
// login page requires a signed in user.
func NewPageRoutes(endpoints *PageEndpoints, auth func(http.Handler) http.Handler) AddRoutesFn {
	return func(router chi.Router) {
		router.Get(authLoginPath, endpoints.Login)

		router.Group(func(r chi.Router) {
			r.Use(auth)
			r.Get(service.RouteDataDomains, endpoints.DataDomains)
			r.Get(service.RouteTables, endpoints.Tables)
			r.Get(service.RouteRequestAccess, endpoints.RequestAccess)
			r.Get(service.RouteWorkflowExecutions, endpoints.WorkflowExecutions)
			r.Get(service.RouteExecutionDetails, endpoints.ExecutionDetails)
			r.Get(service.RouteDataProductDetails, endpoints.DataProductDetails)
			r.Get(service.RouteProductRegistration, endpoints.ProductRegistration)
			r.Get(service.RoutePendingApprovals, endpoints.PendingApprovals)
		})
	}
}
