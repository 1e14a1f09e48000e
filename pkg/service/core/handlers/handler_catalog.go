package handlers

import (
	"context"
	"net/http"

	"github.com/datamesh/mesh-console/pkg/auth"
	"github.com/datamesh/mesh-console/pkg/console"
	"github.com/datamesh/mesh-console/pkg/errs"
	"github.com/datamesh/mesh-console/pkg/service"
	"github.com/datamesh/mesh-console/pkg/service/core/transport"
	"github.com/go-chi/chi"
)

type CatalogHandler struct {
	catalogService service.CatalogService
	pages          *pages
}

func (h *CatalogHandler) DataDomainsPage(ctx context.Context, r *http.Request, _ any) (*transport.Page, error) {
	const op errs.Op = "CatalogHandler.DataDomainsPage"

	domains, err := h.catalogService.GetDataDomains(ctx, auth.GetUser(ctx))
	if err != nil {
		return nil, errs.E(op, err)
	}

	return h.pages.page(ctx, r, console.PageDataDomains, service.RouteDataDomains, domains, homeCrumb), nil
}

func (h *CatalogHandler) TablesPage(ctx context.Context, r *http.Request, _ any) (*transport.Page, error) {
	const op errs.Op = "CatalogHandler.TablesPage"

	dbName := chi.URLParamFromCtx(ctx, "dbname")

	tables, err := h.catalogService.GetDatabaseTables(ctx, auth.GetUser(ctx), dbName)
	if err != nil {
		return nil, errs.E(op, errs.Parameter("dbname"), err)
	}

	return h.pages.page(ctx, r, console.PageTables, "", tables,
		homeCrumb,
		console.Breadcrumb{Label: dbName},
	), nil
}

func (h *CatalogHandler) RequestAccessPage(ctx context.Context, r *http.Request, _ any) (*transport.Page, error) {
	const op errs.Op = "CatalogHandler.RequestAccessPage"

	dbName := chi.URLParamFromCtx(ctx, "dbname")
	tableName := chi.URLParamFromCtx(ctx, "tablename")

	table, err := h.catalogService.GetTableDetails(ctx, auth.GetUser(ctx), dbName, tableName)
	if err != nil {
		return nil, errs.E(op, errs.Parameter("tablename"), err)
	}

	return h.pages.page(ctx, r, console.PageRequestAccess, "", table,
		homeCrumb,
		console.Breadcrumb{Label: dbName, Href: service.TablesPath(dbName)},
		console.Breadcrumb{Label: tableName},
	), nil
}

func (h *CatalogHandler) GetDatabaseDetails(ctx context.Context, _ *http.Request, _ any) (*service.DatabaseDetails, error) {
	const op errs.Op = "CatalogHandler.GetDatabaseDetails"

	details, err := h.catalogService.GetDatabaseDetails(ctx, auth.GetUser(ctx), chi.URLParamFromCtx(ctx, "dbname"))
	if err != nil {
		return nil, errs.E(op, errs.Parameter("dbname"), err)
	}

	return details, nil
}

func (h *CatalogHandler) GetTableDetails(ctx context.Context, _ *http.Request, _ any) (*service.TableDetails, error) {
	const op errs.Op = "CatalogHandler.GetTableDetails"

	details, err := h.catalogService.GetTableDetails(
		ctx,
		auth.GetUser(ctx),
		chi.URLParamFromCtx(ctx, "dbname"),
		chi.URLParamFromCtx(ctx, "tablename"),
	)
	if err != nil {
		return nil, errs.E(op, errs.Parameter("tablename"), err)
	}

	return details, nil
}

func NewCatalogHandler(catalogService service.CatalogService, pages *pages) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		pages:          pages,
	}
}
