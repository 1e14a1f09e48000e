package handlers

import (
	"context"
	"net/http"

	"github.com/datamesh/mesh-console/pkg/auth"
	"github.com/datamesh/mesh-console/pkg/errs"
	"github.com/datamesh/mesh-console/pkg/service"
	"github.com/datamesh/mesh-console/pkg/service/core/transport"
	"github.com/go-chi/chi"
)

type AccessHandler struct {
	accessService service.AccessService
}

func (h *AccessHandler) ToggleDatabasePII(ctx context.Context, r *http.Request, _ any) (*transport.Redirect, error) {
	dbName := chi.URLParamFromCtx(ctx, "dbname")

	return h.toggle(ctx, r, service.DatabaseResource(dbName), service.TablesPath(dbName))
}

func (h *AccessHandler) ToggleTablePII(ctx context.Context, r *http.Request, _ any) (*transport.Redirect, error) {
	dbName := chi.URLParamFromCtx(ctx, "dbname")
	tableName := chi.URLParamFromCtx(ctx, "tablename")

	return h.toggle(ctx, r, service.TableResource(dbName, tableName), service.RequestAccessPath(dbName, tableName))
}

// toggle sends browsers back to the page holding the toggle, which then
// refetches the resource with its new version.
func (h *AccessHandler) toggle(ctx context.Context, r *http.Request, resource service.Resource, page string) (*transport.Redirect, error) {
	const op errs.Op = "AccessHandler.TogglePIIFlag"

	user := auth.GetUser(ctx)
	if user == nil {
		return nil, errs.E(errs.Unauthenticated, op, errs.Str("no user in context"))
	}

	result, err := h.accessService.TogglePIIFlag(ctx, user, resource)
	if err != nil {
		return nil, errs.E(op, err)
	}

	return transport.NewRedirectWithBody(page, result, r), nil
}

func (h *AccessHandler) RequestAccess(ctx context.Context, r *http.Request, in service.NewAccessRequest) (*transport.Redirect, error) {
	const op errs.Op = "AccessHandler.RequestAccess"

	user := auth.GetUser(ctx)
	if user == nil {
		return nil, errs.E(errs.Unauthenticated, op, errs.Str("no user in context"))
	}

	// The path names the table, the body only has to carry the target
	in.DatabaseName = chi.URLParamFromCtx(ctx, "dbname")
	in.TableName = chi.URLParamFromCtx(ctx, "tablename")

	execution, err := h.accessService.RequestAccess(ctx, user, in)
	if err != nil {
		return nil, errs.E(op, err)
	}

	return transport.NewRedirectWithBody(execution.Link, execution, r), nil
}

func NewAccessHandler(accessService service.AccessService) *AccessHandler {
	return &AccessHandler{
		accessService: accessService,
	}
}
