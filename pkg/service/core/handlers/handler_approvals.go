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

type ApprovalsHandler struct {
	approvalsService service.ApprovalsService
	pages            *pages
}

func (h *ApprovalsHandler) PendingApprovalsPage(ctx context.Context, r *http.Request, _ any) (*transport.Page, error) {
	const op errs.Op = "ApprovalsHandler.PendingApprovalsPage"

	user := auth.GetUser(ctx)
	if user == nil {
		return nil, errs.E(errs.Unauthenticated, op, errs.Str("no user in context"))
	}

	approvals, err := h.approvalsService.ListPending(ctx, user)
	if err != nil {
		return nil, errs.E(op, err)
	}

	return h.pages.page(ctx, r, console.PagePendingApprovals, service.RoutePendingApprovals, approvals,
		console.Breadcrumb{Label: "Pending Approvals"},
	), nil
}

func (h *ApprovalsHandler) Approve(ctx context.Context, r *http.Request, _ any) (*transport.Redirect, error) {
	const op errs.Op = "ApprovalsHandler.Approve"

	user := auth.GetUser(ctx)
	if user == nil {
		return nil, errs.E(errs.Unauthenticated, op, errs.Str("no user in context"))
	}

	err := h.approvalsService.Approve(ctx, user, chi.URLParamFromCtx(ctx, "id"))
	if err != nil {
		return nil, errs.E(op, err)
	}

	return transport.NewRedirect(service.RoutePendingApprovals, r), nil
}

func (h *ApprovalsHandler) Deny(ctx context.Context, r *http.Request, in service.ApprovalDecision) (*transport.Redirect, error) {
	const op errs.Op = "ApprovalsHandler.Deny"

	user := auth.GetUser(ctx)
	if user == nil {
		return nil, errs.E(errs.Unauthenticated, op, errs.Str("no user in context"))
	}

	err := h.approvalsService.Deny(ctx, user, chi.URLParamFromCtx(ctx, "id"), in.Reason)
	if err != nil {
		return nil, errs.E(op, err)
	}

	return transport.NewRedirect(service.RoutePendingApprovals, r), nil
}

func NewApprovalsHandler(approvalsService service.ApprovalsService, pages *pages) *ApprovalsHandler {
	return &ApprovalsHandler{
		approvalsService: approvalsService,
		pages:            pages,
	}
}
