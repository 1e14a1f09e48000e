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

type WorkflowHandler struct {
	workflowService service.WorkflowService
	pages           *pages
}

func (h *WorkflowHandler) WorkflowExecutionsPage(ctx context.Context, r *http.Request, _ any) (*transport.Page, error) {
	const op errs.Op = "WorkflowHandler.WorkflowExecutionsPage"

	executions, err := h.workflowService.ListExecutions(ctx, auth.GetUser(ctx))
	if err != nil {
		return nil, errs.E(op, err)
	}

	return h.pages.page(ctx, r, console.PageWorkflowExecutions, service.RouteWorkflowExecutions, executions,
		console.Breadcrumb{Label: "Workflow Executions"},
	), nil
}

func (h *WorkflowHandler) ExecutionDetailsPage(ctx context.Context, r *http.Request, _ any) (*transport.Page, error) {
	const op errs.Op = "WorkflowHandler.ExecutionDetailsPage"

	execution, err := h.workflowService.GetExecution(ctx, auth.GetUser(ctx), chi.URLParamFromCtx(ctx, "execArn"))
	if err != nil {
		return nil, errs.E(op, err)
	}

	return h.pages.page(ctx, r, console.PageExecutionDetails, "", execution,
		console.Breadcrumb{Label: "Workflow Executions", Href: service.RouteWorkflowExecutions},
		console.Breadcrumb{Label: execution.Name},
	), nil
}

func NewWorkflowHandler(workflowService service.WorkflowService, pages *pages) *WorkflowHandler {
	return &WorkflowHandler{
		workflowService: workflowService,
		pages:           pages,
	}
}
