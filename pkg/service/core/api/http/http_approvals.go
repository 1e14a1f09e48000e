package http

import (
	"context"

	"github.com/datamesh/mesh-console/pkg/errs"
	"github.com/datamesh/mesh-console/pkg/meshapi"
	"github.com/datamesh/mesh-console/pkg/service"
)

var _ service.ApprovalsAPI = &approvalsAPI{}

type approvalsAPI struct {
	fetcher meshapi.Fetcher
}

func (a *approvalsAPI) ListPending(ctx context.Context, idToken string) ([]*service.PendingApproval, error) {
	const op errs.Op = "approvalsAPI.ListPending"

	raw, err := a.fetcher.PendingApprovals(ctx, idToken)
	if err != nil {
		return nil, errs.E(errs.IO, op, err)
	}

	approvals := make([]*service.PendingApproval, len(raw))
	for i, p := range raw {
		approvals[i] = &service.PendingApproval{
			ID:              p.ID,
			Requester:       p.Requester,
			Database:        p.Database,
			Table:           p.Table,
			TargetAccountID: p.TargetAccountID,
			OwnerAccountID:  p.OwnerAccountID,
			TaskToken:       p.TaskToken,
			RequestedAt:     p.RequestedAt,
		}
	}

	return approvals, nil
}

func NewApprovalsAPI(fetcher meshapi.Fetcher) *approvalsAPI {
	return &approvalsAPI{
		fetcher: fetcher,
	}
}
