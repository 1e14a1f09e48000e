package core

import (
	"context"
	"fmt"

	"github.com/datamesh/mesh-console/pkg/errs"
	"github.com/datamesh/mesh-console/pkg/service"
	"github.com/rs/zerolog"
)

// Error code a denied access request fails its workflow task with.
const accessDeniedErrorCode = "AccessDenied"

const defaultDenyReason = "denied by approver"

var _ service.ApprovalsService = &approvalsService{}

type approvalsService struct {
	approvalsAPI service.ApprovalsAPI
	workflowAPI  service.WorkflowAPI
	log          zerolog.Logger
}

// ListPending returns the pending approvals the user can decide on, those
// of the data domains the user owns. Approvals without an owning domain are
// left out as nobody can decide them.
func (s *approvalsService) ListPending(ctx context.Context, user *service.User) (*service.PendingApprovals, error) {
	const op errs.Op = "approvalsService.ListPending"

	pending, err := s.approvalsAPI.ListPending(ctx, user.IDToken)
	if err != nil {
		return nil, errs.E(op, err)
	}

	approvals := []*service.PendingApproval{}

	for _, p := range pending {
		if !canDecide(user, p) {
			continue
		}

		approvals = append(approvals, p)
	}

	return &service.PendingApprovals{
		Approvals: approvals,
	}, nil
}

func (s *approvalsService) Approve(ctx context.Context, user *service.User, id string) error {
	const op errs.Op = "approvalsService.Approve"

	approval, err := s.find(ctx, user, id)
	if err != nil {
		return errs.E(op, err)
	}

	err = s.workflowAPI.SendTaskSuccess(ctx, approval.TaskToken, service.ApprovalOutput{
		Status:   "approved",
		Approver: user.Username,
	})
	if err != nil {
		return errs.E(op, err)
	}

	s.log.Info().Str("approval", id).Str("approver", user.Username).Msg("access request approved")

	return nil
}

func (s *approvalsService) Deny(ctx context.Context, user *service.User, id, reason string) error {
	const op errs.Op = "approvalsService.Deny"

	approval, err := s.find(ctx, user, id)
	if err != nil {
		return errs.E(op, err)
	}

	if reason == "" {
		reason = defaultDenyReason
	}

	err = s.workflowAPI.SendTaskFailure(ctx, approval.TaskToken, accessDeniedErrorCode, reason)
	if err != nil {
		return errs.E(op, err)
	}

	s.log.Info().Str("approval", id).Str("approver", user.Username).Msg("access request denied")

	return nil
}

func (s *approvalsService) find(ctx context.Context, user *service.User, id string) (*service.PendingApproval, error) {
	pending, err := s.approvalsAPI.ListPending(ctx, user.IDToken)
	if err != nil {
		return nil, err
	}

	for _, p := range pending {
		if p.ID != id {
			continue
		}

		if !canDecide(user, p) {
			return nil, errs.E(errs.Unauthorized, errs.UserName(user.Username), fmt.Errorf("approval %s belongs to another data domain", id))
		}

		return p, nil
	}

	return nil, errs.E(errs.NotExist, errs.Parameter("id"), fmt.Errorf("no pending approval %s", id))
}

func canDecide(user *service.User, approval *service.PendingApproval) bool {
	return approval.OwnerAccountID != "" && user.OwnsDomain(approval.OwnerAccountID)
}

func NewApprovalsService(approvalsAPI service.ApprovalsAPI, workflowAPI service.WorkflowAPI, log zerolog.Logger) *approvalsService {
	return &approvalsService{
		approvalsAPI: approvalsAPI,
		workflowAPI:  workflowAPI,
		log:          log,
	}
}
