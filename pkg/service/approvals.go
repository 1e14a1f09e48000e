package service

import (
	"context"
	"time"
)

type ApprovalsAPI interface {
	ListPending(ctx context.Context, idToken string) ([]*PendingApproval, error)
}

type ApprovalsService interface {
	ListPending(ctx context.Context, user *User) (*PendingApprovals, error)
	Approve(ctx context.Context, user *User, id string) error
	Deny(ctx context.Context, user *User, id string, reason string) error
}

// PendingApproval is an access request waiting on the owning data domain.
// The task token resumes the workflow execution that requested it.
type PendingApproval struct {
	ID              string    `json:"id"`
	Requester       string    `json:"requester"`
	Database        string    `json:"database"`
	Table           string    `json:"table"`
	TargetAccountID string    `json:"targetAccountID"`
	OwnerAccountID  string    `json:"ownerAccountID"`
	TaskToken       string    `json:"-"`
	RequestedAt     time.Time `json:"requestedAt"`
}

type PendingApprovals struct {
	Approvals []*PendingApproval `json:"approvals"`
}

type ApprovalDecision struct {
	Reason string `json:"reason" form:"reason"`
}

// ApprovalOutput is the task output sent back to the waiting workflow.
type ApprovalOutput struct {
	Status   string `json:"status"`
	Approver string `json:"approver"`
}
