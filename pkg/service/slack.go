package service

import (
	"context"
)

type NotificationAPI interface {
	NotifyAccessRequest(ctx context.Context, user *User, input AccessRequestInput, execution *WorkflowExecution) error
	NotifyProductRegistration(ctx context.Context, dp *DataProduct) error
}
