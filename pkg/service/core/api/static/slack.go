package static

import (
	"context"

	"github.com/datamesh/mesh-console/pkg/service"
	"github.com/rs/zerolog"
)

var _ service.NotificationAPI = &slackAPI{}

// slackAPI only logs the notifications, it is used when no slack token is
// configured.
type slackAPI struct {
	log zerolog.Logger
}

func (s *slackAPI) NotifyAccessRequest(_ context.Context, user *service.User, input service.AccessRequestInput, execution *service.WorkflowExecution) error {
	s.log.Info().
		Str("requester", user.Username).
		Str("database", input.Source.Database).
		Str("table", input.Source.Table).
		Str("target_account", input.Target.AccountID).
		Str("execution", execution.ARN).
		Msg("access request notification")

	return nil
}

func (s *slackAPI) NotifyProductRegistration(_ context.Context, dp *service.DataProduct) error {
	s.log.Info().
		Str("data_product", dp.Slug).
		Str("domain", dp.DomainID).
		Msg("product registration notification")

	return nil
}

func NewSlackAPI(log zerolog.Logger) *slackAPI {
	return &slackAPI{
		log: log,
	}
}
