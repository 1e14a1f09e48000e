package slack

import (
	"context"
	"fmt"
	"strings"

	"github.com/datamesh/mesh-console/pkg/errs"
	"github.com/datamesh/mesh-console/pkg/service"
	slackapi "github.com/slack-go/slack"
)

// Poster is the part of the slack client used for notifications.
type Poster interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error)
}

var _ service.NotificationAPI = &slackAPI{}

type slackAPI struct {
	consoleURL string
	channel    string
	api        Poster
}

func (a *slackAPI) NotifyAccessRequest(ctx context.Context, user *service.User, input service.AccessRequestInput, execution *service.WorkflowExecution) error {
	const op errs.Op = "slackAPI.NotifyAccessRequest"

	message := fmt.Sprintf(
		"%s has requested access to %s.%s for account %s\nExecution: %s",
		requester(user),
		input.Source.Database,
		input.Source.Table,
		input.Target.AccountID,
		a.link(execution.Link),
	)

	_, _, err := a.api.PostMessageContext(ctx, a.channel, slackapi.MsgOptionText(message, false))
	if err != nil {
		return errs.E(errs.IO, op, err)
	}

	return nil
}

func (a *slackAPI) NotifyProductRegistration(ctx context.Context, dp *service.DataProduct) error {
	const op errs.Op = "slackAPI.NotifyProductRegistration"

	message := fmt.Sprintf(
		"%s registered the data product %s (%s.%s) in domain %s\nDetails: %s",
		dp.CreatedBy,
		dp.Name,
		dp.DatabaseName,
		dp.TableName,
		dp.DomainID,
		a.link(service.DataProductDetailsPath(dp.Slug)),
	)

	_, _, err := a.api.PostMessageContext(ctx, a.channel, slackapi.MsgOptionText(message, false))
	if err != nil {
		return errs.E(errs.IO, op, err)
	}

	return nil
}

func (a *slackAPI) link(path string) string {
	return strings.TrimSuffix(a.consoleURL, "/") + path
}

func requester(user *service.User) string {
	if user == nil {
		return "Someone"
	}

	if user.Email != "" {
		return user.Email
	}

	return user.Username
}

func NewSlackAPI(consoleURL, channel string, api Poster) *slackAPI {
	return &slackAPI{
		consoleURL: consoleURL,
		channel:    channel,
		api:        api,
	}
}

func NewSlackAPIFromToken(consoleURL, channel, token string) *slackAPI {
	return NewSlackAPI(consoleURL, channel, slackapi.New(token))
}
