package api

import (
	"github.com/datamesh/mesh-console/pkg/cache"
	"github.com/datamesh/mesh-console/pkg/config/v2"
	"github.com/datamesh/mesh-console/pkg/glue"
	"github.com/datamesh/mesh-console/pkg/lf"
	"github.com/datamesh/mesh-console/pkg/meshapi"
	"github.com/datamesh/mesh-console/pkg/service"
	awsapi "github.com/datamesh/mesh-console/pkg/service/core/api/aws"
	httpapi "github.com/datamesh/mesh-console/pkg/service/core/api/http"
	slackapi "github.com/datamesh/mesh-console/pkg/service/core/api/slack"
	"github.com/datamesh/mesh-console/pkg/service/core/api/static"
	"github.com/datamesh/mesh-console/pkg/service/core/cache/postgres"
	"github.com/datamesh/mesh-console/pkg/sfn"
	"github.com/rs/zerolog"
)

type Clients struct {
	CatalogAPI      service.CatalogAPI
	TagAPI          service.TagAPI
	WorkflowAPI     service.WorkflowAPI
	SearchAPI       service.SearchAPI
	ApprovalsAPI    service.ApprovalsAPI
	EventAPI        service.EventAPI
	NotificationAPI service.NotificationAPI
}

func NewClients(
	cache cache.Cacher,
	meshFetcher meshapi.Fetcher,
	glueClient glue.Operations,
	lfClient lf.Operations,
	sfnClient sfn.Operations,
	cfg config.Config,
	log zerolog.Logger,
) *Clients {
	var notificationAPI service.NotificationAPI = static.NewSlackAPI(
		log.With().Str("component", "notifications").Logger(),
	)

	if cfg.Slack.Token != "" {
		notificationAPI = slackapi.NewSlackAPIFromToken(
			cfg.Server.ConsoleURL,
			cfg.Slack.Channel,
			cfg.Slack.Token,
		)
	}

	return &Clients{
		CatalogAPI:      awsapi.NewCatalogAPI(glueClient),
		TagAPI:          awsapi.NewTagAPI(lfClient),
		WorkflowAPI:     awsapi.NewWorkflowAPI(sfnClient),
		SearchAPI:       httpapi.NewSearchAPI(meshFetcher),
		ApprovalsAPI:    httpapi.NewApprovalsAPI(meshFetcher),
		EventAPI:        postgres.NewEventCache(httpapi.NewEventAPI(meshFetcher), cache),
		NotificationAPI: notificationAPI,
	}
}
