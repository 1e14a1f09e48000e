package core

import (
	"github.com/datamesh/mesh-console/pkg/config/v2"
	"github.com/datamesh/mesh-console/pkg/invalidation"
	"github.com/datamesh/mesh-console/pkg/service"
	"github.com/datamesh/mesh-console/pkg/service/core/api"
	"github.com/datamesh/mesh-console/pkg/service/core/storage"
	"github.com/rs/zerolog"
)

type Services struct {
	CatalogService     service.CatalogService
	AccessService      service.AccessService
	SearchService      service.SearchService
	WorkflowService    service.WorkflowService
	ApprovalsService   service.ApprovalsService
	DataProductService service.DataProductService
	UserService        service.UserService
	ShellService       service.ShellService
}

func NewServices(
	cfg config.Config,
	stores *storage.Stores,
	clients *api.Clients,
	tracker *invalidation.Tracker,
	generations *invalidation.Generations,
	metrics *Metrics,
	log zerolog.Logger,
) *Services {
	return &Services{
		CatalogService: NewCatalogService(
			clients.CatalogAPI,
			clients.TagAPI,
			tracker,
			metrics,
			log.With().Str("service", "catalog").Logger(),
		),
		AccessService: NewAccessService(
			cfg.Workflows.AccessRequestStateMachineARN,
			clients.CatalogAPI,
			clients.TagAPI,
			clients.WorkflowAPI,
			clients.NotificationAPI,
			tracker,
			metrics,
			log.With().Str("service", "access").Logger(),
		),
		SearchService: NewSearchService(clients.SearchAPI, generations, metrics),
		WorkflowService: NewWorkflowService(
			clients.WorkflowAPI,
			cfg.Workflows.MaxResults,
			cfg.Workflows.AccessRequestStateMachineARN,
			cfg.Workflows.RegistrationStateMachineARN,
		),
		ApprovalsService: NewApprovalsService(
			clients.ApprovalsAPI,
			clients.WorkflowAPI,
			log.With().Str("service", "approvals").Logger(),
		),
		DataProductService: NewDataProductService(
			cfg.Workflows.RegistrationStateMachineARN,
			stores.DataProductStorage,
			clients.WorkflowAPI,
			clients.NotificationAPI,
			metrics,
			log.With().Str("service", "products").Logger(),
		),
		UserService: NewUserService(stores.DataProductStorage),
		ShellService: NewShellService(
			cfg.Deployment.AccountID,
			cfg.Deployment.WorkshopURL,
			clients.EventAPI,
			log.With().Str("service", "shell").Logger(),
		),
	}
}
