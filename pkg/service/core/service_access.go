package core

import (
	"context"
	"fmt"
	"strconv"

	"github.com/datamesh/mesh-console/pkg/errs"
	"github.com/datamesh/mesh-console/pkg/invalidation"
	"github.com/datamesh/mesh-console/pkg/service"
	"github.com/rs/zerolog"
)

var _ service.AccessService = &accessService{}

type accessService struct {
	accessRequestARN string
	catalogAPI       service.CatalogAPI
	tagAPI           service.TagAPI
	workflowAPI      service.WorkflowAPI
	notificationAPI  service.NotificationAPI
	tracker          *invalidation.Tracker
	metrics          *Metrics
	log              zerolog.Logger
}

// TogglePIIFlag flips the PII flag of the resource. Name based resources
// keep the flag in their parameter map, tag based resources in a tag. The
// resource version is bumped exactly once per completed toggle.
func (s *accessService) TogglePIIFlag(ctx context.Context, user *service.User, resource service.Resource) (*service.ToggleResult, error) {
	const op errs.Op = "accessService.TogglePIIFlag"

	params, err := s.resourceParameters(ctx, resource)
	if err != nil {
		return nil, errs.E(op, err)
	}

	if !user.OwnsDomain(params[service.ParamDataOwner]) {
		return nil, errs.E(errs.Unauthorized, op, errs.UserName(user.Username), fmt.Errorf("user does not own the data domain of %s", resource.Key()))
	}

	var variant service.ApprovalVariant

	var flag bool

	switch params[service.ParamAccessMode] {
	case service.AccessModeNRAC:
		variant = service.ApprovalNameBased
		flag = params[service.ParamPIIFlag] != "true"

		err = s.updateParameters(ctx, resource, map[string]string{
			service.ParamPIIFlag: strconv.FormatBool(flag),
		})
		if err != nil {
			return nil, errs.E(op, err)
		}
	case service.AccessModeTBAC:
		variant = service.ApprovalTagBased

		tags, err := s.tagAPI.GetResourceTags(ctx, resource)
		if err != nil {
			return nil, errs.E(op, err)
		}

		flag = !service.DispatchAccessApproval(params, tags.Resource, true).PIIFlag

		err = s.tagAPI.SetResourceTag(ctx, resource, service.LFTag{
			Key:    service.ParamPIIFlag,
			Values: []string{strconv.FormatBool(flag)},
		})
		if err != nil {
			return nil, errs.E(op, err)
		}
	default:
		return nil, errs.E(errs.InvalidRequest, op, errs.Parameter("access_mode"), fmt.Errorf("%s has no access mode with a PII flag", resource.Key()))
	}

	s.metrics.Toggles.WithLabelValues(string(variant)).Inc()

	return &service.ToggleResult{
		Resource: resource,
		Variant:  variant,
		PIIFlag:  flag,
		Version:  s.tracker.Bump(resource.Key()),
	}, nil
}

// resourceParameters returns the parameter map of the resource. Tables
// without an owner of their own inherit the owner of their database.
func (s *accessService) resourceParameters(ctx context.Context, resource service.Resource) (map[string]string, error) {
	db, err := s.catalogAPI.GetDatabase(ctx, resource.DatabaseName)
	if err != nil {
		return nil, err
	}

	switch resource.Type {
	case service.ResourceTypeDatabase:
		return db.Parameters, nil
	case service.ResourceTypeTable:
		table, err := s.catalogAPI.GetTable(ctx, resource.DatabaseName, resource.TableName)
		if err != nil {
			return nil, err
		}

		params := map[string]string{}
		for k, v := range table.Parameters {
			params[k] = v
		}

		if _, ok := params[service.ParamDataOwner]; !ok {
			params[service.ParamDataOwner] = db.Parameters[service.ParamDataOwner]
		}

		return params, nil
	default:
		return nil, errs.E(errs.InvalidRequest, errs.Parameter("type"), fmt.Errorf("unknown resource type %q", resource.Type))
	}
}

func (s *accessService) updateParameters(ctx context.Context, resource service.Resource, params map[string]string) error {
	if resource.Type == service.ResourceTypeTable {
		return s.catalogAPI.UpdateTableParameters(ctx, resource.DatabaseName, resource.TableName, params)
	}

	return s.catalogAPI.UpdateDatabaseParameters(ctx, resource.DatabaseName, params)
}

func (s *accessService) RequestAccess(ctx context.Context, user *service.User, input service.NewAccessRequest) (*service.AccessRequestExecution, error) {
	const op errs.Op = "accessService.RequestAccess"

	err := input.Validate()
	if err != nil {
		return nil, errs.E(errs.Validation, op, err)
	}

	table, err := s.catalogAPI.GetTable(ctx, input.DatabaseName, input.TableName)
	if err != nil {
		return nil, errs.E(op, err)
	}

	owner := table.Parameters[service.ParamDataOwner]
	if owner == "" {
		db, err := s.catalogAPI.GetDatabase(ctx, input.DatabaseName)
		if err != nil {
			return nil, errs.E(op, err)
		}

		owner = db.Parameters[service.ParamDataOwner]
	}

	if user.OwnsDomain(owner) {
		return nil, errs.E(errs.InvalidRequest, op, errs.UserName(user.Username), errs.Str("the table already belongs to one of your data domains"))
	}

	request := service.AccessRequestInput{
		Source: service.AccessRequestSource{
			Database: input.DatabaseName,
			Table:    input.TableName,
		},
		Target: service.AccessRequestTarget{
			AccountID: input.TargetAccountID,
		},
		Requester: user.Username,
	}

	execution, err := s.workflowAPI.StartExecution(ctx, s.accessRequestARN, "", request)
	if err != nil {
		return nil, errs.E(op, err)
	}

	err = s.notificationAPI.NotifyAccessRequest(ctx, user, request, execution)
	if err != nil {
		s.log.Warn().Err(err).Str("execution", execution.ARN).Msg("notifying about access request")
		s.metrics.Errors.WithLabelValues(string(op)).Inc()
	}

	return &service.AccessRequestExecution{
		ExecutionARN: execution.ARN,
		StartDate:    execution.StartDate,
		Link:         service.ExecutionDetailsPath(execution.ARN),
	}, nil
}

func NewAccessService(
	accessRequestARN string,
	catalogAPI service.CatalogAPI,
	tagAPI service.TagAPI,
	workflowAPI service.WorkflowAPI,
	notificationAPI service.NotificationAPI,
	tracker *invalidation.Tracker,
	metrics *Metrics,
	log zerolog.Logger,
) *accessService {
	return &accessService{
		accessRequestARN: accessRequestARN,
		catalogAPI:       catalogAPI,
		tagAPI:           tagAPI,
		workflowAPI:      workflowAPI,
		notificationAPI:  notificationAPI,
		tracker:          tracker,
		metrics:          metrics,
		log:              log,
	}
}
