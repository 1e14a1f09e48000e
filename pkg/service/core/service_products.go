package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/datamesh/mesh-console/pkg/errs"
	"github.com/datamesh/mesh-console/pkg/service"
	"github.com/gosimple/slug"
	"github.com/lithammer/shortuuid/v4"
	"github.com/rs/zerolog"
)

var _ service.DataProductService = &dataProductService{}

type dataProductService struct {
	registrationARN    string
	dataProductStorage service.DataProductStorage
	workflowAPI        service.WorkflowAPI
	notificationAPI    service.NotificationAPI
	metrics            *Metrics
	log                zerolog.Logger
}

func (s *dataProductService) GetRegistrationForm(ctx context.Context, user *service.User, domainID string) (*service.RegistrationForm, error) {
	const op errs.Op = "dataProductService.GetRegistrationForm"

	err := ensureDomainOwner(user, domainID)
	if err != nil {
		return nil, errs.E(op, err)
	}

	products, err := s.dataProductStorage.GetDataProductsForDomain(ctx, domainID)
	if err != nil {
		return nil, errs.E(op, err)
	}

	return &service.RegistrationForm{
		DomainID: domainID,
		Products: products,
	}, nil
}

// RegisterDataProduct records the data product and starts the registration
// workflow for it. The product is kept even if the workflow cannot be
// started, it is then shown without an execution.
func (s *dataProductService) RegisterDataProduct(ctx context.Context, user *service.User, domainID string, input service.NewDataProduct) (*service.DataProduct, error) {
	const op errs.Op = "dataProductService.RegisterDataProduct"

	err := ensureDomainOwner(user, domainID)
	if err != nil {
		return nil, errs.E(op, err)
	}

	err = input.Validate()
	if err != nil {
		return nil, errs.E(errs.Validation, op, err)
	}

	id := shortuuid.New()

	dp := &service.DataProduct{
		ID:           id,
		Slug:         fmt.Sprintf("%s-%s", slug.Make(input.Name), strings.ToLower(id[:6])),
		DomainID:     domainID,
		Name:         input.Name,
		Description:  input.Description,
		DatabaseName: input.DatabaseName,
		TableName:    input.TableName,
		Location:     input.Location,
		CreatedBy:    user.Username,
	}

	err = s.dataProductStorage.CreateDataProduct(ctx, dp)
	if err != nil {
		return nil, errs.E(op, err)
	}

	execution, err := s.workflowAPI.StartExecution(ctx, s.registrationARN, id, service.RegistrationInput{
		ProductID:   id,
		DomainID:    domainID,
		Name:        dp.Name,
		Description: dp.Description,
		Database:    dp.DatabaseName,
		Table:       dp.TableName,
		Location:    dp.Location,
		CreatedBy:   dp.CreatedBy,
	})
	if err != nil {
		return nil, errs.E(op, err)
	}

	err = s.dataProductStorage.SetExecutionARN(ctx, id, execution.ARN)
	if err != nil {
		return nil, errs.E(op, err)
	}

	dp.ExecutionARN = execution.ARN

	err = s.notificationAPI.NotifyProductRegistration(ctx, dp)
	if err != nil {
		s.log.Warn().Err(err).Str("product", dp.Slug).Msg("notifying about product registration")
		s.metrics.Errors.WithLabelValues(string(op)).Inc()
	}

	return dp, nil
}

func (s *dataProductService) GetDataProductDetails(ctx context.Context, _ *service.User, productSlug string) (*service.DataProductDetails, error) {
	const op errs.Op = "dataProductService.GetDataProductDetails"

	dp, err := s.dataProductStorage.GetDataProduct(ctx, productSlug)
	if err != nil {
		return nil, errs.E(op, err)
	}

	details := &service.DataProductDetails{
		Product: dp,
	}

	if dp.ExecutionARN == "" {
		return details, nil
	}

	execution, err := s.workflowAPI.DescribeExecution(ctx, dp.ExecutionARN)
	if err != nil {
		s.log.Warn().Err(err).Str("execution", dp.ExecutionARN).Msg("describing registration execution")
		s.metrics.Errors.WithLabelValues(string(op)).Inc()

		return details, nil
	}

	details.Execution = execution

	return details, nil
}

func ensureDomainOwner(user *service.User, domainID string) error {
	if !user.OwnsDomain(domainID) {
		return errs.E(errs.Unauthorized, errs.UserName(user.Username), fmt.Errorf("user does not own data domain %s", domainID))
	}

	return nil
}

func NewDataProductService(
	registrationARN string,
	dataProductStorage service.DataProductStorage,
	workflowAPI service.WorkflowAPI,
	notificationAPI service.NotificationAPI,
	metrics *Metrics,
	log zerolog.Logger,
) *dataProductService {
	return &dataProductService{
		registrationARN:    registrationARN,
		dataProductStorage: dataProductStorage,
		workflowAPI:        workflowAPI,
		notificationAPI:    notificationAPI,
		metrics:            metrics,
		log:                log,
	}
}
