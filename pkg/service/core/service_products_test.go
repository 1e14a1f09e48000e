package core_test

import (
	"context"
	"regexp"
	"testing"

	"github.com/datamesh/mesh-console/pkg/errs"
	"github.com/datamesh/mesh-console/pkg/service"
	"github.com/datamesh/mesh-console/pkg/service/core"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestDataProductService_RegisterDataProduct(t *testing.T) {
	input := service.NewDataProduct{
		Name:         "Monthly Sales",
		Description:  "Sales per month",
		DatabaseName: "sales",
		TableName:    "monthly",
		Location:     "s3://sales/monthly",
	}

	execution := &service.WorkflowExecution{
		ARN:       "arn:aws:states:eu-west-1:111111111111:execution:registration:1",
		StartDate: startDate,
	}

	testCases := []struct {
		name         string
		user         *service.User
		input        service.NewDataProduct
		notifyErr    error
		expectErr    bool
		expectKind   errs.Kind
		expectErrors float64
	}{
		{
			name:  "Registers and starts the workflow",
			user:  owner,
			input: input,
		},
		{
			name:         "Failed notification is logged",
			user:         owner,
			input:        input,
			notifyErr:    assert.AnError,
			expectErrors: 1,
		},
		{
			name:       "Only the domain owner registers",
			user:       consumer,
			input:      input,
			expectErr:  true,
			expectKind: errs.Unauthorized,
		},
		{
			name:       "Name is required",
			user:       owner,
			input:      service.NewDataProduct{DatabaseName: "sales", TableName: "monthly", Location: "s3://sales"},
			expectErr:  true,
			expectKind: errs.Validation,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			storage := &dataProductStorageMock{}
			storage.On("CreateDataProduct", mock.Anything, mock.AnythingOfType("*service.DataProduct")).Return(nil)
			storage.On("SetExecutionARN", mock.Anything, mock.Anything, execution.ARN).Return(nil)

			workflow := &workflowAPIMock{}
			workflow.On("StartExecution", mock.Anything, registrationARN, mock.Anything, mock.AnythingOfType("service.RegistrationInput")).Return(execution, nil)

			notifier := &notificationAPIMock{}
			notifier.On("NotifyProductRegistration", mock.Anything, mock.Anything).Return(tc.notifyErr)

			metrics := core.NewNopMetrics()

			s := core.NewDataProductService(registrationARN, storage, workflow, notifier, metrics, zerolog.Nop())

			got, err := s.RegisterDataProduct(context.Background(), tc.user, ownerAccount, tc.input)
			if tc.expectErr {
				require.Error(t, err)
				assert.True(t, errs.KindIs(tc.expectKind, err))
				storage.AssertNotCalled(t, "CreateDataProduct", mock.Anything, mock.Anything)

				return
			}

			require.NoError(t, err)
			assert.Regexp(t, regexp.MustCompile(`^monthly-sales-[a-z0-9]{6}$`), got.Slug)
			assert.Equal(t, execution.ARN, got.ExecutionARN)
			assert.Equal(t, "owner", got.CreatedBy)
			assert.Equal(t, ownerAccount, got.DomainID)

			workflow.AssertCalled(t, "StartExecution", mock.Anything, registrationARN, got.ID, service.RegistrationInput{
				ProductID:   got.ID,
				DomainID:    ownerAccount,
				Name:        "Monthly Sales",
				Description: "Sales per month",
				Database:    "sales",
				Table:       "monthly",
				Location:    "s3://sales/monthly",
				CreatedBy:   "owner",
			})
			storage.AssertCalled(t, "SetExecutionARN", mock.Anything, got.ID, execution.ARN)
			assert.Equal(t, tc.expectErrors, testutil.ToFloat64(metrics.Errors.WithLabelValues("dataProductService.RegisterDataProduct")))
		})
	}
}

func TestDataProductService_GetRegistrationForm(t *testing.T) {
	storage := &dataProductStorageMock{}
	storage.On("GetDataProductsForDomain", mock.Anything, ownerAccount).Return([]*service.DataProduct{{Slug: "monthly-sales-abcdef"}}, nil)

	s := core.NewDataProductService(registrationARN, storage, &workflowAPIMock{}, &notificationAPIMock{}, core.NewNopMetrics(), zerolog.Nop())

	got, err := s.GetRegistrationForm(context.Background(), owner, ownerAccount)
	require.NoError(t, err)
	assert.Equal(t, ownerAccount, got.DomainID)
	assert.Len(t, got.Products, 1)

	_, err = s.GetRegistrationForm(context.Background(), consumer, ownerAccount)
	assert.True(t, errs.KindIs(errs.Unauthorized, err))
}

func TestDataProductService_GetDataProductDetails(t *testing.T) {
	testCases := []struct {
		name            string
		product         *service.DataProduct
		describeErr     error
		expectExecution bool
	}{
		{
			name:            "With execution",
			product:         &service.DataProduct{Slug: "p", ExecutionARN: "arn:exec"},
			expectExecution: true,
		},
		{
			name:    "Without execution",
			product: &service.DataProduct{Slug: "p"},
		},
		{
			name:        "Failing describe leaves the product",
			product:     &service.DataProduct{Slug: "p", ExecutionARN: "arn:exec"},
			describeErr: assert.AnError,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			storage := &dataProductStorageMock{}
			storage.On("GetDataProduct", mock.Anything, "p").Return(tc.product, nil)

			var execution *service.WorkflowExecution
			if tc.describeErr == nil {
				execution = &service.WorkflowExecution{ARN: "arn:exec", Status: "SUCCEEDED"}
			}

			workflow := &workflowAPIMock{}
			workflow.On("DescribeExecution", mock.Anything, "arn:exec").Return(execution, tc.describeErr)

			s := core.NewDataProductService(registrationARN, storage, workflow, &notificationAPIMock{}, core.NewNopMetrics(), zerolog.Nop())

			got, err := s.GetDataProductDetails(context.Background(), owner, "p")
			require.NoError(t, err)
			assert.Equal(t, tc.product, got.Product)
			assert.Equal(t, tc.expectExecution, got.Execution != nil)
		})
	}
}
