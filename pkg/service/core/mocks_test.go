package core_test

import (
	"context"
	"time"

	"github.com/datamesh/mesh-console/pkg/service"
	"github.com/stretchr/testify/mock"
)

type catalogAPIMock struct {
	mock.Mock
}

func (m *catalogAPIMock) GetDatabases(ctx context.Context) ([]*service.Database, error) {
	args := m.Called(ctx)

	return args.Get(0).([]*service.Database), args.Error(1)
}

func (m *catalogAPIMock) GetDatabase(ctx context.Context, name string) (*service.Database, error) {
	args := m.Called(ctx, name)

	return args.Get(0).(*service.Database), args.Error(1)
}

func (m *catalogAPIMock) GetTables(ctx context.Context, databaseName string) ([]*service.Table, error) {
	args := m.Called(ctx, databaseName)

	return args.Get(0).([]*service.Table), args.Error(1)
}

func (m *catalogAPIMock) GetTable(ctx context.Context, databaseName, tableName string) (*service.Table, error) {
	args := m.Called(ctx, databaseName, tableName)

	return args.Get(0).(*service.Table), args.Error(1)
}

func (m *catalogAPIMock) UpdateDatabaseParameters(ctx context.Context, name string, params map[string]string) error {
	return m.Called(ctx, name, params).Error(0)
}

func (m *catalogAPIMock) UpdateTableParameters(ctx context.Context, databaseName, tableName string, params map[string]string) error {
	return m.Called(ctx, databaseName, tableName, params).Error(0)
}

type tagAPIMock struct {
	mock.Mock
}

func (m *tagAPIMock) GetResourceTags(ctx context.Context, resource service.Resource) (*service.ResourceTags, error) {
	args := m.Called(ctx, resource)

	return args.Get(0).(*service.ResourceTags), args.Error(1)
}

func (m *tagAPIMock) SetResourceTag(ctx context.Context, resource service.Resource, tag service.LFTag) error {
	return m.Called(ctx, resource, tag).Error(0)
}

type workflowAPIMock struct {
	mock.Mock
}

func (m *workflowAPIMock) ListExecutions(ctx context.Context, stateMachineARN string, maxResults int) ([]*service.WorkflowExecution, error) {
	args := m.Called(ctx, stateMachineARN, maxResults)

	return args.Get(0).([]*service.WorkflowExecution), args.Error(1)
}

func (m *workflowAPIMock) DescribeExecution(ctx context.Context, executionARN string) (*service.WorkflowExecution, error) {
	args := m.Called(ctx, executionARN)

	return args.Get(0).(*service.WorkflowExecution), args.Error(1)
}

func (m *workflowAPIMock) StartExecution(ctx context.Context, stateMachineARN, name string, input any) (*service.WorkflowExecution, error) {
	args := m.Called(ctx, stateMachineARN, name, input)

	return args.Get(0).(*service.WorkflowExecution), args.Error(1)
}

func (m *workflowAPIMock) SendTaskSuccess(ctx context.Context, taskToken string, output any) error {
	return m.Called(ctx, taskToken, output).Error(0)
}

func (m *workflowAPIMock) SendTaskFailure(ctx context.Context, taskToken, errorCode, cause string) error {
	return m.Called(ctx, taskToken, errorCode, cause).Error(0)
}

type notificationAPIMock struct {
	mock.Mock
}

func (m *notificationAPIMock) NotifyAccessRequest(ctx context.Context, user *service.User, input service.AccessRequestInput, execution *service.WorkflowExecution) error {
	return m.Called(ctx, user, input, execution).Error(0)
}

func (m *notificationAPIMock) NotifyProductRegistration(ctx context.Context, dp *service.DataProduct) error {
	return m.Called(ctx, dp).Error(0)
}

type searchAPIMock struct {
	mock.Mock
}

func (m *searchAPIMock) Search(ctx context.Context, idToken, query string) ([]service.SearchMatch, error) {
	args := m.Called(ctx, idToken, query)

	return args.Get(0).([]service.SearchMatch), args.Error(1)
}

type approvalsAPIMock struct {
	mock.Mock
}

func (m *approvalsAPIMock) ListPending(ctx context.Context, idToken string) ([]*service.PendingApproval, error) {
	args := m.Called(ctx, idToken)

	return args.Get(0).([]*service.PendingApproval), args.Error(1)
}

type eventAPIMock struct {
	mock.Mock
}

func (m *eventAPIMock) GetEvent(ctx context.Context) (*service.Event, error) {
	args := m.Called(ctx)

	return args.Get(0).(*service.Event), args.Error(1)
}

type dataProductStorageMock struct {
	mock.Mock
}

func (m *dataProductStorageMock) CreateDataProduct(ctx context.Context, dp *service.DataProduct) error {
	return m.Called(ctx, dp).Error(0)
}

func (m *dataProductStorageMock) GetDataProduct(ctx context.Context, slug string) (*service.DataProduct, error) {
	args := m.Called(ctx, slug)

	return args.Get(0).(*service.DataProduct), args.Error(1)
}

func (m *dataProductStorageMock) GetDataProductsForDomain(ctx context.Context, domainID string) ([]*service.DataProduct, error) {
	args := m.Called(ctx, domainID)

	return args.Get(0).([]*service.DataProduct), args.Error(1)
}

func (m *dataProductStorageMock) SetExecutionARN(ctx context.Context, id, executionARN string) error {
	return m.Called(ctx, id, executionARN).Error(0)
}

const (
	ownerAccount = "123456789012"
	otherAccount = "210987654321"
)

var (
	owner = &service.User{
		Username:  "owner",
		Email:     "owner@example.com",
		DomainIDs: []string{ownerAccount},
		IDToken:   "owner-token",
	}

	consumer = &service.User{
		Username:  "consumer",
		Email:     "consumer@example.com",
		DomainIDs: []string{otherAccount},
		IDToken:   "consumer-token",
	}

	startDate = time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
)
