package core_test

import (
	"context"
	"testing"
	"time"

	"github.com/datamesh/mesh-console/pkg/errs"
	"github.com/datamesh/mesh-console/pkg/service"
	"github.com/datamesh/mesh-console/pkg/service/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const registrationARN = "arn:aws:states:eu-west-1:111111111111:stateMachine:registration"

func TestWorkflowService_ListExecutions(t *testing.T) {
	workflow := &workflowAPIMock{}
	workflow.On("ListExecutions", mock.Anything, accessRequestARN, 50).Return([]*service.WorkflowExecution{
		{Name: "access-old", StartDate: startDate},
		{Name: "access-new", StartDate: startDate.Add(2 * time.Hour)},
	}, nil)
	workflow.On("ListExecutions", mock.Anything, registrationARN, 50).Return([]*service.WorkflowExecution{
		{Name: "registration", StartDate: startDate.Add(time.Hour)},
	}, nil)

	s := core.NewWorkflowService(workflow, 50, accessRequestARN, registrationARN)

	got, err := s.ListExecutions(context.Background(), consumer)
	require.NoError(t, err)

	var names []string
	for _, e := range got.Executions {
		names = append(names, e.Name)
	}

	assert.Equal(t, []string{"access-new", "registration", "access-old"}, names)
}

func TestWorkflowService_GetExecution(t *testing.T) {
	workflow := &workflowAPIMock{}
	workflow.On("DescribeExecution", mock.Anything, "arn:exists").Return(&service.WorkflowExecution{ARN: "arn:exists", Status: "SUCCEEDED"}, nil)
	workflow.On("DescribeExecution", mock.Anything, "arn:missing").Return((*service.WorkflowExecution)(nil), errs.E(errs.NotExist, errs.Str("no such execution")))

	s := core.NewWorkflowService(workflow, 50, accessRequestARN)

	got, err := s.GetExecution(context.Background(), consumer, "arn:exists")
	require.NoError(t, err)
	assert.Equal(t, "SUCCEEDED", got.Status)

	_, err = s.GetExecution(context.Background(), consumer, "arn:missing")
	assert.True(t, errs.KindIs(errs.NotExist, err))
}
