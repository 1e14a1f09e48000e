package core

import (
	"context"
	"sort"

	"github.com/datamesh/mesh-console/pkg/errs"
	"github.com/datamesh/mesh-console/pkg/service"
)

var _ service.WorkflowService = &workflowService{}

type workflowService struct {
	stateMachineARNs []string
	maxResults       int
	workflowAPI      service.WorkflowAPI
}

// ListExecutions merges the executions of every state machine the console
// starts, newest first.
func (s *workflowService) ListExecutions(ctx context.Context, _ *service.User) (*service.WorkflowExecutions, error) {
	const op errs.Op = "workflowService.ListExecutions"

	executions := []*service.WorkflowExecution{}

	for _, arn := range s.stateMachineARNs {
		list, err := s.workflowAPI.ListExecutions(ctx, arn, s.maxResults)
		if err != nil {
			return nil, errs.E(op, errs.Parameter("stateMachineArn"), err)
		}

		executions = append(executions, list...)
	}

	sort.SliceStable(executions, func(i, j int) bool {
		return executions[i].StartDate.After(executions[j].StartDate)
	})

	return &service.WorkflowExecutions{
		Executions: executions,
	}, nil
}

func (s *workflowService) GetExecution(ctx context.Context, _ *service.User, executionARN string) (*service.WorkflowExecution, error) {
	const op errs.Op = "workflowService.GetExecution"

	execution, err := s.workflowAPI.DescribeExecution(ctx, executionARN)
	if err != nil {
		return nil, errs.E(op, errs.Parameter("execArn"), err)
	}

	return execution, nil
}

func NewWorkflowService(workflowAPI service.WorkflowAPI, maxResults int, stateMachineARNs ...string) *workflowService {
	return &workflowService{
		stateMachineARNs: stateMachineARNs,
		maxResults:       maxResults,
		workflowAPI:      workflowAPI,
	}
}
