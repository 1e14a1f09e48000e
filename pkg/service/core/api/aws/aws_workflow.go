package aws

import (
	"context"
	"errors"

	"github.com/datamesh/mesh-console/pkg/errs"
	"github.com/datamesh/mesh-console/pkg/service"
	"github.com/datamesh/mesh-console/pkg/sfn"
)

var _ service.WorkflowAPI = &workflowAPI{}

type workflowAPI struct {
	ops sfn.Operations
}

func (a *workflowAPI) ListExecutions(ctx context.Context, stateMachineARN string, maxResults int) ([]*service.WorkflowExecution, error) {
	const op errs.Op = "workflowAPI.ListExecutions"

	raw, err := a.ops.ListExecutions(ctx, stateMachineARN, maxResults)
	if err != nil {
		return nil, workflowError(op, "stateMachineARN", err)
	}

	executions := make([]*service.WorkflowExecution, len(raw))
	for i, e := range raw {
		executions[i] = toExecution(e)
	}

	return executions, nil
}

func (a *workflowAPI) DescribeExecution(ctx context.Context, executionARN string) (*service.WorkflowExecution, error) {
	const op errs.Op = "workflowAPI.DescribeExecution"

	e, err := a.ops.DescribeExecution(ctx, executionARN)
	if err != nil {
		return nil, workflowError(op, "execArn", err)
	}

	return toExecution(e), nil
}

func (a *workflowAPI) StartExecution(ctx context.Context, stateMachineARN, name string, input any) (*service.WorkflowExecution, error) {
	const op errs.Op = "workflowAPI.StartExecution"

	e, err := a.ops.StartExecution(ctx, stateMachineARN, name, input)
	if err != nil {
		return nil, workflowError(op, "stateMachineARN", err)
	}

	return toExecution(e), nil
}

func (a *workflowAPI) SendTaskSuccess(ctx context.Context, taskToken string, output any) error {
	const op errs.Op = "workflowAPI.SendTaskSuccess"

	err := a.ops.SendTaskSuccess(ctx, taskToken, output)
	if err != nil {
		return workflowError(op, "taskToken", err)
	}

	return nil
}

func (a *workflowAPI) SendTaskFailure(ctx context.Context, taskToken, errorCode, cause string) error {
	const op errs.Op = "workflowAPI.SendTaskFailure"

	err := a.ops.SendTaskFailure(ctx, taskToken, errorCode, cause)
	if err != nil {
		return workflowError(op, "taskToken", err)
	}

	return nil
}

func workflowError(op errs.Op, param string, err error) error {
	if errors.Is(err, sfn.ErrNotExist) {
		return errs.E(errs.NotExist, op, errs.Parameter(param), err)
	}

	return errs.E(errs.IO, op, err)
}

func toExecution(e *sfn.Execution) *service.WorkflowExecution {
	return &service.WorkflowExecution{
		ARN:             e.ARN,
		Name:            e.Name,
		StateMachineARN: e.StateMachineARN,
		Status:          e.Status,
		StartDate:       e.StartDate,
		StopDate:        e.StopDate,
		Input:           e.Input,
		Output:          e.Output,
		Error:           e.Error,
		Cause:           e.Cause,
		Link:            service.ExecutionDetailsPath(e.ARN),
	}
}

func NewWorkflowAPI(ops sfn.Operations) *workflowAPI {
	return &workflowAPI{
		ops: ops,
	}
}
