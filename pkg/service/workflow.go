package service

import (
	"context"
	"time"
)

type WorkflowAPI interface {
	ListExecutions(ctx context.Context, stateMachineARN string, maxResults int) ([]*WorkflowExecution, error)
	DescribeExecution(ctx context.Context, executionARN string) (*WorkflowExecution, error)
	// StartExecution starts the state machine with input marshalled as JSON.
	StartExecution(ctx context.Context, stateMachineARN, name string, input any) (*WorkflowExecution, error)
	SendTaskSuccess(ctx context.Context, taskToken string, output any) error
	SendTaskFailure(ctx context.Context, taskToken, errorCode, cause string) error
}

type WorkflowService interface {
	ListExecutions(ctx context.Context, user *User) (*WorkflowExecutions, error)
	GetExecution(ctx context.Context, user *User, executionARN string) (*WorkflowExecution, error)
}

// WorkflowExecution is displayed as is, the status is never interpreted.
type WorkflowExecution struct {
	ARN             string     `json:"arn"`
	Name            string     `json:"name"`
	StateMachineARN string     `json:"stateMachineARN"`
	Status          string     `json:"status"`
	StartDate       time.Time  `json:"startDate"`
	StopDate        *time.Time `json:"stopDate,omitempty"`
	Input           string     `json:"input,omitempty"`
	Output          string     `json:"output,omitempty"`
	Error           string     `json:"error,omitempty"`
	Cause           string     `json:"cause,omitempty"`
	Link            string     `json:"link"`
}

type WorkflowExecutions struct {
	Executions []*WorkflowExecution `json:"executions"`
}
