// Package sfn wraps the Step Functions operations behind the access request
// and product registration workflows.
package sfn

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sfn"
	"github.com/aws/aws-sdk-go-v2/service/sfn/types"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

const DefaultMaxResults = 100

var _ Operations = &Client{}

type Operations interface {
	ListExecutions(ctx context.Context, stateMachineARN string, maxResults int) ([]*Execution, error)
	DescribeExecution(ctx context.Context, executionARN string) (*Execution, error)
	StartExecution(ctx context.Context, stateMachineARN, name string, input any) (*Execution, error)
	SendTaskSuccess(ctx context.Context, taskToken string, output any) error
	SendTaskFailure(ctx context.Context, taskToken, errorCode, cause string) error
}

// API is the subset of the Step Functions client in use.
type API interface {
	ListExecutions(ctx context.Context, params *sfn.ListExecutionsInput, optFns ...func(*sfn.Options)) (*sfn.ListExecutionsOutput, error)
	DescribeExecution(ctx context.Context, params *sfn.DescribeExecutionInput, optFns ...func(*sfn.Options)) (*sfn.DescribeExecutionOutput, error)
	StartExecution(ctx context.Context, params *sfn.StartExecutionInput, optFns ...func(*sfn.Options)) (*sfn.StartExecutionOutput, error)
	SendTaskSuccess(ctx context.Context, params *sfn.SendTaskSuccessInput, optFns ...func(*sfn.Options)) (*sfn.SendTaskSuccessOutput, error)
	SendTaskFailure(ctx context.Context, params *sfn.SendTaskFailureInput, optFns ...func(*sfn.Options)) (*sfn.SendTaskFailureOutput, error)
}

var ErrNotExist = errors.New("not exists")

type Client struct {
	api API
	log zerolog.Logger
}

type Execution struct {
	ARN             string
	Name            string
	StateMachineARN string
	Status          string
	StartDate       time.Time
	StopDate        *time.Time
	Input           string
	Output          string
	Error           string
	Cause           string
}

// ListExecutions returns the first page of executions, the engine orders
// them newest first.
func (c *Client) ListExecutions(ctx context.Context, stateMachineARN string, maxResults int) ([]*Execution, error) {
	if maxResults <= 0 || maxResults > 1000 {
		maxResults = DefaultMaxResults
	}

	out, err := c.api.ListExecutions(ctx, &sfn.ListExecutionsInput{
		StateMachineArn: aws.String(stateMachineARN),
		MaxResults:      int32(maxResults),
	})
	if err != nil {
		var sm *types.StateMachineDoesNotExist
		if errors.As(err, &sm) {
			return nil, ErrNotExist
		}

		return nil, fmt.Errorf("listing executions of %s: %w", stateMachineARN, err)
	}

	executions := make([]*Execution, 0, len(out.Executions))
	for _, e := range out.Executions {
		executions = append(executions, &Execution{
			ARN:             aws.ToString(e.ExecutionArn),
			Name:            aws.ToString(e.Name),
			StateMachineARN: aws.ToString(e.StateMachineArn),
			Status:          string(e.Status),
			StartDate:       aws.ToTime(e.StartDate),
			StopDate:        e.StopDate,
		})
	}

	return executions, nil
}

func (c *Client) DescribeExecution(ctx context.Context, executionARN string) (*Execution, error) {
	out, err := c.api.DescribeExecution(ctx, &sfn.DescribeExecutionInput{
		ExecutionArn: aws.String(executionARN),
	})
	if err != nil {
		var ne *types.ExecutionDoesNotExist
		if errors.As(err, &ne) {
			return nil, ErrNotExist
		}

		return nil, fmt.Errorf("describing execution %s: %w", executionARN, err)
	}

	return &Execution{
		ARN:             aws.ToString(out.ExecutionArn),
		Name:            aws.ToString(out.Name),
		StateMachineARN: aws.ToString(out.StateMachineArn),
		Status:          string(out.Status),
		StartDate:       aws.ToTime(out.StartDate),
		StopDate:        out.StopDate,
		Input:           aws.ToString(out.Input),
		Output:          aws.ToString(out.Output),
		Error:           aws.ToString(out.Error),
		Cause:           aws.ToString(out.Cause),
	}, nil
}

// StartExecution starts the state machine with input marshalled as JSON. An
// empty name lets the engine generate one.
func (c *Client) StartExecution(ctx context.Context, stateMachineARN, name string, input any) (*Execution, error) {
	data, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("marshalling execution input: %w", err)
	}

	params := &sfn.StartExecutionInput{
		StateMachineArn: aws.String(stateMachineARN),
		Input:           aws.String(string(data)),
	}

	if name != "" {
		params.Name = aws.String(name)
	}

	out, err := c.api.StartExecution(ctx, params)
	if err != nil {
		var sm *types.StateMachineDoesNotExist
		if errors.As(err, &sm) {
			return nil, ErrNotExist
		}

		return nil, fmt.Errorf("starting execution of %s: %w", stateMachineARN, err)
	}

	c.log.Info().
		Str("state_machine", stateMachineARN).
		Str("execution", aws.ToString(out.ExecutionArn)).
		Msg("started execution")

	return &Execution{
		ARN:             aws.ToString(out.ExecutionArn),
		Name:            name,
		StateMachineARN: stateMachineARN,
		Status:          string(types.ExecutionStatusRunning),
		StartDate:       aws.ToTime(out.StartDate),
		Input:           string(data),
	}, nil
}

func (c *Client) SendTaskSuccess(ctx context.Context, taskToken string, output any) error {
	data, err := json.Marshal(output)
	if err != nil {
		return fmt.Errorf("marshalling task output: %w", err)
	}

	_, err = c.api.SendTaskSuccess(ctx, &sfn.SendTaskSuccessInput{
		TaskToken: aws.String(taskToken),
		Output:    aws.String(string(data)),
	})
	if err != nil {
		return taskError("completing task", err)
	}

	return nil
}

func (c *Client) SendTaskFailure(ctx context.Context, taskToken, errorCode, cause string) error {
	_, err := c.api.SendTaskFailure(ctx, &sfn.SendTaskFailureInput{
		TaskToken: aws.String(taskToken),
		Error:     aws.String(errorCode),
		Cause:     aws.String(cause),
	})
	if err != nil {
		return taskError("failing task", err)
	}

	return nil
}

func taskError(action string, err error) error {
	var ne *types.TaskDoesNotExist
	if errors.As(err, &ne) {
		return ErrNotExist
	}

	var to *types.TaskTimedOut
	if errors.As(err, &to) {
		return ErrNotExist
	}

	return fmt.Errorf("%s: %w", action, err)
}

func New(api API, log zerolog.Logger) *Client {
	return &Client{
		api: api,
		log: log,
	}
}

func NewFromConfig(cfg aws.Config, endpoint string, log zerolog.Logger) *Client {
	return New(sfn.NewFromConfig(cfg, func(o *sfn.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	}), log)
}
