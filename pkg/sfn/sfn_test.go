package sfn_test

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awssfn "github.com/aws/aws-sdk-go-v2/service/sfn"
	"github.com/aws/aws-sdk-go-v2/service/sfn/types"
	"github.com/datamesh/mesh-console/pkg/sfn"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const stateMachineARN = "arn:aws:states:eu-west-1:123456789012:stateMachine:access-request"

type fakeAPI struct {
	listInput    *awssfn.ListExecutionsInput
	startInput   *awssfn.StartExecutionInput
	successInput *awssfn.SendTaskSuccessInput
	failureInput *awssfn.SendTaskFailureInput
}

func (f *fakeAPI) ListExecutions(_ context.Context, params *awssfn.ListExecutionsInput, _ ...func(*awssfn.Options)) (*awssfn.ListExecutionsOutput, error) {
	f.listInput = params

	start := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

	return &awssfn.ListExecutionsOutput{
		Executions: []types.ExecutionListItem{
			{
				ExecutionArn:    aws.String(stateMachineARN + ":exec-1"),
				Name:            aws.String("exec-1"),
				StateMachineArn: aws.String(stateMachineARN),
				Status:          types.ExecutionStatusSucceeded,
				StartDate:       &start,
			},
		},
	}, nil
}

func (f *fakeAPI) DescribeExecution(_ context.Context, params *awssfn.DescribeExecutionInput, _ ...func(*awssfn.Options)) (*awssfn.DescribeExecutionOutput, error) {
	if aws.ToString(params.ExecutionArn) != stateMachineARN+":exec-1" {
		return nil, &types.ExecutionDoesNotExist{Message: aws.String("no such execution")}
	}

	return &awssfn.DescribeExecutionOutput{
		ExecutionArn:    params.ExecutionArn,
		Name:            aws.String("exec-1"),
		StateMachineArn: aws.String(stateMachineARN),
		Status:          types.ExecutionStatusFailed,
		Input:           aws.String(`{"source":{}}`),
		Error:           aws.String("Denied"),
		Cause:           aws.String("not needed"),
	}, nil
}

func (f *fakeAPI) StartExecution(_ context.Context, params *awssfn.StartExecutionInput, _ ...func(*awssfn.Options)) (*awssfn.StartExecutionOutput, error) {
	f.startInput = params

	return &awssfn.StartExecutionOutput{
		ExecutionArn: aws.String(stateMachineARN + ":exec-2"),
		StartDate:    aws.Time(time.Date(2024, time.March, 2, 12, 0, 0, 0, time.UTC)),
	}, nil
}

func (f *fakeAPI) SendTaskSuccess(_ context.Context, params *awssfn.SendTaskSuccessInput, _ ...func(*awssfn.Options)) (*awssfn.SendTaskSuccessOutput, error) {
	f.successInput = params

	return &awssfn.SendTaskSuccessOutput{}, nil
}

func (f *fakeAPI) SendTaskFailure(_ context.Context, params *awssfn.SendTaskFailureInput, _ ...func(*awssfn.Options)) (*awssfn.SendTaskFailureOutput, error) {
	f.failureInput = params

	if aws.ToString(params.TaskToken) == "expired" {
		return nil, &types.TaskTimedOut{Message: aws.String("timed out")}
	}

	return &awssfn.SendTaskFailureOutput{}, nil
}

func TestClient_ListExecutions(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name       string
		maxResults int
		expect     int32
	}{
		{name: "Default when unset", maxResults: 0, expect: sfn.DefaultMaxResults},
		{name: "Default when above limit", maxResults: 5000, expect: sfn.DefaultMaxResults},
		{name: "Configured", maxResults: 25, expect: 25},
	}

	for _, tc := range testCases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			api := &fakeAPI{}

			got, err := sfn.New(api, zerolog.Nop()).ListExecutions(context.Background(), stateMachineARN, tc.maxResults)
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, tc.expect, api.listInput.MaxResults)
			assert.Equal(t, "SUCCEEDED", got[0].Status)
			assert.Nil(t, got[0].StopDate)
		})
	}
}

func TestClient_DescribeExecution(t *testing.T) {
	t.Parallel()

	client := sfn.New(&fakeAPI{}, zerolog.Nop())

	got, err := client.DescribeExecution(context.Background(), stateMachineARN+":exec-1")
	require.NoError(t, err)
	assert.Equal(t, "FAILED", got.Status)
	assert.Equal(t, "Denied", got.Error)
	assert.Equal(t, "not needed", got.Cause)

	_, err = client.DescribeExecution(context.Background(), stateMachineARN+":unknown")
	assert.ErrorIs(t, err, sfn.ErrNotExist)
}

func TestClient_StartExecution(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{}

	got, err := sfn.New(api, zerolog.Nop()).StartExecution(context.Background(), stateMachineARN, "", map[string]string{
		"database": "sales",
	})
	require.NoError(t, err)
	assert.Equal(t, stateMachineARN+":exec-2", got.ARN)
	assert.Equal(t, "RUNNING", got.Status)
	assert.Nil(t, api.startInput.Name)
	assert.JSONEq(t, `{"database":"sales"}`, aws.ToString(api.startInput.Input))
}

func TestClient_SendTask(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{}
	client := sfn.New(api, zerolog.Nop())

	err := client.SendTaskSuccess(context.Background(), "token", map[string]string{"status": "approved"})
	require.NoError(t, err)
	assert.Equal(t, "token", aws.ToString(api.successInput.TaskToken))
	assert.JSONEq(t, `{"status":"approved"}`, aws.ToString(api.successInput.Output))

	err = client.SendTaskFailure(context.Background(), "token", "Denied", "not needed")
	require.NoError(t, err)
	assert.Equal(t, "Denied", aws.ToString(api.failureInput.Error))

	err = client.SendTaskFailure(context.Background(), "expired", "Denied", "too late")
	assert.ErrorIs(t, err, sfn.ErrNotExist)
}
