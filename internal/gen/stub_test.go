package gen

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStubGeneratorLifecycle(t *testing.T) {
	stub := NewStubGenerator(func(_ context.Context, req GenerateRequest) (string, error) {
		return "echo: " + req.Prompt, nil
	})

	job, err := stub.HandleGenerate(context.Background(), GenerateRequest{
		SessionID: "sess-1",
		Prompt:    "hello",
	})
	require.NoError(t, err)
	require.NotNil(t, job)
	assert.Equal(t, JobStateDone, job.Status.State)
	assert.Equal(t, "sess-1", job.SessionID)
	require.NotNil(t, job.Output)
	assert.Equal(t, "echo: hello", job.Output.Text)

	// The same job is visible through jobs/get.
	got, err := stub.HandleGetJob(context.Background(), GetJobRequest{ID: job.ID})
	require.NoError(t, err)
	assert.Equal(t, JobStateDone, got.Status.State)
}

func TestStubGeneratorFailure(t *testing.T) {
	genErr := errors.New("provider overloaded")
	stub := NewStubGenerator(func(context.Context, GenerateRequest) (string, error) {
		return "", genErr
	})

	job, err := stub.HandleGenerate(context.Background(), GenerateRequest{Prompt: "q"})
	require.ErrorIs(t, err, genErr)
	require.NotNil(t, job)
	assert.Equal(t, JobStateFailed, job.Status.State)
	assert.Equal(t, "provider overloaded", job.Status.Note)
	assert.Nil(t, job.Output)
}

func TestStubGeneratorCancel(t *testing.T) {
	stub := NewStubGenerator(func(context.Context, GenerateRequest) (string, error) {
		return "done", nil
	})

	job, err := stub.HandleGenerate(context.Background(), GenerateRequest{Prompt: "q"})
	require.NoError(t, err)

	// A terminal job stays terminal: cancel is a no-op on done jobs.
	canceled, err := stub.HandleCancelJob(context.Background(), CancelJobRequest{ID: job.ID})
	require.NoError(t, err)
	assert.Equal(t, JobStateDone, canceled.Status.State)

	_, err = stub.HandleCancelJob(context.Background(), CancelJobRequest{ID: "missing"})
	assert.Error(t, err)
}
