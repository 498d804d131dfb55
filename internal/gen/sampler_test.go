package gen

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkstone-ai/quorum/internal/pool"
)

type mockClient struct {
	generate func(ctx context.Context, endpoint string, req GenerateRequest) (*Job, error)
}

func (m *mockClient) Generate(ctx context.Context, endpoint string, req GenerateRequest) (*Job, error) {
	return m.generate(ctx, endpoint, req)
}

func (m *mockClient) GetJob(context.Context, string, GetJobRequest) (*Job, error) {
	return nil, errors.New("not implemented")
}

func (m *mockClient) CancelJob(context.Context, string, CancelJobRequest) (*Job, error) {
	return nil, errors.New("not implemented")
}

func (m *mockClient) Discover(context.Context, string) (*GeneratorCard, error) {
	return nil, errors.New("not implemented")
}

func TestNewSampler_RequiresEndpoints(t *testing.T) {
	_, err := NewSampler(&mockClient{}, nil)
	assert.Error(t, err)
}

func TestSamplerRotatesEndpoints(t *testing.T) {
	var hit []string
	client := &mockClient{
		generate: func(_ context.Context, endpoint string, _ GenerateRequest) (*Job, error) {
			hit = append(hit, endpoint)
			return &Job{
				ID:     NewJobID(),
				Status: JobStatus{State: JobStateDone},
				Output: &Output{Text: "candidate"},
			}, nil
		},
	}

	s, err := NewSampler(client, []string{"http://a", "http://b", "http://c"})
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		_, err := s.Draw(context.Background(), pool.Request{Prompt: "q"})
		require.NoError(t, err)
	}

	assert.Equal(t, []string{"http://a", "http://b", "http://c", "http://a", "http://b"}, hit)
}

func TestSamplerPassesTaskMeta(t *testing.T) {
	var got GenerateRequest
	client := &mockClient{
		generate: func(_ context.Context, _ string, req GenerateRequest) (*Job, error) {
			got = req
			return &Job{Status: JobStatus{State: JobStateDone}, Output: &Output{Text: "ok"}}, nil
		},
	}

	s, err := NewSampler(client, []string{"http://a"})
	require.NoError(t, err)

	raw, err := s.Draw(context.Background(), pool.Request{
		Prompt: "rendered prompt",
		Meta: map[string]string{
			"system":     "you are a ranker",
			"kind":       "ranking",
			"max_tokens": "400",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", raw.Text)
	assert.Equal(t, "rendered prompt", got.Prompt)
	assert.Equal(t, "you are a ranker", got.System)
	assert.Equal(t, "ranking", got.Kind)
	assert.Equal(t, 400, got.MaxTokens)
}

func TestSamplerSurfacesTransportErrors(t *testing.T) {
	client := &mockClient{
		generate: func(context.Context, string, GenerateRequest) (*Job, error) {
			return nil, errors.New("connection refused")
		},
	}

	s, err := NewSampler(client, []string{"http://a"})
	require.NoError(t, err)

	_, err = s.Draw(context.Background(), pool.Request{Prompt: "q"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "http://a")
}

func TestSamplerRejectsIncompleteJobs(t *testing.T) {
	tests := []struct {
		name string
		job  *Job
	}{
		{"failed job", &Job{ID: "j1", Status: JobStatus{State: JobStateFailed, Note: "overloaded"}}},
		{"done without output", &Job{ID: "j2", Status: JobStatus{State: JobStateDone}}},
		{"still generating", &Job{ID: "j3", Status: JobStatus{State: JobStateGenerating}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &mockClient{
				generate: func(context.Context, string, GenerateRequest) (*Job, error) {
					return tt.job, nil
				},
			}
			s, err := NewSampler(client, []string{"http://a"})
			require.NoError(t, err)

			_, err = s.Draw(context.Background(), pool.Request{Prompt: "q"})
			assert.Error(t, err)
		})
	}
}
