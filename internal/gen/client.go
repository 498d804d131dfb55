package gen

import "context"

// Client is the interface for talking to generator agents.
type Client interface {
	// Generate sends one prompt to an agent and blocks until the job
	// reaches a terminal state, returning the completed job.
	Generate(ctx context.Context, endpoint string, req GenerateRequest) (*Job, error)

	// GetJob retrieves a job by ID from a specific agent.
	GetJob(ctx context.Context, endpoint string, req GetJobRequest) (*Job, error)

	// CancelJob cancels a running job.
	CancelJob(ctx context.Context, endpoint string, req CancelJobRequest) (*Job, error)

	// Discover fetches the generator card from an agent's well-known URI.
	Discover(ctx context.Context, baseURL string) (*GeneratorCard, error)
}
