package gen

import (
	"context"
	"fmt"
	"time"
)

// Compile-time interface check.
var _ Handler = (*StubGenerator)(nil)

// GenerateFunc produces the text for one generation call. Implementations
// may be deterministic fixtures (tests) or wrap a real provider SDK.
type GenerateFunc func(ctx context.Context, req GenerateRequest) (string, error)

// StubGenerator is a Handler around a GenerateFunc plus a JobStore. It is
// the in-process generator used by tests and by the local agents command;
// real deployments put a provider-backed GenerateFunc behind the same
// server.
type StubGenerator struct {
	store    *JobStore
	generate GenerateFunc
}

// NewStubGenerator creates a StubGenerator around fn.
func NewStubGenerator(fn GenerateFunc) *StubGenerator {
	return &StubGenerator{
		store:    NewJobStore(),
		generate: fn,
	}
}

// HandleGenerate tracks a job through its lifecycle while fn produces the
// candidate text.
func (g *StubGenerator) HandleGenerate(ctx context.Context, req GenerateRequest) (*Job, error) {
	job := Job{
		ID:        NewJobID(),
		SessionID: req.SessionID,
		Status:    JobStatus{State: JobStateQueued, Timestamp: time.Now()},
	}
	if err := g.store.Create(job); err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}

	if err := g.store.Update(job.ID, func(j *Job) {
		j.Status = JobStatus{State: JobStateGenerating, Timestamp: time.Now()}
	}); err != nil {
		return nil, fmt.Errorf("update job to generating: %w", err)
	}

	text, err := g.generate(ctx, req)
	if err != nil {
		_ = g.store.Update(job.ID, func(j *Job) {
			j.Status = JobStatus{State: JobStateFailed, Note: err.Error(), Timestamp: time.Now()}
		})
		result, _ := g.store.Get(job.ID)
		return result, err
	}

	if err := g.store.Update(job.ID, func(j *Job) {
		j.Status = JobStatus{State: JobStateDone, Timestamp: time.Now()}
		j.Output = &Output{Text: text, Tokens: len(text) / 4}
	}); err != nil {
		return nil, fmt.Errorf("update job to done: %w", err)
	}

	return g.store.Get(job.ID)
}

// HandleGetJob retrieves a job by ID from the store.
func (g *StubGenerator) HandleGetJob(_ context.Context, req GetJobRequest) (*Job, error) {
	return g.store.Get(req.ID)
}

// HandleCancelJob cancels a job if it is not in a terminal state.
func (g *StubGenerator) HandleCancelJob(_ context.Context, req CancelJobRequest) (*Job, error) {
	err := g.store.Update(req.ID, func(j *Job) {
		if !j.Status.State.IsTerminal() {
			j.Status = JobStatus{State: JobStateCanceled, Timestamp: time.Now()}
		}
	})
	if err != nil {
		return nil, err
	}
	return g.store.Get(req.ID)
}
