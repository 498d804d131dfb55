package gen

import (
	"context"
	"fmt"
	"strconv"
	"sync/atomic"

	"github.com/inkstone-ai/quorum/internal/pool"
	"github.com/inkstone-ai/quorum/internal/voting"
)

// Sampler binds a generator client and a set of agent endpoints into the
// draw function the admission pool expects. Successive draws rotate through
// the endpoints so no single agent's failure mode dominates the tally.
type Sampler struct {
	client    Client
	endpoints []string
	next      atomic.Int64
}

// NewSampler creates a Sampler over the given endpoints.
func NewSampler(client Client, endpoints []string) (*Sampler, error) {
	if len(endpoints) == 0 {
		return nil, fmt.Errorf("gen: sampler needs at least one endpoint")
	}
	return &Sampler{client: client, endpoints: endpoints}, nil
}

// Draw produces one raw candidate for req. It satisfies pool.DrawFunc.
func (s *Sampler) Draw(ctx context.Context, req pool.Request) (voting.RawCandidate, error) {
	endpoint := s.endpoints[int(s.next.Add(1)-1)%len(s.endpoints)]

	genReq := GenerateRequest{
		Prompt: req.Prompt,
		System: req.Meta["system"],
		Kind:   req.Meta["kind"],
	}
	if mt := req.Meta["max_tokens"]; mt != "" {
		genReq.MaxTokens, _ = strconv.Atoi(mt)
	}

	job, err := s.client.Generate(ctx, endpoint, genReq)
	if err != nil {
		return voting.RawCandidate{}, fmt.Errorf("gen: draw from %s: %w", endpoint, err)
	}
	if job.Status.State != JobStateDone || job.Output == nil {
		return voting.RawCandidate{}, fmt.Errorf("gen: draw from %s: job %s ended %s: %s",
			endpoint, job.ID, job.Status.State, job.Status.Note)
	}
	return voting.RawCandidate{Text: job.Output.Text}, nil
}
