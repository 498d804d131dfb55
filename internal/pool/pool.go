// Package pool bounds how many candidate-generation calls are outstanding
// at once. One Pool instance is shared by every concurrent voting session;
// each draw acquires one admission slot and releases it on every exit path,
// so a stalled or canceled session can never starve the others.
package pool

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/inkstone-ai/quorum/internal/voting"
	"golang.org/x/sync/semaphore"
)

// DefaultConcurrency is the admission bound used when none is configured.
const DefaultConcurrency = 10

// Request describes one voting session's generation work. The pool treats
// it as opaque and passes it through to the draw function on every round.
type Request struct {
	// Prompt is the rendered prompt the generator should answer.
	Prompt string

	// Meta carries task-class parameters the draw function may need.
	Meta map[string]string
}

// DrawFunc produces one raw candidate for a request. It may perform
// arbitrary I/O; the pool guarantees at most N invocations are in flight
// across all sessions.
type DrawFunc func(ctx context.Context, req Request) (voting.RawCandidate, error)

// Pool is the shared admission controller for candidate draws.
type Pool struct {
	sem      *semaphore.Weighted
	size     int64
	inFlight atomic.Int64
}

// New creates a Pool admitting at most n concurrent draws. n <= 0 selects
// DefaultConcurrency.
func New(n int) *Pool {
	if n <= 0 {
		n = DefaultConcurrency
	}
	return &Pool{
		sem:  semaphore.NewWeighted(int64(n)),
		size: int64(n),
	}
}

// Size returns the configured admission bound.
func (p *Pool) Size() int {
	return int(p.size)
}

// InFlight returns the number of draws currently holding a slot.
func (p *Pool) InFlight() int {
	return int(p.inFlight.Load())
}

// Run executes one full voting session for agentID: it binds req to draw,
// wraps each draw in slot acquisition, and hands the guarded sampler to the
// orchestrator's vote loop.
//
// The slot is released on every exit path - success, flagged draw, draw
// error, or cancellation. A draw that fails is surfaced to the orchestrator,
// which counts it as an invalid sample and keeps drawing; the session only
// aborts on context cancellation or a hard no-consensus outcome.
func (p *Pool) Run(ctx context.Context, agentID string, orch *voting.Orchestrator, req Request, draw DrawFunc) (voting.Candidate, voting.Metrics, error) {
	sample := func(ctx context.Context) (voting.RawCandidate, error) {
		if err := p.sem.Acquire(ctx, 1); err != nil {
			return voting.RawCandidate{}, fmt.Errorf("pool: acquire slot: %w", err)
		}
		p.inFlight.Add(1)
		defer func() {
			p.inFlight.Add(-1)
			p.sem.Release(1)
		}()
		return draw(ctx, req)
	}

	winner, metrics, err := orch.Vote(ctx, sample)
	if err != nil {
		return winner, metrics, fmt.Errorf("pool: session %q: %w", agentID, err)
	}
	return winner, metrics, nil
}
