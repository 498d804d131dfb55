package task

import (
	"fmt"

	"github.com/inkstone-ai/quorum/internal/redflag"
	"github.com/inkstone-ai/quorum/internal/reliability"
	"github.com/inkstone-ai/quorum/internal/voting"
)

// Profile is the per-task-class voting configuration: margin, round budget,
// token budget, and which red-flag checks screen the draws. Constructed once
// per class and shared read-only across sessions.
type Profile struct {
	Kind      Kind
	K         int
	MaxRounds int
	MaxTokens int
	Checks    []redflag.Check
}

// DefaultProfile returns the illustrative defaults for a task class. These
// are starting points; production callers derive K from a reliability
// target via DeriveMargin.
func DefaultProfile(kind Kind) Profile {
	p := Profile{
		Kind:      kind,
		K:         2,
		MaxRounds: 12,
		MaxTokens: 750,
		Checks:    []redflag.Check{redflag.CheckLength, redflag.CheckFormat},
	}
	switch kind {
	case KindObjective:
		p.Checks = append(p.Checks, redflag.CheckDomainQuality)
	case KindCitation, KindRanking:
		p.MaxTokens = 400
	}
	return p
}

// DeriveMargin replaces the profile's margin with one computed from a
// per-step success probability, step count, and end-to-end target.
func (p Profile) DeriveMargin(pStep float64, steps int, target float64) (Profile, error) {
	k, err := reliability.EstimateKMin(pStep, steps, target)
	if err != nil {
		return p, err
	}
	p.K = k
	return p, nil
}

// DetectorContext builds the screening context for this task class.
func (p Profile) DetectorContext() redflag.Context {
	ctx := redflag.Context{
		TaskType:  string(p.Kind),
		MaxTokens: p.MaxTokens,
	}
	switch p.Kind {
	case KindObjective:
		ctx.ExpectedFormat = redflag.FormatObjectiveList
	case KindCitation, KindRanking:
		ctx.ExpectedFormat = redflag.FormatJSON
		ctx.ExpectedType = redflag.TypeArray
	default:
		ctx.ExpectedFormat = redflag.FormatJSON
	}
	return ctx
}

// Screen builds the voting-core screening function for this profile.
func (p Profile) Screen() voting.ScreenFunc {
	det := redflag.New(p.Checks...)
	ctx := p.DetectorContext()
	return func(raw voting.RawCandidate) redflag.Result {
		return det.Detect(raw.Text, ctx)
	}
}

// Orchestrator wires the profile into a ready voting orchestrator: the
// class's screen function plus the class codec's canonicalizer.
func (p Profile) Orchestrator() (*voting.Orchestrator, error) {
	codec, err := CodecFor(p.Kind)
	if err != nil {
		return nil, fmt.Errorf("task: profile for %q: %w", p.Kind, err)
	}
	return voting.New(
		voting.Config{K: p.K, MaxRounds: p.MaxRounds},
		p.Screen(),
		Canonicalizer(codec),
	)
}
