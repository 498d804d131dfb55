package voting

import (
	"context"
	"fmt"
	"strings"
)

// Orchestrator runs voting sessions for one task class. It is safe for
// concurrent use: each Vote call owns its tally and round counter, and the
// configuration is read-only after construction.
type Orchestrator struct {
	cfg      Config
	screen   ScreenFunc
	canon    CanonicalizeFunc
	reporter *Reporter
}

// New creates an Orchestrator. screen may be nil to skip screening; canon
// may be nil to key candidates by whitespace-normalized, lowercased text.
// K and MaxRounds must both be positive; misconfiguration fails fast here
// rather than looping incorrectly later.
func New(cfg Config, screen ScreenFunc, canon CanonicalizeFunc) (*Orchestrator, error) {
	if cfg.K <= 0 {
		return nil, fmt.Errorf("%w: margin k must be positive, got %d", ErrBadConfig, cfg.K)
	}
	if cfg.MaxRounds <= 0 {
		return nil, fmt.Errorf("%w: max rounds must be positive, got %d", ErrBadConfig, cfg.MaxRounds)
	}
	if canon == nil {
		canon = textCanonicalizer
	}
	return &Orchestrator{
		cfg:      cfg,
		screen:   screen,
		canon:    canon,
		reporter: NewReporter(),
	}, nil
}

// Config returns the orchestrator's voting parameters.
func (o *Orchestrator) Config() Config {
	return o.cfg
}

// Progress returns a channel of per-round events for this orchestrator.
func (o *Orchestrator) Progress() <-chan RoundEvent {
	return o.reporter.Subscribe()
}

// Close shuts down the progress reporter.
func (o *Orchestrator) Close() {
	o.reporter.Close()
}

// Vote runs one first-to-ahead-by-k session against sample.
//
// Each iteration draws one candidate (the loop's only suspension point),
// screens it, and tallies it. Flagged or unusable draws count toward
// TotalSamples but neither the tally nor the round counter. After every
// valid draw the top-two margin is checked against k; a missing runner-up
// counts as zero, so a single key with k votes is valid consensus.
//
// When the round budget runs out the current leader is returned best-effort
// with ConsensusAchieved false. If the budget runs out with zero valid
// samples the error wraps ErrNoConsensus; the returned candidate is then the
// last flagged draw, carried for inspection only.
// Draw errors are recovered locally as invalid samples; only context
// cancellation aborts a session early.
func (o *Orchestrator) Vote(ctx context.Context, sample SampleFunc) (Candidate, Metrics, error) {
	var metrics Metrics
	var lastFlagged Candidate
	votes := newTally()

	// MaxRounds caps loop iterations (draws). VotingRounds counts only the
	// draws that became votes, so flagged draws cannot stall termination.
	for draw := 0; draw < o.cfg.MaxRounds; draw++ {
		raw, err := sample(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return Candidate{}, metrics, fmt.Errorf("voting: session canceled: %w", ctx.Err())
			}
			metrics.TotalSamples++
			metrics.InvalidSamples++
			o.reporter.Emit(RoundEvent{Round: metrics.VotingRounds, Status: RoundInvalid, Message: err.Error()})
			continue
		}
		metrics.TotalSamples++

		if o.screen != nil {
			if res := o.screen(raw); res.ShouldFlag {
				metrics.InvalidSamples++
				lastFlagged = Candidate{Content: raw.Text, Flagged: true, FlagReasons: res.Reasons}
				o.reporter.Emit(RoundEvent{
					Round:   metrics.VotingRounds,
					Status:  RoundFlagged,
					Message: strings.Join(res.Reasons, "; "),
				})
				continue
			}
		}

		key, content, ok := o.canon(raw)
		if !ok {
			metrics.InvalidSamples++
			o.reporter.Emit(RoundEvent{Round: metrics.VotingRounds, Status: RoundInvalid, Message: "uncanonicalizable draw"})
			continue
		}

		metrics.ValidSamples++
		metrics.VotingRounds++
		round := metrics.VotingRounds
		count := votes.add(key, Candidate{Content: content})
		o.reporter.Emit(RoundEvent{Round: round, Status: RoundCounted, Key: key, Votes: count})

		leader, runner := votes.topTwo()
		runnerVotes := 0
		if runner != nil {
			runnerVotes = runner.count
		}
		if leader.count-runnerVotes >= o.cfg.K {
			metrics.WinnerVotes = leader.count
			metrics.RunnerUpVotes = runnerVotes
			metrics.ConsensusAchieved = true
			o.reporter.Emit(RoundEvent{Round: round, Status: RoundConsensus, Key: leader.key, Votes: leader.count})
			return o.winner(leader, metrics), metrics, nil
		}
	}

	if metrics.ValidSamples == 0 {
		o.reporter.Emit(RoundEvent{Round: metrics.VotingRounds, Status: RoundExhausted, Message: "no valid samples"})
		// The last flagged draw rides along for inspection; it is never a
		// winner.
		return lastFlagged, metrics, fmt.Errorf("voting: %d draws all invalid: %w", metrics.TotalSamples, ErrNoConsensus)
	}

	// Budget exhausted: favor liveness and return the tally leader. The
	// caller can tell this degraded outcome apart via ConsensusAchieved.
	leader, runner := votes.topTwo()
	metrics.WinnerVotes = leader.count
	if runner != nil {
		metrics.RunnerUpVotes = runner.count
	}
	o.reporter.Emit(RoundEvent{Round: metrics.VotingRounds, Status: RoundExhausted, Key: leader.key, Votes: leader.count})
	return o.winner(leader, metrics), metrics, nil
}

// winner builds the returned candidate, setting its confidence to the
// winner's share of valid samples.
func (o *Orchestrator) winner(e *tallyEntry, m Metrics) Candidate {
	c := e.cand
	if m.ValidSamples > 0 {
		c.Confidence = float64(e.count) / float64(m.ValidSamples)
	}
	return c
}

// textCanonicalizer is the default equivalence keying: lowercased,
// whitespace-collapsed response text. Empty text is unusable.
func textCanonicalizer(raw RawCandidate) (string, any, bool) {
	norm := strings.Join(strings.Fields(strings.ToLower(raw.Text)), " ")
	if norm == "" {
		return "", nil, false
	}
	return norm, raw.Text, true
}
