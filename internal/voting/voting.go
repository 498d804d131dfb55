// Package voting implements the first-to-ahead-by-k consensus protocol:
// a sequential loop that draws candidates from a stochastic generator,
// screens each draw, tallies the survivors by equivalence key, and halts
// once the leading key is ahead of the runner-up by a fixed margin k.
package voting

import (
	"context"
	"errors"

	"github.com/inkstone-ai/quorum/internal/redflag"
)

// RawCandidate is one opaque draw from a generator: the response text plus
// whatever parsed structure the producer attached. It is consumed within a
// single voting round and never retained.
type RawCandidate struct {
	Text string
	Data any
}

// SampleFunc draws one candidate. It is the only suspension point in a
// voting session and may perform arbitrary I/O internally.
type SampleFunc func(ctx context.Context) (RawCandidate, error)

// ScreenFunc screens one raw draw before it may be counted. A flagged draw
// consumes a sample but never becomes a vote.
type ScreenFunc func(raw RawCandidate) redflag.Result

// CanonicalizeFunc converts a screened draw into a stable equivalence key
// and its canonical content. ok reports whether the draw was usable; an
// unusable draw is counted as an invalid sample, not an error.
type CanonicalizeFunc func(raw RawCandidate) (key string, content any, ok bool)

// Candidate is one generator's screened, canonicalized answer.
type Candidate struct {
	Content     any
	Confidence  float64
	Flagged     bool
	FlagReasons []string
}

// Metrics describes one completed voting session. Immutable once returned.
type Metrics struct {
	VotingRounds      int  `json:"votingRounds"`
	TotalSamples      int  `json:"totalSamples"`
	ValidSamples      int  `json:"validSamples"`
	InvalidSamples    int  `json:"invalidSamples"`
	WinnerVotes       int  `json:"winnerVotes"`
	RunnerUpVotes     int  `json:"runnerUpVotes"`
	ConsensusAchieved bool `json:"consensusAchieved"`
}

// Config holds the per-task-class voting parameters. Constructed once and
// shared read-only across every session of that class.
type Config struct {
	// K is the vote margin the leader must reach over the runner-up.
	K int

	// MaxRounds caps loop iterations (draws), so a run of flagged or
	// unusable draws still terminates.
	MaxRounds int
}

// ErrBadConfig marks an invalid orchestrator or model configuration. It is
// reported at construction time and never recovered locally.
var ErrBadConfig = errors.New("voting: invalid configuration")

// ErrNoConsensus is returned when a session exhausts its round budget
// without a single valid sample. There is no winner to return, even a
// best-effort one; the caller must fall back.
var ErrNoConsensus = errors.New("voting: no valid samples before round limit")
