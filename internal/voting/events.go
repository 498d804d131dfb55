package voting

import "fmt"

// RoundStatus is the outcome of one loop iteration within a session.
type RoundStatus string

const (
	RoundInvalid   RoundStatus = "invalid"   // draw errored or was unusable
	RoundFlagged   RoundStatus = "flagged"   // draw screened out before tallying
	RoundCounted   RoundStatus = "counted"   // draw became a vote
	RoundConsensus RoundStatus = "consensus" // margin reached, session done
	RoundExhausted RoundStatus = "exhausted" // round budget spent
)

// RoundEvent is emitted once per loop iteration plus once at termination.
type RoundEvent struct {
	Round   int
	Status  RoundStatus
	Key     string // equivalence key, when one was produced
	Votes   int    // key's vote count after this round
	Message string
}

// Reporter emits round events through a buffered channel.
type Reporter struct {
	ch chan RoundEvent
}

// NewReporter creates a Reporter with a buffered channel of size 64.
func NewReporter() *Reporter {
	return &Reporter{ch: make(chan RoundEvent, 64)}
}

// Emit sends an event in a non-blocking fashion. If the channel is full the
// event is silently dropped; progress is advisory, never load-bearing.
func (r *Reporter) Emit(ev RoundEvent) {
	select {
	case r.ch <- ev:
	default:
	}
}

// Subscribe returns a read-only channel for consuming round events.
func (r *Reporter) Subscribe() <-chan RoundEvent {
	return r.ch
}

// Close closes the event channel.
func (r *Reporter) Close() {
	close(r.ch)
}

// FormatEvent renders an event as a human-readable status line.
func FormatEvent(ev RoundEvent) string {
	switch ev.Status {
	case RoundCounted:
		return fmt.Sprintf("  round %d: +1 vote for %.12s (%d)", ev.Round, ev.Key, ev.Votes)
	case RoundFlagged:
		return fmt.Sprintf("  round %d: draw flagged: %s", ev.Round, ev.Message)
	case RoundInvalid:
		return fmt.Sprintf("  round %d: draw invalid: %s", ev.Round, ev.Message)
	case RoundConsensus:
		return fmt.Sprintf("  round %d: consensus on %.12s with %d votes", ev.Round, ev.Key, ev.Votes)
	case RoundExhausted:
		return fmt.Sprintf("  round %d: budget exhausted (%s)", ev.Round, ev.Message)
	default:
		return fmt.Sprintf("  round %d: %s", ev.Round, ev.Status)
	}
}
