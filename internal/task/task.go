// Package task defines the per-task-class capability layer around the
// voting core: how a request is rendered into a prompt, how raw generator
// text is parsed back into a canonical value, and which voting profile a
// task class runs under. Task classes are selected by a tagged Kind rather
// than runtime attribute probing.
package task

import (
	"fmt"

	"github.com/inkstone-ai/quorum/internal/voting"
)

// Kind identifies a task class.
type Kind string

const (
	// KindObjective generates research objective lists: one general
	// objective followed by numbered specific objectives.
	KindObjective Kind = "objective"

	// KindCitation selects and orders citations; responses are JSON arrays
	// of citation identifiers.
	KindCitation Kind = "citation"

	// KindRanking produces ranking judgments; responses are JSON arrays of
	// item identifiers in ranked order.
	KindRanking Kind = "ranking"

	// KindStructured covers generic structured tasks; responses are
	// arbitrary JSON values keyed by their canonical serialization.
	KindStructured Kind = "structured"
)

// Valid reports whether k names a known task class.
func (k Kind) Valid() bool {
	switch k {
	case KindObjective, KindCitation, KindRanking, KindStructured:
		return true
	}
	return false
}

// Request describes one unit of consensus work for a task class.
type Request struct {
	Kind         Kind
	Topic        string // the subject the generators write about
	Instructions string // extra caller guidance appended to the prompt
	Count        int    // expected number of items, when the class has one
}

// Prompt is a rendered generator prompt.
type Prompt struct {
	System string
	User   string
}

// ParseOutcome is the explicit result of a parse attempt. An unparsable
// response is an ordinary inspectable outcome, not an error: errors are
// reserved for true misconfiguration.
type ParseOutcome struct {
	OK      bool
	Content any    // canonical parsed value, when OK
	Key     string // stable equivalence key, when OK
	Reason  string // why the parse failed, when !OK
}

// Codec is the capability interface a task class implements: rendering a
// request to a prompt and parsing raw text into a canonical value.
type Codec interface {
	Render(req Request) Prompt
	Parse(raw string) ParseOutcome
}

// CodecFor returns the codec for a task class.
func CodecFor(kind Kind) (Codec, error) {
	switch kind {
	case KindObjective:
		return ObjectiveCodec{}, nil
	case KindCitation:
		return RankedListCodec{Kind: KindCitation}, nil
	case KindRanking:
		return RankedListCodec{Kind: KindRanking}, nil
	case KindStructured:
		return StructuredCodec{}, nil
	default:
		return nil, fmt.Errorf("task: unknown kind %q", kind)
	}
}

// Canonicalizer adapts a codec's parse into the voting core's equivalence
// keying. Draws whose parse fails are reported unusable.
func Canonicalizer(c Codec) voting.CanonicalizeFunc {
	return func(raw voting.RawCandidate) (string, any, bool) {
		out := c.Parse(raw.Text)
		if !out.OK {
			return "", nil, false
		}
		return out.Key, out.Content, true
	}
}
