package task

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/inkstone-ai/quorum/internal/redflag"
)

// Compile-time checks.
var (
	_ Codec = ObjectiveCodec{}
	_ Codec = RankedListCodec{}
	_ Codec = StructuredCodec{}
)

// ObjectiveCodec renders and parses research objective lists.
type ObjectiveCodec struct{}

// Render produces a prompt that pins the objective-list layout down hard;
// the format check rejects anything that drifts from it.
func (ObjectiveCodec) Render(req Request) Prompt {
	count := req.Count
	if count <= 0 {
		count = 3
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Write research objectives for: %s\n\n", req.Topic)
	fmt.Fprintf(&b, "Output exactly one general objective on the first line, ")
	fmt.Fprintf(&b, "then %d specific objectives numbered 1 to %d, one per line.\n", count, count)
	b.WriteString("State outcomes only. Do not mention methods, surveys, statistics, or sample sizes.\n")
	if req.Instructions != "" {
		b.WriteString("\n" + req.Instructions + "\n")
	}
	return Prompt{
		System: "You are an academic writing assistant. Answer with the requested layout and nothing else.",
		User:   b.String(),
	}
}

// Parse validates the layout contract and keys the list by its normalized
// entries, general first.
func (ObjectiveCodec) Parse(raw string) ParseOutcome {
	list, violation := redflag.ParseObjectiveList(raw)
	if violation != "" {
		return ParseOutcome{Reason: violation}
	}
	parts := append([]string{list.General}, list.Specific...)
	return ParseOutcome{OK: true, Content: list, Key: KeyFrom(parts...)}
}

// RankedListCodec renders and parses ordered identifier lists, used by both
// the citation-selection and ranking task classes. Order is significant:
// the same identifiers in a different order are a different answer.
type RankedListCodec struct {
	Kind Kind
}

func (c RankedListCodec) Render(req Request) Prompt {
	count := req.Count
	if count <= 0 {
		count = 5
	}
	verb := "Rank"
	if c.Kind == KindCitation {
		verb = "Select and rank the most relevant citations for"
	}
	user := fmt.Sprintf("%s: %s\n\nRespond with a JSON array of at most %d identifier strings, best first. No prose.\n", verb, req.Topic, count)
	if req.Instructions != "" {
		user += "\n" + req.Instructions + "\n"
	}
	return Prompt{
		System: "You are a ranking assistant. Respond with a single JSON array of strings.",
		User:   user,
	}
}

func (RankedListCodec) Parse(raw string) ParseOutcome {
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return ParseOutcome{Reason: "not a JSON array of strings: " + err.Error()}
	}
	if len(ids) == 0 {
		return ParseOutcome{Reason: "ranked list is empty"}
	}
	return ParseOutcome{OK: true, Content: ids, Key: KeyFrom(ids...)}
}

// StructuredCodec handles generic structured tasks: any JSON value, keyed by
// its canonical re-serialization (Go's encoder sorts object keys, so two
// equal values always serialize identically).
type StructuredCodec struct{}

func (StructuredCodec) Render(req Request) Prompt {
	user := fmt.Sprintf("Task: %s\n\nRespond with a single JSON value. No prose.\n", req.Topic)
	if req.Instructions != "" {
		user += "\n" + req.Instructions + "\n"
	}
	return Prompt{
		System: "You are a structured-output assistant. Respond with valid JSON only.",
		User:   user,
	}
}

func (StructuredCodec) Parse(raw string) ParseOutcome {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return ParseOutcome{Reason: "not valid JSON: " + err.Error()}
	}
	canonical, err := json.Marshal(v)
	if err != nil {
		return ParseOutcome{Reason: "cannot canonicalize value: " + err.Error()}
	}
	return ParseOutcome{OK: true, Content: v, Key: KeyFrom(string(canonical))}
}
