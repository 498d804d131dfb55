// Package redflag screens raw generator output for unreliability signals
// before it is allowed to count as a vote. Detection is a pure function of
// the response text and a task context: it never returns an error and never
// panics outward. A check that cannot complete degrades to "flagged".
package redflag

// Check identifies one togglable screening heuristic.
type Check string

const (
	// CheckLength flags responses whose estimated token count exceeds the
	// task's budget. Overlong responses correlate with generator loops.
	CheckLength Check = "length"

	// CheckFormat flags responses that fail to parse against the expected
	// format or violate the task's layout contract.
	CheckFormat Check = "format"

	// CheckDomainQuality flags objective-style responses that embed
	// methodology details or lean on vague hedging.
	CheckDomainQuality Check = "domain_quality"
)

// Severity ranks how strongly a triggered check predicts a bad candidate.
type Severity int

const (
	SeverityNone Severity = iota
	SeverityMinor
	SeverityModerate
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityNone:
		return "none"
	case SeverityMinor:
		return "minor"
	case SeverityModerate:
		return "moderate"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// Format names the expected shape of a response.
type Format string

const (
	// FormatText accepts any non-empty text; no structural parse is attempted.
	FormatText Format = "text"

	// FormatJSON parses the response as JSON and checks the top-level value
	// against the expected value type.
	FormatJSON Format = "json"

	// FormatObjectiveList enforces the objective-list layout: exactly one
	// unnumbered general objective followed by sequentially numbered
	// specific objectives starting at 1.
	FormatObjectiveList Format = "objective-list"
)

// ValueType names the expected top-level JSON value for FormatJSON.
type ValueType string

const (
	TypeAny    ValueType = ""
	TypeArray  ValueType = "array"
	TypeObject ValueType = "object"
	TypeString ValueType = "string"
)

// Context carries the task-class parameters a detection run needs.
type Context struct {
	// TaskType identifies the task class (e.g. "objective", "citation").
	TaskType string

	// ExpectedFormat selects the format check's parse strategy.
	ExpectedFormat Format

	// ExpectedType constrains the top-level JSON value for FormatJSON.
	ExpectedType ValueType

	// MaxTokens is the response token budget for the length check.
	MaxTokens int
}

// Result aggregates every triggered reason for one screened response.
type Result struct {
	ShouldFlag bool
	Reasons    []string // in check-evaluation order
	Severity   Severity // maximum severity among triggered reasons
	Details    map[string]any
}
