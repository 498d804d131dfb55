package redflag

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// estimateTokens approximates the token count of a response as one token per
// four characters. Good enough for a budget check; exact tokenization is the
// provider's business.
func estimateTokens(text string) int {
	return len(text) / 4
}

// checkLength flags responses whose estimated token count exceeds the
// context's MaxTokens budget. Disabled when MaxTokens <= 0.
func checkLength(text string, ctx Context) ([]string, Severity, map[string]any) {
	if ctx.MaxTokens <= 0 {
		return nil, SeverityNone, nil
	}
	est := estimateTokens(text)
	if est <= ctx.MaxTokens {
		return nil, SeverityNone, nil
	}
	reason := fmt.Sprintf("response length ~%d tokens exceeds budget of %d", est, ctx.MaxTokens)
	return []string{reason}, SeverityModerate, map[string]any{
		"estimated_tokens": est,
		"max_tokens":       ctx.MaxTokens,
	}
}

// checkFormat parses the response against the expected format. Any parse
// failure or layout violation is critical: format breaks are the strongest
// predictor of downstream errors and are never tolerated silently.
func checkFormat(text string, ctx Context) ([]string, Severity, map[string]any) {
	switch ctx.ExpectedFormat {
	case FormatJSON:
		if reason := validateJSON(text, ctx.ExpectedType); reason != "" {
			return []string{reason}, SeverityCritical, map[string]any{"format": string(FormatJSON)}
		}
	case FormatObjectiveList:
		if _, violation := ParseObjectiveList(text); violation != "" {
			return []string{violation}, SeverityCritical, map[string]any{"format": string(FormatObjectiveList)}
		}
	case FormatText, "":
		if strings.TrimSpace(text) == "" {
			return []string{"response is empty"}, SeverityCritical, nil
		}
	}
	return nil, SeverityNone, nil
}

// validateJSON checks that text is well-formed JSON whose top-level value
// matches want. Empty reason means the response passed.
func validateJSON(text string, want ValueType) string {
	var v any
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return "response is not valid JSON: " + err.Error()
	}
	switch want {
	case TypeArray:
		if _, ok := v.([]any); !ok {
			return fmt.Sprintf("expected a JSON array, got %T", v)
		}
	case TypeObject:
		if _, ok := v.(map[string]any); !ok {
			return fmt.Sprintf("expected a JSON object, got %T", v)
		}
	case TypeString:
		if _, ok := v.(string); !ok {
			return fmt.Sprintf("expected a JSON string, got %T", v)
		}
	}
	return ""
}

// ObjectiveList is the parsed form of an objective-list response.
type ObjectiveList struct {
	General  string
	Specific []string
}

// numberedRe matches a numbered list item like "1. text" or "2) text".
var numberedRe = regexp.MustCompile(`^(\d+)[.)]\s*(.+)$`)

// ParseObjectiveList validates the objective-list layout contract: exactly
// one unnumbered general entry first, then specific entries numbered
// sequentially from 1. The second return value is a human-readable violation
// description; empty means the layout is valid. Parsing never fails with an
// error: an unparsable response is an ordinary inspectable outcome.
func ParseObjectiveList(text string) (ObjectiveList, string) {
	var list ObjectiveList

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	if len(lines) == 0 {
		return list, "objective list is empty"
	}

	first := lines[0]
	if numberedRe.MatchString(first) {
		return list, "objective list must begin with one unnumbered general objective"
	}
	// Tolerate an explicit "General:" label on the first entry.
	list.General = strings.TrimSpace(strings.TrimPrefix(first, "General:"))
	if list.General == "" {
		return list, "general objective is empty"
	}

	for i, line := range lines[1:] {
		m := numberedRe.FindStringSubmatch(line)
		if m == nil {
			return list, fmt.Sprintf("entry %d is not a numbered specific objective: %q", i+1, line)
		}
		n, err := strconv.Atoi(m[1])
		if err != nil || n != i+1 {
			return list, fmt.Sprintf("specific objectives must be numbered sequentially: expected %d, got %q", i+1, m[1])
		}
		list.Specific = append(list.Specific, strings.TrimSpace(m[2]))
	}

	if len(list.Specific) == 0 {
		return list, "objective list has no specific objectives"
	}
	return list, ""
}

// methodologyRes matches embedded-methodology patterns that do not belong in
// an objective statement: named study designs, statistical thresholds, and
// instrument phrasing.
var methodologyRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(regression|anova|chi-?square|t-test|correlation analysis|factor analysis)\b`),
	regexp.MustCompile(`(?i)\busing (a |an )?(survey|questionnaire|interview|regression|experiment|focus group)s?\b`),
	regexp.MustCompile(`(?i)\bn\s*=\s*\d+`),
	regexp.MustCompile(`(?i)\bp\s*[<>=]\s*0?\.\d+`),
	regexp.MustCompile(`(?i)\bsample size\b`),
	regexp.MustCompile(`(?i)\b(95|99)%\s*(ci|confidence)\b`),
}

// weakQualifierRe matches hedging qualifiers. Two or more within a single
// item marks the item as excessively vague.
var weakQualifierRe = regexp.MustCompile(`(?i)\b(might|may|maybe|possibly|perhaps|somewhat|potentially|arguably|seemingly|presumably)\b`)

// checkDomainQuality scans objective-style responses for methodology creep
// and excessive hedging. Enabled only for task classes whose profile toggles
// it on.
func checkDomainQuality(text string, _ Context) ([]string, Severity, map[string]any) {
	var reasons []string
	details := make(map[string]any)

	for _, re := range methodologyRes {
		if m := re.FindString(text); m != "" {
			reasons = append(reasons, fmt.Sprintf("embedded methodology detail: %q", m))
			details["methodology_match"] = m
			break
		}
	}

	for _, item := range strings.Split(text, "\n") {
		if hits := weakQualifierRe.FindAllString(item, -1); len(hits) >= 2 {
			reasons = append(reasons, fmt.Sprintf("excessive hedging (%s) in one item", strings.Join(hits, ", ")))
			details["hedging_count"] = len(hits)
			break
		}
	}

	if len(reasons) == 0 {
		return nil, SeverityNone, nil
	}
	return reasons, SeverityModerate, details
}
