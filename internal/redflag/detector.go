package redflag

import "fmt"

// Detector runs a configured set of checks against raw generator output.
// A Detector is constructed once per task class and is safe for concurrent
// use; it holds no mutable state.
type Detector struct {
	checks map[Check]bool
}

// New creates a Detector with the given checks enabled. With no arguments
// every check is enabled.
func New(checks ...Check) *Detector {
	d := &Detector{checks: make(map[Check]bool, len(checks))}
	if len(checks) == 0 {
		checks = []Check{CheckLength, CheckFormat, CheckDomainQuality}
	}
	for _, c := range checks {
		d.checks[c] = true
	}
	return d
}

// Enabled reports whether a check is active on this detector.
func (d *Detector) Enabled(c Check) bool {
	return d.checks[c]
}

// checkFunc evaluates one heuristic and returns the reasons it triggered,
// the severity of those reasons, and diagnostic details.
type checkFunc func(text string, ctx Context) (reasons []string, sev Severity, details map[string]any)

// Detect screens one raw response. It never returns an error: a check that
// panics contributes a flag reason instead (fail-safe), so malformed input
// can only make a response more suspect, never less.
func (d *Detector) Detect(text string, ctx Context) Result {
	res := Result{Details: make(map[string]any)}

	run := func(name Check, fn checkFunc) {
		if !d.checks[name] {
			return
		}
		reasons, sev, details := safeCheck(name, fn, text, ctx)
		if len(reasons) == 0 {
			return
		}
		res.Reasons = append(res.Reasons, reasons...)
		if sev > res.Severity {
			res.Severity = sev
		}
		for k, v := range details {
			res.Details[k] = v
		}
	}

	run(CheckLength, checkLength)
	run(CheckFormat, checkFormat)
	run(CheckDomainQuality, checkDomainQuality)

	res.ShouldFlag = len(res.Reasons) > 0
	return res
}

// ShouldFlag is a convenience wrapper around Detect.
func (d *Detector) ShouldFlag(text string, ctx Context) bool {
	return d.Detect(text, ctx).ShouldFlag
}

// safeCheck runs fn and converts a panic into a triggered result so that a
// failing check defaults to "flagged" rather than silently passing.
func safeCheck(name Check, fn checkFunc, text string, ctx Context) (reasons []string, sev Severity, details map[string]any) {
	defer func() {
		if r := recover(); r != nil {
			reasons = []string{fmt.Sprintf("%s check failed: %v", name, r)}
			sev = SeverityCritical
			details = map[string]any{string(name) + "_error": fmt.Sprint(r)}
		}
	}()
	return fn(text, ctx)
}
