package export

import (
	"fmt"
	"strings"
)

// GenerateMermaid renders a session report as a Mermaid pie chart of where
// the draws went: winner votes, runner-up votes, other valid votes, and
// screened-out draws.
func GenerateMermaid(r *SessionReport) string {
	m := r.Metrics
	other := m.ValidSamples - m.WinnerVotes - m.RunnerUpVotes
	if other < 0 {
		other = 0
	}

	var sb strings.Builder
	sb.WriteString("pie showData\n")
	fmt.Fprintf(&sb, "  title %.60s\n", strings.ReplaceAll(r.Topic, "\n", " "))
	fmt.Fprintf(&sb, "  \"winner\" : %d\n", m.WinnerVotes)
	if m.RunnerUpVotes > 0 {
		fmt.Fprintf(&sb, "  \"runner-up\" : %d\n", m.RunnerUpVotes)
	}
	if other > 0 {
		fmt.Fprintf(&sb, "  \"other candidates\" : %d\n", other)
	}
	if m.InvalidSamples > 0 {
		fmt.Fprintf(&sb, "  \"screened out\" : %d\n", m.InvalidSamples)
	}
	return sb.String()
}
