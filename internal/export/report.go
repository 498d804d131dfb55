// Package export renders finished voting sessions as artifacts: a JSON
// report for tooling and a Mermaid chart for humans.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/inkstone-ai/quorum/internal/task"
	"github.com/inkstone-ai/quorum/internal/voting"
)

// SessionReport is the top-level JSON export of one voting session.
type SessionReport struct {
	Kind       string         `json:"kind"`
	Topic      string         `json:"topic"`
	K          int            `json:"k"`
	MaxRounds  int            `json:"maxRounds"`
	Winner     any            `json:"winner,omitempty"`
	Confidence float64        `json:"confidence"`
	Metrics    voting.Metrics `json:"metrics"`
	BestEffort bool           `json:"bestEffort"`
	ExportedAt string         `json:"exportedAt"`
}

// NewSessionReport assembles a report from a finished session.
func NewSessionReport(req task.Request, cfg voting.Config, winner voting.Candidate, metrics voting.Metrics) *SessionReport {
	return &SessionReport{
		Kind:       string(req.Kind),
		Topic:      req.Topic,
		K:          cfg.K,
		MaxRounds:  cfg.MaxRounds,
		Winner:     winner.Content,
		Confidence: winner.Confidence,
		Metrics:    metrics,
		BestEffort: !metrics.ConsensusAchieved,
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
	}
}

// WriteJSON writes the report to path as indented JSON.
func (r *SessionReport) WriteJSON(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("export: marshal report: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("export: write report: %w", err)
	}
	return nil
}
