// Package gen is the transport boundary to remote generator agents: HTTP
// services that answer rendered prompts with candidate text. The voting
// core never sees this package directly; it only receives a SampleFunc.
package gen

import (
	"crypto/rand"
	"fmt"
	"time"
)

// JobState is the lifecycle state of a generation job.
type JobState string

const (
	JobStateUnspecified JobState = ""
	JobStateQueued      JobState = "queued"
	JobStateGenerating  JobState = "generating"
	JobStateDone        JobState = "done"
	JobStateFailed      JobState = "failed"
	JobStateCanceled    JobState = "canceled"
)

// IsTerminal returns true if the job state is final.
func (s JobState) IsTerminal() bool {
	switch s {
	case JobStateDone, JobStateFailed, JobStateCanceled:
		return true
	}
	return false
}

// Job is one generation call tracked on the agent side.
type Job struct {
	ID        string    `json:"id"`
	SessionID string    `json:"sessionId,omitempty"`
	Status    JobStatus `json:"status"`
	Output    *Output   `json:"output,omitempty"`
}

// JobStatus tracks the current state and when it changed.
type JobStatus struct {
	State     JobState  `json:"state"`
	Note      string    `json:"note,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Output is a completed generation's payload.
type Output struct {
	Text   string `json:"text"`
	Model  string `json:"model,omitempty"`
	Tokens int    `json:"tokens,omitempty"`
}

// GenerateRequest asks an agent to produce one candidate.
type GenerateRequest struct {
	SessionID string `json:"sessionId,omitempty"`
	System    string `json:"system,omitempty"`
	Prompt    string `json:"prompt"`
	Kind      string `json:"kind,omitempty"`
	MaxTokens int    `json:"maxTokens,omitempty"`
}

// GetJobRequest retrieves a job by ID.
type GetJobRequest struct {
	ID string `json:"id"`
}

// CancelJobRequest cancels a running job.
type CancelJobRequest struct {
	ID string `json:"id"`
}

// GeneratorCard is the self-describing manifest a generator agent serves at
// its well-known URI.
type GeneratorCard struct {
	Name    string   `json:"name"`
	Model   string   `json:"model"`
	Version string   `json:"version"`
	Kinds   []string `json:"kinds,omitempty"` // task classes the agent accepts
}

// NewJobID generates a UUID v4 string using crypto/rand.
func NewJobID() string {
	var uuid [16]byte
	_, _ = rand.Read(uuid[:])
	uuid[6] = (uuid[6] & 0x0f) | 0x40
	uuid[8] = (uuid[8] & 0x3f) | 0x80
	return fmt.Sprintf("%08x-%04x-%04x-%04x-%012x",
		uuid[0:4], uuid[4:6], uuid[6:8], uuid[8:10], uuid[10:16])
}
