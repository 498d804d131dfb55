package gen

import (
	"fmt"
	"sync"
)

// JobStore is a concurrency-safe in-memory store for agent-side job
// tracking. Reads return copies so callers can never mutate stored state.
type JobStore struct {
	mu   sync.RWMutex
	jobs map[string]*Job
}

// NewJobStore returns an initialized JobStore ready for use.
func NewJobStore() *JobStore {
	return &JobStore{jobs: make(map[string]*Job)}
}

// Create stores a new job. It returns an error if a job with the same ID
// already exists.
func (s *JobStore) Create(job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[job.ID]; exists {
		return fmt.Errorf("job %q already exists", job.ID)
	}
	s.jobs[job.ID] = &job
	return nil
}

// Get returns a copy of the job with the given ID.
func (s *JobStore) Get(id string) (*Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	j, ok := s.jobs[id]
	if !ok {
		return nil, fmt.Errorf("job %q not found", id)
	}
	return copyJob(j), nil
}

// Update applies fn to the job identified by id under a write lock. The
// function receives the stored job pointer, so mutations apply in place.
func (s *JobStore) Update(id string, fn func(*Job)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.jobs[id]
	if !ok {
		return fmt.Errorf("job %q not found", id)
	}
	fn(j)
	return nil
}

// copyJob returns an independent copy of src, including its output.
func copyJob(src *Job) *Job {
	dst := *src
	if src.Output != nil {
		out := *src.Output
		dst.Output = &out
	}
	return &dst
}
