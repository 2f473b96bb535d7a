// Package jobs runs case status queries in the background and keeps track of them until
// their results have been collected.
package jobs

import (
	"casestatus-backend/internal/scrapers/casestatus"
	"errors"
	"sync"
	"time"
)

var (
	ErrJobNotFound = errors.New("job not found")
	ErrQueueFull   = errors.New("job queue full")
	ErrStopped     = errors.New("job runner stopped")
)

type Status string

const (
	STATUS_PROCESSING Status = "processing"
	STATUS_COMPLETE   Status = "complete"
	STATUS_ERROR      Status = "error"
)

const persistFailedMessage = "failed to persist result"

type Job struct {
	ID     string
	Query  casestatus.CaseQuery
	Status Status
	// Fields is set once Status is STATUS_COMPLETE.
	Fields casestatus.CaseFields
	// Error and ErrorKind are set once Status is STATUS_ERROR, ErrorKind is "not_found" or "failed".
	Error     string
	ErrorKind string

	CreatedAt  time.Time
	FinishedAt time.Time
}

func (j Job) Finished() bool {
	return j.Status != STATUS_PROCESSING
}

// Store holds jobs by id.
//
// note: fault injection point
type Store interface {
	Put(job Job)
	Get(id string) (Job, error)
	// Update applies fn to the stored job, it returns ErrJobNotFound for unknown ids.
	Update(id string, fn func(job *Job)) error
	// Sweep removes finished jobs that finished before the cutoff and returns how many it removed.
	Sweep(cutoff time.Time) int
	Len() int
}

type MemoryStore struct {
	mu   sync.Mutex
	jobs map[string]Job
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{jobs: make(map[string]Job)}
}

func (s *MemoryStore) Put(job Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *MemoryStore) Get(id string) (Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return Job{}, ErrJobNotFound
	}
	return job, nil
}

func (s *MemoryStore) Update(id string, fn func(job *Job)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return ErrJobNotFound
	}
	fn(&job)
	s.jobs[id] = job
	return nil
}

func (s *MemoryStore) Sweep(cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, job := range s.jobs {
		if job.Finished() && job.FinishedAt.Before(cutoff) {
			delete(s.jobs, id)
			removed++
		}
	}
	return removed
}

func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}
