package store

import (
	"context"
	"sync"
	"time"

	"hopgraph.app/api/internal/model"
)

// memoryJobStore is a mutex-guarded JobStore used by tests and single-process
// setups. It honors the same compare-and-set contract as the Postgres store.
type memoryJobStore struct {
	mu   sync.RWMutex
	jobs map[int64]model.Job
}

func NewMemoryJobStore() JobStore {
	return &memoryJobStore{jobs: make(map[int64]model.Job)}
}

func (s *memoryJobStore) Create(_ context.Context, job *model.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	job.CreatedAt = now
	job.UpdatedAt = now
	s.jobs[job.ID] = cloneJob(*job)
	return nil
}

func (s *memoryJobStore) Get(_ context.Context, id int64) (*model.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.jobs[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := cloneJob(job)
	return &copied, nil
}

func (s *memoryJobStore) UpdateFrom(_ context.Context, job *model.Job, expected model.JobState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.jobs[job.ID]
	if !ok {
		return ErrNotFound
	}
	if stored.State != expected {
		return ErrStaleState
	}

	job.UpdatedAt = time.Now().UTC()
	s.jobs[job.ID] = cloneJob(*job)
	return nil
}

func (s *memoryJobStore) DeleteTerminalBefore(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var reaped int64
	for id, job := range s.jobs {
		if job.State.Terminal() && job.UpdatedAt.Before(cutoff) {
			delete(s.jobs, id)
			reaped++
		}
	}
	return reaped, nil
}

// cloneJob deep-copies pointer fields so readers and writers never share
// memory with the stored record.
func cloneJob(job model.Job) model.Job {
	if job.Result != nil {
		result := *job.Result
		result.Path = append([]string(nil), job.Result.Path...)
		job.Result = &result
	}
	if job.ErrorMessage != nil {
		msg := *job.ErrorMessage
		job.ErrorMessage = &msg
	}
	return job
}
