package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"hopgraph.app/api/common/id"
	"hopgraph.app/api/internal/model"
	"hopgraph.app/api/internal/store"
)

// ErrInvalidTransition is returned when a requested lifecycle transition is
// not permitted from the job's current state, including the case where a
// concurrent writer moved the job first.
var ErrInvalidTransition = errors.New("invalid job transition")

type Config struct {
	// MaxAttempts bounds how many executions a job gets before a retryable
	// failure becomes terminal.
	MaxAttempts int
}

// Registry owns the lifecycle state of every asynchronous path-finding job.
// All mutations go through its transition methods; the injected JobStore's
// compare-and-set update keeps concurrent transitions on the same job from
// interleaving into an invalid state.
type Registry struct {
	jobs        store.JobStore
	maxAttempts int
}

func New(jobs store.JobStore, cfg Config) *Registry {
	maxAttempts := cfg.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	return &Registry{jobs: jobs, maxAttempts: maxAttempts}
}

// MaxAttempts exposes the configured bound, shared with the executor's
// retry policy.
func (r *Registry) MaxAttempts() int {
	return r.maxAttempts
}

// Create registers a new Pending job for the given query.
func (r *Registry) Create(ctx context.Context, fromName, toName string) (*model.Job, error) {
	job := &model.Job{
		ID:       id.New(),
		FromNode: fromName,
		ToNode:   toName,
		State:    model.JobStatePending,
	}

	if err := r.jobs.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("creating job: %w", err)
	}

	slog.InfoContext(ctx, "job created",
		"job_id", job.ID,
		"from_node", fromName,
		"to_node", toName)
	return job, nil
}

// Get returns the job or store.ErrNotFound. An unknown id is indistinguishable
// from a reaped one by design.
func (r *Registry) Get(ctx context.Context, jobID int64) (*model.Job, error) {
	return r.jobs.Get(ctx, jobID)
}

// Dispatch moves a Pending or Retrying job into Processing and increments
// its attempt counter, so attempt counts executions started.
func (r *Registry) Dispatch(ctx context.Context, jobID int64) (*model.Job, error) {
	return r.transition(ctx, jobID, func(job *model.Job) error {
		job.State = model.JobStateProcessing
		job.Attempt++
		job.ErrorMessage = nil
		return nil
	}, model.JobStateProcessing)
}

// Succeed attaches the computation result and finishes the job.
func (r *Registry) Succeed(ctx context.Context, jobID int64, result model.PathResult) (*model.Job, error) {
	return r.transition(ctx, jobID, func(job *model.Job) error {
		job.State = model.JobStateSucceeded
		job.Result = &result
		job.ErrorMessage = nil
		return nil
	}, model.JobStateSucceeded)
}

// Fail records a failure. Retryable failures park the job in Retrying while
// attempts remain; everything else, including exhausted retries, is terminal.
func (r *Registry) Fail(ctx context.Context, jobID int64, errMsg string, retryable bool) (*model.Job, error) {
	return r.transition(ctx, jobID, func(job *model.Job) error {
		if retryable && job.Attempt < r.maxAttempts {
			job.State = model.JobStateRetrying
		} else {
			job.State = model.JobStateFailed
		}
		job.Result = nil
		job.ErrorMessage = &errMsg
		return nil
	}, "")
}

// transition loads the job, applies the mutation, and writes it back with a
// compare-and-set on the previous state. want, when non-empty, is validated
// against the state machine before the store is touched; Fail decides its
// target state inside the mutation, so it validates after.
func (r *Registry) transition(ctx context.Context, jobID int64, mutate func(*model.Job) error, want model.JobState) (*model.Job, error) {
	job, err := r.jobs.Get(ctx, jobID)
	if err != nil {
		return nil, err
	}

	previous := job.State
	if want != "" && !previous.CanTransition(want) {
		return nil, fmt.Errorf("%w: %s -> %s (job %d)", ErrInvalidTransition, previous, want, jobID)
	}

	if err := mutate(job); err != nil {
		return nil, err
	}

	if want == "" && !previous.CanTransition(job.State) {
		return nil, fmt.Errorf("%w: %s -> %s (job %d)", ErrInvalidTransition, previous, job.State, jobID)
	}

	if err := r.jobs.UpdateFrom(ctx, job, previous); err != nil {
		if errors.Is(err, store.ErrStaleState) {
			return nil, fmt.Errorf("%w: job %d left %s concurrently", ErrInvalidTransition, jobID, previous)
		}
		return nil, fmt.Errorf("updating job %d: %w", jobID, err)
	}

	slog.DebugContext(ctx, "job transitioned",
		"job_id", jobID,
		"from_state", string(previous),
		"to_state", string(job.State),
		"attempt", job.Attempt)
	return job, nil
}
