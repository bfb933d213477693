package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"hopgraph.app/api/internal/graph"
	"hopgraph.app/api/internal/model"
	"hopgraph.app/api/internal/queue"
	"hopgraph.app/api/internal/registry"
	"hopgraph.app/api/internal/store"
)

// ErrDeadLetter marks a delivery whose job has exhausted its retry budget.
// The worker sends these straight to the DLQ instead of requeuing.
var ErrDeadLetter = errors.New("job exhausted retries")

// JobRegistry mirrors registry.Registry - defined here so tests can stub it.
type JobRegistry interface {
	Get(ctx context.Context, jobID int64) (*model.Job, error)
	Dispatch(ctx context.Context, jobID int64) (*model.Job, error)
	Succeed(ctx context.Context, jobID int64, result model.PathResult) (*model.Job, error)
	Fail(ctx context.Context, jobID int64, errMsg string, retryable bool) (*model.Job, error)
}

// JobExecutor runs one delivery end to end. A nil return means the delivery
// is settled and must be acknowledged, whether the job succeeded, failed
// terminally, or was skipped as already handled.
type JobExecutor interface {
	Execute(ctx context.Context, msg queue.Message) error
}

type Executor struct {
	registry JobRegistry
	nodes    store.NodeStore
	edges    store.EdgeStore

	// computeDelay simulates an expensive traversal before the real one runs,
	// keeping the asynchronous lifecycle observable through polling.
	computeDelay time.Duration
}

func NewExecutor(reg JobRegistry, nodes store.NodeStore, edges store.EdgeStore, computeDelay time.Duration) *Executor {
	return &Executor{
		registry:     reg,
		nodes:        nodes,
		edges:        edges,
		computeDelay: computeDelay,
	}
}

func (e *Executor) Execute(ctx context.Context, msg queue.Message) error {
	job, err := e.registry.Get(ctx, msg.JobID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Reaped or never existed. Nothing left to do with this delivery.
			slog.WarnContext(ctx, "delivery for unknown job, dropping", "job_id", msg.JobID)
			return nil
		}
		return e.failTransient(ctx, msg.JobID, fmt.Errorf("loading job: %w", err))
	}

	switch {
	case job.State.Terminal():
		slog.InfoContext(ctx, "job already settled, dropping delivery",
			"job_id", job.ID, "state", string(job.State))
		return nil
	case job.State == model.JobStateProcessing:
		// A previous holder of this delivery died between dispatch and
		// settlement. Resume the execution it started instead of burning
		// another attempt.
		if msg.Attempt < job.Attempt {
			slog.InfoContext(ctx, "stale delivery for in-flight job, dropping",
				"job_id", job.ID, "delivery_attempt", msg.Attempt, "job_attempt", job.Attempt)
			return nil
		}
		slog.WarnContext(ctx, "resuming orphaned execution",
			"job_id", job.ID, "attempt", job.Attempt)
	default:
		job, err = e.registry.Dispatch(ctx, msg.JobID)
		if err != nil {
			if errors.Is(err, registry.ErrInvalidTransition) {
				// Another worker won the dispatch race.
				slog.InfoContext(ctx, "job dispatched elsewhere, dropping delivery", "job_id", msg.JobID)
				return nil
			}
			return e.failTransient(ctx, msg.JobID, fmt.Errorf("dispatching job: %w", err))
		}
	}

	if err := e.sleep(ctx); err != nil {
		// Shutdown mid-compute. Leave the delivery unacked so the reclaimer
		// picks it up.
		return err
	}

	result, err := e.compute(ctx, job)
	if err != nil {
		if errors.Is(err, graph.ErrNodeNotKnown) || errors.Is(err, store.ErrNotFound) {
			// A query endpoint is gone. Retrying cannot bring it back.
			if _, failErr := e.registry.Fail(ctx, job.ID, err.Error(), false); failErr != nil {
				return e.failTransient(ctx, job.ID, failErr)
			}
			slog.InfoContext(ctx, "job failed on missing node",
				"job_id", job.ID, "error", err.Error())
			return nil
		}
		return e.failTransient(ctx, job.ID, err)
	}

	if _, err := e.registry.Succeed(ctx, job.ID, result); err != nil {
		return e.failTransient(ctx, job.ID, fmt.Errorf("recording result: %w", err))
	}

	slog.InfoContext(ctx, "job succeeded",
		"job_id", job.ID,
		"attempt", job.Attempt,
		"path_exists", result.Found,
		"hops", max(len(result.Path)-1, 0))
	return nil
}

// compute resolves the query endpoints and runs the traversal over a snapshot
// of the whole graph.
func (e *Executor) compute(ctx context.Context, job *model.Job) (model.PathResult, error) {
	from, err := e.nodes.GetByName(ctx, job.FromNode)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return model.PathResult{}, fmt.Errorf("%w: %s", graph.ErrNodeNotKnown, job.FromNode)
		}
		return model.PathResult{}, fmt.Errorf("resolving from node: %w", err)
	}
	to, err := e.nodes.GetByName(ctx, job.ToNode)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return model.PathResult{}, fmt.Errorf("%w: %s", graph.ErrNodeNotKnown, job.ToNode)
		}
		return model.PathResult{}, fmt.Errorf("resolving to node: %w", err)
	}

	nodes, err := e.nodes.List(ctx)
	if err != nil {
		return model.PathResult{}, fmt.Errorf("listing nodes: %w", err)
	}
	edges, err := e.edges.Snapshot(ctx)
	if err != nil {
		return model.PathResult{}, fmt.Errorf("loading edges: %w", err)
	}

	return graph.FindPath(graph.NewSnapshot(nodes, edges), from.ID, to.ID)
}

// failTransient records a retryable failure and tells the worker how to route
// the delivery: requeue while the job keeps retrying, DLQ once it is Failed.
func (e *Executor) failTransient(ctx context.Context, jobID int64, cause error) error {
	job, err := e.registry.Fail(ctx, jobID, cause.Error(), true)
	if err != nil {
		// Couldn't even record the failure. Requeue and let the next
		// delivery sort it out.
		slog.ErrorContext(ctx, "failed to record job failure",
			"job_id", jobID, "error", err, "cause", cause.Error())
		return cause
	}

	if job.State == model.JobStateFailed {
		return fmt.Errorf("%w: %s", ErrDeadLetter, cause.Error())
	}
	return cause
}

func (e *Executor) sleep(ctx context.Context) error {
	if e.computeDelay <= 0 {
		return nil
	}
	timer := time.NewTimer(e.computeDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
