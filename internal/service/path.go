package service

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	"hopgraph.app/api/internal/graph"
	"hopgraph.app/api/internal/model"
	"hopgraph.app/api/internal/queue"
	"hopgraph.app/api/internal/store"
)

// JobRegistry is the slice of registry.Registry the path service needs.
type JobRegistry interface {
	Create(ctx context.Context, fromName, toName string) (*model.Job, error)
	Get(ctx context.Context, jobID int64) (*model.Job, error)
}

type PathService interface {
	// FindPath computes the shortest path synchronously.
	FindPath(ctx context.Context, fromName, toName string) (model.PathResult, error)
	// SubmitFindPath registers a job for the same computation and hands it to
	// the worker fleet.
	SubmitFindPath(ctx context.Context, fromName, toName string) (*model.Job, error)
	GetJob(ctx context.Context, jobID int64) (*model.Job, error)
}

type pathService struct {
	nodeStore store.NodeStore
	edgeStore store.EdgeStore
	registry  JobRegistry
	producer  queue.Producer
}

func NewPathService(nodeStore store.NodeStore, edgeStore store.EdgeStore, registry JobRegistry, producer queue.Producer) PathService {
	return &pathService{
		nodeStore: nodeStore,
		edgeStore: edgeStore,
		registry:  registry,
		producer:  producer,
	}
}

func (s *pathService) FindPath(ctx context.Context, fromName, toName string) (model.PathResult, error) {
	from, err := s.resolve(ctx, fromName)
	if err != nil {
		return model.PathResult{}, err
	}
	to, err := s.resolve(ctx, toName)
	if err != nil {
		return model.PathResult{}, err
	}

	nodes, err := s.nodeStore.List(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list nodes for traversal", "error", err)
		return model.PathResult{}, fmt.Errorf("listing nodes: %w", err)
	}
	edges, err := s.edgeStore.Snapshot(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load edges for traversal", "error", err)
		return model.PathResult{}, fmt.Errorf("loading edges: %w", err)
	}

	result, err := graph.FindPath(graph.NewSnapshot(nodes, edges), from.ID, to.ID)
	if err != nil {
		return model.PathResult{}, err
	}

	slog.InfoContext(ctx, "path query answered",
		"from_node", fromName,
		"to_node", toName,
		"path_exists", result.Found)
	return result, nil
}

func (s *pathService) SubmitFindPath(ctx context.Context, fromName, toName string) (*model.Job, error) {
	// Endpoints are validated up front so a typo fails the request, not the
	// job. The nodes can still disappear before the worker runs; that case
	// fails the job instead.
	if _, err := s.resolve(ctx, fromName); err != nil {
		return nil, err
	}
	if _, err := s.resolve(ctx, toName); err != nil {
		return nil, err
	}

	job, err := s.registry.Create(ctx, fromName, toName)
	if err != nil {
		slog.ErrorContext(ctx, "failed to register job",
			"error", err,
			"from_node", fromName,
			"to_node", toName,
		)
		return nil, fmt.Errorf("registering job: %w", err)
	}

	msg := queue.JobMessage{JobID: job.ID, Attempt: 1}
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		traceID := sc.TraceID().String()
		msg.TraceID = &traceID
	}

	if err := s.producer.Enqueue(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "failed to enqueue job",
			"error", err,
			"job_id", job.ID,
		)
		return nil, fmt.Errorf("enqueuing job %d: %w", job.ID, err)
	}

	return job, nil
}

func (s *pathService) GetJob(ctx context.Context, jobID int64) (*model.Job, error) {
	return s.registry.Get(ctx, jobID)
}

func (s *pathService) resolve(ctx context.Context, name string) (*model.Node, error) {
	node, err := s.nodeStore.GetByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("node %q: %w", name, err)
	}
	return node, nil
}
