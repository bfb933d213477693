package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"hopgraph.app/api/common/id"
	"hopgraph.app/api/internal/model"
	"hopgraph.app/api/internal/store"
)

type GraphService interface {
	CreateNode(ctx context.Context, name string) (*model.Node, error)
	ListNodes(ctx context.Context) ([]model.Node, error)
	Connect(ctx context.Context, fromName, toName string) (*model.Edge, error)
}

type graphService struct {
	nodeStore store.NodeStore
	edgeStore store.EdgeStore
}

func NewGraphService(nodeStore store.NodeStore, edgeStore store.EdgeStore) GraphService {
	return &graphService{
		nodeStore: nodeStore,
		edgeStore: edgeStore,
	}
}

func (s *graphService) CreateNode(ctx context.Context, name string) (*model.Node, error) {
	node := &model.Node{
		ID:   id.New(),
		Name: name,
	}

	if err := s.nodeStore.Create(ctx, node); err != nil {
		if !errors.Is(err, store.ErrDuplicateNode) {
			slog.ErrorContext(ctx, "failed to create node",
				"error", err,
				"name", name,
			)
		}
		return nil, fmt.Errorf("creating node %q: %w", name, err)
	}

	slog.InfoContext(ctx, "node created", "node_id", node.ID, "name", name)
	return node, nil
}

func (s *graphService) ListNodes(ctx context.Context) ([]model.Node, error) {
	nodes, err := s.nodeStore.List(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list nodes", "error", err)
		return nil, fmt.Errorf("listing nodes: %w", err)
	}
	return nodes, nil
}

// Connect adds a directed edge between two existing nodes, identified by name.
func (s *graphService) Connect(ctx context.Context, fromName, toName string) (*model.Edge, error) {
	if fromName == toName {
		return nil, store.ErrSelfLoop
	}

	from, err := s.resolve(ctx, fromName)
	if err != nil {
		return nil, err
	}
	to, err := s.resolve(ctx, toName)
	if err != nil {
		return nil, err
	}

	edge := &model.Edge{
		ID:         id.New(),
		FromNodeID: from.ID,
		ToNodeID:   to.ID,
	}

	if err := s.edgeStore.Create(ctx, edge); err != nil {
		if !errors.Is(err, store.ErrDuplicateEdge) {
			slog.ErrorContext(ctx, "failed to create edge",
				"error", err,
				"from_node", fromName,
				"to_node", toName,
			)
		}
		return nil, fmt.Errorf("connecting %q -> %q: %w", fromName, toName, err)
	}

	slog.InfoContext(ctx, "edge created",
		"edge_id", edge.ID,
		"from_node", fromName,
		"to_node", toName)
	return edge, nil
}

func (s *graphService) resolve(ctx context.Context, name string) (*model.Node, error) {
	node, err := s.nodeStore.GetByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("node %q: %w", name, err)
	}
	return node, nil
}
