package graph

import (
	"errors"
	"fmt"

	"hopgraph.app/api/internal/model"
)

// ErrNodeNotKnown means a query endpoint is not present in the snapshot.
// Callers resolve names to existing node identities before invoking the
// finder; this is a defensive check, not the primary validation path.
var ErrNodeNotKnown = errors.New("node not known to snapshot")

// Snapshot is a consistent, immutable view of the graph taken by the caller.
// Edge order is preserved from the store and determines tie-breaking between
// equally short paths, so it is part of the observable contract.
type Snapshot struct {
	edges []model.Edge
	names map[int64]string
}

// NewSnapshot builds a snapshot from the node and edge sets. Edges must be
// in a deterministic order (the stores return them by insertion order).
func NewSnapshot(nodes []model.Node, edges []model.Edge) Snapshot {
	names := make(map[int64]string, len(nodes))
	for _, n := range nodes {
		names[n.ID] = n.Name
	}
	return Snapshot{edges: edges, names: names}
}

// NodeName returns the name of a node in the snapshot.
func (s Snapshot) NodeName(id int64) (string, bool) {
	name, ok := s.names[id]
	return name, ok
}

// FindPath computes a shortest hop-count path from fromID to toID using
// breadth-first search over outgoing edges. Direction matters: a route that
// exists only in reverse is not found.
//
// The function is pure: it never touches storage and is safe to call
// concurrently against shared or independent snapshots. Total work is
// O(V+E); the visited set guarantees termination on cyclic graphs.
func FindPath(snap Snapshot, fromID, toID int64) (model.PathResult, error) {
	fromName, ok := snap.names[fromID]
	if !ok {
		return model.PathResult{}, fmt.Errorf("from node %d: %w", fromID, ErrNodeNotKnown)
	}
	if _, ok := snap.names[toID]; !ok {
		return model.PathResult{}, fmt.Errorf("to node %d: %w", toID, ErrNodeNotKnown)
	}

	// Trivial query: same endpoint, no traversal needed.
	if fromID == toID {
		return model.PathResult{Found: true, Path: []string{fromName}}, nil
	}

	// One O(E) pass; neighbor order follows snapshot edge order, which makes
	// tie-breaking between equally short paths deterministic.
	adjacency := make(map[int64][]int64)
	for _, e := range snap.edges {
		adjacency[e.FromNodeID] = append(adjacency[e.FromNodeID], e.ToNodeID)
	}

	parent := make(map[int64]int64)
	visited := map[int64]struct{}{fromID: {}}
	queue := []int64{fromID}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if current == toID {
			return model.PathResult{Found: true, Path: buildPath(snap, parent, fromID, toID)}, nil
		}

		for _, neighbor := range adjacency[current] {
			if _, seen := visited[neighbor]; seen {
				continue
			}
			visited[neighbor] = struct{}{}
			parent[neighbor] = current
			queue = append(queue, neighbor)
		}
	}

	return model.PathResult{Found: false}, nil
}

func buildPath(snap Snapshot, parent map[int64]int64, fromID, toID int64) []string {
	var ids []int64
	for current := toID; ; current = parent[current] {
		ids = append(ids, current)
		if current == fromID {
			break
		}
	}

	names := make([]string, len(ids))
	for i, id := range ids {
		names[len(ids)-1-i] = snap.names[id]
	}
	return names
}
