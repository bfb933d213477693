package model

import "time"

// Node is a named vertex in the directed graph.
// Immutable once created, except for bookkeeping timestamps.
type Node struct {
	ID        int64
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Edge is a directed, unweighted connection between two nodes.
// Unique per ordered pair; self-loops are rejected at creation.
type Edge struct {
	ID         int64
	FromNodeID int64
	ToNodeID   int64
	CreatedAt  time.Time
}
