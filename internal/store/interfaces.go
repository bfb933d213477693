package store

import (
	"context"
	"errors"
	"time"

	"hopgraph.app/api/internal/model"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// ErrDuplicateNode is returned when a node name is already taken
var ErrDuplicateNode = errors.New("node already exists")

// ErrDuplicateEdge is returned when the ordered node pair is already connected
var ErrDuplicateEdge = errors.New("edge already exists")

// ErrSelfLoop is returned when an edge would connect a node to itself
var ErrSelfLoop = errors.New("a node cannot connect to itself")

// ErrStaleState is returned when a compare-and-set job update lost to a
// concurrent writer: the job exists but is no longer in the expected state.
var ErrStaleState = errors.New("job state changed concurrently")

// NodeStore defines the contract for node data access
type NodeStore interface {
	GetByID(ctx context.Context, id int64) (*model.Node, error)
	GetByName(ctx context.Context, name string) (*model.Node, error)
	Create(ctx context.Context, node *model.Node) error
	List(ctx context.Context) ([]model.Node, error)
}

// EdgeStore defines the contract for edge data access
type EdgeStore interface {
	Create(ctx context.Context, edge *model.Edge) error
	// Snapshot returns every edge in insertion order. The ordering is part
	// of the path finder's tie-breaking contract.
	Snapshot(ctx context.Context) ([]model.Edge, error)
}

// JobStore defines the contract for job lifecycle persistence.
// The registry is the only caller; it serializes transitions through
// UpdateFrom's compare-and-set semantics.
type JobStore interface {
	Create(ctx context.Context, job *model.Job) error
	Get(ctx context.Context, id int64) (*model.Job, error)
	// UpdateFrom writes the job's state, attempt, result and error message
	// atomically, but only if the stored state still equals expected.
	// Returns ErrStaleState when a concurrent writer got there first.
	UpdateFrom(ctx context.Context, job *model.Job, expected model.JobState) error
	// DeleteTerminalBefore removes terminal jobs last updated before the
	// cutoff and reports how many were reaped.
	DeleteTerminalBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
