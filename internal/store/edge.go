package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"hopgraph.app/api/internal/model"
)

type edgeStore struct {
	pool *pgxpool.Pool
}

func newEdgeStore(pool *pgxpool.Pool) EdgeStore {
	return &edgeStore{pool: pool}
}

func (s *edgeStore) Create(ctx context.Context, edge *model.Edge) error {
	if edge.FromNodeID == edge.ToNodeID {
		return ErrSelfLoop
	}

	err := s.pool.QueryRow(ctx,
		`INSERT INTO edges (id, from_node_id, to_node_id) VALUES ($1, $2, $3) RETURNING created_at`,
		edge.ID, edge.FromNodeID, edge.ToNodeID,
	).Scan(&edge.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return ErrDuplicateEdge
			case "23514": // CHECK (from_node_id <> to_node_id)
				return ErrSelfLoop
			}
		}
		return err
	}
	return nil
}

// Snapshot orders by id: snowflake ids are time-ordered, so this is the
// edge insertion order the finder's tie-breaking depends on.
func (s *edgeStore) Snapshot(ctx context.Context) ([]model.Edge, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, from_node_id, to_node_id, created_at FROM edges ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var edges []model.Edge
	for rows.Next() {
		var edge model.Edge
		if err := rows.Scan(&edge.ID, &edge.FromNodeID, &edge.ToNodeID, &edge.CreatedAt); err != nil {
			return nil, err
		}
		edges = append(edges, edge)
	}
	return edges, rows.Err()
}
