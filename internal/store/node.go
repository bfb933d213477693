package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"hopgraph.app/api/internal/model"
)

type nodeStore struct {
	pool *pgxpool.Pool
}

func newNodeStore(pool *pgxpool.Pool) NodeStore {
	return &nodeStore{pool: pool}
}

func (s *nodeStore) GetByID(ctx context.Context, id int64) (*model.Node, error) {
	node := &model.Node{}
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, created_at, updated_at FROM nodes WHERE id = $1`, id,
	).Scan(&node.ID, &node.Name, &node.CreatedAt, &node.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return node, nil
}

func (s *nodeStore) GetByName(ctx context.Context, name string) (*model.Node, error) {
	node := &model.Node{}
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, created_at, updated_at FROM nodes WHERE name = $1`, name,
	).Scan(&node.ID, &node.Name, &node.CreatedAt, &node.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return node, nil
}

func (s *nodeStore) Create(ctx context.Context, node *model.Node) error {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO nodes (id, name) VALUES ($1, $2) RETURNING created_at, updated_at`,
		node.ID, node.Name,
	).Scan(&node.CreatedAt, &node.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateNode
		}
		return err
	}
	return nil
}

func (s *nodeStore) List(ctx context.Context) ([]model.Node, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, created_at, updated_at FROM nodes ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var nodes []model.Node
	for rows.Next() {
		var node model.Node
		if err := rows.Scan(&node.ID, &node.Name, &node.CreatedAt, &node.UpdatedAt); err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
	return nodes, rows.Err()
}
