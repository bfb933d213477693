package store

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

type Stores struct {
	pool *pgxpool.Pool
}

func NewStores(pool *pgxpool.Pool) *Stores {
	return &Stores{pool: pool}
}

func (s *Stores) Nodes() NodeStore {
	return newNodeStore(s.pool)
}

func (s *Stores) Edges() EdgeStore {
	return newEdgeStore(s.pool)
}

func (s *Stores) Jobs() JobStore {
	return newJobStore(s.pool)
}
