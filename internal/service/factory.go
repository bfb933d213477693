package service

import (
	"hopgraph.app/api/internal/queue"
	"hopgraph.app/api/internal/registry"
	"hopgraph.app/api/internal/store"
)

type Services struct {
	stores   *store.Stores
	registry *registry.Registry
	producer queue.Producer
}

func NewServices(stores *store.Stores, reg *registry.Registry, producer queue.Producer) *Services {
	return &Services{
		stores:   stores,
		registry: reg,
		producer: producer,
	}
}

func (s *Services) Graph() GraphService {
	return NewGraphService(s.stores.Nodes(), s.stores.Edges())
}

func (s *Services) Paths() PathService {
	return NewPathService(s.stores.Nodes(), s.stores.Edges(), s.registry, s.producer)
}
