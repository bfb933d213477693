package worker_test

import (
	"context"

	"hopgraph.app/api/internal/model"
	"hopgraph.app/api/internal/queue"
)

type mockQueue struct {
	readFn    func(ctx context.Context) ([]queue.Message, error)
	ackFn     func(ctx context.Context, msg queue.Message) error
	requeueFn func(ctx context.Context, msg queue.Message, attempt int, errMsg string) error
	dlqFn     func(ctx context.Context, msg queue.Message, errMsg string) error
}

func (m *mockQueue) Read(ctx context.Context) ([]queue.Message, error) {
	if m.readFn != nil {
		return m.readFn(ctx)
	}
	return nil, nil
}

func (m *mockQueue) Ack(ctx context.Context, msg queue.Message) error {
	if m.ackFn != nil {
		return m.ackFn(ctx, msg)
	}
	return nil
}

func (m *mockQueue) RequeueWithAttempt(ctx context.Context, msg queue.Message, attempt int, errMsg string) error {
	if m.requeueFn != nil {
		return m.requeueFn(ctx, msg, attempt, errMsg)
	}
	return nil
}

func (m *mockQueue) SendDLQ(ctx context.Context, msg queue.Message, errMsg string) error {
	if m.dlqFn != nil {
		return m.dlqFn(ctx, msg, errMsg)
	}
	return nil
}

type mockExecutor struct {
	executeFn func(ctx context.Context, msg queue.Message) error
}

func (m *mockExecutor) Execute(ctx context.Context, msg queue.Message) error {
	if m.executeFn != nil {
		return m.executeFn(ctx, msg)
	}
	return nil
}

type mockNodeStore struct {
	getByIDFn   func(ctx context.Context, id int64) (*model.Node, error)
	getByNameFn func(ctx context.Context, name string) (*model.Node, error)
	createFn    func(ctx context.Context, node *model.Node) error
	listFn      func(ctx context.Context) ([]model.Node, error)
}

func (m *mockNodeStore) GetByID(ctx context.Context, id int64) (*model.Node, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockNodeStore) GetByName(ctx context.Context, name string) (*model.Node, error) {
	if m.getByNameFn != nil {
		return m.getByNameFn(ctx, name)
	}
	return nil, nil
}

func (m *mockNodeStore) Create(ctx context.Context, node *model.Node) error {
	if m.createFn != nil {
		return m.createFn(ctx, node)
	}
	return nil
}

func (m *mockNodeStore) List(ctx context.Context) ([]model.Node, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

type mockEdgeStore struct {
	createFn   func(ctx context.Context, edge *model.Edge) error
	snapshotFn func(ctx context.Context) ([]model.Edge, error)
}

func (m *mockEdgeStore) Create(ctx context.Context, edge *model.Edge) error {
	if m.createFn != nil {
		return m.createFn(ctx, edge)
	}
	return nil
}

func (m *mockEdgeStore) Snapshot(ctx context.Context) ([]model.Edge, error) {
	if m.snapshotFn != nil {
		return m.snapshotFn(ctx)
	}
	return nil, nil
}
