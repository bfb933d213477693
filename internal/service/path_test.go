package service_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"hopgraph.app/api/internal/model"
	"hopgraph.app/api/internal/queue"
	"hopgraph.app/api/internal/service"
	"hopgraph.app/api/internal/store"
)

var _ = Describe("PathService", func() {
	var (
		ctx      context.Context
		nodes    *mockNodeStore
		edges    *mockEdgeStore
		reg      *mockRegistry
		producer *mockProducer
		svc      service.PathService
	)

	alpha := model.Node{ID: 1, Name: "alpha"}
	beta := model.Node{ID: 2, Name: "beta"}
	omega := model.Node{ID: 3, Name: "omega"}

	BeforeEach(func() {
		ctx = context.Background()
		nodes = &mockNodeStore{
			getByNameFn: func(_ context.Context, name string) (*model.Node, error) {
				for _, n := range []model.Node{alpha, beta, omega} {
					if n.Name == name {
						node := n
						return &node, nil
					}
				}
				return nil, store.ErrNotFound
			},
			listFn: func(_ context.Context) ([]model.Node, error) {
				return []model.Node{alpha, beta, omega}, nil
			},
		}
		edges = &mockEdgeStore{
			snapshotFn: func(_ context.Context) ([]model.Edge, error) {
				return []model.Edge{
					{ID: 10, FromNodeID: alpha.ID, ToNodeID: beta.ID},
					{ID: 11, FromNodeID: beta.ID, ToNodeID: omega.ID},
				}, nil
			},
		}
		reg = &mockRegistry{}
		producer = &mockProducer{}
		svc = service.NewPathService(nodes, edges, reg, producer)
	})

	Describe("FindPath", func() {
		It("returns the shortest path over the current graph", func() {
			result, err := svc.FindPath(ctx, "alpha", "omega")

			Expect(err).NotTo(HaveOccurred())
			Expect(result.Found).To(BeTrue())
			Expect(result.Path).To(Equal([]string{"alpha", "beta", "omega"}))
		})

		It("reports an unreachable target as a result, not an error", func() {
			result, err := svc.FindPath(ctx, "omega", "alpha")

			Expect(err).NotTo(HaveOccurred())
			Expect(result.Found).To(BeFalse())
			Expect(result.Path).To(BeEmpty())
		})

		It("rejects unknown endpoints", func() {
			_, err := svc.FindPath(ctx, "alpha", "ghost")

			Expect(errors.Is(err, store.ErrNotFound)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring("ghost"))
		})
	})

	Describe("SubmitFindPath", func() {
		It("registers the job and enqueues its first delivery", func() {
			reg.createFn = func(_ context.Context, fromName, toName string) (*model.Job, error) {
				return &model.Job{ID: 99, FromNode: fromName, ToNode: toName, State: model.JobStatePending}, nil
			}
			var enqueued queue.JobMessage
			producer.enqueueFn = func(_ context.Context, msg queue.JobMessage) error {
				enqueued = msg
				return nil
			}

			job, err := svc.SubmitFindPath(ctx, "alpha", "omega")

			Expect(err).NotTo(HaveOccurred())
			Expect(job.ID).To(Equal(int64(99)))
			Expect(job.State).To(Equal(model.JobStatePending))
			Expect(enqueued.JobID).To(Equal(int64(99)))
			Expect(enqueued.Attempt).To(Equal(1))
		})

		It("validates endpoints before registering anything", func() {
			reg.createFn = func(_ context.Context, _, _ string) (*model.Job, error) {
				Fail("no job may be registered for an unknown endpoint")
				return nil, nil
			}

			_, err := svc.SubmitFindPath(ctx, "ghost", "omega")
			Expect(errors.Is(err, store.ErrNotFound)).To(BeTrue())
		})

		It("surfaces enqueue failures", func() {
			reg.createFn = func(_ context.Context, fromName, toName string) (*model.Job, error) {
				return &model.Job{ID: 99, FromNode: fromName, ToNode: toName, State: model.JobStatePending}, nil
			}
			producer.enqueueFn = func(_ context.Context, _ queue.JobMessage) error {
				return errors.New("stream unavailable")
			}

			_, err := svc.SubmitFindPath(ctx, "alpha", "omega")
			Expect(err).To(MatchError(ContainSubstring("stream unavailable")))
		})
	})

	Describe("GetJob", func() {
		It("delegates to the registry", func() {
			reg.getFn = func(_ context.Context, jobID int64) (*model.Job, error) {
				return &model.Job{ID: jobID, State: model.JobStateSucceeded}, nil
			}

			job, err := svc.GetJob(ctx, 7)
			Expect(err).NotTo(HaveOccurred())
			Expect(job.State).To(Equal(model.JobStateSucceeded))
		})

		It("passes through the not found sentinel", func() {
			reg.getFn = func(_ context.Context, _ int64) (*model.Job, error) {
				return nil, store.ErrNotFound
			}

			_, err := svc.GetJob(ctx, 7)
			Expect(errors.Is(err, store.ErrNotFound)).To(BeTrue())
		})
	})
})
