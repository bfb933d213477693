package worker_test

import (
	"context"
	"errors"
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"hopgraph.app/api/internal/queue"
	"hopgraph.app/api/internal/worker"
)

var _ = Describe("Worker", func() {
	var (
		q        *mockQueue
		executor *mockExecutor
		policy   worker.RetryPolicy
	)

	msg := queue.Message{ID: "1-0", JobID: 7, Attempt: 1}

	BeforeEach(func() {
		q = &mockQueue{}
		executor = &mockExecutor{}
		policy = worker.RetryPolicy{}
	})

	runOnce := func(messages ...queue.Message) (*worker.Worker, context.CancelFunc, chan error) {
		delivered := false
		q.readFn = func(_ context.Context) ([]queue.Message, error) {
			if delivered {
				return nil, nil
			}
			delivered = true
			return messages, nil
		}

		w := worker.New(q, executor, policy)
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() {
			done <- w.Run(ctx)
		}()
		return w, cancel, done
	}

	It("acknowledges settled deliveries", func() {
		acked := make(chan string, 1)
		q.ackFn = func(_ context.Context, m queue.Message) error {
			acked <- m.ID
			return nil
		}

		_, cancel, done := runOnce(msg)
		defer cancel()

		Eventually(acked).Should(Receive(Equal(msg.ID)))

		cancel()
		Eventually(done).Should(Receive(MatchError(context.Canceled)))
	})

	It("requeues a failed delivery with the next attempt", func() {
		executor.executeFn = func(_ context.Context, _ queue.Message) error {
			return errors.New("transient")
		}

		type requeued struct {
			attempt int
			reason  string
		}
		requeues := make(chan requeued, 1)
		q.requeueFn = func(_ context.Context, _ queue.Message, attempt int, errMsg string) error {
			requeues <- requeued{attempt: attempt, reason: errMsg}
			return nil
		}
		q.ackFn = func(_ context.Context, _ queue.Message) error {
			Fail("failed delivery must not be acked by the worker loop")
			return nil
		}

		_, cancel, _ := runOnce(msg)
		defer cancel()

		var r requeued
		Eventually(requeues).Should(Receive(&r))
		Expect(r.attempt).To(Equal(2))
		Expect(r.reason).To(ContainSubstring("transient"))
	})

	It("dead-letters a delivery once the executor reports an exhausted job", func() {
		executor.executeFn = func(_ context.Context, _ queue.Message) error {
			return fmt.Errorf("%w: connection refused", worker.ErrDeadLetter)
		}
		dlq := make(chan string, 1)
		q.dlqFn = func(_ context.Context, _ queue.Message, errMsg string) error {
			dlq <- errMsg
			return nil
		}
		q.requeueFn = func(_ context.Context, _ queue.Message, _ int, _ string) error {
			Fail("exhausted delivery must not be requeued")
			return nil
		}

		_, cancel, _ := runOnce(msg)
		defer cancel()

		Eventually(dlq).Should(Receive(ContainSubstring("connection refused")))
	})

	It("requeues a late-attempt failure that is not dead-lettered, so the job row can still settle", func() {
		executor.executeFn = func(_ context.Context, _ queue.Message) error {
			return errors.New("recording failure: connection reset")
		}
		requeues := make(chan int, 1)
		q.requeueFn = func(_ context.Context, _ queue.Message, attempt int, _ string) error {
			requeues <- attempt
			return nil
		}
		q.dlqFn = func(_ context.Context, _ queue.Message, _ string) error {
			Fail("a delivery for a non-terminal job must not be dead-lettered")
			return nil
		}

		exhausted := msg
		exhausted.Attempt = 3
		_, cancel, _ := runOnce(exhausted)
		defer cancel()

		Eventually(requeues).Should(Receive(Equal(4)))
	})

	It("recovers from a panicking executor and routes the delivery to retry", func() {
		executor.executeFn = func(_ context.Context, _ queue.Message) error {
			panic("boom")
		}
		requeues := make(chan string, 1)
		q.requeueFn = func(_ context.Context, _ queue.Message, _ int, errMsg string) error {
			requeues <- errMsg
			return nil
		}

		_, cancel, _ := runOnce(msg)
		defer cancel()

		Eventually(requeues).Should(Receive(ContainSubstring("boom")))
	})

	It("stops cleanly on Stop", func() {
		w, cancel, done := runOnce()
		defer cancel()

		w.Stop()
		Eventually(done).Should(Receive(BeNil()))
	})
})
