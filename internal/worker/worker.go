package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"hopgraph.app/api/common/logger"
	"hopgraph.app/api/internal/queue"
)

// Queue mirrors queue.RedisConsumer - defined here so tests can stub it.
type Queue interface {
	Read(ctx context.Context) ([]queue.Message, error)
	Ack(ctx context.Context, msg queue.Message) error
	RequeueWithAttempt(ctx context.Context, msg queue.Message, attempt int, errMsg string) error
	SendDLQ(ctx context.Context, msg queue.Message, errMsg string) error
}

type Worker struct {
	consumer Queue
	executor JobExecutor
	policy   RetryPolicy

	stopCh    chan struct{}
	stoppedCh chan struct{}
}

func New(consumer Queue, executor JobExecutor, policy RetryPolicy) *Worker {
	return &Worker{
		consumer:  consumer,
		executor:  executor,
		policy:    policy,
		stopCh:    make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}
}

func (w *Worker) Run(ctx context.Context) error {
	defer close(w.stoppedCh)

	slog.InfoContext(ctx, "worker started")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.stopCh:
			slog.InfoContext(ctx, "worker stopping")
			return nil
		default:
			if err := w.processOneBatch(ctx); err != nil {
				slog.ErrorContext(ctx, "batch processing error", "error", err)
				// Brief backoff on error
				time.Sleep(time.Second)
			}
		}
	}
}

func (w *Worker) Stop() {
	close(w.stopCh)
	<-w.stoppedCh
}

func (w *Worker) processOneBatch(ctx context.Context) error {
	messages, err := w.consumer.Read(ctx)
	if err != nil {
		return fmt.Errorf("reading from stream: %w", err)
	}

	for _, msg := range messages {
		if err := w.processMessageSafe(ctx, msg); err != nil {
			slog.ErrorContext(ctx, "message processing failed",
				"error", err,
				"message_id", msg.ID,
				"job_id", msg.JobID)
			w.handleFailedMessage(ctx, msg, err)
		}
	}

	return nil
}

func (w *Worker) processMessageSafe(ctx context.Context, msg queue.Message) (err error) {
	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "panic recovered in message processing",
				"panic", r,
				"message_id", msg.ID,
				"job_id", msg.JobID)
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return w.ProcessMessage(ctx, msg)
}

// Exported so it can be reused by the reclaimer.
func (w *Worker) ProcessMessage(ctx context.Context, msg queue.Message) error {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		JobID:     &msg.JobID,
		MessageID: &msg.ID,
	})

	slog.InfoContext(ctx, "processing message",
		"message_id", msg.ID,
		"job_id", msg.JobID,
		"attempt", msg.Attempt)

	if err := w.executor.Execute(ctx, msg); err != nil {
		return err
	}

	// Delivery settled - ACK it. A lost ACK is safe: the reclaimer redelivers
	// and the executor drops already-settled jobs.
	if err := w.consumer.Ack(ctx, msg); err != nil {
		slog.WarnContext(ctx, "failed to ACK message",
			"error", err,
			"message_id", msg.ID)
	}

	return nil
}

// handleFailedMessage routes a failed delivery. Only ErrDeadLetter goes to
// the DLQ: the executor raises it after it has moved the job row to a
// terminal state. Every other failure is requeued, even past the job's
// attempt budget, so a later delivery can still settle the row (for
// example when recording the failure itself failed).
func (w *Worker) handleFailedMessage(ctx context.Context, msg queue.Message, err error) {
	if errors.Is(err, ErrDeadLetter) {
		slog.ErrorContext(ctx, "retries exhausted, sending to DLQ",
			"message_id", msg.ID,
			"job_id", msg.JobID,
			"attempt", msg.Attempt)
		if dlqErr := w.consumer.SendDLQ(ctx, msg, err.Error()); dlqErr != nil {
			slog.ErrorContext(ctx, "failed to send to DLQ", "error", dlqErr)
		}
		return
	}

	nextAttempt := msg.Attempt + 1
	if backoff := w.policy.backoff(msg.Attempt); backoff > 0 {
		time.Sleep(backoff)
	}

	slog.WarnContext(ctx, "requeuing failed message",
		"message_id", msg.ID,
		"job_id", msg.JobID,
		"next_attempt", nextAttempt)
	if requeueErr := w.consumer.RequeueWithAttempt(ctx, msg, nextAttempt, err.Error()); requeueErr != nil {
		slog.ErrorContext(ctx, "failed to requeue message", "error", requeueErr)
	}
}
