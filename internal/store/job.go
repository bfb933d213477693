package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"hopgraph.app/api/internal/model"
)

type jobStore struct {
	pool *pgxpool.Pool
}

func newJobStore(pool *pgxpool.Pool) JobStore {
	return &jobStore{pool: pool}
}

func (s *jobStore) Create(ctx context.Context, job *model.Job) error {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO jobs (id, from_node, to_node, state, attempt)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at, updated_at`,
		job.ID, job.FromNode, job.ToNode, string(job.State), job.Attempt,
	).Scan(&job.CreatedAt, &job.UpdatedAt)
	if err != nil {
		return err
	}
	return nil
}

func (s *jobStore) Get(ctx context.Context, id int64) (*model.Job, error) {
	job := &model.Job{}
	var state string
	var result []byte
	err := s.pool.QueryRow(ctx,
		`SELECT id, from_node, to_node, state, attempt, result, error_message, created_at, updated_at
		 FROM jobs WHERE id = $1`, id,
	).Scan(&job.ID, &job.FromNode, &job.ToNode, &state, &job.Attempt,
		&result, &job.ErrorMessage, &job.CreatedAt, &job.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	parsed, err := model.ParseJobState(state)
	if err != nil {
		return nil, fmt.Errorf("stored job %d: %w", id, err)
	}
	job.State = parsed

	if result != nil {
		job.Result = &model.PathResult{}
		if err := json.Unmarshal(result, job.Result); err != nil {
			return nil, fmt.Errorf("decoding result for job %d: %w", id, err)
		}
	}
	return job, nil
}

// UpdateFrom writes the whole mutable row in one statement, guarded by the
// expected previous state. Readers therefore never see a state paired with
// a result or error from a different state.
func (s *jobStore) UpdateFrom(ctx context.Context, job *model.Job, expected model.JobState) error {
	var result []byte
	if job.Result != nil {
		encoded, err := json.Marshal(job.Result)
		if err != nil {
			return fmt.Errorf("encoding result: %w", err)
		}
		result = encoded
	}

	tag, err := s.pool.Exec(ctx,
		`UPDATE jobs
		 SET state = $1, attempt = $2, result = $3, error_message = $4, updated_at = now()
		 WHERE id = $5 AND state = $6`,
		string(job.State), job.Attempt, result, job.ErrorMessage, job.ID, string(expected))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		// Either the job is gone or another writer moved it first.
		if _, getErr := s.Get(ctx, job.ID); getErr != nil {
			return getErr
		}
		return ErrStaleState
	}
	return nil
}

func (s *jobStore) DeleteTerminalBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM jobs
		 WHERE state IN ($1, $2) AND updated_at < $3`,
		string(model.JobStateSucceeded), string(model.JobStateFailed), cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
