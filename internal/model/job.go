package model

import (
	"fmt"
	"strings"
	"time"
)

// JobState is the closed set of lifecycle states for an asynchronous
// path-finding job.
//
//	Pending --(dispatch)--> Processing
//	Processing --(succeed)--> Succeeded
//	Processing --(fail, retryable, attempts left)--> Retrying
//	Processing --(fail)--> Failed
//	Retrying --(dispatch)--> Processing
type JobState string

const (
	JobStatePending    JobState = "pending"
	JobStateProcessing JobState = "processing"
	JobStateRetrying   JobState = "retrying"
	JobStateSucceeded  JobState = "succeeded"
	JobStateFailed     JobState = "failed"
)

// Terminal reports whether no further transition can occur from s.
func (s JobState) Terminal() bool {
	return s == JobStateSucceeded || s == JobStateFailed
}

// CanTransition reports whether the state machine permits moving to next.
func (s JobState) CanTransition(next JobState) bool {
	switch s {
	case JobStatePending:
		return next == JobStateProcessing
	case JobStateProcessing:
		return next == JobStateSucceeded || next == JobStateRetrying || next == JobStateFailed
	case JobStateRetrying:
		return next == JobStateProcessing
	default:
		return false
	}
}

// ParseJobState normalizes an external status string to a known state.
// Anything outside the closed set is rejected.
func ParseJobState(s string) (JobState, error) {
	state := JobState(strings.ToLower(strings.TrimSpace(s)))
	switch state {
	case JobStatePending, JobStateProcessing, JobStateRetrying, JobStateSucceeded, JobStateFailed:
		return state, nil
	default:
		return "", fmt.Errorf("unknown job state %q", s)
	}
}

// PathResult is the outcome of a path-finding computation. Path holds node
// names in traversal order; it is nil when no route exists.
type PathResult struct {
	Found bool     `json:"found"`
	Path  []string `json:"path,omitempty"`
}

// Job is a tracked unit of asynchronous path-finding work.
//
// Invariant: Result is non-nil only when State == Succeeded; ErrorMessage is
// non-nil only when State is Retrying or Failed. The registry is the sole
// writer and keeps every update atomic, so readers never observe a
// combination that violates this.
type Job struct {
	ID           int64
	FromNode     string
	ToNode       string
	State        JobState
	Attempt      int
	Result       *PathResult
	ErrorMessage *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
