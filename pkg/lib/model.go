package lib

import (
	"time"

	"github.com/slok/migrator/internal/migrator"
	"github.com/slok/migrator/internal/model"
	"github.com/slok/migrator/internal/semver"
)

// Version is a semantic version.
type Version = semver.Version

var (
	// Oldest is the lowest possible version, the default start of a task window.
	Oldest = semver.Oldest
	// Newest is the highest possible version, the default end of a task window.
	Newest = semver.Newest
)

// Parse parses a semantic version like "1.2.3-rc.1+build.5".
func Parse(s string) (Version, error) { return semver.Parse(s) }

// MustParse is like Parse but panics on invalid versions.
func MustParse(s string) Version { return semver.MustParse(s) }

// Compare returns -1, 0 or +1 depending on the precedence of a and b. Build
// metadata is ignored.
func Compare(a, b Version) int { return semver.Compare(a, b) }

// Action is the work a task does. A returned error fails the task.
type Action = migrator.Action

// Task is a migration task definition, create it with [NewTask].
type Task = migrator.Task

// TaskOption customizes a task created with [NewTask].
type TaskOption = migrator.TaskOption

// NewTask returns a task that runs on any app version, without dependencies
// and with a single attempt, unless changed by the options.
func NewTask(id string, action Action, opts ...TaskOption) Task {
	return migrator.NewTask(id, action, opts...)
}

// WithFrom sets the lowest app version where the task can run.
func WithFrom(v Version) TaskOption { return migrator.WithFrom(v) }

// WithTo sets the highest app version where the task can run.
func WithTo(v Version) TaskOption { return migrator.WithTo(v) }

// WithDependencies adds task dependencies.
func WithDependencies(ids ...string) TaskOption { return migrator.WithDependencies(ids...) }

// WithMaxAttempts sets the allowed failed executions of the task across runs.
func WithMaxAttempts(n int) TaskOption { return migrator.WithMaxAttempts(n) }

// TaskState is the state of a task.
type TaskState string

const (
	TaskStatePending    TaskState = "pending"
	TaskStateInProgress TaskState = "in-progress"
	TaskStateSucceeded  TaskState = "succeeded"
	TaskStateFailed     TaskState = "failed"
)

// FailureReason is why a task failed.
type FailureReason string

const (
	// FailureReasonTaskFailed means the task action returned an error.
	FailureReasonTaskFailed FailureReason = FailureReason(model.ExecutionErrorTaskFailed)
	// FailureReasonDependencyFailed means a task dependency failed, the task won't run again.
	FailureReasonDependencyFailed FailureReason = FailureReason(model.ExecutionErrorDependencyFailed)
	// FailureReasonExceededAttempts means the task has no attempts left, it won't run again.
	FailureReasonExceededAttempts FailureReason = FailureReason(model.ExecutionErrorExceededAttempts)
)

// TaskStatus is the persisted status of a task.
type TaskStatus struct {
	TaskID         string
	State          TaskState
	FailedAttempts int
	// CompletedAt is set when the task succeeded.
	CompletedAt *time.Time
	// FailedAt is set when the last execution failed.
	FailedAt *time.Time
	// FailureReason and FailureMessage describe the last failure.
	FailureReason  FailureReason
	FailureMessage string
}

func fromInternalTaskStatus(s model.TaskStatus) TaskStatus {
	st := TaskStatus{
		TaskID:         s.TaskID,
		State:          TaskState(s.State()),
		FailedAttempts: s.FailedAttempts,
	}

	if s.Outcome.Success != nil {
		t := s.Outcome.Success.CompletionDate
		st.CompletedAt = &t
	}

	if s.Outcome.Failure != nil {
		t := s.Outcome.Failure.LastFailDate
		st.FailedAt = &t
		st.FailureReason = FailureReason(s.Outcome.Failure.Reason.Kind)
		st.FailureMessage = s.Outcome.Failure.Reason.Message
	}

	return st
}

func fromInternalTaskStatusList(ss []model.TaskStatus) []TaskStatus {
	result := make([]TaskStatus, len(ss))
	for i, s := range ss {
		result[i] = fromInternalTaskStatus(s)
	}
	return result
}

// RunPlanOpts are the options of [Client.RunPlan].
type RunPlanOpts struct {
	// Env is set on all the task scripts, the plan task env wins.
	Env map[string]string
	// Shell runs the scripts with `-c`. Default: "sh".
	Shell string
}
