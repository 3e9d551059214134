package migrator

import (
	"context"

	"github.com/slok/migrator/internal/semver"
)

// Action is the work a migration task does. Returning an error fails the
// task, the returned error message is persisted.
type Action func(ctx context.Context) error

// Task is a migration task definition. Use NewTask to get a task with the
// default version window and attempts.
type Task struct {
	// ID identifies the task across runs, its persisted status is indexed by it.
	ID string
	// From and To are the inclusive app version window where the task can run.
	From semver.Version
	To   semver.Version
	// Dependencies are the IDs of the tasks that must succeed before this one.
	Dependencies []string
	// MaxAttempts is the number of failed executions allowed across runs.
	MaxAttempts int
	// Action is the task work, a nil action always succeeds.
	Action Action
}

// TaskOption customizes a task created with NewTask.
type TaskOption func(t *Task)

// WithFrom sets the lowest app version where the task can run.
func WithFrom(v semver.Version) TaskOption {
	return func(t *Task) { t.From = v }
}

// WithTo sets the highest app version where the task can run.
func WithTo(v semver.Version) TaskOption {
	return func(t *Task) { t.To = v }
}

// WithDependencies adds task dependencies.
func WithDependencies(ids ...string) TaskOption {
	return func(t *Task) { t.Dependencies = append(t.Dependencies, ids...) }
}

// WithMaxAttempts sets the allowed failed executions of the task.
func WithMaxAttempts(n int) TaskOption {
	return func(t *Task) { t.MaxAttempts = n }
}

// NewTask returns a task that runs on any app version, has no dependencies and
// a single attempt, unless changed by the options.
func NewTask(id string, action Action, opts ...TaskOption) Task {
	t := Task{
		ID:          id,
		From:        semver.Oldest,
		To:          semver.Newest,
		MaxAttempts: 1,
		Action:      action,
	}
	for _, opt := range opts {
		opt(&t)
	}

	return t
}
