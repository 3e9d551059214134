package lib

import "github.com/slok/migrator/internal/model"

// Errors returned by the SDK, check them with errors.Is.
var (
	// ErrNotFound is returned when a task status doesn't exist.
	ErrNotFound = model.ErrNotFound
	// ErrNotValid is returned when an input, like a plan file, is not valid.
	ErrNotValid = model.ErrNotValid

	// ErrSetup is wrapped by all the errors that abort a run before any task is executed.
	ErrSetup = model.ErrSetup
	// ErrInvalidAppVersion is returned when the application version can't be resolved.
	ErrInvalidAppVersion = model.ErrInvalidAppVersion
	// ErrInvalidBounds is returned when a task version window start is greater than its end.
	ErrInvalidBounds = model.ErrInvalidBounds
	// ErrOutdatedBounds is returned when a task version window doesn't include the app version.
	ErrOutdatedBounds = model.ErrOutdatedBounds
	// ErrInvalidAttempts is returned when a task max attempts is not positive.
	ErrInvalidAttempts = model.ErrInvalidAttempts
	// ErrDuplicateTask is returned when two tasks have the same ID.
	ErrDuplicateTask = model.ErrDuplicateTask
	// ErrDependencyCycle is returned when the task dependencies have a cycle.
	ErrDependencyCycle = model.ErrDependencyCycle
	// ErrInvalidDependency is returned when a task depends on an unknown task.
	ErrInvalidDependency = model.ErrInvalidDependency
)
