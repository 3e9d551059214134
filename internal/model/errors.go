package model

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a resource is not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when a resource already exists.
	ErrAlreadyExists = errors.New("already exists")
	// ErrNotValid is returned when a resource is not valid.
	ErrNotValid = errors.New("not valid")
)

// ErrSetup is wrapped by all the errors that abort a migration run before any
// task is executed.
var ErrSetup = errors.New("invalid migration setup")

var (
	// ErrInvalidAppVersion is returned when the application version can't be retrieved or parsed.
	ErrInvalidAppVersion = setupError("invalid app version")
	// ErrInvalidBounds is returned when a task version window start is greater than its end.
	ErrInvalidBounds = setupError("invalid version bounds")
	// ErrOutdatedBounds is returned when a task version window doesn't include the app version.
	ErrOutdatedBounds = setupError("app version outside task version bounds")
	// ErrInvalidAttempts is returned when a task max attempts is not positive.
	ErrInvalidAttempts = setupError("invalid max attempts")
	// ErrDuplicateTask is returned when a task is registered more than once.
	ErrDuplicateTask = setupError("duplicate task")
	// ErrDependencyCycle is returned when the task dependencies have a cycle.
	ErrDependencyCycle = setupError("dependency cycle")
	// ErrInvalidDependency is returned when a task depends on a task that is not registered.
	ErrInvalidDependency = setupError("invalid dependency")
	// ErrAlreadyStarted is returned when a migrator is started more than once.
	ErrAlreadyStarted = setupError("already started")
)

func setupError(msg string) error {
	return fmt.Errorf("%s: %w", msg, ErrSetup)
}
