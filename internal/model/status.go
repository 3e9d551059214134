package model

import (
	"time"
)

// ExecutionErrorKind is the reason a task ended up failed.
type ExecutionErrorKind string

const (
	// ExecutionErrorDependencyFailed means one of the task dependencies failed.
	ExecutionErrorDependencyFailed ExecutionErrorKind = "dependencyFailed"
	// ExecutionErrorExceededAttempts means the task used all its attempts.
	ExecutionErrorExceededAttempts ExecutionErrorKind = "exceededAttempts"
	// ExecutionErrorTaskFailed means the task action returned an error.
	ExecutionErrorTaskFailed ExecutionErrorKind = "taskFailed"
)

// ExecutionError is the recorded failure of a task. It's data, never returned
// as a Go error by the scheduler.
type ExecutionError struct {
	Kind ExecutionErrorKind
	// Message is the action error description, only for ExecutionErrorTaskFailed.
	Message string
}

func (e ExecutionError) String() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return string(e.Kind) + ": " + e.Message
}

// Success is a successful task outcome.
type Success struct {
	CompletionDate time.Time
}

// Failure is a failed task outcome.
type Failure struct {
	LastFailDate time.Time
	Reason       ExecutionError
}

// Outcome is the result of the last task execution. At most one of Success
// and Failure is set, none if the task never finished.
type Outcome struct {
	Success *Success
	Failure *Failure
}

// TaskStatus is the persisted state of a migration task.
//
// Lifecycle across runs:
//
//	(unknown) -> in progress -> succeeded
//	                         -> failed -> in progress (retry on a later run)
//
// A failure is terminal when it was caused by a dependency or by exhausting
// the attempts.
type TaskStatus struct {
	TaskID         string
	FailedAttempts int
	Outcome        Outcome
	InProgress     bool
}

// Succeeded reports whether the task finished successfully.
func (t TaskStatus) Succeeded() bool {
	return !t.InProgress && t.Outcome.Success != nil
}

// Failed reports whether the last execution of the task failed.
func (t TaskStatus) Failed() bool {
	return !t.InProgress && t.Outcome.Failure != nil
}

// TerminallyFailed reports whether the task failure is definitive and the
// task will never be executed again.
func (t TaskStatus) TerminallyFailed() bool {
	if !t.Failed() {
		return false
	}

	switch t.Outcome.Failure.Reason.Kind {
	case ExecutionErrorDependencyFailed, ExecutionErrorExceededAttempts:
		return true
	}
	return false
}

// State returns a short human readable state of the task.
func (t TaskStatus) State() string {
	switch {
	case t.InProgress:
		return "in-progress"
	case t.Succeeded():
		return "succeeded"
	case t.Failed():
		return "failed"
	default:
		return "pending"
	}
}
