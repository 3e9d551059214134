package executor

import (
	"context"
)

// Command is a task script execution.
type Command struct {
	TaskID string
	Script string
	Env    map[string]string
	// Dir is the working directory, empty uses the current one.
	Dir string
}

// Executor runs task scripts.
type Executor interface {
	// Execute runs the command and returns an error if it didn't succeed.
	Execute(ctx context.Context, cmd Command) error
}
