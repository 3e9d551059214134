package fake

import (
	"context"
	"fmt"
	"sync"

	"github.com/slok/migrator/internal/executor"
	"github.com/slok/migrator/internal/log"
)

// ExecutorConfig is the configuration for the fake executor.
type ExecutorConfig struct {
	// Errors are the errors returned for each task ID, the rest succeed.
	Errors map[string]error
	Logger log.Logger
}

func (c *ExecutorConfig) defaults() error {
	if c.Errors == nil {
		c.Errors = map[string]error{}
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "executor.Fake"})
	return nil
}

// Executor is a fake implementation of the executor.Executor interface.
// It records the commands without running them.
type Executor struct {
	errors   map[string]error
	executed []executor.Command
	mu       sync.Mutex
	logger   log.Logger
}

// NewExecutor creates a new fake executor.
func NewExecutor(cfg ExecutorConfig) (*Executor, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Executor{
		errors: cfg.Errors,
		logger: cfg.Logger,
	}, nil
}

// Execute records the command.
func (e *Executor) Execute(ctx context.Context, cmd executor.Command) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.executed = append(e.executed, cmd)
	e.logger.Debugf("Fake executed task %s", cmd.TaskID)

	return e.errors[cmd.TaskID]
}

// Executed returns the executed commands in execution order.
func (e *Executor) Executed() []executor.Command {
	e.mu.Lock()
	defer e.mu.Unlock()

	return append([]executor.Command(nil), e.executed...)
}
