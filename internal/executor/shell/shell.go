package shell

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/slok/migrator/internal/executor"
	"github.com/slok/migrator/internal/log"
	"github.com/slok/migrator/internal/utils/env"
)

// ExecutorConfig is the configuration for the shell executor.
type ExecutorConfig struct {
	// Shell is the shell binary, it's called with `-c <script>`.
	Shell string
	// BaseEnv is the environment all the scripts inherit.
	BaseEnv map[string]string
	Logger  log.Logger
}

func (c *ExecutorConfig) defaults() error {
	if c.Shell == "" {
		c.Shell = "sh"
	}

	if c.BaseEnv == nil {
		c.BaseEnv = map[string]string{}
		for _, kv := range os.Environ() {
			if k, v, ok := strings.Cut(kv, "="); ok {
				c.BaseEnv[k] = v
			}
		}
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "executor.Shell"})

	return nil
}

// Executor runs task scripts with a local shell.
type Executor struct {
	shell   string
	baseEnv map[string]string
	logger  log.Logger
}

// NewExecutor creates a new shell executor.
func NewExecutor(cfg ExecutorConfig) (*Executor, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Executor{
		shell:   cfg.Shell,
		baseEnv: cfg.BaseEnv,
		logger:  cfg.Logger,
	}, nil
}

// Execute runs the script, the combined output is logged at debug level and
// its last line is part of the returned error.
func (e *Executor) Execute(ctx context.Context, cmd executor.Command) error {
	logger := e.logger.WithCtxValues(ctx).WithValues(log.Kv{"task": cmd.TaskID})

	var out bytes.Buffer
	c := exec.CommandContext(ctx, e.shell, "-c", cmd.Script)
	c.Env = env.List(env.Merge(e.baseEnv, cmd.Env))
	c.Dir = cmd.Dir
	c.Stdout = &out
	c.Stderr = &out

	logger.Debugf("Executing script")
	err := c.Run()

	lines := outputLines(out.Bytes())
	for _, l := range lines {
		logger.Debugf("%s", l)
	}

	if err != nil {
		if len(lines) == 0 {
			return fmt.Errorf("script failed: %w", err)
		}
		return fmt.Errorf("script failed: %w: %s", err, lines[len(lines)-1])
	}

	return nil
}

func outputLines(data []byte) []string {
	var lines []string
	s := bufio.NewScanner(bytes.NewReader(data))
	s.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for s.Scan() {
		if l := strings.TrimSpace(s.Text()); l != "" {
			lines = append(lines, l)
		}
	}

	return lines
}
