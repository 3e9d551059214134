package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/migrator/internal/app/run"
	"github.com/slok/migrator/internal/conventions"
	"github.com/slok/migrator/internal/executor/shell"
	"github.com/slok/migrator/internal/storage/io"
	"github.com/slok/migrator/internal/storage/sqlite"
	utilsenv "github.com/slok/migrator/internal/utils/env"
)

type RunCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	planPath   string
	appVersion string
	envSpecs   []string
	shell      string
	format     string
}

// NewRunCommand returns the run command.
func NewRunCommand(rootCmd *RootCommand, app *kingpin.Application) *RunCommand {
	c := &RunCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("run", "Run the pending tasks of a migration plan.")
	c.Cmd.Flag("plan", "Path to the migration plan YAML file.").Short('p').Required().StringVar(&c.planPath)
	c.Cmd.Flag("app-version", "Application version, by default the binary build version.").Envar(conventions.EnvAppVersion).StringVar(&c.appVersion)
	c.Cmd.Flag("env", "Environment variable for all the task scripts (KEY=VALUE or KEY to inherit), repeatable.").Short('e').StringsVar(&c.envSpecs)
	c.Cmd.Flag("shell", "Shell used to run the task scripts.").Default("sh").StringVar(&c.shell)
	c.Cmd.Flag("format", "Output format (table, json).").Default(formatTable).EnumVar(&c.format, formatTable, formatJSON)

	return c
}

func (c RunCommand) Name() string { return c.Cmd.FullCommand() }

func (c RunCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	env, err := parseEnvSpecs(c.envSpecs)
	if err != nil {
		return fmt.Errorf("invalid env: %w", err)
	}

	// Load plan.
	planPath, err := filepath.Abs(c.planPath)
	if err != nil {
		return fmt.Errorf("could not resolve plan path: %w", err)
	}
	planRepo := io.NewPlanYAMLRepository(os.DirFS(filepath.Dir(planPath)))
	plan, err := planRepo.GetPlan(ctx, filepath.Base(planPath))
	if err != nil {
		return fmt.Errorf("could not load plan: %w", err)
	}

	// Initialize storage (SQLite).
	repo, err := sqlite.NewRepository(ctx, sqlite.RepositoryConfig{
		DBPath: c.rootCmd.DBPath,
		Logger: logger,
	})
	if err != nil {
		return fmt.Errorf("could not create repository: %w", err)
	}
	defer repo.Close()

	executor, err := shell.NewExecutor(shell.ExecutorConfig{
		Shell:  c.shell,
		Logger: logger,
	})
	if err != nil {
		return fmt.Errorf("could not create executor: %w", err)
	}

	// Create run service.
	svc, err := run.NewService(run.ServiceConfig{
		Executor:   executor,
		Repository: repo,
		StatusKey:  c.rootCmd.StatusKey,
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	// Execute run.
	resp, err := svc.Run(ctx, run.Request{
		Plan:       plan,
		AppVersion: c.appVersion,
		Env:        env,
	})
	if err != nil {
		return fmt.Errorf("could not run migration: %w", err)
	}

	// Print output.
	p := newPrinter(c.format, c.rootCmd)
	if err := p.PrintStatuses(resp.Statuses); err != nil {
		return fmt.Errorf("could not print statuses: %w", err)
	}

	failed := 0
	for _, st := range resp.Statuses {
		if !st.Succeeded() {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d tasks didn't succeed", failed, len(resp.Statuses))
	}

	return nil
}

// parseEnvSpecs parses repeatable --env flags, later entries win.
func parseEnvSpecs(specs []string) (map[string]string, error) {
	return utilsenv.ParseSpecs(specs)
}
