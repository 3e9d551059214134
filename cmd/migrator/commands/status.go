package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/migrator/internal/app/status"
	"github.com/slok/migrator/internal/storage/sqlite"
)

type StatusCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	taskIDs []string
	format  string
}

// NewStatusCommand returns the status command.
func NewStatusCommand(rootCmd *RootCommand, app *kingpin.Application) *StatusCommand {
	c := &StatusCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("status", "Get the persisted status of the migration tasks.")
	c.Cmd.Arg("task-id", "Task IDs to show, all by default.").StringsVar(&c.taskIDs)
	c.Cmd.Flag("format", "Output format (table, json).").Default(formatTable).EnumVar(&c.format, formatTable, formatJSON)

	return c
}

func (c StatusCommand) Name() string { return c.Cmd.FullCommand() }

func (c StatusCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	// Initialize storage (SQLite).
	repo, err := sqlite.NewRepository(ctx, sqlite.RepositoryConfig{
		DBPath: c.rootCmd.DBPath,
		Logger: logger,
	})
	if err != nil {
		return fmt.Errorf("could not create repository: %w", err)
	}
	defer repo.Close()

	// Create status service.
	svc, err := status.NewService(status.ServiceConfig{
		Repository: repo,
		StatusKey:  c.rootCmd.StatusKey,
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	// Execute status.
	statuses, err := svc.Run(ctx, status.Request{
		TaskIDs: c.taskIDs,
	})
	if err != nil {
		return fmt.Errorf("could not get task statuses: %w", err)
	}

	// Print output.
	p := newPrinter(c.format, c.rootCmd)
	if err := p.PrintStatuses(statuses); err != nil {
		return fmt.Errorf("could not print statuses: %w", err)
	}

	return nil
}
