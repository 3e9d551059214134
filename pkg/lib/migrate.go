package lib

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/slok/migrator/internal/app/run"
	"github.com/slok/migrator/internal/app/status"
	"github.com/slok/migrator/internal/executor/shell"
	"github.com/slok/migrator/internal/migrator"
	storageio "github.com/slok/migrator/internal/storage/io"
)

// Migrate runs the tasks once and returns their final statuses.
//
// Tasks already succeeded or terminally failed on previous runs are not
// executed. A setup error (wrapping [ErrSetup]) means nothing was executed.
func (c *Client) Migrate(ctx context.Context, tasks ...Task) (map[string]TaskStatus, error) {
	m, err := migrator.New(migrator.Config{
		Repository: c.repo,
		AppVersion: c.appVersionProvider(),
		StatusKey:  c.statusKey,
		Logger:     c.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create migrator: %w", err)
	}

	for _, t := range tasks {
		m.Register(t)
	}

	statuses, err := m.Start(ctx)
	if err != nil {
		return nil, err
	}

	res := make(map[string]TaskStatus, len(statuses))
	for id, st := range statuses {
		res[id] = fromInternalTaskStatus(st)
	}

	return res, nil
}

// RunPlan loads a YAML plan file and runs its tasks with a local shell,
// returning the final statuses in plan order.
func (c *Client) RunPlan(ctx context.Context, path string, opts *RunPlanOpts) ([]TaskStatus, error) {
	if opts == nil {
		opts = &RunPlanOpts{}
	}

	path, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("could not resolve plan path: %w", err)
	}

	plan, err := storageio.NewPlanYAMLRepository(os.DirFS(filepath.Dir(path))).GetPlan(ctx, filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("could not load plan: %w", err)
	}

	executor, err := shell.NewExecutor(shell.ExecutorConfig{
		Shell:  opts.Shell,
		Logger: c.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create executor: %w", err)
	}

	svc, err := run.NewService(run.ServiceConfig{
		Executor:   executor,
		Repository: c.repo,
		StatusKey:  c.statusKey,
		Logger:     c.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create service: %w", err)
	}

	resp, err := svc.Run(ctx, run.Request{
		Plan:       plan,
		AppVersion: c.appVersion,
		Env:        opts.Env,
	})
	if err != nil {
		return nil, err
	}

	return fromInternalTaskStatusList(resp.Statuses), nil
}

// Statuses returns the persisted task statuses sorted by task ID. When task
// IDs are given only those are returned, a missing one is an [ErrNotFound].
func (c *Client) Statuses(ctx context.Context, taskIDs ...string) ([]TaskStatus, error) {
	svc, err := status.NewService(status.ServiceConfig{
		Repository: c.repo,
		StatusKey:  c.statusKey,
		Logger:     c.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create service: %w", err)
	}

	statuses, err := svc.Run(ctx, status.Request{TaskIDs: taskIDs})
	if err != nil {
		return nil, err
	}

	return fromInternalTaskStatusList(statuses), nil
}
