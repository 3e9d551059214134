package run

import (
	"context"
	"fmt"

	"github.com/slok/migrator/internal/appversion"
	"github.com/slok/migrator/internal/executor"
	"github.com/slok/migrator/internal/log"
	"github.com/slok/migrator/internal/migrator"
	"github.com/slok/migrator/internal/model"
	"github.com/slok/migrator/internal/storage"
	"github.com/slok/migrator/internal/utils/env"
)

// ServiceConfig is the configuration for the run service.
type ServiceConfig struct {
	Executor   executor.Executor
	Repository storage.Repository
	// StatusKey is the repository key of the statuses, empty uses the default.
	StatusKey string
	Logger    log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.Executor == nil {
		return fmt.Errorf("executor is required")
	}

	if c.Repository == nil {
		return fmt.Errorf("repository is required")
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}

	return nil
}

// Service runs the tasks of a migration plan.
type Service struct {
	executor  executor.Executor
	repo      storage.Repository
	statusKey string
	logger    log.Logger
}

// NewService creates a new run service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		executor:  cfg.Executor,
		repo:      cfg.Repository,
		statusKey: cfg.StatusKey,
		logger:    cfg.Logger,
	}, nil
}

// Request represents the run request parameters.
type Request struct {
	Plan model.Plan
	// AppVersion is the running application version, empty uses the binary build version.
	AppVersion string
	// Env is set on all the task scripts, task env wins.
	Env map[string]string
}

// Response is the result of a run.
type Response struct {
	// Statuses are the final task statuses in plan order.
	Statuses []model.TaskStatus
}

// Run executes the plan tasks. Failed tasks are not an error, they are
// reported on the statuses.
func (s *Service) Run(ctx context.Context, req Request) (*Response, error) {
	provider := appversion.BuildInfo()
	if req.AppVersion != "" {
		provider = appversion.Static(req.AppVersion)
	}

	m, err := migrator.New(migrator.Config{
		Repository: s.repo,
		AppVersion: provider,
		StatusKey:  s.statusKey,
		Logger:     s.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create migrator: %w", err)
	}

	for _, t := range req.Plan.Tasks {
		m.Register(migrator.NewTask(t.ID, s.action(t, req.Env),
			migrator.WithFrom(t.From),
			migrator.WithTo(t.To),
			migrator.WithDependencies(t.Dependencies...),
			migrator.WithMaxAttempts(t.MaxAttempts),
		))
	}

	statuses, err := m.Start(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not run migration: %w", err)
	}

	resp := &Response{Statuses: make([]model.TaskStatus, 0, len(req.Plan.Tasks))}
	for _, t := range req.Plan.Tasks {
		resp.Statuses = append(resp.Statuses, statuses[t.ID])
	}

	return resp, nil
}

func (s *Service) action(t model.PlanTask, baseEnv map[string]string) migrator.Action {
	cmd := executor.Command{
		TaskID: t.ID,
		Script: t.Script,
		Env:    env.Merge(baseEnv, t.Env),
		Dir:    t.Dir,
	}

	return func(ctx context.Context) error {
		return s.executor.Execute(ctx, cmd)
	}
}
