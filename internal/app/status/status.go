package status

import (
	"context"
	"fmt"
	"sort"

	"github.com/slok/migrator/internal/log"
	"github.com/slok/migrator/internal/model"
	"github.com/slok/migrator/internal/statusstore"
	"github.com/slok/migrator/internal/storage"
)

// ServiceConfig is the configuration for the status service.
type ServiceConfig struct {
	Repository storage.Repository
	// StatusKey is the repository key of the statuses, empty uses the default.
	StatusKey string
	Logger    log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.Repository == nil {
		return fmt.Errorf("repository is required")
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}

	return nil
}

// Service retrieves the persisted task statuses.
type Service struct {
	store  *statusstore.Store
	logger log.Logger
}

// NewService creates a new status service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	store, err := statusstore.NewStore(statusstore.StoreConfig{
		Repository: cfg.Repository,
		Key:        cfg.StatusKey,
		Logger:     cfg.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create status store: %w", err)
	}

	return &Service{
		store:  store,
		logger: cfg.Logger,
	}, nil
}

// Request represents the status request parameters.
type Request struct {
	// TaskIDs filters the returned tasks, empty returns all of them.
	TaskIDs []string
}

// Run returns the persisted statuses sorted by task ID, or in the requested
// order when filtering.
func (s *Service) Run(ctx context.Context, req Request) ([]model.TaskStatus, error) {
	statuses, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not load statuses: %w", err)
	}
	s.logger.Debugf("loaded %d task statuses", len(statuses))

	if len(req.TaskIDs) > 0 {
		res := make([]model.TaskStatus, 0, len(req.TaskIDs))
		for _, id := range req.TaskIDs {
			st, ok := statuses[id]
			if !ok {
				return nil, fmt.Errorf("task status not found: %s: %w", id, model.ErrNotFound)
			}
			res = append(res, st)
		}
		return res, nil
	}

	res := make([]model.TaskStatus, 0, len(statuses))
	for _, st := range statuses {
		res = append(res, st)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].TaskID < res[j].TaskID })

	return res, nil
}
