package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/slok/migrator/internal/log"
	"github.com/slok/migrator/internal/model"
)

// RepositoryConfig is the configuration for the memory repository.
type RepositoryConfig struct {
	Logger log.Logger
}

func (c *RepositoryConfig) defaults() error {
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "storage.Memory"})
	return nil
}

// Repository is an in-memory implementation of storage.Repository.
type Repository struct {
	values map[string][]byte
	mu     sync.RWMutex
	logger log.Logger
}

// NewRepository creates a new memory repository.
func NewRepository(cfg RepositoryConfig) (*Repository, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Repository{
		values: make(map[string][]byte),
		logger: cfg.Logger,
	}, nil
}

// Get returns the value stored for a key.
func (r *Repository) Get(ctx context.Context, key string) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	value, ok := r.values[key]
	if !ok {
		return nil, fmt.Errorf("key %s: %w", key, model.ErrNotFound)
	}

	// Return a copy.
	return append([]byte(nil), value...), nil
}

// Set stores the value for a key.
func (r *Repository) Set(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return fmt.Errorf("key is required: %w", model.ErrNotValid)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.values[key] = append([]byte(nil), value...)
	r.logger.Debugf("Stored %d bytes for key %s", len(value), key)

	return nil
}
