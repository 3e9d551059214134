package lib

import (
	"context"
	"fmt"
	"os"

	"github.com/slok/migrator/internal/appversion"
	"github.com/slok/migrator/internal/conventions"
	"github.com/slok/migrator/internal/log"
	"github.com/slok/migrator/internal/storage"
	"github.com/slok/migrator/internal/storage/memory"
	"github.com/slok/migrator/internal/storage/sqlite"
)

// Config configures the SDK client.
//
// All fields are optional. An empty Config{} uses ~/.migrator/migrator.db for
// storage and the binary build version as the application version.
type Config struct {
	// DBPath is the SQLite database path.
	// Default: ~/.migrator/migrator.db.
	DBPath string

	// InMemory stores the statuses in memory instead of SQLite, they are lost
	// when the client is closed.
	InMemory bool

	// StatusKey is the storage key of the statuses document.
	// Default: "migrator.task.statuses".
	StatusKey string

	// AppVersion is the running application semantic version, a leading "v"
	// is allowed. Default: the main module version of the running binary.
	AppVersion string

	// Logger receives structured log output from the SDK.
	// Default: noop (silent). See the log sub-package for the interface.
	Logger log.Logger
}

func (c *Config) defaults() error {
	if c.DBPath == "" && !c.InMemory {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("could not get user home dir: %w", err)
		}
		c.DBPath = conventions.DBPath(home)
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}

	return nil
}

// Client is the main SDK entry point.
//
// Create a Client with [New] and release its resources with [Client.Close].
// A Client is safe for concurrent use, but concurrent runs on the same
// storage would overwrite each other statuses.
type Client struct {
	repo       storage.Repository
	statusKey  string
	appVersion string
	logger     log.Logger
	closeFn    func() error
}

// New creates a new SDK client.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	c := &Client{
		statusKey:  cfg.StatusKey,
		appVersion: cfg.AppVersion,
		logger:     cfg.Logger,
	}

	if cfg.InMemory {
		repo, err := memory.NewRepository(memory.RepositoryConfig{Logger: cfg.Logger})
		if err != nil {
			return nil, fmt.Errorf("could not create repository: %w", err)
		}
		c.repo = repo
		return c, nil
	}

	repo, err := sqlite.NewRepository(ctx, sqlite.RepositoryConfig{
		DBPath: cfg.DBPath,
		Logger: cfg.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create repository: %w", err)
	}
	c.repo = repo
	c.closeFn = repo.Close

	return c, nil
}

// Close releases resources held by the client, including the database connection.
// After Close returns, the client must not be used.
func (c *Client) Close() error {
	if c.closeFn != nil {
		return c.closeFn()
	}
	return nil
}

func (c *Client) appVersionProvider() appversion.Provider {
	if c.appVersion == "" {
		return appversion.BuildInfo()
	}
	return appversion.Static(c.appVersion)
}
