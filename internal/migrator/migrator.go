// Package migrator runs version gated migration tasks in dependency order,
// persisting every task status so failed tasks are retried on later runs
// until they run out of attempts.
package migrator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/slok/migrator/internal/appversion"
	"github.com/slok/migrator/internal/log"
	"github.com/slok/migrator/internal/model"
	"github.com/slok/migrator/internal/statusstore"
	"github.com/slok/migrator/internal/storage"
)

// Config is the configuration of the Migrator.
type Config struct {
	// Repository is where the task statuses are persisted.
	Repository storage.Repository
	// AppVersion resolves the running application version.
	AppVersion appversion.Provider
	// StatusKey is the repository key of the statuses document.
	StatusKey string
	Logger    log.Logger
	// TimeNow is used for the status dates, defaults to time.Now.
	TimeNow func() time.Time
}

func (c *Config) defaults() error {
	if c.Repository == nil {
		return fmt.Errorf("repository is required")
	}

	if c.AppVersion == nil {
		c.AppVersion = appversion.BuildInfo()
	}

	if c.StatusKey == "" {
		c.StatusKey = statusstore.DefaultKey
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "migrator.Migrator"})

	if c.TimeNow == nil {
		c.TimeNow = time.Now
	}

	return nil
}

// Migrator registers migration tasks and runs them once.
//
// Tasks whose dependencies are done run concurrently. Task failures are not
// returned as errors, they are recorded in the task statuses.
type Migrator struct {
	store      *statusstore.Store
	appVersion appversion.Provider
	logger     log.Logger
	timeNow    func() time.Time

	mu       sync.Mutex
	tasks    []Task
	started  bool
	statuses map[string]model.TaskStatus
}

// New returns a new Migrator.
func New(cfg Config) (*Migrator, error) {
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

	return &Migrator{
		store:      store,
		appVersion: cfg.AppVersion,
		logger:     cfg.Logger,
		timeNow:    cfg.TimeNow,
		statuses:   map[string]model.TaskStatus{},
	}, nil
}

// Register adds a task to the run. The task is validated when the migrator
// starts. Tasks registered after the start are ignored.
func (m *Migrator) Register(t Task) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.started {
		m.logger.Warningf("Ignoring task %q registered after start", t.ID)
		return
	}

	t.Dependencies = append([]string(nil), t.Dependencies...)
	m.tasks = append(m.tasks, t)
}

// Start validates the registered tasks and runs them, returning the final
// status of each one of them when all the tasks are settled.
//
// Only setup errors are returned (all of them wrap model.ErrSetup), in that
// case no task is executed and nothing is persisted. ctx is passed to the
// task actions.
func (m *Migrator) Start(ctx context.Context) (map[string]model.TaskStatus, error) {
	m.mu.Lock()
	if m.started {
		m.mu.Unlock()
		return nil, fmt.Errorf("could not start: %w", model.ErrAlreadyStarted)
	}
	m.started = true
	tasks := m.tasks
	m.mu.Unlock()

	ctx = log.CtxWithValues(ctx, log.Kv{"run-id": ulid.Make().String()})
	logger := m.logger.WithCtxValues(ctx)

	reg, err := newRegistry(ctx, m.appVersion, tasks)
	if err != nil {
		return nil, err
	}

	order, err := reg.order()
	if err != nil {
		return nil, err
	}

	m.loadStatuses(ctx, logger, reg)

	p := newPersister(ctx, m.store, logger)
	e := &execution{
		m:         m,
		reg:       reg,
		persister: p,
		logger:    logger,
		settled:   map[string]bool{},
		pending:   map[string]int{},
		results:   make(chan result),
	}

	logger.Infof("Starting migration of %d tasks", len(order))
	start := time.Now()
	e.run(ctx, order)
	p.close()

	statuses := m.Statuses()
	logger.Infof("Migration finished in %s: %s", time.Since(start), summary(statuses))

	return statuses, nil
}

// Statuses returns a snapshot of the statuses of the registered tasks. It's
// safe to call it while the migrator is running.
func (m *Migrator) Statuses() map[string]model.TaskStatus {
	m.mu.Lock()
	defer m.mu.Unlock()

	statuses := make(map[string]model.TaskStatus, len(m.statuses))
	for id, st := range m.statuses {
		statuses[id] = st
	}

	return statuses
}

// loadStatuses fills the statuses cache with the persisted status of each
// registered task. A task left in progress was interrupted, it keeps its
// attempts and previous failure and becomes eligible again.
func (m *Migrator) loadStatuses(ctx context.Context, logger log.Logger, reg *registry) {
	persisted, err := m.store.Load(ctx)
	if err != nil {
		logger.Errorf("Could not load persisted statuses, starting from scratch: %s", err)
		persisted = map[string]model.TaskStatus{}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for id := range reg.tasks {
		st, ok := persisted[id]
		if !ok {
			st = model.TaskStatus{TaskID: id}
		}
		st.TaskID = id

		if st.InProgress {
			logger.Warningf("Task %q was interrupted on a previous run", id)
			st.InProgress = false
			st.Outcome.Success = nil
		}

		m.statuses[id] = st
	}
}

// update applies a change to a task status and queues its persistence.
func (m *Migrator) update(id string, p *persister, f func(st *model.TaskStatus)) {
	m.mu.Lock()
	st := m.statuses[id]
	f(&st)
	m.statuses[id] = st
	m.mu.Unlock()

	p.enqueue(st)
}

func (m *Migrator) status(id string) model.TaskStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.statuses[id]
}

func summary(statuses map[string]model.TaskStatus) string {
	var succeeded, failed int
	for _, st := range statuses {
		switch {
		case st.Succeeded():
			succeeded++
		case st.Failed():
			failed++
		}
	}

	return fmt.Sprintf("%d succeeded, %d failed", succeeded, failed)
}
