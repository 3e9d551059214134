package migrator_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/slok/migrator/internal/appversion"
	"github.com/slok/migrator/internal/log"
	"github.com/slok/migrator/internal/migrator"
	"github.com/slok/migrator/internal/model"
	"github.com/slok/migrator/internal/semver"
	"github.com/slok/migrator/internal/statusstore"
	"github.com/slok/migrator/internal/storage"
	"github.com/slok/migrator/internal/storage/memory"
	"github.com/slok/migrator/internal/storage/storagemock"
)

var t0 = time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)

func succeeded(id string, attempts int) model.TaskStatus {
	return model.TaskStatus{
		TaskID:         id,
		FailedAttempts: attempts,
		Outcome:        model.Outcome{Success: &model.Success{CompletionDate: t0}},
	}
}

func failed(id string, attempts int, kind model.ExecutionErrorKind, msg string) model.TaskStatus {
	return model.TaskStatus{
		TaskID:         id,
		FailedAttempts: attempts,
		Outcome: model.Outcome{Failure: &model.Failure{
			LastFailDate: t0,
			Reason:       model.ExecutionError{Kind: kind, Message: msg},
		}},
	}
}

func newMemoryRepo(t *testing.T) storage.Repository {
	repo, err := memory.NewRepository(memory.RepositoryConfig{})
	require.NoError(t, err)
	return repo
}

func newMigrator(t *testing.T, repo storage.Repository, appVersion string) *migrator.Migrator {
	m, err := migrator.New(migrator.Config{
		Repository: repo,
		AppVersion: appversion.Static(appVersion),
		TimeNow:    func() time.Time { return t0 },
	})
	require.NoError(t, err)
	return m
}

// recorder records the executed actions.
type recorder struct {
	mu       sync.Mutex
	executed []string
}

func (r *recorder) action(id string, err error) migrator.Action {
	return func(ctx context.Context) error {
		r.mu.Lock()
		r.executed = append(r.executed, id)
		r.mu.Unlock()
		return err
	}
}

func (r *recorder) Executed() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.executed...)
}

func TestNewConfig(t *testing.T) {
	_, err := migrator.New(migrator.Config{})
	assert.Error(t, err)
}

func TestMigratorSetupErrors(t *testing.T) {
	v := semver.MustParse

	tests := map[string]struct {
		appVersion appversion.Provider
		tasks      []migrator.Task
		expErr     error
	}{
		"An app version that can't be retrieved should fail.": {
			appVersion: appversion.ProviderFunc(func(ctx context.Context) (semver.Version, error) {
				return semver.Version{}, errors.New("something")
			}),
			tasks:  []migrator.Task{migrator.NewTask("a", nil)},
			expErr: model.ErrInvalidAppVersion,
		},

		"An app version that can't be parsed should fail.": {
			appVersion: appversion.Static("01.0.0"),
			tasks:      []migrator.Task{migrator.NewTask("a", nil)},
			expErr:     model.ErrInvalidAppVersion,
		},

		"A task with a window start greater than the end should fail.": {
			tasks: []migrator.Task{
				migrator.NewTask("a", nil, migrator.WithFrom(v("2.0.0")), migrator.WithTo(v("1.0.0"))),
			},
			expErr: model.ErrInvalidBounds,
		},

		"A task with a window that doesn't include the app version should fail.": {
			tasks: []migrator.Task{
				migrator.NewTask("a", nil, migrator.WithFrom(v("1.0.1"))),
			},
			expErr: model.ErrOutdatedBounds,
		},

		"A task with a window that ends before the app version should fail.": {
			tasks: []migrator.Task{
				migrator.NewTask("a", nil, migrator.WithTo(v("1.0.0-rc.1"))),
			},
			expErr: model.ErrOutdatedBounds,
		},

		"A task outside the app version should fail the whole batch.": {
			tasks: []migrator.Task{
				migrator.NewTask("a", nil),
				migrator.NewTask("b", nil, migrator.WithFrom(v("2.0.0"))),
			},
			expErr: model.ErrOutdatedBounds,
		},

		"A task with invalid attempts should fail the whole batch.": {
			tasks: []migrator.Task{
				migrator.NewTask("a", nil),
				migrator.NewTask("b", nil, migrator.WithMaxAttempts(0)),
			},
			expErr: model.ErrInvalidAttempts,
		},

		"A task with zero attempts should fail.": {
			tasks:  []migrator.Task{migrator.NewTask("a", nil, migrator.WithMaxAttempts(0))},
			expErr: model.ErrInvalidAttempts,
		},

		"A task with negative attempts should fail.": {
			tasks:  []migrator.Task{migrator.NewTask("a", nil, migrator.WithMaxAttempts(-1))},
			expErr: model.ErrInvalidAttempts,
		},

		"A task without defaults should fail on the attempts.": {
			tasks:  []migrator.Task{{ID: "a", To: semver.Newest}},
			expErr: model.ErrInvalidAttempts,
		},

		"A task registered twice should fail.": {
			tasks: []migrator.Task{
				migrator.NewTask("a", nil),
				migrator.NewTask("b", nil),
				migrator.NewTask("a", nil),
			},
			expErr: model.ErrDuplicateTask,
		},

		"The first invalid task in registration order should be reported.": {
			tasks: []migrator.Task{
				migrator.NewTask("a", nil),
				migrator.NewTask("b", nil, migrator.WithMaxAttempts(0)),
				migrator.NewTask("c", nil, migrator.WithFrom(v("2.0.0")), migrator.WithTo(v("1.0.0"))),
			},
			expErr: model.ErrInvalidAttempts,
		},

		"Tasks with a dependency cycle should fail.": {
			tasks: []migrator.Task{
				migrator.NewTask("a", nil, migrator.WithDependencies("c")),
				migrator.NewTask("b", nil, migrator.WithDependencies("a")),
				migrator.NewTask("c", nil, migrator.WithDependencies("b")),
			},
			expErr: model.ErrDependencyCycle,
		},

		"A task depending on itself should fail.": {
			tasks:  []migrator.Task{migrator.NewTask("a", nil, migrator.WithDependencies("a"))},
			expErr: model.ErrDependencyCycle,
		},

		"A task depending on an unregistered task should fail.": {
			tasks: []migrator.Task{
				migrator.NewTask("a", nil),
				migrator.NewTask("b", nil, migrator.WithDependencies("a", "missing")),
			},
			expErr: model.ErrInvalidDependency,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)

			if test.appVersion == nil {
				test.appVersion = appversion.Static("1.0.0")
			}

			// Nothing should be read or written.
			mr := storagemock.NewMockRepository(t)
			m, err := migrator.New(migrator.Config{Repository: mr, AppVersion: test.appVersion})
			require.NoError(err)

			rec := &recorder{}
			for _, task := range test.tasks {
				task.Action = rec.action(task.ID, nil)
				m.Register(task)
			}

			statuses, err := m.Start(context.TODO())
			assert.ErrorIs(err, test.expErr)
			assert.ErrorIs(err, model.ErrSetup)
			assert.Nil(statuses)
			assert.Empty(rec.Executed())
		})
	}
}

func TestMigratorWithoutTasksDoesNotResolveAppVersion(t *testing.T) {
	called := false
	m, err := migrator.New(migrator.Config{
		Repository: newMemoryRepo(t),
		AppVersion: appversion.ProviderFunc(func(ctx context.Context) (semver.Version, error) {
			called = true
			return semver.Version{}, errors.New("something")
		}),
	})
	require.NoError(t, err)

	statuses, err := m.Start(context.TODO())
	require.NoError(t, err)
	assert.Empty(t, statuses)
	assert.False(t, called)
}

func TestMigratorStartTwice(t *testing.T) {
	m := newMigrator(t, newMemoryRepo(t), "1.0.0")
	m.Register(migrator.NewTask("a", nil))

	_, err := m.Start(context.TODO())
	require.NoError(t, err)

	_, err = m.Start(context.TODO())
	assert.ErrorIs(t, err, model.ErrAlreadyStarted)
}

func TestMigratorRun(t *testing.T) {
	errBoom := errors.New("boom")

	type taskDef struct {
		id   string
		deps []string
		err  error
	}

	tests := map[string]struct {
		tasks       []taskDef
		expStatuses map[string]model.TaskStatus
		expExecuted []string
	}{
		"A chain of tasks should be executed in dependency order.": {
			tasks: []taskDef{
				{id: "c", deps: []string{"b"}},
				{id: "b", deps: []string{"a"}},
				{id: "a"},
			},
			expStatuses: map[string]model.TaskStatus{
				"a": succeeded("a", 0),
				"b": succeeded("b", 0),
				"c": succeeded("c", 0),
			},
			expExecuted: []string{"a", "b", "c"},
		},

		"A failed task should fail its dependents transitively.": {
			tasks: []taskDef{
				{id: "a", err: errBoom},
				{id: "b", deps: []string{"a"}},
				{id: "c", deps: []string{"b"}},
			},
			expStatuses: map[string]model.TaskStatus{
				"a": failed("a", 1, model.ExecutionErrorTaskFailed, "boom"),
				"b": failed("b", 0, model.ExecutionErrorDependencyFailed, ""),
				"c": failed("c", 0, model.ExecutionErrorDependencyFailed, ""),
			},
			expExecuted: []string{"a"},
		},

		"A failed task should not fail a task with a shared dependency.": {
			tasks: []taskDef{
				{id: "a"},
				{id: "b", deps: []string{"a"}, err: errBoom},
				{id: "c", deps: []string{"a", "b"}},
			},
			expStatuses: map[string]model.TaskStatus{
				"a": succeeded("a", 0),
				"b": failed("b", 1, model.ExecutionErrorTaskFailed, "boom"),
				"c": failed("c", 0, model.ExecutionErrorDependencyFailed, ""),
			},
			expExecuted: []string{"a", "b"},
		},

		"A diamond should run the join task once all its dependencies succeeded.": {
			tasks: []taskDef{
				{id: "a"},
				{id: "b", deps: []string{"a"}},
				{id: "c", deps: []string{"a"}},
				{id: "d", deps: []string{"b", "c"}},
			},
			expStatuses: map[string]model.TaskStatus{
				"a": succeeded("a", 0),
				"b": succeeded("b", 0),
				"c": succeeded("c", 0),
				"d": succeeded("d", 0),
			},
		},

		"Repeated dependencies should be treated as one.": {
			tasks: []taskDef{
				{id: "a"},
				{id: "b", deps: []string{"a", "a"}},
			},
			expStatuses: map[string]model.TaskStatus{
				"a": succeeded("a", 0),
				"b": succeeded("b", 0),
			},
			expExecuted: []string{"a", "b"},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)

			m := newMigrator(t, newMemoryRepo(t), "1.0.0")
			rec := &recorder{}
			for _, task := range test.tasks {
				m.Register(migrator.NewTask(task.id, rec.action(task.id, task.err), migrator.WithDependencies(task.deps...)))
			}

			statuses, err := m.Start(context.TODO())
			require.NoError(err)
			assert.Equal(test.expStatuses, statuses)
			assert.Equal(test.expStatuses, m.Statuses())
			if test.expExecuted != nil {
				assert.Equal(test.expExecuted, rec.Executed())
			}
		})
	}
}

func TestMigratorDiamondOrder(t *testing.T) {
	m := newMigrator(t, newMemoryRepo(t), "1.0.0")
	rec := &recorder{}
	m.Register(migrator.NewTask("d", rec.action("d", nil), migrator.WithDependencies("b", "c")))
	m.Register(migrator.NewTask("b", rec.action("b", nil), migrator.WithDependencies("a")))
	m.Register(migrator.NewTask("c", rec.action("c", nil), migrator.WithDependencies("a")))
	m.Register(migrator.NewTask("a", rec.action("a", nil)))

	_, err := m.Start(context.TODO())
	require.NoError(t, err)

	executed := rec.Executed()
	require.Len(t, executed, 4)
	assert.Equal(t, "a", executed[0])
	assert.ElementsMatch(t, []string{"b", "c"}, executed[1:3])
	assert.Equal(t, "d", executed[3])
}

func TestMigratorRunsIndependentTasksConcurrently(t *testing.T) {
	m := newMigrator(t, newMemoryRepo(t), "1.0.0")

	// Each task waits for the other one to be running.
	aRunning, bRunning := make(chan struct{}), make(chan struct{})
	wait := func(own, other chan struct{}) migrator.Action {
		return func(ctx context.Context) error {
			close(own)
			select {
			case <-other:
				return nil
			case <-time.After(5 * time.Second):
				return errors.New("timeout waiting for the other task")
			}
		}
	}
	m.Register(migrator.NewTask("a", wait(aRunning, bRunning)))
	m.Register(migrator.NewTask("b", wait(bRunning, aRunning)))

	statuses, err := m.Start(context.TODO())
	require.NoError(t, err)
	assert.True(t, statuses["a"].Succeeded())
	assert.True(t, statuses["b"].Succeeded())
}

func TestMigratorPanicIsATaskFailure(t *testing.T) {
	m := newMigrator(t, newMemoryRepo(t), "1.0.0")
	m.Register(migrator.NewTask("a", func(ctx context.Context) error { panic("boom") }))

	statuses, err := m.Start(context.TODO())
	require.NoError(t, err)
	assert.Equal(t, failed("a", 1, model.ExecutionErrorTaskFailed, "task panicked: boom"), statuses["a"])
}

func TestMigratorActionReceivesStartContext(t *testing.T) {
	type key struct{}
	ctx := context.WithValue(context.TODO(), key{}, "value")

	var got any
	m := newMigrator(t, newMemoryRepo(t), "1.0.0")
	m.Register(migrator.NewTask("a", func(ctx context.Context) error {
		got = ctx.Value(key{})
		return nil
	}))

	_, err := m.Start(ctx)
	require.NoError(t, err)
	assert.Equal(t, "value", got)
}

func TestMigratorSetsRunIDOnActionContext(t *testing.T) {
	var runIDs []any
	var mu sync.Mutex
	action := func(ctx context.Context) error {
		mu.Lock()
		defer mu.Unlock()
		runIDs = append(runIDs, log.ValuesFromCtx(ctx)["run-id"])
		return nil
	}

	m := newMigrator(t, newMemoryRepo(t), "1.0.0")
	m.Register(migrator.NewTask("a", action))
	m.Register(migrator.NewTask("b", action))

	_, err := m.Start(context.TODO())
	require.NoError(t, err)

	require.Len(t, runIDs, 2)
	runID, ok := runIDs[0].(string)
	require.True(t, ok)
	assert.Len(t, runID, 26)
	assert.Equal(t, runIDs[0], runIDs[1])
}

func TestMigratorRegisterAfterStartIsIgnored(t *testing.T) {
	m := newMigrator(t, newMemoryRepo(t), "1.0.0")
	rec := &recorder{}
	m.Register(migrator.NewTask("a", rec.action("a", nil)))

	_, err := m.Start(context.TODO())
	require.NoError(t, err)

	m.Register(migrator.NewTask("b", rec.action("b", nil)))
	assert.Equal(t, []string{"a"}, rec.Executed())
	assert.NotContains(t, m.Statuses(), "b")
}

func TestMigratorRetriesAcrossRuns(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	repo := newMemoryRepo(t)
	errBoom := errors.New("boom")

	run := func(err error) (map[string]model.TaskStatus, []string) {
		m := newMigrator(t, repo, "1.0.0")
		rec := &recorder{}
		m.Register(migrator.NewTask("a", rec.action("a", err), migrator.WithMaxAttempts(3)))
		m.Register(migrator.NewTask("b", rec.action("b", nil), migrator.WithDependencies("a")))
		statuses, err := m.Start(context.TODO())
		require.NoError(err)
		return statuses, rec.Executed()
	}

	// The first failure fails the dependents forever.
	statuses, executed := run(errBoom)
	assert.Equal([]string{"a"}, executed)
	assert.Equal(failed("a", 1, model.ExecutionErrorTaskFailed, "boom"), statuses["a"])
	assert.Equal(failed("b", 0, model.ExecutionErrorDependencyFailed, ""), statuses["b"])

	for i := 2; i <= 3; i++ {
		statuses, executed = run(errBoom)
		assert.Equal([]string{"a"}, executed)
		assert.Equal(failed("a", i, model.ExecutionErrorTaskFailed, "boom"), statuses["a"])
		assert.Equal(failed("b", 0, model.ExecutionErrorDependencyFailed, ""), statuses["b"])
	}

	// No attempts left, the task is not executed anymore.
	for i := 0; i < 2; i++ {
		statuses, executed = run(nil)
		assert.Empty(executed)
		assert.Equal(failed("a", 3, model.ExecutionErrorExceededAttempts, ""), statuses["a"])
		assert.Equal(failed("b", 0, model.ExecutionErrorDependencyFailed, ""), statuses["b"])
	}
}

func TestMigratorRetrySucceedsOnALaterRun(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	repo := newMemoryRepo(t)
	run := func(err error) (map[string]model.TaskStatus, []string) {
		m := newMigrator(t, repo, "1.0.0")
		rec := &recorder{}
		m.Register(migrator.NewTask("a", rec.action("a", err), migrator.WithMaxAttempts(2)))
		m.Register(migrator.NewTask("other", rec.action("other", nil)))
		statuses, err := m.Start(context.TODO())
		require.NoError(err)
		return statuses, rec.Executed()
	}

	statuses, executed := run(errors.New("boom"))
	assert.ElementsMatch([]string{"a", "other"}, executed)
	assert.Equal(failed("a", 1, model.ExecutionErrorTaskFailed, "boom"), statuses["a"])
	assert.Equal(succeeded("other", 0), statuses["other"])

	// Only the failed task is executed again.
	statuses, executed = run(nil)
	assert.Equal([]string{"a"}, executed)
	assert.Equal(succeeded("a", 1), statuses["a"])
	assert.Equal(succeeded("other", 0), statuses["other"])

	// Nothing left to do.
	_, executed = run(errors.New("boom"))
	assert.Empty(executed)
}

func TestMigratorAddedTaskDependingOnSucceededTask(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	repo := newMemoryRepo(t)
	m := newMigrator(t, repo, "1.0.0")
	m.Register(migrator.NewTask("a", nil))
	_, err := m.Start(context.TODO())
	require.NoError(err)

	// A new app version adds a task on top of an already succeeded one.
	rec := &recorder{}
	m = newMigrator(t, repo, "1.1.0")
	m.Register(migrator.NewTask("a", rec.action("a", nil)))
	m.Register(migrator.NewTask("b", rec.action("b", nil), migrator.WithDependencies("a"), migrator.WithFrom(semver.MustParse("1.1.0"))))
	statuses, err := m.Start(context.TODO())
	require.NoError(err)
	assert.Equal([]string{"b"}, rec.Executed())
	assert.Equal(succeeded("b", 0), statuses["b"])
}

func TestMigratorInterruptedTasksAreRunAgain(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	repo := newMemoryRepo(t)
	data, err := statusstore.Encode(map[string]model.TaskStatus{
		"a": {TaskID: "a", InProgress: true},
		"b": {
			TaskID:         "b",
			FailedAttempts: 1,
			InProgress:     true,
			Outcome: model.Outcome{Failure: &model.Failure{
				LastFailDate: t0,
				Reason:       model.ExecutionError{Kind: model.ExecutionErrorTaskFailed, Message: "old"},
			}},
		},
		"c": {TaskID: "c", FailedAttempts: 1, InProgress: true},
	})
	require.NoError(err)
	require.NoError(repo.Set(context.TODO(), statusstore.DefaultKey, data))

	m := newMigrator(t, repo, "1.0.0")
	rec := &recorder{}
	m.Register(migrator.NewTask("a", rec.action("a", nil)))
	m.Register(migrator.NewTask("b", rec.action("b", nil), migrator.WithMaxAttempts(2)))
	// The interrupted execution already used its only attempt.
	m.Register(migrator.NewTask("c", rec.action("c", nil)))

	statuses, err := m.Start(context.TODO())
	require.NoError(err)
	assert.ElementsMatch([]string{"a", "b"}, rec.Executed())
	assert.Equal(succeeded("a", 0), statuses["a"])
	assert.Equal(succeeded("b", 1), statuses["b"])
	assert.Equal(failed("c", 1, model.ExecutionErrorExceededAttempts, ""), statuses["c"])
}

func TestMigratorPersistence(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	repo := newMemoryRepo(t)

	// Statuses of tasks that are not registered anymore are kept.
	data, err := statusstore.Encode(map[string]model.TaskStatus{"old": succeeded("old", 0)})
	require.NoError(err)
	require.NoError(repo.Set(context.TODO(), "custom-key", data))

	m, err := migrator.New(migrator.Config{
		Repository: repo,
		AppVersion: appversion.Static("v1.0.0"),
		StatusKey:  "custom-key",
		TimeNow:    func() time.Time { return t0 },
	})
	require.NoError(err)
	m.Register(migrator.NewTask("a", nil))
	m.Register(migrator.NewTask("b", func(ctx context.Context) error { return errors.New("boom") }, migrator.WithDependencies("a")))
	m.Register(migrator.NewTask("c", nil, migrator.WithDependencies("b")))

	statuses, err := m.Start(context.TODO())
	require.NoError(err)
	assert.NotContains(statuses, "old")

	data, err = repo.Get(context.TODO(), "custom-key")
	require.NoError(err)
	expJSON := `{
  "old": {"taskId": "old", "failedAttempts": 0, "isInProgress": false, "outcome": {"success": {"completionDate": "2024-03-01T10:30:00Z"}}},
  "a": {"taskId": "a", "failedAttempts": 0, "isInProgress": false, "outcome": {"success": {"completionDate": "2024-03-01T10:30:00Z"}}},
  "b": {"taskId": "b", "failedAttempts": 1, "isInProgress": false, "outcome": {"failure": {"lastFailDate": "2024-03-01T10:30:00Z", "reason": {"taskFailed": {"errorMessage": "boom"}}}}},
  "c": {"taskId": "c", "failedAttempts": 0, "isInProgress": false, "outcome": {"failure": {"lastFailDate": "2024-03-01T10:30:00Z", "reason": {"dependencyFailed": {}}}}}
}`
	assert.JSONEq(expJSON, string(data))
}

func TestMigratorStorageErrorsDontStopTheRun(t *testing.T) {
	tests := map[string]struct {
		mock func(m *storagemock.MockRepository)
	}{
		"Failing reading the statuses should run the tasks.": {
			mock: func(m *storagemock.MockRepository) {
				m.On("Get", mock.Anything, statusstore.DefaultKey).Return(nil, errors.New("something"))
			},
		},

		"Failing writing the statuses should run the tasks.": {
			mock: func(m *storagemock.MockRepository) {
				m.On("Get", mock.Anything, statusstore.DefaultKey).Return(nil, model.ErrNotFound)
				m.On("Set", mock.Anything, statusstore.DefaultKey, mock.Anything).Return(errors.New("something"))
			},
		},

		"An invalid statuses document should run the tasks.": {
			mock: func(m *storagemock.MockRepository) {
				m.On("Get", mock.Anything, statusstore.DefaultKey).Return([]byte("{"), nil)
				m.On("Set", mock.Anything, statusstore.DefaultKey, mock.Anything).Return(nil)
			},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)

			mr := storagemock.NewMockRepository(t)
			test.mock(mr)

			m := newMigrator(t, mr, "1.0.0")
			rec := &recorder{}
			m.Register(migrator.NewTask("a", rec.action("a", nil)))
			m.Register(migrator.NewTask("b", rec.action("b", nil), migrator.WithDependencies("a")))

			statuses, err := m.Start(context.TODO())
			require.NoError(err)
			assert.Equal([]string{"a", "b"}, rec.Executed())
			assert.Equal(map[string]model.TaskStatus{"a": succeeded("a", 0), "b": succeeded("b", 0)}, statuses)
		})
	}
}

func TestMigratorStatusesWhileRunning(t *testing.T) {
	m := newMigrator(t, newMemoryRepo(t), "1.0.0")

	var inProgress model.TaskStatus
	m.Register(migrator.NewTask("a", func(ctx context.Context) error {
		inProgress = m.Statuses()["a"]
		return nil
	}))

	_, err := m.Start(context.TODO())
	require.NoError(t, err)
	assert.Equal(t, model.TaskStatus{TaskID: "a", InProgress: true}, inProgress)
}
