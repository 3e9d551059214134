package migrator

import (
	"context"
	"fmt"

	"github.com/slok/migrator/internal/appversion"
	"github.com/slok/migrator/internal/dag"
	"github.com/slok/migrator/internal/model"
	"github.com/slok/migrator/internal/semver"
)

// registry is the validated set of tasks of a run.
type registry struct {
	tasks map[string]Task
	graph *dag.Graph[string]
}

// newRegistry validates the tasks in registration order, the first
// invalid task aborts. The app version is only resolved if there are tasks.
func newRegistry(ctx context.Context, provider appversion.Provider, tasks []Task) (*registry, error) {
	r := &registry{
		tasks: make(map[string]Task, len(tasks)),
		graph: dag.New[string](),
	}

	var appVersion *semver.Version
	for _, t := range tasks {
		if appVersion == nil {
			v, err := provider.AppVersion(ctx)
			if err != nil {
				return nil, fmt.Errorf("task %q: %w: %w", t.ID, model.ErrInvalidAppVersion, err)
			}
			appVersion = &v
		}

		if t.To.Less(t.From) {
			return nil, fmt.Errorf("task %q: %s > %s: %w", t.ID, t.From, t.To, model.ErrInvalidBounds)
		}

		if !appVersion.InRange(t.From, t.To) {
			return nil, fmt.Errorf("task %q: %s not in [%s, %s]: %w", t.ID, appVersion, t.From, t.To, model.ErrOutdatedBounds)
		}

		if t.MaxAttempts <= 0 {
			return nil, fmt.Errorf("task %q: %d: %w", t.ID, t.MaxAttempts, model.ErrInvalidAttempts)
		}

		if _, ok := r.tasks[t.ID]; ok {
			return nil, fmt.Errorf("task %q: %w", t.ID, model.ErrDuplicateTask)
		}

		r.tasks[t.ID] = t
		r.graph.AddVertex(t.ID, t.Dependencies...)
	}

	return r, nil
}

// order returns the task IDs in dependency order.
func (r *registry) order() ([]string, error) {
	order, err := r.graph.TopologicalSort()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrDependencyCycle, err)
	}

	// Dependencies on unregistered tasks are vertices without a task.
	for _, id := range order {
		if _, ok := r.tasks[id]; !ok {
			return nil, fmt.Errorf("task %q required by %v: %w", id, r.graph.Dependents(id), model.ErrInvalidDependency)
		}
	}

	return order, nil
}
