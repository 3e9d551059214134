package migrator

import (
	"context"
	"fmt"

	"github.com/slok/migrator/internal/log"
	"github.com/slok/migrator/internal/model"
)

type result struct {
	id  string
	err error
}

// execution is the state of a single run. All its fields are only used by
// the coordinator goroutine, task actions only send results.
type execution struct {
	m         *Migrator
	reg       *registry
	persister *persister
	logger    log.Logger

	// settled tasks won't change anymore on this run, the value is if they succeeded.
	settled map[string]bool
	// pending is the number of unsettled dependencies of each candidate task.
	pending map[string]int
	running int
	results chan result
}

func (e *execution) run(ctx context.Context, order []string) {
	for _, id := range order {
		e.classify(id)
	}

	for _, id := range order {
		if _, ok := e.settled[id]; !ok && e.pending[id] == 0 {
			e.dispatch(ctx, id)
		}
	}

	for e.running > 0 {
		res := <-e.results
		e.running--
		e.complete(ctx, res)
	}
}

// classify decides what to do with a task before anything runs. Tasks are
// classified in dependency order so the dependencies are already decided.
func (e *execution) classify(id string) {
	st := e.m.status(id)
	task := e.reg.tasks[id]

	switch {
	case st.Succeeded():
		e.settled[id] = true
		return
	case st.TerminallyFailed():
		e.settled[id] = false
		return
	case st.FailedAttempts >= task.MaxAttempts:
		e.logger.Warningf("Task %q exceeded its %d attempts", id, task.MaxAttempts)
		e.fail(id, model.ExecutionError{Kind: model.ExecutionErrorExceededAttempts}, false)
		return
	}

	pending := 0
	for _, dep := range e.reg.graph.Dependencies(id) {
		succeeded, ok := e.settled[dep]
		switch {
		case !ok:
			pending++
		case !succeeded:
			e.logger.Warningf("Task %q dependency %q failed", id, dep)
			e.fail(id, model.ExecutionError{Kind: model.ExecutionErrorDependencyFailed}, false)
			return
		}
	}
	e.pending[id] = pending
}

func (e *execution) dispatch(ctx context.Context, id string) {
	e.m.update(id, e.persister, func(st *model.TaskStatus) {
		st.InProgress = true
	})
	e.running++

	action := e.reg.tasks[id].Action
	e.logger.Debugf("Running task %q", id)
	go func() {
		e.results <- result{id: id, err: runAction(ctx, action)}
	}()
}

func (e *execution) complete(ctx context.Context, res result) {
	if res.err != nil {
		e.logger.Warningf("Task %q failed: %s", res.id, res.err)
		e.fail(res.id, model.ExecutionError{Kind: model.ExecutionErrorTaskFailed, Message: res.err.Error()}, true)
		e.failDependents(res.id)
		return
	}

	now := e.m.timeNow()
	e.m.update(res.id, e.persister, func(st *model.TaskStatus) {
		st.InProgress = false
		st.Outcome = model.Outcome{Success: &model.Success{CompletionDate: now}}
	})
	e.settled[res.id] = true
	e.logger.Infof("Task %q succeeded", res.id)

	for _, dependent := range e.reg.graph.Dependents(res.id) {
		if _, ok := e.settled[dependent]; ok {
			continue
		}
		e.pending[dependent]--
		if e.pending[dependent] == 0 {
			e.dispatch(ctx, dependent)
		}
	}
}

// failDependents fails all the unsettled tasks that depend on id, directly
// or transitively.
func (e *execution) failDependents(id string) {
	for _, dependent := range e.reg.graph.Dependents(id) {
		if _, ok := e.settled[dependent]; ok {
			continue
		}
		e.logger.Warningf("Task %q dependency %q failed", dependent, id)
		e.fail(dependent, model.ExecutionError{Kind: model.ExecutionErrorDependencyFailed}, false)
		e.failDependents(dependent)
	}
}

// fail settles a task as failed, only action failures count as attempts.
func (e *execution) fail(id string, reason model.ExecutionError, attempt bool) {
	now := e.m.timeNow()
	e.m.update(id, e.persister, func(st *model.TaskStatus) {
		if attempt {
			st.FailedAttempts++
		}
		st.InProgress = false
		st.Outcome = model.Outcome{Failure: &model.Failure{LastFailDate: now, Reason: reason}}
	})
	e.settled[id] = false
}

// runAction executes a task action, a panic is a task failure.
func runAction(ctx context.Context, action Action) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task panicked: %v", r)
		}
	}()

	if action == nil {
		return nil
	}

	return action(ctx)
}
