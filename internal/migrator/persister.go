package migrator

import (
	"context"
	"sync"

	"github.com/slok/migrator/internal/log"
	"github.com/slok/migrator/internal/model"
	"github.com/slok/migrator/internal/statusstore"
)

// persister saves status changes in the background, one at a time and in the
// order they were queued. Saving errors are logged and don't stop the run.
type persister struct {
	store  *statusstore.Store
	logger log.Logger

	mu     sync.Mutex
	queue  []model.TaskStatus
	closed bool
	wake   chan struct{}
	done   chan struct{}
}

func newPersister(ctx context.Context, store *statusstore.Store, logger log.Logger) *persister {
	p := &persister{
		store:  store,
		logger: logger,
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
	}

	// Statuses must be saved even if the run context is cancelled.
	go p.loop(context.WithoutCancel(ctx))

	return p
}

func (p *persister) enqueue(st model.TaskStatus) {
	p.mu.Lock()
	p.queue = append(p.queue, st)
	p.mu.Unlock()
	p.signal()
}

// close waits until all the queued statuses are saved.
func (p *persister) close() {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	p.signal()
	<-p.done
}

func (p *persister) signal() {
	select {
	case p.wake <- struct{}{}:
	default:
	}
}

func (p *persister) loop(ctx context.Context) {
	defer close(p.done)

	for range p.wake {
		for {
			p.mu.Lock()
			batch := p.queue
			p.queue = nil
			closed := p.closed
			p.mu.Unlock()

			if len(batch) == 0 {
				if closed {
					return
				}
				break
			}

			for _, st := range batch {
				if err := p.store.Save(ctx, st); err != nil {
					p.logger.Errorf("Could not persist task %q status: %s", st.TaskID, err)
				}
			}
		}
	}
}
