// Package pipeline implements the bounded worker pool and ordered-delivery
// writer that the coverage/mutation drivers use to fan ingest and
// extraction work out across goroutines. A bounded channel serves as the
// job backlog; strictly ordered delivery to a single consumer is layered on
// top by OrderedSink.
package pipeline

import (
	"context"
	"fmt"
	"sync"

	"github.com/grailbio/base/log"
)

// Job is a unit of dispatched work. It receives the run's context so it can
// observe cancellation triggered by a sibling job's fatal error.
type Job func(ctx context.Context) error

// Dispatcher runs jobs across a fixed number of worker goroutines, with a
// bounded backlog that limits how far the submitter can run ahead of the
// workers consuming it. A panicking job is recovered and turned into the
// pipeline's terminal error instead of crashing the process, so an
// unrecoverable error aborts the run rather than corrupting state.
type Dispatcher struct {
	jobs   chan Job
	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelCauseFunc

	mu       sync.Mutex
	firstErr error
}

// NewDispatcher starts parallelism worker goroutines fed from a backlog of
// size queueSize. Submit blocks once the backlog is full, which is what
// bounds memory use during ingest.
func NewDispatcher(parent context.Context, parallelism, queueSize int) *Dispatcher {
	ctx, cancel := context.WithCancelCause(parent)
	d := &Dispatcher{
		jobs:   make(chan Job, queueSize),
		ctx:    ctx,
		cancel: cancel,
	}
	for i := 0; i < parallelism; i++ {
		d.wg.Add(1)
		go d.worker()
	}
	return d
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for job := range d.jobs {
		d.runOne(job)
	}
}

func (d *Dispatcher) runOne(job Job) {
	defer func() {
		if r := recover(); r != nil {
			d.fail(fmt.Errorf("pipeline: job panicked: %v", r))
		}
	}()
	if err := job(d.ctx); err != nil {
		d.fail(err)
	}
}

func (d *Dispatcher) fail(err error) {
	d.mu.Lock()
	if d.firstErr == nil {
		d.firstErr = err
		d.cancel(err)
		log.Error.Printf("pipeline: aborting run: %v", err)
	}
	d.mu.Unlock()
}

// Submit enqueues job for execution. It is safe to call concurrently with
// itself but not after Wait has returned.
func (d *Dispatcher) Submit(job Job) {
	select {
	case d.jobs <- job:
	case <-d.ctx.Done():
	}
}

// Wait closes the backlog, waits for all workers to drain it, and returns
// the first error observed, if any.
func (d *Dispatcher) Wait() error {
	close(d.jobs)
	d.wg.Wait()
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.firstErr
}
