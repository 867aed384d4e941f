package main

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

var ErrPoolStopped = errors.New("worker pool stopped")

type Job func(ctx context.Context)

// WorkerPool runs recommendation jobs on a fixed number of goroutines so a
// burst of requests cannot open an unbounded number of upstream calls.
type WorkerPool struct {
	jobs   chan Job
	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

func NewWorkerPool(ctx context.Context, maxWorkers, queueSize int) *WorkerPool {
	if maxWorkers < 1 {
		maxWorkers = 10
	}
	if queueSize < 1 {
		queueSize = 100
	}

	poolCtx, cancel := context.WithCancel(ctx)

	pool := &WorkerPool{
		jobs:   make(chan Job, queueSize),
		ctx:    poolCtx,
		cancel: cancel,
	}

	for i := 0; i < maxWorkers; i++ {
		pool.wg.Add(1)
		go pool.worker()
	}

	return pool
}

func (w *WorkerPool) worker() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return
		case job := <-w.jobs:
			w.run(job)
		}
	}
}

func (w *WorkerPool) run(job Job) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("job panicked", "panic", r)
		}
	}()

	job(w.ctx)
}

// Submit queues a job. Blocks if the queue is full (backpressure).
// Returns false if either context is cancelled first.
func (w *WorkerPool) Submit(ctx context.Context, job Job) bool {
	if w.ctx.Err() != nil {
		return false
	}

	select {
	case w.jobs <- job:
		return true
	case <-ctx.Done():
		return false
	case <-w.ctx.Done():
		return false
	}
}

// Do runs fn on the pool and waits for it to finish. fn receives ctx, not
// the pool context, and is skipped if ctx is done before a worker picks it up.
func (w *WorkerPool) Do(ctx context.Context, fn func(ctx context.Context)) error {
	done := make(chan struct{})

	queued := w.Submit(ctx, func(context.Context) {
		defer close(done)

		if ctx.Err() != nil {
			return
		}
		fn(ctx)
	})
	if !queued {
		if err := ctx.Err(); err != nil {
			return err
		}
		return ErrPoolStopped
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-w.ctx.Done():
		return ErrPoolStopped
	}
}

// Stop cancels the pool. The jobs channel is left open so a concurrent Submit
// never sends on a closed channel; queued jobs are dropped.
func (w *WorkerPool) Stop() {
	w.cancel()
}

func (w *WorkerPool) Wait() {
	w.wg.Wait()
}
