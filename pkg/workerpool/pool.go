// Package workerpool runs CPU-heavy work on a fixed set of goroutines.
//
// shopql uses it to cap how many bcrypt computations run at once, so a burst
// of signups and logins queues up instead of pinning every CPU:
//
//	pool := workerpool.New(cfg.HashWorkers)
//	defer pool.Shutdown()
//
//	err := pool.Do(ctx, func() { digest, hashErr = bcrypt.GenerateFromPassword(pw, cost) })
package workerpool

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrPoolClosed is returned once Shutdown has been called.
	ErrPoolClosed = errors.New("workerpool: pool is closed")

	// ErrTaskPanicked is returned by Do when the task panicked.
	ErrTaskPanicked = errors.New("workerpool: task panicked")
)

// Pool is a bounded goroutine pool. The queue holds twice as many pending
// tasks as there are workers; further submissions block.
type Pool struct {
	size    int
	tasks   chan func()
	wg      sync.WaitGroup
	once    sync.Once
	closeCh chan struct{}
	mu      sync.RWMutex // guards sends on tasks against close
}

// New starts a Pool with size workers (minimum 1).
func New(size int) *Pool {
	if size <= 0 {
		size = 1
	}

	p := &Pool{
		size:    size,
		tasks:   make(chan func(), size*2),
		closeCh: make(chan struct{}),
	}
	for i := 0; i < size; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

// Size returns the number of workers.
func (p *Pool) Size() int { return p.size }

// Submit queues task, blocking while the queue is full. It returns when the
// task is queued, not when it has run.
func (p *Pool) Submit(ctx context.Context, task func()) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	select {
	case <-p.closeCh:
		return ErrPoolClosed
	default:
	}

	select {
	case <-p.closeCh:
		return ErrPoolClosed
	case <-ctx.Done():
		return ctx.Err()
	case p.tasks <- task:
		return nil
	}
}

// Do runs fn on the pool and waits for it. If ctx ends first Do returns
// ctx.Err() and fn, if already queued, still runs to completion.
func (p *Pool) Do(ctx context.Context, fn func()) error {
	done := make(chan error, 1)
	err := p.Submit(ctx, func() {
		defer func() {
			if r := recover(); r != nil {
				done <- fmt.Errorf("%w: %v", ErrTaskPanicked, r)
				return
			}
			done <- nil
		}()
		fn()
	})
	if err != nil {
		return err
	}

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown stops accepting tasks, waits for queued and in-flight tasks to
// finish, and releases the workers. Safe to call more than once.
func (p *Pool) Shutdown() {
	p.once.Do(func() {
		close(p.closeCh)
		p.mu.Lock()
		close(p.tasks)
		p.mu.Unlock()
		p.wg.Wait()
	})
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for task := range p.tasks {
		run(task)
	}
}

// run keeps a panicking task from taking the worker down with it.
func run(task func()) {
	defer func() { _ = recover() }()
	task()
}
