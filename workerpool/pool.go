package workerpool

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
)

// MaxThreads caps the pool size regardless of the CPU count.
const MaxThreads = 32

// defaultWorkers is used when the CPU count is unavailable.
const defaultWorkers = 4

var (
	// ErrPoolClosed is returned by AddTask after Shutdown.
	ErrPoolClosed = errors.New("workerpool: pool is shut down")

	// ErrTaskPanic wraps the value recovered from a panicking task.
	ErrTaskPanic = errors.New("workerpool: task panicked")
)

// Task is a unit of work. A non-nil error is collected for WaitAll.
type Task func() error

// Pool is a bounded-concurrency task executor. All methods are safe for
// concurrent use.
type Pool struct {
	mu      sync.Mutex
	ready   *sync.Cond // queue non-empty or closed
	drained *sync.Cond // pending reached zero
	queue   []Task
	errs    []error
	closed  bool

	pending atomic.Int64
	size    int
	wg      sync.WaitGroup
}

// New starts a pool with the given number of workers (at least one).
func New(workers int) *Pool {
	if workers < 1 {
		workers = 1
	}
	p := &Pool{size: workers}
	p.ready = sync.NewCond(&p.mu)
	p.drained = sync.NewCond(&p.mu)

	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker()
	}
	return p
}

// Size returns the number of workers.
func (p *Pool) Size() int { return p.size }

// Pending returns the number of queued or running tasks.
func (p *Pool) Pending() int { return int(p.pending.Load()) }

// AddTask enqueues t. It returns ErrPoolClosed after Shutdown.
func (p *Pool) AddTask(t Task) error {
	if t == nil {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrPoolClosed
	}
	p.pending.Add(1)
	p.queue = append(p.queue, t)
	p.ready.Signal()
	return nil
}

// WaitAll blocks until every enqueued task has finished and returns their
// joined errors, resetting the collected set.
func (p *Pool) WaitAll() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for p.pending.Load() > 0 {
		p.drained.Wait()
	}
	err := errors.Join(p.errs...)
	p.errs = nil
	return err
}

// Shutdown stops the workers. With wait, queued tasks run first and their
// errors are returned; without it, tasks still in the queue are discarded.
// Running tasks always finish. Shutdown is idempotent.
func (p *Pool) Shutdown(wait bool) error {
	var err error
	if wait {
		err = p.WaitAll()
	}

	p.mu.Lock()
	p.closed = true
	if dropped := len(p.queue); dropped > 0 {
		p.queue = nil
		if p.pending.Add(-int64(dropped)) == 0 {
			p.drained.Broadcast()
		}
	}
	p.ready.Broadcast()
	p.mu.Unlock()

	p.wg.Wait()
	return err
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		p.mu.Lock()
		for len(p.queue) == 0 && !p.closed {
			p.ready.Wait()
		}
		if len(p.queue) == 0 {
			p.mu.Unlock()
			return
		}
		t := p.queue[0]
		p.queue[0] = nil
		p.queue = p.queue[1:]
		p.mu.Unlock()

		err := execute(t)

		p.mu.Lock()
		if err != nil {
			p.errs = append(p.errs, err)
		}
		if p.pending.Add(-1) == 0 {
			p.drained.Broadcast()
		}
		p.mu.Unlock()
	}
}

func execute(t Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrTaskPanic, r)
		}
	}()
	return t()
}

// Run executes tasks on a temporary pool of the given size and returns
// their joined errors.
func Run(workers int, tasks ...Task) error {
	p := New(workers)
	for _, t := range tasks {
		if err := p.AddTask(t); err != nil {
			return err
		}
	}
	return p.Shutdown(true)
}

// MaxWorkers returns the CPU count, or 4 when it is unknown.
func MaxWorkers() int {
	if n := runtime.NumCPU(); n > 0 {
		return n
	}
	return defaultWorkers
}

// WorkersFor sizes a pool for the given number of remaining tasks:
// never more than the tasks, the CPUs, or MaxThreads, and never below one.
func WorkersFor(remaining int) int {
	n := min(MaxWorkers(), remaining, MaxThreads)
	return max(n, 1)
}
