package starlark

import (
	"sync"

	"go.starlark.net/starlark"
)

// DefaultMaxSteps bounds the work a single evaluation may do.
const DefaultMaxSteps = 100_000

// ThreadPool manages a pool of Starlark threads reused across row
// evaluations.
type ThreadPool struct {
	mu       sync.Mutex
	threads  []*starlark.Thread
	maxSize  int
	maxSteps uint64
}

// NewThreadPool creates a new thread pool with the specified maximum size.
func NewThreadPool(maxSize int) *ThreadPool {
	if maxSize <= 0 {
		maxSize = 10
	}
	return &ThreadPool{
		threads:  make([]*starlark.Thread, 0, maxSize),
		maxSize:  maxSize,
		maxSteps: DefaultMaxSteps,
	}
}

// MaxSize returns the number of threads the pool retains.
func (p *ThreadPool) MaxSize() int {
	return p.maxSize
}

// Get retrieves a thread from the pool or creates a new one. Every Get
// grants the thread a fresh step budget.
func (p *ThreadPool) Get(name string) *starlark.Thread {
	p.mu.Lock()
	defer p.mu.Unlock()

	var thread *starlark.Thread
	if n := len(p.threads); n > 0 {
		thread = p.threads[n-1]
		p.threads = p.threads[:n-1]
		thread.Name = name
	} else {
		thread = &starlark.Thread{
			Name:  name,
			Print: func(_ *starlark.Thread, _ string) {},
		}
	}
	// Step counts are cumulative per thread.
	thread.SetMaxExecutionSteps(thread.ExecutionSteps() + p.maxSteps)
	return thread
}

// Put returns a thread to the pool for reuse. Threads that failed must not
// be returned, since a cancelled thread stays cancelled.
// If the pool is full, the thread is discarded.
func (p *ThreadPool) Put(thread *starlark.Thread) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.threads) < p.maxSize {
		thread.Name = ""
		p.threads = append(p.threads, thread)
	}
}

// Size returns the current number of threads in the pool.
func (p *ThreadPool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.threads)
}
