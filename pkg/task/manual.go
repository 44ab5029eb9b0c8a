package task

import "sync"

type posted struct {
	fn  func()
	typ Type
}

// ManualExecutor holds posted tasks until the caller runs them. Tests and
// single-threaded drivers use it to step asynchronous flows
// deterministically.
type ManualExecutor struct {
	mu      sync.Mutex
	pending []posted
	stopped bool
}

// NewManualExecutor returns an empty executor.
func NewManualExecutor() *ManualExecutor {
	return &ManualExecutor{}
}

// PostTask implements Executor.
func (e *ManualExecutor) PostTask(fn func(), t Type) bool {
	if fn == nil {
		return false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return false
	}
	e.pending = append(e.pending, posted{fn: fn, typ: t})
	return true
}

// PostSyncTask implements Executor by running fn inline.
func (e *ManualExecutor) PostSyncTask(fn func(), t Type) bool {
	if fn == nil {
		return false
	}
	e.mu.Lock()
	stopped := e.stopped
	e.mu.Unlock()
	if stopped {
		return false
	}
	runTask(t, fn)
	return true
}

// Pending returns the number of queued tasks.
func (e *ManualExecutor) Pending() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.pending)
}

// PendingOf returns the number of queued tasks of type t.
func (e *ManualExecutor) PendingOf(t Type) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := 0
	for _, p := range e.pending {
		if p.typ == t {
			n++
		}
	}
	return n
}

// RunPending runs the tasks queued at the time of the call, in post order.
// Tasks they post stay queued. It returns the number of tasks run.
func (e *ManualExecutor) RunPending() int {
	e.mu.Lock()
	batch := e.pending
	e.pending = nil
	e.mu.Unlock()
	for _, p := range batch {
		runTask(p.typ, p.fn)
	}
	return len(batch)
}

// RunAll runs tasks until the queue is empty and returns how many ran.
func (e *ManualExecutor) RunAll() int {
	total := 0
	for {
		n := e.RunPending()
		if n == 0 {
			return total
		}
		total += n
	}
}

// Stop makes later posts fail and drops queued tasks.
func (e *ManualExecutor) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopped = true
	e.pending = nil
}
