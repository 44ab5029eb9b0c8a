// Package task runs closures on named queues. The layout pipeline and image
// loading post work to the UI queue; decoding and resizing run on the
// Background and IO queues and post their results back to UI.
package task

import "sync/atomic"

// Type names a task queue.
type Type int

const (
	UI Type = iota
	JS
	Background
	IO
	Platform
)

var allTypes = []Type{UI, JS, Background, IO, Platform}

func (t Type) String() string {
	switch t {
	case UI:
		return "ui"
	case JS:
		return "js"
	case Background:
		return "background"
	case IO:
		return "io"
	case Platform:
		return "platform"
	default:
		return "unknown"
	}
}

// Executor posts closures to queues. Tasks posted to one queue run in FIFO
// order, one at a time.
type Executor interface {
	// PostTask queues fn and returns false if it could not be queued.
	PostTask(fn func(), t Type) bool
	// PostSyncTask queues fn and blocks until it has run. Called from a
	// task already running on queue t, it runs fn inline.
	PostSyncTask(fn func(), t Type) bool
}

const (
	stateReady int32 = iota
	stateRunning
	stateDone
	stateCanceled
)

// CancelableTask is a closure that can be canceled until it starts running.
type CancelableTask struct {
	state atomic.Int32
	fn    func()
}

// NewCancelableTask wraps fn.
func NewCancelableTask(fn func()) *CancelableTask {
	return &CancelableTask{fn: fn}
}

// Run invokes the closure unless it was canceled or has already run.
func (c *CancelableTask) Run() {
	if !c.state.CompareAndSwap(stateReady, stateRunning) {
		return
	}
	defer c.state.Store(stateDone)
	if c.fn != nil {
		c.fn()
	}
}

// Cancel prevents a pending run. It reports false once the task has started.
func (c *CancelableTask) Cancel() bool {
	return c.state.CompareAndSwap(stateReady, stateCanceled)
}

// Canceled reports whether Cancel succeeded.
func (c *CancelableTask) Canceled() bool {
	return c.state.Load() == stateCanceled
}

// Done reports whether the closure ran to completion.
func (c *CancelableTask) Done() bool {
	return c.state.Load() == stateDone
}

// PostCancelable posts fn to e wrapped in a CancelableTask. It returns nil
// if the executor refused the task.
func PostCancelable(e Executor, fn func(), t Type) *CancelableTask {
	c := NewCancelableTask(fn)
	if !e.PostTask(c.Run, t) {
		return nil
	}
	return c
}
