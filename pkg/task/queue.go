package task

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/go-drift/ace/pkg/errors"
	"github.com/go-drift/ace/pkg/logging"
)

type queue struct {
	typ   Type
	mu    sync.Mutex
	items []func()
	wake  chan struct{}
	// worker is the goroutine id of the running worker, 0 when stopped.
	worker atomic.Uint64
}

func newQueue(t Type) *queue {
	return &queue{typ: t, wake: make(chan struct{}, 1)}
}

func (q *queue) push(fn func()) {
	q.mu.Lock()
	q.items = append(q.items, fn)
	q.mu.Unlock()
	select {
	case q.wake <- struct{}{}:
	default:
	}
}

func (q *queue) drain() []func() {
	q.mu.Lock()
	defer q.mu.Unlock()
	items := q.items
	q.items = nil
	return items
}

func (q *queue) run(ctx context.Context) error {
	q.worker.Store(goroutineID())
	defer q.worker.Store(0)
	for {
		for _, fn := range q.drain() {
			if ctx.Err() != nil {
				return nil
			}
			runTask(q.typ, fn)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-q.wake:
		}
	}
}

// onWorker reports whether the caller is this queue's worker goroutine.
func (q *queue) onWorker() bool {
	id := q.worker.Load()
	return id != 0 && id == goroutineID()
}

// goroutineID parses the current goroutine's id from the "goroutine N ["
// header of its stack trace.
func goroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	var id uint64
	for i := len("goroutine "); i < n; i++ {
		if buf[i] < '0' || buf[i] > '9' {
			break
		}
		id = id*10 + uint64(buf[i]-'0')
	}
	return id
}

func runTask(t Type, fn func()) {
	defer errors.Recover("task." + t.String())
	fn()
}

// QueueExecutor runs one worker goroutine per queue type. Tasks posted
// before Start wait until the workers start.
type QueueExecutor struct {
	queues map[Type]*queue
	logger *log.Logger

	mu      sync.Mutex
	group   *errgroup.Group
	cancel  context.CancelFunc
	stopped chan struct{}
	closed  bool
}

// NewQueueExecutor creates an executor. A nil logger uses logging.Default.
func NewQueueExecutor(logger *log.Logger) *QueueExecutor {
	if logger == nil {
		logger = logging.Default()
	}
	queues := make(map[Type]*queue, len(allTypes))
	for _, t := range allTypes {
		queues[t] = newQueue(t)
	}
	return &QueueExecutor{
		queues:  queues,
		logger:  logger,
		stopped: make(chan struct{}),
	}
}

// Start launches the workers. They exit when ctx is done or Stop is called.
func (e *QueueExecutor) Start(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.group != nil || e.closed {
		return
	}
	ctx, e.cancel = context.WithCancel(ctx)
	g, ctx := errgroup.WithContext(ctx)
	for _, t := range allTypes {
		q := e.queues[t]
		g.Go(func() error { return q.run(ctx) })
	}
	e.group = g
	e.logger.Debug("task executor started", "queues", len(allTypes))
}

// Stop cancels the workers and waits for the running tasks to return.
// Queued tasks that have not started are dropped.
func (e *QueueExecutor) Stop() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	close(e.stopped)
	g, cancel := e.group, e.cancel
	e.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if g != nil {
		_ = g.Wait()
	}
	dropped := 0
	for _, q := range e.queues {
		dropped += len(q.drain())
	}
	e.logger.Debug("task executor stopped", "dropped", dropped)
}

// PostTask implements Executor.
func (e *QueueExecutor) PostTask(fn func(), t Type) bool {
	if fn == nil {
		return false
	}
	q, ok := e.queues[t]
	if !ok {
		e.logger.Warn("unknown task type", "type", int(t))
		return false
	}
	e.mu.Lock()
	closed := e.closed
	e.mu.Unlock()
	if closed {
		e.logger.Debug("post to stopped executor", "type", t, "err", errors.ErrExecutorStopped)
		return false
	}
	q.push(fn)
	return true
}

// PostSyncTask implements Executor. It returns false if the executor stops
// before the task runs. Called from queue t's own worker, fn runs inline.
func (e *QueueExecutor) PostSyncTask(fn func(), t Type) bool {
	if fn == nil {
		return false
	}
	if q, ok := e.queues[t]; ok && q.onWorker() {
		runTask(t, fn)
		return true
	}
	done := make(chan struct{})
	if !e.PostTask(func() {
		defer close(done)
		fn()
	}, t) {
		return false
	}
	select {
	case <-done:
		return true
	case <-e.stopped:
		return false
	}
}
