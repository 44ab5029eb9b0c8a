// Package engine drives a pipeline context from a frame ticker: it owns the
// task executor, the stage root and the image provider, and flushes a frame
// on the UI queue whenever a node asked for one.
package engine

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/go-drift/ace/pkg/config"
	"github.com/go-drift/ace/pkg/core"
	"github.com/go-drift/ace/pkg/errors"
	"github.com/go-drift/ace/pkg/image"
	"github.com/go-drift/ace/pkg/logging"
	"github.com/go-drift/ace/pkg/pipeline"
	"github.com/go-drift/ace/pkg/task"
	"github.com/go-drift/ace/pkg/widgets"
)

// Options configures an Engine.
type Options struct {
	// Config defaults to config.Default().
	Config *config.Config
	// Logger defaults to logging.Default.
	Logger *log.Logger
	// Registry, if set, registers the engine's context.
	Registry *pipeline.Registry
}

// Engine runs one UI instance.
type Engine struct {
	cfg      *config.Config
	logger   *log.Logger
	executor *task.QueueExecutor
	ctx      *pipeline.Context
	stage    *core.FrameNode
	provider *image.Provider
	trace    *FrameTrace

	framePosted  atomic.Bool
	lastActivity atomic.Int64
}

// New builds the executor, context, stage and image provider. Nothing runs
// until Run is called.
func New(opts Options) *Engine {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Default()
	}
	executor := task.NewQueueExecutor(logger)
	scale := cfg.Scale()
	ctx := pipeline.NewContext(pipeline.Options{
		Executor: executor,
		Logger:   logger,
		RootSize: cfg.RootSize(),
		Scale:    &scale,
	})
	e := &Engine{
		cfg:      cfg,
		logger:   logger,
		executor: executor,
		ctx:      ctx,
		provider: image.NewProvider(image.ProviderOptions{
			Executor: executor,
			Cache:    image.NewCache(cfg.CacheEntries()),
			Logger:   logger,
		}),
		trace: NewFrameTrace(0, cfg.Engine.FrameInterval),
	}
	if opts.Registry != nil {
		opts.Registry.Register(ctx)
	}
	ctx.SetOnNeedsFrame(e.touch)
	e.stage = widgets.NewStage(ctx)
	e.touch()
	return e
}

func (e *Engine) Context() *pipeline.Context { return e.ctx }

func (e *Engine) Stage() *core.FrameNode { return e.stage }

func (e *Engine) Provider() *image.Provider { return e.provider }

func (e *Engine) Trace() *FrameTrace { return e.trace }

func (e *Engine) touch() {
	e.lastActivity.Store(time.Now().UnixNano())
}

// Run starts the executor and flushes a frame on every tick at which one
// is pending. It returns when ctx is done. The debug server, if configured,
// lives as long as Run.
func (e *Engine) Run(ctx context.Context) error {
	e.executor.Start(ctx)
	defer e.executor.Stop()

	if addr := e.cfg.Engine.DebugAddr; addr != "" {
		go func() {
			if err := e.ServeDebug(ctx, addr); err != nil {
				e.logger.Error("debug server failed", "addr", addr, "err", err)
			}
		}()
	}

	ticker := time.NewTicker(e.cfg.Engine.FrameInterval)
	defer ticker.Stop()
	e.logger.Info("engine running", "interval", e.cfg.Engine.FrameInterval, "root", e.ctx.RootSize())
	for {
		select {
		case <-ctx.Done():
			e.logger.Info("engine stopped", "frames", e.ctx.Frames())
			return nil
		case <-ticker.C:
			e.tick()
		}
	}
}

func (e *Engine) tick() {
	if !e.ctx.NeedsFrame() || !e.framePosted.CompareAndSwap(false, true) {
		return
	}
	if !e.executor.PostTask(e.frame, task.UI) {
		e.framePosted.Store(false)
	}
}

func (e *Engine) frame() {
	defer e.framePosted.Store(false)
	e.flush()
}

// flush runs on the UI queue.
func (e *Engine) flush() {
	start := time.Now()
	scheduler := e.ctx.Scheduler()
	counts := FrameCounts{
		DirtyLayout: scheduler.DirtyLayoutCount(),
		DirtyRender: scheduler.DirtyRenderCount(),
	}
	e.ctx.FlushVsync()
	elapsed := time.Since(start)
	counts.NodeCount = countNodes(e.stage)
	if e.trace.Record(e.ctx.Frames(), start, elapsed, counts) {
		e.logger.Warn("slow frame", "frame", e.ctx.Frames(), "elapsed", elapsed, "layout", counts.DirtyLayout)
	}
	e.touch()
}

func countNodes(n *core.FrameNode) int {
	if n == nil {
		return 0
	}
	count := 1
	for _, child := range n.Children() {
		count += countNodes(child)
	}
	return count
}

// Update runs fn on the UI queue and waits for it. Tree mutations from
// other goroutines must go through Update. Called from a UI task, fn runs
// inline.
func (e *Engine) Update(fn func()) bool {
	return e.executor.PostSyncTask(fn, task.UI)
}

// RunFrame flushes a frame now, on the UI queue, whether or not one is
// pending.
func (e *Engine) RunFrame() bool {
	return e.executor.PostSyncTask(e.flush, task.UI)
}

// Mount builds s under the stage on the UI queue. Image nodes without an
// explicit auto_resize follow the images.resize setting.
func (e *Engine) Mount(s widgets.Spec) (*core.FrameNode, error) {
	if !e.cfg.Resize() {
		disableAutoResize(&s)
	}
	var (
		n   *core.FrameNode
		err error
	)
	if !e.Update(func() { n, err = widgets.Mount(e.stage, s, e.provider) }) {
		return nil, errExecutorStopped()
	}
	return n, err
}

func errExecutorStopped() error {
	return errors.New("engine.Update", errors.KindTask, errors.ErrExecutorStopped)
}

func disableAutoResize(s *widgets.Spec) {
	if s.Tag == widgets.TagImage && s.AutoResize == nil {
		off := false
		s.AutoResize = &off
	}
	for i := range s.Children {
		disableAutoResize(&s.Children[i])
	}
}

// Settle waits until no frame has been requested or flushed for quiet.
func (e *Engine) Settle(ctx context.Context, quiet time.Duration) error {
	ticker := time.NewTicker(e.cfg.Engine.FrameInterval)
	defer ticker.Stop()
	for {
		idle := time.Since(time.Unix(0, e.lastActivity.Load()))
		if !e.ctx.NeedsFrame() && !e.framePosted.Load() && idle >= quiet {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
