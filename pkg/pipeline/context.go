package pipeline

import (
	"slices"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"

	"github.com/go-drift/ace/pkg/graphics"
	"github.com/go-drift/ace/pkg/logging"
	"github.com/go-drift/ace/pkg/property"
	"github.com/go-drift/ace/pkg/render"
	"github.com/go-drift/ace/pkg/task"
)

// Node is a frame node as seen by its pipeline context.
type Node interface {
	DirtyNode
	RenderContext() render.Context
	// NeedSyncRenderTree reports whether the node's render children are
	// out of date.
	NeedSyncRenderTree() bool
	RebuildRenderContextTree()
	MarkDirtyNode(flag property.ChangeFlag)
}

// Options configures a Context.
type Options struct {
	Executor task.Executor
	// Logger defaults to logging.Default.
	Logger   *log.Logger
	RootSize graphics.Size
	// Scale defaults to property.DefaultScale.
	Scale *property.ScaleProperty
}

// Context is the pipeline of one UI instance. Everything except
// RequestFrame, NeedsFrame, Frames and PostAsyncEvent must be called on the
// UI queue.
type Context struct {
	instanceID int32
	scheduler  *Scheduler
	executor   task.Executor
	logger     *log.Logger

	root            Node
	rootSize        graphics.Size
	scale           property.ScaleProperty
	dirtyRenderTree map[Node]struct{}
	frames          atomic.Uint64
	flushing        bool

	frameMu      sync.Mutex
	onNeedsFrame func()
	needsFrame   atomic.Bool
}

// NewContext creates a context. Executor must be set.
func NewContext(opts Options) *Context {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Default()
	}
	scale := property.DefaultScale()
	if opts.Scale != nil {
		scale = *opts.Scale
	}
	return &Context{
		scheduler:       NewScheduler(logger),
		executor:        opts.Executor,
		logger:          logger,
		rootSize:        opts.RootSize,
		scale:           scale,
		dirtyRenderTree: make(map[Node]struct{}),
	}
}

// InstanceID returns the id assigned by a Registry, or 0.
func (c *Context) InstanceID() int32 {
	return c.instanceID
}

// Scheduler returns the dirty node scheduler.
func (c *Context) Scheduler() *Scheduler {
	return c.scheduler
}

// Executor returns the task executor.
func (c *Context) Executor() task.Executor {
	return c.executor
}

// Logger returns the context's logger.
func (c *Context) Logger() *log.Logger {
	return c.logger
}

// SetRoot installs the root node.
func (c *Context) SetRoot(root Node) {
	c.root = root
}

// Root returns the root node, or nil.
func (c *Context) Root() Node {
	return c.root
}

// RootSize returns the size of the root surface.
func (c *Context) RootSize() graphics.Size {
	return c.rootSize
}

// SetRootSize resizes the root surface and marks the root for measure.
func (c *Context) SetRootSize(size graphics.Size) {
	if c.rootSize == size {
		return
	}
	c.rootSize = size
	if c.root != nil {
		c.root.MarkDirtyNode(property.UpdateMeasure)
	}
}

// Scale returns the density factors.
func (c *Context) Scale() property.ScaleProperty {
	return c.scale
}

// GetRootConstraint returns the constraint the root node is measured with:
// exactly the root size.
func (c *Context) GetRootConstraint() property.LayoutConstraint {
	lc := property.NewLayoutConstraint()
	lc.Scale = c.scale
	lc.MaxSize = c.rootSize
	lc.PercentReference = c.rootSize
	lc.ParentIdealSize = graphics.OptionalSizeOf(c.rootSize)
	lc.SelfIdealSize = graphics.OptionalSizeOf(c.rootSize)
	return lc
}

// AddDirtyLayoutNode schedules n for layout and requests a frame.
func (c *Context) AddDirtyLayoutNode(n DirtyNode) {
	c.scheduler.AddDirtyLayoutNode(n)
	c.requestFrameForMark()
}

// AddDirtyRenderNode schedules n for render and requests a frame. It
// reports false when n is already waiting for layout.
func (c *Context) AddDirtyRenderNode(n DirtyNode) bool {
	if !c.scheduler.AddDirtyRenderNode(n) {
		return false
	}
	c.requestFrameForMark()
	return true
}

// AddDirtyRenderTree schedules a rebuild of n's render children.
func (c *Context) AddDirtyRenderTree(n Node) {
	if n == nil {
		return
	}
	c.dirtyRenderTree[n] = struct{}{}
	c.requestFrameForMark()
}

// requestFrameForMark skips the request while a flush is running; the flush
// requests a frame itself when it leaves work behind.
func (c *Context) requestFrameForMark() {
	if c.flushing {
		return
	}
	c.RequestFrame()
}

// SetOnNeedsFrame installs the callback invoked when a frame is first
// requested after a flush. It may be called from any goroutine.
func (c *Context) SetOnNeedsFrame(fn func()) {
	c.frameMu.Lock()
	defer c.frameMu.Unlock()
	c.onNeedsFrame = fn
}

// RequestFrame marks the context as needing a frame. Marks never flush by
// themselves; the frame driver calls FlushVsync.
func (c *Context) RequestFrame() {
	if c.needsFrame.Swap(true) {
		return
	}
	c.frameMu.Lock()
	fn := c.onNeedsFrame
	c.frameMu.Unlock()
	if fn != nil {
		fn()
	}
}

// NeedsFrame reports whether a frame was requested since the last flush.
func (c *Context) NeedsFrame() bool {
	return c.needsFrame.Load()
}

// PostAsyncEvent runs fn on the UI queue and requests a frame.
func (c *Context) PostAsyncEvent(fn func()) bool {
	if c.executor == nil {
		c.logger.Warn("post without executor")
		return false
	}
	if !c.executor.PostTask(fn, task.UI) {
		return false
	}
	c.RequestFrame()
	return true
}

// FlushVsync runs one frame: layout, render, then render tree rebuilds.
func (c *Context) FlushVsync() {
	c.needsFrame.Store(false)
	c.frames.Add(1)
	c.flushing = true
	c.scheduler.FlushTask()
	c.flushRenderTree()
	c.flushing = false
	c.logger.Debug("frame flushed", "frame", c.frames.Load())
	if c.scheduler.IsLayoutDirty() || c.scheduler.IsRenderDirty() || len(c.dirtyRenderTree) > 0 {
		c.RequestFrame()
	}
}

// Frames returns the number of flushed frames.
func (c *Context) Frames() uint64 {
	return c.frames.Load()
}

func (c *Context) flushRenderTree() {
	if len(c.dirtyRenderTree) == 0 {
		return
	}
	nodes := make([]Node, 0, len(c.dirtyRenderTree))
	for n := range c.dirtyRenderTree {
		nodes = append(nodes, n)
	}
	clear(c.dirtyRenderTree)
	slices.SortFunc(nodes, func(a, b Node) int { return compareNodes(a, b) })
	for _, n := range nodes {
		if n.NeedSyncRenderTree() {
			n.RebuildRenderContextTree()
		}
	}
}

// RenderTo replays the root's scene onto canvas. It reports false when the
// root has no scene.
func (c *Context) RenderTo(canvas render.Canvas) bool {
	if c.root == nil {
		return false
	}
	scene, ok := c.root.RenderContext().(*render.SceneContext)
	if !ok {
		return false
	}
	scene.Render(canvas)
	return true
}
