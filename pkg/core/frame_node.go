package core

import (
	"slices"
	"sync/atomic"
	"weak"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/go-drift/ace/pkg/errors"
	"github.com/go-drift/ace/pkg/graphics"
	"github.com/go-drift/ace/pkg/layout"
	"github.com/go-drift/ace/pkg/logging"
	"github.com/go-drift/ace/pkg/pipeline"
	"github.com/go-drift/ace/pkg/property"
	"github.com/go-drift/ace/pkg/render"
)

var nextSequence atomic.Uint64

// FrameNode is a node of the UI tree. Parents own their children; a child
// refers to its parent and to its pipeline context weakly. All methods must
// be called on the UI queue.
type FrameNode struct {
	tag   string
	id    string
	seq   uint64
	depth int
	slot  int

	children []*FrameNode
	parent   weak.Pointer[FrameNode]
	context  weak.Pointer[pipeline.Context]

	pattern    Pattern
	layoutProp property.Layout
	paintProp  property.Paint
	renderCtx  render.Context
	geometry   *layout.GeometryNode

	isRoot              bool
	measureBoundary     bool
	isLayoutDirtyMarked bool
	isRenderDirtyMarked bool
	isLayouting         bool
	needSyncRenderTree  bool
	hasPendingRequest   bool
	disposed            bool
}

// NewFrameNode creates a detached node. An empty id is replaced by a
// random one.
func NewFrameNode(tag, id string, pattern Pattern) *FrameNode {
	return newFrameNode(tag, id, pattern, false)
}

// NewRootFrameNode creates the root of ctx's tree at depth 1 and schedules
// its first layout.
func NewRootFrameNode(tag string, pattern Pattern, ctx *pipeline.Context) *FrameNode {
	n := newFrameNode(tag, "", pattern, true)
	n.depth = 1
	if ctx == nil {
		errors.Precondition("core.NewRootFrameNode", tag, errors.ErrNoContext)
		return n
	}
	ctx.SetRoot(n)
	n.AttachContext(ctx)
	n.MarkDirtyNode(property.UpdateNodeTree)
	return n
}

// CreateFrameNodeAndMountToParent creates a node and mounts it under parent
// at slot.
func CreateFrameNodeAndMountToParent(tag, id string, pattern Pattern, parent *FrameNode, slot int) *FrameNode {
	n := NewFrameNode(tag, id, pattern)
	n.MountToParent(parent, slot)
	return n
}

func newFrameNode(tag, id string, pattern Pattern, isRoot bool) *FrameNode {
	if pattern == nil {
		pattern = &PatternBase{}
	}
	if id == "" {
		id = uuid.NewString()
	}
	n := &FrameNode{
		tag:        tag,
		id:         id,
		seq:        nextSequence.Add(1),
		isRoot:     isRoot,
		pattern:    pattern,
		layoutProp: pattern.CreateLayoutProperty(),
		paintProp:  pattern.CreatePaintProperty(),
		renderCtx:  render.NewSceneContext(),
		geometry:   layout.NewGeometryNode(),
	}
	n.renderCtx.InitContext(isRoot)
	self := weak.Make(n)
	n.renderCtx.SetRequestFrame(func() {
		if node := self.Value(); node != nil {
			node.RequestNextFrame()
		}
	})
	pattern.AttachToFrameNode(n)
	return n
}

func (n *FrameNode) Tag() string { return n.tag }

func (n *FrameNode) ID() string { return n.id }

// Sequence is a creation counter, unique per process.
func (n *FrameNode) Sequence() uint64 { return n.seq }

func (n *FrameNode) Depth() int { return n.depth }

// Slot is the node's index in its parent's child list.
func (n *FrameNode) Slot() int { return n.slot }

func (n *FrameNode) IsRoot() bool { return n.isRoot }

// Children returns the child list. Callers must not modify it.
func (n *FrameNode) Children() []*FrameNode { return n.children }

func (n *FrameNode) ChildCount() int { return len(n.children) }

// Parent returns the parent, or nil when detached or released.
func (n *FrameNode) Parent() *FrameNode { return n.parent.Value() }

// Context returns the pipeline context, or nil when detached or released.
func (n *FrameNode) Context() *pipeline.Context { return n.context.Value() }

func (n *FrameNode) Pattern() Pattern { return n.pattern }

func (n *FrameNode) LayoutProperty() property.Layout { return n.layoutProp }

func (n *FrameNode) PaintProperty() property.Paint { return n.paintProp }

func (n *FrameNode) GeometryNode() *layout.GeometryNode { return n.geometry }

func (n *FrameNode) RenderContext() render.Context { return n.renderCtx }

func (n *FrameNode) IsLayoutDirtyMarked() bool { return n.isLayoutDirtyMarked }

func (n *FrameNode) IsRenderDirtyMarked() bool { return n.isRenderDirtyMarked }

func (n *FrameNode) IsLayouting() bool { return n.isLayouting }

// NeedSyncRenderTree reports whether the render children must be rebuilt.
func (n *FrameNode) NeedSyncRenderTree() bool { return n.needSyncRenderTree }

// GetPattern returns the node's pattern as T.
func GetPattern[T Pattern](n *FrameNode) (T, bool) {
	p, ok := n.pattern.(T)
	return p, ok
}

// GetLayoutProperty returns the node's layout property as T.
func GetLayoutProperty[T property.Layout](n *FrameNode) (T, bool) {
	p, ok := n.layoutProp.(T)
	return p, ok
}

// GetPaintProperty returns the node's paint property as T.
func GetPaintProperty[T property.Paint](n *FrameNode) (T, bool) {
	p, ok := n.paintProp.(T)
	return p, ok
}

func (n *FrameNode) logger() *log.Logger {
	if ctx := n.Context(); ctx != nil {
		return ctx.Logger()
	}
	return logging.Default()
}

// RootSize implements layout.Host.
func (n *FrameNode) RootSize() graphics.Size {
	if ctx := n.Context(); ctx != nil {
		return ctx.RootSize()
	}
	return graphics.Size{}
}

// AddChild inserts child at slot. A negative slot or one past the end
// appends. Adding a child that is already present, or one of n's
// ancestors, is a no-op.
func (n *FrameNode) AddChild(child *FrameNode, slot int) {
	if child == nil || child == n {
		return
	}
	if n.pattern.IsAtomicNode() {
		n.logger().Warn("atomic node cannot have children", "tag", n.tag, "id", n.id, "child", child.tag)
		return
	}
	if slices.Contains(n.children, child) {
		n.logger().Warn("child already exists", "tag", n.tag, "id", n.id, "child", child.tag)
		return
	}
	for p := n.Parent(); p != nil; p = p.Parent() {
		if p == child {
			n.logger().Warn("cannot add an ancestor as a child", "tag", n.tag, "id", n.id, "child", child.tag)
			return
		}
	}
	if old := child.Parent(); old != nil {
		old.RemoveChild(child)
	}

	if slot < 0 || slot > len(n.children) {
		slot = len(n.children)
	}
	n.children = slices.Insert(n.children, slot, child)
	n.reassignSlots()
	child.parent = weak.Make(n)
	child.SetDepth(n.depth + 1)
	child.AttachContext(n.Context())

	n.MarkNeedSyncRenderTree()
	n.MarkDirtyNode(property.UpdateNodeTree)
}

// RemoveChild detaches child. Removing a node that is not a child is a
// no-op.
func (n *FrameNode) RemoveChild(child *FrameNode) {
	i := slices.Index(n.children, child)
	if i < 0 {
		return
	}
	n.children = slices.Delete(n.children, i, i+1)
	n.reassignSlots()
	child.parent = weak.Pointer[FrameNode]{}
	child.AttachContext(nil)

	n.MarkNeedSyncRenderTree()
	n.MarkDirtyNode(property.UpdateNodeTree)
}

// MountToParent adds the node under parent at slot. Depth and pipeline
// context propagate to the whole subtree.
func (n *FrameNode) MountToParent(parent *FrameNode, slot int) {
	if parent == nil {
		n.logger().Warn("mount to nil parent", "tag", n.tag, "id", n.id)
		return
	}
	parent.AddChild(n, slot)
}

// MoveToSlot moves the node within its parent's child list.
func (n *FrameNode) MoveToSlot(slot int) {
	parent := n.Parent()
	if parent == nil {
		n.logger().Warn("move without parent", "tag", n.tag, "id", n.id)
		return
	}
	siblings := parent.children
	i := slices.Index(siblings, n)
	if i < 0 {
		return
	}
	if slot < 0 || slot >= len(siblings) {
		slot = len(siblings) - 1
	}
	if i == slot {
		return
	}
	siblings = slices.Delete(siblings, i, i+1)
	parent.children = slices.Insert(siblings, slot, n)
	parent.reassignSlots()

	parent.MarkNeedSyncRenderTree()
	parent.MarkDirtyNode(property.UpdateNodeTree)
}

// Clear removes every child.
func (n *FrameNode) Clear() {
	if len(n.children) == 0 {
		return
	}
	for _, child := range n.children {
		child.parent = weak.Pointer[FrameNode]{}
		child.AttachContext(nil)
	}
	n.children = nil
	n.MarkNeedSyncRenderTree()
	n.MarkDirtyNode(property.UpdateNodeTree)
}

func (n *FrameNode) reassignSlots() {
	for i, child := range n.children {
		child.slot = i
	}
}

// SetDepth sets the node's depth and renumbers its subtree.
func (n *FrameNode) SetDepth(depth int) {
	n.depth = depth
	for _, child := range n.children {
		child.SetDepth(depth + 1)
	}
}

// AttachContext binds the subtree to ctx. A nil ctx detaches it and drops
// any pending dirty marks.
func (n *FrameNode) AttachContext(ctx *pipeline.Context) {
	if ctx == nil {
		n.context = weak.Pointer[pipeline.Context]{}
		n.isLayoutDirtyMarked = false
		n.isRenderDirtyMarked = false
		for _, child := range n.children {
			child.AttachContext(nil)
		}
		return
	}
	if n.Context() == ctx {
		return
	}
	n.context = weak.Make(ctx)
	n.pattern.OnContextAttached()
	if n.hasPendingRequest {
		n.hasPendingRequest = false
		ctx.RequestFrame()
	}
	for _, child := range n.children {
		child.AttachContext(ctx)
	}
}

// SetMeasureBoundary overrides the pattern's measure boundary answer.
func (n *FrameNode) SetMeasureBoundary(boundary bool) {
	n.measureBoundary = boundary
}

// IsMeasureBoundary reports whether layout requests stop at this node.
func (n *FrameNode) IsMeasureBoundary() bool {
	return n.measureBoundary || n.pattern.IsMeasureBoundary()
}

// IsRenderBoundary reports whether render requests stop at this node.
func (n *FrameNode) IsRenderBoundary() bool {
	return n.pattern.IsRenderBoundary()
}

// MarkNeedSyncRenderTree records that the render children must be rebuilt
// before the next frame is shown.
func (n *FrameNode) MarkNeedSyncRenderTree() {
	n.needSyncRenderTree = true
	if ctx := n.Context(); ctx != nil {
		ctx.AddDirtyRenderTree(n)
	}
}

// RebuildRenderContextTree relinks the render context to the children's.
func (n *FrameNode) RebuildRenderContextTree() {
	children := make([]render.Context, 0, len(n.children))
	for _, child := range n.children {
		children = append(children, child.renderCtx)
	}
	n.renderCtx.RebuildFrame(children)
	n.needSyncRenderTree = false
	n.logger().Debug("rebuilt render tree", "tag", n.tag, "children", len(children))
}

// MarkModifyDone tells the pattern a batch of property updates finished.
func (n *FrameNode) MarkModifyDone() {
	n.pattern.OnModifyDone()
}

// UpdateLayoutConstraint replaces the user-declared sizes and marks the
// node.
func (n *FrameNode) UpdateLayoutConstraint(m property.MeasureProperty) {
	n.layoutProp.LayoutBase().UpdateCalcLayoutProperty(m)
	n.MarkDirtyNode(property.UpdateNormal)
}

// RequestNextFrame asks the context for a frame. Without a context the
// request is kept and replayed when one attaches.
func (n *FrameNode) RequestNextFrame() {
	if ctx := n.Context(); ctx != nil {
		ctx.RequestFrame()
		return
	}
	n.hasPendingRequest = true
}

// Dispose detaches the pattern and disposes the subtree.
func (n *FrameNode) Dispose() {
	if n.disposed {
		return
	}
	n.disposed = true
	for _, child := range n.children {
		child.parent = weak.Pointer[FrameNode]{}
		child.Dispose()
	}
	n.children = nil
	n.AttachContext(nil)
	n.pattern.DetachFromFrameNode()
}
