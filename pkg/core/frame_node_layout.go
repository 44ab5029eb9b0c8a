package core

import (
	"weak"

	"github.com/go-drift/ace/pkg/graphics"
	"github.com/go-drift/ace/pkg/layout"
	"github.com/go-drift/ace/pkg/property"
	"github.com/go-drift/ace/pkg/render"
)

// MarkDirtyNode merges extra into the node's layout and paint flags and
// schedules the work they call for.
//
// Layout work goes to the nearest measure boundary (or the root): every
// node below it on the way up receives a child request. A boundary whose
// position changed also asks its parent for layout. Render-only work
// goes to the nearest render boundary the same way, without ever asking an
// ancestor for layout. A node already marked absorbs further marks until it
// is flushed.
func (n *FrameNode) MarkDirtyNode(extra property.ChangeFlag) {
	lp := n.layoutProp.LayoutBase()
	pp := n.paintProp.PaintBase()
	lp.UpdatePropertyChangeFlag(extra)
	pp.UpdatePropertyChangeFlag(extra)

	layoutFlag := lp.PropertyChangeFlag()
	paintFlag := pp.PropertyChangeFlag()
	if property.CheckNoChanged(layoutFlag | paintFlag) {
		return
	}
	ctx := n.Context()
	if ctx == nil {
		// Flags stay set; the parent's pass picks them up after mounting.
		return
	}
	parent := n.Parent()

	if property.CheckNeedLayout(layoutFlag) {
		if parent != nil && n.IsMeasureBoundary() && property.CheckPositionFlag(layoutFlag) {
			// The parent places a boundary; its own pass cannot move it.
			parent.MarkDirtyNode(property.UpdateLayout)
			if positionOnly(layoutFlag) {
				return
			}
		}
		if n.isLayoutDirtyMarked {
			return
		}
		n.isLayoutDirtyMarked = true
		if n.IsMeasureBoundary() || parent == nil {
			n.isRenderDirtyMarked = false
			ctx.AddDirtyLayoutNode(n)
			return
		}
		parent.MarkDirtyNode(property.UpdateByChildRequest)
		return
	}

	if n.isLayoutDirtyMarked || n.isRenderDirtyMarked || !property.CheckRenderFlag(paintFlag) {
		return
	}
	if n.IsRenderBoundary() || parent == nil {
		n.addDirtyRender()
		return
	}
	n.isRenderDirtyMarked = true
	parent.MarkDirtyNode(property.UpdateRenderByChildRequest)
}

// positionOnly reports whether POSITION is the only layout change in flag.
func positionOnly(flag property.ChangeFlag) bool {
	return !property.CheckMeasureFlag(flag) && !property.CheckLayoutFlag(flag) && !property.CheckNodeTreeFlag(flag)
}

func (n *FrameNode) addDirtyRender() {
	ctx := n.Context()
	if ctx == nil {
		return
	}
	if ctx.AddDirtyRenderNode(n) {
		n.isRenderDirtyMarked = true
	}
}

// updateLayoutPropertyFlag folds the children's flags into the node's own.
// Measure boundaries are skipped: their own pass covers them.
func (n *FrameNode) updateLayoutPropertyFlag() {
	var flag property.ChangeFlag
	for _, child := range n.children {
		if child.IsMeasureBoundary() {
			continue
		}
		child.updateLayoutPropertyFlag()
		flag |= child.layoutProp.LayoutBase().PropertyChangeFlag()
	}
	base := n.layoutProp.LayoutBase()
	if flag.Has(property.UpdateMeasure) && base.MeasureType(property.MatchContent) == property.WrapContent {
		base.UpdatePropertyChangeFlag(property.UpdateMeasure)
	}
	if flag.Has(property.UpdatePosition) {
		base.UpdatePropertyChangeFlag(property.UpdateLayout)
	}
	base.AdjustPropertyChangeFlagByChild(flag)
}

// CreateLayoutWrapper snapshots the node for a layout pass. The wrapper
// measures when the flags call for it or forceMeasure is set, only lays out
// when the flags or forceLayout ask for layout, and otherwise keeps the
// cached geometry. The node's layout flag is cleared in every case.
func (n *FrameNode) CreateLayoutWrapper(forceMeasure, forceLayout bool) *layout.Wrapper {
	n.isLayoutDirtyMarked = false
	base := n.layoutProp.LayoutBase()
	flag := base.PropertyChangeFlag()

	w := layout.NewWrapper(n.hostRef(), n.geometry.Clone(), n.layoutProp.Clone())
	switch {
	case property.CheckMeasureFlag(flag) || property.CheckNodeTreeFlag(flag) || forceMeasure:
		w.SetAlgorithm(layout.NewAlgorithmWrapper(n.pattern.CreateLayoutAlgorithm()))
		n.addChildWrappers(w)
	case property.CheckLayoutFlag(flag) || forceLayout:
		w.SetAlgorithm(layout.NewLayoutOnlyWrapper(n.pattern.CreateLayoutAlgorithm()))
		n.addChildWrappers(w)
	default:
		w.SetAlgorithm(layout.NewPassThroughWrapper())
	}
	w.SetTreeChanged(property.CheckNodeTreeFlag(flag) || n.needSyncRenderTree)
	base.CleanDirty()
	return w
}

func (n *FrameNode) addChildWrappers(w *layout.Wrapper) {
	algorithm := w.Algorithm()
	measures := !algorithm.SkipMeasure()
	forceMeasure := measures && !algorithm.CanChildrenSkipMeasure()
	for _, child := range n.children {
		if child.isLayoutDirtyMarked && !measures {
			// Nothing here measures the child; its own queued pass will.
			w.AddChild(child.passThroughWrapper())
			continue
		}
		w.AddChild(child.CreateLayoutWrapper(forceMeasure, true))
	}
}

func (n *FrameNode) passThroughWrapper() *layout.Wrapper {
	w := layout.NewWrapper(n.hostRef(), n.geometry.Clone(), n.layoutProp.Clone())
	w.SetAlgorithm(layout.NewPassThroughWrapper())
	return w
}

func (n *FrameNode) hostRef() layout.HostRef {
	self := weak.Make(n)
	return func() layout.Host {
		if node := self.Value(); node != nil {
			return node
		}
		return nil
	}
}

// layoutConstraint returns the constraint the node's own pass measures
// with: the parent's content constraint, or the root constraint for the
// root. Nil means no constraint is known.
func (n *FrameNode) layoutConstraint() *property.LayoutConstraint {
	if parent := n.Parent(); parent != nil {
		if c, ok := parent.layoutProp.LayoutBase().ContentLayoutConstraint(); ok {
			return &c
		}
		return nil
	}
	ctx := n.Context()
	if ctx == nil {
		return nil
	}
	if n.isRoot {
		c := ctx.GetRootConstraint()
		return &c
	}
	c := property.NewLayoutConstraint()
	c.Scale = ctx.Scale()
	return &c
}

func (n *FrameNode) parentGlobalOffset() graphics.Offset {
	if parent := n.Parent(); parent != nil {
		return parent.geometry.GlobalOffset()
	}
	return graphics.Offset{}
}

// CreateLayoutTask returns the node's layout pass, or nil when the node is
// no longer waiting for one.
func (n *FrameNode) CreateLayoutTask() func() {
	if !n.isLayoutDirtyMarked || n.Context() == nil {
		return nil
	}
	n.updateLayoutPropertyFlag()
	w := n.CreateLayoutWrapper(false, false)
	constraint := n.layoutConstraint()
	offset := n.parentGlobalOffset()
	n.isLayouting = true
	return func() {
		w.Measure(constraint)
		w.Layout(&offset)
		n.isLayouting = false
		w.MountToHost()
	}
}

// SwapDirtyLayoutWrapper commits a finished pass into the node. It is
// rejected while the node is in a pass of its own. A node that is waiting
// for its own pass only keeps the position its parent gave it.
func (n *FrameNode) SwapDirtyLayoutWrapper(w *layout.Wrapper) {
	if w == nil {
		return
	}
	if n.isLayouting {
		n.logger().Warn("swap rejected, node is layouting", "tag", n.tag, "id", n.id)
		return
	}
	if n.isLayoutDirtyMarked {
		if g := w.GeometryNode(); g != nil {
			n.geometry.SetFrameOffset(g.FrameOffset())
			n.geometry.SetParentGlobalOffset(g.ParentGlobalOffset())
			n.renderCtx.SyncGeometryProperties(n.geometry)
		}
		n.logger().Debug("swap deferred to pending pass", "tag", n.tag, "id", n.id)
		return
	}

	if w.TreeChanged() {
		n.RebuildRenderContextTree()
	}
	algorithm := w.Algorithm()
	needRender := n.pattern.OnDirtyLayoutWrapperSwap(w, algorithm.SkipMeasure(), algorithm.SkipLayout())
	if base := w.LayoutBase(); base != nil && !algorithm.SkipMeasure() {
		n.layoutProp.LayoutBase().AdoptConstraints(base)
	}

	g := w.GeometryNode()
	if g == nil || n.geometry.CheckUnchanged(g) {
		if needRender || property.CheckRenderFlag(n.paintProp.PaintBase().PropertyChangeFlag()) {
			n.addDirtyRender()
		}
		return
	}
	n.geometry = w.TakeGeometryNode()
	n.renderCtx.SyncGeometryProperties(n.geometry)
	n.addDirtyRender()
}

// CreateRenderTask returns the node's render pass, or nil when the node is
// no longer waiting for one. The pass also repaints marked descendants that
// are not render boundaries themselves.
func (n *FrameNode) CreateRenderTask() func() {
	if !n.isRenderDirtyMarked || n.isLayoutDirtyMarked {
		return nil
	}
	var wrappers []*render.PaintWrapper
	n.collectRender(&wrappers)
	return func() {
		for _, w := range wrappers {
			w.FlushRender()
		}
	}
}

func (n *FrameNode) collectRender(out *[]*render.PaintWrapper) {
	n.isRenderDirtyMarked = false
	*out = append(*out, n.CreatePaintWrapper())
	for _, child := range n.children {
		if child.isRenderDirtyMarked && !child.isLayoutDirtyMarked && !child.IsRenderBoundary() {
			child.collectRender(out)
		}
	}
}

// CreatePaintWrapper snapshots the node for painting and clears its paint
// flag.
func (n *FrameNode) CreatePaintWrapper() *render.PaintWrapper {
	pp := n.paintProp.PaintBase()
	w := render.NewPaintWrapper(n.renderCtx, n.geometry.Clone(), n.paintProp.Clone())
	if m := n.pattern.CreateNodePaintMethod(); m != nil {
		w.SetPaintMethod(m)
	}
	pp.CleanDirty()
	return w
}
