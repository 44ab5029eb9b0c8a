package layout

import (
	"maps"
	"slices"

	"github.com/go-drift/ace/pkg/errors"
	"github.com/go-drift/ace/pkg/graphics"
	"github.com/go-drift/ace/pkg/logging"
	"github.com/go-drift/ace/pkg/property"
)

// Host is the live node a wrapper was built from.
type Host interface {
	Tag() string
	// RootSize is the percent reference used when the wrapper is measured
	// without a parent constraint.
	RootSize() graphics.Size
	// SwapDirtyLayoutWrapper commits the result of a pass.
	SwapDirtyLayoutWrapper(w *Wrapper)
}

// HostRef resolves the host, returning nil once it has been released. The
// wrapper never keeps its host alive.
type HostRef func() Host

// ChildBuilder materializes child wrappers on demand.
type ChildBuilder interface {
	ChildCount() int
	BuildChild(index int) *Wrapper
}

// Wrapper is the working copy of one node for a single layout pass. It owns
// a clone of the node's geometry and layout property, so a pass never
// touches the live tree until MountToHost.
type Wrapper struct {
	host      HostRef
	geometry  *GeometryNode
	prop      property.Layout
	algorithm *AlgorithmWrapper

	children      map[int]*Wrapper
	childCount    int
	builder       ChildBuilder
	builderStart  int
	pendingRender map[int]*Wrapper

	active              bool
	measured            bool
	constraintUnchanged bool
	treeChanged         bool
}

// NewWrapper creates a wrapper for host over the given geometry and property.
func NewWrapper(host HostRef, geometry *GeometryNode, prop property.Layout) *Wrapper {
	return &Wrapper{
		host:          host,
		geometry:      geometry,
		prop:          prop,
		children:      make(map[int]*Wrapper),
		pendingRender: make(map[int]*Wrapper),
	}
}

// Host returns the live node or nil.
func (w *Wrapper) Host() Host {
	if w.host == nil {
		return nil
	}
	return w.host()
}

// HostTag returns the host's tag or an empty string.
func (w *Wrapper) HostTag() string {
	if h := w.Host(); h != nil {
		return h.Tag()
	}
	return ""
}

// ResetHost drops the host reference; MountToHost becomes a no-op for it.
func (w *Wrapper) ResetHost() {
	w.host = nil
}

// GeometryNode returns the wrapper's geometry.
func (w *Wrapper) GeometryNode() *GeometryNode {
	return w.geometry
}

// TakeGeometryNode hands the geometry over to the caller.
func (w *Wrapper) TakeGeometryNode() *GeometryNode {
	g := w.geometry
	w.geometry = nil
	return g
}

// LayoutProperty returns the wrapper's property snapshot.
func (w *Wrapper) LayoutProperty() property.Layout {
	return w.prop
}

// LayoutBase returns the base fields of the property snapshot.
func (w *Wrapper) LayoutBase() *property.LayoutProperty {
	if w.prop == nil {
		return nil
	}
	return w.prop.LayoutBase()
}

// SetAlgorithm installs the algorithm wrapper for this pass.
func (w *Wrapper) SetAlgorithm(a *AlgorithmWrapper) {
	w.algorithm = a
}

// Algorithm returns the algorithm wrapper.
func (w *Wrapper) Algorithm() *AlgorithmWrapper {
	return w.algorithm
}

// SetTreeChanged records that the host's child list changed before this pass.
func (w *Wrapper) SetTreeChanged(changed bool) {
	w.treeChanged = changed
}

// TreeChanged reports whether the host's render tree must be rebuilt.
func (w *Wrapper) TreeChanged() bool {
	return w.treeChanged
}

// IsActive reports whether the wrapper was placed in the render tree.
func (w *Wrapper) IsActive() bool {
	return w.active
}

// IsConstraintUnchanged reports whether the last Measure received the same
// constraint as the previous pass.
func (w *Wrapper) IsConstraintUnchanged() bool {
	return w.constraintUnchanged
}

// AddChild appends an already built child wrapper.
func (w *Wrapper) AddChild(child *Wrapper) {
	if child == nil {
		return
	}
	w.children[w.childCount] = child
	w.childCount++
}

// SetChildBuilder appends a lazily built range of children after the ones
// already added.
func (w *Wrapper) SetChildBuilder(b ChildBuilder) {
	w.builder = b
	w.builderStart = w.childCount
	if b != nil {
		w.childCount += b.ChildCount()
	}
}

// TotalChildCount returns the number of children, built or not.
func (w *Wrapper) TotalChildCount() int {
	return w.childCount
}

// GetOrCreateChildByIndex returns the child at index, building it if
// needed. The child is placed in the render tree.
func (w *Wrapper) GetOrCreateChildByIndex(index int) *Wrapper {
	if index < 0 || index >= w.childCount {
		logging.Default().Debug("child index out of range", "tag", w.HostTag(), "index", index, "count", w.childCount)
		return nil
	}
	child, ok := w.children[index]
	if !ok {
		if w.builder == nil || index < w.builderStart {
			return nil
		}
		child = w.builder.BuildChild(index - w.builderStart)
		if child == nil {
			return nil
		}
		w.children[index] = child
	}
	child.active = true
	w.pendingRender[index] = child
	return child
}

// AllChildren builds every child and returns them in index order.
func (w *Wrapper) AllChildren() []*Wrapper {
	out := make([]*Wrapper, 0, w.childCount)
	for i := range w.childCount {
		if child := w.GetOrCreateChildByIndex(i); child != nil {
			out = append(out, child)
		}
	}
	return out
}

// RemoveChildInRenderTree drops the child at index from the render tree.
func (w *Wrapper) RemoveChildInRenderTree(index int) {
	child, ok := w.pendingRender[index]
	if !ok {
		logging.Default().Warn("child not in pending render map", "tag", w.HostTag(), "index", index)
		return
	}
	child.active = false
	delete(w.pendingRender, index)
}

// ActiveChildren returns the children placed in the render tree, in index
// order.
func (w *Wrapper) ActiveChildren() []*Wrapper {
	out := make([]*Wrapper, 0, len(w.pendingRender))
	for _, i := range slices.Sorted(maps.Keys(w.pendingRender)) {
		out = append(out, w.pendingRender[i])
	}
	return out
}

// SkipMeasureContent reports whether the content size from the previous
// pass is still valid.
func (w *Wrapper) SkipMeasureContent() bool {
	if base := w.LayoutBase(); base != nil {
		return w.constraintUnchanged && !property.CheckMeasureFlag(base.PropertyChangeFlag())
	}
	return w.constraintUnchanged
}

// Measure resolves the constraint, measures content, then runs the
// algorithm's measure over self and children. A nil constraint means the
// wrapper is the root of the pass with nothing above it.
func (w *Wrapper) Measure(parentConstraint *property.LayoutConstraint) {
	w.measured = true
	if w.algorithm.SkipMeasure() {
		return
	}
	host := w.Host()
	base := w.LayoutBase()
	if host == nil || base == nil || w.geometry == nil {
		errors.Precondition("layout.Wrapper.Measure", w.HostTag(), errors.ErrHostReleased)
		return
	}

	if parentConstraint != nil {
		prev, hadPrev := w.geometry.ParentLayoutConstraint()
		w.constraintUnchanged = hadPrev && prev.Equal(*parentConstraint)
		w.geometry.SetParentLayoutConstraint(*parentConstraint)
		base.UpdateLayoutConstraint(*parentConstraint)
	} else {
		w.constraintUnchanged = false
		base.UpdateLayoutConstraint(rootFallbackConstraint(host))
	}
	base.UpdateContentConstraint()

	algorithm := w.algorithm.Algorithm()
	if w.SkipMeasureContent() {
		logging.Default().Debug("skip measure content", "tag", host.Tag())
	} else if size, ok := algorithm.MeasureContent(base.CreateContentConstraint(), w); ok {
		w.geometry.SetContentSize(size)
	}
	algorithm.Measure(w)
	logging.Default().Debug("measured", "tag", host.Tag(), "size", w.geometry.FrameSize())
}

// Layout positions the node's children. It reports false and leaves the
// geometry untouched when the step is skipped, or when a wrapper that
// measures was not measured first in this pass.
func (w *Wrapper) Layout(parentGlobalOffset *graphics.Offset) bool {
	if w.algorithm.SkipLayout() {
		return false
	}
	if !w.measured && !w.algorithm.SkipMeasure() {
		errors.Precondition("layout.Wrapper.Layout", w.HostTag(), errors.ErrLayoutBeforeMeasure)
		return false
	}
	host := w.Host()
	base := w.LayoutBase()
	if host == nil || base == nil || w.geometry == nil {
		errors.Precondition("layout.Wrapper.Layout", w.HostTag(), errors.ErrHostReleased)
		return false
	}

	if _, ok := base.LayoutConstraint(); !ok {
		if parent, ok := w.geometry.ParentLayoutConstraint(); ok {
			base.UpdateLayoutConstraint(parent)
		} else {
			base.UpdateLayoutConstraint(rootFallbackConstraint(host))
		}
		base.UpdateContentConstraint()
	}
	if parentGlobalOffset != nil {
		w.geometry.SetParentGlobalOffset(*parentGlobalOffset)
	}
	w.algorithm.Algorithm().Layout(w)
	logging.Default().Debug("laid out", "tag", host.Tag(), "offset", w.geometry.FrameOffset())
	return true
}

// MountToHost commits the pass: children first, then this wrapper's host.
func (w *Wrapper) MountToHost() {
	for _, child := range w.ActiveChildren() {
		child.MountToHost()
	}
	host := w.Host()
	if host == nil {
		logging.Default().Debug("host released before mount")
		return
	}
	host.SwapDirtyLayoutWrapper(w)
}

func rootFallbackConstraint(host Host) property.LayoutConstraint {
	c := property.NewLayoutConstraint()
	c.PercentReference = host.RootSize()
	return c
}
