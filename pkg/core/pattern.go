package core

import (
	"weak"

	"github.com/go-drift/ace/pkg/layout"
	"github.com/go-drift/ace/pkg/property"
	"github.com/go-drift/ace/pkg/render"
)

// Pattern is the per-widget behavior of a frame node. The node owns exactly
// one pattern and asks it for its properties, its layout algorithm and its
// paint method.
type Pattern interface {
	CreateLayoutProperty() property.Layout
	CreatePaintProperty() property.Paint
	// CreateLayoutAlgorithm is called once per layout pass that measures or
	// lays the node out.
	CreateLayoutAlgorithm() layout.Algorithm
	// CreateNodePaintMethod may return nil when the node only paints its
	// background.
	CreateNodePaintMethod() render.NodePaintMethod

	AttachToFrameNode(node *FrameNode)
	DetachFromFrameNode()
	OnModifyDone()
	OnContextAttached()
	// OnDirtyLayoutWrapperSwap runs when a pass commits. Returning true
	// schedules a render even if the geometry did not change.
	OnDirtyLayoutWrapperSwap(w *layout.Wrapper, skipMeasure, skipLayout bool) bool

	IsMeasureBoundary() bool
	IsRenderBoundary() bool
	// IsAtomicNode reports whether the node refuses children.
	IsAtomicNode() bool
}

// PatternBase provides defaults for every Pattern method and keeps a weak
// reference to the host node. Embed it and override what differs.
type PatternBase struct {
	host weak.Pointer[FrameNode]
}

// Host returns the node the pattern is attached to, or nil.
func (p *PatternBase) Host() *FrameNode {
	return p.host.Value()
}

func (p *PatternBase) CreateLayoutProperty() property.Layout {
	return property.NewLayoutProperty()
}

func (p *PatternBase) CreatePaintProperty() property.Paint {
	return property.NewPaintProperty()
}

func (p *PatternBase) CreateLayoutAlgorithm() layout.Algorithm {
	return &layout.BoxAlgorithm{}
}

func (p *PatternBase) CreateNodePaintMethod() render.NodePaintMethod {
	return nil
}

func (p *PatternBase) AttachToFrameNode(node *FrameNode) {
	p.host = weak.Make(node)
}

func (p *PatternBase) DetachFromFrameNode() {
	p.host = weak.Pointer[FrameNode]{}
}

func (p *PatternBase) OnModifyDone() {}

func (p *PatternBase) OnContextAttached() {}

func (p *PatternBase) OnDirtyLayoutWrapperSwap(*layout.Wrapper, bool, bool) bool {
	return false
}

func (p *PatternBase) IsMeasureBoundary() bool { return false }

func (p *PatternBase) IsRenderBoundary() bool { return true }

func (p *PatternBase) IsAtomicNode() bool { return false }
