package layout

import (
	"github.com/go-drift/ace/pkg/graphics"
	"github.com/go-drift/ace/pkg/property"
)

// Algorithm computes the size of a node and the positions of its children.
// Measure must leave the node's frame size in the wrapper's geometry; Layout
// must set each child's frame offset.
type Algorithm interface {
	// MeasureContent returns the size of the node's own content. Nodes whose
	// size comes only from their children return false.
	MeasureContent(constraint property.LayoutConstraint, w *Wrapper) (graphics.Size, bool)
	Measure(w *Wrapper)
	Layout(w *Wrapper)
}

// ChildMeasureSkipper is implemented by algorithms whose children can keep
// their cached size when the node itself is re-measured.
type ChildMeasureSkipper interface {
	CanChildrenSkipMeasure() bool
}

// AlgorithmWrapper pairs an algorithm with the parts of it a pass may skip.
type AlgorithmWrapper struct {
	algorithm   Algorithm
	skipMeasure bool
	skipLayout  bool
}

// NewAlgorithmWrapper runs both measure and layout.
func NewAlgorithmWrapper(algorithm Algorithm) *AlgorithmWrapper {
	return &AlgorithmWrapper{algorithm: algorithm}
}

// NewLayoutOnlyWrapper reuses the cached measurement and only lays out.
func NewLayoutOnlyWrapper(algorithm Algorithm) *AlgorithmWrapper {
	return &AlgorithmWrapper{algorithm: algorithm, skipMeasure: true}
}

// NewPassThroughWrapper skips both steps and keeps the cached geometry.
func NewPassThroughWrapper() *AlgorithmWrapper {
	return &AlgorithmWrapper{skipMeasure: true, skipLayout: true}
}

// Algorithm returns the wrapped algorithm, which may be nil.
func (a *AlgorithmWrapper) Algorithm() Algorithm {
	if a == nil {
		return nil
	}
	return a.algorithm
}

// SkipMeasure reports whether Measure is a no-op for this pass.
func (a *AlgorithmWrapper) SkipMeasure() bool {
	return a == nil || a.algorithm == nil || a.skipMeasure
}

// SkipLayout reports whether Layout is a no-op for this pass.
func (a *AlgorithmWrapper) SkipLayout() bool {
	return a == nil || a.algorithm == nil || a.skipLayout
}

// CanChildrenSkipMeasure reports whether children may keep their cached
// size while this node re-measures.
func (a *AlgorithmWrapper) CanChildrenSkipMeasure() bool {
	if s, ok := a.Algorithm().(ChildMeasureSkipper); ok {
		return s.CanChildrenSkipMeasure()
	}
	return false
}
