package widgets

import (
	"github.com/go-drift/ace/pkg/core"
	"github.com/go-drift/ace/pkg/layout"
	"github.com/go-drift/ace/pkg/property"
)

// LinearPattern lays its children out in a column or a row.
type LinearPattern struct {
	core.PatternBase
	vertical   bool
	space      float64
	crossAlign layout.CrossAlign
}

// NewColumn creates an unmounted vertical container.
func NewColumn(id string) *core.FrameNode {
	return core.NewFrameNode(TagColumn, id, &LinearPattern{vertical: true})
}

// NewRow creates an unmounted horizontal container.
func NewRow(id string) *core.FrameNode {
	return core.NewFrameNode(TagRow, id, &LinearPattern{})
}

func (p *LinearPattern) CreateLayoutAlgorithm() layout.Algorithm {
	return layout.LinearAlgorithm{Vertical: p.vertical, Space: p.space, CrossAlign: p.crossAlign}
}

// IsVertical reports whether the pattern is a column.
func (p *LinearPattern) IsVertical() bool { return p.vertical }

// Space returns the gap between children.
func (p *LinearPattern) Space() float64 { return p.space }

// SetSpace changes the gap between children. The container's own size
// depends on it, so the host is re-measured.
func (p *LinearPattern) SetSpace(space float64) {
	if p.space == space {
		return
	}
	p.space = space
	markHost(&p.PatternBase, property.UpdateMeasure)
}

// CrossAlign returns the cross-axis alignment of children.
func (p *LinearPattern) CrossAlign() layout.CrossAlign { return p.crossAlign }

// SetCrossAlign moves children on the cross axis without resizing anything.
func (p *LinearPattern) SetCrossAlign(align layout.CrossAlign) {
	if p.crossAlign == align {
		return
	}
	p.crossAlign = align
	markHost(&p.PatternBase, property.UpdateLayout)
}
