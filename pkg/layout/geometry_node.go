package layout

import (
	"fmt"

	"github.com/go-drift/ace/pkg/graphics"
	"github.com/go-drift/ace/pkg/property"
)

// GeometryNode records the computed geometry of one node: its frame in
// parent coordinates, an optional content rect in local coordinates, the
// global offset of its parent, and the constraint of the last measure.
//
// A wrapper always works on a clone; the live node only sees the result
// when the wrapper is swapped back in.
type GeometryNode struct {
	frame              graphics.Rect
	content            *graphics.Rect
	parentGlobalOffset graphics.Offset
	parentConstraint   *property.LayoutConstraint
}

// NewGeometryNode returns an empty geometry node.
func NewGeometryNode() *GeometryNode {
	return &GeometryNode{}
}

// Reset clears all geometry.
func (g *GeometryNode) Reset() {
	*g = GeometryNode{}
}

// Clone returns a deep copy.
func (g *GeometryNode) Clone() *GeometryNode {
	out := &GeometryNode{
		frame:              g.frame,
		parentGlobalOffset: g.parentGlobalOffset,
	}
	if g.content != nil {
		c := *g.content
		out.content = &c
	}
	if g.parentConstraint != nil {
		c := *g.parentConstraint
		out.parentConstraint = &c
	}
	return out
}

// CheckUnchanged reports whether other holds the same geometry.
func (g *GeometryNode) CheckUnchanged(other *GeometryNode) bool {
	if other == nil {
		return false
	}
	if g.frame != other.frame || g.parentGlobalOffset != other.parentGlobalOffset {
		return false
	}
	if (g.content == nil) != (other.content == nil) {
		return false
	}
	if g.content != nil && *g.content != *other.content {
		return false
	}
	return sameConstraint(g.parentConstraint, other.parentConstraint)
}

func sameConstraint(a, b *property.LayoutConstraint) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

// Frame returns the frame rect in parent coordinates.
func (g *GeometryNode) Frame() graphics.Rect {
	return g.frame
}

// FrameSize returns the frame size.
func (g *GeometryNode) FrameSize() graphics.Size {
	return g.frame.Size()
}

// SetFrameSize sets the frame size, keeping the offset.
func (g *GeometryNode) SetFrameSize(size graphics.Size) {
	g.frame = g.frame.WithSize(size)
}

// FrameOffset returns the frame offset in parent coordinates.
func (g *GeometryNode) FrameOffset() graphics.Offset {
	return g.frame.Offset()
}

// SetFrameOffset moves the frame, keeping the size.
func (g *GeometryNode) SetFrameOffset(offset graphics.Offset) {
	g.frame = g.frame.WithOffset(offset)
}

// Content returns the content rect, if one was measured.
func (g *GeometryNode) Content() (graphics.Rect, bool) {
	if g.content == nil {
		return graphics.Rect{}, false
	}
	return *g.content, true
}

// ContentSize returns the content size or zero.
func (g *GeometryNode) ContentSize() graphics.Size {
	if g.content == nil {
		return graphics.Size{}
	}
	return g.content.Size()
}

// SetContentSize creates the content rect if needed and sets its size.
func (g *GeometryNode) SetContentSize(size graphics.Size) {
	if g.content == nil {
		g.content = &graphics.Rect{}
	}
	*g.content = g.content.WithSize(size)
}

// ContentOffset returns the content offset or zero.
func (g *GeometryNode) ContentOffset() graphics.Offset {
	if g.content == nil {
		return graphics.Offset{}
	}
	return g.content.Offset()
}

// SetContentOffset creates the content rect if needed and moves it.
func (g *GeometryNode) SetContentOffset(offset graphics.Offset) {
	if g.content == nil {
		g.content = &graphics.Rect{}
	}
	*g.content = g.content.WithOffset(offset)
}

// ParentGlobalOffset returns the global offset of the parent's frame.
func (g *GeometryNode) ParentGlobalOffset() graphics.Offset {
	return g.parentGlobalOffset
}

// SetParentGlobalOffset records the parent's global offset.
func (g *GeometryNode) SetParentGlobalOffset(offset graphics.Offset) {
	g.parentGlobalOffset = offset
}

// GlobalOffset returns the frame origin in root coordinates.
func (g *GeometryNode) GlobalOffset() graphics.Offset {
	return g.parentGlobalOffset.Add(g.frame.Offset())
}

// ParentLayoutConstraint returns the constraint of the previous measure.
func (g *GeometryNode) ParentLayoutConstraint() (property.LayoutConstraint, bool) {
	if g.parentConstraint == nil {
		return property.LayoutConstraint{}, false
	}
	return *g.parentConstraint, true
}

// SetParentLayoutConstraint records the constraint of this measure.
func (g *GeometryNode) SetParentLayoutConstraint(c property.LayoutConstraint) {
	g.parentConstraint = &c
}

func (g *GeometryNode) String() string {
	return fmt.Sprintf("frame: %s parentGlobalOffset: %s", g.frame, g.parentGlobalOffset)
}
