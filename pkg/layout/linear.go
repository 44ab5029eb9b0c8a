package layout

import (
	"math"

	"github.com/go-drift/ace/pkg/graphics"
	"github.com/go-drift/ace/pkg/property"
)

// CrossAlign positions children on the cross axis of a linear layout.
type CrossAlign int

const (
	CrossStart CrossAlign = iota
	CrossCenter
	CrossEnd
)

// ParseCrossAlign resolves "start", "center" or "end".
func ParseCrossAlign(name string) (CrossAlign, bool) {
	switch name {
	case "start", "":
		return CrossStart, true
	case "center":
		return CrossCenter, true
	case "end":
		return CrossEnd, true
	}
	return CrossStart, false
}

func (a CrossAlign) offset(parent, child float64) float64 {
	switch a {
	case CrossCenter:
		return (parent - child) / 2
	case CrossEnd:
		return parent - child
	default:
		return 0
	}
}

// LinearAlgorithm lays children out one after another along a row or a
// column. Children with a positive layout weight share the main-axis space
// left after the others are measured.
type LinearAlgorithm struct {
	Vertical   bool
	Space      float64
	CrossAlign CrossAlign
}

// MeasureContent implements Algorithm. Linear containers have no content.
func (LinearAlgorithm) MeasureContent(property.LayoutConstraint, *Wrapper) (graphics.Size, bool) {
	return graphics.Size{}, false
}

func (l LinearAlgorithm) main(s graphics.Size) float64 {
	if l.Vertical {
		return s.Height
	}
	return s.Width
}

func (l LinearAlgorithm) cross(s graphics.Size) float64 {
	if l.Vertical {
		return s.Width
	}
	return s.Height
}

func (l LinearAlgorithm) size(main, cross float64) graphics.Size {
	if l.Vertical {
		return graphics.Size{Width: cross, Height: main}
	}
	return graphics.Size{Width: main, Height: cross}
}

// Measure implements Algorithm.
func (l LinearAlgorithm) Measure(w *Wrapper) {
	base := w.LayoutBase()
	constraint, _ := base.LayoutConstraint()
	padding := base.CreatePaddingAndBorder()

	var frame graphics.OptionalSize
	frame.UpdateSizeWithCheck(constraint.SelfIdealSize)
	if !frame.IsValid() && base.MeasureType(property.MatchContent) == property.MatchParent {
		frame.FillUnset(constraint.ParentIdealSize)
	}
	available := frame
	available.UpdateIllegalSizeWithCheck(constraint.MaxSize)
	room := available.ConvertToSize().MinusPadding(padding.Left, padding.Right, padding.Top, padding.Bottom)

	childConstraint := base.CreateChildConstraint()
	children := w.AllChildren()
	var weighted []*Wrapper
	var totalWeight, allocated, crossSize float64
	for _, child := range children {
		if weight, ok := child.LayoutBase().LayoutWeight(); ok && weight > 0 {
			weighted = append(weighted, child)
			totalWeight += weight
			continue
		}
		child.Measure(&childConstraint)
		allocated += l.main(child.GeometryNode().FrameSize())
		crossSize = max(crossSize, l.cross(child.GeometryNode().FrameSize()))
	}
	if len(children) > 1 {
		allocated += l.Space * float64(len(children)-1)
	}

	remain := l.main(room) - allocated
	if remain < 0 || math.IsInf(remain, 0) {
		remain = 0
	}
	for _, child := range weighted {
		weight, _ := child.LayoutBase().LayoutWeight()
		c := childConstraint
		if l.Vertical {
			c.SelfIdealSize.SetHeight(remain * weight / totalWeight)
		} else {
			c.SelfIdealSize.SetWidth(remain * weight / totalWeight)
		}
		child.Measure(&c)
		allocated += l.main(child.GeometryNode().FrameSize())
		crossSize = max(crossSize, l.cross(child.GeometryNode().FrameSize()))
	}

	content := l.size(allocated, crossSize).AddPadding(padding.Left, padding.Right, padding.Top, padding.Bottom)
	frame.UpdateIllegalSizeWithCheck(content.Constrain(constraint.MinSize, constraint.MaxSize))
	w.GeometryNode().SetFrameSize(frame.ConvertToSize())
}

// Layout implements Algorithm.
func (l LinearAlgorithm) Layout(w *Wrapper) {
	base := w.LayoutBase()
	geometry := w.GeometryNode()
	padding := base.CreatePaddingAndBorder()
	inner := geometry.FrameSize().MinusPadding(padding.Left, padding.Right, padding.Top, padding.Bottom)
	origin := graphics.Offset{X: padding.Left, Y: padding.Top}

	pos := 0.0
	for _, child := range w.AllChildren() {
		childSize := child.GeometryNode().FrameSize()
		crossOffset := l.CrossAlign.offset(l.cross(inner), l.cross(childSize))
		var offset graphics.Offset
		if l.Vertical {
			offset = graphics.Offset{X: crossOffset, Y: pos}
		} else {
			offset = graphics.Offset{X: pos, Y: crossOffset}
		}
		child.GeometryNode().SetFrameOffset(origin.Add(offset))
		pos += l.main(childSize) + l.Space
	}

	global := geometry.GlobalOffset()
	for _, child := range w.AllChildren() {
		child.Layout(&global)
	}
}
