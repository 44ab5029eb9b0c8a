package layout

import (
	"github.com/go-drift/ace/pkg/graphics"
	"github.com/go-drift/ace/pkg/property"
)

// BoxAlgorithm stacks every child in the padded content box, positioned by
// the node's alignment. It is the default algorithm for patterns that do
// not provide one.
type BoxAlgorithm struct{}

// MeasureContent implements Algorithm. Plain boxes have no content.
func (BoxAlgorithm) MeasureContent(property.LayoutConstraint, *Wrapper) (graphics.Size, bool) {
	return graphics.Size{}, false
}

// Measure measures every child against the child constraint, then the box.
func (b BoxAlgorithm) Measure(w *Wrapper) {
	childConstraint := w.LayoutBase().CreateChildConstraint()
	for _, child := range w.AllChildren() {
		child.Measure(&childConstraint)
	}
	PerformMeasureSelf(w)
}

// Layout places the children, then lays them out at this node's global
// offset.
func (b BoxAlgorithm) Layout(w *Wrapper) {
	PerformLayout(w)
	offset := w.GeometryNode().GlobalOffset()
	for _, child := range w.AllChildren() {
		child.Layout(&offset)
	}
}

// PerformMeasureSelf resolves the node's own frame size, trying in order:
// the ideal size from the constraint, the parent's ideal size for
// MatchParent, the content size plus padding, the largest child plus
// padding, and finally zero.
func PerformMeasureSelf(w *Wrapper) {
	base := w.LayoutBase()
	constraint, _ := base.LayoutConstraint()
	padding := base.CreatePaddingAndBorder()
	geometry := w.GeometryNode()

	var frame graphics.OptionalSize
	frame.UpdateSizeWithCheck(constraint.SelfIdealSize)
	if !frame.IsValid() && base.MeasureType(property.MatchContent) == property.MatchParent {
		frame.FillUnset(constraint.ParentIdealSize)
	}
	if !frame.IsValid() {
		if content, ok := geometry.Content(); ok {
			size := content.Size().AddPadding(padding.Left, padding.Right, padding.Top, padding.Bottom)
			frame.UpdateIllegalSizeWithCheck(size)
		} else if children := w.AllChildren(); len(children) > 0 {
			largest := graphics.Size{}
			for _, child := range children {
				largest = largest.Max(child.GeometryNode().FrameSize())
			}
			largest = largest.Constrain(constraint.MinSize, constraint.MaxSize)
			frame.UpdateIllegalSizeWithCheck(largest.AddPadding(padding.Left, padding.Right, padding.Top, padding.Bottom))
		}
		frame.UpdateIllegalSizeWithCheck(graphics.Size{})
	}
	geometry.SetFrameSize(frame.ConvertToSize())
}

// PerformLayout aligns children and content inside the padded frame.
func PerformLayout(w *Wrapper) {
	base := w.LayoutBase()
	geometry := w.GeometryNode()
	padding := base.CreatePaddingAndBorder()
	size := geometry.FrameSize().MinusPadding(padding.Left, padding.Right, padding.Top, padding.Bottom)
	paddingOffset := graphics.Offset{X: padding.Left, Y: padding.Top}

	align, ok := base.Alignment()
	if !ok {
		align = graphics.AlignTopLeft
	}
	for _, child := range w.AllChildren() {
		childGeometry := child.GeometryNode()
		if childGeometry == nil {
			continue
		}
		childGeometry.SetFrameOffset(graphics.AlignPosition(size, childGeometry.FrameSize(), align).Add(paddingOffset))
	}
	if content, ok := geometry.Content(); ok {
		geometry.SetContentOffset(graphics.AlignPosition(size, content.Size(), align).Add(paddingOffset))
	}
}
