package widgets

import (
	"github.com/go-drift/ace/pkg/core"
	"github.com/go-drift/ace/pkg/graphics"
	"github.com/go-drift/ace/pkg/layout"
	"github.com/go-drift/ace/pkg/property"
)

// DefaultButtonColor is the background of a button without one declared.
var DefaultButtonColor = graphics.RGB(0x00, 0x7D, 0xFF)

// ButtonPattern is a capsule that centers its children.
type ButtonPattern struct {
	core.PatternBase
}

// NewButton creates an unmounted button. A non-empty label is mounted as a
// text child with the id "<id>-label".
func NewButton(id, label string) *core.FrameNode {
	n := core.NewFrameNode(TagButton, id, &ButtonPattern{})
	if label != "" {
		NewText(n.ID()+"-label", label).MountToParent(n, -1)
	}
	return n
}

func (p *ButtonPattern) CreatePaintProperty() property.Paint {
	prop := property.NewPaintProperty()
	prop.UpdateBackgroundColor(DefaultButtonColor)
	prop.CleanDirty()
	return prop
}

func (p *ButtonPattern) OnModifyDone() {
	host := p.Host()
	if host == nil {
		return
	}
	base := host.LayoutProperty().LayoutBase()
	if _, ok := base.Alignment(); ok {
		return
	}
	base.UpdateAlignment(graphics.AlignCenter)
	host.MarkDirtyNode(property.UpdateNormal)
}

// OnDirtyLayoutWrapperSwap rounds the corners to half the new height.
func (p *ButtonPattern) OnDirtyLayoutWrapperSwap(w *layout.Wrapper, skipMeasure, _ bool) bool {
	host := p.Host()
	if host == nil || skipMeasure {
		return false
	}
	radius := w.GeometryNode().FrameSize().Height / 2
	paint := host.PaintProperty().PaintBase()
	if current, ok := paint.BorderRadius(); ok && current == radius {
		return false
	}
	paint.UpdateBorderRadius(radius)
	return true
}
