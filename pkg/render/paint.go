package render

import (
	"github.com/go-drift/ace/pkg/graphics"
	"github.com/go-drift/ace/pkg/layout"
	"github.com/go-drift/ace/pkg/property"
)

// NodePaintMethod paints a node's own content, on top of its background.
type NodePaintMethod interface {
	PaintContent(canvas Canvas, w *PaintWrapper)
}

// PaintFunc adapts a function to NodePaintMethod.
type PaintFunc func(canvas Canvas, w *PaintWrapper)

// PaintContent implements NodePaintMethod.
func (f PaintFunc) PaintContent(canvas Canvas, w *PaintWrapper) {
	f(canvas, w)
}

// PaintWrapper carries a snapshot of one node's geometry and paint state
// into a render task.
type PaintWrapper struct {
	ctx      Context
	geometry *layout.GeometryNode
	prop     property.Paint
	method   NodePaintMethod
}

// NewPaintWrapper snapshots geometry and prop for painting into ctx.
func NewPaintWrapper(ctx Context, geometry *layout.GeometryNode, prop property.Paint) *PaintWrapper {
	return &PaintWrapper{ctx: ctx, geometry: geometry, prop: prop}
}

// SetPaintMethod installs the node's content painter.
func (w *PaintWrapper) SetPaintMethod(m NodePaintMethod) {
	w.method = m
}

// GeometryNode returns the geometry snapshot.
func (w *PaintWrapper) GeometryNode() *layout.GeometryNode {
	return w.geometry
}

// PaintProperty returns the paint property snapshot.
func (w *PaintWrapper) PaintProperty() property.Paint {
	return w.prop
}

// FrameSize returns the frame size, or zero without geometry.
func (w *PaintWrapper) FrameSize() graphics.Size {
	if w.geometry == nil {
		return graphics.Size{}
	}
	return w.geometry.FrameSize()
}

// ContentRect returns the content rect in local coordinates, falling back
// to the whole frame.
func (w *PaintWrapper) ContentRect() graphics.Rect {
	if w.geometry == nil {
		return graphics.Rect{}
	}
	if r, ok := w.geometry.Content(); ok {
		return r
	}
	return graphics.RectFromOffsetAndSize(graphics.Offset{}, w.geometry.FrameSize())
}

// FlushRender records background then content into the context.
func (w *PaintWrapper) FlushRender() {
	if w.ctx == nil {
		return
	}
	canvas := w.ctx.StartRecording()
	bounds := graphics.RectFromOffsetAndSize(graphics.Offset{}, w.FrameSize())

	layered := false
	if w.prop != nil {
		base := w.prop.PaintBase()
		if opacity := base.Opacity(); opacity < 1 {
			canvas.SaveLayerAlpha(bounds, opacity)
			layered = true
		}
		if bg, ok := base.BackgroundColor(); ok {
			if radius, ok := base.BorderRadius(); ok && radius > 0 {
				canvas.DrawRRect(bounds, radius, Paint{Color: bg})
			} else {
				canvas.DrawRect(bounds, Paint{Color: bg})
			}
		}
	}
	if w.method != nil {
		w.method.PaintContent(canvas, w)
	}
	if layered {
		canvas.Restore()
	}
	w.ctx.StopRecording()
}
