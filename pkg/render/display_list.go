package render

import (
	"fmt"
	"image"
	"slices"

	"github.com/go-drift/ace/pkg/graphics"
)

type opKind uint8

const (
	opSave opKind = iota
	opSaveLayerAlpha
	opRestore
	opTranslate
	opClipRect
	opDrawRect
	opDrawRRect
	opDrawText
	opDrawImageRect
)

// op is one recorded canvas call. Only the fields its kind uses are set;
// Translate keeps dx, dy in rect.Left and rect.Top.
type op struct {
	kind   opKind
	rect   graphics.Rect
	src    graphics.Rect
	scalar float64
	paint  Paint
	text   string
	image  image.Image
}

func (o *op) replay(c Canvas) {
	switch o.kind {
	case opSave:
		c.Save()
	case opSaveLayerAlpha:
		c.SaveLayerAlpha(o.rect, o.scalar)
	case opRestore:
		c.Restore()
	case opTranslate:
		c.Translate(o.rect.Left, o.rect.Top)
	case opClipRect:
		c.ClipRect(o.rect)
	case opDrawRect:
		c.DrawRect(o.rect, o.paint)
	case opDrawRRect:
		c.DrawRRect(o.rect, o.scalar, o.paint)
	case opDrawText:
		c.DrawText(o.text, o.rect.Offset(), o.paint)
	case opDrawImageRect:
		c.DrawImageRect(o.image, o.src, o.rect)
	}
}

func (o *op) String() string {
	switch o.kind {
	case opSave:
		return "Save"
	case opSaveLayerAlpha:
		return fmt.Sprintf("SaveLayerAlpha %v %.2f", o.rect, o.scalar)
	case opRestore:
		return "Restore"
	case opTranslate:
		return fmt.Sprintf("Translate %.2f %.2f", o.rect.Left, o.rect.Top)
	case opClipRect:
		return fmt.Sprintf("ClipRect %v", o.rect)
	case opDrawRect:
		return fmt.Sprintf("DrawRect %v %v", o.rect, o.paint.Color)
	case opDrawRRect:
		return fmt.Sprintf("DrawRRect %v r=%.2f %v", o.rect, o.scalar, o.paint.Color)
	case opDrawText:
		return fmt.Sprintf("DrawText %q %v", o.text, o.rect.Offset())
	case opDrawImageRect:
		return fmt.Sprintf("DrawImageRect %v -> %v", o.src, o.rect)
	}
	return fmt.Sprintf("op(%d)", o.kind)
}

// DisplayList is a frozen recording. Replaying it onto a canvas issues the
// recorded calls in order.
type DisplayList struct {
	ops  []op
	size graphics.Size
}

// Paint replays the list onto canvas. A nil list paints nothing.
func (d *DisplayList) Paint(canvas Canvas) {
	if d == nil {
		return
	}
	for i := range d.ops {
		d.ops[i].replay(canvas)
	}
}

// Size is the canvas size the list was recorded at.
func (d *DisplayList) Size() graphics.Size { return d.size }

func (d *DisplayList) Len() int {
	if d == nil {
		return 0
	}
	return len(d.ops)
}

// Describe returns one line per operation, for dumps and tests.
func (d *DisplayList) Describe() []string {
	if d == nil {
		return nil
	}
	lines := make([]string, len(d.ops))
	for i := range d.ops {
		lines[i] = d.ops[i].String()
	}
	return lines
}

// PictureRecorder is itself the recording canvas: calls made between
// BeginRecording and EndRecording are captured, calls outside are dropped.
// The zero value is ready to use and can be reused across recordings.
type PictureRecorder struct {
	ops    []op
	size   graphics.Size
	active bool
}

// BeginRecording discards any earlier session and returns the canvas to
// draw into.
func (r *PictureRecorder) BeginRecording(size graphics.Size) Canvas {
	r.ops = r.ops[:0]
	r.size = size
	r.active = true
	return (*recorderCanvas)(r)
}

func (r *PictureRecorder) IsRecording() bool { return r.active }

// EndRecording closes the session and returns a copy of what was drawn.
func (r *PictureRecorder) EndRecording() *DisplayList {
	list := &DisplayList{size: r.size}
	if r.active {
		list.ops = slices.Clone(r.ops)
		r.active = false
	}
	return list
}

// recorderCanvas exposes the Canvas methods of a PictureRecorder without
// adding them to its own method set.
type recorderCanvas PictureRecorder

func (c *recorderCanvas) push(o op) {
	if c.active {
		c.ops = append(c.ops, o)
	}
}

func (c *recorderCanvas) Save()    { c.push(op{kind: opSave}) }
func (c *recorderCanvas) Restore() { c.push(op{kind: opRestore}) }

func (c *recorderCanvas) SaveLayerAlpha(bounds graphics.Rect, alpha float64) {
	c.push(op{kind: opSaveLayerAlpha, rect: bounds, scalar: alpha})
}

func (c *recorderCanvas) Translate(dx, dy float64) {
	c.push(op{kind: opTranslate, rect: graphics.Rect{Left: dx, Top: dy}})
}

func (c *recorderCanvas) ClipRect(rect graphics.Rect) {
	c.push(op{kind: opClipRect, rect: rect})
}

func (c *recorderCanvas) DrawRect(rect graphics.Rect, paint Paint) {
	c.push(op{kind: opDrawRect, rect: rect, paint: paint})
}

func (c *recorderCanvas) DrawRRect(rect graphics.Rect, radius float64, paint Paint) {
	c.push(op{kind: opDrawRRect, rect: rect, scalar: radius, paint: paint})
}

func (c *recorderCanvas) DrawText(text string, position graphics.Offset, paint Paint) {
	c.push(op{kind: opDrawText, rect: graphics.Rect{Left: position.X, Top: position.Y}, text: text, paint: paint})
}

func (c *recorderCanvas) DrawImageRect(img image.Image, src, dst graphics.Rect) {
	c.push(op{kind: opDrawImageRect, rect: dst, src: src, image: img})
}

func (c *recorderCanvas) Size() graphics.Size { return c.size }
