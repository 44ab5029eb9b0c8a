package property

import "github.com/go-drift/ace/pkg/graphics"

// Paint is implemented by PaintProperty and by widget-specific paint
// property types that embed it.
type Paint interface {
	PaintBase() *PaintProperty
	Clone() Paint
}

// PaintProperty is the declared paint state of a node. Setters raise
// UpdateRender, never a layout flag.
type PaintProperty struct {
	flag ChangeFlag

	backgroundColor *graphics.Color
	opacity         *float64
	borderRadius    *float64
}

// NewPaintProperty returns an empty paint property.
func NewPaintProperty() *PaintProperty {
	return &PaintProperty{}
}

// PaintBase implements Paint.
func (p *PaintProperty) PaintBase() *PaintProperty {
	return p
}

// Clone implements Paint.
func (p *PaintProperty) Clone() Paint {
	return p.CloneBase()
}

// CloneBase returns a deep copy of the base fields.
func (p *PaintProperty) CloneBase() *PaintProperty {
	return &PaintProperty{
		flag:            p.flag,
		backgroundColor: clonePtr(p.backgroundColor),
		opacity:         clonePtr(p.opacity),
		borderRadius:    clonePtr(p.borderRadius),
	}
}

// PropertyChangeFlag returns the accumulated change flag.
func (p *PaintProperty) PropertyChangeFlag() ChangeFlag {
	return p.flag
}

// UpdatePropertyChangeFlag merges flag into the accumulated change flag.
func (p *PaintProperty) UpdatePropertyChangeFlag(flag ChangeFlag) {
	p.flag |= flag
}

// CleanDirty resets the change flag after a flush.
func (p *PaintProperty) CleanDirty() {
	p.flag = UpdateNormal
}

// BackgroundColor returns the declared background color.
func (p *PaintProperty) BackgroundColor() (graphics.Color, bool) {
	if p.backgroundColor == nil {
		return 0, false
	}
	return *p.backgroundColor, true
}

// UpdateBackgroundColor sets the background color.
func (p *PaintProperty) UpdateBackgroundColor(value graphics.Color) {
	if p.backgroundColor != nil && *p.backgroundColor == value {
		return
	}
	p.backgroundColor = &value
	p.flag |= UpdateRender
}

// Opacity returns the declared opacity or 1.
func (p *PaintProperty) Opacity() float64 {
	if p.opacity == nil {
		return 1
	}
	return *p.opacity
}

// UpdateOpacity sets the opacity.
func (p *PaintProperty) UpdateOpacity(value float64) {
	if p.opacity != nil && *p.opacity == value {
		return
	}
	p.opacity = &value
	p.flag |= UpdateRender
}

// BorderRadius returns the declared corner radius.
func (p *PaintProperty) BorderRadius() (float64, bool) {
	if p.borderRadius == nil {
		return 0, false
	}
	return *p.borderRadius, true
}

// UpdateBorderRadius sets the corner radius.
func (p *PaintProperty) UpdateBorderRadius(value float64) {
	if p.borderRadius != nil && *p.borderRadius == value {
		return
	}
	p.borderRadius = &value
	p.flag |= UpdateRender
}
