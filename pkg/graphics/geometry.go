// Package graphics provides the value types shared by layout and paint:
// sizes, offsets, rectangles, alignments and colors.
package graphics

import (
	"fmt"
	"math"
)

// epsilon is the tolerance for floating-point comparisons.
const epsilon = 0.0001

// Infinity is the unbounded extent used by open layout constraints.
var Infinity = math.Inf(1)

// Offset represents a 2D point or vector in logical pixels.
type Offset struct {
	X float64
	Y float64
}

// Add returns the component-wise sum of two offsets.
func (o Offset) Add(other Offset) Offset {
	return Offset{X: o.X + other.X, Y: o.Y + other.Y}
}

func (o Offset) String() string {
	return fmt.Sprintf("Offset (%.2f, %.2f)", o.X, o.Y)
}

// Size represents width and height dimensions in logical pixels.
type Size struct {
	Width  float64
	Height float64
}

// IsPositive reports whether both dimensions are greater than zero.
func (s Size) IsPositive() bool {
	return s.Width > 0 && s.Height > 0
}

// IsNonNegative reports whether both dimensions are zero or greater.
func (s Size) IsNonNegative() bool {
	return s.Width >= 0 && s.Height >= 0
}

// IsInfinite reports whether either dimension is unbounded.
func (s Size) IsInfinite() bool {
	return math.IsInf(s.Width, 1) || math.IsInf(s.Height, 1)
}

// Max returns the component-wise maximum of two sizes.
func (s Size) Max(other Size) Size {
	return Size{Width: math.Max(s.Width, other.Width), Height: math.Max(s.Height, other.Height)}
}

// Constrain clamps each dimension into [min, max].
func (s Size) Constrain(min, max Size) Size {
	return Size{
		Width:  math.Min(math.Max(s.Width, min.Width), max.Width),
		Height: math.Min(math.Max(s.Height, min.Height), max.Height),
	}
}

// AddPadding grows the size by the given edge insets.
func (s Size) AddPadding(left, right, top, bottom float64) Size {
	return Size{Width: s.Width + left + right, Height: s.Height + top + bottom}
}

// MinusPadding shrinks the size by the given edge insets, never below zero.
func (s Size) MinusPadding(left, right, top, bottom float64) Size {
	return Size{
		Width:  math.Max(s.Width-left-right, 0),
		Height: math.Max(s.Height-top-bottom, 0),
	}
}

// Equal reports approximate equality.
func (s Size) Equal(other Size) bool {
	return floatEqual(s.Width, other.Width) && floatEqual(s.Height, other.Height)
}

func (s Size) String() string {
	return fmt.Sprintf("[%.2f x %.2f]", s.Width, s.Height)
}

// OptionalSize is a size whose dimensions may each be unset.
type OptionalSize struct {
	Width     float64
	Height    float64
	HasWidth  bool
	HasHeight bool
}

// OptionalSizeOf returns an OptionalSize with both dimensions set.
func OptionalSizeOf(size Size) OptionalSize {
	return OptionalSize{Width: size.Width, Height: size.Height, HasWidth: true, HasHeight: true}
}

// IsValid reports whether both dimensions are set.
func (o OptionalSize) IsValid() bool {
	return o.HasWidth && o.HasHeight
}

// IsNull reports whether neither dimension is set.
func (o OptionalSize) IsNull() bool {
	return !o.HasWidth && !o.HasHeight
}

// SetWidth sets the width.
func (o *OptionalSize) SetWidth(width float64) {
	o.Width = width
	o.HasWidth = true
}

// SetHeight sets the height.
func (o *OptionalSize) SetHeight(height float64) {
	o.Height = height
	o.HasHeight = true
}

// UpdateSizeWithCheck copies the dimensions that are set in size and
// reports whether anything changed.
func (o *OptionalSize) UpdateSizeWithCheck(size OptionalSize) bool {
	changed := false
	if size.HasWidth && (!o.HasWidth || o.Width != size.Width) {
		o.SetWidth(size.Width)
		changed = true
	}
	if size.HasHeight && (!o.HasHeight || o.Height != size.Height) {
		o.SetHeight(size.Height)
		changed = true
	}
	return changed
}

// FillUnset copies each dimension set in other that is still unset here.
func (o *OptionalSize) FillUnset(other OptionalSize) bool {
	changed := false
	if !o.HasWidth && other.HasWidth {
		o.SetWidth(other.Width)
		changed = true
	}
	if !o.HasHeight && other.HasHeight {
		o.SetHeight(other.Height)
		changed = true
	}
	return changed
}

// UpdateIllegalSizeWithCheck fills only the dimensions that are still unset.
func (o *OptionalSize) UpdateIllegalSizeWithCheck(size Size) bool {
	changed := false
	if !o.HasWidth {
		o.SetWidth(size.Width)
		changed = true
	}
	if !o.HasHeight {
		o.SetHeight(size.Height)
		changed = true
	}
	return changed
}

// MinusPadding shrinks the set dimensions by the given insets.
func (o *OptionalSize) MinusPadding(left, right, top, bottom float64) {
	if o.HasWidth {
		o.Width = math.Max(o.Width-left-right, 0)
	}
	if o.HasHeight {
		o.Height = math.Max(o.Height-top-bottom, 0)
	}
}

// ConvertToSize returns the size with unset dimensions as -1.
func (o OptionalSize) ConvertToSize() Size {
	size := Size{Width: -1, Height: -1}
	if o.HasWidth {
		size.Width = o.Width
	}
	if o.HasHeight {
		size.Height = o.Height
	}
	return size
}

func (o OptionalSize) String() string {
	w, h := "NA", "NA"
	if o.HasWidth {
		w = fmt.Sprintf("%.2f", o.Width)
	}
	if o.HasHeight {
		h = fmt.Sprintf("%.2f", o.Height)
	}
	return fmt.Sprintf("[%s x %s]", w, h)
}

// Rect represents a rectangle using left, top, right, bottom coordinates.
type Rect struct {
	Left   float64
	Top    float64
	Right  float64
	Bottom float64
}

// RectFromLTWH constructs a Rect from left, top, width, height values.
func RectFromLTWH(left, top, width, height float64) Rect {
	return Rect{
		Left:   left,
		Top:    top,
		Right:  left + width,
		Bottom: top + height,
	}
}

// RectFromOffsetAndSize constructs a Rect at offset with the given size.
func RectFromOffsetAndSize(offset Offset, size Size) Rect {
	return RectFromLTWH(offset.X, offset.Y, size.Width, size.Height)
}

// Width returns the width of the rectangle.
func (r Rect) Width() float64 {
	return r.Right - r.Left
}

// Height returns the height of the rectangle.
func (r Rect) Height() float64 {
	return r.Bottom - r.Top
}

// Size returns the size of the rectangle.
func (r Rect) Size() Size {
	return Size{Width: r.Width(), Height: r.Height()}
}

// Offset returns the top-left corner of the rectangle.
func (r Rect) Offset() Offset {
	return Offset{X: r.Left, Y: r.Top}
}

// WithSize returns the rectangle resized in place, keeping its origin.
func (r Rect) WithSize(size Size) Rect {
	return RectFromLTWH(r.Left, r.Top, size.Width, size.Height)
}

// WithOffset returns the rectangle moved to offset, keeping its size.
func (r Rect) WithOffset(offset Offset) Rect {
	return RectFromLTWH(offset.X, offset.Y, r.Width(), r.Height())
}

// IsEmpty returns true if the rectangle has zero or negative area.
func (r Rect) IsEmpty() bool {
	return r.Right <= r.Left || r.Bottom <= r.Top
}

// Translate returns a new rect offset by (dx, dy).
func (r Rect) Translate(dx, dy float64) Rect {
	return Rect{
		Left:   r.Left + dx,
		Top:    r.Top + dy,
		Right:  r.Right + dx,
		Bottom: r.Bottom + dy,
	}
}

// Intersect returns the intersection of two rectangles.
// Returns empty rect if they don't overlap.
func (r Rect) Intersect(other Rect) Rect {
	left := math.Max(r.Left, other.Left)
	top := math.Max(r.Top, other.Top)
	right := math.Min(r.Right, other.Right)
	bottom := math.Min(r.Bottom, other.Bottom)
	if left >= right || top >= bottom {
		return Rect{}
	}
	return Rect{Left: left, Top: top, Right: right, Bottom: bottom}
}

func (r Rect) String() string {
	return fmt.Sprintf("Rect (%.2f, %.2f) - [%.2f x %.2f]", r.Left, r.Top, r.Width(), r.Height())
}

// floatEqual returns true if two float64 values are approximately equal.
func floatEqual(a, b float64) bool {
	if math.IsInf(a, 0) || math.IsInf(b, 0) {
		return a == b
	}
	return math.Abs(a-b) <= epsilon
}
