package property

import (
	"fmt"
	"math"

	"github.com/go-drift/ace/pkg/graphics"
)

// DimensionUnit is the unit of a declared length.
type DimensionUnit int

const (
	// UnitNone marks an unset length.
	UnitNone DimensionUnit = iota
	// UnitPx is a physical pixel length.
	UnitPx
	// UnitVp is a density-independent length, scaled by DipScale.
	UnitVp
	// UnitFp is a font length, scaled by DipScale and FontScale.
	UnitFp
	// UnitPercent is a fraction (0-1) of the percent reference.
	UnitPercent
)

// CalcLength is a declared length that is resolved against a constraint.
type CalcLength struct {
	Value float64
	Unit  DimensionUnit
}

// Px returns a pixel length.
func Px(v float64) CalcLength { return CalcLength{Value: v, Unit: UnitPx} }

// Vp returns a density-independent length.
func Vp(v float64) CalcLength { return CalcLength{Value: v, Unit: UnitVp} }

// Percent returns a fractional length; 0.5 is half of the reference.
func Percent(v float64) CalcLength { return CalcLength{Value: v, Unit: UnitPercent} }

// IsValid reports whether the length is set.
func (l CalcLength) IsValid() bool {
	return l.Unit != UnitNone
}

// ToPx resolves the length. reference is the percent base for this axis.
func (l CalcLength) ToPx(scale ScaleProperty, reference float64) (float64, bool) {
	switch l.Unit {
	case UnitPx:
		return l.Value, true
	case UnitVp:
		return l.Value * scale.DipScale, true
	case UnitFp:
		return l.Value * scale.DipScale * scale.FontScale, true
	case UnitPercent:
		if reference < 0 || math.IsInf(reference, 0) {
			return 0, false
		}
		return l.Value * reference, true
	default:
		return 0, false
	}
}

func (l CalcLength) String() string {
	switch l.Unit {
	case UnitPx:
		return fmt.Sprintf("%.2fpx", l.Value)
	case UnitVp:
		return fmt.Sprintf("%.2fvp", l.Value)
	case UnitFp:
		return fmt.Sprintf("%.2ffp", l.Value)
	case UnitPercent:
		return fmt.Sprintf("%.2f%%", l.Value*100)
	default:
		return "NA"
	}
}

// CalcSize is a declared width/height pair. Either side may be unset.
type CalcSize struct {
	Width  CalcLength
	Height CalcLength
}

// ToOptionalSize resolves the declared sides against scale and reference.
func (s CalcSize) ToOptionalSize(scale ScaleProperty, reference graphics.Size) graphics.OptionalSize {
	var out graphics.OptionalSize
	if w, ok := s.Width.ToPx(scale, reference.Width); ok {
		out.SetWidth(w)
	}
	if h, ok := s.Height.ToPx(scale, reference.Height); ok {
		out.SetHeight(h)
	}
	return out
}

// MeasureProperty holds user-declared min, max and ideal sizes.
type MeasureProperty struct {
	MinSize       CalcSize
	MaxSize       CalcSize
	SelfIdealSize CalcSize
}

// MeasureType controls how a node falls back when it has no ideal size.
type MeasureType int

const (
	// MatchContent sizes the node from its content or children.
	MatchContent MeasureType = iota
	// MatchParent sizes the node from the parent's ideal size.
	MatchParent
	// WrapContent sizes the node from its content and re-measures when
	// children change size.
	WrapContent
)

func (m MeasureType) String() string {
	switch m {
	case MatchParent:
		return "match-parent"
	case WrapContent:
		return "wrap-content"
	default:
		return "match-content"
	}
}

// Edges is a set of per-side insets, used for padding and border widths.
type Edges struct {
	Left   float64
	Right  float64
	Top    float64
	Bottom float64
}

// EdgesAll returns equal insets on every side.
func EdgesAll(v float64) Edges {
	return Edges{Left: v, Right: v, Top: v, Bottom: v}
}

// Add returns the per-side sum of two inset sets.
func (e Edges) Add(other Edges) Edges {
	return Edges{
		Left:   e.Left + other.Left,
		Right:  e.Right + other.Right,
		Top:    e.Top + other.Top,
		Bottom: e.Bottom + other.Bottom,
	}
}

// Horizontal returns left + right.
func (e Edges) Horizontal() float64 { return e.Left + e.Right }

// Vertical returns top + bottom.
func (e Edges) Vertical() float64 { return e.Top + e.Bottom }
