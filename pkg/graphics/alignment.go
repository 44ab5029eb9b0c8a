package graphics

// Alignment positions a child inside a parent box. Horizontal and Vertical
// range from -1 (start) to 1 (end).
type Alignment struct {
	Horizontal float64
	Vertical   float64
}

// Common alignments.
var (
	AlignTopLeft      = Alignment{Horizontal: -1, Vertical: -1}
	AlignTopCenter    = Alignment{Horizontal: 0, Vertical: -1}
	AlignTopRight     = Alignment{Horizontal: 1, Vertical: -1}
	AlignCenterLeft   = Alignment{Horizontal: -1, Vertical: 0}
	AlignCenter       = Alignment{Horizontal: 0, Vertical: 0}
	AlignCenterRight  = Alignment{Horizontal: 1, Vertical: 0}
	AlignBottomLeft   = Alignment{Horizontal: -1, Vertical: 1}
	AlignBottomCenter = Alignment{Horizontal: 0, Vertical: 1}
	AlignBottomRight  = Alignment{Horizontal: 1, Vertical: 1}
)

var alignmentNames = map[string]Alignment{
	"top-left":      AlignTopLeft,
	"top-center":    AlignTopCenter,
	"top-right":     AlignTopRight,
	"center-left":   AlignCenterLeft,
	"center":        AlignCenter,
	"center-right":  AlignCenterRight,
	"bottom-left":   AlignBottomLeft,
	"bottom-center": AlignBottomCenter,
	"bottom-right":  AlignBottomRight,
}

// ParseAlignment resolves names such as "center" or "bottom-right".
func ParseAlignment(name string) (Alignment, bool) {
	a, ok := alignmentNames[name]
	return a, ok
}

// AlignPosition returns the offset of a child of childSize placed inside
// parentSize according to the alignment.
func AlignPosition(parentSize, childSize Size, align Alignment) Offset {
	return Offset{
		X: (parentSize.Width - childSize.Width) / 2 * (1 + align.Horizontal),
		Y: (parentSize.Height - childSize.Height) / 2 * (1 + align.Vertical),
	}
}
