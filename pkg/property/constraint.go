package property

import (
	"fmt"

	"github.com/go-drift/ace/pkg/graphics"
)

// ScaleProperty carries the density factors used to resolve lengths.
type ScaleProperty struct {
	DipScale   float64
	FontScale  float64
	LogicScale float64
}

// DefaultScale returns a scale of 1 for every factor.
func DefaultScale() ScaleProperty {
	return ScaleProperty{DipScale: 1, FontScale: 1, LogicScale: 1}
}

// LayoutConstraint is the sizing contract handed from parent to child for one
// measure pass.
type LayoutConstraint struct {
	Scale            ScaleProperty
	MinSize          graphics.Size
	MaxSize          graphics.Size
	PercentReference graphics.Size
	ParentIdealSize  graphics.OptionalSize
	SelfIdealSize    graphics.OptionalSize
}

// NewLayoutConstraint returns an unbounded constraint with unit scale.
func NewLayoutConstraint() LayoutConstraint {
	return LayoutConstraint{
		Scale:   DefaultScale(),
		MaxSize: graphics.Size{Width: graphics.Infinity, Height: graphics.Infinity},
	}
}

// Reset restores the unbounded constraint.
func (c *LayoutConstraint) Reset() {
	*c = NewLayoutConstraint()
}

// Equal compares the sizing fields. Scale and percent reference do not take
// part, matching what a measure pass depends on.
func (c LayoutConstraint) Equal(other LayoutConstraint) bool {
	return c.MinSize == other.MinSize &&
		c.MaxSize == other.MaxSize &&
		c.ParentIdealSize == other.ParentIdealSize &&
		c.SelfIdealSize == other.SelfIdealSize
}

// MinusPadding shrinks every size in the constraint by the given insets.
func (c *LayoutConstraint) MinusPadding(left, right, top, bottom float64) {
	c.MinSize = c.MinSize.MinusPadding(left, right, top, bottom)
	c.MaxSize = c.MaxSize.MinusPadding(left, right, top, bottom)
	c.PercentReference = c.PercentReference.MinusPadding(left, right, top, bottom)
	c.ParentIdealSize.MinusPadding(left, right, top, bottom)
	c.SelfIdealSize.MinusPadding(left, right, top, bottom)
}

// UpdateSelfIdealSizeWithCheck merges size into the self ideal size.
func (c *LayoutConstraint) UpdateSelfIdealSizeWithCheck(size graphics.OptionalSize) bool {
	return c.SelfIdealSize.UpdateSizeWithCheck(size)
}

// UpdateParentIdealSizeWithCheck merges size into the parent ideal size.
func (c *LayoutConstraint) UpdateParentIdealSizeWithCheck(size graphics.OptionalSize) bool {
	return c.ParentIdealSize.UpdateSizeWithCheck(size)
}

// UpdateMaxSizeWithCheck lowers the max size where size is smaller.
func (c *LayoutConstraint) UpdateMaxSizeWithCheck(size graphics.Size) bool {
	changed := false
	if size.Width >= 0 && size.Width < c.MaxSize.Width {
		c.MaxSize.Width = size.Width
		changed = true
	}
	if size.Height >= 0 && size.Height < c.MaxSize.Height {
		c.MaxSize.Height = size.Height
		changed = true
	}
	return changed
}

// UpdateMinSizeWithCheck raises the min size where size is larger.
func (c *LayoutConstraint) UpdateMinSizeWithCheck(size graphics.Size) bool {
	changed := false
	if size.Width > c.MinSize.Width {
		c.MinSize.Width = size.Width
		changed = true
	}
	if size.Height > c.MinSize.Height {
		c.MinSize.Height = size.Height
		changed = true
	}
	return changed
}

// ConstrainSelfIdealSize clamps the self ideal size into [min, max].
func (c *LayoutConstraint) ConstrainSelfIdealSize() {
	if c.SelfIdealSize.HasWidth {
		c.SelfIdealSize.Width = clamp(c.SelfIdealSize.Width, c.MinSize.Width, c.MaxSize.Width)
	}
	if c.SelfIdealSize.HasHeight {
		c.SelfIdealSize.Height = clamp(c.SelfIdealSize.Height, c.MinSize.Height, c.MaxSize.Height)
	}
}

func (c LayoutConstraint) String() string {
	return fmt.Sprintf("minSize: %s maxSize: %s parentIdealSize: %s selfIdealSize: %s",
		c.MinSize, c.MaxSize, c.ParentIdealSize, c.SelfIdealSize)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
