package image

import (
	"fmt"
	"strings"

	"github.com/go-drift/ace/pkg/graphics"
)

// Fit controls how an image is scaled into its box.
type Fit int

const (
	// FitContain scales the image to fit within its box. This is the zero
	// value.
	FitContain Fit = iota
	// FitFill stretches the image to fill its box.
	FitFill
	// FitCover scales the image to cover its box, cropping the overflow.
	FitCover
	// FitNone draws the image at its intrinsic size, cropped to the box.
	FitNone
	// FitScaleDown is FitNone for images that fit and FitContain otherwise.
	FitScaleDown
	// FitWidth matches the box width.
	FitWidth
	// FitHeight matches the box height.
	FitHeight
)

var fitNames = map[Fit]string{
	FitContain:   "contain",
	FitFill:      "fill",
	FitCover:     "cover",
	FitNone:      "none",
	FitScaleDown: "scale_down",
	FitWidth:     "fit_width",
	FitHeight:    "fit_height",
}

func (f Fit) String() string {
	if name, ok := fitNames[f]; ok {
		return name
	}
	return fmt.Sprintf("Fit(%d)", int(f))
}

// ParseFit maps a name such as "cover" or "scale-down" to a Fit.
func ParseFit(name string) (Fit, error) {
	name = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
	if name == "" {
		return FitContain, nil
	}
	for f, n := range fitNames {
		if n == name {
			return f, nil
		}
	}
	return FitContain, fmt.Errorf("unknown image fit %q", name)
}

func ratio(s graphics.Size) float64 {
	if s.Height == 0 {
		return 0
	}
	return s.Width / s.Height
}

func scaleSize(s graphics.Size, k float64) graphics.Size {
	return graphics.Size{Width: s.Width * k, Height: s.Height * k}
}

func centered(box, size graphics.Size) graphics.Rect {
	return graphics.RectFromOffsetAndSize(graphics.AlignPosition(box, size, graphics.AlignCenter), size)
}

// ApplyImageFit returns the part of an image of size raw to draw and where
// to draw it inside a box of size dst. Both rectangles are centered.
func ApplyImageFit(fit Fit, raw, dst graphics.Size) (srcRect, dstRect graphics.Rect) {
	srcRect = graphics.RectFromOffsetAndSize(graphics.Offset{}, raw)
	dstRect = graphics.RectFromOffsetAndSize(graphics.Offset{}, dst)
	if !raw.IsPositive() || !dst.IsPositive() {
		return srcRect, dstRect
	}
	wider := ratio(raw) > ratio(dst)
	switch fit {
	case FitFill:
	case FitNone:
		return applyNone(raw, dst)
	case FitCover:
		if wider {
			srcRect = centered(raw, scaleSize(dst, raw.Height/dst.Height))
		} else {
			srcRect = centered(raw, scaleSize(dst, raw.Width/dst.Width))
		}
	case FitWidth:
		if wider {
			dstRect = centered(dst, scaleSize(raw, dst.Width/raw.Width))
		} else {
			srcRect = centered(raw, scaleSize(dst, raw.Width/dst.Width))
		}
	case FitHeight:
		if wider {
			srcRect = centered(raw, scaleSize(dst, raw.Height/dst.Height))
		} else {
			dstRect = centered(dst, scaleSize(raw, dst.Height/raw.Height))
		}
	case FitScaleDown:
		if raw.Width <= dst.Width && raw.Height <= dst.Height {
			return applyNone(raw, dst)
		}
		dstRect = applyContain(raw, dst, wider)
	default:
		dstRect = applyContain(raw, dst, wider)
	}
	return srcRect, dstRect
}

func applyContain(raw, dst graphics.Size, wider bool) graphics.Rect {
	if wider {
		return centered(dst, scaleSize(raw, dst.Width/raw.Width))
	}
	return centered(dst, scaleSize(raw, dst.Height/raw.Height))
}

func applyNone(raw, dst graphics.Size) (graphics.Rect, graphics.Rect) {
	size := graphics.Size{Width: min(raw.Width, dst.Width), Height: min(raw.Height, dst.Height)}
	return centered(raw, size), centered(dst, size)
}

// CalculateResizeTarget returns the pixel size worth decoding raw at when
// its src part is drawn into dst at viewScale. Images are only ever scaled
// down, and only when both axes shrink.
func CalculateResizeTarget(src, dst, raw graphics.Size, viewScale float64) graphics.Size {
	if !src.IsPositive() {
		return raw
	}
	if viewScale <= 0 {
		viewScale = 1
	}
	wScale := dst.Width / src.Width * viewScale
	hScale := dst.Height / src.Height * viewScale
	if wScale < 1 && hScale < 1 {
		return graphics.Size{Width: raw.Width * wScale, Height: raw.Height * hScale}
	}
	return raw
}
