package image

import (
	goimage "image"

	"golang.org/x/image/draw"

	"github.com/go-drift/ace/pkg/graphics"
)

// CanvasImage is a decoded image ready to be drawn. It is immutable once
// made and may be shared between queues.
type CanvasImage struct {
	img goimage.Image
}

// NewCanvasImage wraps img.
func NewCanvasImage(img goimage.Image) *CanvasImage {
	return &CanvasImage{img: img}
}

// Image returns the pixels.
func (c *CanvasImage) Image() goimage.Image {
	if c == nil {
		return nil
	}
	return c.img
}

// Size returns the pixel size.
func (c *CanvasImage) Size() graphics.Size {
	if c == nil || c.img == nil {
		return graphics.Size{}
	}
	b := c.img.Bounds()
	return graphics.Size{Width: float64(b.Dx()), Height: float64(b.Dy())}
}

// resize scales src down to target. Unless force is set, a dimension that
// already fits is kept, and src is returned as is when nothing needs to
// shrink.
func resize(src goimage.Image, target graphics.Size, force bool) goimage.Image {
	if !target.IsPositive() {
		return src
	}
	b := src.Bounds()
	w := int(target.Width + 0.5)
	h := int(target.Height + 0.5)
	if !force {
		shrink := false
		if b.Dx() > w {
			shrink = true
		} else {
			w = b.Dx()
		}
		if b.Dy() > h {
			shrink = true
		} else {
			h = b.Dy()
		}
		if !shrink {
			return src
		}
	}
	if w <= 0 || h <= 0 {
		return src
	}
	dst := goimage.NewRGBA(goimage.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}
