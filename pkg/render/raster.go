package render

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/go-drift/ace/pkg/graphics"
)

type rasterState struct {
	dx, dy float64
	clip   image.Rectangle
	alpha  float64
}

// RasterCanvas paints into an in-memory RGBA image. Text uses the fixed
// 7x13 bitmap face regardless of Paint.FontSize.
type RasterCanvas struct {
	dst   *image.RGBA
	state rasterState
	stack []rasterState
}

// NewRasterCanvas allocates a transparent canvas of the given size.
func NewRasterCanvas(size graphics.Size) *RasterCanvas {
	w := int(math.Ceil(math.Max(size.Width, 0)))
	h := int(math.Ceil(math.Max(size.Height, 0)))
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	return &RasterCanvas{
		dst:   dst,
		state: rasterState{clip: dst.Bounds(), alpha: 1},
	}
}

// Image returns the backing image.
func (c *RasterCanvas) Image() *image.RGBA {
	return c.dst
}

func (c *RasterCanvas) Save() {
	c.stack = append(c.stack, c.state)
}

func (c *RasterCanvas) SaveLayerAlpha(_ graphics.Rect, alpha float64) {
	c.Save()
	c.state.alpha *= math.Max(0, math.Min(1, alpha))
}

func (c *RasterCanvas) Restore() {
	if len(c.stack) == 0 {
		return
	}
	c.state = c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]
}

func (c *RasterCanvas) Translate(dx, dy float64) {
	c.state.dx += dx
	c.state.dy += dy
}

func (c *RasterCanvas) ClipRect(rect graphics.Rect) {
	c.state.clip = c.state.clip.Intersect(c.device(rect))
}

func (c *RasterCanvas) DrawRect(rect graphics.Rect, paint Paint) {
	r := c.device(rect).Intersect(c.state.clip)
	if r.Empty() {
		return
	}
	draw.Draw(c.dst, r, image.NewUniform(c.color(paint.Color)), image.Point{}, draw.Over)
}

func (c *RasterCanvas) DrawRRect(rect graphics.Rect, radius float64, paint Paint) {
	if radius <= 0 {
		c.DrawRect(rect, paint)
		return
	}
	full := c.device(rect)
	r := full.Intersect(c.state.clip)
	if r.Empty() {
		return
	}
	radius = math.Min(radius, math.Min(float64(full.Dx()), float64(full.Dy()))/2)
	mask := image.NewAlpha(full)
	for y := full.Min.Y; y < full.Max.Y; y++ {
		for x := full.Min.X; x < full.Max.X; x++ {
			if insideRounded(full, radius, float64(x)+0.5, float64(y)+0.5) {
				mask.SetAlpha(x, y, color.Alpha{A: 0xFF})
			}
		}
	}
	draw.DrawMask(c.dst, r, image.NewUniform(c.color(paint.Color)), image.Point{}, mask, r.Min, draw.Over)
}

func insideRounded(r image.Rectangle, radius, x, y float64) bool {
	left, top := float64(r.Min.X)+radius, float64(r.Min.Y)+radius
	right, bottom := float64(r.Max.X)-radius, float64(r.Max.Y)-radius
	cx := math.Max(left, math.Min(x, right))
	cy := math.Max(top, math.Min(y, bottom))
	return math.Hypot(x-cx, y-cy) <= radius
}

func (c *RasterCanvas) DrawText(text string, position graphics.Offset, paint Paint) {
	sub, ok := c.dst.SubImage(c.state.clip).(*image.RGBA)
	if !ok || sub.Rect.Empty() {
		return
	}
	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  sub,
		Src:  image.NewUniform(c.color(paint.Color)),
		Face: face,
		Dot: fixed.P(
			int(math.Round(position.X+c.state.dx)),
			int(math.Round(position.Y+c.state.dy))+face.Metrics().Ascent.Ceil(),
		),
	}
	d.DrawString(text)
}

func (c *RasterCanvas) DrawImageRect(img image.Image, src, dst graphics.Rect) {
	if img == nil {
		return
	}
	sub, ok := c.dst.SubImage(c.state.clip).(*image.RGBA)
	if !ok || sub.Rect.Empty() {
		return
	}
	b := img.Bounds()
	sr := image.Rect(
		b.Min.X+int(math.Round(src.Left)), b.Min.Y+int(math.Round(src.Top)),
		b.Min.X+int(math.Round(src.Right)), b.Min.Y+int(math.Round(src.Bottom)),
	).Intersect(b)
	dr := c.device(dst)
	if sr.Empty() || dr.Empty() {
		return
	}
	draw.CatmullRom.Scale(sub, dr, img, sr, draw.Over, nil)
}

func (c *RasterCanvas) Size() graphics.Size {
	b := c.dst.Bounds()
	return graphics.Size{Width: float64(b.Dx()), Height: float64(b.Dy())}
}

func (c *RasterCanvas) device(rect graphics.Rect) image.Rectangle {
	return image.Rect(
		int(math.Round(rect.Left+c.state.dx)),
		int(math.Round(rect.Top+c.state.dy)),
		int(math.Round(rect.Right+c.state.dx)),
		int(math.Round(rect.Bottom+c.state.dy)),
	)
}

func (c *RasterCanvas) color(col graphics.Color) color.NRGBA {
	return color.NRGBA{
		R: uint8(col >> 16),
		G: uint8(col >> 8),
		B: uint8(col),
		A: uint8(math.Round(float64(col.Alpha()) * c.state.alpha)),
	}
}
