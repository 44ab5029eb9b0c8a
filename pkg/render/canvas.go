// Package render records and replays node paint output. Each frame node owns
// a RenderContext; the pipeline rebuilds the context tree after structural
// changes and replays it onto a Canvas.
package render

import (
	"image"

	"github.com/go-drift/ace/pkg/graphics"
)

// Paint describes how a shape or text run is filled.
type Paint struct {
	Color graphics.Color
	// FontSize applies to DrawText only.
	FontSize float64
}

// Canvas is the drawing surface nodes paint into. Coordinates are in the
// node's local space after any Translate calls.
type Canvas interface {
	// Save pushes the current transform and clip.
	Save()
	// SaveLayerAlpha pushes state and multiplies later draws by alpha.
	SaveLayerAlpha(bounds graphics.Rect, alpha float64)
	// Restore pops the last saved state.
	Restore()
	Translate(dx, dy float64)
	ClipRect(rect graphics.Rect)

	DrawRect(rect graphics.Rect, paint Paint)
	// DrawRRect fills rect with corners rounded by radius.
	DrawRRect(rect graphics.Rect, radius float64, paint Paint)
	// DrawText draws text with its top-left corner at position.
	DrawText(text string, position graphics.Offset, paint Paint)
	// DrawImageRect draws the src region of img scaled into dst.
	DrawImageRect(img image.Image, src, dst graphics.Rect)

	// Size returns the canvas size in pixels.
	Size() graphics.Size
}
