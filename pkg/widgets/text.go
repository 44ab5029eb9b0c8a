package widgets

import (
	"math"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/go-drift/ace/pkg/core"
	"github.com/go-drift/ace/pkg/graphics"
	"github.com/go-drift/ace/pkg/layout"
	"github.com/go-drift/ace/pkg/property"
	"github.com/go-drift/ace/pkg/render"
)

// DefaultFontSize is the pixel height of the built-in face.
const DefaultFontSize = 13

// TextLayoutProperty adds the text content and font size to the base
// layout property. Both affect the measured size.
type TextLayoutProperty struct {
	*property.LayoutProperty
	content  string
	fontSize float64
}

// NewTextLayoutProperty returns an empty text property.
func NewTextLayoutProperty() *TextLayoutProperty {
	return &TextLayoutProperty{LayoutProperty: property.NewLayoutProperty()}
}

// Clone implements property.Layout.
func (p *TextLayoutProperty) Clone() property.Layout {
	c := *p
	c.LayoutProperty = p.CloneBase()
	return &c
}

func (p *TextLayoutProperty) Content() string { return p.content }

// UpdateContent sets the content and raises UpdateMeasure if it changed.
func (p *TextLayoutProperty) UpdateContent(content string) {
	if p.content == content {
		return
	}
	p.content = content
	p.UpdatePropertyChangeFlag(property.UpdateMeasure)
}

// FontSize returns the font size, or DefaultFontSize when unset.
func (p *TextLayoutProperty) FontSize() float64 {
	if p.fontSize <= 0 {
		return DefaultFontSize
	}
	return p.fontSize
}

// UpdateFontSize sets the font size and raises UpdateMeasure if it changed.
func (p *TextLayoutProperty) UpdateFontSize(size float64) {
	if p.fontSize == size {
		return
	}
	p.fontSize = size
	p.UpdatePropertyChangeFlag(property.UpdateMeasure)
}

// TextPaintProperty adds the glyph color to the base paint property.
type TextPaintProperty struct {
	*property.PaintProperty
	color graphics.Color
}

// NewTextPaintProperty returns a property that paints opaque black text.
func NewTextPaintProperty() *TextPaintProperty {
	return &TextPaintProperty{PaintProperty: property.NewPaintProperty(), color: graphics.RGB(0, 0, 0)}
}

// Clone implements property.Paint.
func (p *TextPaintProperty) Clone() property.Paint {
	c := *p
	c.PaintProperty = p.CloneBase()
	return &c
}

func (p *TextPaintProperty) TextColor() graphics.Color { return p.color }

// UpdateTextColor sets the glyph color and raises UpdateRender if it
// changed.
func (p *TextPaintProperty) UpdateTextColor(c graphics.Color) {
	if p.color == c {
		return
	}
	p.color = c
	p.UpdatePropertyChangeFlag(property.UpdateRender)
}

// TextPattern draws a block of wrapped text. Text nodes have no children.
type TextPattern struct {
	core.PatternBase
}

// NewText creates an unmounted text node showing content.
func NewText(id, content string) *core.FrameNode {
	n := core.NewFrameNode(TagText, id, &TextPattern{})
	if prop, ok := core.GetLayoutProperty[*TextLayoutProperty](n); ok {
		prop.UpdateContent(content)
	}
	return n
}

func (p *TextPattern) CreateLayoutProperty() property.Layout { return NewTextLayoutProperty() }

func (p *TextPattern) CreatePaintProperty() property.Paint { return NewTextPaintProperty() }

func (p *TextPattern) CreateLayoutAlgorithm() layout.Algorithm { return textAlgorithm{} }

func (p *TextPattern) IsAtomicNode() bool { return true }

// IsMeasureBoundary reports true once both sides of the text box are fixed
// lengths: new content can then never change the size the parent sees.
func (p *TextPattern) IsMeasureBoundary() bool {
	host := p.Host()
	if host == nil {
		return false
	}
	calc, ok := host.LayoutProperty().LayoutBase().CalcLayoutConstraint()
	return ok && fixedLength(calc.SelfIdealSize.Width) && fixedLength(calc.SelfIdealSize.Height)
}

func fixedLength(l property.CalcLength) bool {
	return l.IsValid() && l.Unit != property.UnitPercent
}

// SetContent replaces the text and marks the host for measure.
func (p *TextPattern) SetContent(content string) {
	host := p.Host()
	if host == nil {
		return
	}
	if prop, ok := core.GetLayoutProperty[*TextLayoutProperty](host); ok {
		prop.UpdateContent(content)
		host.MarkDirtyNode(property.UpdateNormal)
	}
}

// SetTextColor changes the glyph color and marks the host for render.
func (p *TextPattern) SetTextColor(c graphics.Color) {
	host := p.Host()
	if host == nil {
		return
	}
	if prop, ok := core.GetPaintProperty[*TextPaintProperty](host); ok {
		prop.UpdateTextColor(c)
		host.MarkDirtyNode(property.UpdateNormal)
	}
}

// CreateNodePaintMethod snapshots the text so later edits do not race the
// recorded frame.
func (p *TextPattern) CreateNodePaintMethod() render.NodePaintMethod {
	host := p.Host()
	if host == nil {
		return nil
	}
	prop, ok := core.GetLayoutProperty[*TextLayoutProperty](host)
	if !ok || prop.Content() == "" {
		return nil
	}
	content, size := prop.Content(), prop.FontSize()
	return render.PaintFunc(func(canvas render.Canvas, w *render.PaintWrapper) {
		color := graphics.RGB(0, 0, 0)
		if paint, ok := w.PaintProperty().(*TextPaintProperty); ok {
			color = paint.TextColor()
		}
		rect := w.ContentRect()
		m := newTextMetrics(size)
		for i, line := range m.wrap(content, rect.Width()) {
			pos := graphics.Offset{X: rect.Left, Y: rect.Top + float64(i)*m.lineHeight}
			canvas.DrawText(line, pos, render.Paint{Color: color, FontSize: size})
		}
	})
}

// textAlgorithm sizes the node to its wrapped text.
type textAlgorithm struct {
	layout.BoxAlgorithm
}

func (textAlgorithm) MeasureContent(c property.LayoutConstraint, w *layout.Wrapper) (graphics.Size, bool) {
	prop, ok := w.LayoutProperty().(*TextLayoutProperty)
	if !ok {
		return graphics.Size{}, false
	}
	m := newTextMetrics(prop.FontSize())
	lines := m.wrap(prop.Content(), c.MaxSize.Width)
	width := 0.0
	for _, line := range lines {
		width = math.Max(width, m.width(line))
	}
	size := graphics.Size{Width: width, Height: float64(len(lines)) * m.lineHeight}
	return size.Constrain(c.MinSize, c.MaxSize), true
}

// textMetrics measures runs of basicfont.Face7x13 scaled to a font size.
type textMetrics struct {
	face       font.Face
	scale      float64
	lineHeight float64
}

func newTextMetrics(fontSize float64) textMetrics {
	face := basicfont.Face7x13
	scale := fontSize / DefaultFontSize
	return textMetrics{
		face:       face,
		scale:      scale,
		lineHeight: math.Ceil(float64(face.Metrics().Height.Ceil()) * scale),
	}
}

func (m textMetrics) width(s string) float64 {
	return math.Ceil(float64(font.MeasureString(m.face, s).Ceil()) * m.scale)
}

// wrap breaks text into lines no wider than maxWidth, breaking at spaces
// and at explicit newlines. A single word wider than maxWidth gets its own
// line. Empty text has no lines.
func (m textMetrics) wrap(text string, maxWidth float64) []string {
	if text == "" {
		return nil
	}
	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		line := words[0]
		for _, word := range words[1:] {
			candidate := line + " " + word
			if m.width(candidate) > maxWidth {
				lines = append(lines, line)
				line = word
				continue
			}
			line = candidate
		}
		lines = append(lines, line)
	}
	return lines
}
