package widgets

import (
	"github.com/go-drift/ace/pkg/core"
	"github.com/go-drift/ace/pkg/graphics"
	"github.com/go-drift/ace/pkg/image"
	"github.com/go-drift/ace/pkg/layout"
	"github.com/go-drift/ace/pkg/property"
	"github.com/go-drift/ace/pkg/render"
)

// ImageLayoutProperty adds the image source and fitting options.
type ImageLayoutProperty struct {
	*property.LayoutProperty
	src        string
	fit        *image.Fit
	autoResize *bool
}

// NewImageLayoutProperty returns an empty image property.
func NewImageLayoutProperty() *ImageLayoutProperty {
	return &ImageLayoutProperty{LayoutProperty: property.NewLayoutProperty()}
}

// Clone implements property.Layout.
func (p *ImageLayoutProperty) Clone() property.Layout {
	c := *p
	c.LayoutProperty = p.CloneBase()
	if p.fit != nil {
		fit := *p.fit
		c.fit = &fit
	}
	if p.autoResize != nil {
		resize := *p.autoResize
		c.autoResize = &resize
	}
	return &c
}

func (p *ImageLayoutProperty) Src() string { return p.src }

// UpdateSrc sets the source. The new image may have another intrinsic
// size, so UpdateMeasure is raised.
func (p *ImageLayoutProperty) UpdateSrc(src string) {
	if p.src == src {
		return
	}
	p.src = src
	p.UpdatePropertyChangeFlag(property.UpdateMeasure)
}

// Fit returns the fit, image.FitCover when unset.
func (p *ImageLayoutProperty) Fit() image.Fit {
	if p.fit == nil {
		return image.FitCover
	}
	return *p.fit
}

// UpdateFit sets the fit. Fitting only moves pixels inside the content box.
func (p *ImageLayoutProperty) UpdateFit(fit image.Fit) {
	if p.fit != nil && *p.fit == fit {
		return
	}
	p.fit = &fit
	p.UpdatePropertyChangeFlag(property.UpdateLayout)
}

// AutoResize reports whether decoded images are shrunk to the drawn size.
// It defaults to true.
func (p *ImageLayoutProperty) AutoResize() bool {
	return p.autoResize == nil || *p.autoResize
}

func (p *ImageLayoutProperty) UpdateAutoResize(resize bool) {
	if p.autoResize != nil && *p.autoResize == resize {
		return
	}
	p.autoResize = &resize
	p.UpdatePropertyChangeFlag(property.UpdateLayout)
}

// ImagePattern shows a decoded image. It owns the node's LoadingContext:
// modify-done starts a load, ready data re-measures the node, layout asks
// for a canvas image at the content size and success repaints.
type ImagePattern struct {
	core.PatternBase
	provider *image.Provider
	loading  *image.LoadingContext
}

// NewImage creates an unmounted image node for src. Nothing loads until
// MarkModifyDone.
func NewImage(id, src string, provider *image.Provider) *core.FrameNode {
	n := core.NewFrameNode(TagImage, id, &ImagePattern{provider: provider})
	if prop, ok := core.GetLayoutProperty[*ImageLayoutProperty](n); ok {
		prop.UpdateSrc(src)
	}
	return n
}

func (p *ImagePattern) CreateLayoutProperty() property.Layout { return NewImageLayoutProperty() }

func (p *ImagePattern) CreateLayoutAlgorithm() layout.Algorithm {
	return &imageAlgorithm{pattern: p}
}

func (p *ImagePattern) IsAtomicNode() bool { return true }

// LoadingContext returns the loading context, nil before the first
// MarkModifyDone.
func (p *ImagePattern) LoadingContext() *image.LoadingContext { return p.loading }

// SetSrc switches the source and starts loading it.
func (p *ImagePattern) SetSrc(src string) {
	host := p.Host()
	if host == nil {
		return
	}
	if prop, ok := core.GetLayoutProperty[*ImageLayoutProperty](host); ok {
		prop.UpdateSrc(src)
		host.MarkDirtyNode(property.UpdateNormal)
		p.OnModifyDone()
	}
}

func (p *ImagePattern) OnModifyDone() {
	host := p.Host()
	if host == nil {
		return
	}
	prop, ok := core.GetLayoutProperty[*ImageLayoutProperty](host)
	if !ok {
		return
	}
	src := image.NewSourceInfo(prop.Src())
	if p.loading == nil {
		if p.provider == nil {
			hostLogger(host).Warn("image has no provider", "id", host.ID())
			return
		}
		p.loading = image.NewLoadingContext(src, p.provider, p.notifier())
		if ctx := host.Context(); ctx != nil {
			p.loading.SetViewScale(ctx.Scale().DipScale)
		}
		p.loading.LoadImageData()
		return
	}
	if p.loading.SourceInfo() == src {
		return
	}
	p.loading.SetSourceInfo(src)
	p.loading.LoadImageData()
}

func (p *ImagePattern) notifier() image.Notifier {
	return image.Notifier{
		DataReady: func(image.SourceInfo) {
			p.markHost(property.UpdateMeasure)
		},
		LoadSuccess: func(image.SourceInfo) {
			p.markHost(property.UpdateRender)
		},
		LoadFail: func(src image.SourceInfo) {
			if host := p.Host(); host != nil {
				hostLogger(host).Warn("image failed", "id", host.ID(), "src", src.String(), "err", p.loading.Err())
			}
			p.markHost(property.UpdateRender)
		},
	}
}

func (p *ImagePattern) markHost(flag property.ChangeFlag) {
	markHost(&p.PatternBase, flag)
}

// requestCanvasImage asks for a canvas image once the data is ready. Later
// size changes reuse the decoded image and are fitted at paint time.
func (p *ImagePattern) requestCanvasImage(dst graphics.Size, resize bool, fit image.Fit) {
	if p.loading == nil || !dst.IsPositive() || p.loading.State() != image.StateDataReady {
		return
	}
	p.loading.MakeCanvasImage(dst, resize, fit)
}

// OnDirtyLayoutWrapperSwap repaints when the measured content changed and a
// canvas image is already available.
func (p *ImagePattern) OnDirtyLayoutWrapperSwap(w *layout.Wrapper, skipMeasure, _ bool) bool {
	if skipMeasure || w.SkipMeasureContent() {
		return false
	}
	return p.loading != nil && p.loading.CanvasImage() != nil
}

func (p *ImagePattern) CreateNodePaintMethod() render.NodePaintMethod {
	if p.loading == nil {
		return nil
	}
	canvasImage := p.loading.CanvasImage()
	if canvasImage == nil {
		return nil
	}
	fit := p.loading.Fit()
	if host := p.Host(); host != nil {
		if prop, ok := core.GetLayoutProperty[*ImageLayoutProperty](host); ok {
			fit = prop.Fit()
		}
	}
	return render.PaintFunc(func(canvas render.Canvas, w *render.PaintWrapper) {
		rect := w.ContentRect()
		src, dst := image.ApplyImageFit(fit, canvasImage.Size(), rect.Size())
		canvas.Save()
		canvas.ClipRect(rect)
		canvas.DrawImageRect(canvasImage.Image(), src, dst.Translate(rect.Left, rect.Top))
		canvas.Restore()
	})
}

// imageAlgorithm sizes the node from its declared size or from the
// intrinsic image size, completing a single declared side by aspect ratio.
type imageAlgorithm struct {
	layout.BoxAlgorithm
	pattern *ImagePattern
}

func (a *imageAlgorithm) MeasureContent(c property.LayoutConstraint, w *layout.Wrapper) (graphics.Size, bool) {
	if c.SelfIdealSize.IsValid() {
		return c.SelfIdealSize.ConvertToSize(), true
	}
	if a.pattern.loading == nil {
		return graphics.Size{}, false
	}
	raw := a.pattern.loading.ImageSize()
	if !raw.IsPositive() {
		return graphics.Size{}, false
	}
	size := raw
	switch {
	case c.SelfIdealSize.HasWidth:
		size = graphics.Size{Width: c.SelfIdealSize.Width, Height: c.SelfIdealSize.Width * raw.Height / raw.Width}
	case c.SelfIdealSize.HasHeight:
		size = graphics.Size{Width: c.SelfIdealSize.Height * raw.Width / raw.Height, Height: c.SelfIdealSize.Height}
	}
	return size.Constrain(c.MinSize, c.MaxSize), true
}

func (a *imageAlgorithm) Layout(w *layout.Wrapper) {
	a.BoxAlgorithm.Layout(w)
	prop, ok := w.LayoutProperty().(*ImageLayoutProperty)
	if !ok {
		return
	}
	a.pattern.requestCanvasImage(w.GeometryNode().ContentSize(), prop.AutoResize(), prop.Fit())
}
