package image

import (
	"weak"

	"github.com/charmbracelet/log"

	"github.com/go-drift/ace/pkg/graphics"
	"github.com/go-drift/ace/pkg/task"
)

// Notifier tells the owner of a LoadingContext about progress. Every
// callback receives the source it concerns.
type Notifier struct {
	DataReady   func(src SourceInfo)
	LoadSuccess func(src SourceInfo)
	LoadFail    func(src SourceInfo)
}

// LoadingContext loads one image source at a time for a widget. It must be
// used from the UI queue. Results for a source the context no longer holds
// are discarded.
type LoadingContext struct {
	src      SourceInfo
	notifier Notifier
	provider *Provider
	state    *StateManager
	logger   *log.Logger

	obj        *Object
	err        error
	dstSize    graphics.Size
	fit        Fit
	needResize bool
	viewScale  float64
	srcRect    graphics.Rect
	dstRect    graphics.Rect

	// updateParams holds the arguments of the latest MakeCanvasImage call
	// until the state machine actually starts making the canvas image.
	updateParams func()
	loadTask     *task.CancelableTask
	makeTask     *task.CancelableTask
}

// NewLoadingContext returns a context for src in StateUnloaded.
func NewLoadingContext(src SourceInfo, provider *Provider, notifier Notifier) *LoadingContext {
	c := &LoadingContext{
		src:        src,
		notifier:   notifier,
		provider:   provider,
		state:      NewStateManager(),
		logger:     provider.logger,
		needResize: true,
		viewScale:  1,
	}
	c.registerStateCallbacks()
	return c
}

func (c *LoadingContext) registerStateCallbacks() {
	c.state.SetOnUnloaded(func() {
		c.logger.Debug("image unloaded", "src", c.src.String())
	})
	c.state.SetOnDataLoading(func() {
		c.loadTask = c.provider.CreateObject(c.src, c.callbacks())
	})
	c.state.SetOnDataReady(func() {
		if c.notifier.DataReady != nil {
			c.notifier.DataReady(c.src)
		}
	})
	c.state.SetOnCanvasImageMaking(c.onCanvasImageMaking)
	c.state.SetOnLoadSuccess(func() {
		if c.notifier.LoadSuccess != nil {
			c.notifier.LoadSuccess(c.src)
		}
		if c.obj != nil {
			c.obj.ClearData()
		}
	})
	c.state.SetOnLoadFail(func() {
		if c.notifier.LoadFail != nil {
			c.notifier.LoadFail(c.src)
		}
	})
}

func (c *LoadingContext) onCanvasImageMaking() {
	if c.obj == nil {
		c.logger.Error("no image object while making canvas image", "src", c.src.String())
		return
	}
	if c.updateParams != nil {
		c.updateParams()
		c.updateParams = nil
	}
	raw := c.obj.ImageSize()
	c.srcRect, c.dstRect = ApplyImageFit(c.fit, raw, c.dstSize)
	target := raw
	if c.needResize {
		target = CalculateResizeTarget(c.srcRect.Size(), c.dstRect.Size(), raw, c.viewScale)
	}
	// Source rectangles are in the pixels of the resized image.
	c.srcRect, c.dstRect = ApplyImageFit(c.fit, target, c.dstSize)
	c.makeTask = c.provider.MakeCanvasImage(c.obj, target, c.callbacks())
}

// callbacks hold the context weakly: a discarded context does not keep
// its in-flight results alive.
func (c *LoadingContext) callbacks() Callbacks {
	self := weak.Make(c)
	return Callbacks{
		DataReady: func(src SourceInfo, obj *Object) {
			if ctx := self.Value(); ctx != nil {
				ctx.OnDataReady(src, obj)
			}
		},
		LoadSuccess: func(src SourceInfo) {
			if ctx := self.Value(); ctx != nil {
				ctx.OnLoadSuccess(src)
			}
		},
		LoadFail: func(src SourceInfo, err error) {
			if ctx := self.Value(); ctx != nil {
				ctx.OnLoadFail(src, err)
			}
		},
	}
}

func (c *LoadingContext) stale(src SourceInfo, what string) bool {
	if src == c.src {
		return false
	}
	c.logger.Debug("stale image callback", "callback", what, "src", src.String(), "current", c.src.String())
	return true
}

// OnDataReady records obj and advances to StateDataReady. A result that
// arrives outside StateDataLoading leaves the context untouched.
func (c *LoadingContext) OnDataReady(src SourceInfo, obj *Object) {
	if c.stale(src, "data ready") {
		return
	}
	if c.state.State() != StateDataLoading {
		c.logger.Debug("late image data ignored", "src", src.String(), "state", c.state.State())
		return
	}
	c.obj = obj
	c.state.HandleCommand(CommandLoadDataSuccess)
}

// OnLoadSuccess advances to StateLoadSuccess.
func (c *LoadingContext) OnLoadSuccess(src SourceInfo) {
	if c.stale(src, "load success") {
		return
	}
	c.state.HandleCommand(CommandMakeCanvasImageSuccess)
}

// OnLoadFail moves to StateLoadFail from whichever phase failed.
func (c *LoadingContext) OnLoadFail(src SourceInfo, err error) {
	if c.stale(src, "load fail") {
		return
	}
	switch c.state.State() {
	case StateDataLoading:
		c.err = err
		c.state.HandleCommand(CommandLoadDataFail)
	case StateCanvasImageMaking:
		c.err = err
		c.state.HandleCommand(CommandMakeCanvasImageFail)
	default:
		c.logger.Debug("late image failure ignored", "src", src.String(), "state", c.state.State())
	}
}

// LoadImageData starts loading the current source.
func (c *LoadingContext) LoadImageData() {
	c.state.HandleCommand(CommandLoadData)
}

// MakeCanvasImage asks for a canvas image drawn into dstSize. The
// arguments only take effect if the request is accepted, that is once the
// data is ready.
func (c *LoadingContext) MakeCanvasImage(dstSize graphics.Size, needResize bool, fit Fit) {
	c.updateParams = func() {
		c.dstSize = dstSize
		c.needResize = needResize
		c.fit = fit
	}
	c.state.HandleCommand(CommandMakeCanvasImage)
}

// SetSourceInfo switches to src and resets the state machine. Pending work
// for the old source is canceled where it has not started; results that
// still arrive are discarded.
func (c *LoadingContext) SetSourceInfo(src SourceInfo) {
	if src == c.src {
		return
	}
	for _, t := range []*task.CancelableTask{c.loadTask, c.makeTask} {
		if t != nil {
			t.Cancel()
		}
	}
	c.loadTask, c.makeTask = nil, nil
	c.src = src
	c.obj = nil
	c.err = nil
	c.updateParams = nil
	c.state.HandleCommand(CommandResetState)
}

// SetViewScale sets the device pixel ratio used for resize targets.
func (c *LoadingContext) SetViewScale(scale float64) {
	if scale > 0 {
		c.viewScale = scale
	}
}

func (c *LoadingContext) State() State           { return c.state.State() }
func (c *LoadingContext) SourceInfo() SourceInfo { return c.src }
func (c *LoadingContext) DstRect() graphics.Rect { return c.dstRect }
func (c *LoadingContext) SrcRect() graphics.Rect { return c.srcRect }
func (c *LoadingContext) DstSize() graphics.Size { return c.dstSize }
func (c *LoadingContext) Fit() Fit               { return c.fit }
func (c *LoadingContext) NeedResize() bool       { return c.needResize }

// Err returns the error of the last failed load.
func (c *LoadingContext) Err() error { return c.err }

// CanvasImage returns the drawable image once loading succeeded.
func (c *LoadingContext) CanvasImage() *CanvasImage {
	if c.obj == nil {
		return nil
	}
	return c.obj.CanvasImage()
}

// ImageSize returns the intrinsic size, or -1 by -1 before the data is
// ready.
func (c *LoadingContext) ImageSize() graphics.Size {
	if c.obj == nil {
		return graphics.Size{Width: -1, Height: -1}
	}
	return c.obj.ImageSize()
}
