package image

import (
	"sync"

	"github.com/go-drift/ace/pkg/graphics"
)

// Object is a sniffed image source: its intrinsic size and frame count, the
// encoded bytes until they are no longer needed, and the canvas image once
// one is made.
type Object struct {
	src    SourceInfo
	size   graphics.Size
	frames int

	mu     sync.Mutex
	data   []byte
	canvas *CanvasImage
}

// NewObject returns an object for src holding data.
func NewObject(src SourceInfo, info EncodedInfo, data []byte) *Object {
	return &Object{src: src, size: info.Size, frames: info.FrameCount, data: data}
}

func (o *Object) SourceInfo() SourceInfo { return o.src }

// ImageSize returns the intrinsic pixel size.
func (o *Object) ImageSize() graphics.Size { return o.size }

func (o *Object) FrameCount() int { return o.frames }

func (o *Object) IsSingleFrame() bool { return o.frames == 1 }

// Data returns the encoded bytes, or nil after ClearData.
func (o *Object) Data() []byte {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.data
}

func (o *Object) SetData(data []byte) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.data = data
}

// ClearData releases the encoded bytes. A later canvas image request
// reloads them.
func (o *Object) ClearData() {
	o.SetData(nil)
}

func (o *Object) CanvasImage() *CanvasImage {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.canvas
}

func (o *Object) setCanvasImage(c *CanvasImage) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.canvas = c
}
