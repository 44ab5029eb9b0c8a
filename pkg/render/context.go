package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-drift/ace/pkg/graphics"
	"github.com/go-drift/ace/pkg/layout"
)

// Context is the per-node handle into the render tree. The frame node syncs
// its geometry into it after a layout swap, records its paint into it on a
// render task, and rebuilds its child list after a structural change.
type Context interface {
	InitContext(isRoot bool)
	SyncGeometryProperties(g *layout.GeometryNode)
	RebuildFrame(children []Context)
	// StartRecording opens a canvas for the node's own content.
	StartRecording() Canvas
	// StopRecording commits what was drawn since StartRecording.
	StopRecording()
	SetRequestFrame(fn func())
	RequestNextFrame()
}

// SceneContext is an in-memory Context. A tree of them replays onto any
// Canvas with Render.
type SceneContext struct {
	isRoot       bool
	frame        graphics.Rect
	children     []*SceneContext
	content      *DisplayList
	recorder     PictureRecorder
	requestFrame func()
}

// NewSceneContext returns an empty scene node.
func NewSceneContext() *SceneContext {
	return &SceneContext{}
}

// InitContext implements Context.
func (s *SceneContext) InitContext(isRoot bool) {
	s.isRoot = isRoot
}

// IsRoot reports whether the context was initialized as the tree root.
func (s *SceneContext) IsRoot() bool {
	return s.isRoot
}

// SyncGeometryProperties implements Context.
func (s *SceneContext) SyncGeometryProperties(g *layout.GeometryNode) {
	if g == nil {
		return
	}
	s.frame = g.Frame()
}

// Frame returns the last synced frame.
func (s *SceneContext) Frame() graphics.Rect {
	return s.frame
}

// RebuildFrame implements Context. Contexts of another implementation are
// skipped.
func (s *SceneContext) RebuildFrame(children []Context) {
	s.children = s.children[:0]
	for _, child := range children {
		if sc, ok := child.(*SceneContext); ok && sc != nil {
			s.children = append(s.children, sc)
		}
	}
}

// Children returns the current render children.
func (s *SceneContext) Children() []*SceneContext {
	return s.children
}

// StartRecording implements Context.
func (s *SceneContext) StartRecording() Canvas {
	return s.recorder.BeginRecording(s.frame.Size())
}

// StopRecording implements Context.
func (s *SceneContext) StopRecording() {
	if s.recorder.IsRecording() {
		s.content = s.recorder.EndRecording()
	}
}

// Content returns the last committed display list, or nil.
func (s *SceneContext) Content() *DisplayList {
	return s.content
}

// SetRequestFrame implements Context.
func (s *SceneContext) SetRequestFrame(fn func()) {
	s.requestFrame = fn
}

// RequestNextFrame implements Context.
func (s *SceneContext) RequestNextFrame() {
	if s.requestFrame != nil {
		s.requestFrame()
	}
}

// Render replays the subtree onto canvas, each node translated to its frame.
func (s *SceneContext) Render(canvas Canvas) {
	canvas.Save()
	canvas.Translate(s.frame.Left, s.frame.Top)
	s.content.Paint(canvas)
	for _, child := range s.children {
		child.Render(canvas)
	}
	canvas.Restore()
}

// Dump writes the subtree, one node per line.
func (s *SceneContext) Dump(w io.Writer) error {
	return s.dump(w, 0)
}

func (s *SceneContext) dump(w io.Writer, depth int) error {
	if _, err := fmt.Fprintf(w, "%s%s ops=%d\n", strings.Repeat("  ", depth), s.frame, s.content.Len()); err != nil {
		return err
	}
	for _, child := range s.children {
		if err := child.dump(w, depth+1); err != nil {
			return err
		}
	}
	return nil
}
