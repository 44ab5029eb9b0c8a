package render

import (
	"image"
	"image/color"
	"slices"
	"strings"
	"testing"

	"github.com/go-drift/ace/pkg/graphics"
	"github.com/go-drift/ace/pkg/layout"
	"github.com/go-drift/ace/pkg/property"
)

func TestPictureRecorderReplaysInOrder(t *testing.T) {
	var rec PictureRecorder
	c := rec.BeginRecording(graphics.Size{Width: 10, Height: 10})
	c.Save()
	c.Translate(2, 3)
	c.DrawRect(graphics.RectFromLTWH(0, 0, 4, 4), Paint{Color: graphics.ColorBlack})
	c.Restore()
	list := rec.EndRecording()

	if list.Len() != 4 {
		t.Fatalf("expected 4 ops, got %d", list.Len())
	}
	got := list.Describe()
	if got[0] != "Save" || got[3] != "Restore" || !strings.HasPrefix(got[2], "DrawRect") {
		t.Errorf("unexpected ops: %v", got)
	}

	// Drawing after EndRecording is dropped.
	c.DrawRect(graphics.RectFromLTWH(0, 0, 1, 1), Paint{})
	if list.Len() != 4 {
		t.Errorf("display list mutated after recording ended")
	}
}

func TestEndRecordingWithoutBegin(t *testing.T) {
	var rec PictureRecorder
	if list := rec.EndRecording(); list.Len() != 0 {
		t.Errorf("expected empty list, got %d ops", list.Len())
	}
}

func TestRasterCanvasTranslateAndClip(t *testing.T) {
	c := NewRasterCanvas(graphics.Size{Width: 20, Height: 20})
	red := graphics.RGB(255, 0, 0)

	c.Save()
	c.Translate(5, 5)
	c.ClipRect(graphics.RectFromLTWH(0, 0, 5, 5))
	c.DrawRect(graphics.RectFromLTWH(0, 0, 10, 10), Paint{Color: red})
	c.Restore()

	img := c.Image()
	if got := img.RGBAAt(6, 6); got != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("inside clip: got %v", got)
	}
	if got := img.RGBAAt(12, 12); got.A != 0 {
		t.Errorf("outside clip should be untouched, got %v", got)
	}
	if got := img.RGBAAt(2, 2); got.A != 0 {
		t.Errorf("before translate origin should be untouched, got %v", got)
	}
}

func TestRasterCanvasRoundedCorners(t *testing.T) {
	c := NewRasterCanvas(graphics.Size{Width: 20, Height: 20})
	c.DrawRRect(graphics.RectFromLTWH(0, 0, 20, 20), 8, Paint{Color: graphics.ColorBlack})
	img := c.Image()
	if img.RGBAAt(0, 0).A != 0 {
		t.Error("corner pixel should be transparent")
	}
	if img.RGBAAt(10, 10).A != 255 {
		t.Error("center pixel should be opaque")
	}
}

func TestRasterCanvasDrawImageRect(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := range 4 {
		for x := range 4 {
			src.SetRGBA(x, y, color.RGBA{G: 255, A: 255})
		}
	}
	c := NewRasterCanvas(graphics.Size{Width: 16, Height: 16})
	c.DrawImageRect(src, graphics.RectFromLTWH(0, 0, 4, 4), graphics.RectFromLTWH(0, 0, 8, 8))
	if got := c.Image().RGBAAt(4, 4); got.G < 200 {
		t.Errorf("expected scaled green pixel, got %v", got)
	}
	if got := c.Image().RGBAAt(12, 12); got.A != 0 {
		t.Errorf("outside destination should be untouched, got %v", got)
	}
}

func TestSceneContextRebuildAndRender(t *testing.T) {
	root := NewSceneContext()
	root.InitContext(true)
	child := NewSceneContext()

	g := layout.NewGeometryNode()
	g.SetFrameSize(graphics.Size{Width: 4, Height: 4})
	g.SetFrameOffset(graphics.Offset{X: 3, Y: 3})
	child.SyncGeometryProperties(g)

	canvas := child.StartRecording()
	canvas.DrawRect(graphics.RectFromLTWH(0, 0, 4, 4), Paint{Color: graphics.ColorWhite})
	child.StopRecording()

	root.RebuildFrame([]Context{child})
	if len(root.Children()) != 1 {
		t.Fatalf("expected 1 child, got %d", len(root.Children()))
	}

	out := NewRasterCanvas(graphics.Size{Width: 10, Height: 10})
	root.Render(out)
	if out.Image().RGBAAt(4, 4).A != 255 {
		t.Error("child content should be drawn at its frame offset")
	}
	if out.Image().RGBAAt(1, 1).A != 0 {
		t.Error("pixels outside child frame should be untouched")
	}

	var sb strings.Builder
	if err := root.Dump(&sb); err != nil {
		t.Fatal(err)
	}
	if lines := strings.Split(strings.TrimSpace(sb.String()), "\n"); len(lines) != 2 || !strings.Contains(lines[1], "ops=1") {
		t.Errorf("unexpected dump:\n%s", sb.String())
	}
}

func TestSceneContextRequestNextFrame(t *testing.T) {
	ctx := NewSceneContext()
	ctx.RequestNextFrame()

	calls := 0
	ctx.SetRequestFrame(func() { calls++ })
	ctx.RequestNextFrame()
	if calls != 1 {
		t.Errorf("expected 1 request, got %d", calls)
	}
}

func TestPaintWrapperFlushRender(t *testing.T) {
	tests := []struct {
		name  string
		setup func(p *property.PaintProperty)
		paint bool
		want  []string
	}{
		{
			name: "nothing to draw",
			want: []string{},
		},
		{
			name:  "background",
			setup: func(p *property.PaintProperty) { p.UpdateBackgroundColor(graphics.ColorBlack) },
			want:  []string{"DrawRect"},
		},
		{
			name: "rounded background with content under opacity",
			setup: func(p *property.PaintProperty) {
				p.UpdateBackgroundColor(graphics.ColorBlack)
				p.UpdateBorderRadius(4)
				p.UpdateOpacity(0.5)
			},
			paint: true,
			want:  []string{"SaveLayerAlpha", "DrawRRect", "DrawText", "Restore"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := NewSceneContext()
			g := layout.NewGeometryNode()
			g.SetFrameSize(graphics.Size{Width: 30, Height: 10})
			ctx.SyncGeometryProperties(g)

			prop := property.NewPaintProperty()
			if tt.setup != nil {
				tt.setup(prop)
			}
			w := NewPaintWrapper(ctx, g, prop)
			if tt.paint {
				w.SetPaintMethod(PaintFunc(func(c Canvas, w *PaintWrapper) {
					c.DrawText("hi", w.ContentRect().Offset(), Paint{})
				}))
			}
			w.FlushRender()

			var got []string
			for _, line := range ctx.Content().Describe() {
				got = append(got, strings.Fields(line)[0])
			}
			if got == nil {
				got = []string{}
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("ops = %v, want %v", got, tt.want)
			}
		})
	}
}
