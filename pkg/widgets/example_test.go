package widgets_test

import (
	"fmt"
	"runtime"
	"testing"

	"github.com/go-drift/ace/pkg/graphics"
	"github.com/go-drift/ace/pkg/pipeline"
	"github.com/go-drift/ace/pkg/task"
	acetest "github.com/go-drift/ace/pkg/testing"
	"github.com/go-drift/ace/pkg/widgets"
)

func ExampleMount() {
	ctx := pipeline.NewContext(pipeline.Options{
		Executor: task.NewManualExecutor(),
		RootSize: graphics.Size{Width: 200, Height: 100},
	})
	stage := widgets.NewStage(ctx)

	spec, err := widgets.ParseSpec([]byte(`
tag: Row
id: toolbar
space: 4
children:
  - {tag: Box, id: icon, width: "16", height: "16"}
  - {tag: Text, id: title, text: Settings}
`))
	if err != nil {
		fmt.Println(err)
		return
	}
	if _, err := widgets.Mount(stage, spec, nil); err != nil {
		fmt.Println(err)
		return
	}
	ctx.FlushVsync()

	for _, id := range []string{"toolbar", "icon", "title"} {
		fmt.Println(id, stage.FindByID(id).GeometryNode().Frame())
	}
	runtime.KeepAlive(ctx)
	// Output:
	// toolbar Rect (0.00, 0.00) - [76.00 x 16.00]
	// icon Rect (0.00, 0.00) - [16.00 x 16.00]
	// title Rect (20.00, 0.00) - [56.00 x 13.00]
}

func TestButtonInRowWithTester(t *testing.T) {
	tester := acetest.NewTester(t, acetest.WithSize(graphics.Size{Width: 300, Height: 200}))
	tester.MustMount(`
tag: Row
children:
  - {tag: Button, id: cancel, text: Cancel, width: "80", height: "30"}
  - {tag: Button, id: ok, text: OK, width: "80", height: "30", weight: 1}
`)
	if err := tester.PumpAndSettle(); err != nil {
		t.Fatal(err)
	}
	if got := tester.Find(acetest.ByID("ok")).Frame(); got.Left != 80 {
		t.Errorf("ok = %v", got)
	}
	label := tester.Find(acetest.Descendant(acetest.ByID("cancel"), acetest.ByText("Cancel"))).First()
	// 6 glyphs of 7px, centered in 80x30.
	if got := label.GeometryNode().FrameOffset(); got != (graphics.Offset{X: 19, Y: 8.5}) {
		t.Errorf("label offset = %v", got)
	}
	for _, n := range tester.Find(acetest.ByTag(widgets.TagButton)).All() {
		if r, ok := n.PaintProperty().PaintBase().BorderRadius(); !ok || r != 15 {
			t.Errorf("%s radius = %v, %v", n.ID(), r, ok)
		}
	}
}
