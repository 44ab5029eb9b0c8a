package core

import (
	"bytes"
	"runtime"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/go-drift/ace/pkg/errors"
	"github.com/go-drift/ace/pkg/graphics"
	"github.com/go-drift/ace/pkg/layout"
	"github.com/go-drift/ace/pkg/logging"
	"github.com/go-drift/ace/pkg/pipeline"
	"github.com/go-drift/ace/pkg/property"
	"github.com/go-drift/ace/pkg/render"
	"github.com/go-drift/ace/pkg/task"
)

type testEnv struct {
	ctx  *pipeline.Context
	logs *bytes.Buffer
	root *FrameNode
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()
	logs := &bytes.Buffer{}
	ctx := pipeline.NewContext(pipeline.Options{
		Executor: task.NewManualExecutor(),
		Logger:   logging.New(logs, log.DebugLevel),
		RootSize: graphics.Size{Width: 100, Height: 100},
	})
	// Nodes hold the context weakly.
	t.Cleanup(func() { runtime.KeepAlive(ctx) })
	return &testEnv{ctx: ctx, logs: logs, root: NewRootFrameNode("root", nil, ctx)}
}

type testPattern struct {
	PatternBase
	measureBoundary bool
	renderBoundary  bool
	atomic          bool
	swaps           int
	needRender      bool
	contextAttached int
	detached        bool
	paints          *int
}

func newPattern() *testPattern {
	return &testPattern{renderBoundary: true}
}

func (p *testPattern) IsMeasureBoundary() bool { return p.measureBoundary }
func (p *testPattern) IsRenderBoundary() bool  { return p.renderBoundary }
func (p *testPattern) IsAtomicNode() bool      { return p.atomic }
func (p *testPattern) OnContextAttached()      { p.contextAttached++ }

func (p *testPattern) DetachFromFrameNode() {
	p.detached = true
	p.PatternBase.DetachFromFrameNode()
}

func (p *testPattern) OnDirtyLayoutWrapperSwap(*layout.Wrapper, bool, bool) bool {
	p.swaps++
	return p.needRender
}

func (p *testPattern) CreateNodePaintMethod() render.NodePaintMethod {
	if p.paints == nil {
		return nil
	}
	return render.PaintFunc(func(render.Canvas, *render.PaintWrapper) { *p.paints++ })
}

func fixedSize(n *FrameNode, width, height float64) {
	n.LayoutProperty().LayoutBase().UpdateCalcSelfIdealSize(property.CalcSize{
		Width:  property.Px(width),
		Height: property.Px(height),
	})
	n.MarkDirtyNode(property.UpdateNormal)
}

func TestDepthFollowsRegraft(t *testing.T) {
	env := newEnv(t)
	if env.root.Depth() != 1 {
		t.Fatalf("root depth = %d", env.root.Depth())
	}
	c1 := CreateFrameNodeAndMountToParent("c1", "c1", nil, env.root, -1)
	c2 := CreateFrameNodeAndMountToParent("c2", "c2", nil, c1, -1)
	if c1.Depth() != 2 || c2.Depth() != 3 {
		t.Fatalf("depths = %d, %d", c1.Depth(), c2.Depth())
	}

	mid := CreateFrameNodeAndMountToParent("mid", "mid", nil, env.root, -1)
	c1.MountToParent(mid, -1)
	if c1.Depth() != 3 || c2.Depth() != 4 {
		t.Errorf("after nesting: depths = %d, %d", c1.Depth(), c2.Depth())
	}
	if len(env.root.Children()) != 1 || c1.Parent() != mid {
		t.Errorf("c1 should have moved under mid")
	}

	mid.RemoveChild(c1)
	c1.MountToParent(env.root, -1)
	if c1.Depth() != 2 || c2.Depth() != 3 {
		t.Errorf("after remount: depths = %d, %d", c1.Depth(), c2.Depth())
	}
	if c2.Context() != env.ctx {
		t.Error("context should propagate to the whole remounted subtree")
	}
}

func TestAddChildSlots(t *testing.T) {
	env := newEnv(t)
	a := CreateFrameNodeAndMountToParent("a", "a", nil, env.root, -1)
	c := CreateFrameNodeAndMountToParent("c", "c", nil, env.root, 99)
	b := CreateFrameNodeAndMountToParent("b", "b", nil, env.root, 1)

	got := tags(env.root.Children())
	if got != "a,b,c" {
		t.Fatalf("children = %s", got)
	}
	for i, child := range []*FrameNode{a, b, c} {
		if child.Slot() != i {
			t.Errorf("%s slot = %d, want %d", child.Tag(), child.Slot(), i)
		}
	}

	a.MoveToSlot(2)
	if got := tags(env.root.Children()); got != "b,c,a" {
		t.Errorf("after move = %s", got)
	}
	if a.Slot() != 2 || b.Slot() != 0 {
		t.Errorf("slots not reassigned: a=%d b=%d", a.Slot(), b.Slot())
	}

	env.root.RemoveChild(c)
	env.root.RemoveChild(c)
	if got := tags(env.root.Children()); got != "b,a" {
		t.Errorf("after remove = %s", got)
	}
	if c.Parent() != nil || c.Context() != nil {
		t.Error("removed child should be detached")
	}

	env.root.Clear()
	if env.root.ChildCount() != 0 || a.Parent() != nil {
		t.Error("Clear should detach every child")
	}
}

func TestAddChildTwiceWarns(t *testing.T) {
	env := newEnv(t)
	child := NewFrameNode("child", "c", nil)
	env.root.AddChild(child, -1)
	env.root.AddChild(child, -1)

	if env.root.ChildCount() != 1 {
		t.Errorf("child count = %d", env.root.ChildCount())
	}
	if !strings.Contains(env.logs.String(), "child already exists") {
		t.Errorf("expected a warning, logs:\n%s", env.logs.String())
	}
}

func TestAddAncestorAsChildRefused(t *testing.T) {
	env := newEnv(t)
	mid := CreateFrameNodeAndMountToParent("mid", "mid", nil, env.root, -1)
	leaf := CreateFrameNodeAndMountToParent("leaf", "leaf", nil, mid, -1)

	leaf.AddChild(mid, -1)
	leaf.AddChild(env.root, 0)

	if leaf.ChildCount() != 0 {
		t.Fatalf("leaf adopted %d ancestors", leaf.ChildCount())
	}
	if mid.Parent() != env.root || leaf.Parent() != mid {
		t.Error("tree shape changed")
	}
	if mid.Depth() != 2 || leaf.Depth() != 3 {
		t.Errorf("depths = %d, %d", mid.Depth(), leaf.Depth())
	}
	if got := strings.Count(env.logs.String(), "cannot add an ancestor as a child"); got != 2 {
		t.Errorf("warnings = %d, logs:\n%s", got, env.logs.String())
	}
}

func TestAtomicNodeRefusesChildren(t *testing.T) {
	env := newEnv(t)
	p := newPattern()
	p.atomic = true
	leaf := CreateFrameNodeAndMountToParent("leaf", "leaf", p, env.root, -1)
	leaf.AddChild(NewFrameNode("x", "x", nil), -1)
	if leaf.ChildCount() != 0 {
		t.Error("atomic node accepted a child")
	}
}

func TestFirstFrameLaysOutTree(t *testing.T) {
	env := newEnv(t)
	env.root.LayoutProperty().LayoutBase().UpdateAlignment(graphics.AlignCenter)
	child := CreateFrameNodeAndMountToParent("child", "child", nil, env.root, -1)
	fixedSize(child, 20, 10)

	if !env.ctx.NeedsFrame() {
		t.Fatal("marks should request a frame")
	}
	env.ctx.FlushVsync()

	if got := env.root.GeometryNode().FrameSize(); got != (graphics.Size{Width: 100, Height: 100}) {
		t.Errorf("root size = %v", got)
	}
	if got := child.GeometryNode().Frame(); got != graphics.RectFromLTWH(40, 45, 20, 10) {
		t.Errorf("child frame = %v", got)
	}
	if env.root.IsLayoutDirtyMarked() || child.IsLayoutDirtyMarked() {
		t.Error("marks should be cleared after flush")
	}
	if env.ctx.Scheduler().IsLayoutDirty() || env.ctx.Scheduler().IsRenderDirty() {
		t.Error("scheduler should be empty after flush")
	}

	scene := env.root.RenderContext().(*render.SceneContext)
	if len(scene.Children()) != 1 {
		t.Fatalf("render tree has %d children", len(scene.Children()))
	}
	if scene.Children()[0].Frame() != child.GeometryNode().Frame() {
		t.Error("child geometry should be synced to its render context")
	}
}

func TestLayoutOnlyPassMovesChildren(t *testing.T) {
	env := newEnv(t)
	child := CreateFrameNodeAndMountToParent("child", "child", nil, env.root, -1)
	fixedSize(child, 20, 10)
	env.ctx.FlushVsync()

	env.root.LayoutProperty().LayoutBase().UpdateAlignment(graphics.AlignBottomRight)
	env.root.MarkDirtyNode(property.UpdateNormal)
	if !env.root.IsLayoutDirtyMarked() {
		t.Fatal("alignment change should mark the node")
	}
	env.ctx.FlushVsync()

	if got := child.GeometryNode().FrameOffset(); got != (graphics.Offset{X: 80, Y: 90}) {
		t.Errorf("child offset = %v", got)
	}
	if got := child.GeometryNode().FrameSize(); got != (graphics.Size{Width: 20, Height: 10}) {
		t.Errorf("child size = %v", got)
	}
}

func TestCreateLayoutWrapperModes(t *testing.T) {
	tests := []struct {
		name         string
		flag         property.ChangeFlag
		forceMeasure bool
		forceLayout  bool
		skipMeasure  bool
		skipLayout   bool
	}{
		{"measure", property.UpdateMeasure, false, false, false, false},
		{"node tree", property.UpdateNodeTree, false, false, false, false},
		{"child request", property.UpdateByChildRequest, false, false, false, false},
		{"forced measure", property.UpdateNormal, true, false, false, false},
		{"layout", property.UpdateLayout, false, false, true, false},
		{"forced layout", property.UpdateNormal, false, true, true, false},
		{"clean", property.UpdateNormal, false, false, true, true},
		{"render only", property.UpdateRender, false, false, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := NewFrameNode("n", "n", nil)
			n.LayoutProperty().LayoutBase().UpdatePropertyChangeFlag(tt.flag)
			w := n.CreateLayoutWrapper(tt.forceMeasure, tt.forceLayout)
			a := w.Algorithm()
			if a.SkipMeasure() != tt.skipMeasure || a.SkipLayout() != tt.skipLayout {
				t.Errorf("skipMeasure=%v skipLayout=%v", a.SkipMeasure(), a.SkipLayout())
			}
			if flag := n.LayoutProperty().LayoutBase().PropertyChangeFlag(); flag != property.UpdateNormal {
				t.Errorf("flag not cleared: %v", flag)
			}
			if w.LayoutProperty() == n.LayoutProperty() {
				t.Error("wrapper must work on a clone of the property")
			}
		})
	}
}

func TestMarkDirtyIsIdempotent(t *testing.T) {
	env := newEnv(t)
	env.ctx.FlushVsync()

	env.root.MarkDirtyNode(property.UpdateNormal)
	if env.ctx.NeedsFrame() || env.ctx.Scheduler().IsLayoutDirty() {
		t.Error("a no-op mark should not schedule work")
	}

	env.root.MarkDirtyNode(property.UpdateMeasure)
	env.root.MarkDirtyNode(property.UpdateMeasure)
	if got := env.ctx.Scheduler().DirtyLayoutCount(); got != 1 {
		t.Errorf("layout set has %d entries", got)
	}
}

func TestMeasureBoundaryAbsorbsLayout(t *testing.T) {
	env := newEnv(t)
	p := newPattern()
	p.measureBoundary = true
	leaf := CreateFrameNodeAndMountToParent("leaf", "leaf", p, env.root, -1)
	env.ctx.FlushVsync()

	leaf.MarkDirtyNode(property.UpdateMeasure)
	if env.root.IsLayoutDirtyMarked() {
		t.Error("measure boundary should not bubble to its parent")
	}
	if !leaf.IsLayoutDirtyMarked() || env.ctx.Scheduler().DirtyLayoutCount() != 1 {
		t.Error("measure boundary should queue itself")
	}
}

func TestNodeLevelMeasureBoundary(t *testing.T) {
	env := newEnv(t)
	leaf := CreateFrameNodeAndMountToParent("leaf", "leaf", nil, env.root, -1)
	leaf.SetMeasureBoundary(true)
	env.ctx.FlushVsync()

	leaf.MarkDirtyNode(property.UpdateMeasure)
	if env.root.IsLayoutDirtyMarked() {
		t.Error("node-level boundary should not bubble")
	}
}

func TestMeasureBubblesAsChildRequest(t *testing.T) {
	env := newEnv(t)
	mid := CreateFrameNodeAndMountToParent("mid", "mid", nil, env.root, -1)
	leaf := CreateFrameNodeAndMountToParent("leaf", "leaf", nil, mid, -1)
	env.ctx.FlushVsync()

	leaf.MarkDirtyNode(property.UpdateMeasure)
	for _, n := range []*FrameNode{leaf, mid, env.root} {
		if !n.IsLayoutDirtyMarked() {
			t.Errorf("%s should be marked", n.Tag())
		}
	}
	if !property.CheckUpdateByChildRequest(mid.LayoutProperty().LayoutBase().PropertyChangeFlag()) {
		t.Error("parent should receive a child request")
	}
	if got := env.ctx.Scheduler().DirtyLayoutCount(); got != 1 {
		t.Errorf("only the root should be queued, got %d", got)
	}

	env.ctx.FlushVsync()
	if leaf.IsLayoutDirtyMarked() || mid.IsLayoutDirtyMarked() {
		t.Error("root pass should clear the marks below it")
	}
}

func TestPositionChangeBubbles(t *testing.T) {
	env := newEnv(t)
	leaf := CreateFrameNodeAndMountToParent("leaf", "leaf", nil, env.root, -1)
	env.ctx.FlushVsync()

	leaf.MarkDirtyNode(property.UpdatePosition)
	if !env.root.IsLayoutDirtyMarked() {
		t.Fatal("position change should reach the parent")
	}
	env.root.updateLayoutPropertyFlag()
	if !property.CheckLayoutFlag(env.root.LayoutProperty().LayoutBase().PropertyChangeFlag()) {
		t.Error("child position should turn into parent layout")
	}
}

func TestMeasureBoundaryPositionOnly(t *testing.T) {
	tests := []struct {
		name       string
		flag       property.ChangeFlag
		leafQueued bool
	}{
		{"position", property.UpdatePosition, false},
		{"position and measure", property.UpdatePosition | property.UpdateMeasure, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newEnv(t)
			p := newPattern()
			p.measureBoundary = true
			leaf := CreateFrameNodeAndMountToParent("leaf", "leaf", p, env.root, -1)
			fixedSize(leaf, 10, 10)
			env.ctx.FlushVsync()

			// The new placement only takes effect through the parent's pass.
			env.root.LayoutProperty().LayoutBase().UpdateAlignment(graphics.AlignCenter)
			leaf.MarkDirtyNode(tt.flag)
			if !env.root.IsLayoutDirtyMarked() {
				t.Fatal("parent should be asked to place the boundary")
			}
			if leaf.IsLayoutDirtyMarked() != tt.leafQueued {
				t.Errorf("leaf marked = %v, want %v", leaf.IsLayoutDirtyMarked(), tt.leafQueued)
			}
			want := 1
			if tt.leafQueued {
				want = 2
			}
			if got := env.ctx.Scheduler().DirtyLayoutCount(); got != want {
				t.Errorf("layout set has %d entries, want %d", got, want)
			}

			env.ctx.FlushVsync()
			if got := leaf.GeometryNode().FrameOffset(); got != (graphics.Offset{X: 45, Y: 45}) {
				t.Errorf("leaf offset = %v", got)
			}
			if flag := leaf.LayoutProperty().LayoutBase().PropertyChangeFlag(); flag != property.UpdateNormal {
				t.Errorf("leaf flag = %v", flag)
			}
			scene := leaf.RenderContext().(*render.SceneContext)
			if scene.Frame() != leaf.GeometryNode().Frame() {
				t.Errorf("render frame = %v, geometry = %v", scene.Frame(), leaf.GeometryNode().Frame())
			}
			if env.ctx.Scheduler().IsLayoutDirty() {
				t.Error("scheduler should be empty after flush")
			}
		})
	}
}

func TestRenderMarkDeduplicates(t *testing.T) {
	env := newEnv(t)
	leaf := CreateFrameNodeAndMountToParent("leaf", "leaf", nil, env.root, -1)
	fixedSize(leaf, 10, 10)
	env.ctx.FlushVsync()

	leaf.MarkDirtyNode(property.UpdateRender)
	leaf.MarkDirtyNode(property.UpdateRender)
	if got := env.ctx.Scheduler().DirtyRenderCount(); got != 1 {
		t.Errorf("render set has %d entries, want 1", got)
	}
	if env.ctx.Scheduler().IsLayoutDirty() {
		t.Error("render mark should not schedule layout")
	}
}

func TestRenderNeverForcesLayout(t *testing.T) {
	env := newEnv(t)
	paints := 0
	p := newPattern()
	p.renderBoundary = false
	p.paints = &paints
	leaf := CreateFrameNodeAndMountToParent("leaf", "leaf", p, env.root, -1)
	fixedSize(leaf, 10, 10)
	env.ctx.FlushVsync()
	paints = 0

	leaf.MarkDirtyNode(property.UpdateRender)
	if env.root.IsLayoutDirtyMarked() || env.ctx.Scheduler().IsLayoutDirty() {
		t.Fatal("render mark reached layout")
	}
	if !env.root.IsRenderDirtyMarked() || env.ctx.Scheduler().DirtyRenderCount() != 1 {
		t.Fatal("render boundary above the leaf should be queued")
	}

	env.ctx.FlushVsync()
	if paints != 1 {
		t.Errorf("leaf painted %d times, want 1", paints)
	}
	if leaf.IsRenderDirtyMarked() || env.root.IsRenderDirtyMarked() {
		t.Error("render marks should be cleared")
	}
}

func TestLayoutSupersedesRender(t *testing.T) {
	env := newEnv(t)
	env.ctx.FlushVsync()

	env.root.MarkDirtyNode(property.UpdateRender)
	env.root.MarkDirtyNode(property.UpdateMeasure)
	s := env.ctx.Scheduler()
	if s.DirtyRenderCount() != 0 || s.DirtyLayoutCount() != 1 {
		t.Errorf("layout=%d render=%d", s.DirtyLayoutCount(), s.DirtyRenderCount())
	}
}

func TestSwapRejectedWhileLayouting(t *testing.T) {
	env := newEnv(t)
	env.ctx.FlushVsync()

	env.root.MarkDirtyNode(property.UpdateMeasure)
	run := env.root.CreateLayoutTask()
	if run == nil || !env.root.IsLayouting() {
		t.Fatal("task should mark the node as layouting")
	}

	stale := layout.NewWrapper(nil, layout.NewGeometryNode(), property.NewLayoutProperty())
	stale.GeometryNode().SetFrameSize(graphics.Size{Width: 5, Height: 5})
	env.root.SwapDirtyLayoutWrapper(stale)
	if got := env.root.GeometryNode().FrameSize(); got.Width != 100 {
		t.Errorf("stale swap was applied: %v", got)
	}
	if !strings.Contains(env.logs.String(), "swap rejected") {
		t.Error("expected a rejection warning")
	}

	run()
	if env.root.IsLayouting() {
		t.Error("layouting flag should be cleared after the task")
	}
}

func TestSwapHookCanRequestRender(t *testing.T) {
	env := newEnv(t)
	p := newPattern()
	p.needRender = true
	leaf := CreateFrameNodeAndMountToParent("leaf", "leaf", p, env.root, -1)
	fixedSize(leaf, 10, 10)
	env.ctx.FlushVsync()
	if p.swaps == 0 {
		t.Fatal("swap hook was not called")
	}

	// Geometry is unchanged; the hook alone asks for render.
	env.root.MarkDirtyNode(property.UpdateMeasure)
	env.ctx.Scheduler().FlushLayoutTask()
	if !leaf.IsRenderDirtyMarked() {
		t.Error("hook returning true should schedule render")
	}
}

func TestDirtyChildUnderLayoutOnlyParent(t *testing.T) {
	env := newEnv(t)
	var captured []*errors.Error
	errors.SetHandler(captureHandler(&captured))
	t.Cleanup(func() { errors.SetHandler(nil) })

	p := newPattern()
	p.measureBoundary = true
	leaf := CreateFrameNodeAndMountToParent("leaf", "leaf", p, env.root, -1)
	fixedSize(leaf, 10, 10)
	env.ctx.FlushVsync()

	env.root.LayoutProperty().LayoutBase().UpdateAlignment(graphics.AlignCenter)
	env.root.MarkDirtyNode(property.UpdateNormal)
	fixedSize(leaf, 30, 20)
	env.ctx.FlushVsync()

	if len(captured) != 0 {
		t.Fatalf("unexpected errors: %v", captured[0])
	}
	if got := leaf.GeometryNode().FrameSize(); got != (graphics.Size{Width: 30, Height: 20}) {
		t.Errorf("leaf size = %v", got)
	}
	if got := leaf.GeometryNode().FrameOffset(); got != (graphics.Offset{X: 45, Y: 45}) {
		t.Errorf("leaf offset = %v", got)
	}
}

func TestRequestNextFrameReplaysOnAttach(t *testing.T) {
	env := newEnv(t)
	env.ctx.FlushVsync()

	n := NewFrameNode("n", "n", nil)
	n.RequestNextFrame()
	if env.ctx.NeedsFrame() {
		t.Fatal("detached node cannot request a frame")
	}
	n.AttachContext(env.ctx)
	if !env.ctx.NeedsFrame() {
		t.Error("pending request should be replayed")
	}
}

func TestContextAttachedOnce(t *testing.T) {
	env := newEnv(t)
	p := newPattern()
	n := NewFrameNode("n", "n", p)
	n.MountToParent(env.root, -1)
	n.AttachContext(env.ctx)
	if p.contextAttached != 1 {
		t.Errorf("OnContextAttached called %d times", p.contextAttached)
	}
}

func TestDispose(t *testing.T) {
	env := newEnv(t)
	p := newPattern()
	parent := CreateFrameNodeAndMountToParent("parent", "parent", nil, env.root, -1)
	child := CreateFrameNodeAndMountToParent("child", "child", p, parent, -1)
	if p.Host() != child {
		t.Fatal("pattern should be attached to its node")
	}
	env.root.RemoveChild(parent)
	parent.Dispose()
	if !p.detached || p.Host() != nil {
		t.Error("dispose should detach the pattern")
	}
	if parent.ChildCount() != 0 || child.Parent() != nil {
		t.Error("dispose should release children")
	}
}

func TestGeneratedIDs(t *testing.T) {
	a := NewFrameNode("a", "", nil)
	b := NewFrameNode("b", "", nil)
	if a.ID() == "" || a.ID() == b.ID() {
		t.Errorf("ids %q %q", a.ID(), b.ID())
	}
	if a.Sequence() >= b.Sequence() {
		t.Error("sequence should increase with creation order")
	}
}

func TestDumpTree(t *testing.T) {
	env := newEnv(t)
	CreateFrameNodeAndMountToParent("child", "c1", nil, env.root, -1)
	env.ctx.FlushVsync()

	out := env.root.DumpTree()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[1], "  child id=c1 depth=2") {
		t.Errorf("dump:\n%s", out)
	}
	if env.root.FindByID("c1") == nil || env.root.FindByID("missing") != nil {
		t.Error("FindByID")
	}
}

func TestGenericAccessors(t *testing.T) {
	p := newPattern()
	n := NewFrameNode("n", "n", p)
	if got, ok := GetPattern[*testPattern](n); !ok || got != p {
		t.Error("GetPattern")
	}
	if _, ok := GetLayoutProperty[*property.LayoutProperty](n); !ok {
		t.Error("GetLayoutProperty")
	}
	if _, ok := GetPaintProperty[*property.PaintProperty](n); !ok {
		t.Error("GetPaintProperty")
	}
}

type errorCapture struct{ errs *[]*errors.Error }

func (c errorCapture) HandleError(err *errors.Error)  { *c.errs = append(*c.errs, err) }
func (c errorCapture) HandlePanic(*errors.PanicError) {}

func captureHandler(errs *[]*errors.Error) errors.ErrorHandler {
	return errorCapture{errs: errs}
}

func tags(nodes []*FrameNode) string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Tag()
	}
	return strings.Join(out, ",")
}
