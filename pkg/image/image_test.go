package image

import (
	"bytes"
	"encoding/base64"
	stderrors "errors"
	goimage "image"
	"image/color"
	"image/png"
	"slices"
	"testing"

	"github.com/go-drift/ace/pkg/errors"
	"github.com/go-drift/ace/pkg/graphics"
	"github.com/go-drift/ace/pkg/task"
)

func TestStateMachineIsTotal(t *testing.T) {
	states := []State{StateUnloaded, StateDataLoading, StateDataReady, StateCanvasImageMaking, StateLoadSuccess, StateLoadFail}
	commands := []Command{
		CommandLoadData, CommandLoadDataSuccess, CommandLoadDataFail,
		CommandMakeCanvasImage, CommandMakeCanvasImageSuccess, CommandMakeCanvasImageFail,
		CommandRetryLoading, CommandResetState,
	}
	accepted := map[State]map[Command]State{
		StateUnloaded:          {CommandLoadData: StateDataLoading},
		StateDataLoading:       {CommandLoadDataSuccess: StateDataReady, CommandLoadDataFail: StateLoadFail},
		StateDataReady:         {CommandMakeCanvasImage: StateCanvasImageMaking},
		StateCanvasImageMaking: {CommandMakeCanvasImageSuccess: StateLoadSuccess, CommandMakeCanvasImageFail: StateLoadFail},
	}

	for _, s := range states {
		for _, cmd := range commands {
			m := NewStateManager()
			m.state = s
			entered := 0
			for _, target := range states {
				m.SetOnEnter(target, func() { entered++ })
			}
			changed := m.HandleCommand(cmd)

			want, ok := accepted[s][cmd]
			if cmd == CommandResetState {
				want, ok = StateUnloaded, true
			}
			if !ok {
				want = s
			}
			if m.State() != want {
				t.Errorf("%s + %s = %s, want %s", s, cmd, m.State(), want)
			}
			if changed != ok {
				t.Errorf("%s + %s reported changed=%v", s, cmd, changed)
			}
			if wantEntered := map[bool]int{true: 1, false: 0}[ok]; entered != wantEntered {
				t.Errorf("%s + %s ran %d callbacks", s, cmd, entered)
			}
		}
	}
}

func TestStateCallbacksInOrder(t *testing.T) {
	m := NewStateManager()
	var got []State
	m.SetOnDataLoading(func() { got = append(got, StateDataLoading) })
	m.SetOnDataReady(func() { got = append(got, StateDataReady) })
	m.SetOnCanvasImageMaking(func() { got = append(got, StateCanvasImageMaking) })
	m.SetOnLoadSuccess(func() { got = append(got, StateLoadSuccess) })
	m.SetOnLoadFail(func() { got = append(got, StateLoadFail) })

	for _, cmd := range []Command{CommandLoadData, CommandLoadDataSuccess, CommandMakeCanvasImage, CommandMakeCanvasImageSuccess} {
		m.HandleCommand(cmd)
	}

	want := []State{StateDataLoading, StateDataReady, StateCanvasImageMaking, StateLoadSuccess}
	if m.State() != StateLoadSuccess {
		t.Errorf("final state = %s", m.State())
	}
	if !slices.Equal(got, want) {
		t.Errorf("callbacks = %v, want %v", got, want)
	}
}

func TestStateStrings(t *testing.T) {
	if StateCanvasImageMaking.String() != "CANVAS_IMAGE_MAKING" || CommandRetryLoading.String() != "RETRY_LOADING" {
		t.Error("unexpected names")
	}
	if State(42).String() != "State(42)" || Command(42).String() != "Command(42)" {
		t.Error("unexpected fallback names")
	}
}

func TestNewSourceInfo(t *testing.T) {
	tests := []struct {
		src  string
		kind SourceKind
		svg  bool
	}{
		{"", SourceUnknown, false},
		{"assets/logo.png", SourceFile, false},
		{"file:///tmp/icon.SVG", SourceFile, true},
		{"data:image/png;base64,AAAA", SourceData, false},
		{"data:image/svg+xml,<svg/>", SourceData, true},
		{"memory://avatar", SourceMemory, false},
		{"https://example.com/a.png", SourceNetwork, false},
		{"ftp://host/a.png", SourceUnknown, false},
	}
	for _, tt := range tests {
		s := NewSourceInfo(tt.src)
		if s.Kind != tt.kind {
			t.Errorf("%q kind = %s, want %s", tt.src, s.Kind, tt.kind)
		}
		if s.IsSvg() != tt.svg {
			t.Errorf("%q IsSvg = %v", tt.src, s.IsSvg())
		}
	}
	if NewSourceInfo("a.png") != NewSourceInfo(" a.png ") {
		t.Error("equal sources should compare equal")
	}
}

func TestLoaders(t *testing.T) {
	payload := encodePNG(t, 3, 2)
	mem := NewMemoryStore()
	memSrc := mem.Put("dot", payload)

	tests := []struct {
		name string
		src  SourceInfo
		want []byte
		err  error
	}{
		{"base64 data", NewSourceInfo("data:image/png;base64," + base64.StdEncoding.EncodeToString(payload)), payload, nil},
		{"plain data", NewSourceInfo("data:text/plain,a%20b"), []byte("a b"), nil},
		{"broken data", NewSourceInfo("data:image/png;base64,!!"), nil, errors.ErrBrokenData},
		{"memory", memSrc, payload, nil},
		{"network", NewSourceInfo("https://example.com/a.png"), nil, errors.ErrUnsupportedSource},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader, err := CreateLoader(tt.src, mem)
			if err == nil {
				var data []byte
				data, err = loader.Load(tt.src)
				if err == nil && !bytes.Equal(data, tt.want) {
					t.Errorf("data = %q", data)
				}
			}
			if !stderrors.Is(err, tt.err) {
				t.Errorf("err = %v, want %v", err, tt.err)
			}
		})
	}
}

func TestDecodeInfo(t *testing.T) {
	info, err := DecodeInfo(encodePNG(t, 40, 20))
	if err != nil {
		t.Fatalf("DecodeInfo: %v", err)
	}
	if info.Format != "png" || info.Size != (graphics.Size{Width: 40, Height: 20}) || info.FrameCount != 1 {
		t.Errorf("info = %+v", info)
	}
	if _, err := DecodeInfo([]byte("nope")); !stderrors.Is(err, errors.ErrBrokenData) {
		t.Errorf("err = %v", err)
	}
}

func TestApplyImageFit(t *testing.T) {
	raw := graphics.Size{Width: 200, Height: 100}
	box := graphics.Size{Width: 100, Height: 100}
	full := graphics.RectFromLTWH(0, 0, 200, 100)

	tests := []struct {
		fit      Fit
		raw, box graphics.Size
		src, dst graphics.Rect
	}{
		{FitFill, raw, box, full, graphics.RectFromLTWH(0, 0, 100, 100)},
		{FitContain, raw, box, full, graphics.RectFromLTWH(0, 25, 100, 50)},
		{FitCover, raw, box, graphics.RectFromLTWH(50, 0, 100, 100), graphics.RectFromLTWH(0, 0, 100, 100)},
		{FitNone, raw, box, graphics.RectFromLTWH(50, 0, 100, 100), graphics.RectFromLTWH(0, 0, 100, 100)},
		{FitWidth, raw, box, full, graphics.RectFromLTWH(0, 25, 100, 50)},
		{FitHeight, raw, box, graphics.RectFromLTWH(50, 0, 100, 100), graphics.RectFromLTWH(0, 0, 100, 100)},
		{FitScaleDown, raw, box, full, graphics.RectFromLTWH(0, 25, 100, 50)},
		{FitScaleDown, graphics.Size{Width: 20, Height: 10}, box,
			graphics.RectFromLTWH(0, 0, 20, 10), graphics.RectFromLTWH(40, 45, 20, 10)},
	}
	for _, tt := range tests {
		src, dst := ApplyImageFit(tt.fit, tt.raw, tt.box)
		if src != tt.src || dst != tt.dst {
			t.Errorf("%s %v in %v: src=%v dst=%v, want %v %v", tt.fit, tt.raw, tt.box, src, dst, tt.src, tt.dst)
		}
	}
}

func TestParseFit(t *testing.T) {
	for _, name := range []string{"contain", "fill", "cover", "none", "scale-down", "fit_width", "fit_height"} {
		f, err := ParseFit(name)
		if err != nil {
			t.Errorf("ParseFit(%q): %v", name, err)
			continue
		}
		if got, _ := ParseFit(f.String()); got != f {
			t.Errorf("%q does not round trip", name)
		}
	}
	if _, err := ParseFit("stretch"); err == nil {
		t.Error("expected an error for an unknown fit")
	}
}

func TestCalculateResizeTarget(t *testing.T) {
	raw := graphics.Size{Width: 400, Height: 200}
	tests := []struct {
		name      string
		src, dst  graphics.Size
		viewScale float64
		want      graphics.Size
	}{
		{"shrinks", raw, graphics.Size{Width: 100, Height: 50}, 1, graphics.Size{Width: 100, Height: 50}},
		{"view scale", raw, graphics.Size{Width: 100, Height: 50}, 2, graphics.Size{Width: 200, Height: 100}},
		{"one axis grows", raw, graphics.Size{Width: 100, Height: 300}, 1, raw},
		{"no source", graphics.Size{}, graphics.Size{Width: 10, Height: 10}, 1, raw},
	}
	for _, tt := range tests {
		if got := CalculateResizeTarget(tt.src, tt.dst, raw, tt.viewScale); got != tt.want {
			t.Errorf("%s: got %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestResizeNeverUpscales(t *testing.T) {
	img := goimage.NewRGBA(goimage.Rect(0, 0, 40, 20))
	if got := resize(img, graphics.Size{Width: 80, Height: 80}, false); got != goimage.Image(img) {
		t.Error("image that fits should be returned as is")
	}
	got := resize(img, graphics.Size{Width: 10, Height: 80}, false)
	if b := got.Bounds(); b.Dx() != 10 || b.Dy() != 20 {
		t.Errorf("bounds = %v", b)
	}
}

func TestCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewCache(2)
	a, b, d := NewCanvasImage(nil), NewCanvasImage(nil), NewCanvasImage(nil)
	c.Put("a", a)
	c.Put("b", b)
	c.Get("a")
	c.Put("d", d)

	if _, ok := c.Get("b"); ok {
		t.Error("b should have been evicted")
	}
	if got, ok := c.Get("a"); !ok || got != a {
		t.Error("a should survive")
	}
	if c.Len() != 2 {
		t.Errorf("len = %d", c.Len())
	}
	c.Purge()
	if c.Len() != 0 {
		t.Error("purge")
	}

	var disabled *Cache
	disabled.Put("x", a)
	if _, ok := disabled.Get("x"); ok {
		t.Error("nil cache should store nothing")
	}
}

type recorder struct {
	events []string
}

func (r *recorder) notifier() Notifier {
	return Notifier{
		DataReady:   func(src SourceInfo) { r.events = append(r.events, "ready "+src.Src) },
		LoadSuccess: func(src SourceInfo) { r.events = append(r.events, "success "+src.Src) },
		LoadFail:    func(src SourceInfo) { r.events = append(r.events, "fail "+src.Src) },
	}
}

func newTestProvider() (*Provider, *task.ManualExecutor) {
	exec := task.NewManualExecutor()
	return NewProvider(ProviderOptions{Executor: exec, Cache: NewCache(8)}), exec
}

func TestLoadingContextFullFlow(t *testing.T) {
	p, exec := newTestProvider()
	src := p.Memory().Put("logo", encodePNG(t, 40, 20))
	rec := &recorder{}
	c := NewLoadingContext(src, p, rec.notifier())

	c.LoadImageData()
	if c.State() != StateDataLoading || exec.PendingOf(task.Background) != 1 {
		t.Fatalf("state = %s, background tasks = %d", c.State(), exec.PendingOf(task.Background))
	}
	exec.RunAll()
	if c.State() != StateDataReady {
		t.Fatalf("state = %s", c.State())
	}
	if c.ImageSize() != (graphics.Size{Width: 40, Height: 20}) {
		t.Errorf("image size = %v", c.ImageSize())
	}

	c.MakeCanvasImage(graphics.Size{Width: 20, Height: 10}, true, FitContain)
	if exec.PendingOf(task.IO) != 1 {
		t.Fatal("canvas image should be made on the IO queue")
	}
	exec.RunAll()

	if c.State() != StateLoadSuccess {
		t.Fatalf("state = %s, err = %v", c.State(), c.Err())
	}
	if got := c.CanvasImage().Size(); got != (graphics.Size{Width: 20, Height: 10}) {
		t.Errorf("canvas size = %v", got)
	}
	if c.DstRect() != graphics.RectFromLTWH(0, 0, 20, 10) || c.SrcRect() != graphics.RectFromLTWH(0, 0, 20, 10) {
		t.Errorf("src=%v dst=%v", c.SrcRect(), c.DstRect())
	}
	want := []string{"ready " + src.Src, "success " + src.Src}
	if !slices.Equal(rec.events, want) {
		t.Errorf("events = %v", rec.events)
	}
	if c.obj.Data() != nil {
		t.Error("encoded data should be released after success")
	}
	if p.Cache().Len() != 1 {
		t.Errorf("cache len = %d", p.Cache().Len())
	}
}

func TestMakeCanvasImageBeforeDataIsIgnored(t *testing.T) {
	p, exec := newTestProvider()
	src := p.Memory().Put("logo", encodePNG(t, 4, 4))
	c := NewLoadingContext(src, p, Notifier{})

	c.MakeCanvasImage(graphics.Size{Width: 2, Height: 2}, false, FitFill)
	if c.State() != StateUnloaded || exec.Pending() != 0 {
		t.Fatal("request before data should be a no-op")
	}
	if c.DstSize() != (graphics.Size{}) {
		t.Error("parameters of an unaccepted request should not apply")
	}
}

func TestLoadFailures(t *testing.T) {
	tests := []struct {
		name string
		src  func(p *Provider) SourceInfo
		err  error
	}{
		{"unsupported", func(*Provider) SourceInfo { return NewSourceInfo("https://example.com/a.png") }, errors.ErrUnsupportedSource},
		{"broken", func(p *Provider) SourceInfo { return p.Memory().Put("junk", []byte("junk")) }, errors.ErrBrokenData},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, exec := newTestProvider()
			rec := &recorder{}
			src := tt.src(p)
			c := NewLoadingContext(src, p, rec.notifier())
			c.LoadImageData()
			exec.RunAll()
			if c.State() != StateLoadFail {
				t.Fatalf("state = %s", c.State())
			}
			if !stderrors.Is(c.Err(), tt.err) {
				t.Errorf("err = %v", c.Err())
			}
			if !slices.Equal(rec.events, []string{"fail " + src.Src}) {
				t.Errorf("events = %v", rec.events)
			}
		})
	}
}

func TestStaleCallbacksAreDiscarded(t *testing.T) {
	p, exec := newTestProvider()
	a := p.Memory().Put("a", encodePNG(t, 8, 8))
	b := p.Memory().Put("b", encodePNG(t, 16, 4))
	rec := &recorder{}
	c := NewLoadingContext(a, p, rec.notifier())

	c.LoadImageData()
	exec.RunPending() // A's background load posts its result to UI.
	if exec.PendingOf(task.UI) != 1 {
		t.Fatalf("expected A's result on the UI queue")
	}

	c.SetSourceInfo(b)
	if c.State() != StateUnloaded {
		t.Fatalf("state after switch = %s", c.State())
	}
	exec.RunAll()
	if c.State() != StateUnloaded || c.ImageSize().Width != -1 {
		t.Error("A's result must not advance B's flow")
	}

	c.LoadImageData()
	exec.RunAll()
	c.OnLoadFail(a, errors.ErrBrokenData)
	c.OnDataReady(a, NewObject(a, EncodedInfo{FrameCount: 1}, nil))
	if c.State() != StateDataReady || c.ImageSize() != (graphics.Size{Width: 16, Height: 4}) {
		t.Errorf("state = %s, size = %v", c.State(), c.ImageSize())
	}
	if !slices.Equal(rec.events, []string{"ready " + b.Src}) {
		t.Errorf("events = %v", rec.events)
	}
}

func TestLateResultsKeepLoadedImage(t *testing.T) {
	p, exec := newTestProvider()
	a := p.Memory().Put("a", encodePNG(t, 8, 8))
	b := p.Memory().Put("b", encodePNG(t, 16, 4))
	c := NewLoadingContext(a, p, Notifier{})

	c.LoadImageData()
	exec.RunPending() // first result for A is queued on UI
	c.SetSourceInfo(b)
	c.SetSourceInfo(a)
	c.LoadImageData()
	exec.RunPending() // first result is accepted, the second load queues its result
	if c.State() != StateDataReady {
		t.Fatalf("state = %s", c.State())
	}
	c.MakeCanvasImage(graphics.Size{Width: 8, Height: 8}, false, FitFill)
	exec.RunAll()
	if c.State() != StateLoadSuccess || c.CanvasImage() == nil {
		t.Fatalf("state = %s, canvas = %v", c.State(), c.CanvasImage() != nil)
	}

	size := c.ImageSize()
	c.OnDataReady(a, NewObject(a, EncodedInfo{FrameCount: 1}, nil))
	c.OnLoadFail(a, errors.ErrBrokenData)
	if c.State() != StateLoadSuccess || c.CanvasImage() == nil || c.ImageSize() != size {
		t.Errorf("late callbacks changed the context: state = %s, size = %v", c.State(), c.ImageSize())
	}
	if c.Err() != nil {
		t.Errorf("err = %v", c.Err())
	}
}

func TestSetSourceInfoCancelsPendingLoad(t *testing.T) {
	p, exec := newTestProvider()
	a := p.Memory().Put("a", encodePNG(t, 8, 8))
	c := NewLoadingContext(a, p, Notifier{})

	c.LoadImageData()
	pending := c.loadTask
	c.SetSourceInfo(NewSourceInfo("memory://other"))
	if pending == nil || !pending.Canceled() {
		t.Fatal("unstarted load should be canceled")
	}
	exec.RunAll()
	if exec.PendingOf(task.UI) != 0 || c.State() != StateUnloaded {
		t.Error("canceled load should post nothing")
	}
}

func TestResetReachesUnloadedFromSuccess(t *testing.T) {
	p, exec := newTestProvider()
	src := p.Memory().Put("a", encodePNG(t, 8, 8))
	c := NewLoadingContext(src, p, Notifier{})
	c.LoadImageData()
	exec.RunAll()
	c.MakeCanvasImage(graphics.Size{Width: 8, Height: 8}, false, FitFill)
	exec.RunAll()
	if c.State() != StateLoadSuccess {
		t.Fatalf("state = %s", c.State())
	}

	c.SetSourceInfo(p.Memory().Put("b", encodePNG(t, 2, 2)))
	if c.State() != StateUnloaded || c.CanvasImage() != nil {
		t.Error("switching source should drop the old image")
	}
}

func TestCanvasImageReloadsClearedData(t *testing.T) {
	p, exec := newTestProvider()
	src := p.Memory().Put("a", encodePNG(t, 8, 8))
	data, _ := p.Memory().Load(src)
	info, _ := DecodeInfo(data)
	obj := NewObject(src, info, data)
	obj.ClearData()

	var ok bool
	p.MakeCanvasImage(obj, graphics.Size{Width: 4, Height: 4}, Callbacks{LoadSuccess: func(SourceInfo) { ok = true }})
	exec.RunAll()
	if !ok || obj.CanvasImage().Size() != (graphics.Size{Width: 4, Height: 4}) {
		t.Errorf("reload failed: ok=%v", ok)
	}
}

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := goimage.NewNRGBA(goimage.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, color.NRGBA{R: uint8(x * 16), G: uint8(y * 16), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return buf.Bytes()
}
