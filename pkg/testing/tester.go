package testing

import (
	"bytes"
	"errors"
	"runtime"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/go-drift/ace/pkg/core"
	"github.com/go-drift/ace/pkg/graphics"
	"github.com/go-drift/ace/pkg/image"
	"github.com/go-drift/ace/pkg/logging"
	"github.com/go-drift/ace/pkg/pipeline"
	"github.com/go-drift/ace/pkg/property"
	"github.com/go-drift/ace/pkg/task"
	"github.com/go-drift/ace/pkg/widgets"
)

const (
	// DefaultTestWidth is the default root width.
	DefaultTestWidth = 800
	// DefaultTestHeight is the default root height.
	DefaultTestHeight = 600
	// DefaultMaxFrames bounds PumpAndSettle.
	DefaultMaxFrames = 100
)

// ErrSettleTimeout is returned when PumpAndSettle runs out of frames.
var ErrSettleTimeout = errors.New("PumpAndSettle: pipeline did not settle")

// Option configures a Tester.
type Option func(*options)

type options struct {
	size      graphics.Size
	scale     *float64
	cacheSize int
}

// WithSize sets the root size.
func WithSize(size graphics.Size) Option {
	return func(o *options) { o.size = size }
}

// WithDipScale sets the density scale of the context.
func WithDipScale(scale float64) Option {
	return func(o *options) { o.scale = &scale }
}

// WithImageCache sets the capacity of the image cache; 0 disables it.
func WithImageCache(entries int) Option {
	return func(o *options) { o.cacheSize = entries }
}

// Tester runs a stage root on a manual executor.
type Tester struct {
	t        testing.TB
	ctx      *pipeline.Context
	executor *task.ManualExecutor
	provider *image.Provider
	stage    *core.FrameNode
	logs     *bytes.Buffer
	size     graphics.Size
}

// NewTester creates a tester whose stage lives until the test ends.
func NewTester(t testing.TB, opts ...Option) *Tester {
	t.Helper()
	o := options{
		size:      graphics.Size{Width: DefaultTestWidth, Height: DefaultTestHeight},
		cacheSize: 8,
	}
	for _, opt := range opts {
		opt(&o)
	}
	logs := &bytes.Buffer{}
	logger := logging.New(logs, log.DebugLevel)
	executor := task.NewManualExecutor()
	pipelineOpts := pipeline.Options{Executor: executor, Logger: logger, RootSize: o.size}
	if o.scale != nil {
		scale := property.DefaultScale()
		scale.DipScale = *o.scale
		pipelineOpts.Scale = &scale
	}
	ctx := pipeline.NewContext(pipelineOpts)
	tester := &Tester{
		t:        t,
		ctx:      ctx,
		executor: executor,
		provider: image.NewProvider(image.ProviderOptions{Executor: executor, Cache: image.NewCache(o.cacheSize), Logger: logger}),
		stage:    widgets.NewStage(ctx),
		logs:     logs,
		size:     o.size,
	}
	// Nodes hold their context weakly.
	t.Cleanup(func() { runtime.KeepAlive(ctx) })
	return tester
}

func (t *Tester) Context() *pipeline.Context     { return t.ctx }
func (t *Tester) Executor() *task.ManualExecutor { return t.executor }
func (t *Tester) Provider() *image.Provider      { return t.provider }
func (t *Tester) Stage() *core.FrameNode         { return t.stage }
func (t *Tester) Size() graphics.Size            { return t.size }
func (t *Tester) Memory() *image.MemoryStore     { return t.provider.Memory() }
func (t *Tester) Scheduler() *pipeline.Scheduler { return t.ctx.Scheduler() }

// Logs returns everything logged through the tester's context so far.
func (t *Tester) Logs() string { return t.logs.String() }

// Mount parses a YAML tree and mounts it under the stage.
func (t *Tester) Mount(yaml string) (*core.FrameNode, error) {
	spec, err := widgets.ParseSpec([]byte(yaml))
	if err != nil {
		return nil, err
	}
	return widgets.Mount(t.stage, spec, t.provider)
}

// MustMount is Mount that fails the test on error.
func (t *Tester) MustMount(yaml string) *core.FrameNode {
	t.t.Helper()
	n, err := t.Mount(yaml)
	if err != nil {
		t.t.Fatalf("mount: %v", err)
	}
	return n
}

// Pump flushes one frame and then runs the tasks that were queued before
// it. It reports whether the frame had anything to do.
func (t *Tester) Pump() bool {
	needed := t.ctx.NeedsFrame()
	t.ctx.FlushVsync()
	t.executor.RunPending()
	return needed
}

// PumpAndSettle pumps until no frame is requested and no task is queued,
// or DefaultMaxFrames frames have run.
func (t *Tester) PumpAndSettle() error {
	return t.PumpFrames(DefaultMaxFrames)
}

// PumpFrames is PumpAndSettle with an explicit frame budget.
func (t *Tester) PumpFrames(max int) error {
	for i := 0; i < max; i++ {
		t.Pump()
		if !t.needsWork() {
			return nil
		}
	}
	return ErrSettleTimeout
}

func (t *Tester) needsWork() bool {
	return t.ctx.NeedsFrame() || t.executor.Pending() > 0
}

// Find evaluates a finder against the stage subtree.
func (t *Tester) Find(finder Finder) FinderResult {
	return FinderResult{nodes: finder.Evaluate(t.stage), finder: finder}
}
