package cmd

import (
	"context"
	"fmt"
	"image/png"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/go-drift/ace/pkg/engine"
	"github.com/go-drift/ace/pkg/render"
	"github.com/go-drift/ace/pkg/widgets"
)

const defaultSettleTimeout = 10 * time.Second

type layoutOpts struct {
	png     string
	width   float64
	height  float64
	quiet   time.Duration
	timeout time.Duration
}

func newLayoutCmd(a *app) *cobra.Command {
	opts := layoutOpts{quiet: 50 * time.Millisecond, timeout: defaultSettleTimeout}
	cmd := &cobra.Command{
		Use:   "layout [file]",
		Short: "Mount a YAML tree, lay it out and print the geometry",
		Long: `Mount the tree described by file (or stdin when file is "-") under a
stage root, run frames until nothing is dirty and print one line per node
with its frame and layout constraint.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runLayout(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), args[0], opts)
		},
	}
	cmd.Flags().StringVar(&opts.png, "png", "", "also rasterize the settled tree to this PNG file")
	cmd.Flags().Float64Var(&opts.width, "width", 0, "root width, overrides engine.root_width")
	cmd.Flags().Float64Var(&opts.height, "height", 0, "root height, overrides engine.root_height")
	cmd.Flags().DurationVar(&opts.quiet, "quiet", opts.quiet, "how long the pipeline must stay idle to count as settled")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", opts.timeout, "give up if the tree has not settled by then")
	return cmd
}

func readSpec(stdin io.Reader, path string) (widgets.Spec, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return widgets.Spec{}, fmt.Errorf("read tree: %w", err)
	}
	return widgets.ParseSpec(data)
}

func (a *app) runLayout(ctx context.Context, stdin io.Reader, out io.Writer, path string, opts layoutOpts) error {
	spec, err := readSpec(stdin, path)
	if err != nil {
		return err
	}
	cfg := *a.cfg
	if opts.width > 0 {
		cfg.Engine.RootWidth = opts.width
	}
	if opts.height > 0 {
		cfg.Engine.RootHeight = opts.height
	}

	e := engine.New(engine.Options{Config: &cfg, Logger: a.logger})
	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() { done <- e.Run(runCtx) }()
	defer func() {
		cancel()
		<-done
	}()

	start := time.Now()
	if _, err := e.Mount(spec); err != nil {
		return err
	}
	settleCtx, cancelSettle := context.WithTimeout(ctx, opts.timeout)
	defer cancelSettle()
	if err := e.Settle(settleCtx, opts.quiet); err != nil {
		return fmt.Errorf("tree did not settle: %w", err)
	}
	a.logger.Info("tree settled", "frames", e.Context().Frames(), "elapsed", time.Since(start).Round(time.Millisecond))

	var (
		dump   string
		canvas *render.RasterCanvas
		drawn  bool
	)
	if opts.png != "" {
		canvas = render.NewRasterCanvas(e.Context().RootSize())
	}
	if !e.Update(func() {
		dump = e.Stage().DumpTree()
		if canvas != nil {
			drawn = e.Context().RenderTo(canvas)
		}
	}) {
		return errExecutorStopped()
	}
	if _, err := io.WriteString(out, dump); err != nil {
		return err
	}
	if canvas == nil {
		return nil
	}
	if !drawn {
		return fmt.Errorf("stage has no scene to render")
	}
	return writePNG(opts.png, canvas)
}

func writePNG(path string, canvas *render.RasterCanvas) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, canvas.Image()); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
