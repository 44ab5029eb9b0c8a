package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/go-drift/ace/pkg/errors"
	"github.com/go-drift/ace/pkg/graphics"
	"github.com/go-drift/ace/pkg/image"
	"github.com/go-drift/ace/pkg/task"
)

type imageOpts struct {
	width   float64
	height  float64
	fit     string
	resize  bool
	timeout time.Duration
}

func newImageCmd(a *app) *cobra.Command {
	opts := imageOpts{width: 100, height: 100, timeout: defaultSettleTimeout}
	cmd := &cobra.Command{
		Use:   "image [src]",
		Short: "Load an image source and trace its loading states",
		Long: `Load src (a file path, file://, data: or memory: URI) through an image
loading context, ask for a canvas image of the given size and print every
state the loader passes through.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runImage(cmd.Context(), cmd.OutOrStdout(), args[0], opts)
		},
	}
	cmd.Flags().Float64Var(&opts.width, "width", opts.width, "destination width")
	cmd.Flags().Float64Var(&opts.height, "height", opts.height, "destination height")
	cmd.Flags().StringVar(&opts.fit, "fit", "cover", "image fit: fill, contain, cover, fit_width, fit_height, none, scale_down")
	cmd.Flags().BoolVar(&opts.resize, "resize", true, "decode at the destination size instead of the raw size")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", opts.timeout, "give up if loading has not finished by then")
	return cmd
}

func errExecutorStopped() error {
	return errors.New("acelayout", errors.KindTask, errors.ErrExecutorStopped)
}

func (a *app) runImage(ctx context.Context, out io.Writer, src string, opts imageOpts) error {
	fit, err := image.ParseFit(opts.fit)
	if err != nil {
		return errors.New("acelayout.image", errors.KindConfig, err)
	}
	dst := graphics.Size{Width: opts.width, Height: opts.height}

	executor := task.NewQueueExecutor(a.logger)
	runCtx, cancel := context.WithTimeout(ctx, opts.timeout)
	defer cancel()
	executor.Start(runCtx)
	defer executor.Stop()

	provider := image.NewProvider(image.ProviderOptions{
		Executor: executor,
		Cache:    image.NewCache(a.cfg.CacheEntries()),
		Logger:   a.logger,
	})

	var (
		loading *image.LoadingContext
		done    = make(chan error, 1)
	)
	finish := func(err error) {
		select {
		case done <- err:
		default:
		}
	}
	trace := func(src image.SourceInfo) {
		fmt.Fprintf(out, "%-20s %s\n", loading.State(), src)
	}
	notifier := image.Notifier{
		DataReady: func(src image.SourceInfo) {
			trace(src)
			fmt.Fprintf(out, "%-20s %v\n", "raw size", loading.ImageSize())
			loading.MakeCanvasImage(dst, opts.resize, fit)
			trace(src)
		},
		LoadSuccess: func(src image.SourceInfo) {
			trace(src)
			finish(nil)
		},
		LoadFail: func(src image.SourceInfo) {
			trace(src)
			finish(loading.Err())
		},
	}
	if !executor.PostSyncTask(func() {
		loading = image.NewLoadingContext(image.NewSourceInfo(src), provider, notifier)
		loading.SetViewScale(a.cfg.Scale().DipScale)
		loading.LoadImageData()
		trace(loading.SourceInfo())
	}, task.UI) {
		return errExecutorStopped()
	}

	select {
	case err := <-done:
		if err != nil {
			return err
		}
	case <-runCtx.Done():
		return fmt.Errorf("image did not load: %w", runCtx.Err())
	}

	var canvasSize graphics.Size
	var srcRect, dstRect graphics.Rect
	if !executor.PostSyncTask(func() {
		if img := loading.CanvasImage(); img != nil {
			canvasSize = img.Size()
		}
		srcRect, dstRect = loading.SrcRect(), loading.DstRect()
	}, task.UI) {
		return errExecutorStopped()
	}
	fmt.Fprintf(out, "%-20s %v\n", "canvas size", canvasSize)
	fmt.Fprintf(out, "%-20s %v -> %v\n", "fit "+fit.String(), srcRect, dstRect)
	return nil
}
