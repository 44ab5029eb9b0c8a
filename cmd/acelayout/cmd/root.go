// Package cmd implements the acelayout commands.
//
// The root command loads ace.yaml (from --config or the working directory)
// and builds the logger every subcommand uses:
//
//	acelayout layout tree.yaml --png out.png
//	acelayout image photo.png --width 100 --height 100 --fit cover
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/go-drift/ace/pkg/config"
	"github.com/go-drift/ace/pkg/errors"
	"github.com/go-drift/ace/pkg/logging"
)

// Version information set at build time.
var (
	Version   = "0.1.0-dev"
	BuildTime = "unknown"
)

// app is the state shared by the subcommands once the root has run.
type app struct {
	configPath string
	logLevel   string
	verbose    bool

	cfg    *config.Config
	logger *log.Logger
}

// Execute runs the CLI with os.Args.
func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "acelayout",
		Short: "Lay out and render frame node trees",
		Long: `acelayout mounts a YAML description of a frame node tree into a
pipeline context, runs frames until the tree settles and prints the
resulting geometry.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd)
		},
	}
	root.SetVersionTemplate(fmt.Sprintf("acelayout %s (built %s)\n", Version, BuildTime))
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "path to ace.yaml (default: ./ace.yaml if present)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level, overrides log.level from the config")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newLayoutCmd(a))
	root.AddCommand(newImageCmd(a))
	return root
}

func (a *app) load(cmd *cobra.Command) error {
	var err error
	if a.configPath != "" {
		a.cfg, err = config.Load(a.configPath)
	} else {
		var dir string
		if dir, err = os.Getwd(); err == nil {
			a.cfg, err = config.LoadOptional(dir)
		}
	}
	if err != nil {
		return err
	}

	level := a.cfg.Log.Level
	if a.logLevel != "" {
		level = a.logLevel
	}
	lvl := logging.ParseLevel(level)
	if a.verbose {
		lvl = log.DebugLevel
	}
	a.logger = logging.New(cmd.ErrOrStderr(), lvl)
	logging.SetDefault(a.logger)
	errors.SetHandler(&errors.LogHandler{Logger: a.logger, Verbose: a.verbose})
	cmd.SetContext(logging.WithLogger(cmd.Context(), a.logger))
	a.logger.Debug("config loaded", "app", a.cfg.AppName("."), "frame_interval", a.cfg.Engine.FrameInterval)
	return nil
}
