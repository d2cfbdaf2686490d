package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/TimelordUK/cpg/internal/config"
	"github.com/TimelordUK/cpg/internal/logging"
	"github.com/TimelordUK/cpg/internal/pager"
	"github.com/TimelordUK/cpg/internal/record"
	"github.com/TimelordUK/cpg/internal/render"
	"github.com/TimelordUK/cpg/internal/source"
	"github.com/TimelordUK/cpg/internal/ui"
	"github.com/TimelordUK/cpg/internal/view"
	"github.com/TimelordUK/cpg/pkg/logformat"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
)

type rootOptions struct {
	cfgFile string
	follow  bool
	format  string
}

// NewRootCommand creates the root command
func NewRootCommand(version string) *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "cpg [file]",
		Short: "Context pager for record streams",
		Long: `cpg pages through record-delimited output such as git log -p and keeps
the header of the record under the cursor pinned above the text.

Input is read from the named file or, without one, from standard input
while it is still being produced.`,
		Example: `  git log -p | cpg
  cpg --follow build/changes.patch`,
		Args:          cobra.MaximumNArgs(1),
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := source.Stdin
			if len(args) == 1 {
				path = args[0]
			}
			return run(cmd.Context(), opts, path)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&opts.cfgFile, "config", "c", "", "config file path")
	rootCmd.Flags().BoolVarP(&opts.follow, "follow", "f", false, "keep reading the file as it grows")
	rootCmd.Flags().StringVar(&opts.format, "format", logformat.Git, "record format")

	rootCmd.AddCommand(newConfigCommand(opts))
	rootCmd.AddCommand(newFormatsCommand(opts))

	return rootCmd
}

// loadConfig reads the named config file, or the default one
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file: %w", err)
	}
	return config.LoadFile(path)
}

func run(ctx context.Context, opts *rootOptions, path string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig(opts.cfgFile)
	if err != nil {
		return err
	}
	cfg.ApplyEnv(os.Getenv)

	logger, closer, err := logging.New(cfg.Diagnostics)
	if err != nil {
		return err
	}
	defer closer.Close()

	format, err := logformat.Lookup(opts.format, cfg.Formats)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	in, err := source.Open(ctx, source.OpenOptions{
		Path:            path,
		Follow:          opts.follow,
		StdinIsTerminal: term.IsTerminal(int(os.Stdin.Fd())),
	})
	if err != nil {
		return err
	}

	width, height := terminalSize()
	logger.Debug("starting", "input", in.Name(), "format", format.Name(), "width", width, "height", height)

	results := source.Stream(ctx, in, source.StreamOptions{
		BatchSize: height * cfg.Stream.BatchFactor,
		Capacity:  cfg.Stream.ChannelCapacity,
		Logger:    logger,
		// the reader goroutine owns the input; a read blocked on stdin is
		// left to process exit
		Closer: in,
	})

	vp := view.NewViewport(width, height)
	vp.SetRenderer(render.New(format.Name(), cfg.Display.Highlight, cfg.Display.SyntaxTheme))
	vp.SetStyles(cfg.Theme.LineNumbers, cfg.Theme.SearchMatch)
	vp.SetShowLineNumbers(cfg.Display.ShowLineNumbers)

	controller := pager.New(results, record.NewFinder(format), vp, pager.Options{
		Name:   in.Name(),
		Logger: logger,
	})
	if err := controller.Start(startupTimeout(opts.follow, cfg)); err != nil {
		return err
	}

	model := ui.NewModel(controller, ui.Options{
		Config: cfg,
		Name:   in.Name(),
		Logger: logger,
		Width:  width,
		Height: height,
	})

	progOpts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithInputTTY()}
	if cfg.Display.Mouse {
		progOpts = append(progOpts, tea.WithMouseCellMotion())
	}

	p := tea.NewProgram(model, progOpts...)
	if _, err := p.Run(); err != nil {
		return err
	}
	return model.Err()
}

// startupTimeout is the wait for the first batch. A followed file may
// not have been written yet, so follow mode does not wait.
func startupTimeout(follow bool, cfg *config.Config) time.Duration {
	if follow {
		return 0
	}
	return cfg.Stream.StartupTimeout()
}

// terminalSize returns the size of the output terminal, or a default
// when output is not a terminal
func terminalSize() (int, int) {
	width, height, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 || height <= 0 {
		return defaultWidth, defaultHeight
	}
	return width, height
}
