package main

import (
	"fmt"
	"io"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/handiism/music-usher/internal/config"
	"github.com/handiism/music-usher/internal/logging"
	"github.com/handiism/music-usher/internal/organize"
)

func newRootCommand() *cobra.Command {
	var (
		configFlag  string
		summaryFlag bool
		overrides   config.Overrides
	)

	rootCmd := &cobra.Command{
		Use:   "music-usher [flags] <source> <target>",
		Short: "Sort audio files into Artist/Album folders",
		Long: `music-usher reads the tags of every .mp3 and .ogg file below <source> and
copies (or moves) it to <target>/<Artist>/<Album>/<Track#>. <Title>.<ext>.
Existing files are never overwritten: a counter is appended instead.

For interactive mode, use: music-usher-tui`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := config.Resolve(configFlag)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := overrides.Apply(cmd.Flags(), settings); err != nil {
				return err
			}
			return run(cmd, settings, args[0], args[1], summaryFlag)
		},
	}

	flags := rootCmd.Flags()
	flags.StringVarP(&configFlag, "config", "c", "", "Configuration file path (TOML)")
	flags.BoolVar(&summaryFlag, "summary", false, "Print a table of the organized albums")
	overrides.Register(flags)

	return rootCmd
}

func run(cmd *cobra.Command, settings *config.Settings, source, target string, summary bool) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	logger, err := logging.New(settings.ToLogConfig(cmd.ErrOrStderr()))
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	logger.Debug("settings resolved",
		zap.String("source", source),
		zap.String("target", target),
		zap.Bool("simulate", settings.Simulate),
		zap.Bool("move", settings.Move),
		zap.Int("workers", settings.Workers),
	)

	manager := organize.NewManager(settings, nil, logger, newPrinter(out, settings.Verbose || settings.Simulate))

	fmt.Fprintln(out, "🎵 Music Usher")
	fmt.Fprintln(out, "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Fprintln(out)

	if err := manager.Initialize(ctx, source); err != nil {
		return err
	}

	fmt.Fprintln(out)
	if err := manager.StartExport(ctx, target); err != nil {
		return err
	}

	if summary {
		fmt.Fprintln(out)
		fmt.Fprintln(out, renderSummary(manager.Summary()))
	}

	exported, _, files, totalFiles := manager.GetProgress()
	fmt.Fprintln(out)
	fmt.Fprintln(out, "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	if settings.Simulate {
		fmt.Fprintf(out, "✨ Simulation complete: %d/%d files (%s) would be organized\n", files, totalFiles, humanize.Bytes(uint64(exported)))
	} else {
		fmt.Fprintf(out, "✨ Complete! Organized %d/%d files (%s)\n", files, totalFiles, humanize.Bytes(uint64(exported)))
	}
	if renamed := manager.Renamed(); renamed > 0 {
		fmt.Fprintf(out, "   %d file(s) renamed to avoid overwriting\n", renamed)
	}
	return nil
}

// newPrinter returns a progress callback writing one line per event.
func newPrinter(w io.Writer, verbose bool) func(organize.ProgressEvent) {
	var mu sync.Mutex
	return func(event organize.ProgressEvent) {
		if event.Level == organize.LevelVerbose && !verbose {
			return
		}

		var prefix string
		switch event.Level {
		case organize.LevelError:
			prefix = "❌ "
		case organize.LevelWarning:
			prefix = "⚠️  "
		case organize.LevelSuccess:
			prefix = "✅ "
		case organize.LevelInfo:
			prefix = "ℹ️  "
		default:
			prefix = "   "
		}

		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintln(w, prefix+event.Message)
	}
}
