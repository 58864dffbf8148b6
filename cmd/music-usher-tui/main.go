package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/handiism/music-usher/internal/config"
	"github.com/handiism/music-usher/internal/logging"
	"github.com/handiism/music-usher/internal/tui"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var (
		configFlag string
		overrides  config.Overrides
	)

	rootCmd := &cobra.Command{
		Use:           "music-usher-tui [flags] [source] [target]",
		Short:         "Interactive music-usher",
		Args:          cobra.MaximumNArgs(2),
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

			// The terminal belongs to the UI; logs only go to the log file.
			logger, err := logging.New(settings.ToLogConfig(io.Discard))
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			var source, target string
			if len(args) > 0 {
				source = args[0]
			}
			if len(args) > 1 {
				target = args[1]
			}
			return tui.Run(source, target, settings, logger)
		},
	}

	rootCmd.Flags().StringVarP(&configFlag, "config", "c", "", "Configuration file path (TOML)")
	overrides.Register(rootCmd.Flags())

	return rootCmd
}
