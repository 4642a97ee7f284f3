// Package cli wires the cobra command tree.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/precept-tool/precept/internal/infra/logger"
	"github.com/precept-tool/precept/internal/infra/repofinder"
	"github.com/precept-tool/precept/internal/ui/tui"
)

func Execute() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var debug bool
	var cleanupLog func() error

	cmd := &cobra.Command{
		Use:          "precept",
		Short:        "Precept manages and runs git pre-commit hooks",
		SilenceUsage: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			wd, err := os.Getwd()
			if err != nil {
				wd = "."
			}
			wd, _ = filepath.Abs(wd)

			logRoot := wd
			inRepo := false
			if root, ferr := repofinder.NewFinder().FindRoot(wd); ferr == nil && root != "" {
				logRoot = root
				inRepo = true
				if s, serr := repofinder.LoadSettings(root); serr == nil && s.Output.Color == "never" {
					lipgloss.SetColorProfile(termenv.Ascii)
				}
			}

			// Outside a repository only --debug warrants a log file.
			if !inRepo && !debug {
				return
			}
			cleanup, lerr := logger.Setup(logger.Config{
				Root:  logRoot,
				Debug: debug,
			})
			if lerr != nil {
				return
			}
			cleanupLog = cleanup
			if debug {
				fmt.Fprintf(os.Stderr, "debug log: %s\n", logger.Path())
			}
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if cleanupLog != nil {
				_ = cleanupLog()
				cleanupLog = nil
			}
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			deps := tui.Deps{
				RepoLocator: repofinder.NewFinder(),
				Logger:      logger.L(),
				Debug:       debug,
			}
			return tui.Run(deps)
		},
	}

	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable verbose logging to .precept/logs/precept.log")

	cmd.AddCommand(
		runCmd(),
		validateCmd(),
		hooksCmd(),
		runsCmd(),
		installCmd(),
		uninstallCmd(),
		sampleConfigCmd(),
		cleanCmd(),
		gcCmd(),
		versionCmd(),
	)
	return cmd
}
