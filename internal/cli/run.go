package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/precept-tool/precept/internal/domain"
	"github.com/precept-tool/precept/internal/usecase"
	"github.com/spf13/cobra"
)

func runCmd() *cobra.Command {
	var repo string
	var config string
	var stage string
	var allFiles bool
	var files []string
	var failFast bool
	var noSave bool
	var format string

	c := &cobra.Command{
		Use:   "run [hook-id]",
		Short: "Run configured hooks against staged files",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			proj, err := loadProject(repo)
			if err != nil {
				return err
			}

			selector := ""
			if len(args) == 1 {
				selector = args[0]
			}

			var store = proj.store
			if noSave {
				store = nil
			}

			uc := usecase.NewRunHooks(proj.configs, proj.git, proj.repos, proj.runner, store)

			run, runID, err := uc.Execute(cmd.Context(), usecase.RunOptions{
				ConfigPath: resolveConfigPath(proj.root, config),
				RepoRoot:   proj.root,
				Stage:      resolveStage(stage, proj.settings),
				AllFiles:   allFiles,
				Files:      files,
				Selector:   selector,
				FailFast:   failFast,
			})
			if err != nil {
				_ = printRun(os.Stdout, run, runID, format)
				return err
			}

			if err := printRun(os.Stdout, run, runID, format); err != nil {
				return err
			}

			if fails := run.Failures(); fails > 0 {
				return fmt.Errorf("run failed (%d failed hook(s))", fails)
			}
			return nil
		},
	}

	c.Flags().StringVarP(&repo, "repo", "r", "", "Repository root (optional; autodetected if omitted)")
	c.Flags().StringVarP(&config, "config", "c", "", "Config path relative to the repo root (default .pre-commit-config.yaml)")
	c.Flags().StringVar(&stage, "hook-stage", "", "Stage to run: pre-commit|pre-push|manual")
	c.Flags().BoolVarP(&allFiles, "all-files", "a", false, "Run on all tracked files instead of the staged set")
	c.Flags().StringSliceVar(&files, "files", nil, "Explicit file list, bypassing git discovery")
	c.Flags().BoolVar(&failFast, "fail-fast", false, "Stop after the first failing hook")
	c.Flags().BoolVar(&noSave, "no-save", false, "Do not save a run artifact")
	c.Flags().StringVar(&format, "format", "pretty", "Output format: pretty|json")
	return c
}

func resolveStage(flag string, settings domain.Settings) domain.Stage {
	if flag != "" {
		return domain.Stage(flag)
	}
	if settings.Defaults.Stage != "" {
		return settings.Defaults.Stage
	}
	return domain.StagePreCommit
}

func printRun(w io.Writer, run domain.RunResult, runID string, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		payload := map[string]any{
			"run_id": runID,
			"run":    run,
		}
		return enc.Encode(payload)
	case "pretty", "":
		printPrettyRun(w, run, runID)
		return nil
	default:
		return fmt.Errorf("unsupported format %q (expected pretty|json)", format)
	}
}

func printPrettyRun(w io.Writer, run domain.RunResult, runID string) {
	total := run.EndedAt.Sub(run.StartedAt)
	if run.StartedAt.IsZero() || run.EndedAt.IsZero() {
		total = 0
	}

	fmt.Fprintf(w, "Stage:    %s\n", run.Stage)
	fmt.Fprintf(w, "Started:  %s\n", run.StartedAt.Format(time.RFC3339))
	fmt.Fprintf(w, "Duration: %s\n", total)
	if runID != "" {
		fmt.Fprintf(w, "Run ID:   %s\n", runID)
	}
	fmt.Fprintln(w)

	for _, r := range run.Results {
		line := r.Name + statusDots(r.Name, r.Status) + statusLabel(r.Status)
		if r.DurationMS > 0 {
			line += fmt.Sprintf(" (%dms)", r.DurationMS)
		}
		fmt.Fprintln(w, line)

		if r.Error != nil {
			fmt.Fprintf(w, "  error: %s (%s)\n", r.Error.Message, r.Error.Kind)
		}
		if len(r.Output) > 0 && r.Failed() {
			for _, line := range splitOutput(r.Output) {
				fmt.Fprintf(w, "  %s\n", line)
			}
			if r.Truncated {
				fmt.Fprintf(w, "  ... output truncated\n")
			}
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%d passed, %d failed, %d skipped\n",
		countStatus(run, domain.StatusPassed),
		run.Failures(),
		countStatus(run, domain.StatusSkipped))
}

const dotColumn = 60

func statusDots(name string, status domain.HookStatus) string {
	n := dotColumn - len(name) - len(statusLabel(status))
	if n < 3 {
		n = 3
	}
	dots := make([]byte, n)
	for i := range dots {
		dots[i] = '.'
	}
	return string(dots)
}

func statusLabel(status domain.HookStatus) string {
	switch status {
	case domain.StatusPassed:
		return "Passed"
	case domain.StatusFailed:
		return "Failed"
	case domain.StatusSkipped:
		return "Skipped"
	case domain.StatusErrored:
		return "Errored"
	}
	return string(status)
}

func countStatus(run domain.RunResult, status domain.HookStatus) int {
	n := 0
	for _, r := range run.Results {
		if r.Status == status {
			n++
		}
	}
	return n
}

func splitOutput(out []byte) []string {
	var lines []string
	cur := 0
	for i, b := range out {
		if b == '\n' {
			lines = append(lines, string(out[cur:i]))
			cur = i + 1
		}
	}
	if cur < len(out) {
		lines = append(lines, string(out[cur:]))
	}
	return lines
}
