package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/spf13/cobra"
)

func runsCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "runs",
		Short: "Inspect persisted run artifacts",
	}

	c.AddCommand(runsListCmd(), runsShowCmd())
	return c
}

func runsListCmd() *cobra.Command {
	var repo string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved runs, newest first",
		RunE: func(_ *cobra.Command, _ []string) error {
			proj, err := loadProject(repo)
			if err != nil {
				return err
			}

			refs, err := proj.store.ListRuns()
			if err != nil {
				return err
			}

			if len(refs) == 0 {
				fmt.Println("(no runs saved)")
				return nil
			}

			for _, r := range refs {
				status := "ok"
				if r.Failures > 0 {
					status = fmt.Sprintf("%d failed", r.Failures)
				}
				fmt.Printf("- %s  %s  %s  (%s)\n", r.ID, r.Stage, r.StartedAt.Format(time.RFC3339), status)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&repo, "repo", "r", "", "Repository root (optional; autodetected if omitted)")
	return cmd
}

func runsShowCmd() *cobra.Command {
	var repo string
	var query string

	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show a saved run, optionally narrowed by a JSONPath query",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			proj, err := loadProject(repo)
			if err != nil {
				return err
			}

			run, err := proj.store.LoadRun(args[0])
			if err != nil {
				return err
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")

			if query == "" {
				return enc.Encode(run)
			}

			// Round-trip to generic types so jsonpath can walk the document.
			b, err := json.Marshal(run)
			if err != nil {
				return err
			}
			var doc any
			if err := json.Unmarshal(b, &doc); err != nil {
				return err
			}

			val, err := jsonpath.Get(query, doc)
			if err != nil {
				return fmt.Errorf("query %q: %w", query, err)
			}
			return enc.Encode(val)
		},
	}

	cmd.Flags().StringVarP(&repo, "repo", "r", "", "Repository root (optional; autodetected if omitted)")
	cmd.Flags().StringVarP(&query, "query", "q", "", `JSONPath over the artifact, e.g. $.Results[?(@.Status=="failed")].ID`)
	return cmd
}
