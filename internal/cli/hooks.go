package cli

import (
	"fmt"

	"github.com/precept-tool/precept/internal/domain"
	"github.com/spf13/cobra"
)

func hooksCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "hooks",
		Short: "Inspect configured hooks",
	}

	c.AddCommand(hooksListCmd())
	return c
}

func hooksListCmd() *cobra.Command {
	var repo string
	var config string
	var stage string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List hooks from the configuration",
		RunE: func(_ *cobra.Command, _ []string) error {
			proj, err := loadProject(repo)
			if err != nil {
				return err
			}

			cfg, err := proj.configs.LoadConfig(resolveConfigPath(proj.root, config))
			if err != nil {
				return err
			}

			refs := cfg.HookRefs()
			if stage != "" {
				var filtered []domain.HookRef
				for _, ref := range refs {
					if ref.Hook.RunsAt(domain.Stage(stage), cfg.DefaultStages) {
						filtered = append(filtered, ref)
					}
				}
				refs = filtered
			}

			if len(refs) == 0 {
				fmt.Println("(no hooks configured)")
				return nil
			}

			for _, ref := range refs {
				origin := ref.RepoURL
				if ref.Rev != "" {
					origin = fmt.Sprintf("%s @ %s", ref.RepoURL, ref.Rev)
				}
				fmt.Printf("- %s  (%s)\n", ref.Hook.ID, origin)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&repo, "repo", "r", "", "Repository root (optional; autodetected if omitted)")
	cmd.Flags().StringVarP(&config, "config", "c", "", "Config path relative to the repo root (default .pre-commit-config.yaml)")
	cmd.Flags().StringVar(&stage, "hook-stage", "", "Only list hooks that run at this stage")
	return cmd
}
