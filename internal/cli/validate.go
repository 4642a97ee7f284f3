package cli

import (
	"fmt"

	"github.com/precept-tool/precept/internal/usecase"
	"github.com/spf13/cobra"
)

func validateCmd() *cobra.Command {
	var repo string
	var config string

	c := &cobra.Command{
		Use:   "validate",
		Short: "Validate the hook configuration without running anything",
		RunE: func(cmd *cobra.Command, _ []string) error {
			proj, err := loadProject(repo)
			if err != nil {
				return err
			}

			uc := usecase.NewValidateConfig(proj.configs)
			cfg, err := uc.Execute(cmd.Context(), resolveConfigPath(proj.root, config))
			if err != nil {
				return err
			}

			hooks := 0
			for _, r := range cfg.Repos {
				hooks += len(r.Hooks)
			}
			fmt.Printf("OK (%d repo(s), %d hook(s))\n", len(cfg.Repos), hooks)
			return nil
		},
	}

	c.Flags().StringVarP(&repo, "repo", "r", "", "Repository root (optional; autodetected if omitted)")
	c.Flags().StringVarP(&config, "config", "c", "", "Config path relative to the repo root (default .pre-commit-config.yaml)")
	return c
}
