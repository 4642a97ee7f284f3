package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func cleanCmd() *cobra.Command {
	var repo string

	c := &cobra.Command{
		Use:   "clean",
		Short: "Remove the whole hook repository cache",
		RunE: func(_ *cobra.Command, _ []string) error {
			proj, err := loadProject(repo)
			if err != nil {
				return err
			}

			if err := proj.repos.Clean(); err != nil {
				return err
			}
			fmt.Println("cache cleaned")
			return nil
		},
	}

	c.Flags().StringVarP(&repo, "repo", "r", "", "Repository root (optional; autodetected if omitted)")
	return c
}

func gcCmd() *cobra.Command {
	var repo string
	var config string

	c := &cobra.Command{
		Use:   "gc",
		Short: "Remove cached hook repositories the configuration no longer pins",
		RunE: func(_ *cobra.Command, _ []string) error {
			proj, err := loadProject(repo)
			if err != nil {
				return err
			}

			cfg, err := proj.configs.LoadConfig(resolveConfigPath(proj.root, config))
			if err != nil {
				return err
			}

			removed, err := proj.repos.GC(cfg.HookRefs())
			if err != nil {
				return err
			}
			fmt.Printf("removed %d cached repo(s)\n", removed)
			return nil
		},
	}

	c.Flags().StringVarP(&repo, "repo", "r", "", "Repository root (optional; autodetected if omitted)")
	c.Flags().StringVarP(&config, "config", "c", "", "Config path relative to the repo root (default .pre-commit-config.yaml)")
	return c
}
