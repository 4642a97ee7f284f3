package cli

import (
	"fmt"

	"github.com/precept-tool/precept/internal/domain"
	"github.com/spf13/cobra"
)

func installCmd() *cobra.Command {
	var repo string
	var hookType string
	var force bool

	c := &cobra.Command{
		Use:   "install",
		Short: "Install the git hook script that runs precept on commit",
		RunE: func(_ *cobra.Command, _ []string) error {
			stage, err := parseHookType(hookType)
			if err != nil {
				return err
			}

			proj, err := loadProject(repo)
			if err != nil {
				return err
			}

			if err := proj.installer.Install(proj.root, stage, force); err != nil {
				return err
			}

			fmt.Printf("installed %s hook\n", stage)
			return nil
		},
	}

	c.Flags().StringVarP(&repo, "repo", "r", "", "Repository root (optional; autodetected if omitted)")
	c.Flags().StringVarP(&hookType, "hook-type", "t", string(domain.StagePreCommit), "Hook to install: pre-commit|pre-push")
	c.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing hook script without preserving it")
	return c
}

func uninstallCmd() *cobra.Command {
	var repo string
	var hookType string

	c := &cobra.Command{
		Use:   "uninstall",
		Short: "Remove the precept hook script and restore any preserved one",
		RunE: func(_ *cobra.Command, _ []string) error {
			stage, err := parseHookType(hookType)
			if err != nil {
				return err
			}

			proj, err := loadProject(repo)
			if err != nil {
				return err
			}

			if err := proj.installer.Uninstall(proj.root, stage); err != nil {
				return err
			}

			fmt.Printf("uninstalled %s hook\n", stage)
			return nil
		},
	}

	c.Flags().StringVarP(&repo, "repo", "r", "", "Repository root (optional; autodetected if omitted)")
	c.Flags().StringVarP(&hookType, "hook-type", "t", string(domain.StagePreCommit), "Hook to uninstall: pre-commit|pre-push")
	return c
}

// parseHookType restricts --hook-type to the stages we install scripts for.
func parseHookType(s string) (domain.Stage, error) {
	switch st := domain.Stage(s); st {
	case domain.StagePreCommit, domain.StagePrePush:
		return st, nil
	}
	return "", fmt.Errorf("invalid hook type %q (expected pre-commit|pre-push)", s)
}
