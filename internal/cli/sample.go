package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

const sampleConfig = `repos:
  - repo: https://github.com/PyCQA/flake8
    rev: 5.0.4
    hooks:
      - id: flake8
  - repo: https://github.com/PyCQA/isort
    rev: 5.11.5
    hooks:
      - id: isort
  - repo: https://github.com/codespell-project/codespell
    rev: v2.2.1
    hooks:
      - id: codespell
  - repo: https://github.com/executablebooks/mdformat
    rev: 0.7.9
    hooks:
      - id: mdformat
        additional_dependencies:
          - mdformat-openmmlab
          - mdformat_frontmatter
          - linkify-it-py
  - repo: meta
    hooks:
      - id: check-hooks-apply
      - id: check-useless-excludes
`

func sampleConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sample-config",
		Short: "Print a starter .pre-commit-config.yaml",
		RunE: func(_ *cobra.Command, _ []string) error {
			fmt.Print(sampleConfig)
			return nil
		},
	}
}
