package cli

import (
	"fmt"

	"github.com/precept-tool/precept/internal/buildinfo"
	"github.com/spf13/cobra"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(_ *cobra.Command, _ []string) error {
			fmt.Println(buildinfo.String())
			return nil
		},
	}
}
