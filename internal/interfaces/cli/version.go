package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newVersionCommand creates `pharmalens version`.
func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "pharmalens %s\ncommit: %s\nbuilt:  %s\n",
				Version, GitCommit, BuildDate)
		},
	}
}
