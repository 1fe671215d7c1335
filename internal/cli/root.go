package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the top-level "campstats" command.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "campstats",
		Short:         "Bootcamp docs server with curriculum statistics",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newServeCmd(),
		newReportCmd(),
		newVersionCmd(),
	)

	return root
}
