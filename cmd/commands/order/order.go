package order

import (
	"github.com/spf13/cobra"
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "order",
		Short: "View the order history",
		Long: `View the history of purchase attempts. Repeated failures for one
plan/datacenter target collapse into the latest entry; successes are kept
alongside.`,
	}

	cmd.AddCommand(ListCommand())
	cmd.AddCommand(ClearCommand())

	return cmd
}
