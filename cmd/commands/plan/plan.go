package plan

import (
	"github.com/spf13/cobra"
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Browse eco plans and their availability",
		Long: `Browse the eco dedicated server catalog and check per-datacenter
stock for a plan, optionally narrowed to an exact hardware configuration.`,
	}

	cmd.AddCommand(ListCommand())
	cmd.AddCommand(CheckCommand())

	return cmd
}
