package order

import (
	"fmt"

	"github.com/spf13/cobra"

	"ecosniper/internal/taskstore"
)

func ClearCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove the entire order history",
		Long: `Remove every entry from the order history.

Example:
  ecosniper order clear`,
		Args:         cobra.ExactArgs(0),
		RunE:         runClear,
		SilenceUsage: true,
	}

	return cmd
}

func runClear(cmd *cobra.Command, args []string) error {
	queue, err := taskstore.Open()
	if err != nil {
		return fmt.Errorf("failed to open order history: %w", err)
	}
	defer queue.Close()

	n, err := queue.ClearOrders()
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %d order(s)\n", n)
	return nil
}
