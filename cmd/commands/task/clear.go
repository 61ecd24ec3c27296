package task

import (
	"fmt"

	"github.com/spf13/cobra"
)

func ClearCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove all purchase tasks",
		Long: `Remove every purchase task from the queue. The order history is
untouched; use "order clear" for that.

Example:
  ecosniper task clear`,
		Args:         cobra.ExactArgs(0),
		RunE:         runClear,
		SilenceUsage: true,
	}

	return cmd
}

func runClear(cmd *cobra.Command, args []string) error {
	queue, err := openQueue()
	if err != nil {
		return err
	}
	defer queue.Close()

	n, err := queue.Clear()
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %d task(s)\n", n)
	return nil
}
