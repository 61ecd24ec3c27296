package task

import (
	"fmt"

	"github.com/spf13/cobra"
)

func RetryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "retry <uid>",
		Short: "Re-queue an exhausted or failed task",
		Long: `Reset a task's retry bookkeeping: the status goes back to queued and
the attempt counter to zero, so the executor picks it up again on the
next interval.

Example:
  ecosniper task retry 6f1c9a0e-...`,
		Args:         cobra.ExactArgs(1),
		RunE:         runRetry,
		SilenceUsage: true,
	}

	return cmd
}

func runRetry(cmd *cobra.Command, args []string) error {
	queue, err := openQueue()
	if err != nil {
		return err
	}
	defer queue.Close()

	if err := queue.Reset(args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Task %s re-queued\n", args[0])
	return nil
}
