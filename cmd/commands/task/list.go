package task

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	tasklib "ecosniper/internal/task"
)

func ListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List queued purchase tasks",
		Long: `List all purchase tasks with their status and retry bookkeeping.

Example:
  ecosniper task list`,
		Args:         cobra.ExactArgs(0),
		RunE:         runList,
		SilenceUsage: true,
	}

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	queue, err := openQueue()
	if err != nil {
		return err
	}
	defer queue.Close()

	records, err := queue.List()
	if err != nil {
		return err
	}

	if len(records) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No purchase tasks queued.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "UID\tNAME\tDATACENTER\tSTATUS\tATTEMPTS\tINTERVAL\tMESSAGE")
	for _, r := range records {
		budget := "unlimited"
		if r.Spec.MaxAttempts != tasklib.UnlimitedAttempts {
			budget = fmt.Sprintf("%d", r.Spec.MaxAttempts)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d/%s\t%ds\t%s\n",
			r.UID, r.Spec.Name, r.Spec.Datacenter, r.Status,
			r.RetryCount, budget, r.Spec.IntervalSeconds, r.Message)
	}
	return w.Flush()
}
