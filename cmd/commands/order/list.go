package order

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"ecosniper/internal/taskstore"
)

func ListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List past purchase attempts",
		Long: `List the order history, newest first.

Example:
  ecosniper order list`,
		Args:         cobra.ExactArgs(0),
		RunE:         runList,
		SilenceUsage: true,
	}

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	queue, err := taskstore.Open()
	if err != nil {
		return fmt.Errorf("failed to open order history: %w", err)
	}
	defer queue.Close()

	records, err := queue.ListOrders()
	if err != nil {
		return err
	}

	if len(records) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No orders recorded.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "WHEN\tPLAN\tDATACENTER\tSTATUS\tORDER\tDETAIL")
	for _, r := range records {
		detail := r.OrderURL
		if r.Status == taskstore.OrderStatusFailed {
			detail = r.Error
		}
		orderID := r.OrderID
		if orderID == "" {
			orderID = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.CreatedAt.Local().Format(time.DateTime),
			r.PlanCode, r.Datacenter, r.Status, orderID, detail)
	}
	return w.Flush()
}
