package task

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/huh/spinner"
	"github.com/spf13/cobra"

	"ecosniper/internal/config"
	"ecosniper/internal/domain"
	"ecosniper/internal/notify"
	"ecosniper/internal/providers"
	"ecosniper/internal/retry"
	"ecosniper/internal/services/auth"
	"ecosniper/internal/taskstore"
)

func RunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <uid>",
		Short: "Attempt a queued task once, immediately",
		Long: `Run one immediate purchase attempt for a queued task, outside the
regular interval. The outcome is recorded on the task and in the order
history either way.

Example:
  ecosniper task run 6f1c9a0e-...`,
		Args:         cobra.ExactArgs(1),
		RunE:         runRun,
		SilenceUsage: true,
	}

	return cmd
}

func runRun(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	uid := args[0]

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	queue, err := openQueue()
	if err != nil {
		return err
	}
	defer queue.Close()

	record, err := queue.Get(uid)
	if err != nil {
		return err
	}
	if record == nil {
		return fmt.Errorf("no task with UID %s", uid)
	}
	if record.Status == taskstore.StatusCompleted {
		return fmt.Errorf("task %s already completed", uid)
	}

	provider, err := providers.Get("ovh", auth.DefaultStore())
	if err != nil {
		return err
	}

	var result *domain.OrderResult
	attemptErr := spinner.New().
		Title(fmt.Sprintf("Ordering %s in %s...", record.Spec.PlanCode, record.Spec.Datacenter)).
		Accessible(os.Getenv("ACCESSIBLE") != "").
		Output(cmd.ErrOrStderr()).
		ActionWithErr(func(ctx context.Context) error {
			// One purchase attempt; transient transport hiccups within it
			// are retried, a sold-out datacenter is not.
			return retry.Do(ctx, retry.DefaultConfig(), retry.IsRetryable, func() error {
				var placeErr error
				result, placeErr = provider.PlaceOrder(ctx, record.Spec.OrderRequest())
				return placeErr
			})
		}).
		Run()

	notifier := buildNotifier(cfg, auth.DefaultStore())

	if attemptErr != nil {
		if errors.Is(attemptErr, context.Canceled) {
			return attemptErr
		}
		if err := queue.RecordAttempt(uid, taskstore.StatusError, attemptErr.Error()); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
		}
		if _, err := queue.AddOrder(taskstore.OrderRecord{
			PlanCode:   record.Spec.PlanCode,
			Name:       record.Spec.Name,
			Datacenter: record.Spec.Datacenter,
			Status:     taskstore.OrderStatusFailed,
			Error:      attemptErr.Error(),
		}); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
		}
		sendNotification(ctx, notifier, cmd.ErrOrStderr(), notify.Event{
			Title: "Purchase attempt failed",
			Body:  fmt.Sprintf("%s in %s: %v", record.Spec.PlanCode, record.Spec.Datacenter, attemptErr),
		})
		return fmt.Errorf("purchase attempt failed: %w", attemptErr)
	}

	message := fmt.Sprintf("order %s placed at %s", result.OrderID, time.Now().UTC().Format(time.RFC3339))
	if err := queue.RecordAttempt(uid, taskstore.StatusCompleted, message); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
	}
	if _, err := queue.AddOrder(taskstore.OrderRecord{
		PlanCode:   record.Spec.PlanCode,
		Name:       record.Spec.Name,
		Datacenter: record.Spec.Datacenter,
		Status:     taskstore.OrderStatusSuccess,
		OrderID:    result.OrderID,
		OrderURL:   result.OrderURL,
	}); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
	}

	sendNotification(ctx, notifier, cmd.ErrOrStderr(), notify.Event{
		Title: "Order placed",
		Body:  fmt.Sprintf("%s in %s\nOrder %s\n%s", record.Spec.PlanCode, record.Spec.Datacenter, result.OrderID, result.OrderURL),
	})

	fmt.Fprintf(cmd.OutOrStdout(), "Order %s placed for %s in %s\n", result.OrderID, record.Spec.PlanCode, record.Spec.Datacenter)
	if result.OrderURL != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "Complete payment at: %s\n", result.OrderURL)
	}
	if wanted := len(record.Spec.Options); result.OptionsAdded < wanted {
		fmt.Fprintf(cmd.OutOrStdout(), "Note: %d of %d hardware options were accepted\n", result.OptionsAdded, wanted)
	}
	return nil
}
