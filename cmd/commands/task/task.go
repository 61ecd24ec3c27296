package task

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"ecosniper/internal/config"
	"ecosniper/internal/notify"
	"ecosniper/internal/services/auth"
	"ecosniper/internal/taskstore"
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage purchase tasks",
		Long: `Manage the queue of purchase tasks. A task targets one plan
configuration in one datacenter and is retried on the configured interval
until a server is secured or the attempt budget runs out.`,
	}

	cmd.AddCommand(CreateCommand())
	cmd.AddCommand(ListCommand())
	cmd.AddCommand(RunCommand())
	cmd.AddCommand(DeleteCommand())
	cmd.AddCommand(RetryCommand())
	cmd.AddCommand(ClearCommand())

	return cmd
}

// openQueue opens the task queue at the default path.
func openQueue() (*taskstore.SQLiteQueue, error) {
	queue, err := taskstore.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open task queue: %w", err)
	}
	return queue, nil
}

// buildNotifier assembles the configured notification sinks, or nil when
// none is configured. Telegram is the only sink today; further sinks just
// append to the fan-out.
func buildNotifier(cfg *config.Config, secrets auth.Store) notify.Notifier {
	var sinks notify.Multi

	if cfg.TelegramChatID != "" {
		if token, err := secrets.GetSecret(auth.KeyTelegramBotToken); err == nil {
			if telegram, err := notify.NewTelegram(token, cfg.TelegramChatID); err == nil {
				sinks = append(sinks, telegram)
			}
		}
	}

	if len(sinks) == 0 {
		return nil
	}
	return sinks
}

// sendNotification delivers an event best-effort; failures are reported on
// errOut and never propagate.
func sendNotification(ctx context.Context, n notify.Notifier, errOut io.Writer, event notify.Event) {
	if n == nil {
		return
	}
	if err := n.Notify(ctx, event); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(errOut, "warning: notification not delivered: %v\n", err)
	}
}
