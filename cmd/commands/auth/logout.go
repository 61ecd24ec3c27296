package auth

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"ecosniper/internal/services/auth"
)

func LogoutCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Remove all stored credentials",
		Long: `Remove the OVH API credentials and the Telegram bot token from the
keychain.

Example:
  ecosniper auth logout`,
		Args: cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			store := auth.DefaultStore()

			if err := auth.DeleteOVHCredentials(store); err != nil {
				return err
			}
			if err := store.DeleteSecret(auth.KeyTelegramBotToken); err != nil &&
				!errors.Is(err, auth.ErrSecretNotFound) {
				return fmt.Errorf("failed to delete telegram token: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Removed stored credentials")
			return nil
		},
		SilenceUsage: true,
	}

	return cmd
}
