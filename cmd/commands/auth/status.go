package auth

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"ecosniper/internal/services/auth"
)

func StatusCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show which credentials are stored",
		Long: `Show which API credentials are present in the keychain.

Example:
  ecosniper auth status`,
		Args: cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			store := auth.DefaultStore()

			secrets := []struct {
				name, label string
			}{
				{auth.KeyOVHApplicationKey, "OVH application key"},
				{auth.KeyOVHApplicationSecret, "OVH application secret"},
				{auth.KeyOVHConsumerKey, "OVH consumer key"},
				{auth.KeyTelegramBotToken, "Telegram bot token"},
			}

			for _, s := range secrets {
				_, err := store.GetSecret(s.name)
				switch {
				case err == nil:
					fmt.Fprintf(cmd.OutOrStdout(), "%s: stored\n", s.label)
				case errors.Is(err, auth.ErrSecretNotFound):
					fmt.Fprintf(cmd.OutOrStdout(), "%s: not set\n", s.label)
				default:
					fmt.Fprintf(cmd.OutOrStdout(), "%s: error (%v)\n", s.label, err)
				}
			}
			return nil
		},
		SilenceUsage: true,
	}

	return cmd
}
