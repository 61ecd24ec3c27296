package auth

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/spf13/cobra"

	"ecosniper/internal/services/auth"
)

func LoginCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store OVH API credentials",
		Long: `Store the OVH application key, application secret, and consumer key
in the local keychain. Values not passed as flags are prompted for
without echo.

Create credentials at https://eu.api.ovh.com/createToken/ with GET and
POST rights on /dedicated/server/* and /order/*.

Example:
  ecosniper auth login`,
		Args: cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			appKey, _ := cmd.Flags().GetString("app-key")
			appSecret, _ := cmd.Flags().GetString("app-secret")
			consumerKey, _ := cmd.Flags().GetString("consumer-key")
			telegramToken, _ := cmd.Flags().GetString("telegram-token")

			var err error
			if appKey, err = promptIfEmpty(appKey, "Application key: "); err != nil {
				return err
			}
			if appSecret, err = promptIfEmpty(appSecret, "Application secret: "); err != nil {
				return err
			}
			if consumerKey, err = promptIfEmpty(consumerKey, "Consumer key: "); err != nil {
				return err
			}

			store := auth.DefaultStore()
			err = auth.SaveOVHCredentials(store, auth.OVHCredentials{
				ApplicationKey:    appKey,
				ApplicationSecret: appSecret,
				ConsumerKey:       consumerKey,
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Saved OVH API credentials")

			if telegramToken = strings.TrimSpace(telegramToken); telegramToken != "" {
				if err := store.SetSecret(auth.KeyTelegramBotToken, telegramToken); err != nil {
					return fmt.Errorf("failed to store telegram token: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Saved Telegram bot token")
			}
			return nil
		},
		SilenceUsage: true,
	}

	cmd.Flags().String("app-key", "", "OVH application key (optional, overrides prompt)")
	cmd.Flags().String("app-secret", "", "OVH application secret (optional, overrides prompt)")
	cmd.Flags().String("consumer-key", "", "OVH consumer key (optional, overrides prompt)")
	cmd.Flags().String("telegram-token", "", "Telegram bot token for notifications (optional)")

	return cmd
}

// promptIfEmpty reads a secret from the terminal when the flag was not set.
func promptIfEmpty(value, prompt string) (string, error) {
	value = strings.TrimSpace(value)
	if value != "" {
		return value, nil
	}

	fmt.Fprint(os.Stdout, prompt)
	bytes, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stdout)
	if err != nil {
		return "", err
	}

	value = strings.TrimSpace(string(bytes))
	if value == "" {
		return "", fmt.Errorf("value cannot be empty")
	}
	return value, nil
}
