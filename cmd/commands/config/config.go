package config

import (
	"github.com/spf13/cobra"

	"ecosniper/internal/config"
)

// NewCommand returns the "config" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage ecosniper configuration",
		Long: "View and modify persistent ecosniper settings.\n\n" +
			"Configuration is stored at ~/.config/ecosniper/config.json.\n" +
			"Secrets never live here; use `ecosniper auth` for those.\n\n" +
			config.KeysHelp(),
	}

	cmd.AddCommand(SetCommand())
	cmd.AddCommand(GetCommand())

	return cmd
}
