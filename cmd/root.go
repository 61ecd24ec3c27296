package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ecosniper/cmd/commands/auth"
	cfgcmd "ecosniper/cmd/commands/config"
	"ecosniper/cmd/commands/order"
	"ecosniper/cmd/commands/plan"
	"ecosniper/cmd/commands/task"
	"ecosniper/internal/config"
	"ecosniper/internal/providers"
)

// rootCmd represents the base command when called without any subcommands.
func rootCmd() *cobra.Command {
	var cmd = &cobra.Command{
		Use:   "ecosniper",
		Short: "A CLI tool for catching limited-availability eco server plans",
		Long: `ecosniper watches the stock of limited-availability eco dedicated
server plans, lets you customize and confirm a configuration against live
inventory, and queues purchase tasks that fire the moment stock appears.

Quick start:
  ecosniper auth login              # Store your API credentials
  ecosniper plan list               # Browse the eco catalog
  ecosniper plan check 24ska01      # Per-datacenter availability
  ecosniper task create             # Interactive task creation
  ecosniper task list               # Queued purchase tasks`,
	}

	cmd.AddCommand(auth.NewCommand())
	cmd.AddCommand(cfgcmd.NewCommand())
	cmd.AddCommand(plan.NewCommand())
	cmd.AddCommand(task.NewCommand())
	cmd.AddCommand(order.NewCommand())

	return cmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	providers.RegisterOVH(cfg.EndpointOrDefault(), cfg.SubsidiaryOrDefault())

	var root = rootCmd()
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
