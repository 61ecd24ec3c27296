package plan

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"time"

	"github.com/charmbracelet/huh/spinner"
	"github.com/spf13/cobra"

	"ecosniper/internal/cache"
	"ecosniper/internal/catalog"
	"ecosniper/internal/config"
	"ecosniper/internal/domain"
)

func ListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List orderable eco plans",
		Long: `List the plans in the public eco catalog with their customizable
addon families.

Example:
  ecosniper plan list`,
		Args:         cobra.ExactArgs(0),
		RunE:         runList,
		SilenceUsage: true,
	}

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	var plans []domain.Plan
	err = spinner.New().
		Title("Fetching eco catalog...").
		Accessible(os.Getenv("ACCESSIBLE") != "").
		Output(cmd.ErrOrStderr()).
		ActionWithErr(func(ctx context.Context) error {
			var fetchErr error
			client := catalog.NewClient(catalog.WithCache(cache.NewDefault(), time.Hour))
			plans, fetchErr = client.FetchPlans(ctx, cfg.SubsidiaryOrDefault())
			return fetchErr
		}).
		Run()
	if err != nil {
		return err
	}

	if len(plans) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No plans in the catalog.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CODE\tNAME\tADDON FAMILIES")
	for _, p := range plans {
		families := make([]string, 0, len(p.AddonFamilies))
		for _, f := range p.AddonFamilies {
			name := f.Name
			if f.Mandatory {
				name += "*"
			}
			families = append(families, name)
		}
		familyList := strings.Join(families, ", ")
		if familyList == "" {
			familyList = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", p.Code, p.DisplayName, familyList)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "\n* mandatory family")
	return nil
}
