package plan

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/huh/spinner"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"ecosniper/internal/availability"
	"ecosniper/internal/domain"
	"ecosniper/internal/providers"
	"ecosniper/internal/services/auth"
	"ecosniper/internal/tui/styles"
	"ecosniper/internal/util"
)

func CheckCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <plan-code> [plan-code...]",
		Short: "Check per-datacenter availability for one or more plans",
		Long: `Check per-datacenter stock. Without options a plan's default
configuration is checked; with --option the query narrows to that exact
customized configuration. Multiple plans are checked concurrently;
--option only applies when a single plan is given.

Examples:
  ecosniper plan check 24ska01
  ecosniper plan check 24ska01 24ska02 25skle01
  ecosniper plan check 24ska01 --option memory=ram-32g-noecc-2133-24ska01`,
		Args:         cobra.MinimumNArgs(1),
		RunE:         runCheck,
		SilenceUsage: true,
	}

	cmd.Flags().StringArray("option", nil, "Addon option as family=code (repeatable)")

	return cmd
}

func runCheck(cmd *cobra.Command, args []string) error {
	planCodes := make([]string, 0, len(args))
	seen := map[string]bool{}
	for _, arg := range args {
		code := util.NormalizeKey(arg)
		if code == "" || seen[code] {
			continue
		}
		seen[code] = true
		planCodes = append(planCodes, code)
	}
	if len(planCodes) == 0 {
		return fmt.Errorf("plan code is required")
	}

	optionArgs, _ := cmd.Flags().GetStringArray("option")
	if len(optionArgs) > 0 && len(planCodes) > 1 {
		return fmt.Errorf("--option requires a single plan code")
	}
	options := make([]domain.AddonOption, 0, len(optionArgs))
	for _, arg := range optionArgs {
		family, code, ok := util.ParseOptionArg(arg)
		if !ok {
			return fmt.Errorf("invalid --option %q, expected family=code", arg)
		}
		options = append(options, domain.AddonOption{Family: family, Code: code})
	}

	provider, err := providers.Get("ovh", auth.DefaultStore())
	if err != nil {
		return err
	}

	var records []domain.PlanAvailability
	err = spinner.New().
		Title(fmt.Sprintf("Checking availability for %s...", strings.Join(planCodes, ", "))).
		Accessible(os.Getenv("ACCESSIBLE") != "").
		Output(cmd.ErrOrStderr()).
		ActionWithErr(func(ctx context.Context) error {
			var checkErr error
			records, checkErr = checkPlans(ctx, provider, planCodes, options)
			return checkErr
		}).
		Run()
	if err != nil {
		return err
	}

	avail := availability.NewMap(records)

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PLAN\tDATACENTER\tSTATUS\tRAW SIGNAL")
	rows := 0
	for _, planCode := range planCodes {
		dcs := avail.Datacenters(planCode)
		if len(dcs) == 0 {
			fmt.Fprintf(w, "%s\t-\t%s\tno datacenters reported\n", planCode, styles.MutedText.Render("unknown"))
			rows++
			continue
		}
		sort.Strings(dcs)
		for _, dc := range dcs {
			result := avail.Status(planCode, dc)
			raw, _ := avail.Raw(planCode, dc)
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", planCode, dc, styles.AvailabilityIndicator(result), raw)
			rows++
		}
	}
	if rows == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No availability data reported.")
		return nil
	}
	return w.Flush()
}

// checkPlans queries availability for each plan concurrently and merges
// the results. One failing plan fails the whole check; partial tables
// would be indistinguishable from genuinely empty inventory.
func checkPlans(ctx context.Context, provider domain.Provider, planCodes []string, options []domain.AddonOption) ([]domain.PlanAvailability, error) {
	results := make([][]domain.PlanAvailability, len(planCodes))

	g, ctx := errgroup.WithContext(ctx)
	for i, planCode := range planCodes {
		g.Go(func() error {
			records, err := provider.CheckAvailability(ctx, planCode, options)
			if err != nil {
				return fmt.Errorf("%s: %w", planCode, err)
			}
			results[i] = records
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var merged []domain.PlanAvailability
	for _, records := range results {
		merged = append(merged, records...)
	}
	return merged, nil
}
