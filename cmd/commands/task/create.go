package task

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/huh/spinner"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"ecosniper/internal/cache"
	"ecosniper/internal/catalog"
	"ecosniper/internal/config"
	"ecosniper/internal/confirmstore"
	"ecosniper/internal/domain"
	"ecosniper/internal/notify"
	"ecosniper/internal/providers"
	"ecosniper/internal/selection"
	"ecosniper/internal/services/auth"
	tasklib "ecosniper/internal/task"
	"ecosniper/internal/taskstore"
	"ecosniper/internal/tui"
	"ecosniper/internal/util"
)

func CreateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create purchase tasks for a plan",
		Long: `Create one purchase task per target datacenter for a plan
configuration. The configuration must be confirmed against live inventory
before tasks can be queued; this command runs that check as part of the
flow.

Interactively (no flags) a wizard walks through plan, options,
datacenters, and ordering parameters. With flags the same flow runs
non-interactively.

Examples:
  ecosniper task create
  ecosniper task create --plan 24ska01 --datacenter bhs --datacenter gra
  ecosniper task create --plan 24ska01 --default-config --datacenter rbx \
      --max-retries 50 --interval 30`,
		Args:         cobra.ExactArgs(0),
		RunE:         runCreate,
		SilenceUsage: true,
	}

	cmd.Flags().String("plan", "", "Plan code (skips the plan picker)")
	cmd.Flags().String("name", "", "Task name (default \"{plan name} ({datacenter})\")")
	cmd.Flags().StringArray("option", nil, "Addon option as family=code (repeatable)")
	cmd.Flags().StringArray("datacenter", nil, "Target datacenter (repeatable; enables non-interactive mode)")
	cmd.Flags().Bool("default-config", false, "Accept the plan's default configuration without customizing")
	cmd.Flags().Int("quantity", 1, "Servers per datacenter (1-5)")
	cmd.Flags().String("os", "", "Operating system (default from config)")
	cmd.Flags().String("duration", "", "Billing period, ISO-8601 (default from config)")
	cmd.Flags().Int("max-retries", tasklib.UnlimitedAttempts, "Attempt budget, -1 for unlimited")
	cmd.Flags().Int("interval", 0, "Check interval in seconds (default from config)")

	return cmd
}

func runCreate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	plans, err := fetchCatalog(ctx, cmd, cfg)
	if err != nil {
		return err
	}

	planFlag, _ := cmd.Flags().GetString("plan")
	datacenters, _ := cmd.Flags().GetStringArray("datacenter")
	interactive := len(datacenters) == 0

	var plan domain.Plan
	if planFlag != "" {
		if plan, err = catalog.FindPlan(plans, planFlag); err != nil {
			return err
		}
	} else {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			return fmt.Errorf("--plan is required when not running in a terminal")
		}
		if plan, err = tui.SelectPlan(plans); err != nil {
			return err
		}
	}

	snapshots, err := confirmstore.Open()
	if err != nil {
		return fmt.Errorf("failed to open selection store: %w", err)
	}
	defer snapshots.Close()

	provider, err := providers.Get("ovh", auth.DefaultStore())
	if err != nil {
		return err
	}

	sel := selection.NewRegistry(provider, snapshots).Plan(plan)

	var params tasklib.BuildParams
	if interactive {
		params, err = tui.CreateTaskForm(ctx, sel, tui.TaskDefaults{
			OS:              cfg.TargetOSOrDefault(),
			Duration:        cfg.TargetDurationOrDefault(),
			IntervalSeconds: cfg.IntervalOrDefault(),
		})
	} else {
		params, err = applyFlags(ctx, cmd, cfg, sel, datacenters)
	}
	if err != nil {
		return err
	}

	if !sel.CanSubmit() {
		return fmt.Errorf("configuration for %s is not confirmed against live inventory", plan.Code)
	}

	specs, err := tasklib.Build(sel.Plan, sel.Options().Selections(), sel.Datacenters().IDs(), params)
	if err != nil {
		return err
	}

	queue, err := openQueue()
	if err != nil {
		return err
	}
	defer queue.Close()

	return queueSpecs(ctx, cmd, queue, buildNotifier(cfg, auth.DefaultStore()), sel, specs)
}

// fetchCatalog downloads the plan catalog behind a spinner.
func fetchCatalog(ctx context.Context, cmd *cobra.Command, cfg *config.Config) ([]domain.Plan, error) {
	var plans []domain.Plan
	err := spinner.New().
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
		return nil, err
	}
	return plans, nil
}

// applyFlags drives the selection machine from command-line flags: apply
// options, confirm against live inventory, add target datacenters, and
// assemble the build parameters.
func applyFlags(ctx context.Context, cmd *cobra.Command, cfg *config.Config, sel *selection.PlanSelection, datacenters []string) (tasklib.BuildParams, error) {
	var zero tasklib.BuildParams

	defaultConfig, _ := cmd.Flags().GetBool("default-config")
	optionArgs, _ := cmd.Flags().GetStringArray("option")
	if defaultConfig && len(optionArgs) > 0 {
		return zero, fmt.Errorf("--default-config and --option are mutually exclusive")
	}

	for _, arg := range optionArgs {
		family, code, ok := util.ParseOptionArg(arg)
		if !ok {
			return zero, fmt.Errorf("invalid --option %q, expected family=code", arg)
		}
		opt, err := findPlanOption(sel.Plan, family, code)
		if err != nil {
			return zero, err
		}
		sel.Select(opt)
	}

	if defaultConfig {
		if err := sel.ConfirmDefault(); err != nil {
			return zero, err
		}
	} else {
		err := spinner.New().
			Title(fmt.Sprintf("Checking availability for %s...", sel.Plan.Code)).
			Accessible(os.Getenv("ACCESSIBLE") != "").
			Output(cmd.ErrOrStderr()).
			ActionWithErr(func(ctx context.Context) error {
				_, checkErr := sel.ConfirmWithCheck(ctx)
				return checkErr
			}).
			Run()
		if err != nil {
			return zero, err
		}
	}

	for _, dc := range datacenters {
		sel.Datacenters().Add(dc)
	}

	name, _ := cmd.Flags().GetString("name")
	if name != "" {
		if err := util.ValidateTaskName(name); err != nil {
			return zero, err
		}
	}

	quantity, _ := cmd.Flags().GetInt("quantity")
	osFlag, _ := cmd.Flags().GetString("os")
	duration, _ := cmd.Flags().GetString("duration")
	maxRetries, _ := cmd.Flags().GetInt("max-retries")
	interval, _ := cmd.Flags().GetInt("interval")

	if osFlag == "" {
		osFlag = cfg.TargetOSOrDefault()
	}
	if duration == "" {
		duration = cfg.TargetDurationOrDefault()
	}
	if interval == 0 {
		interval = cfg.IntervalOrDefault()
	}

	return tasklib.BuildParams{
		Name:     name,
		Quantity: quantity,
		OS:       osFlag,
		Duration: duration,
		Retry: tasklib.RetryPolicy{
			MaxAttempts:     maxRetries,
			IntervalSeconds: interval,
		},
	}, nil
}

// findPlanOption resolves a family=code pair against the plan's catalog
// entry. Codes match exactly or as a prefix (catalog codes carry a
// plan-code suffix users shouldn't have to type).
func findPlanOption(plan domain.Plan, family, code string) (domain.AddonOption, error) {
	for _, f := range plan.AddonFamilies {
		if !strings.EqualFold(f.Name, family) {
			continue
		}
		for _, opt := range f.Options {
			if strings.EqualFold(opt.Code, code) {
				return opt, nil
			}
		}
		for _, opt := range f.Options {
			if strings.HasPrefix(strings.ToLower(opt.Code), strings.ToLower(code)) {
				return opt, nil
			}
		}
		return domain.AddonOption{}, fmt.Errorf("plan %s has no option %q in family %q", plan.Code, code, family)
	}
	return domain.AddonOption{}, fmt.Errorf("plan %s has no addon family %q", plan.Code, family)
}

// queueSpecs submits each spec independently: one failing datacenter does
// not abort the rest. Successfully queued datacenters are removed from the
// selection's target set.
func queueSpecs(ctx context.Context, cmd *cobra.Command, queue taskstore.Queue, notifier notify.Notifier, sel *selection.PlanSelection, specs []tasklib.Spec) error {
	queued := 0
	var firstErr error
	for _, spec := range specs {
		record, err := queue.Submit(spec)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %s: %v\n", spec.Datacenter, err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		queued++
		sel.Datacenters().Toggle(spec.Datacenter)
		fmt.Fprintf(cmd.OutOrStdout(), "Queued %s (%s) as %s\n", spec.PlanCode, spec.Datacenter, record.UID)
	}

	if queued > 0 {
		sendNotification(ctx, notifier, cmd.ErrOrStderr(), notify.Event{
			Title: "Purchase tasks queued",
			Body:  fmt.Sprintf("%d task(s) for %s", queued, sel.Plan.Code),
		})
	}
	return firstErr
}
