// Package tui implements the interactive flows: plan picking, option
// customization with live availability confirmation, and purchase-task
// assembly.
package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"

	"ecosniper/internal/availability"
	"ecosniper/internal/domain"
	"ecosniper/internal/selection"
	"ecosniper/internal/task"
	"ecosniper/internal/tui/styles"
	"ecosniper/internal/util"
)

// ErrAborted is returned when the user cancels an interactive flow.
var ErrAborted = errors.New("task creation aborted by user")

// TaskDefaults prefills the wizard's ordering inputs from configuration.
type TaskDefaults struct {
	OS              string
	Duration        string
	IntervalSeconds int
}

// SelectPlan asks the user to pick one plan from the catalog.
func SelectPlan(plans []domain.Plan) (domain.Plan, error) {
	if len(plans) == 0 {
		return domain.Plan{}, fmt.Errorf("no plans available")
	}

	options := make([]huh.Option[string], 0, len(plans))
	byCode := make(map[string]domain.Plan, len(plans))
	for _, p := range plans {
		label := p.DisplayName
		if label == "" {
			label = p.Code
		}
		options = append(options, huh.NewOption(fmt.Sprintf("%s  [%s]", label, p.Code), p.Code))
		byCode[p.Code] = p
	}

	var code string
	field := huh.NewSelect[string]().
		Title("Server plan").
		Options(options...).
		Value(&code).
		Height(selectHeight(len(options), 12))

	if err := runForm(accessibleMode(), huh.NewGroup(field)); err != nil {
		return domain.Plan{}, err
	}
	return byCode[code], nil
}

// CreateTaskForm walks the user through customizing a plan, confirming the
// configuration against live inventory, picking target datacenters, and
// setting the ordering parameters. On success the selection is confirmed,
// the datacenter set is populated, and the returned params are ready for
// task.Build.
func CreateTaskForm(ctx context.Context, sel *selection.PlanSelection, defaults TaskDefaults) (task.BuildParams, error) {
	accessible := accessibleMode()

	if err := runOptionForms(accessible, sel); err != nil {
		return task.BuildParams{}, err
	}

	avail, err := confirmWithSpinner(ctx, accessible, sel)
	if err != nil {
		return task.BuildParams{}, err
	}

	if err := runDatacenterForm(accessible, sel, avail); err != nil {
		return task.BuildParams{}, err
	}

	params, err := runParamsForm(accessible, sel, defaults)
	if err != nil {
		return task.BuildParams{}, err
	}

	return params, nil
}

// runOptionForms shows one select per addon family. Families the catalog
// marks optional get a leading "keep default" choice; mandatory exclusive
// families require an explicit pick unless a restored snapshot already
// covers them.
func runOptionForms(accessible bool, sel *selection.PlanSelection) error {
	for _, family := range sel.Plan.AddonFamilies {
		if len(family.Options) == 0 {
			continue
		}

		byCode := make(map[string]domain.AddonOption, len(family.Options))
		options := make([]huh.Option[string], 0, len(family.Options)+1)
		if !family.Mandatory {
			options = append(options, huh.NewOption("(keep default)", ""))
		}
		for _, opt := range family.Options {
			label := opt.DisplayLabel
			if label == "" {
				label = opt.Code
			}
			options = append(options, huh.NewOption(label, opt.Code))
			byCode[opt.Code] = opt
		}

		// Preselect what a restored snapshot already has for this family.
		value := ""
		if active := sel.Options().Active(family.Name); len(active) > 0 {
			value = active[0].Code
		}

		field := huh.NewSelect[string]().
			Title(fmt.Sprintf("%s (%s)", family.Name, sel.Plan.Code)).
			Options(options...).
			Value(&value).
			Height(selectHeight(len(options), 10))
		if family.Mandatory {
			field = field.Validate(huh.ValidateNotEmpty())
		}

		if err := runForm(accessible, huh.NewGroup(field)); err != nil {
			return err
		}

		if value == "" {
			for _, active := range sel.Options().Active(family.Name) {
				sel.Deselect(family.Name, active.Code)
			}
			continue
		}
		sel.Select(byCode[value])
	}
	return nil
}

// confirmWithSpinner runs the availability check that confirms the current
// selection, behind a spinner.
func confirmWithSpinner(ctx context.Context, accessible bool, sel *selection.PlanSelection) (availability.Map, error) {
	var records []domain.PlanAvailability
	err := spinner.New().
		Title(fmt.Sprintf("Checking availability for %s...", sel.Plan.Code)).
		Accessible(accessible).
		Output(os.Stderr).
		ActionWithErr(func(ctx context.Context) error {
			var checkErr error
			records, checkErr = sel.ConfirmWithCheck(ctx)
			return checkErr
		}).
		Run()
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) || errors.Is(err, context.Canceled) {
			return nil, ErrAborted
		}
		return nil, err
	}
	return availability.NewMap(records), nil
}

// runDatacenterForm multi-selects target datacenters, each annotated with
// its resolved availability. Unavailable locations stay selectable; the
// interval executor exists precisely to wait for them.
func runDatacenterForm(accessible bool, sel *selection.PlanSelection, avail availability.Map) error {
	dcs := avail.Datacenters(sel.Plan.Code)
	sort.Strings(dcs)
	if len(dcs) == 0 {
		return fmt.Errorf("the availability check returned no datacenters for %s", sel.Plan.Code)
	}

	options := make([]huh.Option[string], 0, len(dcs))
	for _, dc := range dcs {
		result := avail.Status(sel.Plan.Code, dc)
		label := fmt.Sprintf("%-6s %s", dc, styles.AvailabilityIndicator(result))
		options = append(options, huh.NewOption(label, dc).
			Selected(sel.Datacenters().Contains(dc)))
	}

	var picked []string
	field := huh.NewMultiSelect[string]().
		Title("Target datacenters").
		Description("Unavailable locations can be targeted; the task retries until stock appears.").
		Options(options...).
		Value(&picked).
		Height(selectHeight(len(options), 12)).
		Validate(func(values []string) error {
			if len(values) == 0 {
				return errors.New("select at least one datacenter")
			}
			return nil
		})

	if err := runForm(accessible, huh.NewGroup(field)); err != nil {
		return err
	}

	sel.Datacenters().Clear()
	for _, dc := range picked {
		sel.Datacenters().Add(dc)
	}
	return nil
}

// runParamsForm collects quantity, OS, duration, and the retry policy, then
// shows a summary and asks for final confirmation.
func runParamsForm(accessible bool, sel *selection.PlanSelection, defaults TaskDefaults) (task.BuildParams, error) {
	name := ""
	quantityStr := "1"
	osValue := defaults.OS
	duration := defaults.Duration
	maxRetriesStr := strconv.Itoa(task.UnlimitedAttempts)
	intervalStr := strconv.Itoa(defaults.IntervalSeconds)

	inputs := huh.NewGroup(
		huh.NewInput().
			Title("Task name").
			Description("Leave empty for \"{plan name} ({datacenter})\"").
			Value(&name).
			Validate(validateOptionalName),
		huh.NewInput().
			Title("Quantity").
			Description(fmt.Sprintf("Servers per datacenter (%d-%d)", task.MinQuantity, task.MaxQuantity)).
			Value(&quantityStr).
			Validate(validateIntRange(task.MinQuantity, task.MaxQuantity)),
		huh.NewInput().
			Title("Operating system").
			Value(&osValue).
			Validate(huh.ValidateNotEmpty()),
		huh.NewInput().
			Title("Billing period").
			Description("ISO-8601, e.g. P1M").
			Value(&duration).
			Validate(huh.ValidateNotEmpty()),
		huh.NewInput().
			Title("Max retries").
			Description(fmt.Sprintf("%d for unlimited, otherwise 0-%d", task.UnlimitedAttempts, task.MaxAttemptsLimit)).
			Value(&maxRetriesStr).
			Validate(validateIntRange(task.UnlimitedAttempts, task.MaxAttemptsLimit)),
		huh.NewInput().
			Title("Check interval (seconds)").
			Description(fmt.Sprintf("%d-%d", task.MinIntervalSeconds, task.MaxIntervalSeconds)).
			Value(&intervalStr).
			Validate(validateIntRange(task.MinIntervalSeconds, task.MaxIntervalSeconds)),
	)

	confirm := false
	summary := huh.NewNote().
		Title("Summary").
		DescriptionFunc(func() string {
			return buildSummary(sel, quantityStr, osValue, duration, maxRetriesStr, intervalStr)
		}, &confirm)
	confirmField := huh.NewConfirm().
		Title(fmt.Sprintf("Queue %d task(s)?", sel.Datacenters().Len())).
		Value(&confirm)

	if err := runForm(accessible, inputs, huh.NewGroup(summary, confirmField)); err != nil {
		return task.BuildParams{}, err
	}
	if !confirm {
		return task.BuildParams{}, ErrAborted
	}

	quantity, _ := strconv.Atoi(strings.TrimSpace(quantityStr))
	maxRetries, _ := strconv.Atoi(strings.TrimSpace(maxRetriesStr))
	interval, _ := strconv.Atoi(strings.TrimSpace(intervalStr))

	return task.BuildParams{
		Name:     strings.TrimSpace(name),
		Quantity: quantity,
		OS:       osValue,
		Duration: duration,
		Retry: task.RetryPolicy{
			MaxAttempts:     maxRetries,
			IntervalSeconds: interval,
		},
	}, nil
}

// buildSummary renders the final review block.
func buildSummary(sel *selection.PlanSelection, quantity, osValue, duration, maxRetries, interval string) string {
	var b strings.Builder

	name := sel.Plan.DisplayName
	if name == "" {
		name = sel.Plan.Code
	}
	fmt.Fprintf(&b, "Plan: %s [%s]\n", name, sel.Plan.Code)

	if selections := sel.Options().Selections(); len(selections) > 0 {
		parts := make([]string, 0, len(selections))
		for _, opt := range selections {
			label := opt.DisplayLabel
			if label == "" {
				label = opt.Code
			}
			parts = append(parts, label)
		}
		fmt.Fprintf(&b, "Options: %s\n", strings.Join(parts, ", "))
	} else {
		b.WriteString("Options: default configuration\n")
	}

	fmt.Fprintf(&b, "Datacenters: %s\n", strings.Join(sel.Datacenters().IDs(), ", "))
	fmt.Fprintf(&b, "Quantity: %s   OS: %s   Period: %s\n", quantity, osValue, duration)

	retries := maxRetries
	if strings.TrimSpace(maxRetries) == strconv.Itoa(task.UnlimitedAttempts) {
		retries = "unlimited"
	}
	fmt.Fprintf(&b, "Retries: %s every %ss", retries, interval)

	return b.String()
}

// runForm creates and runs a huh.Form, translating ErrUserAborted to ErrAborted.
func runForm(accessible bool, groups ...*huh.Group) error {
	err := huh.NewForm(groups...).WithAccessible(accessible).Run()
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return ErrAborted
		}
		return err
	}
	return nil
}

func accessibleMode() bool {
	return os.Getenv("ACCESSIBLE") != ""
}

// validateOptionalName accepts the empty string (name gets derived) and
// otherwise applies the task-name rules.
func validateOptionalName(value string) error {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return util.ValidateTaskName(strings.TrimSpace(value))
}

func validateIntRange(min, max int) func(string) error {
	return func(value string) error {
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return errors.New("enter a whole number")
		}
		if n < min || n > max {
			return fmt.Errorf("must be between %d and %d", min, max)
		}
		return nil
	}
}

func selectHeight(optionCount, max int) int {
	if optionCount < max {
		return optionCount
	}
	return max
}
