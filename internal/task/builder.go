package task

import (
	"fmt"
	"strings"

	"ecosniper/internal/domain"
	"ecosniper/internal/util"
)

// Quantity bounds accepted by the ordering backend.
const (
	MinQuantity = 1
	MaxQuantity = 5
)

// BuildParams carries the non-selection inputs for a batch of specs.
// Zero Quantity, OS, and Duration fall back to the ordering defaults;
// Retry is always validated as given.
type BuildParams struct {
	// Name overrides the base task name; empty derives it from the
	// plan's display name. The per-datacenter suffix is always appended.
	Name     string
	Quantity int
	OS       string // default "none_64.en"
	Duration string // default "P1M"
	Retry    RetryPolicy
}

const (
	defaultOS       = "none_64.en"
	defaultDuration = "P1M"
)

// Build assembles one validated Spec per selected datacenter, preserving
// the iteration order of datacenters. Validation runs before anything is
// constructed: on error no specs are returned. Each spec takes its own
// copy of the selections, so mutating the selection set afterwards cannot
// retroactively alter a built spec.
func Build(plan domain.Plan, selections []domain.AddonOption, datacenters []string, params BuildParams) ([]Spec, error) {
	if strings.TrimSpace(plan.Code) == "" {
		return nil, fmt.Errorf("%w: plan code is required", domain.ErrValidation)
	}
	if len(datacenters) == 0 {
		return nil, fmt.Errorf("%w: at least one datacenter must be selected", domain.ErrValidation)
	}
	if err := params.Retry.Validate(); err != nil {
		return nil, err
	}

	quantity := params.Quantity
	if quantity == 0 {
		quantity = MinQuantity
	}
	if quantity < MinQuantity || quantity > MaxQuantity {
		return nil, fmt.Errorf("%w: quantity %d outside [%d, %d]",
			domain.ErrValidation, quantity, MinQuantity, MaxQuantity)
	}

	os := params.OS
	if os == "" {
		os = defaultOS
	}
	duration := params.Duration
	if duration == "" {
		duration = defaultDuration
	}

	displayName := strings.TrimSpace(params.Name)
	if displayName != "" {
		if err := util.ValidateTaskName(displayName); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
		}
	} else {
		displayName = plan.DisplayName
		if displayName == "" {
			displayName = plan.Code
		}
	}

	specs := make([]Spec, 0, len(datacenters))
	for _, dc := range datacenters {
		dc = strings.TrimSpace(dc)
		if dc == "" {
			return nil, fmt.Errorf("%w: empty datacenter identifier", domain.ErrValidation)
		}
		specs = append(specs, Spec{
			// Disambiguates tasks targeting the same plan across locations.
			Name:        fmt.Sprintf("%s (%s)", displayName, dc),
			PlanCode:    plan.Code,
			Options:     optionRefs(selections),
			Duration:    duration,
			Datacenter:  dc,
			Quantity:    quantity,
			OS:          os,
			RetryPolicy: params.Retry,
		})
	}
	return specs, nil
}
