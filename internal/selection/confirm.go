package selection

import (
	"context"
	"fmt"
	"time"

	"ecosniper/internal/domain"
)

// ConfirmationState tracks whether the current option selection has been
// validated against live inventory.
type ConfirmationState int

const (
	// StateDefault: the plan's configuration was never touched this
	// session and never confirmed in a prior one.
	StateDefault ConfirmationState = iota

	// StateModified: the selection changed since the last confirmation.
	StateModified

	// StateConfirmed: the exact current selection was used for the last
	// successful availability check.
	StateConfirmed
)

func (s ConfirmationState) String() string {
	switch s {
	case StateModified:
		return "modified"
	case StateConfirmed:
		return "confirmed"
	default:
		return "default"
	}
}

// Checker performs an availability check against the upstream provider.
// It is satisfied by domain.Provider.
type Checker interface {
	CheckAvailability(ctx context.Context, planCode string, options []domain.AddonOption) ([]domain.PlanAvailability, error)
}

// SnapshotStore persists confirmed selections across sessions, keyed by
// plan code. Last write wins; no versioning.
type SnapshotStore interface {
	SaveConfirmed(planCode string, options []domain.AddonOption) error
	LoadConfirmed(planCode string) (options []domain.AddonOption, found bool, err error)
}

// PlanSelection is the full selection context for one plan: the option
// set, the target datacenters, and the confirmation state machine gating
// task submission.
//
// The machine never terminates; it is re-enterable for the lifetime of
// the session. A failed check call leaves every field exactly as it was.
type PlanSelection struct {
	Plan domain.Plan

	options     *OptionSet
	datacenters *DatacenterSet
	state       ConfirmationState
	lastChecked time.Time

	checker   Checker
	snapshots SnapshotStore
}

// NewPlanSelection builds the selection context for a plan. If the
// snapshot store holds a previously confirmed configuration for the plan,
// it is restored and the machine starts in StateConfirmed; otherwise it
// starts in StateDefault. Snapshot load errors are not fatal: the session
// simply starts from the default state.
func NewPlanSelection(plan domain.Plan, checker Checker, snapshots SnapshotStore) *PlanSelection {
	s := &PlanSelection{
		Plan:        plan,
		options:     NewOptionSet(),
		datacenters: NewDatacenterSet(),
		state:       StateDefault,
		checker:     checker,
		snapshots:   snapshots,
	}

	for _, family := range plan.AddonFamilies {
		if !family.Exclusive {
			s.options.MarkNonExclusive(family.Name)
		}
	}

	if snapshots != nil {
		if snapshot, found, err := snapshots.LoadConfirmed(plan.Code); err == nil && found {
			s.options.Restore(snapshot)
			s.state = StateConfirmed
		}
	}

	return s
}

// State returns the current confirmation state.
func (s *PlanSelection) State() ConfirmationState { return s.state }

// LastCheckedAt returns when the last successful availability check
// completed, or the zero time if none has.
func (s *PlanSelection) LastCheckedAt() time.Time { return s.lastChecked }

// Options exposes the option set for reads. Mutate selections through
// Select so state transitions fire.
func (s *PlanSelection) Options() *OptionSet { return s.options }

// Datacenters returns the target datacenter set. Its lifecycle is
// independent of the confirmation state: toggling datacenters never
// invalidates a confirmed configuration, and selecting a currently
// unavailable location is allowed.
func (s *PlanSelection) Datacenters() *DatacenterSet { return s.datacenters }

// Select activates an addon option. A real change moves the machine to
// StateModified from any state; reselecting the active option changes
// nothing.
func (s *PlanSelection) Select(opt domain.AddonOption) (changed bool) {
	changed = s.options.Select(opt)
	if changed {
		s.state = StateModified
	}
	return changed
}

// Deselect removes an addon option, with the same transition semantics
// as Select.
func (s *PlanSelection) Deselect(family, code string) (changed bool) {
	changed = s.options.Deselect(family, code)
	if changed {
		s.state = StateModified
	}
	return changed
}

// ConfirmWithCheck runs an availability check against the exact current
// selection. Only a successful check call transitions to StateConfirmed —
// what the availability status itself says does not matter, only that the
// request completed. On success the selection snapshot is persisted so a
// later session can restore straight to StateConfirmed. On failure the
// machine stays in its pre-call state and the error is returned.
func (s *PlanSelection) ConfirmWithCheck(ctx context.Context) ([]domain.PlanAvailability, error) {
	if s.checker == nil {
		return nil, fmt.Errorf("selection: no availability checker configured")
	}

	snapshot := s.options.Selections()
	records, err := s.checker.CheckAvailability(ctx, s.Plan.Code, snapshot)
	if err != nil {
		return nil, fmt.Errorf("selection: availability check failed: %w", err)
	}

	s.state = StateConfirmed
	s.lastChecked = time.Now()

	if s.snapshots != nil {
		if err := s.snapshots.SaveConfirmed(s.Plan.Code, snapshot); err != nil {
			// The confirmation itself stands; only cross-session restore
			// is degraded.
			return records, fmt.Errorf("selection: confirmed, but snapshot not persisted: %w", err)
		}
	}

	return records, nil
}

// ConfirmDefault accepts the plan's baseline configuration without
// customization: selections are cleared and the machine moves straight to
// StateConfirmed, bypassing StateModified.
func (s *PlanSelection) ConfirmDefault() error {
	s.options.Reset()
	s.state = StateConfirmed

	if s.snapshots != nil {
		if err := s.snapshots.SaveConfirmed(s.Plan.Code, nil); err != nil {
			return fmt.Errorf("selection: confirmed, but snapshot not persisted: %w", err)
		}
	}
	return nil
}

// CanSubmit reports whether the gate for building and queueing purchase
// tasks is open: a confirmed configuration and at least one target
// datacenter. Both conditions are evaluated live, never cached.
func (s *PlanSelection) CanSubmit() bool {
	return s.state == StateConfirmed && s.datacenters.Len() > 0
}
