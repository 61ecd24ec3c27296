// Package selection holds the per-plan configuration state a user builds
// up before queueing a purchase: which addon option is active per family,
// which datacenters are targeted, and whether the current combination has
// been confirmed against live inventory.
//
// All state here is plain in-memory value manipulation scoped to one
// logical session; callers own serialization of concurrent access (at most
// one in-flight confirmation per plan).
package selection

import (
	"ecosniper/internal/domain"
	"ecosniper/internal/util"
)

// OptionSet tracks the active addon option per configurable family.
// Families are mutually exclusive within themselves: selecting a new code
// replaces the prior selection for that family, unless the family has been
// marked non-exclusive, in which case options accumulate.
type OptionSet struct {
	order        []string // families in first-selection order
	active       map[string][]domain.AddonOption
	nonExclusive map[string]bool
}

// NewOptionSet returns an empty option set.
func NewOptionSet() *OptionSet {
	return &OptionSet{
		active:       make(map[string][]domain.AddonOption),
		nonExclusive: make(map[string]bool),
	}
}

// MarkNonExclusive lets multiple options coexist within a family.
func (s *OptionSet) MarkNonExclusive(family string) {
	s.nonExclusive[util.NormalizeKey(family)] = true
}

// Select activates an option within its family and reports whether the
// effective selection actually changed. Reselecting the code already
// active is a no-op: no state mutates and no downstream transition should
// fire.
func (s *OptionSet) Select(opt domain.AddonOption) (changed bool) {
	family := util.NormalizeKey(opt.Family)
	if family == "" || opt.Code == "" {
		return false
	}

	current := s.active[family]
	for _, active := range current {
		if active.Code == opt.Code {
			return false
		}
	}

	if _, seen := s.active[family]; !seen {
		s.order = append(s.order, family)
	}

	if s.nonExclusive[family] {
		s.active[family] = append(current, opt)
	} else {
		s.active[family] = []domain.AddonOption{opt}
	}
	return true
}

// Deselect removes an option code from a family. It reports whether the
// selection changed.
func (s *OptionSet) Deselect(family, code string) (changed bool) {
	key := util.NormalizeKey(family)
	current := s.active[key]
	for i, active := range current {
		if active.Code == code {
			s.active[key] = append(current[:i:i], current[i+1:]...)
			return true
		}
	}
	return false
}

// Selections returns the active options ordered by when each family was
// first selected. The returned slice is a copy; the caller may hold it
// across later mutations.
func (s *OptionSet) Selections() []domain.AddonOption {
	var out []domain.AddonOption
	for _, family := range s.order {
		out = append(out, s.active[family]...)
	}
	return out
}

// Active returns the options currently active for a family.
func (s *OptionSet) Active(family string) []domain.AddonOption {
	current := s.active[util.NormalizeKey(family)]
	if len(current) == 0 {
		return nil
	}
	return append([]domain.AddonOption(nil), current...)
}

// Restore replaces the whole selection with a persisted snapshot. It does
// not count as a change: restoring a previously confirmed configuration
// must not push the confirmation state to Modified.
func (s *OptionSet) Restore(snapshot []domain.AddonOption) {
	s.order = nil
	s.active = make(map[string][]domain.AddonOption)
	for _, opt := range snapshot {
		family := util.NormalizeKey(opt.Family)
		if family == "" || opt.Code == "" {
			continue
		}
		if _, seen := s.active[family]; !seen {
			s.order = append(s.order, family)
		}
		s.active[family] = append(s.active[family], opt)
	}
}

// Reset clears every selection, returning the set to the plan's baseline
// configuration.
func (s *OptionSet) Reset() {
	s.order = nil
	s.active = make(map[string][]domain.AddonOption)
}
