package availability

import (
	"ecosniper/internal/domain"
	"ecosniper/internal/util"
)

// Map holds the latest raw stock signal per plan and datacenter.
// Raw strings are stored verbatim and re-resolved on every read; the
// normalized form is never persisted. Datacenter identifiers are matched
// case-insensitively.
type Map map[string]map[string]string

// NewMap builds a Map from provider availability records. Records for
// other plan codes (the provider returns sibling configurations too) are
// merged under their own codes.
func NewMap(records []domain.PlanAvailability) Map {
	m := make(Map)
	for _, rec := range records {
		m.merge(rec)
	}
	return m
}

// Update merges fresh provider records into the map, replacing prior
// signals for the datacenters they cover.
func (m Map) Update(records []domain.PlanAvailability) {
	for _, rec := range records {
		m.merge(rec)
	}
}

func (m Map) merge(rec domain.PlanAvailability) {
	plan := util.NormalizeKey(rec.PlanCode)
	if plan == "" {
		return
	}
	dcs := m[plan]
	if dcs == nil {
		dcs = make(map[string]string)
		m[plan] = dcs
	}
	for _, dc := range rec.Datacenters {
		key := util.NormalizeKey(dc.Datacenter)
		if key == "" {
			continue
		}
		dcs[key] = dc.Availability
	}
}

// Raw returns the stored signal for a plan/datacenter pair. ok is false
// when no check has ever covered that pair.
func (m Map) Raw(planCode, datacenter string) (raw string, ok bool) {
	dcs, ok := m[util.NormalizeKey(planCode)]
	if !ok {
		return "", false
	}
	raw, ok = dcs[util.NormalizeKey(datacenter)]
	return raw, ok
}

// Status resolves the normalized availability for a plan/datacenter pair.
// A pair never covered by a check resolves to StatusUnknown, "not checked".
func (m Map) Status(planCode, datacenter string) Result {
	raw, ok := m.Raw(planCode, datacenter)
	if !ok {
		return Result{Status: StatusUnknown, Label: "not checked"}
	}
	return Resolve(raw)
}

// Datacenters returns the datacenter identifiers known for a plan, in no
// particular order.
func (m Map) Datacenters(planCode string) []string {
	dcs := m[util.NormalizeKey(planCode)]
	if len(dcs) == 0 {
		return nil
	}
	out := make([]string, 0, len(dcs))
	for dc := range dcs {
		out = append(out, dc)
	}
	return out
}
