package domain

// Plan is a purchasable server configuration identified by a stable code,
// e.g. "24ska01" or "ks-1".
type Plan struct {
	Code        string `json:"code"`
	DisplayName string `json:"display_name"` // e.g. "KS-A | Intel i7-6700k"

	// AddonFamilies lists the configurable dimensions of the plan
	// (memory, storage, bandwidth, private network).
	AddonFamilies []AddonFamily `json:"addon_families,omitempty"`
}

// AddonFamily is one configurable dimension of a plan with its selectable
// option codes.
type AddonFamily struct {
	Name      string        `json:"name"`      // e.g. "memory"
	Exclusive bool          `json:"exclusive"` // at most one option may be active
	Mandatory bool          `json:"mandatory"`
	Options   []AddonOption `json:"options,omitempty"`
}

// AddonOption is one selectable value within a configurable family.
type AddonOption struct {
	Family       string `json:"family"`        // e.g. "memory"
	Code         string `json:"code"`          // e.g. "ram-32g-noecc-2133-24ska01"
	DisplayLabel string `json:"display_label"` // e.g. "32 GB"
}

// PlanAvailability is one availability record returned by the provider:
// a fully-qualified configuration and its per-datacenter stock signal.
type PlanAvailability struct {
	FQN         string                   `json:"fqn"`
	PlanCode    string                   `json:"planCode"`
	Datacenters []DatacenterAvailability `json:"datacenters"`
}

// DatacenterAvailability carries the provider's raw, free-text stock signal
// for one datacenter. The raw string is never interpreted here; see the
// availability package for normalization.
type DatacenterAvailability struct {
	Datacenter   string `json:"datacenter"`
	Availability string `json:"availability"`
}
