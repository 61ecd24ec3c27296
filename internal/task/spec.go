package task

import "ecosniper/internal/domain"

// OptionRef is the wire form of one selected addon option.
type OptionRef struct {
	Family string `json:"family"`
	Option string `json:"option"`
}

// Spec is one purchase task targeting a single datacenter. It is an
// immutable value object: built once at submission time, then handed to
// the queue unchanged. Its JSON form is the wire shape the executing
// backend consumes and must round-trip exactly.
type Spec struct {
	Name       string      `json:"name"`
	PlanCode   string      `json:"planCode"`
	Options    []OptionRef `json:"options"`
	Duration   string      `json:"duration"` // ISO-8601, e.g. "P1M"
	Datacenter string      `json:"datacenter"`
	Quantity   int         `json:"quantity"` // 1..5
	OS         string      `json:"os"`       // e.g. "none_64.en"
	RetryPolicy
}

// optionRefs converts domain options into their wire form, copying so
// later mutations of the source selection cannot reach the spec. The
// wire shape always carries an array, never null.
func optionRefs(options []domain.AddonOption) []OptionRef {
	refs := make([]OptionRef, 0, len(options))
	for _, opt := range options {
		refs = append(refs, OptionRef{Family: opt.Family, Option: opt.Code})
	}
	return refs
}

// OrderRequest converts the spec into the provider-level purchase request
// for its datacenter.
func (s Spec) OrderRequest() domain.OrderRequest {
	options := make([]domain.AddonOption, 0, len(s.Options))
	for _, ref := range s.Options {
		options = append(options, domain.AddonOption{Family: ref.Family, Code: ref.Option})
	}
	return domain.OrderRequest{
		PlanCode:   s.PlanCode,
		Datacenter: s.Datacenter,
		Quantity:   s.Quantity,
		OS:         s.OS,
		Duration:   s.Duration,
		Options:    options,
	}
}
