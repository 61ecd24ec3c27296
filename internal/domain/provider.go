package domain

import "context"

// Provider is the upstream inventory and ordering API.
type Provider interface {
	GetDisplayName() string

	// CheckAvailability queries per-datacenter stock for a plan. A nil or
	// empty options slice checks the plan's default configuration;
	// explicit options check that exact customized configuration.
	CheckAvailability(ctx context.Context, planCode string, options []AddonOption) ([]PlanAvailability, error)

	// PlaceOrder runs the full purchase flow for one datacenter and
	// returns the resulting order reference.
	PlaceOrder(ctx context.Context, req OrderRequest) (*OrderResult, error)
}

// OrderRequest describes one purchase attempt at one datacenter.
type OrderRequest struct {
	PlanCode   string
	Datacenter string
	Quantity   int
	OS         string        // e.g. "none_64.en"
	Duration   string        // ISO-8601, e.g. "P1M"
	Options    []AddonOption // customized hardware options, may be empty
}

// OrderResult is the acknowledgment of a successfully placed order.
type OrderResult struct {
	OrderID  string
	OrderURL string

	// OptionsAdded is how many requested hardware options the provider
	// accepted onto the order; the rest were incompatible or not offered.
	OptionsAdded int
}
