// Package providers implements the upstream inventory and ordering APIs
// behind the domain.Provider interface. OVH Eco is the only provider today;
// the registry keeps the door open for others.
package providers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"sort"
	"strings"

	"github.com/ovh/go-ovh/ovh"

	"ecosniper/internal/domain"
	"ecosniper/internal/services/auth"
	"ecosniper/internal/util"
)

// ovhClient is the subset of *ovh.Client the provider uses. Narrowed for
// testing.
type ovhClient interface {
	GetWithContext(ctx context.Context, url string, res interface{}) error
	PostWithContext(ctx context.Context, url string, body interface{}, res interface{}) error
}

// OVHProvider implements domain.Provider against the OVH Eco dedicated
// server catalog and ordering API.
type OVHProvider struct {
	client     ovhClient
	subsidiary string
	debug      io.Writer
}

// Option configures an OVHProvider.
type Option func(*OVHProvider)

// WithDebugWriter makes the provider log each API call to w.
func WithDebugWriter(w io.Writer) Option {
	return func(p *OVHProvider) { p.debug = w }
}

// WithClient replaces the underlying API client. Intended for testing.
func WithClient(c ovhClient) Option {
	return func(p *OVHProvider) { p.client = c }
}

// NewOVHProvider creates a provider talking to the given OVH API endpoint
// (e.g. "ovh-eu") with the given credentials. The subsidiary (e.g. "IE",
// "FR") selects the ordering region for cart creation.
func NewOVHProvider(endpoint string, creds auth.OVHCredentials, subsidiary string, opts ...Option) (*OVHProvider, error) {
	client, err := ovh.NewClient(endpoint, creds.ApplicationKey, creds.ApplicationSecret, creds.ConsumerKey)
	if err != nil {
		return nil, fmt.Errorf("ovh: failed to create API client: %w", err)
	}

	p := &OVHProvider{
		client:     client,
		subsidiary: strings.ToUpper(subsidiary),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// RegisterOVH registers the OVH provider factory with the global registry.
// Credentials are loaded from the secret store on first use.
func RegisterOVH(endpoint, subsidiary string, opts ...Option) {
	Register("ovh", func(store auth.Store) (domain.Provider, error) {
		creds, err := auth.LoadOVHCredentials(store)
		if err != nil {
			return nil, err
		}
		return NewOVHProvider(endpoint, creds, subsidiary, opts...)
	})
}

func (p *OVHProvider) GetDisplayName() string {
	return "OVH Eco"
}

func (p *OVHProvider) logf(format string, args ...any) {
	if p.debug != nil {
		fmt.Fprintf(p.debug, "ovh: "+format+"\n", args...)
	}
}

// availabilityResponse mirrors one entry of
// GET /dedicated/server/datacenter/availabilities.
type availabilityResponse struct {
	FQN         string `json:"fqn"`
	PlanCode    string `json:"planCode"`
	Datacenters []struct {
		Datacenter   string `json:"datacenter"`
		Availability string `json:"availability"`
	} `json:"datacenters"`
}

// CheckAvailability queries per-datacenter stock for a plan. Options narrow
// the query to one exact hardware configuration.
func (p *OVHProvider) CheckAvailability(ctx context.Context, planCode string, options []domain.AddonOption) ([]domain.PlanAvailability, error) {
	path := availabilityPath(planCode, options)
	p.logf("GET %s", path)

	var entries []availabilityResponse
	if err := p.client.GetWithContext(ctx, path, &entries); err != nil {
		return nil, classify("availability check", err)
	}

	results := make([]domain.PlanAvailability, 0, len(entries))
	for _, entry := range entries {
		pa := domain.PlanAvailability{
			FQN:      entry.FQN,
			PlanCode: entry.PlanCode,
		}
		for _, dc := range entry.Datacenters {
			pa.Datacenters = append(pa.Datacenters, domain.DatacenterAvailability{
				Datacenter:   util.NormalizeKey(dc.Datacenter),
				Availability: dc.Availability,
			})
		}
		results = append(results, pa)
	}
	return results, nil
}

// availabilityPath builds the availability query path. Option families are
// sorted so the same configuration always produces the same URL.
func availabilityPath(planCode string, options []domain.AddonOption) string {
	params := url.Values{}
	params.Set("planCode", planCode)
	for _, opt := range options {
		if opt.Family == "" || opt.Code == "" {
			continue
		}
		params.Set("option."+opt.Family, opt.Code)
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString("/dedicated/server/datacenter/availabilities?")
	for i, k := range keys {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(k))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(params.Get(k)))
	}
	return sb.String()
}

type cartResponse struct {
	CartID string `json:"cartId"`
}

type itemResponse struct {
	ItemID int64 `json:"itemId"`
}

type requiredConfiguration struct {
	Label         string   `json:"label"`
	AllowedValues []string `json:"allowedValues"`
}

type ecoOption struct {
	Family    string `json:"family"`
	PlanCode  string `json:"planCode"`
	Mandatory bool   `json:"mandatory"`
}

type checkoutResponse struct {
	OrderID int64  `json:"orderId"`
	URL     string `json:"url"`
}

// PlaceOrder runs the full cart flow for one datacenter: create cart, add
// the plan, satisfy required configuration, attach hardware options, assign,
// checkout. Checkout never auto-pays and always waives the retraction
// period so the server is provisioned immediately once paid.
func (p *OVHProvider) PlaceOrder(ctx context.Context, req domain.OrderRequest) (*domain.OrderResult, error) {
	if req.PlanCode == "" || req.Datacenter == "" {
		return nil, fmt.Errorf("ovh: plan code and datacenter are required: %w", domain.ErrValidation)
	}
	quantity := req.Quantity
	if quantity < 1 {
		quantity = 1
	}

	var cart cartResponse
	err := p.client.PostWithContext(ctx, "/order/cart", map[string]any{
		"ovhSubsidiary": p.subsidiary,
	}, &cart)
	if err != nil {
		return nil, classify("cart creation", err)
	}
	p.logf("created cart %s", cart.CartID)

	var item itemResponse
	err = p.client.PostWithContext(ctx, fmt.Sprintf("/order/cart/%s/eco", cart.CartID), map[string]any{
		"planCode":    req.PlanCode,
		"pricingMode": "default",
		"duration":    req.Duration,
		"quantity":    quantity,
	}, &item)
	if err != nil {
		return nil, classify("adding plan to cart", err)
	}

	if err := p.configureItem(ctx, cart.CartID, item.ItemID, req); err != nil {
		return nil, err
	}

	optionsAdded, err := p.attachOptions(ctx, cart.CartID, item.ItemID, req)
	if err != nil {
		return nil, err
	}

	err = p.client.PostWithContext(ctx, fmt.Sprintf("/order/cart/%s/assign", cart.CartID), nil, nil)
	if err != nil {
		return nil, classify("cart assignment", err)
	}

	var checkout checkoutResponse
	err = p.client.PostWithContext(ctx, fmt.Sprintf("/order/cart/%s/checkout", cart.CartID), map[string]any{
		"autoPayWithPreferredPaymentMethod": false,
		"waiveRetractationPeriod":           true,
	}, &checkout)
	if err != nil {
		return nil, classify("checkout", err)
	}
	p.logf("order %d placed for %s in %s", checkout.OrderID, req.PlanCode, req.Datacenter)

	return &domain.OrderResult{
		OrderID:      fmt.Sprintf("%d", checkout.OrderID),
		OrderURL:     checkout.URL,
		OptionsAdded: optionsAdded,
	}, nil
}

// configureItem satisfies the item's required configuration labels. The
// datacenter and OS come from the request; the region is inferred from the
// datacenter. Labels the request cannot satisfy are left to the API's
// defaults.
func (p *OVHProvider) configureItem(ctx context.Context, cartID string, itemID int64, req domain.OrderRequest) error {
	var required []requiredConfiguration
	err := p.client.GetWithContext(ctx,
		fmt.Sprintf("/order/cart/%s/item/%d/requiredConfiguration", cartID, itemID), &required)
	if err != nil {
		return classify("reading required configuration", err)
	}

	values := map[string]string{
		"dedicated_datacenter": util.NormalizeKey(req.Datacenter),
		"dedicated_os":         req.OS,
		"region":               RegionForDatacenter(req.Datacenter),
	}

	for _, rc := range required {
		value, ok := values[rc.Label]
		if !ok || value == "" {
			continue
		}
		err := p.client.PostWithContext(ctx,
			fmt.Sprintf("/order/cart/%s/item/%d/configuration", cartID, itemID),
			map[string]any{"label": rc.Label, "value": value}, nil)
		if err != nil {
			return classify(fmt.Sprintf("setting configuration %s", rc.Label), err)
		}
		p.logf("configured %s=%s", rc.Label, value)
	}
	return nil
}

// attachOptions adds the requested hardware options to the cart item.
// Requested options are matched against the options the API offers for
// this plan; an offered option matches when its plan code equals the
// requested code or extends it (the API may suffix a pricing variant).
// Unmatched or rejected options are skipped, not fatal.
func (p *OVHProvider) attachOptions(ctx context.Context, cartID string, itemID int64, req domain.OrderRequest) (int, error) {
	if len(req.Options) == 0 {
		return 0, nil
	}

	var offered []ecoOption
	err := p.client.GetWithContext(ctx,
		fmt.Sprintf("/order/cart/%s/eco/options?planCode=%s", cartID, url.QueryEscape(req.PlanCode)), &offered)
	if err != nil {
		return 0, classify("listing plan options", err)
	}

	quantity := req.Quantity
	if quantity < 1 {
		quantity = 1
	}

	added := 0
	for _, want := range req.Options {
		code := matchOfferedOption(offered, want.Code)
		if code == "" {
			p.logf("option %s not offered for %s, skipping", want.Code, req.PlanCode)
			continue
		}
		err := p.client.PostWithContext(ctx,
			fmt.Sprintf("/order/cart/%s/eco/options", cartID), map[string]any{
				"planCode":    code,
				"pricingMode": "default",
				"duration":    req.Duration,
				"quantity":    quantity,
				"itemId":      itemID,
			}, nil)
		if err != nil {
			p.logf("option %s rejected: %v", code, err)
			continue
		}
		added++
	}
	return added, nil
}

// matchOfferedOption returns the offered plan code matching the requested
// option code, or "" when nothing matches.
func matchOfferedOption(offered []ecoOption, code string) string {
	for _, o := range offered {
		if o.PlanCode == code {
			return o.PlanCode
		}
	}
	for _, o := range offered {
		if strings.HasPrefix(o.PlanCode, code) {
			return o.PlanCode
		}
	}
	return ""
}

// RegionForDatacenter infers the ordering region from a datacenter code.
// Unknown datacenters default to "europe", where most Eco inventory lives.
func RegionForDatacenter(datacenter string) string {
	dc := util.NormalizeKey(datacenter)
	if len(dc) > 3 {
		dc = dc[:3]
	}
	switch dc {
	case "bhs", "bea":
		return "canada"
	case "vin", "hil":
		return "usa"
	case "syd", "sgp", "mum":
		return "apac"
	default:
		return "europe"
	}
}

// classify maps API errors onto domain sentinels so callers can react to
// the class of failure without knowing the transport.
func classify(op string, err error) error {
	var apiErr *ovh.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case 401, 403:
			return fmt.Errorf("ovh: %s: %s: %w", op, apiErr.Message, domain.ErrUnauthorized)
		case 404:
			return fmt.Errorf("ovh: %s: %s: %w", op, apiErr.Message, domain.ErrNotFound)
		case 429:
			return fmt.Errorf("ovh: %s: %s: %w", op, apiErr.Message, domain.ErrRateLimited)
		case 400:
			return fmt.Errorf("ovh: %s: %s: %w", op, apiErr.Message, domain.ErrValidation)
		}
	}
	return fmt.Errorf("ovh: %s: %w", op, err)
}
