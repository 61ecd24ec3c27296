// Package catalog fetches the public eco server catalog: plan codes,
// invoice names, and the addon families each plan can be customized with.
// The catalog endpoint is unauthenticated, so this package does plain HTTP
// with retries rather than going through the signed API client.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"ecosniper/internal/cache"
	"ecosniper/internal/domain"
)

const defaultBaseURL = "https://eu.api.ovh.com/v1"

// Client fetches and parses the public catalog.
type Client struct {
	baseURL  string
	http     *retryablehttp.Client
	cache    *cache.Cache
	cacheTTL time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL. Intended for testing.
func WithBaseURL(base string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(base, "/") }
}

// WithCache serves catalog responses from a file-backed cache for ttl
// before hitting the network again.
func WithCache(fc *cache.Cache, ttl time.Duration) Option {
	return func(c *Client) {
		c.cache = fc
		c.cacheTTL = ttl
	}
}

// NewClient creates a catalog client with retrying HTTP transport.
func NewClient(opts ...Option) *Client {
	httpClient := retryablehttp.NewClient()
	httpClient.RetryMax = 3
	httpClient.Logger = nil

	c := &Client{
		baseURL: defaultBaseURL,
		http:    httpClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// catalogPayload mirrors the subset of the catalog response we consume.
type catalogPayload struct {
	Plans []struct {
		PlanCode      string `json:"planCode"`
		InvoiceName   string `json:"invoiceName"`
		AddonFamilies []struct {
			Name      string   `json:"name"`
			Exclusive bool     `json:"exclusive"`
			Mandatory bool     `json:"mandatory"`
			Addons    []string `json:"addons"`
		} `json:"addonFamilies"`
	} `json:"plans"`
}

// FetchPlans downloads the eco catalog for a subsidiary and returns all
// orderable plans with their addon families.
func (c *Client) FetchPlans(ctx context.Context, subsidiary string) ([]domain.Plan, error) {
	cacheKey := "eco-catalog-" + strings.ToLower(strings.TrimSpace(subsidiary))
	var cached []domain.Plan
	if hit, err := c.cache.Get(cacheKey, c.cacheTTL, &cached); err == nil && hit {
		return cached, nil
	}

	endpoint := fmt.Sprintf("%s/order/catalog/public/eco?ovhSubsidiary=%s",
		c.baseURL, url.QueryEscape(strings.ToUpper(subsidiary)))

	req, err := retryablehttp.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("catalog: failed to build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog: fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("catalog: unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload catalogPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("catalog: failed to decode response: %w", err)
	}

	plans := make([]domain.Plan, 0, len(payload.Plans))
	for _, p := range payload.Plans {
		plan := domain.Plan{
			Code:        p.PlanCode,
			DisplayName: p.InvoiceName,
		}
		for _, f := range p.AddonFamilies {
			family := domain.AddonFamily{
				Name:      f.Name,
				Exclusive: f.Exclusive,
				Mandatory: f.Mandatory,
			}
			for _, code := range f.Addons {
				family.Options = append(family.Options, domain.AddonOption{
					Family:       f.Name,
					Code:         code,
					DisplayLabel: displayLabel(code, p.PlanCode),
				})
			}
			plan.AddonFamilies = append(plan.AddonFamilies, family)
		}
		plans = append(plans, plan)
	}

	// A stale catalog only costs the user an outdated plan listing, so a
	// failed write is not worth failing the fetch over.
	_ = c.cache.Set(cacheKey, plans)

	return plans, nil
}

// FindPlan returns the plan with the given code from the fetched catalog.
func FindPlan(plans []domain.Plan, planCode string) (domain.Plan, error) {
	want := strings.ToLower(strings.TrimSpace(planCode))
	for _, p := range plans {
		if strings.ToLower(p.Code) == want {
			return p, nil
		}
	}
	return domain.Plan{}, fmt.Errorf("catalog: plan %q: %w", planCode, domain.ErrNotFound)
}

// displayLabel strips the plan-code suffix addon codes carry, e.g.
// "ram-32g-noecc-2133-24ska01" shown for plan 24ska01 becomes
// "ram-32g-noecc-2133".
func displayLabel(code, planCode string) string {
	if planCode != "" {
		code = strings.TrimSuffix(code, "-"+planCode)
	}
	return code
}
