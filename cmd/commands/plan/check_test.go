package plan

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"ecosniper/internal/domain"
)

type stubProvider struct {
	mu      sync.Mutex
	queried []string
	records map[string][]domain.PlanAvailability
	errs    map[string]error
}

func (p *stubProvider) GetDisplayName() string { return "stub" }

func (p *stubProvider) CheckAvailability(ctx context.Context, planCode string, options []domain.AddonOption) ([]domain.PlanAvailability, error) {
	p.mu.Lock()
	p.queried = append(p.queried, planCode)
	p.mu.Unlock()

	if err := p.errs[planCode]; err != nil {
		return nil, err
	}
	return p.records[planCode], nil
}

func (p *stubProvider) PlaceOrder(ctx context.Context, req domain.OrderRequest) (*domain.OrderResult, error) {
	return nil, errors.New("not implemented")
}

func TestCheckPlans_MergesAllPlans(t *testing.T) {
	provider := &stubProvider{
		records: map[string][]domain.PlanAvailability{
			"24ska01": {{
				PlanCode: "24ska01",
				Datacenters: []domain.DatacenterAvailability{
					{Datacenter: "bhs", Availability: "72H"},
					{Datacenter: "gra", Availability: "unavailable"},
				},
			}},
			"24ska02": {{
				PlanCode: "24ska02",
				Datacenters: []domain.DatacenterAvailability{
					{Datacenter: "rbx", Availability: "1H-low"},
				},
			}},
		},
	}

	records, err := checkPlans(context.Background(), provider, []string{"24ska01", "24ska02"}, nil)
	if err != nil {
		t.Fatalf("checkPlans failed: %v", err)
	}

	want := []domain.PlanAvailability{
		{
			PlanCode: "24ska01",
			Datacenters: []domain.DatacenterAvailability{
				{Datacenter: "bhs", Availability: "72H"},
				{Datacenter: "gra", Availability: "unavailable"},
			},
		},
		{
			PlanCode: "24ska02",
			Datacenters: []domain.DatacenterAvailability{
				{Datacenter: "rbx", Availability: "1H-low"},
			},
		},
	}
	if diff := cmp.Diff(want, records); diff != "" {
		t.Errorf("merged records mismatch (-want +got):\n%s", diff)
	}

	sort.Strings(provider.queried)
	if diff := cmp.Diff([]string{"24ska01", "24ska02"}, provider.queried); diff != "" {
		t.Errorf("queried plans mismatch (-want +got):\n%s", diff)
	}
}

func TestCheckPlans_FailingPlanFailsCheck(t *testing.T) {
	provider := &stubProvider{
		records: map[string][]domain.PlanAvailability{
			"24ska01": {{
				PlanCode: "24ska01",
				Datacenters: []domain.DatacenterAvailability{
					{Datacenter: "bhs", Availability: "72H"}},
			}},
		},
		errs: map[string]error{
			"24ska02": domain.ErrRateLimited,
		},
	}

	_, err := checkPlans(context.Background(), provider, []string{"24ska01", "24ska02"}, nil)
	if !errors.Is(err, domain.ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
	if !strings.Contains(err.Error(), "24ska02") {
		t.Errorf("error should name the failing plan, got %q", err)
	}
}
