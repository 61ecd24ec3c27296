package task

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"pgregory.net/rapid"

	"ecosniper/internal/domain"
)

func TestRetryPolicy_Validate(t *testing.T) {
	valid := []RetryPolicy{
		{MaxAttempts: -1, IntervalSeconds: 5},
		{MaxAttempts: 0, IntervalSeconds: 60},
		{MaxAttempts: 100, IntervalSeconds: 600},
	}
	for _, p := range valid {
		if err := p.Validate(); err != nil {
			t.Errorf("Validate(%+v) = %v, want nil", p, err)
		}
	}

	invalid := []RetryPolicy{
		{MaxAttempts: -2, IntervalSeconds: 60},
		{MaxAttempts: 101, IntervalSeconds: 60},
		{MaxAttempts: -1, IntervalSeconds: 4},
		{MaxAttempts: -1, IntervalSeconds: 601},
	}
	for _, p := range invalid {
		err := p.Validate()
		if err == nil {
			t.Errorf("Validate(%+v) = nil, want error", p)
			continue
		}
		if !errors.Is(err, domain.ErrValidation) {
			t.Errorf("Validate(%+v) error should wrap ErrValidation, got %v", p, err)
		}
	}
}

func TestRetryPolicy_ValidateRangeProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		p := RetryPolicy{
			MaxAttempts:     rapid.IntRange(-500, 500).Draw(t, "attempts"),
			IntervalSeconds: rapid.IntRange(-500, 1200).Draw(t, "interval"),
		}
		err := p.Validate()
		inRange := p.MaxAttempts >= -1 && p.MaxAttempts <= 100 &&
			p.IntervalSeconds >= 5 && p.IntervalSeconds <= 600
		if inRange && err != nil {
			t.Fatalf("in-range policy %+v rejected: %v", p, err)
		}
		if !inRange && err == nil {
			t.Fatalf("out-of-range policy %+v accepted", p)
		}
	})
}

func TestBuild_OneSpecPerDatacenterInOrder(t *testing.T) {
	plan := domain.Plan{Code: "ks-1", DisplayName: "ks-1"}
	selections := []domain.AddonOption{
		{Family: "memory", Code: "32g", DisplayLabel: "32 GB"},
	}
	params := BuildParams{Retry: RetryPolicy{MaxAttempts: -1, IntervalSeconds: 60}}

	specs, err := Build(plan, selections, []string{"bhs", "rbx"}, params)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(specs) != 2 {
		t.Fatalf("expected 2 specs, got %d", len(specs))
	}

	if specs[0].Name != "ks-1 (bhs)" || specs[1].Name != "ks-1 (rbx)" {
		t.Errorf("spec names = %q, %q; want %q, %q",
			specs[0].Name, specs[1].Name, "ks-1 (bhs)", "ks-1 (rbx)")
	}

	wantOptions := []OptionRef{{Family: "memory", Option: "32g"}}
	for i, spec := range specs {
		if diff := cmp.Diff(wantOptions, spec.Options); diff != "" {
			t.Errorf("spec[%d] options mismatch (-want +got):\n%s", i, diff)
		}
		if diff := cmp.Diff(params.Retry, spec.RetryPolicy); diff != "" {
			t.Errorf("spec[%d] retry policy mismatch (-want +got):\n%s", i, diff)
		}
	}
}

func TestBuild_CustomName(t *testing.T) {
	plan := domain.Plan{Code: "ks-1", DisplayName: "KS-1"}
	params := BuildParams{Name: "weekend sniper", Retry: DefaultRetryPolicy()}

	specs, err := Build(plan, nil, []string{"bhs", "rbx"}, params)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if specs[0].Name != "weekend sniper (bhs)" || specs[1].Name != "weekend sniper (rbx)" {
		t.Errorf("spec names = %q, %q; want the override with datacenter suffixes",
			specs[0].Name, specs[1].Name)
	}
}

func TestBuild_InvalidNameFails(t *testing.T) {
	plan := domain.Plan{Code: "ks-1"}
	params := BuildParams{Name: "bad\x00name", Retry: DefaultRetryPolicy()}

	specs, err := Build(plan, nil, []string{"bhs"}, params)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if specs != nil {
		t.Error("no specs may exist when the name is rejected")
	}
}

func TestBuild_EmptyDatacentersFails(t *testing.T) {
	plan := domain.Plan{Code: "ks-1"}
	specs, err := Build(plan, nil, nil, BuildParams{Retry: DefaultRetryPolicy()})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if len(specs) != 0 {
		t.Errorf("expected zero specs on validation failure, got %d", len(specs))
	}
}

func TestBuild_MissingPlanCodeFails(t *testing.T) {
	_, err := Build(domain.Plan{}, nil, []string{"bhs"}, BuildParams{Retry: DefaultRetryPolicy()})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestBuild_InvalidPolicyFailsBeforeBuilding(t *testing.T) {
	plan := domain.Plan{Code: "ks-1"}
	params := BuildParams{Retry: RetryPolicy{MaxAttempts: -2, IntervalSeconds: 60}}
	specs, err := Build(plan, nil, []string{"bhs"}, params)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if specs != nil {
		t.Error("no specs may exist when validation fails")
	}
}

func TestBuild_QuantityBounds(t *testing.T) {
	plan := domain.Plan{Code: "ks-1"}
	params := BuildParams{Retry: DefaultRetryPolicy(), Quantity: 6}
	if _, err := Build(plan, nil, []string{"bhs"}, params); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("quantity 6 should fail validation, got %v", err)
	}

	params.Quantity = 0 // falls back to 1, not an error
	specs, err := Build(plan, nil, []string{"bhs"}, params)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if specs[0].Quantity != 1 {
		t.Errorf("expected default quantity 1, got %d", specs[0].Quantity)
	}
}

func TestBuild_SpecsDoNotAliasSelections(t *testing.T) {
	plan := domain.Plan{Code: "ks-1", DisplayName: "KS-1"}
	selections := []domain.AddonOption{
		{Family: "memory", Code: "32g"},
	}

	specs, err := Build(plan, selections, []string{"bhs"}, BuildParams{Retry: DefaultRetryPolicy()})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	// Mutating the source selection afterwards must not reach the spec.
	selections[0].Code = "64g"

	want := []OptionRef{{Family: "memory", Option: "32g"}}
	if diff := cmp.Diff(want, specs[0].Options); diff != "" {
		t.Errorf("spec aliased the selection slice (-want +got):\n%s", diff)
	}
}

func TestSpec_WireShapeRoundTrip(t *testing.T) {
	spec := Spec{
		Name:       "KS-A | Intel i7-6700k (gra)",
		PlanCode:   "24ska01",
		Options:    []OptionRef{{Family: "memory", Option: "ram-32g-noecc-2133"}},
		Duration:   "P1M",
		Datacenter: "gra",
		Quantity:   1,
		OS:         "none_64.en",
		RetryPolicy: RetryPolicy{
			MaxAttempts:     -1,
			IntervalSeconds: 60,
		},
	}

	data, err := json.Marshal(spec)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	want := `{"name":"KS-A | Intel i7-6700k (gra)","planCode":"24ska01",` +
		`"options":[{"family":"memory","option":"ram-32g-noecc-2133"}],` +
		`"duration":"P1M","datacenter":"gra","quantity":1,"os":"none_64.en",` +
		`"maxRetries":-1,"taskInterval":60}`
	if string(data) != want {
		t.Errorf("wire shape mismatch:\n got %s\nwant %s", data, want)
	}

	var decoded Spec
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if diff := cmp.Diff(spec, decoded); diff != "" {
		t.Errorf("round-trip mismatch (-want +got):\n%s", diff)
	}
}

func TestSpec_OrderRequest(t *testing.T) {
	spec := Spec{
		PlanCode:   "24ska01",
		Datacenter: "gra",
		Quantity:   1,
		OS:         "none_64.en",
		Duration:   "P1M",
		Options:    []OptionRef{{Family: "storage", Option: "softraid-1x480ssd"}},
	}

	req := spec.OrderRequest()
	want := domain.OrderRequest{
		PlanCode:   "24ska01",
		Datacenter: "gra",
		Quantity:   1,
		OS:         "none_64.en",
		Duration:   "P1M",
		Options:    []domain.AddonOption{{Family: "storage", Code: "softraid-1x480ssd"}},
	}
	if diff := cmp.Diff(want, req); diff != "" {
		t.Errorf("OrderRequest mismatch (-want +got):\n%s", diff)
	}
}
