package availability

import (
	"testing"

	"ecosniper/internal/domain"
)

func testRecords() []domain.PlanAvailability {
	return []domain.PlanAvailability{
		{
			FQN:      "24ska01.ram-32g.ssd-500",
			PlanCode: "24ska01",
			Datacenters: []domain.DatacenterAvailability{
				{Datacenter: "BHS", Availability: "72H"},
				{Datacenter: "rbx", Availability: "unavailable"},
				{Datacenter: "gra", Availability: "high"},
			},
		},
	}
}

func TestMap_CaseInsensitiveLookup(t *testing.T) {
	m := NewMap(testRecords())

	for _, dc := range []string{"bhs", "BHS", "Bhs"} {
		raw, ok := m.Raw("24ska01", dc)
		if !ok {
			t.Fatalf("expected signal for datacenter %q", dc)
		}
		if raw != "72H" {
			t.Errorf("Raw(24ska01, %q) = %q, want %q", dc, raw, "72H")
		}
	}

	if _, ok := m.Raw("24SKA01", "gra"); !ok {
		t.Error("expected plan code lookup to be case-insensitive")
	}
}

func TestMap_StatusNeverChecked(t *testing.T) {
	m := NewMap(testRecords())

	got := m.Status("24ska01", "waw")
	if got.Status != StatusUnknown {
		t.Errorf("expected StatusUnknown for unchecked datacenter, got %v", got.Status)
	}
	if got.Label != "not checked" {
		t.Errorf("expected %q label, got %q", "not checked", got.Label)
	}

	got = m.Status("no-such-plan", "bhs")
	if got.Status != StatusUnknown || got.Label != "not checked" {
		t.Errorf("expected never-checked result for unknown plan, got %+v", got)
	}
}

func TestMap_StatusResolvesRaw(t *testing.T) {
	m := NewMap(testRecords())

	if got := m.Status("24ska01", "rbx"); got.Status != StatusUnavailable {
		t.Errorf("expected StatusUnavailable for rbx, got %v", got.Status)
	}
	if got := m.Status("24ska01", "gra"); got.Label != "ample stock" {
		t.Errorf("expected ample stock for gra, got %q", got.Label)
	}
}

func TestMap_UpdateReplacesSignal(t *testing.T) {
	m := NewMap(testRecords())

	m.Update([]domain.PlanAvailability{{
		PlanCode: "24ska01",
		Datacenters: []domain.DatacenterAvailability{
			{Datacenter: "RBX", Availability: "1H"},
		},
	}})

	got := m.Status("24ska01", "rbx")
	if got.Status != StatusAvailable {
		t.Errorf("expected refreshed rbx signal to resolve available, got %v", got.Status)
	}

	// Other datacenters keep their prior signals.
	if got := m.Status("24ska01", "gra"); got.Status != StatusAvailable {
		t.Errorf("expected gra signal to survive update, got %v", got.Status)
	}
}

func TestMap_Datacenters(t *testing.T) {
	m := NewMap(testRecords())

	dcs := m.Datacenters("24ska01")
	if len(dcs) != 3 {
		t.Fatalf("expected 3 datacenters, got %d: %v", len(dcs), dcs)
	}
	if dcs := m.Datacenters("other"); dcs != nil {
		t.Errorf("expected nil for unknown plan, got %v", dcs)
	}
}
