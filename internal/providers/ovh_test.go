package providers

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/ovh/go-ovh/ovh"

	"ecosniper/internal/domain"
)

// fakeClient answers API calls from canned JSON keyed by "METHOD path".
// Paths match on prefix so query strings don't need repeating.
type fakeClient struct {
	responses map[string]string
	errs      map[string]error
	calls     []fakeCall
}

type fakeCall struct {
	method string
	path   string
	body   any
}

func (f *fakeClient) GetWithContext(_ context.Context, path string, res interface{}) error {
	return f.handle("GET", path, nil, res)
}

func (f *fakeClient) PostWithContext(_ context.Context, path string, body interface{}, res interface{}) error {
	return f.handle("POST", path, body, res)
}

func (f *fakeClient) handle(method, path string, body any, res interface{}) error {
	f.calls = append(f.calls, fakeCall{method: method, path: path, body: body})

	// Longest key wins so "POST /order/cart" doesn't shadow
	// "POST /order/cart/abc123/eco".
	if key := longestMatch(f.errs, method, path); key != "" {
		return f.errs[key]
	}
	if key := longestMatch(f.responses, method, path); key != "" {
		if res == nil {
			return nil
		}
		return json.Unmarshal([]byte(f.responses[key]), res)
	}
	return nil
}

func longestMatch[V any](m map[string]V, method, path string) string {
	best := ""
	for key := range m {
		km, kp, _ := strings.Cut(key, " ")
		if km == method && strings.HasPrefix(path, kp) && len(key) > len(best) {
			best = key
		}
	}
	return best
}

func (f *fakeClient) posted(pathPrefix string) []fakeCall {
	var out []fakeCall
	for _, c := range f.calls {
		if c.method == "POST" && strings.HasPrefix(c.path, pathPrefix) {
			out = append(out, c)
		}
	}
	return out
}

func newFakeProvider(client *fakeClient) *OVHProvider {
	return &OVHProvider{client: client, subsidiary: "IE"}
}

func TestAvailabilityPath(t *testing.T) {
	options := []domain.AddonOption{
		{Family: "storage", Code: "softraid-1x480ssd"},
		{Family: "memory", Code: "ram-32g-noecc-2133"},
	}
	got := availabilityPath("24ska01", options)
	want := "/dedicated/server/datacenter/availabilities?" +
		"option.memory=ram-32g-noecc-2133&option.storage=softraid-1x480ssd&planCode=24ska01"
	if got != want {
		t.Errorf("availabilityPath = %q, want %q", got, want)
	}
}

func TestAvailabilityPath_NoOptions(t *testing.T) {
	got := availabilityPath("24ska01", nil)
	want := "/dedicated/server/datacenter/availabilities?planCode=24ska01"
	if got != want {
		t.Errorf("availabilityPath = %q, want %q", got, want)
	}
}

func TestAvailabilityPath_SkipsIncompleteOptions(t *testing.T) {
	options := []domain.AddonOption{
		{Family: "memory", Code: ""},
		{Family: "", Code: "softraid-1x480ssd"},
	}
	got := availabilityPath("24ska01", options)
	if strings.Contains(got, "option.") {
		t.Errorf("incomplete options should be dropped, got %q", got)
	}
}

func TestCheckAvailability_NormalizesDatacenters(t *testing.T) {
	client := &fakeClient{responses: map[string]string{
		"GET /dedicated/server/datacenter/availabilities": `[
			{"fqn":"24ska01.ram-32g.softraid","planCode":"24ska01","datacenters":[
				{"datacenter":"BHS","availability":"72H"},
				{"datacenter":"gra","availability":"unavailable"}
			]}
		]`,
	}}
	p := newFakeProvider(client)

	got, err := p.CheckAvailability(context.Background(), "24ska01", nil)
	if err != nil {
		t.Fatalf("CheckAvailability failed: %v", err)
	}

	want := []domain.PlanAvailability{{
		FQN:      "24ska01.ram-32g.softraid",
		PlanCode: "24ska01",
		Datacenters: []domain.DatacenterAvailability{
			{Datacenter: "bhs", Availability: "72H"},
			{Datacenter: "gra", Availability: "unavailable"},
		},
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("availability mismatch (-want +got):\n%s", diff)
	}
}

func TestRegionForDatacenter(t *testing.T) {
	tests := []struct {
		dc, want string
	}{
		{"gra", "europe"},
		{"rbx2", "europe"},
		{"SBG", "europe"},
		{"waw", "europe"},
		{"bhs", "canada"},
		{"beauharnois", "canada"},
		{"vin", "usa"},
		{"hil", "usa"},
		{"syd", "apac"},
		{"sgp", "apac"},
		{"mum", "apac"},
		{"xyz", "europe"},
	}
	for _, tt := range tests {
		if got := RegionForDatacenter(tt.dc); got != tt.want {
			t.Errorf("RegionForDatacenter(%q) = %q, want %q", tt.dc, got, tt.want)
		}
	}
}

func TestMatchOfferedOption(t *testing.T) {
	offered := []ecoOption{
		{Family: "memory", PlanCode: "ram-32g-noecc-2133-24ska01"},
		{Family: "storage", PlanCode: "softraid-1x480ssd-24ska01"},
	}

	if got := matchOfferedOption(offered, "ram-32g-noecc-2133-24ska01"); got != "ram-32g-noecc-2133-24ska01" {
		t.Errorf("exact match failed, got %q", got)
	}
	if got := matchOfferedOption(offered, "softraid-1x480ssd"); got != "softraid-1x480ssd-24ska01" {
		t.Errorf("prefix match failed, got %q", got)
	}
	if got := matchOfferedOption(offered, "gpu-rtx4000"); got != "" {
		t.Errorf("unoffered option should not match, got %q", got)
	}
}

func TestPlaceOrder_FullFlow(t *testing.T) {
	client := &fakeClient{responses: map[string]string{
		"POST /order/cart/abc123/eco/options": `{}`,
		"POST /order/cart/abc123/eco":         `{"itemId":42}`,
		"POST /order/cart":                    `{"cartId":"abc123"}`,
		"GET /order/cart/abc123/item/42/requiredConfiguration": `[
			{"label":"dedicated_datacenter"},
			{"label":"dedicated_os"},
			{"label":"region"}
		]`,
		"GET /order/cart/abc123/eco/options": `[
			{"family":"memory","planCode":"ram-32g-noecc-2133-24ska01"}
		]`,
		"POST /order/cart/abc123/checkout": `{"orderId":123456789,"url":"https://www.ovh.com/order/123456789"}`,
	}}
	p := newFakeProvider(client)

	result, err := p.PlaceOrder(context.Background(), domain.OrderRequest{
		PlanCode:   "24ska01",
		Datacenter: "BHS",
		Quantity:   1,
		OS:         "none_64.en",
		Duration:   "P1M",
		Options:    []domain.AddonOption{{Family: "memory", Code: "ram-32g-noecc-2133"}},
	})
	if err != nil {
		t.Fatalf("PlaceOrder failed: %v", err)
	}

	if result.OrderID != "123456789" {
		t.Errorf("OrderID = %q", result.OrderID)
	}
	if result.OrderURL != "https://www.ovh.com/order/123456789" {
		t.Errorf("OrderURL = %q", result.OrderURL)
	}
	if result.OptionsAdded != 1 {
		t.Errorf("OptionsAdded = %d, want 1", result.OptionsAdded)
	}

	configured := map[string]string{}
	for _, c := range client.posted("/order/cart/abc123/item/42/configuration") {
		body := c.body.(map[string]any)
		configured[body["label"].(string)] = body["value"].(string)
	}
	want := map[string]string{
		"dedicated_datacenter": "bhs",
		"dedicated_os":         "none_64.en",
		"region":               "canada",
	}
	if diff := cmp.Diff(want, configured); diff != "" {
		t.Errorf("configuration mismatch (-want +got):\n%s", diff)
	}

	if n := len(client.posted("/order/cart/abc123/assign")); n != 1 {
		t.Errorf("expected 1 assign call, got %d", n)
	}
}

func TestPlaceOrder_SkipsRejectedOptions(t *testing.T) {
	client := &fakeClient{
		responses: map[string]string{
			"POST /order/cart/abc123/eco": `{"itemId":42}`,
			"POST /order/cart":            `{"cartId":"abc123"}`,
			"GET /order/cart/abc123/item/42/requiredConfiguration": `[]`,
			"GET /order/cart/abc123/eco/options": `[
				{"family":"memory","planCode":"ram-64g-24ska01"}
			]`,
			"POST /order/cart/abc123/checkout": `{"orderId":1,"url":"u"}`,
		},
		errs: map[string]error{
			"POST /order/cart/abc123/eco/options": &ovh.APIError{Code: 400, Message: "incompatible"},
		},
	}
	p := newFakeProvider(client)

	result, err := p.PlaceOrder(context.Background(), domain.OrderRequest{
		PlanCode:   "24ska01",
		Datacenter: "gra",
		OS:         "none_64.en",
		Duration:   "P1M",
		Options:    []domain.AddonOption{{Family: "memory", Code: "ram-64g"}},
	})
	if err != nil {
		t.Fatalf("PlaceOrder failed: %v", err)
	}
	if result.OptionsAdded != 0 {
		t.Errorf("rejected option should not count, got OptionsAdded=%d", result.OptionsAdded)
	}
}

func TestPlaceOrder_MissingTarget(t *testing.T) {
	p := newFakeProvider(&fakeClient{})

	_, err := p.PlaceOrder(context.Background(), domain.OrderRequest{PlanCode: "24ska01"})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		code int
		want error
	}{
		{401, domain.ErrUnauthorized},
		{403, domain.ErrUnauthorized},
		{404, domain.ErrNotFound},
		{429, domain.ErrRateLimited},
		{400, domain.ErrValidation},
	}
	for _, tt := range tests {
		err := classify("op", &ovh.APIError{Code: tt.code, Message: "boom"})
		if !errors.Is(err, tt.want) {
			t.Errorf("classify(code=%d) = %v, want %v", tt.code, err, tt.want)
		}
	}

	plain := classify("op", errors.New("connection reset"))
	if plain == nil || !strings.Contains(plain.Error(), "connection reset") {
		t.Errorf("plain errors should pass through wrapped, got %v", plain)
	}
}

func TestRegistry(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	RegisterOVH("ovh-eu", "IE")
	names := List()
	if len(names) != 1 || names[0] != "ovh" {
		t.Errorf("List() = %v", names)
	}
}
