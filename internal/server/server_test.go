package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/battkit/battkit/pkg/battery"
)

// fakeSource serves canned data and records how the snapshot was requested.
type fakeSource struct {
	lastUseCache bool
	lastParallel bool
}

func (f *fakeSource) GetResult(useCache, parallel bool) map[string]string {
	f.lastUseCache = useCache
	f.lastParallel = parallel
	data := map[string]string{battery.KeyGenerated: "2026-08-29"}
	for _, key := range battery.MetricKeys {
		data[key] = "n/a"
	}
	data[battery.KeyPercent] = "76%"
	return data
}

func (f *fakeSource) Percent() (int, error)           { return 76, nil }
func (f *fakeSource) IsPlugged() (bool, error)        { return true, nil }
func (f *fakeSource) DesignCapacity() (int, error)    { return 50000, nil }
func (f *fakeSource) RemainingCapacity() (int, error) { return 34200, nil }
func (f *fakeSource) ChargeRate() (int, error)        { return 12500, nil }
func (f *fakeSource) IsFastCharge() (bool, error)     { return false, nil }
func (f *fakeSource) Manufacturer() (string, error)   { return "LG Chem", nil }
func (f *fakeSource) Technology() (string, error)     { return "Li-ion", nil }
func (f *fakeSource) CycleCount() (int, error)        { return 333, nil }
func (f *fakeSource) Health() (float64, error)        { return 90.0, nil }
func (f *fakeSource) Voltage() (float64, error) {
	return 0, battery.ErrMetricUnavailable
}
func (f *fakeSource) Temperature() (float64, error) {
	return 0, battery.ErrMetricUnavailable
}

func doRequest(t *testing.T, src Source, path string) *httptest.ResponseRecorder {
	t.Helper()
	router := New(src)
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	w := doRequest(t, &fakeSource{}, "/healthz")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if w.Body.String() != "ok" {
		t.Fatalf("body = %q, want ok", w.Body.String())
	}
}

func TestGetSnapshot(t *testing.T) {
	src := &fakeSource{}
	w := doRequest(t, src, "/v1/battery")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !src.lastUseCache || !src.lastParallel {
		t.Fatalf("defaults: useCache=%v parallel=%v, want both true", src.lastUseCache, src.lastParallel)
	}

	var data map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &data); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if data[battery.KeyPercent] != "76%" {
		t.Fatalf("percent = %q, want 76%%", data[battery.KeyPercent])
	}
	if data[battery.KeyGenerated] != "2026-08-29" {
		t.Fatalf("generated = %q, want 2026-08-29", data[battery.KeyGenerated])
	}
}

func TestGetSnapshotQueryParams(t *testing.T) {
	src := &fakeSource{}
	doRequest(t, src, "/v1/battery?cache=false&parallel=false")
	if src.lastUseCache || src.lastParallel {
		t.Fatalf("useCache=%v parallel=%v, want both false", src.lastUseCache, src.lastParallel)
	}
}

func TestGetRaw(t *testing.T) {
	w := doRequest(t, &fakeSource{}, "/v1/battery/raw")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var info struct {
		Percent     *int     `json:"battery_percent"`
		Plugged     *bool    `json:"is_plugged"`
		Voltage     *float64 `json:"battery_voltage"`
		Temperature *float64 `json:"battery_temperature"`
		Health      *float64 `json:"battery_health"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &info); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if info.Percent == nil || *info.Percent != 76 {
		t.Fatalf("percent = %v, want 76", info.Percent)
	}
	if info.Plugged == nil || !*info.Plugged {
		t.Fatalf("plugged = %v, want true", info.Plugged)
	}
	if info.Health == nil || *info.Health != 90.0 {
		t.Fatalf("health = %v, want 90", info.Health)
	}
	// Unavailable sensors serialize as null, not zero.
	if info.Voltage != nil {
		t.Fatalf("voltage = %v, want null", *info.Voltage)
	}
	if info.Temperature != nil {
		t.Fatalf("temperature = %v, want null", *info.Temperature)
	}
}
