package battery

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"
)

const sampleReportHTML = `<html><body>
<table>
<tr><td><span class="label">MANUFACTURER</span></td><td>Sample&nbsp;Corp</td></tr>
<tr><td><span class="label">CHEMISTRY</span></td><td>LIon</td></tr>
<tr><td><span class="label">DESIGN CAPACITY</span></td><td>50,000 mWh</td></tr>
<tr><td><span class="label">FULL CHARGE CAPACITY</span></td><td>45,000 mWh</td></tr>
<tr><td><span class="label">CYCLE COUNT</span></td><td>333</td></tr>
</table>
</body></html>`

func newCachedReport(t *testing.T, html string) *ReportSource {
	t.Helper()
	cachePath := filepath.Join(t.TempDir(), "report.html")
	if err := os.WriteFile(cachePath, []byte(html), 0o644); err != nil {
		t.Fatalf("write cache: %v", err)
	}
	return NewReportSource(cachePath, time.Second)
}

func TestReportFields(t *testing.T) {
	r := newCachedReport(t, sampleReportHTML)

	if !r.Available() {
		t.Fatal("report should be available from cache")
	}
	if got, ok := r.Manufacturer(); !ok || got != "Sample Corp" {
		t.Fatalf("Manufacturer = %q, %v; want Sample Corp", got, ok)
	}
	if got, ok := r.Chemistry(); !ok || got != "LIon" {
		t.Fatalf("Chemistry = %q, %v; want LIon", got, ok)
	}
	if got := r.DesignCapacity(); got != 50000 {
		t.Fatalf("DesignCapacity = %d, want 50000", got)
	}
	if got := r.FullCapacity(); got != 45000 {
		t.Fatalf("FullCapacity = %d, want 45000", got)
	}
	if got := r.CycleCount(); got != 333 {
		t.Fatalf("CycleCount = %d, want 333", got)
	}
	if got := r.HealthPercent(); got != 90.0 {
		t.Fatalf("HealthPercent = %v, want 90.0", got)
	}
}

func TestReportMissingFields(t *testing.T) {
	r := newCachedReport(t, `<html><body>no battery tables here</body></html>`)

	if _, ok := r.Manufacturer(); ok {
		t.Fatal("Manufacturer should be missing")
	}
	if got := r.DesignCapacity(); got != 0 {
		t.Fatalf("DesignCapacity = %d, want 0", got)
	}
	if got := r.HealthPercent(); got != 0 {
		t.Fatalf("HealthPercent = %v, want 0", got)
	}
}

func TestReportUnavailable(t *testing.T) {
	// No cache and a command that cannot succeed. Lookups degrade to
	// missing values instead of failing.
	r := &ReportSource{
		cachePath: filepath.Join(t.TempDir(), "missing", "report.html"),
		timeout:   time.Second,
		command:   []string{"false"},
	}
	if err := r.Refresh(false); err == nil {
		t.Fatal("Refresh should fail without cache or working command")
	}

	if r.Available() {
		t.Fatal("report should not be available")
	}
	if _, ok := r.Manufacturer(); ok {
		t.Fatal("Manufacturer should be missing")
	}
	if got := r.CycleCount(); got != 0 {
		t.Fatalf("CycleCount = %d, want 0", got)
	}
}

func TestReportGenerateAndCache(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses a shell script in place of the report command")
	}

	dir := t.TempDir()
	generatedPath := filepath.Join(dir, "generated.html")
	if err := os.WriteFile(generatedPath, []byte(sampleReportHTML), 0o644); err != nil {
		t.Fatalf("write generated report: %v", err)
	}

	cachePath := filepath.Join(dir, "cache", "report.html")
	r := &ReportSource{
		cachePath: cachePath,
		timeout:   5 * time.Second,
		command:   []string{"sh", "-c", "echo 'Battery life report saved to file path " + generatedPath + "'"},
	}

	if err := r.Refresh(false); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if got, ok := r.Manufacturer(); !ok || got != "Sample Corp" {
		t.Fatalf("Manufacturer = %q, %v; want Sample Corp", got, ok)
	}

	// The generated original is removed, the cache persists.
	if _, err := os.Stat(generatedPath); !os.IsNotExist(err) {
		t.Fatalf("generated report should be removed, stat err = %v", err)
	}
	if _, err := os.Stat(cachePath); err != nil {
		t.Fatalf("cache should exist: %v", err)
	}

	// A fresh source picks the cache up without running any command.
	r2 := &ReportSource{
		cachePath: cachePath,
		timeout:   time.Second,
		command:   []string{"false"},
	}
	if err := r2.Refresh(false); err != nil {
		t.Fatalf("Refresh from cache: %v", err)
	}
	if got, ok := r2.Manufacturer(); !ok || got != "Sample Corp" {
		t.Fatalf("Manufacturer from cache = %q, %v; want Sample Corp", got, ok)
	}
}

func TestFindReportPath(t *testing.T) {
	cases := []struct {
		name   string
		output string
		want   string
	}{
		{"file path phrasing", "Battery life report saved to file path C:\\report.html", "C:\\report.html"},
		{"short phrasing", "Battery report saved to C:\\Users\\u\\battery-report.html", "C:\\Users\\u\\battery-report.html"},
		{"quoted", `saved to "C:\out put\report.html"`, `C:\out put\report.html`},
		{"no match", "access denied", ""},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := findReportPath(c.output); got != c.want {
				t.Fatalf("findReportPath(%q) = %q, want %q", c.output, got, c.want)
			}
		})
	}
}
