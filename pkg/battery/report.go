package battery

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/battkit/battkit/pkg/htmltext"
)

// DefaultReportCachePath is where the generated battery report is kept
// between runs. Report generation is slow (powercfg can take seconds), and
// the data it carries is static hardware spec, so the cache has no TTL; only
// an explicit Refresh(true) regenerates it.
const DefaultReportCachePath = ".cache/battery-report.html"

const defaultReportTimeout = 30 * time.Second

var defaultReportCommand = []string{"powercfg", "/batteryreport"}

// powercfg phrasings differ between Windows builds and locale packs that
// keep the English template. Tried in order.
var reportPathPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)saved to file path\s+(.+)`),
	regexp.MustCompile(`(?i)saved to\s+(.+)`),
}

// Label/value cell patterns for the fields battkit reads out of the report.
var reportFieldPatterns = map[string]*regexp.Regexp{
	"manufacturer":    reportFieldPattern("MANUFACTURER"),
	"chemistry":       reportFieldPattern("CHEMISTRY"),
	"design_capacity": reportFieldPattern("DESIGN CAPACITY"),
	"full_capacity":   reportFieldPattern("FULL CHARGE CAPACITY"),
	"cycle_count":     reportFieldPattern("CYCLE COUNT"),
}

func reportFieldPattern(label string) *regexp.Regexp {
	return regexp.MustCompile(`(?is)` + label + `</span>\s*</td>\s*<td[^>]*>(.*?)</td>`)
}

// ReportSource exposes the static battery specification fields of a
// vendor-generated HTML battery report. A previously cached report is reused
// across process restarts; otherwise one is generated on construction. A
// source whose report could not be obtained stays usable: every lookup
// reports the value as missing instead of failing.
type ReportSource struct {
	cachePath string
	timeout   time.Duration
	command   []string

	data string
}

// NewReportSource loads the cached report from cachePath, generating a fresh
// one if no usable cache exists. Zero values select the defaults.
func NewReportSource(cachePath string, timeout time.Duration) *ReportSource {
	if cachePath == "" {
		cachePath = DefaultReportCachePath
	}
	if timeout <= 0 {
		timeout = defaultReportTimeout
	}

	r := &ReportSource{
		cachePath: cachePath,
		timeout:   timeout,
		command:   defaultReportCommand,
	}

	if err := r.Refresh(false); err != nil {
		logrus.WithError(err).Warn("battery report unavailable, spec fields will be missing")
	}
	return r
}

// Available reports whether report data was obtained.
func (r *ReportSource) Available() bool {
	return r.data != ""
}

// Refresh loads the report, from the disk cache when allowed and otherwise
// by invoking the report command. force skips the cache.
func (r *ReportSource) Refresh(force bool) error {
	if !force {
		if data, err := os.ReadFile(r.cachePath); err == nil && len(data) > 0 {
			logrus.WithField("path", r.cachePath).Debug("loaded battery report from cache")
			r.data = string(data)
			return nil
		}
	}

	data, err := r.generate()
	if err != nil {
		return err
	}
	r.data = data
	r.saveCache(data)
	return nil
}

// generate invokes the OS report command, locates the generated document via
// the command's output, reads it and removes the original. Removal is
// best-effort and runs on every exit path once the path is known.
func (r *ReportSource) generate() (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, r.command[0], r.command[1:]...).CombinedOutput()
	if err != nil {
		return "", pkgerrors.Wrapf(err, "%s failed", r.command[0])
	}

	reportPath := findReportPath(string(out))
	if reportPath == "" {
		return "", pkgerrors.Errorf("no report path in %s output", r.command[0])
	}
	defer func() {
		if err := os.Remove(reportPath); err != nil && !os.IsNotExist(err) {
			logrus.WithError(err).Debug("could not remove generated report")
		}
	}()

	data, err := os.ReadFile(reportPath)
	if err != nil {
		return "", pkgerrors.Wrap(err, "cannot read generated report")
	}
	return string(data), nil
}

func (r *ReportSource) saveCache(data string) {
	if err := os.MkdirAll(filepath.Dir(r.cachePath), 0o755); err != nil {
		logrus.WithError(err).Debug("cannot create report cache directory")
		return
	}
	if err := os.WriteFile(r.cachePath, []byte(data), 0o644); err != nil {
		logrus.WithError(err).Debug("cannot write report cache")
	}
}

func findReportPath(output string) string {
	for _, pattern := range reportPathPatterns {
		if m := pattern.FindStringSubmatch(output); m != nil {
			return strings.Trim(strings.TrimSpace(m[1]), `"`)
		}
	}
	return ""
}

// Field extracts a labeled report field as normalized plain text.
func (r *ReportSource) Field(name string) (string, bool) {
	if r.data == "" {
		return "", false
	}
	pattern, ok := reportFieldPatterns[name]
	if !ok {
		return "", false
	}
	m := pattern.FindStringSubmatch(r.data)
	if m == nil {
		return "", false
	}
	value := htmltext.Normalize(m[1])
	if value == "" {
		return "", false
	}
	return value, true
}

// FieldInt extracts a numeric report field, 0 when missing or unparseable.
func (r *ReportSource) FieldInt(name string) int {
	value, ok := r.Field(name)
	if !ok {
		return 0
	}
	return htmltext.ExtractInt(value)
}

// Manufacturer returns the battery manufacturer field.
func (r *ReportSource) Manufacturer() (string, bool) { return r.Field("manufacturer") }

// Chemistry returns the raw chemistry code, e.g. "LIon".
func (r *ReportSource) Chemistry() (string, bool) { return r.Field("chemistry") }

// DesignCapacity returns the design capacity in mWh, 0 when unknown.
func (r *ReportSource) DesignCapacity() int { return r.FieldInt("design_capacity") }

// FullCapacity returns the full charge capacity in mWh, 0 when unknown.
func (r *ReportSource) FullCapacity() int { return r.FieldInt("full_capacity") }

// CycleCount returns the cycle count, 0 when unknown.
func (r *ReportSource) CycleCount() int { return r.FieldInt("cycle_count") }

// HealthPercent computes full/design capacity as a percentage, recomputed
// from the underlying fields on every call. 0 when either is missing.
func (r *ReportSource) HealthPercent() float64 {
	full := r.FullCapacity()
	design := r.DesignCapacity()
	if full <= 0 || design <= 0 {
		return 0
	}
	health := float64(full) / float64(design) * 100
	if health > 100 {
		health = 100
	}
	return round2(health)
}
