package battery

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/battkit/battkit/pkg/units"
)

// DefaultSysfsRoot is where the Linux kernel exposes power supply devices.
const DefaultSysfsRoot = "/sys/class/power_supply"

// Presence of any of these files inside a battery directory confirms it is a
// real battery entry and not e.g. a wireless peripheral charge indicator.
var essentialBatteryFiles = []string{"capacity", "energy_now", "charge_now"}

// SysfsSource reads battery metrics from the power-supply virtual filesystem.
// Device directories are discovered once at construction; create a new source
// to pick up hot-plugged batteries.
type SysfsSource struct {
	batteryPath         string
	acPaths             []string
	fastChargeThreshold int

	voltMu          sync.Mutex
	voltEstimate    float64
	voltEstimateSet bool
}

var _ Provider = (*SysfsSource)(nil)

// NewSysfsSource discovers power-supply devices under root and selects the
// battery to read from. When name is empty the first battery found is used;
// otherwise the named device must exist and be a battery.
func NewSysfsSource(root, name string, fastChargeThreshold int) (*SysfsSource, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "cannot list power supplies under %s", root)
	}

	s := &SysfsSource{fastChargeThreshold: fastChargeThreshold}

	var batteries []string
	for _, entry := range entries {
		devicePath := filepath.Join(root, entry.Name())
		deviceType, ok := readSysfsFile(filepath.Join(devicePath, "type"))
		if !ok {
			continue
		}
		switch deviceType {
		case "Battery":
			batteries = append(batteries, devicePath)
		case "Mains":
			s.acPaths = append(s.acPaths, devicePath)
		}
	}

	if name != "" {
		wanted := filepath.Join(root, name)
		for _, b := range batteries {
			if b == wanted {
				s.batteryPath = b
				break
			}
		}
		if s.batteryPath == "" {
			return nil, pkgerrors.Errorf("battery %q not found under %s", name, root)
		}
	} else {
		if len(batteries) == 0 {
			return nil, pkgerrors.Errorf("no battery device found under %s", root)
		}
		s.batteryPath = batteries[0]
	}

	logrus.WithFields(logrus.Fields{
		"battery":  s.batteryPath,
		"adapters": len(s.acPaths),
	}).Debug("discovered power supplies")

	return s, nil
}

// readSysfsFile is the single read primitive every property access goes
// through. It returns the stripped content, or ok=false on any I/O error.
func readSysfsFile(path string) (string, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	content := strings.TrimSpace(string(data))
	if content == "" {
		return "", false
	}
	return content, true
}

func (s *SysfsSource) property(name string) (string, bool) {
	return readSysfsFile(filepath.Join(s.batteryPath, name))
}

func (s *SysfsSource) propertyInt(name string) (int, bool) {
	v, ok := s.property(name)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Percent implements Provider.
func (s *SysfsSource) Percent() (int, error) {
	p, ok := s.propertyInt("capacity")
	if !ok {
		return 0, ErrMetricUnavailable
	}
	return units.ClampPercent(p), nil
}

// IsPlugged implements Provider. AC adapter "online" files are authoritative;
// the battery status string is only a fallback when no adapter is exposed.
func (s *SysfsSource) IsPlugged() (bool, error) {
	for _, acPath := range s.acPaths {
		if online, ok := readSysfsFile(filepath.Join(acPath, "online")); ok && online == "1" {
			return true, nil
		}
	}

	if status, ok := s.property("status"); ok {
		switch strings.ToLower(status) {
		case "charging", "full":
			return true, nil
		default:
			return false, nil
		}
	}

	return false, ErrMetricUnavailable
}

// DesignCapacity implements Provider. Energy readings (µWh) are preferred;
// charge readings (µAh) are a fallback on charge-counter-only firmware.
func (s *SysfsSource) DesignCapacity() (int, error) {
	if v, ok := s.propertyInt("energy_full_design"); ok {
		return units.MicroToMilli(v), nil
	}
	if v, ok := s.propertyInt("charge_full_design"); ok {
		return units.MicroToMilli(v), nil
	}
	return 0, ErrMetricUnavailable
}

// RemainingCapacity implements Provider.
func (s *SysfsSource) RemainingCapacity() (int, error) {
	if v, ok := s.propertyInt("energy_now"); ok {
		return units.MicroToMilli(v), nil
	}
	if v, ok := s.propertyInt("charge_now"); ok {
		return units.MicroToMilli(v), nil
	}
	return 0, ErrMetricUnavailable
}

// ChargeRate implements Provider. power_now (µW) is preferred; otherwise the
// rate is computed from current_now × voltage_now. The sign follows the
// status file: discharging is negative.
func (s *SysfsSource) ChargeRate() (int, error) {
	status, _ := s.property("status")

	if uw, ok := s.propertyInt("power_now"); ok {
		return signedRate(units.MicroToMilli(abs(uw)), status), nil
	}

	currentUA, okC := s.propertyInt("current_now")
	voltageUV, okV := s.propertyInt("voltage_now")
	if okC && okV {
		// (µA/1000) × (µV/1000) = µW, then µW → mW.
		uw := (abs(currentUA) / 1000) * (voltageUV / 1000)
		return signedRate(units.MicroToMilli(uw), status), nil
	}

	return 0, ErrMetricUnavailable
}

func signedRate(mw int, status string) int {
	if strings.EqualFold(status, "discharging") {
		return -mw
	}
	return mw
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// IsFastCharge implements Provider. Not plugged in means not fast charging;
// absence is reported only when the plugged state itself is indeterminate.
func (s *SysfsSource) IsFastCharge() (bool, error) {
	plugged, err := s.IsPlugged()
	if err != nil {
		return false, err
	}
	if !plugged {
		return false, nil
	}

	status, ok := s.property("status")
	if !ok || !strings.EqualFold(status, "charging") {
		return false, nil
	}

	rate, err := s.ChargeRate()
	if err != nil {
		return false, nil
	}
	return rate >= s.fastChargeThreshold, nil
}

// Manufacturer implements Provider.
func (s *SysfsSource) Manufacturer() (string, error) {
	v, ok := s.property("manufacturer")
	if !ok {
		return "", ErrMetricUnavailable
	}
	return v, nil
}

// Technology implements Provider.
func (s *SysfsSource) Technology() (string, error) {
	v, ok := s.property("technology")
	if !ok {
		return "", ErrMetricUnavailable
	}
	return v, nil
}

// CycleCount implements Provider.
func (s *SysfsSource) CycleCount() (int, error) {
	v, ok := s.propertyInt("cycle_count")
	if !ok {
		return 0, ErrMetricUnavailable
	}
	return v, nil
}

// Health implements Provider. The energy-based ratio is preferred, then the
// charge-based one. With no data at all it returns 0 rather than absence so
// the metric stays numeric for display.
func (s *SysfsSource) Health() (float64, error) {
	if h, ok := s.capacityRatio("energy_full", "energy_full_design"); ok {
		return h, nil
	}
	if h, ok := s.capacityRatio("charge_full", "charge_full_design"); ok {
		return h, nil
	}
	return 0, nil
}

func (s *SysfsSource) capacityRatio(fullFile, designFile string) (float64, bool) {
	full, okF := s.propertyInt(fullFile)
	design, okD := s.propertyInt(designFile)
	if !okF || !okD || design <= 0 {
		return 0, false
	}
	health := float64(full) / float64(design) * 100
	if health > 100 {
		health = 100
	}
	if health < 0 {
		health = 0
	}
	return round2(health), true
}

// Voltage implements Provider, falling back to a chemistry-based estimate
// when voltage_now is not exposed.
func (s *SysfsSource) Voltage() (float64, error) {
	if uv, ok := s.propertyInt("voltage_now"); ok {
		return units.MicrovoltToVolt(uv), nil
	}

	s.voltMu.Lock()
	defer s.voltMu.Unlock()

	if s.voltEstimateSet {
		if s.voltEstimate == 0 {
			return 0, ErrMetricUnavailable
		}
		return s.voltEstimate, nil
	}

	s.voltEstimateSet = true
	tech, err := s.Technology()
	if err == nil {
		if v, ok := estimateVoltage(tech); ok {
			logrus.WithField("voltage", v).Debug("estimated battery voltage from chemistry")
			s.voltEstimate = v
			return v, nil
		}
	}
	return 0, ErrMetricUnavailable
}

// Temperature implements Provider.
func (s *SysfsSource) Temperature() (float64, error) {
	v, ok := s.propertyInt("temp")
	if !ok {
		return 0, ErrMetricUnavailable
	}
	return units.TenthCelsius(v), nil
}

// sysfsHasBattery is the Linux platform probe. A configured device name is
// checked directly (named devices need not match the bat* convention);
// otherwise any directory whose name looks like a battery and which carries
// at least one capacity-indicating file counts.
func sysfsHasBattery(root, name string) bool {
	if name != "" {
		return hasEssentialFile(filepath.Join(root, name))
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return false
	}
	for _, entry := range entries {
		if !strings.HasPrefix(strings.ToLower(entry.Name()), "bat") {
			continue
		}
		if hasEssentialFile(filepath.Join(root, entry.Name())) {
			return true
		}
	}
	return false
}

func hasEssentialFile(dir string) bool {
	for _, f := range essentialBatteryFiles {
		if _, err := os.Stat(filepath.Join(dir, f)); err == nil {
			return true
		}
	}
	return false
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
