//go:build windows

package battery

import (
	"context"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"

	distatus "github.com/distatus/battery"
	"github.com/sirupsen/logrus"
	"golang.org/x/sys/windows/registry"

	"github.com/battkit/battkit/pkg/units"
)

// Display names for the chemistry codes powercfg reports.
var chemistryNames = map[string]string{
	"lion":  "Lithium-ion",
	"liion": "Lithium-ion",
	"li-i":  "Lithium-ion",
	"lip":   "Lithium-polymer",
	"pbac":  "Lead-acid",
	"nimh":  "Nickel-metal hydride",
	"nicd":  "Nickel-cadmium",
}

// windowsProvider combines the live power-state reader (real-time fields)
// with the powercfg report (static spec fields), with WMI, registry and
// battery-device-interface queries as fallbacks.
type windowsProvider struct {
	reader     *powerReader
	report     *ReportSource
	threshold  int
	cmdTimeout time.Duration

	voltMu       sync.Mutex
	voltCache    float64
	voltCacheSet bool
}

var _ Provider = (*windowsProvider)(nil)

func newPlatformProvider(opts Options) (Provider, error) {
	return &windowsProvider{
		reader:     newPowerReader(0),
		report:     NewReportSource(opts.ReportCachePath, opts.ReportTimeout),
		threshold:  opts.FastChargeThreshold,
		cmdTimeout: opts.Timeout,
	}, nil
}

// Percent implements Provider.
func (w *windowsProvider) Percent() (int, error) {
	return w.reader.percent(), nil
}

// IsPlugged implements Provider.
func (w *windowsProvider) IsPlugged() (bool, error) {
	return w.reader.plugged(), nil
}

// DesignCapacity implements Provider.
func (w *windowsProvider) DesignCapacity() (int, error) {
	if mwh := w.report.DesignCapacity(); mwh > 0 {
		return mwh, nil
	}
	if bat, ok := deviceBattery(); ok && bat.Design > 0 {
		return int(bat.Design), nil
	}
	return 0, ErrMetricUnavailable
}

// RemainingCapacity implements Provider.
func (w *windowsProvider) RemainingCapacity() (int, error) {
	mwh := w.reader.remainingCapacity()
	if mwh < 0 {
		mwh = 0
	}
	return mwh, nil
}

// ChargeRate implements Provider.
func (w *windowsProvider) ChargeRate() (int, error) {
	return w.reader.chargeRate(), nil
}

// IsFastCharge implements Provider.
func (w *windowsProvider) IsFastCharge() (bool, error) {
	if !w.reader.plugged() {
		return false, nil
	}
	rate := w.reader.chargeRate()
	return rate > 0 && rate > w.threshold, nil
}

// Manufacturer implements Provider. The report names the battery vendor; the
// WMI fallback reports the machine vendor, which is the best available
// answer on systems where powercfg is restricted.
func (w *windowsProvider) Manufacturer() (string, error) {
	if m, ok := w.report.Manufacturer(); ok {
		return m, nil
	}
	if out, ok := w.runPowerShell("(Get-WmiObject Win32_ComputerSystem -EA SilentlyContinue).Manufacturer"); ok {
		return out, nil
	}
	return "", ErrMetricUnavailable
}

// Technology implements Provider.
func (w *windowsProvider) Technology() (string, error) {
	if tech, ok := w.technologyFromSources(); ok {
		return tech, nil
	}

	// Last resort: guess the chemistry from the pack voltage range.
	if v, ok := w.voltageFromSensors(); ok {
		switch {
		case v >= 10.0 && v <= 15.0:
			return "Lithium-ion", nil
		case v >= 6.0 && v <= 8.0:
			return "Lead-acid", nil
		}
	}
	return "", ErrMetricUnavailable
}

func (w *windowsProvider) technologyFromSources() (string, bool) {
	if chem, ok := w.report.Chemistry(); ok {
		if name, ok := chemistryNames[strings.ToLower(strings.TrimSpace(chem))]; ok {
			return name, true
		}
		return chem, true
	}
	if out, ok := w.runPowerShell("(Get-WmiObject Win32_Battery -EA SilentlyContinue).Name"); ok {
		if strings.Contains(strings.ToLower(out), "lithium") {
			return "Lithium-ion", true
		}
	}
	return "", false
}

// CycleCount implements Provider.
func (w *windowsProvider) CycleCount() (int, error) {
	if !w.report.Available() {
		return 0, ErrMetricUnavailable
	}
	return w.report.CycleCount(), nil
}

// Health implements Provider. Live max capacity against the report's design
// capacity is the primary method; if the live state is missing, the full
// capacity is estimated from the current charge level instead.
func (w *windowsProvider) Health() (float64, error) {
	design, err := w.DesignCapacity()
	if err != nil || design <= 0 {
		return 0, ErrMetricUnavailable
	}

	if max := w.reader.maxCapacity(); max > 0 {
		return clampHealth(float64(max) / float64(design) * 100), nil
	}

	remaining := w.reader.remainingCapacity()
	percent := w.reader.percent()
	if remaining > 0 && percent > 0 {
		estimatedFull := float64(remaining) * 100 / float64(percent)
		return clampHealth(estimatedFull / float64(design) * 100), nil
	}

	return 0, ErrMetricUnavailable
}

// Voltage implements Provider. Sensors are tried in order of cost; the
// chemistry estimate is a last resort and the winner is cached, since pack
// voltage identification does not change within a session.
func (w *windowsProvider) Voltage() (float64, error) {
	w.voltMu.Lock()
	defer w.voltMu.Unlock()

	if w.voltCacheSet {
		if w.voltCache == 0 {
			return 0, ErrMetricUnavailable
		}
		return w.voltCache, nil
	}

	w.voltCacheSet = true
	if v, ok := w.voltageFromSensors(); ok {
		w.voltCache = v
		return v, nil
	}
	if tech, ok := w.technologyFromSources(); ok {
		if v, ok := estimateVoltage(tech); ok {
			logrus.WithField("voltage", v).Debug("estimated battery voltage from chemistry")
			w.voltCache = v
			return v, nil
		}
	}
	return 0, ErrMetricUnavailable
}

func (w *windowsProvider) voltageFromSensors() (float64, bool) {
	if out, ok := w.runPowerShell("(Get-WmiObject Win32_Battery -EA SilentlyContinue).DesignVoltage"); ok {
		if mv, err := strconv.Atoi(out); err == nil && mv > 0 {
			return float64(mv) / 1000.0, true
		}
	}
	if v, ok := voltageFromRegistry(); ok {
		return v, true
	}
	if bat, ok := deviceBattery(); ok {
		if bat.Voltage > 0 {
			return bat.Voltage, true
		}
		if bat.DesignVoltage > 0 {
			return bat.DesignVoltage, true
		}
	}
	return 0, false
}

// voltageFromRegistry reads the battery miniport driver's DesignVoltage.
// Values above 100 are millivolts.
func voltageFromRegistry() (float64, bool) {
	key, err := registry.OpenKey(registry.LOCAL_MACHINE,
		`SYSTEM\CurrentControlSet\Services\CmBatt\Parameters`, registry.QUERY_VALUE)
	if err != nil {
		return 0, false
	}
	defer key.Close()

	v, _, err := key.GetIntegerValue("DesignVoltage")
	if err != nil || v == 0 {
		return 0, false
	}
	if v > 100 {
		return float64(v) / 1000.0, true
	}
	return float64(v), true
}

// Temperature implements Provider. Reads the first ACPI thermal zone, which
// tracks the battery compartment closely enough on laptops; readings outside
// a sane range are discarded as firmware noise.
func (w *windowsProvider) Temperature() (float64, error) {
	out, ok := w.runPowerShell("Get-WmiObject -Namespace root/WMI -Class MSAcpi_ThermalZoneTemperature -EA SilentlyContinue | Select -First 1 | % { $_.CurrentTemperature }")
	if !ok {
		return 0, ErrMetricUnavailable
	}
	raw, err := strconv.ParseFloat(out, 64)
	if err != nil {
		return 0, ErrMetricUnavailable
	}

	celsius := units.DeciKelvinToCelsius(raw)
	if celsius < 15 || celsius > 80 {
		return 0, ErrMetricUnavailable
	}
	return celsius, nil
}

func (w *windowsProvider) runPowerShell(command string) (string, bool) {
	timeout := w.cmdTimeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, "powershell.exe", "-NoProfile", "-Command", command).Output()
	if err != nil {
		logrus.WithError(err).Debug("powershell query failed")
		return "", false
	}
	result := strings.TrimSpace(string(out))
	return result, result != ""
}

// deviceBattery queries the battery device interface directly, as a second
// opinion independent of powercfg and the power-state API.
func deviceBattery() (*distatus.Battery, bool) {
	bat, err := distatus.Get(0)
	if bat == nil {
		if err != nil {
			logrus.WithError(err).Debug("battery device interface query failed")
		}
		return nil, false
	}
	return bat, true
}

func clampHealth(h float64) float64 {
	if h < 0 {
		return 0
	}
	if h > 100 {
		return 100
	}
	return round2(h)
}
