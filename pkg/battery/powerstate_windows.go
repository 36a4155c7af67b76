//go:build windows

package battery

import (
	"sync"
	"time"
	"unsafe"

	"github.com/sirupsen/logrus"
	"golang.org/x/sys/windows"

	"github.com/battkit/battkit/pkg/units"
)

var (
	modpowrprof                = windows.NewLazySystemDLL("powrprof.dll")
	procCallNtPowerInformation = modpowrprof.NewProc("CallNtPowerInformation")
)

// POWER_INFORMATION_LEVEL value selecting SYSTEM_BATTERY_STATE.
const systemBatteryStateClass = 5

// SYSTEM_BATTERY_STATE, layout per the Windows API docs. Rate is signed:
// some ACPI firmware reports discharge as a negative value directly.
type systemBatteryState struct {
	AcOnLine          byte
	BatteryPresent    byte
	Charging          byte
	Discharging       byte
	Spare1            [3]byte
	Tag               byte
	MaxCapacity       uint32
	RemainingCapacity uint32
	Rate              int32
	EstimatedTime     uint32
	DefaultAlert1     uint32
	DefaultAlert2     uint32
}

// powerReader wraps the CallNtPowerInformation battery-state query with a
// short-lived cache so that a burst of metric getters produces a single OS
// call instead of twelve.
type powerReader struct {
	mu  sync.Mutex
	ttl time.Duration
	now func() time.Time

	cached   *systemBatteryState
	cachedAt time.Time
}

const defaultPowerStateTTL = 1500 * time.Millisecond

func newPowerReader(ttl time.Duration) *powerReader {
	if ttl <= 0 {
		ttl = defaultPowerStateTTL
	}
	return &powerReader{ttl: ttl, now: time.Now}
}

// state returns the current battery state, or nil when the query fails or a
// cached value is still fresh enough. useCache=false forces a new OS call.
func (p *powerReader) state(useCache bool) *systemBatteryState {
	p.mu.Lock()
	defer p.mu.Unlock()

	if useCache && p.cached != nil && p.now().Sub(p.cachedAt) < p.ttl {
		return p.cached
	}

	var st systemBatteryState
	ret, _, _ := procCallNtPowerInformation.Call(
		systemBatteryStateClass,
		0, 0,
		uintptr(unsafe.Pointer(&st)),
		unsafe.Sizeof(st),
	)
	if ret != 0 { // NTSTATUS, STATUS_SUCCESS == 0
		logrus.Debugf("CallNtPowerInformation failed: NTSTATUS %#x", ret)
		return nil
	}

	p.cached = &st
	p.cachedAt = p.now()
	return &st
}

// percent derives the charge percentage, clamped to [0, 100]. A missing
// state or zero max capacity yields 0, never a division error.
func (p *powerReader) percent() int {
	st := p.state(true)
	if st == nil || st.BatteryPresent == 0 || st.MaxCapacity == 0 {
		return 0
	}
	pct := int(float64(st.RemainingCapacity)/float64(st.MaxCapacity)*100 + 0.5)
	return units.ClampPercent(pct)
}

func (p *powerReader) plugged() bool {
	st := p.state(true)
	return st != nil && st.AcOnLine != 0
}

func (p *powerReader) remainingCapacity() int {
	st := p.state(true)
	if st == nil || st.BatteryPresent == 0 {
		return 0
	}
	return int(st.RemainingCapacity)
}

func (p *powerReader) maxCapacity() int {
	st := p.state(true)
	if st == nil || st.BatteryPresent == 0 {
		return 0
	}
	return int(st.MaxCapacity)
}

// chargeRate normalizes the raw rate to the package sign convention:
// positive while charging, negative while discharging, 0 when idle.
func (p *powerReader) chargeRate() int {
	st := p.state(true)
	if st == nil || st.BatteryPresent == 0 {
		return 0
	}
	rate := int(st.Rate)
	switch {
	case st.Charging != 0 && rate != 0:
		return abs(rate)
	case st.Discharging != 0 && rate != 0:
		return -abs(rate)
	default:
		return 0
	}
}
