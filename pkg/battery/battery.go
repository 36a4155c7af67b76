// Package battery reads point-in-time battery status and specification data
// through OS-native mechanisms and exposes it as typed accessors plus an
// aggregate formatted snapshot.
package battery

import (
	"sync"
	"time"

	pkgerrors "github.com/pkg/errors"
)

// Defaults for Options fields left at their zero value.
const (
	DefaultTimeout             = 2 * time.Second
	DefaultTaskTimeout         = 1 * time.Second
	DefaultCacheTTL            = 1 * time.Second
	DefaultWorkers             = 4
	DefaultFastChargeThreshold = 20000 // mW
)

// Options configures a Battery. The zero value is usable.
type Options struct {
	// Debug raises failed metric reads from debug to warning logs.
	Debug bool

	// Timeout bounds a single external call (subprocess, API query). The
	// aggregate snapshot is bounded by twice this value.
	Timeout time.Duration
	// TaskTimeout bounds one metric getter inside snapshot collection.
	TaskTimeout time.Duration
	// CacheTTL is how long an aggregate snapshot is served from cache.
	CacheTTL time.Duration
	// Workers is the snapshot collection pool size.
	Workers int

	// FastChargeThreshold is the charge rate in mW above which charging is
	// classified as fast.
	FastChargeThreshold int

	// BatteryName selects a specific battery device on Linux (e.g. "BAT1").
	// Empty means the first one discovered.
	BatteryName string
	// SysfsRoot overrides the power-supply directory on Linux. For tests.
	SysfsRoot string

	// ReportCachePath and ReportTimeout configure the powercfg report
	// source on Windows.
	ReportCachePath string
	ReportTimeout   time.Duration
}

func (o *Options) applyDefaults() {
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.TaskTimeout <= 0 {
		o.TaskTimeout = DefaultTaskTimeout
	}
	if o.CacheTTL <= 0 {
		o.CacheTTL = DefaultCacheTTL
	}
	if o.Workers <= 0 {
		o.Workers = DefaultWorkers
	}
	if o.FastChargeThreshold <= 0 {
		o.FastChargeThreshold = DefaultFastChargeThreshold
	}
}

// Battery is the public accessor surface. It composes the platform probe,
// the platform provider and the aggregation layer. A Battery only exists if
// battery hardware was detected at construction time.
type Battery struct {
	provider Provider
	opts     Options

	mu       sync.Mutex
	cached   map[string]string
	cachedAt time.Time
	now      func() time.Time
}

// New probes for battery hardware and builds the platform-appropriate
// provider. It fails with ErrNoBattery on battery-less machines and
// ErrUnsupportedPlatform on operating systems without a provider, so callers
// can tell "no hardware" apart from "reading failed".
func New(opts Options) (*Battery, error) {
	opts.applyDefaults()

	ok, err := hasBattery(opts)
	if err != nil {
		if err == ErrUnsupportedPlatform {
			return nil, err
		}
		return nil, pkgerrors.Wrap(err, "battery detection failed")
	}
	if !ok {
		return nil, ErrNoBattery
	}

	provider, err := newPlatformProvider(opts)
	if err != nil {
		return nil, err
	}

	return newWithProvider(provider, opts), nil
}

func newWithProvider(p Provider, opts Options) *Battery {
	opts.applyDefaults()
	return &Battery{
		provider: p,
		opts:     opts,
		now:      time.Now,
	}
}

// Percent returns the current charge percentage.
func (b *Battery) Percent() (int, error) { return b.provider.Percent() }

// IsPlugged reports whether the device is on AC power.
func (b *Battery) IsPlugged() (bool, error) { return b.provider.IsPlugged() }

// DesignCapacity returns the design capacity in mWh.
func (b *Battery) DesignCapacity() (int, error) { return b.provider.DesignCapacity() }

// RemainingCapacity returns the stored energy in mWh.
func (b *Battery) RemainingCapacity() (int, error) { return b.provider.RemainingCapacity() }

// ChargeRate returns the signed charge/discharge rate in mW.
func (b *Battery) ChargeRate() (int, error) { return b.provider.ChargeRate() }

// IsFastCharge reports whether charging exceeds the fast-charge threshold.
func (b *Battery) IsFastCharge() (bool, error) { return b.provider.IsFastCharge() }

// Manufacturer returns the battery manufacturer name.
func (b *Battery) Manufacturer() (string, error) { return b.provider.Manufacturer() }

// Technology returns the battery chemistry.
func (b *Battery) Technology() (string, error) { return b.provider.Technology() }

// CycleCount returns the charge cycle count.
func (b *Battery) CycleCount() (int, error) { return b.provider.CycleCount() }

// Health returns the full-vs-design capacity percentage.
func (b *Battery) Health() (float64, error) { return b.provider.Health() }

// Voltage returns the pack voltage in Volts.
func (b *Battery) Voltage() (float64, error) { return b.provider.Voltage() }

// Temperature returns the battery temperature in °C.
func (b *Battery) Temperature() (float64, error) { return b.provider.Temperature() }
