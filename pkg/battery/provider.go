package battery

// Provider is the platform-specific backend behind a Battery. One concrete
// implementation per operating system is selected once at construction time.
//
// Every getter returns ErrMetricUnavailable (possibly wrapped) when the
// underlying source cannot produce the reading. Callers must treat that as
// an ordinary absent value, not a failure.
//
// Units follow the package conventions: capacities in mWh, charge rate in mW
// (positive charging, negative discharging, zero idle), voltage in Volts,
// temperature in °C.
type Provider interface {
	// Percent returns the current charge percentage, clamped to [0, 100].
	Percent() (int, error)
	// IsPlugged reports whether the device is on AC power.
	IsPlugged() (bool, error)
	// DesignCapacity returns the battery's design capacity.
	DesignCapacity() (int, error)
	// RemainingCapacity returns the currently stored energy.
	RemainingCapacity() (int, error)
	// ChargeRate returns the signed charge/discharge rate.
	ChargeRate() (int, error)
	// IsFastCharge reports whether the battery is charging above the
	// configured fast-charge threshold. False when not plugged in.
	IsFastCharge() (bool, error)
	// Manufacturer returns the battery manufacturer name.
	Manufacturer() (string, error)
	// Technology returns the battery chemistry, e.g. "Lithium-ion".
	Technology() (string, error)
	// CycleCount returns the charge cycle count.
	CycleCount() (int, error)
	// Health returns full-vs-design capacity as a percentage in [0, 100].
	Health() (float64, error)
	// Voltage returns the pack voltage.
	Voltage() (float64, error)
	// Temperature returns the battery (or nearest thermal zone) temperature.
	Temperature() (float64, error)
}
