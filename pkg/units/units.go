// Package units converts raw battery readings between the units the kernel
// and firmware report them in and the units battkit exposes.
// Conventions:
// - capacities: mWh
// - charge rate: mW (negative when discharging)
// - voltage: Volts
// - temperature: degrees Celsius
package units

// MicroToMilli converts a micro-unit reading (µWh, µAh, µW) to milli-units.
func MicroToMilli(v int) int {
	return v / 1000
}

// MicrovoltToVolt converts a µV reading to Volts.
func MicrovoltToVolt(uv int) float64 {
	return float64(uv) / 1e6
}

// TenthCelsius converts a tenths-of-degree reading (sysfs "temp") to °C.
func TenthCelsius(v int) float64 {
	return float64(v) / 10.0
}

// DeciKelvinToCelsius converts the tenths-of-Kelvin readings of ACPI thermal
// zones to °C.
func DeciKelvinToCelsius(v float64) float64 {
	return v/10.0 - 273.15
}

// ClampPercent bounds a percentage to [0, 100].
func ClampPercent(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
