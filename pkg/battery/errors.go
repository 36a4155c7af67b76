package battery

import "errors"

var (
	// ErrNoBattery is returned by New when the platform probe concludes the
	// host has no battery hardware at all (desktops, most VMs).
	ErrNoBattery = errors.New("no battery detected on this system")

	// ErrUnsupportedPlatform is returned by New on operating systems battkit
	// has no provider for.
	ErrUnsupportedPlatform = errors.New("unsupported platform")

	// ErrMetricUnavailable marks a single metric that could not be read.
	// It never escapes GetResult; the aggregation layer converts it to the
	// "n/a" placeholder.
	ErrMetricUnavailable = errors.New("metric unavailable")
)
