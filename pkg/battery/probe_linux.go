//go:build linux

package battery

// hasBattery probes the power-supply virtual filesystem for battery-like
// devices, honoring a configured root and device name. Evaluated once per
// Battery construction.
func hasBattery(opts Options) (bool, error) {
	root := opts.SysfsRoot
	if root == "" {
		root = DefaultSysfsRoot
	}
	return sysfsHasBattery(root, opts.BatteryName), nil
}
