//go:build linux

package battery

func newPlatformProvider(opts Options) (Provider, error) {
	root := opts.SysfsRoot
	if root == "" {
		root = DefaultSysfsRoot
	}
	return NewSysfsSource(root, opts.BatteryName, opts.FastChargeThreshold)
}
