//go:build !linux && !windows && !darwin

package battery

func hasBattery(Options) (bool, error) {
	return false, ErrUnsupportedPlatform
}
