//go:build !linux && !windows

package battery

// macOS gets a best-effort platform probe but no metric provider.
func newPlatformProvider(Options) (Provider, error) {
	return nil, ErrUnsupportedPlatform
}
