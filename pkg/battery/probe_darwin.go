//go:build darwin

package battery

import (
	"context"
	"os/exec"
	"strings"
	"time"
)

// hasBattery shells out to the platform power utilities and text-matches
// known phrases. Best-effort: lookup failure means "no battery" rather than
// an error, since macOS support is partial.
func hasBattery(Options) (bool, error) {
	if out, ok := runProbeCommand(2*time.Second, "pmset", "-g", "batt"); ok {
		lower := strings.ToLower(out)
		for _, phrase := range []string{"no batteries", "not found", "unavailable"} {
			if strings.Contains(lower, phrase) {
				return false, nil
			}
		}
		for _, phrase := range []string{"battery", "charging", "discharging", "%"} {
			if strings.Contains(lower, phrase) {
				return true, nil
			}
		}
	}

	out, ok := runProbeCommand(3*time.Second, "system_profiler", "SPPowerDataType")
	return ok && strings.Contains(strings.ToLower(out), "battery"), nil
}

func runProbeCommand(timeout time.Duration, name string, args ...string) (string, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, name, args...).Output()
	if err != nil {
		return "", false
	}
	return string(out), true
}
