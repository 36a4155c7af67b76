package units

import (
	"fmt"
	"strconv"
	"strings"
)

// Unavailable is the placeholder rendered for any metric that could not be
// read. It is the only way absence reaches a display surface; a missing
// reading is never substituted with a zero.
const Unavailable = "n/a"

// FormatPercent renders a battery percentage, e.g. "76%".
func FormatPercent(p *int) string {
	if p == nil {
		return Unavailable
	}
	return fmt.Sprintf("%d%%", *p)
}

// FormatPowerStatus renders the AC connection state.
func FormatPowerStatus(plugged *bool) string {
	if plugged == nil {
		return Unavailable
	}
	if *plugged {
		return "Plugged In"
	}
	return "On Battery"
}

// FormatCapacity renders a capacity in mWh with thousands grouping,
// e.g. "57,999 mWh". Non-positive capacities are treated as unknown.
func FormatCapacity(mwh *int) string {
	if mwh == nil || *mwh <= 0 {
		return Unavailable
	}
	return groupThousands(*mwh) + " mWh"
}

// FormatChargeRate renders a signed rate in mW together with its direction,
// e.g. "12,500 mW (Charging)". Zero means idle.
func FormatChargeRate(mw *int) string {
	if mw == nil {
		return Unavailable
	}
	switch {
	case *mw == 0:
		return "0 mW (Idle)"
	case *mw > 0:
		return groupThousands(*mw) + " mW (Charging)"
	default:
		return groupThousands(-*mw) + " mW (Discharging)"
	}
}

// FormatHealth renders a health percentage with one decimal, e.g. "90.0%".
func FormatHealth(h *float64) string {
	if h == nil {
		return Unavailable
	}
	return fmt.Sprintf("%.1f%%", *h)
}

// FormatVoltage renders a voltage with two decimals, e.g. "11.50 V".
func FormatVoltage(v *float64) string {
	if v == nil {
		return Unavailable
	}
	return fmt.Sprintf("%.2f V", *v)
}

// FormatTemperature renders a temperature with one decimal, e.g. "34.5°C".
func FormatTemperature(c *float64) string {
	if c == nil {
		return Unavailable
	}
	return fmt.Sprintf("%.1f°C", *c)
}

// FormatBool renders a flag as "Yes"/"No".
func FormatBool(b *bool) string {
	if b == nil {
		return Unavailable
	}
	if *b {
		return "Yes"
	}
	return "No"
}

// FormatString renders a free-form value, trimming whitespace. Empty values
// render as unavailable.
func FormatString(s *string) string {
	if s == nil {
		return Unavailable
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return Unavailable
	}
	return trimmed
}

// FormatCount renders a plain integer, e.g. a cycle count.
func FormatCount(n *int) string {
	if n == nil {
		return Unavailable
	}
	return strconv.Itoa(*n)
}

func groupThousands(n int) string {
	s := strconv.Itoa(n)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(s[:lead])
	for i := lead; i < len(s); i += 3 {
		b.WriteByte(',')
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
