package units

import "testing"

func intp(v int) *int           { return &v }
func boolp(v bool) *bool        { return &v }
func floatp(v float64) *float64 { return &v }
func stringp(v string) *string  { return &v }

func TestFormatNilIsUnavailable(t *testing.T) {
	got := []string{
		FormatPercent(nil),
		FormatPowerStatus(nil),
		FormatCapacity(nil),
		FormatChargeRate(nil),
		FormatHealth(nil),
		FormatVoltage(nil),
		FormatTemperature(nil),
		FormatBool(nil),
		FormatString(nil),
		FormatCount(nil),
	}
	for i, g := range got {
		if g != Unavailable {
			t.Fatalf("formatter %d: got %q, want %q", i, g, Unavailable)
		}
	}
}

func TestFormatValues(t *testing.T) {
	cases := []struct {
		name string
		got  string
		want string
	}{
		{"percent", FormatPercent(intp(76)), "76%"},
		{"plugged", FormatPowerStatus(boolp(true)), "Plugged In"},
		{"on battery", FormatPowerStatus(boolp(false)), "On Battery"},
		{"capacity grouped", FormatCapacity(intp(57999)), "57,999 mWh"},
		{"capacity small", FormatCapacity(intp(950)), "950 mWh"},
		{"capacity zero", FormatCapacity(intp(0)), Unavailable},
		{"rate idle", FormatChargeRate(intp(0)), "0 mW (Idle)"},
		{"rate charging", FormatChargeRate(intp(12500)), "12,500 mW (Charging)"},
		{"rate discharging", FormatChargeRate(intp(-8000)), "8,000 mW (Discharging)"},
		{"health", FormatHealth(floatp(90.0)), "90.0%"},
		{"voltage", FormatVoltage(floatp(11.5)), "11.50 V"},
		{"temperature", FormatTemperature(floatp(34.5)), "34.5°C"},
		{"bool yes", FormatBool(boolp(true)), "Yes"},
		{"bool no", FormatBool(boolp(false)), "No"},
		{"string trimmed", FormatString(stringp("  LG Chem  ")), "LG Chem"},
		{"string empty", FormatString(stringp("   ")), Unavailable},
		{"count", FormatCount(intp(333)), "333"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if c.got != c.want {
				t.Fatalf("got %q, want %q", c.got, c.want)
			}
		})
	}
}

func TestGroupThousands(t *testing.T) {
	cases := []struct {
		in   int
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{57999, "57,999"},
		{1234567, "1,234,567"},
	}
	for _, c := range cases {
		if got := groupThousands(c.in); got != c.want {
			t.Fatalf("groupThousands(%d) = %q, want %q", c.in, got, c.want)
		}
	}
}
