package units

import (
	"math"
	"testing"
)

func TestConversions(t *testing.T) {
	if got := MicroToMilli(45000000); got != 45000 {
		t.Fatalf("MicroToMilli(45000000) = %d, want 45000", got)
	}
	if got := MicrovoltToVolt(11500000); got != 11.5 {
		t.Fatalf("MicrovoltToVolt(11500000) = %v, want 11.5", got)
	}
	if got := TenthCelsius(345); got != 34.5 {
		t.Fatalf("TenthCelsius(345) = %v, want 34.5", got)
	}
	if got := DeciKelvinToCelsius(3031.5); math.Abs(got-30.0) > 1e-9 {
		t.Fatalf("DeciKelvinToCelsius(3031.5) = %v, want 30.0", got)
	}
}

func TestClampPercent(t *testing.T) {
	cases := []struct{ in, want int }{
		{-5, 0},
		{0, 0},
		{76, 76},
		{100, 100},
		{120, 100},
	}
	for _, c := range cases {
		if got := ClampPercent(c.in); got != c.want {
			t.Fatalf("ClampPercent(%d) = %d, want %d", c.in, got, c.want)
		}
	}
}
