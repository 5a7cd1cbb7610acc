package suppression_controller

import (
	"math"
	"testing"
)

func TestChandlerBurningIndex(t *testing.T) {
	cases := []struct {
		name  string
		tempC float64
		rhPct float64
		want  float64
	}{
		{"hot and dry", 30, 20, 100.2},
		{"cold and wet", 10, 80, 0.0},
		{"temperate", 20, 50, 18.8},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := chandlerBurningIndex(tc.tempC, tc.rhPct)
			if math.Abs(got-tc.want) > 0.1 {
				t.Fatalf("CBI(%v°C, %v%%) = %.2f, want %.1f", tc.tempC, tc.rhPct, got, tc.want)
			}
		})
	}
}

func TestChandlerBurningIndexClampsNegative(t *testing.T) {
	if got := chandlerBurningIndex(0, 100); got != 0 {
		t.Fatalf("CBI(0°C, 100%%) = %v, want clamp to 0", got)
	}
}

func TestDangerClassBands(t *testing.T) {
	cases := []struct {
		cbi  float64
		want string
	}{
		{0, "low"},
		{49.9, "low"},
		{50, "moderate"},
		{74.9, "moderate"},
		{75, "high"},
		{89.9, "high"},
		{90, "very_high"},
		{97.4, "very_high"},
		{97.5, "extreme"},
		{150, "extreme"},
	}
	for _, tc := range cases {
		if got := dangerClass(tc.cbi); got != tc.want {
			t.Errorf("dangerClass(%v) = %q, want %q", tc.cbi, got, tc.want)
		}
	}
}
