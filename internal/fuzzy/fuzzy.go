// Package fuzzy implements the Mamdani-style inference behind the sprinkler
// controller: trapezoidal membership sets over heat and burn duration, a
// data-driven rule table, and weighted-centroid defuzzification into a water
// pressure percentage. The package is pure computation; it owns no clock,
// no goroutines and no I/O.
package fuzzy

// Variable names one of the two crisp inputs.
type Variable string

const (
	VarHeat     Variable = "heat"
	VarDuration Variable = "duration"
)

// Label is a linguistic value of an input or output variable.
type Label string

const (
	HeatLow      Label = "low"
	HeatMedium   Label = "medium"
	HeatHigh     Label = "high"
	HeatCritical Label = "critical"

	DurationShort  Label = "short"
	DurationMedium Label = "medium"
	DurationLong   Label = "long"

	OutputNone   Label = "none"
	OutputLow    Label = "low"
	OutputMedium Label = "medium"
	OutputHigh   Label = "high"
)

// Input domains in °F and seconds. Values outside are clamped, never
// rejected.
const (
	HeatMin = 70.0
	HeatMax = 300.0

	DurationMin = 0.0
	DurationMax = 60.0
)

// Trapezoid is a membership function over four ordered breakpoints: zero
// below A, rising on A..B, one on B..C, falling on C..D, zero above D.
// A==B or C==D collapses a ramp, so shoulder sets keep degree 1 at the
// domain edge.
type Trapezoid struct {
	A, B, C, D float64
}

// Membership returns the degree of x in [0,1].
func (t Trapezoid) Membership(x float64) float64 {
	switch {
	case x < t.A || x > t.D:
		return 0
	case x >= t.B && x <= t.C:
		return 1
	case x < t.B:
		return (x - t.A) / (t.B - t.A)
	default:
		return (t.D - x) / (t.D - t.C)
	}
}

// Set binds a label to its membership shape.
type Set struct {
	Label Label
	Shape Trapezoid
}

func degrees(sets []Set, x float64) map[Label]float64 {
	out := make(map[Label]float64, len(sets))
	for _, s := range sets {
		out[s.Label] = s.Shape.Membership(x)
	}
	return out
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// FlowClass buckets a pressure percentage into the water delivery class
// shown on the status surface.
func FlowClass(pressure float64) Label {
	switch {
	case pressure <= 0:
		return OutputNone
	case pressure < 30:
		return OutputLow
	case pressure < 70:
		return OutputMedium
	default:
		return OutputHigh
	}
}
