package fuzzy

// Engine evaluates the fixed sprinkler rule base. Safe for concurrent use:
// all state is read-only after New.
type Engine struct {
	heatSets     []Set
	durationSets []Set
	rules        []Rule
	centroids    map[Label]float64
}

// Result carries one full evaluation: clamped inputs, per-label input
// degrees, aggregated output strengths and the defuzzified pressure in
// [0,100].
type Result struct {
	Heat     float64
	Duration float64

	HeatDegrees     map[Label]float64
	DurationDegrees map[Label]float64
	Firing          map[Label]float64

	Pressure float64
}

var (
	heatLabels     = []Label{HeatLow, HeatMedium, HeatHigh, HeatCritical}
	durationLabels = []Label{DurationShort, DurationMedium, DurationLong}
	outputLabels   = []Label{OutputNone, OutputLow, OutputMedium, OutputHigh}
)

// New builds the engine with the standard set shapes. The breakpoints keep
// every rule with a non-zero consequent silent below 121 °F, so pressure is
// exactly zero through the whole low-heat band.
func New() *Engine {
	return &Engine{
		heatSets: []Set{
			{Label: HeatLow, Shape: Trapezoid{70, 70, 100, 130}},
			{Label: HeatMedium, Shape: Trapezoid{120, 140, 155, 170}},
			{Label: HeatHigh, Shape: Trapezoid{150, 170, 195, 220}},
			{Label: HeatCritical, Shape: Trapezoid{200, 240, 300, 300}},
		},
		durationSets: []Set{
			{Label: DurationShort, Shape: Trapezoid{0, 0, 4, 12}},
			{Label: DurationMedium, Shape: Trapezoid{8, 15, 30, 40}},
			{Label: DurationLong, Shape: Trapezoid{25, 40, 60, 60}},
		},
		rules: ruleBase,
		centroids: map[Label]float64{
			OutputNone:   0,
			OutputLow:    33,
			OutputMedium: 66,
			OutputHigh:   100,
		},
	}
}

// Evaluate runs fuzzification, rule firing (max per output label) and
// weighted-centroid defuzzification for one input pair. Inputs are clamped
// into domain first.
func (e *Engine) Evaluate(heat, duration float64) Result {
	h := clamp(heat, HeatMin, HeatMax)
	d := clamp(duration, DurationMin, DurationMax)

	hd := degrees(e.heatSets, h)
	dd := degrees(e.durationSets, d)

	firing := make(map[Label]float64, len(outputLabels))
	for _, l := range outputLabels {
		firing[l] = 0
	}
	for _, r := range e.rules {
		if s := r.strength(hd, dd); s > firing[r.Then] {
			firing[r.Then] = s
		}
	}

	var sum, weight float64
	for l, s := range firing {
		sum += s * e.centroids[l]
		weight += s
	}
	pressure := 0.0
	if weight > 0 {
		pressure = clamp(sum/weight, 0, 100)
	}

	return Result{
		Heat:            h,
		Duration:        d,
		HeatDegrees:     hd,
		DurationDegrees: dd,
		Firing:          firing,
		Pressure:        pressure,
	}
}

// DominantHeat returns the heat label with the highest degree; ties keep
// the cooler label.
func (r Result) DominantHeat() Label {
	return dominant(heatLabels, r.HeatDegrees)
}

// DominantDuration returns the duration label with the highest degree; ties
// keep the shorter label.
func (r Result) DominantDuration() Label {
	return dominant(durationLabels, r.DurationDegrees)
}

func dominant(order []Label, degs map[Label]float64) Label {
	best := order[0]
	for _, l := range order[1:] {
		if degs[l] > degs[best] {
			best = l
		}
	}
	return best
}
