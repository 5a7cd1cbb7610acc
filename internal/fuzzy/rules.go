package fuzzy

// Condition matches one input variable against one or more labels. Several
// labels in one condition act as an OR: the condition's degree is the max
// of their memberships.
type Condition struct {
	Variable Variable
	Labels   []Label
}

// Rule fires with the min degree across its conditions (AND) and contributes
// that strength to the output label Then.
type Rule struct {
	When []Condition
	Then Label
}

func (r Rule) strength(heat, duration map[Label]float64) float64 {
	s := 1.0
	for _, c := range r.When {
		degs := heat
		if c.Variable == VarDuration {
			degs = duration
		}
		var best float64
		for _, l := range c.Labels {
			if d := degs[l]; d > best {
				best = d
			}
		}
		if best < s {
			s = best
		}
	}
	return s
}

// ruleBase is the suppression policy as data. High heat splits into two
// records gated by burn duration so each consequent stays independently
// testable.
var ruleBase = []Rule{
	{When: []Condition{
		{Variable: VarHeat, Labels: []Label{HeatLow}},
	}, Then: OutputNone},

	{When: []Condition{
		{Variable: VarHeat, Labels: []Label{HeatMedium}},
		{Variable: VarDuration, Labels: []Label{DurationShort}},
	}, Then: OutputLow},

	{When: []Condition{
		{Variable: VarHeat, Labels: []Label{HeatMedium}},
		{Variable: VarDuration, Labels: []Label{DurationMedium, DurationLong}},
	}, Then: OutputMedium},

	{When: []Condition{
		{Variable: VarHeat, Labels: []Label{HeatHigh}},
		{Variable: VarDuration, Labels: []Label{DurationShort}},
	}, Then: OutputMedium},

	{When: []Condition{
		{Variable: VarHeat, Labels: []Label{HeatHigh}},
		{Variable: VarDuration, Labels: []Label{DurationMedium, DurationLong}},
	}, Then: OutputHigh},

	{When: []Condition{
		{Variable: VarHeat, Labels: []Label{HeatCritical}},
	}, Then: OutputHigh},
}
