package entities

// SuppressionPolicy holds per-zone controller tuning. Zero fields fall back
// to the controller defaults.
type SuppressionPolicy struct {
	WarnF       float64 `json:"warn_f"`        // advisory band floor [°F]
	TriggerF    float64 `json:"trigger_f"`     // bulb burst point [°F]
	BurstMs     int     `json:"burst_ms"`      // bulb burst to water-on
	BaseSprayMs int     `json:"base_spray_ms"` // nominal spray before scaling
}
