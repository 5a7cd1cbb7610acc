package entities

// FireStage labels the development stage of a burn, derived from the latest
// heat sample and how long the burn has been running. Decisions and
// telemetry carry it as an annotation.
type FireStage string

const (
	StageIncipient FireStage = "Incipient"
	StageGrowth    FireStage = "Growth"
	StageFlashover FireStage = "Flashover"
	StageDecay     FireStage = "Decay"
)

// ClassifyFireStage is a coarse mapping: sub-trigger heat is incipient
// (or decay once the burn has run long), then growth, then flashover past
// 260 °F.
func ClassifyFireStage(heatF, burnS float64) FireStage {
	switch {
	case heatF >= 260:
		return StageFlashover
	case heatF >= 155:
		return StageGrowth
	case burnS > 30:
		return StageDecay
	default:
		return StageIncipient
	}
}
