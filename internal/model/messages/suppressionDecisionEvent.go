package messages

import (
	"time"

	"github.com/pyrosim/sprinkler/internal/model/entities"
)

// SuppressionDecisionEvent is published by the suppression controller to
// record WHY water was committed to a head.
type SuppressionDecisionEvent struct {
	ZoneID       string             `json:"zone_id"`
	HeadID       string             `json:"head_id"`
	DecisionID   string             `json:"decision_id"`
	State        string             `json:"state"`
	PressurePct  int                `json:"pressure_pct"`
	SprayMs      int64              `json:"spray_ms"`
	DominantHeat string             `json:"dominant_heat"`
	FireStage    entities.FireStage `json:"fire_stage"`
	DangerIndex  float64            `json:"danger_index,omitempty"`
	Timestamp    time.Time          `json:"timestamp"`
}
