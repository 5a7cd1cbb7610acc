package controller

import (
	"time"

	"github.com/pyrosim/sprinkler/internal/fuzzy"
)

// Snapshot is a point-in-time copy of one controller for readers. Maps are
// copied, never aliased, so a snapshot stays valid while the controller
// moves on.
type Snapshot struct {
	State    State   `json:"state"`
	Heat     float64 `json:"heat_f"`
	Duration float64 `json:"burn_s"`

	Pressure    float64 `json:"pressure"`
	PressurePct int     `json:"pressure_pct"`

	HeatDegrees     map[fuzzy.Label]float64 `json:"heat_degrees"`
	DurationDegrees map[fuzzy.Label]float64 `json:"duration_degrees"`
	Firing          map[fuzzy.Label]float64 `json:"firing"`

	DominantHeat     fuzzy.Label `json:"dominant_heat"`
	DominantDuration fuzzy.Label `json:"dominant_duration"`
	FlowClass        fuzzy.Label `json:"flow_class"`

	SprayFor  time.Duration `json:"spray_for,omitempty"`
	SprayLeft time.Duration `json:"spray_left,omitempty"`

	PendingState State     `json:"pending_state,omitempty"`
	PendingAt    time.Time `json:"pending_at,omitempty"`

	Episodes  uint64    `json:"episodes"`
	Sprays    uint64    `json:"sprays"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Controller) snapshotLocked() Snapshot {
	snap := Snapshot{
		State:            c.state,
		Heat:             c.heat,
		Duration:         c.duration,
		Pressure:         c.last.Pressure,
		PressurePct:      roundPct(c.last.Pressure),
		HeatDegrees:      copyDegrees(c.last.HeatDegrees),
		DurationDegrees:  copyDegrees(c.last.DurationDegrees),
		Firing:           copyDegrees(c.last.Firing),
		DominantHeat:     c.last.DominantHeat(),
		DominantDuration: c.last.DominantDuration(),
		FlowClass:        fuzzy.FlowClass(c.last.Pressure),
		Episodes:         c.episodes,
		Sprays:           c.sprays,
		UpdatedAt:        c.updatedAt,
	}
	if c.state == StateSpraying {
		snap.SprayFor = c.sprayFor
		if left := c.sprayUntil.Sub(c.clk.Now()); left > 0 {
			snap.SprayLeft = left
		}
	}
	if c.pending != nil {
		snap.PendingState = c.pending.to
		snap.PendingAt = c.pending.due
	}
	return snap
}

func copyDegrees(in map[fuzzy.Label]float64) map[fuzzy.Label]float64 {
	out := make(map[fuzzy.Label]float64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
