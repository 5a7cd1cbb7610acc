package entities

// HeadState indicates whether the sprinkler head is discharging water.
type HeadState string

const (
	HeadStandby  HeadState = "standby"
	HeadSpraying HeadState = "spraying"
)

// Head represents a single sprinkler head mounted in a zone.
type Head struct {
	ZoneID     string    `json:"zone_id"`
	ID         string    `json:"id"` // unique head identifier
	Longitude  float64   `json:"longitude"`
	Latitude   float64   `json:"latitude"`
	CeilingM   float64   `json:"ceiling_m"`             // mounting height
	State      HeadState `json:"state"`                 // water on/off
	FlowLpm    float64   `json:"flow_rate,omitempty"`   // discharge rate [l/min]
	CoverageM2 float64   `json:"coverage_m2,omitempty"` // protected floor area
}
