package messages

import (
	"time"
)

// HeatReading holds both raw and window-aggregated heat samples.
type HeatReading struct {
	ZoneID     string    `json:"zone_id"`
	HeadID     string    `json:"head_id"`
	HeatF      float64   `json:"heat_f"`
	BurnS      float64   `json:"burn_s"` // seconds the burn has been running
	Aggregated bool      `json:"aggregated"`
	Timestamp  time.Time `json:"timestamp"`
}
