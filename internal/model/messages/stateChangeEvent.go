package messages

import (
	"time"

	"github.com/pyrosim/sprinkler/internal/model/entities"
)

// StateChangeEvent records a head valve transition. Duration > 0 means the
// state reverts on its own after that long.
type StateChangeEvent struct {
	ZoneID    string             `json:"zone_id"`
	HeadID    string             `json:"head_id"`
	NewState  entities.HeadState `json:"new_state"`
	Duration  time.Duration      `json:"duration"`
	Timestamp time.Time          `json:"timestamp"`
}
