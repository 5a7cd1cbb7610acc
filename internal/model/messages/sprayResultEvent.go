package messages

import "time"

// SprayResultEvent is published by the head service when a spray cycle ends
// or fails. It is aligned with the other events in internal/model/messages.
type SprayResultEvent struct {
	ZoneID        string    `json:"zone_id"`
	HeadID        string    `json:"head_id"`
	TicketID      string    `json:"ticket_id"`
	DecisionID    string    `json:"decision_id"`
	Status        string    `json:"status"`         // "OK" | "FAIL"
	LitersApplied float64   `json:"liters_applied"` // water actually delivered (>=0)
	Reason        string    `json:"reason"`         // "done" | "offline" | "stopped"
	StartedAt     time.Time `json:"started_at"`     // cycle start
	Timestamp     time.Time `json:"timestamp"`      // cycle end (event ts)
}
