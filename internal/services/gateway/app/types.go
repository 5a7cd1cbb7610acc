package app

import (
	"encoding/json"
	"strconv"
)

// ---------- Upstream payloads ----------

// HeadReading is the persistence store's latest sample per head.
type HeadReading struct {
	ZoneID     string  `json:"zone_id"`
	HeadID     string  `json:"head_id"`
	HeatF      float64 `json:"heat_f"`
	BurnS      float64 `json:"burn_s"`
	Aggregated bool    `json:"aggregated"`
	Time       string  `json:"time"` // RFC3339
}

// The stores we merge have drifted on field spelling over time, so the
// reading decoder accepts numbers-as-strings and time/timestamp aliases.
func (h *HeadReading) UnmarshalJSON(b []byte) error {
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}
	if v, ok := m["zone_id"].(string); ok {
		h.ZoneID = v
	}
	if v, ok := m["head_id"].(string); ok {
		h.HeadID = v
	}
	if v, ok := m["aggregated"].(bool); ok {
		h.Aggregated = v
	}
	h.Time = pickTime(m)
	if f, ok := numField(m, "heat_f"); ok {
		h.HeatF = f
	}
	if f, ok := numField(m, "burn_s"); ok {
		h.BurnS = f
	}
	return nil
}

// Spray is one completed discharge from the event store.
type Spray struct {
	ZoneID string  `json:"zone_id"`
	HeadID string  `json:"head_id"`
	Liters float64 `json:"liters"`
	Time   string  `json:"time"` // RFC3339
}

func (s *Spray) UnmarshalJSON(b []byte) error {
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}
	if v, ok := m["zone_id"].(string); ok {
		s.ZoneID = v
	}
	if v, ok := m["head_id"].(string); ok {
		s.HeadID = v
	}
	s.Time = pickTime(m)
	if f, ok := numField(m, "liters", "liters_applied"); ok {
		s.Liters = f
	}
	return nil
}

// HeadStatus is the slice of the controller's status report the dashboard
// shows. The controller is ours, so a plain decode is enough.
type HeadStatus struct {
	ZoneID      string  `json:"zone_id"`
	HeadID      string  `json:"head_id"`
	State       string  `json:"state"`
	HeatF       float64 `json:"heat_f"`
	BurnS       float64 `json:"burn_s"`
	PressurePct int     `json:"pressure_pct"`
	FireStage   string  `json:"fire_stage"`
	Episodes    uint64  `json:"episodes"`
	Sprays      uint64  `json:"sprays"`
}

type ZoneDanger struct {
	CBI   float64 `json:"cbi"`
	Class string  `json:"class"`
}

type StatusReport struct {
	Heads  []HeadStatus          `json:"heads"`
	Danger map[string]ZoneDanger `json:"danger"`
}

type DashboardData struct {
	Heads    []HeadStatus          `json:"heads"`
	Readings []HeadReading         `json:"readings"`
	Sprays   []Spray               `json:"sprays"`
	Danger   map[string]ZoneDanger `json:"danger"`
	Stats    map[string]float64    `json:"stats"`
}

// numField reads the first present key as a number, accepting strings.
func numField(m map[string]any, keys ...string) (float64, bool) {
	for _, k := range keys {
		mv, ok := m[k]
		if !ok {
			continue
		}
		switch x := mv.(type) {
		case float64:
			return x, true
		case string:
			if f, err := strconv.ParseFloat(x, 64); err == nil {
				return f, true
			}
		}
	}
	return 0, false
}

func pickTime(m map[string]any) string {
	if t, ok := m["time"].(string); ok && t != "" {
		return t
	}
	if t, ok := m["timestamp"].(string); ok && t != "" {
		return t
	}
	return ""
}
