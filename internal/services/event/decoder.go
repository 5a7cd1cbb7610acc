package event

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/pyrosim/sprinkler/internal/controller"
	"github.com/pyrosim/sprinkler/internal/model/entities"
	msg "github.com/pyrosim/sprinkler/internal/model/messages"
)

type CommonEvent struct {
	EventType     string // suppression.decision | head.state_change | spray.result
	SourceService string // suppression-controller | head-service
	ZoneID        string
	HeadID        string
	Severity      string // info|warning|error|critical
	Fields        map[string]interface{}
	Timestamp     time.Time
}

// MQTTHandler turns raw MQTT messages into CommonEvents and hands them to sink (Influx).
type MQTTHandler struct{ sink func(CommonEvent) }

func NewMQTTHandler(sink func(CommonEvent)) *MQTTHandler { return &MQTTHandler{sink: sink} }

func (h *MQTTHandler) Handle(_ string, m mqtt.Message) error {
	topic := m.Topic()
	payload := m.Payload()

	var (
		evt CommonEvent
		err error
	)
	switch {
	case strings.HasPrefix(topic, "event/suppressionDecision/"):
		evt, err = decodeDecision(topic, payload)
	case strings.HasPrefix(topic, "event/StateChange/"):
		evt, err = decodeStateChange(topic, payload)
	case strings.HasPrefix(topic, "event/sprayResult/"):
		evt, err = decodeSprayResult(topic, payload)
	default:
		return nil // not ours
	}
	if err != nil {
		return err
	}
	if h.sink != nil {
		h.sink(evt)
	}
	return nil
}

func decodeDecision(topic string, payload []byte) (CommonEvent, error) {
	var d msg.SuppressionDecisionEvent
	if err := json.Unmarshal(payload, &d); err != nil {
		return CommonEvent{}, err
	}
	// decision topics carry only the zone; the head comes from the payload
	zoneID := d.ZoneID
	if strings.TrimSpace(zoneID) == "" {
		if suffix := strings.TrimPrefix(topic, "event/suppressionDecision/"); suffix != topic {
			zoneID = strings.Split(suffix, "/")[0]
		}
	}
	if zoneID == "" || strings.TrimSpace(d.HeadID) == "" {
		return CommonEvent{}, errors.New("decision: missing zone/head")
	}
	sev := "info"
	switch d.State {
	case string(controller.StateSpraying), string(controller.StateActive):
		sev = "critical"
	case string(controller.StateWarning):
		sev = "warning"
	}
	return CommonEvent{
		EventType:     "suppression.decision",
		SourceService: "suppression-controller",
		ZoneID:        zoneID,
		HeadID:        d.HeadID,
		Severity:      sev,
		Fields: map[string]interface{}{
			"state":         d.State,
			"pressure_pct":  d.PressurePct,
			"spray_ms":      d.SprayMs,
			"dominant_heat": d.DominantHeat,
			"fire_stage":    string(d.FireStage),
			"danger_index":  d.DangerIndex,
		},
		Timestamp: d.Timestamp,
	}, nil
}

func decodeStateChange(topic string, payload []byte) (CommonEvent, error) {
	var s msg.StateChangeEvent
	if err := json.Unmarshal(payload, &s); err != nil {
		return CommonEvent{}, err
	}
	zoneID, headID := pickIDs(topic, s.ZoneID, s.HeadID, "event/StateChange/")
	if zoneID == "" || headID == "" {
		return CommonEvent{}, errors.New("stateChange: missing zone/head")
	}
	sev := "info"
	if s.NewState == entities.HeadSpraying {
		sev = "warning" // water is flowing
	}
	return CommonEvent{
		EventType:     "head.state_change",
		SourceService: "head-service",
		ZoneID:        zoneID,
		HeadID:        headID,
		Severity:      sev,
		Fields: map[string]interface{}{
			"new_state": string(s.NewState),
			"duration":  s.Duration.Seconds(),
		},
		Timestamp: s.Timestamp,
	}, nil
}

func decodeSprayResult(topic string, payload []byte) (CommonEvent, error) {
	var r msg.SprayResultEvent
	if err := json.Unmarshal(payload, &r); err != nil {
		return CommonEvent{}, err
	}
	zoneID, headID := pickIDs(topic, r.ZoneID, r.HeadID, "event/sprayResult/")
	if zoneID == "" || headID == "" {
		return CommonEvent{}, errors.New("result: missing zone/head")
	}
	sev := "info"
	if strings.EqualFold(r.Status, "FAIL") {
		sev = "error" // discharge did not complete
	}
	return CommonEvent{
		EventType:     "spray.result",
		SourceService: "head-service",
		ZoneID:        zoneID,
		HeadID:        headID,
		Severity:      sev,
		Fields: map[string]interface{}{
			"status":         r.Status,
			"liters_applied": r.LitersApplied,
			"reason":         r.Reason,
			"decision_id":    r.DecisionID,
		},
		Timestamp: r.Timestamp,
	}, nil
}

// pickIDs uses the payload ids, or falls back to topic "prefix/{zone}/{head}".
func pickIDs(topic, zoneID, headID, prefix string) (string, string) {
	if strings.TrimSpace(zoneID) != "" && strings.TrimSpace(headID) != "" {
		return zoneID, headID
	}
	suffix := strings.TrimPrefix(topic, prefix)
	parts := strings.Split(suffix, "/")
	if len(parts) >= 2 {
		return parts[0], parts[1]
	}
	return zoneID, headID
}
