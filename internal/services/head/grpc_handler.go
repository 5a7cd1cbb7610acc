package head

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	pb "github.com/pyrosim/sprinkler/grpc/gen/go/suppression"
	"github.com/pyrosim/sprinkler/internal/model"
	"github.com/pyrosim/sprinkler/internal/model/entities"
	"github.com/pyrosim/sprinkler/pkg/mqttbus"
)

type PublisherFactory func(topic string) mqttbus.IPublisher

// GrpcHandler implements HeadService: it opens and closes the water on
// command, runs the discharge cycle and reports StateChange + sprayResult
// events over MQTT.
type GrpcHandler struct {
	pb.UnimplementedHeadServiceServer

	makePublisher PublisherFactory
	zones         map[string]*model.Zone

	topicTemplate   string // "event/StateChange/{zone}/{head}"
	resultTopicTmpl string // "event/sprayResult/{zone}/{head}"

	// one discharge cycle per head; the cancel func doubles as the busy flag
	activeMu sync.Mutex
	active   map[string]context.CancelFunc

	// liveness (implicit heartbeat from the raw heat feed)
	headLivenessTTL time.Duration
	offlineGrace    time.Duration
	lastSeen        sync.Map // key "zone|head" -> time.Time
}

func NewGrpcHandler(factory PublisherFactory, topicTemplate string, zones map[string]*model.Zone) *GrpcHandler {
	return &GrpcHandler{
		makePublisher:   factory,
		zones:           zones,
		topicTemplate:   topicTemplate,
		resultTopicTmpl: "event/sprayResult/{zone}/{head}",
		active:          make(map[string]context.CancelFunc),
		headLivenessTTL: 15 * time.Second,
		offlineGrace:    2 * time.Second,
	}
}

func (h *GrpcHandler) SetResultTopicTemplate(t string) {
	if strings.TrimSpace(t) != "" {
		h.resultTopicTmpl = t
	}
}

// SetLiveness tunes the heartbeat TTL and the grace window (from the main
// via ENV).
func (h *GrpcHandler) SetLiveness(ttl, grace time.Duration) {
	if ttl > 0 {
		h.headLivenessTTL = ttl
	}
	if grace > 0 {
		h.offlineGrace = grace
	}
}

// ============== RPC: StartSpray ==============

func (h *GrpcHandler) StartSpray(_ context.Context, req *pb.StartRequest) (*pb.CommandResponse, error) {
	zid, hid := strings.TrimSpace(req.GetZoneId()), strings.TrimSpace(req.GetHeadId())

	zone, headCfg, ok := h.lookupHead(zid, hid)
	if !ok {
		return &pb.CommandResponse{Success: false, Message: fmt.Sprintf("unknown zone/head %s/%s", zid, hid)}, nil
	}

	// effective discharge time: the commanded length scaled by the zone's
	// fire load
	baseMs := req.GetDurationMs()
	if baseMs <= 0 {
		baseMs = 5000
	}
	dur := time.Duration(math.Round(float64(baseMs)*zone.Hazard.SprayScale())) * time.Millisecond

	// flow at the commanded line pressure
	pf := req.GetPressurePct() / 100
	if pf <= 0 || pf > 1 {
		pf = 1
	}
	flowLpm := headCfg.FlowLpm
	if flowLpm <= 0 {
		// design density [mm/min] over the covered area, 1 mm on 1 m2 = 1 l
		flowLpm = zone.Hazard.DesignDensity() * headCfg.CoverageM2
	}
	litersPerSec := flowLpm * pf / 60

	k := zid + "|" + hid
	cctx, cancel := context.WithCancel(context.Background())
	h.activeMu.Lock()
	if _, busy := h.active[k]; busy {
		h.activeMu.Unlock()
		cancel()
		return &pb.CommandResponse{Success: false, Message: fmt.Sprintf("head %s/%s already spraying", zid, hid)}, nil
	}
	h.active[k] = cancel
	h.activeMu.Unlock()

	// 1) water on
	if err := h.publishState(zid, hid, entities.HeadSpraying, dur); err != nil {
		h.activeMu.Lock()
		delete(h.active, k)
		h.activeMu.Unlock()
		cancel()
		return &pb.CommandResponse{Success: false, Message: "publish state spraying failed"}, err
	}

	// 2) accepted + ticket; the result event follows at end of cycle
	ticket := uuid.New().String()
	started := time.Now()

	go h.runCycle(cctx, zid, hid, req.GetDecisionId(), ticket, dur, litersPerSec, started)

	return &pb.CommandResponse{
		Success:  true,
		Message:  fmt.Sprintf("spray started for %s/%s (duration=%s)", zid, hid, dur),
		TicketId: ticket,
	}, nil
}

// ============== RPC: StopSpray ==============

func (h *GrpcHandler) StopSpray(_ context.Context, req *pb.StopRequest) (*pb.CommandResponse, error) {
	zid, hid := strings.TrimSpace(req.GetZoneId()), strings.TrimSpace(req.GetHeadId())

	h.activeMu.Lock()
	cancel, running := h.active[zid+"|"+hid]
	h.activeMu.Unlock()

	if running {
		log.Printf("head: stop signalled for %s/%s (reason=%s)", zid, hid, req.GetReason())
		cancel()
		return &pb.CommandResponse{Success: true, Message: fmt.Sprintf("spray stop signalled for %s/%s", zid, hid)}, nil
	}

	// no cycle running: still force the head closed
	if err := h.publishState(zid, hid, entities.HeadStandby, 0); err != nil {
		return &pb.CommandResponse{Success: false, Message: "publish state standby failed"}, err
	}
	return &pb.CommandResponse{Success: true, Message: fmt.Sprintf("no active cycle for %s/%s, head forced closed", zid, hid)}, nil
}

// ============== discharge cycle ==============

func (h *GrpcHandler) runCycle(ctx context.Context, zoneID, headID, decisionID, ticketID string, dur time.Duration, litersPerSec float64, started time.Time) {
	k := zoneID + "|" + headID
	defer func() {
		h.activeMu.Lock()
		delete(h.active, k)
		h.activeMu.Unlock()
	}()

	const step = 100 * time.Millisecond
	tick := time.NewTicker(step)
	defer tick.Stop()

	deadline := time.Now().Add(dur)
	liters := 0.0

	for time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			h.finishCycle(zoneID, headID, decisionID, ticketID, "OK", "stopped", liters, started)
			return
		case <-tick.C:
		}

		// liveness: a silent head is assumed failed, close and report partial
		if !h.isLive(zoneID, headID) && !h.waitGraceAlive(ctx, zoneID, headID, h.offlineGrace) {
			h.finishCycle(zoneID, headID, decisionID, ticketID, "FAIL", "offline", liters, started)
			return
		}

		liters += litersPerSec * step.Seconds()
	}

	h.finishCycle(zoneID, headID, decisionID, ticketID, "OK", "done", liters, started)
}

// finishCycle reports the outcome and closes the head whatever happened.
func (h *GrpcHandler) finishCycle(zoneID, headID, decisionID, ticketID, status, reason string, liters float64, started time.Time) {
	h.publishResult(model.SprayResultEvent{
		ZoneID:        zoneID,
		HeadID:        headID,
		TicketID:      ticketID,
		DecisionID:    decisionID,
		Status:        status,
		LitersApplied: round1(liters),
		Reason:        reason,
		StartedAt:     started,
		Timestamp:     time.Now(),
	})
	if err := h.publishState(zoneID, headID, entities.HeadStandby, 0); err != nil {
		log.Printf("head: publish state standby failed for %s/%s: %v", zoneID, headID, err)
	}
}

// ============== helpers ==============

// markSeen records a heartbeat from the raw heat feed.
func (h *GrpcHandler) markSeen(zoneID, headID string) {
	h.lastSeen.Store(zoneID+"|"+headID, time.Now())
}

func (h *GrpcHandler) isLive(zoneID, headID string) bool {
	if v, ok := h.lastSeen.Load(zoneID + "|" + headID); ok {
		return time.Since(v.(time.Time)) < h.headLivenessTTL
	}
	return false
}

func (h *GrpcHandler) waitGraceAlive(ctx context.Context, zoneID, headID string, grace time.Duration) bool {
	deadline := time.Now().Add(grace)
	for time.Now().Before(deadline) {
		if h.isLive(zoneID, headID) {
			return true
		}
		select {
		case <-ctx.Done():
			return false
		case <-time.After(100 * time.Millisecond):
		}
	}
	return false
}

// publishState emits the StateChange retained so a head that reconnects sees
// its last commanded state.
func (h *GrpcHandler) publishState(zoneID, headID string, st entities.HeadState, d time.Duration) error {
	evt := model.StateChangeEvent{
		ZoneID:    zoneID,
		HeadID:    headID,
		NewState:  st,
		Duration:  d,
		Timestamp: time.Now(),
	}
	b, _ := json.Marshal(evt)
	topic := formatTopic(h.topicTemplate, zoneID, headID)
	return h.makePublisher(topic).PublishRetained(string(b))
}

func (h *GrpcHandler) publishResult(evt model.SprayResultEvent) {
	topic := strings.NewReplacer("{zone}", evt.ZoneID, "{head}", evt.HeadID).
		Replace(firstNonEmpty(h.resultTopicTmpl, "event/sprayResult/{zone}/{head}"))
	payload, _ := json.Marshal(evt)
	_ = h.makePublisher(topic).PublishMessage(string(payload))
}

func (h *GrpcHandler) lookupHead(zoneID, headID string) (*model.Zone, *model.Head, bool) {
	z, ok := h.zones[zoneID]
	if !ok {
		return nil, nil, false
	}
	head := z.GetHead(headID)
	if head == nil {
		return nil, nil, false
	}
	return z, head, true
}

func formatTopic(tmpl, zoneID, headID string) string {
	if strings.TrimSpace(tmpl) == "" {
		tmpl = "event/StateChange/{zone}/{head}"
	}
	return strings.NewReplacer("{zone}", zoneID, "{head}", headID).Replace(tmpl)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func round1(x float64) float64 { return math.Round(x*10) / 10 }
