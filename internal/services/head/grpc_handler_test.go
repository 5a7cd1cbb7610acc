package head

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	pb "github.com/pyrosim/sprinkler/grpc/gen/go/suppression"
	"github.com/pyrosim/sprinkler/internal/model"
	"github.com/pyrosim/sprinkler/internal/model/entities"
	"github.com/pyrosim/sprinkler/pkg/mqttbus"
)

// ===== fakes =====

type fakePublisher struct {
	mu       sync.Mutex
	messages []string
	retained []string
}

func (f *fakePublisher) PublishMessage(p string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, p)
	return nil
}

func (f *fakePublisher) PublishRetained(p string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.retained = append(f.retained, p)
	return nil
}

func (f *fakePublisher) Close() {}

func (f *fakePublisher) allMessages() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.messages...)
}

func (f *fakePublisher) allRetained() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.retained...)
}

type pubRegistry struct {
	mu   sync.Mutex
	pubs map[string]*fakePublisher
}

func newPubRegistry() *pubRegistry {
	return &pubRegistry{pubs: make(map[string]*fakePublisher)}
}

func (r *pubRegistry) factory(topic string) mqttbus.IPublisher {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.pubs[topic]; ok {
		return p
	}
	p := &fakePublisher{}
	r.pubs[topic] = p
	return p
}

func (r *pubRegistry) get(topic string) *fakePublisher {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.pubs[topic]; ok {
		return p
	}
	return &fakePublisher{}
}

// ===== harness =====

func testZones() map[string]*model.Zone {
	return map[string]*model.Zone{
		"zone1": {
			ID:     "zone1",
			Hazard: entities.HazardOrdinary,
			Heads: []model.Head{
				{ZoneID: "zone1", ID: "head1", FlowLpm: 60, CoverageM2: 12, State: entities.HeadStandby},
			},
		},
	}
}

func newTestHandler() (*GrpcHandler, *pubRegistry) {
	reg := newPubRegistry()
	h := NewGrpcHandler(reg.factory, "event/StateChange/{zone}/{head}", testZones())
	return h, reg
}

func stateEvents(t *testing.T, reg *pubRegistry) []model.StateChangeEvent {
	t.Helper()
	var out []model.StateChangeEvent
	for _, raw := range reg.get("event/StateChange/zone1/head1").allRetained() {
		var evt model.StateChangeEvent
		if err := json.Unmarshal([]byte(raw), &evt); err != nil {
			t.Fatalf("bad state payload %q: %v", raw, err)
		}
		out = append(out, evt)
	}
	return out
}

func resultEvents(t *testing.T, reg *pubRegistry) []model.SprayResultEvent {
	t.Helper()
	var out []model.SprayResultEvent
	for _, raw := range reg.get("event/sprayResult/zone1/head1").allMessages() {
		var evt model.SprayResultEvent
		if err := json.Unmarshal([]byte(raw), &evt); err != nil {
			t.Fatalf("bad result payload %q: %v", raw, err)
		}
		out = append(out, evt)
	}
	return out
}

func waitFor(t *testing.T, d time.Duration, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

// ===== tests =====

func TestStartSprayRunsCycleAndReportsDone(t *testing.T) {
	h, reg := newTestHandler()
	h.markSeen("zone1", "head1")

	resp, err := h.StartSpray(context.Background(), &pb.StartRequest{
		ZoneId: "zone1", HeadId: "head1",
		PressurePct: 80, DurationMs: 200, DecisionId: "d-123",
	})
	if err != nil {
		t.Fatalf("StartSpray: %v", err)
	}
	if !resp.GetSuccess() || resp.GetTicketId() == "" {
		t.Fatalf("resp = %+v, want success with a ticket", resp)
	}

	states := stateEvents(t, reg)
	if len(states) == 0 || states[0].NewState != entities.HeadSpraying {
		t.Fatalf("states = %+v, want spraying first", states)
	}
	// ordinary hazard scales the commanded 200ms by 1.25
	if states[0].Duration != 250*time.Millisecond {
		t.Fatalf("spraying duration = %s, want 250ms", states[0].Duration)
	}

	waitFor(t, 2*time.Second, "cycle result", func() bool {
		return len(resultEvents(t, reg)) > 0
	})

	results := resultEvents(t, reg)
	res := results[0]
	if res.Status != "OK" || res.Reason != "done" {
		t.Fatalf("result = %+v, want OK/done", res)
	}
	if res.TicketID != resp.GetTicketId() || res.DecisionID != "d-123" {
		t.Errorf("result ids = %s/%s, want %s/d-123", res.TicketID, res.DecisionID, resp.GetTicketId())
	}
	if res.LitersApplied <= 0 || res.LitersApplied > 1 {
		t.Errorf("liters = %v, want a small positive amount for a 250ms cycle", res.LitersApplied)
	}

	states = stateEvents(t, reg)
	if last := states[len(states)-1]; last.NewState != entities.HeadStandby {
		t.Fatalf("last state = %s, want standby after the cycle", last.NewState)
	}
}

func TestStartSprayRejectsWhileBusy(t *testing.T) {
	h, _ := newTestHandler()
	h.markSeen("zone1", "head1")

	first, err := h.StartSpray(context.Background(), &pb.StartRequest{
		ZoneId: "zone1", HeadId: "head1", PressurePct: 80, DurationMs: 400,
	})
	if err != nil || !first.GetSuccess() {
		t.Fatalf("first StartSpray = %+v, %v", first, err)
	}

	second, err := h.StartSpray(context.Background(), &pb.StartRequest{
		ZoneId: "zone1", HeadId: "head1", PressurePct: 80, DurationMs: 400,
	})
	if err != nil {
		t.Fatalf("second StartSpray: %v", err)
	}
	if second.GetSuccess() {
		t.Fatal("second StartSpray accepted while a cycle is running")
	}
	if !strings.Contains(second.GetMessage(), "already spraying") {
		t.Errorf("message = %q, want a busy rejection", second.GetMessage())
	}
}

func TestStartSprayUnknownHead(t *testing.T) {
	h, _ := newTestHandler()

	resp, err := h.StartSpray(context.Background(), &pb.StartRequest{
		ZoneId: "zone9", HeadId: "head9", DurationMs: 100,
	})
	if err != nil {
		t.Fatalf("StartSpray: %v", err)
	}
	if resp.GetSuccess() {
		t.Fatal("StartSpray accepted an unknown head")
	}
}

func TestStopSprayCancelsRunningCycle(t *testing.T) {
	h, reg := newTestHandler()
	h.markSeen("zone1", "head1")

	resp, err := h.StartSpray(context.Background(), &pb.StartRequest{
		ZoneId: "zone1", HeadId: "head1", PressurePct: 100, DurationMs: 5000, DecisionId: "d-9",
	})
	if err != nil || !resp.GetSuccess() {
		t.Fatalf("StartSpray = %+v, %v", resp, err)
	}

	time.Sleep(150 * time.Millisecond)

	stop, err := h.StopSpray(context.Background(), &pb.StopRequest{
		ZoneId: "zone1", HeadId: "head1", Reason: "drill over",
	})
	if err != nil || !stop.GetSuccess() {
		t.Fatalf("StopSpray = %+v, %v", stop, err)
	}

	waitFor(t, 2*time.Second, "stopped result", func() bool {
		return len(resultEvents(t, reg)) > 0
	})

	res := resultEvents(t, reg)[0]
	if res.Status != "OK" || res.Reason != "stopped" {
		t.Fatalf("result = %+v, want OK/stopped", res)
	}

	states := stateEvents(t, reg)
	if last := states[len(states)-1]; last.NewState != entities.HeadStandby {
		t.Fatalf("last state = %s, want standby after stop", last.NewState)
	}
}

func TestStopSprayWithoutCycleForcesClosed(t *testing.T) {
	h, reg := newTestHandler()

	resp, err := h.StopSpray(context.Background(), &pb.StopRequest{
		ZoneId: "zone1", HeadId: "head1", Reason: "maintenance",
	})
	if err != nil || !resp.GetSuccess() {
		t.Fatalf("StopSpray = %+v, %v", resp, err)
	}

	states := stateEvents(t, reg)
	if len(states) != 1 || states[0].NewState != entities.HeadStandby {
		t.Fatalf("states = %+v, want a single standby", states)
	}
	if got := len(resultEvents(t, reg)); got != 0 {
		t.Fatalf("results = %d, want 0 when no cycle was running", got)
	}
}

func TestSilentHeadFailsCycleWithPartial(t *testing.T) {
	h, reg := newTestHandler()
	// no heartbeat at all, short grace so the cycle gives up quickly
	h.SetLiveness(0, 50*time.Millisecond)

	resp, err := h.StartSpray(context.Background(), &pb.StartRequest{
		ZoneId: "zone1", HeadId: "head1", PressurePct: 100, DurationMs: 2000, DecisionId: "d-5",
	})
	if err != nil || !resp.GetSuccess() {
		t.Fatalf("StartSpray = %+v, %v", resp, err)
	}

	waitFor(t, 2*time.Second, "offline result", func() bool {
		return len(resultEvents(t, reg)) > 0
	})

	res := resultEvents(t, reg)[0]
	if res.Status != "FAIL" || res.Reason != "offline" {
		t.Fatalf("result = %+v, want FAIL/offline", res)
	}
	if res.LitersApplied != 0 {
		t.Errorf("liters = %v, want 0 before the first live tick", res.LitersApplied)
	}

	states := stateEvents(t, reg)
	if last := states[len(states)-1]; last.NewState != entities.HeadStandby {
		t.Fatalf("last state = %s, want the safety close", last.NewState)
	}
}
