package suppression_controller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	pb "github.com/pyrosim/sprinkler/grpc/gen/go/suppression"
	"github.com/pyrosim/sprinkler/internal/controller"
	"github.com/pyrosim/sprinkler/internal/model"
	"github.com/pyrosim/sprinkler/internal/model/entities"
	"github.com/pyrosim/sprinkler/pkg/dedup"
	"github.com/pyrosim/sprinkler/pkg/mqttbus"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// ===================== Config / defaults =====================

const (
	defaultTZ           = "Europe/Rome"
	defaultDecisionTmpl = "event/suppressionDecision/{zone}"
	grpcTimeout         = 5 * time.Second
)

// ErrUnknownHead is returned by the per-head operations for ids outside the
// zones config.
var ErrUnknownHead = errors.New("unknown head")

// ===================== Service =====================

type ControllerService struct {
	consumer mqttbus.IConsumer[mqtt.Message]
	results  mqttbus.IConsumer[mqtt.Message] // sprayResult feedback, optional
	router   HeadRouter
	wclient  WeatherClient
	zones    map[string]*model.Zone
	metrics  *Metrics

	// one suppression state machine per head, fixed at startup
	engines map[string]*controller.Controller

	decisionTopicTmpl string
	newPublisher      PublisherFactory
	pubMu             sync.Mutex
	publishers        map[string]mqttbus.IPublisher

	// anti double-dispatch while a head still discharges
	sprayMu    sync.Mutex
	sprayUntil map[string]time.Time // key = zone|head

	// daily fire danger cache
	tz          *time.Location
	dangerMu    sync.Mutex
	dangerDay   map[string]time.Time // local midnight the cache is valid for
	dangerCBI   map[string]float64
	dangerClass map[string]string

	// drops QoS1 redeliveries by payload hash
	deduper *dedup.Deduper
}

// HeadRouter exposes a gRPC client for every zone (zone -> HeadService).
type HeadRouter interface {
	Get(zone string) (pb.HeadServiceClient, bool)
	Close()
}

// WeatherClient returns the daily Chandler Burning Index and its advisory
// class for lat/lon/date.
type WeatherClient interface {
	GetDailyFireDanger(ctx context.Context, lat, lon float64, day time.Time) (cbi float64, class string, err error)
}

// PublisherFactory builds a publisher bound to one topic.
type PublisherFactory func(topic string) mqttbus.IPublisher

// ===================== ctor =====================

func NewControllerService(
	c mqttbus.IConsumer[mqtt.Message],
	newPublisher PublisherFactory,
	router HeadRouter,
	wc WeatherClient,
	zonesPath string,
	decisionTopicTmpl string,
	m *Metrics,
) (*ControllerService, error) {
	if c == nil {
		return nil, errors.New("consumer is nil")
	}
	if newPublisher == nil {
		return nil, errors.New("publisher factory is nil")
	}
	if router == nil {
		return nil, errors.New("head router is nil")
	}
	if wc == nil {
		return nil, errors.New("weather client is nil")
	}

	zones, err := loadZones(zonesPath)
	if err != nil {
		return nil, fmt.Errorf("load zones: %w", err)
	}

	tzName := strings.TrimSpace(os.Getenv("TZ"))
	if tzName == "" {
		tzName = defaultTZ
	}
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		log.Printf("WARN: invalid TZ=%q, falling back to local: %v", tzName, err)
		loc = time.Local
	}

	s := &ControllerService{
		consumer:          c,
		newPublisher:      newPublisher,
		router:            router,
		wclient:           wc,
		zones:             zones,
		metrics:           m,
		engines:           make(map[string]*controller.Controller),
		decisionTopicTmpl: firstNonEmpty(decisionTopicTmpl, defaultDecisionTmpl),
		publishers:        make(map[string]mqttbus.IPublisher),
		sprayUntil:        make(map[string]time.Time),
		tz:                loc,
		dangerDay:         make(map[string]time.Time),
		dangerCBI:         make(map[string]float64),
		dangerClass:       make(map[string]string),
		deduper:           dedup.New(10*time.Minute, 20000),
	}

	// one controller per head, tuned by the zone policy
	for zid, z := range zones {
		for i := range z.Heads {
			hid := z.Heads[i].ID
			cfg := controller.Config{}
			if z.Policy != nil {
				cfg.WarnThreshold = z.Policy.WarnF
				cfg.TriggerThreshold = z.Policy.TriggerF
				cfg.BurstDelay = time.Duration(z.Policy.BurstMs) * time.Millisecond
				cfg.BaseSpray = time.Duration(z.Policy.BaseSprayMs) * time.Millisecond
			}
			zid, hid := zid, hid
			cfg.OnTransition = func(tr controller.Transition) { s.onTransition(zid, hid, tr) }
			s.engines[key(zid, hid)] = controller.New(cfg)
		}
	}

	c.SetHandler(s.handleAggregated)
	return s, nil
}

// AttachResultConsumer wires the sprayResult feedback stream. Call it before
// Start.
func (s *ControllerService) AttachResultConsumer(c mqttbus.IConsumer[mqtt.Message]) {
	c.SetHandler(s.handleSprayResult)
	s.results = c
}

func (s *ControllerService) Start(ctx context.Context) {
	go s.consumer.ConsumeMessage(ctx)
	if s.results != nil {
		go s.results.ConsumeMessage(ctx)
	}
	<-ctx.Done()
	s.closePublishers()
}

// ===================== aggregated readings =====================

func (s *ControllerService) handleAggregated(_ string, msg mqtt.Message) error {
	start := time.Now()
	defer func() { s.metrics.ObserveEvaluation(time.Since(start)) }()

	if s.deduper != nil && s.deduper.Seen(dedup.Fingerprint(msg.Payload())) {
		return nil
	}

	var hr model.HeatReading
	if err := json.Unmarshal(msg.Payload(), &hr); err != nil {
		log.Printf("controller: bad payload: %v", err)
		return nil
	}
	if !hr.Aggregated {
		return nil
	}

	eng, ok := s.engines[key(hr.ZoneID, hr.HeadID)]
	if !ok {
		log.Printf("controller: unknown head %s/%s", hr.ZoneID, hr.HeadID)
		return nil
	}

	log.Printf("agg: %s/%s heat=%.1fF burn=%.0fs at=%s",
		hr.ZoneID, hr.HeadID, hr.HeatF, hr.BurnS, hr.Timestamp.UTC().Format(time.RFC3339))

	// refresh the zone's daily fire danger so decisions carry today's index
	dctx, cancel := context.WithTimeout(context.Background(), grpcTimeout)
	s.ensureDailyDanger(dctx, hr.ZoneID)
	cancel()

	eng.SetHeat(hr.HeatF)
	eng.SetDuration(hr.BurnS)

	snap := eng.Status()
	s.metrics.ObserveReading(hr.ZoneID, hr.HeadID, snap.Heat, snap.Pressure)
	return nil
}

// ===================== transitions & dispatch =====================

func (s *ControllerService) onTransition(zoneID, headID string, tr controller.Transition) {
	log.Printf("transition: %s/%s %s -> %s (pressure=%d%% heat=%.1fF burn=%.0fs)",
		zoneID, headID, tr.From, tr.To, tr.Snap.PressurePct, tr.Snap.Heat, tr.Snap.Duration)
	s.metrics.CountTransition(zoneID, headID, string(tr.To))

	decisionID := uuid.NewString()
	cbi, _ := s.dangerFor(zoneID)

	evt := model.SuppressionDecisionEvent{
		ZoneID:       zoneID,
		HeadID:       headID,
		DecisionID:   decisionID,
		State:        string(tr.To),
		PressurePct:  tr.Snap.PressurePct,
		SprayMs:      tr.Snap.SprayFor.Milliseconds(),
		DominantHeat: string(tr.Snap.DominantHeat),
		FireStage:    entities.ClassifyFireStage(tr.Snap.Heat, tr.Snap.Duration),
		DangerIndex:  cbi,
		Timestamp:    tr.At.UTC(),
	}
	s.publishDecision(zoneID, evt)

	if tr.To == controller.StateSpraying {
		s.dispatchSpray(zoneID, headID, decisionID, tr.Snap)
	}
}

func (s *ControllerService) publishDecision(zoneID string, evt model.SuppressionDecisionEvent) {
	b, _ := json.Marshal(evt)
	if err := s.publisherFor(zoneID).PublishMessage(string(b)); err != nil {
		log.Printf("controller: publish decision error: %v", err)
		return
	}
	log.Printf("decision: %s/%s state=%s pressure=%d%% spray=%dms stage=%s",
		evt.ZoneID, evt.HeadID, evt.State, evt.PressurePct, evt.SprayMs, evt.FireStage)
}

func (s *ControllerService) dispatchSpray(zoneID, headID, decisionID string, snap controller.Snapshot) {
	now := time.Now()
	k := key(zoneID, headID)

	// skip if the head is still discharging a previous command
	s.sprayMu.Lock()
	busyUntil, have := s.sprayUntil[k]
	if have && now.Before(busyUntil) {
		s.sprayMu.Unlock()
		log.Printf("controller: skip StartSpray %s/%s (busy until %s)",
			zoneID, headID, busyUntil.Format(time.RFC3339))
		s.metrics.CountDispatch(zoneID, headID, "busy")
		return
	}
	s.sprayMu.Unlock()

	head, ok := s.router.Get(zoneID)
	if !ok {
		log.Printf("controller: no head client for zone=%s", zoneID)
		s.metrics.CountDispatch(zoneID, headID, "unrouted")
		return
	}

	req := &pb.StartRequest{
		ZoneId:      zoneID,
		HeadId:      headID,
		PressurePct: float64(snap.PressurePct),
		DurationMs:  snap.SprayFor.Milliseconds(),
		DecisionId:  decisionID,
	}
	rctx, rcancel := context.WithTimeout(context.Background(), grpcTimeout)
	defer rcancel()

	resp, err := head.StartSpray(rctx, req)
	switch {
	case err != nil:
		log.Printf("controller: StartSpray error: %v", err)
		s.metrics.CountDispatch(zoneID, headID, "error")
	case !resp.GetSuccess():
		log.Printf("controller: StartSpray rejected: %s", resp.GetMessage())
		s.metrics.CountDispatch(zoneID, headID, "rejected")
	default:
		until := time.Now().Add(snap.SprayFor)
		s.sprayMu.Lock()
		if prev, ok := s.sprayUntil[k]; !ok || until.After(prev) {
			s.sprayUntil[k] = until
		}
		s.sprayMu.Unlock()
		log.Printf("controller: spraying %s/%s for %s ticket=%s (busy until %s)",
			zoneID, headID, snap.SprayFor, resp.GetTicketId(), until.Format(time.RFC3339))
		s.metrics.CountDispatch(zoneID, headID, "ok")
	}
}

// ===================== spray results =====================

func (s *ControllerService) handleSprayResult(_ string, msg mqtt.Message) error {
	if s.deduper != nil && s.deduper.Seen(dedup.Fingerprint(msg.Payload())) {
		return nil
	}

	var evt model.SprayResultEvent
	if err := json.Unmarshal(msg.Payload(), &evt); err != nil {
		log.Printf("controller: bad spray result: %v", err)
		return nil
	}

	k := key(evt.ZoneID, evt.HeadID)
	s.sprayMu.Lock()
	delete(s.sprayUntil, k)
	s.sprayMu.Unlock()

	log.Printf("result: %s/%s status=%s reason=%s liters=%.1f ticket=%s",
		evt.ZoneID, evt.HeadID, evt.Status, evt.Reason, evt.LitersApplied, evt.TicketID)
	s.metrics.CountSprayResult(evt.ZoneID, evt.Status)

	// a failed discharge means the burn is still alive; drop the latch so the
	// next aggregate can re-trigger immediately
	if evt.Status == "FAIL" {
		if eng, ok := s.engines[k]; ok {
			eng.Reset()
		}
	}
	return nil
}

// ===================== operations =====================

func (s *ControllerService) engine(zoneID, headID string) (*controller.Controller, error) {
	eng, ok := s.engines[key(zoneID, headID)]
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", ErrUnknownHead, zoneID, headID)
	}
	return eng, nil
}

func (s *ControllerService) SetHeat(zoneID, headID string, v float64) (controller.Snapshot, error) {
	eng, err := s.engine(zoneID, headID)
	if err != nil {
		return controller.Snapshot{}, err
	}
	eng.SetHeat(v)
	return eng.Status(), nil
}

func (s *ControllerService) SetDuration(zoneID, headID string, v float64) (controller.Snapshot, error) {
	eng, err := s.engine(zoneID, headID)
	if err != nil {
		return controller.Snapshot{}, err
	}
	eng.SetDuration(v)
	return eng.Status(), nil
}

func (s *ControllerService) Reset(zoneID, headID string) (controller.Snapshot, error) {
	eng, err := s.engine(zoneID, headID)
	if err != nil {
		return controller.Snapshot{}, err
	}
	eng.Reset()
	return eng.Status(), nil
}

func (s *ControllerService) Status(zoneID, headID string) (controller.Snapshot, error) {
	eng, err := s.engine(zoneID, headID)
	if err != nil {
		return controller.Snapshot{}, err
	}
	return eng.Status(), nil
}

// HeadStatus is one head's snapshot plus its ids and derived stage.
type HeadStatus struct {
	ZoneID string `json:"zone_id"`
	HeadID string `json:"head_id"`
	controller.Snapshot
	FireStage entities.FireStage `json:"fire_stage"`
}

// ZoneDanger is the cached daily fire danger of a zone.
type ZoneDanger struct {
	CBI   float64 `json:"cbi"`
	Class string  `json:"class"`
}

// StatusReport is the full controller picture served on /status.
type StatusReport struct {
	Heads  []HeadStatus          `json:"heads"`
	Danger map[string]ZoneDanger `json:"danger,omitempty"`
}

func (s *ControllerService) Report() StatusReport {
	rep := StatusReport{Danger: make(map[string]ZoneDanger)}
	for k, eng := range s.engines {
		zid, hid, _ := strings.Cut(k, "|")
		snap := eng.Status()
		rep.Heads = append(rep.Heads, HeadStatus{
			ZoneID:    zid,
			HeadID:    hid,
			Snapshot:  snap,
			FireStage: entities.ClassifyFireStage(snap.Heat, snap.Duration),
		})
	}
	sort.Slice(rep.Heads, func(i, j int) bool {
		if rep.Heads[i].ZoneID != rep.Heads[j].ZoneID {
			return rep.Heads[i].ZoneID < rep.Heads[j].ZoneID
		}
		return rep.Heads[i].HeadID < rep.Heads[j].HeadID
	})

	s.dangerMu.Lock()
	for zid := range s.dangerDay {
		rep.Danger[zid] = ZoneDanger{CBI: s.dangerCBI[zid], Class: s.dangerClass[zid]}
	}
	s.dangerMu.Unlock()
	return rep
}

// ===================== fire danger =====================

// ensureDailyDanger computes the zone's Chandler Burning Index once per
// local day; the cached value is stamped on every decision until midnight.
func (s *ControllerService) ensureDailyDanger(ctx context.Context, zoneID string) (float64, string) {
	z, ok := s.zones[zoneID]
	if !ok || len(z.Heads) == 0 {
		return 0, ""
	}
	dayStart := midnightLocal(time.Now(), s.tz)

	s.dangerMu.Lock()
	if day, have := s.dangerDay[zoneID]; have && day.Equal(dayStart) {
		cbi, cls := s.dangerCBI[zoneID], s.dangerClass[zoneID]
		s.dangerMu.Unlock()
		return cbi, cls
	}
	s.dangerMu.Unlock()

	// the first head's mount point stands in for the zone position
	lat, lon := z.Heads[0].Latitude, z.Heads[0].Longitude
	cbi, cls, err := s.wclient.GetDailyFireDanger(ctx, lat, lon, dayStart)
	if err != nil {
		log.Printf("controller: fire danger error for %s: %v (fallback)", zoneID, err)
		cbi, cls = 0, "unknown"
	}

	s.dangerMu.Lock()
	s.dangerDay[zoneID] = dayStart
	s.dangerCBI[zoneID] = cbi
	s.dangerClass[zoneID] = cls
	s.dangerMu.Unlock()

	log.Printf("danger: %s day=%s cbi=%.1f class=%s", zoneID, dayStart.Format("2006-01-02"), cbi, cls)
	return cbi, cls
}

func (s *ControllerService) dangerFor(zoneID string) (float64, string) {
	s.dangerMu.Lock()
	defer s.dangerMu.Unlock()
	return s.dangerCBI[zoneID], s.dangerClass[zoneID]
}

// ===================== publishers =====================

func (s *ControllerService) publisherFor(zoneID string) mqttbus.IPublisher {
	s.pubMu.Lock()
	defer s.pubMu.Unlock()
	if pub, ok := s.publishers[zoneID]; ok {
		return pub
	}
	topic := strings.NewReplacer("{zone}", zoneID).Replace(s.decisionTopicTmpl)
	pub := s.newPublisher(topic)
	s.publishers[zoneID] = pub
	return pub
}

func (s *ControllerService) closePublishers() {
	s.pubMu.Lock()
	defer s.pubMu.Unlock()
	for _, pub := range s.publishers {
		pub.Close()
	}
}

// ===================== zones config =====================

// loadZones reads the zones file, accepting both "flow_lpm" and "flow_rate"
// for the head discharge rate.
func loadZones(path string) (map[string]*model.Zone, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var m map[string]struct {
		AreaType string                   `json:"area_type"`
		Hazard   string                   `json:"hazard"`
		Policy   *model.SuppressionPolicy `json:"policy"`
		Heads    []map[string]any         `json:"heads"`
	}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}

	out := make(map[string]*model.Zone, len(m))
	for zid, rec := range m {
		z := &model.Zone{
			ID:       zid,
			AreaType: rec.AreaType,
			Hazard:   model.HazardClass(strings.TrimSpace(rec.Hazard)),
			Policy:   rec.Policy,
		}
		if z.Hazard == "" {
			z.Hazard = entities.HazardOrdinary
		}
		for _, hr := range rec.Heads {
			var h model.Head
			if v, ok := hr["id"].(string); ok {
				h.ID = v
			}
			if h.ID == "" {
				return nil, fmt.Errorf("head without id in zone %s", zid)
			}
			h.ZoneID = zid
			h.Latitude = toF64(hr["latitude"])
			h.Longitude = toF64(hr["longitude"])
			h.CeilingM = toF64(hr["ceiling_m"])
			h.CoverageM2 = toF64(hr["coverage_m2"])

			// discharge rate: prefer flow_lpm, fall back to flow_rate
			flow := toF64(hr["flow_lpm"])
			if flow == 0 {
				flow = toF64(hr["flow_rate"])
			}
			h.FlowLpm = flow
			h.State = model.HeadStandby

			z.Heads = append(z.Heads, h)
		}
		out[zid] = z
	}
	return out, nil
}

// toF64 converts ints/floats/strings from loosely typed JSON to float64.
func toF64(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case int:
		return float64(t)
	case int32:
		return float64(t)
	case int64:
		return float64(t)
	case string:
		if f, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(t), ",", "."), 64); err == nil {
			return f
		}
	}
	return 0
}

// --------------------- small helpers ---------------------

func key(zid, hid string) string { return zid + "|" + hid }

func midnightLocal(t time.Time, loc *time.Location) time.Time {
	lt := t.In(loc)
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, loc)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
