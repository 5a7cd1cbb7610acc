package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"

	"github.com/pyrosim/sprinkler/internal/model"
	"github.com/pyrosim/sprinkler/pkg/mqttbus"
)

type InfluxConfig struct {
	InfluxURL       string
	InfluxToken     string
	InfluxOrg       string
	InfluxBucket    string
	MeasurementMode string // "single" | "per-head"
	MeasurementName string // base measurement, default "heat"
}

// Service persists aggregated heat readings to InfluxDB and keeps the last
// reading per head in memory so /data/latest still answers when Influx is
// unreachable.
type Service struct {
	consumer        mqttbus.IConsumer[mqtt.Message]
	writeAPI        api.WriteAPIBlocking
	queryAPI        api.QueryAPI
	bucket          string
	measurementMode string
	measurementName string

	mu     sync.RWMutex
	latest map[string]model.HeatReading // zone|head -> last reading
}

func NewService(consumer mqttbus.IConsumer[mqtt.Message], client influxdb2.Client, cfg InfluxConfig) (*Service, error) {
	if consumer == nil || client == nil {
		return nil, errors.New("persistence: nil consumer or influx client")
	}
	if cfg.InfluxURL == "" || cfg.InfluxOrg == "" || cfg.InfluxBucket == "" {
		return nil, fmt.Errorf("influx config incomplete")
	}
	name := cfg.MeasurementName
	if name == "" {
		name = "heat"
	}
	return &Service{
		consumer:        consumer,
		writeAPI:        client.WriteAPIBlocking(cfg.InfluxOrg, cfg.InfluxBucket),
		queryAPI:        client.QueryAPI(cfg.InfluxOrg),
		bucket:          cfg.InfluxBucket,
		measurementMode: cfg.MeasurementMode,
		measurementName: name,
		latest:          make(map[string]model.HeatReading),
	}, nil
}

func (s *Service) Start(ctx context.Context) {
	s.consumer.SetHandler(func(topic string, msg mqtt.Message) error {
		return s.handleReading(ctx, topic, msg.Payload())
	})
	s.consumer.ConsumeMessage(ctx)
}

func (s *Service) handleReading(ctx context.Context, topic string, payload []byte) error {
	var m model.HeatReading
	if err := json.Unmarshal(payload, &m); err != nil {
		log.Printf("persistence: invalid JSON on %s: %v", topic, err)
		return nil // keep the stream moving
	}
	if m.ZoneID == "" || m.HeadID == "" {
		log.Printf("persistence: reading without ids on %s", topic)
		return nil
	}
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now()
	}

	// cache first: the fallback path must work precisely when Influx is down
	s.mu.Lock()
	s.latest[m.ZoneID+"|"+m.HeadID] = m
	s.mu.Unlock()

	measurement := s.measurementName
	if s.measurementMode == "per-head" {
		measurement += "_" + m.HeadID
	}
	measurement = sanitizeMeasurement(measurement)

	tags := map[string]string{
		"zone_id": m.ZoneID,
		"head_id": m.HeadID,
	}
	fields := map[string]interface{}{
		"heat_f":     m.HeatF,
		"burn_s":     m.BurnS,
		"aggregated": m.Aggregated,
	}
	point := influxdb2.NewPoint(measurement, tags, fields, m.Timestamp)

	if err := s.writeAPI.WritePoint(ctx, point); err != nil {
		log.Printf("persistence: write error: %v", err)
		return err
	}
	log.Printf("persistence: wrote %s zone=%s head=%s heat=%.1f burn=%.0f",
		measurement, m.ZoneID, m.HeadID, m.HeatF, m.BurnS)
	return nil
}

// LatestCache returns the in-memory last reading per head, ordered by zone
// then head.
func (s *Service) LatestCache() []model.HeatReading {
	s.mu.RLock()
	out := make([]model.HeatReading, 0, len(s.latest))
	for _, v := range s.latest {
		out = append(out, v)
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].ZoneID != out[j].ZoneID {
			return out[i].ZoneID < out[j].ZoneID
		}
		return out[i].HeadID < out[j].HeadID
	})
	return out
}

func latestFlux(bucket string, minutes int) string {
	return fmt.Sprintf(`
from(bucket: %q)
  |> range(start: -%dm)
  |> filter(fn: (r) => r._field == "heat_f" or r._field == "burn_s")
  |> last()
`, bucket, minutes)
}

// QueryLatestFromInflux reads the newest heat_f/burn_s sample per head from
// the last `minutes` of history.
func (s *Service) QueryLatestFromInflux(ctx context.Context, minutes int) ([]model.HeatReading, error) {
	if s.queryAPI == nil {
		return nil, errors.New("query api unavailable")
	}
	res, err := s.queryAPI.Query(ctx, latestFlux(s.bucket, minutes))
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Close() }()

	byHead := map[string]*model.HeatReading{}
	for res.Next() {
		rec := res.Record()
		zone, _ := rec.ValueByKey("zone_id").(string)
		head, _ := rec.ValueByKey("head_id").(string)
		if zone == "" || head == "" {
			continue
		}
		key := zone + "|" + head
		r := byHead[key]
		if r == nil {
			r = &model.HeatReading{ZoneID: zone, HeadID: head, Aggregated: true}
			byHead[key] = r
		}
		val, _ := rec.Value().(float64)
		switch rec.Field() {
		case "heat_f":
			r.HeatF = val
		case "burn_s":
			r.BurnS = val
		}
		if rec.Time().After(r.Timestamp) {
			r.Timestamp = rec.Time()
		}
	}
	if res.Err() != nil {
		return nil, res.Err()
	}

	out := make([]model.HeatReading, 0, len(byHead))
	for _, r := range byHead {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ZoneID != out[j].ZoneID {
			return out[i].ZoneID < out[j].ZoneID
		}
		return out[i].HeadID < out[j].HeadID
	})
	return out, nil
}

func sanitizeMeasurement(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z',
			r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9',
			r == '_', r == ':', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
