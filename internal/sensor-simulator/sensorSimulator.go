package sensor_simulator

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/pyrosim/sprinkler/internal/model"
	"github.com/pyrosim/sprinkler/pkg/dedup"
	"github.com/pyrosim/sprinkler/pkg/mqttbus"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

type SensorSimulator struct {
	mu        sync.Mutex
	head      *model.Head
	timer     *time.Timer // single revert timer
	generator *DataGenerator
	publisher mqttbus.IPublisher
	consumer  mqttbus.IConsumer[mqtt.Message]
	deduper   *dedup.Deduper
}

func NewSensorSimulator(consumer mqttbus.IConsumer[mqtt.Message], publisher mqttbus.IPublisher,
	gen *DataGenerator, head *model.Head) *SensorSimulator {
	return &SensorSimulator{
		head:      head,
		generator: gen,
		publisher: publisher,
		consumer:  consumer,
		deduper:   dedup.New(2*time.Minute, 10000),
	}
}

// Start runs the simulator: it consumes head state changes, optionally
// schedules an ignition, and publishes raw heat readings at a fixed interval
// until ctx is cancelled.
func (s *SensorSimulator) Start(ctx context.Context, interval, igniteAfter time.Duration) {
	s.consumer.SetHandler(s.handleMessage)
	go s.consumer.ConsumeMessage(ctx)

	if igniteAfter > 0 {
		time.AfterFunc(igniteAfter, func() {
			log.Printf("sensor: igniting fire under %s/%s", s.head.ZoneID, s.head.ID)
			s.generator.Ignite()
		})
	}

	for {
		select {
		case <-ctx.Done():
			s.publisher.Close()
			return
		case <-time.After(interval):
			hr, err := s.generator.Next(s.headCopy())
			if err != nil {
				log.Printf("data gen error: %v", err)
				continue
			}
			log.Printf("sensor: pub raw zone=%s head=%s heat=%.1fF burn=%.0fs",
				hr.ZoneID, hr.HeadID, hr.HeatF, hr.BurnS)
			payload, _ := json.Marshal(hr)
			if err := s.publisher.PublishMessage(string(payload)); err != nil {
				log.Printf("publish error: %v", err)
			}
		}
	}
}

// headCopy snapshots the head under the lock so the generator never races
// the revert timer on State.
func (s *SensorSimulator) headCopy() *model.Head {
	s.mu.Lock()
	h := *s.head
	s.mu.Unlock()
	return &h
}

func (s *SensorSimulator) handleMessage(_ string, msg mqtt.Message) error {
	// QoS1 redelivery carries the same payload, so the hash collapses it
	if s.deduper != nil && s.deduper.Seen(dedup.Fingerprint(msg.Payload())) {
		return nil
	}

	var evt model.StateChangeEvent
	if err := json.Unmarshal(msg.Payload(), &evt); err != nil {
		return fmt.Errorf("invalid StateChangeEvent: %w", err)
	}
	if evt.ZoneID != s.head.ZoneID || evt.HeadID != s.head.ID {
		// event for another head
		return nil
	}
	s.applyTimedState(evt)
	return nil
}

func (s *SensorSimulator) applyTimedState(evt model.StateChangeEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}

	prev := s.head.State
	s.head.State = evt.NewState
	log.Printf("sensor: head %s/%s -> %s for %s", s.head.ZoneID, s.head.ID, evt.NewState, evt.Duration)

	// schedule a revert so a lost closing event cannot leave the water on
	if evt.Duration > 0 {
		s.timer = time.AfterFunc(evt.Duration, func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.head.State = prev
			log.Printf("sensor: head %s/%s reverted to %s", s.head.ZoneID, s.head.ID, prev)
			s.timer = nil
		})
	}
}
