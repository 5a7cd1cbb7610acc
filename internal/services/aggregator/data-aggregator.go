package aggregator

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/pyrosim/sprinkler/internal/model/messages"
	"github.com/pyrosim/sprinkler/pkg/mqttbus"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// PublisherFactory builds the per-head publisher for aggregated readings.
type PublisherFactory func(zoneID, headID string) mqttbus.IPublisher

type DataAggregatorService struct {
	consumer            mqttbus.IConsumer[mqtt.Message]
	newPublisher        PublisherFactory
	publishers          map[string]mqttbus.IPublisher
	buffer              map[string][]messages.HeatReading // key is zone/head
	mutex               sync.Mutex
	aggregationInterval time.Duration
}

func NewDataAggregatorService(consumer mqttbus.IConsumer[mqtt.Message], newPublisher PublisherFactory, aggregationInterval time.Duration) *DataAggregatorService {
	return &DataAggregatorService{
		consumer:            consumer,
		newPublisher:        newPublisher,
		publishers:          make(map[string]mqttbus.IPublisher),
		buffer:              make(map[string][]messages.HeatReading),
		aggregationInterval: aggregationInterval,
	}
}

func (d *DataAggregatorService) messageHandler(_ string, message mqtt.Message) error {
	var reading messages.HeatReading
	if err := json.Unmarshal(message.Payload(), &reading); err != nil {
		log.Printf("Error unmarshalling heat reading: %v", err)
		return err
	}
	if reading.Aggregated {
		// never feed our own output back into the window
		return nil
	}

	key := reading.ZoneID + "/" + reading.HeadID
	d.mutex.Lock()
	d.buffer[key] = append(d.buffer[key], reading)
	d.mutex.Unlock()

	log.Printf("Buffered heat reading: zone=%s head=%s heat=%.1fF burn=%.0fs",
		reading.ZoneID, reading.HeadID, reading.HeatF, reading.BurnS)
	return nil
}

func (d *DataAggregatorService) Start(ctx context.Context) {
	d.consumer.SetHandler(d.messageHandler)
	go d.consumer.ConsumeMessage(ctx)

	ticker := time.NewTicker(d.aggregationInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			d.closePublishers()
			return
		case <-ticker.C:
			d.aggregateAndPublish()
		}
	}
}

func (d *DataAggregatorService) aggregateAndPublish() {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	for key, readings := range d.buffer {
		if len(readings) == 0 {
			continue
		}

		// Peak-hold, not average: a window mean would smooth away exactly
		// the heat spike the suppression controller has to react to.
		peak := readings[0]
		for _, r := range readings[1:] {
			if r.HeatF > peak.HeatF {
				peak.HeatF = r.HeatF
			}
			if r.BurnS > peak.BurnS {
				peak.BurnS = r.BurnS
			}
		}

		out := messages.HeatReading{
			ZoneID:     peak.ZoneID,
			HeadID:     peak.HeadID,
			HeatF:      peak.HeatF,
			BurnS:      peak.BurnS,
			Aggregated: true,
			Timestamp:  time.Now().UTC(),
		}

		b, err := json.Marshal(out)
		if err != nil {
			log.Printf("marshal err %v", err)
			continue
		}
		pub := d.publisherFor(key, out.ZoneID, out.HeadID)
		if err := pub.PublishMessage(string(b)); err != nil {
			log.Printf("publish err %v", err)
		} else {
			log.Printf("Published aggregate for %s: heat=%.1fF burn=%.0fs", key, out.HeatF, out.BurnS)
		}

		// reset window
		d.buffer[key] = readings[:0]
	}
}

// publisherFor lazily builds one publisher per head; callers hold the mutex.
func (d *DataAggregatorService) publisherFor(key, zoneID, headID string) mqttbus.IPublisher {
	if pub, ok := d.publishers[key]; ok {
		return pub
	}
	pub := d.newPublisher(zoneID, headID)
	d.publishers[key] = pub
	return pub
}

func (d *DataAggregatorService) closePublishers() {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	for _, pub := range d.publishers {
		pub.Close()
	}
}
