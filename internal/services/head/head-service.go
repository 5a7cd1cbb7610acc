package head

import (
	"context"
	"encoding/json"
	"log"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	pb "github.com/pyrosim/sprinkler/grpc/gen/go/suppression"
	"github.com/pyrosim/sprinkler/internal/model"
	"github.com/pyrosim/sprinkler/pkg/mqttbus"
)

// defaultFuseF sits above the fuzzy domain ceiling: a reading this hot means
// the controller either already fired or cannot be waited for.
const defaultFuseF = 320.0

// HeadService watches the raw heat feed of its heads. Every reading is a
// liveness heartbeat; past the thermal fuse the head opens on its own
// through the same path a controller command takes.
type HeadService struct {
	consumer mqttbus.IConsumer[mqtt.Message]
	handler  *GrpcHandler
	fuseF    float64
	fuseMs   int64
}

func NewHeadService(consumer mqttbus.IConsumer[mqtt.Message], handler *GrpcHandler, fuseF float64) *HeadService {
	if fuseF <= 0 {
		fuseF = defaultFuseF
	}
	return &HeadService{
		consumer: consumer,
		handler:  handler,
		fuseF:    fuseF,
		fuseMs:   8000,
	}
}

func (s *HeadService) Start(ctx context.Context) {
	s.consumer.SetHandler(s.messageHandler)
	s.consumer.ConsumeMessage(ctx)
}

func (s *HeadService) messageHandler(_ string, message mqtt.Message) error {
	var hr model.HeatReading
	if err := json.Unmarshal(message.Payload(), &hr); err != nil {
		log.Printf("head: bad heat reading: %v", err)
		return nil
	}
	if hr.ZoneID == "" || hr.HeadID == "" {
		return nil
	}

	s.handler.markSeen(hr.ZoneID, hr.HeadID)

	// thermal fuse: open without a controller round trip. A cycle already
	// running rejects the self-command, so this cannot double-discharge.
	if hr.HeatF >= s.fuseF {
		resp, err := s.handler.StartSpray(context.Background(), &pb.StartRequest{
			ZoneId:      hr.ZoneID,
			HeadId:      hr.HeadID,
			PressurePct: 100,
			DurationMs:  s.fuseMs,
			DecisionId:  "fuse-" + uuid.New().String(),
		})
		if err != nil {
			log.Printf("head: fuse StartSpray error for %s/%s: %v", hr.ZoneID, hr.HeadID, err)
			return nil
		}
		if resp.GetSuccess() {
			log.Printf("head: thermal fuse opened %s/%s at %.1f°F (ticket=%s)",
				hr.ZoneID, hr.HeadID, hr.HeatF, resp.GetTicketId())
		}
	}
	return nil
}
