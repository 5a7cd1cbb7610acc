package main

import (
	"context"
	"encoding/json"
	"log"
	"net"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"google.golang.org/grpc"

	pb "github.com/pyrosim/sprinkler/grpc/gen/go/suppression"
	"github.com/pyrosim/sprinkler/internal/model"
	"github.com/pyrosim/sprinkler/internal/model/entities"
	"github.com/pyrosim/sprinkler/internal/services/head"
	"github.com/pyrosim/sprinkler/pkg/mqttbus"
)

func mustEnv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	if def != "" {
		return def
	}
	log.Fatalf("missing required env %s", k)
	return ""
}

func main() {
	// ---- ENV ----
	host := mustEnv("MQTT_HOST", "localhost")
	portStr := mustEnv("MQTT_PORT", "1883")
	user := mustEnv("MQTT_USER", "guest")
	pass := mustEnv("MQTT_PASSWORD", "guest")
	clientID := mustEnv("MQTT_CLIENTID", "head-service")
	grpcPort := mustEnv("GRPC_PORT", "50051")
	zonesPath := mustEnv("ZONES_CONFIG_PATH", "/app/config/zones-config.json")

	topicTmpl := mustEnv("EVENT_STATECHANGE_TEMPLATE", "event/StateChange/{zone}/{head}")
	resultTmpl := mustEnv("EVENT_SPRAYRESULT_TEMPLATE", "event/sprayResult/{zone}/{head}")
	heatSub := mustEnv("HEAT_SUB_TOPIC", "sensor/heat/+/+")

	port, err := strconv.Atoi(strings.TrimSpace(portStr))
	if err != nil {
		log.Fatalf("invalid MQTT_PORT: %v", err)
	}
	fuseF, err := strconv.ParseFloat(mustEnv("HEAT_FUSE_F", "320"), 64)
	if err != nil {
		log.Fatalf("invalid HEAT_FUSE_F: %v", err)
	}
	livenessS, _ := strconv.Atoi(mustEnv("LIVENESS_TTL_S", "15"))
	graceS, _ := strconv.Atoi(mustEnv("OFFLINE_GRACE_S", "2"))

	// ---- zones config: zone -> heads ----
	raw, err := os.ReadFile(zonesPath)
	if err != nil {
		log.Fatalf("read zones config: %v", err)
	}
	var cfg map[string]struct {
		AreaType string                   `json:"area_type"`
		Hazard   model.HazardClass        `json:"hazard"`
		Policy   *model.SuppressionPolicy `json:"policy"`
		Heads    []model.Head             `json:"heads"`
	}
	if err := json.Unmarshal(raw, &cfg); err != nil {
		log.Fatalf("unmarshal zones config: %v", err)
	}
	zones := make(map[string]*model.Zone)
	for zid, rec := range cfg {
		z := &model.Zone{ID: zid, AreaType: rec.AreaType, Hazard: rec.Hazard, Policy: rec.Policy, Heads: rec.Heads}
		if z.Hazard == "" {
			z.Hazard = entities.HazardOrdinary
		}
		for i := range z.Heads {
			z.Heads[i].ZoneID = zid
			z.Heads[i].State = model.HeadStandby
		}
		zones[zid] = z
	}

	// ---- MQTT ----
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client, err := mqttbus.NewConn(&mqttbus.Config{
		Host: host, Port: port, User: user, Password: pass, ClientID: clientID,
	}, ctx)
	if err != nil {
		log.Fatalf("MQTT connect error: %v", err)
	}

	publisherFactory := func(topic string) mqttbus.IPublisher {
		return mqttbus.NewPublisher(client, topic)
	}

	// ---- gRPC server ----
	handler := head.NewGrpcHandler(publisherFactory, topicTmpl, zones)
	handler.SetResultTopicTemplate(resultTmpl)
	handler.SetLiveness(time.Duration(livenessS)*time.Second, time.Duration(graceS)*time.Second)

	addr := ":" + grpcPort
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		log.Fatalf("listen %s: %v", addr, err)
	}
	grpcServer := grpc.NewServer()
	pb.RegisterHeadServiceServer(grpcServer, handler)

	go func() {
		log.Printf("HeadService gRPC %s; state template '%s'; heat sub '%s'", addr, topicTmpl, heatSub)
		if err := grpcServer.Serve(lis); err != nil {
			log.Fatalf("gRPC serve error: %v", err)
		}
	}()

	// ---- raw heat feed: liveness + thermal fuse ----
	svc := head.NewHeadService(mqttbus.NewConsumer(client, heatSub, nil), handler, fuseF)
	go svc.Start(ctx)

	// ---- graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM)
	<-sigc
	log.Println("shutting down...")
	grpcServer.GracefulStop()
	cancel()
	time.Sleep(300 * time.Millisecond)
}
