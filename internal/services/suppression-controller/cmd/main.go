package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	controller "github.com/pyrosim/sprinkler/internal/services/suppression-controller"
	"github.com/pyrosim/sprinkler/pkg/mqttbus"
)

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// MQTT
	host := env("MQTT_HOST", "localhost")
	port := envInt("MQTT_PORT", 1883)
	user := env("MQTT_USER", "guest")
	pass := env("MQTT_PASSWORD", "guest")
	clientID := fmt.Sprintf("SuppressionController-%s", env("HOSTNAME", "local"))

	cfg := &mqttbus.Config{Host: host, Port: port, User: user, Password: pass, ClientID: clientID}
	mqClient, err := mqttbus.NewConn(cfg, ctx)
	if err != nil {
		log.Fatalf("MQTT connect failed: %v", err)
	}

	aggregatedSub := env("AGGREGATED_SUB_TOPIC", "sensor/aggregated/#")
	resultSub := env("SPRAY_RESULT_SUB", "event/sprayResult/#")

	consumer := mqttbus.NewConsumer(mqClient, aggregatedSub, nil)

	// OpenWeather fire danger
	owmKey := env("OWM_API_KEY", "changeme")
	wc := controller.NewOWMClient(owmKey)

	// head routing: zone -> head service endpoint
	mapStr := env("HEAD_GRPC_ADDR_MAP", "zone1=head-node1:50051")
	router, err := controller.NewHeadRouter(ctx, mapStr)
	if err != nil {
		log.Fatalf("head router init: %v", err)
	}
	defer router.Close()

	zonesPath := env("ZONES_CONFIG_PATH", "/app/config/zones-config.json")
	decisionTmpl := env("DECISION_TOPIC_TMPL", "event/suppressionDecision/{zone}")

	metrics := controller.NewMetrics()

	newPublisher := func(topic string) mqttbus.IPublisher {
		return mqttbus.NewPublisher(mqClient, topic)
	}

	svc, err := controller.NewControllerService(consumer, newPublisher, router, wc, zonesPath, decisionTmpl, metrics)
	if err != nil {
		log.Fatalf("controller init: %v", err)
	}

	// sprayResult feedback (qos=1 handled at consumer level)
	resConsumer := mqttbus.NewConsumer(mqClient, resultSub, nil)
	svc.AttachResultConsumer(resConsumer)

	// HTTP: status, per-head operations, metrics
	mux := controller.NewHTTPMux(svc, metrics)
	httpPort := env("HTTP_PORT", "8085")
	srv := &http.Server{
		Addr:              ":" + httpPort,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Printf("controller HTTP listening on :%s", httpPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http server error: %v", err)
		}
	}()

	log.Printf("SuppressionController running. sub=%s routes=%s resultSub=%s", aggregatedSub, mapStr, resultSub)
	svc.Start(ctx)

	shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shCtx)
	log.Println("controller: shutdown complete")
}
