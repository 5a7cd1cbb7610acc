package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/pyrosim/sprinkler/internal/services/aggregator"
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
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func main() {
	cfg := &mqttbus.Config{
		Host:     env("MQTT_HOST", "localhost"),
		Port:     envInt("MQTT_PORT", 1883),
		User:     env("MQTT_USER", "guest"),
		Password: env("MQTT_PASSWORD", "guest"),
		ClientID: env("MQTT_CLIENT_ID", "heatAggregator1"),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := mqttbus.NewConn(cfg, ctx)
	if err != nil {
		log.Fatalf("Failed to connect to MQTT broker: %v", err)
	}

	// raw readings in from every head, one aggregate stream out per head
	consumer := mqttbus.NewConsumer(client, "sensor/heat/+/+", nil)
	newPublisher := func(zoneID, headID string) mqttbus.IPublisher {
		topic := strings.NewReplacer("{zone}", zoneID, "{head}", headID).
			Replace("sensor/aggregated/{zone}/{head}")
		return mqttbus.NewPublisher(client, topic)
	}

	window := time.Duration(envInt("AGG_WINDOW_S", 10)) * time.Second
	svc := aggregator.NewDataAggregatorService(consumer, newPublisher, window)

	log.Println("Heat aggregator service is running...")
	svc.Start(ctx)
}
