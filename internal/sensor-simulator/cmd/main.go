package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/pyrosim/sprinkler/internal/model/entities"
	sensorSimulator "github.com/pyrosim/sprinkler/internal/sensor-simulator"
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
	// define flags
	zoneID := flag.String("zone-id", "zone1", "zone the head is mounted in")
	headID := flag.String("head-id", "head1", "unique sprinkler head identifier")
	clientID := flag.String("client-id", "heatSensor1", "MQTT client ID")
	interval := flag.Duration("interval", 5*time.Second, "publish interval")
	igniteAfter := flag.Duration("ignite-after", 0, "start a fire this long after boot (0 = never)")
	lat := flag.Float64("lat", 41.9028, "latitude")
	lon := flag.Float64("lon", 12.4964, "longitude")
	ceiling := flag.Float64("ceiling", 3.0, "mounting height [m]")
	flowRate := flag.Float64("flow-rate", 80.0, "discharge rate [l/min]")
	coolRate := flag.Float64("cool-rate", 20.0, "natural cooling [°F/min]")
	flag.Parse()

	cfg := &mqttbus.Config{
		Host:     env("MQTT_HOST", "localhost"),
		Port:     envInt("MQTT_PORT", 1883),
		User:     env("MQTT_USER", "guest"),
		Password: env("MQTT_PASSWORD", "guest"),
		ClientID: *clientID,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := mqttbus.NewConn(cfg, ctx)
	if err != nil {
		log.Fatal(err)
	}

	fill := strings.NewReplacer("{zone}", *zoneID, "{head}", *headID)
	publisher := mqttbus.NewPublisher(client, fill.Replace("sensor/heat/{zone}/{head}"))
	consumer := mqttbus.NewConsumer(client, fill.Replace("event/StateChange/{zone}/{head}"), nil)

	generator := sensorSimulator.NewDataGenerator(*coolRate, os.Getenv("OPENWEATHER_API_KEY"))
	head := entities.Head{
		ZoneID:    *zoneID,
		ID:        *headID,
		Longitude: *lon,
		Latitude:  *lat,
		CeilingM:  *ceiling,
		State:     entities.HeadStandby,
		FlowLpm:   *flowRate,
	}
	generator.SeedFromOpenWeather(ctx, &head)

	sim := sensorSimulator.NewSensorSimulator(consumer, publisher, generator, &head)
	sim.Start(ctx, *interval, *igniteAfter)
}
