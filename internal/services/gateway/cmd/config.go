package main

import (
	"os"
	"strconv"
)

type Config struct {
	Port      string
	TimeoutMs int

	ControllerURL  string // e.g. http://suppression-controller:8085
	PersistenceURL string // e.g. http://persistence:8084
	EventURL       string // e.g. http://event-service:8086

	CBFails      int
	CBOpenMs     int
	CBIntervalMs int
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}
func getenvInt(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

func loadConfig() Config {
	return Config{
		Port:      getenv("PORT", "5009"),
		TimeoutMs: getenvInt("TIMEOUT_MS", 3000),

		ControllerURL:  getenv("CONTROLLER_URL", "http://suppression-controller:8085"),
		PersistenceURL: getenv("PERSISTENCE_URL", "http://persistence:8084"),
		EventURL:       getenv("EVENT_URL", "http://event-service:8086"),

		CBFails:      getenvInt("CB_FAILS", 3),
		CBOpenMs:     getenvInt("CB_OPEN_MS", 10000),
		CBIntervalMs: getenvInt("CB_INTERVAL_MS", 60000),
	}
}
