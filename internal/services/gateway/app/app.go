package app

import (
	"log"
	"sync"
	"time"

	"github.com/sony/gobreaker"
)

type Config struct {
	ControllerBaseURL  string
	PersistenceBaseURL string
	EventsBaseURL      string
	HTTPTimeout        time.Duration

	BreakerFailures int
	BreakerOpenFor  time.Duration
	BreakerInterval time.Duration

	Logger *log.Logger
}

// Gateway fronts the suppression controller, the persistence store and the
// event store behind one dashboard surface. Each upstream gets its own
// breaker so a dead store cannot stall head control.
type Gateway struct {
	cfg         Config
	controller  *Upstream
	persistence *Upstream
	events      *Upstream

	mu             sync.Mutex
	lastGoodSprays []Spray
}

func NewGateway(cfg Config) *Gateway {
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	mk := func(name string) *gobreaker.CircuitBreaker {
		return NewBreaker(name, cfg.BreakerFailures, cfg.BreakerOpenFor, cfg.BreakerInterval)
	}
	return &Gateway{
		cfg:         cfg,
		controller:  NewUpstream("controller", cfg.ControllerBaseURL, cfg.HTTPTimeout, mk("suppression-controller")),
		persistence: NewUpstream("persistence", cfg.PersistenceBaseURL, cfg.HTTPTimeout, mk("persistence-service")),
		events:      NewUpstream("events", cfg.EventsBaseURL, cfg.HTTPTimeout, mk("event-service")),
	}
}
