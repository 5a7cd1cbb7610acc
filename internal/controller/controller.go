// Package controller holds the sprinkler trigger state machine. It wraps the
// fuzzy engine with the thermal-bulb law: WARNING in the advisory band,
// ACTIVE latched at the trigger threshold, a burst delay before water, and a
// scaled spray that runs to its deadline unless reset. All timing goes
// through an injectable clock and at most one scheduled transition is armed
// at any moment.
package controller

import (
	"math"
	"sync"
	"time"

	"github.com/pyrosim/sprinkler/internal/fuzzy"
)

// State of one sprinkler head.
type State string

const (
	StateStandby  State = "STANDBY"
	StateWarning  State = "WARNING"
	StateActive   State = "ACTIVE"
	StateSpraying State = "SPRAYING"
)

const (
	DefaultWarnThreshold    = 140.0
	DefaultTriggerThreshold = 155.0
	DefaultBurstDelay       = 500 * time.Millisecond
	DefaultBaseSpray        = 5 * time.Second
)

// Transition reports one state change to the OnTransition callback.
type Transition struct {
	From State
	To   State
	At   time.Time
	Snap Snapshot
}

// Config tunes one controller. Zero values take the defaults above.
type Config struct {
	WarnThreshold    float64       // °F, advisory band floor (burn in progress required)
	TriggerThreshold float64       // °F, bulb burst point (burn in progress required)
	BurstDelay       time.Duration // bulb burst to water-on
	BaseSpray        time.Duration // nominal spray length before scaling

	Clock        Clock            // nil means real time
	OnTransition func(Transition) // invoked after the lock is released
}

func (c Config) withDefaults() Config {
	if c.WarnThreshold == 0 {
		c.WarnThreshold = DefaultWarnThreshold
	}
	if c.TriggerThreshold == 0 {
		c.TriggerThreshold = DefaultTriggerThreshold
	}
	if c.BurstDelay == 0 {
		c.BurstDelay = DefaultBurstDelay
	}
	if c.BaseSpray == 0 {
		c.BaseSpray = DefaultBaseSpray
	}
	if c.Clock == nil {
		c.Clock = realClock{}
	}
	return c
}

// scheduled is the single pending timed transition.
type scheduled struct {
	timer Timer
	to    State
	due   time.Time
}

// Controller is safe for concurrent use. Inputs clamp into domain and never
// raise errors; pressure is always derived, never set.
type Controller struct {
	mu  sync.Mutex
	cfg Config
	clk Clock
	eng *fuzzy.Engine

	heat     float64
	duration float64
	state    State
	last     fuzzy.Result

	pending *scheduled

	sprayFor   time.Duration
	sprayUntil time.Time

	episodes  uint64
	sprays    uint64
	updatedAt time.Time

	queued []Transition
}

func New(cfg Config) *Controller {
	cfg = cfg.withDefaults()
	c := &Controller{
		cfg:      cfg,
		clk:      cfg.Clock,
		eng:      fuzzy.New(),
		heat:     fuzzy.HeatMin,
		duration: fuzzy.DurationMin,
		state:    StateStandby,
	}
	c.last = c.eng.Evaluate(c.heat, c.duration)
	c.updatedAt = c.clk.Now()
	return c
}

// SetHeat updates the heat input (clamped to 70..300 °F) and re-evaluates.
func (c *Controller) SetHeat(v float64) {
	c.mu.Lock()
	c.heat = clampf(v, fuzzy.HeatMin, fuzzy.HeatMax)
	c.evaluateLocked()
	fired := c.takeLocked()
	c.mu.Unlock()
	c.emit(fired)
}

// SetDuration updates the burn duration input (clamped to 0..60 s) and
// re-evaluates.
func (c *Controller) SetDuration(v float64) {
	c.mu.Lock()
	c.duration = clampf(v, fuzzy.DurationMin, fuzzy.DurationMax)
	c.evaluateLocked()
	fired := c.takeLocked()
	c.mu.Unlock()
	c.emit(fired)
}

// Reset cancels any pending scheduled transition, returns the inputs to
// baseline and lands in STANDBY with zero pressure. Idempotent, callable
// from any state including mid-spray.
func (c *Controller) Reset() {
	c.mu.Lock()
	c.cancelPendingLocked()
	c.clearEpisodeLocked()
	c.toLocked(StateStandby)
	fired := c.takeLocked()
	c.mu.Unlock()
	c.emit(fired)
}

// Status returns a consistent snapshot; maps are copies.
func (c *Controller) Status() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// evaluateLocked recomputes pressure and applies the state law. ACTIVE and
// SPRAYING are latched for the episode: input changes never demote them and
// never re-arm the pending timer.
func (c *Controller) evaluateLocked() {
	c.last = c.eng.Evaluate(c.heat, c.duration)
	c.updatedAt = c.clk.Now()

	switch c.state {
	case StateActive, StateSpraying:
		return
	}

	switch {
	case c.heat >= c.cfg.TriggerThreshold && c.duration > 0:
		c.episodes++
		c.toLocked(StateActive)
		c.scheduleLocked(StateSpraying, c.cfg.BurstDelay)
	case c.heat >= c.cfg.WarnThreshold && c.duration > 0:
		c.toLocked(StateWarning)
	default:
		c.toLocked(StateStandby)
	}
}

// scheduleLocked arms the single pending transition, stopping any previous
// timer first so two schedules can never coexist.
func (c *Controller) scheduleLocked(to State, d time.Duration) {
	c.cancelPendingLocked()
	s := &scheduled{to: to, due: c.clk.Now().Add(d)}
	s.timer = c.clk.AfterFunc(d, func() { c.fire(s) })
	c.pending = s
}

func (c *Controller) cancelPendingLocked() {
	if c.pending != nil {
		c.pending.timer.Stop()
		c.pending = nil
	}
}

// fire runs in the timer goroutine when a scheduled transition comes due.
func (c *Controller) fire(s *scheduled) {
	c.mu.Lock()
	if c.pending != s {
		// Stopped or superseded while the callback was in flight.
		c.mu.Unlock()
		return
	}
	c.pending = nil
	switch s.to {
	case StateSpraying:
		c.beginSprayLocked()
	case StateStandby:
		c.finishSprayLocked()
	}
	fired := c.takeLocked()
	c.mu.Unlock()
	c.emit(fired)
}

// beginSprayLocked opens the water using the inputs as they stand at burst
// completion, then schedules the spray deadline.
func (c *Controller) beginSprayLocked() {
	c.sprayFor = c.sprayLengthLocked()
	c.updatedAt = c.clk.Now()
	c.sprayUntil = c.updatedAt.Add(c.sprayFor)
	c.toLocked(StateSpraying)
	c.scheduleLocked(StateStandby, c.sprayFor)
}

// finishSprayLocked ends the episode: the fire is considered knocked down,
// inputs return to baseline and pressure recomputes to zero.
func (c *Controller) finishSprayLocked() {
	c.sprays++
	c.clearEpisodeLocked()
	c.toLocked(StateStandby)
}

func (c *Controller) clearEpisodeLocked() {
	c.heat = fuzzy.HeatMin
	c.duration = fuzzy.DurationMin
	c.last = c.eng.Evaluate(c.heat, c.duration)
	c.sprayFor = 0
	c.sprayUntil = time.Time{}
	c.updatedAt = c.clk.Now()
}

// sprayLengthLocked scales the base spray: the heat term grows linearly
// from 1.0 at the trigger threshold to 3.9 at 300 °F, the pressure term
// spans 0.5..1.5.
func (c *Controller) sprayLengthLocked() time.Duration {
	h := clampf(c.heat, c.cfg.TriggerThreshold, fuzzy.HeatMax)
	heatMul := 1 + (h-c.cfg.TriggerThreshold)/50
	outMul := 0.5 + c.last.Pressure/100
	return time.Duration(float64(c.cfg.BaseSpray) * heatMul * outMul)
}

func (c *Controller) toLocked(next State) {
	if c.state == next {
		return
	}
	prev := c.state
	c.state = next
	c.queued = append(c.queued, Transition{
		From: prev,
		To:   next,
		At:   c.updatedAt,
		Snap: c.snapshotLocked(),
	})
}

func (c *Controller) takeLocked() []Transition {
	out := c.queued
	c.queued = nil
	return out
}

// emit delivers queued transitions outside the lock so the callback may call
// back into the controller.
func (c *Controller) emit(trs []Transition) {
	if c.cfg.OnTransition == nil {
		return
	}
	for _, tr := range trs {
		c.cfg.OnTransition(tr)
	}
}

func clampf(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func roundPct(p float64) int {
	return int(math.Round(p))
}
