package controller

import (
	"sync"
	"testing"
	"time"
)

var testStart = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

// fakeClock drives scheduled transitions deterministically. advance moves
// time forward and fires due timers in deadline order.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

type fakeTimer struct {
	clk     *fakeClock
	due     time.Time
	f       func()
	stopped bool
	fired   bool
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: testStart}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clk: c, due: c.now.Add(d), f: f}
	c.timers = append(c.timers, t)
	return t
}

func (t *fakeTimer) Stop() bool {
	t.clk.mu.Lock()
	defer t.clk.mu.Unlock()
	live := !t.stopped && !t.fired
	t.stopped = true
	return live
}

func (c *fakeClock) advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	for {
		var next *fakeTimer
		for _, t := range c.timers {
			if t.stopped || t.fired || t.due.After(c.now) {
				continue
			}
			if next == nil || t.due.Before(next.due) {
				next = t
			}
		}
		if next == nil {
			break
		}
		next.fired = true
		f := next.f
		// Timer callbacks take the controller lock and may arm new timers;
		// run them with the clock lock released.
		c.mu.Unlock()
		f()
		c.mu.Lock()
	}
	c.mu.Unlock()
}

func newTestController(clk *fakeClock, sink *[]Transition) *Controller {
	cfg := Config{Clock: clk}
	if sink != nil {
		cfg.OnTransition = func(tr Transition) { *sink = append(*sink, tr) }
	}
	return New(cfg)
}

func TestStartsInStandby(t *testing.T) {
	c := newTestController(newFakeClock(), nil)
	snap := c.Status()
	if snap.State != StateStandby {
		t.Fatalf("expected %s, got %s", StateStandby, snap.State)
	}
	if snap.Pressure != 0 {
		t.Errorf("expected zero pressure at start, got %v", snap.Pressure)
	}
}

func TestQuietRoomStaysStandby(t *testing.T) {
	c := newTestController(newFakeClock(), nil)
	c.SetHeat(90)
	c.SetDuration(30)
	snap := c.Status()
	if snap.State != StateStandby {
		t.Fatalf("expected %s, got %s", StateStandby, snap.State)
	}
	if snap.Pressure != 0 {
		t.Errorf("expected pressure 0, got %v", snap.Pressure)
	}
}

func TestWarningBandIsAdvisoryAndReversible(t *testing.T) {
	c := newTestController(newFakeClock(), nil)
	c.SetDuration(5)
	c.SetHeat(145)
	if got := c.Status().State; got != StateWarning {
		t.Fatalf("expected %s at 145 °F with burn in progress, got %s", StateWarning, got)
	}
	c.SetHeat(100)
	if got := c.Status().State; got != StateStandby {
		t.Fatalf("expected fall back to %s, got %s", StateStandby, got)
	}
}

func TestWarningNeedsBurnInProgress(t *testing.T) {
	c := newTestController(newFakeClock(), nil)
	c.SetHeat(145)
	if got := c.Status().State; got != StateStandby {
		t.Fatalf("expected %s with zero burn duration, got %s", StateStandby, got)
	}
}

func TestTriggerLatchesActive(t *testing.T) {
	c := newTestController(newFakeClock(), nil)
	c.SetDuration(10)
	c.SetHeat(160)
	snap := c.Status()
	if snap.State != StateActive {
		t.Fatalf("expected %s immediately at 160 °F, got %s", StateActive, snap.State)
	}
	if snap.Pressure <= 60 {
		t.Errorf("expected pressure above 60, got %v", snap.Pressure)
	}
	if snap.Episodes != 1 {
		t.Errorf("expected 1 episode, got %d", snap.Episodes)
	}

	// Cooling below the threshold must not demote a latched episode.
	c.SetHeat(100)
	if got := c.Status().State; got != StateActive {
		t.Fatalf("expected %s to stay latched, got %s", StateActive, got)
	}
}

func TestBurstDelayThenSpray(t *testing.T) {
	clk := newFakeClock()
	c := newTestController(clk, nil)
	c.SetDuration(10)
	c.SetHeat(160)

	snap := c.Status()
	if snap.PendingState != StateSpraying {
		t.Fatalf("expected pending %s, got %q", StateSpraying, snap.PendingState)
	}
	if want := testStart.Add(500 * time.Millisecond); !snap.PendingAt.Equal(want) {
		t.Errorf("expected pending at %v, got %v", want, snap.PendingAt)
	}

	clk.advance(499 * time.Millisecond)
	if got := c.Status().State; got != StateActive {
		t.Fatalf("expected %s before the burst delay elapses, got %s", StateActive, got)
	}

	clk.advance(1 * time.Millisecond)
	snap = c.Status()
	if snap.State != StateSpraying {
		t.Fatalf("expected %s after 500ms, got %s", StateSpraying, snap.State)
	}
	if snap.SprayFor <= 0 {
		t.Errorf("expected a positive spray length, got %v", snap.SprayFor)
	}
	if snap.SprayLeft <= 0 || snap.SprayLeft > snap.SprayFor {
		t.Errorf("expected spray countdown within (0,%v], got %v", snap.SprayFor, snap.SprayLeft)
	}
}

func TestSprayExpiryEndsEpisode(t *testing.T) {
	clk := newFakeClock()
	c := newTestController(clk, nil)
	c.SetDuration(10)
	c.SetHeat(160)
	clk.advance(500 * time.Millisecond)

	sprayFor := c.Status().SprayFor
	clk.advance(sprayFor)

	snap := c.Status()
	if snap.State != StateStandby {
		t.Fatalf("expected %s after spray expiry, got %s", StateStandby, snap.State)
	}
	if snap.Pressure != 0 {
		t.Errorf("expected pressure reset to 0, got %v", snap.Pressure)
	}
	if snap.Heat != 70 || snap.Duration != 0 {
		t.Errorf("expected inputs back at baseline, got heat=%v duration=%v", snap.Heat, snap.Duration)
	}
	if snap.Sprays != 1 {
		t.Errorf("expected 1 completed spray, got %d", snap.Sprays)
	}
	if snap.PendingState != "" {
		t.Errorf("expected no pending transition, got %q", snap.PendingState)
	}
}

func TestSprayLengthScalesWithHeatAndPressure(t *testing.T) {
	clk := newFakeClock()
	c := newTestController(clk, nil)
	c.SetDuration(60)
	c.SetHeat(300)
	clk.advance(500 * time.Millisecond)

	snap := c.Status()
	if snap.State != StateSpraying {
		t.Fatalf("expected %s, got %s", StateSpraying, snap.State)
	}
	// 5 s base × 3.9 heat term × 1.5 pressure term.
	want := 29250 * time.Millisecond
	diff := snap.SprayFor - want
	if diff < -time.Microsecond || diff > time.Microsecond {
		t.Errorf("expected spray length ≈%v, got %v", want, snap.SprayFor)
	}
}

func TestSprayUsesInputsAtBurstCompletion(t *testing.T) {
	clk := newFakeClock()
	c := newTestController(clk, nil)
	c.SetDuration(10)
	c.SetHeat(160)

	c.SetHeat(300) // escalates during the burst delay
	clk.advance(500 * time.Millisecond)

	snap := c.Status()
	if snap.State != StateSpraying {
		t.Fatalf("expected %s, got %s", StateSpraying, snap.State)
	}
	// The heat term must reflect 300 °F, so the spray runs well past the
	// length a 160 °F burst would earn (at most 5s × 1.1 × 1.5 = 8.25s).
	if snap.SprayFor <= 10*time.Second {
		t.Errorf("expected spray length scaled for 300 °F, got %v", snap.SprayFor)
	}
}

func TestResetBeforeBurstCancelsSpray(t *testing.T) {
	clk := newFakeClock()
	c := newTestController(clk, nil)
	c.SetDuration(10)
	c.SetHeat(160)
	c.Reset()

	if got := c.Status().State; got != StateStandby {
		t.Fatalf("expected %s right after reset, got %s", StateStandby, got)
	}

	clk.advance(time.Second)
	snap := c.Status()
	if snap.State != StateStandby {
		t.Fatalf("expected no spray after reset, got %s", snap.State)
	}
	if snap.Sprays != 0 {
		t.Errorf("expected no completed sprays, got %d", snap.Sprays)
	}
}

func TestResetDuringSpray(t *testing.T) {
	clk := newFakeClock()
	c := newTestController(clk, nil)
	c.SetDuration(10)
	c.SetHeat(160)
	clk.advance(500 * time.Millisecond)
	if got := c.Status().State; got != StateSpraying {
		t.Fatalf("expected %s, got %s", StateSpraying, got)
	}

	c.Reset()
	snap := c.Status()
	if snap.State != StateStandby {
		t.Fatalf("expected %s, got %s", StateStandby, snap.State)
	}
	if snap.Pressure != 0 || snap.Heat != 70 {
		t.Errorf("expected baseline after reset, got pressure=%v heat=%v", snap.Pressure, snap.Heat)
	}

	// The spray deadline timer must be dead: nothing fires later.
	var after []Transition
	c.cfg.OnTransition = func(tr Transition) { after = append(after, tr) }
	clk.advance(time.Minute)
	if len(after) != 0 {
		t.Errorf("expected no transitions after reset, got %d", len(after))
	}
}

func TestResetIsIdempotent(t *testing.T) {
	var seen []Transition
	c := newTestController(newFakeClock(), &seen)
	c.Reset()
	c.Reset()
	if len(seen) != 0 {
		t.Fatalf("expected no transitions from reset in STANDBY, got %d", len(seen))
	}
}

func TestSingleScheduledTransition(t *testing.T) {
	clk := newFakeClock()
	c := newTestController(clk, nil)
	c.SetDuration(10)
	c.SetHeat(160)

	first := c.Status().PendingAt
	c.SetHeat(200) // re-evaluation while latched must not re-arm the timer
	c.SetDuration(30)
	snap := c.Status()
	if !snap.PendingAt.Equal(first) {
		t.Fatalf("expected pending deadline %v to stand, got %v", first, snap.PendingAt)
	}

	clk.mu.Lock()
	live := 0
	for _, tm := range clk.timers {
		if !tm.stopped && !tm.fired {
			live++
		}
	}
	clk.mu.Unlock()
	if live != 1 {
		t.Fatalf("expected exactly one armed timer, got %d", live)
	}
}

func TestTransitionSequenceForFullEpisode(t *testing.T) {
	var seen []Transition
	clk := newFakeClock()
	c := newTestController(clk, &seen)

	c.SetDuration(10)
	c.SetHeat(145) // advisory first
	c.SetHeat(160) // then burst
	clk.advance(500 * time.Millisecond)
	clk.advance(c.Status().SprayFor)

	want := []struct{ from, to State }{
		{StateStandby, StateWarning},
		{StateWarning, StateActive},
		{StateActive, StateSpraying},
		{StateSpraying, StateStandby},
	}
	if len(seen) != len(want) {
		t.Fatalf("expected %d transitions, got %d: %+v", len(want), len(seen), seen)
	}
	for i, w := range want {
		if seen[i].From != w.from || seen[i].To != w.to {
			t.Errorf("transition %d: expected %s→%s, got %s→%s",
				i, w.from, w.to, seen[i].From, seen[i].To)
		}
	}
	if seen[2].Snap.SprayFor <= 0 {
		t.Errorf("expected spraying snapshot to carry the spray length")
	}
}

func TestSnapshotIsIsolated(t *testing.T) {
	c := newTestController(newFakeClock(), nil)
	c.SetDuration(10)
	c.SetHeat(160)

	snap := c.Status()
	snap.HeatDegrees["high"] = -1
	snap.Firing["medium"] = -1

	again := c.Status()
	if again.HeatDegrees["high"] < 0 || again.Firing["medium"] < 0 {
		t.Fatalf("snapshot mutation leaked into controller state")
	}
}

func TestInputsClampNeverError(t *testing.T) {
	c := newTestController(newFakeClock(), nil)
	c.SetHeat(-40)
	c.SetDuration(500)
	snap := c.Status()
	if snap.Heat != 70 {
		t.Errorf("expected heat clamped to 70, got %v", snap.Heat)
	}
	if snap.Duration != 60 {
		t.Errorf("expected duration clamped to 60, got %v", snap.Duration)
	}
}

func TestDominantLabelsInSnapshot(t *testing.T) {
	c := newTestController(newFakeClock(), nil)
	c.SetDuration(30)
	c.SetHeat(90)
	snap := c.Status()
	if snap.DominantHeat != "low" {
		t.Errorf("expected dominant heat low, got %q", snap.DominantHeat)
	}
	if snap.DominantDuration != "medium" {
		t.Errorf("expected dominant duration medium, got %q", snap.DominantDuration)
	}
	if snap.FlowClass != "none" {
		t.Errorf("expected flow class none, got %q", snap.FlowClass)
	}
}
