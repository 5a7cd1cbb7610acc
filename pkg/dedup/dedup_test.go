package dedup

import (
	"fmt"
	"testing"
	"time"
)

func TestSeenCollapsesRepeats(t *testing.T) {
	d := New(time.Minute, 100)
	if d.Seen("a") {
		t.Fatalf("expected first sighting to pass")
	}
	if !d.Seen("a") {
		t.Fatalf("expected repeat inside the window to be dropped")
	}
	if d.Seen("b") {
		t.Fatalf("expected unrelated id to pass")
	}
}

func TestSeenExpiresAfterTTL(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	d := New(time.Minute, 100)
	d.now = func() time.Time { return now }

	if d.Seen("a") {
		t.Fatalf("expected first sighting to pass")
	}
	now = now.Add(61 * time.Second)
	if d.Seen("a") {
		t.Fatalf("expected sighting after TTL to pass again")
	}
}

func TestEmptyIDNeverDeduplicated(t *testing.T) {
	d := New(time.Minute, 100)
	if d.Seen("") || d.Seen("") {
		t.Fatalf("expected empty ids to always pass")
	}
}

func TestCapBoundsMemory(t *testing.T) {
	d := New(time.Hour, 10)
	for i := 0; i < 100; i++ {
		d.Seen(fmt.Sprintf("id-%d", i))
	}
	d.mu.Lock()
	n := len(d.seen)
	d.mu.Unlock()
	if n > 11 {
		t.Fatalf("expected the map to stay near its cap of 10, got %d", n)
	}
}

func TestFingerprintStable(t *testing.T) {
	a := Fingerprint([]byte(`{"zone_id":"z1"}`))
	b := Fingerprint([]byte(`{"zone_id":"z1"}`))
	c := Fingerprint([]byte(`{"zone_id":"z2"}`))
	if a != b {
		t.Errorf("expected identical payloads to share a fingerprint")
	}
	if a == c {
		t.Errorf("expected different payloads to differ")
	}
	if len(a) != 64 {
		t.Errorf("expected sha256 hex length 64, got %d", len(a))
	}
}
