// Package dedup collapses QoS1 redeliveries: a message's payload fingerprint
// is remembered for a TTL and repeats inside the window are dropped.
package dedup

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"
)

type Deduper struct {
	mu   sync.Mutex
	ttl  time.Duration
	cap  int
	seen map[string]time.Time
	now  func() time.Time
}

func New(ttl time.Duration, cap int) *Deduper {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	if cap <= 0 {
		cap = 10000
	}
	return &Deduper{
		ttl:  ttl,
		cap:  cap,
		seen: make(map[string]time.Time, cap),
		now:  time.Now,
	}
}

// Seen reports whether id was already recorded inside the TTL window, and
// records it either way. An empty id is never deduplicated.
func (d *Deduper) Seen(id string) bool {
	if id == "" {
		return false
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	exp, dup := d.seen[id]
	dup = dup && now.Before(exp)
	d.seen[id] = now.Add(d.ttl)

	if len(d.seen) > d.cap {
		d.sweepLocked(now)
	}
	return dup
}

// sweepLocked drops expired entries first and, if the map is still over
// capacity, arbitrary live ones until it fits.
func (d *Deduper) sweepLocked(now time.Time) {
	for k, exp := range d.seen {
		if now.After(exp) {
			delete(d.seen, k)
		}
	}
	for k := range d.seen {
		if len(d.seen) <= d.cap {
			break
		}
		delete(d.seen, k)
	}
}

// Fingerprint returns the sha256 hex of a payload, the id usually fed to
// Seen. QoS1 redeliveries carry the same payload, so they share one
// fingerprint.
func Fingerprint(payload []byte) string {
	h := sha256.Sum256(payload)
	return hex.EncodeToString(h[:])
}
