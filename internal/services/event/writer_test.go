package event

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

type fakeWriteAPI struct {
	mu     sync.Mutex
	points []*write.Point
	errs   chan error
}

func newFakeWriteAPI() *fakeWriteAPI { return &fakeWriteAPI{errs: make(chan error, 4)} }

func (f *fakeWriteAPI) WriteRecord(string) {}

func (f *fakeWriteAPI) WritePoint(p *write.Point) {
	f.mu.Lock()
	f.points = append(f.points, p)
	f.mu.Unlock()
}

func (f *fakeWriteAPI) Flush() {}

func (f *fakeWriteAPI) Errors() <-chan error { return f.errs }

func (f *fakeWriteAPI) SetWriteFailedCallback(api.WriteFailedCallback) {}

func (f *fakeWriteAPI) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.points)
}

func TestWriterTracksErrorAge(t *testing.T) {
	fake := newFakeWriteAPI()
	w := NewWriter(fake)

	if age := w.LastErrorAge(); age < time.Hour {
		t.Fatalf("fresh writer error age = %v, want >= 1h", age)
	}

	fake.errs <- errors.New("write failed")
	deadline := time.Now().Add(2 * time.Second)
	for w.LastErrorAge() > time.Second {
		if time.Now().After(deadline) {
			t.Fatal("error listener never recorded the failure")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestWriterForwardsPoints(t *testing.T) {
	fake := newFakeWriteAPI()
	w := NewWriter(fake)

	w.WritePoint(EventToPoint(CommonEvent{
		EventType: "spray.result", Severity: "info", Timestamp: time.Now(),
	}))
	w.WritePoint(nil)

	if n := fake.count(); n != 1 {
		t.Fatalf("forwarded %d points, want 1", n)
	}
}

func TestWriterCountsPerType(t *testing.T) {
	w := NewWriter(newFakeWriteAPI())
	w.MarkIngest("spray.result")
	w.MarkIngest("spray.result")
	w.MarkIngest("head.state_change")
	if c := w.Count("spray.result"); c != 2 {
		t.Fatalf("spray.result count = %d, want 2", c)
	}
	if c := w.Count("suppression.decision"); c != 0 {
		t.Fatalf("unseen type count = %d, want 0", c)
	}
}

func TestNilWriterIsSafe(t *testing.T) {
	var w *Writer
	w.MarkIngest("x")
	w.WritePoint(nil)
	if c := w.Count("x"); c != 0 {
		t.Fatalf("nil writer count = %d", c)
	}
	if age := w.LastErrorAge(); age < time.Hour {
		t.Fatalf("nil writer error age = %v", age)
	}
}
