package persistence

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pyrosim/sprinkler/internal/model"
)

func TestDataLatestServesCache(t *testing.T) {
	svc, _ := newTestService("single")
	for _, r := range []model.HeatReading{
		{ZoneID: "zone2", HeadID: "head3", HeatF: 95, BurnS: 10, Aggregated: true, Timestamp: time.Now()},
		{ZoneID: "zone1", HeadID: "head1", HeatF: 180, BurnS: 33, Aggregated: true, Timestamp: time.Now()},
	} {
		if err := feed(t, svc, r); err != nil {
			t.Fatalf("feed: %v", err)
		}
	}

	mux := NewHTTPMux(svc)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/data/latest?source=cache", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if src := rec.Header().Get("X-Data-Source"); src != "cache" {
		t.Fatalf("X-Data-Source = %q, want cache", src)
	}
	var out []modelReading
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("got %d readings, want 2", len(out))
	}
	if out[0].ZoneID != "zone1" || out[1].ZoneID != "zone2" {
		t.Fatalf("order = %s, %s", out[0].ZoneID, out[1].ZoneID)
	}
	if _, err := time.Parse(time.RFC3339, out[0].Timestamp); err != nil {
		t.Errorf("timestamp %q not RFC3339: %v", out[0].Timestamp, err)
	}
}

func TestDataLatestAutoFallsBackWithoutInflux(t *testing.T) {
	svc, _ := newTestService("single")
	if err := feed(t, svc, model.HeatReading{
		ZoneID: "zone1", HeadID: "head1", HeatF: 120, Timestamp: time.Now(),
	}); err != nil {
		t.Fatalf("feed: %v", err)
	}

	mux := NewHTTPMux(svc)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/data/latest", nil))

	if src := rec.Header().Get("X-Data-Source"); src != "cache" {
		t.Fatalf("X-Data-Source = %q, want cache fallback", src)
	}
	var out []modelReading
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out) != 1 || out[0].HeatF != 120 {
		t.Fatalf("out = %+v", out)
	}
}

func TestPersistenceHealthz(t *testing.T) {
	svc, _ := newTestService("single")
	rec := httptest.NewRecorder()
	NewHTTPMux(svc).ServeHTTP(rec, httptest.NewRequest("GET", "/healthz", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("healthz = %d %q", rec.Code, rec.Body.String())
	}
}
