package suppression_controller

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pyrosim/sprinkler/internal/controller"
	"github.com/pyrosim/sprinkler/internal/fuzzy"
)

func newTestMux(t *testing.T) (*http.ServeMux, *ControllerService) {
	t.Helper()
	svc, _, _ := newTestService(t)
	return NewHTTPMux(svc, nil), svc
}

func doJSON(t *testing.T, mux *http.ServeMux, method, path, body string) (*httptest.ResponseRecorder, []byte) {
	t.Helper()
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))
	return rec, rec.Body.Bytes()
}

func TestHealthz(t *testing.T) {
	mux, _ := newTestMux(t)
	rec, body := doJSON(t, mux, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK || string(body) != "ok" {
		t.Fatalf("healthz = %d %q, want 200 ok", rec.Code, body)
	}
}

func TestStatusListsAllHeads(t *testing.T) {
	mux, _ := newTestMux(t)
	rec, body := doJSON(t, mux, http.MethodGet, "/status", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status code = %d, want 200", rec.Code)
	}
	var rep StatusReport
	if err := json.Unmarshal(body, &rep); err != nil {
		t.Fatalf("bad status body: %v", err)
	}
	if len(rep.Heads) != 3 {
		t.Fatalf("heads = %d, want 3", len(rep.Heads))
	}
}

func TestStatusRejectsPost(t *testing.T) {
	mux, _ := newTestMux(t)
	rec, _ := doJSON(t, mux, http.MethodPost, "/status", "{}")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("POST /status = %d, want 405", rec.Code)
	}
}

func TestHeadSnapshot(t *testing.T) {
	mux, _ := newTestMux(t)
	rec, body := doJSON(t, mux, http.MethodGet, "/heads/zone1/head1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d, want 200", rec.Code)
	}
	var snap controller.Snapshot
	if err := json.Unmarshal(body, &snap); err != nil {
		t.Fatalf("bad snapshot body: %v", err)
	}
	if snap.State != controller.StateStandby {
		t.Fatalf("state = %s, want STANDBY", snap.State)
	}
}

func TestHeatThenDurationDrivesWarning(t *testing.T) {
	mux, svc := newTestMux(t)

	rec, body := doJSON(t, mux, http.MethodPost, "/heads/zone1/head1/heat", `{"heat_f": 145}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("heat op code = %d: %s", rec.Code, body)
	}
	var snap controller.Snapshot
	if err := json.Unmarshal(body, &snap); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if snap.Heat != 145 {
		t.Fatalf("heat = %.1f, want 145", snap.Heat)
	}
	if snap.State != controller.StateStandby {
		t.Fatalf("state = %s, want STANDBY while no burn is running", snap.State)
	}

	rec, body = doJSON(t, mux, http.MethodPost, "/heads/zone1/head1/duration", `{"burn_s": 20}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("duration op code = %d: %s", rec.Code, body)
	}
	if err := json.Unmarshal(body, &snap); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if snap.State != controller.StateWarning {
		t.Fatalf("state = %s, want WARNING at 145 °F with a live burn", snap.State)
	}

	if got := mustStatus(t, svc, "zone1", "head1").State; got != controller.StateWarning {
		t.Fatalf("service state = %s, want WARNING", got)
	}
}

func TestResetReturnsToBaseline(t *testing.T) {
	mux, _ := newTestMux(t)

	doJSON(t, mux, http.MethodPost, "/heads/zone1/head1/heat", `{"heat_f": 200}`)
	doJSON(t, mux, http.MethodPost, "/heads/zone1/head1/duration", `{"burn_s": 30}`)

	rec, body := doJSON(t, mux, http.MethodPost, "/heads/zone1/head1/reset", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("reset code = %d: %s", rec.Code, body)
	}
	var snap controller.Snapshot
	if err := json.Unmarshal(body, &snap); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if snap.State != controller.StateStandby {
		t.Fatalf("state after reset = %s, want STANDBY", snap.State)
	}
	if snap.Heat != fuzzy.HeatMin || snap.Duration != fuzzy.DurationMin {
		t.Fatalf("inputs after reset = %.1f/%.1f, want baseline %.1f/%.1f",
			snap.Heat, snap.Duration, fuzzy.HeatMin, fuzzy.DurationMin)
	}
	if snap.PressurePct != 0 {
		t.Fatalf("pressure after reset = %d%%, want 0", snap.PressurePct)
	}
}

func TestUnknownHeadIs404(t *testing.T) {
	mux, _ := newTestMux(t)

	rec, _ := doJSON(t, mux, http.MethodGet, "/heads/zone9/head9", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("GET unknown head = %d, want 404", rec.Code)
	}
	rec, _ = doJSON(t, mux, http.MethodPost, "/heads/zone9/head9/heat", `{"heat_f": 100}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("POST unknown head = %d, want 404", rec.Code)
	}
}

func TestBadOpAndBadBody(t *testing.T) {
	mux, _ := newTestMux(t)

	rec, _ := doJSON(t, mux, http.MethodPost, "/heads/zone1/head1/explode", "{}")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown op = %d, want 404", rec.Code)
	}
	rec, _ = doJSON(t, mux, http.MethodPost, "/heads/zone1/head1/heat", "not json")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("garbage body = %d, want 400", rec.Code)
	}
}
