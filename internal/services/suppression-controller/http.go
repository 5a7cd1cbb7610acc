package suppression_controller

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/pyrosim/sprinkler/internal/controller"
)

// NewHTTPMux serves the controller's REST surface:
//
//	GET  /status                       full report (all heads + zone danger)
//	GET  /heads/{zone}/{head}          one head's snapshot
//	POST /heads/{zone}/{head}/heat     {"heat_f": 212.5}
//	POST /heads/{zone}/{head}/duration {"burn_s": 30}
//	POST /heads/{zone}/{head}/reset
func NewHTTPMux(svc *ControllerService, m *Metrics) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte("ok")) })

	mux.Handle("/status", m.WrapHandler("/status", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, svc.Report())
	})))

	mux.Handle("/heads/", m.WrapHandler("/heads", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		parts := strings.Split(strings.Trim(strings.TrimPrefix(r.URL.Path, "/heads/"), "/"), "/")
		switch {
		case len(parts) == 2 && r.Method == http.MethodGet:
			snap, err := svc.Status(parts[0], parts[1])
			if err != nil {
				writeErr(w, err)
				return
			}
			writeJSON(w, snap)
		case len(parts) == 3 && r.Method == http.MethodPost:
			handleHeadOp(svc, w, r, parts[0], parts[1], parts[2])
		default:
			http.Error(w, "not found", http.StatusNotFound)
		}
	})))

	mux.Handle("/metrics", m.Handler())

	return mux
}

func handleHeadOp(svc *ControllerService, w http.ResponseWriter, r *http.Request, zone, head, op string) {
	var (
		snap controller.Snapshot
		err  error
	)
	switch op {
	case "heat":
		var body struct {
			HeatF float64 `json:"heat_f"`
		}
		if derr := json.NewDecoder(r.Body).Decode(&body); derr != nil {
			http.Error(w, `bad body: want {"heat_f": <number>}`, http.StatusBadRequest)
			return
		}
		snap, err = svc.SetHeat(zone, head, body.HeatF)
	case "duration":
		var body struct {
			BurnS float64 `json:"burn_s"`
		}
		if derr := json.NewDecoder(r.Body).Decode(&body); derr != nil {
			http.Error(w, `bad body: want {"burn_s": <number>}`, http.StatusBadRequest)
			return
		}
		snap, err = svc.SetDuration(zone, head, body.BurnS)
	case "reset":
		snap, err = svc.Reset(zone, head)
	default:
		http.Error(w, "unknown operation "+op, http.StatusNotFound)
		return
	}
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, snap)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	if errors.Is(err, ErrUnknownHead) {
		code = http.StatusNotFound
	}
	http.Error(w, err.Error(), code)
}
