package app

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"sort"
	"strings"
	"time"
)

func (g *Gateway) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(r.Context(), g.cfg.HTTPTimeout)
	defer cancel()

	type res struct {
		key string
		val any
	}
	ch := make(chan res, 3)

	go func() {
		var st StatusReport
		if err := g.controller.GetJSON(ctx, "/status", &st); err != nil {
			g.cfg.Logger.Printf("gateway: controller fetch: %v", err)
		}
		ch <- res{"status", st}
	}()
	go func() {
		var latest []HeadReading
		if err := g.persistence.GetJSON(ctx, "/data/latest", &latest); err != nil {
			g.cfg.Logger.Printf("gateway: persistence fetch: %v", err)
		}
		ch <- res{"readings", latest}
	}()
	go func() {
		sprays, err := g.fetchSprays(ctx)
		if err != nil {
			g.cfg.Logger.Printf("gateway: events fetch: %v (serving cached)", err)
			sprays = g.cachedSprays()
		}
		ch <- res{"sprays", sprays}
	}()

	data := DashboardData{
		Heads:    []HeadStatus{},
		Readings: []HeadReading{},
		Sprays:   []Spray{},
		Danger:   map[string]ZoneDanger{},
		Stats:    map[string]float64{},
	}
	for i := 0; i < 3; i++ {
		rv := <-ch
		switch rv.key {
		case "status":
			if st, ok := rv.val.(StatusReport); ok {
				if st.Heads != nil {
					data.Heads = st.Heads
				}
				if st.Danger != nil {
					data.Danger = st.Danger
				}
			}
		case "readings":
			if l, ok := rv.val.([]HeadReading); ok && l != nil {
				data.Readings = l
			}
		case "sprays":
			if s, ok := rv.val.([]Spray); ok && s != nil {
				data.Sprays = s
			}
		}
	}

	sort.Slice(data.Readings, func(i, j int) bool {
		if data.Readings[i].ZoneID != data.Readings[j].ZoneID {
			return data.Readings[i].ZoneID < data.Readings[j].ZoneID
		}
		return data.Readings[i].HeadID < data.Readings[j].HeadID
	})
	if n := len(data.Readings); n > 0 {
		var sum, maxv float64
		minv := math.MaxFloat64
		for _, s := range data.Readings {
			sum += s.HeatF
			if s.HeatF < minv {
				minv = s.HeatF
			}
			if s.HeatF > maxv {
				maxv = s.HeatF
			}
		}
		data.Stats["mean"] = math.Round(sum / float64(n))
		data.Stats["min"] = minv
		data.Stats["max"] = maxv
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(data)

	g.cfg.Logger.Printf("GET /dashboard/data [%dms] cb[ctl]=%v cb[pers]=%v cb[ev]=%v heads=%d readings=%d sprays=%d",
		time.Since(start).Milliseconds(),
		g.controller.BreakerState(), g.persistence.BreakerState(), g.events.BreakerState(),
		len(data.Heads), len(data.Readings), len(data.Sprays))
}

// fetchSprays treats an empty feed as a failure so the caller falls back to
// the last list that had content.
func (g *Gateway) fetchSprays(ctx context.Context) ([]Spray, error) {
	var out []Spray
	if err := g.events.GetJSON(ctx, "/events/sprays/latest", &out); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, errors.New("empty spray feed")
	}
	g.mu.Lock()
	g.lastGoodSprays = out
	g.mu.Unlock()
	return out, nil
}

func (g *Gateway) cachedSprays() []Spray {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]Spray(nil), g.lastGoodSprays...)
}

// HandleStatus proxies the controller's full status report unchanged.
func (g *Gateway) HandleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), g.cfg.HTTPTimeout)
	defer cancel()

	var raw json.RawMessage
	if err := g.controller.GetJSON(ctx, "/status", &raw); err != nil {
		writeGatewayErr(w, err)
		return
	}
	if raw == nil {
		writeGatewayErr(w, errors.New("controller upstream not configured"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(raw)
}

// HandleControl forwards POST /controls/{zone}/{head}/{op} to the
// controller's head operations. Only the three ops the controller exposes
// pass through; everything else dies here.
func (g *Gateway) HandleControl(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/controls/"), "/")
	parts := strings.Split(rest, "/")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" {
		http.Error(w, "want /controls/{zone}/{head}/{op}", http.StatusNotFound)
		return
	}
	op := parts[2]
	switch op {
	case "heat", "duration", "reset":
	default:
		http.Error(w, "unknown op", http.StatusNotFound)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), g.cfg.HTTPTimeout)
	defer cancel()

	body := http.MaxBytesReader(w, r.Body, 1<<20)
	status, respBody, err := g.controller.Forward(ctx, http.MethodPost,
		"/heads/"+parts[0]+"/"+parts[1]+"/"+op, r.Header.Get("Content-Type"), body)
	if err != nil {
		writeGatewayErr(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(respBody)
}

func writeGatewayErr(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadGateway)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
