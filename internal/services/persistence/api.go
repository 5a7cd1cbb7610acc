package persistence

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/pyrosim/sprinkler/internal/model"
)

// NewHTTPMux exposes the read side of the store.
//
//	GET /data/latest?source=auto|influx|cache&minutes=1440
//
// "auto" tries Influx first and falls back to the in-memory cache; the
// X-Data-Source header names the path that answered.
func NewHTTPMux(svc *Service) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte("ok")) })

	mux.HandleFunc("/data/latest", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		source := strings.ToLower(q.Get("source"))
		if source == "" {
			source = "auto"
		}
		minutes := 60 * 24
		if s := q.Get("minutes"); s != "" {
			if n, err := strconv.Atoi(s); err == nil && n > 0 {
				minutes = n
			}
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		var (
			list []modelReading
			used string
		)
		if source == "influx" || source == "auto" {
			if fromInflux, err := svc.QueryLatestFromInflux(ctx, minutes); err == nil && len(fromInflux) > 0 {
				list = toOut(fromInflux)
				used = "influx"
			}
		}
		if used == "" {
			list = toOut(svc.LatestCache())
			used = "cache"
		}

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Data-Source", used)
		_ = json.NewEncoder(w).Encode(list)
	})

	return mux
}

type modelReading struct {
	ZoneID     string  `json:"zone_id"`
	HeadID     string  `json:"head_id"`
	HeatF      float64 `json:"heat_f"`
	BurnS      float64 `json:"burn_s"`
	Aggregated bool    `json:"aggregated"`
	Timestamp  string  `json:"timestamp"`
}

func toOut(in []model.HeatReading) []modelReading {
	out := make([]modelReading, 0, len(in))
	for _, v := range in {
		out = append(out, modelReading{
			ZoneID: v.ZoneID, HeadID: v.HeadID, HeatF: v.HeatF, BurnS: v.BurnS,
			Aggregated: v.Aggregated, Timestamp: v.Timestamp.UTC().Format(time.RFC3339),
		})
	}
	return out
}
