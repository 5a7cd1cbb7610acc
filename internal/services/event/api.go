package event

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
)

// Spray is one completed discharge, shaped for the gateway.
type Spray struct {
	ZoneID string  `json:"zone_id,omitempty"`
	HeadID string  `json:"head_id,omitempty"`
	Liters float64 `json:"liters"`
	Time   string  `json:"time"` // RFC3339
}

type sprayQueryParams struct {
	Minutes   int
	Limit     int
	TimeoutMS int
}

func parseSprayQuery(r *http.Request, defMin, defLim, defTOms int) sprayQueryParams {
	q := r.URL.Query()
	get := func(k string, def, min, max int) int {
		if v := strings.TrimSpace(q.Get(k)); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				if n < min {
					return min
				}
				if max > 0 && n > max {
					return max
				}
				return n
			}
		}
		return def
	}
	return sprayQueryParams{
		Minutes:   get("minutes", defMin, 1, 7*24*60),
		Limit:     get("limit", defLim, 1, 500),
		TimeoutMS: get("timeout_ms", defTOms, 200, 5000),
	}
}

func buildFlux(bucket string, minutes, limit int) string {
	return fmt.Sprintf(`
from(bucket: %q)
  |> range(start: -%dm)
  |> filter(fn: (r) => r._measurement == "suppression_event" and r.event_type == "spray.result")
  |> filter(fn: (r) => r._field == "liters_applied")
  |> keep(columns: ["_time","_value","zone_id","head_id"])
  |> sort(columns: ["_time"], desc: true)
  |> limit(n:%d)
`, bucket, minutes, limit)
}

func runSprays(w http.ResponseWriter, r *http.Request, influx influxdb2.Client, org, bucket string, defMin, defLim int) {
	p := parseSprayQuery(r, defMin, defLim, 2000)

	ctx, cancel := context.WithTimeout(r.Context(), time.Duration(p.TimeoutMS)*time.Millisecond)
	defer cancel()

	api := influx.QueryAPI(org)
	res, err := api.Query(ctx, buildFlux(bucket, p.Minutes, p.Limit))
	if err != nil {
		// degrade to an empty list rather than a 5xx; the gateway merges this feed
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Error", "influx-query-error")
		_, _ = w.Write([]byte("[]"))
		return
	}
	defer func() { _ = res.Close() }()

	out := make([]Spray, 0, p.Limit)
	for res.Next() {
		rec := res.Record()

		var liters float64
		switch v := rec.Value().(type) {
		case float64:
			liters = v
		case int64:
			liters = float64(v)
		case int:
			liters = float64(v)
		case string:
			if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
				liters = f
			}
		}

		var zoneID, headID string
		if v := rec.ValueByKey("zone_id"); v != nil {
			if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
				zoneID = s
			}
		}
		if v := rec.ValueByKey("head_id"); v != nil {
			if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
				headID = s
			}
		}

		out = append(out, Spray{
			ZoneID: zoneID,
			HeadID: headID,
			Liters: liters,
			Time:   rec.Time().UTC().Format(time.RFC3339),
		})
	}
	if res.Err() != nil {
		w.Header().Set("X-Error", "influx-iter-error")
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}

// NewSprayLatestHandler serves GET /events/sprays/latest?limit=20[&minutes=1440].
func NewSprayLatestHandler(influx influxdb2.Client, org, bucket string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		runSprays(w, r, influx, org, bucket, 1440, 20)
	})
}
