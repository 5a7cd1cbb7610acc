package app

import (
	"encoding/json"
	"testing"
)

func TestHeadReadingTolerantDecode(t *testing.T) {
	var r HeadReading
	err := json.Unmarshal([]byte(`{
		"zone_id":"zone1","head_id":"head1",
		"heat_f":"212.5","burn_s":40,
		"aggregated":true,
		"timestamp":"2026-08-25T10:00:00Z"
	}`), &r)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if r.HeatF != 212.5 || r.BurnS != 40 {
		t.Errorf("numbers = %v/%v", r.HeatF, r.BurnS)
	}
	if r.Time != "2026-08-25T10:00:00Z" {
		t.Errorf("timestamp alias not picked up: %q", r.Time)
	}
	if !r.Aggregated || r.ZoneID != "zone1" || r.HeadID != "head1" {
		t.Errorf("reading = %+v", r)
	}
}

func TestHeadReadingMissingFieldsStayZero(t *testing.T) {
	var r HeadReading
	if err := json.Unmarshal([]byte(`{"zone_id":"zone1"}`), &r); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if r.HeatF != 0 || r.Time != "" || r.Aggregated {
		t.Errorf("reading = %+v", r)
	}
}

func TestSprayLitersAlias(t *testing.T) {
	var s Spray
	err := json.Unmarshal([]byte(`{
		"zone_id":"zone1","head_id":"head1",
		"liters_applied":9.5,"time":"2026-08-25T10:00:00Z"
	}`), &s)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if s.Liters != 9.5 {
		t.Errorf("liters = %v, want liters_applied honored", s.Liters)
	}

	if err := json.Unmarshal([]byte(`{"liters":3,"timestamp":"2026-08-25T11:00:00Z"}`), &s); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if s.Liters != 3 || s.Time != "2026-08-25T11:00:00Z" {
		t.Errorf("spray = %+v", s)
	}
}

func TestNumFieldPrefersFirstKey(t *testing.T) {
	m := map[string]any{"liters": 1.5, "liters_applied": 9.0}
	if f, ok := numField(m, "liters", "liters_applied"); !ok || f != 1.5 {
		t.Fatalf("numField = %v %v", f, ok)
	}
	if _, ok := numField(m, "absent"); ok {
		t.Fatal("absent key reported present")
	}
	if f, ok := numField(map[string]any{"x": "not-a-number"}, "x"); ok {
		t.Fatalf("garbage string parsed as %v", f)
	}
}
