package event

import (
	"testing"
	"time"
)

func TestEventToPointTagsAndFields(t *testing.T) {
	ts := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	p := EventToPoint(CommonEvent{
		EventType:     "spray.result",
		SourceService: "head-service",
		ZoneID:        "zone1",
		HeadID:        "head1",
		Severity:      "info",
		Fields:        map[string]interface{}{"liters_applied": 3.2},
		Timestamp:     ts,
	})
	if p.Name() != "suppression_event" {
		t.Fatalf("measurement = %q", p.Name())
	}
	tags := map[string]string{}
	for _, tag := range p.TagList() {
		tags[tag.Key] = tag.Value
	}
	for k, want := range map[string]string{
		"event_type":     "spray.result",
		"source_service": "head-service",
		"severity":       "info",
		"zone_id":        "zone1",
		"head_id":        "head1",
	} {
		if tags[k] != want {
			t.Errorf("tag %s = %q, want %q", k, tags[k], want)
		}
	}
	fields := map[string]interface{}{}
	for _, f := range p.FieldList() {
		fields[f.Key] = f.Value
	}
	if fields["liters_applied"] != 3.2 {
		t.Errorf("liters_applied = %v", fields["liters_applied"])
	}
	if !p.Time().Equal(ts) {
		t.Errorf("time = %v, want %v", p.Time(), ts)
	}
}

func TestEventToPointOmitsEmptyIDs(t *testing.T) {
	p := EventToPoint(CommonEvent{
		EventType:     "suppression.decision",
		SourceService: "suppression-controller",
		Severity:      "info",
		Timestamp:     time.Now(),
	})
	for _, tag := range p.TagList() {
		if tag.Key == "zone_id" || tag.Key == "head_id" {
			t.Fatalf("unexpected tag %s=%q", tag.Key, tag.Value)
		}
	}
}

func TestEventToPointAddsCountWhenFieldless(t *testing.T) {
	p := EventToPoint(CommonEvent{
		EventType: "head.state_change",
		Severity:  "info",
		Timestamp: time.Now(),
	})
	for _, f := range p.FieldList() {
		if f.Key == "count" {
			if f.Value != int64(1) {
				t.Fatalf("count = %v, want int64(1)", f.Value)
			}
			return
		}
	}
	t.Fatal("count field missing")
}
