package record

import (
	"path/filepath"
	"testing"
	"time"
)

func TestTrace_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.jsonl.zst")

	w, err := NewTraceWriter(path)
	if err != nil {
		t.Fatalf("new writer: %v", err)
	}
	entries := []TraceEntry{
		{Time: time.Unix(100, 0).UTC(), Scenario: "sticky_control", Checkpoint: "one_shot", Values: map[string]float64{"dist": 41.5, "vel": 12.2}},
		{Time: time.Unix(101, 0).UTC(), Scenario: "sticky_control", Checkpoint: "continuous", Values: map[string]float64{"dist": 41.5, "vel": 12.2}},
	}
	for _, e := range entries {
		if err := w.Write(e); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	got, err := ReadTrace(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != len(entries) {
		t.Fatalf("got %d entries, want %d", len(got), len(entries))
	}
	for i := range entries {
		if got[i].Checkpoint != entries[i].Checkpoint || got[i].Values["dist"] != entries[i].Values["dist"] {
			t.Fatalf("entry %d mismatch: %+v vs %+v", i, got[i], entries[i])
		}
	}
}

func TestResults_RecordAndSummary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.db")

	r, err := OpenResults(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer r.Close()

	runID, err := r.BeginRun(time.Now(), "ws://localhost:2000/v1/ws", "Town05_Opt")
	if err != nil {
		t.Fatalf("begin run: %v", err)
	}
	if err := r.RecordScenario(runID, "zero_friction", "pass", "", 1500*time.Millisecond); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := r.RecordScenario(runID, "friction_volume", "fail", "friction mismatch", 900*time.Millisecond); err != nil {
		t.Fatalf("record: %v", err)
	}

	passed, failed, err := r.Summary(runID)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if passed != 1 || failed != 1 {
		t.Fatalf("summary: passed=%d failed=%d", passed, failed)
	}

	// A second run does not bleed into the first.
	runID2, err := r.BeginRun(time.Now(), "ws://localhost:2000/v1/ws", "Town05_Opt")
	if err != nil {
		t.Fatalf("begin run 2: %v", err)
	}
	passed, failed, err = r.Summary(runID2)
	if err != nil {
		t.Fatalf("summary 2: %v", err)
	}
	if passed != 0 || failed != 0 {
		t.Fatalf("fresh run summary: passed=%d failed=%d", passed, failed)
	}
}
