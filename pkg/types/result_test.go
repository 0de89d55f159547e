package types

import (
	"encoding/json"
	"testing"
	"time"
)

func TestBenchmarkResult_Rates(t *testing.T) {
	r := &BenchmarkResult{
		Records:           1000,
		GenerationTimeSec: 0.5,
		WriteTimeSec:      0.25,
		TotalTimeSec:      1.0,
	}

	if got := r.RecordsPerSecIO(); got != 4000 {
		t.Errorf("RecordsPerSecIO = %v, want 4000", got)
	}
	if got := r.RecordsPerSecTotal(); got != 1000 {
		t.Errorf("RecordsPerSecTotal = %v, want 1000", got)
	}
}

func TestBenchmarkResult_ZeroDivisor(t *testing.T) {
	r := &BenchmarkResult{Records: 10}
	if r.RecordsPerSecIO() != 0 || r.RecordsPerSecTotal() != 0 {
		t.Errorf("rates with zero durations should be 0, got %v and %v", r.RecordsPerSecIO(), r.RecordsPerSecTotal())
	}
}

func TestBenchmarkResult_Durations(t *testing.T) {
	r := &BenchmarkResult{GenerationTimeSec: 1.5, WriteTimeSec: 0.001, TotalTimeSec: 2}

	if got := r.GenerationDuration(); got != 1500*time.Millisecond {
		t.Errorf("GenerationDuration = %v", got)
	}
	if got := r.WriteDuration(); got != time.Millisecond {
		t.Errorf("WriteDuration = %v", got)
	}
	if got := r.TotalDuration(); got != 2*time.Second {
		t.Errorf("TotalDuration = %v", got)
	}
}

func TestDurationSeconds(t *testing.T) {
	if got := DurationSeconds(250 * time.Millisecond); got != 0.25 {
		t.Errorf("DurationSeconds(250ms) = %v", got)
	}
	if got := DurationSeconds(-time.Second); got != 0 {
		t.Errorf("DurationSeconds(-1s) = %v, want 0", got)
	}
}

func TestRunRecord_JSON(t *testing.T) {
	rec := RunRecord{
		BenchmarkResult: BenchmarkResult{RunID: "abc", Records: 3, Workers: 2},
		Output:          "/tmp/out.txt",
	}

	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatal(err)
	}

	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatal(err)
	}
	if m["run_id"] != "abc" || m["output"] != "/tmp/out.txt" {
		t.Errorf("embedded fields not flattened: %s", data)
	}
	if _, ok := m["digest"]; ok {
		t.Errorf("empty digest should be omitted: %s", data)
	}
}
