// Package types holds the value objects shared by the harness, the catalog
// and the command-line tools.
package types

import (
	"time"
)

// BenchmarkResult is the timing breakdown of one generate-and-persist run.
// Durations are seconds as floating point.
type BenchmarkResult struct {
	RunID             string    `json:"run_id"`
	Records           uint64    `json:"records"`
	Workers           int       `json:"workers"`
	BytesWritten      int64     `json:"bytes_written"`
	GenerationTimeSec float64   `json:"generation_time_sec"`
	WriteTimeSec      float64   `json:"write_time_sec"`
	TotalTimeSec      float64   `json:"total_time_sec"`
	StartedAt         time.Time `json:"started_at"`
}

// RecordsPerSecIO returns records per second of the write phase alone.
// Returns 0 when the write phase took no measurable time.
func (r *BenchmarkResult) RecordsPerSecIO() float64 {
	return rate(r.Records, r.WriteTimeSec)
}

// RecordsPerSecTotal returns records per second over the whole run.
func (r *BenchmarkResult) RecordsPerSecTotal() float64 {
	return rate(r.Records, r.TotalTimeSec)
}

// GenerationDuration returns GenerationTimeSec as a time.Duration.
func (r *BenchmarkResult) GenerationDuration() time.Duration {
	return seconds(r.GenerationTimeSec)
}

// WriteDuration returns WriteTimeSec as a time.Duration.
func (r *BenchmarkResult) WriteDuration() time.Duration {
	return seconds(r.WriteTimeSec)
}

// TotalDuration returns TotalTimeSec as a time.Duration.
func (r *BenchmarkResult) TotalDuration() time.Duration {
	return seconds(r.TotalTimeSec)
}

// RunRecord is a BenchmarkResult as stored in the run catalog.
type RunRecord struct {
	BenchmarkResult

	// Output is the destination path the run wrote to.
	Output string `json:"output"`

	// Digest is the hex content digest of the output, empty if the run was not verified.
	Digest string `json:"digest,omitempty"`
}

// DurationSeconds converts d to fractional seconds. Negative durations,
// which a non-monotonic clock can produce, clamp to 0.
func DurationSeconds(d time.Duration) float64 {
	if d < 0 {
		return 0
	}
	return d.Seconds()
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

func rate(n uint64, sec float64) float64 {
	if sec <= 0 {
		return 0
	}
	return float64(n) / sec
}
