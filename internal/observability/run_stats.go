// Package observability tracks per-worker generation statistics for benchmark runs.
package observability

import (
	"log"
	"sort"
	"time"
)

// WorkerStats holds what one generation worker produced.
type WorkerStats struct {
	Worker   int
	FirstID  uint64
	Records  uint64
	Bytes    int64
	Duration time.Duration
}

// RunStats collects one slot per worker. Each worker writes only its own
// slot, so recording needs no locking; read the stats after the workers join.
type RunStats struct {
	Workers []WorkerStats
}

// NewRunStats creates stats with a slot for each of n workers.
func NewRunStats(n int) *RunStats {
	return &RunStats{Workers: make([]WorkerStats, n)}
}

// Record stores the result of worker w.
// Safe to call concurrently as long as each goroutine uses a distinct w.
func (r *RunStats) Record(w int, stats WorkerStats) {
	stats.Worker = w
	r.Workers[w] = stats
}

// Totals returns the record and byte counts summed across workers.
func (r *RunStats) Totals() (records uint64, bytes int64) {
	for _, w := range r.Workers {
		records += w.Records
		bytes += w.Bytes
	}
	return records, bytes
}

// AvgRecordSize returns the mean encoded record size in bytes.
func (r *RunStats) AvgRecordSize() float64 {
	records, bytes := r.Totals()
	if records == 0 {
		return 0
	}
	return float64(bytes) / float64(records)
}

// Slowest returns the n slowest workers, slowest first.
// Returns a copy; the caller may modify it.
func (r *RunStats) Slowest(n int) []WorkerStats {
	if n <= 0 || len(r.Workers) == 0 {
		return []WorkerStats{}
	}

	stats := make([]WorkerStats, len(r.Workers))
	copy(stats, r.Workers)

	sort.Slice(stats, func(i, j int) bool {
		return stats[i].Duration > stats[j].Duration
	})

	if n > len(stats) {
		n = len(stats)
	}
	return stats[:n]
}

// Imbalance is the slowest worker's duration divided by the mean duration.
// 1.0 means perfectly even work; 0 when there is nothing to compare.
func (r *RunStats) Imbalance() float64 {
	if len(r.Workers) == 0 {
		return 0
	}
	var total, slowest time.Duration
	for _, w := range r.Workers {
		total += w.Duration
		if w.Duration > slowest {
			slowest = w.Duration
		}
	}
	if total == 0 {
		return 0
	}
	mean := float64(total) / float64(len(r.Workers))
	return float64(slowest) / mean
}

// LogSummary writes a one-line summary of the run to the standard logger.
func (r *RunStats) LogSummary(prefix string) {
	records, bytes := r.Totals()
	log.Printf("%s: %d workers produced %d records (%d bytes, avg %.1f B/record, imbalance %.2f)",
		prefix, len(r.Workers), records, bytes, r.AvgRecordSize(), r.Imbalance())
}
