// Package harness times record generation separately from persistence.
package harness

import (
	"bufio"
	"io"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/teaserverse/fwon/internal/observability"
	"github.com/teaserverse/fwon/internal/pipeline"
	"github.com/teaserverse/fwon/internal/storage"
	"github.com/teaserverse/fwon/pkg/types"
)

// Options configures a Harness.
type Options struct {
	// Pipeline generates the records. Nil uses pipeline defaults.
	Pipeline *pipeline.Pipeline

	// Destination receives the output. Nil writes to the local filesystem.
	Destination storage.Destination

	// BufferSize is the write buffer size in bytes. Zero uses storage.DefaultBufferSize.
	BufferSize int

	// LogWorkerStats logs the per-worker breakdown after generation.
	LogWorkerStats bool
}

// Harness runs one generation phase followed by one sequential write phase.
type Harness struct {
	pipeline       *pipeline.Pipeline
	dest           storage.Destination
	bufferSize     int
	logWorkerStats bool

	lastStats *observability.RunStats
}

// New creates a harness from opts, filling in defaults.
func New(opts Options) *Harness {
	if opts.Pipeline == nil {
		opts.Pipeline = pipeline.New(pipeline.Options{})
	}
	if opts.Destination == nil {
		opts.Destination = storage.NewLocalDestination(false)
	}
	if opts.BufferSize <= 0 {
		opts.BufferSize = storage.DefaultBufferSize
	}
	return &Harness{
		pipeline:       opts.Pipeline,
		dest:           opts.Destination,
		bufferSize:     opts.BufferSize,
		logWorkerStats: opts.LogWorkerStats,
	}
}

// GenerateAndWriteRecordsParallel generates n records and writes them to the
// file at path using default options.
func GenerateAndWriteRecordsParallel(n uint64, path string) (*types.BenchmarkResult, error) {
	return New(Options{}).GenerateAndPersist(n, path)
}

// GenerateAndPersist generates n records, then writes them in id order to
// path through a buffered writer. The destination is truncated first, even
// for n = 0.
//
// On any create, write, flush or close failure no result is returned. Bytes
// already flushed stay at the destination.
func (h *Harness) GenerateAndPersist(n uint64, path string) (*types.BenchmarkResult, error) {
	runID := uuid.New().String()
	startedAt := time.Now()
	log.Printf("harness: run %s generating %d records with %d workers", runID, n, h.pipeline.Workers())

	start := time.Now()
	records, stats := h.pipeline.GenerateWithStats(n)
	genTime := time.Since(start)
	h.lastStats = stats

	if h.logWorkerStats {
		stats.LogSummary("harness: run " + runID)
	}

	writeStart := time.Now()
	var written int64
	err := storage.WithBufferedWriter(h.dest, path, h.bufferSize, func(w *bufio.Writer) error {
		var err error
		written, err = WriteRecords(w, records)
		return err
	})
	if err != nil {
		log.Printf("harness: run %s failed after buffering %d bytes: %v", runID, written, err)
		return nil, err
	}
	writeTime := time.Since(writeStart)
	totalTime := time.Since(start)

	result := &types.BenchmarkResult{
		RunID:             runID,
		Records:           n,
		Workers:           len(stats.Workers),
		BytesWritten:      written,
		GenerationTimeSec: types.DurationSeconds(genTime),
		WriteTimeSec:      types.DurationSeconds(writeTime),
		TotalTimeSec:      types.DurationSeconds(totalTime),
		StartedAt:         startedAt,
	}

	log.Printf("harness: run %s wrote %d bytes to %s (gen=%.6fs write=%.6fs total=%.6fs)",
		runID, written, path, result.GenerationTimeSec, result.WriteTimeSec, result.TotalTimeSec)

	return result, nil
}

// LastStats returns the per-worker statistics of the most recent run, or nil.
func (h *Harness) LastStats() *observability.RunStats {
	return h.lastStats
}

// WriteRecords drains records into w in order and returns the number of
// bytes written. Each slot is released once written.
func WriteRecords(w io.Writer, records [][]byte) (int64, error) {
	var written int64
	for i, rec := range records {
		n, err := w.Write(rec)
		written += int64(n)
		if err != nil {
			return written, err
		}
		records[i] = nil
	}
	return written, nil
}
