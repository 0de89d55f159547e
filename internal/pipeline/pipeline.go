// Package pipeline generates record batches in parallel.
//
// The identifier range [0, n) is split into contiguous chunks, one per
// worker. Every worker owns its random source and writes only the output
// slots of its own chunk, so the only coordination is the final join.
package pipeline

import (
	"encoding/binary"
	"runtime"
	"sync"
	"time"

	"github.com/spaolacci/murmur3"

	"github.com/teaserverse/fwon/internal/observability"
	"github.com/teaserverse/fwon/internal/randfield"
	"github.com/teaserverse/fwon/internal/record"
)

// Options configures a Pipeline.
type Options struct {
	// Workers is the number of goroutines. Zero or negative means runtime.NumCPU().
	Workers int

	// Seed makes runs reproducible for a fixed worker count. Zero seeds every
	// worker from the runtime's global generator.
	Seed uint64

	// Serializer renders each record. Nil uses the wall clock.
	Serializer *record.Serializer
}

// Pipeline fans record serialization out across workers.
type Pipeline struct {
	workers    int
	seed       uint64
	serializer *record.Serializer
}

// New creates a pipeline from opts, filling in defaults.
func New(opts Options) *Pipeline {
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	if opts.Serializer == nil {
		opts.Serializer = record.NewSerializer()
	}
	return &Pipeline{
		workers:    opts.Workers,
		seed:       opts.Seed,
		serializer: opts.Serializer,
	}
}

// GenerateRecordsParallel produces n records with default options.
func GenerateRecordsParallel(n uint64) [][]byte {
	return New(Options{}).Generate(n)
}

// Workers returns the configured worker count.
func (p *Pipeline) Workers() int {
	return p.workers
}

// Generate returns n records where element i is the encoding of record i.
func (p *Pipeline) Generate(n uint64) [][]byte {
	out, _ := p.GenerateWithStats(n)
	return out
}

// GenerateWithStats is Generate plus per-worker statistics.
func (p *Pipeline) GenerateWithStats(n uint64) ([][]byte, *observability.RunStats) {
	if n == 0 {
		return [][]byte{}, observability.NewRunStats(0)
	}

	workers := p.workers
	if uint64(workers) > n {
		workers = int(n)
	}

	out := make([][]byte, n)
	stats := observability.NewRunStats(workers)

	chunk := n / uint64(workers)
	rem := n % uint64(workers)

	var wg sync.WaitGroup
	var lo uint64
	for w := 0; w < workers; w++ {
		size := chunk
		if uint64(w) < rem {
			size++
		}
		hi := lo + size

		wg.Add(1)
		go func(w int, lo, hi uint64) {
			defer wg.Done()
			p.work(w, lo, hi, out, stats)
		}(w, lo, hi)

		lo = hi
	}
	wg.Wait()

	return out, stats
}

// work serializes ids [lo, hi) into out.
func (p *Pipeline) work(w int, lo, hi uint64, out [][]byte, stats *observability.RunStats) {
	start := time.Now()
	src := p.source(w)

	var bytes int64
	for id := lo; id < hi; id++ {
		rec := p.serializer.Serialize(id, src)
		out[id] = rec
		bytes += int64(len(rec))
	}

	stats.Record(w, observability.WorkerStats{
		FirstID:  lo,
		Records:  hi - lo,
		Bytes:    bytes,
		Duration: time.Since(start),
	})
}

func (p *Pipeline) source(w int) randfield.Source {
	if p.seed == 0 {
		return randfield.NewRandom()
	}
	return randfield.NewPCG(WorkerSeed(p.seed, w))
}

// WorkerSeed derives the two PCG seed words for worker w from a run seed.
func WorkerSeed(seed uint64, w int) (uint64, uint64) {
	var key [16]byte
	binary.LittleEndian.PutUint64(key[:8], seed)
	binary.LittleEndian.PutUint64(key[8:], uint64(w))
	return murmur3.Sum128(key[:])
}
