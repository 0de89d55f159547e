// Package benchmark provides performance benchmarks for fwon.
package benchmark

import (
	"bufio"
	"io"
	"testing"
	"time"

	"github.com/teaserverse/fwon/internal/harness"
	"github.com/teaserverse/fwon/internal/numfmt"
	"github.com/teaserverse/fwon/internal/pipeline"
	"github.com/teaserverse/fwon/internal/randfield"
	"github.com/teaserverse/fwon/internal/record"
	"github.com/teaserverse/fwon/internal/storage"
	"github.com/teaserverse/fwon/internal/verify"
)

// BenchmarkSerialize measures single-record serialization into a fresh buffer.
func BenchmarkSerialize(b *testing.B) {
	s := record.NewSerializer()
	src := randfield.NewPCG(1, 2)

	b.ReportAllocs()
	b.ResetTimer()

	var bytes int64
	for i := 0; i < b.N; i++ {
		bytes += int64(len(s.Serialize(uint64(i), src)))
	}

	b.SetBytes(bytes / int64(b.N))
	b.ReportMetric(float64(b.N)/b.Elapsed().Seconds(), "records/sec")
}

// BenchmarkAppendReuse measures serialization into a reused buffer.
func BenchmarkAppendReuse(b *testing.B) {
	s := record.NewFrozenSerializer(time.Unix(1729350000, 500000000))
	src := randfield.NewPCG(1, 2)
	buf := make([]byte, 0, record.DefaultCapacity)

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		buf = s.Append(buf[:0], uint64(i), src)
	}
}

// BenchmarkFormatShortest measures timestamp formatting.
func BenchmarkFormatShortest(b *testing.B) {
	buf := make([]byte, 0, 32)
	v := 1729350123.456789

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		buf = numfmt.AppendShortest(buf[:0], v+float64(i))
	}
}

// BenchmarkGenerateParallel measures the generation phase alone.
func BenchmarkGenerateParallel(b *testing.B) {
	const n = 100_000
	p := pipeline.New(pipeline.Options{})

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if got := p.Generate(n); len(got) != n {
			b.Fatalf("generated %d records", len(got))
		}
	}

	b.ReportMetric(float64(n*b.N)/b.Elapsed().Seconds(), "records/sec")
}

// BenchmarkWriteRecords measures draining pre-generated records through an
// 8 MiB buffer into io.Discard.
func BenchmarkWriteRecords(b *testing.B) {
	const n = 100_000
	template := pipeline.New(pipeline.Options{Seed: 1}).Generate(n)

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		b.StopTimer()
		records := make([][]byte, n)
		copy(records, template)
		w := bufio.NewWriterSize(io.Discard, 8*1024*1024)
		b.StartTimer()

		if _, err := harness.WriteRecords(w, records); err != nil {
			b.Fatal(err)
		}
		if err := w.Flush(); err != nil {
			b.Fatal(err)
		}
	}

	b.ReportMetric(float64(n*b.N)/b.Elapsed().Seconds(), "records/sec")
}

// BenchmarkGenerateAndPersist measures a full run against the configured destination.
func BenchmarkGenerateAndPersist(b *testing.B) {
	dest, path, cleanup := getBenchmarkDestination(b, "persist")
	defer cleanup()

	const n = 100_000
	h := harness.New(harness.Options{Destination: dest})

	b.ReportAllocs()
	b.ResetTimer()

	var genSec, writeSec float64
	for i := 0; i < b.N; i++ {
		result, err := h.GenerateAndPersist(n, path)
		if err != nil {
			b.Fatal(err)
		}
		genSec += result.GenerationTimeSec
		writeSec += result.WriteTimeSec
	}

	b.ReportMetric(float64(n*b.N)/b.Elapsed().Seconds(), "records/sec")
	b.ReportMetric(genSec/float64(b.N), "gen-sec/op")
	b.ReportMetric(writeSec/float64(b.N), "write-sec/op")
}

// BenchmarkVerify measures read-back verification throughput.
func BenchmarkVerify(b *testing.B) {
	dest, path, cleanup := getBenchmarkDestination(b, "verify")
	defer cleanup()

	const n = 50_000
	if _, err := harness.New(harness.Options{Destination: dest}).GenerateAndPersist(n, path); err != nil {
		b.Fatal(err)
	}
	store, ok := dest.(storage.Store)
	if !ok {
		b.Skip("destination cannot be read back")
	}

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		rep, err := verify.Stored(store, path)
		if err != nil {
			b.Fatal(err)
		}
		if !rep.OK() {
			b.Fatalf("verification failed: %v", rep.Problems)
		}
	}

	b.ReportMetric(float64(n*b.N)/b.Elapsed().Seconds(), "records/sec")
}
