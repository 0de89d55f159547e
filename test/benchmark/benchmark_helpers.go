package benchmark

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/joho/godotenv"

	"github.com/teaserverse/fwon/internal/storage"
)

// getBenchmarkDestination returns a destination and an output path for a
// benchmark. FWON_BENCH_TARGET=memory keeps output in memory, which takes the
// disk out of the write-phase measurement. FWON_BENCH_DIR picks the directory
// for file output (default: a temp dir removed by cleanup).
func getBenchmarkDestination(b *testing.B, benchName string) (storage.Destination, string, func()) {
	// Try loading .env from project root (../../.env relative to test/benchmark)
	_ = godotenv.Load("../../.env")

	if os.Getenv("FWON_BENCH_TARGET") == "memory" {
		return storage.NewMemoryDestination(), benchName, func() {}
	}

	if dir := os.Getenv("FWON_BENCH_DIR"); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			b.Fatal(err)
		}
		path := filepath.Join(dir, benchName+".fwon")
		b.Logf("Writing benchmark output to %s", path)
		return storage.NewLocalDestination(false), path, func() { os.Remove(path) }
	}

	dir, err := os.MkdirTemp("", "fwon-bench-"+benchName+"-*")
	if err != nil {
		b.Fatal(err)
	}
	return storage.NewLocalDestination(false), filepath.Join(dir, "out.fwon"), func() { os.RemoveAll(dir) }
}
