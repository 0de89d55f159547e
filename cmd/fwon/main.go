// Package main implements the fwon binary: generate N synthetic records,
// write them to a file and report generation versus write throughput.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/teaserverse/fwon/internal/app"
	"github.com/teaserverse/fwon/internal/config"
	"github.com/teaserverse/fwon/pkg/types"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	var (
		configFile  string
		workers     int
		seed        uint64
		bufferMB    int
		historyPath string
		verifyOut   bool
		createDirs  bool
		showVersion bool
	)

	flag.StringVar(&configFile, "config", "", "Path to configuration file (YAML or JSON)")
	flag.IntVar(&workers, "workers", 0, "Number of generation workers (default: number of CPUs)")
	flag.Uint64Var(&seed, "seed", 0, "Seed for reproducible output (0: random)")
	flag.IntVar(&bufferMB, "buffer-mb", 0, "Write buffer size in MiB (default 8)")
	flag.StringVar(&historyPath, "history", "", "Record the run in this SQLite catalog")
	flag.BoolVar(&verifyOut, "verify", false, "Read the output back and check every record")
	flag.BoolVar(&createDirs, "create-dirs", false, "Create missing parent directories of the output")
	flag.BoolVar(&showVersion, "version", false, "Show version information")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "fwon - synthetic FWON record generator and write benchmark\n\n")
		fmt.Fprintf(os.Stderr, "Usage: fwon [options] <filepath> <num_records>\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  FWON_OUTPUT, FWON_RECORDS     Defaults for the positional arguments\n")
		fmt.Fprintf(os.Stderr, "  FWON_WORKERS, FWON_SEED       Generation settings\n")
		fmt.Fprintf(os.Stderr, "  FWON_BUFFER_SIZE_MB           Write buffer size\n")
		fmt.Fprintf(os.Stderr, "  FWON_HISTORY_PATH             Run catalog path\n")
		fmt.Fprintf(os.Stderr, "  FWON_VERIFY, FWON_CREATE_DIRS true or 1 to enable\n")
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("fwon version %s (commit: %s)\n", version, commit)
		os.Exit(0)
	}

	// A missing .env is not an error.
	_ = godotenv.Load()

	cfg, err := loadConfig(configFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Command line flags have the highest priority.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "workers":
			cfg.Workers = workers
		case "seed":
			cfg.Seed = seed
		case "buffer-mb":
			cfg.BufferSizeMB = bufferMB
		case "history":
			cfg.HistoryPath = historyPath
		case "verify":
			cfg.Verify = verifyOut
		case "create-dirs":
			cfg.CreateDirs = createDirs
		}
	})

	if err := applyArgs(cfg, flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n\n", err)
		flag.Usage()
		os.Exit(2)
	}

	fmt.Printf("Generating and writing %d FWON records to '%s'...\n", cfg.Records, cfg.Output)

	a, err := app.New(cfg)
	if err != nil {
		log.Fatalf("Failed to set up run: %v", err)
	}

	out, err := a.Run(context.Background())
	a.Close()
	if out != nil {
		printResult(out.Result)
		if out.Report != nil {
			fmt.Printf("Verified:                   %d records, digest %s\n", out.Report.Records, out.Report.Digest)
		}
	}
	if err != nil {
		log.Fatalf("Run failed: %v", err)
	}
}

// loadConfig loads configuration from defaults, an optional file and the environment.
func loadConfig(configFile string) (*config.Config, error) {
	var cfg *config.Config
	var err error

	if configFile != "" {
		cfg, err = config.LoadFromFile(configFile)
		if err != nil {
			return nil, err
		}
	} else {
		cfg = config.DefaultConfig()
	}

	if err := config.LoadFromEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyArgs applies the <filepath> <num_records> positional arguments.
// Either may be omitted when the configuration already provides it.
func applyArgs(cfg *config.Config, args []string) error {
	if len(args) > 2 {
		return fmt.Errorf("too many arguments")
	}
	if len(args) >= 1 {
		cfg.Output = args[0]
	}
	if len(args) == 2 {
		n, err := strconv.ParseUint(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("num_records must be a non-negative integer, got %q", args[1])
		}
		cfg.Records = n
	}
	if cfg.Output == "" {
		return fmt.Errorf("missing <filepath>")
	}
	return nil
}

func printResult(r *types.BenchmarkResult) {
	fmt.Printf("\n--- FWON WRITE BENCHMARK ---\n")
	fmt.Printf("Records written:            %d\n", r.Records)
	fmt.Printf("Generation time (CPU):      %.6f s\n", r.GenerationTimeSec)
	fmt.Printf("Write time (I/O):           %.6f s\n", r.WriteTimeSec)
	fmt.Printf("----------------------------------------------\n")
	fmt.Printf("Total time (gen + I/O):     %.6f s\n", r.TotalTimeSec)
	fmt.Printf("Write rate (I/O only):      %.2f records/s\n", r.RecordsPerSecIO())
	fmt.Printf("Write rate (overall):       %.2f records/s\n", r.RecordsPerSecTotal())
}
