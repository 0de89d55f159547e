// Package main implements fwon-history, which lists runs recorded by fwon -history.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"

	"github.com/teaserverse/fwon/internal/catalog"
	"github.com/teaserverse/fwon/pkg/types"
)

func main() {
	var (
		dbPath string
		limit  int
		best   bool
		prune  time.Duration
	)

	_ = godotenv.Load()

	flag.StringVar(&dbPath, "db", os.Getenv("FWON_HISTORY_PATH"), "Path to the run catalog")
	flag.IntVar(&limit, "limit", 20, "Maximum number of runs to list (0: all)")
	flag.BoolVar(&best, "best", false, "Show only the run with the highest overall throughput")
	flag.DurationVar(&prune, "prune", 0, "Delete runs older than this age before listing")
	flag.Parse()

	if dbPath == "" {
		log.Fatalf("-db is required (or set FWON_HISTORY_PATH)")
	}

	c, err := catalog.NewCatalog(dbPath)
	if err != nil {
		log.Fatalf("Failed to open catalog: %v", err)
	}
	defer c.Close()

	ctx := context.Background()

	if prune > 0 {
		n, err := c.DeleteOlderThan(ctx, prune)
		if err != nil {
			log.Fatalf("Failed to prune: %v", err)
		}
		log.Printf("Pruned %d runs older than %v", n, prune)
	}

	var runs []*types.RunRecord
	if best {
		run, err := c.Best(ctx)
		if err != nil {
			log.Fatalf("Failed to query best run: %v", err)
		}
		if run != nil {
			runs = append(runs, run)
		}
	} else {
		runs, err = c.ListRuns(ctx, limit)
		if err != nil {
			log.Fatalf("Failed to list runs: %v", err)
		}
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STARTED\tRUN\tRECORDS\tWORKERS\tGEN(s)\tWRITE(s)\tTOTAL(s)\tIO rec/s\tTOTAL rec/s\tOUTPUT")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%.6f\t%.6f\t%.6f\t%.2f\t%.2f\t%s\n",
			r.StartedAt.Format(time.RFC3339), shortID(r.RunID), r.Records, r.Workers,
			r.GenerationTimeSec, r.WriteTimeSec, r.TotalTimeSec,
			r.RecordsPerSecIO(), r.RecordsPerSecTotal(), r.Output)
	}
	w.Flush()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
