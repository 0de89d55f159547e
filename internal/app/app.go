// Package app wires configuration into a complete fwon run: generate,
// persist, optionally verify, optionally record in the run catalog.
package app

import (
	"context"
	"log"

	"github.com/teaserverse/fwon/internal/catalog"
	"github.com/teaserverse/fwon/internal/config"
	ferrors "github.com/teaserverse/fwon/internal/errors"
	"github.com/teaserverse/fwon/internal/harness"
	"github.com/teaserverse/fwon/internal/pipeline"
	"github.com/teaserverse/fwon/internal/storage"
	"github.com/teaserverse/fwon/internal/verify"
	"github.com/teaserverse/fwon/pkg/types"
)

// Outcome is everything a run produced.
type Outcome struct {
	Result *types.BenchmarkResult

	// Report is set when verification ran.
	Report *verify.Report
}

// App holds the resources of one configured run.
type App struct {
	cfg     *config.Config
	harness *harness.Harness
	store   storage.Store
	catalog catalog.Catalog
}

// New validates cfg and prepares the harness and, if configured, the run catalog.
func New(cfg *config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	store := storage.NewLocalDestination(cfg.CreateDirs)
	a := &App{
		cfg:   cfg,
		store: store,
		harness: harness.New(harness.Options{
			Pipeline:    pipeline.New(pipeline.Options{Workers: cfg.Workers, Seed: cfg.Seed}),
			Destination: store,
			BufferSize:  cfg.BufferSize(),
		}),
	}

	if cfg.HistoryPath != "" {
		c, err := catalog.NewCatalog(cfg.HistoryPath)
		if err != nil {
			return nil, err
		}
		a.catalog = c
	}

	return a, nil
}

// Run performs the configured run. A verification failure is returned as a
// FORMAT error together with the outcome, and the run is still recorded.
func (a *App) Run(ctx context.Context) (*Outcome, error) {
	result, err := a.harness.GenerateAndPersist(a.cfg.Records, a.cfg.Output)
	if err != nil {
		return nil, err
	}
	out := &Outcome{Result: result}

	var verifyErr error
	if a.cfg.Verify {
		rep, err := verify.Stored(a.store, a.cfg.Output)
		if err != nil {
			return out, err
		}
		out.Report = rep
		if !rep.OK() {
			verifyErr = ferrors.NewFormatError(ferrors.CodeMalformedRecord, rep.Problems[0].String()).
				WithDetails(map[string]interface{}{"problems": rep.ProblemCount})
		}
	}

	if a.catalog != nil {
		rec := &types.RunRecord{BenchmarkResult: *result, Output: a.cfg.Output}
		if out.Report != nil {
			rec.Digest = out.Report.Digest
		}
		if err := a.catalog.RecordRun(ctx, rec); err != nil {
			return out, err
		}
		log.Printf("app: recorded run %s in %s", result.RunID, a.cfg.HistoryPath)
	}

	return out, verifyErr
}

// Close releases the run catalog, if any.
func (a *App) Close() error {
	if a.catalog != nil {
		return a.catalog.Close()
	}
	return nil
}
