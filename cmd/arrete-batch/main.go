// arrete-batch runs the extraction pipeline over one directory of arrêté
// PDFs and their page text, and writes the four output tables.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/ampmetropole/arretes-peril/constants"
	"github.com/ampmetropole/arretes-peril/internal/address"
	"github.com/ampmetropole/arretes-peril/internal/aggregate"
	"github.com/ampmetropole/arretes-peril/internal/common"
	"github.com/ampmetropole/arretes-peril/internal/export"
	"github.com/ampmetropole/arretes-peril/internal/geo"
	"github.com/ampmetropole/arretes-peril/internal/ingest"
	repo "github.com/ampmetropole/arretes-peril/internal/repository"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		pdfDir   = flag.String("pdf", "", "directory of arrêté PDF files (required)")
		txtDir   = flag.String("txt", "", "directory of page text, one .txt per PDF (required)")
		outDir   = flag.String("out", "", "output directory for the four CSV files (required)")
		xlsx     = flag.Bool("xlsx", false, "also write a paquets.xlsx workbook")
		dbDSN    = flag.String("db", "", "Postgres DSN or SQLite path to persist the run (optional)")
		redo     = flag.Bool("redo", false, "overwrite the output files of a previous run")
		strict   = flag.Bool("strict", false, "stop at the first failed document")
		exclude  = flag.String("exclude", "", "file of PDF names to skip, one per line")
		override = flag.String("geo", "", "JSON file of commune overrides")
		runID    = flag.String("run-id", "", "run identifier (default: random UUID)")
	)
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// .env is optional; flags override the environment
	_ = godotenv.Load()
	cfg := common.LoadConfig()
	if *pdfDir != "" {
		cfg.Batch.PDFDir = *pdfDir
	}
	if *txtDir != "" {
		cfg.Batch.TxtDir = *txtDir
	}
	if *outDir != "" {
		cfg.Batch.OutDir = *outDir
	}
	if *exclude != "" {
		cfg.Batch.ExcludeFile = *exclude
	}
	if *override != "" {
		cfg.Batch.GeoOverride = *override
	}
	if *dbDSN != "" {
		cfg.Database.DSN = *dbDSN
	}
	if *redo {
		cfg.Batch.Redo = true
	}
	if *strict {
		cfg.Batch.Strict = true
	}
	if *xlsx {
		cfg.Export.Workbook = true
	}

	v := common.NewValidator().
		Field("pdf", cfg.Batch.PDFDir, common.Required, common.DirExists).
		Field("txt", cfg.Batch.TxtDir, common.Required, common.DirExists).
		Field("out", cfg.Batch.OutDir, common.Required)
	if *runID != "" {
		v.Field("run-id", *runID, common.UUID)
	}
	if err := common.ValidateAndReturnError(v); err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}

	id := *runID
	if id == "" {
		id = uuid.New().String()
	}
	ctx := common.WithRunID(context.Background(), id)
	logger = logger.With("run_id", id)

	// commune knowledge, with optional overrides
	know, err := geo.Load()
	if err != nil {
		logger.Error("batch.geo.load", "error", err)
		os.Exit(1)
	}
	if cfg.Batch.GeoOverride != "" {
		if err := know.ApplyOverrideFile(cfg.Batch.GeoOverride); err != nil {
			logger.Error("batch.geo.override", "path", cfg.Batch.GeoOverride, "error", err)
			os.Exit(1)
		}
	}

	if err := os.MkdirAll(cfg.Batch.OutDir, 0o755); err != nil {
		logger.Error("batch.outdir", "dir", cfg.Batch.OutDir, "error", err)
		os.Exit(1)
	}
	if err := ingest.CheckOutputs(export.OutputPaths(cfg.Batch.OutDir), cfg.Batch.Redo); err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}

	walker := ingest.NewWalker(logger)
	if cfg.Batch.ExcludeFile != "" {
		if err := walker.LoadExclusions(cfg.Batch.ExcludeFile); err != nil {
			logger.Error("batch.exclusions", "path", cfg.Batch.ExcludeFile, "error", err)
			os.Exit(1)
		}
	}

	pairs, stats, err := walker.Pairs(cfg.Batch.PDFDir, cfg.Batch.TxtDir)
	if err != nil {
		logger.Error("batch.pairs", "error", err)
		os.Exit(1)
	}

	pipe := aggregate.New(know, logger)
	collector := export.NewCollector(cfg.Export.BaseURL, time.Now())

	counts := map[constants.DocStatus]int{
		constants.DocStatusSkipped: stats.Excluded,
	}
	for _, pair := range pairs {
		pages, err := ingest.LoadPages(pair.TxtPath)
		if err != nil {
			logger.Error("batch.doc.read", "pdf", pair.PDFName, "error", err)
			counts[constants.DocStatusFailed]++
			if cfg.Batch.Strict {
				os.Exit(1)
			}
			continue
		}

		doc, err := pipe.Run(aggregate.Document{
			PDFName: pair.PDFName,
			PDFPath: pair.PDFPath,
			TxtPath: pair.TxtPath,
			Pages:   pages,
		})
		if err != nil {
			var coherence *address.CoherenceError
			if errors.As(err, &coherence) {
				logger.Error("batch.doc.coherence", "pdf", pair.PDFName, "error", err)
			} else {
				logger.Error("batch.doc.failed", "pdf", pair.PDFName, "error", err)
			}
			counts[constants.DocStatusFailed]++
			if cfg.Batch.Strict {
				os.Exit(1)
			}
			continue
		}

		counts[doc.Status]++
		collector.Add(&doc)
	}

	tables := collector.Tables()
	writer := export.NewWriter(logger)
	if err := writer.WriteCSV(cfg.Batch.OutDir, tables); err != nil {
		logger.Error("batch.export.csv", "error", err)
		os.Exit(1)
	}
	if cfg.Export.Workbook {
		workbook := filepath.Join(cfg.Batch.OutDir, "paquets.xlsx")
		if err := writer.WriteXLSX(workbook, tables); err != nil {
			logger.Error("batch.export.xlsx", "error", err)
			os.Exit(1)
		}
	}

	if cfg.Database.DSN != "" {
		store, err := openStore(ctx, cfg, logger)
		if err != nil {
			logger.Error("batch.store.open", "error", err)
			os.Exit(1)
		}
		defer func() { _ = store.Close() }()
		if err := store.Bootstrap(ctx); err != nil {
			logger.Error("batch.store.bootstrap", "error", err)
			os.Exit(1)
		}
		if err := store.SaveRun(ctx, common.RunIDFromContext(ctx), tables); err != nil {
			logger.Error("batch.store.save", "error", err)
			os.Exit(1)
		}
	}

	logger.Info("batch.done",
		"documents", len(pairs),
		"parsed", counts[constants.DocStatusParsed],
		"empty", counts[constants.DocStatusEmpty],
		"failed", counts[constants.DocStatusFailed],
		"skipped", counts[constants.DocStatusSkipped],
		"rows", tables.Rows(),
	)

	fmt.Printf("Batch complete!\n")
	fmt.Printf("- Documents: %d (parsed %d, empty %d, failed %d, skipped %d)\n",
		len(pairs),
		counts[constants.DocStatusParsed],
		counts[constants.DocStatusEmpty],
		counts[constants.DocStatusFailed],
		counts[constants.DocStatusSkipped])
	fmt.Printf("- Rows: %d\n", tables.Rows())
	fmt.Printf("- Output: %s\n", cfg.Batch.OutDir)
}

// openStore picks the backend from the DSN shape.
func openStore(ctx context.Context, cfg *common.Config, logger *slog.Logger) (repo.Store, error) {
	dsn := cfg.Database.DSN
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return repo.OpenPostgres(ctx, cfg.Database, logger)
	}
	return repo.OpenSQLite(dsn, logger)
}
