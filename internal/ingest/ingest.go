// Package ingest enumerates the documents of a batch: the scanned arrêtés
// (PDF) paired with their extracted page text (TXT), filtered by an
// exclusion list, with the output-freshness policy guarding a rerun.
package ingest

import "log/slog"

// Pair is one document of the batch: the PDF as named on disk and the
// page-text file extracted from it.
type Pair struct {
	PDFName string
	PDFPath string
	TxtPath string
}

// DirStats summarizes one enumeration pass.
type DirStats struct {
	Dirs     int
	Scanned  int
	Matched  int
	Excluded int
}

// Walker pairs the PDF directory with the page-text directory.
type Walker struct {
	Logger  *slog.Logger
	Exclude map[string]struct{}
}

func NewWalker(logger *slog.Logger) *Walker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Walker{
		Logger:  logger,
		Exclude: make(map[string]struct{}),
	}
}
