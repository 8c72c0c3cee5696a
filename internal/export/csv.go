package export

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Writer persists the collected tables of a run.
type Writer struct {
	Logger *slog.Logger
}

func NewWriter(logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{Logger: logger}
}

func csvName(table string) string {
	return "paquet_" + table + ".csv"
}

// OutputPaths returns the four CSV paths a run writes under dir. The
// rerun policy checks these before a batch starts.
func OutputPaths(dir string) []string {
	return []string{
		filepath.Join(dir, csvName(TableAdresse)),
		filepath.Join(dir, csvName(TableArrete)),
		filepath.Join(dir, csvName(TableNotifie)),
		filepath.Join(dir, csvName(TableParcelle)),
	}
}

// WriteCSV writes the four tables under dir, one CSV per table, header
// row first. Existing files are overwritten; the rerun check happens
// before the batch runs, not here.
func (w *Writer) WriteCSV(dir string, t Tables) error {
	start := time.Now()
	for _, g := range t.grids() {
		if err := writeCSVFile(filepath.Join(dir, csvName(g.Name)), g); err != nil {
			return err
		}
	}
	w.Logger.Info("export.csv.ok",
		"dir", dir,
		"rows", t.Rows(),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

func writeCSVFile(path string, g grid) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write(g.Header); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	for _, row := range g.Rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return nil
}
