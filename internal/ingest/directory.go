package ingest

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ampmetropole/arretes-peril/constants"
)

// Pairs walks pdfDir, keeps every PDF not on the exclusion list, and pairs
// it with its page-text file under txtDir. WalkDir visits entries in
// lexical order, so the batch order is stable across runs. A PDF without
// its text file aborts the enumeration: the pair set is the batch
// contract, not a best effort.
func (w *Walker) Pairs(pdfDir, txtDir string) ([]Pair, DirStats, error) {
	if strings.TrimSpace(pdfDir) == "" {
		return nil, DirStats{}, errors.New("pdf directory is required")
	}
	if strings.TrimSpace(txtDir) == "" {
		return nil, DirStats{}, errors.New("txt directory is required")
	}

	var pairs []Pair
	var stats DirStats

	err := filepath.WalkDir(pdfDir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if path != pdfDir && isHidden(path) {
				return filepath.SkipDir
			}
			stats.Dirs++
			return nil
		}
		stats.Scanned++
		if isHidden(path) {
			return nil
		}
		if constants.NormalizeExt(filepath.Ext(path)) != constants.PDFExt {
			return nil
		}
		name := filepath.Base(path)
		if _, skip := w.Exclude[name]; skip {
			stats.Excluded++
			w.Logger.Info("ingest.pair.excluded", "pdf", name)
			return nil
		}
		txtPath := filepath.Join(txtDir, stem(name)+"."+constants.TxtExt)
		if _, err := os.Stat(txtPath); err != nil {
			return fmt.Errorf("no page text for %s: %w", name, err)
		}
		stats.Matched++
		pairs = append(pairs, Pair{PDFName: name, PDFPath: path, TxtPath: txtPath})
		return nil
	})
	if err != nil {
		return nil, stats, fmt.Errorf("walk %s: %w", pdfDir, err)
	}

	w.Logger.Info("ingest.pairs.done",
		"dirs", stats.Dirs,
		"scanned", stats.Scanned,
		"matched", stats.Matched,
		"excluded", stats.Excluded,
	)
	return pairs, stats, nil
}

func stem(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}

func isHidden(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".")
}
