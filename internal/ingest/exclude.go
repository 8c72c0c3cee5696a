package ingest

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// LoadExclusions reads a file of document names to leave out of the batch,
// one PDF base name per line, matched exactly. Blank lines and lines
// starting with # are ignored.
func (w *Walker) LoadExclusions(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("exclusion list: %w", err)
	}
	defer f.Close()

	names := 0
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		w.Exclude[line] = struct{}{}
		names++
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("exclusion list: %w", err)
	}

	w.Logger.Info("ingest.exclusions.loaded", "path", path, "names", names)
	return nil
}
