package ingest

import (
	"fmt"
	"os"
)

// CheckOutputs enforces the rerun policy: a batch refuses to start while
// any of its output files already exists, unless redo is set. Outputs are
// whole-table files, so a partial overwrite is never meaningful.
func CheckOutputs(paths []string, redo bool) error {
	if redo {
		return nil
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return fmt.Errorf("output %s already exists, pass -redo to overwrite", p)
		}
	}
	return nil
}
