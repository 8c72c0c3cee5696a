package ingest

import (
	"fmt"
	"os"
	"strings"
)

// pageSep is the form feed the upstream text extraction writes between
// pages.
const pageSep = "\f"

// LoadPages reads a page-text file and splits it into pages. A file with
// no separator is a single page; a trailing separator yields a trailing
// empty page, which the aggregation stage treats like any other blank.
func LoadPages(txtPath string) ([]string, error) {
	raw, err := os.ReadFile(txtPath)
	if err != nil {
		return nil, fmt.Errorf("read pages: %w", err)
	}
	return strings.Split(string(raw), pageSep), nil
}
