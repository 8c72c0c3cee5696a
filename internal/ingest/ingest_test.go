package ingest

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func newTestWalker() *Walker {
	return NewWalker(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestPairs(t *testing.T) {
	pdfDir := t.TempDir()
	txtDir := t.TempDir()

	for _, name := range []string{"B.PDF", "a.pdf", "exclu.pdf", "notes.txt", ".cache.pdf"} {
		writeFile(t, filepath.Join(pdfDir, name), "%PDF")
	}
	writeFile(t, filepath.Join(pdfDir, "sub", "deep.pdf"), "%PDF")
	for _, name := range []string{"B.txt", "a.txt", "deep.txt"} {
		writeFile(t, filepath.Join(txtDir, name), "page")
	}

	w := newTestWalker()
	w.Exclude["exclu.pdf"] = struct{}{}

	pairs, stats, err := w.Pairs(pdfDir, txtDir)
	if err != nil {
		t.Fatalf("Pairs() error = %v", err)
	}

	want := []Pair{
		{PDFName: "B.PDF", PDFPath: filepath.Join(pdfDir, "B.PDF"), TxtPath: filepath.Join(txtDir, "B.txt")},
		{PDFName: "a.pdf", PDFPath: filepath.Join(pdfDir, "a.pdf"), TxtPath: filepath.Join(txtDir, "a.txt")},
		{PDFName: "deep.pdf", PDFPath: filepath.Join(pdfDir, "sub", "deep.pdf"), TxtPath: filepath.Join(txtDir, "deep.txt")},
	}
	if !reflect.DeepEqual(pairs, want) {
		t.Errorf("Pairs() = %+v, want %+v", pairs, want)
	}

	wantStats := DirStats{Dirs: 2, Scanned: 6, Matched: 3, Excluded: 1}
	if stats != wantStats {
		t.Errorf("stats = %+v, want %+v", stats, wantStats)
	}
}

func TestPairsMissingTxt(t *testing.T) {
	pdfDir := t.TempDir()
	txtDir := t.TempDir()
	writeFile(t, filepath.Join(pdfDir, "doc.pdf"), "%PDF")

	w := newTestWalker()
	if _, _, err := w.Pairs(pdfDir, txtDir); err == nil {
		t.Fatal("Pairs() expected error for missing page text, got nil")
	} else if !strings.Contains(err.Error(), "doc.pdf") {
		t.Errorf("Pairs() error = %q, want mention of doc.pdf", err)
	}
}

func TestPairsRequiresDirs(t *testing.T) {
	w := newTestWalker()
	if _, _, err := w.Pairs("", t.TempDir()); err == nil {
		t.Error("Pairs() with empty pdf dir: expected error, got nil")
	}
	if _, _, err := w.Pairs(t.TempDir(), ""); err == nil {
		t.Error("Pairs() with empty txt dir: expected error, got nil")
	}
}

func TestLoadPages(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{"three pages", "un\fdeux\ftrois", []string{"un", "deux", "trois"}},
		{"single page", "seule page", []string{"seule page"}},
		{"trailing separator", "page\f", []string{"page", ""}},
		{"empty file", "", []string{""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, strings.ReplaceAll(tt.name, " ", "_")+".txt")
			writeFile(t, path, tt.content)
			got, err := LoadPages(path)
			if err != nil {
				t.Fatalf("LoadPages() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("LoadPages() = %q, want %q", got, tt.want)
			}
		})
	}

	if _, err := LoadPages(filepath.Join(dir, "absent.txt")); err == nil {
		t.Error("LoadPages() on missing file: expected error, got nil")
	}
}

func TestLoadExclusions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exclude.txt")
	writeFile(t, path, "# doublons connus\nperil_13001_a.pdf\n\nperil_13008_b.pdf\n")

	w := newTestWalker()
	if err := w.LoadExclusions(path); err != nil {
		t.Fatalf("LoadExclusions() error = %v", err)
	}
	if len(w.Exclude) != 2 {
		t.Fatalf("len(Exclude) = %d, want 2", len(w.Exclude))
	}
	for _, name := range []string{"peril_13001_a.pdf", "peril_13008_b.pdf"} {
		if _, ok := w.Exclude[name]; !ok {
			t.Errorf("Exclude missing %q", name)
		}
	}

	if err := w.LoadExclusions(filepath.Join(t.TempDir(), "absent.txt")); err == nil {
		t.Error("LoadExclusions() on missing file: expected error, got nil")
	}
}

func TestCheckOutputs(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "paquet_arrete.csv")
	writeFile(t, existing, "idu\n")
	paths := []string{filepath.Join(dir, "paquet_adresse.csv"), existing}

	err := CheckOutputs(paths, false)
	if err == nil {
		t.Fatal("CheckOutputs() expected error for existing output, got nil")
	}
	if !strings.Contains(err.Error(), "paquet_arrete.csv") {
		t.Errorf("CheckOutputs() error = %q, want mention of paquet_arrete.csv", err)
	}

	if err := CheckOutputs(paths, true); err != nil {
		t.Errorf("CheckOutputs(redo) error = %v, want nil", err)
	}
	if err := CheckOutputs([]string{filepath.Join(dir, "paquet_notifie.csv")}, false); err != nil {
		t.Errorf("CheckOutputs(fresh) error = %v, want nil", err)
	}
}
