package export

import (
	"encoding/csv"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/ampmetropole/arretes-peril/internal/entity"
)

func newTestWriter() *Writer {
	return NewWriter(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func testRunDate() time.Time {
	return time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC)
}

func TestCollectorStampsRows(t *testing.T) {
	c := NewCollector("https://example.test/peril", testRunDate())

	c.Add(&entity.DocExtraction{
		PDFName: "peril_13008_rolland.pdf",
		Arrete: entity.Arrete{
			Date:      "03/05/2021",
			Num:       "2021_01234_VDM",
			NomPDF:    "peril_13008_rolland.pdf",
			URL:       "data/pdf/peril_13008_rolland.pdf",
			CodeInsee: "13208",
		},
		Adresses:  []entity.Adresse{{AdBrute: "7 rue du Commandant Rolland", CodeInsee: "13208"}},
		Notifies:  []entity.Notifie{{IdeSyndic: "Cabinet Dupont Gestion", CodeInsee: "13208"}},
		Parcelles: []entity.Parcelle{{RefCad: "132088370B0025", CodeInsee: "13208"}},
	})
	c.Add(&entity.DocExtraction{
		PDFName: "peril_vide.pdf",
		Arrete:  entity.Arrete{NomPDF: "peril_vide.pdf", URL: "data/pdf/peril_vide.pdf"},
	})

	if got := c.Docs(); got != 2 {
		t.Fatalf("Docs() = %d, want 2", got)
	}
	tables := c.Tables()
	if got := tables.Rows(); got != 5 {
		t.Fatalf("Rows() = %d, want 5", got)
	}

	first := tables.Arretes[0]
	if first.Idu != "id_0000" {
		t.Errorf("arrete idu = %q, want id_0000", first.Idu)
	}
	if first.Datemaj != "15/03/2024" {
		t.Errorf("arrete datemaj = %q, want 15/03/2024", first.Datemaj)
	}
	if want := "https://example.test/peril/2021/peril_13008_rolland.pdf"; first.URL != want {
		t.Errorf("arrete url = %q, want %q", first.URL, want)
	}

	for name, got := range map[string]string{
		"adresse":  tables.Adresses[0].Idu,
		"notifie":  tables.Notifies[0].Idu,
		"parcelle": tables.Parcelles[0].Idu,
	} {
		if got != "id_0000" {
			t.Errorf("%s idu = %q, want id_0000", name, got)
		}
	}

	second := tables.Arretes[1]
	if second.Idu != "id_0001" {
		t.Errorf("stub idu = %q, want id_0001", second.Idu)
	}
	if second.URL != "data/pdf/peril_vide.pdf" {
		t.Errorf("stub url = %q, want the source path", second.URL)
	}
}

func testTables() Tables {
	return Tables{
		Adresses: []entity.Adresse{{
			Idu: "id_0000", AdBrute: "7 rue X - 13008 MARSEILLE", Adresse: "7 rue X 13008 MARSEILLE",
			Num: "7", Voie: "rue X", CPostal: "13008", Ville: "MARSEILLE",
			CodeInsee: "13208", Datemaj: "15/03/2024",
		}},
		Arretes: []entity.Arrete{{
			Idu: "id_0000", Date: "03/05/2021", Num: "2021_01234_VDM",
			Nom: "mise en sécurité, procédure urgente", Classification: "mise en sécurité",
			ProcUrgence: "oui", NomPDF: "a.pdf", URL: "https://example.test/peril/2021/a.pdf",
			CodeInsee: "13208", Datemaj: "15/03/2024",
		}},
		Notifies: []entity.Notifie{{
			Idu: "id_0000", IdeSyndic: "Cabinet Dupont Gestion",
			CodeInsee: "13208", Datemaj: "15/03/2024",
		}},
		Parcelles: []entity.Parcelle{{
			Idu: "id_0000", RefCad: "132088370B0025", CodeInsee: "13208", Datemaj: "15/03/2024",
		}},
	}
}

func TestWriteCSV(t *testing.T) {
	dir := t.TempDir()
	w := newTestWriter()

	if err := w.WriteCSV(dir, testTables()); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}

	for _, p := range OutputPaths(dir) {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("missing output %s: %v", p, err)
		}
	}

	f, err := os.Open(filepath.Join(dir, "paquet_arrete.csv"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}

	want := [][]string{
		{"idu", "date", "num", "nom", "classification", "proc_urgence",
			"demolition", "interdiction", "equipcomm", "nom_pdf", "url",
			"codeinsee", "datemaj"},
		{"id_0000", "03/05/2021", "2021_01234_VDM",
			"mise en sécurité, procédure urgente", "mise en sécurité",
			"oui", "", "", "", "a.pdf", "https://example.test/peril/2021/a.pdf",
			"13208", "15/03/2024"},
	}
	if !reflect.DeepEqual(records, want) {
		t.Errorf("paquet_arrete.csv = %q, want %q", records, want)
	}
}

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "paquets.xlsx")
	w := newTestWriter()

	if err := w.WriteXLSX(path, testTables()); err != nil {
		t.Fatalf("WriteXLSX() error = %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer func() { _ = f.Close() }()

	wantSheets := []string{"adresse", "arrete", "notifie", "parcelle"}
	if got := f.GetSheetList(); !reflect.DeepEqual(got, wantSheets) {
		t.Fatalf("sheets = %v, want %v", got, wantSheets)
	}

	for _, tt := range []struct {
		sheet, cell, want string
	}{
		{"arrete", "A1", "idu"},
		{"arrete", "B2", "03/05/2021"},
		{"adresse", "B2", "7 rue X - 13008 MARSEILLE"},
		{"notifie", "D2", "Cabinet Dupont Gestion"},
		{"parcelle", "B2", "132088370B0025"},
	} {
		got, err := f.GetCellValue(tt.sheet, tt.cell)
		if err != nil {
			t.Fatalf("GetCellValue(%s!%s): %v", tt.sheet, tt.cell, err)
		}
		if got != tt.want {
			t.Errorf("%s!%s = %q, want %q", tt.sheet, tt.cell, got, tt.want)
		}
	}
}

func TestOutputPaths(t *testing.T) {
	got := OutputPaths("/tmp/out")
	want := []string{
		"/tmp/out/paquet_adresse.csv",
		"/tmp/out/paquet_arrete.csv",
		"/tmp/out/paquet_notifie.csv",
		"/tmp/out/paquet_parcelle.csv",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("OutputPaths() = %v, want %v", got, want)
	}
}
