package geo

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"
)

func TestLoad(t *testing.T) {
	k, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if len(k.communes) < 90 {
		t.Errorf("loaded %d communes, want at least 90", len(k.communes))
	}
}

func TestSimplify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Gardanne", "gardanne"},
		{"hyphens", "Aix-en-Provence", "aixenprovence"},
		{"spaces for hyphens", "Aix en Provence", "aixenprovence"},
		{"accents", "Gémenos", "gemenos"},
		{"apostrophe", "Berre-l'Étang", "berreletang"},
		{"uppercase", "CHATEAUNEUF LES MARTIGUES", "chateauneuflesmartigues"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Simplify(tt.in); got != tt.want {
				t.Errorf("Simplify(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestInseeCode(t *testing.T) {
	k, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	tests := []struct {
		name    string
		commune string
		cpostal string
		want    string
	}{
		{"marseille arrondissement by cp", "Marseille", "13001", "13201"},
		{"marseille arrondissement by cp 16", "MARSEILLE", "13016", "13216"},
		{"marseille arrondissement by name", "Marseille 7e", "", "13207"},
		{"marseille arrondissement ordinal", "Marseille 1er", "", "13201"},
		{"marseille whole", "Marseille", "", "13055"},
		{"plain commune", "Gardanne", "", "13041"},
		{"accentless spelling", "Gemenos", "13420", "13042"},
		{"spaces for hyphens", "Aix en Provence", "", "13001"},
		{"outside metropole", "Lyon", "69001", ""},
		{"empty commune", "", "13001", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := k.InseeCode(tt.commune, tt.cpostal); got != tt.want {
				t.Errorf("InseeCode(%q, %q) = %q, want %q", tt.commune, tt.cpostal, got, tt.want)
			}
		})
	}
}

func TestPostalCode(t *testing.T) {
	k, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	tests := []struct {
		name    string
		commune string
		insee   string
		want    string
	}{
		{"arrondissement back to cp", "Marseille", "13207", "13007"},
		{"single cp commune", "Martigues", "13056", "13500"},
		{"by name only", "Roquevaire", "", "13360"},
		{"multi cp commune empty", "Aix-en-Provence", "13001", ""},
		{"marseille whole empty", "Marseille", "13055", ""},
		{"unknown", "Lyon", "69381", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := k.PostalCode(tt.commune, tt.insee); got != tt.want {
				t.Errorf("PostalCode(%q, %q) = %q, want %q", tt.commune, tt.insee, got, tt.want)
			}
		})
	}
}

func TestNamePattern(t *testing.T) {
	k, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	re := regexp.MustCompile(`(?i)^` + k.NamePattern() + `$`)

	matches := []string{
		"Marseille",
		"MARSEILLE 7e",
		"Marseille 1er",
		"Aix-en-Provence",
		"AIX EN PROVENCE",
		"Chateauneuf-les-Martigues",
		"Berre l'Etang",
		"Peyrolles-en-Provence",
	}
	for _, s := range matches {
		if !re.MatchString(s) {
			t.Errorf("NamePattern should match %q", s)
		}
	}

	rejects := []string{"Lyon", "Paris", ""}
	for _, s := range rejects {
		if re.MatchString(s) {
			t.Errorf("NamePattern should not match %q", s)
		}
	}
}

func TestIsMarseilleCP(t *testing.T) {
	tests := []struct {
		cp   string
		want bool
	}{
		{"13001", true},
		{"13016", true},
		{"13017", false},
		{"13100", false},
		{"13055", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsMarseilleCP(tt.cp); got != tt.want {
			t.Errorf("IsMarseilleCP(%q) = %v, want %v", tt.cp, got, tt.want)
		}
	}
}

func TestApplyOverrideFile(t *testing.T) {
	k, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "override.json")
	doc := `{"communes": [
		{"commune": "Gardanne", "code_insee": "13041", "code_postal": "13541"},
		{"commune": "Villeneuve", "code_insee": "13999", "code_postal": "13998"}
	]}`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := k.ApplyOverrideFile(path); err != nil {
		t.Fatalf("ApplyOverrideFile() failed: %v", err)
	}
	if got := k.PostalCode("Gardanne", ""); got != "13541" {
		t.Errorf("override did not replace Gardanne postal code, got %q", got)
	}
	if got := k.InseeCode("Villeneuve", ""); got != "13999" {
		t.Errorf("override did not add Villeneuve, got %q", got)
	}
}

func TestApplyOverrideFileRejectsBadShape(t *testing.T) {
	k, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	doc := `{"communes": [{"commune": "Gardanne", "code_insee": "insee"}]}`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := k.ApplyOverrideFile(path); err == nil {
		t.Error("ApplyOverrideFile() should reject a non-numeric code_insee")
	}
}
