package hazard

import "testing"

func TestDate(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "fait a commune",
			text: "les travaux devront commencer sans délai.\nFait à Gémenos, le 2 janvier 2023\nLe Maire",
			want: "2 janvier 2023",
		},
		{
			// the Marseille text layer puts two spaces after the colon
			name: "signe le",
			text: "Signé le :  15/03/2022\nNous, Maire de Marseille",
			want: "15/03/2022",
		},
		{
			name: "gardanne header",
			text: "Gardanne, le 01.02.2021\nNos Réf : ST-2021-014",
			want: "01.02.2021",
		},
		{
			name: "arrete numero du",
			text: "Arrêté n° 2021-012\nportant péril ordinaire du 3 mai 2021",
			want: "3 mai 2021",
		},
		{
			name: "no date",
			text: "Vu le code de la construction et de l'habitation,",
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Date(tt.text); got != tt.want {
				t.Errorf("Date() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNum(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "registre",
			text: "EXTRAIT DU REGISTRE DES ARRÊTÉS N° 2023/042\ndu Maire de Roquevaire",
			want: "2023/042",
		},
		{
			name: "nos ref",
			text: "Gardanne, le 12.05.2021\nNos Réf : ST-2021-014\nObjet: Péril",
			want: "ST-2021-014",
		},
		{
			name: "decision",
			text: "Décision N° 2022_01024_VDM du 12/04/2022",
			want: "2022_01024_VDM du 12/04/2022",
		},
		{
			name: "fallback bare numero",
			text: "N° 22/2021\nportant mise en sécurité",
			want: "22/2021",
		},
		{
			name: "fallback gemenos reference",
			text: "ARR-JUR-2021-05\nLe Maire de Gémenos",
			want: "2021-05",
		},
		{
			name: "no number",
			text: "Considérant le rapport des services techniques,",
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Num(tt.text); got != tt.want {
				t.Errorf("Num() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNom(t *testing.T) {
	got := Nom("Dossier suivi par : M. Untel\nObjet: Arrêté de mise en sécurité - 12 rue de la République\nNous, Maire de Gardanne")
	want := "Arrêté de mise en sécurité - 12 rue de la République"
	if got != want {
		t.Errorf("Nom() = %q, want %q", got, want)
	}
	if got := Nom("aucun objet ici"); got != "" {
		t.Errorf("Nom() = %q, want empty", got)
	}
}

func TestCommuneOfAuthority(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "le maire de la commune de",
			text: "Le Maire de la Commune de Gémenos,\nVu le code général des collectivités territoriales,",
			want: "Gémenos",
		},
		{
			name: "nous maire de",
			text: "Nous, Maire de Marseille,\nVu le code de la construction,",
			want: "Marseille",
		},
		{
			name: "nous with name",
			text: "Nous, Danielle MILON, Maire de Cassis,",
			want: "Cassis",
		},
		{
			name: "maire d apostrophe",
			text: "Le Maire d'Aix-en-Provence,",
			want: "Aix-en-Provence",
		},
		{
			name: "stamp cleanup",
			text: "Nous, Maire de Tarascon CB Accusé de réception en préfecture",
			want: "Tarascon",
		},
		{
			name: "no authority",
			text: "ARRÊTE\nArticle 1er : les travaux sont prescrits.",
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CommuneOfAuthority(tt.text); got != tt.want {
				t.Errorf("CommuneOfAuthority() = %q, want %q", got, tt.want)
			}
		})
	}
}
