package aggregate

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/ampmetropole/arretes-peril/constants"
	"github.com/ampmetropole/arretes-peril/internal/address"
	"github.com/ampmetropole/arretes-peril/internal/geo"
)

func newTestPipeline() *Pipeline {
	return New(geo.Default(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

const accusePage = `Accusé de réception
Acte reçu par: Préfecture des Bouches du Rhône
Nature transaction: AR de transmission d'acte
Date d'émission de l'accusé de réception: 2021-06-02(GMT+1)
Nombre de pièces jointes: 1
Nom émetteur: 4 martigues
N° de SIREN: 211300561
Numéro Acte de la collectivité locale: RA21_21646
Objet acte: LE MAIRE SIGNE - Arrêté Municipal n. 446.2021 prononcant une interdiction temporaire d
acces et d habiter 2 rue leon gambetta à Martigues
Nature de l'acte: Actes individuels
Matière: 6.1-Police municipale
Identifiant Acte: 013-211300561-20210602-RA21_21646-AI`

func TestRunMarseilleDocument(t *testing.T) {
	page1 := `Le Maire de Marseille

EXTRAIT DU REGISTRE DES ARRÊTÉS N°2021_01234_VDM

Objet: Arrêté de mise en sécurité - procédure urgente - 7 rue du Commandant Rolland - 13008 MARSEILLE

Nous, Maire de Marseille,
Vu le code de la construction et de l'habitation,
Considérant l'immeuble sis 7 rue du Commandant Rolland, 13008 MARSEILLE, référence cadastrale n°208837 B0025, qui menace ruine,
Considérant que le syndicat des copropriétaires de cet immeuble est pris en la personne du Cabinet Dupont Gestion, syndic, sis 10 place de la Préfecture 13006 Marseille,

Fait à Marseille, le 3 mai 2021
Ville de Marseille, 2 quai du Port - 13233 MARSEILLE CEDEX 20
1/2`

	page2 := `Considérant que la situation justifie l'interdiction d'habiter et d'occuper les lieux,
Considérant que la démolition du mur pignon sur rue est nécessaire,
Considérant que LE SYNDICAT DES COPROPRIÉTAIRES de cet immeuble est pris en la personne du CABINET DUPONT GESTION, sis 10 place de la Préfecture 13006 Marseille,
Considérant l'immeuble sis 25 boulevard National, 13003 MARSEILLE, parcelle cadastrée n°208837 B0025,

Fait à Marseille, le 17 mai 2021
2/2`

	p := newTestPipeline()
	got, err := p.Run(Document{
		PDFName: "peril_13008_rolland.pdf",
		PDFPath: "data/pdf/peril_13008_rolland.pdf",
		TxtPath: "data/txt/peril_13008_rolland.txt",
		Pages:   []string{page1, page2},
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got.Status != constants.DocStatusParsed {
		t.Fatalf("Status = %q, want %q", got.Status, constants.DocStatusParsed)
	}
	if got.Pages != 2 {
		t.Errorf("Pages = %d, want 2", got.Pages)
	}

	arrete := got.Arrete
	for _, tt := range []struct {
		field string
		got   string
		want  string
	}{
		{"date", arrete.Date, "03/05/2021"},
		{"num", arrete.Num, "2021_01234_VDM"},
		{"nom", arrete.Nom, "Arrêté de mise en sécurité - procédure urgente - 7 rue du Commandant Rolland - 13008 MARSEILLE"},
		{"classification", arrete.Classification, string(constants.MiseEnSecurite)},
		{"proc_urgence", arrete.ProcUrgence, "oui"},
		{"demolition", arrete.Demolition, "oui"},
		{"interdiction", arrete.Interdiction, "oui"},
		{"equipcomm", arrete.EquipComm, ""},
		{"nom_pdf", arrete.NomPDF, "peril_13008_rolland.pdf"},
		{"url", arrete.URL, "data/pdf/peril_13008_rolland.pdf"},
		{"codeinsee", arrete.CodeInsee, "13208"},
	} {
		if tt.got != tt.want {
			t.Errorf("Arrete.%s = %q, want %q", tt.field, tt.got, tt.want)
		}
	}

	// the address family freezes on page 1; the page 2 zone is ignored
	if len(got.Adresses) != 1 {
		t.Fatalf("len(Adresses) = %d, want 1", len(got.Adresses))
	}
	adr := got.Adresses[0]
	for _, tt := range []struct {
		field string
		got   string
		want  string
	}{
		{"ad_brute", adr.AdBrute, "7 rue du Commandant Rolland - 13008 MARSEILLE"},
		{"adresse", adr.Adresse, "7 rue du Commandant Rolland 13008 MARSEILLE"},
		{"num", adr.Num, "7"},
		{"ind", adr.Ind, ""},
		{"voie", adr.Voie, "rue du Commandant Rolland"},
		{"cpostal", adr.CPostal, "13008"},
		{"ville", adr.Ville, "MARSEILLE"},
		{"codeinsee", adr.CodeInsee, "13208"},
	} {
		if tt.got != tt.want {
			t.Errorf("Adresse.%s = %q, want %q", tt.field, tt.got, tt.want)
		}
	}

	// the capital-letters repeat of the syndic on page 2 folds onto the
	// page 1 spelling
	if len(got.Notifies) != 1 {
		t.Fatalf("len(Notifies) = %d, want 1", len(got.Notifies))
	}
	notifie := got.Notifies[0]
	if notifie.IdeSyndic != "Cabinet Dupont Gestion" {
		t.Errorf("Notifie.IdeSyndic = %q, want %q", notifie.IdeSyndic, "Cabinet Dupont Gestion")
	}
	if notifie.IdePropri != "" || notifie.IdeGestio != "" {
		t.Errorf("Notifie owner/manager = %q/%q, want empty", notifie.IdePropri, notifie.IdeGestio)
	}
	if notifie.CodeInsee != "13208" {
		t.Errorf("Notifie.CodeInsee = %q, want %q", notifie.CodeInsee, "13208")
	}

	// the page 2 repeat of the parcel normalizes to the same identifier
	if len(got.Parcelles) != 1 {
		t.Fatalf("len(Parcelles) = %d, want 1", len(got.Parcelles))
	}
	if got.Parcelles[0].RefCad != "132088370B0025" {
		t.Errorf("Parcelle.RefCad = %q, want %q", got.Parcelles[0].RefCad, "132088370B0025")
	}
	if got.Parcelles[0].CodeInsee != "13208" {
		t.Errorf("Parcelle.CodeInsee = %q, want %q", got.Parcelles[0].CodeInsee, "13208")
	}
}

func TestRunEmptyDocument(t *testing.T) {
	p := newTestPipeline()
	got, err := p.Run(Document{
		PDFName: "peril_vide.pdf",
		PDFPath: "data/pdf/peril_vide.pdf",
		TxtPath: "data/txt/peril_vide.txt",
		Pages:   []string{"", ""},
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got.Status != constants.DocStatusEmpty {
		t.Errorf("Status = %q, want %q", got.Status, constants.DocStatusEmpty)
	}
	if got.Pages != 2 {
		t.Errorf("Pages = %d, want 2", got.Pages)
	}
	if got.Arrete.NomPDF != "peril_vide.pdf" || got.Arrete.URL != "data/pdf/peril_vide.pdf" {
		t.Errorf("stub Arrete = %+v, want nom_pdf and url only", got.Arrete)
	}
	if len(got.Adresses) != 0 || len(got.Notifies) != 0 || len(got.Parcelles) != 0 {
		t.Errorf("stub families = %d/%d/%d rows, want none",
			len(got.Adresses), len(got.Notifies), len(got.Parcelles))
	}
}

func TestRunKeepsFirstAddress(t *testing.T) {
	p := newTestPipeline()
	got, err := p.Run(Document{
		PDFName: "peril_martine.pdf",
		Pages: []string{
			"Nous, Maire de Marseille,\nVu le code général des collectivités territoriales,",
			"Considérant les désordres constatés dans l'immeuble sis 4 traverse de la Martine, 13011 MARSEILLE, il y a urgence,",
			"Vu le rapport des services municipaux,",
			"Considérant l'immeuble sis 9 boulevard Longchamp, 13001 MARSEILLE,",
		},
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(got.Adresses) != 1 {
		t.Fatalf("len(Adresses) = %d, want 1", len(got.Adresses))
	}
	adr := got.Adresses[0]
	if adr.AdBrute != "4 traverse de la Martine, 13011 MARSEILLE" {
		t.Errorf("AdBrute = %q, want the page 2 zone", adr.AdBrute)
	}
	if adr.Voie != "traverse de la Martine" || adr.CPostal != "13011" {
		t.Errorf("Voie/CPostal = %q/%q, want %q/%q", adr.Voie, adr.CPostal, "traverse de la Martine", "13011")
	}
	if adr.CodeInsee != "13211" {
		t.Errorf("CodeInsee = %q, want %q", adr.CodeInsee, "13211")
	}
	if got.Arrete.CodeInsee != "13211" {
		t.Errorf("Arrete.CodeInsee = %q, want %q", got.Arrete.CodeInsee, "13211")
	}
}

func TestRunFoldsPartyVariants(t *testing.T) {
	p := newTestPipeline()
	got, err := p.Run(Document{
		PDFName: "peril_gemenos.pdf",
		Pages: []string{
			"Le Maire de Gémenos,\nConsidérant que l'immeuble appartient en toute propriété à Madame Chloé MARTIN, domiciliée 5 rue des Écoles 13420 Gémenos,",
			"Rappelant que l'immeuble appartient en toute propriété à MADAME CHLOE MARTIN, domiciliée 5 rue des Écoles 13420 Gémenos,",
		},
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(got.Notifies) != 1 {
		t.Fatalf("len(Notifies) = %d, want 1", len(got.Notifies))
	}
	if got.Notifies[0].IdePropri != "Madame Chloé MARTIN" {
		t.Errorf("IdePropri = %q, want the first spelling", got.Notifies[0].IdePropri)
	}
	// no zone context on either page: the notifie row still comes out,
	// with no INSEE code to carry
	if len(got.Adresses) != 0 {
		t.Errorf("len(Adresses) = %d, want 0", len(got.Adresses))
	}
	if got.Notifies[0].CodeInsee != "" {
		t.Errorf("Notifie.CodeInsee = %q, want empty", got.Notifies[0].CodeInsee)
	}
}

func TestRunParcelBeforeAddress(t *testing.T) {
	p := newTestPipeline()
	got, err := p.Run(Document{
		PDFName: "peril_gardanne.pdf",
		Pages: []string{
			"Vu le plan cadastral, parcelle cadastrée section AB n°17, commune de Gardanne,",
			"Considérant l'immeuble sis 12 boulevard Carnot, 13120 GARDANNE,",
		},
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(got.Parcelles) != 1 {
		t.Fatalf("len(Parcelles) = %d, want 1", len(got.Parcelles))
	}
	// the reference was normalized on page 1, before any address fixed the
	// commune: the identifier keeps its empty INSEE prefix, the row carries
	// the one resolved later
	if got.Parcelles[0].RefCad != "000AB0017" {
		t.Errorf("RefCad = %q, want %q", got.Parcelles[0].RefCad, "000AB0017")
	}
	if got.Parcelles[0].CodeInsee != "13041" {
		t.Errorf("Parcelle.CodeInsee = %q, want %q", got.Parcelles[0].CodeInsee, "13041")
	}
	if len(got.Adresses) != 1 || got.Adresses[0].CodeInsee != "13041" {
		t.Fatalf("Adresses = %+v, want one Gardanne row", got.Adresses)
	}
	if got.Arrete.CodeInsee != "13041" {
		t.Errorf("Arrete.CodeInsee = %q, want %q", got.Arrete.CodeInsee, "13041")
	}
}

func TestRunCoherenceAbort(t *testing.T) {
	p := newTestPipeline()
	_, err := p.Run(Document{
		PDFName: "peril_incoherent.pdf",
		Pages: []string{
			"Considérant l'immeuble sis 12 rue de la République, 13001 GÉMENOS, qui menace ruine,",
		},
	})
	if err == nil {
		t.Fatal("Run() error = nil, want coherence failure")
	}
	var cohErr *address.CoherenceError
	if !errors.As(err, &cohErr) {
		t.Fatalf("Run() error = %v, want *address.CoherenceError", err)
	}
	if cohErr.CPostal != "13001" || cohErr.Ville != "GÉMENOS" {
		t.Errorf("CoherenceError = %s/%s, want 13001/GÉMENOS", cohErr.CPostal, cohErr.Ville)
	}
	if cohErr.Voie != "rue de la République" {
		t.Errorf("CoherenceError.Voie = %q, want %q", cohErr.Voie, "rue de la République")
	}
}

func TestRunBlanksTemplatePages(t *testing.T) {
	p := newTestPipeline()
	got, err := p.Run(Document{
		PDFName: "peril_aix.pdf",
		Pages: []string{
			// the trailing date line must disappear with the page
			accusePage + "\nFait à Marseille, le 01/01/1999",
			"Nous, Maire de Gémenos,\nObjet: Arrêté de mise en sécurité - procédure ordinaire\nFait à Gémenos, le 05/04/2021",
			// formality sheet on the last page, with a party mention
			"BORDEREAU DE FORMALITES\nConsidérant que le syndicat des copropriétaires est pris en la personne du Cabinet Féraud, sis 1 rue Basse 13420 Gémenos,",
		},
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got.Status != constants.DocStatusParsed {
		t.Fatalf("Status = %q, want %q", got.Status, constants.DocStatusParsed)
	}
	if got.Pages != 3 {
		t.Errorf("Pages = %d, want 3", got.Pages)
	}
	if got.Arrete.Date != "05/04/2021" {
		t.Errorf("Date = %q, want the body page date", got.Arrete.Date)
	}
	if got.Arrete.Nom != "Arrêté de mise en sécurité - procédure ordinaire" {
		t.Errorf("Nom = %q, want the Objet line", got.Arrete.Nom)
	}
	if got.Arrete.Classification != string(constants.MiseEnSecurite) {
		t.Errorf("Classification = %q, want %q", got.Arrete.Classification, constants.MiseEnSecurite)
	}
	if got.Arrete.ProcUrgence != constants.UrgenceNon {
		t.Errorf("ProcUrgence = %q, want %q", got.Arrete.ProcUrgence, constants.UrgenceNon)
	}
	if len(got.Notifies) != 1 {
		t.Fatalf("len(Notifies) = %d, want 1", len(got.Notifies))
	}
	if got.Notifies[0].IdeSyndic != "" {
		t.Errorf("IdeSyndic = %q, want empty: the formality sheet is not order text", got.Notifies[0].IdeSyndic)
	}
}
