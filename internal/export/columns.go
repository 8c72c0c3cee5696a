package export

import "github.com/ampmetropole/arretes-peril/internal/entity"

// Column order is part of the output contract: idu first, the table's
// fields, datemaj last.
var (
	adresseHeader = []string{
		"idu", "ad_brute", "adresse", "num", "ind", "voie", "compl",
		"cpostal", "ville", "codeinsee", "datemaj",
	}
	arreteHeader = []string{
		"idu", "date", "num", "nom", "classification", "proc_urgence",
		"demolition", "interdiction", "equipcomm", "nom_pdf", "url",
		"codeinsee", "datemaj",
	}
	notifieHeader = []string{
		"idu", "ide_propri", "nom_propri", "ide_syndic", "nom_syndic",
		"ide_gestio", "codeinsee", "datemaj",
	}
	parcelleHeader = []string{
		"idu", "ref_cad", "codeinsee", "datemaj",
	}
)

// grid is one table flattened to strings, ready for a writer.
type grid struct {
	Name   string
	Header []string
	Rows   [][]string
}

func (t Tables) grids() []grid {
	return []grid{
		{TableAdresse, adresseHeader, adresseRows(t.Adresses)},
		{TableArrete, arreteHeader, arreteRows(t.Arretes)},
		{TableNotifie, notifieHeader, notifieRows(t.Notifies)},
		{TableParcelle, parcelleHeader, parcelleRows(t.Parcelles)},
	}
}

func adresseRows(rows []entity.Adresse) [][]string {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{
			r.Idu, r.AdBrute, r.Adresse, r.Num, r.Ind, r.Voie, r.Compl,
			r.CPostal, r.Ville, r.CodeInsee, r.Datemaj,
		})
	}
	return out
}

func arreteRows(rows []entity.Arrete) [][]string {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{
			r.Idu, r.Date, r.Num, r.Nom, r.Classification, r.ProcUrgence,
			r.Demolition, r.Interdiction, r.EquipComm, r.NomPDF, r.URL,
			r.CodeInsee, r.Datemaj,
		})
	}
	return out
}

func notifieRows(rows []entity.Notifie) [][]string {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{
			r.Idu, r.IdePropri, r.NomPropri, r.IdeSyndic, r.NomSyndic,
			r.IdeGestio, r.CodeInsee, r.Datemaj,
		})
	}
	return out
}

func parcelleRows(rows []entity.Parcelle) [][]string {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{r.Idu, r.RefCad, r.CodeInsee, r.Datemaj})
	}
	return out
}
