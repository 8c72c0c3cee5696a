package aggregate

import (
	"github.com/ampmetropole/arretes-peril/internal/address"
	"github.com/ampmetropole/arretes-peril/internal/cadastre"
	"github.com/ampmetropole/arretes-peril/internal/hazard"
	"github.com/ampmetropole/arretes-peril/internal/parties"
)

// PageFields holds every detector hit for one page body, as written on
// the page. The empty string marks a miss. Normalization happens when a
// value is folded into the document state, not here.
type PageFields struct {
	AdresseBrute   string // first address zone of the page
	DateArrete     string
	NumArrete      string
	NomArrete      string
	CommuneMaire   string
	Classification string
	ProcUrgence    string
	Demolition     string
	Interdiction   string
	EquipComm      string
	Proprietaire   string
	Syndic         string
	Gestionnaire   string
	RefCadastrale  string
}

// ExtractPageFields runs every detector over one page body.
func ExtractPageFields(body string) PageFields {
	return PageFields{
		AdresseBrute:   address.ExtractZone(body),
		DateArrete:     hazard.Date(body),
		NumArrete:      hazard.Num(body),
		NomArrete:      hazard.Nom(body),
		CommuneMaire:   hazard.CommuneOfAuthority(body),
		Classification: hazard.Classification(body),
		ProcUrgence:    hazard.Urgence(body),
		Demolition:     hazard.Demolition(body),
		Interdiction:   hazard.InterdictionHabiter(body),
		EquipComm:      hazard.EquipementsCommuns(body),
		Proprietaire:   parties.Proprio(body),
		Syndic:         parties.Syndic(body),
		Gestionnaire:   parties.Gestionnaire(body),
		RefCadastrale:  cadastre.Parcelle(body),
	}
}
