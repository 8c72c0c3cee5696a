package entity

// Notifie is the notified-parties row produced for each document.
//
// IdePropri, IdeSyndic and IdeGestio carry the first detected owner,
// syndic and manager. NomPropri and NomSyndic are reserved columns and
// are emitted empty.
type Notifie struct {
	Idu       string `json:"idu"`
	IdePropri string `json:"ide_propri"`
	NomPropri string `json:"nom_propri"`
	IdeSyndic string `json:"ide_syndic"`
	NomSyndic string `json:"nom_syndic"`
	IdeGestio string `json:"ide_gestio"`
	CodeInsee string `json:"codeinsee"`
	Datemaj   string `json:"datemaj"`
}
