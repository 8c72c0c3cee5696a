package aggregate

import "github.com/ampmetropole/arretes-peril/internal/entity"

// State is the aggregation state of one document. Scalar slots freeze on
// their first non-empty value; later pages cannot overwrite them. The
// address family freezes as a block on the first page whose body carries
// an address zone, and fixes CodeInsee and CPostal for the rest of the
// document. Party and parcel sets accumulate over every page.
type State struct {
	DateRaw      string // as written; canonicalized at finalization
	Num          string
	Nom          string
	CommuneMaire string // hint for address resolution

	Classification string
	ProcUrgence    string
	Demolition     string
	Interdiction   string
	EquipComm      string

	Adresses  []entity.Adresse
	CodeInsee string
	CPostal   string

	Proprios  *OrderedSet
	Syndics   *OrderedSet
	Gestions  *OrderedSet
	Parcelles *OrderedSet
}

// NewState returns an empty state: nothing frozen, all sets empty.
func NewState() *State {
	return &State{
		Proprios:  NewFoldedSet(),
		Syndics:   NewFoldedSet(),
		Gestions:  NewFoldedSet(),
		Parcelles: NewOrderedSet(),
	}
}

// freeze writes v into an empty slot. A slot holding a non-empty value
// is frozen; empty candidates never freeze anything.
func freeze(slot *string, v string) {
	if *slot == "" && v != "" {
		*slot = v
	}
}
