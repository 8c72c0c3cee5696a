package entity

// Parcelle is one cadastral parcel row extracted from an order document.
type Parcelle struct {
	Idu       string `json:"idu"`
	RefCad    string `json:"ref_cad"`
	CodeInsee string `json:"codeinsee"`
	Datemaj   string `json:"datemaj"`
}
