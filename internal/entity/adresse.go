package entity

// Adresse is one normalized address row extracted from an order document.
//
// AdBrute keeps the raw address zone as found on the page; the remaining
// fields are the decomposed and resolved parts.
type Adresse struct {
	Idu       string `json:"idu"`
	AdBrute   string `json:"ad_brute"`
	Adresse   string `json:"adresse"`
	Num       string `json:"num"`
	Ind       string `json:"ind"`
	Voie      string `json:"voie"`
	Compl     string `json:"compl"`
	CPostal   string `json:"cpostal"`
	Ville     string `json:"ville"`
	CodeInsee string `json:"codeinsee"`
	Datemaj   string `json:"datemaj"`
}
