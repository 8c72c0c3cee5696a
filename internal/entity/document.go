package entity

import "github.com/ampmetropole/arretes-peril/constants"

// DocExtraction carries everything extracted from one order document,
// for data transfer between the aggregation and export layers.
type DocExtraction struct {
	PDFName   string              `json:"pdf_name"`
	TxtPath   string              `json:"txt_path"`
	Status    constants.DocStatus `json:"status"`
	Pages     int                 `json:"pages"`
	Adresses  []Adresse           `json:"adresses"`
	Arrete    Arrete              `json:"arrete"`
	Notifies  []Notifie           `json:"notifies"`
	Parcelles []Parcelle          `json:"parcelles"`
}
