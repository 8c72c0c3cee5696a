package entity

// Arrete is the single order row produced for each document.
//
// Scalar fields stay empty when no page of the document yields a value.
// URL points at the published copy of the source PDF when the signature
// year is known, otherwise at the source path itself.
type Arrete struct {
	Idu            string `json:"idu"`
	Date           string `json:"date"`
	Num            string `json:"num"`
	Nom            string `json:"nom"`
	Classification string `json:"classification"`
	ProcUrgence    string `json:"proc_urgence"`
	Demolition     string `json:"demolition"`
	Interdiction   string `json:"interdiction"`
	EquipComm      string `json:"equipcomm"`
	NomPDF         string `json:"nom_pdf"`
	URL            string `json:"url"`
	CodeInsee      string `json:"codeinsee"`
	Datemaj        string `json:"datemaj"`
}
