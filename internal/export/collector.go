// Package export stamps the rows extracted from a batch and writes the
// four output tables as CSV files and, on request, one XLSX workbook.
package export

import (
	"fmt"
	"time"

	"github.com/ampmetropole/arretes-peril/internal/dates"
	"github.com/ampmetropole/arretes-peril/internal/entity"
)

// Output table names, shared by the CSV files, the workbook sheets and
// the store.
const (
	TableAdresse  = "adresse"
	TableArrete   = "arrete"
	TableNotifie  = "notifie"
	TableParcelle = "parcelle"
)

// Collector stamps and accumulates the rows of a run, one document at a
// time, in enumeration order.
//
// Every row of a document shares one identifier, id_%04d over the
// document index, and carries the run date in datemaj. The document URL
// is rewritten to its published location once the signature year is
// known; otherwise it keeps pointing at the source file.
type Collector struct {
	BaseURL string
	RunDate time.Time

	docs      int
	adresses  []entity.Adresse
	arretes   []entity.Arrete
	notifies  []entity.Notifie
	parcelles []entity.Parcelle
}

func NewCollector(baseURL string, runDate time.Time) *Collector {
	return &Collector{BaseURL: baseURL, RunDate: runDate}
}

// Add stamps one document's rows and appends them to the tables.
func (c *Collector) Add(doc *entity.DocExtraction) {
	idu := fmt.Sprintf("id_%04d", c.docs)
	c.docs++
	datemaj := c.RunDate.Format("02/01/2006")

	arr := doc.Arrete
	arr.Idu = idu
	arr.Datemaj = datemaj
	if year, ok := dates.Year(arr.Date); ok && c.BaseURL != "" {
		arr.URL = fmt.Sprintf("%s/%d/%s", c.BaseURL, year, doc.PDFName)
	}
	c.arretes = append(c.arretes, arr)

	for _, a := range doc.Adresses {
		a.Idu = idu
		a.Datemaj = datemaj
		c.adresses = append(c.adresses, a)
	}
	for _, n := range doc.Notifies {
		n.Idu = idu
		n.Datemaj = datemaj
		c.notifies = append(c.notifies, n)
	}
	for _, p := range doc.Parcelles {
		p.Idu = idu
		p.Datemaj = datemaj
		c.parcelles = append(c.parcelles, p)
	}
}

// Docs returns the number of documents added so far.
func (c *Collector) Docs() int { return c.docs }

// Tables returns the accumulated rows grouped per output table.
func (c *Collector) Tables() Tables {
	return Tables{
		Adresses:  c.adresses,
		Arretes:   c.arretes,
		Notifies:  c.notifies,
		Parcelles: c.parcelles,
	}
}

// Tables groups the four output tables of one run.
type Tables struct {
	Adresses  []entity.Adresse
	Arretes   []entity.Arrete
	Notifies  []entity.Notifie
	Parcelles []entity.Parcelle
}

// Rows returns the total number of rows across the four tables.
func (t Tables) Rows() int {
	return len(t.Adresses) + len(t.Arretes) + len(t.Notifies) + len(t.Parcelles)
}
