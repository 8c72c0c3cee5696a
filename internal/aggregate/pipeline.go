// Package aggregate folds per-page detector hits into the four record
// families of one order: addresses, the order row, notified parties and
// cadastral parcels. Scalar fields keep the first non-empty page value,
// parties and parcels accumulate into insertion-ordered deduplicated
// sets, and the first page carrying an address zone fixes the document
// addresses, INSEE code and postal code.
package aggregate

import (
	"fmt"
	"log/slog"

	"github.com/ampmetropole/arretes-peril/constants"
	"github.com/ampmetropole/arretes-peril/internal/address"
	"github.com/ampmetropole/arretes-peril/internal/cadastre"
	"github.com/ampmetropole/arretes-peril/internal/dates"
	"github.com/ampmetropole/arretes-peril/internal/entity"
	"github.com/ampmetropole/arretes-peril/internal/geo"
	"github.com/ampmetropole/arretes-peril/internal/template"
	"github.com/ampmetropole/arretes-peril/internal/textutil"
)

// Document is one order to analyze: its PDF identity and the page texts
// in PDF order, one string per page.
type Document struct {
	PDFName string
	PDFPath string // source reference, kept in the url column
	TxtPath string
	Pages   []string
}

// Pipeline aggregates detector output document by document.
type Pipeline struct {
	Logger   *slog.Logger
	Resolver *address.Resolver
}

func New(know *geo.Knowledge, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{Logger: logger, Resolver: address.NewResolver(know)}
}

// Run extracts the record families of one document. A document without
// any page text yields a stub order record and empty families. A
// coherence failure during address resolution aborts the document.
func (p *Pipeline) Run(doc Document) (entity.DocExtraction, error) {
	if !hasText(doc.Pages) {
		p.Logger.Warn("aggregate.doc.empty", "pdf", doc.PDFName)
		return entity.DocExtraction{
			PDFName: doc.PDFName,
			TxtPath: doc.TxtPath,
			Status:  constants.DocStatusEmpty,
			Pages:   len(doc.Pages),
			Arrete:  entity.Arrete{NomPDF: doc.PDFName, URL: doc.PDFPath},
		}, nil
	}

	bodies, fields := p.classifyPages(doc)

	st := NewState()
	p.collectIdentity(doc, st, fields)
	if err := p.collectBody(doc, st, bodies, fields); err != nil {
		return entity.DocExtraction{}, err
	}
	return p.finalize(doc, st), nil
}

// classifyPages blanks accusé de réception and trailing annex pages,
// keeping their slot so page numbers stay aligned with the PDF, then
// strips template furniture and runs the detectors on what remains.
func (p *Pipeline) classifyPages(doc Document) ([]string, []PageFields) {
	bodies := make([]string, len(doc.Pages))
	var accuse []int
	for i, raw := range doc.Pages {
		switch template.ClassifyPage(raw, i+1, len(doc.Pages)) {
		case template.PageAccuse:
			accuse = append(accuse, i+1)
		case template.PageBordereau:
			p.Logger.Info("aggregate.annex.blanked", "pdf", doc.PDFName, "page", i+1)
		default:
			bodies[i] = template.Strip(raw)
		}
	}
	if len(accuse) > 0 {
		p.Logger.Warn("aggregate.accuse.blanked",
			"pdf", doc.PDFName, "count", len(accuse), "pages", accuse)
	}

	fields := make([]PageFields, len(doc.Pages))
	for i, body := range bodies {
		if body != "" {
			fields[i] = ExtractPageFields(body)
		}
	}
	return bodies, fields
}

// collectIdentity freezes the identity fields on their first non-empty
// hit over the page sequence. The commune of the issuing authority, used
// as the hint for address resolution, falls back on the letterhead when
// no authority formula matched.
func (p *Pipeline) collectIdentity(doc Document, st *State, fields []PageFields) {
	for _, pf := range fields {
		freeze(&st.DateRaw, pf.DateArrete)
		freeze(&st.Num, textutil.Normalize(pf.NumArrete))
		freeze(&st.Nom, textutil.Normalize(pf.NomArrete))
		freeze(&st.CommuneMaire, textutil.Normalize(pf.CommuneMaire))
	}
	if st.CommuneMaire == "" {
		for _, raw := range doc.Pages {
			if hint := template.CommuneHint(raw); hint != "" {
				st.CommuneMaire = hint
				break
			}
		}
	}
	if st.CommuneMaire == "" {
		p.Logger.Warn("aggregate.commune_maire.missing", "pdf", doc.PDFName)
	}
}

// collectBody walks the non-empty page bodies in page order: resolves
// the address family once, freezes the classification family field by
// field, and feeds the party and parcel sets.
func (p *Pipeline) collectBody(doc Document, st *State, bodies []string, fields []PageFields) error {
	for i, body := range bodies {
		if body == "" {
			continue
		}
		pf := fields[i]

		// the first page with an address zone fixes the address family
		if len(st.Adresses) == 0 && pf.AdresseBrute != "" {
			rows, err := p.resolveZone(doc.PDFName, pf.AdresseBrute, st.CommuneMaire)
			if err != nil {
				return err
			}
			st.Adresses = rows
			st.CodeInsee = rows[0].CodeInsee
			st.CPostal = rows[0].CPostal
		}

		freeze(&st.Classification, pf.Classification)
		freeze(&st.ProcUrgence, pf.ProcUrgence)
		freeze(&st.Demolition, pf.Demolition)
		freeze(&st.Interdiction, pf.Interdiction)
		freeze(&st.EquipComm, pf.EquipComm)

		st.Proprios.Add(textutil.Normalize(pf.Proprietaire))
		st.Syndics.Add(textutil.Normalize(pf.Syndic))
		st.Gestions.Add(textutil.Normalize(pf.Gestionnaire))

		// parcels normalize against the INSEE code known at this page,
		// which is still empty when the address comes on a later page
		if pf.RefCadastrale != "" {
			ref, conflict := cadastre.NormalizeRef(st.CodeInsee, pf.RefCadastrale)
			if conflict {
				p.Logger.Warn("aggregate.parcelle.insee_conflict",
					"pdf", doc.PDFName, "ref", pf.RefCadastrale,
					"codeinsee", st.CodeInsee, "cpostal", st.CPostal)
			}
			st.Parcelles.Add(ref)
		}
	}
	return nil
}

// resolveZone decomposes one address zone and resolves every address in
// it against the commune hint. All addresses of a zone share its raw
// text in ad_brute.
func (p *Pipeline) resolveZone(pdf, zone, communeHint string) ([]entity.Adresse, error) {
	rows := make([]entity.Adresse, 0, 1)
	for _, f := range address.Decompose(zone) {
		adr, err := p.Resolver.BuildNormalizedAddress(f, communeHint)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", pdf, err)
		}
		if adr.Ville == "" {
			p.Logger.Warn("aggregate.adresse.commune_unknown", "pdf", pdf, "ad_brute", zone)
		}
		if adr.CodeInsee == "" {
			p.Logger.Warn("aggregate.adresse.insee_unknown", "pdf", pdf, "ville", adr.Ville)
		}
		if adr.CPostal == "" {
			p.Logger.Warn("aggregate.adresse.cpostal_missing",
				"pdf", pdf, "ad_brute", zone, "ville", adr.Ville, "codeinsee", adr.CodeInsee)
		}
		adr.AdBrute = zone
		rows = append(rows, adr)
	}
	return rows, nil
}

// finalize builds the four record families from the aggregation state.
// The order record always carries the file name and source reference,
// and one notified row is emitted even when every party detector missed.
func (p *Pipeline) finalize(doc Document, st *State) entity.DocExtraction {
	date := dates.Canonical(st.DateRaw)
	if _, ok := dates.ParseLoose(st.DateRaw); !ok && st.DateRaw != "" {
		p.Logger.Warn("aggregate.date.unparsed", "pdf", doc.PDFName, "raw", st.DateRaw)
	}

	arrete := entity.Arrete{
		Date:           date,
		Num:            st.Num,
		Nom:            st.Nom,
		Classification: st.Classification,
		ProcUrgence:    st.ProcUrgence,
		Demolition:     st.Demolition,
		Interdiction:   st.Interdiction,
		EquipComm:      st.EquipComm,
		NomPDF:         doc.PDFName,
		URL:            doc.PDFPath,
		CodeInsee:      st.CodeInsee,
	}

	notifie := entity.Notifie{
		IdePropri: st.Proprios.First(),
		IdeSyndic: st.Syndics.First(),
		IdeGestio: st.Gestions.First(),
		CodeInsee: st.CodeInsee,
	}

	parcelles := make([]entity.Parcelle, 0, st.Parcelles.Len())
	for _, ref := range st.Parcelles.Values() {
		parcelles = append(parcelles, entity.Parcelle{RefCad: ref, CodeInsee: st.CodeInsee})
	}

	return entity.DocExtraction{
		PDFName:   doc.PDFName,
		TxtPath:   doc.TxtPath,
		Status:    constants.DocStatusParsed,
		Pages:     len(doc.Pages),
		Adresses:  st.Adresses,
		Arrete:    arrete,
		Notifies:  []entity.Notifie{notifie},
		Parcelles: parcelles,
	}
}

func hasText(pages []string) bool {
	for _, pg := range pages {
		if pg != "" {
			return true
		}
	}
	return false
}
