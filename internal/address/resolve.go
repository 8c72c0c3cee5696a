package address

import (
	"fmt"
	"strings"

	"github.com/ampmetropole/arretes-peril/internal/entity"
	"github.com/ampmetropole/arretes-peril/internal/geo"
	"github.com/ampmetropole/arretes-peril/internal/textutil"
)

// CoherenceError reports a short address whose postal code and commune
// cannot belong together. It carries the whole reconciliation input so the
// report names exactly what contradicted what.
type CoherenceError struct {
	Num         string
	Ind         string
	Voie        string
	Compl       string
	CPostal     string
	Ville       string
	CommuneHint string
}

func (e *CoherenceError) Error() string {
	return fmt.Sprintf("address coherence: postal code %s does not belong to %q (commune hint %q)",
		e.CPostal, e.Ville, e.CommuneHint)
}

// Resolver reconciles decomposed addresses against the commune table.
type Resolver struct {
	know *geo.Knowledge
}

func NewResolver(know *geo.Knowledge) *Resolver {
	return &Resolver{know: know}
}

// DetermineCommune picks between the commune named in the address and the
// one the issuing authority names. The address wins when the table knows its
// spelling; otherwise the authority, then the raw address value.
func (r *Resolver) DetermineCommune(adrCommune, communeHint string) string {
	if adrCommune != "" && r.know.InseeCode(adrCommune, "") != "" {
		return adrCommune
	}
	if communeHint != "" {
		return communeHint
	}
	return adrCommune
}

// BuildNormalizedAddress resolves one short address: commune reconciliation,
// INSEE and postal codes, then the assembled display line. A Marseille
// postal code on an address whose commune is known and not Marseille is a
// coherence failure; the caller drops the whole document on it.
func (r *Resolver) BuildNormalizedAddress(f Fields, communeHint string) (entity.Adresse, error) {
	ville := r.DetermineCommune(f.Commune, communeHint)
	if geo.IsMarseilleCP(f.CPostal) && ville != "" {
		insee := r.know.InseeCode(ville, "")
		if insee != "" && insee != geo.MarseilleInsee && !geo.IsMarseilleArrondissement(insee) {
			return entity.Adresse{}, &CoherenceError{
				Num:         f.Num,
				Ind:         f.Ind,
				Voie:        f.Voie,
				Compl:       f.Compl,
				CPostal:     f.CPostal,
				Ville:       ville,
				CommuneHint: communeHint,
			}
		}
	}
	codeInsee := r.know.InseeCode(ville, f.CPostal)
	cpostal := f.CPostal
	if cpostal == "" {
		cpostal = r.know.PostalCode(ville, codeInsee)
	}
	return entity.Adresse{
		Adresse:   NormalizedLine(f.Num, f.Ind, f.Voie, f.Compl, cpostal, ville),
		Num:       f.Num,
		Ind:       f.Ind,
		Voie:      f.Voie,
		Compl:     f.Compl,
		CPostal:   cpostal,
		Ville:     ville,
		CodeInsee: codeInsee,
	}, nil
}

// NormalizedLine assembles the display address from its parts, skipping the
// empty ones.
func NormalizedLine(num, ind, voie, compl, cpostal, ville string) string {
	parts := make([]string, 0, 6)
	for _, part := range []string{num, ind, voie, compl, cpostal, ville} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return textutil.Normalize(strings.Join(parts, " "))
}
