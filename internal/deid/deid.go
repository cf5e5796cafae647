// Package deid applies the irreversible de-identification transform to
// curated records: total name masking and deterministic identifier
// pseudonymization. It runs strictly after routing; no quarantined record
// ever reaches it. No reverse-lookup table exists anywhere in this
// module, by construction.
package deid

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/gcasey/emrcurate/internal/model"
	"github.com/gcasey/emrcurate/internal/validate"
)

// NamePlaceholder replaces first and last names in full. Masking is
// total: no partial redaction, no derived initial.
const NamePlaceholder = "*****"

// ErrMissingIdentifier reports a curated record reaching de-identification
// without a patient identifier. Routing must have quarantined such records
// already; hitting this is a defect upstream and fatal to the run.
var ErrMissingIdentifier = errors.New("deid: curated record has no patient identifier")

// PseudonymizeID returns the lowercase hex SHA-256 digest of the raw
// identifier. It is a pure function: the same identifier yields the same
// digest within and across runs, so joins between de-identified datasets
// stay valid.
func PseudonymizeID(id string) string {
	sum := sha256.Sum256([]byte(id))
	return hex.EncodeToString(sum[:])
}

// Apply de-identifies the curated output in place. Patients get masked
// names and a pseudonymous identifier; visits and labs get the digest of
// their patient so the join survives. Raw patient identifiers are cleared
// from every curated record.
//
// Labs carry no patient identifier of their own; their digest comes from
// the visit they reference, resolved against the run snapshot. A curated
// lab whose visit chain does not yield a patient keeps an empty digest
// rather than a fabricated one.
func Apply(res *validate.RouteResult, snap *validate.Snapshot) error {
	for i := range res.CuratedPatients {
		p := &res.CuratedPatients[i]
		if p.PatientID == "" {
			return fmt.Errorf("%w: patients row %d", ErrMissingIdentifier, p.SourceRow)
		}
		p.PatientDigest = PseudonymizeID(p.PatientID)
		p.PatientID = ""
		p.FirstName = NamePlaceholder
		p.LastName = NamePlaceholder
		p.Raw = model.RawPatientRow{}
	}

	for i := range res.CuratedVisits {
		v := &res.CuratedVisits[i]
		if v.PatientID == "" {
			return fmt.Errorf("%w: visits row %d", ErrMissingIdentifier, v.SourceRow)
		}
		v.PatientDigest = PseudonymizeID(v.PatientID)
		v.PatientID = ""
		v.Raw = model.RawVisitRow{}
	}

	for i := range res.CuratedLabs {
		l := &res.CuratedLabs[i]
		if visit, ok := snap.VisitByID(l.VisitID); ok && visit.PatientID != "" {
			l.PatientDigest = PseudonymizeID(visit.PatientID)
		}
		l.Raw = model.RawLabRow{}
	}
	return nil
}
