package standardize

import (
	"strings"

	"github.com/gcasey/emrcurate/internal/model"
)

// Patients produces standardized copies of raw patient rows. Source rows
// are never mutated; unparseable dates of birth become nil. Row numbers
// are 1-based ordinals within the extract.
func Patients(raw []model.RawPatientRow) []model.Patient {
	out := make([]model.Patient, len(raw))
	for i, r := range raw {
		out[i] = model.Patient{
			SourceRow:   int64(i + 1),
			PatientID:   CleanString(r.PatientID),
			FirstName:   TitleCase(r.FirstName),
			LastName:    TitleCase(r.LastName),
			DateOfBirth: ParseDate(r.DateOfBirth),
			Gender:      CleanString(r.Gender),
			Raw:         r,
		}
	}
	return out
}

// Visits produces standardized copies of raw visit rows. The diagnosis
// code is kept both as cleaned free text and in normalized form for
// reference lookups.
func Visits(raw []model.RawVisitRow) []model.Visit {
	out := make([]model.Visit, len(raw))
	for i, r := range raw {
		out[i] = model.Visit{
			SourceRow:   int64(i + 1),
			VisitID:     CleanString(r.VisitID),
			PatientID:   CleanString(r.PatientID),
			ProviderID:  CleanString(r.ProviderID),
			VisitDate:   ParseDate(r.VisitDate),
			ICDCode:     CleanString(r.ICDCode),
			ICDCodeNorm: NormalizeCode(r.ICDCode),
			Raw:         r,
		}
	}
	return out
}

// Labs produces standardized copies of raw lab rows. Test names are
// uppercased so duplicate detection and downstream grouping are
// case-insensitive.
func Labs(raw []model.RawLabRow) []model.Lab {
	out := make([]model.Lab, len(raw))
	for i, r := range raw {
		out[i] = model.Lab{
			SourceRow: int64(i + 1),
			LabID:     CleanString(r.LabID),
			VisitID:   CleanString(r.VisitID),
			TestName:  strings.ToUpper(CleanString(r.TestName)),
			TestValue: CleanString(r.TestValue),
			Raw:       r,
		}
	}
	return out
}

// ICD produces the normalized diagnosis reference set. Rows without a
// usable code are dropped; the reference set is a lookup oracle, not a
// validated entity set.
func ICD(raw []model.RawICDRow) []model.ICDEntry {
	out := make([]model.ICDEntry, 0, len(raw))
	for _, r := range raw {
		code := NormalizeCode(r.Code)
		if code == "" {
			continue
		}
		out = append(out, model.ICDEntry{
			Code:        code,
			Description: CleanString(r.Description),
		})
	}
	return out
}
