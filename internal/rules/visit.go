package rules

import (
	"fmt"

	"github.com/gcasey/emrcurate/internal/model"
	"github.com/gcasey/emrcurate/internal/validate"
)

func visitRules() []validate.Rule {
	return []validate.Rule{
		{
			ID:       VisitIDMissing,
			Dataset:  model.DatasetVisits,
			Severity: model.SeverityError,
			Check: func(rec model.Record, _ *validate.Snapshot) (bool, string) {
				v := rec.(*model.Visit)
				if v.VisitID == "" {
					return false, "visit_id is missing; record cannot be linked"
				}
				return true, ""
			},
		},
		{
			ID:       VisitIDDuplicate,
			Dataset:  model.DatasetVisits,
			Severity: model.SeverityError,
			Check: func(rec model.Record, snap *validate.Snapshot) (bool, string) {
				v := rec.(*model.Visit)
				if v.VisitID == "" {
					return true, ""
				}
				if n := snap.VisitIDCount(v.VisitID); n > 1 {
					return false, fmt.Sprintf("visit_id %q appears %d times", v.VisitID, n)
				}
				return true, ""
			},
		},
		{
			ID:       VisitPatientUnresolved,
			Dataset:  model.DatasetVisits,
			Severity: model.SeverityError,
			Check: func(rec model.Record, snap *validate.Snapshot) (bool, string) {
				v := rec.(*model.Visit)
				if v.PatientID == "" {
					return false, "patient_id is missing; encounter is orphaned"
				}
				if _, ok := snap.PatientByID(v.PatientID); !ok {
					return false, fmt.Sprintf("patient_id %q does not resolve to any patient record", v.PatientID)
				}
				return true, ""
			},
		},
		{
			ID:       ProviderIDMissing,
			Dataset:  model.DatasetVisits,
			Severity: model.SeverityWarn,
			Check: func(rec model.Record, _ *validate.Snapshot) (bool, string) {
				v := rec.(*model.Visit)
				if v.ProviderID == "" {
					return false, "provider_id is missing; encounter is incomplete but usable"
				}
				return true, ""
			},
		},
		{
			ID:       VisitDateUnparseable,
			Dataset:  model.DatasetVisits,
			Severity: model.SeverityError,
			Check: func(rec model.Record, _ *validate.Snapshot) (bool, string) {
				v := rec.(*model.Visit)
				if v.VisitDate == nil {
					return false, fmt.Sprintf("visit_date %q is missing or unparseable", v.Raw.VisitDate)
				}
				return true, ""
			},
		},
		{
			ID:       VisitBeforeDOB,
			Dataset:  model.DatasetVisits,
			Severity: model.SeverityError,
			Check: func(rec model.Record, snap *validate.Snapshot) (bool, string) {
				v := rec.(*model.Visit)
				// A nil visit date or an unresolvable patient makes the
				// ordering check inapplicable; those conditions carry
				// their own findings.
				if v.VisitDate == nil || v.PatientID == "" {
					return true, ""
				}
				p, ok := snap.PatientByID(v.PatientID)
				if !ok || p.DateOfBirth == nil {
					return true, ""
				}
				if v.VisitDate.Before(*p.DateOfBirth) {
					return false, fmt.Sprintf("visit_date %s precedes patient date of birth %s",
						v.VisitDate.Format("2006-01-02"), p.DateOfBirth.Format("2006-01-02"))
				}
				return true, ""
			},
		},
		{
			ID:       ICDCodeMissing,
			Dataset:  model.DatasetVisits,
			Severity: model.SeverityWarn,
			Check: func(rec model.Record, _ *validate.Snapshot) (bool, string) {
				v := rec.(*model.Visit)
				if v.ICDCodeNorm == "" {
					return false, "icd_code is missing"
				}
				return true, ""
			},
		},
		{
			ID:       ICDCodeUnmatched,
			Dataset:  model.DatasetVisits,
			Severity: model.SeverityWarn,
			Check: func(rec model.Record, snap *validate.Snapshot) (bool, string) {
				v := rec.(*model.Visit)
				// An absent code is ICD_CODE_MISSING's finding, not a
				// reference mismatch.
				if v.ICDCodeNorm == "" {
					return true, ""
				}
				if _, ok := snap.ICDLookup(v.ICDCodeNorm); !ok {
					return false, fmt.Sprintf("icd_code %q not present in the diagnosis reference set", v.ICDCodeNorm)
				}
				return true, ""
			},
		},
	}
}
