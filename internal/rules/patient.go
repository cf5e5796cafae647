package rules

import (
	"fmt"

	"github.com/gcasey/emrcurate/internal/model"
	"github.com/gcasey/emrcurate/internal/validate"
)

func patientRules() []validate.Rule {
	return []validate.Rule{
		{
			ID:       PatientIDMissing,
			Dataset:  model.DatasetPatients,
			Severity: model.SeverityError,
			Check: func(rec model.Record, _ *validate.Snapshot) (bool, string) {
				p := rec.(*model.Patient)
				if p.PatientID == "" {
					return false, "patient_id is missing; record cannot be linked"
				}
				return true, ""
			},
		},
		{
			ID:       PatientIDDuplicate,
			Dataset:  model.DatasetPatients,
			Severity: model.SeverityError,
			Check: func(rec model.Record, snap *validate.Snapshot) (bool, string) {
				p := rec.(*model.Patient)
				if p.PatientID == "" {
					// Missing IDs are PATIENT_ID_MISSING's finding.
					return true, ""
				}
				if n := snap.PatientIDCount(p.PatientID); n > 1 {
					return false, fmt.Sprintf("patient_id %q appears %d times; identity is ambiguous", p.PatientID, n)
				}
				return true, ""
			},
		},
		{
			ID:       PatientNameMissing,
			Dataset:  model.DatasetPatients,
			Severity: model.SeverityError,
			Check: func(rec model.Record, _ *validate.Snapshot) (bool, string) {
				p := rec.(*model.Patient)
				if p.FirstName == "" || p.LastName == "" {
					return false, "first_name or last_name is missing"
				}
				return true, ""
			},
		},
		{
			ID:       DOBUnparseable,
			Dataset:  model.DatasetPatients,
			Severity: model.SeverityError,
			Check: func(rec model.Record, _ *validate.Snapshot) (bool, string) {
				p := rec.(*model.Patient)
				if p.DateOfBirth == nil {
					return false, fmt.Sprintf("date_of_birth %q is missing or unparseable", p.Raw.DateOfBirth)
				}
				return true, ""
			},
		},
		{
			ID:       DOBInFuture,
			Dataset:  model.DatasetPatients,
			Severity: model.SeverityError,
			Check: func(rec model.Record, snap *validate.Snapshot) (bool, string) {
				p := rec.(*model.Patient)
				if p.DateOfBirth == nil {
					// Unparseable DOB is DOB_UNPARSEABLE's finding.
					return true, ""
				}
				if p.DateOfBirth.After(snap.AsOf()) {
					return false, fmt.Sprintf("date_of_birth %s is in the future", p.DateOfBirth.Format("2006-01-02"))
				}
				return true, ""
			},
		},
	}
}
