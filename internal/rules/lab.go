package rules

import (
	"fmt"

	"github.com/gcasey/emrcurate/internal/model"
	"github.com/gcasey/emrcurate/internal/validate"
)

func labRules() []validate.Rule {
	return []validate.Rule{
		{
			ID:       LabVisitUnresolved,
			Dataset:  model.DatasetLabs,
			Severity: model.SeverityError,
			Check: func(rec model.Record, snap *validate.Snapshot) (bool, string) {
				l := rec.(*model.Lab)
				if l.VisitID == "" {
					return false, "visit_id is missing; test result is orphaned"
				}
				if _, ok := snap.VisitByID(l.VisitID); !ok {
					return false, fmt.Sprintf("visit_id %q does not resolve to any visit record", l.VisitID)
				}
				return true, ""
			},
		},
		{
			ID:       LabFieldsMissing,
			Dataset:  model.DatasetLabs,
			Severity: model.SeverityError,
			Check: func(rec model.Record, _ *validate.Snapshot) (bool, string) {
				l := rec.(*model.Lab)
				if l.TestName == "" || l.TestValue == "" {
					return false, "test_name or test_value is missing; measurement is unusable"
				}
				return true, ""
			},
		},
		{
			ID:       LabDuplicateTest,
			Dataset:  model.DatasetLabs,
			Severity: model.SeverityError,
			Check: func(rec model.Record, snap *validate.Snapshot) (bool, string) {
				l := rec.(*model.Lab)
				if l.VisitID == "" || l.TestName == "" {
					return true, ""
				}
				if n := snap.LabTestCount(l.VisitID, l.TestName); n > 1 {
					return false, fmt.Sprintf("test %q reported %d times for visit %q", l.TestName, n, l.VisitID)
				}
				return true, ""
			},
		},
	}
}
