package validate

import (
	"github.com/google/uuid"

	"github.com/gcasey/emrcurate/internal/model"
)

// Run evaluates every applicable rule against every record in the
// snapshot and returns the complete finding list, passing findings
// included. Evaluation never short-circuits: a record that fails one rule
// is still checked against the rest, so the audit trail covers everything
// that was checked.
func Run(runID uuid.UUID, snap *Snapshot, catalog []Rule) []model.ValidationFinding {
	byDataset := make(map[model.Dataset][]Rule, 3)
	for _, r := range catalog {
		byDataset[r.Dataset] = append(byDataset[r.Dataset], r)
	}

	var findings []model.ValidationFinding

	evaluate := func(rec model.Record) {
		for _, rule := range byDataset[rec.Dataset()] {
			ok, detail := rule.Check(rec, snap)
			if ok {
				detail = ""
			}
			findings = append(findings, model.ValidationFinding{
				RunID:     runID,
				Dataset:   rec.Dataset(),
				RecordID:  rec.RecordID(),
				SourceRow: rec.Row(),
				RuleID:    rule.ID,
				Severity:  rule.Severity,
				Passed:    ok,
				Detail:    detail,
			})
		}
	}

	for i := range snap.Patients {
		evaluate(&snap.Patients[i])
	}
	for i := range snap.Visits {
		evaluate(&snap.Visits[i])
	}
	for i := range snap.Labs {
		evaluate(&snap.Labs[i])
	}
	return findings
}
