package validate

import (
	"time"

	"github.com/google/uuid"

	"github.com/gcasey/emrcurate/internal/model"
)

// RouteResult is the complete routing outcome for one run: curated
// records per entity set (with WARN findings attached), quarantine
// entries for excluded records, and the per-record dispositions the audit
// collaborator logs.
type RouteResult struct {
	CuratedPatients []model.CuratedPatient
	CuratedVisits   []model.CuratedVisit
	CuratedLabs     []model.CuratedLab
	Quarantined     []model.QuarantineRecord
	Dispositions    []model.Disposition
}

type recordKey struct {
	dataset model.Dataset
	row     int64
}

// Route classifies every record by the maximum severity among its failing
// findings and splits the snapshot into curated and quarantined outputs.
// ERROR excludes; WARN and NONE curate. The two-tier policy is fixed.
// A quarantined record appears exactly once regardless of how many rules
// it failed, and carries every failing rule identifier.
func Route(runID uuid.UUID, snap *Snapshot, findings []model.ValidationFinding, now time.Time) *RouteResult {
	byRecord := make(map[recordKey][]model.ValidationFinding)
	for _, f := range findings {
		k := recordKey{f.Dataset, f.SourceRow}
		byRecord[k] = append(byRecord[k], f)
	}

	res := &RouteResult{}

	classify := func(rec model.Record) (model.Disposition, []model.ValidationFinding) {
		fs := byRecord[recordKey{rec.Dataset(), rec.Row()}]
		maxSev := model.SeverityNone
		var failed []string
		var warnings []model.ValidationFinding
		for _, f := range fs {
			if f.Passed {
				continue
			}
			maxSev = model.MaxSeverity(maxSev, f.Severity)
			failed = append(failed, f.RuleID)
			if f.Severity == model.SeverityWarn {
				warnings = append(warnings, f)
			}
		}

		d := model.Disposition{
			Dataset:     rec.Dataset(),
			RecordID:    rec.RecordID(),
			SourceRow:   rec.Row(),
			MaxSeverity: maxSev,
			Quarantined: maxSev == model.SeverityError,
			Findings:    fs,
		}
		if d.Quarantined {
			res.Quarantined = append(res.Quarantined, model.QuarantineRecord{
				RunID:         runID,
				Dataset:       rec.Dataset(),
				RecordID:      rec.RecordID(),
				SourceRow:     rec.Row(),
				Payload:       rec.Payload(),
				FailedRules:   failed,
				MaxSeverity:   maxSev,
				QuarantinedAt: now,
			})
		}
		res.Dispositions = append(res.Dispositions, d)
		return d, warnings
	}

	for i := range snap.Patients {
		d, warnings := classify(&snap.Patients[i])
		if !d.Quarantined {
			res.CuratedPatients = append(res.CuratedPatients, model.CuratedPatient{
				Patient:  snap.Patients[i],
				Warnings: warnings,
			})
		}
	}
	for i := range snap.Visits {
		d, warnings := classify(&snap.Visits[i])
		if !d.Quarantined {
			res.CuratedVisits = append(res.CuratedVisits, model.CuratedVisit{
				Visit:    snap.Visits[i],
				Warnings: warnings,
			})
		}
	}
	for i := range snap.Labs {
		d, warnings := classify(&snap.Labs[i])
		if !d.Quarantined {
			res.CuratedLabs = append(res.CuratedLabs, model.CuratedLab{
				Lab:      snap.Labs[i],
				Warnings: warnings,
			})
		}
	}
	return res
}
