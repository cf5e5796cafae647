package warehouse

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/gcasey/emrcurate/internal/db"
	"github.com/gcasey/emrcurate/internal/model"
	"github.com/gcasey/emrcurate/internal/rules"
	"github.com/gcasey/emrcurate/internal/validate"
)

// Stage COPY-loads the de-identified curated sets, the quarantine
// records, and the full finding list for one run.
func Stage(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger, runID uuid.UUID, route *validate.RouteResult, icd []model.ICDEntry, findings []model.ValidationFinding) error {
	if err := stagePatients(ctx, pool, runID, route.CuratedPatients); err != nil {
		return fmt.Errorf("stage patients: %w", err)
	}
	if err := stageVisits(ctx, pool, runID, route.CuratedVisits); err != nil {
		return fmt.Errorf("stage visits: %w", err)
	}
	if err := stageLabs(ctx, pool, runID, route.CuratedLabs); err != nil {
		return fmt.Errorf("stage labs: %w", err)
	}
	if err := stageICD(ctx, pool, runID, icd); err != nil {
		return fmt.Errorf("stage icd reference: %w", err)
	}
	if err := copyFindings(ctx, pool, findings); err != nil {
		return fmt.Errorf("copy findings: %w", err)
	}
	if err := copyQuarantine(ctx, pool, route.Quarantined); err != nil {
		return fmt.Errorf("copy quarantine: %w", err)
	}
	log.Info().
		Int("patients", len(route.CuratedPatients)).
		Int("visits", len(route.CuratedVisits)).
		Int("labs", len(route.CuratedLabs)).
		Int("quarantined", len(route.Quarantined)).
		Int("findings", len(findings)).
		Msg("staging copy complete")
	return nil
}

func stagePatients(ctx context.Context, pool *pgxpool.Pool, runID uuid.UUID, ps []model.CuratedPatient) error {
	rows := make([][]any, len(ps))
	for i, p := range ps {
		rows[i] = []any{
			runID, p.SourceRow, p.PatientDigest, p.FirstName, p.LastName,
			p.DateOfBirth, nilIfEmpty(p.Gender), warnRules(p.Warnings),
		}
	}
	_, err := pool.CopyFrom(ctx,
		pgx.Identifier{"ingest", "stage_patients"},
		[]string{"run_id", "source_row", "patient_digest", "first_name", "last_name", "date_of_birth", "gender", "warn_rules"},
		db.NewSliceSource(rows),
	)
	return err
}

func stageVisits(ctx context.Context, pool *pgxpool.Pool, runID uuid.UUID, vs []model.CuratedVisit) error {
	rows := make([][]any, len(vs))
	for i, v := range vs {
		rows[i] = []any{
			runID, v.SourceRow, v.VisitID, v.PatientDigest, nilIfEmpty(v.ProviderID),
			v.VisitDate, nilIfEmpty(v.ICDCodeNorm), icdValid(v.Warnings), warnRules(v.Warnings),
		}
	}
	_, err := pool.CopyFrom(ctx,
		pgx.Identifier{"ingest", "stage_visits"},
		[]string{"run_id", "source_row", "visit_id", "patient_digest", "provider_id", "visit_date", "icd_code", "icd_valid", "warn_rules"},
		db.NewSliceSource(rows),
	)
	return err
}

func stageLabs(ctx context.Context, pool *pgxpool.Pool, runID uuid.UUID, ls []model.CuratedLab) error {
	rows := make([][]any, len(ls))
	for i, l := range ls {
		rows[i] = []any{
			runID, l.SourceRow, nilIfEmpty(l.LabID), l.VisitID, nilIfEmpty(l.PatientDigest),
			l.TestName, l.TestValue, warnRules(l.Warnings),
		}
	}
	_, err := pool.CopyFrom(ctx,
		pgx.Identifier{"ingest", "stage_labs"},
		[]string{"run_id", "source_row", "lab_id", "visit_id", "patient_digest", "test_name", "test_value", "warn_rules"},
		db.NewSliceSource(rows),
	)
	return err
}

func stageICD(ctx context.Context, pool *pgxpool.Pool, runID uuid.UUID, icd []model.ICDEntry) error {
	rows := make([][]any, len(icd))
	for i, e := range icd {
		rows[i] = []any{runID, e.Code, nilIfEmpty(e.Description)}
	}
	_, err := pool.CopyFrom(ctx,
		pgx.Identifier{"ingest", "stage_icd"},
		[]string{"run_id", "icd_code", "description"},
		db.NewSliceSource(rows),
	)
	return err
}

func copyFindings(ctx context.Context, pool *pgxpool.Pool, findings []model.ValidationFinding) error {
	rows := make([][]any, len(findings))
	for i, f := range findings {
		rows[i] = []any{
			f.RunID, string(f.Dataset), nilIfEmpty(f.RecordID), f.SourceRow,
			f.RuleID, f.Severity.String(), f.Passed, nilIfEmpty(f.Detail),
		}
	}
	_, err := pool.CopyFrom(ctx,
		pgx.Identifier{"ingest", "validation_findings"},
		[]string{"run_id", "dataset", "record_id", "source_row", "rule_id", "severity", "passed", "detail"},
		db.NewSliceSource(rows),
	)
	return err
}

func copyQuarantine(ctx context.Context, pool *pgxpool.Pool, qs []model.QuarantineRecord) error {
	rows := make([][]any, len(qs))
	for i, q := range qs {
		payload, err := json.Marshal(q.Payload)
		if err != nil {
			return fmt.Errorf("marshal payload for %s row %d: %w", q.Dataset, q.SourceRow, err)
		}
		rows[i] = []any{
			q.RunID, string(q.Dataset), nilIfEmpty(q.RecordID), q.SourceRow,
			string(payload), q.FailedRules, q.MaxSeverity.String(), q.QuarantinedAt,
		}
	}
	_, err := pool.CopyFrom(ctx,
		pgx.Identifier{"ingest", "quarantine_records"},
		[]string{"run_id", "dataset", "record_id", "source_row", "payload", "failed_rules", "max_severity", "quarantined_at"},
		db.NewSliceSource(rows),
	)
	return err
}

// icdValid mirrors the curated visit's diagnosis-reference status as a
// queryable flag: false when the visit carried either ICD warning.
func icdValid(warnings []model.ValidationFinding) bool {
	for _, w := range warnings {
		if w.RuleID == rules.ICDCodeMissing || w.RuleID == rules.ICDCodeUnmatched {
			return false
		}
	}
	return true
}

func warnRules(warnings []model.ValidationFinding) []string {
	if len(warnings) == 0 {
		return nil
	}
	out := make([]string, len(warnings))
	for i, w := range warnings {
		out[i] = w.RuleID
	}
	return out
}

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
