// Package pipeline orchestrates one full run over an extract snapshot:
// read → standardize → validate → route → de-identify → optional
// warehouse load. Per-record problems accumulate as findings and
// quarantine entries; phase-level problems abort the run with no partial
// curated output.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/gcasey/emrcurate/internal/audit"
	"github.com/gcasey/emrcurate/internal/config"
	"github.com/gcasey/emrcurate/internal/deid"
	"github.com/gcasey/emrcurate/internal/extract"
	"github.com/gcasey/emrcurate/internal/logging"
	"github.com/gcasey/emrcurate/internal/model"
	"github.com/gcasey/emrcurate/internal/rules"
	"github.com/gcasey/emrcurate/internal/standardize"
	"github.com/gcasey/emrcurate/internal/validate"
	"github.com/gcasey/emrcurate/internal/warehouse"
)

// PipelineError wraps an error with the phase where it occurred.
type PipelineError struct {
	Phase string
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("%s: %s", e.Phase, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// Result is the complete, de-identified outcome of one run.
type Result struct {
	RunID    uuid.UUID
	Findings []model.ValidationFinding
	Route    *validate.RouteResult
	Summary  *model.RunSummary
}

// Run executes the full pipeline over the extract at cfg.InputDir.
// pool may be nil for dry runs; the warehouse load only happens when a
// pool is supplied and cfg.Load is set.
func Run(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger, sink audit.Sink, cfg *config.Config) (*Result, error) {
	totalStart := time.Now()
	runID := uuid.New()
	log = logging.ForRun(log, runID)
	if sink == nil {
		sink = audit.Discard{}
	}

	catalog, err := rules.Subset(cfg.DisabledRules)
	if err != nil {
		return nil, &PipelineError{Phase: "config", Err: err}
	}

	// Phase 1: Extract (input-shape preflight happens inside the readers)
	log.Info().Str("input", cfg.InputDir).Str("format", cfg.Format).Msg("reading extract")
	extractStart := time.Now()
	ext, err := extract.ReadDir(cfg.InputDir, cfg.Format)
	if err != nil {
		return nil, &PipelineError{Phase: "extract", Err: err}
	}
	durExtract := time.Since(extractStart)
	sink.Emit(audit.Event{
		RunID: runID, Action: audit.ActionIngest, Entity: "ALL", Timestamp: time.Now(),
		Detail: fmt.Sprintf("patients=%d visits=%d labs=%d icd=%d",
			len(ext.Patients), len(ext.Visits), len(ext.Labs), len(ext.ICD)),
	})

	// Phase 2: Standardize and snapshot
	asOf := time.Now().UTC()
	patients := standardize.Patients(ext.Patients)
	visits := standardize.Visits(ext.Visits)
	labs := standardize.Labs(ext.Labs)
	icd := standardize.ICD(ext.ICD)
	snap := validate.NewSnapshot(patients, visits, labs, icd, asOf)
	sink.Emit(audit.Event{
		RunID: runID, Action: audit.ActionStandardize, Entity: "ALL", Timestamp: time.Now(),
		Detail: fmt.Sprintf("icd_reference_codes=%d", snap.ICDCount()),
	})

	// Phase 3: Validate
	log.Info().Int("rules", len(catalog)).Msg("running validation")
	validateStart := time.Now()
	findings := validate.Run(runID, snap, catalog)
	durValidate := time.Since(validateStart)
	emitRuleCounts(sink, runID, catalog, findings)

	var failed int64
	for _, f := range findings {
		if !f.Passed {
			failed++
		}
	}
	log.Info().
		Int("findings", len(findings)).
		Int64("failed", failed).
		Dur("duration", durValidate).
		Msg("validation complete")

	// Phase 4: Route
	routeStart := time.Now()
	route := validate.Route(runID, snap, findings, time.Now().UTC())
	durRoute := time.Since(routeStart)
	sink.Emit(audit.Event{
		RunID: runID, Action: audit.ActionQuarantine, Entity: "ALL", Timestamp: time.Now(),
		Detail: fmt.Sprintf("quarantined=%d curated_patients=%d curated_visits=%d curated_labs=%d",
			len(route.Quarantined), len(route.CuratedPatients), len(route.CuratedVisits), len(route.CuratedLabs)),
	})
	log.Info().
		Int("quarantined", len(route.Quarantined)).
		Int("curated_patients", len(route.CuratedPatients)).
		Int("curated_visits", len(route.CuratedVisits)).
		Int("curated_labs", len(route.CuratedLabs)).
		Msg("routing complete")

	// Phase 5: De-identify
	deidStart := time.Now()
	if err := deid.Apply(route, snap); err != nil {
		return nil, &PipelineError{Phase: "deid", Err: err}
	}
	durDeid := time.Since(deidStart)
	sink.Emit(audit.Event{
		RunID: runID, Action: audit.ActionMask, Entity: "patients", Timestamp: time.Now(),
		Detail: fmt.Sprintf("masked=%d", len(route.CuratedPatients)),
	})

	summary := buildSummary(runID, cfg.InputDir, snap, route, findings, failed)
	summary.DurationExtract = durExtract
	summary.DurationValidate = durValidate
	summary.DurationRoute = durRoute
	summary.DurationDeid = durDeid

	// Phase 6: Warehouse load (optional)
	if pool != nil && cfg.Load {
		loadStart := time.Now()
		if err := warehouse.Load(ctx, pool, log, runID, route, icd, findings, summary, cfg.KeepStaging); err != nil {
			return nil, &PipelineError{Phase: "load", Err: err}
		}
		summary.DurationLoad = time.Since(loadStart)
		sink.Emit(audit.Event{
			RunID: runID, Action: audit.ActionExport, Entity: "warehouse", Timestamp: time.Now(),
			Detail: fmt.Sprintf("curated=%d quarantined=%d findings=%d",
				len(route.CuratedPatients)+len(route.CuratedVisits)+len(route.CuratedLabs),
				len(route.Quarantined), len(findings)),
		})
	}

	summary.DurationTotal = time.Since(totalStart)

	log.Info().
		Int64("curated", summary.TotalCurated()).
		Int64("quarantined", summary.TotalQuarantined()).
		Str("total_duration", summary.DurationTotal.String()).
		Msg("pipeline complete")

	return &Result{RunID: runID, Findings: findings, Route: route, Summary: summary}, nil
}

// emitRuleCounts emits one VALIDATION audit event per catalog rule with
// its failure count, in catalog order, matching the audit log's
// "<rule> | <count> | <severity>" convention.
func emitRuleCounts(sink audit.Sink, runID uuid.UUID, catalog []validate.Rule, findings []model.ValidationFinding) {
	counts := make(map[string]int, len(catalog))
	for _, f := range findings {
		if !f.Passed {
			counts[f.RuleID]++
		}
	}
	for _, r := range catalog {
		sink.Emit(audit.Event{
			RunID:     runID,
			Action:    audit.ActionValidation,
			Entity:    string(r.Dataset),
			Timestamp: time.Now(),
			Detail:    fmt.Sprintf("%s | %d | %s", r.ID, counts[r.ID], r.Severity),
		})
	}
}

func buildSummary(runID uuid.UUID, input string, snap *validate.Snapshot, route *validate.RouteResult, findings []model.ValidationFinding, failed int64) *model.RunSummary {
	s := &model.RunSummary{
		RunID:          runID.String(),
		InputPath:      input,
		ICDEntries:     int64(snap.ICDCount()),
		Findings:       int64(len(findings)),
		FindingsFailed: failed,
	}
	s.Patients.Read = int64(len(snap.Patients))
	s.Visits.Read = int64(len(snap.Visits))
	s.Labs.Read = int64(len(snap.Labs))
	s.Patients.Curated = int64(len(route.CuratedPatients))
	s.Visits.Curated = int64(len(route.CuratedVisits))
	s.Labs.Curated = int64(len(route.CuratedLabs))
	for _, q := range route.Quarantined {
		switch q.Dataset {
		case model.DatasetPatients:
			s.Patients.Quarantined++
		case model.DatasetVisits:
			s.Visits.Quarantined++
		case model.DatasetLabs:
			s.Labs.Quarantined++
		}
	}
	for _, f := range findings {
		if f.Passed || f.Severity != model.SeverityWarn {
			continue
		}
		switch f.Dataset {
		case model.DatasetPatients:
			s.Patients.Warnings++
		case model.DatasetVisits:
			s.Visits.Warnings++
		case model.DatasetLabs:
			s.Labs.Warnings++
		}
	}
	return s
}
