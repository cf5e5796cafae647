// Package warehouse persists run outputs to Postgres and assembles the
// serving star schema (patient/provider/ICD dimensions, visit/lab facts,
// metric rollups) from the curated staging batch.
package warehouse

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/gcasey/emrcurate/internal/model"
	embedsql "github.com/gcasey/emrcurate/internal/sql"
	"github.com/gcasey/emrcurate/internal/validate"
)

// Load runs the whole persistence sequence for one run: register the run,
// COPY staging, assemble dimensions/facts/metrics, then clean staging up
// unless keepStaging is set.
func Load(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger, runID uuid.UUID, route *validate.RouteResult, icd []model.ICDEntry, findings []model.ValidationFinding, summary *model.RunSummary, keepStaging bool) error {
	if err := registerRun(ctx, pool, runID, summary); err != nil {
		return fmt.Errorf("register run: %w", err)
	}
	if err := Stage(ctx, pool, log, runID, route, icd, findings); err != nil {
		return err
	}
	if err := Assemble(ctx, pool, log, runID); err != nil {
		return err
	}
	if !keepStaging {
		if err := Cleanup(ctx, pool, log, runID); err != nil {
			log.Warn().Err(err).Msg("staging cleanup failed (non-fatal)")
		}
	}
	return nil
}

func registerRun(ctx context.Context, pool *pgxpool.Pool, runID uuid.UUID, s *model.RunSummary) error {
	_, err := pool.Exec(ctx, embedsql.InsertRun,
		runID, s.InputPath,
		s.Patients.Read, s.Visits.Read, s.Labs.Read,
		s.Patients.Quarantined, s.Visits.Quarantined, s.Labs.Quarantined,
	)
	return err
}

// Assemble builds the star schema from this run's staging batch. Each
// step is one embedded INSERT...SELECT (or UPDATE) statement.
func Assemble(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger, runID uuid.UUID) error {
	steps := []struct {
		name string
		sql  string
	}{
		{"expire dim_patient", embedsql.ExpireDimPatient},
		{"insert dim_patient", embedsql.InsertDimPatient},
		{"upsert dim_provider", embedsql.UpsertDimProvider},
		{"upsert dim_icd", embedsql.UpsertDimICD},
		{"insert fact_visit", embedsql.InsertFactVisit},
		{"insert fact_lab", embedsql.InsertFactLab},
		{"refresh provider_metrics", embedsql.RefreshProviderMetrics},
		{"refresh diagnosis_metrics", embedsql.RefreshDiagnosisMetrics},
	}
	for _, step := range steps {
		tag, err := pool.Exec(ctx, step.sql, runID)
		if err != nil {
			return fmt.Errorf("%s: %w", step.name, err)
		}
		log.Info().Str("step", step.name).Int64("rows", tag.RowsAffected()).Msg("assembly step complete")
	}
	return nil
}

// Cleanup deletes this run's rows from every staging table.
func Cleanup(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger, runID uuid.UUID) error {
	var deleted int64
	for _, table := range []string{"stage_patients", "stage_visits", "stage_labs", "stage_icd"} {
		tag, err := pool.Exec(ctx,
			fmt.Sprintf("DELETE FROM ingest.%s WHERE run_id = $1", table), runID)
		if err != nil {
			return fmt.Errorf("cleanup %s: %w", table, err)
		}
		deleted += tag.RowsAffected()
	}
	log.Info().Int64("rows_deleted", deleted).Msg("staging cleanup complete")
	return nil
}
