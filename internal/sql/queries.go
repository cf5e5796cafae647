// Package sql embeds the schema migrations and the assembly queries the
// warehouse runs after each pipeline load.
package sql

import (
	"embed"
)

// Migrations holds the schema migration files, applied in filename order.
//
//go:embed migrations
var Migrations embed.FS

//go:embed queries/insert_run.sql
var InsertRun string

//go:embed queries/expire_dim_patient.sql
var ExpireDimPatient string

//go:embed queries/insert_dim_patient.sql
var InsertDimPatient string

//go:embed queries/upsert_dim_provider.sql
var UpsertDimProvider string

//go:embed queries/upsert_dim_icd.sql
var UpsertDimICD string

//go:embed queries/insert_fact_visit.sql
var InsertFactVisit string

//go:embed queries/insert_fact_lab.sql
var InsertFactLab string

//go:embed queries/refresh_provider_metrics.sql
var RefreshProviderMetrics string

//go:embed queries/refresh_diagnosis_metrics.sql
var RefreshDiagnosisMetrics string
