package model

import "time"

// DatasetCounts captures per-entity-set record accounting for one run.
type DatasetCounts struct {
	Read        int64
	Curated     int64
	Quarantined int64
	Warnings    int64
}

// RunSummary captures metrics from a single pipeline run.
type RunSummary struct {
	RunID          string
	InputPath      string
	Patients       DatasetCounts
	Visits         DatasetCounts
	Labs           DatasetCounts
	ICDEntries     int64
	Findings       int64
	FindingsFailed int64

	DurationExtract  time.Duration
	DurationValidate time.Duration
	DurationRoute    time.Duration
	DurationDeid     time.Duration
	DurationLoad     time.Duration
	DurationTotal    time.Duration
}

// TotalQuarantined sums quarantined records across all entity sets.
func (s *RunSummary) TotalQuarantined() int64 {
	return s.Patients.Quarantined + s.Visits.Quarantined + s.Labs.Quarantined
}

// TotalCurated sums curated records across all entity sets.
func (s *RunSummary) TotalCurated() int64 {
	return s.Patients.Curated + s.Visits.Curated + s.Labs.Curated
}
