package model

import (
	"time"

	"github.com/google/uuid"
)

// Severity ranks a validation outcome. ERROR excludes a record from the
// curated output; WARN flags it but keeps it.
type Severity int

const (
	SeverityNone Severity = iota
	SeverityWarn
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "ERROR"
	case SeverityWarn:
		return "WARN"
	default:
		return "NONE"
	}
}

// MaxSeverity returns the higher of two severities.
func MaxSeverity(a, b Severity) Severity {
	if a > b {
		return a
	}
	return b
}

// ValidationFinding is one (record, rule) evaluation result. Findings are
// append-only and never deduplicated; passing evaluations are recorded too
// so the audit trail shows what was checked, not only what failed.
type ValidationFinding struct {
	RunID     uuid.UUID
	Dataset   Dataset
	RecordID  string
	SourceRow int64
	RuleID    string
	Severity  Severity
	Passed    bool
	Detail    string
}

// QuarantineRecord is emitted exactly once per record carrying at least
// one failing ERROR finding. It preserves the original payload plus every
// failing rule identifier, never just the first.
type QuarantineRecord struct {
	RunID         uuid.UUID
	Dataset       Dataset
	RecordID      string
	SourceRow     int64
	Payload       map[string]string
	FailedRules   []string
	MaxSeverity   Severity
	QuarantinedAt time.Time
}

// Disposition is the observable routing decision for one record: where it
// went and the complete finding list that put it there. The audit
// collaborator logs these without recomputing anything.
type Disposition struct {
	Dataset     Dataset
	RecordID    string
	SourceRow   int64
	MaxSeverity Severity
	Quarantined bool
	Findings    []ValidationFinding
}
