// Package audit defines the stage-transition event stream the engine
// emits and a few sinks for it. The engine only emits; formatting and
// persistence live entirely in the sink implementations.
package audit

import (
	"time"

	"github.com/google/uuid"
)

// Event is one stage-transition record: what happened, to which entity or
// batch, when, and free-form context (counts, rule IDs). Events reference
// records by dataset and source row number, never by a PHI value.
type Event struct {
	RunID     uuid.UUID
	Action    string
	Entity    string
	Timestamp time.Time
	Detail    string
}

// Actions emitted by the pipeline, in the vocabulary of the audit log.
const (
	ActionIngest      = "INGEST"
	ActionStandardize = "STANDARDIZE"
	ActionValidation  = "VALIDATION"
	ActionQuarantine  = "QUARANTINE"
	ActionMask        = "MASK"
	ActionExport      = "EXPORT"
)

// Sink consumes audit events in emission order.
type Sink interface {
	Emit(Event)
}

// Multi fans events out to several sinks in order.
type Multi []Sink

func (m Multi) Emit(e Event) {
	for _, s := range m {
		s.Emit(e)
	}
}

// Discard drops every event. Useful default when no audit output is
// configured.
type Discard struct{}

func (Discard) Emit(Event) {}
