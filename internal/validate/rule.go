package validate

import (
	"github.com/gcasey/emrcurate/internal/model"
)

// CheckFunc evaluates one rule against one record. snap provides
// consistent read-only access to all four entity sets as they stood after
// standardization, for rules that cross dataset boundaries. ok=false
// means the rule failed; detail explains why.
//
// Checks must be pure: no mutation of the record or the snapshot, no
// dependence on evaluation order or on any other rule's outcome.
type CheckFunc func(rec model.Record, snap *Snapshot) (ok bool, detail string)

// Rule is one independent validation rule, bound to a single dataset and
// tagged with a fixed severity. Rules travel in explicit catalogs passed
// to the runner; there is no process-wide registry.
type Rule struct {
	ID       string
	Dataset  model.Dataset
	Severity model.Severity
	Check    CheckFunc
}
