// Package rules holds the default validation rule catalog for the three
// validated entity sets. Each rule is an independent descriptor; the
// catalog is an explicit slice handed to the runner, so tests and runs
// can pass a subset without touching global state.
package rules

import (
	"fmt"

	"github.com/gcasey/emrcurate/internal/validate"
)

// Rule identifiers, in the vocabulary the quarantine and audit outputs
// use. Structural, clinical, and referential violations are ERROR;
// reference-data mismatches are WARN. The severity assignment is part of
// the rule definition, not a tunable threshold.
const (
	PatientIDMissing   = "PATIENT_ID_MISSING"
	PatientIDDuplicate = "PATIENT_ID_DUPLICATE"
	PatientNameMissing = "PATIENT_NAME_MISSING"
	DOBUnparseable     = "DOB_UNPARSEABLE"
	DOBInFuture        = "DOB_IN_FUTURE"

	VisitIDMissing         = "VISIT_ID_MISSING"
	VisitIDDuplicate       = "VISIT_ID_DUPLICATE"
	VisitPatientUnresolved = "VISIT_PATIENT_UNRESOLVED"
	ProviderIDMissing      = "PROVIDER_ID_MISSING"
	VisitDateUnparseable   = "VISIT_DATE_UNPARSEABLE"
	VisitBeforeDOB         = "VISIT_BEFORE_DOB"
	ICDCodeMissing         = "ICD_CODE_MISSING"
	ICDCodeUnmatched       = "ICD_CODE_UNMATCHED"

	LabVisitUnresolved = "LAB_VISIT_UNRESOLVED"
	LabFieldsMissing   = "LAB_FIELDS_MISSING"
	LabDuplicateTest   = "LAB_DUPLICATE_TEST"
)

// Catalog returns the full default rule set.
func Catalog() []validate.Rule {
	var all []validate.Rule
	all = append(all, patientRules()...)
	all = append(all, visitRules()...)
	all = append(all, labRules()...)
	return all
}

// Subset returns the catalog minus the named rules. Unknown names are an
// error so a mistyped config entry does not silently re-enable a rule.
func Subset(disabled []string) ([]validate.Rule, error) {
	known := make(map[string]bool)
	for _, r := range Catalog() {
		known[r.ID] = true
	}
	skip := make(map[string]bool, len(disabled))
	for _, id := range disabled {
		if !known[id] {
			return nil, fmt.Errorf("unknown rule %q", id)
		}
		skip[id] = true
	}
	var out []validate.Rule
	for _, r := range Catalog() {
		if !skip[r.ID] {
			out = append(out, r)
		}
	}
	return out, nil
}
