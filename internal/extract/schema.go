// Package extract reads the four standardized-extract snapshots from disk
// (CSV directories or Parquet files) and enforces the input-shape
// contract: a missing column is a fatal schema mismatch reported before
// any rule evaluation, distinct from per-record null values.
package extract

import (
	"fmt"
	"sort"
	"strings"
)

// Required columns per extract file. Values inside the columns may be
// null markers; the columns themselves must exist.
var (
	patientColumns = []string{"patient_id", "first_name", "last_name", "date_of_birth", "gender"}
	visitColumns   = []string{"visit_id", "patient_id", "provider_id", "visit_date", "icd_code"}
	labColumns     = []string{"lab_id", "visit_id", "test_name", "test_value"}
)

// icdCodeCandidates are the header spellings real EMR reference sheets
// use for the diagnosis code column. The first match wins.
var icdCodeCandidates = []string{
	"code", "icd", "icd_code", "icd10", "diagnosis_code", "diag_code", "diagnosis",
}

// ShapeError is the fatal input-shape fault for a malformed extract file.
type ShapeError struct {
	File    string
	Missing []string
	Found   []string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: missing required column(s) %s (found: %s)",
		e.File, strings.Join(e.Missing, ", "), strings.Join(e.Found, ", "))
}

// checkColumns validates that every required column exists in the header
// set. Header names are compared trimmed and lowercased.
func checkColumns(file string, header map[string]int, required []string) error {
	var missing []string
	for _, col := range required {
		if _, ok := header[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	found := make([]string, 0, len(header))
	for name := range header {
		found = append(found, name)
	}
	sort.Strings(found)
	return &ShapeError{File: file, Missing: missing, Found: found}
}

// findICDColumn locates the diagnosis code column among the accepted
// candidate names.
func findICDColumn(header map[string]int) (string, bool) {
	for _, cand := range icdCodeCandidates {
		if _, ok := header[cand]; ok {
			return cand, true
		}
	}
	return "", false
}
