package pipeline_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/gcasey/emrcurate/internal/audit"
	"github.com/gcasey/emrcurate/internal/config"
	"github.com/gcasey/emrcurate/internal/deid"
	"github.com/gcasey/emrcurate/internal/extract"
	"github.com/gcasey/emrcurate/internal/model"
	"github.com/gcasey/emrcurate/internal/pipeline"
)

func writeExtract(t *testing.T, dir string) {
	t.Helper()
	files := map[string]string{
		"patients.csv": "patient_id,first_name,last_name,date_of_birth,gender\n" +
			"P001,alice,smith,1980-01-15,F\n" + // clean
			"P002,bob,jones,1995-06-01,M\n" + // duplicated identifier
			"P002,bobby,jones,1995-06-01,M\n" +
			"P003,carol,white,2150-01-01,F\n", // date of birth in the future
		"visits.csv": "visit_id,patient_id,provider_id,visit_date,icd_code\n" +
			"V100,P001,DR1,2024-05-01,E11.9\n" + // clean
			"V101,P001,DR1,1979-01-01,I10\n" + // predates the patient's birth
			"V102,P001,,2024-05-02,xyz99\n" + // WARN only: no provider, unknown code
			"V103,P999,DR2,2024-05-03,I10\n", // unresolvable patient
		"labs.csv": "lab_id,visit_id,test_name,test_value\n" +
			"L1,V100,hba1c,6.1\n" + // clean
			"L2,V999,ldl,90\n" + // unresolvable visit
			"L3,V100,cbc,\n", // missing value
		"icd_reference.csv": "code,description\n" +
			"E11.9,Type 2 diabetes\n" +
			"I10,Hypertension\n",
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
}

func dryRun(t *testing.T, sink audit.Sink, mutate func(*config.Config)) *pipeline.Result {
	t.Helper()
	dir := t.TempDir()
	writeExtract(t, dir)
	cfg := &config.Config{InputDir: dir, Format: extract.FormatCSV}
	if mutate != nil {
		mutate(cfg)
	}
	res, err := pipeline.Run(context.Background(), nil, zerolog.Nop(), sink, cfg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	return res
}

func TestRun_SummaryCounts(t *testing.T) {
	res := dryRun(t, nil, nil)
	s := res.Summary

	if s.Patients.Read != 4 || s.Patients.Curated != 1 || s.Patients.Quarantined != 3 {
		t.Errorf("patients = %+v, want read 4 / curated 1 / quarantined 3", s.Patients)
	}
	if s.Visits.Read != 4 || s.Visits.Curated != 2 || s.Visits.Quarantined != 2 {
		t.Errorf("visits = %+v, want read 4 / curated 2 / quarantined 2", s.Visits)
	}
	if s.Labs.Read != 3 || s.Labs.Curated != 1 || s.Labs.Quarantined != 2 {
		t.Errorf("labs = %+v, want read 3 / curated 1 / quarantined 2", s.Labs)
	}
	if s.ICDEntries != 2 {
		t.Errorf("ICDEntries = %d, want 2", s.ICDEntries)
	}
	if s.TotalQuarantined() != 7 || s.TotalCurated() != 4 {
		t.Errorf("totals = %d quarantined / %d curated, want 7/4", s.TotalQuarantined(), s.TotalCurated())
	}
	// V102 carries the two WARN findings.
	if s.Visits.Warnings != 2 {
		t.Errorf("visit warnings = %d, want 2", s.Visits.Warnings)
	}
}

func TestRun_QuarantineReasons(t *testing.T) {
	res := dryRun(t, nil, nil)

	failedBy := make(map[string][]string)
	for _, q := range res.Route.Quarantined {
		failedBy[string(q.Dataset)+":"+q.RecordID] = q.FailedRules
	}

	wantRule := func(key, rule string) {
		t.Helper()
		for _, id := range failedBy[key] {
			if id == rule {
				return
			}
		}
		t.Errorf("%s: failed rules %v do not include %s", key, failedBy[key], rule)
	}
	wantRule("patients:P002", "PATIENT_ID_DUPLICATE")
	wantRule("patients:P003", "DOB_IN_FUTURE")
	wantRule("visits:V101", "VISIT_BEFORE_DOB")
	wantRule("visits:V103", "VISIT_PATIENT_UNRESOLVED")
	wantRule("labs:L2", "LAB_VISIT_UNRESOLVED")
	wantRule("labs:L3", "LAB_FIELDS_MISSING")

	// Both copies of the duplicated identifier are excluded.
	dupes := 0
	for _, q := range res.Route.Quarantined {
		if q.RecordID == "P002" {
			dupes++
		}
	}
	if dupes != 2 {
		t.Errorf("quarantined %d P002 records, want both copies", dupes)
	}
}

func TestRun_CuratedOutputIsDeidentified(t *testing.T) {
	res := dryRun(t, nil, nil)

	if len(res.Route.CuratedPatients) != 1 {
		t.Fatalf("curated patients = %d, want 1", len(res.Route.CuratedPatients))
	}
	p := res.Route.CuratedPatients[0]
	if p.FirstName != deid.NamePlaceholder || p.LastName != deid.NamePlaceholder {
		t.Errorf("curated patient names not masked: %q %q", p.FirstName, p.LastName)
	}
	if p.PatientID != "" || p.PatientDigest == "" {
		t.Errorf("curated patient identifier state: id=%q digest=%q", p.PatientID, p.PatientDigest)
	}
	if p.PatientDigest != deid.PseudonymizeID("P001") {
		t.Error("digest does not match the deterministic pseudonym of P001")
	}

	for _, v := range res.Route.CuratedVisits {
		if v.PatientID != "" {
			t.Errorf("curated visit %s kept raw patient identifier", v.VisitID)
		}
		if v.PatientDigest != deid.PseudonymizeID("P001") {
			t.Errorf("curated visit %s digest does not join to its patient", v.VisitID)
		}
	}
	for _, l := range res.Route.CuratedLabs {
		if l.PatientDigest != deid.PseudonymizeID("P001") {
			t.Errorf("curated lab %s digest does not join through its visit", l.LabID)
		}
	}
}

func TestRun_WarnOnlyVisitCuratedWithWarnings(t *testing.T) {
	res := dryRun(t, nil, nil)

	var warned *model.CuratedVisit
	for i := range res.Route.CuratedVisits {
		if res.Route.CuratedVisits[i].VisitID == "V102" {
			warned = &res.Route.CuratedVisits[i]
		}
	}
	if warned == nil {
		t.Fatal("V102 should have been curated despite its warnings")
	}
	got := make(map[string]bool, len(warned.Warnings))
	for _, w := range warned.Warnings {
		got[w.RuleID] = true
	}
	if !got["PROVIDER_ID_MISSING"] || !got["ICD_CODE_UNMATCHED"] {
		t.Errorf("V102 warnings = %v, want both WARN rules", warned.Warnings)
	}
}

func TestRun_AuditEventSequence(t *testing.T) {
	var collector audit.Collector
	res := dryRun(t, &collector, nil)

	events := collector.Events()
	if len(events) == 0 {
		t.Fatal("no audit events emitted")
	}
	for _, e := range events {
		if e.RunID != res.RunID {
			t.Errorf("event %s carries run %s, want %s", e.Action, e.RunID, res.RunID)
		}
	}

	var order []string
	for _, e := range events {
		if len(order) == 0 || order[len(order)-1] != e.Action {
			order = append(order, e.Action)
		}
	}
	want := []string{
		audit.ActionIngest,
		audit.ActionStandardize,
		audit.ActionValidation,
		audit.ActionQuarantine,
		audit.ActionMask,
	}
	if len(order) != len(want) {
		t.Fatalf("action sequence %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("action sequence %v, want %v", order, want)
		}
	}

	// One VALIDATION event per enabled rule, "<rule> | <count> | <severity>".
	validation := 0
	for _, e := range events {
		if e.Action != audit.ActionValidation {
			continue
		}
		validation++
		parts := strings.Split(e.Detail, " | ")
		if len(parts) != 3 {
			t.Errorf("validation detail %q, want three pipe-separated fields", e.Detail)
		}
	}
	if validation != 16 {
		t.Errorf("got %d VALIDATION events, want one per rule (16)", validation)
	}
}

func TestRun_DisabledRuleSkipsEnforcement(t *testing.T) {
	res := dryRun(t, nil, func(cfg *config.Config) {
		cfg.DisabledRules = []string{"DOB_IN_FUTURE"}
	})
	for _, q := range res.Route.Quarantined {
		if q.RecordID == "P003" {
			t.Fatalf("P003 quarantined with DOB_IN_FUTURE disabled: %v", q.FailedRules)
		}
	}
	if res.Summary.Patients.Curated != 2 {
		t.Errorf("curated patients = %d, want 2 with rule disabled", res.Summary.Patients.Curated)
	}
}

func TestRun_UnknownDisabledRuleFails(t *testing.T) {
	dir := t.TempDir()
	writeExtract(t, dir)
	cfg := &config.Config{InputDir: dir, Format: extract.FormatCSV, DisabledRules: []string{"BOGUS"}}
	_, err := pipeline.Run(context.Background(), nil, zerolog.Nop(), nil, cfg)
	var perr *pipeline.PipelineError
	if !errors.As(err, &perr) || perr.Phase != "config" {
		t.Fatalf("error = %v, want a config-phase pipeline error", err)
	}
}

func TestRun_ShapeFaultAbortsBeforeValidation(t *testing.T) {
	dir := t.TempDir()
	writeExtract(t, dir)
	bad := "patient_id,first_name\nP001,alice\n"
	if err := os.WriteFile(filepath.Join(dir, "patients.csv"), []byte(bad), 0o644); err != nil {
		t.Fatal(err)
	}

	var collector audit.Collector
	cfg := &config.Config{InputDir: dir, Format: extract.FormatCSV}
	_, err := pipeline.Run(context.Background(), nil, zerolog.Nop(), &collector, cfg)

	var perr *pipeline.PipelineError
	if !errors.As(err, &perr) || perr.Phase != "extract" {
		t.Fatalf("error = %v, want an extract-phase pipeline error", err)
	}
	var shapeErr *extract.ShapeError
	if !errors.As(err, &shapeErr) {
		t.Fatalf("error chain %v does not carry the shape fault", err)
	}
	if n := len(collector.Events()); n != 0 {
		t.Errorf("%d audit events emitted for an aborted extract, want 0", n)
	}
}
