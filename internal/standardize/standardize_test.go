package standardize

import (
	"testing"
	"time"

	"github.com/gcasey/emrcurate/internal/model"
)

func TestParseDate_Formats(t *testing.T) {
	want := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	for _, in := range []string{
		"2024-05-01",
		"05/01/2024",
		"5/1/2024",
		"05-01-2024",
		"2024/05/01",
		"May 1, 2024",
		"  2024-05-01  ",
	} {
		got := ParseDate(in)
		if got == nil {
			t.Errorf("ParseDate(%q) = nil, want %s", in, want.Format("2006-01-02"))
			continue
		}
		if !got.Equal(want) {
			t.Errorf("ParseDate(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestParseDate_SerialNumber(t *testing.T) {
	// 45413 is 2024-05-01 in the 1900 date system.
	got := ParseDate("45413")
	if got == nil {
		t.Fatal("ParseDate(serial) = nil")
	}
	want := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("ParseDate(45413) = %s, want %s", got, want)
	}
}

func TestParseDate_Missing(t *testing.T) {
	for _, in := range []string{"", "   ", "NULL", "nan", "None", "n/a", "not-a-date", "13/45/2024", "99"} {
		if got := ParseDate(in); got != nil {
			t.Errorf("ParseDate(%q) = %s, want nil", in, got)
		}
	}
}

func TestTitleCase(t *testing.T) {
	cases := map[string]string{
		"mArY":        "Mary",
		"  john  doe": "John Doe",
		"O'BRIEN":     "O'brien",
		"":            "",
		"NULL":        "",
	}
	for in, want := range cases {
		if got := TitleCase(in); got != want {
			t.Errorf("TitleCase(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCleanString_NullMarkers(t *testing.T) {
	for _, in := range []string{"NULL", "null", "NaN", "none", "NA", "N/A", "  "} {
		if got := CleanString(in); got != "" {
			t.Errorf("CleanString(%q) = %q, want empty", in, got)
		}
	}
	if got := CleanString("  a   b  "); got != "a b" {
		t.Errorf("CleanString collapse = %q, want %q", got, "a b")
	}
}

func TestNormalizeCode(t *testing.T) {
	if got := NormalizeCode("  e11.9 "); got != "E11.9" {
		t.Errorf("NormalizeCode = %q, want E11.9", got)
	}
	if got := NormalizeCode("NULL"); got != "" {
		t.Errorf("NormalizeCode(NULL) = %q, want empty", got)
	}
}

func TestPatients_Standardize(t *testing.T) {
	raw := []model.RawPatientRow{
		{PatientID: " P1 ", FirstName: "mArY aNN", LastName: "smith", DateOfBirth: "1984-03-12", Gender: "f"},
		{PatientID: "P2", FirstName: "John", LastName: "Doe", DateOfBirth: "garbage", Gender: "NULL"},
	}
	got := Patients(raw)

	if got[0].PatientID != "P1" || got[0].FirstName != "Mary Ann" || got[0].LastName != "Smith" {
		t.Errorf("unexpected standardized patient: %+v", got[0])
	}
	if got[0].DateOfBirth == nil {
		t.Error("valid date of birth should parse")
	}
	if got[0].SourceRow != 1 || got[1].SourceRow != 2 {
		t.Error("source rows should be 1-based ordinals")
	}
	if got[1].DateOfBirth != nil {
		t.Error("unparseable date of birth should be nil")
	}
	if got[1].Gender != "" {
		t.Error("null marker gender should standardize to empty")
	}
	// Source rows must be preserved untouched.
	if got[0].Raw != raw[0] {
		t.Error("raw row should be carried unmodified")
	}
}

func TestVisits_ICDNormalization(t *testing.T) {
	got := Visits([]model.RawVisitRow{
		{VisitID: "V1", PatientID: "P1", ProviderID: "DR1", VisitDate: "2024-05-01", ICDCode: " e11.9 "},
		{VisitID: "V2", PatientID: "P1", ProviderID: "DR1", VisitDate: "2024-05-01", ICDCode: "NaN"},
	})
	if got[0].ICDCodeNorm != "E11.9" {
		t.Errorf("ICDCodeNorm = %q, want E11.9", got[0].ICDCodeNorm)
	}
	if got[1].ICDCodeNorm != "" || got[1].ICDCode != "" {
		t.Error("null marker diagnosis code should be missing")
	}
}

func TestLabs_TestNameUppercased(t *testing.T) {
	got := Labs([]model.RawLabRow{{LabID: "L1", VisitID: "V1", TestName: "hba1c", TestValue: "6.1"}})
	if got[0].TestName != "HBA1C" {
		t.Errorf("TestName = %q, want HBA1C", got[0].TestName)
	}
}

func TestICD_DropsEmptyCodes(t *testing.T) {
	got := ICD([]model.RawICDRow{
		{Code: " i10 ", Description: "Hypertension"},
		{Code: "NULL", Description: "bogus"},
	})
	if len(got) != 1 {
		t.Fatalf("expected 1 reference entry, got %d", len(got))
	}
	if got[0].Code != "I10" {
		t.Errorf("Code = %q, want I10", got[0].Code)
	}
}
