// mkfixture writes a small synthetic extract for tests and local runs:
// clean patients, visits, and labs plus one seeded violation of each kind
// (duplicate IDs, unparseable dates, orphaned references, unmatched ICD
// codes), in CSV or Parquet form.
// Usage: go run ./cmd/mkfixture --out testdata/extract --format csv
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	goparquet "github.com/parquet-go/parquet-go"

	"github.com/gcasey/emrcurate/internal/model"
)

func main() {
	out := flag.String("out", "testdata/extract", "output directory")
	format := flag.String("format", "csv", "output format: csv or parquet")
	flag.Parse()

	if err := os.MkdirAll(*out, 0o755); err != nil {
		fatal("create output dir: %v", err)
	}

	patients := []model.RawPatientRow{
		{PatientID: "P001", FirstName: "mArY", LastName: "smith", DateOfBirth: "1984-03-12", Gender: "F"},
		{PatientID: "P002", FirstName: "John", LastName: "Doe", DateOfBirth: "03/22/1991", Gender: "M"},
		{PatientID: "P003", FirstName: "Ana", LastName: "Lopez", DateOfBirth: "2020-01-01", Gender: "F"},
		// Duplicate identifier with conflicting names: both quarantined.
		{PatientID: "P004", FirstName: "Sam", LastName: "Park", DateOfBirth: "1975-07-04", Gender: "M"},
		{PatientID: "P004", FirstName: "Samuel", LastName: "Parks", DateOfBirth: "1975-07-04", Gender: "M"},
		// Unparseable date of birth.
		{PatientID: "P005", FirstName: "Lee", LastName: "Chen", DateOfBirth: "not-a-date", Gender: "F"},
		// Missing identifier.
		{PatientID: "", FirstName: "Noa", LastName: "Levi", DateOfBirth: "1990-09-09", Gender: "F"},
	}

	visits := []model.RawVisitRow{
		{VisitID: "V100", PatientID: "P001", ProviderID: "DR7", VisitDate: "2024-05-01", ICDCode: "E11.9"},
		{VisitID: "V101", PatientID: "P002", ProviderID: "DR7", VisitDate: "2024-05-02", ICDCode: "I10"},
		// Visit before the referenced patient's birth.
		{VisitID: "V102", PatientID: "P003", ProviderID: "DR8", VisitDate: "2019-06-01", ICDCode: "J45"},
		// Unmatched ICD code: WARN only, stays curated.
		{VisitID: "V103", PatientID: "P001", ProviderID: "DR9", VisitDate: "2024-05-03", ICDCode: "xyz99"},
		// Missing provider: WARN only.
		{VisitID: "V104", PatientID: "P002", ProviderID: "", VisitDate: "2024-05-04", ICDCode: "I10"},
		// Unresolvable patient reference.
		{VisitID: "V105", PatientID: "P999", ProviderID: "DR7", VisitDate: "2024-05-05", ICDCode: "E11.9"},
	}

	labs := []model.RawLabRow{
		{LabID: "L200", VisitID: "V100", TestName: "hba1c", TestValue: "6.1"},
		{LabID: "L201", VisitID: "V101", TestName: "ldl", TestValue: "130"},
		// Orphaned visit reference.
		{LabID: "L202", VisitID: "V999", TestName: "cbc", TestValue: "ok"},
		// Missing test value.
		{LabID: "L203", VisitID: "V103", TestName: "tsh", TestValue: ""},
	}

	icd := []model.RawICDRow{
		{Code: "E11.9", Description: "Type 2 diabetes mellitus without complications"},
		{Code: "I10", Description: "Essential (primary) hypertension"},
		{Code: "J45", Description: "Asthma"},
	}

	switch *format {
	case "csv":
		writeCSV(*out, "patients.csv",
			[]string{"patient_id", "first_name", "last_name", "date_of_birth", "gender"},
			len(patients), func(i int) []string {
				p := patients[i]
				return []string{p.PatientID, p.FirstName, p.LastName, p.DateOfBirth, p.Gender}
			})
		writeCSV(*out, "visits.csv",
			[]string{"visit_id", "patient_id", "provider_id", "visit_date", "icd_code"},
			len(visits), func(i int) []string {
				v := visits[i]
				return []string{v.VisitID, v.PatientID, v.ProviderID, v.VisitDate, v.ICDCode}
			})
		writeCSV(*out, "labs.csv",
			[]string{"lab_id", "visit_id", "test_name", "test_value"},
			len(labs), func(i int) []string {
				l := labs[i]
				return []string{l.LabID, l.VisitID, l.TestName, l.TestValue}
			})
		writeCSV(*out, "icd_reference.csv",
			[]string{"code", "description"},
			len(icd), func(i int) []string {
				e := icd[i]
				return []string{e.Code, e.Description}
			})
	case "parquet":
		writeParquet(*out, "patients.parquet", patients)
		writeParquet(*out, "visits.parquet", visits)
		writeParquet(*out, "labs.parquet", labs)
		writeParquet(*out, "icd_reference.parquet", icd)
	default:
		fatal("unknown format %q", *format)
	}

	fmt.Printf("Wrote %d patients, %d visits, %d labs, %d icd codes to %s (%s)\n",
		len(patients), len(visits), len(labs), len(icd), *out, *format)
}

func writeCSV(dir, name string, header []string, n int, row func(int) []string) {
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		fatal("create %s: %v", name, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		fatal("write %s header: %v", name, err)
	}
	for i := 0; i < n; i++ {
		if err := w.Write(row(i)); err != nil {
			fatal("write %s row %d: %v", name, i, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		fatal("flush %s: %v", name, err)
	}
}

func writeParquet[T any](dir, name string, rows []T) {
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		fatal("create %s: %v", name, err)
	}
	defer f.Close()

	w := goparquet.NewGenericWriter[T](f)
	if _, err := w.Write(rows); err != nil {
		fatal("write %s: %v", name, err)
	}
	if err := w.Close(); err != nil {
		fatal("close %s: %v", name, err)
	}
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
