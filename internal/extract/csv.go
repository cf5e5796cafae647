package extract

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/gcasey/emrcurate/internal/model"
)

// table is a fully-read CSV file with a normalized header index.
type table struct {
	file   string
	header map[string]int
	rows   [][]string
}

// readCSVTable reads a whole CSV file into memory. The extracts are small
// periodic batches, not streams; one pass over an in-memory table keeps
// the snapshot semantics simple.
func readCSVTable(path string) (*table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: file is empty, expected a header row", path)
	}

	header := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		header[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return &table{file: path, header: header, rows: records[1:]}, nil
}

// cell returns the named column's value for a row, or "" when the row is
// ragged and the column index is out of range.
func (t *table) cell(row []string, col string) string {
	idx, ok := t.header[col]
	if !ok || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func readPatientsCSV(path string) ([]model.RawPatientRow, error) {
	t, err := readCSVTable(path)
	if err != nil {
		return nil, err
	}
	if err := checkColumns(t.file, t.header, patientColumns); err != nil {
		return nil, err
	}
	out := make([]model.RawPatientRow, len(t.rows))
	for i, row := range t.rows {
		out[i] = model.RawPatientRow{
			PatientID:   t.cell(row, "patient_id"),
			FirstName:   t.cell(row, "first_name"),
			LastName:    t.cell(row, "last_name"),
			DateOfBirth: t.cell(row, "date_of_birth"),
			Gender:      t.cell(row, "gender"),
		}
	}
	return out, nil
}

func readVisitsCSV(path string) ([]model.RawVisitRow, error) {
	t, err := readCSVTable(path)
	if err != nil {
		return nil, err
	}
	if err := checkColumns(t.file, t.header, visitColumns); err != nil {
		return nil, err
	}
	out := make([]model.RawVisitRow, len(t.rows))
	for i, row := range t.rows {
		out[i] = model.RawVisitRow{
			VisitID:    t.cell(row, "visit_id"),
			PatientID:  t.cell(row, "patient_id"),
			ProviderID: t.cell(row, "provider_id"),
			VisitDate:  t.cell(row, "visit_date"),
			ICDCode:    t.cell(row, "icd_code"),
		}
	}
	return out, nil
}

func readLabsCSV(path string) ([]model.RawLabRow, error) {
	t, err := readCSVTable(path)
	if err != nil {
		return nil, err
	}
	if err := checkColumns(t.file, t.header, labColumns); err != nil {
		return nil, err
	}
	out := make([]model.RawLabRow, len(t.rows))
	for i, row := range t.rows {
		out[i] = model.RawLabRow{
			LabID:     t.cell(row, "lab_id"),
			VisitID:   t.cell(row, "visit_id"),
			TestName:  t.cell(row, "test_name"),
			TestValue: t.cell(row, "test_value"),
		}
	}
	return out, nil
}

func readICDCSV(path string) ([]model.RawICDRow, error) {
	t, err := readCSVTable(path)
	if err != nil {
		return nil, err
	}
	codeCol, ok := findICDColumn(t.header)
	if !ok {
		return nil, checkColumns(t.file, t.header, []string{"code"})
	}
	out := make([]model.RawICDRow, len(t.rows))
	for i, row := range t.rows {
		out[i] = model.RawICDRow{
			Code:        t.cell(row, codeCol),
			Description: t.cell(row, "description"),
		}
	}
	return out, nil
}
