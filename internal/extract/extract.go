package extract

import (
	"fmt"
	"path/filepath"

	"github.com/gcasey/emrcurate/internal/model"
)

// Supported extract formats.
const (
	FormatCSV     = "csv"
	FormatParquet = "parquet"
)

// Extract bundles the four raw snapshots of one periodic extract.
type Extract struct {
	Patients []model.RawPatientRow
	Visits   []model.RawVisitRow
	Labs     []model.RawLabRow
	ICD      []model.RawICDRow
}

// File basenames expected inside an extract directory, minus extension.
var fileNames = struct {
	patients, visits, labs, icd string
}{"patients", "visits", "labs", "icd_reference"}

// ReadDir reads all four extract files from dir. Any missing file or
// missing column is a fatal input-shape fault; no partial extract is
// returned.
func ReadDir(dir, format string) (*Extract, error) {
	path := func(name string) string {
		return filepath.Join(dir, name+"."+format)
	}

	switch format {
	case FormatCSV:
		patients, err := readPatientsCSV(path(fileNames.patients))
		if err != nil {
			return nil, err
		}
		visits, err := readVisitsCSV(path(fileNames.visits))
		if err != nil {
			return nil, err
		}
		labs, err := readLabsCSV(path(fileNames.labs))
		if err != nil {
			return nil, err
		}
		icd, err := readICDCSV(path(fileNames.icd))
		if err != nil {
			return nil, err
		}
		return &Extract{Patients: patients, Visits: visits, Labs: labs, ICD: icd}, nil

	case FormatParquet:
		patients, err := readParquet[model.RawPatientRow](path(fileNames.patients), patientColumns)
		if err != nil {
			return nil, err
		}
		visits, err := readParquet[model.RawVisitRow](path(fileNames.visits), visitColumns)
		if err != nil {
			return nil, err
		}
		labs, err := readParquet[model.RawLabRow](path(fileNames.labs), labColumns)
		if err != nil {
			return nil, err
		}
		icd, err := readParquet[model.RawICDRow](path(fileNames.icd), []string{"code"})
		if err != nil {
			return nil, err
		}
		return &Extract{Patients: patients, Visits: visits, Labs: labs, ICD: icd}, nil

	default:
		return nil, fmt.Errorf("unsupported extract format %q (want %s or %s)", format, FormatCSV, FormatParquet)
	}
}
