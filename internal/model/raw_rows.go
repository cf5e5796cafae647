package model

// Raw extract rows mirror the source worksheets field-for-field, before
// standardization. Every field is a string exactly as read; sentinel null
// markers ("NULL", "NaN", ...) are resolved later by the standardizer.
// The parquet tags also define the Parquet schema for extract files.

type RawPatientRow struct {
	PatientID   string `parquet:"patient_id"`
	FirstName   string `parquet:"first_name"`
	LastName    string `parquet:"last_name"`
	DateOfBirth string `parquet:"date_of_birth"`
	Gender      string `parquet:"gender"`
}

type RawVisitRow struct {
	VisitID    string `parquet:"visit_id"`
	PatientID  string `parquet:"patient_id"`
	ProviderID string `parquet:"provider_id"`
	VisitDate  string `parquet:"visit_date"`
	ICDCode    string `parquet:"icd_code"`
}

type RawLabRow struct {
	LabID     string `parquet:"lab_id"`
	VisitID   string `parquet:"visit_id"`
	TestName  string `parquet:"test_name"`
	TestValue string `parquet:"test_value"`
}

type RawICDRow struct {
	Code        string `parquet:"code"`
	Description string `parquet:"description"`
}
