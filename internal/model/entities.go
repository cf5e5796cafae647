package model

import (
	"time"
)

// Dataset names the entity set a record belongs to. The names match the
// worksheet vocabulary used by the source extracts.
type Dataset string

const (
	DatasetPatients Dataset = "patients"
	DatasetVisits   Dataset = "visits"
	DatasetLabs     Dataset = "labs"
)

// Record is the read-only view the validation engine has of any
// standardized row, regardless of entity set.
type Record interface {
	Dataset() Dataset
	// RecordID returns the record's primary identifier, or "" when the
	// source value was missing.
	RecordID() string
	// Row returns the source row number within the extract, the stable
	// per-run correlation key for audit purposes.
	Row() int64
	// Payload returns the original field values as read from the extract.
	Payload() map[string]string
}

// Patient is a standardized patient row. DateOfBirth is nil when the
// source value was missing or unparseable.
type Patient struct {
	SourceRow   int64
	PatientID   string
	FirstName   string
	LastName    string
	DateOfBirth *time.Time
	Gender      string

	Raw RawPatientRow
}

func (p *Patient) Dataset() Dataset  { return DatasetPatients }
func (p *Patient) RecordID() string  { return p.PatientID }
func (p *Patient) Row() int64        { return p.SourceRow }

func (p *Patient) Payload() map[string]string {
	return map[string]string{
		"patient_id":    p.Raw.PatientID,
		"first_name":    p.Raw.FirstName,
		"last_name":     p.Raw.LastName,
		"date_of_birth": p.Raw.DateOfBirth,
		"gender":        p.Raw.Gender,
	}
}

// Visit is a standardized encounter row. VisitDate is nil when missing or
// unparseable. ICDCodeNorm holds the normalized diagnosis code used for
// reference lookups; "" means no code was supplied.
type Visit struct {
	SourceRow   int64
	VisitID     string
	PatientID   string
	ProviderID  string
	VisitDate   *time.Time
	ICDCode     string
	ICDCodeNorm string

	Raw RawVisitRow
}

func (v *Visit) Dataset() Dataset  { return DatasetVisits }
func (v *Visit) RecordID() string  { return v.VisitID }
func (v *Visit) Row() int64        { return v.SourceRow }

func (v *Visit) Payload() map[string]string {
	return map[string]string{
		"visit_id":    v.Raw.VisitID,
		"patient_id":  v.Raw.PatientID,
		"provider_id": v.Raw.ProviderID,
		"visit_date":  v.Raw.VisitDate,
		"icd_code":    v.Raw.ICDCode,
	}
}

// Lab is a standardized lab-result row.
type Lab struct {
	SourceRow int64
	LabID     string
	VisitID   string
	TestName  string
	TestValue string

	Raw RawLabRow
}

func (l *Lab) Dataset() Dataset  { return DatasetLabs }
func (l *Lab) RecordID() string  { return l.LabID }
func (l *Lab) Row() int64        { return l.SourceRow }

func (l *Lab) Payload() map[string]string {
	return map[string]string{
		"lab_id":     l.Raw.LabID,
		"visit_id":   l.Raw.VisitID,
		"test_name":  l.Raw.TestName,
		"test_value": l.Raw.TestValue,
	}
}

// ICDEntry is one row of the diagnosis reference set. Code is stored
// normalized (trimmed, uppercased). The reference set is a lookup oracle
// only; it does not flow through validation itself.
type ICDEntry struct {
	Code        string
	Description string
}
