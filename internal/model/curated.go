package model

// Curated records are derived copies of standardized records that carried
// no ERROR finding. WARN findings ride along as metadata. PatientDigest is
// populated by the de-identification transform; once set, the raw patient
// identifier and name fields have been irreversibly removed.

type CuratedPatient struct {
	Patient
	PatientDigest string
	Warnings      []ValidationFinding
}

type CuratedVisit struct {
	Visit
	PatientDigest string
	Warnings      []ValidationFinding
}

type CuratedLab struct {
	Lab
	PatientDigest string
	Warnings      []ValidationFinding
}
