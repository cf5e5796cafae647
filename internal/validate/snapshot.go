package validate

import (
	"time"

	"github.com/gcasey/emrcurate/internal/model"
)

type labTestKey struct {
	visitID  string
	testName string
}

// Snapshot is the point-in-time view of all four standardized entity sets
// a run validates against. All indexes are built once at construction and
// the snapshot is read-only for the remainder of the run, so rule
// evaluation is traversal-order independent and safe to parallelize.
//
// Identifier-count indexes exist so uniqueness rules are functions over
// the whole entity set rather than stateful accumulators: every offending
// record sees the same count regardless of iteration order.
type Snapshot struct {
	Patients []model.Patient
	Visits   []model.Visit
	Labs     []model.Lab

	asOf time.Time

	patientByID    map[string]*model.Patient
	patientIDCount map[string]int
	visitByID      map[string]*model.Visit
	visitIDCount   map[string]int
	labTestCount   map[labTestKey]int
	icdByCode      map[string]string
}

// NewSnapshot indexes the standardized entity sets. asOf is the run's
// reference time, used by rules that compare against "today".
func NewSnapshot(patients []model.Patient, visits []model.Visit, labs []model.Lab, icd []model.ICDEntry, asOf time.Time) *Snapshot {
	s := &Snapshot{
		Patients: patients,
		Visits:   visits,
		Labs:     labs,
		asOf:     asOf,

		patientByID:    make(map[string]*model.Patient, len(patients)),
		patientIDCount: make(map[string]int, len(patients)),
		visitByID:      make(map[string]*model.Visit, len(visits)),
		visitIDCount:   make(map[string]int, len(visits)),
		labTestCount:   make(map[labTestKey]int, len(labs)),
		icdByCode:      make(map[string]string, len(icd)),
	}

	for i := range patients {
		p := &patients[i]
		if p.PatientID == "" {
			continue
		}
		s.patientIDCount[p.PatientID]++
		if _, seen := s.patientByID[p.PatientID]; !seen {
			s.patientByID[p.PatientID] = p
		}
	}
	for i := range visits {
		v := &visits[i]
		if v.VisitID == "" {
			continue
		}
		s.visitIDCount[v.VisitID]++
		if _, seen := s.visitByID[v.VisitID]; !seen {
			s.visitByID[v.VisitID] = v
		}
	}
	for i := range labs {
		l := &labs[i]
		if l.VisitID == "" || l.TestName == "" {
			continue
		}
		s.labTestCount[labTestKey{l.VisitID, l.TestName}]++
	}
	for _, e := range icd {
		s.icdByCode[e.Code] = e.Description
	}
	return s
}

// AsOf returns the run's reference time.
func (s *Snapshot) AsOf() time.Time { return s.asOf }

// PatientByID resolves a patient by identifier. When the identifier is
// duplicated, the first occurrence in extract order is returned.
func (s *Snapshot) PatientByID(id string) (*model.Patient, bool) {
	p, ok := s.patientByID[id]
	return p, ok
}

// PatientIDCount returns how many patient records share the identifier.
func (s *Snapshot) PatientIDCount(id string) int { return s.patientIDCount[id] }

// VisitByID resolves a visit by identifier.
func (s *Snapshot) VisitByID(id string) (*model.Visit, bool) {
	v, ok := s.visitByID[id]
	return v, ok
}

// VisitIDCount returns how many visit records share the identifier.
func (s *Snapshot) VisitIDCount(id string) int { return s.visitIDCount[id] }

// LabTestCount returns how many lab records share the (visit, test) pair.
func (s *Snapshot) LabTestCount(visitID, testName string) int {
	return s.labTestCount[labTestKey{visitID, testName}]
}

// ICDLookup resolves a normalized diagnosis code against the reference
// set, returning its description.
func (s *Snapshot) ICDLookup(code string) (string, bool) {
	desc, ok := s.icdByCode[code]
	return desc, ok
}

// ICDCount returns the size of the diagnosis reference set.
func (s *Snapshot) ICDCount() int { return len(s.icdByCode) }
