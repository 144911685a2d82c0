// Package memory provides an in-memory store implementing the dispatch
// ports. It backs tests and demo runs; the production store lives in
// store/postgres.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rengenols/dispatch/dispatch"
)

// Store holds studies and doctor shifts in memory. All methods are safe for
// concurrent use.
type Store struct {
	mu sync.RWMutex

	studies map[int64]*studyRow
	shifts  []dispatch.DoctorShift

	// FailAssign, when set, makes Assign fail for the given study IDs;
	// used by tests to exercise the degraded-run path.
	FailAssign map[int64]bool
}

type studyRow struct {
	record          dispatch.StudyRecord
	diagnosticianID int64 // 0 = unassigned
	status          string
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		studies:    make(map[int64]*studyRow),
		FailAssign: make(map[int64]bool),
	}
}

// AddStudy registers a pending study.
func (s *Store) AddStudy(rec dispatch.StudyRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.studies[rec.ID] = &studyRow{record: rec, status: "pending"}
}

// AddDoctorShift registers an on-shift doctor for every date; the schedule
// date filter is the caller's concern in this store.
func (s *Store) AddDoctorShift(ds dispatch.DoctorShift) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shifts = append(s.shifts, ds)
}

// PendingStudies implements dispatch.StudyReader.
func (s *Store) PendingStudies(_ context.Context) ([]dispatch.StudyRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []dispatch.StudyRecord
	for _, row := range s.studies {
		if row.diagnosticianID == 0 {
			out = append(out, row.record)
		}
	}
	return out, nil
}

// DoctorsOnShift implements dispatch.DoctorReader.
func (s *Store) DoctorsOnShift(_ context.Context, _ time.Time) ([]dispatch.DoctorShift, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]dispatch.DoctorShift, len(s.shifts))
	copy(out, s.shifts)
	return out, nil
}

// Assign implements dispatch.AssignmentWriter. Idempotent: re-assigning the
// same study to the same doctor is a no-op.
func (s *Store) Assign(_ context.Context, studyID, doctorID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailAssign[studyID] {
		return fmt.Errorf("simulated write failure for study %d", studyID)
	}
	row, ok := s.studies[studyID]
	if !ok {
		return fmt.Errorf("study %d not found", studyID)
	}
	row.diagnosticianID = doctorID
	row.status = "confirmed"
	return nil
}

// AssignedDoctor returns the persisted diagnostician of a study (0 when
// unassigned); a test accessor.
func (s *Store) AssignedDoctor(studyID int64) int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if row, ok := s.studies[studyID]; ok {
		return row.diagnosticianID
	}
	return 0
}

// Status returns the persisted status of a study; a test accessor.
func (s *Store) Status(studyID int64) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if row, ok := s.studies[studyID]; ok {
		return row.status
	}
	return ""
}

// Seed fills the store with a small demo data set around the given instant:
// three doctors with disjoint modality profiles and a mixed-priority backlog.
func Seed(s *Store, now time.Time) {
	day := func(h, m int) *dispatch.TimeOfDay { return &dispatch.TimeOfDay{Hour: h, Minute: m} }
	s.AddDoctorShift(dispatch.DoctorShift{
		Doctor: dispatch.DoctorRecord{ID: 1, Name: "Ivanova A.P.", Modality: dispatch.ModalityList([]string{"CT"}), MaxUPPerDay: 120},
		Shift:  dispatch.ShiftRecord{WorkDate: now, TimeStart: day(9, 0), TimeEnd: day(17, 0)},
	})
	s.AddDoctorShift(dispatch.DoctorShift{
		Doctor: dispatch.DoctorRecord{ID: 2, Name: "Petrov V.S.", Modality: dispatch.ModalityList([]string{"MRI", "CT"}), MaxUPPerDay: 100},
		Shift:  dispatch.ShiftRecord{WorkDate: now, TimeStart: day(8, 0), TimeEnd: day(16, 0)},
	})
	s.AddDoctorShift(dispatch.DoctorShift{
		Doctor: dispatch.DoctorRecord{ID: 3, Name: "Sidorova E.N.", Modality: dispatch.ModalityValue{}},
		Shift:  dispatch.ShiftRecord{WorkDate: now, TimeStart: day(10, 0)},
	})

	priorities := []string{"normal", "cito", "asap", "normal", "normal"}
	modalities := []string{"CT", "MRT", "RENTGEN", "УЗИ", "CT"}
	for i := 0; i < 20; i++ {
		created := now.Add(-time.Duration(i+1) * 30 * time.Minute)
		s.AddStudy(dispatch.StudyRecord{
			ID:             int64(100 + i),
			ResearchNumber: fmt.Sprintf("RN-2025-%04d", 100+i),
			Priority:       priorities[i%len(priorities)],
			CreatedAt:      &created,
			Modality:       dispatch.ModalityString(modalities[i%len(modalities)]),
			UPValue:        float64(1+i%3) * 1.0,
		})
	}
}
