package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rengenols/dispatch/dispatch"
)

func TestStore_PendingStudiesExcludesAssigned(t *testing.T) {
	s := NewStore()
	created := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	s.AddStudy(dispatch.StudyRecord{ID: 1, CreatedAt: &created})
	s.AddStudy(dispatch.StudyRecord{ID: 2, CreatedAt: &created})

	pending, err := s.PendingStudies(context.Background())
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	require.NoError(t, s.Assign(context.Background(), 1, 7))
	pending, err = s.PendingStudies(context.Background())
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, int64(2), pending[0].ID)
}

func TestStore_AssignSetsDiagnosticianAndStatus(t *testing.T) {
	s := NewStore()
	s.AddStudy(dispatch.StudyRecord{ID: 1})

	require.NoError(t, s.Assign(context.Background(), 1, 7))
	assert.Equal(t, int64(7), s.AssignedDoctor(1))
	assert.Equal(t, "confirmed", s.Status(1))

	// Idempotent re-assignment.
	require.NoError(t, s.Assign(context.Background(), 1, 7))
	assert.Equal(t, int64(7), s.AssignedDoctor(1))
}

func TestStore_AssignUnknownStudyFails(t *testing.T) {
	s := NewStore()
	assert.Error(t, s.Assign(context.Background(), 99, 1))
}

func TestStore_FailAssignSimulatesWriteFailure(t *testing.T) {
	s := NewStore()
	s.AddStudy(dispatch.StudyRecord{ID: 1})
	s.FailAssign[1] = true

	assert.Error(t, s.Assign(context.Background(), 1, 7))
	assert.Equal(t, int64(0), s.AssignedDoctor(1))
}

func TestSeed_ShapesDemoDataSet(t *testing.T) {
	s := NewStore()
	now := time.Date(2025, 3, 10, 11, 0, 0, 0, time.UTC)
	Seed(s, now)

	pending, err := s.PendingStudies(context.Background())
	require.NoError(t, err)
	assert.Len(t, pending, 20)

	shifts, err := s.DoctorsOnShift(context.Background(), now)
	require.NoError(t, err)
	require.Len(t, shifts, 3)
	assert.NotNil(t, shifts[0].Shift.TimeEnd)
	assert.Nil(t, shifts[2].Shift.TimeEnd, "third doctor has an open-ended shift")
}
