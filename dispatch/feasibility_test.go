package dispatch

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func feasDoctor(available time.Time, maxUP int) *Doctor {
	return &Doctor{
		ID:            1,
		Name:          "D",
		Modalities:    ModalitySet{},
		MaxUP:         maxUP,
		MaxMinutes:    480,
		AvailableTime: available,
	}
}

func TestFeasible_ModalityMismatchRejected(t *testing.T) {
	cfg := DefaultConfig()
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	s := atcStudy(1, PriorityNormal, now, 1.0, cfg)
	s.Modalities = NewModalitySet(ModalityCT)

	d := feasDoctor(now, 120)
	d.Modalities = NewModalitySet(ModalityMRI)
	assert.False(t, feasible(cfg, s, d))

	d.Modalities = NewModalitySet(ModalityCT, ModalityUS)
	assert.True(t, feasible(cfg, s, d))
}

func TestFeasible_WildcardModality(t *testing.T) {
	cfg := DefaultConfig()
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	s := atcStudy(1, PriorityNormal, now, 1.0, cfg)
	s.Modalities = NewModalitySet(ModalityCT)

	// Doctor with no declared modalities takes anything.
	d := feasDoctor(now, 120)
	assert.True(t, feasible(cfg, s, d))

	// Study with no modality matches any doctor.
	s.Modalities = ModalitySet{}
	d.Modalities = NewModalitySet(ModalityMRI)
	assert.True(t, feasible(cfg, s, d))
}

func TestFeasible_CapacityBound(t *testing.T) {
	cfg := DefaultConfig()
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	s := atcStudy(1, PriorityNormal, now, 2.0, cfg)

	d := feasDoctor(now, 4)
	d.CurrentLoad = 2.0
	assert.True(t, feasible(cfg, s, d)) // 2 + 2 == 4 fits exactly

	d.CurrentLoad = 2.5
	assert.False(t, feasible(cfg, s, d)) // 2.5 + 2 > 4
}

func TestFeasible_PassedDeadlineRejected(t *testing.T) {
	cfg := DefaultConfig()
	created := time.Date(2025, 3, 10, 6, 0, 0, 0, time.UTC)
	s := atcStudy(1, PriorityCito, created, 1.0, cfg) // deadline 08:00

	d := feasDoctor(time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC), 120)
	assert.False(t, feasible(cfg, s, d))

	d.AvailableTime = time.Date(2025, 3, 10, 7, 30, 0, 0, time.UTC)
	assert.True(t, feasible(cfg, s, d))
}

func TestFeasible_ShiftWindowWithOvertimeSlack(t *testing.T) {
	cfg := DefaultConfig()
	now := time.Date(2025, 3, 10, 16, 50, 0, 0, time.UTC)
	end := time.Date(2025, 3, 10, 17, 0, 0, 0, time.UTC)

	s := atcStudy(1, PriorityNormal, now, 2.0, cfg) // 30 minutes
	d := feasDoctor(now, 120)
	d.TimeEnd = &end

	// Finish 17:20 is inside the 30-minute overtime slack.
	assert.True(t, feasible(cfg, s, d))

	// 50 minutes of work would finish 17:40, past 17:30.
	long := atcStudy(2, PriorityNormal, now, 10.0/3.0, cfg)
	assert.False(t, feasible(cfg, long, d))
}

func TestFeasible_MinutesBudgetWithoutShiftEnd(t *testing.T) {
	cfg := DefaultConfig()
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	s := atcStudy(1, PriorityNormal, now, 2.0, cfg) // 30 minutes

	d := feasDoctor(now, 120)
	d.CurrentMinutes = 480
	assert.True(t, feasible(cfg, s, d)) // 510 == 480+30, fits exactly

	d.CurrentMinutes = 490
	assert.False(t, feasible(cfg, s, d)) // 520 > 510
}

func TestDoctorExhausted(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	d := feasDoctor(now, 4)
	assert.False(t, d.Exhausted())

	d.CurrentLoad = 4
	assert.True(t, d.Exhausted())

	d2 := feasDoctor(now, 120)
	d2.CurrentMinutes = 480
	assert.True(t, d2.Exhausted())
}
