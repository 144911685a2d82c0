// The snapshot loader: the only place raw records are inspected. It resolves
// every optional field to a concrete value using the documented defaults, so
// the rest of the engine sees total types only.

package dispatch

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
)

// Snapshot is the resolved working set of one run. It is a value: mutations
// of the backing store after the load do not affect it.
type Snapshot struct {
	Now     time.Time
	Studies []*Study
	Doctors []*Doctor

	// Diagnostics lists studies skipped as malformed; they count as
	// unassigned in the envelope.
	Diagnostics []string
}

// PendingCount is the size of the raw pending set, including skipped
// records. assigned + unassigned must equal this.
func (s *Snapshot) PendingCount() int {
	return len(s.Studies) + len(s.Diagnostics)
}

// loadSnapshot reads both dimensions through the ports and resolves them.
// now must already be in the canonical zone.
func loadSnapshot(ctx context.Context, cfg Config, studies StudyReader, doctors DoctorReader, now time.Time) (*Snapshot, error) {
	records, err := studies.PendingStudies(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: pending studies: %v", ErrSnapshotUnavailable, err)
	}
	shifts, err := doctors.DoctorsOnShift(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("%w: doctors on shift: %v", ErrSnapshotUnavailable, err)
	}

	snap := &Snapshot{Now: now}
	loc := cfg.Location()

	for _, rec := range records {
		if rec.ID == 0 {
			snap.Diagnostics = append(snap.Diagnostics,
				fmt.Sprintf("study %q skipped: missing id", rec.ResearchNumber))
			logrus.Warnf("snapshot: study %q skipped: missing id", rec.ResearchNumber)
			continue
		}
		snap.Studies = append(snap.Studies, resolveStudy(cfg, rec, now, loc))
	}
	for _, ds := range shifts {
		snap.Doctors = append(snap.Doctors, resolveDoctor(cfg, ds, now, loc))
	}

	// Primary key: priority rank (cito < asap < normal); secondary created_at
	// ascending; then id for determinism.
	sort.SliceStable(snap.Studies, func(i, j int) bool {
		a, b := snap.Studies[i], snap.Studies[j]
		if a.Priority.Rank() != b.Priority.Rank() {
			return a.Priority.Rank() < b.Priority.Rank()
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})

	return snap, nil
}

// resolveStudy turns a raw record into a total working study.
// Data-shape defects are handled locally: a bad modality collapses to the
// wildcard set, a missing created_at becomes "now".
func resolveStudy(cfg Config, rec StudyRecord, now time.Time, loc *time.Location) *Study {
	created := now
	if rec.CreatedAt != nil {
		created = toCanonical(*rec.CreatedAt, loc)
	}

	up := rec.UPValue
	if up <= 0 {
		up = 1.0
	}

	priority := ParsePriority(rec.Priority)
	var typeID int64
	if rec.StudyTypeID != nil {
		typeID = *rec.StudyTypeID
	}

	return &Study{
		ID:          rec.ID,
		Number:      rec.ResearchNumber,
		Priority:    priority,
		CreatedAt:   created,
		StudyTypeID: typeID,
		Modalities:  NormalizeModality(rec.Modality),
		UP:          up,
		Duration:    time.Duration(up * cfg.MinutesPerUP * float64(time.Minute)),
		Deadline:    cfg.Deadline(priority, created),
		Weight:      cfg.Weights[priority],
	}
}

// resolveDoctor turns a doctor+schedule pair into a working doctor with the
// run state initialized.
func resolveDoctor(cfg Config, ds DoctorShift, now time.Time, loc *time.Location) *Doctor {
	rec, shift := ds.Doctor, ds.Shift

	maxUP := rec.MaxUPPerDay
	if maxUP <= 0 {
		maxUP = cfg.DefaultMaxUPPerDay
	}

	var start, end *time.Time
	if shift.TimeStart != nil {
		t := shift.TimeStart.On(now, loc)
		start = &t
	}
	if shift.TimeEnd != nil {
		t := shift.TimeEnd.On(now, loc)
		end = &t
	}

	maxMinutes := cfg.DefaultShiftMinutes
	if start != nil && end != nil {
		if m := int(end.Sub(*start).Minutes()); m > 0 {
			maxMinutes = m
		}
	}

	available := now
	if start != nil {
		available = *start
	}

	return &Doctor{
		ID:            rec.ID,
		Name:          rec.Name,
		Modalities:    NormalizeModality(rec.Modality),
		MaxUP:         maxUP,
		MaxMinutes:    maxMinutes,
		TimeStart:     start,
		TimeEnd:       end,
		AvailableTime: available,
	}
}

// toCanonical promotes an instant into the canonical zone. Every ingress
// into the working set passes through here; the engine never compares
// instants from mixed zones.
func toCanonical(t time.Time, loc *time.Location) time.Time {
	return t.In(loc)
}
