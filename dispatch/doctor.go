// Defines the raw doctor and schedule records read from the store and the
// resolved working doctor the engine mutates during a run.

package dispatch

import (
	"fmt"
	"time"
)

// TimeOfDay is a wall-clock time within a shift date, zone-free.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// On anchors the time of day onto a calendar date in the given zone.
func (t TimeOfDay) On(date time.Time, loc *time.Location) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour, t.Minute, 0, 0, loc)
}

// DoctorRecord is a doctor as read from the store.
type DoctorRecord struct {
	ID          int64
	Name        string // fio_alias
	Modality    ModalityValue
	MaxUPPerDay int // 0 means absent; the loader applies the default
}

// ShiftRecord is the schedule row pairing a doctor with a working day.
// Either bound may be absent.
type ShiftRecord struct {
	WorkDate  time.Time
	TimeStart *TimeOfDay
	TimeEnd   *TimeOfDay
}

// DoctorShift is the unit returned by the doctor read port: an on-shift,
// active doctor together with the schedule row for the target date.
type DoctorShift struct {
	Doctor DoctorRecord
	Shift  ShiftRecord
}

// Doctor is a fully resolved doctor in the run's working set. The mutable
// fields are owned exclusively by the assignment loop.
type Doctor struct {
	ID         int64
	Name       string
	Modalities ModalitySet
	MaxUP      int
	MaxMinutes int // shift budget; defaulted when bounds are missing

	// Shift bounds anchored on the run date; nil when the schedule row has
	// none.
	TimeStart *time.Time
	TimeEnd   *time.Time

	// Mutable run state.
	CurrentLoad    float64   // Σ UP of committed assignments
	CurrentMinutes float64   // Σ duration of committed assignments
	AvailableTime  time.Time // earliest instant the next study can begin
	AssignedIDs    []int64   // committed study IDs in commit order

	exhausted bool
}

// RemainingUP returns the unused daily capacity in conventional points.
func (d *Doctor) RemainingUP() float64 {
	rem := float64(d.MaxUP) - d.CurrentLoad
	if rem < 0 {
		return 0
	}
	return rem
}

// RemainingMinutes returns the unused shift budget.
func (d *Doctor) RemainingMinutes() float64 {
	return float64(d.MaxMinutes) - d.CurrentMinutes
}

// Exhausted reports whether the doctor is out of the run for good: daily
// point capacity reached or shift budget spent.
func (d *Doctor) Exhausted() bool {
	if d.exhausted {
		return true
	}
	if d.CurrentLoad >= float64(d.MaxUP) || d.RemainingMinutes() <= 0 {
		d.exhausted = true
	}
	return d.exhausted
}

// LoadPercent returns the committed load as a share of daily capacity.
func (d *Doctor) LoadPercent() float64 {
	if d.MaxUP == 0 {
		return 0
	}
	return d.CurrentLoad / float64(d.MaxUP) * 100
}

func (d *Doctor) String() string {
	return fmt.Sprintf("Doctor(id=%d name=%s load=%.1f/%d available=%s)",
		d.ID, d.Name, d.CurrentLoad, d.MaxUP, d.AvailableTime.Format(time.RFC3339))
}
