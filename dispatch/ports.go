// Host-supplied ports. The engine never discovers its collaborators; they
// are injected at construction and the core stays pure between the snapshot
// read and the assignment writes.

package dispatch

import (
	"context"
	"time"
)

// Clock supplies the run's single "now". The engine captures one instant at
// the start of a run and uses it consistently.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock returns a constant instant; used by tests and previews that
// must be reproducible.
type FixedClock struct {
	Instant time.Time
}

func (f FixedClock) Now() time.Time { return f.Instant }

// StudyReader reads the unassigned studies snapshot.
type StudyReader interface {
	// PendingStudies returns every study whose diagnostician reference is
	// absent. Order is not significant; the snapshot loader re-sorts.
	// A failure means no consistent snapshot could be taken.
	PendingStudies(ctx context.Context) ([]StudyRecord, error)
}

// DoctorReader reads the on-shift doctors snapshot.
type DoctorReader interface {
	// DoctorsOnShift returns the active doctors having a working (non
	// day-off) schedule row for the given date, paired with that row.
	DoctorsOnShift(ctx context.Context, date time.Time) ([]DoctorShift, error)
}

// AssignmentWriter persists one committed assignment. Writes are idempotent:
// repeating a write for the same study and doctor is harmless.
type AssignmentWriter interface {
	// Assign sets the study's diagnostician and marks it confirmed.
	Assign(ctx context.Context, studyID, doctorID int64) error
}
