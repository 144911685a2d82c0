package dispatch

import (
	"errors"
	"fmt"
)

// ErrSnapshotUnavailable wraps any failure to obtain a consistent read of
// studies or doctors. Fatal: the run aborts before any mutation.
var ErrSnapshotUnavailable = errors.New("snapshot unavailable")

// InvariantViolation reports an internal assertion failure. It names the
// invariant and the offending record; it should never occur in correct
// builds and must be treated as a bug, not an operational condition.
type InvariantViolation struct {
	Invariant string // e.g. "capacity"
	Detail    string
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("invariant %s violated: %s", e.Invariant, e.Detail)
}

// UnpersistedAssignment identifies an assignment whose write failed after
// all retries.
type UnpersistedAssignment struct {
	StudyID  int64  `json:"study_id"`
	DoctorID int64  `json:"doctor_id"`
	Reason   string `json:"reason"`
}

// PersistenceFailure reports that one or more assignment writes failed after
// retrying. Non-fatal: the result envelope is still produced, marked
// degraded, with the failed writes listed.
type PersistenceFailure struct {
	Unpersisted []UnpersistedAssignment
}

func (e *PersistenceFailure) Error() string {
	return fmt.Sprintf("persistence failure: %d assignment(s) not persisted", len(e.Unpersisted))
}
