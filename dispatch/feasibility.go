// The feasibility predicate: decides whether a study may be committed to a
// doctor given the doctor's current run state. Every emitted assignment must
// satisfy this predicate at the moment of commit.

package dispatch

// feasible evaluates the four admissibility rules for assigning s to d at
// d's current state:
//
//  1. modality sets intersect (an empty set on either side is the wildcard),
//  2. daily point capacity is not exceeded,
//  3. the doctor can still start before the study's deadline; a study whose
//     deadline has already passed at the doctor's instant is rejected rather
//     than committed as guaranteed-tardy work,
//  4. the study finishes within the shift window plus the overtime slack.
//
// Doctors reporting Exhausted() are out of the run and never reach here.
func feasible(cfg Config, s *Study, d *Doctor) bool {
	if !s.Modalities.Compatible(d.Modalities) {
		return false
	}
	if d.CurrentLoad+s.UP > float64(d.MaxUP) {
		return false
	}
	if d.AvailableTime.After(s.Deadline) {
		return false
	}
	if d.TimeEnd != nil {
		finish := d.AvailableTime.Add(s.Duration)
		if finish.After(d.TimeEnd.Add(cfg.OvertimeSlack())) {
			return false
		}
	}
	// The minutes budget holds regardless of whether a shift end is on the
	// schedule row; with both bounds present it coincides with the
	// wall-clock check above.
	if d.CurrentMinutes+s.Duration.Minutes() > float64(d.MaxMinutes)+cfg.OvertimeSlack().Minutes() {
		return false
	}
	return true
}
