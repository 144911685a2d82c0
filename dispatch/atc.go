// The Apparent Tardiness Cost index. ATC multiplies weighted processing-rate
// urgency by an exponential decay over slack: the index saturates to w/p as
// slack approaches zero and shrinks when a study still has room, so the loop
// favors studies that are both heavy and near-due.

package dispatch

import (
	"math"
	"time"
)

// atcEpsilon is the tolerance under which two indices count as tied and the
// deterministic tie-break applies.
const atcEpsilon = 1e-9

// ATCIndex computes the index of scheduling study s on a machine that frees
// up at instant t:
//
//	slack = (deadline − t) in hours − p
//	index = (w / p) · exp(−max(0, slack) / (k · p))
//
// with p the processing time in hours (clamped to 0.25).
func ATCIndex(cfg Config, s *Study, t time.Time) float64 {
	p := s.ProcessingHours()
	slack := s.Deadline.Sub(t).Hours() - p
	return s.Weight / p * math.Exp(-math.Max(0, slack)/(cfg.ATCKParam*p))
}

// candidate is one feasible (study, doctor) pair under consideration in an
// assignment iteration.
type candidate struct {
	study  *Study
	doctor *Doctor
	index  float64
}

// better reports whether c should be preferred over best. Indices equal to
// within atcEpsilon tie-break by priority rank, then earlier created_at,
// then lower study id, so selection is deterministic.
func (c candidate) better(best candidate) bool {
	if best.study == nil {
		return true
	}
	if math.Abs(c.index-best.index) > atcEpsilon {
		return c.index > best.index
	}
	if c.study.Priority.Rank() != best.study.Priority.Rank() {
		return c.study.Priority.Rank() < best.study.Priority.Rank()
	}
	if !c.study.CreatedAt.Equal(best.study.CreatedAt) {
		return c.study.CreatedAt.Before(best.study.CreatedAt)
	}
	return c.study.ID < best.study.ID
}
