// The assignment loop. Each iteration scans all (study, doctor) pairs that
// are still feasible, commits the pair with the highest ATC index, and
// advances the chosen doctor's bookkeeping. The loop terminates when the
// pending queue drains or no feasible pair remains.

package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// stallGuardLimit bounds iterations beyond the theoretical maximum. The
// guard must never fire when the feasibility check is correct; it exists so
// a bug degrades into a diagnosable error instead of a spin.
const stallGuardLimit = 100

// runNamespace derives deterministic run IDs: identical snapshot and clock
// yield identical envelopes, byte for byte.
var runNamespace = uuid.MustParse("8d5bd82e-6c93-4f07-9f1a-47c3f6f3f2aa")

// Engine performs distribution runs over the injected ports. Two runs must
// not execute concurrently against the same logical backing store;
// serialization is the caller's responsibility.
type Engine struct {
	cfg     Config
	clock   Clock
	studies StudyReader
	doctors DoctorReader
	writer  AssignmentWriter
	metrics *Metrics
	log     *logrus.Entry
}

// NewEngine wires an engine from its ports. metrics may be nil when the host
// does not scrape any.
func NewEngine(cfg Config, clock Clock, studies StudyReader, doctors DoctorReader, writer AssignmentWriter, metrics *Metrics) *Engine {
	return &Engine{
		cfg:     cfg,
		clock:   clock,
		studies: studies,
		doctors: doctors,
		writer:  writer,
		metrics: metrics,
		log:     logrus.WithField("component", "dispatch"),
	}
}

// Distribute performs a full run against "now": snapshot, assignment loop,
// persistence, envelope.
//
// The envelope is returned whenever the run got past the snapshot, including
// on persistence failure: in that case err is a *PersistenceFailure, the
// envelope is marked degraded and lists the unpersisted assignments.
// A nil envelope is only returned with ErrSnapshotUnavailable or an
// *InvariantViolation.
func (e *Engine) Distribute(ctx context.Context) (*ResultEnvelope, error) {
	now := toCanonical(e.clock.Now(), e.cfg.Location())
	snap, err := loadSnapshot(ctx, e.cfg, e.studies, e.doctors, now)
	if err != nil {
		return nil, err
	}

	runID := deriveRunID(snap)
	log := e.log.WithField("run_id", runID)
	log.Infof("run start: %d pending studies, %d doctors on shift", snap.PendingCount(), len(snap.Doctors))

	if len(snap.Studies) == 0 || len(snap.Doctors) == 0 {
		env := emptyEnvelope(runID, snap)
		log.Info("empty snapshot; nothing to distribute")
		return env, nil
	}

	assignments, err := e.runLoop(snap, log)
	if err != nil {
		return nil, err
	}

	env := buildEnvelope(runID, snap, assignments)

	if unpersisted := e.persist(ctx, snap, log); len(unpersisted) > 0 {
		env.Unpersisted = unpersisted
		env.Degraded = true
		pf := &PersistenceFailure{Unpersisted: unpersisted}
		env.Error = pf.Error()
		e.observe(env)
		log.Warnf("run degraded: %d assignment(s) unpersisted", len(unpersisted))
		return env, pf
	}

	e.observe(env)
	log.Infof("run done: %s (Z=%.2f)", env.Message, env.TotalWeightedTardiness)
	return env, nil
}

// runLoop executes the global-best selection until termination and returns
// the committed ledger in commit order.
func (e *Engine) runLoop(snap *Snapshot, log *logrus.Entry) ([]Assignment, error) {
	pending := NewPendingQueue(snap.Studies)
	assignments := make([]Assignment, 0, pending.Len())
	iterations := 0
	maxIterations := pending.Len() + stallGuardLimit

	for pending.Len() > 0 {
		iterations++
		if iterations > maxIterations {
			return nil, &InvariantViolation{
				Invariant: "loop-guard",
				Detail:    fmt.Sprintf("no progress after %d iterations with %d studies pending", iterations, pending.Len()),
			}
		}

		var best candidate
		bestIdx := -1
		for i, s := range pending.Items() {
			for _, d := range snap.Doctors {
				if d.Exhausted() {
					continue
				}
				if !feasible(e.cfg, s, d) {
					continue
				}
				c := candidate{study: s, doctor: d, index: ATCIndex(e.cfg, s, d.AvailableTime)}
				if c.better(best) {
					best = c
					bestIdx = i
				}
			}
		}
		if best.study == nil {
			break
		}

		a, err := e.commit(best)
		if err != nil {
			return nil, err
		}
		pending.RemoveAt(bestIdx)
		assignments = append(assignments, a)
		log.Debugf("commit: study %d -> doctor %d (atc=%.4f, tardiness=%.2fh)",
			a.StudyID, a.DoctorID, a.ATCIndex, a.TardinessHours)
	}
	return assignments, nil
}

// commit applies the chosen pair to the doctor's bookkeeping and records the
// ledger entry. The feasibility predicate held immediately before the call;
// commit re-asserts the run invariants afterwards.
func (e *Engine) commit(c candidate) (Assignment, error) {
	s, d := c.study, c.doctor

	prevAvailable := d.AvailableTime
	completion := d.AvailableTime.Add(s.Duration)
	d.AvailableTime = completion
	d.CurrentLoad += s.UP
	d.CurrentMinutes += s.Duration.Minutes()
	d.AssignedIDs = append(d.AssignedIDs, s.ID)

	// Capacity bounds must hold after every commit.
	if d.CurrentLoad > float64(d.MaxUP) {
		return Assignment{}, &InvariantViolation{
			Invariant: "capacity",
			Detail:    fmt.Sprintf("doctor %d load %.1f exceeds max %d after study %d", d.ID, d.CurrentLoad, d.MaxUP, s.ID),
		}
	}
	if d.CurrentMinutes > float64(d.MaxMinutes)+e.cfg.OvertimeSlack().Minutes() {
		return Assignment{}, &InvariantViolation{
			Invariant: "shift-budget",
			Detail:    fmt.Sprintf("doctor %d minutes %.1f exceed budget %d after study %d", d.ID, d.CurrentMinutes, d.MaxMinutes, s.ID),
		}
	}
	// available_time never moves backwards.
	if d.AvailableTime.Before(prevAvailable) {
		return Assignment{}, &InvariantViolation{
			Invariant: "monotonic-available-time",
			Detail:    fmt.Sprintf("doctor %d available_time moved backwards on study %d", d.ID, s.ID),
		}
	}

	tardiness := 0.0
	if completion.After(s.Deadline) {
		tardiness = completion.Sub(s.Deadline).Hours()
	}

	return Assignment{
		StudyID:           s.ID,
		StudyNumber:       s.Number,
		DoctorID:          d.ID,
		DoctorName:        d.Name,
		Priority:          s.Priority,
		Weight:            s.Weight,
		Deadline:          s.Deadline,
		CompletionTime:    completion,
		TardinessHours:    round2(tardiness),
		WeightedTardiness: round2(s.Weight * tardiness),
		UPValue:           s.UP,
		ATCIndex:          c.index,
	}, nil
}

// persist walks the ledger doctor by doctor and writes each assignment,
// retrying each study individually. It returns the writes that failed after
// all retries.
func (e *Engine) persist(ctx context.Context, snap *Snapshot, log *logrus.Entry) []UnpersistedAssignment {
	var unpersisted []UnpersistedAssignment
	for _, d := range snap.Doctors {
		for _, studyID := range d.AssignedIDs {
			var err error
			for attempt := 1; attempt <= e.cfg.WriteRetries; attempt++ {
				if err = e.writer.Assign(ctx, studyID, d.ID); err == nil {
					break
				}
				log.Warnf("assign study %d to doctor %d: attempt %d/%d failed: %v",
					studyID, d.ID, attempt, e.cfg.WriteRetries, err)
			}
			if err != nil {
				unpersisted = append(unpersisted, UnpersistedAssignment{
					StudyID:  studyID,
					DoctorID: d.ID,
					Reason:   err.Error(),
				})
			}
		}
	}
	return unpersisted
}

// Preview computes the snapshot counts without mutating anything. Two
// consecutive calls with no intervening writes return equal results.
func (e *Engine) Preview(ctx context.Context) (*PreviewResult, error) {
	now := toCanonical(e.clock.Now(), e.cfg.Location())
	snap, err := loadSnapshot(ctx, e.cfg, e.studies, e.doctors, now)
	if err != nil {
		return nil, err
	}

	res := &PreviewResult{
		PendingStudies:   snap.PendingCount(),
		AvailableDoctors: len(snap.Doctors),
	}
	if res.PendingStudies > 0 && res.AvailableDoctors > 0 {
		res.Message = "ready for distribution"
	} else {
		res.Message = "no data to distribute"
	}
	return res, nil
}

// observe feeds the run outcome into the metrics collectors, if any.
func (e *Engine) observe(env *ResultEnvelope) {
	if e.metrics == nil {
		return
	}
	e.metrics.ObserveRun(env)
}

// deriveRunID hashes the snapshot identity into a stable UUID so identical
// runs produce identical envelopes.
func deriveRunID(snap *Snapshot) string {
	seed := fmt.Sprintf("%d:%d:%d", snap.Now.UnixNano(), len(snap.Studies), len(snap.Doctors))
	return uuid.NewSHA1(runNamespace, []byte(seed)).String()
}

// RunDate returns the engine's notion of "today" in the canonical zone;
// hosts use it for schedule lookups and report naming.
func (e *Engine) RunDate() time.Time {
	return toCanonical(e.clock.Now(), e.cfg.Location())
}
