// The result envelope: the stable contract between the engine and its host.
// Numeric values are rounded for output: hours to 2 decimals, percents to
// 1, points to 1.

package dispatch

import (
	"fmt"
	"math"
	"time"
)

// Assignment is one committed (study, doctor) pairing with its tardiness
// accounting.
type Assignment struct {
	StudyID           int64     `json:"study_id"`
	StudyNumber       string    `json:"study_number"`
	DoctorID          int64     `json:"doctor_id"`
	DoctorName        string    `json:"doctor_name"`
	Priority          Priority  `json:"priority"`
	Weight            float64   `json:"weight"`
	Deadline          time.Time `json:"deadline"`
	CompletionTime    time.Time `json:"completion_time"`
	TardinessHours    float64   `json:"tardiness_hours"`
	WeightedTardiness float64   `json:"weighted_tardiness"`
	UPValue           float64   `json:"up_value"`
	ATCIndex          float64   `json:"atc_index"`
}

// DoctorStat summarizes one doctor's load after the run.
type DoctorStat struct {
	DoctorID    int64   `json:"doctor_id"`
	DoctorName  string  `json:"doctor_name"`
	Assigned    int     `json:"assigned"`
	TotalUP     float64 `json:"total_up"`
	MaxUP       int     `json:"max_up"`
	LoadPercent float64 `json:"load_percent"`
	RemainingUP float64 `json:"remaining_up"`
}

// PriorityStats counts assigned studies by priority.
type PriorityStats struct {
	Cito   int `json:"cito"`
	Asap   int `json:"asap"`
	Normal int `json:"normal"`
}

// ResultEnvelope is the full outcome of one distribution run. It is always
// produced, including for empty snapshots and degraded (partially
// unpersisted) runs.
type ResultEnvelope struct {
	RunID                  string                  `json:"run_id"`
	Assigned               int                     `json:"assigned"`
	Unassigned             int                     `json:"unassigned"`
	TotalTardiness         float64                 `json:"total_tardiness"`
	TotalWeightedTardiness float64                 `json:"total_weighted_tardiness"`
	AvgTardiness           float64                 `json:"avg_tardiness"`
	Assignments            []Assignment            `json:"assignments"`
	DoctorStats            []DoctorStat            `json:"doctor_stats"`
	PriorityStats          PriorityStats           `json:"priority_stats"`
	Diagnostics            []string                `json:"diagnostics,omitempty"`
	Unpersisted            []UnpersistedAssignment `json:"unpersisted,omitempty"`
	Degraded               bool                    `json:"degraded,omitempty"`
	Error                  string                  `json:"error,omitempty"`
	Message                string                  `json:"message"`
}

// PreviewResult is the read-only counterpart of a run: the snapshot counts
// without any mutation.
type PreviewResult struct {
	PendingStudies   int    `json:"pending_studies"`
	AvailableDoctors int    `json:"available_doctors"`
	Message          string `json:"message"`
}

// round2 rounds to 2 decimals (hours).
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// round1 rounds to 1 decimal (percents and points).
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// buildEnvelope assembles the envelope from the committed ledger and the
// final doctor states.
func buildEnvelope(runID string, snap *Snapshot, assignments []Assignment) *ResultEnvelope {
	env := &ResultEnvelope{
		RunID:       runID,
		Assigned:    len(assignments),
		Unassigned:  snap.PendingCount() - len(assignments),
		Assignments: assignments,
		Diagnostics: snap.Diagnostics,
	}

	totalTardiness := 0.0
	totalWeighted := 0.0
	for i := range assignments {
		a := &assignments[i]
		totalTardiness += a.TardinessHours
		totalWeighted += a.WeightedTardiness
		switch a.Priority {
		case PriorityCito:
			env.PriorityStats.Cito++
		case PriorityAsap:
			env.PriorityStats.Asap++
		default:
			env.PriorityStats.Normal++
		}
	}
	env.TotalTardiness = round2(totalTardiness)
	env.TotalWeightedTardiness = round2(totalWeighted)
	if len(assignments) > 0 {
		env.AvgTardiness = round2(totalTardiness / float64(len(assignments)))
	}

	env.DoctorStats = make([]DoctorStat, 0, len(snap.Doctors))
	for _, d := range snap.Doctors {
		env.DoctorStats = append(env.DoctorStats, DoctorStat{
			DoctorID:    d.ID,
			DoctorName:  d.Name,
			Assigned:    len(d.AssignedIDs),
			TotalUP:     round1(d.CurrentLoad),
			MaxUP:       d.MaxUP,
			LoadPercent: round1(d.LoadPercent()),
			RemainingUP: round1(d.RemainingUP()),
		})
	}

	env.Message = fmt.Sprintf("assigned %d of %d studies", env.Assigned, snap.PendingCount())
	return env
}

// emptyEnvelope is the normal (non-error) envelope for a snapshot missing
// studies or doctors.
func emptyEnvelope(runID string, snap *Snapshot) *ResultEnvelope {
	return &ResultEnvelope{
		RunID:       runID,
		Unassigned:  snap.PendingCount(),
		Assignments: []Assignment{},
		DoctorStats: []DoctorStat{},
		Diagnostics: snap.Diagnostics,
		Message:     "no pending studies or no doctors on shift; nothing to distribute",
	}
}
