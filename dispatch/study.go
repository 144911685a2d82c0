// Defines the raw study record read from the store and the resolved working
// study the engine schedules. Raw records carry optional fields; the snapshot
// loader resolves every optional before the engine sees the study.

package dispatch

import (
	"fmt"
	"time"
)

// StudyRecord is a pending study as read from the store. Optional columns
// are pointers or zero values; resolution happens in the snapshot loader.
type StudyRecord struct {
	ID             int64
	ResearchNumber string
	Priority       string     // raw value; empty defaults to normal
	CreatedAt      *time.Time // nil or naive values are promoted by the loader
	StudyTypeID    *int64
	Modality       ModalityValue
	UPValue        float64 // conventional points; 0 means absent
}

// Study is a fully resolved study in the run's working set. All fields are
// total: no nil times, no zero UP, and every instant is in the canonical zone.
type Study struct {
	ID          int64
	Number      string
	Priority    Priority
	CreatedAt   time.Time
	StudyTypeID int64 // 0 when the study has no type reference
	Modalities  ModalitySet
	UP          float64

	// Derived once per run.
	Duration time.Duration // UP × MinutesPerUP
	Deadline time.Time     // CreatedAt + deadline horizon
	Weight   float64       // objective weight of the priority
}

// ProcessingHours returns the processing time p in hours, clamped to a
// quarter hour so the ATC index stays finite for degenerate durations.
func (s *Study) ProcessingHours() float64 {
	p := s.Duration.Hours()
	if p <= 0 {
		p = 0.25
	}
	return p
}

func (s *Study) String() string {
	return fmt.Sprintf("Study(id=%d number=%s priority=%s up=%.1f deadline=%s)",
		s.ID, s.Number, s.Priority, s.UP, s.Deadline.Format(time.RFC3339))
}
