// Package postgres implements the dispatch ports over the production schema
// (doctors, study_types, schedules, studies) using lib/pq.
//
// The snapshot queries run read-only; the writer issues idempotent per-row
// updates. Two distribution runs must not write concurrently; callers
// serialize runs, e.g. with a session advisory lock.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/rengenols/dispatch/dispatch"
)

// Store is a pq-backed implementation of the dispatch ports.
type Store struct {
	db *sql.DB
}

// Open connects with the given DSN and verifies the connection.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &Store{db: db}, nil
}

// NewStore wraps an existing handle (tests, pooled hosts).
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Close releases the underlying pool.
func (s *Store) Close() error {
	return s.db.Close()
}

const pendingStudiesQuery = `
SELECT s.id,
       s.research_number,
       COALESCE(s.priority, ''),
       s.created_at,
       s.study_type_id,
       st.modality,
       COALESCE(st.up_value, 0)
FROM studies s
LEFT JOIN study_types st ON st.id = s.study_type_id
WHERE s.diagnostician_id IS NULL
ORDER BY s.id`

// PendingStudies implements dispatch.StudyReader with a single batch query;
// the snapshot loader applies the priority ordering.
func (s *Store) PendingStudies(ctx context.Context) ([]dispatch.StudyRecord, error) {
	rows, err := s.db.QueryContext(ctx, pendingStudiesQuery)
	if err != nil {
		return nil, fmt.Errorf("query pending studies: %w", err)
	}
	defer rows.Close()

	var out []dispatch.StudyRecord
	for rows.Next() {
		var (
			rec       dispatch.StudyRecord
			createdAt sql.NullTime
			typeID    sql.NullInt64
			modality  pq.StringArray
		)
		if err := rows.Scan(&rec.ID, &rec.ResearchNumber, &rec.Priority,
			&createdAt, &typeID, &modality, &rec.UPValue); err != nil {
			return nil, fmt.Errorf("scan study row: %w", err)
		}
		if createdAt.Valid {
			t := createdAt.Time
			rec.CreatedAt = &t
		}
		if typeID.Valid {
			id := typeID.Int64
			rec.StudyTypeID = &id
		}
		if modality != nil {
			rec.Modality = dispatch.ModalityList(modality)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pending studies: %w", err)
	}
	return out, nil
}

const doctorsOnShiftQuery = `
SELECT d.id,
       COALESCE(d.fio_alias, ''),
       d.modality,
       COALESCE(d.max_up_per_day, 0),
       sc.work_date,
       sc.time_start,
       sc.time_end
FROM doctors d
JOIN schedules sc ON sc.doctor_id = d.id
WHERE d.is_active = TRUE
  AND sc.work_date = $1
  AND sc.is_day_off = 0
ORDER BY d.id`

// DoctorsOnShift implements dispatch.DoctorReader.
func (s *Store) DoctorsOnShift(ctx context.Context, date time.Time) ([]dispatch.DoctorShift, error) {
	rows, err := s.db.QueryContext(ctx, doctorsOnShiftQuery, date.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("query doctors on shift: %w", err)
	}
	defer rows.Close()

	var out []dispatch.DoctorShift
	for rows.Next() {
		var (
			ds       dispatch.DoctorShift
			modality pq.StringArray
			start    sql.NullTime
			end      sql.NullTime
		)
		if err := rows.Scan(&ds.Doctor.ID, &ds.Doctor.Name, &modality,
			&ds.Doctor.MaxUPPerDay, &ds.Shift.WorkDate, &start, &end); err != nil {
			return nil, fmt.Errorf("scan schedule row: %w", err)
		}
		if modality != nil {
			ds.Doctor.Modality = dispatch.ModalityList(modality)
		}
		ds.Shift.TimeStart = timeOfDay(start)
		ds.Shift.TimeEnd = timeOfDay(end)
		out = append(out, ds)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate doctors on shift: %w", err)
	}
	return out, nil
}

// Assign implements dispatch.AssignmentWriter: one idempotent row update per
// committed assignment.
func (s *Store) Assign(ctx context.Context, studyID, doctorID int64) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE studies SET diagnostician_id = $1, status = 'confirmed' WHERE id = $2`,
		doctorID, studyID)
	if err != nil {
		return fmt.Errorf("assign study %d: %w", studyID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("assign study %d: no such study", studyID)
	}
	return nil
}

// timeOfDay converts a scanned TIME column into a wall-clock value.
func timeOfDay(t sql.NullTime) *dispatch.TimeOfDay {
	if !t.Valid {
		return nil
	}
	return &dispatch.TimeOfDay{Hour: t.Time.Hour(), Minute: t.Time.Minute()}
}
