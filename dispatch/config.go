package dispatch

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Priority classifies a study by clinical urgency. It determines both the
// deadline horizon and the weight of the study in the minimized objective.
type Priority string

const (
	PriorityCito   Priority = "cito"
	PriorityAsap   Priority = "asap"
	PriorityNormal Priority = "normal"
)

// ParsePriority maps a raw priority value to a Priority.
// Unknown or empty values default to normal.
func ParsePriority(s string) Priority {
	switch Priority(s) {
	case PriorityCito:
		return PriorityCito
	case PriorityAsap:
		return PriorityAsap
	default:
		return PriorityNormal
	}
}

// Rank returns the ordering rank of the priority: cito < asap < normal.
// Lower rank sorts first.
func (p Priority) Rank() int {
	switch p {
	case PriorityCito:
		return 0
	case PriorityAsap:
		return 1
	default:
		return 2
	}
}

// Config holds the engine parameters. The zero value is not usable;
// construct with DefaultConfig and override selectively, or load overrides
// from a YAML file with LoadConfig.
type Config struct {
	// DeadlineHours maps priority to the deadline horizon in hours.
	DeadlineHours map[Priority]int `yaml:"deadline_hours"`

	// Weights maps priority to its weight in the tardiness objective.
	Weights map[Priority]float64 `yaml:"weights"`

	// MinutesPerUP converts conventional points (UP) to processing minutes.
	MinutesPerUP float64 `yaml:"minutes_per_up"`

	// ATCKParam is the look-ahead parameter k of the ATC index.
	ATCKParam float64 `yaml:"atc_k_param"`

	// OvertimeSlackMinutes is the tolerance past a doctor's shift end within
	// which a final study may still finish.
	OvertimeSlackMinutes int `yaml:"overtime_slack_minutes"`

	// DefaultShiftMinutes is the shift budget used when shift boundaries are
	// missing from the schedule row.
	DefaultShiftMinutes int `yaml:"default_shift_minutes"`

	// DefaultMaxUPPerDay is the per-doctor daily capacity used when the
	// doctor record carries none.
	DefaultMaxUPPerDay int `yaml:"default_max_up_per_day"`

	// WriteRetries is the number of attempts per assignment write before the
	// write is reported as unpersisted.
	WriteRetries int `yaml:"write_retries"`

	// Timezone is the canonical zone; every instant the engine compares or
	// does arithmetic on is expressed in it.
	Timezone string `yaml:"timezone"`
}

// DefaultConfig returns the design-fixed engine parameters.
func DefaultConfig() Config {
	return Config{
		DeadlineHours: map[Priority]int{
			PriorityCito:   2,
			PriorityAsap:   24,
			PriorityNormal: 72,
		},
		Weights: map[Priority]float64{
			PriorityCito:   100.0,
			PriorityAsap:   10.0,
			PriorityNormal: 1.0,
		},
		MinutesPerUP:         15,
		ATCKParam:            2.0,
		OvertimeSlackMinutes: 30,
		DefaultShiftMinutes:  480,
		DefaultMaxUPPerDay:   120,
		WriteRetries:         3,
		Timezone:             "Europe/Moscow",
	}
}

// LoadConfig reads YAML overrides from path on top of DefaultConfig.
// Fields absent from the file keep their defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects parameter combinations the engine cannot run with.
func (c Config) Validate() error {
	for _, p := range []Priority{PriorityCito, PriorityAsap, PriorityNormal} {
		if c.DeadlineHours[p] <= 0 {
			return fmt.Errorf("deadline_hours[%s] must be positive", p)
		}
		if c.Weights[p] <= 0 {
			return fmt.Errorf("weights[%s] must be positive", p)
		}
	}
	if c.MinutesPerUP <= 0 {
		return fmt.Errorf("minutes_per_up must be positive")
	}
	if c.ATCKParam <= 0 {
		return fmt.Errorf("atc_k_param must be positive")
	}
	if c.OvertimeSlackMinutes < 0 {
		return fmt.Errorf("overtime_slack_minutes must be non-negative")
	}
	if c.DefaultShiftMinutes <= 0 {
		return fmt.Errorf("default_shift_minutes must be positive")
	}
	if c.DefaultMaxUPPerDay <= 0 {
		return fmt.Errorf("default_max_up_per_day must be positive")
	}
	if c.WriteRetries < 1 {
		return fmt.Errorf("write_retries must be at least 1")
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	return nil
}

// Location resolves the canonical zone. Validate must have accepted the
// config first; an unresolvable zone falls back to UTC.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Deadline returns created + the priority's deadline horizon.
func (c Config) Deadline(p Priority, created time.Time) time.Time {
	return created.Add(time.Duration(c.DeadlineHours[p]) * time.Hour)
}

// OvertimeSlack returns the shift-end tolerance as a duration.
func (c Config) OvertimeSlack() time.Duration {
	return time.Duration(c.OvertimeSlackMinutes) * time.Minute
}
