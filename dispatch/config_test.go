package dispatch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_DesignFixedValues(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 2, cfg.DeadlineHours[PriorityCito])
	assert.Equal(t, 24, cfg.DeadlineHours[PriorityAsap])
	assert.Equal(t, 72, cfg.DeadlineHours[PriorityNormal])
	assert.Equal(t, 100.0, cfg.Weights[PriorityCito])
	assert.Equal(t, 10.0, cfg.Weights[PriorityAsap])
	assert.Equal(t, 1.0, cfg.Weights[PriorityNormal])
	assert.Equal(t, 15.0, cfg.MinutesPerUP)
	assert.Equal(t, 2.0, cfg.ATCKParam)
	assert.Equal(t, 30, cfg.OvertimeSlackMinutes)
	assert.Equal(t, 480, cfg.DefaultShiftMinutes)
	assert.Equal(t, 120, cfg.DefaultMaxUPPerDay)
	require.NoError(t, cfg.Validate())
}

func TestParsePriority_Defaults(t *testing.T) {
	assert.Equal(t, PriorityCito, ParsePriority("cito"))
	assert.Equal(t, PriorityAsap, ParsePriority("asap"))
	assert.Equal(t, PriorityNormal, ParsePriority("normal"))
	assert.Equal(t, PriorityNormal, ParsePriority(""))
	assert.Equal(t, PriorityNormal, ParsePriority("bogus"))
}

func TestPriorityRank_Ordering(t *testing.T) {
	assert.Less(t, PriorityCito.Rank(), PriorityAsap.Rank())
	assert.Less(t, PriorityAsap.Rank(), PriorityNormal.Rank())
}

func TestLoadConfig_OverridesSelectively(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dispatch.yaml")
	content := "atc_k_param: 3.0\novertime_slack_minutes: 15\ntimezone: UTC\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 3.0, cfg.ATCKParam)
	assert.Equal(t, 15, cfg.OvertimeSlackMinutes)
	assert.Equal(t, time.UTC, cfg.Location())
	// Untouched fields keep their defaults.
	assert.Equal(t, 15.0, cfg.MinutesPerUP)
	assert.Equal(t, 2, cfg.DeadlineHours[PriorityCito])
}

func TestLoadConfig_RejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dispatch.yaml")
	require.NoError(t, os.WriteFile(path, []byte("minutes_per_up: -1\n"), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestConfigValidate_RejectsBadTimezone(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Timezone = "Mars/Olympus"
	assert.Error(t, cfg.Validate())
}

func TestConfigDeadline(t *testing.T) {
	cfg := DefaultConfig()
	created := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	assert.Equal(t, created.Add(2*time.Hour), cfg.Deadline(PriorityCito, created))
	assert.Equal(t, created.Add(72*time.Hour), cfg.Deadline(PriorityNormal, created))
}
