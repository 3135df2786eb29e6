package gamify

import (
	"testing"
	"time"

	"github.com/dori/brainy/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddXPAdvancesOneLevelPerCall(t *testing.T) {
	stats := model.Stats{XP: 90, Level: 1}

	stats = AddXP(stats, 20)
	assert.Equal(t, 110, stats.XP)
	assert.Equal(t, 2, stats.Level)

	stats = AddXP(stats, 5000)
	assert.Equal(t, 5110, stats.XP)
	assert.Equal(t, 3, stats.Level, "a large grant must not cascade through thresholds")

	stats = AddXP(stats, 0)
	assert.Equal(t, 4, stats.Level, "the next grant picks up the next threshold")
}

func TestAddXPBelowThreshold(t *testing.T) {
	stats := AddXP(model.Stats{Level: 1}, 99)
	assert.Equal(t, 99, stats.XP)
	assert.Equal(t, 1, stats.Level)

	stats = AddXP(stats, 1)
	assert.Equal(t, 2, stats.Level)
}

func TestAddXPStopsAtTableEnd(t *testing.T) {
	stats := model.Stats{XP: 100000, Level: MaxLevel}
	stats = AddXP(stats, 100)
	assert.Equal(t, MaxLevel, stats.Level)
	assert.Equal(t, 100100, stats.XP)
}

func TestAddXPNeverDecreases(t *testing.T) {
	stats := AddXP(model.Stats{XP: 50, Level: 1}, -30)
	assert.Equal(t, 50, stats.XP)
	assert.Equal(t, 1, stats.Level)
}

func TestApplyMovesCounters(t *testing.T) {
	at := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		event Event
		check func(t *testing.T, s model.Stats, a Award)
	}{
		{
			name:  "task completed",
			event: TaskCompleted("t1"),
			check: func(t *testing.T, s model.Stats, a Award) {
				assert.Equal(t, 10, s.XP)
				assert.Equal(t, 1, s.TasksCompleted)
				assert.Equal(t, "t1", a.RefID)
			},
		},
		{
			name:  "habit marked",
			event: HabitMarked("h1"),
			check: func(t *testing.T, s model.Stats, a Award) {
				assert.Equal(t, 15, s.XP)
				assert.Zero(t, s.TasksCompleted)
			},
		},
		{
			name:  "milestone completed",
			event: MilestoneCompleted("g1"),
			check: func(t *testing.T, s model.Stats, a Award) {
				assert.Equal(t, 50, s.XP)
			},
		},
		{
			name:  "focus session",
			event: FocusSessionFinished(25),
			check: func(t *testing.T, s model.Stats, a Award) {
				assert.Equal(t, 20, s.XP)
				assert.Equal(t, 25, s.FocusMinutes)
			},
		},
		{
			name:  "referral",
			event: ReferralAdded(),
			check: func(t *testing.T, s model.Stats, a Award) {
				assert.Equal(t, 200, s.XP)
				assert.Equal(t, 1, s.Referrals)
				assert.Equal(t, 2, s.Level)
				assert.True(t, a.LeveledUp)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, a := Apply(model.Stats{Level: 1}, tt.event, at)
			assert.Equal(t, tt.event.Kind, a.Kind)
			assert.Equal(t, s.XP, a.XPAfter)
			assert.Equal(t, s.Level, a.LevelAfter)
			assert.Equal(t, at, a.At)
			tt.check(t, s, a)
		})
	}
}

func TestLevelProgress(t *testing.T) {
	p := LevelProgress(model.Stats{XP: 200, Level: 2})
	require.False(t, p.Maxed)
	assert.Equal(t, 100, p.IntoXP)
	assert.Equal(t, 200, p.SpanXP)
	assert.InDelta(t, 50.0, p.Percent, 0.001)

	top := LevelProgress(model.Stats{XP: 4600, Level: MaxLevel})
	assert.True(t, top.Maxed)
	assert.LessOrEqual(t, top.Percent, 100.0)
}
