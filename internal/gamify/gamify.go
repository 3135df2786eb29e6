// Package gamify turns user actions into XP awards and level transitions.
//
// Actions in the store never touch XP directly. They emit an Event, and Apply
// is the only place that knows how much each event is worth and what other
// counters it moves.
package gamify

import (
	"time"

	"github.com/dori/brainy/internal/model"
)

// LevelThresholds is the XP needed to reach level i+1
var LevelThresholds = []int{0, 100, 300, 600, 1000, 1500, 2100, 2800, 3600, 4500}

// MaxLevel is the highest reachable level
var MaxLevel = len(LevelThresholds)

// XP granted per event kind
const (
	XPTaskCompleted      = 10
	XPHabitMarked        = 15
	XPMilestoneCompleted = 50
	XPFocusSession       = 20
	XPReferral           = 200
)

// Kind identifies an XP-granting event
type Kind string

const (
	KindTaskCompleted        Kind = "task_completed"
	KindHabitMarked          Kind = "habit_marked"
	KindMilestoneCompleted   Kind = "milestone_completed"
	KindFocusSessionFinished Kind = "focus_session_finished"
	KindReferralAdded        Kind = "referral_added"
	KindXPGranted            Kind = "xp_granted"
)

// Event is something the user did that may be worth XP
type Event struct {
	Kind  Kind
	RefID string // task, habit or goal the event is about
	// FocusMinutes is set on focus session events
	FocusMinutes int
	// Amount is set on direct XP grants
	Amount int
}

// TaskCompleted is emitted the first time a task flips to done
func TaskCompleted(taskID string) Event {
	return Event{Kind: KindTaskCompleted, RefID: taskID}
}

// HabitMarked is emitted when a date is added to a habit
func HabitMarked(habitID string) Event {
	return Event{Kind: KindHabitMarked, RefID: habitID}
}

// MilestoneCompleted is emitted when goal progress rises
func MilestoneCompleted(goalID string) Event {
	return Event{Kind: KindMilestoneCompleted, RefID: goalID}
}

// FocusSessionFinished is emitted when a focus timer completes
func FocusSessionFinished(minutes int) Event {
	return Event{Kind: KindFocusSessionFinished, FocusMinutes: minutes}
}

// ReferralAdded is emitted for each referral
func ReferralAdded() Event {
	return Event{Kind: KindReferralAdded}
}

// XPGranted is a direct grant of n XP
func XPGranted(n int) Event {
	return Event{Kind: KindXPGranted, Amount: n}
}

// Award is the outcome of applying one event
type Award struct {
	Kind       Kind      `json:"kind"`
	RefID      string    `json:"ref_id,omitempty"`
	XP         int       `json:"xp"`
	XPAfter    int       `json:"xp_after"`
	LevelAfter int       `json:"level_after"`
	LeveledUp  bool      `json:"leveled_up"`
	At         time.Time `json:"at"`
}

// Value returns the XP an event is worth
func Value(ev Event) int {
	switch ev.Kind {
	case KindTaskCompleted:
		return XPTaskCompleted
	case KindHabitMarked:
		return XPHabitMarked
	case KindMilestoneCompleted:
		return XPMilestoneCompleted
	case KindFocusSessionFinished:
		return XPFocusSession
	case KindReferralAdded:
		return XPReferral
	case KindXPGranted:
		return ev.Amount
	default:
		return 0
	}
}

// Apply folds one event into stats
func Apply(stats model.Stats, ev Event, at time.Time) (model.Stats, Award) {
	switch ev.Kind {
	case KindTaskCompleted:
		stats.TasksCompleted++
	case KindFocusSessionFinished:
		stats.FocusMinutes += ev.FocusMinutes
	case KindReferralAdded:
		stats.Referrals++
	}

	before := stats.Level
	stats = AddXP(stats, Value(ev))

	return stats, Award{
		Kind:       ev.Kind,
		RefID:      ev.RefID,
		XP:         max(Value(ev), 0),
		XPAfter:    stats.XP,
		LevelAfter: stats.Level,
		LeveledUp:  stats.Level > before,
		At:         at,
	}
}

// AddXP adds amount to stats and advances the level by at most one step.
// A single large grant that crosses several thresholds still only moves one
// level; the next grant moves the next one. Negative amounts are ignored.
func AddXP(stats model.Stats, amount int) model.Stats {
	if amount > 0 {
		stats.XP += amount
	}
	if stats.Level < 1 {
		stats.Level = 1
	}
	if stats.Level < len(LevelThresholds) && stats.XP >= LevelThresholds[stats.Level] {
		stats.Level++
	}
	return stats
}

// Progress describes where the user sits inside the current level
type Progress struct {
	Level   int
	IntoXP  int // XP earned since the current level started
	SpanXP  int // XP between this level and the next
	Percent float64
	Maxed   bool
}

// LevelProgress computes the XP bar for stats
func LevelProgress(stats model.Stats) Progress {
	level := max(stats.Level, 1)
	floor := 0
	if level-1 < len(LevelThresholds) {
		floor = LevelThresholds[level-1]
	}
	ceil := 10000
	maxed := level >= len(LevelThresholds)
	if !maxed {
		ceil = LevelThresholds[level]
	}

	p := Progress{
		Level:  level,
		IntoXP: stats.XP - floor,
		SpanXP: ceil - floor,
		Maxed:  maxed,
	}
	if p.SpanXP > 0 {
		p.Percent = min(100, max(0, 100*float64(p.IntoXP)/float64(p.SpanXP)))
	}
	return p
}
