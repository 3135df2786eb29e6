package model

import (
	"slices"
	"time"
)

// DateLayout is the ISO date format used for habit completion dates
const DateLayout = "2006-01-02"

// Frequency is how often a habit is meant to be done
type Frequency string

const (
	FrequencyDaily  Frequency = "daily"
	FrequencyWeekly Frequency = "weekly"
)

// HabitCategory groups habits on the habits screen
type HabitCategory string

const (
	HabitHealth       HabitCategory = "health"
	HabitLearning     HabitCategory = "learning"
	HabitProductivity HabitCategory = "productivity"
	HabitMindfulness  HabitCategory = "mindfulness"
)

// Habit is a recurring activity. Streak is the number of distinct completed
// dates, not a run of consecutive days.
type Habit struct {
	ID             string        `json:"id"`
	Title          string        `json:"title"`
	Frequency      Frequency     `json:"frequency"`
	Streak         int           `json:"streak"`
	CompletedDates []string      `json:"completed_dates"`
	Category       HabitCategory `json:"category"`
}

// IsCompletedOn reports whether date (YYYY-MM-DD) is marked
func (h *Habit) IsCompletedOn(date string) bool {
	return slices.Contains(h.CompletedDates, date)
}

// IsCompletedToday reports whether the habit is marked for today's local date
func (h *Habit) IsCompletedToday() bool {
	return h.IsCompletedOn(Today())
}

// Today returns the local date in DateLayout
func Today() string {
	return time.Now().Format(DateLayout)
}

// Clone returns a copy with its own date slice
func (h Habit) Clone() Habit {
	h.CompletedDates = append([]string{}, h.CompletedDates...)
	return h
}
