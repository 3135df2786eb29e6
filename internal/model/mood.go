package model

import (
	"fmt"
	"strings"
	"time"
)

// Mood is the self-reported state captured by a check-in
type Mood string

const (
	MoodGreat    Mood = "great"
	MoodGood     Mood = "good"
	MoodNeutral  Mood = "neutral"
	MoodStressed Mood = "stressed"
	MoodBad      Mood = "bad"
)

// Moods lists every mood in display order
var Moods = []Mood{MoodGreat, MoodGood, MoodNeutral, MoodStressed, MoodBad}

// ParseMood validates a mood name
func ParseMood(s string) (Mood, error) {
	m := Mood(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Moods {
		if m == known {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown mood %q", s)
}

// MoodLog is an append-only check-in record
type MoodLog struct {
	ID         string    `json:"id"`
	Date       time.Time `json:"date"`
	Mood       Mood      `json:"mood"`
	Note       string    `json:"note,omitempty"`
	Energy     *int      `json:"energy_level,omitempty"` // 1-10
	SleepHours *float64  `json:"sleep_hours,omitempty"`
}

// BrainDumpEntry is a free-text capture plus what the assistant made of it
type BrainDumpEntry struct {
	ID             string    `json:"id"`
	Content        string    `json:"content"`
	AISummary      string    `json:"ai_response,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	ExtractedTasks []Task    `json:"extracted_tasks,omitempty"`
}
