package store

import (
	"encoding/json"
	"fmt"

	"github.com/dori/brainy/internal/model"
)

// SnapshotKey is the key the domain document is persisted under
const SnapshotKey = "brainy-storage-v4"

// State is every productivity entity plus preferences and stats. It is the
// unit of persistence: the whole document is written on every mutation.
type State struct {
	Tasks       []model.Task           `json:"tasks"`
	Habits      []model.Habit          `json:"habits"`
	Goals       []model.Goal           `json:"goals"`
	MoodLogs    []model.MoodLog        `json:"mood_logs"`
	BrainDumps  []model.BrainDumpEntry `json:"brain_dumps"`
	Preferences model.Preferences      `json:"preferences"`
	Stats       model.Stats            `json:"stats"`
	FocusStreak int                    `json:"focus_streak"`

	IncomeEntries     []model.IncomeEntry      `json:"income_entries"`
	LearningResources []model.LearningResource `json:"learning_resources"`

	Teams         []model.Team        `json:"teams"`
	CurrentTeamID string              `json:"current_team_id,omitempty"`
	Integrations  []model.Integration `json:"integrations"`
	Challenges    []model.Challenge   `json:"challenges"`
}

// DefaultState returns the state of a fresh install
func DefaultState() State {
	return State{
		Tasks:      []model.Task{},
		Habits:     []model.Habit{},
		Goals:      []model.Goal{},
		MoodLogs:   []model.MoodLog{},
		BrainDumps: []model.BrainDumpEntry{},
		Preferences: model.Preferences{
			Theme:         model.ThemeSystem,
			Name:          "Friend",
			FocusDuration: 25,
			Persona:       model.PersonaGeneral,
			CoachingStyle: model.CoachSupportive,
		},
		Stats: model.Stats{
			Level:            1,
			Badges:           []string{},
			SubscriptionTier: model.TierFree,
		},
		IncomeEntries:     []model.IncomeEntry{},
		LearningResources: []model.LearningResource{},
		Teams:             []model.Team{},
		Integrations: []model.Integration{
			{ID: "1", Name: "Google Calendar", Type: model.IntegrationCalendar, Icon: "calendar"},
			{ID: "2", Name: "Slack", Type: model.IntegrationCommunication, Icon: "message-circle"},
			{ID: "3", Name: "Notion", Type: model.IntegrationProductivity, Icon: "file-text"},
			{ID: "4", Name: "Spotify", Type: model.IntegrationProductivity, Icon: "music"},
		},
		Challenges: []model.Challenge{
			{ID: "1", Title: "7-Day Focus Streak", Description: "Focus for at least 25 mins every day for a week.", Participants: 1240, RewardXP: 500},
			{ID: "2", Title: "Early Bird", Description: "Complete a task before 8 AM for 3 days.", Participants: 850, RewardXP: 300},
			{ID: "3", Title: "Weekend Warrior", Description: "Log 4 hours of focus this weekend.", Participants: 2100, RewardXP: 1000},
		},
	}
}

// Clone returns a deep copy of s
func (s State) Clone() State {
	out := s

	out.Tasks = model.CloneTasks(s.Tasks)

	out.Habits = make([]model.Habit, len(s.Habits))
	for i, h := range s.Habits {
		out.Habits[i] = h.Clone()
	}

	out.Goals = make([]model.Goal, len(s.Goals))
	for i, g := range s.Goals {
		out.Goals[i] = g.Clone()
	}

	out.MoodLogs = append([]model.MoodLog{}, s.MoodLogs...)

	out.BrainDumps = make([]model.BrainDumpEntry, len(s.BrainDumps))
	for i, d := range s.BrainDumps {
		d.ExtractedTasks = model.CloneTasks(d.ExtractedTasks)
		out.BrainDumps[i] = d
	}

	out.Stats.Badges = append([]string{}, s.Stats.Badges...)
	out.IncomeEntries = append([]model.IncomeEntry{}, s.IncomeEntries...)

	out.LearningResources = make([]model.LearningResource, len(s.LearningResources))
	for i, r := range s.LearningResources {
		if r.Flashcards != nil {
			r.Flashcards = append([]model.Flashcard(nil), r.Flashcards...)
		}
		out.LearningResources[i] = r
	}

	out.Teams = make([]model.Team, len(s.Teams))
	for i, t := range s.Teams {
		out.Teams[i] = t.Clone()
	}

	out.Integrations = append([]model.Integration{}, s.Integrations...)
	out.Challenges = append([]model.Challenge{}, s.Challenges...)
	return out
}

// Encode serialises the state for persistence
func (s State) Encode() ([]byte, error) {
	doc, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to encode state: %w", err)
	}
	return doc, nil
}

// Decode restores a persisted document. Documents written by older versions
// may lack fields; those keep their defaults.
func Decode(doc []byte) (State, error) {
	st := DefaultState()
	if len(doc) == 0 {
		return st, nil
	}
	if err := json.Unmarshal(doc, &st); err != nil {
		return DefaultState(), fmt.Errorf("failed to decode state: %w", err)
	}
	st.normalize()
	return st, nil
}

// normalize replaces null collections from old documents with empty ones and
// re-derives habit streaks and goal progress from the data they summarise
func (s *State) normalize() {
	def := DefaultState()
	if s.Tasks == nil {
		s.Tasks = def.Tasks
	}
	if s.Habits == nil {
		s.Habits = def.Habits
	}
	for i := range s.Habits {
		h := &s.Habits[i]
		h.CompletedDates = uniqueDates(h.CompletedDates)
		h.Streak = len(h.CompletedDates)
	}
	if s.Goals == nil {
		s.Goals = def.Goals
	}
	for i := range s.Goals {
		g := &s.Goals[i]
		if g.Milestones == nil {
			g.Milestones = []model.Milestone{}
		}
		g.Progress = g.ComputeProgress()
	}
	if s.MoodLogs == nil {
		s.MoodLogs = def.MoodLogs
	}
	if s.BrainDumps == nil {
		s.BrainDumps = def.BrainDumps
	}
	if s.Stats.Badges == nil {
		s.Stats.Badges = []string{}
	}
	if s.Stats.Level < 1 {
		s.Stats.Level = 1
	}
	if s.IncomeEntries == nil {
		s.IncomeEntries = def.IncomeEntries
	}
	if s.LearningResources == nil {
		s.LearningResources = def.LearningResources
	}
	if s.Teams == nil {
		s.Teams = def.Teams
	}
	if s.Integrations == nil {
		s.Integrations = def.Integrations
	}
	if s.Challenges == nil {
		s.Challenges = def.Challenges
	}
}

// uniqueDates drops repeated dates, keeping first-seen order
func uniqueDates(dates []string) []string {
	out := make([]string, 0, len(dates))
	seen := make(map[string]bool, len(dates))
	for _, d := range dates {
		if seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	return out
}
