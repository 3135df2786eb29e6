package store

import (
	"slices"
	"strings"
	"time"

	"github.com/dori/brainy/internal/gamify"
	"github.com/dori/brainy/internal/model"
)

// AddTask appends a new todo task. ID, CreatedAt and Status on t are ignored.
// Title validation is the caller's job.
func (s *Store) AddTask(t model.Task) model.Task {
	t.ID = s.newID()
	t.CreatedAt = s.now()
	t.Status = model.StatusTodo
	if t.Priority == "" {
		t.Priority = model.PriorityMedium
	}
	t = t.Clone()

	s.apply("add_task", func(st *State) ([]gamify.Event, bool) {
		st.Tasks = append(st.Tasks, t.Clone())
		return nil, true
	})
	return t
}

// ToggleTaskStatus flips a task between done and todo. Any status other than
// done counts as not done. Completing a task awards XP; reopening it does not
// take the XP back.
func (s *Store) ToggleTaskStatus(id string) (model.Task, bool) {
	var out model.Task
	var found bool
	s.apply("toggle_task", func(st *State) ([]gamify.Event, bool) {
		i := slices.IndexFunc(st.Tasks, func(t model.Task) bool { return t.ID == id })
		if i < 0 {
			return nil, false
		}
		found = true
		t := &st.Tasks[i]

		var events []gamify.Event
		if t.IsDone() {
			t.Status = model.StatusTodo
		} else {
			t.Status = model.StatusDone
			events = append(events, gamify.TaskCompleted(t.ID))
		}
		out = t.Clone()
		return events, true
	})
	return out, found
}

// DeleteTask removes a task. Deleting an unknown id is a no-op.
func (s *Store) DeleteTask(id string) bool {
	var removed bool
	s.apply("delete_task", func(st *State) ([]gamify.Event, bool) {
		n := len(st.Tasks)
		st.Tasks = slices.DeleteFunc(st.Tasks, func(t model.Task) bool { return t.ID == id })
		removed = len(st.Tasks) != n
		return nil, removed
	})
	return removed
}

// AddHabit appends a habit with no completions
func (s *Store) AddHabit(title string, freq model.Frequency, category model.HabitCategory) model.Habit {
	if freq == "" {
		freq = model.FrequencyDaily
	}
	h := model.Habit{
		ID:             s.newID(),
		Title:          title,
		Frequency:      freq,
		CompletedDates: []string{},
		Category:       category,
	}
	s.apply("add_habit", func(st *State) ([]gamify.Event, bool) {
		st.Habits = append(st.Habits, h.Clone())
		return nil, true
	})
	return h
}

// ToggleHabitCompletion adds or removes date (YYYY-MM-DD) from the habit's
// completed set. The streak is the size of that set. Only marking awards XP.
func (s *Store) ToggleHabitCompletion(id, date string) (model.Habit, bool) {
	var out model.Habit
	var found bool
	s.apply("toggle_habit", func(st *State) ([]gamify.Event, bool) {
		i := slices.IndexFunc(st.Habits, func(h model.Habit) bool { return h.ID == id })
		if i < 0 {
			return nil, false
		}
		found = true
		h := &st.Habits[i]

		var events []gamify.Event
		if h.IsCompletedOn(date) {
			h.CompletedDates = slices.DeleteFunc(h.CompletedDates, func(d string) bool { return d == date })
		} else {
			h.CompletedDates = append(h.CompletedDates, date)
			events = append(events, gamify.HabitMarked(h.ID))
		}
		h.Streak = len(h.CompletedDates)
		out = h.Clone()
		return events, true
	})
	return out, found
}

// DeleteHabit removes a habit
func (s *Store) DeleteHabit(id string) bool {
	var removed bool
	s.apply("delete_habit", func(st *State) ([]gamify.Event, bool) {
		n := len(st.Habits)
		st.Habits = slices.DeleteFunc(st.Habits, func(h model.Habit) bool { return h.ID == id })
		removed = len(st.Habits) != n
		return nil, removed
	})
	return removed
}

// AddGoal appends a goal. Milestones without ids get one, and a goal with no
// milestones gets a placeholder so progress is always defined.
func (s *Store) AddGoal(g model.Goal) model.Goal {
	g = g.Clone()
	g.ID = s.newID()
	if len(g.Milestones) == 0 {
		g.Milestones = []model.Milestone{{Title: model.DefaultMilestoneTitle}}
	}
	for i := range g.Milestones {
		if g.Milestones[i].ID == "" {
			g.Milestones[i].ID = s.newID()
		}
	}
	g.Progress = g.ComputeProgress()

	s.apply("add_goal", func(st *State) ([]gamify.Event, bool) {
		st.Goals = append(st.Goals, g.Clone())
		return nil, true
	})
	return g
}

// ToggleGoalMilestone flips one milestone and recomputes progress. XP is
// awarded when the new progress is above the previously stored value.
func (s *Store) ToggleGoalMilestone(goalID, milestoneID string) (model.Goal, bool) {
	var out model.Goal
	var found bool
	s.apply("toggle_milestone", func(st *State) ([]gamify.Event, bool) {
		gi := slices.IndexFunc(st.Goals, func(g model.Goal) bool { return g.ID == goalID })
		if gi < 0 {
			return nil, false
		}
		g := &st.Goals[gi]
		mi := slices.IndexFunc(g.Milestones, func(m model.Milestone) bool { return m.ID == milestoneID })
		if mi < 0 {
			return nil, false
		}
		found = true

		g.Milestones[mi].Completed = !g.Milestones[mi].Completed
		prev := g.Progress
		g.Progress = g.ComputeProgress()

		var events []gamify.Event
		if g.Progress > prev {
			events = append(events, gamify.MilestoneCompleted(g.ID))
		}
		out = g.Clone()
		return events, true
	})
	return out, found
}

// DeleteGoal removes a goal
func (s *Store) DeleteGoal(id string) bool {
	var removed bool
	s.apply("delete_goal", func(st *State) ([]gamify.Event, bool) {
		n := len(st.Goals)
		st.Goals = slices.DeleteFunc(st.Goals, func(g model.Goal) bool { return g.ID == id })
		removed = len(st.Goals) != n
		return nil, removed
	})
	return removed
}

// LogMood appends a check-in. Mood logs are never edited or removed.
func (s *Store) LogMood(mood model.Mood, note string, energy *int, sleep *float64) model.MoodLog {
	entry := model.MoodLog{
		ID:         s.newID(),
		Date:       s.now(),
		Mood:       mood,
		Note:       note,
		Energy:     energy,
		SleepHours: sleep,
	}
	s.apply("log_mood", func(st *State) ([]gamify.Event, bool) {
		st.MoodLogs = append(st.MoodLogs, entry)
		return nil, true
	})
	return entry
}

// AddBrainDump records a dump, newest first, and appends its extracted tasks
// to the task list in the same transition. The dump keeps its own copies.
func (s *Store) AddBrainDump(content, summary string, extracted []model.Task) model.BrainDumpEntry {
	tasks := model.CloneTasks(extracted)
	for i := range tasks {
		if tasks[i].ID == "" {
			tasks[i].ID = s.newID()
		}
		if tasks[i].CreatedAt.IsZero() {
			tasks[i].CreatedAt = s.now()
		}
		if tasks[i].Status == "" {
			tasks[i].Status = model.StatusTodo
		}
	}
	entry := model.BrainDumpEntry{
		ID:             s.newID(),
		Content:        content,
		AISummary:      summary,
		CreatedAt:      s.now(),
		ExtractedTasks: tasks,
	}

	s.apply("add_brain_dump", func(st *State) ([]gamify.Event, bool) {
		dump := entry
		dump.ExtractedTasks = model.CloneTasks(tasks)
		st.BrainDumps = append([]model.BrainDumpEntry{dump}, st.BrainDumps...)
		st.Tasks = append(st.Tasks, model.CloneTasks(tasks)...)
		return nil, true
	})
	entry.ExtractedTasks = model.CloneTasks(tasks)
	return entry
}

// UpdatePreferences merges the non-nil fields of p
func (s *Store) UpdatePreferences(p model.PreferencesPatch) model.Preferences {
	var out model.Preferences
	s.apply("update_preferences", func(st *State) ([]gamify.Event, bool) {
		prefs := &st.Preferences
		if p.Theme != nil {
			prefs.Theme = *p.Theme
		}
		if p.Name != nil {
			prefs.Name = *p.Name
		}
		if p.FocusDuration != nil {
			prefs.FocusDuration = *p.FocusDuration
		}
		if p.Persona != nil {
			prefs.Persona = *p.Persona
		}
		if p.CoachingStyle != nil {
			prefs.CoachingStyle = *p.CoachingStyle
		}
		out = *prefs
		return nil, true
	})
	return out
}

// IncrementFocusStreak records a finished focus session. Every call counts,
// even several on the same day.
func (s *Store) IncrementFocusStreak() model.Stats {
	s.apply("focus_session", func(st *State) ([]gamify.Event, bool) {
		st.FocusStreak++
		return []gamify.Event{gamify.FocusSessionFinished(st.Preferences.FocusDuration)}, true
	})
	return s.Stats()
}

// AddXP grants amount XP directly. The level moves at most one step.
func (s *Store) AddXP(amount int) gamify.Award {
	awards := s.apply("add_xp", func(st *State) ([]gamify.Event, bool) {
		return []gamify.Event{gamify.XPGranted(amount)}, true
	})
	return awards[0]
}

// UpgradeSubscription sets the subscription tier
func (s *Store) UpgradeSubscription(tier model.SubscriptionTier) {
	s.apply("upgrade_subscription", func(st *State) ([]gamify.Event, bool) {
		st.Stats.SubscriptionTier = tier
		return nil, true
	})
}

// AddIncome records a money entry, newest first
func (s *Store) AddIncome(e model.IncomeEntry) model.IncomeEntry {
	e.ID = s.newID()
	if e.Date == "" {
		e.Date = s.now().Format(model.DateLayout)
	}
	s.apply("add_income", func(st *State) ([]gamify.Event, bool) {
		st.IncomeEntries = append([]model.IncomeEntry{e}, st.IncomeEntries...)
		return nil, true
	})
	return e
}

// AddLearningResource records a resource, newest first
func (s *Store) AddLearningResource(r model.LearningResource) model.LearningResource {
	r.ID = s.newID()
	if r.Status == "" {
		r.Status = model.ResourceToLearn
	}
	if r.Flashcards != nil {
		r.Flashcards = append([]model.Flashcard(nil), r.Flashcards...)
	}
	s.apply("add_learning_resource", func(st *State) ([]gamify.Event, bool) {
		rc := r
		if r.Flashcards != nil {
			rc.Flashcards = append([]model.Flashcard(nil), r.Flashcards...)
		}
		st.LearningResources = append([]model.LearningResource{rc}, st.LearningResources...)
		return nil, true
	})
	return r
}

// CreateTeam creates a team with the user as its only owner and selects it
func (s *Store) CreateTeam(name string) model.Team {
	var out model.Team
	s.apply("create_team", func(st *State) ([]gamify.Event, bool) {
		t := model.Team{
			ID:   s.newID(),
			Name: strings.TrimSpace(name),
			Members: []model.TeamMember{
				{ID: "me", Name: st.Preferences.Name, Role: model.RoleOwner},
			},
			Projects: []model.TeamProject{},
		}
		st.Teams = append(st.Teams, t)
		st.CurrentTeamID = t.ID
		out = t.Clone()
		return nil, true
	})
	return out
}

// JoinChallenge marks a challenge joined and bumps its participant count.
// Joining twice counts twice.
func (s *Store) JoinChallenge(id string) (model.Challenge, bool) {
	var out model.Challenge
	var found bool
	s.apply("join_challenge", func(st *State) ([]gamify.Event, bool) {
		i := slices.IndexFunc(st.Challenges, func(c model.Challenge) bool { return c.ID == id })
		if i < 0 {
			return nil, false
		}
		found = true
		st.Challenges[i].Joined = true
		st.Challenges[i].Participants++
		out = st.Challenges[i]
		return nil, true
	})
	return out, found
}

// ToggleIntegration flips an integration's connected flag
func (s *Store) ToggleIntegration(id string) (model.Integration, bool) {
	var out model.Integration
	var found bool
	s.apply("toggle_integration", func(st *State) ([]gamify.Event, bool) {
		i := slices.IndexFunc(st.Integrations, func(in model.Integration) bool { return in.ID == id })
		if i < 0 {
			return nil, false
		}
		found = true
		st.Integrations[i].Connected = !st.Integrations[i].Connected
		out = st.Integrations[i]
		return nil, true
	})
	return out, found
}

// AddReferral counts a referral and grants its XP
func (s *Store) AddReferral() gamify.Award {
	awards := s.apply("add_referral", func(st *State) ([]gamify.Event, bool) {
		return []gamify.Event{gamify.ReferralAdded()}, true
	})
	return awards[0]
}

// Today returns the store clock's date in model.DateLayout
func (s *Store) Today() string {
	return s.now().Format(model.DateLayout)
}

// Now returns the store clock's time
func (s *Store) Now() time.Time {
	return s.now()
}
