package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/dori/brainy/internal/db"
	"github.com/dori/brainy/internal/gamify"
	"github.com/dori/brainy/internal/logging"
	"github.com/dori/brainy/internal/model"
)

var fixedNow = time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func newTestStore(opts ...Option) *Store {
	base := []Option{
		WithClock(func() time.Time { return fixedNow }),
		WithIDGenerator(sequentialIDs()),
	}
	return New(append(base, opts...)...)
}

type memPersister struct {
	docs   map[string][]byte
	awards []gamify.Award
	err    error
}

func newMemPersister() *memPersister {
	return &memPersister{docs: map[string][]byte{}}
}

func (m *memPersister) LoadSnapshot(_ context.Context, key string) ([]byte, error) {
	return m.docs[key], nil
}

func (m *memPersister) SaveState(_ context.Context, key string, doc []byte, awards []gamify.Award) error {
	if m.err != nil {
		return m.err
	}
	m.docs[key] = doc
	m.awards = append(m.awards, awards...)
	return nil
}

func TestDefaultState(t *testing.T) {
	s := newTestStore()
	st := s.Snapshot()

	assert.Equal(t, "Friend", st.Preferences.Name)
	assert.Equal(t, 25, st.Preferences.FocusDuration)
	assert.Equal(t, model.PersonaGeneral, st.Preferences.Persona)
	assert.Equal(t, model.CoachSupportive, st.Preferences.CoachingStyle)
	assert.Equal(t, 1, st.Stats.Level)
	assert.Equal(t, model.TierFree, st.Stats.SubscriptionTier)
	assert.Len(t, st.Integrations, 4)
	require.Len(t, st.Challenges, 3)
	assert.Equal(t, 1240, st.Challenges[0].Participants)
	assert.Equal(t, 1000, st.Challenges[2].RewardXP)
}

func TestAddAndDeleteTasks(t *testing.T) {
	s := newTestStore()

	a := s.AddTask(model.Task{Title: "Write report", Priority: model.PriorityHigh})
	b := s.AddTask(model.Task{Title: "Call mum"})
	s.AddTask(model.Task{Title: "Water plants"})

	assert.Equal(t, model.StatusTodo, a.Status)
	assert.Equal(t, fixedNow, a.CreatedAt)
	assert.Equal(t, model.PriorityMedium, b.Priority, "empty priority defaults to medium")

	assert.True(t, s.DeleteTask(a.ID))
	assert.False(t, s.DeleteTask("missing"))
	assert.False(t, s.DeleteTask(a.ID), "second delete is a no-op")

	st := s.Snapshot()
	require.Len(t, st.Tasks, 2)
	assert.Equal(t, "Call mum", st.Tasks[0].Title)
}

func TestToggleTaskStatusAwardsOnce(t *testing.T) {
	s := newTestStore()
	task := s.AddTask(model.Task{Title: "Ship it"})

	got, ok := s.ToggleTaskStatus(task.ID)
	require.True(t, ok)
	assert.Equal(t, model.StatusDone, got.Status)
	assert.Equal(t, 1, s.Stats().TasksCompleted)
	assert.Equal(t, 10, s.Stats().XP)

	got, ok = s.ToggleTaskStatus(task.ID)
	require.True(t, ok)
	assert.Equal(t, model.StatusTodo, got.Status)
	assert.Equal(t, 1, s.Stats().TasksCompleted, "reopening keeps the counter")
	assert.Equal(t, 10, s.Stats().XP, "reopening keeps the XP")

	_, ok = s.ToggleTaskStatus("nope")
	assert.False(t, ok)
}

func TestToggleInProgressTaskCompletes(t *testing.T) {
	s := newTestStore()
	task := s.AddTask(model.Task{Title: "Refactor"})

	s.mu.Lock()
	s.state.Tasks[0].Status = model.StatusInProgress
	s.mu.Unlock()

	got, _ := s.ToggleTaskStatus(task.ID)
	assert.Equal(t, model.StatusDone, got.Status)
	assert.Equal(t, 10, s.Stats().XP)
}

func TestHabitStreakIsDateCount(t *testing.T) {
	s := newTestStore()
	h := s.AddHabit("Read", model.FrequencyDaily, model.HabitLearning)

	h, _ = s.ToggleHabitCompletion(h.ID, "2026-10-14")
	h, _ = s.ToggleHabitCompletion(h.ID, "2026-10-16")
	assert.Equal(t, 2, h.Streak, "non-consecutive dates still count")
	assert.Equal(t, 30, s.Stats().XP)

	before := h.Clone()
	h, _ = s.ToggleHabitCompletion(h.ID, "2026-10-15")
	assert.Equal(t, 3, h.Streak)
	h, _ = s.ToggleHabitCompletion(h.ID, "2026-10-15")
	assert.Equal(t, before.CompletedDates, h.CompletedDates)
	assert.Equal(t, len(h.CompletedDates), h.Streak)
	assert.Equal(t, 45, s.Stats().XP, "unmarking does not award")
}

func TestGoalProgressAndMilestoneXP(t *testing.T) {
	s := newTestStore()
	g := s.AddGoal(model.Goal{
		Title: "Run a marathon",
		Milestones: []model.Milestone{
			{Title: "5k"}, {Title: "10k"}, {Title: "Half"},
		},
	})
	require.Len(t, g.Milestones, 3)
	assert.Zero(t, g.Progress)

	g, _ = s.ToggleGoalMilestone(g.ID, g.Milestones[0].ID)
	assert.Equal(t, 33, g.Progress)
	g, _ = s.ToggleGoalMilestone(g.ID, g.Milestones[1].ID)
	assert.Equal(t, 67, g.Progress)
	g, _ = s.ToggleGoalMilestone(g.ID, g.Milestones[2].ID)
	assert.Equal(t, 100, g.Progress)
	assert.Equal(t, 150, s.Stats().XP)

	g, _ = s.ToggleGoalMilestone(g.ID, g.Milestones[2].ID)
	assert.Equal(t, 67, g.Progress)
	assert.Equal(t, 150, s.Stats().XP, "progress dropping awards nothing")

	_, ok := s.ToggleGoalMilestone(g.ID, "missing")
	assert.False(t, ok)
}

func TestAddGoalDefaultMilestone(t *testing.T) {
	s := newTestStore()
	g := s.AddGoal(model.Goal{Title: "Learn Go"})
	require.Len(t, g.Milestones, 1)
	assert.Equal(t, model.DefaultMilestoneTitle, g.Milestones[0].Title)
	assert.NotEmpty(t, g.Milestones[0].ID)

	assert.True(t, s.DeleteGoal(g.ID))
	assert.Empty(t, s.Snapshot().Goals)
}

func TestAddXPSingleStep(t *testing.T) {
	s := newTestStore()
	s.AddXP(90)
	a := s.AddXP(20)
	assert.Equal(t, 110, a.XPAfter)
	assert.Equal(t, 2, a.LevelAfter)
	assert.True(t, a.LeveledUp)

	a = s.AddXP(5000)
	assert.Equal(t, 3, a.LevelAfter, "one level per grant")
	assert.Equal(t, 5110, s.Stats().XP)

	a = s.AddXP(-50)
	assert.Equal(t, 5110, a.XPAfter, "xp never decreases")
}

func TestAddReferral(t *testing.T) {
	s := newTestStore()
	for i := 0; i < 3; i++ {
		s.AddReferral()
	}
	stats := s.Stats()
	assert.Equal(t, 3, stats.Referrals)
	assert.Equal(t, 600, stats.XP)
}

func TestIncrementFocusStreak(t *testing.T) {
	s := newTestStore()
	d := 50
	s.UpdatePreferences(model.PreferencesPatch{FocusDuration: &d})

	s.IncrementFocusStreak()
	stats := s.IncrementFocusStreak()

	assert.Equal(t, 2, s.Snapshot().FocusStreak, "same-day sessions both count")
	assert.Equal(t, 100, stats.FocusMinutes)
	assert.Equal(t, 40, stats.XP)
}

func TestAddBrainDumpDualWrite(t *testing.T) {
	s := newTestStore()
	s.AddTask(model.Task{Title: "Existing"})

	extracted := []model.Task{
		{ID: "x1", Title: "Email landlord", Priority: model.PriorityHigh, Description: "AI Extracted"},
		{ID: "x2", Title: "Buy milk", Priority: model.PriorityLow, Description: "AI Extracted"},
	}
	first := s.AddBrainDump("old thoughts", "", nil)
	entry := s.AddBrainDump("landlord, milk", "Two chores.", extracted)

	st := s.Snapshot()
	require.Len(t, st.BrainDumps, 2)
	assert.Equal(t, entry.ID, st.BrainDumps[0].ID, "newest first")
	assert.Equal(t, first.ID, st.BrainDumps[1].ID)
	assert.Equal(t, "Two chores.", st.BrainDumps[0].AISummary)

	require.Len(t, st.Tasks, 3)
	assert.Equal(t, "Email landlord", st.Tasks[1].Title)
	assert.Equal(t, model.StatusTodo, st.Tasks[2].Status)

	// copies are independent after creation
	s.ToggleTaskStatus("x1")
	st = s.Snapshot()
	assert.Equal(t, model.StatusDone, st.Tasks[1].Status)
	assert.Equal(t, model.StatusTodo, st.BrainDumps[0].ExtractedTasks[0].Status)

	extracted[0].Title = "mutated by caller"
	assert.Equal(t, "Email landlord", s.Snapshot().BrainDumps[0].ExtractedTasks[0].Title)
}

func TestUpdatePreferencesMerges(t *testing.T) {
	s := newTestStore()
	name := "Dori"
	persona := model.PersonaHustler
	prefs := s.UpdatePreferences(model.PreferencesPatch{Name: &name, Persona: &persona})

	assert.Equal(t, "Dori", prefs.Name)
	assert.Equal(t, model.PersonaHustler, prefs.Persona)
	assert.Equal(t, 25, prefs.FocusDuration, "untouched fields survive")
	assert.Equal(t, model.ThemeSystem, prefs.Theme)
}

func TestTeamsChallengesIntegrations(t *testing.T) {
	s := newTestStore()
	name := "Dori"
	s.UpdatePreferences(model.PreferencesPatch{Name: &name})

	_, ok := s.CurrentTeam()
	assert.False(t, ok)

	s.CreateTeam("Alpha")
	team := s.CreateTeam("Beta")
	require.Len(t, team.Members, 1)
	assert.Equal(t, "Dori", team.Members[0].Name)
	assert.Equal(t, model.RoleOwner, team.Members[0].Role)

	current, ok := s.CurrentTeam()
	require.True(t, ok)
	assert.Equal(t, "Beta", current.Name, "new team becomes current")

	c, ok := s.JoinChallenge("2")
	require.True(t, ok)
	assert.True(t, c.Joined)
	assert.Equal(t, 851, c.Participants)
	c, _ = s.JoinChallenge("2")
	assert.Equal(t, 852, c.Participants, "no double-join guard")

	in, ok := s.ToggleIntegration("3")
	require.True(t, ok)
	assert.True(t, in.Connected)
	in, _ = s.ToggleIntegration("3")
	assert.False(t, in.Connected)

	_, ok = s.ToggleIntegration("99")
	assert.False(t, ok)
}

func TestMoneyAndLearningPrepend(t *testing.T) {
	s := newTestStore()
	s.AddIncome(model.IncomeEntry{Title: "Gig", Amount: 120, Type: model.IncomeActive})
	s.AddIncome(model.IncomeEntry{Title: "Hosting", Amount: 20, Type: model.IncomeExpense})
	s.AddLearningResource(model.LearningResource{Title: "SICP", Type: model.ResourceBook})
	s.AddLearningResource(model.LearningResource{Title: "Go course", Type: model.ResourceCourse})
	s.UpgradeSubscription(model.TierPro)

	st := s.Snapshot()
	assert.Equal(t, "Hosting", st.IncomeEntries[0].Title)
	assert.Equal(t, "2026-10-16", st.IncomeEntries[0].Date)
	assert.Equal(t, "Go course", st.LearningResources[0].Title)
	assert.Equal(t, model.ResourceToLearn, st.LearningResources[1].Status)
	assert.True(t, st.Stats.IsPremium())
	assert.InDelta(t, 100.0, s.Summary().NetIncome, 0.001)
}

func TestSummary(t *testing.T) {
	s := newTestStore()
	done := s.AddTask(model.Task{Title: "a", Priority: model.PriorityHigh})
	s.AddTask(model.Task{Title: "b", Priority: model.PriorityHigh})
	s.AddTask(model.Task{Title: "c"})
	s.ToggleTaskStatus(done.ID)

	h := s.AddHabit("Stretch", model.FrequencyDaily, model.HabitHealth)
	s.AddHabit("Journal", model.FrequencyDaily, model.HabitMindfulness)
	s.ToggleHabitCompletion(h.ID, s.Today())

	e1, e2 := 4, 8
	s.LogMood(model.MoodGood, "", &e1, nil)
	s.LogMood(model.MoodStressed, "deadline", &e2, nil)
	s.LogMood(model.MoodGood, "", nil, nil)

	sum := s.Summary()
	assert.Equal(t, 2, sum.Pending)
	assert.Equal(t, 1, sum.Done)
	assert.Equal(t, 1, sum.HighPending)
	assert.Equal(t, 1, sum.HabitsToday)
	assert.Equal(t, 2, sum.HabitsTotal)
	assert.InDelta(t, 6.0, sum.AverageEnergy, 0.001)
	assert.Equal(t, 2, sum.MoodCounts[model.MoodGood])
	require.NotNil(t, sum.LatestMood)
	assert.Equal(t, model.MoodGood, sum.LatestMood.Mood)
}

func TestAwardHookSeesLevelUp(t *testing.T) {
	var seen []gamify.Award
	s := newTestStore(WithAwardHook(func(a gamify.Award) { seen = append(seen, a) }))

	s.AddXP(150)
	s.AddTask(model.Task{Title: "no award"})

	require.Len(t, seen, 1)
	assert.True(t, seen[0].LeveledUp)
	assert.Equal(t, gamify.KindXPGranted, seen[0].Kind)
	assert.Equal(t, fixedNow, seen[0].At)
}

func TestPersistWritesDocumentAndAwards(t *testing.T) {
	p := newMemPersister()
	s := newTestStore(WithPersister(p))

	task := s.AddTask(model.Task{Title: "persist me"})
	s.ToggleTaskStatus(task.ID)
	s.DeleteTask("missing")

	require.Contains(t, p.docs, SnapshotKey)
	require.Len(t, p.awards, 1)
	assert.Equal(t, task.ID, p.awards[0].RefID)

	restored := newTestStore(WithPersister(p))
	require.NoError(t, restored.Load(context.Background()))
	assert.Equal(t, s.Snapshot(), restored.Snapshot())
}

func TestPersistFailureIsLogged(t *testing.T) {
	p := newMemPersister()
	p.err = errors.New("disk full")
	log := logging.NewTestLogger()
	s := newTestStore(WithPersister(p), WithLogger(log.Logger))

	task := s.AddTask(model.Task{Title: "still in memory"})

	assert.Equal(t, task.ID, s.Snapshot().Tasks[0].ID, "actions never fail")
	log.AssertLogged(t, zapcore.ErrorLevel, "failed to persist state")
}

func TestLoadToleratesMissingFields(t *testing.T) {
	p := newMemPersister()
	p.docs[SnapshotKey] = []byte(`{"tasks":[{"id":"t1","title":"old","priority":"low","status":"todo"}],"stats":{"xp":120}}`)

	s := newTestStore(WithPersister(p))
	require.NoError(t, s.Load(context.Background()))

	st := s.Snapshot()
	require.Len(t, st.Tasks, 1)
	assert.Equal(t, 120, st.Stats.XP)
	assert.Equal(t, 1, st.Stats.Level, "level floor applied")
	assert.Equal(t, "Friend", st.Preferences.Name)
	assert.Len(t, st.Challenges, 3)
	assert.NotNil(t, st.Habits)
}

func TestDecodeDerivesStreakAndProgress(t *testing.T) {
	st, err := Decode([]byte(`{
		"habits": [
			{"id": "h1", "title": "Read", "completed_dates": ["2026-10-14", "2026-10-15"]},
			{"id": "h2", "title": "Run", "streak": 9, "completed_dates": ["2026-10-15", "2026-10-15"]}
		],
		"goals": [
			{"id": "g1", "title": "Ship", "progress": 0, "milestones": [
				{"id": "m1", "title": "a", "is_completed": true},
				{"id": "m2", "title": "b", "is_completed": true},
				{"id": "m3", "title": "c", "is_completed": false}
			]},
			{"id": "g2", "title": "Empty", "progress": 80}
		]
	}`))
	require.NoError(t, err)

	require.Len(t, st.Habits, 2)
	assert.Equal(t, 2, st.Habits[0].Streak, "missing streak is derived")
	assert.Equal(t, 1, st.Habits[1].Streak, "stale streak is corrected")
	assert.Equal(t, []string{"2026-10-15"}, st.Habits[1].CompletedDates)

	require.Len(t, st.Goals, 2)
	assert.Equal(t, 67, st.Goals[0].Progress)
	assert.Equal(t, 0, st.Goals[1].Progress)
	assert.NotNil(t, st.Goals[1].Milestones)
}

func TestLoadRejectsCorruptDocument(t *testing.T) {
	p := newMemPersister()
	p.docs[SnapshotKey] = []byte(`{not json`)

	s := newTestStore(WithPersister(p))
	assert.Error(t, s.Load(context.Background()))
	assert.Equal(t, "Friend", s.Snapshot().Preferences.Name)
}

func TestRoundTripThroughSQLite(t *testing.T) {
	database, err := db.Open(filepath.Join(t.TempDir(), "brainy.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	s := newTestStore(WithPersister(database))
	deadline := fixedNow.Add(48 * time.Hour)
	s.AddTask(model.Task{Title: "Tax return", Priority: model.PriorityHigh, Deadline: &deadline, Tags: []string{"admin"}})
	t2 := s.AddTask(model.Task{Title: "Groceries"})
	s.ToggleTaskStatus(t2.ID)
	h := s.AddHabit("Meditate", model.FrequencyDaily, model.HabitMindfulness)
	s.ToggleHabitCompletion(h.ID, "2026-10-15")
	g := s.AddGoal(model.Goal{Title: "Save", Milestones: []model.Milestone{{Title: "1k"}, {Title: "5k"}}})
	s.ToggleGoalMilestone(g.ID, g.Milestones[0].ID)

	want := s.Snapshot()

	restored := newTestStore(WithPersister(database))
	require.NoError(t, restored.Load(context.Background()))
	got := restored.Snapshot()

	assert.Equal(t, want.Tasks, got.Tasks)
	assert.Equal(t, want.Habits, got.Habits)
	assert.Equal(t, want.Goals, got.Goals)
	assert.Equal(t, want.Stats, got.Stats)

	history, err := database.XPHistory(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, gamify.KindMilestoneCompleted, history[0].Kind)
}
