package views

import (
	"context"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dori/brainy/internal/ai"
	"github.com/dori/brainy/internal/auth"
	"github.com/dori/brainy/internal/gamify"
	"github.com/dori/brainy/internal/model"
	"github.com/dori/brainy/internal/notify"
	"github.com/dori/brainy/internal/store"
)

var noStyle = lipgloss.NewStyle()

var fixedNow = time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)

type scripted struct{ text string }

func (s scripted) GetResponse(context.Context, string, string) (string, error) {
	return s.text, nil
}

func newStore() *store.Store {
	return store.New(store.WithClock(func() time.Time { return fixedNow }))
}

func keyPress(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

// press sends keys and drops the returned commands, which may be cursor
// blinks that never finish.
func press(s Screen, keys ...string) Screen {
	for _, k := range keys {
		updated, _ := s.Update(keyPress(k))
		s = updated.(Screen)
	}
	return s
}

// pressRun sends one key and runs the command it returns
func pressRun(t *testing.T, s Screen, k string) Screen {
	t.Helper()
	updated, cmd := s.Update(keyPress(k))
	return drain(t, updated.(Screen), cmd)
}

// drain runs cmd and feeds results back until nothing is left. Timer and
// spinner ticks are dropped.
func drain(t *testing.T, s Screen, cmd tea.Cmd) Screen {
	t.Helper()
	if cmd == nil {
		return s
	}
	switch msg := cmd().(type) {
	case nil:
		return s
	case tea.BatchMsg:
		for _, c := range msg {
			s = drain(t, s, c)
		}
		return s
	case spinner.TickMsg, focusTickMsg:
		return s
	default:
		updated, next := s.Update(msg)
		return drain(t, updated.(Screen), next)
	}
}

func initScreen(t *testing.T, s Screen) Screen {
	t.Helper()
	return drain(t, s.SetSize(100, 40), s.Init())
}

func TestTasksViewLifecycle(t *testing.T) {
	st := newStore()
	v := initScreen(t, NewTasksView(st, ai.NewAssistant(nil, nil)))

	v = press(v, "a")
	assert.True(t, v.IsInputMode())
	v = press(v, "Pay rent !high @home due:tomorrow")
	v = pressRun(t, v, "enter")
	assert.False(t, v.IsInputMode())

	tasks := st.Snapshot().Tasks
	require.Len(t, tasks, 1)
	assert.Equal(t, "Pay rent", tasks[0].Title)
	assert.Equal(t, model.PriorityHigh, tasks[0].Priority)
	assert.Equal(t, []string{"home"}, tasks[0].Tags)
	require.NotNil(t, tasks[0].Deadline)
	assert.Contains(t, v.View(), "Pay rent")

	v = pressRun(t, v, "enter")
	assert.True(t, st.Snapshot().Tasks[0].IsDone())
	assert.Equal(t, gamify.XPTaskCompleted, st.Stats().XP)

	v = press(v, "f")
	assert.Empty(t, v.(TasksView).tasks, "todo filter hides done tasks")
	v = press(v, "f")
	assert.Len(t, v.(TasksView).tasks, 1)
	v = press(v, "f")

	v = press(v, "d")
	assert.True(t, v.IsInputMode())
	v = pressRun(t, v, "y")
	assert.Empty(t, st.Snapshot().Tasks)
}

func TestTasksViewBreakDown(t *testing.T) {
	st := newStore()
	assistant := ai.NewAssistant(scripted{`[{"title":"Pick a race","priority":"high"},{"title":"Buy shoes","priority":"low"}]`}, nil)
	v := initScreen(t, NewTasksView(st, assistant))

	v = press(v, "b", "Run a marathon")
	v = pressRun(t, v, "enter")

	tasks := st.Snapshot().Tasks
	require.Len(t, tasks, 2)
	assert.Equal(t, "Pick a race", tasks[0].Title)
	assert.Contains(t, v.(TasksView).statusMsg, "2 steps")
}

func TestBrainDumpViewStoresAnalysis(t *testing.T) {
	st := newStore()
	assistant := ai.NewAssistant(scripted{`{"summary":"Admin overload.","tasks":[{"title":"Pay rent","priority":"high"}],"nextStep":"Open the bank app."}`}, nil)
	v := initScreen(t, NewBrainDumpView(st, assistant))

	v = press(v, "a", "rent is due and I am tired")
	assert.True(t, v.IsInputMode())
	v = pressRun(t, v, "ctrl+s")
	assert.False(t, v.IsInputMode())

	snap := st.Snapshot()
	require.Len(t, snap.BrainDumps, 1)
	assert.Equal(t, "rent is due and I am tired", snap.BrainDumps[0].Content)
	assert.Equal(t, "Admin overload.", snap.BrainDumps[0].AISummary)
	require.Len(t, snap.Tasks, 1)
	assert.Equal(t, "Pay rent", snap.Tasks[0].Title)
	assert.Contains(t, v.View(), "Admin overload.")
	assert.Contains(t, v.(BrainDumpView).statusMsg, "Open the bank app.")
}

func TestBrainDumpViewOfflineFallback(t *testing.T) {
	st := newStore()
	v := initScreen(t, NewBrainDumpView(st, ai.NewAssistant(nil, nil)))

	v = press(v, "a", "anything")
	pressRun(t, v, "ctrl+s")

	snap := st.Snapshot()
	require.Len(t, snap.BrainDumps, 1)
	assert.Equal(t, ai.FallbackSummary, snap.BrainDumps[0].AISummary)
	assert.Len(t, snap.Tasks, 1)
}

func TestBrainDumpViewRejectsBlank(t *testing.T) {
	st := newStore()
	v := initScreen(t, NewBrainDumpView(st, ai.NewAssistant(nil, nil)))
	v = press(v, "a", "   ")
	v = pressRun(t, v, "ctrl+s")
	assert.Empty(t, st.Snapshot().BrainDumps)
	assert.True(t, v.IsInputMode(), "still editing")
}

func TestHabitsViewToggleToday(t *testing.T) {
	st := newStore()
	v := initScreen(t, NewHabitsView(st))

	v = press(v, "a", "Meditate #mindfulness")
	v = pressRun(t, v, "enter")
	v = pressRun(t, v, "enter")

	h := st.Snapshot().Habits[0]
	assert.Equal(t, model.HabitMindfulness, h.Category)
	assert.Equal(t, []string{"2026-10-16"}, h.CompletedDates)
	assert.Equal(t, 1, h.Streak)
	assert.Equal(t, gamify.XPHabitMarked, st.Stats().XP)

	pressRun(t, v, "enter")
	assert.Empty(t, st.Snapshot().Habits[0].CompletedDates)
}

func TestGoalsViewTogglesMilestones(t *testing.T) {
	st := newStore()
	st.AddGoal(model.Goal{Title: "Ship v1", Milestones: []model.Milestone{{Title: "Design"}, {Title: "Build"}}})
	v := initScreen(t, NewGoalsView(st, ai.NewAssistant(nil, nil)))

	// header row is not toggleable
	v = pressRun(t, v, "enter")
	assert.Equal(t, 0, st.Snapshot().Goals[0].Progress)

	v = press(v, "j")
	v = pressRun(t, v, "enter")
	assert.Equal(t, 50, st.Snapshot().Goals[0].Progress)
	assert.Equal(t, gamify.XPMilestoneCompleted, st.Stats().XP)
	assert.Contains(t, v.View(), "50%")
}

func TestGoalsViewAddAndPlan(t *testing.T) {
	st := newStore()
	assistant := ai.NewAssistant(scripted{`[{"title":"Find a teacher"},{"title":"Practice scales"}]`}, nil)
	v := initScreen(t, NewGoalsView(st, assistant))

	v = press(v, "a", "Learn Go: tour; book")
	v = pressRun(t, v, "enter")
	v = press(v, "b", "Learn piano")
	pressRun(t, v, "enter")

	goals := st.Snapshot().Goals
	require.Len(t, goals, 2)
	assert.Len(t, goals[0].Milestones, 2)
	assert.Equal(t, "Learn piano", goals[1].Title)
	assert.Equal(t, "Practice scales", goals[1].Milestones[1].Title)
}

type recorder struct{ calls [][]string }

func (r *recorder) run(name string, args ...string) error {
	r.calls = append(r.calls, append([]string{name}, args...))
	return nil
}

func TestFocusViewCompletesSession(t *testing.T) {
	st := newStore()
	rec := &recorder{}
	fv := NewFocusView(st, notify.NewWithRunner(true, rec.run), nil)
	clock := fixedNow
	fv.now = func() time.Time { return clock }
	v := initScreen(t, fv)

	v = press(v, " ")
	require.True(t, v.(FocusView).IsTimerRunning())
	gen := v.(FocusView).gen

	clock = clock.Add(10 * time.Minute)
	updated, cmd := v.Update(focusTickMsg{gen: gen})
	v = updated.(Screen)
	assert.NotNil(t, cmd, "keeps ticking")
	assert.Equal(t, 15*time.Minute, v.(FocusView).remaining)

	clock = clock.Add(16 * time.Minute)
	updated, _ = v.Update(focusTickMsg{gen: gen})
	v = updated.(Screen)

	fv = v.(FocusView)
	assert.False(t, fv.IsTimerRunning())
	assert.Equal(t, ModeBreak, fv.mode)
	assert.Equal(t, BreakDuration, fv.remaining)
	assert.Equal(t, 1, st.Snapshot().FocusStreak)
	assert.Equal(t, gamify.XPFocusSession, st.Stats().XP)
	require.Len(t, rec.calls, 1)
	assert.Contains(t, rec.calls[0], "25 minutes done. Session streak: 1")
}

func TestFocusViewPauseAndStaleTicks(t *testing.T) {
	st := newStore()
	fv := NewFocusView(st, notify.NewWithRunner(false, nil), nil)
	clock := fixedNow
	fv.now = func() time.Time { return clock }
	v := initScreen(t, fv)

	v = press(v, " ")
	oldGen := v.(FocusView).gen
	clock = clock.Add(5 * time.Minute)
	v = press(v, " ") // pause
	clock = clock.Add(time.Hour)
	v = press(v, " ") // resume

	updated, cmd := v.Update(focusTickMsg{gen: oldGen})
	assert.Nil(t, cmd, "ticks from before the pause are ignored")
	v = updated.(Screen)

	updated, _ = v.Update(focusTickMsg{gen: v.(FocusView).gen})
	assert.Equal(t, 20*time.Minute, updated.(FocusView).remaining, "paused time does not count")
	assert.Zero(t, st.Snapshot().FocusStreak)
}

func TestFocusViewUsesPreferredDuration(t *testing.T) {
	st := newStore()
	d := 50
	st.UpdatePreferences(model.PreferencesPatch{FocusDuration: &d})
	v := initScreen(t, NewFocusView(st, notify.NewWithRunner(false, nil), nil))
	assert.Equal(t, 50*time.Minute, v.(FocusView).remaining)
	assert.Contains(t, v.View(), "50:00")
}

func TestDashboardMoodCheckIn(t *testing.T) {
	st := newStore()
	v := initScreen(t, NewDashboardView(st, auth.New(nil, nil)))

	assert.Contains(t, v.View(), "Good morning, Friend.")
	v = press(v, "m")
	assert.True(t, v.IsInputMode())
	v = press(v, "2")
	assert.False(t, v.IsInputMode())

	logs := st.Snapshot().MoodLogs
	require.Len(t, logs, 1)
	assert.Equal(t, model.MoodGood, logs[0].Mood)
	assert.Contains(t, v.View(), "Last check-in")
}

func TestDashboardCyclesPersona(t *testing.T) {
	st := newStore()
	v := initScreen(t, NewDashboardView(st, auth.New(nil, nil)))

	v = press(v, "p")
	assert.Equal(t, model.PersonaStudent, st.Preferences().Persona)
	assert.Contains(t, v.View(), "Persona: student")

	press(v, "p", "p", "p", "p")
	assert.Equal(t, model.PersonaGeneral, st.Preferences().Persona, "wraps around")
}

func TestGreeting(t *testing.T) {
	assert.Equal(t, "Good morning", greeting(0))
	assert.Equal(t, "Good afternoon", greeting(12))
	assert.Equal(t, "Good evening", greeting(18))
}

func TestCoachViewCheckIn(t *testing.T) {
	st := newStore()
	v := initScreen(t, NewCoachView(st, ai.NewAssistant(scripted{"Sleep before midnight."}, nil)))

	v = press(v, "+", "+", "[")
	v = pressRun(t, v, "enter")

	logs := st.Snapshot().MoodLogs
	require.Len(t, logs, 1)
	require.NotNil(t, logs[0].Energy)
	assert.Equal(t, 7, *logs[0].Energy)
	assert.Equal(t, 6.5, *logs[0].SleepHours)
	assert.Equal(t, "Daily Check-in", logs[0].Note)
	assert.Contains(t, v.View(), "Sleep before midnight.")
}

func TestCoachViewAutomation(t *testing.T) {
	st := newStore()
	v := initScreen(t, NewCoachView(st, ai.NewAssistant(nil, nil)))

	v = press(v, "e", "ask for Friday off")
	v = pressRun(t, v, "enter")
	assert.Equal(t, ai.FallbackAutomation, v.(CoachView).output)
	assert.Contains(t, v.View(), "Offline mode")
}

func TestMoneyView(t *testing.T) {
	st := newStore()
	v := initScreen(t, NewMoneyView(st, ai.NewAssistant(scripted{`["Tutoring","Etsy prints"]`}, nil)))

	v = press(v, "a", "Logo design 250 #freelance")
	v = pressRun(t, v, "enter")
	v = press(v, "a", "Hosting 20 expense")
	v = pressRun(t, v, "enter")
	v = press(v, "a", "no number here")
	v = pressRun(t, v, "enter")

	entries := st.Snapshot().IncomeEntries
	require.Len(t, entries, 2)
	assert.Equal(t, "Hosting", entries[0].Title, "newest first")
	assert.Contains(t, v.View(), "230.00")

	v = press(v, "i", "drawing")
	v = pressRun(t, v, "enter")
	assert.Equal(t, []string{"Tutoring", "Etsy prints"}, v.(MoneyView).ideas)
}

func TestLearningView(t *testing.T) {
	st := newStore()
	v := initScreen(t, NewLearningView(st))

	v = press(v, "a", "Go concurrency course")
	v = pressRun(t, v, "enter")

	res := st.Snapshot().LearningResources
	require.Len(t, res, 1)
	assert.Equal(t, model.ResourceCourse, res[0].Type)
	assert.Equal(t, model.ResourceToLearn, res[0].Status)
	assert.Contains(t, v.View(), "Go concurrency")
}

func TestRenderBar(t *testing.T) {
	s := renderBar(50, 10, noStyle, noStyle)
	assert.Equal(t, "█████░░░░░", s)
	assert.Equal(t, "██████████", renderBar(150, 10, noStyle, noStyle))
}
