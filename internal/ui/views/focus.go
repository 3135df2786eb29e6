package views

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/dori/brainy/internal/logging"
	"github.com/dori/brainy/internal/gamify"
	"github.com/dori/brainy/internal/model"
	"github.com/dori/brainy/internal/notify"
	"github.com/dori/brainy/internal/store"
	"github.com/dori/brainy/internal/ui/theme"
)

// BreakDuration is the fixed rest between focus sessions
const BreakDuration = 5 * time.Minute

// TimerState represents the focus timer state
type TimerState int

const (
	TimerIdle TimerState = iota
	TimerRunning
	TimerPaused
)

// TimerMode is what the timer is counting
type TimerMode int

const (
	ModeFocus TimerMode = iota
	ModeBreak
)

// FocusView is the focus timer. Finishing a focus session records it in the
// store and sends a desktop notification.
type FocusView struct {
	store    *store.Store
	notifier *notify.Notifier
	log      *logging.Logger
	now      func() time.Time
	width    int
	height   int

	// Available tasks
	tasks        []model.Task
	taskCursor   int
	selectedTask *model.Task

	// Timer state
	state     TimerState
	mode      TimerMode
	duration  time.Duration
	remaining time.Duration
	startedAt time.Time
	pausedAt  time.Time
	gen       int // invalidates ticks from earlier runs

	sessions  int
	statusMsg string
}

// NewFocusView creates a new focus view
func NewFocusView(s *store.Store, notifier *notify.Notifier, log *logging.Logger) FocusView {
	if log == nil {
		log = logging.Nop()
	}
	v := FocusView{
		store:    s,
		notifier: notifier,
		log:      log,
		now:      time.Now,
	}
	v.duration = v.focusDuration()
	v.remaining = v.duration
	return v
}

type focusTasksLoadedMsg struct{ tasks []model.Task }
type focusTickMsg struct{ gen int }

func (v FocusView) focusDuration() time.Duration {
	minutes := v.store.Preferences().FocusDuration
	if minutes <= 0 {
		minutes = 25
	}
	return time.Duration(minutes) * time.Minute
}

func tickCmd(gen int) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return focusTickMsg{gen: gen}
	})
}

// Init loads pending tasks to pick from
func (v FocusView) Init() tea.Cmd {
	s := v.store
	return func() tea.Msg {
		var pending []model.Task
		for _, t := range s.Snapshot().Tasks {
			if !t.IsDone() {
				pending = append(pending, t)
			}
		}
		return focusTasksLoadedMsg{tasks: pending}
	}
}

// SetSize sets the view dimensions
func (v FocusView) SetSize(width, height int) Screen {
	v.width = width
	v.height = height
	return v
}

// IsInputMode returns whether the view is in input mode
func (v FocusView) IsInputMode() bool {
	return false
}

// IsTimerRunning reports whether the countdown is live
func (v FocusView) IsTimerRunning() bool {
	return v.state == TimerRunning
}

// Update handles messages
func (v FocusView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case focusTasksLoadedMsg:
		v.tasks = msg.tasks
		v.taskCursor = moveCursor(v.taskCursor, 0, len(v.tasks))
		if v.state == TimerIdle && v.mode == ModeFocus {
			v.duration = v.focusDuration()
			v.remaining = v.duration
		}
		return v, nil

	case focusTickMsg:
		if msg.gen != v.gen || v.state != TimerRunning {
			return v, nil
		}
		v.remaining = v.duration - v.now().Sub(v.startedAt)
		if v.remaining <= 0 {
			v.remaining = 0
			v.complete()
			return v, nil
		}
		return v, tickCmd(v.gen)

	case tea.KeyMsg:
		switch msg.String() {
		case "j", "down":
			if v.state == TimerIdle {
				v.taskCursor = moveCursor(v.taskCursor, 1, len(v.tasks))
			}
		case "k", "up":
			if v.state == TimerIdle {
				v.taskCursor = moveCursor(v.taskCursor, -1, len(v.tasks))
			}
		case "enter":
			if v.state == TimerIdle && len(v.tasks) > 0 {
				task := v.tasks[v.taskCursor]
				v.selectedTask = &task
			}
		case "c":
			v.selectedTask = nil

		case "s", " ":
			switch v.state {
			case TimerIdle:
				cmd := v.start()
				return v, cmd
			case TimerRunning:
				v.state = TimerPaused
				v.pausedAt = v.now()
				v.statusMsg = "Paused"
			case TimerPaused:
				v.startedAt = v.startedAt.Add(v.now().Sub(v.pausedAt))
				v.state = TimerRunning
				v.statusMsg = "Resumed"
				v.gen++
				return v, tickCmd(v.gen)
			}

		case "b":
			if v.state == TimerIdle {
				v.mode = ModeBreak
				cmd := v.start()
				return v, cmd
			}

		case "r":
			v.reset(ModeFocus)
			v.statusMsg = "Timer reset"
		}
	}
	return v, nil
}

func (v *FocusView) start() tea.Cmd {
	if v.mode == ModeBreak {
		v.duration = BreakDuration
		v.statusMsg = "Chill break started"
	} else {
		v.duration = v.focusDuration()
		v.statusMsg = "Deep focus started"
	}
	v.remaining = v.duration
	v.startedAt = v.now()
	v.state = TimerRunning
	v.gen++
	return tickCmd(v.gen)
}

func (v *FocusView) reset(mode TimerMode) {
	v.state = TimerIdle
	v.mode = mode
	if mode == ModeBreak {
		v.duration = BreakDuration
	} else {
		v.duration = v.focusDuration()
	}
	v.remaining = v.duration
	v.gen++
}

// complete finishes the running session and flips to the other mode
func (v *FocusView) complete() {
	if v.mode == ModeBreak {
		v.statusMsg = "Break over! Ready to focus?"
		if err := v.notifier.SendBreakComplete(); err != nil {
			v.log.Debug(aiCtx(), "break notification failed", zap.Error(err))
		}
		v.reset(ModeFocus)
		return
	}

	minutes := int(v.duration.Minutes())
	v.store.IncrementFocusStreak()
	v.sessions++
	streak := v.store.Snapshot().FocusStreak
	v.statusMsg = fmt.Sprintf("Focus session complete! +%d XP. Take a break.", gamify.XPFocusSession)
	if err := v.notifier.SendFocusComplete(minutes, streak); err != nil {
		v.log.Debug(aiCtx(), "focus notification failed", zap.Error(err))
	}
	v.reset(ModeBreak)
}

// View renders the timer
func (v FocusView) View() string {
	if v.width == 0 || v.height == 0 {
		return "Loading..."
	}

	t := theme.Current.Theme
	var sections []string

	label := "Deep Focus"
	if v.mode == ModeBreak {
		label = "Chill Break"
	}
	sections = append(sections, renderTitle(label))
	sections = append(sections, v.renderTimer())

	if v.selectedTask != nil {
		sections = append(sections, lipgloss.NewStyle().Foreground(t.Info).MarginTop(1).
			Render("Working on: "+v.selectedTask.Title))
	}
	sections = append(sections, lipgloss.NewStyle().Foreground(t.Subtle).
		Render(fmt.Sprintf("Sessions this run: %d", v.sessions)))

	if v.state == TimerIdle && v.mode == ModeFocus && len(v.tasks) > 0 {
		sections = append(sections, v.renderTaskList())
	}
	if v.statusMsg != "" {
		sections = append(sections, "", renderStatus(v.statusMsg))
	}
	return strings.Join(sections, "\n")
}

func (v FocusView) renderTimer() string {
	t := theme.Current.Theme

	var color lipgloss.Color
	switch {
	case v.state == TimerPaused:
		color = t.Warning
	case v.mode == ModeBreak:
		color = t.Success
	case v.state == TimerRunning:
		color = t.Error
	default:
		color = t.Foreground
	}

	minutes := int(v.remaining.Minutes())
	seconds := int(v.remaining.Seconds()) % 60
	bigTime := lipgloss.NewStyle().
		Bold(true).
		Foreground(color).
		Padding(1, 4).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Render(fmt.Sprintf("%02d:%02d", minutes, seconds))

	progress := 0.0
	if v.duration > 0 {
		progress = 100 * (1 - float64(v.remaining)/float64(v.duration))
	}
	barStyle := lipgloss.NewStyle().Foreground(color)
	bar := renderBar(progress, 30, barStyle, barStyle)

	var stateLabel string
	switch v.state {
	case TimerRunning:
		stateLabel = "RUNNING"
	case TimerPaused:
		stateLabel = "PAUSED"
	default:
		stateLabel = "READY"
	}

	return lipgloss.JoinVertical(lipgloss.Center,
		lipgloss.NewStyle().Bold(true).Foreground(color).Render(stateLabel),
		bigTime,
		bar,
	)
}

func (v FocusView) renderTaskList() string {
	t := theme.Current.Theme

	lines := []string{lipgloss.NewStyle().Bold(true).Foreground(t.Secondary).MarginTop(1).
		Render("Select a task to focus on:")}

	const maxShow = 8
	for i, task := range v.tasks {
		if i >= maxShow {
			lines = append(lines, lipgloss.NewStyle().Foreground(t.Subtle).
				Render(fmt.Sprintf("  ... +%d more", len(v.tasks)-maxShow)))
			break
		}
		style := lipgloss.NewStyle()
		cursor := "  "
		if i == v.taskCursor {
			style = style.Background(t.Highlight).Bold(true)
			cursor = "> "
		}
		if v.selectedTask != nil && v.selectedTask.ID == task.ID {
			style = style.Foreground(t.Success)
		}
		lines = append(lines, style.Render(cursor+renderPriority(task.Priority)+" "+task.Title))
	}
	return strings.Join(lines, "\n")
}

// Hints returns the footer key hints
func (v FocusView) Hints() []Hint {
	switch v.state {
	case TimerRunning:
		return []Hint{{"space", "pause"}, {"r", "reset"}}
	case TimerPaused:
		return []Hint{{"space", "resume"}, {"r", "reset"}}
	}
	if v.mode == ModeBreak {
		return []Hint{{"space", "start break"}, {"r", "skip break"}}
	}
	return []Hint{{"space", "start"}, {"b", "break"}, {"j/k", "task"}, {"enter", "pick"}, {"c", "clear"}}
}
