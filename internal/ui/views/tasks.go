package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dori/brainy/internal/ai"
	"github.com/dori/brainy/internal/gamify"
	"github.com/dori/brainy/internal/model"
	"github.com/dori/brainy/internal/quickadd"
	"github.com/dori/brainy/internal/store"
	"github.com/dori/brainy/internal/ui/theme"
)

// TaskFilter selects which tasks the list shows
type TaskFilter int

const (
	FilterAll TaskFilter = iota
	FilterTodo
	FilterDone
)

func (f TaskFilter) String() string {
	switch f {
	case FilterTodo:
		return "todo"
	case FilterDone:
		return "done"
	default:
		return "all"
	}
}

// TasksMode represents the current interaction mode
type TasksMode int

const (
	TasksModeNormal TasksMode = iota
	TasksModeAdd
	TasksModeBreakDown
	TasksModeConfirmDelete
)

// TasksView lists tasks and lets the user add, complete and delete them,
// or have the assistant break a big goal into steps.
type TasksView struct {
	store     *store.Store
	assistant *ai.Assistant
	width     int
	height    int

	all    []model.Task
	tasks  []model.Task // after filter
	filter TaskFilter
	cursor int
	offset int

	mode     TasksMode
	input    textinput.Model
	spinner  spinner.Model
	thinking bool

	statusMsg string
}

// NewTasksView creates a new tasks view
func NewTasksView(s *store.Store, assistant *ai.Assistant) TasksView {
	ti := textinput.New()
	ti.CharLimit = 256

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return TasksView{
		store:     s,
		assistant: assistant,
		input:     ti,
		spinner:   sp,
	}
}

type tasksLoadedMsg struct {
	tasks []model.Task
}

type goalBrokenDownMsg struct {
	goal  string
	steps []model.Task
}

// Init loads tasks
func (v TasksView) Init() tea.Cmd {
	return v.loadTasks
}

func (v TasksView) loadTasks() tea.Msg {
	return tasksLoadedMsg{tasks: v.store.Snapshot().Tasks}
}

// SetSize sets the view dimensions
func (v TasksView) SetSize(width, height int) Screen {
	v.width = width
	v.height = height
	v.input.Width = width - 6
	return v
}

// IsInputMode returns true when the view is capturing text input
func (v TasksView) IsInputMode() bool {
	return v.mode != TasksModeNormal || v.thinking
}

func (v *TasksView) applyFilter() {
	v.tasks = v.tasks[:0:0]
	for _, t := range v.all {
		switch v.filter {
		case FilterTodo:
			if t.IsDone() {
				continue
			}
		case FilterDone:
			if !t.IsDone() {
				continue
			}
		}
		v.tasks = append(v.tasks, t)
	}
	v.cursor = moveCursor(v.cursor, 0, len(v.tasks))
	v.ensureCursorVisible()
}

func (v TasksView) visibleCount() int {
	return max(v.height-6, 1)
}

func (v *TasksView) ensureCursorVisible() {
	visible := v.visibleCount()
	if v.cursor < v.offset {
		v.offset = v.cursor
	}
	if v.cursor >= v.offset+visible {
		v.offset = v.cursor - visible + 1
	}
}

func (v TasksView) current() (model.Task, bool) {
	if len(v.tasks) == 0 {
		return model.Task{}, false
	}
	return v.tasks[v.cursor], true
}

// Update handles messages
func (v TasksView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tasksLoadedMsg:
		v.all = msg.tasks
		v.applyFilter()
		return v, nil

	case goalBrokenDownMsg:
		v.thinking = false
		for _, step := range msg.steps {
			v.store.AddTask(step)
		}
		v.statusMsg = fmt.Sprintf("Broke %q into %d steps", msg.goal, len(msg.steps))
		return v, v.loadTasks

	case spinner.TickMsg:
		if !v.thinking {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd

	case tea.KeyMsg:
		if v.thinking {
			return v, nil
		}
		switch v.mode {
		case TasksModeAdd, TasksModeBreakDown:
			return v.handleInputMode(msg)
		case TasksModeConfirmDelete:
			return v.handleConfirmDelete(msg)
		}
		return v.handleNormalMode(msg)
	}
	return v, nil
}

func (v TasksView) handleNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	v.statusMsg = ""
	switch msg.String() {
	case "j", "down":
		v.cursor = moveCursor(v.cursor, 1, len(v.tasks))
		v.ensureCursorVisible()
	case "k", "up":
		v.cursor = moveCursor(v.cursor, -1, len(v.tasks))
		v.ensureCursorVisible()
	case "g":
		v.cursor = 0
		v.ensureCursorVisible()
	case "G":
		v.cursor = moveCursor(len(v.tasks), -1, len(v.tasks))
		v.ensureCursorVisible()

	case "a":
		v.mode = TasksModeAdd
		v.input.SetValue("")
		v.input.Placeholder = "New task... (@tag !high due:friday)"
		cmd := v.input.Focus()
		return v, cmd

	case "b":
		v.mode = TasksModeBreakDown
		v.input.SetValue("")
		v.input.Placeholder = "A big goal to break down..."
		cmd := v.input.Focus()
		return v, cmd

	case "enter", " ", "tab":
		if task, ok := v.current(); ok {
			if updated, ok := v.store.ToggleTaskStatus(task.ID); ok && updated.IsDone() {
				v.statusMsg = fmt.Sprintf("Nice! +%d XP", gamify.XPTaskCompleted)
			}
			return v, v.loadTasks
		}

	case "d":
		if _, ok := v.current(); ok {
			v.mode = TasksModeConfirmDelete
		}

	case "f":
		v.filter = (v.filter + 1) % 3
		v.applyFilter()
	}
	return v, nil
}

func (v TasksView) handleInputMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		v.mode = TasksModeNormal
		v.input.Blur()
		return v, nil

	case "enter":
		text := strings.TrimSpace(v.input.Value())
		mode := v.mode
		v.mode = TasksModeNormal
		v.input.Blur()
		if text == "" {
			return v, nil
		}
		if mode == TasksModeBreakDown {
			v.thinking = true
			assistant := v.assistant
			return v, tea.Batch(v.spinner.Tick, func() tea.Msg {
				return goalBrokenDownMsg{goal: text, steps: assistant.BreakDownGoal(aiCtx(), text)}
			})
		}
		draft := quickadd.Parse(text, v.store.Now())
		if draft.Title == "" {
			v.statusMsg = "A task needs a title"
			return v, nil
		}
		task := v.store.AddTask(draft)
		v.statusMsg = fmt.Sprintf("Added %q", task.Title)
		return v, v.loadTasks
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v TasksView) handleConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	v.mode = TasksModeNormal
	switch msg.String() {
	case "y", "Y":
		if task, ok := v.current(); ok && v.store.DeleteTask(task.ID) {
			v.statusMsg = fmt.Sprintf("Deleted %q", task.Title)
			return v, v.loadTasks
		}
	}
	return v, nil
}

// View renders the task list
func (v TasksView) View() string {
	if v.width == 0 || v.height == 0 {
		return "Loading..."
	}

	s := theme.Current.Styles
	t := theme.Current.Theme

	var b strings.Builder
	b.WriteString(renderTitle("Tasks") + " " + s.Label.Render("["+v.filter.String()+"]"))
	b.WriteString("\n")

	if v.mode == TasksModeAdd || v.mode == TasksModeBreakDown {
		b.WriteString(s.InputFocused.Render(v.input.View()))
		b.WriteString("\n")
	}
	if v.thinking {
		b.WriteString(v.spinner.View() + " " + lipgloss.NewStyle().Foreground(t.Info).Render("Breaking it down..."))
		b.WriteString("\n")
	}

	if len(v.tasks) == 0 {
		b.WriteString(renderEmpty("No tasks here. Press a to add one, or b to break down a goal."))
	}

	now := v.store.Now()
	end := min(v.offset+v.visibleCount(), len(v.tasks))
	for i := v.offset; i < end; i++ {
		task := v.tasks[i]
		line := checkbox(task.IsDone()) + " " + renderPriority(task.Priority) + " " + truncate(task.Title, v.width-30)
		if task.Status == model.StatusInProgress {
			line += " " + lipgloss.NewStyle().Foreground(t.StatusInProgress).Render("(in progress)")
		}
		for _, tag := range task.Tags {
			line += " " + s.Tag.Render("@"+tag)
		}
		if task.Deadline != nil && !task.IsDone() {
			due := quickadd.FormatDue(*task.Deadline, now)
			if task.Deadline.Before(now) {
				line += " " + s.TaskOverdue.Render(due)
			} else {
				line += " " + s.DueDate.Render(due)
			}
		}

		style := s.TaskNormal
		switch {
		case i == v.cursor:
			style = s.TaskSelected
		case task.IsDone():
			style = s.TaskDone
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}

	if v.mode == TasksModeConfirmDelete {
		if task, ok := v.current(); ok {
			b.WriteString(lipgloss.NewStyle().Foreground(t.Warning).Render(fmt.Sprintf("Delete %q? (y/n)", task.Title)))
			b.WriteString("\n")
		}
	}
	if v.statusMsg != "" {
		b.WriteString(renderStatus(v.statusMsg))
	}
	return b.String()
}

// Hints returns the footer key hints
func (v TasksView) Hints() []Hint {
	switch v.mode {
	case TasksModeAdd, TasksModeBreakDown:
		return []Hint{{"enter", "confirm"}, {"esc", "cancel"}}
	case TasksModeConfirmDelete:
		return []Hint{{"y", "delete"}, {"n", "keep"}}
	}
	return []Hint{{"a", "add"}, {"enter", "done"}, {"d", "del"}, {"b", "AI breakdown"}, {"f", "filter"}}
}
