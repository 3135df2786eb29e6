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

// goalRow is one line of the flattened goal tree. milestone is -1 for the
// goal header.
type goalRow struct {
	goal      int
	milestone int
}

// GoalsView shows goals with their milestones and toggles them
type GoalsView struct {
	store     *store.Store
	assistant *ai.Assistant
	width     int
	height    int

	goals  []model.Goal
	rows   []goalRow
	cursor int

	adding    bool
	planning  bool // AI supplies the milestones
	thinking  bool
	confirm   bool
	input     textinput.Model
	spinner   spinner.Model
	statusMsg string
}

// NewGoalsView creates a new goals view
func NewGoalsView(s *store.Store, assistant *ai.Assistant) GoalsView {
	ti := textinput.New()
	ti.CharLimit = 256
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return GoalsView{store: s, assistant: assistant, input: ti, spinner: sp}
}

type goalsLoadedMsg struct {
	goals []model.Goal
}

type goalPlannedMsg struct {
	goal model.Goal
}

// Init loads goals
func (v GoalsView) Init() tea.Cmd {
	return v.load
}

func (v GoalsView) load() tea.Msg {
	return goalsLoadedMsg{goals: v.store.Snapshot().Goals}
}

// SetSize sets the view dimensions
func (v GoalsView) SetSize(width, height int) Screen {
	v.width = width
	v.height = height
	v.input.Width = width - 6
	return v
}

// IsInputMode returns true while typing, confirming or waiting on the assistant
func (v GoalsView) IsInputMode() bool {
	return v.adding || v.confirm || v.thinking
}

func (v *GoalsView) flatten() {
	v.rows = v.rows[:0:0]
	for gi, g := range v.goals {
		v.rows = append(v.rows, goalRow{goal: gi, milestone: -1})
		for mi := range g.Milestones {
			v.rows = append(v.rows, goalRow{goal: gi, milestone: mi})
		}
	}
	v.cursor = moveCursor(v.cursor, 0, len(v.rows))
}

func (v GoalsView) plan(title string) tea.Cmd {
	assistant := v.assistant
	return func() tea.Msg {
		g := model.Goal{Title: title}
		for _, step := range assistant.BreakDownGoal(aiCtx(), title) {
			g.Milestones = append(g.Milestones, model.Milestone{Title: step.Title})
		}
		return goalPlannedMsg{goal: g}
	}
}

// Update handles messages
func (v GoalsView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case goalsLoadedMsg:
		v.goals = msg.goals
		v.flatten()
		return v, nil

	case goalPlannedMsg:
		v.thinking = false
		g := v.store.AddGoal(msg.goal)
		v.statusMsg = fmt.Sprintf("Planned %q with %d milestones", g.Title, len(g.Milestones))
		return v, v.load

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
		if v.confirm {
			v.confirm = false
			if msg.String() == "y" && len(v.rows) > 0 {
				g := v.goals[v.rows[v.cursor].goal]
				v.store.DeleteGoal(g.ID)
				v.statusMsg = fmt.Sprintf("Deleted %q", g.Title)
				return v, v.load
			}
			return v, nil
		}
		if v.adding {
			return v.handleInput(msg)
		}

		v.statusMsg = ""
		switch msg.String() {
		case "j", "down":
			v.cursor = moveCursor(v.cursor, 1, len(v.rows))
		case "k", "up":
			v.cursor = moveCursor(v.cursor, -1, len(v.rows))
		case "a":
			v.adding, v.planning = true, false
			v.input.SetValue("")
			v.input.Placeholder = "Goal: milestone one; milestone two"
			cmd := v.input.Focus()
			return v, cmd
		case "b":
			v.adding, v.planning = true, true
			v.input.SetValue("")
			v.input.Placeholder = "A goal for Brainy to plan..."
			cmd := v.input.Focus()
			return v, cmd
		case "d":
			if len(v.rows) > 0 {
				v.confirm = true
			}
		case "enter", " ", "tab":
			if len(v.rows) == 0 {
				return v, nil
			}
			row := v.rows[v.cursor]
			if row.milestone < 0 {
				return v, nil
			}
			g := v.goals[row.goal]
			updated, ok := v.store.ToggleGoalMilestone(g.ID, g.Milestones[row.milestone].ID)
			if ok && updated.Progress > g.Progress {
				v.statusMsg = fmt.Sprintf("%s: %d%%. +%d XP", updated.Title, updated.Progress, gamify.XPMilestoneCompleted)
			}
			return v, v.load
		}
	}
	return v, nil
}

func (v GoalsView) handleInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		v.adding = false
		v.input.Blur()
		return v, nil
	case "enter":
		v.adding = false
		v.input.Blur()
		text := strings.TrimSpace(v.input.Value())
		if text == "" {
			return v, nil
		}
		if v.planning {
			v.thinking = true
			return v, tea.Batch(v.spinner.Tick, v.plan(text))
		}
		draft := quickadd.ParseGoal(text)
		if draft.Title == "" {
			return v, nil
		}
		g := v.store.AddGoal(draft)
		v.statusMsg = fmt.Sprintf("Added %q", g.Title)
		return v, v.load
	}
	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// View renders goals and milestones
func (v GoalsView) View() string {
	if v.width == 0 || v.height == 0 {
		return "Loading..."
	}

	s := theme.Current.Styles
	t := theme.Current.Theme

	var sections []string
	sections = append(sections, renderTitle("Goals"))
	if v.adding {
		sections = append(sections, s.InputFocused.Render(v.input.View()))
	}
	if v.thinking {
		sections = append(sections, v.spinner.View()+" "+lipgloss.NewStyle().Foreground(t.Info).Render("Planning milestones..."))
	}
	if len(v.goals) == 0 {
		sections = append(sections, renderEmpty("Turn dreams into milestones. Press a to add a goal."))
	}

	fill := lipgloss.NewStyle().Foreground(t.Success)
	empty := lipgloss.NewStyle().Foreground(t.Subtle)
	for i, row := range v.rows {
		g := v.goals[row.goal]
		var line string
		if row.milestone < 0 {
			line = lipgloss.NewStyle().Bold(true).Foreground(t.Primary).Render(truncate(g.Title, v.width-40)) + " " +
				renderBar(float64(g.Progress), 20, fill, empty) +
				s.Label.Render(fmt.Sprintf(" %d%% (%d/%d)", g.Progress, g.CompletedCount(), len(g.Milestones)))
		} else {
			m := g.Milestones[row.milestone]
			line = "    " + checkbox(m.Completed) + " " + truncate(m.Title, v.width-12)
		}

		style := s.TaskNormal
		switch {
		case i == v.cursor:
			style = s.TaskSelected
		case row.milestone >= 0 && g.Milestones[row.milestone].Completed:
			style = s.TaskDone
		}
		sections = append(sections, style.Render(line))
	}

	if v.confirm && len(v.rows) > 0 {
		sections = append(sections, lipgloss.NewStyle().Foreground(t.Warning).
			Render(fmt.Sprintf("Delete goal %q? (y/n)", v.goals[v.rows[v.cursor].goal].Title)))
	}
	if v.statusMsg != "" {
		sections = append(sections, "", renderStatus(v.statusMsg))
	}
	return strings.Join(sections, "\n")
}

// Hints returns the footer key hints
func (v GoalsView) Hints() []Hint {
	switch {
	case v.adding:
		return []Hint{{"enter", "add"}, {"esc", "cancel"}}
	case v.confirm:
		return []Hint{{"y", "delete"}, {"n", "keep"}}
	}
	return []Hint{{"a", "add"}, {"b", "AI plan"}, {"enter", "toggle milestone"}, {"d", "del goal"}}
}
