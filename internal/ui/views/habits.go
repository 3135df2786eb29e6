package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dori/brainy/internal/gamify"
	"github.com/dori/brainy/internal/model"
	"github.com/dori/brainy/internal/quickadd"
	"github.com/dori/brainy/internal/store"
	"github.com/dori/brainy/internal/ui/theme"
)

// HabitsView shows habits with a week of history and toggles today
type HabitsView struct {
	store  *store.Store
	width  int
	height int

	habits []model.Habit
	cursor int

	adding    bool
	confirm   bool
	input     textinput.Model
	statusMsg string
}

// NewHabitsView creates a new habits view
func NewHabitsView(s *store.Store) HabitsView {
	ti := textinput.New()
	ti.Placeholder = "New habit... (#health #learning #productivity #mindfulness, weekly)"
	ti.CharLimit = 128
	return HabitsView{store: s, input: ti}
}

type habitsLoadedMsg struct {
	habits []model.Habit
}

// Init loads habits
func (v HabitsView) Init() tea.Cmd {
	return v.load
}

func (v HabitsView) load() tea.Msg {
	return habitsLoadedMsg{habits: v.store.Snapshot().Habits}
}

// SetSize sets the view dimensions
func (v HabitsView) SetSize(width, height int) Screen {
	v.width = width
	v.height = height
	v.input.Width = width - 6
	return v
}

// IsInputMode returns true while adding or confirming
func (v HabitsView) IsInputMode() bool {
	return v.adding || v.confirm
}

// Update handles messages
func (v HabitsView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case habitsLoadedMsg:
		v.habits = msg.habits
		v.cursor = moveCursor(v.cursor, 0, len(v.habits))
		return v, nil

	case tea.KeyMsg:
		if v.confirm {
			v.confirm = false
			if msg.String() == "y" && len(v.habits) > 0 {
				h := v.habits[v.cursor]
				v.store.DeleteHabit(h.ID)
				v.statusMsg = fmt.Sprintf("Deleted %q", h.Title)
				return v, v.load
			}
			return v, nil
		}

		if v.adding {
			switch msg.String() {
			case "esc":
				v.adding = false
				v.input.Blur()
				return v, nil
			case "enter":
				v.adding = false
				v.input.Blur()
				title, freq, category := quickadd.ParseHabit(v.input.Value())
				if title == "" {
					return v, nil
				}
				h := v.store.AddHabit(title, freq, category)
				v.statusMsg = fmt.Sprintf("Added %q", h.Title)
				return v, v.load
			}
			var cmd tea.Cmd
			v.input, cmd = v.input.Update(msg)
			return v, cmd
		}

		v.statusMsg = ""
		switch msg.String() {
		case "j", "down":
			v.cursor = moveCursor(v.cursor, 1, len(v.habits))
		case "k", "up":
			v.cursor = moveCursor(v.cursor, -1, len(v.habits))
		case "a":
			v.adding = true
			v.input.SetValue("")
			cmd := v.input.Focus()
			return v, cmd
		case "d":
			if len(v.habits) > 0 {
				v.confirm = true
			}
		case "enter", " ", "tab":
			if len(v.habits) == 0 {
				return v, nil
			}
			h, ok := v.store.ToggleHabitCompletion(v.habits[v.cursor].ID, v.store.Today())
			if ok && h.IsCompletedOn(v.store.Today()) {
				v.statusMsg = fmt.Sprintf("%s: streak %d. +%d XP", h.Title, h.Streak, gamify.XPHabitMarked)
			}
			return v, v.load
		}
	}
	return v, nil
}

// View renders the habit list
func (v HabitsView) View() string {
	if v.width == 0 || v.height == 0 {
		return "Loading..."
	}

	s := theme.Current.Styles
	t := theme.Current.Theme
	now := v.store.Now()

	var sections []string
	sections = append(sections, renderTitle("Habits"))
	if v.adding {
		sections = append(sections, s.InputFocused.Render(v.input.View()))
	}
	if len(v.habits) == 0 {
		sections = append(sections, renderEmpty("No habits yet. Press a to start one."))
	}

	// week header, oldest first
	var days []string
	for i := 6; i >= 0; i-- {
		days = append(days, now.AddDate(0, 0, -i).Format(model.DateLayout))
	}
	doneStyle := lipgloss.NewStyle().Foreground(t.Success)
	missStyle := lipgloss.NewStyle().Foreground(t.Subtle)

	for i, h := range v.habits {
		var week strings.Builder
		for _, d := range days {
			if h.IsCompletedOn(d) {
				week.WriteString(doneStyle.Render("●"))
			} else {
				week.WriteString(missStyle.Render("○"))
			}
		}
		line := fmt.Sprintf("%s %-*s %s %s %s",
			checkbox(h.IsCompletedOn(v.store.Today())),
			max(v.width-50, 10), truncate(h.Title, max(v.width-50, 10)),
			week.String(),
			s.Label.Render(fmt.Sprintf("%d🔥", h.Streak)),
			s.Tag.Render(string(h.Category)))
		if h.Frequency == model.FrequencyWeekly {
			line += s.Label.Render(" weekly")
		}
		style := s.TaskNormal
		if i == v.cursor {
			style = s.TaskSelected
		}
		sections = append(sections, style.Render(line))
	}

	if v.confirm && len(v.habits) > 0 {
		sections = append(sections, lipgloss.NewStyle().Foreground(t.Warning).
			Render(fmt.Sprintf("Delete %q? (y/n)", v.habits[v.cursor].Title)))
	}
	if v.statusMsg != "" {
		sections = append(sections, "", renderStatus(v.statusMsg))
	}
	sections = append(sections, "", s.Label.Render("Week: "+weekdayInitials(now)))
	return strings.Join(sections, "\n")
}

func weekdayInitials(now time.Time) string {
	var b strings.Builder
	for i := 6; i >= 0; i-- {
		b.WriteString(now.AddDate(0, 0, -i).Weekday().String()[:1])
	}
	return b.String()
}

// Hints returns the footer key hints
func (v HabitsView) Hints() []Hint {
	if v.adding {
		return []Hint{{"enter", "add"}, {"esc", "cancel"}}
	}
	if v.confirm {
		return []Hint{{"y", "delete"}, {"n", "keep"}}
	}
	return []Hint{{"a", "add"}, {"enter", "done today"}, {"d", "del"}, {"j/k", "navigate"}}
}
