package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dori/brainy/internal/model"
	"github.com/dori/brainy/internal/quickadd"
	"github.com/dori/brainy/internal/store"
	"github.com/dori/brainy/internal/ui/theme"
)

// LearningView is the student's reading and course list
type LearningView struct {
	store  *store.Store
	width  int
	height int

	resources []model.LearningResource
	cursor    int

	adding    bool
	input     textinput.Model
	statusMsg string
}

// NewLearningView creates a new learning view
func NewLearningView(s *store.Store) LearningView {
	ti := textinput.New()
	ti.Placeholder = "Title... (book, video or course)"
	ti.CharLimit = 256
	return LearningView{store: s, input: ti}
}

type learningLoadedMsg struct{ resources []model.LearningResource }

// Init loads resources
func (v LearningView) Init() tea.Cmd {
	return v.load
}

func (v LearningView) load() tea.Msg {
	return learningLoadedMsg{resources: v.store.Snapshot().LearningResources}
}

// SetSize sets the view dimensions
func (v LearningView) SetSize(width, height int) Screen {
	v.width = width
	v.height = height
	v.input.Width = width - 6
	return v
}

// IsInputMode returns true while adding
func (v LearningView) IsInputMode() bool {
	return v.adding
}

// Update handles messages
func (v LearningView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case learningLoadedMsg:
		v.resources = msg.resources
		v.cursor = moveCursor(v.cursor, 0, len(v.resources))
		return v, nil

	case tea.KeyMsg:
		if v.adding {
			switch msg.String() {
			case "esc":
				v.adding = false
				v.input.Blur()
				return v, nil
			case "enter":
				v.adding = false
				v.input.Blur()
				r := quickadd.ParseResource(v.input.Value())
				if r.Title == "" {
					return v, nil
				}
				r = v.store.AddLearningResource(r)
				v.statusMsg = fmt.Sprintf("Added %s %q", r.Type, r.Title)
				return v, v.load
			}
			var cmd tea.Cmd
			v.input, cmd = v.input.Update(msg)
			return v, cmd
		}

		v.statusMsg = ""
		switch msg.String() {
		case "j", "down":
			v.cursor = moveCursor(v.cursor, 1, len(v.resources))
		case "k", "up":
			v.cursor = moveCursor(v.cursor, -1, len(v.resources))
		case "a":
			v.adding = true
			v.input.SetValue("")
			cmd := v.input.Focus()
			return v, cmd
		}
	}
	return v, nil
}

func resourceIcon(t model.ResourceType) string {
	switch t {
	case model.ResourceVideo:
		return "▶"
	case model.ResourceCourse:
		return "🎓"
	default:
		return "📖"
	}
}

// View renders the resource list
func (v LearningView) View() string {
	if v.width == 0 || v.height == 0 {
		return "Loading..."
	}

	s := theme.Current.Styles
	t := theme.Current.Theme

	var sections []string
	sections = append(sections, renderTitle("Learning Center"))
	if v.adding {
		sections = append(sections, s.InputFocused.Render(v.input.View()))
	}
	if len(v.resources) == 0 {
		sections = append(sections, renderEmpty("Add your first learning resource to get started."))
	}

	for i, r := range v.resources {
		status := lipgloss.NewStyle().Foreground(t.StatusPending)
		switch r.Status {
		case model.ResourceLearning:
			status = status.Foreground(t.StatusInProgress)
		case model.ResourceCompleted:
			status = status.Foreground(t.StatusDone)
		}
		line := resourceIcon(r.Type) + " " + truncate(r.Title, v.width-30) + " " + status.Render(string(r.Status))
		if n := len(r.Flashcards); n > 0 {
			line += s.Label.Render(fmt.Sprintf(" %d cards", n))
		}
		style := s.TaskNormal
		if i == v.cursor {
			style = s.TaskSelected
		}
		sections = append(sections, style.Render(line))
	}

	if v.statusMsg != "" {
		sections = append(sections, "", renderStatus(v.statusMsg))
	}
	return strings.Join(sections, "\n")
}

// Hints returns the footer key hints
func (v LearningView) Hints() []Hint {
	if v.adding {
		return []Hint{{"enter", "add"}, {"esc", "cancel"}}
	}
	return []Hint{{"a", "add"}, {"j/k", "navigate"}}
}
