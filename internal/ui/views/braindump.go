package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dori/brainy/internal/ai"
	"github.com/dori/brainy/internal/model"
	"github.com/dori/brainy/internal/store"
	"github.com/dori/brainy/internal/ui/theme"
)

// BrainDumpView captures free text and hands it to the assistant for triage
type BrainDumpView struct {
	store     *store.Store
	assistant *ai.Assistant
	width     int
	height    int

	input     textarea.Model
	spinner   spinner.Model
	editing   bool
	analyzing bool

	last    *model.BrainDumpEntry
	history []model.BrainDumpEntry

	statusMsg string
}

// NewBrainDumpView creates a new brain dump view
func NewBrainDumpView(s *store.Store, assistant *ai.Assistant) BrainDumpView {
	ta := textarea.New()
	ta.Placeholder = "Empty your head here. Worries, ideas, errands..."
	ta.ShowLineNumbers = false
	ta.CharLimit = 4000

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return BrainDumpView{
		store:     s,
		assistant: assistant,
		input:     ta,
		spinner:   sp,
	}
}

type brainDumpAnalyzedMsg struct {
	content string
	result  ai.BrainDumpResult
}

type brainDumpLoadedMsg struct {
	history []model.BrainDumpEntry
}

// Init loads past dumps
func (v BrainDumpView) Init() tea.Cmd {
	s := v.store
	return func() tea.Msg {
		return brainDumpLoadedMsg{history: s.Snapshot().BrainDumps}
	}
}

// SetSize sets the view dimensions
func (v BrainDumpView) SetSize(width, height int) Screen {
	v.width = width
	v.height = height
	v.input.SetWidth(max(width-4, 10))
	v.input.SetHeight(max(min(height/3, 10), 3))
	return v
}

// IsInputMode is true while typing or waiting on the assistant
func (v BrainDumpView) IsInputMode() bool {
	return v.editing || v.analyzing
}

func (v BrainDumpView) analyze(content string) tea.Cmd {
	style := v.store.Preferences().CoachingStyle
	assistant := v.assistant
	return func() tea.Msg {
		return brainDumpAnalyzedMsg{
			content: content,
			result:  assistant.AnalyzeBrainDump(aiCtx(), content, style),
		}
	}
}

// Update handles messages
func (v BrainDumpView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case brainDumpLoadedMsg:
		v.history = msg.history
		return v, nil

	case brainDumpAnalyzedMsg:
		v.analyzing = false
		entry := v.store.AddBrainDump(msg.content, msg.result.Summary, msg.result.Tasks)
		v.last = &entry
		v.history = v.store.Snapshot().BrainDumps
		v.statusMsg = fmt.Sprintf("Added %d task(s). Next step: %s", len(entry.ExtractedTasks), msg.result.NextStep)
		return v, nil

	case spinner.TickMsg:
		if !v.analyzing {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd

	case tea.KeyMsg:
		if v.analyzing {
			return v, nil
		}
		if v.editing {
			switch msg.String() {
			case "esc":
				v.editing = false
				v.input.Blur()
				return v, nil
			case "ctrl+s":
				content := strings.TrimSpace(v.input.Value())
				if content == "" {
					v.statusMsg = "Write something first."
					return v, nil
				}
				v.editing = false
				v.analyzing = true
				v.input.Blur()
				v.input.Reset()
				v.statusMsg = ""
				return v, tea.Batch(v.spinner.Tick, v.analyze(content))
			}
			var cmd tea.Cmd
			v.input, cmd = v.input.Update(msg)
			return v, cmd
		}

		switch msg.String() {
		case "a", "i", "enter":
			v.editing = true
			v.statusMsg = ""
			cmd := v.input.Focus()
			return v, cmd
		}
	}
	return v, nil
}

// View renders the brain dump screen
func (v BrainDumpView) View() string {
	if v.width == 0 || v.height == 0 {
		return "Loading..."
	}

	s := theme.Current.Styles
	t := theme.Current.Theme

	var sections []string
	sections = append(sections, renderTitle("Brain Dump"))

	inputStyle := s.Input
	if v.editing {
		inputStyle = s.InputFocused
	}
	sections = append(sections, inputStyle.Render(v.input.View()))

	if v.analyzing {
		sections = append(sections, v.spinner.View()+" "+
			lipgloss.NewStyle().Foreground(t.Info).Render("Untangling your thoughts..."))
	}

	if v.last != nil {
		sections = append(sections, "", s.PanelTitle.Render("Brainy says"))
		sections = append(sections, lipgloss.NewStyle().Foreground(t.Foreground).Width(max(v.width-4, 10)).Render(v.last.AISummary))
		for _, task := range v.last.ExtractedTasks {
			sections = append(sections, "  "+renderPriority(task.Priority)+" "+task.Title)
		}
	}

	if v.statusMsg != "" {
		sections = append(sections, "", renderStatus(v.statusMsg))
	}

	if len(v.history) > 0 && !v.editing {
		sections = append(sections, "", s.PanelTitle.Render("Earlier dumps"))
		for i, entry := range v.history {
			if i == 5 {
				break
			}
			line := s.Label.Render(entry.CreatedAt.Format("Jan 2 15:04")) + " " +
				truncate(strings.ReplaceAll(entry.Content, "\n", " "), v.width-20)
			sections = append(sections, line)
		}
	}

	return strings.Join(sections, "\n")
}

// Hints returns the footer key hints
func (v BrainDumpView) Hints() []Hint {
	switch {
	case v.analyzing:
		return []Hint{{"…", "thinking"}}
	case v.editing:
		return []Hint{{"ctrl+s", "analyze"}, {"esc", "stop typing"}}
	}
	return []Hint{{"a/enter", "write"}}
}
