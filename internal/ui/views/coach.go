package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dori/brainy/internal/ai"
	"github.com/dori/brainy/internal/model"
	"github.com/dori/brainy/internal/store"
	"github.com/dori/brainy/internal/ui/theme"
)

const recentMoodCount = 5

// CoachView runs the daily energy check-in and shows the assistant's advice.
// It also hosts the automation drafts (email, study guide, plan).
type CoachView struct {
	store     *store.Store
	assistant *ai.Assistant
	width     int
	height    int

	energy int     // 1-10
	sleep  float64 // hours

	automating bool
	kind       ai.AutomationKind
	input      textinput.Model

	thinking bool
	spinner  spinner.Model
	heading  string
	output   string
	recent   []model.MoodLog
}

// NewCoachView creates a new coach view
func NewCoachView(s *store.Store, assistant *ai.Assistant) CoachView {
	ti := textinput.New()
	ti.CharLimit = 512
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return CoachView{
		store:     s,
		assistant: assistant,
		energy:    5,
		sleep:     7,
		input:     ti,
		spinner:   sp,
	}
}

type coachMoodsMsg struct{ recent []model.MoodLog }

type coachResultMsg struct {
	heading string
	text    string
}

// Init loads recent check-ins
func (v CoachView) Init() tea.Cmd {
	return v.loadMoods
}

func (v CoachView) loadMoods() tea.Msg {
	logs := v.store.Snapshot().MoodLogs
	return coachMoodsMsg{recent: logs[max(len(logs)-recentMoodCount, 0):]}
}

// SetSize sets the view dimensions
func (v CoachView) SetSize(width, height int) Screen {
	v.width = width
	v.height = height
	v.input.Width = width - 6
	return v
}

// IsInputMode returns true while typing automation details or waiting
func (v CoachView) IsInputMode() bool {
	return v.automating || v.thinking
}

func (v CoachView) checkIn() tea.Cmd {
	energy, sleep := v.energy, v.sleep
	v.store.LogMood(model.MoodNeutral, "Daily Check-in", &energy, &sleep)

	logs := v.store.Snapshot().MoodLogs
	var moods []model.Mood
	for _, l := range logs[max(len(logs)-recentMoodCount, 0):] {
		moods = append(moods, l.Mood)
	}
	persona := v.store.Preferences().Persona
	assistant := v.assistant
	return func() tea.Msg {
		return coachResultMsg{
			heading: "Your coach says",
			text:    assistant.LifeCoaching(aiCtx(), moods, energy, persona),
		}
	}
}

func (v CoachView) automate(kind ai.AutomationKind, details string) tea.Cmd {
	assistant := v.assistant
	return func() tea.Msg {
		return coachResultMsg{
			heading: "Draft: " + string(kind),
			text:    assistant.GenerateAutomation(aiCtx(), kind, details),
		}
	}
}

// Update handles messages
func (v CoachView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case coachMoodsMsg:
		v.recent = msg.recent
		return v, nil

	case coachResultMsg:
		v.thinking = false
		v.heading, v.output = msg.heading, msg.text
		return v, v.loadMoods

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
		if v.automating {
			switch msg.String() {
			case "esc":
				v.automating = false
				v.input.Blur()
				return v, nil
			case "enter":
				v.automating = false
				v.input.Blur()
				details := strings.TrimSpace(v.input.Value())
				if details == "" {
					return v, nil
				}
				v.thinking = true
				return v, tea.Batch(v.spinner.Tick, v.automate(v.kind, details))
			}
			var cmd tea.Cmd
			v.input, cmd = v.input.Update(msg)
			return v, cmd
		}

		switch msg.String() {
		case "+", "=":
			v.energy = min(v.energy+1, 10)
		case "-":
			v.energy = max(v.energy-1, 1)
		case "]":
			v.sleep = min(v.sleep+0.5, 14)
		case "[":
			v.sleep = max(v.sleep-0.5, 0)
		case "enter":
			v.thinking = true
			return v, tea.Batch(v.spinner.Tick, v.checkIn())
		case "e", "s", "p":
			v.kind = map[string]ai.AutomationKind{
				"e": ai.AutomationEmail,
				"s": ai.AutomationStudy,
				"p": ai.AutomationPlan,
			}[msg.String()]
			v.automating = true
			v.input.SetValue("")
			v.input.Placeholder = fmt.Sprintf("What should the %s be about?", v.kind)
			cmd := v.input.Focus()
			return v, cmd
		}
	}
	return v, nil
}

// View renders the coach screen
func (v CoachView) View() string {
	if v.width == 0 || v.height == 0 {
		return "Loading..."
	}

	s := theme.Current.Styles
	t := theme.Current.Theme

	var sections []string
	sections = append(sections, renderTitle("AI Coach"))

	fill := lipgloss.NewStyle().Foreground(t.Primary)
	empty := lipgloss.NewStyle().Foreground(t.Subtle)
	sections = append(sections,
		s.Label.Render(fmt.Sprintf("Energy %2d/10 ", v.energy))+renderBar(float64(v.energy)*10, 20, fill, empty),
		s.Label.Render(fmt.Sprintf("Sleep  %4.1fh ", v.sleep))+renderBar(v.sleep/10*100, 20, fill, empty),
	)

	if len(v.recent) > 0 {
		var moods []string
		for _, l := range v.recent {
			moods = append(moods, lipgloss.NewStyle().Foreground(t.MoodColor(l.Mood)).Render(moodIcon(l.Mood)))
		}
		sections = append(sections, s.Label.Render("Recent moods: ")+strings.Join(moods, " "))
	}

	if v.automating {
		sections = append(sections, "", s.InputFocused.Render(v.input.View()))
	}
	if v.thinking {
		sections = append(sections, "", v.spinner.View()+" "+lipgloss.NewStyle().Foreground(t.Info).Render("Thinking..."))
	}
	if v.output != "" {
		sections = append(sections, "", s.PanelTitle.Render(v.heading))
		sections = append(sections, lipgloss.NewStyle().Width(max(v.width-4, 10)).Render(v.output))
	}
	if !v.assistant.Online() {
		sections = append(sections, "", renderEmpty("Offline mode: set GEMINI_API_KEY for live advice."))
	}
	return strings.Join(sections, "\n")
}

// Hints returns the footer key hints
func (v CoachView) Hints() []Hint {
	if v.automating {
		return []Hint{{"enter", "generate"}, {"esc", "cancel"}}
	}
	return []Hint{{"+/-", "energy"}, {"[/]", "sleep"}, {"enter", "check in"}, {"e/s/p", "email/study/plan"}}
}
