package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/dori/brainy/internal/app"
	"github.com/dori/brainy/internal/ui/theme"
	"github.com/dori/brainy/internal/ui/views"
)

// RootModel is the main application model that manages views
type RootModel struct {
	app    *app.App
	keys   KeyMap
	help   help.Model
	width  int
	height int

	currentView View
	screens     map[View]views.Screen
	helpVisible bool

	statusMsg string
}

// NewRootModel creates a new root model. The configured theme and start
// view are applied here; an unknown start view or one the persona cannot
// reach opens the dashboard.
func NewRootModel(application *app.App) RootModel {
	h := help.New()
	h.ShowAll = false

	if t, ok := theme.ByName(application.Config.UI.Theme); ok {
		theme.SetTheme(t)
	}

	s, assistant := application.Store, application.Assistant
	m := RootModel{
		app:  application,
		keys: DefaultKeyMap(),
		help: h,
		screens: map[View]views.Screen{
			ViewDashboard: views.NewDashboardView(s, application.Auth),
			ViewBrainDump: views.NewBrainDumpView(s, assistant),
			ViewTasks:     views.NewTasksView(s, assistant),
			ViewHabits:    views.NewHabitsView(s),
			ViewGoals:     views.NewGoalsView(s, assistant),
			ViewFocus:     views.NewFocusView(s, application.Notifier, application.Log),
			ViewCoach:     views.NewCoachView(s, assistant),
			ViewMoney:     views.NewMoneyView(s, assistant),
			ViewLearning:  views.NewLearningView(s),
		},
	}

	m.currentView = ViewDashboard
	start := ParseView(application.Config.UI.StartView)
	for _, v := range m.navigation() {
		if v == start {
			m.currentView = start
		}
	}
	return m
}

func (m RootModel) navigation() []View {
	return Navigation(m.app.Store.Preferences().Persona)
}

func (m RootModel) current() views.Screen {
	return m.screens[m.currentView]
}

// Init initializes the model
func (m RootModel) Init() tea.Cmd {
	return m.current().Init()
}

func (m *RootModel) switchTo(v View) tea.Cmd {
	if v == m.currentView {
		return nil
	}
	m.currentView = v
	m.app.Log.Debug(context.Background(), "switch view", zap.Stringer("view", v))
	return m.current().Init()
}

// step moves delta places along the navigation list, wrapping around
func (m *RootModel) step(delta int) tea.Cmd {
	nav := m.navigation()
	idx := 0
	for i, v := range nav {
		if v == m.currentView {
			idx = i
		}
	}
	return m.switchTo(nav[(idx+delta+len(nav))%len(nav)])
}

// Update handles messages
func (m RootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

		// Reserve space for header (1 line) and footer (2 lines)
		contentHeight := m.height - 4
		for v, s := range m.screens {
			m.screens[v] = s.SetSize(m.width, contentHeight)
		}
		return m, nil

	case tea.KeyMsg:
		m.statusMsg = ""
		isInputMode := m.current().IsInputMode()

		switch {
		case key.Matches(msg, m.keys.Quit):
			// ctrl+c always quits, but 'q' only quits when not in input mode
			if msg.String() == "ctrl+c" || !isInputMode {
				return m, tea.Quit
			}
		case key.Matches(msg, m.keys.ThemeCycle):
			m.cycleTheme()
			return m, nil
		}

		if isInputMode {
			break
		}

		switch {
		case key.Matches(msg, m.keys.Help):
			m.helpVisible = !m.helpVisible
			m.help.ShowAll = m.helpVisible
			return m, nil
		case m.helpVisible && key.Matches(msg, m.keys.Back):
			m.helpVisible = false
			return m, nil
		case key.Matches(msg, m.keys.NextView):
			cmd := m.step(1)
			return m, cmd
		case key.Matches(msg, m.keys.PrevView):
			cmd := m.step(-1)
			return m, cmd
		case key.Matches(msg, m.keys.GoTo):
			nav := m.navigation()
			if i := int(msg.String()[0] - '1'); i < len(nav) {
				cmd := m.switchTo(nav[i])
				return m, cmd
			}
			return m, nil
		}

	case StatusMsg:
		m.statusMsg = msg.Message
		return m, nil

	case ThemeChangedMsg:
		m.statusMsg = fmt.Sprintf("Theme: %s", msg.ThemeName)
		return m, nil
	}

	// Keys go to the visible view. Everything else is broadcast so async
	// results and timers reach their view even after the user moved on.
	if _, ok := msg.(tea.KeyMsg); ok {
		updated, cmd := m.current().Update(msg)
		m.screens[m.currentView] = updated.(views.Screen)
		return m, cmd
	}
	var cmds []tea.Cmd
	for v, s := range m.screens {
		updated, cmd := s.Update(msg)
		m.screens[v] = updated.(views.Screen)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// View renders the UI
func (m RootModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	contentHeight := m.height - 4
	if m.statusMsg != "" {
		contentHeight--
	}

	var content string
	if m.helpVisible {
		content = m.renderHelp()
	} else {
		content = m.current().View()
	}

	contentLines := strings.Count(content, "\n") + 1
	if contentLines < contentHeight {
		content += strings.Repeat("\n", contentHeight-contentLines)
	}

	return strings.Join([]string{m.renderHeader(), content, m.renderFooter()}, "\n")
}

// renderHeader renders the tab bar
func (m RootModel) renderHeader() string {
	styles := theme.Current.Styles
	t := theme.Current.Theme

	title := styles.Header.Render("brainy")

	tab := lipgloss.NewStyle().Foreground(t.Subtle).Padding(0, 1)
	active := lipgloss.NewStyle().Foreground(t.Primary).Bold(true).Underline(true).Padding(0, 1)

	var tabs []string
	for i, v := range m.navigation() {
		label := fmt.Sprintf("%d %s", i+1, v)
		if v == m.currentView {
			tabs = append(tabs, active.Render(label))
		} else {
			tabs = append(tabs, tab.Render(label))
		}
	}

	stats := m.app.Store.Stats()
	right := styles.Level.Render(fmt.Sprintf("Lv %d · %d XP", stats.Level, stats.XP))

	left := lipgloss.JoinHorizontal(lipgloss.Center, append([]string{title}, tabs...)...)
	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 0)
	return left + strings.Repeat(" ", gap) + right
}

// renderFooter renders the status line and key hints
func (m RootModel) renderFooter() string {
	styles := theme.Current.Styles
	t := theme.Current.Theme

	hint := func(k, desc string) string {
		return styles.HelpKey.Render(k) + styles.HelpDesc.Render(" "+desc)
	}
	sep := styles.HelpSeparator.Render(" │ ")

	var lines []string
	if m.statusMsg != "" {
		lines = append(lines, lipgloss.NewStyle().Foreground(t.Info).Render(m.statusMsg))
	}

	var viewHints []string
	for _, h := range m.current().Hints() {
		viewHints = append(viewHints, hint(h.Key, h.Desc))
	}
	lines = append(lines, strings.Join(viewHints, sep))

	if !m.current().IsInputMode() {
		lines = append(lines, hint("1-9/h/l", "views")+sep+
			hint("ctrl+t", "theme")+sep+
			hint("?", "help")+sep+
			hint("q", "quit"))
	}
	return strings.Join(lines, "\n")
}

// renderHelp renders the help overlay
func (m RootModel) renderHelp() string {
	t := theme.Current.Theme

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(t.Primary).MarginBottom(1)
	sectionStyle := lipgloss.NewStyle().Bold(true).Foreground(t.Secondary).MarginTop(1)
	keyStyle := lipgloss.NewStyle().Foreground(t.Foreground).Bold(true).Width(12)
	descStyle := lipgloss.NewStyle().Foreground(t.Subtle)

	var b strings.Builder
	b.WriteString(titleStyle.Render("Brainy Help"))
	b.WriteString("\n")

	section := func(name string, rows [][2]string) {
		b.WriteString(sectionStyle.Render(name))
		b.WriteString("\n")
		for _, kv := range rows {
			b.WriteString(keyStyle.Render(kv[0]))
			b.WriteString(descStyle.Render(kv[1]))
			b.WriteString("\n")
		}
	}

	var nav [][2]string
	for i, v := range m.navigation() {
		nav = append(nav, [2]string{fmt.Sprint(i + 1), v.String()})
	}
	nav = append(nav, [2]string{"h / l", "Previous / next view"})
	section("Views", nav)

	var here [][2]string
	for _, h := range m.current().Hints() {
		here = append(here, [2]string{h.Key, h.Desc})
	}
	section(m.currentView.String(), here)

	section("System", [][2]string{
		{"ctrl+t", "Cycle theme"},
		{"?", "Toggle this help"},
		{"q / ctrl+c", "Quit"},
	})

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n\n")
	b.WriteString(descStyle.Render("Press ? or esc to close"))
	return b.String()
}

// cycleTheme cycles through available themes
func (m *RootModel) cycleTheme() {
	themes := theme.Available()
	current := theme.Current.Theme.Name

	for i, t := range themes {
		if t.Name == current {
			next := themes[(i+1)%len(themes)]
			theme.SetTheme(next)
			m.statusMsg = fmt.Sprintf("Theme: %s", next.Name)
			return
		}
	}
}
