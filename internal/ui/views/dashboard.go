package views

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dori/brainy/internal/auth"
	"github.com/dori/brainy/internal/model"
	"github.com/dori/brainy/internal/quickadd"
	"github.com/dori/brainy/internal/store"
	"github.com/dori/brainy/internal/ui/theme"
)

// DashboardView is the home screen: greeting, level, today's numbers and
// the mood check-in.
type DashboardView struct {
	store  *store.Store
	auth   *auth.Store
	width  int
	height int

	summary store.Summary
	stats   model.Stats

	pickingMood bool
	statusMsg   string
}

// NewDashboardView creates a new dashboard view
func NewDashboardView(s *store.Store, a *auth.Store) DashboardView {
	return DashboardView{store: s, auth: a}
}

type dashboardRefreshMsg struct{}

// Init reloads the summary
func (v DashboardView) Init() tea.Cmd {
	return func() tea.Msg { return dashboardRefreshMsg{} }
}

// SetSize sets the view dimensions
func (v DashboardView) SetSize(width, height int) Screen {
	v.width = width
	v.height = height
	return v
}

// IsInputMode is true while choosing a mood
func (v DashboardView) IsInputMode() bool {
	return v.pickingMood
}

func (v *DashboardView) refresh() {
	v.summary = v.store.Summary()
	v.stats = v.store.Stats()
}

// Update handles messages
func (v DashboardView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardRefreshMsg:
		v.refresh()
		return v, nil

	case tea.KeyMsg:
		if v.pickingMood {
			return v.handleMoodKey(msg)
		}
		switch msg.String() {
		case "m":
			v.pickingMood = true
			v.statusMsg = ""
		case "p":
			persona := nextPersona(v.store.Preferences().Persona)
			v.store.UpdatePreferences(model.PreferencesPatch{Persona: &persona})
			v.statusMsg = fmt.Sprintf("Persona: %s", persona)
		case "r":
			v.refresh()
		}
	}
	return v, nil
}

var personas = []model.Persona{
	model.PersonaGeneral,
	model.PersonaStudent,
	model.PersonaCreator,
	model.PersonaHustler,
	model.PersonaCalm,
}

func nextPersona(p model.Persona) model.Persona {
	for i, known := range personas {
		if known == p {
			return personas[(i+1)%len(personas)]
		}
	}
	return model.PersonaGeneral
}

func (v DashboardView) handleMoodKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch k := msg.String(); k {
	case "esc":
		v.pickingMood = false
	case "1", "2", "3", "4", "5":
		mood := model.Moods[int(k[0]-'1')]
		v.store.LogMood(mood, "", nil, nil)
		v.pickingMood = false
		v.statusMsg = fmt.Sprintf("Logged %s %s. Thanks for checking in.", moodIcon(mood), mood)
		v.refresh()
	}
	return v, nil
}

// greeting picks the salutation for the hour of day
func greeting(hour int) string {
	switch {
	case hour < 12:
		return "Good morning"
	case hour < 18:
		return "Good afternoon"
	default:
		return "Good evening"
	}
}

func (v DashboardView) firstName() string {
	name := ""
	if u, ok := v.auth.User(); ok {
		name = u.Name
	}
	if name == "" {
		name = v.store.Preferences().Name
	}
	if f := strings.Fields(name); len(f) > 0 {
		return f[0]
	}
	return "Friend"
}

// View renders the dashboard
func (v DashboardView) View() string {
	if v.width == 0 || v.height == 0 {
		return "Loading..."
	}

	s := theme.Current.Styles
	t := theme.Current.Theme
	now := v.store.Now()
	sum := v.summary

	var sections []string
	sections = append(sections, renderTitle(fmt.Sprintf("%s, %s.", greeting(now.Hour()), v.firstName())))
	sections = append(sections, renderXP(v.stats, v.width))

	stat := func(label string, value string) string {
		return s.Label.Render(label+" ") + lipgloss.NewStyle().Foreground(t.Foreground).Bold(true).Render(value)
	}
	row := []string{
		stat("Pending", fmt.Sprint(sum.Pending)),
		stat("Done", fmt.Sprint(sum.Done)),
		stat("Habits today", fmt.Sprintf("%d/%d", sum.HabitsToday, sum.HabitsTotal)),
		stat("Goals reached", fmt.Sprint(sum.GoalsCompleted)),
		stat("Focus sessions", fmt.Sprint(sum.FocusStreak)),
	}
	sections = append(sections, "", strings.Join(row, "   "))
	if sum.NetIncome != 0 {
		sections = append(sections, stat("Net income", fmt.Sprintf("%.2f", sum.NetIncome)))
	}

	sections = append(sections, "", s.PanelTitle.Render("High priority"))
	if len(sum.UpcomingHigh) == 0 {
		sections = append(sections, renderEmpty("Nothing urgent. Enjoy the calm."))
	}
	for i, task := range sum.UpcomingHigh {
		if i == 5 {
			sections = append(sections, s.Label.Render(fmt.Sprintf("  …and %d more", len(sum.UpcomingHigh)-5)))
			break
		}
		line := renderPriority(task.Priority) + " " + truncate(task.Title, v.width-20)
		if task.Deadline != nil {
			line += " " + s.DueDate.Render(quickadd.FormatDue(*task.Deadline, now))
		}
		sections = append(sections, line)
	}

	sections = append(sections, "", s.PanelTitle.Render("How are you feeling?"))
	sections = append(sections, v.renderMood())

	if v.statusMsg != "" {
		sections = append(sections, "", renderStatus(v.statusMsg))
	}
	return strings.Join(sections, "\n")
}

func (v DashboardView) renderMood() string {
	t := theme.Current.Theme
	if v.pickingMood {
		var opts []string
		for i, m := range model.Moods {
			opts = append(opts, lipgloss.NewStyle().Foreground(t.MoodColor(m)).
				Render(fmt.Sprintf("%d %s %s", i+1, moodIcon(m), m)))
		}
		return strings.Join(opts, "  ")
	}
	if latest := v.summary.LatestMood; latest != nil {
		return lipgloss.NewStyle().Foreground(t.MoodColor(latest.Mood)).
			Render(fmt.Sprintf("Last check-in: %s %s", moodIcon(latest.Mood), latest.Mood)) +
			renderEmpty(" (press m to check in)")
	}
	return renderEmpty("No check-ins yet. Press m.")
}

// Hints returns the footer key hints
func (v DashboardView) Hints() []Hint {
	if v.pickingMood {
		return []Hint{{"1-5", "pick mood"}, {"esc", "cancel"}}
	}
	return []Hint{{"m", "mood check-in"}, {"p", "persona"}, {"r", "refresh"}}
}
