package ui

import (
	"slices"
	"strings"

	"github.com/dori/brainy/internal/model"
)

// View represents the current active view
type View int

const (
	ViewDashboard View = iota
	ViewBrainDump
	ViewTasks
	ViewHabits
	ViewGoals
	ViewFocus
	ViewCoach
	ViewMoney
	ViewLearning
)

// String returns the display name for a view
func (v View) String() string {
	switch v {
	case ViewDashboard:
		return "Dashboard"
	case ViewBrainDump:
		return "Brain Dump"
	case ViewTasks:
		return "Tasks"
	case ViewHabits:
		return "Habits"
	case ViewGoals:
		return "Goals"
	case ViewFocus:
		return "Focus"
	case ViewCoach:
		return "Coach"
	case ViewMoney:
		return "Money"
	case ViewLearning:
		return "Learning"
	default:
		return "Unknown"
	}
}

// ParseView maps a config name such as "brain-dump" or "tasks" onto a view.
// Unknown names fall back to the dashboard.
func ParseView(name string) View {
	n := strings.NewReplacer("-", "", "_", "", " ", "").Replace(strings.ToLower(strings.TrimSpace(name)))
	for v := ViewDashboard; v <= ViewLearning; v++ {
		if strings.ReplaceAll(strings.ToLower(v.String()), " ", "") == n {
			return v
		}
	}
	return ViewDashboard
}

var baseNavigation = []View{
	ViewDashboard,
	ViewBrainDump,
	ViewTasks,
	ViewHabits,
	ViewGoals,
	ViewFocus,
	ViewCoach,
}

// Navigation returns the views reachable for persona, in key order.
// Hustlers get the money hub and students the learning list, both placed
// right after Habits.
func Navigation(persona model.Persona) []View {
	nav := slices.Clone(baseNavigation)
	switch persona {
	case model.PersonaHustler:
		return slices.Insert(nav, 4, ViewMoney)
	case model.PersonaStudent:
		return slices.Insert(nav, 4, ViewLearning)
	}
	return nav
}

// StatusMsg contains a status message to display
type StatusMsg struct {
	Message string
}

// ThemeChangedMsg indicates the theme was changed
type ThemeChangedMsg struct {
	ThemeName string
}
