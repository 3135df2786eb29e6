package views

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dori/brainy/internal/gamify"
	"github.com/dori/brainy/internal/model"
	"github.com/dori/brainy/internal/ui/theme"
)

// Screen is what the root model needs from every view
type Screen interface {
	tea.Model
	SetSize(width, height int) Screen
	// IsInputMode is true while the view is capturing keystrokes, so global
	// single-letter bindings must be left alone.
	IsInputMode() bool
	// Hints returns key/description pairs for the footer
	Hints() []Hint
}

// Hint is one footer key hint
type Hint struct {
	Key  string
	Desc string
}

// aiCtx is the context handed to assistant calls. The gateway applies its
// own per-request timeout.
func aiCtx() context.Context {
	return context.Background()
}

func renderTitle(s string) string {
	return theme.Current.Styles.Title.Render(s)
}

func renderStatus(msg string) string {
	if msg == "" {
		return ""
	}
	return lipgloss.NewStyle().Foreground(theme.Current.Theme.Success).Render(msg)
}

func renderEmpty(msg string) string {
	return lipgloss.NewStyle().
		Foreground(theme.Current.Theme.Subtle).
		Italic(true).
		Render(msg)
}

// renderBar draws a █/░ progress bar of width cells
func renderBar(percent float64, width int, fill, empty lipgloss.Style) string {
	if width < 1 {
		width = 1
	}
	filled := int(percent / 100 * float64(width))
	filled = min(max(filled, 0), width)
	return fill.Render(strings.Repeat("█", filled)) + empty.Render(strings.Repeat("░", width-filled))
}

// renderXP draws the level badge and XP bar
func renderXP(stats model.Stats, width int) string {
	s := theme.Current.Styles
	p := gamify.LevelProgress(stats)

	barWidth := min(max(width-30, 10), 40)
	bar := renderBar(p.Percent, barWidth, s.XPFill, s.XPEmpty)

	label := fmt.Sprintf("%d / %d XP", p.IntoXP, p.SpanXP)
	if p.Maxed {
		label = fmt.Sprintf("%d XP (max level)", stats.XP)
	}
	return s.Level.Render(fmt.Sprintf("Lv %d", p.Level)) + " " + bar + " " + s.Label.Render(label)
}

func renderPriority(p model.Priority) string {
	t := theme.Current.Theme
	return lipgloss.NewStyle().Foreground(t.PriorityColor(p)).Bold(true).Render(priorityIcon(p))
}

func priorityIcon(p model.Priority) string {
	switch p {
	case model.PriorityHigh:
		return "!!!"
	case model.PriorityLow:
		return "!  "
	default:
		return "!! "
	}
}

func moodIcon(m model.Mood) string {
	switch m {
	case model.MoodGreat:
		return "🤩"
	case model.MoodGood:
		return "🙂"
	case model.MoodStressed:
		return "😫"
	case model.MoodBad:
		return "😞"
	default:
		return "😐"
	}
}

func checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

// moveCursor clamps cursor+delta into [0, n)
func moveCursor(cursor, delta, n int) int {
	if n == 0 {
		return 0
	}
	return min(max(cursor+delta, 0), n-1)
}

// truncate shortens s to width cells, adding an ellipsis
func truncate(s string, width int) string {
	if width <= 1 || lipgloss.Width(s) <= width {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r))+1 > width {
		r = r[:len(r)-1]
	}
	return string(r) + "…"
}
