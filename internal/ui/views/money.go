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
	"github.com/dori/brainy/internal/quickadd"
	"github.com/dori/brainy/internal/store"
	"github.com/dori/brainy/internal/ui/theme"
)

type moneyInput int

const (
	moneyInputNone moneyInput = iota
	moneyInputEntry
	moneyInputInterests
)

// MoneyView is the hustler's money hub: income ledger and side-hustle ideas
type MoneyView struct {
	store     *store.Store
	assistant *ai.Assistant
	width     int
	height    int

	entries []model.IncomeEntry
	ideas   []string

	inputKind moneyInput
	input     textinput.Model
	thinking  bool
	spinner   spinner.Model
	statusMsg string
}

// NewMoneyView creates a new money view
func NewMoneyView(s *store.Store, assistant *ai.Assistant) MoneyView {
	ti := textinput.New()
	ti.CharLimit = 256
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return MoneyView{store: s, assistant: assistant, input: ti, spinner: sp}
}

type moneyLoadedMsg struct{ entries []model.IncomeEntry }
type ideasMsg struct{ ideas []string }

// Init loads the ledger
func (v MoneyView) Init() tea.Cmd {
	return v.load
}

func (v MoneyView) load() tea.Msg {
	return moneyLoadedMsg{entries: v.store.Snapshot().IncomeEntries}
}

// SetSize sets the view dimensions
func (v MoneyView) SetSize(width, height int) Screen {
	v.width = width
	v.height = height
	v.input.Width = width - 6
	return v
}

// IsInputMode returns true while typing or waiting on the assistant
func (v MoneyView) IsInputMode() bool {
	return v.inputKind != moneyInputNone || v.thinking
}

// Update handles messages
func (v MoneyView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case moneyLoadedMsg:
		v.entries = msg.entries
		return v, nil

	case ideasMsg:
		v.thinking = false
		v.ideas = msg.ideas
		return v, nil

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
		if v.inputKind != moneyInputNone {
			return v.handleInput(msg)
		}
		v.statusMsg = ""
		switch msg.String() {
		case "a":
			v.inputKind = moneyInputEntry
			v.input.SetValue("")
			v.input.Placeholder = "Logo design 250 active #freelance"
			cmd := v.input.Focus()
			return v, cmd
		case "i":
			v.inputKind = moneyInputInterests
			v.input.SetValue("")
			v.input.Placeholder = "Your skills and interests..."
			cmd := v.input.Focus()
			return v, cmd
		}
	}
	return v, nil
}

func (v MoneyView) handleInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		v.inputKind = moneyInputNone
		v.input.Blur()
		return v, nil
	case "enter":
		kind := v.inputKind
		v.inputKind = moneyInputNone
		v.input.Blur()
		text := strings.TrimSpace(v.input.Value())
		if text == "" {
			return v, nil
		}
		if kind == moneyInputInterests {
			v.thinking = true
			assistant := v.assistant
			return v, tea.Batch(v.spinner.Tick, func() tea.Msg {
				return ideasMsg{ideas: assistant.SideHustleIdeas(aiCtx(), text)}
			})
		}
		entry, err := quickadd.ParseIncome(text)
		if err != nil {
			v.statusMsg = "Include an amount, e.g. \"Logo design 250\""
			return v, nil
		}
		entry = v.store.AddIncome(entry)
		v.statusMsg = fmt.Sprintf("Recorded %s %.2f", entry.Type, entry.Amount)
		return v, v.load
	}
	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// View renders the money hub
func (v MoneyView) View() string {
	if v.width == 0 || v.height == 0 {
		return "Loading..."
	}

	s := theme.Current.Styles
	t := theme.Current.Theme

	var net, in, out float64
	for _, e := range v.entries {
		net += e.Signed()
		if e.Type == model.IncomeExpense {
			out += e.Amount
		} else {
			in += e.Amount
		}
	}
	netStyle := lipgloss.NewStyle().Bold(true).Foreground(t.Success)
	if net < 0 {
		netStyle = netStyle.Foreground(t.Error)
	}

	var sections []string
	sections = append(sections, renderTitle("Money Hub"))
	sections = append(sections, fmt.Sprintf("%s %s   %s %.2f   %s %.2f",
		s.Label.Render("Net"), netStyle.Render(fmt.Sprintf("%.2f", net)),
		s.Label.Render("In"), in,
		s.Label.Render("Out"), out))

	if v.inputKind != moneyInputNone {
		sections = append(sections, s.InputFocused.Render(v.input.View()))
	}

	sections = append(sections, "", s.PanelTitle.Render("Ledger"))
	if len(v.entries) == 0 {
		sections = append(sections, renderEmpty("No entries yet. Press a to record one."))
	}
	for i, e := range v.entries {
		if i == max(v.height-14, 3) {
			sections = append(sections, s.Label.Render(fmt.Sprintf("  …%d older", len(v.entries)-i)))
			break
		}
		amount := lipgloss.NewStyle().Foreground(t.Success).Render(fmt.Sprintf("%+10.2f", e.Signed()))
		if e.Type == model.IncomeExpense {
			amount = lipgloss.NewStyle().Foreground(t.Error).Render(fmt.Sprintf("%+10.2f", e.Signed()))
		}
		line := s.Label.Render(e.Date) + " " + amount + " " + truncate(e.Title, v.width-40)
		if e.Category != "" {
			line += " " + s.Tag.Render(e.Category)
		}
		sections = append(sections, line)
	}

	if v.thinking {
		sections = append(sections, "", v.spinner.View()+" "+lipgloss.NewStyle().Foreground(t.Info).Render("Brainstorming..."))
	}
	if len(v.ideas) > 0 {
		sections = append(sections, "", s.PanelTitle.Render("Side hustle ideas"))
		for _, idea := range v.ideas {
			sections = append(sections, "  • "+idea)
		}
	}
	if v.statusMsg != "" {
		sections = append(sections, "", renderStatus(v.statusMsg))
	}
	return strings.Join(sections, "\n")
}

// Hints returns the footer key hints
func (v MoneyView) Hints() []Hint {
	if v.inputKind != moneyInputNone {
		return []Hint{{"enter", "confirm"}, {"esc", "cancel"}}
	}
	return []Hint{{"a", "add entry"}, {"i", "side hustle ideas"}}
}
