package panels

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/qoinlabs/qoinbots/tui/styles"
)

// BotRow is the display projection of one roster bot.
type BotRow struct {
	ID        string
	Name      string
	Avatar    string
	MoodEmoji string
	Mood      string
	Balance   float64
	PnL       float64
	Trades    int
	WinRate   float64
	Active    bool
}

// BotSelectedMsg is emitted when the user picks a bot.
type BotSelectedMsg struct {
	ID string
}

// BotsPanel lists the roster with mood and scoreboard.
type BotsPanel struct {
	rows          []BotRow
	selectedIndex int
	focused       bool
	width         int
	height        int
}

func NewBotsPanel() *BotsPanel {
	return &BotsPanel{}
}

func (p *BotsPanel) Init() tea.Cmd { return nil }

func (p *BotsPanel) Update(msg tea.Msg) (*BotsPanel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if !p.focused {
			return p, nil
		}
		switch {
		case key.Matches(msg, key.NewBinding(key.WithKeys("up", "k"))):
			if p.selectedIndex > 0 {
				p.selectedIndex--
			}
		case key.Matches(msg, key.NewBinding(key.WithKeys("down", "j"))):
			if p.selectedIndex < len(p.rows)-1 {
				p.selectedIndex++
			}
		case key.Matches(msg, key.NewBinding(key.WithKeys("enter"))):
			if p.selectedIndex < len(p.rows) {
				id := p.rows[p.selectedIndex].ID
				return p, func() tea.Msg { return BotSelectedMsg{ID: id} }
			}
		}
	}
	return p, nil
}

// SetRows replaces the roster view.
func (p *BotsPanel) SetRows(rows []BotRow) {
	p.rows = rows
	if p.selectedIndex >= len(rows) && len(rows) > 0 {
		p.selectedIndex = len(rows) - 1
	}
}

// Selected returns the highlighted bot id, if any.
func (p *BotsPanel) Selected() (string, bool) {
	if p.selectedIndex < len(p.rows) {
		return p.rows[p.selectedIndex].ID, true
	}
	return "", false
}

func (p *BotsPanel) SetFocus(focused bool) { p.focused = focused }

func (p *BotsPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

func (p *BotsPanel) View() string {
	var content strings.Builder

	content.WriteString(styles.HeaderStyle.Render(
		fmt.Sprintf("%-16s %4s %9s %9s %5s %5s", "BOT", "MOOD", "BALANCE", "PNL", "TRD", "WIN%")))
	content.WriteString("\n")

	if len(p.rows) == 0 {
		content.WriteString(styles.MutedStyle.Render("No bots yet"))
	}

	for i, row := range p.rows {
		name := fmt.Sprintf("%s %s", row.Avatar, row.Name)
		if !row.Active {
			name += " (idle)"
		}
		line := fmt.Sprintf("%-16s %4s %9.2f %9.2f %5d %4.0f%%",
			truncate(name, 16), row.MoodEmoji, row.Balance, row.PnL, row.Trades, row.WinRate*100)

		style := styles.RowStyle
		if p.focused && i == p.selectedIndex {
			style = styles.SelectedRowStyle
		} else if row.PnL < 0 {
			style = styles.DownStyle
		}
		content.WriteString(style.Render(line))
		content.WriteString("\n")
	}

	title := styles.TitleStyle.Render("🤖 Bots")
	body := lipgloss.JoinVertical(lipgloss.Left, title, content.String())

	style := styles.PanelStyle
	if p.focused {
		style = styles.FocusedPanelStyle
	}
	return style.Width(p.width - 2).Height(p.height - 2).Render(body)
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
