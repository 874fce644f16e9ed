// Package tui is the terminal frontend: three panels over the
// running service, driven entirely by engine events.
package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/qoinlabs/qoinbots/internal/bot"
	"github.com/qoinlabs/qoinbots/internal/engine"
	"github.com/qoinlabs/qoinbots/internal/engine/service"
	"github.com/qoinlabs/qoinbots/internal/feed"
	"github.com/qoinlabs/qoinbots/internal/market"
	"github.com/qoinlabs/qoinbots/tui/panels"
	"github.com/qoinlabs/qoinbots/tui/styles"
)

// PanelFocus identifies the focused panel.
type PanelFocus int

const (
	FocusMarket PanelFocus = 0
	FocusBots   PanelFocus = 1
	FocusFeed   PanelFocus = 2

	numPanels = 3
)

// boostDurationTicks is how long a feed/encourage boost lasts.
const boostDurationTicks = 60

type engineEventMsg struct {
	event engine.Event
}

type eventsClosedMsg struct{}

type statusMsg struct {
	text string
}

// Model is the main TUI application model.
type Model struct {
	svc  *service.Service
	tape *feed.Tape

	marketPanel *panels.MarketPanel
	botsPanel   *panels.BotsPanel
	feedPanel   *panels.FeedPanel

	focusedPanel PanelFocus

	paused bool
	speed  float64

	width  int
	height int

	status string
	ready  bool
}

// NewModel wires the TUI to a started service.
func NewModel(svc *service.Service) *Model {
	return &Model{
		svc:          svc,
		tape:         feed.NewTape(200),
		marketPanel:  panels.NewMarketPanel(),
		botsPanel:    panels.NewBotsPanel(),
		feedPanel:    panels.NewFeedPanel(),
		focusedPanel: FocusBots,
		speed:        1,
	}
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.marketPanel.Init(),
		m.botsPanel.Init(),
		m.feedPanel.Init(),
		m.listenEvents(),
	)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "tab":
			m.focusedPanel = (m.focusedPanel + 1) % numPanels

		case "shift+tab":
			m.focusedPanel--
			if m.focusedPanel < 0 {
				m.focusedPanel = numPanels - 1
			}

		case " ":
			m.paused = !m.paused
			m.svc.SetPaused(m.paused)
			if m.paused {
				m.status = "paused"
			} else {
				m.status = "running"
			}

		case "+", "=":
			if m.speed < 8 {
				m.speed *= 2
			}
			m.svc.SetSpeed(m.speed)
			m.status = fmt.Sprintf("speed x%.0f", m.speed)

		case "-":
			if m.speed > 0.25 {
				m.speed /= 2
			}
			m.svc.SetSpeed(m.speed)
			m.status = fmt.Sprintf("speed x%.2g", m.speed)

		case "c":
			m.svc.ForceCrash()
			m.status = "crash forced"

		case "f":
			cmds = append(cmds, m.boostSelected())

		case "s":
			cmds = append(cmds, m.saveNow())
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case engineEventMsg:
		m.handleEvent(msg.event)
		cmds = append(cmds, m.listenEvents())

	case eventsClosedMsg:
		return m, tea.Quit

	case panels.BotSelectedMsg:
		cmds = append(cmds, m.boostBot(msg.ID))

	case statusMsg:
		m.status = msg.text
	}

	m.updateFocusedPanel(msg, &cmds)
	return m, tea.Batch(cmds...)
}

func (m *Model) updateFocusedPanel(msg tea.Msg, cmds *[]tea.Cmd) {
	var cmd tea.Cmd
	switch m.focusedPanel {
	case FocusMarket:
		m.marketPanel, cmd = m.marketPanel.Update(msg)
	case FocusBots:
		m.botsPanel, cmd = m.botsPanel.Update(msg)
	case FocusFeed:
		m.feedPanel, cmd = m.feedPanel.Update(msg)
	}
	if cmd != nil {
		*cmds = append(*cmds, cmd)
	}
}

func (m *Model) handleEvent(ev engine.Event) {
	m.tape.Observe(ev)
	m.feedPanel.SetEntries(m.tape.Entries())

	if tick, ok := ev.(engine.TickEvent); ok {
		m.marketPanel.SetSnapshot(tick.Snapshot)
		m.refreshRoster()
	}
}

func (m *Model) refreshRoster() {
	var rows []panels.BotRow
	history := make(map[market.Symbol][]float64)
	m.svc.Engine(func(e *engine.Engine) {
		for _, sym := range market.Symbols() {
			history[sym] = e.PriceHistory(sym)
		}
		for _, b := range e.State().Bots() {
			s := b.Stats()
			rows = append(rows, panels.BotRow{
				ID:        b.ID(),
				Name:      b.Name(),
				Avatar:    b.Avatar(),
				MoodEmoji: b.Mood().Profile().Emoji,
				Mood:      b.Mood().String(),
				Balance:   s.Balance,
				PnL:       s.TotalPnL,
				Trades:    s.Trades,
				WinRate:   s.WinRate,
				Active:    b.Active(),
			})
		}
	})
	m.botsPanel.SetRows(rows)
	m.marketPanel.SetHistory(history)
}

func (m *Model) boostSelected() tea.Cmd {
	id, ok := m.botsPanel.Selected()
	if !ok {
		return nil
	}
	return m.boostBot(id)
}

// boostBot is the "feed" player action: a short optimism and risk
// bump for the chosen bot.
func (m *Model) boostBot(id string) tea.Cmd {
	return func() tea.Msg {
		var err error
		m.svc.Engine(func(e *engine.Engine) {
			err = e.BoostBot(id, bot.Traits{OptimismBias: 0.15, RiskTolerance: 0.1}, boostDurationTicks)
		})
		if err != nil {
			return statusMsg{text: "boost failed: " + err.Error()}
		}
		return statusMsg{text: "fed " + id + " 🍪"}
	}
}

func (m *Model) saveNow() tea.Cmd {
	return func() tea.Msg {
		if err := m.svc.Save(); err != nil {
			return statusMsg{text: "save failed: " + err.Error()}
		}
		return statusMsg{text: "saved"}
	}
}

func (m *Model) listenEvents() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.svc.Events()
		if !ok {
			return eventsClosedMsg{}
		}
		return engineEventMsg{event: ev}
	}
}

func (m *Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	m.marketPanel.SetFocus(m.focusedPanel == FocusMarket)
	m.botsPanel.SetFocus(m.focusedPanel == FocusBots)
	m.feedPanel.SetFocus(m.focusedPanel == FocusFeed)

	// Layout:
	// ┌──────────────┬──────────────────┐
	// │    Market    │      Bots        │
	// ├──────────────┴──────────────────┤
	// │              Feed               │
	// └─────────────────────────────────┘
	leftWidth := m.width * 2 / 5
	rightWidth := m.width - leftWidth
	topHeight := (m.height - 3) * 3 / 5
	bottomHeight := m.height - topHeight - 3

	m.marketPanel.SetSize(leftWidth, topHeight)
	m.botsPanel.SetSize(rightWidth, topHeight)
	m.feedPanel.SetSize(m.width, bottomHeight)

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, m.marketPanel.View(), m.botsPanel.View())
	return lipgloss.JoinVertical(lipgloss.Left, topRow, m.feedPanel.View(), m.renderStatusBar())
}

func (m *Model) renderStatusBar() string {
	help := []string{
		styles.StatusBarKeyStyle.Render("tab") + styles.StatusBarDescStyle.Render(" panels"),
		styles.StatusBarKeyStyle.Render("space") + styles.StatusBarDescStyle.Render(" pause"),
		styles.StatusBarKeyStyle.Render("+/-") + styles.StatusBarDescStyle.Render(" speed"),
		styles.StatusBarKeyStyle.Render("f") + styles.StatusBarDescStyle.Render(" feed bot"),
		styles.StatusBarKeyStyle.Render("c") + styles.StatusBarDescStyle.Render(" crash"),
		styles.StatusBarKeyStyle.Render("s") + styles.StatusBarDescStyle.Render(" save"),
		styles.StatusBarKeyStyle.Render("q") + styles.StatusBarDescStyle.Render(" quit"),
	}
	helpStr := help[0]
	for _, h := range help[1:] {
		helpStr = lipgloss.JoinHorizontal(lipgloss.Center, helpStr, " │ ", h)
	}

	status := ""
	if m.status != "" {
		status = " │ " + m.status
	}
	return styles.StatusBarStyle.Width(m.width).Render(helpStr + status)
}

var _ tea.Model = (*Model)(nil)
