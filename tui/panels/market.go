package panels

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/qoinlabs/qoinbots/internal/market"
	"github.com/qoinlabs/qoinbots/tui/styles"
)

// MarketPanel shows asset prices, sparklines, and the cycle phase.
type MarketPanel struct {
	snapshot market.Snapshot
	history  map[market.Symbol][]float64
	focused  bool
	width    int
	height   int
}

func NewMarketPanel() *MarketPanel {
	return &MarketPanel{}
}

func (p *MarketPanel) Init() tea.Cmd { return nil }

func (p *MarketPanel) Update(msg tea.Msg) (*MarketPanel, tea.Cmd) {
	return p, nil
}

// SetSnapshot replaces the displayed market view.
func (p *MarketPanel) SetSnapshot(snap market.Snapshot) {
	p.snapshot = snap
}

// SetHistory replaces the per-asset price history for sparklines.
func (p *MarketPanel) SetHistory(history map[market.Symbol][]float64) {
	p.history = history
}

func (p *MarketPanel) SetFocus(focused bool) { p.focused = focused }

func (p *MarketPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

func (p *MarketPanel) View() string {
	var content strings.Builder

	cycle := p.snapshot.Cycle
	phaseStyle := styles.NeutralStyle
	switch cycle.Phase {
	case market.PhaseGrowth, market.PhaseBubble:
		phaseStyle = styles.UpStyle
	case market.PhaseCrash:
		phaseStyle = styles.CrashStyle
	case market.PhaseRecovery:
		phaseStyle = styles.BubbleStyle
	}
	content.WriteString(fmt.Sprintf("%s %s  cycle #%d\n",
		phaseStyle.Render(strings.ToUpper(cycle.Phase.String())),
		styles.MutedStyle.Render(progressBar(cycle.Progress, 12)),
		cycle.TotalCycles+1,
	))
	content.WriteString("\n")

	content.WriteString(styles.HeaderStyle.Render(fmt.Sprintf("%-6s %10s %8s %8s %s", "ASSET", "PRICE", "CHANGE", "VOL", "TREND")))
	content.WriteString("\n")

	for _, a := range p.snapshot.Assets {
		content.WriteString(p.renderAssetRow(a))
	}
	if len(p.snapshot.BotAssets) > 0 {
		content.WriteString(styles.MutedStyle.Render("── floor ──"))
		content.WriteString("\n")
		for _, a := range p.snapshot.BotAssets {
			content.WriteString(p.renderAssetRow(a))
		}
	}

	title := styles.TitleStyle.Render("📈 Market")
	body := lipgloss.JoinVertical(lipgloss.Left, title, content.String())

	style := styles.PanelStyle
	if p.focused {
		style = styles.FocusedPanelStyle
	}
	return style.Width(p.width - 2).Height(p.height - 2).Render(body)
}

func (p *MarketPanel) renderAssetRow(a market.Asset) string {
	change := a.Change * 100
	row := fmt.Sprintf("%-6s %10.3f %7.2f%% %8.0f %s",
		a.Symbol, a.Price, change, a.Volume, sparkline(p.history[a.Symbol], 10))
	return styles.PnLStyle(a.Change).Render(row) + "\n"
}

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

// sparkline draws the last n samples as a block-rune strip.
func sparkline(samples []float64, n int) string {
	if len(samples) == 0 {
		return ""
	}
	if len(samples) > n {
		samples = samples[len(samples)-n:]
	}
	lo, hi := samples[0], samples[0]
	for _, v := range samples {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	span := hi - lo
	out := make([]rune, len(samples))
	for i, v := range samples {
		idx := 0
		if span > 0 {
			idx = int((v - lo) / span * float64(len(sparkRunes)-1))
		}
		out[i] = sparkRunes[idx]
	}
	return string(out)
}

// progressBar renders a fixed-width unicode bar for a 0..1 value.
func progressBar(v float64, width int) string {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	filled := int(v * float64(width))
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + "]"
}
