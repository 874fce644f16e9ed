package panels

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/qoinlabs/qoinbots/internal/feed"
	"github.com/qoinlabs/qoinbots/tui/styles"
)

// FeedPanel renders the event tape in a scrollable viewport.
type FeedPanel struct {
	vp      viewport.Model
	entries []feed.Entry
	focused bool
	width   int
	height  int
	follow  bool
}

func NewFeedPanel() *FeedPanel {
	return &FeedPanel{
		vp:     viewport.New(0, 0),
		follow: true,
	}
}

func (p *FeedPanel) Init() tea.Cmd { return nil }

func (p *FeedPanel) Update(msg tea.Msg) (*FeedPanel, tea.Cmd) {
	if !p.focused {
		return p, nil
	}
	var cmd tea.Cmd
	p.vp, cmd = p.vp.Update(msg)
	// Scrolling up detaches from the tail; hitting bottom re-attaches.
	p.follow = p.vp.AtBottom()
	return p, cmd
}

// SetEntries replaces the tape contents.
func (p *FeedPanel) SetEntries(entries []feed.Entry) {
	p.entries = entries
	p.vp.SetContent(p.renderEntries())
	if p.follow {
		p.vp.GotoBottom()
	}
}

func (p *FeedPanel) SetFocus(focused bool) { p.focused = focused }

func (p *FeedPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
	p.vp.Width = width - 4
	p.vp.Height = height - 4
	p.vp.SetContent(p.renderEntries())
	if p.follow {
		p.vp.GotoBottom()
	}
}

func (p *FeedPanel) renderEntries() string {
	if len(p.entries) == 0 {
		return styles.MutedStyle.Render("Quiet on the floor...")
	}

	var b strings.Builder
	for _, e := range p.entries {
		style := styles.RowStyle
		switch e.Kind {
		case feed.KindCrash:
			style = styles.CrashStyle
		case feed.KindSpeech:
			style = styles.MutedStyle
		case feed.KindUnlock, feed.KindAchievement:
			style = styles.UpStyle
		case feed.KindFloor:
			style = styles.BubbleStyle
		case feed.KindSystem:
			style = styles.DownStyle
		}
		b.WriteString(style.Render(e.Text))
		b.WriteString("\n")
	}
	return b.String()
}

func (p *FeedPanel) View() string {
	title := styles.TitleStyle.Render("📰 Feed")
	body := lipgloss.JoinVertical(lipgloss.Left, title, p.vp.View())

	style := styles.PanelStyle
	if p.focused {
		style = styles.FocusedPanelStyle
	}
	return style.Width(p.width - 2).Height(p.height - 2).Render(body)
}
