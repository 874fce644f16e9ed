package styles

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	PrimaryColor = lipgloss.Color("#F59E0B") // Amber
	UpColor      = lipgloss.Color("#10B981") // Green
	DownColor    = lipgloss.Color("#EF4444") // Red
	NeutralColor = lipgloss.Color("#6B7280") // Gray

	BorderColor      = lipgloss.Color("#374151")
	FocusBorderColor = lipgloss.Color("#F59E0B")

	TextColor          = lipgloss.Color("#F9FAFB")
	TextSecondaryColor = lipgloss.Color("#9CA3AF")
	TextMutedColor     = lipgloss.Color("#6B7280")

	CrashColor  = lipgloss.Color("#DC2626")
	BubbleColor = lipgloss.Color("#8B5CF6")
)

// Panel styles
var (
	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderColor).
			Padding(0, 1)

	FocusedPanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(FocusBorderColor).
				Padding(0, 1)

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor).
			Padding(0, 1)

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(TextSecondaryColor)

	RowStyle = lipgloss.NewStyle().
			Foreground(TextColor)

	SelectedRowStyle = lipgloss.NewStyle().
				Foreground(TextColor).
				Background(lipgloss.Color("#312E81")).
				Bold(true)

	UpStyle      = lipgloss.NewStyle().Foreground(UpColor)
	DownStyle    = lipgloss.NewStyle().Foreground(DownColor)
	NeutralStyle = lipgloss.NewStyle().Foreground(NeutralColor)
	MutedStyle   = lipgloss.NewStyle().Foreground(TextMutedColor)
	CrashStyle   = lipgloss.NewStyle().Foreground(CrashColor).Bold(true)
	BubbleStyle  = lipgloss.NewStyle().Foreground(BubbleColor)

	StatusBarStyle = lipgloss.NewStyle().
			Foreground(TextSecondaryColor).
			Padding(0, 1)

	StatusBarKeyStyle = lipgloss.NewStyle().
				Foreground(PrimaryColor).
				Bold(true)

	StatusBarDescStyle = lipgloss.NewStyle().
				Foreground(TextMutedColor)
)

// PnLStyle picks the up/down/neutral style for a signed value.
func PnLStyle(v float64) lipgloss.Style {
	switch {
	case v > 0:
		return UpStyle
	case v < 0:
		return DownStyle
	default:
		return NeutralStyle
	}
}
