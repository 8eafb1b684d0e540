package tui

import "github.com/charmbracelet/lipgloss"

var burstPalette = []string{
	"#3B82F6", "#60A5FA", "#93C5FD", "#A855F7", "#C084FC",
	"#D8B4FE", "#06B6D4", "#22D3EE", "#818CF8", "#E879F9",
}

var (
	badgeStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#7C3AED")).
			Padding(0, 2)
	eyebrowStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#94A3B8"))
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#C4B5FD"))
	subtleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#94A3B8"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#64748B"))
	accentStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#60A5FA"))
	linkStyle    = lipgloss.NewStyle().Underline(true).Foreground(lipgloss.Color("#93C5FD"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50"))

	counterStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#93C5FD")).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#334155")).
			Padding(0, 2)
	counterLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#64748B"))

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1)
	errorCardStyle = cardStyle.BorderForeground(lipgloss.Color("#FF6B6B"))
	okCardStyle    = cardStyle.BorderForeground(lipgloss.Color("#4CAF50"))

	navItemStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA")).Padding(0, 1)
	navActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#5B8DEF")).
			Padding(0, 1)
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")).MarginTop(1)
)
