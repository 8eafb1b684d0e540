package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/aib-club/internal/site"
)

// page is one routed screen of the main application.
type page interface {
	// editable reports whether the page has inputs that can take focus.
	editable() bool
	focus() tea.Cmd
	blur()
	update(msg tea.Msg) tea.Cmd
	// resize is called with the body width whenever the terminal changes.
	resize(width int)
	view(width int) string
}

type homePage struct {
	meta site.Page
}

func (homePage) editable() bool         { return false }
func (homePage) focus() tea.Cmd         { return nil }
func (homePage) blur()                  {}
func (homePage) update(tea.Msg) tea.Cmd { return nil }
func (homePage) resize(int)             {}

func (p homePage) view(width int) string {
	text := lipgloss.NewStyle().Width(max(20, width))
	sections := []string{
		headingStyle.Render(strings.ToUpper(p.meta.Title)),
		subtleStyle.Render(p.meta.Blurb),
		"",
		accentStyle.Render(site.Tagline),
		"",
	}

	cardWidth := max(20, (width-6)/len(site.AboutCards))
	cards := make([]string, 0, len(site.AboutCards))
	for _, c := range site.AboutCards {
		cards = append(cards, cardStyle.Width(cardWidth).Render(
			lipgloss.JoinVertical(lipgloss.Left, accentStyle.Render(c.Title), c.Body),
		))
	}
	if width >= 3*22 {
		sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	} else {
		sections = append(sections, cards...)
	}

	sections = append(sections, "", headingStyle.Render("About Us"))
	for _, para := range site.About {
		sections = append(sections, text.Render(para), "")
	}

	sections = append(sections, headingStyle.Render("Executive Board"))
	for _, m := range site.Board {
		sections = append(sections, fmt.Sprintf("  %s  %s", m.Name, mutedStyle.Render(m.Role)))
	}
	return strings.Join(sections, "\n")
}

func (a *App) renderNavbar() string {
	items := []string{badgeStyle.Render("AIB"), " "}
	for i, p := range a.router.Pages() {
		label := fmt.Sprintf("%d %s", i+1, p.Label)
		if i == a.pageIdx {
			items = append(items, navActiveStyle.Render(label))
		} else {
			items = append(items, navItemStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, items...)
}

func (a *App) renderFooter() string {
	help := "tab/1-3 switch page · enter edit · ↑/↓ scroll · q quit"
	if a.editing {
		help = "esc stop editing · ctrl+c quit"
	}
	return footerStyle.Render(site.Copyright + "\n" + help)
}

func (a *App) renderLogPanel() string {
	if a.logbook == nil {
		return ""
	}
	lines, total := a.logbook.Tail(4)
	if len(lines) == 0 {
		return ""
	}
	head := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#5B8DEF")).
		Render(fmt.Sprintf("JOURNAL · %d entries", total))
	body := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#AAAAAA")).
		Render(strings.Join(lines, "\n"))
	return cardStyle.Render(head + "\n" + body)
}
