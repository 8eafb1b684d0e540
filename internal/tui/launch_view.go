package tui

import (
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/aib-club/internal/reveal"
	"github.com/kingrea/aib-club/internal/site"
)

const (
	burstInterval = 60 * time.Millisecond
	burstFrames   = 35 // the burst fades out after ~2.1s
	burstRings    = 6
	burstSpokes   = 16

	loaderDismissAfter = time.Second
)

var counterLabels = [4]string{"DAYS", "HOURS", "MINUTES", "SECONDS"}

type burstFrameMsg struct {
	frame int
}

type loaderDismissMsg struct {
	id int
}

func burstTick(frame int) tea.Cmd {
	return tea.Tick(burstInterval, func(time.Time) tea.Msg {
		return burstFrameMsg{frame: frame}
	})
}

func loaderDismiss(id int) tea.Cmd {
	return tea.Tick(loaderDismissAfter, func(time.Time) tea.Msg {
		return loaderDismissMsg{id: id}
	})
}

// place centers content in the terminal once its size is known.
func place(width, height int, content string) string {
	if width <= 0 || height <= 0 {
		return content
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func renderCountdown(snap *reveal.Snapshot) string {
	header := lipgloss.JoinVertical(lipgloss.Center,
		badgeStyle.Render("AIB"),
		"",
		eyebrowStyle.Render(strings.ToUpper(site.ClubName+" · "+site.University)),
		"",
		headingStyle.Render("Launching Soon"),
		subtleStyle.Render("Something exciting is on its way. Check back at launch."),
		"",
	)
	if snap == nil {
		return lipgloss.JoinVertical(lipgloss.Center, header, accentStyle.Render("Launching now..."))
	}
	counters := snap.Counters()
	cols := make([]string, 0, 2*len(counters))
	for i, value := range counters {
		if i > 0 {
			cols = append(cols, "  ")
		}
		cols = append(cols, lipgloss.JoinVertical(lipgloss.Center,
			counterStyle.Render(value),
			counterLabelStyle.Render(counterLabels[i]),
		))
	}
	return lipgloss.JoinVertical(lipgloss.Center, header, lipgloss.JoinHorizontal(lipgloss.Top, cols...))
}

// renderBurst draws one frame of the launch burst: staggered rings growing
// from the center, speed lines and an initial flash.
func renderBurst(frame, width, height int) string {
	if width <= 0 {
		width = 60
	}
	if height <= 0 {
		height = 20
	}
	if frame >= burstFrames {
		return strings.Repeat("\n", height-1)
	}

	cx, cy := float64(width)/2, float64(height)/2
	maxR := math.Hypot(cx/2, cy)
	reach := math.Min(float64(frame)/float64(burstFrames)*2, 1) * maxR

	styles := make([]lipgloss.Style, len(burstPalette))
	for i, c := range burstPalette {
		styles[i] = lipgloss.NewStyle().Foreground(lipgloss.Color(c))
	}
	flash := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF"))

	var b strings.Builder
	for y := 0; y < height; y++ {
		if y > 0 {
			b.WriteByte('\n')
		}
		for x := 0; x < width; x++ {
			dx, dy := (float64(x)-cx)/2, float64(y)-cy
			d := math.Hypot(dx, dy)

			if frame < 8 && d < float64(frame)*0.8 {
				b.WriteString(flash.Render("✦"))
				continue
			}
			if ring := ringAt(frame, d, maxR); ring >= 0 {
				b.WriteString(styles[ring%len(styles)].Render("○"))
				continue
			}
			if spoke := spokeAt(dx, dy, d, reach); spoke >= 0 {
				b.WriteString(styles[(spoke+3)%len(styles)].Render("·"))
				continue
			}
			b.WriteByte(' ')
		}
	}
	return b.String()
}

func ringAt(frame int, d, maxR float64) int {
	for i := 0; i < burstRings; i++ {
		age := frame - i*3
		if age < 0 {
			continue
		}
		r := float64(age) * maxR / 20
		if r > maxR*1.2 {
			continue
		}
		if math.Abs(d-r) < 0.5 {
			return i
		}
	}
	return -1
}

func spokeAt(dx, dy, d, reach float64) int {
	if d > reach || d < reach*0.4 {
		return -1
	}
	angle := math.Atan2(dy, dx)
	for k := 0; k < burstSpokes; k++ {
		target := 2 * math.Pi * float64(k) / burstSpokes
		if math.Abs(math.Remainder(angle-target, 2*math.Pi)) < 0.05 {
			return k
		}
	}
	return -1
}

func renderLoader(spin string) string {
	return lipgloss.JoinVertical(lipgloss.Center,
		accentStyle.Render(spin),
		"",
		lipgloss.NewStyle().Bold(true).Render("Loading"),
	)
}
