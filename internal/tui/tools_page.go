package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/aib-club/internal/logbook"
	"github.com/kingrea/aib-club/internal/planner"
	"github.com/kingrea/aib-club/internal/site"
)

type planResultMsg struct {
	id   int
	plan planner.Plan
	err  error
}

// toolsPage hosts the project idea form, the generated plan and the static
// tools directory.
type toolsPage struct {
	meta       site.Page
	ctx        context.Context
	generator  *planner.Generator
	logbook    *logbook.Logbook
	accountURL string

	markdownStyle string
	renderer      *glamour.TermRenderer

	input     textinput.Model
	spinner   spinner.Model
	loading   bool
	requestID int
	plan      *planner.Plan
	err       error
}

func newToolsPage(ctx context.Context, meta site.Page, gen *planner.Generator, lb *logbook.Logbook, accountURL, markdownStyle string) *toolsPage {
	input := textinput.New()
	input.Placeholder = "Ex: AI-powered study planner, resume optimizer, club website..."
	input.CharLimit = 500
	input.Prompt = "› "
	return &toolsPage{
		meta:       meta,
		ctx:        ctx,
		generator:  gen,
		logbook:    lb,
		accountURL: accountURL,
		input:      input,
		spinner:    spinner.New(spinner.WithSpinner(spinner.Dot)),

		markdownStyle: markdownStyle,
	}
}

func (p *toolsPage) editable() bool { return true }

func (p *toolsPage) focus() tea.Cmd { return p.input.Focus() }

func (p *toolsPage) blur() { p.input.Blur() }

// resize rebuilds the plan renderer for the new wrap width. Without a
// renderer plans fall back to raw markdown.
func (p *toolsPage) resize(width int) {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(p.markdownStyle),
		glamour.WithWordWrap(max(20, width-4)),
	)
	if err != nil {
		p.renderer = nil
		return
	}
	p.renderer = r
}

func (p *toolsPage) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case planResultMsg:
		if msg.id != p.requestID {
			return nil
		}
		p.loading = false
		if msg.err != nil {
			p.err = msg.err
			if planner.Classify(msg.err) == planner.ClassGeneric {
				p.logbook.Error("Plan request failed: %v", msg.err)
			} else {
				p.logbook.Warn("Plan request failed: %v", msg.err)
			}
			return nil
		}
		plan := msg.plan
		p.plan = &plan
		p.logbook.Info("Plan ready · %s (%d steps)", plan.Title, len(plan.Steps))
		return nil
	case spinner.TickMsg:
		if !p.loading {
			return nil
		}
		var cmd tea.Cmd
		p.spinner, cmd = p.spinner.Update(msg)
		return cmd
	case tea.KeyMsg:
		if msg.String() == "enter" {
			return p.submit()
		}
		if p.loading {
			return nil
		}
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return cmd
}

// submit starts a plan request for the current idea. Blank ideas and
// requests made while one is in flight are ignored.
func (p *toolsPage) submit() tea.Cmd {
	idea := strings.TrimSpace(p.input.Value())
	if idea == "" || p.loading {
		return nil
	}
	p.loading = true
	p.err = nil
	p.plan = nil
	p.requestID++
	p.logbook.Info("Plan requested · %q", idea)
	return tea.Batch(p.spinner.Tick, p.generate(p.requestID, idea))
}

func (p *toolsPage) generate(id int, idea string) tea.Cmd {
	ctx, gen := p.ctx, p.generator
	return func() tea.Msg {
		plan, err := gen.Generate(ctx, idea)
		return planResultMsg{id: id, plan: plan, err: err}
	}
}

func (p *toolsPage) view(width int) string {
	text := lipgloss.NewStyle().Width(max(20, width))
	sections := []string{
		headingStyle.Render(strings.ToUpper(p.meta.Title)),
		text.Render(subtleStyle.Render(p.meta.Blurb)),
		"",
		accentStyle.Render("What are you building?"),
		p.input.View(),
	}
	if p.loading {
		sections = append(sections, p.spinner.View()+" Thinking...")
	}

	switch {
	case p.err != nil:
		sections = append(sections, "", p.renderError(width))
	case p.plan != nil:
		sections = append(sections, "", p.renderPlan(width))
	case !p.loading:
		sections = append(sections, "", text.Render(
			"💡 Tip: Describe a project idea above to get AI-powered recommendations tailored to your project!"))
	}

	sections = append(sections, "", headingStyle.Render("AI Tools Directory"))
	for _, tool := range site.Tools {
		sections = append(sections,
			fmt.Sprintf("%s %s", accentStyle.Render(tool.Name), mutedStyle.Render("· "+tool.Category)),
			text.Render("  "+tool.Description),
			"  "+linkStyle.Render(tool.URL),
		)
	}

	sections = append(sections, "", headingStyle.Render("Getting Started"))
	for _, tip := range site.GettingStarted {
		sections = append(sections, text.Render("• "+tip))
	}
	return strings.Join(sections, "\n")
}

func (p *toolsPage) renderError(width int) string {
	title, body := "Error", errorText(p.err)
	lines := []string{}
	if planner.Classify(p.err) == planner.ClassAccount {
		title = "Gemini API Issue"
		lines = append(lines, body, "", "Check your API key and billing at:", linkStyle.Render(p.accountURL))
	} else {
		lines = append(lines, body)
	}
	return errorCardStyle.Width(max(20, width-2)).Render(
		errorStyle.Bold(true).Render(title) + "\n" + strings.Join(lines, "\n"))
}

func errorText(err error) string {
	switch {
	case errors.Is(err, planner.ErrNotConfigured):
		return "Gemini API key not configured. Set AIBCLUB_GEMINI_API_KEY in your environment."
	case err == nil:
		return ""
	default:
		return err.Error()
	}
}

// planMarkdown lays the plan out as markdown for the glamour renderer.
func planMarkdown(plan planner.Plan) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n%s\n\n", plan.Title, plan.Description)
	for i, step := range plan.Steps {
		fmt.Fprintf(&b, "%d. **%s**", step.DisplayNumber(i), step.Title)
		if step.Description != "" {
			fmt.Fprintf(&b, " %s", step.Description)
		}
		b.WriteString("\n")
		if step.Tool != nil {
			fmt.Fprintf(&b, "   - Tool: [%s](%s)", step.Tool.Name, step.Tool.URL)
			if step.Tool.Description != "" {
				fmt.Fprintf(&b, " %s", step.Tool.Description)
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (p *toolsPage) renderPlan(width int) string {
	md := planMarkdown(*p.plan)
	body := md
	if p.renderer != nil {
		if rendered, err := p.renderer.Render(md); err == nil {
			body = strings.TrimRight(rendered, "\n")
		}
	}
	return okCardStyle.Width(max(20, width-2)).Render(
		headingStyle.Render("Step-by-Step Development Guide") + "\n" + body)
}
