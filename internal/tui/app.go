// internal/tui/app.go
//
// The terminal front end of the club site. It follows The Elm Architecture:
// sequencer events and key presses become messages, Update folds them into
// the App, and View renders the presentation of the current phase.

package tui

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/kingrea/aib-club/internal/clock"
	"github.com/kingrea/aib-club/internal/contact"
	"github.com/kingrea/aib-club/internal/logbook"
	"github.com/kingrea/aib-club/internal/planner"
	"github.com/kingrea/aib-club/internal/reveal"
	"github.com/kingrea/aib-club/internal/site"
)

const eventBuffer = 64

// sequencerMsg carries one sequencer event into Update.
type sequencerMsg reveal.Event

// AppOption customizes App construction for tests and alternate runtimes.
type AppOption func(*App)

// WithClock overrides the clock driving the launch sequence.
func WithClock(c clock.Clock) AppOption {
	return func(a *App) {
		if c != nil {
			a.clock = c
		}
	}
}

// WithGenerator sets the plan generator used by the AI tools page.
func WithGenerator(g *planner.Generator) AppOption {
	return func(a *App) {
		if g != nil {
			a.generator = g
		}
	}
}

// WithSubmitter sets the contact form submitter.
func WithSubmitter(s *contact.Submitter) AppOption {
	return func(a *App) {
		if s != nil {
			a.submitter = s
		}
	}
}

// WithLogbook attaches the session journal.
func WithLogbook(lb *logbook.Logbook) AppOption {
	return func(a *App) {
		a.logbook = lb
	}
}

// WithLogger overrides the default no-op logger.
func WithLogger(l *zap.Logger) AppOption {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithAccountURL sets the link shown for provider account errors.
func WithAccountURL(url string) AppOption {
	return func(a *App) {
		if url != "" {
			a.accountURL = url
		}
	}
}

// WithMarkdownStyle selects the glamour style used for generated plans.
func WithMarkdownStyle(style string) AppOption {
	return func(a *App) {
		if style != "" {
			a.markdownStyle = style
		}
	}
}

// App is the main application model. It owns one reveal sequencer and shows
// exactly one presentation per phase.
type App struct {
	clock         clock.Clock
	logger        *zap.Logger
	logbook       *logbook.Logbook
	generator     *planner.Generator
	submitter     *contact.Submitter
	accountURL    string
	markdownStyle string

	seq       *reveal.Sequencer
	events    chan reveal.Event
	done      chan struct{}
	closeOnce sync.Once
	ctx       context.Context
	cancel    context.CancelFunc

	phase       reveal.Phase
	lastEntered int
	snapshot    *reveal.Snapshot

	burstFrame    int
	loaderID      int
	loaderVisible bool
	loaderSpinner spinner.Model

	// Set once the sequencer reaches Ready.
	router   *site.Router
	pages    []page
	pageIdx  int
	editing  bool
	viewport viewport.Model

	width  int
	height int
}

// NewApp builds the application for the given launch moment. Nothing is
// scheduled until Init runs.
func NewApp(launch time.Time, opts ...AppOption) *App {
	ctx, cancel := context.WithCancel(context.Background())
	a := &App{
		clock:         clock.Real(),
		logger:        zap.NewNop(),
		generator:     planner.New(nil),
		submitter:     contact.NewSubmitter(contact.Credentials{}),
		accountURL:    "https://aistudio.google.com/app/apikey",
		markdownStyle: styles.NoTTYStyle,
		events:        make(chan reveal.Event, eventBuffer),
		done:          make(chan struct{}),
		ctx:           ctx,
		cancel:        cancel,
		lastEntered:   -1,
		loaderSpinner: spinner.New(spinner.WithSpinner(spinner.MiniDot)),
		viewport:      viewport.New(0, 0),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}

	now := a.clock.Now()
	a.phase = reveal.Initialize(launch, now)
	if snap, ok := reveal.SnapshotAt(launch, now); ok {
		a.snapshot = &snap
	}
	a.seq = reveal.New(launch,
		reveal.WithClock(a.clock),
		reveal.WithLogger(a.logger.Named("reveal")),
		reveal.WithObserver(a.observe),
	)
	return a
}

// observe hands a sequencer event to the UI loop. It gives up once the app
// has shut down so a late timer never blocks.
func (a *App) observe(ev reveal.Event) {
	select {
	case a.events <- ev:
	case <-a.done:
	}
}

func (a *App) waitForEvent() tea.Cmd {
	events, done := a.events, a.done
	return func() tea.Msg {
		select {
		case ev := <-events:
			return sequencerMsg(ev)
		case <-done:
			return nil
		}
	}
}

// Phase returns the phase currently presented.
func (a *App) Phase() reveal.Phase {
	return a.phase
}

// Close stops the sequencer and cancels in-flight requests. It is safe to
// call more than once.
func (a *App) Close() {
	a.closeOnce.Do(func() {
		a.seq.Stop()
		a.cancel()
		close(a.done)
		a.logbook.Info("Session closed · %s", a.phase.FriendlyName())
	})
}

// Init starts the launch sequence.
func (a *App) Init() tea.Cmd {
	a.logbook.Info("Session opened · launch at %s", a.seq.LaunchTime().Format(time.RFC1123))
	a.seq.Start()
	return a.waitForEvent()
}

// Update is called when a message is received.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := a.update(msg)
	a.layout()
	return a, cmd
}

func (a *App) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		for _, p := range a.pages {
			p.resize(a.contentWidth())
		}
		return nil

	case sequencerMsg:
		return a.handleEvent(reveal.Event(msg))

	case burstFrameMsg:
		if a.phase != reveal.PhaseRevealing || msg.frame != a.burstFrame+1 {
			return nil
		}
		a.burstFrame = msg.frame
		if a.burstFrame >= burstFrames {
			return nil
		}
		return burstTick(a.burstFrame + 1)

	case loaderDismissMsg:
		if msg.id == a.loaderID {
			a.loaderVisible = false
		}
		return nil

	case spinner.TickMsg:
		var cmds []tea.Cmd
		if a.loaderVisible {
			var cmd tea.Cmd
			a.loaderSpinner, cmd = a.loaderSpinner.Update(msg)
			cmds = append(cmds, cmd)
		}
		for _, p := range a.pages {
			cmds = append(cmds, p.update(msg))
		}
		return tea.Batch(cmds...)

	case planResultMsg, submitResultMsg:
		if a.router == nil {
			return nil
		}
		var cmds []tea.Cmd
		for _, p := range a.pages {
			cmds = append(cmds, p.update(msg))
		}
		return tea.Batch(cmds...)

	case tea.KeyMsg:
		return a.handleKey(msg)
	}
	return nil
}

func (a *App) handleEvent(ev reveal.Event) tea.Cmd {
	if ev.Kind == reveal.EventSnapshot {
		a.snapshot = ev.Snapshot
		return a.waitForEvent()
	}
	if int(ev.Phase) <= a.lastEntered {
		return a.waitForEvent()
	}
	a.lastEntered = int(ev.Phase)
	a.phase = ev.Phase
	a.logbook.Info("Phase · %s", ev.Phase.FriendlyName())
	a.logger.Debug("presenting phase", zap.Stringer("phase", ev.Phase))

	switch ev.Phase {
	case reveal.PhaseRevealing:
		a.burstFrame = 0
		return tea.Batch(burstTick(1), a.waitForEvent())
	case reveal.PhasePriming:
		a.loaderID++
		a.loaderVisible = true
		return tea.Batch(loaderDismiss(a.loaderID), a.loaderSpinner.Tick, a.waitForEvent())
	case reveal.PhaseReady:
		a.loaderVisible = false
		a.mountSite()
		return nil
	default:
		return a.waitForEvent()
	}
}

// mountSite builds the router and its pages. It only runs on entering Ready.
func (a *App) mountSite() {
	a.router = site.NewRouter()
	a.pages = make([]page, 0, len(a.router.Pages()))
	for _, meta := range a.router.Pages() {
		switch meta.Path {
		case site.PathAITools:
			a.pages = append(a.pages, newToolsPage(a.ctx, meta, a.generator, a.logbook, a.accountURL, a.markdownStyle))
		case site.PathContact:
			a.pages = append(a.pages, newContactPage(a.ctx, meta, a.submitter, a.logbook))
		default:
			a.pages = append(a.pages, homePage{meta: meta})
		}
	}
	for _, p := range a.pages {
		p.resize(a.contentWidth())
	}
	a.pageIdx = a.router.IndexOf(site.PathHome)
}

func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()
	if key == "ctrl+c" {
		return a.quit()
	}
	if a.router == nil {
		if key == "q" || key == "esc" {
			return a.quit()
		}
		return nil
	}

	current := a.pages[a.pageIdx]
	if a.editing {
		if key == "esc" {
			a.editing = false
			current.blur()
			return nil
		}
		return current.update(msg)
	}

	switch key {
	case "q":
		return a.quit()
	case "tab":
		a.navigate(a.pageIdx + 1)
	case "shift+tab":
		a.navigate(a.pageIdx - 1)
	case "1", "2", "3":
		a.navigate(int(key[0] - '1'))
	case "enter", "i":
		if current.editable() {
			a.editing = true
			return current.focus()
		}
	default:
		var cmd tea.Cmd
		a.viewport, cmd = a.viewport.Update(msg)
		return cmd
	}
	return nil
}

func (a *App) navigate(idx int) {
	target := a.router.At(idx)
	next := a.router.IndexOf(target.Path)
	if next == a.pageIdx {
		return
	}
	a.pages[a.pageIdx].blur()
	a.editing = false
	a.pageIdx = next
	a.viewport.GotoTop()
	a.logger.Debug("page", zap.String("path", string(target.Path)))
}

func (a *App) quit() tea.Cmd {
	a.Close()
	return tea.Quit
}

// View renders the presentation for the current phase.
func (a *App) View() string {
	switch a.phase {
	case reveal.PhaseAwaitingLaunch:
		return place(a.width, a.height, renderCountdown(a.snapshot))
	case reveal.PhaseRevealing:
		return renderBurst(a.burstFrame, a.width, a.height)
	case reveal.PhasePriming:
		if !a.loaderVisible {
			return ""
		}
		return place(a.width, a.height, renderLoader(a.loaderSpinner.View()))
	}
	if a.router == nil {
		return ""
	}
	return a.renderSite()
}

// contentWidth is the width available to a page body.
func (a *App) contentWidth() int {
	if a.width <= 0 {
		return 98
	}
	return a.width - 2
}

// layout sizes the viewport around the site chrome and loads the current
// page into it. It runs after every update so View only reads state.
func (a *App) layout() {
	if a.router == nil || a.height <= 0 {
		return
	}
	chrome := lipgloss.Height(a.renderNavbar()) + lipgloss.Height(a.renderFooter()) + 1
	if logPanel := a.renderLogPanel(); logPanel != "" {
		chrome += lipgloss.Height(logPanel)
	}
	a.viewport.Width = a.contentWidth() + 2
	a.viewport.Height = max(3, a.height-chrome)
	a.viewport.SetContent(a.pages[a.pageIdx].view(a.contentWidth()))
}

func (a *App) renderSite() string {
	body := a.viewport.View()
	if a.height <= 0 {
		body = a.pages[a.pageIdx].view(a.contentWidth())
	}
	sections := []string{a.renderNavbar(), body}
	if logPanel := a.renderLogPanel(); logPanel != "" {
		sections = append(sections, logPanel)
	}
	sections = append(sections, a.renderFooter())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
