package tui

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kingrea/aib-club/internal/clock"
	"github.com/kingrea/aib-club/internal/contact"
	"github.com/kingrea/aib-club/internal/logbook"
	"github.com/kingrea/aib-club/internal/planner"
	"github.com/kingrea/aib-club/internal/reveal"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type stubBackend struct {
	reply string
	err   error
}

func (s stubBackend) GenerateText(context.Context, string) (string, error) {
	return s.reply, s.err
}

func newTestApp(t *testing.T, launch time.Time, opts ...AppOption) (*App, *clock.Manual) {
	t.Helper()
	m := clock.NewManual(t0)
	app := NewApp(launch, append([]AppOption{WithClock(m)}, opts...)...)
	t.Cleanup(app.Close)
	app.Init()
	pump(app)
	return app, m
}

// pump feeds every queued sequencer event through Update.
func pump(app *App) {
	for {
		select {
		case ev := <-app.events:
			app.Update(sequencerMsg(ev))
		default:
			return
		}
	}
}

// collect runs cmd and returns the messages it produced, flattening batches.
// Only use it on commands that return immediately.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func press(app *App, key string) tea.Cmd {
	var msg tea.KeyMsg
	switch key {
	case "ctrl+c":
		msg = tea.KeyMsg{Type: tea.KeyCtrlC}
	case "ctrl+s":
		msg = tea.KeyMsg{Type: tea.KeyCtrlS}
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		msg = tea.KeyMsg{Type: tea.KeyShiftTab}
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	_, cmd := app.Update(msg)
	return cmd
}

func readyApp(t *testing.T, opts ...AppOption) *App {
	t.Helper()
	app, m := newTestApp(t, t0.Add(-time.Second), opts...)
	m.Advance(reveal.ReadyAfter)
	pump(app)
	if app.Phase() != reveal.PhaseReady {
		t.Fatalf("phase = %s, want Ready", app.Phase())
	}
	return app
}

func TestCountdownShowsPaddedSnapshot(t *testing.T) {
	launch := t0.Add(26*time.Hour + 3*time.Minute + 4*time.Second)
	app, m := newTestApp(t, launch)
	if app.Phase() != reveal.PhaseAwaitingLaunch {
		t.Fatalf("phase = %s, want Awaiting Launch", app.Phase())
	}
	view := app.View()
	for _, want := range []string{"Launching Soon", "01", "02", "03", "04", "DAYS", "SECONDS"} {
		if !strings.Contains(view, want) {
			t.Fatalf("countdown view missing %q:\n%s", want, view)
		}
	}

	m.Advance(time.Second)
	pump(app)
	if app.snapshot == nil || app.snapshot.Seconds != 3 {
		t.Fatalf("snapshot after one tick = %+v, want 3 seconds", app.snapshot)
	}
	if app.router != nil {
		t.Fatalf("router must not exist before Ready")
	}
}

func TestCountdownWithoutSnapshotShowsLaunchingNow(t *testing.T) {
	if view := renderCountdown(nil); !strings.Contains(view, "Launching now...") {
		t.Fatalf("expected launching-now text, got:\n%s", view)
	}
}

func TestFullSequenceMountsSiteOnlyWhenReady(t *testing.T) {
	app, m := newTestApp(t, t0.Add(5*time.Second))

	m.Advance(5 * time.Second)
	pump(app)
	if app.Phase() != reveal.PhaseRevealing {
		t.Fatalf("phase = %s, want Revealing", app.Phase())
	}
	if app.router != nil || strings.Contains(app.View(), "AI Tools") {
		t.Fatalf("site must not be reachable while revealing")
	}

	m.Advance(reveal.PrimingAfter)
	pump(app)
	if app.Phase() != reveal.PhasePriming || !app.loaderVisible {
		t.Fatalf("expected visible loader in Priming, phase = %s", app.Phase())
	}
	if !strings.Contains(app.View(), "Loading") {
		t.Fatalf("priming view should show the loader")
	}
	if app.router != nil {
		t.Fatalf("router must not exist while priming")
	}

	m.Advance(reveal.ReadyAfter - reveal.PrimingAfter)
	pump(app)
	if app.Phase() != reveal.PhaseReady || app.router == nil {
		t.Fatalf("expected mounted site in Ready, phase = %s", app.Phase())
	}
	view := app.View()
	for _, want := range []string{"Home", "AI Tools", "Contact", "AI IN BUSINESS CLUB", "All rights reserved."} {
		if !strings.Contains(view, want) {
			t.Fatalf("ready view missing %q", want)
		}
	}
}

func TestLaunchInPastSkipsCountdown(t *testing.T) {
	app, _ := newTestApp(t, t0.Add(-time.Second))
	if app.Phase() != reveal.PhaseRevealing {
		t.Fatalf("phase = %s, want Revealing", app.Phase())
	}
}

func TestBurstFramesFollowOneChain(t *testing.T) {
	app, _ := newTestApp(t, t0.Add(-time.Second))
	_, cmd := app.Update(burstFrameMsg{frame: 1})
	if app.burstFrame != 1 || cmd == nil {
		t.Fatalf("first frame should advance and schedule the next")
	}
	app.Update(burstFrameMsg{frame: 7})
	if app.burstFrame != 1 {
		t.Fatalf("out-of-order frame changed animation to %d", app.burstFrame)
	}
	if view := renderBurst(burstFrames, 10, 4); strings.TrimSpace(view) != "" {
		t.Fatalf("burst should be blank once faded, got %q", view)
	}
}

func TestLoaderDismissIgnoresStaleID(t *testing.T) {
	app, m := newTestApp(t, t0.Add(-time.Second))
	m.Advance(reveal.PrimingAfter)
	pump(app)
	app.Update(loaderDismissMsg{id: app.loaderID - 1})
	if !app.loaderVisible {
		t.Fatalf("stale dismiss hid the loader")
	}
	app.Update(loaderDismissMsg{id: app.loaderID})
	if app.loaderVisible {
		t.Fatalf("loader should auto-dismiss")
	}
	if app.Phase() != reveal.PhasePriming {
		t.Fatalf("dismissing the loader must not change phase")
	}
}

func TestQuitBeforeReadyStopsSequencer(t *testing.T) {
	app, m := newTestApp(t, t0.Add(10*time.Second))
	cmd := press(app, "ctrl+c")
	if cmd == nil {
		t.Fatalf("ctrl+c should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
	if !app.seq.Stopped() || app.seq.Pending() != 0 || m.Pending() != 0 {
		t.Fatalf("sequencer left timers armed: seq=%d clock=%d", app.seq.Pending(), m.Pending())
	}
	m.Advance(time.Minute)
	select {
	case ev := <-app.events:
		t.Fatalf("event after quit: %+v", ev)
	default:
	}
	if msg := app.waitForEvent()(); msg != nil {
		t.Fatalf("event wait should end after quit, got %v", msg)
	}
}

func TestPageNavigation(t *testing.T) {
	app := readyApp(t)
	steps := []struct {
		key  string
		want int
	}{
		{"2", 1},
		{"tab", 2},
		{"tab", 0},
		{"shift+tab", 2},
		{"1", 0},
		{"3", 2},
	}
	for _, step := range steps {
		press(app, step.key)
		if app.pageIdx != step.want {
			t.Fatalf("after %q page = %d, want %d", step.key, app.pageIdx, step.want)
		}
	}
}

func TestEditingKeepsKeysInPage(t *testing.T) {
	app := readyApp(t)
	press(app, "2")
	press(app, "enter")
	if !app.editing {
		t.Fatalf("enter should focus the idea input")
	}
	press(app, "3")
	tools := app.pages[1].(*toolsPage)
	if app.pageIdx != 1 || tools.input.Value() != "3" {
		t.Fatalf("typed key should go to the input, page=%d value=%q", app.pageIdx, tools.input.Value())
	}
	press(app, "esc")
	press(app, "3")
	if app.editing || app.pageIdx != 2 {
		t.Fatalf("esc should return to navigation")
	}
}

func TestPlanRequestRendersPlan(t *testing.T) {
	reply := `{"title":"Smart Study Planner","description":"Adapts to deadlines.","steps":[{"title":"Collect syllabi","description":"Gather course data."}]}`
	app := readyApp(t, WithGenerator(planner.New(stubBackend{reply: reply})))
	press(app, "2")
	press(app, "enter")
	tools := app.pages[1].(*toolsPage)
	tools.input.SetValue("study planner")

	cmd := press(app, "enter")
	if !tools.loading || !strings.Contains(app.View(), "Thinking...") {
		t.Fatalf("expected loading state after submit")
	}
	for _, msg := range collect(cmd) {
		app.Update(msg)
	}
	if tools.loading || tools.plan == nil {
		t.Fatalf("expected plan after result, err = %v", tools.err)
	}
	view := app.View()
	for _, want := range []string{"Step-by-Step Development Guide", "Smart Study Planner", "Collect syllabi", "Gather course data."} {
		if !strings.Contains(view, want) {
			t.Fatalf("plan view missing %q", want)
		}
	}
	if strings.Contains(view, "Tip:") {
		t.Fatalf("tip should be hidden once a plan is shown")
	}
}

func TestBlankIdeaIsNotSubmitted(t *testing.T) {
	app := readyApp(t)
	press(app, "2")
	press(app, "enter")
	app.pages[1].(*toolsPage).input.SetValue("   ")
	if cmd := press(app, "enter"); cmd != nil {
		t.Fatalf("blank idea should not start a request")
	}
	if !strings.Contains(app.View(), "Tip:") {
		t.Fatalf("empty state tip should be shown")
	}
}

func TestPlanAccountErrorShowsAccountLink(t *testing.T) {
	backend := stubBackend{err: errors.New("Error 429: You exceeded your current quota")}
	app := readyApp(t,
		WithGenerator(planner.New(backend)),
		WithAccountURL("https://example.test/keys"),
	)
	press(app, "2")
	press(app, "enter")
	app.pages[1].(*toolsPage).input.SetValue("resume optimizer")
	for _, msg := range collect(press(app, "enter")) {
		app.Update(msg)
	}
	view := app.View()
	if !strings.Contains(view, "Gemini API Issue") || !strings.Contains(view, "https://example.test/keys") {
		t.Fatalf("account error should link to the account page:\n%s", view)
	}
}

func TestStalePlanResultIsIgnored(t *testing.T) {
	app := readyApp(t)
	tools := app.pages[1].(*toolsPage)
	tools.requestID = 2
	tools.loading = true
	app.Update(planResultMsg{id: 1, err: errors.New("late")})
	if tools.err != nil || !tools.loading {
		t.Fatalf("stale result must not change the page")
	}
}

func TestContactValidationShowsFieldErrors(t *testing.T) {
	app := readyApp(t)
	press(app, "3")
	press(app, "enter")
	if cmd := press(app, "ctrl+s"); cmd != nil {
		t.Fatalf("invalid form must not reach the network")
	}
	page := app.pages[2].(*contactPage)
	if len(page.fieldErrs) != 3 {
		t.Fatalf("field errors = %v, want 3", page.fieldErrs)
	}
	if !strings.Contains(app.View(), "Name is required.") {
		t.Fatalf("view should show the name error")
	}
}

func TestContactSubmitShowsReceipt(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("OK"))
	}))
	defer srv.Close()

	creds := contact.Credentials{PublicKey: "pub", ServiceID: "svc", TemplateID: "tpl"}
	app := readyApp(t, WithSubmitter(contact.NewSubmitter(creds, contact.WithBaseURL(srv.URL))))
	press(app, "3")
	press(app, "enter")
	page := app.pages[2].(*contactPage)
	page.name.SetValue("Ada Lovelace")
	page.email.SetValue("ada@iu.edu")
	page.message.SetValue("I would like to join the club.")

	cmd := press(app, "ctrl+s")
	if cmd == nil || !page.sending {
		t.Fatalf("valid form should be submitted")
	}
	for _, msg := range collect(cmd) {
		app.Update(msg)
	}
	if page.receipt == nil {
		t.Fatalf("expected receipt, status = %q", page.status)
	}
	if page.name.Value() != "" || page.message.Value() != "" {
		t.Fatalf("form should reset after sending")
	}
	if !strings.Contains(app.View(), "Message sent!") {
		t.Fatalf("success message missing")
	}
}

func TestContactWithoutCredentialsShowsAdminMessage(t *testing.T) {
	app := readyApp(t)
	press(app, "3")
	press(app, "enter")
	page := app.pages[2].(*contactPage)
	page.name.SetValue("Ada Lovelace")
	page.email.SetValue("ada@iu.edu")
	page.message.SetValue("I would like to join the club.")
	for _, msg := range collect(press(app, "ctrl+s")) {
		app.Update(msg)
	}
	if !strings.Contains(page.status, "not configured") {
		t.Fatalf("status = %q, want configuration message", page.status)
	}
}

func TestJournalRecordsPhases(t *testing.T) {
	m := clock.NewManual(t0)
	book, err := logbook.New(filepath.Join(t.TempDir(), "journal.log"), logbook.WithClock(m.Now))
	if err != nil {
		t.Fatalf("new logbook: %v", err)
	}
	app := NewApp(t0.Add(-time.Second), WithClock(m), WithLogbook(book))
	t.Cleanup(app.Close)
	app.Init()
	pump(app)
	m.Advance(reveal.ReadyAfter)
	pump(app)

	lines, total := book.Tail(10)
	joined := strings.Join(lines, "\n")
	for _, want := range []string{
		"2026-03-01T12:00:00Z INFO  Session opened",
		"2026-03-01T12:00:00Z INFO  Phase · Launch",
		"2026-03-01T12:00:03Z INFO  Phase · Loading",
		"2026-03-01T12:00:03Z INFO  Phase · Site Open",
	} {
		if !strings.Contains(joined, want) {
			t.Fatalf("journal missing %q:\n%s", want, joined)
		}
	}
	if total < 4 {
		t.Fatalf("total = %d, want at least 4", total)
	}
	if !strings.Contains(app.View(), "JOURNAL") {
		t.Fatalf("ready view should include the journal panel")
	}
}

func TestContactDeliveryFailureIsJournaledAsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	book, err := logbook.New(filepath.Join(t.TempDir(), "journal.log"))
	if err != nil {
		t.Fatalf("new logbook: %v", err)
	}
	creds := contact.Credentials{PublicKey: "pub", ServiceID: "svc", TemplateID: "tpl"}
	app := readyApp(t, WithLogbook(book), WithSubmitter(contact.NewSubmitter(creds, contact.WithBaseURL(srv.URL))))
	press(app, "3")
	press(app, "enter")
	page := app.pages[2].(*contactPage)
	page.name.SetValue("Ada Lovelace")
	page.email.SetValue("ada@iu.edu")
	page.message.SetValue("I would like to join the club.")
	for _, msg := range collect(press(app, "ctrl+s")) {
		app.Update(msg)
	}
	if page.receipt != nil || page.status == "" {
		t.Fatalf("expected delivery failure, status = %q", page.status)
	}
	lines, _ := book.Tail(1)
	if len(lines) != 1 || !strings.Contains(lines[0], "ERROR Contact delivery failed") {
		t.Fatalf("last journal line = %v, want delivery error", lines)
	}
}

func TestWindowSizeLaysOutSiteOutsideView(t *testing.T) {
	app := readyApp(t)
	app.Update(tea.WindowSizeMsg{Width: 80, Height: 30})
	if app.viewport.Width != 80 || app.viewport.Height <= 0 || app.viewport.Height >= 30 {
		t.Fatalf("viewport = %dx%d, want width 80 and height below the terminal", app.viewport.Width, app.viewport.Height)
	}

	press(app, "3")
	contactView := app.viewport.View()
	if !strings.Contains(contactView, "GET IN TOUCH") {
		t.Fatalf("viewport should hold the contact page after navigation:\n%s", contactView)
	}

	page := app.pages[2].(*contactPage)
	width, height := page.message.Width(), app.viewport.Height
	for i := 0; i < 3; i++ {
		app.View()
	}
	if page.message.Width() != width || app.viewport.Height != height || app.viewport.View() != contactView {
		t.Fatalf("View must not change layout state")
	}
}
