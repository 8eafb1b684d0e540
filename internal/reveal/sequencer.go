package reveal

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kingrea/aib-club/internal/clock"
)

// Fixed timings of the launch sequence.
const (
	CadenceInterval = time.Second
	PrimingAfter    = 2500 * time.Millisecond // from entering Revealing
	ReadyAfter      = 3500 * time.Millisecond // from entering Revealing
)

// EventKind distinguishes what an Event reports.
type EventKind int

const (
	EventPhase    EventKind = iota // A phase was entered
	EventSnapshot                  // The countdown was recomputed
)

// Event is delivered to the observer for every phase entry and every
// countdown recomputation, in the order they happened.
type Event struct {
	Kind  EventKind
	Phase Phase
	// Snapshot is nil when the countdown has run out.
	Snapshot *Snapshot
	At       time.Time
}

// Observer receives sequencer events. It is never called concurrently.
type Observer func(Event)

// Option customizes Sequencer construction.
type Option func(*Sequencer)

// WithClock overrides the wall clock and timer source.
func WithClock(c clock.Clock) Option {
	return func(s *Sequencer) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithObserver registers the event observer.
func WithObserver(o Observer) Option {
	return func(s *Sequencer) {
		if o != nil {
			s.observer = o
		}
	}
}

// WithLogger overrides the default no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Sequencer) {
		if l != nil {
			s.logger = l
		}
	}
}

// token is one armed timer owned by the sequencer. It stays armed only while
// the current phase is in validIn.
type token struct {
	name    string
	timer   clock.Timer
	validIn phaseSet
}

// Sequencer gates the main application behind a launch moment and plays the
// reveal sequence exactly once.
type Sequencer struct {
	launch   time.Time
	clock    clock.Clock
	observer Observer
	logger   *zap.Logger

	// dispatch serializes timer handlers together with event delivery so
	// observers see events in order.
	dispatch sync.Mutex

	mu       sync.Mutex
	phase    Phase
	snapshot *Snapshot
	entered  bool
	stopped  bool
	tokens   []*token
}

// New prepares a sequencer for the given launch moment. Nothing is scheduled
// until Start is called.
func New(launch time.Time, opts ...Option) *Sequencer {
	s := &Sequencer{
		launch:   launch,
		clock:    clock.Real(),
		observer: func(Event) {},
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// LaunchTime returns the launch moment the sequencer was built with.
func (s *Sequencer) LaunchTime() time.Time {
	return s.launch
}

// Start enters the initial phase and arms its timers. Calling Start again, or
// after Stop, returns the current phase without side effects.
func (s *Sequencer) Start() Phase {
	s.dispatch.Lock()
	defer s.dispatch.Unlock()

	s.mu.Lock()
	if s.entered || s.stopped {
		p := s.phase
		s.mu.Unlock()
		return p
	}
	now := s.clock.Now()
	initial := Initialize(s.launch, now)
	events := s.enterLocked(initial, now)
	s.mu.Unlock()

	s.deliver(events)
	return initial
}

// Stop cancels every pending timer. No phase change or event happens from a
// timer after Stop returns. Stop is idempotent.
func (s *Sequencer) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.stopped = true
	cancelled := len(s.tokens)
	for _, tok := range s.tokens {
		tok.timer.Stop()
	}
	s.tokens = nil
	s.logger.Debug("sequencer stopped",
		zap.Stringer("phase", s.phase),
		zap.Int("cancelled_timers", cancelled))
}

// Phase returns the active phase.
func (s *Sequencer) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Snapshot returns the latest countdown snapshot, if one is available.
func (s *Sequencer) Snapshot() (Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snapshot == nil {
		return Snapshot{}, false
	}
	return *s.snapshot, true
}

// Pending returns the number of armed timers.
func (s *Sequencer) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tokens)
}

// Stopped reports whether Stop has been called.
func (s *Sequencer) Stopped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopped
}

// enterLocked moves to p, disarms tokens that are not valid in p and arms the
// timers p owns. Moving backwards or re-entering the same phase is ignored.
func (s *Sequencer) enterLocked(p Phase, now time.Time) []Event {
	if s.entered && p <= s.phase {
		return nil
	}
	s.entered = true
	s.phase = p
	s.disarmLocked(p)
	s.logger.Info("phase entered",
		zap.Stringer("phase", p),
		zap.Time("launch_at", s.launch))

	events := []Event{{Kind: EventPhase, Phase: p, Snapshot: s.snapshot, At: now}}

	switch p {
	case PhaseAwaitingLaunch:
		snap, ok := SnapshotAt(s.launch, now)
		if ok {
			s.snapshot = &snap
		} else {
			s.snapshot = nil
		}
		events[0].Snapshot = s.snapshot
		events = append(events, Event{Kind: EventSnapshot, Phase: p, Snapshot: s.snapshot, At: now})
		s.armLocked("cadence", CadenceInterval, phasesOf(PhaseAwaitingLaunch), s.onCadence)
		s.armLocked("deadline", s.launch.Sub(now), phasesOf(PhaseAwaitingLaunch), s.onDeadline)
	case PhaseRevealing:
		s.snapshot = nil
		events[0].Snapshot = nil
		s.armLocked("priming", PrimingAfter, phasesOf(PhaseRevealing), s.advanceTo(PhasePriming))
		s.armLocked("ready", ReadyAfter, phasesOf(PhaseRevealing, PhasePriming), s.advanceTo(PhaseReady))
	case PhasePriming, PhaseReady:
		// Priming inherits the ready timer armed on entering Revealing.
	}
	return events
}

// armLocked schedules fn after d. The callback runs only if the token is
// still owned when it fires.
func (s *Sequencer) armLocked(name string, d time.Duration, validIn phaseSet, fn func(time.Time) []Event) {
	tok := &token{name: name, validIn: validIn}
	tok.timer = s.clock.AfterFunc(d, func() { s.fire(tok, fn) })
	s.tokens = append(s.tokens, tok)
}

// disarmLocked cancels every token that is not valid in p.
func (s *Sequencer) disarmLocked(p Phase) {
	kept := s.tokens[:0]
	for _, tok := range s.tokens {
		if tok.validIn.has(p) {
			kept = append(kept, tok)
			continue
		}
		tok.timer.Stop()
		s.logger.Debug("timer cancelled", zap.String("timer", tok.name), zap.Stringer("phase", p))
	}
	s.tokens = kept
}

// releaseLocked removes tok from the owned set. It reports false when the
// token was already cancelled, which makes the firing stale.
func (s *Sequencer) releaseLocked(tok *token) bool {
	for i, candidate := range s.tokens {
		if candidate == tok {
			s.tokens = append(s.tokens[:i], s.tokens[i+1:]...)
			return true
		}
	}
	return false
}

func (s *Sequencer) fire(tok *token, fn func(time.Time) []Event) {
	s.dispatch.Lock()
	defer s.dispatch.Unlock()

	s.mu.Lock()
	if s.stopped || !tok.validIn.has(s.phase) || !s.releaseLocked(tok) {
		s.mu.Unlock()
		return
	}
	events := fn(s.clock.Now())
	s.mu.Unlock()

	s.deliver(events)
}

func (s *Sequencer) onCadence(now time.Time) []Event {
	snap, ok := SnapshotAt(s.launch, now)
	if !ok {
		s.snapshot = nil
		events := []Event{{Kind: EventSnapshot, Phase: s.phase, At: now}}
		return append(events, s.enterLocked(PhaseRevealing, now)...)
	}
	s.snapshot = &snap
	s.armLocked("cadence", CadenceInterval, phasesOf(PhaseAwaitingLaunch), s.onCadence)
	return []Event{{Kind: EventSnapshot, Phase: s.phase, Snapshot: &snap, At: now}}
}

func (s *Sequencer) onDeadline(now time.Time) []Event {
	return s.enterLocked(PhaseRevealing, now)
}

func (s *Sequencer) advanceTo(p Phase) func(time.Time) []Event {
	return func(now time.Time) []Event {
		return s.enterLocked(p, now)
	}
}

// deliver hands events to the observer in order. Events still queued when
// Stop lands are dropped, including those computed before it.
func (s *Sequencer) deliver(events []Event) {
	for _, ev := range events {
		if s.Stopped() {
			return
		}
		s.observer(ev)
	}
}
