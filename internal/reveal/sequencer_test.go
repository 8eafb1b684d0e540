package reveal

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/kingrea/aib-club/internal/clock"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) observe(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

type phaseAt struct {
	Phase  Phase
	Offset time.Duration
}

func (r *recorder) phases() []phaseAt {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []phaseAt
	for _, ev := range r.events {
		if ev.Kind == EventPhase {
			out = append(out, phaseAt{Phase: ev.Phase, Offset: ev.At.Sub(t0)})
		}
	}
	return out
}

func (r *recorder) snapshots() []*Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Snapshot
	for _, ev := range r.events {
		if ev.Kind == EventSnapshot {
			out = append(out, ev.Snapshot)
		}
	}
	return out
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func newManualSequencer(launch time.Time) (*Sequencer, *clock.Manual, *recorder) {
	c := clock.NewManual(t0)
	rec := &recorder{}
	seq := New(launch, WithClock(c), WithObserver(rec.observe))
	return seq, c, rec
}

func TestInitialize(t *testing.T) {
	cases := []struct {
		name   string
		offset time.Duration
		want   Phase
	}{
		{"far future", 72 * time.Hour, PhaseAwaitingLaunch},
		{"one nanosecond ahead", time.Nanosecond, PhaseAwaitingLaunch},
		{"exactly now", 0, PhaseRevealing},
		{"already past", -time.Second, PhaseRevealing},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Initialize(t0.Add(tc.offset), t0))
		})
	}
}

func TestSnapshotAtFormula(t *testing.T) {
	d := 26*time.Hour + 3*time.Minute + 4*time.Second + 567*time.Millisecond
	snap, ok := SnapshotAt(t0.Add(d), t0)
	require.True(t, ok)
	assert.Equal(t, Snapshot{Days: 1, Hours: 2, Minutes: 3, Seconds: 4}, snap)
	assert.Equal(t, "01d 02h 03m 04s", snap.String())

	snap, ok = SnapshotAt(t0.Add(999*time.Millisecond), t0)
	require.True(t, ok)
	assert.Equal(t, Snapshot{}, snap)

	_, ok = SnapshotAt(t0, t0)
	assert.False(t, ok, "zero remaining has no snapshot")
	_, ok = SnapshotAt(t0.Add(-time.Minute), t0)
	assert.False(t, ok, "negative remaining has no snapshot")
}

func TestSnapshotCountersPad(t *testing.T) {
	snap := Snapshot{Days: 123, Hours: 4, Minutes: 0, Seconds: 59}
	assert.Equal(t, [4]string{"123", "04", "00", "59"}, snap.Counters())
}

func TestSequenceFromCountdown(t *testing.T) {
	seq, c, rec := newManualSequencer(t0.Add(5 * time.Second))

	require.Equal(t, PhaseAwaitingLaunch, seq.Start())
	snap, ok := seq.Snapshot()
	require.True(t, ok)
	assert.Equal(t, Snapshot{Seconds: 5}, snap)

	c.Advance(time.Second)
	snap, ok = seq.Snapshot()
	require.True(t, ok)
	assert.Equal(t, Snapshot{Seconds: 4}, snap)

	c.Advance(4 * time.Second)
	assert.Equal(t, PhaseRevealing, seq.Phase())
	c.Advance(2500 * time.Millisecond)
	assert.Equal(t, PhasePriming, seq.Phase())
	c.Advance(time.Second)
	assert.Equal(t, PhaseReady, seq.Phase())

	assert.Equal(t, []phaseAt{
		{PhaseAwaitingLaunch, 0},
		{PhaseRevealing, 5 * time.Second},
		{PhasePriming, 7500 * time.Millisecond},
		{PhaseReady, 8500 * time.Millisecond},
	}, rec.phases())
	assert.Zero(t, seq.Pending())
	assert.Zero(t, c.Pending())
}

func TestSequenceSkipsCountdownWhenLaunchPassed(t *testing.T) {
	seq, c, rec := newManualSequencer(t0.Add(-time.Second))

	require.Equal(t, PhaseRevealing, seq.Start())
	assert.Equal(t, 2, seq.Pending())
	c.Advance(10 * time.Second)

	assert.Equal(t, []phaseAt{
		{PhaseRevealing, 0},
		{PhasePriming, 2500 * time.Millisecond},
		{PhaseReady, 3500 * time.Millisecond},
	}, rec.phases())
	assert.Empty(t, rec.snapshots(), "countdown never shown")
}

func TestDeadlineFiresBetweenCadenceTicks(t *testing.T) {
	seq, c, rec := newManualSequencer(t0.Add(500 * time.Millisecond))

	require.Equal(t, PhaseAwaitingLaunch, seq.Start())
	snaps := rec.snapshots()
	require.Len(t, snaps, 1)
	require.NotNil(t, snaps[0])
	assert.Equal(t, Snapshot{}, *snaps[0])

	c.Advance(499 * time.Millisecond)
	assert.Equal(t, PhaseAwaitingLaunch, seq.Phase())
	c.Advance(time.Millisecond)
	assert.Equal(t, PhaseRevealing, seq.Phase())

	phases := rec.phases()
	require.Len(t, phases, 2)
	assert.Equal(t, 500*time.Millisecond, phases[1].Offset)
	// cadence and deadline timers are gone, reveal timers armed
	assert.Equal(t, 2, seq.Pending())
	assert.Equal(t, 2, c.Pending())
}

func TestCadenceTickAfterClockJumpRevealsImmediately(t *testing.T) {
	seq, c, rec := newManualSequencer(t0.Add(10 * time.Second))
	seq.Start()
	c.Advance(3 * time.Second)

	// Wall clock jumps past launch before the deadline timer is due.
	c.Set(t0.Add(20 * time.Second))
	c.Advance(0)

	assert.Equal(t, PhaseRevealing, seq.Phase())
	snaps := rec.snapshots()
	require.NotEmpty(t, snaps)
	assert.Nil(t, snaps[len(snaps)-1], "expired countdown reports no snapshot")
	_, ok := seq.Snapshot()
	assert.False(t, ok)
	assert.Equal(t, 2, seq.Pending(), "deadline timer cancelled, reveal timers armed")
}

func TestPhasesNeverMoveBackwards(t *testing.T) {
	seq, c, rec := newManualSequencer(t0.Add(1500 * time.Millisecond))
	seq.Start()
	for i := 0; i < 20; i++ {
		c.Advance(500 * time.Millisecond)
	}
	phases := rec.phases()
	require.NotEmpty(t, phases)
	for i := 1; i < len(phases); i++ {
		assert.Equal(t, phases[i-1].Phase.Next(), phases[i].Phase, "step %d", i)
	}
	assert.True(t, seq.Phase().IsTerminal())
}

func TestStopDuringCountdownCancelsTimers(t *testing.T) {
	seq, c, rec := newManualSequencer(t0.Add(time.Hour))
	seq.Start()
	require.Equal(t, 2, seq.Pending())

	seq.Stop()
	assert.Zero(t, seq.Pending())
	assert.Zero(t, c.Pending())
	before := rec.count()

	c.Advance(2 * time.Hour)
	assert.Equal(t, PhaseAwaitingLaunch, seq.Phase())
	assert.Equal(t, before, rec.count())
}

func TestStopDuringRevealCancelsBothTimers(t *testing.T) {
	seq, c, rec := newManualSequencer(t0)
	require.Equal(t, PhaseRevealing, seq.Start())
	require.Equal(t, 2, c.Pending())

	seq.Stop()
	assert.Zero(t, c.Pending())
	c.Advance(time.Minute)
	assert.Equal(t, PhaseRevealing, seq.Phase())
	assert.Len(t, rec.phases(), 1)
}

func TestStopDuringPrimingCancelsReadyTimer(t *testing.T) {
	seq, c, _ := newManualSequencer(t0)
	seq.Start()
	c.Advance(PrimingAfter)
	require.Equal(t, PhasePriming, seq.Phase())
	require.Equal(t, 1, seq.Pending(), "ready timer inherited from Revealing")

	seq.Stop()
	c.Advance(time.Minute)
	assert.Equal(t, PhasePriming, seq.Phase())
}

// leakyClock hands out timers whose Stop does nothing, like a time.Timer whose
// callback has already been started.
type leakyClock struct {
	*clock.Manual
}

type leakyTimer struct{}

func (leakyTimer) Stop() bool { return false }

func (l leakyClock) AfterFunc(d time.Duration, f func()) clock.Timer {
	l.Manual.AfterFunc(d, f)
	return leakyTimer{}
}

func TestStaleTimerCannotMutatePhase(t *testing.T) {
	c := leakyClock{clock.NewManual(t0)}
	rec := &recorder{}
	seq := New(t0.Add(2*time.Second), WithClock(c), WithObserver(rec.observe))
	seq.Start()
	c.Advance(time.Second)
	seq.Stop()

	c.Advance(time.Hour)
	assert.Equal(t, PhaseAwaitingLaunch, seq.Phase())
	for _, p := range rec.phases() {
		assert.Equal(t, PhaseAwaitingLaunch, p.Phase)
	}
}

func TestSupersededTimerIsIgnored(t *testing.T) {
	c := leakyClock{clock.NewManual(t0)}
	rec := &recorder{}
	seq := New(t0.Add(3*time.Second), WithClock(c), WithObserver(rec.observe))
	seq.Start()
	// The cadence tick at 3s still fires even though the deadline already moved
	// the sequencer to Revealing; it must not emit or change anything.
	c.Advance(20 * time.Second)

	phases := rec.phases()
	require.Len(t, phases, 4)
	assert.Equal(t, PhaseReady, seq.Phase())
	assert.Len(t, rec.snapshots(), 3, "snapshots at 0s, 1s and 2s only")
}

func TestStartIsIdempotent(t *testing.T) {
	seq, c, rec := newManualSequencer(t0.Add(time.Minute))
	seq.Start()
	seq.Start()
	assert.Len(t, rec.phases(), 1)
	assert.Equal(t, 2, c.Pending())

	seq.Stop()
	seq.Stop()
	assert.True(t, seq.Stopped())
	assert.Equal(t, PhaseAwaitingLaunch, seq.Start())
	assert.Zero(t, c.Pending())
}

func TestObserverMayStopSequencer(t *testing.T) {
	c := clock.NewManual(t0)
	var seq *Sequencer
	seq = New(t0, WithClock(c), WithObserver(func(ev Event) {
		if ev.Kind == EventPhase && ev.Phase == PhasePriming {
			seq.Stop()
		}
	}))
	seq.Start()
	c.Advance(time.Minute)
	assert.Equal(t, PhasePriming, seq.Phase())
}

func TestStopDropsEventsQueuedBeforeIt(t *testing.T) {
	c := clock.NewManual(t0)
	rec := &recorder{}
	blocked := make(chan struct{})
	release := make(chan struct{})
	seq := New(t0.Add(10*time.Second), WithClock(c), WithObserver(func(ev Event) {
		rec.observe(ev)
		if ev.Kind == EventSnapshot && ev.Snapshot == nil {
			close(blocked)
			<-release
		}
	}))
	seq.Start()
	c.Advance(3 * time.Second)
	c.Set(t0.Add(20 * time.Second))

	// The expired cadence tick yields an empty snapshot followed by the
	// Revealing entry; Stop lands while the first is being observed.
	done := make(chan struct{})
	go func() {
		defer close(done)
		c.Advance(0)
	}()
	<-blocked
	seq.Stop()
	close(release)
	<-done

	rec.mu.Lock()
	last := rec.events[len(rec.events)-1]
	rec.mu.Unlock()
	assert.Equal(t, EventSnapshot, last.Kind)
	assert.Nil(t, last.Snapshot)
	for _, p := range rec.phases() {
		assert.NotEqual(t, PhaseRevealing, p.Phase, "no phase entry is observed after Stop")
	}
	assert.Zero(t, seq.Pending())
}

func TestRealClockStopLeavesNoGoroutines(t *testing.T) {
	rec := &recorder{}
	seq := New(time.Now().Add(time.Hour), WithObserver(rec.observe))
	require.Equal(t, PhaseAwaitingLaunch, seq.Start())
	seq.Stop()

	revealing := New(time.Now().Add(-time.Hour), WithObserver(rec.observe))
	require.Equal(t, PhaseRevealing, revealing.Start())
	revealing.Stop()
	assert.Zero(t, revealing.Pending())
}

func TestRealClockReachesRevealAtDeadline(t *testing.T) {
	events := make(chan Event, 16)
	seq := New(time.Now().Add(50*time.Millisecond), WithObserver(func(ev Event) { events <- ev }))
	defer seq.Stop()
	seq.Start()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case ev := <-events:
			if ev.Kind == EventPhase && ev.Phase == PhaseRevealing {
				return
			}
		case <-deadline:
			t.Fatalf("sequencer did not reach Revealing")
		}
	}
}
