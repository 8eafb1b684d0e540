// internal/reveal/phase.go
//
// Phases of the launch gate. The order of the constants is the only order in
// which a sequencer may move through them.

package reveal

import "time"

// Phase represents which presentation is active.
type Phase int

const (
	PhaseAwaitingLaunch Phase = iota // Countdown to the launch moment
	PhaseRevealing                   // Celebratory burst, non-interactive
	PhasePriming                     // Short loading screen
	PhaseReady                       // Main application mounted
)

// String returns a human-readable name for the phase
func (p Phase) String() string {
	switch p {
	case PhaseAwaitingLaunch:
		return "Awaiting Launch"
	case PhaseRevealing:
		return "Revealing"
	case PhasePriming:
		return "Priming"
	case PhaseReady:
		return "Ready"
	default:
		return "Unknown"
	}
}

// FriendlyName returns a short label suitable for the journal.
func (p Phase) FriendlyName() string {
	switch p {
	case PhaseAwaitingLaunch:
		return "Launching Soon"
	case PhaseRevealing:
		return "Launch"
	case PhasePriming:
		return "Loading"
	case PhaseReady:
		return "Site Open"
	default:
		return p.String()
	}
}

// Next returns the phase that follows p. Ready is its own successor.
func (p Phase) Next() Phase {
	if p >= PhaseReady {
		return PhaseReady
	}
	return p + 1
}

// IsTerminal reports whether no further transition can happen.
func (p Phase) IsTerminal() bool {
	return p == PhaseReady
}

// Initialize returns the phase a sequencer starts in for the given launch
// moment. A launch time that has already passed skips the countdown.
func Initialize(launch, now time.Time) Phase {
	if now.Before(launch) {
		return PhaseAwaitingLaunch
	}
	return PhaseRevealing
}

// phaseSet is a bitmask of phases a scheduled timer stays valid in.
type phaseSet uint8

func phasesOf(phases ...Phase) phaseSet {
	var set phaseSet
	for _, p := range phases {
		set |= 1 << uint(p)
	}
	return set
}

func (s phaseSet) has(p Phase) bool {
	return s&(1<<uint(p)) != 0
}
