// Package reveal sequences the launch gate: a countdown to a fixed launch
// moment, a burst animation, a short loading screen and finally the main
// application. Phases only move forward. Every phase owns the timers that can
// move it on; entering a phase cancels the timers that are no longer valid, and
// Stop cancels all of them so a torn-down sequencer can never change phase.
package reveal
