package reveal

import (
	"fmt"
	"time"
)

const (
	msPerSecond = int64(1000)
	msPerMinute = 60 * msPerSecond
	msPerHour   = 60 * msPerMinute
	msPerDay    = 24 * msPerHour
)

// Snapshot is the remaining time until launch broken into display counters.
type Snapshot struct {
	Days    int
	Hours   int
	Minutes int
	Seconds int
}

// SnapshotAt computes the countdown for now. It returns false once the launch
// moment has been reached.
func SnapshotAt(launch, now time.Time) (Snapshot, bool) {
	remaining := launch.Sub(now)
	if remaining <= 0 {
		return Snapshot{}, false
	}
	ms := remaining.Milliseconds()
	return Snapshot{
		Days:    int(ms / msPerDay),
		Hours:   int(ms / msPerHour % 24),
		Minutes: int(ms / msPerMinute % 60),
		Seconds: int(ms / msPerSecond % 60),
	}, true
}

// Counters returns the four zero-padded counter values in display order.
func (s Snapshot) Counters() [4]string {
	return [4]string{
		pad2(s.Days),
		pad2(s.Hours),
		pad2(s.Minutes),
		pad2(s.Seconds),
	}
}

// String renders the snapshot as "DDd HHh MMm SSs".
func (s Snapshot) String() string {
	c := s.Counters()
	return fmt.Sprintf("%sd %sh %sm %ss", c[0], c[1], c[2], c[3])
}

func pad2(v int) string {
	return fmt.Sprintf("%02d", v)
}
