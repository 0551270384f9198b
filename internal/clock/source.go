package clock

import (
	"time"
)

// Source abstracts the two underlying clocks the core depends on: the
// wall clock (epoch seconds, possibly not yet synchronized) and a
// monotonic uptime counter in milliseconds that is allowed to wrap.
//
// Tests inject a fake Source to drive time without sleeping.
type Source interface {
	// Epoch returns the current wall-clock time as Unix seconds.
	// Before network time sync it may read near zero.
	Epoch() int64

	// Millis returns device uptime in milliseconds as a rolling
	// 32-bit counter. Wraparound is expected and handled by callers.
	Millis() uint32
}

// systemSource is the production Source backed by the Go runtime clock.
type systemSource struct {
	start time.Time
}

// NewSystemSource returns a Source backed by time.Now.
func NewSystemSource() Source {
	return &systemSource{start: time.Now()}
}

func (s *systemSource) Epoch() int64 {
	return time.Now().Unix()
}

func (s *systemSource) Millis() uint32 {
	return uint32(time.Since(s.start) / time.Millisecond)
}

// Elapsed reports whether deadline has been reached on a rolling
// millisecond counter. The unsigned subtraction cast to signed is
// correct across a single wrap of the counter.
func Elapsed(now, deadline uint32) bool {
	return int32(now-deadline) >= 0
}
