package notifier

import (
	"sync"
	"time"
)

// Timer is an armed callback that can be cancelled.
type Timer interface {
	// Stop prevents the timer from firing. It reports whether the call stopped the timer.
	Stop() bool
}

// Scheduler arms timers.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// RealScheduler arms timers with time.AfterFunc.
type RealScheduler struct{}

// AfterFunc implements Scheduler.
func (RealScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// ManualScheduler holds armed timers until Tick is called. Delays are ignored:
// every timer armed before a Tick fires on that Tick.
type ManualScheduler struct {
	mu      sync.Mutex
	pending []*manualTimer
}

// NewManualScheduler creates an empty ManualScheduler.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

type manualTimer struct {
	s       *ManualScheduler
	f       func()
	stopped bool
	fired   bool
}

// AfterFunc implements Scheduler.
func (s *ManualScheduler) AfterFunc(_ time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &manualTimer{s: s, f: f}
	s.pending = append(s.pending, t)
	return t
}

func (t *manualTimer) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// Tick fires every timer armed and not stopped so far, in arming order,
// and returns how many fired. Timers armed by the callbacks wait for the next Tick.
func (s *ManualScheduler) Tick() int {
	s.mu.Lock()
	due := s.pending
	s.pending = nil
	var run []func()
	for _, t := range due {
		if t.stopped {
			continue
		}
		t.fired = true
		run = append(run, t.f)
	}
	s.mu.Unlock()

	for _, f := range run {
		f()
	}
	return len(run)
}

// Pending returns the number of armed timers that have not been stopped.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.pending {
		if !t.stopped {
			n++
		}
	}
	return n
}
