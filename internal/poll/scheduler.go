// Package poll drives the periodic refresh loop. A Scheduler owns the timer
// arithmetic; a Poller runs fetch cycles against the session and hands each
// completed snapshot to the UI over a channel.
package poll

import (
	"sync"
	"time"
)

// Scheduler fires a function on a fixed interval. An interval of zero or
// less disables automatic ticks; Trigger still works so manual refresh stays
// available. At most one timer is armed at a time.
type Scheduler struct {
	mu       sync.Mutex
	run      func()
	interval time.Duration
	timer    *time.Timer
	pending  bool
	stopped  bool
}

// NewScheduler builds a scheduler. Call Start to arm the first tick.
func NewScheduler(interval time.Duration, run func()) *Scheduler {
	return &Scheduler{run: run, interval: interval}
}

// Start arms the first tick. A no-op when polling is disabled.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.armLocked()
}

// Trigger runs one cycle immediately, outside the timer. The pending tick,
// if any, is unaffected.
func (s *Scheduler) Trigger() {
	s.mu.Lock()
	stopped := s.stopped
	s.mu.Unlock()
	if !stopped {
		s.run()
	}
}

// Interval returns the current tick interval.
func (s *Scheduler) Interval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interval
}

// SetInterval changes the tick interval. While a tick is pending the new
// value applies after it fires; when polling was disabled, this arms the
// next tick itself.
func (s *Scheduler) SetInterval(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.interval = d
	s.armLocked()
}

// Stop cancels any pending tick and disables the scheduler for good.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.pending = false
}

// armLocked starts a timer unless one is already pending, polling is
// disabled, or the scheduler is stopped.
func (s *Scheduler) armLocked() {
	if s.stopped || s.pending || s.interval <= 0 {
		return
	}
	s.pending = true
	s.timer = time.AfterFunc(s.interval, s.tick)
}

func (s *Scheduler) tick() {
	s.run()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = false
	s.timer = nil
	s.armLocked()
}
