// Package timer implements the per-block periodic execution timer of spec
// §4.F: arm/cancel with re-arm-implicitly-cancels semantics, one live timer
// per block at any instant.
//
// The Scheduler interface shape is kept from burstgridgo's pluggable
// scheduler design (internal/scheduler/interface.go), but burstgridgo's
// DefaultScheduler was an admitted stub ("Current Status: Stubbed") that
// never actually fired anything, so the fire/cancel implementation here is
// original: a thin wrapper over time.AfterFunc, since no example in the
// retrieval pack ships a fixed-interval repeating timer.
package timer

import (
	"fmt"
	"sync"
	"time"
)

// Handle identifies one armed timer. The zero Handle is "no timer armed".
type Handle uint64

// Scheduler arms and cancels per-block repeating timers.
type Scheduler struct {
	mu      sync.Mutex
	next    Handle
	timers  map[Handle]*time.Timer
	armedBy map[string]Handle // block_name -> currently-armed handle, for the exclusivity invariant
}

// NewScheduler returns an empty Scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{
		timers:  make(map[Handle]*time.Timer),
		armedBy: make(map[string]Handle),
	}
}

// Arm cancels any timer already armed for blockName and arms a new one that
// calls fire after intervalMs milliseconds, then repeats every intervalMs
// until cancelled. intervalMs must be > 0.
func (s *Scheduler) Arm(blockName string, intervalMs int64, fire func()) (Handle, error) {
	if intervalMs <= 0 {
		return 0, fmt.Errorf("timer: interval must be > 0, got %d", intervalMs)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if h, ok := s.armedBy[blockName]; ok {
		s.cancelLocked(h)
	}

	s.next++
	h := s.next
	interval := time.Duration(intervalMs) * time.Millisecond

	var t *time.Timer
	t = time.AfterFunc(interval, func() {
		fire()
		s.mu.Lock()
		_, stillArmed := s.timers[h]
		s.mu.Unlock()
		if stillArmed {
			t.Reset(interval)
		}
	})
	s.timers[h] = t
	s.armedBy[blockName] = h
	return h, nil
}

// Cancel disarms a timer. Cancelling a zero or unknown handle is a no-op.
func (s *Scheduler) Cancel(h Handle) {
	if h == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked(h)
}

func (s *Scheduler) cancelLocked(h Handle) {
	t, ok := s.timers[h]
	if !ok {
		return
	}
	t.Stop()
	delete(s.timers, h)
	for block, armed := range s.armedBy {
		if armed == h {
			delete(s.armedBy, block)
			break
		}
	}
}

// Armed reports how many timers are currently live, supporting the "timer
// exclusivity" testable property and the linkblocks_timers_armed gauge.
func (s *Scheduler) Armed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}
