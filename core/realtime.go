package core

import (
	"time"

	"github.com/sirupsen/logrus"
)

// SyncMode selects how the real-time driver reacts when an event fires
// later than its virtual time by more than the tolerance.
type SyncMode int

const (
	// BestEffort logs the miss and keeps going.
	BestEffort SyncMode = iota
	// HardLimit treats the miss as fatal.
	HardLimit
)

func (m SyncMode) String() string {
	if m == HardLimit {
		return "HardLimit"
	}
	return "BestEffort"
}

// DefaultRealtimeTolerance is how far wall clock may run ahead of an
// event's fire time before the miss policy kicks in.
const DefaultRealtimeTolerance = 100 * time.Millisecond

// realtimePolicy throttles the loop so events fire at their virtual time on
// the wall clock. The sleep happens in the loop only, never in user code.
type realtimePolicy struct {
	mode      SyncMode
	tolerance time.Duration
	origin    time.Time
	started   bool
}

func (rt *realtimePolicy) start() {
	if !rt.started {
		rt.origin = time.Now()
		rt.started = true
	}
}

func (rt *realtimePolicy) waitFor(ts Time) {
	target := time.Duration(ts.Nanoseconds()) * time.Nanosecond
	elapsed := time.Since(rt.origin)
	if elapsed < target {
		time.Sleep(target - elapsed)
		return
	}
	if late := elapsed - target; late > rt.tolerance {
		if rt.mode == HardLimit {
			logrus.Fatalf("realtime: missed hard deadline by %v (event at %v)", late, ts)
		}
		logrus.Warnf("realtime: event at %v fired %v late", ts, late)
	}
}

// UseRealtime switches the driver to wall-clock pacing with the given miss
// policy and tolerance. Must be called while the driver is idle.
func UseRealtime(mode SyncMode, tolerance time.Duration) {
	s := instance()
	if s.state == Running {
		panic("core: cannot switch to realtime while running")
	}
	if tolerance <= 0 {
		tolerance = DefaultRealtimeTolerance
	}
	s.rt = &realtimePolicy{mode: mode, tolerance: tolerance}
}

// UseSequential switches the driver back to as-fast-as-possible execution.
func UseSequential() {
	s := instance()
	if s.state == Running {
		panic("core: cannot switch driver while running")
	}
	s.rt = nil
}
