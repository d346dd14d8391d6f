package core

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_FiringOrderAndClock(t *testing.T) {
	defer Destroy()

	// GIVEN E1 at t=10, E2 at t=10, E3 at t=5, scheduled in that order
	var order []string
	var clocks []Time
	record := func(name string) func() {
		return func() {
			order = append(order, name)
			clocks = append(clocks, Now())
		}
	}
	Schedule(TimeStep(10), record("E1"))
	Schedule(TimeStep(10), record("E2"))
	Schedule(TimeStep(5), record("E3"))

	// WHEN running
	Run()

	// THEN firing order is E3, E1, E2 and the clock reads 5, 10, 10
	assert.Equal(t, []string{"E3", "E1", "E2"}, order)
	assert.Equal(t, []Time{5, 10, 10}, clocks)
}

func TestRun_CancellationSkipsEvents(t *testing.T) {
	defer Destroy()

	// GIVEN A at t=1 cancelling B at t=2 and C at t=3
	var fired []string
	idB := Schedule(TimeStep(2), func() { fired = append(fired, "B") })
	idC := Schedule(TimeStep(3), func() { fired = append(fired, "C") })
	Schedule(TimeStep(1), func() {
		fired = append(fired, "A")
		Cancel(idB)
		Cancel(idC)
	})

	// WHEN running
	Run()

	// THEN only A fired and the loop drained the queue at t=1
	assert.Equal(t, []string{"A"}, fired)
	assert.True(t, IsFinished())
	assert.Equal(t, Time(1), Now())
}

func TestSchedule_ZeroDelayFIFOWithinTick(t *testing.T) {
	defer Destroy()

	// GIVEN an event at t=0 that schedules a zero-delay event, with a
	// sibling already queued at t=0 and one at t=1
	var order []string
	Schedule(TimeStep(0), func() {
		order = append(order, "first")
		ScheduleNow(func() { order = append(order, "zero-delay") })
	})
	Schedule(TimeStep(0), func() { order = append(order, "sibling") })
	Schedule(TimeStep(1), func() { order = append(order, "later") })

	// WHEN running
	Run()

	// THEN the zero-delay event fires after everything already queued at
	// t=0, before anything at t=1
	assert.Equal(t, []string{"first", "sibling", "zero-delay", "later"}, order)
}

func TestSchedule_PastIsFatal(t *testing.T) {
	defer Destroy()

	// GIVEN the loop has advanced to t=5
	Schedule(TimeStep(5), func() {
		// WHEN scheduling with a negative delay THEN it panics
		assert.Panics(t, func() { Schedule(TimeStep(-1), func() {}) })
	})
	Run()
}

func TestCancel_IsIdempotentAndStaleSafe(t *testing.T) {
	defer Destroy()

	// GIVEN a fired event's handle
	id := Schedule(TimeStep(1), func() {})
	Run()

	// THEN the stale handle is not pending and cancel/remove are no-ops
	assert.False(t, id.IsPending())
	Cancel(id)
	Remove(id)
	Cancel(id)
	assert.False(t, id.IsPending())

	// AND a zero handle behaves the same
	var zero EventID
	assert.False(t, zero.IsPending())
	Cancel(zero)
	Remove(zero)
}

func TestCancel_CurrentEventIsNoOp(t *testing.T) {
	defer Destroy()

	// GIVEN an event cancelling itself while running
	ran := false
	var id EventID
	id = Schedule(TimeStep(1), func() {
		Cancel(id)
		ran = true
	})
	Schedule(TimeStep(2), func() {})

	// WHEN running THEN the callback still completed and the loop went on
	Run()
	assert.True(t, ran)
	assert.Equal(t, Time(2), Now())
}

func TestRemove_EagerlyDropsEvent(t *testing.T) {
	defer Destroy()

	// GIVEN a pending event
	fired := false
	id := Schedule(TimeStep(2), func() { fired = true })
	require.True(t, id.IsPending())

	// WHEN removed before the run
	Remove(id)

	// THEN it neither fires nor stays pending
	assert.False(t, id.IsPending())
	Run()
	assert.False(t, fired)
}

func TestStopAt_LetsSameTickEventsFire(t *testing.T) {
	defer Destroy()

	// GIVEN events at t=1 and t=3 and a stop at t=2
	var fired []string
	Schedule(TimeStep(1), func() { fired = append(fired, "before") })
	Schedule(TimeStep(3), func() { fired = append(fired, "after") })
	StopAt(TimeStep(2))

	// WHEN running
	Run()

	// THEN the loop exits at the stop time with the later event unfired
	assert.Equal(t, []string{"before"}, fired)
	assert.Equal(t, Time(2), Now())
	assert.False(t, IsFinished())
}

func TestStop_ExitsBeforeNextEvent(t *testing.T) {
	defer Destroy()

	var fired []string
	Schedule(TimeStep(1), func() {
		fired = append(fired, "one")
		Stop()
	})
	Schedule(TimeStep(2), func() { fired = append(fired, "two") })

	Run()

	assert.Equal(t, []string{"one"}, fired)
	assert.Equal(t, Time(1), Now())
}

func TestDestroy_RunsHooksFIFOAndResets(t *testing.T) {
	// GIVEN destroy hooks and a leftover event
	var hooks []string
	ScheduleDestroy(func() { hooks = append(hooks, "first") })
	ScheduleDestroy(func() { hooks = append(hooks, "second") })
	Schedule(TimeStep(4), func() {})
	Schedule(TimeStep(1), func() {})
	Run()

	// WHEN destroying
	Destroy()

	// THEN hooks ran in registration order and the driver is reset
	assert.Equal(t, []string{"first", "second"}, hooks)
	assert.Equal(t, Time(0), Now())
	assert.True(t, IsFinished())
	assert.Equal(t, Idle, GetState())
}

func TestSingleton_ResetsBetweenRuns(t *testing.T) {
	type counter struct{ n int }
	single := NewSingleton(func() *counter { return &counter{} })

	// GIVEN a first run incrementing the singleton three times
	for i := 1; i <= 3; i++ {
		Schedule(TimeStep(int64(i)), func() { single.Get().n++ })
	}
	Run()
	assert.Equal(t, 3, single.Get().n)

	// WHEN the simulation is destroyed
	Destroy()

	// THEN the next run starts from a fresh instance
	Schedule(TimeStep(1), func() {
		assert.Equal(t, 0, single.Get().n)
	})
	Run()
	Destroy()
}

func TestScheduleWithContext_ReportsActorDuringEvent(t *testing.T) {
	defer Destroy()

	// GIVEN events tagged with node contexts
	var seen []uint32
	ScheduleWithContext(7, TimeStep(1), func() { seen = append(seen, Context()) })
	ScheduleWithContext(9, TimeStep(2), func() { seen = append(seen, Context()) })

	// WHEN running
	Run()

	// THEN each callback saw its own context and it resets afterwards
	assert.Equal(t, []uint32{7, 9}, seen)
	assert.Equal(t, ContextUnspecified, Context())
}

func TestScheduleFromExternal_EnqueuesFromAnotherGoroutine(t *testing.T) {
	defer Destroy()

	// GIVEN a helper goroutine handing work to the simulation thread
	ran := false
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ScheduleFromExternal(func() { ran = true })
	}()
	wg.Wait()

	// WHEN running
	Run()

	// THEN the callback executed on the simulation thread
	assert.True(t, ran)
}

func TestScheduleFromExternal_InjectsWhileLoopIsRunning(t *testing.T) {
	defer Destroy()

	// GIVEN a helper goroutine feeding events while the loop is running
	const injected = 64
	delivered := 0
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < injected; i++ {
			ScheduleFromExternal(func() { delivered++ })
		}
	}()

	// AND a tick chain keeping the queue alive until everything arrived
	var tick func()
	tick = func() {
		if delivered < injected {
			Schedule(TimeStep(1), tick)
		}
	}
	Schedule(TimeStep(1), tick)

	// WHEN running
	Run()
	wg.Wait()

	// THEN every injected callback ran on the simulation thread
	assert.Equal(t, injected, delivered)
}

func TestEventTrace_EmitsOneRecordPerInvokedEvent(t *testing.T) {
	defer Destroy()

	// GIVEN tracing into a buffer and one cancelled event
	var buf strings.Builder
	EnableEventTrace(&buf)
	Schedule(NanoSeconds(5), func() {})
	id := Schedule(NanoSeconds(7), func() {})
	Cancel(id)
	ScheduleWithContext(3, NanoSeconds(9), func() {})

	// WHEN running
	Run()

	// THEN only invoked events produced "fire_time_ns context uid name"
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "5 4294967295 1 "), "got %q", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "9 3 3 "), "got %q", lines[1])
}

func TestSetSchedulerFactory_SwapsBackend(t *testing.T) {
	defer func() {
		Destroy()
		SetSchedulerFactory(NewHeapScheduler)
	}()

	// GIVEN the list backend
	SetSchedulerFactory(NewListScheduler)
	var order []string
	Schedule(TimeStep(2), func() { order = append(order, "b") })
	Schedule(TimeStep(1), func() { order = append(order, "a") })

	// WHEN running THEN semantics are unchanged
	Run()
	assert.Equal(t, []string{"a", "b"}, order)

	// AND swapping with events pending is a usage error
	Schedule(TimeStep(1), func() {})
	assert.Panics(t, func() { SetSchedulerFactory(NewHeapScheduler) })
}

func TestEventID_Ordering(t *testing.T) {
	defer Destroy()

	a := Schedule(TimeStep(1), func() {})
	b := Schedule(TimeStep(1), func() {})
	c := Schedule(TimeStep(2), func() {})

	assert.True(t, a.Less(b), "same time orders by tiebreak")
	assert.True(t, b.Less(c), "earlier time first")
	assert.False(t, c.Less(a))
	assert.True(t, a.Equal(a))
	assert.False(t, a.Equal(b))
}
