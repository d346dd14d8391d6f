package core

import (
	"fmt"
	"io"
	"reflect"
	"runtime"
	"sync"

	"github.com/sirupsen/logrus"
)

// State is the driver lifecycle state.
type State int

const (
	Idle State = iota
	Running
	Stopping
	Destroyed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Running:
		return "Running"
	case Stopping:
		return "Stopping"
	case Destroyed:
		return "Destroyed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// simulator owns the event loop, the virtual clock and the destroy hooks.
// It is process-global and single-threaded; the only concurrent entry point
// is ScheduleFromExternal, which serializes on mu.
type simulator struct {
	events       Scheduler
	now          Time
	nextUID      uint64
	state        State
	stopping     bool
	context      uint32
	destroyHooks []func()
	rt           *realtimePolicy
	traceWriter  io.Writer
	mu           sync.Mutex
}

var (
	current          *simulator
	schedulerFactory = NewHeapScheduler
)

func instance() *simulator {
	if current == nil {
		current = &simulator{
			events:  schedulerFactory(),
			state:   Idle,
			context: ContextUnspecified,
		}
	}
	return current
}

// SetSchedulerFactory selects the scheduler backend for the next driver
// instance. It panics if events are already pending.
func SetSchedulerFactory(factory func() Scheduler) {
	if current != nil && current.pending() > 0 {
		panic("core: cannot swap scheduler backend while events are pending")
	}
	schedulerFactory = factory
	if current != nil {
		current.events = factory()
	}
}

// Now returns the current virtual time. It is written only by the event
// loop; everything else observes it read-only. After Destroy it reads 0.
func Now() Time {
	if current == nil {
		return 0
	}
	return current.now
}

// Context returns the context of the currently executing event, or
// ContextUnspecified outside the event loop.
func Context() uint32 {
	if current == nil {
		return ContextUnspecified
	}
	return current.context
}

// GetState returns the driver state.
func GetState() State {
	if current == nil {
		return Idle
	}
	return current.state
}

// IsFinished reports whether the event queue is empty.
func IsFinished() bool {
	return current == nil || current.pending() == 0
}

func (s *simulator) pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.events.Len()
}

func (s *simulator) schedule(at Time, ctx uint32, fn func()) EventID {
	freezeResolution()
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enqueue(at, ctx, fn)
}

// enqueue assumes mu is held. The uid counter, the past-insert check and
// the insert itself stay under one critical section so external threads
// cannot mint duplicate uids or race the clock.
func (s *simulator) enqueue(at Time, ctx uint32, fn func()) EventID {
	if at < s.now {
		panic(fmt.Sprintf("core: cannot schedule event at %v, now is %v", at, s.now))
	}
	s.nextUID++
	ev := &event{
		ts:       at,
		tiebreak: s.nextUID,
		uid:      s.nextUID,
		context:  ctx,
		fn:       fn,
	}
	s.events.Insert(ev)
	return EventID{ev: ev, ts: at, tiebreak: ev.tiebreak, uid: ev.uid}
}

// Schedule queues fn to run delay after the current time, in the context of
// the currently executing event. A negative delay is a usage error and
// panics.
func Schedule(delay Time, fn func()) EventID {
	s := instance()
	if delay < 0 {
		panic(fmt.Sprintf("core: cannot schedule with negative delay %v", delay))
	}
	return s.schedule(s.now+delay, s.context, fn)
}

// ScheduleWithContext is Schedule with an explicit execution context,
// typically the id of the node the event logically belongs to.
func ScheduleWithContext(ctx uint32, delay Time, fn func()) EventID {
	s := instance()
	if delay < 0 {
		panic(fmt.Sprintf("core: cannot schedule with negative delay %v", delay))
	}
	return s.schedule(s.now+delay, ctx, fn)
}

// ScheduleNow queues fn at the current time. It fires after every event
// already scheduled at the current time, before any later one.
func ScheduleNow(fn func()) EventID {
	s := instance()
	return s.schedule(s.now, s.context, fn)
}

// ScheduleFromExternal queues fn at the current virtual time from a helper
// thread. This is the only scheduler entry point that is safe to call off
// the simulation thread; the callback itself runs on the simulation thread
// like any other event.
func ScheduleFromExternal(fn func()) EventID {
	s := instance()
	freezeResolution()
	s.mu.Lock()
	defer s.mu.Unlock()
	// the clock is read under the same lock that advances it, so the
	// event always lands at or after the loop's current position
	return s.enqueue(s.now, ContextUnspecified, fn)
}

// ScheduleDestroy registers fn on the FIFO list run by Destroy, after the
// event loop is done and before the driver goes away. Simulation-scoped
// singletons use this to release their instances.
func ScheduleDestroy(fn func()) {
	s := instance()
	s.destroyHooks = append(s.destroyHooks, fn)
}

// Cancel marks the event so it is skipped when reached. O(1), idempotent,
// and a no-op on fired or stale handles.
func Cancel(id EventID) {
	id.Cancel()
}

// Remove eagerly takes the event out of the queue. Idempotent; removing an
// unknown, fired or cancelled event is a no-op.
func Remove(id EventID) {
	if id.ev == nil || id.ev.fired {
		return
	}
	s := instance()
	s.mu.Lock()
	if s.events.Remove(id.uid) {
		id.ev.fired = true
	}
	s.mu.Unlock()
}

// Stop makes the event loop exit before the next event.
func Stop() {
	if current != nil {
		current.stopping = true
	}
}

// StopAt schedules the loop to exit at the given absolute time. Events
// scheduled at the same time before the call still fire.
func StopAt(t Time) EventID {
	s := instance()
	if t < s.now {
		panic(fmt.Sprintf("core: cannot stop at %v, now is %v", t, s.now))
	}
	return s.schedule(t, ContextUnspecified, func() { s.stopping = true })
}

// Run drives the event loop until the queue drains or Stop/StopAt fires.
// Nested calls and calls after Destroy are usage errors.
func Run() {
	s := instance()
	if s.state == Running {
		panic("core: Run called reentrantly")
	}
	s.state = Running
	s.stopping = false
	if s.rt != nil {
		s.rt.start()
	}
	for s.pending() > 0 && !s.stopping {
		s.processOneEvent()
	}
	s.state = Idle
	logrus.Debugf("[tick %09d] event loop exited (%d events left)", s.now, s.pending())
}

func (s *simulator) processOneEvent() {
	s.mu.Lock()
	ev := s.events.PopNext()
	ev.fired = true
	if ev.cancelled {
		// skipped without touching the clock: a cancelled event never
		// happened, so it cannot drag now forward
		s.mu.Unlock()
		return
	}
	s.now = ev.ts
	s.mu.Unlock()
	if s.rt != nil {
		s.rt.waitFor(ev.ts)
	}
	s.context = ev.context
	if s.traceWriter != nil {
		fmt.Fprintf(s.traceWriter, "%d %d %d %s\n",
			ev.ts.Nanoseconds(), ev.context, ev.uid, eventLabel(ev.fn))
	}
	logrus.Debugf("[tick %09d] executing event %d (ctx %d)", s.now, ev.uid, ev.context)
	ev.fn()
	s.context = ContextUnspecified
}

// Destroy runs the destroy hooks in FIFO order, discards pending events and
// retires the driver. The next core call starts a fresh simulation: Now
// reads 0 and the queue is empty.
func Destroy() {
	s := current
	if s == nil {
		return
	}
	if s.state == Running {
		panic("core: Destroy called from inside the event loop")
	}
	for len(s.destroyHooks) > 0 {
		hook := s.destroyHooks[0]
		s.destroyHooks = s.destroyHooks[1:]
		hook()
	}
	s.state = Destroyed
	current = nil
}

// EnableEventTrace makes the loop emit one record per invoked event:
// "fire_time_ns context uid func_name". Pass nil to disable.
func EnableEventTrace(w io.Writer) {
	instance().traceWriter = w
}

func eventLabel(fn func()) string {
	pc := reflect.ValueOf(fn).Pointer()
	if f := runtime.FuncForPC(pc); f != nil {
		return f.Name()
	}
	return "func"
}
