package core

// ContextUnspecified is the execution context reported outside any event.
const ContextUnspecified uint32 = 0xffffffff

// event is a pending callback in the scheduler. tiebreak is assigned
// monotonically at scheduling time so that events with equal fire time run
// in FIFO order.
type event struct {
	ts        Time
	tiebreak  uint64
	uid       uint64
	context   uint32
	fn        func()
	cancelled bool
	fired     bool
}

// EventID is a copyable handle on a scheduled event. Copies share the
// underlying event; a zero EventID refers to nothing and is never pending.
type EventID struct {
	ev       *event
	ts       Time
	tiebreak uint64
	uid      uint64
}

// Time returns the fire time the event was scheduled for.
func (id EventID) Time() Time { return id.ts }

// UID returns the scheduler-assigned unique id, 0 for the zero EventID.
func (id EventID) UID() uint64 { return id.uid }

// IsPending reports whether the event is still in the queue and will run.
// A stale handle (fired, removed, or cancelled event) reports false.
func (id EventID) IsPending() bool {
	return id.ev != nil && !id.ev.fired && !id.ev.cancelled
}

// Cancel marks the event so the event loop skips it. Idempotent; cancelling
// a fired or already-cancelled event has no effect. The event stays in the
// queue until its fire time is reached.
func (id EventID) Cancel() {
	if id.ev != nil {
		id.ev.cancelled = true
	}
}

// Equal reports whether two handles name the same scheduled event.
func (id EventID) Equal(other EventID) bool {
	return id.ts == other.ts && id.tiebreak == other.tiebreak && id.uid == other.uid
}

// Less orders handles by (fire time, tiebreak, uid), the firing order.
func (id EventID) Less(other EventID) bool {
	if id.ts != other.ts {
		return id.ts < other.ts
	}
	if id.tiebreak != other.tiebreak {
		return id.tiebreak < other.tiebreak
	}
	return id.uid < other.uid
}
