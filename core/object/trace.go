package object

// Connection is a token naming one subscription on a TracedCallback.
type Connection struct {
	id uint64
}

type traceSink struct {
	id uint64
	fn func(args ...any)
}

// TracedCallback is a synchronous multicast channel. Emit invokes every
// subscriber in subscription order before returning. Connecting or
// disconnecting from inside a callback is allowed; the change takes effect
// after the current emission completes.
type TracedCallback struct {
	sinks    []traceSink
	nextID   uint64
	emitting bool
	deferred []func()
}

// Connect subscribes cb and returns its disconnect token.
func (tc *TracedCallback) Connect(cb func(args ...any)) Connection {
	tc.nextID++
	c := Connection{id: tc.nextID}
	attach := func() {
		tc.sinks = append(tc.sinks, traceSink{id: c.id, fn: cb})
	}
	if tc.emitting {
		tc.deferred = append(tc.deferred, attach)
	} else {
		attach()
	}
	return c
}

// Disconnect removes the subscription named by c. Unknown tokens are a
// no-op.
func (tc *TracedCallback) Disconnect(c Connection) {
	detach := func() {
		for i, s := range tc.sinks {
			if s.id == c.id {
				tc.sinks = append(tc.sinks[:i], tc.sinks[i+1:]...)
				return
			}
		}
	}
	if tc.emitting {
		tc.deferred = append(tc.deferred, detach)
	} else {
		detach()
	}
}

// IsEmpty reports whether no subscriber is attached.
func (tc *TracedCallback) IsEmpty() bool { return len(tc.sinks) == 0 }

// Emit invokes every subscriber with the same argument tuple, in
// subscription order. Reentrant emissions see the subscriber set as of
// their own start.
func (tc *TracedCallback) Emit(args ...any) {
	wasEmitting := tc.emitting
	tc.emitting = true
	snapshot := tc.sinks
	for _, s := range snapshot {
		s.fn(args...)
	}
	tc.emitting = wasEmitting
	if !tc.emitting {
		for _, op := range tc.deferred {
			op()
		}
		tc.deferred = nil
	}
}
