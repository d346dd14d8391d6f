package core

// Timer is a one-shot timer bound to a function. Schedule arms it with the
// configured delay; Cancel disarms it. Timeouts are plain scheduled events,
// so cancelling a timeout is cancelling its event.
type Timer struct {
	delay Time
	fn    func()
	id    EventID
}

// NewTimer returns a disarmed timer firing fn when it expires.
func NewTimer(fn func()) *Timer {
	return &Timer{fn: fn}
}

// SetDelay sets the delay used by the next Schedule call.
func (t *Timer) SetDelay(d Time) { t.delay = d }

// Delay returns the configured delay.
func (t *Timer) Delay() Time { return t.delay }

// Schedule arms the timer with the configured delay. Re-arming a running
// timer cancels the previous expiry first.
func (t *Timer) Schedule() {
	t.ScheduleIn(t.delay)
}

// ScheduleIn arms the timer with an explicit delay.
func (t *Timer) ScheduleIn(d Time) {
	t.Cancel()
	t.id = Schedule(d, t.fn)
}

// Cancel disarms the timer if it is running.
func (t *Timer) Cancel() {
	t.id.Cancel()
}

// IsRunning reports whether the timer is armed and has not yet fired.
func (t *Timer) IsRunning() bool { return t.id.IsPending() }

// IsExpired reports whether the timer is disarmed or already fired.
func (t *Timer) IsExpired() bool { return !t.IsRunning() }

// Watchdog fires fn unless it is pinged often enough. Each Ping pushes the
// deadline to now+delay if that is later than the current deadline; the
// pending event is reused rather than rescheduled on every ping.
type Watchdog struct {
	fn       func()
	deadline Time
	id       EventID
}

// NewWatchdog returns a disarmed watchdog.
func NewWatchdog(fn func()) *Watchdog {
	return &Watchdog{fn: fn}
}

// Ping keeps the watchdog quiet until at least now+delay.
func (w *Watchdog) Ping(delay Time) {
	target := Now() + delay
	if target > w.deadline {
		w.deadline = target
	}
	if !w.id.IsPending() {
		w.arm()
	}
}

func (w *Watchdog) arm() {
	w.id = Schedule(w.deadline-Now(), func() {
		if Now() < w.deadline {
			w.arm()
			return
		}
		w.fn()
	})
}

// Cancel disarms the watchdog.
func (w *Watchdog) Cancel() {
	w.id.Cancel()
	w.deadline = 0
}
