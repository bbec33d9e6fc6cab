// Package compose guards structural editor mutations against input-method
// composition. While a multi-keystroke character is being assembled (CJK
// and similar input methods), a structural command firing mid-assembly can
// lose or duplicate the partial character. The guard defers such commands
// until composition has fully settled.
package compose

import "time"

// DefaultGrace is the settle window kept after composition ends. The host
// surface's internal state needs a beat before structural mutations are
// safe again.
const DefaultGrace = 50 * time.Millisecond

// State is the guard's phase.
type State int

const (
	// Idle: no composition in progress; mutations run immediately.
	Idle State = iota
	// Composing: a character is being assembled; mutations are queued.
	Composing
	// Grace: composition just ended; queued mutations still wait until the
	// grace window elapses.
	Grace
)

// Guard is the per-surface composition state machine. It is not safe for
// concurrent use; all calls happen on the UI goroutine.
type Guard struct {
	state      State
	queue      []func()
	grace      time.Duration
	now        func() time.Time
	graceUntil time.Time
}

// NewGuard returns an idle guard with the default grace window.
func NewGuard() *Guard {
	return &Guard{grace: DefaultGrace, now: time.Now}
}

// NewGuardWithClock returns a guard using the given clock and grace window.
// Tests inject a fake clock to step through the grace edge deterministically.
func NewGuardWithClock(now func() time.Time, grace time.Duration) *Guard {
	return &Guard{grace: grace, now: now}
}

// settle advances Grace to Idle once the window has elapsed, flushing the
// queue exactly once in submission order.
func (g *Guard) settle() {
	if g.state == Grace && !g.now().Before(g.graceUntil) {
		g.state = Idle
		g.flush()
	}
}

func (g *Guard) flush() {
	q := g.queue
	g.queue = nil
	for _, fn := range q {
		fn()
	}
}

// CurrentState returns the guard's phase, advancing past an elapsed grace
// window first.
func (g *Guard) CurrentState() State {
	g.settle()
	return g.state
}

// IsComposing reports whether structural mutations must be deferred.
// True during both Composing and the grace window.
func (g *Guard) IsComposing() bool {
	return g.CurrentState() != Idle
}

// Start marks the beginning of a composition session.
func (g *Guard) Start() {
	g.settle()
	g.state = Composing
}

// End marks the end of a composition session and opens the grace window.
// Calling End while idle is a no-op.
func (g *Guard) End() {
	if g.CurrentState() != Composing {
		return
	}
	g.state = Grace
	g.graceUntil = g.now().Add(g.grace)
}

// Deadline returns when the grace window elapses and whether one is open.
// Hosts use it to schedule a wake-up that re-checks the guard.
func (g *Guard) Deadline() (time.Time, bool) {
	if g.state != Grace {
		return time.Time{}, false
	}
	return g.graceUntil, true
}

// RunOrQueue runs fn now when idle, and otherwise buffers it to run in FIFO
// order once composition has settled. This is the only sanctioned way to
// issue a structural mutation that might race composition.
func (g *Guard) RunOrQueue(fn func()) {
	if g.IsComposing() {
		g.queue = append(g.queue, fn)
		return
	}
	fn()
}

// Pending returns the number of buffered mutations.
func (g *Guard) Pending() int {
	g.settle()
	return len(g.queue)
}
