package runtime

import (
	"time"

	"github.com/odvcencio/cascade/state"
)

// Services is the handle a bound widget uses to reach its App. The zero
// value is safe: every method does nothing and returns zero values, so
// widgets can run unbound in tests.
type Services struct {
	app *App
}

// Services returns the handle passed to Bindable widgets.
func (a *App) Services() Services {
	return Services{app: a}
}

func (s Services) isZero() bool { return s.app == nil }

// Scheduler queues callbacks for the next flush on the event loop.
func (s Services) Scheduler() state.Scheduler {
	if s.isZero() {
		return nil
	}
	return s.app.StateScheduler()
}

// InvalidateScheduler runs callbacks in place and then asks for a frame.
func (s Services) InvalidateScheduler() state.Scheduler {
	if s.isZero() {
		return nil
	}
	return s.app.InvalidateScheduler()
}

func (s Services) Invalidate() {
	if !s.isZero() {
		s.app.Invalidate()
	}
}

// Post hands msg to the event loop without blocking. It reports false when
// the loop's buffer is full.
func (s Services) Post(msg Message) bool {
	if s.isZero() {
		return false
	}
	return s.app.tryPost(msg)
}

func (s Services) Spawn(effect Effect) {
	if !s.isZero() {
		s.app.Spawn(effect)
	}
}

// After runs fn on the event loop once delay has passed, so fn may touch
// widget state.
func (s Services) After(delay time.Duration, fn func()) {
	if !s.isZero() {
		s.app.After(delay, fn)
	}
}
