package widgets

import (
	"time"

	"github.com/odvcencio/cascade/runtime"
	"github.com/odvcencio/cascade/state"
)

// Component is embedded by widgets that observe cells. Subscriptions run
// on the app's state scheduler once bound, and are dropped on Unbind.
type Component struct {
	Base
	Services runtime.Services
	Subs     state.Subscriptions
}

// Bind attaches app services to the component.
func (c *Component) Bind(services runtime.Services) {
	c.Services = services
	c.Subs.SetScheduler(services.Scheduler())
}

// Unbind releases app services and subscriptions.
func (c *Component) Unbind() {
	c.Subs.Clear()
	c.Services = runtime.Services{}
}

// Invalidate marks the widget dirty and asks the app for a frame.
func (c *Component) Invalidate() {
	c.Base.Invalidate()
	c.Services.Invalidate()
}

// Observe calls fn whenever sub changes.
func (c *Component) Observe(sub state.Subscribable, fn func()) {
	c.Subs.Observe(sub, fn)
}

// After runs fn on the event loop after delay. It does nothing while unbound.
func (c *Component) After(delay time.Duration, fn func()) {
	c.Services.After(delay, fn)
}
