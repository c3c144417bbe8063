// Package agent drives a cascade application through the simulation
// backend. It exposes the screen text and the widget tree of the last
// rendered frame, and injects keys and clicks, for scripted tests and
// recorded demos.
package agent

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/odvcencio/cascade/backend/sim"
	"github.com/odvcencio/cascade/runtime"
	"github.com/odvcencio/cascade/terminal"
)

// Common errors returned by Agent methods.
var (
	ErrNoApp        = errors.New("no app configured")
	ErrTextNotFound = errors.New("text not found on screen")
	ErrTimeout      = errors.New("operation timed out")
)

// Agent observes and drives one App.
//
// Register the agent as the App's RenderObserver so snapshots of the
// widget tree are taken on the event loop after each frame:
//
//	ag := agent.New(agent.Config{Width: 80, Height: 24})
//	app := runtime.NewApp(runtime.AppConfig{Backend: ag.Backend(), RenderObserver: ag, ...})
//	ag.SetApp(app)
type Agent struct {
	mu      sync.Mutex
	app     *runtime.App
	sim     *sim.Backend
	timeout time.Duration
	poll    time.Duration
	cast    *Cast

	frame   int64
	layers  int
	widgets []WidgetInfo
}

// Config configures an Agent.
type Config struct {
	// App is the application to control. It can be set later with SetApp.
	App *runtime.App

	// Sim is the simulation backend. If nil, one will be created.
	Sim *sim.Backend

	// Width and Height set the terminal dimensions (default 80x24).
	Width, Height int

	// Timeout bounds every Wait call. Default is 3s.
	Timeout time.Duration

	// Poll is the interval between checks while waiting. Default is 2ms.
	Poll time.Duration

	// Cast, when set, receives every rendered frame.
	Cast *Cast
}

// New creates a new Agent with the given configuration.
func New(cfg Config) *Agent {
	width, height := cfg.Width, cfg.Height
	if width <= 0 {
		width = 80
	}
	if height <= 0 {
		height = 24
	}

	s := cfg.Sim
	if s == nil {
		s = sim.New(width, height)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	poll := cfg.Poll
	if poll <= 0 {
		poll = 2 * time.Millisecond
	}

	return &Agent{
		app:     cfg.App,
		sim:     s,
		timeout: timeout,
		poll:    poll,
		cast:    cfg.Cast,
	}
}

// Backend returns the underlying simulation backend.
func (a *Agent) Backend() *sim.Backend {
	if a == nil {
		return nil
	}
	return a.sim
}

// SetApp attaches the application whose frames are observed.
func (a *Agent) SetApp(app *runtime.App) {
	if a == nil {
		return
	}
	a.mu.Lock()
	a.app = app
	a.mu.Unlock()
}

// ObserveRender records the widget tree. It runs on the App's event loop.
func (a *Agent) ObserveRender(stats runtime.RenderStats) {
	a.mu.Lock()
	app := a.app
	a.mu.Unlock()
	if app == nil {
		return
	}
	screen := app.Screen()
	if screen == nil {
		return
	}
	var infos []WidgetInfo
	for i := range screen.LayerCount() {
		if layer := screen.Layer(i); layer != nil && layer.Root != nil {
			infos = append(infos, walk(layer.Root))
		}
	}

	a.mu.Lock()
	a.frame = stats.Frame
	a.layers = screen.LayerCount()
	a.widgets = infos
	a.mu.Unlock()

	if a.cast != nil && a.sim != nil {
		w, h := a.sim.Size()
		// Errors stick in the Cast and surface through Cast.Err.
		_ = a.cast.Frame(w, h, a.sim.Capture())
	}
}

// walk collects widget info for w and its children.
func walk(w runtime.Widget) WidgetInfo {
	info := WidgetInfo{
		ID:   widgetID(w),
		Type: fmt.Sprintf("%T", w),
	}
	if bp, ok := w.(runtime.BoundsProvider); ok {
		info.Bounds = bp.Bounds()
	}
	if cp, ok := w.(runtime.ChildProvider); ok {
		for _, child := range cp.ChildWidgets() {
			if child != nil {
				info.Children = append(info.Children, walk(child))
			}
		}
	}
	return info
}

// widgetID generates a unique identifier for a widget.
func widgetID(w runtime.Widget) string {
	// Use pointer address as unique ID
	return fmt.Sprintf("%p", w)
}

// Snapshot returns the screen text and the widget tree of the last frame.
func (a *Agent) Snapshot() Snapshot {
	if a == nil {
		return Snapshot{}
	}
	snap := Snapshot{Timestamp: time.Now()}
	if a.sim != nil {
		snap.Text = a.sim.Capture()
		snap.Width, snap.Height = a.sim.Size()
	}
	a.mu.Lock()
	snap.Frame = a.frame
	snap.LayerCount = a.layers
	snap.Widgets = append([]WidgetInfo(nil), a.widgets...)
	a.mu.Unlock()
	return snap
}

// FindByType returns every widget whose dynamic type name (as printed by
// %T, e.g. "*widgets.AccordionView") equals typeName.
func (a *Agent) FindByType(typeName string) []WidgetInfo {
	var results []WidgetInfo
	findByTypeIn(a.Snapshot().Widgets, typeName, &results)
	return results
}

func findByTypeIn(widgets []WidgetInfo, typeName string, out *[]WidgetInfo) {
	for _, w := range widgets {
		if w.Type == typeName {
			*out = append(*out, w)
		}
		findByTypeIn(w.Children, typeName, out)
	}
}

// Press injects a key.
func (a *Agent) Press(key terminal.Key) {
	a.sim.InjectKey(key, 0)
}

// Type injects each rune of text as a key press.
func (a *Agent) Type(text string) {
	for _, r := range text {
		a.sim.InjectRune(r)
	}
}

// Click injects a left click at (x, y).
func (a *Agent) Click(x, y int) {
	a.sim.InjectClick(x, y)
}

// ClickText clicks the first cell of text on screen.
func (a *Agent) ClickText(text string) error {
	x, y := a.FindText(text)
	if x < 0 {
		return fmt.Errorf("click %q: %w", text, ErrTextNotFound)
	}
	a.Click(x, y)
	return nil
}

// ContainsText checks if the given text appears on screen.
func (a *Agent) ContainsText(text string) bool {
	x, _ := a.FindText(text)
	return x >= 0
}

// FindText returns the cell position of text on screen, or (-1, -1) if not found.
func (a *Agent) FindText(text string) (x, y int) {
	if a == nil || a.sim == nil || text == "" {
		return -1, -1
	}
	for row, line := range strings.Split(a.sim.Capture(), "\n") {
		if i := strings.Index(line, text); i >= 0 {
			return runewidth.StringWidth(line[:i]), row
		}
	}
	return -1, -1
}

// CaptureText returns the raw text content of the screen.
func (a *Agent) CaptureText() string {
	if a == nil || a.sim == nil {
		return ""
	}
	return a.sim.Capture()
}

// WaitUntil polls cond with fresh snapshots until it holds.
func (a *Agent) WaitUntil(what string, cond func(Snapshot) bool) error {
	if a == nil {
		return ErrNoApp
	}
	deadline := time.Now().Add(a.timeout)
	for {
		if cond(a.Snapshot()) {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("waiting for %s: %w", what, ErrTimeout)
		}
		time.Sleep(a.poll)
	}
}

// WaitForText waits until text appears on screen.
func (a *Agent) WaitForText(text string) error {
	return a.WaitUntil(fmt.Sprintf("%q", text), func(s Snapshot) bool {
		return strings.Contains(s.Text, text)
	})
}

// WaitForGone waits until text is no longer on screen.
func (a *Agent) WaitForGone(text string) error {
	return a.WaitUntil(fmt.Sprintf("%q to disappear", text), func(s Snapshot) bool {
		return !strings.Contains(s.Text, text)
	})
}
