package widgets

import (
	"github.com/odvcencio/cascade/backend"
	"github.com/odvcencio/cascade/runtime"
	"github.com/odvcencio/cascade/terminal"
)

const exampleHints = "esc back  q quit"

// ExampleScreen frames an AccordionView with a title bar and a status line.
type ExampleScreen struct {
	Base
	title      string
	view       *AccordionView
	status     *SignalLabel
	titleStyle backend.Style
}

// NewExampleScreen wraps view. The status line follows the view's summary.
func NewExampleScreen(title string, view *AccordionView) *ExampleScreen {
	status := NewSignalLabel(view.Summary(), nil)
	status.SetStyle(backend.DefaultStyle().Dim(true))
	return &ExampleScreen{
		title:      title,
		view:       view,
		status:     status,
		titleStyle: backend.DefaultStyle().Reverse(true).Bold(true),
	}
}

// View returns the accordion.
func (e *ExampleScreen) View() *AccordionView {
	return e.view
}

// StatusLabel returns the status line.
func (e *ExampleScreen) StatusLabel() *SignalLabel {
	return e.status
}

// ChildWidgets implements runtime.ChildProvider.
func (e *ExampleScreen) ChildWidgets() []runtime.Widget {
	return []runtime.Widget{e.view, e.status}
}

// Layout gives the accordion everything between the title and status rows.
func (e *ExampleScreen) Layout(bounds runtime.Rect) {
	e.Base.Layout(bounds)
	body := bounds
	if bounds.Height >= 3 {
		body = runtime.Rect{X: bounds.X, Y: bounds.Y + 1, Width: bounds.Width, Height: bounds.Height - 2}
		e.status.Layout(runtime.Rect{X: bounds.X, Y: bounds.Y + bounds.Height - 1, Width: bounds.Width, Height: 1})
	} else {
		e.status.Layout(runtime.Rect{})
	}
	e.view.Layout(body)
}

// Render draws the title bar, the accordion and the status line.
func (e *ExampleScreen) Render(ctx runtime.RenderContext) {
	bounds := e.bounds
	if bounds.Empty() {
		return
	}
	if bounds.Height >= 3 {
		writePadded(ctx.Buffer, bounds.X, bounds.Y, bounds.Width, " "+e.title, e.titleStyle)
		if hintX := alignX(exampleHints, bounds.X, bounds.Width-1, AlignRight); hintX > bounds.X+len(e.title)+2 {
			ctx.Buffer.SetString(hintX, bounds.Y, exampleHints, e.titleStyle)
		}
	}
	e.view.Render(ctx.Sub(e.view.Bounds()))
	e.status.Render(ctx.Sub(e.status.Bounds()))
}

// HandleMessage handles esc and q and passes the rest to the accordion.
func (e *ExampleScreen) HandleMessage(msg runtime.Message) runtime.HandleResult {
	if key, ok := msg.(runtime.KeyMsg); ok {
		switch {
		case key.Key == terminal.KeyEscape:
			return runtime.WithCommand(runtime.PopOverlay{})
		case key.Key == terminal.KeyRune && key.Rune == 'q':
			return runtime.WithCommand(runtime.Quit{})
		}
	}
	return e.view.HandleMessage(msg)
}

// Unmount releases the accordion once the screen is dismissed.
func (e *ExampleScreen) Unmount() {
	e.view.Close()
}

// Mount is a no-op; children subscribe themselves.
func (e *ExampleScreen) Mount() {}
