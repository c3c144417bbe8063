// Package widgets provides the widgets of the cascade demo: the example
// gallery, the accordion view and the small pieces they are built from.
package widgets

import (
	"github.com/mattn/go-runewidth"

	"github.com/odvcencio/cascade/backend"
	"github.com/odvcencio/cascade/runtime"
)

// Alignment positions text inside its bounds.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
)

// Base provides common functionality for widgets.
// Embed this in widget structs to get default implementations.
type Base struct {
	bounds      runtime.Rect
	needsRender bool
}

// Measure takes all the space offered.
func (b *Base) Measure(constraints runtime.Constraints) runtime.Size {
	return constraints.MaxSize()
}

// Layout stores the assigned bounds.
func (b *Base) Layout(bounds runtime.Rect) {
	if b == nil {
		return
	}
	if b.bounds != bounds {
		b.bounds = bounds
		b.needsRender = true
	}
}

// Bounds returns the widget's assigned bounds.
func (b *Base) Bounds() runtime.Rect {
	if b == nil {
		return runtime.Rect{}
	}
	return b.bounds
}

// HandleMessage returns Unhandled by default.
func (b *Base) HandleMessage(msg runtime.Message) runtime.HandleResult {
	return runtime.Unhandled()
}

// Invalidate marks the widget as needing a render pass.
func (b *Base) Invalidate() {
	if b == nil {
		return
	}
	b.needsRender = true
}

// NeedsRender reports whether the widget needs to re-render.
func (b *Base) NeedsRender() bool {
	if b == nil {
		return false
	}
	return b.needsRender
}

// ClearInvalidation clears the render-needed flag.
func (b *Base) ClearInvalidation() {
	if b == nil {
		return
	}
	b.needsRender = false
}

// truncateString truncates a string to fit within maxWidth columns.
// Adds "…" if truncated.
func truncateString(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	return runewidth.Truncate(s, maxWidth, "…")
}

// alignX returns the column text starts at inside a row of width columns.
func alignX(text string, x, width int, align Alignment) int {
	w := runewidth.StringWidth(text)
	switch align {
	case AlignCenter:
		return x + max(width-w, 0)/2
	case AlignRight:
		return x + max(width-w, 0)
	default:
		return x
	}
}

// writePadded writes text clipped to width and pads the rest of the row.
func writePadded(buf *runtime.Buffer, x, y, width int, text string, style backend.Style) {
	if buf == nil || width <= 0 {
		return
	}
	end := buf.SetString(x, y, truncateString(text, width), style)
	if pad := x + width - end; pad > 0 {
		buf.Fill(runtime.Rect{X: end, Y: y, Width: pad, Height: 1}, ' ', style)
	}
}
