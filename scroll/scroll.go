// Package scroll provides a vertical viewport and scrollbar.
package scroll

import (
	"github.com/odvcencio/cascade/backend"
	"github.com/odvcencio/cascade/runtime"
)

// Controller is implemented by widgets that scroll.
type Controller interface {
	ScrollBy(dy int)
	ScrollTo(y int)
	PageBy(pages int)
	ScrollToStart()
	ScrollToEnd()
}

// Viewport tracks which rows of a taller content are visible.
type Viewport struct {
	offset   int
	content  int
	view     int
	onChange func(offset, content, view int)
}

// NewViewport creates an empty viewport.
func NewViewport() *Viewport {
	return &Viewport{}
}

// SetContentHeight updates the content height and clamps the offset.
func (v *Viewport) SetContentHeight(h int) {
	if v == nil {
		return
	}
	v.content = max(h, 0)
	v.ScrollTo(v.offset)
}

// ContentHeight returns the content height.
func (v *Viewport) ContentHeight() int {
	if v == nil {
		return 0
	}
	return v.content
}

// SetViewHeight updates the visible height and clamps the offset.
func (v *Viewport) SetViewHeight(h int) {
	if v == nil {
		return
	}
	v.view = max(h, 0)
	v.ScrollTo(v.offset)
}

// ViewHeight returns the visible height.
func (v *Viewport) ViewHeight() int {
	if v == nil {
		return 0
	}
	return v.view
}

// Offset returns the first visible content row.
func (v *Viewport) Offset() int {
	if v == nil {
		return 0
	}
	return v.offset
}

// SetOnChange registers a callback for offset changes.
func (v *Viewport) SetOnChange(fn func(offset, content, view int)) {
	if v == nil {
		return
	}
	v.onChange = fn
}

// MaxOffset returns the largest valid offset.
func (v *Viewport) MaxOffset() int {
	if v == nil {
		return 0
	}
	return max(v.content-v.view, 0)
}

// ScrollTo moves to row y, clamped.
func (v *Viewport) ScrollTo(y int) {
	if v == nil {
		return
	}
	next := min(max(y, 0), v.MaxOffset())
	if next == v.offset {
		return
	}
	v.offset = next
	if v.onChange != nil {
		v.onChange(v.offset, v.content, v.view)
	}
}

// ScrollBy moves by dy rows.
func (v *Viewport) ScrollBy(dy int) {
	if v == nil {
		return
	}
	v.ScrollTo(v.offset + dy)
}

// PageBy moves by whole view heights, keeping one row of overlap.
func (v *Viewport) PageBy(pages int) {
	if v == nil {
		return
	}
	step := max(v.view-1, 1)
	v.ScrollBy(pages * step)
}

// ScrollToStart moves to the top.
func (v *Viewport) ScrollToStart() {
	v.ScrollTo(0)
}

// ScrollToEnd moves to the bottom.
func (v *Viewport) ScrollToEnd() {
	v.ScrollTo(v.MaxOffset())
}

// EnsureVisible scrolls the least amount that shows rows [top, top+height).
// When the range is taller than the view its top wins.
func (v *Viewport) EnsureVisible(top, height int) {
	if v == nil {
		return
	}
	bottom := top + max(height, 1)
	switch {
	case top < v.offset:
		v.ScrollTo(top)
	case bottom > v.offset+v.view:
		v.ScrollTo(min(top, bottom-v.view))
	}
}

// Scrollable reports whether the content is taller than the view.
func (v *Viewport) Scrollable() bool {
	return v != nil && v.content > v.view
}

// Scrollbar draws a vertical scrollbar for a viewport.
type Scrollbar struct {
	Track        backend.Style
	Thumb        backend.Style
	MinThumbSize int
	Chars        ScrollbarChars
}

// ScrollbarChars are the runes a scrollbar is drawn with.
type ScrollbarChars struct {
	Track rune
	Thumb rune
}

// DefaultScrollbar returns a dim track with a reversed thumb.
func DefaultScrollbar() Scrollbar {
	return Scrollbar{
		Track:        backend.DefaultStyle().Dim(true),
		Thumb:        backend.DefaultStyle().Reverse(true),
		MinThumbSize: 1,
		Chars:        ScrollbarChars{Track: '│', Thumb: ' '},
	}
}

// ThumbSpan returns the thumb's start row and length for a track of height rows.
func (s Scrollbar) ThumbSpan(v *Viewport, height int) (start, length int) {
	if !v.Scrollable() || height <= 0 {
		return 0, height
	}
	length = max(height*v.view/v.content, max(s.MinThumbSize, 1))
	length = min(length, height)
	if maxOffset := v.MaxOffset(); maxOffset > 0 {
		start = (height - length) * v.offset / maxOffset
	}
	return start, length
}

// Render draws the scrollbar in column x from row y over height rows.
// Nothing is drawn when the content fits.
func (s Scrollbar) Render(buf *runtime.Buffer, x, y, height int, v *Viewport) {
	if buf == nil || !v.Scrollable() {
		return
	}
	start, length := s.ThumbSpan(v, height)
	for row := 0; row < height; row++ {
		if row >= start && row < start+length {
			buf.Set(x, y+row, s.Chars.Thumb, s.Thumb)
			continue
		}
		buf.Set(x, y+row, s.Chars.Track, s.Track)
	}
}
