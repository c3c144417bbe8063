package widgets

import (
	"github.com/odvcencio/cascade/backend"
	"github.com/odvcencio/cascade/runtime"
	"github.com/odvcencio/cascade/scroll"
	"github.com/odvcencio/cascade/terminal"
)

// RenderFunc renders an item.
type RenderFunc[T any] func(item T, index int, selected bool, ctx runtime.RenderContext)

// ListAdapter provides data for list widgets.
type ListAdapter[T any] interface {
	Count() int
	Item(index int) T
	Render(item T, index int, selected bool, ctx runtime.RenderContext)
}

// SliceAdapter adapts a slice to a ListAdapter.
type SliceAdapter[T any] struct {
	items  []T
	render RenderFunc[T]
}

// NewSliceAdapter creates a slice adapter.
func NewSliceAdapter[T any](items []T, render RenderFunc[T]) *SliceAdapter[T] {
	return &SliceAdapter[T]{items: items, render: render}
}

// Count returns the item count.
func (s *SliceAdapter[T]) Count() int {
	if s == nil {
		return 0
	}
	return len(s.items)
}

// Item returns the item at index.
func (s *SliceAdapter[T]) Item(index int) T {
	var zero T
	if s == nil || index < 0 || index >= len(s.items) {
		return zero
	}
	return s.items[index]
}

// Render renders the item.
func (s *SliceAdapter[T]) Render(item T, index int, selected bool, ctx runtime.RenderContext) {
	if s == nil || s.render == nil {
		return
	}
	s.render(item, index, selected, ctx)
}

// List renders one row per item and keeps the selection in view.
type List[T any] struct {
	Base
	adapter    ListAdapter[T]
	selected   int
	viewport   *scroll.Viewport
	onSelect   func(index int, item T)
	onActivate func(index int, item T) []runtime.Command
	style      backend.Style
}

// NewList creates a list widget.
func NewList[T any](adapter ListAdapter[T]) *List[T] {
	return &List[T]{
		adapter:  adapter,
		viewport: scroll.NewViewport(),
		style:    backend.DefaultStyle(),
	}
}

// OnSelect registers a handler for selection changes.
func (l *List[T]) OnSelect(fn func(index int, item T)) {
	if l == nil {
		return
	}
	l.onSelect = fn
}

// OnActivate registers a handler for enter and for clicks on the selected row.
// The commands it returns are emitted with the handled message.
func (l *List[T]) OnActivate(fn func(index int, item T) []runtime.Command) {
	if l == nil {
		return
	}
	l.onActivate = fn
}

// Measure returns the desired size.
func (l *List[T]) Measure(constraints runtime.Constraints) runtime.Size {
	count := 0
	if l != nil && l.adapter != nil {
		count = l.adapter.Count()
	}
	height := min(count, constraints.MaxHeight)
	if height <= 0 {
		height = constraints.MinHeight
	}
	return constraints.Constrain(runtime.Size{Width: constraints.MaxWidth, Height: height})
}

// Layout sizes the viewport to the bounds.
func (l *List[T]) Layout(bounds runtime.Rect) {
	l.Base.Layout(bounds)
	l.syncViewport()
}

func (l *List[T]) syncViewport() {
	count := 0
	if l.adapter != nil {
		count = l.adapter.Count()
	}
	l.viewport.SetViewHeight(l.bounds.Height)
	l.viewport.SetContentHeight(count)
	l.viewport.EnsureVisible(l.selected, 1)
}

// Render draws list items.
func (l *List[T]) Render(ctx runtime.RenderContext) {
	if l == nil || l.adapter == nil {
		return
	}
	bounds := l.bounds
	if bounds.Width <= 0 || bounds.Height <= 0 {
		return
	}
	ctx.Buffer.Fill(bounds, ' ', l.style)
	count := l.adapter.Count()
	offset := l.viewport.Offset()
	for i := 0; i < bounds.Height; i++ {
		index := offset + i
		if index < 0 || index >= count {
			break
		}
		item := l.adapter.Item(index)
		rowBounds := runtime.Rect{X: bounds.X, Y: bounds.Y + i, Width: bounds.Width, Height: 1}
		l.adapter.Render(item, index, index == l.selected, ctx.Sub(rowBounds))
	}
	l.ClearInvalidation()
}

// HandleMessage handles navigation.
func (l *List[T]) HandleMessage(msg runtime.Message) runtime.HandleResult {
	if l == nil || l.adapter == nil || l.adapter.Count() == 0 {
		return runtime.Unhandled()
	}
	switch m := msg.(type) {
	case runtime.KeyMsg:
		return l.handleKey(m)
	case runtime.MouseMsg:
		return l.handleMouse(m)
	}
	return runtime.Unhandled()
}

func (l *List[T]) handleKey(key runtime.KeyMsg) runtime.HandleResult {
	switch key.Key {
	case terminal.KeyUp:
		l.ScrollBy(-1)
	case terminal.KeyDown:
		l.ScrollBy(1)
	case terminal.KeyPageUp:
		l.PageBy(-1)
	case terminal.KeyPageDown:
		l.PageBy(1)
	case terminal.KeyHome:
		l.ScrollToStart()
	case terminal.KeyEnd:
		l.ScrollToEnd()
	case terminal.KeyEnter:
		return l.activate()
	case terminal.KeyRune:
		switch key.Rune {
		case 'k':
			l.ScrollBy(-1)
		case 'j':
			l.ScrollBy(1)
		default:
			return runtime.Unhandled()
		}
	default:
		return runtime.Unhandled()
	}
	return runtime.Handled()
}

func (l *List[T]) handleMouse(m runtime.MouseMsg) runtime.HandleResult {
	if !l.bounds.Contains(m.X, m.Y) {
		return runtime.Unhandled()
	}
	switch m.Button {
	case runtime.MouseWheelUp:
		l.ScrollBy(-1)
		return runtime.Handled()
	case runtime.MouseWheelDown:
		l.ScrollBy(1)
		return runtime.Handled()
	case runtime.MouseLeft:
		if m.Action != runtime.MousePress {
			return runtime.Handled()
		}
		index := l.viewport.Offset() + m.Y - l.bounds.Y
		if index >= l.adapter.Count() {
			return runtime.Handled()
		}
		if index == l.selected {
			return l.activate()
		}
		l.ScrollTo(index)
		return runtime.Handled()
	}
	return runtime.Unhandled()
}

func (l *List[T]) activate() runtime.HandleResult {
	if l.onActivate == nil {
		return runtime.Handled()
	}
	item, ok := l.SelectedItem()
	if !ok {
		return runtime.Handled()
	}
	return runtime.WithCommand(l.onActivate(l.selected, item)...)
}

func (l *List[T]) setSelected(index int) {
	if l == nil || l.adapter == nil {
		return
	}
	count := l.adapter.Count()
	if count == 0 {
		l.selected = 0
		return
	}
	index = min(max(index, 0), count-1)
	changed := index != l.selected
	l.selected = index
	l.viewport.EnsureVisible(index, 1)
	l.Invalidate()
	if changed && l.onSelect != nil {
		l.onSelect(l.selected, l.adapter.Item(l.selected))
	}
}

// SetSelected updates the selected index.
func (l *List[T]) SetSelected(index int) {
	l.setSelected(index)
}

// SelectedIndex returns the current selection index.
func (l *List[T]) SelectedIndex() int {
	if l == nil {
		return 0
	}
	return l.selected
}

// SelectedItem returns the selected item.
func (l *List[T]) SelectedItem() (T, bool) {
	var zero T
	if l == nil || l.adapter == nil {
		return zero, false
	}
	if l.selected < 0 || l.selected >= l.adapter.Count() {
		return zero, false
	}
	return l.adapter.Item(l.selected), true
}

// Viewport exposes the scroll state, for scrollbars.
func (l *List[T]) Viewport() *scroll.Viewport {
	return l.viewport
}

// ScrollBy moves the selection by dy rows.
func (l *List[T]) ScrollBy(dy int) {
	if dy == 0 {
		return
	}
	l.setSelected(l.selected + dy)
}

// ScrollTo selects item y.
func (l *List[T]) ScrollTo(y int) {
	l.setSelected(y)
}

// PageBy moves the selection by whole pages.
func (l *List[T]) PageBy(pages int) {
	l.setSelected(l.selected + pages*max(l.bounds.Height, 1))
}

// ScrollToStart selects the first item.
func (l *List[T]) ScrollToStart() {
	l.setSelected(0)
}

// ScrollToEnd selects the last item.
func (l *List[T]) ScrollToEnd() {
	if l.adapter == nil {
		return
	}
	l.setSelected(l.adapter.Count() - 1)
}

var _ scroll.Controller = (*List[any])(nil)
