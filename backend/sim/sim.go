// Package sim provides an in-memory backend for tests and headless runs.
package sim

import (
	"strings"
	"sync"

	"github.com/odvcencio/cascade/backend"
	"github.com/odvcencio/cascade/terminal"
)

// Backend keeps a cell grid in memory and replays injected events.
type Backend struct {
	mu      sync.Mutex
	width   int
	height  int
	cells   []backend.Cell
	pending []backend.Cell
	shows   int
	events  chan terminal.Event
	done    chan struct{}
	once    sync.Once
}

// New creates a width x height backend.
func New(width, height int) *Backend {
	b := &Backend{
		events: make(chan terminal.Event, 64),
		done:   make(chan struct{}),
	}
	b.resize(width, height)
	return b
}

func (b *Backend) resize(width, height int) {
	b.width = max(width, 0)
	b.height = max(height, 0)
	b.cells = blank(b.width * b.height)
	b.pending = blank(b.width * b.height)
}

func blank(n int) []backend.Cell {
	cells := make([]backend.Cell, n)
	for i := range cells {
		cells[i] = backend.Cell{Rune: ' '}
	}
	return cells
}

// Init is a no-op.
func (b *Backend) Init() error { return nil }

// Fini unblocks PollEvent.
func (b *Backend) Fini() {
	b.once.Do(func() { close(b.done) })
}

// Size returns the grid size.
func (b *Backend) Size() (int, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.width, b.height
}

// SetContent writes a pending cell; Show makes it visible.
func (b *Backend) SetContent(x, y int, mainc rune, _ []rune, style backend.Style) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if x < 0 || y < 0 || x >= b.width || y >= b.height {
		return
	}
	b.pending[y*b.width+x] = backend.Cell{Rune: mainc, Style: style}
}

// SetRow writes a run of pending cells.
func (b *Backend) SetRow(y, startX int, cells []backend.Cell) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if y < 0 || y >= b.height {
		return
	}
	for i, c := range cells {
		x := startX + i
		if x < 0 || x >= b.width {
			continue
		}
		b.pending[y*b.width+x] = c
	}
}

// Show publishes pending cells.
func (b *Backend) Show() {
	b.mu.Lock()
	defer b.mu.Unlock()
	copy(b.cells, b.pending)
	b.shows++
}

// Sync is Show.
func (b *Backend) Sync() { b.Show() }

// HideCursor is a no-op.
func (b *Backend) HideCursor() {}

// PollEvent returns the next injected event, or nil after Fini.
func (b *Backend) PollEvent() terminal.Event {
	select {
	case ev := <-b.events:
		return ev
	case <-b.done:
		return nil
	}
}

// Inject queues an event. A ResizeEvent also resizes the grid.
func (b *Backend) Inject(ev terminal.Event) {
	if rs, ok := ev.(terminal.ResizeEvent); ok {
		b.mu.Lock()
		b.resize(rs.Width, rs.Height)
		b.mu.Unlock()
	}
	select {
	case b.events <- ev:
	case <-b.done:
	}
}

// InjectKey queues a key press.
func (b *Backend) InjectKey(key terminal.Key, r rune) {
	b.Inject(terminal.KeyEvent{Key: key, Rune: r})
}

// InjectRune queues a printable key press.
func (b *Backend) InjectRune(r rune) {
	b.InjectKey(terminal.KeyRune, r)
}

// InjectClick queues a left press and release at (x, y).
func (b *Backend) InjectClick(x, y int) {
	b.Inject(terminal.MouseEvent{X: x, Y: y, Button: terminal.MouseLeft, Action: terminal.MousePress})
	b.Inject(terminal.MouseEvent{X: x, Y: y, Button: terminal.MouseLeft, Action: terminal.MouseRelease})
}

// Cell returns the visible cell at (x, y).
func (b *Backend) Cell(x, y int) backend.Cell {
	b.mu.Lock()
	defer b.mu.Unlock()
	if x < 0 || y < 0 || x >= b.width || y >= b.height {
		return backend.Cell{}
	}
	return b.cells[y*b.width+x]
}

// Line returns visible row y with trailing spaces trimmed.
func (b *Backend) Line(y int) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if y < 0 || y >= b.height {
		return ""
	}
	return strings.TrimRight(rowString(b.cells[y*b.width:(y+1)*b.width]), " ")
}

// Capture returns the visible grid, one line per row.
func (b *Backend) Capture() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	lines := make([]string, b.height)
	for y := range lines {
		lines[y] = strings.TrimRight(rowString(b.cells[y*b.width:(y+1)*b.width]), " ")
	}
	return strings.Join(lines, "\n")
}

// Shows returns how many times Show was called.
func (b *Backend) Shows() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.shows
}

func rowString(cells []backend.Cell) string {
	var sb strings.Builder
	for _, c := range cells {
		if c.Rune == 0 {
			// trailing half of a wide rune
			continue
		}
		sb.WriteRune(c.Rune)
	}
	return sb.String()
}

var (
	_ backend.Backend   = (*Backend)(nil)
	_ backend.RowWriter = (*Backend)(nil)
)
