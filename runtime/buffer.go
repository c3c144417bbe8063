package runtime

import (
	"github.com/mattn/go-runewidth"

	"github.com/odvcencio/cascade/backend"
)

// Cell is one buffer cell.
type Cell = backend.Cell

// Buffer is the off-screen grid widgets render into. It records which
// cells changed since the last flush so the app only sends those.
type Buffer struct {
	cells  []Cell
	width  int
	height int

	dirtyStamp []uint32
	dirtyGen   uint32
	dirtyAll   bool
	dirtyCount int
	dirtyRect  Rect
}

// NewBuffer creates a blank buffer.
func NewBuffer(w, h int) *Buffer {
	b := &Buffer{dirtyGen: 1}
	b.alloc(w, h)
	return b
}

func (b *Buffer) alloc(w, h int) {
	w, h = max(w, 0), max(h, 0)
	b.width, b.height = w, h
	b.cells = make([]Cell, w*h)
	for i := range b.cells {
		b.cells[i] = Cell{Rune: ' '}
	}
	b.dirtyStamp = make([]uint32, w*h)
}

// Size returns the buffer dimensions.
func (b *Buffer) Size() (w, h int) {
	return b.width, b.height
}

// Resize changes the dimensions, keeping the overlapping content, and
// marks everything dirty.
func (b *Buffer) Resize(w, h int) {
	if w == b.width && h == b.height {
		return
	}
	old, oldW := b.cells, b.width
	oldH := b.height
	b.alloc(w, h)
	for y := 0; y < min(h, oldH); y++ {
		n := min(w, oldW)
		copy(b.cells[y*b.width:y*b.width+n], old[y*oldW:y*oldW+n])
	}
	b.dirtyGen = 1
	b.MarkAllDirty()
}

// Clear blanks the whole buffer.
func (b *Buffer) Clear() {
	b.Fill(Rect{0, 0, b.width, b.height}, ' ', backend.DefaultStyle())
}

// ClearRect blanks r.
func (b *Buffer) ClearRect(r Rect) {
	b.Fill(r, ' ', backend.DefaultStyle())
}

// Get returns the cell at (x, y), or a blank cell outside the buffer.
func (b *Buffer) Get(x, y int) Cell {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return Cell{Rune: ' '}
	}
	return b.cells[y*b.width+x]
}

// Set writes one cell. Out-of-bounds writes are dropped.
func (b *Buffer) Set(x, y int, r rune, s backend.Style) {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return
	}
	idx := y*b.width + x
	cell := Cell{Rune: r, Style: s}
	if b.cells[idx] != cell {
		b.cells[idx] = cell
		b.markCellDirty(x, y, idx)
	}
}

// SetString writes s from (x, y) and returns the column after the last
// rune written. Double-width runes take two cells and are dropped when
// only one cell is left.
func (b *Buffer) SetString(x, y int, s string, style backend.Style) int {
	if y < 0 || y >= b.height {
		return x
	}
	px := x
	for _, r := range s {
		if px >= b.width {
			break
		}
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if w == 2 && px+1 >= b.width {
			break
		}
		if px >= 0 {
			b.Set(px, y, r, style)
		}
		if w == 2 && px+1 >= 0 {
			b.Set(px+1, y, 0, style)
		}
		px += w
	}
	return px
}

// Fill fills r, clipped to the buffer.
func (b *Buffer) Fill(r Rect, ch rune, s backend.Style) {
	r = r.Intersection(Rect{0, 0, b.width, b.height})
	cell := Cell{Rune: ch, Style: s}
	for y := r.Y; y < r.Y+r.Height; y++ {
		idx := y*b.width + r.X
		for x := r.X; x < r.X+r.Width; x++ {
			if b.cells[idx] != cell {
				b.cells[idx] = cell
				b.markCellDirty(x, y, idx)
			}
			idx++
		}
	}
}

// HLine draws a horizontal run of ch.
func (b *Buffer) HLine(x, y, width int, ch rune, s backend.Style) {
	b.Fill(Rect{X: x, Y: y, Width: width, Height: 1}, ch, s)
}

// DrawBox draws a rounded border around r.
func (b *Buffer) DrawBox(r Rect, s backend.Style) {
	if r.Width < 2 || r.Height < 2 {
		return
	}
	right, bottom := r.X+r.Width-1, r.Y+r.Height-1
	b.Set(r.X, r.Y, '╭', s)
	b.Set(right, r.Y, '╮', s)
	b.Set(r.X, bottom, '╰', s)
	b.Set(right, bottom, '╯', s)
	b.HLine(r.X+1, r.Y, r.Width-2, '─', s)
	b.HLine(r.X+1, bottom, r.Width-2, '─', s)
	for y := r.Y + 1; y < bottom; y++ {
		b.Set(r.X, y, '│', s)
		b.Set(right, y, '│', s)
	}
}

// SubBuffer is a clipped, translated view of a Buffer.
type SubBuffer struct {
	parent *Buffer
	bounds Rect
}

// Sub returns a view of r.
func (b *Buffer) Sub(r Rect) *SubBuffer {
	return &SubBuffer{parent: b, bounds: r}
}

// Size returns the view dimensions.
func (s *SubBuffer) Size() (w, h int) {
	return s.bounds.Width, s.bounds.Height
}

// Set writes a cell relative to the view.
func (s *SubBuffer) Set(x, y int, r rune, style backend.Style) {
	if x < 0 || x >= s.bounds.Width || y < 0 || y >= s.bounds.Height {
		return
	}
	s.parent.Set(s.bounds.X+x, s.bounds.Y+y, r, style)
}

// SetString writes text relative to the view, clipped to its width.
func (s *SubBuffer) SetString(x, y int, str string, style backend.Style) {
	if y < 0 || y >= s.bounds.Height {
		return
	}
	px := x
	for _, r := range str {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if px+w > s.bounds.Width {
			break
		}
		if px >= 0 {
			s.parent.SetString(s.bounds.X+px, s.bounds.Y+y, string(r), style)
		}
		px += w
	}
}

// Fill fills r relative to the view.
func (s *SubBuffer) Fill(r Rect, ch rune, style backend.Style) {
	clipped := r.Intersection(Rect{0, 0, s.bounds.Width, s.bounds.Height})
	if clipped.Empty() {
		return
	}
	clipped.X += s.bounds.X
	clipped.Y += s.bounds.Y
	s.parent.Fill(clipped, ch, style)
}

// Clear blanks the view.
func (s *SubBuffer) Clear() {
	s.Fill(Rect{0, 0, s.bounds.Width, s.bounds.Height}, ' ', backend.DefaultStyle())
}

func (b *Buffer) markCellDirty(x, y, idx int) {
	if b.dirtyAll || b.dirtyStamp[idx] == b.dirtyGen {
		return
	}
	b.dirtyStamp[idx] = b.dirtyGen
	b.dirtyCount++
	if b.dirtyCount == 1 {
		b.dirtyRect = Rect{X: x, Y: y, Width: 1, Height: 1}
		return
	}
	x0 := min(b.dirtyRect.X, x)
	y0 := min(b.dirtyRect.Y, y)
	x1 := max(b.dirtyRect.X+b.dirtyRect.Width, x+1)
	y1 := max(b.dirtyRect.Y+b.dirtyRect.Height, y+1)
	b.dirtyRect = Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// MarkAllDirty forces a full flush.
func (b *Buffer) MarkAllDirty() {
	b.dirtyAll = true
	b.dirtyCount = b.width * b.height
	b.dirtyRect = Rect{X: 0, Y: 0, Width: b.width, Height: b.height}
}

// ClearDirty resets dirty tracking after a flush.
func (b *Buffer) ClearDirty() {
	b.dirtyAll = false
	b.dirtyCount = 0
	b.dirtyRect = Rect{}
	b.dirtyGen++
	if b.dirtyGen == 0 {
		clear(b.dirtyStamp)
		b.dirtyGen = 1
	}
}

// IsDirty reports whether anything changed since the last flush.
func (b *Buffer) IsDirty() bool {
	return b.dirtyAll || b.dirtyCount > 0
}

// DirtyCount returns the number of changed cells.
func (b *Buffer) DirtyCount() int {
	return b.dirtyCount
}

// DirtyRect returns the bounding box of changed cells.
func (b *Buffer) DirtyRect() Rect {
	return b.dirtyRect
}

// IsCellDirty reports whether (x, y) changed.
func (b *Buffer) IsCellDirty(x, y int) bool {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return false
	}
	return b.dirtyAll || b.dirtyStamp[y*b.width+x] == b.dirtyGen
}

// ForEachDirtyCell calls fn for each changed cell inside the dirty rect.
func (b *Buffer) ForEachDirtyCell(fn func(x, y int, cell Cell)) {
	if !b.IsDirty() {
		return
	}
	r := b.dirtyRect
	for y := r.Y; y < r.Y+r.Height; y++ {
		for x := r.X; x < r.X+r.Width; x++ {
			if b.IsCellDirty(x, y) {
				fn(x, y, b.cells[y*b.width+x])
			}
		}
	}
}

// ForEachDirtySpan calls fn for each run of changed cells on a row.
// endX is exclusive.
func (b *Buffer) ForEachDirtySpan(fn func(y, startX, endX int)) {
	if !b.IsDirty() {
		return
	}
	r := b.dirtyRect
	for y := r.Y; y < r.Y+r.Height; y++ {
		x := r.X
		end := r.X + r.Width
		for x < end {
			if !b.IsCellDirty(x, y) {
				x++
				continue
			}
			start := x
			for x < end && b.IsCellDirty(x, y) {
				x++
			}
			fn(y, start, x)
		}
	}
}

// Cells returns the row-major cell slice.
func (b *Buffer) Cells() []Cell {
	return b.cells
}
