// Package backend abstracts the terminal a runtime.App draws to.
package backend

import "github.com/odvcencio/cascade/terminal"

// Backend is a cell-addressed terminal.
type Backend interface {
	Init() error
	Fini()
	Size() (width, height int)
	SetContent(x, y int, mainc rune, combc []rune, style Style)
	Show()
	Sync()
	HideCursor()
	// PollEvent blocks for the next event. It returns nil once the backend is finalized.
	PollEvent() terminal.Event
}

// Cell is one character cell. A zero Rune marks the second column of a
// double-width rune and is skipped when drawing.
type Cell struct {
	Rune  rune
	Style Style
}

// RowWriter is implemented by backends that take a run of cells in one
// call. The App prefers it over per-cell SetContent for dirty rows.
type RowWriter interface {
	SetRow(y int, startX int, cells []Cell)
}

// RectWriter takes a row-major block of width*height cells.
type RectWriter interface {
	SetRect(x, y, width, height int, cells []Cell)
}
