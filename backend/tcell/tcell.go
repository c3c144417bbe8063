// Package tcell implements backend.Backend on top of tcell.
package tcell

import (
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/odvcencio/cascade/backend"
	"github.com/odvcencio/cascade/terminal"
)

// Backend draws to a tcell screen.
type Backend struct {
	screen tcell.Screen

	mu      sync.Mutex
	buttons tcell.ButtonMask
	pasting bool
	paste   strings.Builder
}

// New allocates a tcell screen for the current terminal.
func New() (*Backend, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return &Backend{screen: screen}, nil
}

// NewWithScreen wraps an existing tcell screen, such as a simulation screen.
func NewWithScreen(screen tcell.Screen) *Backend {
	return &Backend{screen: screen}
}

// Init initializes the screen and enables mouse and paste reporting.
func (b *Backend) Init() error {
	if err := b.screen.Init(); err != nil {
		return err
	}
	b.screen.EnableMouse(tcell.MouseButtonEvents | tcell.MouseDragEvents)
	b.screen.EnablePaste()
	b.screen.Clear()
	return nil
}

// Fini restores the terminal.
func (b *Backend) Fini() {
	b.screen.Fini()
}

// Size returns the terminal size in cells.
func (b *Backend) Size() (int, int) {
	return b.screen.Size()
}

// SetContent writes one cell.
func (b *Backend) SetContent(x, y int, mainc rune, combc []rune, style backend.Style) {
	if mainc == 0 {
		return
	}
	b.screen.SetContent(x, y, mainc, combc, convertStyle(style))
}

// SetRect writes a row-major block of cells.
func (b *Backend) SetRect(x, y, width, height int, cells []backend.Cell) {
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			idx := row*width + col
			if idx >= len(cells) {
				return
			}
			c := cells[idx]
			if c.Rune == 0 {
				continue
			}
			b.screen.SetContent(x+col, y+row, c.Rune, nil, convertStyle(c.Style))
		}
	}
}

// Show flushes pending cells.
func (b *Backend) Show() {
	b.screen.Show()
}

// Sync repaints the whole terminal.
func (b *Backend) Sync() {
	b.screen.Sync()
}

// HideCursor hides the text cursor.
func (b *Backend) HideCursor() {
	b.screen.HideCursor()
}

// PollEvent blocks until tcell delivers an event the runtime understands.
func (b *Backend) PollEvent() terminal.Event {
	for {
		ev := b.screen.PollEvent()
		if ev == nil {
			return nil
		}
		if out := b.convert(ev); out != nil {
			return out
		}
	}
}

func (b *Backend) convert(ev tcell.Event) terminal.Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch e := ev.(type) {
	case *tcell.EventResize:
		w, h := e.Size()
		return terminal.ResizeEvent{Width: w, Height: h}
	case *tcell.EventPaste:
		if e.Start() {
			b.pasting = true
			b.paste.Reset()
			return nil
		}
		b.pasting = false
		return terminal.PasteEvent{Text: b.paste.String()}
	case *tcell.EventKey:
		if b.pasting {
			switch e.Key() {
			case tcell.KeyRune:
				b.paste.WriteRune(e.Rune())
			case tcell.KeyEnter:
				b.paste.WriteByte('\n')
			case tcell.KeyTab:
				b.paste.WriteByte('\t')
			}
			return nil
		}
		return convertKey(e)
	case *tcell.EventMouse:
		return b.convertMouse(e)
	}
	return nil
}

var keyMap = map[tcell.Key]terminal.Key{
	tcell.KeyEnter:      terminal.KeyEnter,
	tcell.KeyEscape:     terminal.KeyEscape,
	tcell.KeyBackspace:  terminal.KeyBackspace,
	tcell.KeyBackspace2: terminal.KeyBackspace,
	tcell.KeyTab:        terminal.KeyTab,
	tcell.KeyBacktab:    terminal.KeyBacktab,
	tcell.KeyUp:         terminal.KeyUp,
	tcell.KeyDown:       terminal.KeyDown,
	tcell.KeyLeft:       terminal.KeyLeft,
	tcell.KeyRight:      terminal.KeyRight,
	tcell.KeyHome:       terminal.KeyHome,
	tcell.KeyEnd:        terminal.KeyEnd,
	tcell.KeyPgUp:       terminal.KeyPageUp,
	tcell.KeyPgDn:       terminal.KeyPageDown,
	tcell.KeyInsert:     terminal.KeyInsert,
	tcell.KeyDelete:     terminal.KeyDelete,
	tcell.KeyCtrlC:      terminal.KeyCtrlC,
	tcell.KeyCtrlD:      terminal.KeyCtrlD,
	tcell.KeyCtrlL:      terminal.KeyCtrlL,
}

func convertKey(e *tcell.EventKey) terminal.Event {
	mods := e.Modifiers()
	out := terminal.KeyEvent{
		Alt:   mods&tcell.ModAlt != 0,
		Ctrl:  mods&tcell.ModCtrl != 0,
		Shift: mods&tcell.ModShift != 0,
	}
	if e.Key() == tcell.KeyRune {
		out.Key = terminal.KeyRune
		out.Rune = e.Rune()
		return out
	}
	key, ok := keyMap[e.Key()]
	if !ok {
		return nil
	}
	out.Key = key
	return out
}

func (b *Backend) convertMouse(e *tcell.EventMouse) terminal.Event {
	x, y := e.Position()
	mods := e.Modifiers()
	out := terminal.MouseEvent{
		X:     x,
		Y:     y,
		Alt:   mods&tcell.ModAlt != 0,
		Ctrl:  mods&tcell.ModCtrl != 0,
		Shift: mods&tcell.ModShift != 0,
	}
	buttons := e.Buttons()
	switch {
	case buttons&tcell.WheelUp != 0:
		out.Button = terminal.MouseWheelUp
		return out
	case buttons&tcell.WheelDown != 0:
		out.Button = terminal.MouseWheelDown
		return out
	}

	pressed := buttons & (tcell.Button1 | tcell.Button2 | tcell.Button3)
	prev := b.buttons
	b.buttons = pressed
	switch {
	case pressed != 0 && prev == 0:
		out.Action = terminal.MousePress
		out.Button = mouseButton(pressed)
	case pressed == 0 && prev != 0:
		out.Action = terminal.MouseRelease
		out.Button = mouseButton(prev)
	default:
		out.Action = terminal.MouseMove
		out.Button = mouseButton(pressed)
	}
	return out
}

func mouseButton(mask tcell.ButtonMask) terminal.MouseButton {
	switch {
	case mask&tcell.Button1 != 0:
		return terminal.MouseLeft
	case mask&tcell.Button3 != 0:
		return terminal.MouseMiddle
	case mask&tcell.Button2 != 0:
		return terminal.MouseRight
	default:
		return terminal.MouseNone
	}
}

func convertStyle(s backend.Style) tcell.Style {
	fg, bg, attrs := s.Decompose()
	st := tcell.StyleDefault.Foreground(convertColor(fg)).Background(convertColor(bg))
	return st.
		Bold(attrs&backend.AttrBold != 0).
		Dim(attrs&backend.AttrDim != 0).
		Italic(attrs&backend.AttrItalic != 0).
		Underline(attrs&backend.AttrUnderline != 0).
		Reverse(attrs&backend.AttrReverse != 0)
}

func convertColor(c backend.Color) tcell.Color {
	if idx, ok := c.Palette(); ok {
		return tcell.PaletteColor(idx)
	}
	if r, g, b, ok := c.RGB(); ok {
		return tcell.NewRGBColor(int32(r), int32(g), int32(b))
	}
	return tcell.ColorDefault
}

var (
	_ backend.Backend    = (*Backend)(nil)
	_ backend.RectWriter = (*Backend)(nil)
)
