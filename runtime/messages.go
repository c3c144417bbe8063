package runtime

import (
	"time"

	"github.com/odvcencio/cascade/terminal"
)

// Message is anything the event loop can process. Backend events are
// translated into messages; background work reaches the loop through
// Post or a CallMsg.
type Message interface {
	isMessage()
}

// KeyMsg is a key press.
type KeyMsg struct {
	Key   terminal.Key
	Rune  rune
	Alt   bool
	Ctrl  bool
	Shift bool
}

// ResizeMsg carries the new terminal size.
type ResizeMsg struct {
	Width  int
	Height int
}

// Mouse buttons and actions are shared with the terminal package.
type (
	MouseButton = terminal.MouseButton
	MouseAction = terminal.MouseAction
)

const (
	MouseNone      = terminal.MouseNone
	MouseLeft      = terminal.MouseLeft
	MouseMiddle    = terminal.MouseMiddle
	MouseRight     = terminal.MouseRight
	MouseWheelUp   = terminal.MouseWheelUp
	MouseWheelDown = terminal.MouseWheelDown

	MousePress   = terminal.MousePress
	MouseRelease = terminal.MouseRelease
	MouseMove    = terminal.MouseMove
)

// MouseMsg is a mouse event in screen cells.
type MouseMsg struct {
	X, Y   int
	Button MouseButton
	Action MouseAction
	Alt    bool
	Ctrl   bool
	Shift  bool
}

// PasteMsg holds bracketed-paste text.
type PasteMsg struct {
	Text string
}

// TickMsg drives animations. Time is when the tick fired.
type TickMsg struct {
	Time time.Time
}

// QueueFlushMsg wakes the loop to flush the state queue.
type QueueFlushMsg struct{}

// InvalidateMsg asks for a render pass.
type InvalidateMsg struct{}

func (KeyMsg) isMessage()        {}
func (ResizeMsg) isMessage()     {}
func (MouseMsg) isMessage()      {}
func (PasteMsg) isMessage()      {}
func (TickMsg) isMessage()       {}
func (QueueFlushMsg) isMessage() {}
func (InvalidateMsg) isMessage() {}
