package runtime

import "context"

// Command is an intent emitted by a widget. Commands bubble from the
// widget through the screen to the App.
type Command interface {
	Command()
}

// PostFunc sends a message into the app.
// It returns false when the message queue is full.
type PostFunc func(Message) bool

// Quit stops the app loop.
type Quit struct{}

func (Quit) Command() {}

// Refresh forces a full redraw.
type Refresh struct{}

func (Refresh) Command() {}

// SendMsg posts a message into the app loop.
type SendMsg struct {
	Message Message
}

func (SendMsg) Command() {}

// Send wraps a message in a SendMsg command.
func Send(msg Message) Command {
	return SendMsg{Message: msg}
}

// Cancel reports that the user backed out of a screen.
type Cancel struct{}

func (Cancel) Command() {}

// Effect runs work in a background goroutine.
// Use the provided context for cancellation and PostFunc to emit messages.
type Effect struct {
	Run func(ctx context.Context, post PostFunc)
}

func (Effect) Command() {}

// PushOverlay pushes Widget as a new layer.
type PushOverlay struct {
	Widget Widget
	Modal  bool
}

func (PushOverlay) Command() {}

// PopOverlay dismisses the top layer.
type PopOverlay struct{}

func (PopOverlay) Command() {}

// Notify carries a status message for the app's command handler.
type Notify struct {
	Level string // "info", "warn" or "error"
	Text  string
	Err   error
}

func (Notify) Command() {}
