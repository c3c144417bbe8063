package widgets

import (
	"github.com/mattn/go-runewidth"

	"github.com/odvcencio/cascade/backend"
	"github.com/odvcencio/cascade/runtime"
	"github.com/odvcencio/cascade/state"
	"github.com/odvcencio/cascade/terminal"
)

// Example is one entry of the gallery. Entries without Open are listed
// but cannot be opened in a terminal.
type Example struct {
	Title       string
	Description string
	Open        func() (runtime.Widget, error)
}

// Available reports whether the example can be opened.
func (e Example) Available() bool {
	return e.Open != nil
}

// GalleryTitle is the heading drawn above the examples.
const GalleryTitle = "🎬 Cascade Examples"

const galleryHint = "enter open  j/k move  q quit"

// Gallery lists examples and opens the selected one as a modal overlay.
type Gallery struct {
	Base
	examples []Example
	list     *List[Example]
	status   *state.Cell[string]
	label    *SignalLabel
	styles   GalleryStyles
}

// GalleryStyles are the styles a Gallery draws with.
type GalleryStyles struct {
	Title       backend.Style
	Item        backend.Style
	Selected    backend.Style
	Unavailable backend.Style
	Description backend.Style
	Rule        backend.Style
}

// DefaultGalleryStyles returns the built-in look.
func DefaultGalleryStyles() GalleryStyles {
	return GalleryStyles{
		Title:       backend.DefaultStyle().Bold(true),
		Item:        backend.DefaultStyle(),
		Selected:    backend.DefaultStyle().Reverse(true),
		Unavailable: backend.DefaultStyle().Dim(true),
		Description: backend.DefaultStyle().Foreground(backend.ColorBrightBlack),
		Rule:        backend.DefaultStyle().Foreground(backend.ColorBrightBlack),
	}
}

// NewGallery creates a gallery over examples.
func NewGallery(examples []Example) *Gallery {
	g := &Gallery{
		examples: append([]Example(nil), examples...),
		status:   state.NewCell(nil, galleryHint),
		styles:   DefaultGalleryStyles(),
	}
	g.list = NewList[Example](NewSliceAdapter(g.examples, g.renderItem))
	g.list.OnSelect(func(int, Example) { g.status.Set(galleryHint) })
	g.list.OnActivate(g.open)
	g.label = NewSignalLabel(g.status, nil)
	g.label.SetStyle(backend.DefaultStyle().Dim(true))
	return g
}

// List returns the example list.
func (g *Gallery) List() *List[Example] {
	return g.list
}

// Status returns the text of the status line.
func (g *Gallery) Status() state.Readable[string] {
	return g.status
}

// ChildWidgets implements runtime.ChildProvider.
func (g *Gallery) ChildWidgets() []runtime.Widget {
	return []runtime.Widget{g.list, g.label}
}

// Layout places the heading, the list and the status line.
func (g *Gallery) Layout(bounds runtime.Rect) {
	g.Base.Layout(bounds)
	if bounds.Height < 4 {
		g.list.Layout(bounds)
		g.label.Layout(runtime.Rect{})
		return
	}
	g.list.Layout(runtime.Rect{X: bounds.X, Y: bounds.Y + 2, Width: bounds.Width, Height: bounds.Height - 3})
	g.label.Layout(runtime.Rect{X: bounds.X, Y: bounds.Y + bounds.Height - 1, Width: bounds.Width, Height: 1})
}

// Render draws the gallery.
func (g *Gallery) Render(ctx runtime.RenderContext) {
	bounds := g.bounds
	if bounds.Empty() {
		return
	}
	if bounds.Height >= 4 {
		writePadded(ctx.Buffer, bounds.X, bounds.Y, bounds.Width, " "+GalleryTitle, g.styles.Title)
		ctx.Buffer.HLine(bounds.X, bounds.Y+1, bounds.Width, '─', g.styles.Rule)
	}
	g.list.Render(ctx.Sub(g.list.Bounds()))
	g.label.Render(ctx.Sub(g.label.Bounds()))
}

func (g *Gallery) renderItem(ex Example, index int, selected bool, ctx runtime.RenderContext) {
	b := ctx.Bounds
	style := g.styles.Item
	if !ex.Available() {
		style = g.styles.Unavailable
	}
	if selected {
		style = g.styles.Selected
	}
	ctx.Buffer.Fill(b, ' ', style)
	x := ctx.Buffer.SetString(b.X+1, b.Y, truncateString(ex.Title, b.Width-2), style)
	if ex.Description == "" {
		return
	}
	room := b.X + b.Width - x - 3
	if room < 8 {
		return
	}
	desc := truncateString(ex.Description, room)
	descStyle := g.styles.Description
	if selected {
		descStyle = style
	}
	ctx.Buffer.SetString(b.X+b.Width-1-runewidth.StringWidth(desc), b.Y, desc, descStyle)
}

func (g *Gallery) open(_ int, ex Example) []runtime.Command {
	if !ex.Available() {
		msg := ex.Title + " is not available in the terminal"
		g.status.Set(msg)
		return []runtime.Command{runtime.Notify{Level: "info", Text: msg}}
	}
	w, err := ex.Open()
	if err != nil {
		g.status.Set("cannot open " + ex.Title + ": " + err.Error())
		return []runtime.Command{runtime.Notify{Level: "error", Text: "open example", Err: err}}
	}
	g.status.Set(galleryHint)
	return []runtime.Command{runtime.PushOverlay{Widget: w, Modal: true}}
}

// HandleMessage quits on q and passes the rest to the list.
func (g *Gallery) HandleMessage(msg runtime.Message) runtime.HandleResult {
	if key, ok := msg.(runtime.KeyMsg); ok && key.Key == terminal.KeyRune && key.Rune == 'q' {
		return runtime.WithCommand(runtime.Quit{})
	}
	return g.list.HandleMessage(msg)
}

// GalleryExamples lists the classic gesture demos with measure first.
// Only measure can be opened.
func GalleryExamples(measure func() (runtime.Widget, error)) []Example {
	unavailable := []string{
		"🆕 Animated Style Update",
		"🆕 Drag and Snap",
		"🆕 Scroll Events",
		"🆕 Chat Heads",
		"🆕 (advanced) Swipeable List",
		"🆕 (advanced) Lightbox",
		"🆕 (advanced) ScrollView imitation",
		"🆕 (advanced) Tab Bar Example",
		"🆕 (iOS ONLY) Liquid Swipe Example",
	}
	examples := []Example{{
		Title:       "🆕 Measure",
		Description: "sections with derived offsets",
		Open:        measure,
	}}
	for _, title := range unavailable {
		examples = append(examples, Example{Title: title, Description: "gesture demo"})
	}
	return examples
}
