package widgets

import (
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/odvcencio/cascade/accordion"
	"github.com/odvcencio/cascade/animation"
	"github.com/odvcencio/cascade/backend"
	"github.com/odvcencio/cascade/runtime"
	"github.com/odvcencio/cascade/scroll"
	"github.com/odvcencio/cascade/state"
	"github.com/odvcencio/cascade/terminal"
)

// AccordionSection is one titled body of an AccordionView.
type AccordionSection struct {
	Title string
	// HeaderHeight is the header size in rows. Values below 1 become 1.
	HeaderHeight int
	// Lines lays the body out at a width. It is called again when the width changes.
	Lines func(width int) []string
}

// AccordionOptions configures an AccordionView.
type AccordionOptions struct {
	Sections []AccordionSection
	// Margin is the number of blank rows between sections.
	Margin           int
	ExpandDuration   time.Duration
	CollapseDuration time.Duration
	Curve            animation.Curve
	// Clock defaults to the system clock.
	Clock animation.Clock
	// StatusTTL is how long a failure stays in the summary. Zero keeps it
	// until the next successful action.
	StatusTTL time.Duration
	Logger    *log.Logger
	Styles    AccordionStyles
}

// AccordionStyles are the styles an AccordionView draws with.
type AccordionStyles struct {
	Header   backend.Style
	Selected backend.Style
	Trigger  backend.Style
	Phase    backend.Style
	Rule     backend.Style
	Content  backend.Style
}

// DefaultAccordionStyles returns the built-in look.
func DefaultAccordionStyles() AccordionStyles {
	return AccordionStyles{
		Header:   backend.DefaultStyle().Background(backend.ColorBlue).Foreground(backend.ColorBrightWhite),
		Selected: backend.DefaultStyle().Background(backend.ColorCyan).Foreground(backend.ColorBlack).Bold(true),
		Trigger:  backend.DefaultStyle().Background(backend.ColorBrightBlack).Foreground(backend.ColorBrightWhite),
		Phase:    backend.DefaultStyle().Background(backend.ColorBlue).Foreground(backend.ColorBrightYellow).Italic(true),
		Rule:     backend.DefaultStyle().Foreground(backend.ColorBrightBlack),
		Content:  backend.DefaultStyle().Foreground(backend.ColorGreen),
	}
}

const (
	triggerLabel = "[trigger]"
	wheelStep    = 3
)

// AccordionView draws a cascading accordion and measures its sections.
// Section bodies are laid out at the view's width; the laid-out line
// count is the height a section expands to.
type AccordionView struct {
	Component
	sections  []AccordionSection
	headers   []int
	calc      *accordion.Calculator
	driver    *animation.Driver
	logger    *log.Logger
	styles    AccordionStyles
	scrollbar scroll.Scrollbar
	viewport  *scroll.Viewport

	width    int
	lines    [][]string
	selected int

	status    *state.Cell[string]
	statusTTL time.Duration
	summary   *state.Derived[string]
	closed    bool
}

// NewAccordionView creates the view and the calculator behind it.
func NewAccordionView(opts AccordionOptions) (*AccordionView, error) {
	if len(opts.Sections) == 0 {
		return nil, accordion.ErrNoSections
	}
	if opts.Margin < 0 {
		return nil, fmt.Errorf("accordion view: invalid margin %d", opts.Margin)
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	styles := opts.Styles
	if styles == (AccordionStyles{}) {
		styles = DefaultAccordionStyles()
	}

	v := &AccordionView{
		sections:  append([]AccordionSection(nil), opts.Sections...),
		headers:   make([]int, len(opts.Sections)),
		logger:    logger,
		styles:    styles,
		scrollbar: scroll.DefaultScrollbar(),
		viewport:  scroll.NewViewport(),
		lines:     make([][]string, len(opts.Sections)),
		statusTTL: opts.StatusTTL,
	}
	sections := make([]accordion.Section, len(opts.Sections))
	for i, s := range opts.Sections {
		v.headers[i] = max(s.HeaderHeight, 1)
		sections[i] = accordion.Section{Title: s.Title, HeaderHeight: float64(v.headers[i])}
	}

	graph := state.NewGraph()
	v.driver = animation.NewDriver(animation.DriverConfig{
		Clock:  opts.Clock,
		Graph:  graph,
		Logger: logger,
	})
	calc, err := accordion.New(accordion.Config{
		Sections:         sections,
		Margin:           float64(opts.Margin),
		Measurer:         accordion.MeasurerFunc(v.MeasureSection),
		Animator:         v.driver,
		ExpandDuration:   opts.ExpandDuration,
		CollapseDuration: opts.CollapseDuration,
		Curve:            opts.Curve,
		Graph:            graph,
		Logger:           logger,
	})
	if err != nil {
		return nil, err
	}
	v.calc = calc

	v.status = state.NewCell(graph, "")
	v.status.SetEqualFunc(state.EqualComparable[string])
	deps := append(calc.Nodes(), v.status)
	v.summary = state.NewDerived(graph, v.describe, deps...)
	v.summary.SetEqualFunc(state.EqualComparable[string])
	return v, nil
}

// Calculator returns the offset calculator driving the view.
func (v *AccordionView) Calculator() *accordion.Calculator {
	return v.calc
}

// Driver returns the animation driver stepped on every tick.
func (v *AccordionView) Driver() *animation.Driver {
	return v.driver
}

// Viewport returns the scroll state.
func (v *AccordionView) Viewport() *scroll.Viewport {
	return v.viewport
}

// Summary is a one-line description of the accordion, or the last failure.
func (v *AccordionView) Summary() state.Readable[string] {
	return v.summary
}

// Status holds the last failure message, empty after a successful action.
func (v *AccordionView) Status() state.Readable[string] {
	return v.status
}

// Selected returns the index of the section under the cursor.
func (v *AccordionView) Selected() int {
	return v.selected
}

func (v *AccordionView) describe() string {
	if msg := v.status.Get(); msg != "" {
		return msg
	}
	open := 0
	for i := 0; i < v.calc.Len(); i++ {
		if v.calc.ContentHeight(i) > 0 {
			open++
		}
	}
	return fmt.Sprintf("%d of %d open, %d rows", open, v.calc.Len(), int(math.Ceil(v.calc.TotalHeight())))
}

// MeasureSection reports the laid-out height of section index.
// It returns accordion.ErrNotLaidOut before the first Layout.
func (v *AccordionView) MeasureSection(index int) (accordion.Size, error) {
	if index < 0 || index >= len(v.lines) {
		return accordion.Size{}, accordion.ErrSectionOutOfRange
	}
	if v.lines[index] == nil {
		return accordion.Size{}, accordion.ErrNotLaidOut
	}
	return accordion.Size{
		Width:  float64(v.contentWidth()),
		Height: float64(len(v.lines[index])),
	}, nil
}

// contentWidth leaves one column each side and one for the scrollbar.
func (v *AccordionView) contentWidth() int {
	return max(v.width-3, 1)
}

// Layout lays section bodies out again when the width changes and lets
// open sections follow their new height.
func (v *AccordionView) Layout(bounds runtime.Rect) {
	v.Base.Layout(bounds)
	if bounds.Width > 0 && bounds.Width != v.width {
		v.width = bounds.Width
		v.relayout()
	}
	v.viewport.SetViewHeight(bounds.Height)
	v.syncViewport()
}

func (v *AccordionView) relayout() {
	width := v.contentWidth()
	for i, s := range v.sections {
		var lines []string
		if s.Lines != nil {
			lines = s.Lines(width)
		}
		if lines == nil {
			lines = []string{}
		}
		v.lines[i] = lines
	}
	for i := range v.sections {
		if err := v.calc.Remeasure(i); err != nil {
			v.logger.Warn("remeasure failed", "section", i, "err", err)
		}
	}
	v.logger.Debug("sections laid out", "width", width)
}

func (v *AccordionView) syncViewport() {
	v.viewport.SetContentHeight(int(math.Ceil(v.calc.TotalHeight())))
}

// Mount keeps the cursor's header in view while sections above it move.
func (v *AccordionView) Mount() {
	v.Subs.Clear()
	cells := make([]state.Subscribable, v.calc.Len())
	for i := range cells {
		cells[i] = v.calc.ContentCell(i)
	}
	v.Subs.ObserveAll(v.follow, cells...)
}

// Unmount drops the subscriptions made by Mount.
func (v *AccordionView) Unmount() {
	v.Subs.Clear()
}

func (v *AccordionView) follow() {
	v.syncViewport()
	v.Invalidate()
}

// Close cancels running animations and detaches every derived cell.
func (v *AccordionView) Close() {
	if v.closed {
		return
	}
	v.closed = true
	v.Subs.Clear()
	v.summary.Stop()
	v.calc.Close()
}

func (v *AccordionView) row(index int) int {
	return int(math.Floor(v.calc.Offset(index)))
}

// Render draws every section at its offset. Later sections are drawn over
// earlier ones.
func (v *AccordionView) Render(ctx runtime.RenderContext) {
	bounds := v.bounds
	if bounds.Empty() {
		return
	}
	ctx.Buffer.Fill(bounds, ' ', backend.DefaultStyle())
	v.syncViewport()
	inner := max(bounds.Width-1, 1)
	for i := range v.sections {
		v.renderSection(ctx.Buffer, i, inner)
	}
	v.scrollbar.Render(ctx.Buffer, bounds.X+bounds.Width-1, bounds.Y, bounds.Height, v.viewport)
	v.ClearInvalidation()
}

func (v *AccordionView) renderSection(buf *runtime.Buffer, index, width int) {
	bounds := v.bounds
	top := bounds.Y + v.row(index) - v.viewport.Offset()
	header := v.headers[index]
	content := int(math.Floor(v.calc.ContentHeight(index)))
	visible := func(y int) bool { return y >= bounds.Y && y < bounds.Y+bounds.Height }

	style := v.styles.Header
	if index == v.selected {
		style = v.styles.Selected
	}
	for r := 0; r < header; r++ {
		y := top + r
		if !visible(y) {
			continue
		}
		if r == header-1 && header > 1 {
			buf.HLine(bounds.X, y, width, '─', v.styles.Rule)
			continue
		}
		buf.Fill(runtime.Rect{X: bounds.X, Y: y, Width: width, Height: 1}, ' ', style)
		if r == 0 {
			v.renderHeaderLine(buf, index, y, width, style)
		}
	}

	lines := v.lines[index]
	for r := 0; r < content; r++ {
		y := top + header + r
		if !visible(y) {
			continue
		}
		buf.Fill(runtime.Rect{X: bounds.X, Y: y, Width: width, Height: 1}, ' ', backend.DefaultStyle())
		if r < len(lines) {
			buf.SetString(bounds.X+1, y, truncateString(lines[r], v.contentWidth()), v.styles.Content)
		}
	}
}

func (v *AccordionView) renderHeaderLine(buf *runtime.Buffer, index, y, width int, style backend.Style) {
	phase := v.calc.Phase(index)
	chevron := "▸"
	if phase == accordion.Expanded || phase == accordion.Expanding {
		chevron = "▾"
	}
	x := v.bounds.X
	right := x + width

	trigger := triggerLabel
	triggerX := right - len(trigger) - 1
	phaseText := phase.String()
	phaseX := triggerX - len(phaseText) - 1

	titleWidth := phaseX - x - 1
	if titleWidth < 4 {
		// Too narrow for the phase column.
		titleWidth = triggerX - x - 1
		phaseText = ""
	}
	if titleWidth < 4 {
		titleWidth = width
		trigger = ""
	}
	buf.SetString(x+1, y, truncateString(chevron+" "+v.sections[index].Title, titleWidth-1), style)
	if phaseText != "" {
		phaseStyle := v.styles.Phase
		if index == v.selected {
			phaseStyle = style.Italic(true)
		}
		buf.SetString(phaseX, y, phaseText, phaseStyle)
	}
	if trigger != "" {
		buf.SetString(triggerX, y, trigger, v.styles.Trigger)
	}
}

// SectionAt returns the section whose block covers view row y, and whether
// the row belongs to its header.
func (v *AccordionView) SectionAt(y int) (index int, header bool, ok bool) {
	row := y - v.bounds.Y + v.viewport.Offset()
	if row < 0 || y < v.bounds.Y || y >= v.bounds.Y+v.bounds.Height {
		return 0, false, false
	}
	offsets := make([]int, len(v.sections))
	for i := range offsets {
		offsets[i] = v.row(i)
	}
	index = scroll.OffsetIndex{Offsets: offsets}.IndexForOffset(row)
	end := offsets[index] + v.headers[index] + int(math.Floor(v.calc.ContentHeight(index)))
	if row >= end {
		return index, false, false
	}
	return index, row < offsets[index]+v.headers[index], true
}

// HandleMessage drives animations on ticks and handles keys and mouse.
func (v *AccordionView) HandleMessage(msg runtime.Message) runtime.HandleResult {
	switch m := msg.(type) {
	case runtime.TickMsg:
		if v.driver.Running() == 0 {
			return runtime.Unhandled()
		}
		v.driver.Step()
		v.syncViewport()
		v.Invalidate()
		return runtime.Handled()
	case runtime.KeyMsg:
		return v.handleKey(m)
	case runtime.MouseMsg:
		return v.handleMouse(m)
	}
	return runtime.Unhandled()
}

func (v *AccordionView) handleKey(key runtime.KeyMsg) runtime.HandleResult {
	switch key.Key {
	case terminal.KeyUp:
		v.Select(v.selected - 1)
	case terminal.KeyDown:
		v.Select(v.selected + 1)
	case terminal.KeyEnter:
		return v.toggle(v.selected)
	case terminal.KeyPageUp:
		v.PageBy(-1)
	case terminal.KeyPageDown:
		v.PageBy(1)
	case terminal.KeyHome:
		v.ScrollToStart()
	case terminal.KeyEnd:
		v.ScrollToEnd()
	case terminal.KeyRune:
		switch key.Rune {
		case 'k':
			v.Select(v.selected - 1)
		case 'j':
			v.Select(v.selected + 1)
		case ' ':
			return v.toggle(v.selected)
		case 'a':
			return v.setAll(true)
		case 'c':
			return v.setAll(false)
		default:
			return runtime.Unhandled()
		}
	default:
		return runtime.Unhandled()
	}
	v.Invalidate()
	return runtime.Handled()
}

func (v *AccordionView) handleMouse(m runtime.MouseMsg) runtime.HandleResult {
	if !v.bounds.Contains(m.X, m.Y) {
		return runtime.Unhandled()
	}
	switch m.Button {
	case runtime.MouseWheelUp:
		v.ScrollBy(-wheelStep)
		return runtime.Handled()
	case runtime.MouseWheelDown:
		v.ScrollBy(wheelStep)
		return runtime.Handled()
	case runtime.MouseLeft:
		if m.Action != runtime.MousePress {
			return runtime.Handled()
		}
		index, header, ok := v.SectionAt(m.Y)
		if !ok {
			return runtime.Handled()
		}
		v.selected = index
		v.Invalidate()
		if header {
			return v.toggle(index)
		}
		return runtime.Handled()
	}
	return runtime.Unhandled()
}

// Toggle expands or collapses section index.
func (v *AccordionView) Toggle(index int) error {
	err := v.calc.Toggle(index)
	v.report(err)
	if err == nil {
		v.logger.Info("section toggled", "section", index, "phase", v.calc.Phase(index))
	}
	return err
}

func (v *AccordionView) toggle(index int) runtime.HandleResult {
	if err := v.Toggle(index); err != nil {
		return runtime.WithCommand(runtime.Notify{Level: "warn", Text: "toggle failed", Err: err})
	}
	v.Invalidate()
	return runtime.Handled()
}

func (v *AccordionView) setAll(expanded bool) runtime.HandleResult {
	var errs []error
	for i := 0; i < v.calc.Len(); i++ {
		if err := v.calc.SetExpanded(i, expanded); err != nil {
			errs = append(errs, err)
		}
	}
	err := errors.Join(errs...)
	v.report(err)
	if err != nil {
		return runtime.WithCommand(runtime.Notify{Level: "warn", Text: "some sections did not change", Err: err})
	}
	v.Invalidate()
	return runtime.Handled()
}

func (v *AccordionView) report(err error) {
	if err == nil {
		v.status.Set("")
		return
	}
	v.logger.Warn("accordion action failed", "err", err)
	msg := err.Error()
	if errors.Is(err, accordion.ErrNotMeasured) {
		msg = "section is not laid out yet"
	}
	v.status.Set(msg)
	if v.statusTTL > 0 {
		v.After(v.statusTTL, func() {
			if v.status.Get() == msg {
				v.status.Set("")
				v.Invalidate()
			}
		})
	}
}

// Select moves the cursor and scrolls its header into view.
func (v *AccordionView) Select(index int) {
	v.selected = min(max(index, 0), len(v.sections)-1)
	v.syncViewport()
	v.viewport.EnsureVisible(v.row(v.selected), v.headers[v.selected])
}

// ScrollBy scrolls by dy rows.
func (v *AccordionView) ScrollBy(dy int) {
	v.viewport.ScrollBy(dy)
	v.Invalidate()
}

// ScrollTo scrolls to row y.
func (v *AccordionView) ScrollTo(y int) {
	v.viewport.ScrollTo(y)
	v.Invalidate()
}

// PageBy scrolls by whole pages.
func (v *AccordionView) PageBy(pages int) {
	v.viewport.PageBy(pages)
	v.Invalidate()
}

// ScrollToStart scrolls to the top.
func (v *AccordionView) ScrollToStart() {
	v.viewport.ScrollToStart()
	v.Invalidate()
}

// ScrollToEnd scrolls to the bottom.
func (v *AccordionView) ScrollToEnd() {
	v.viewport.ScrollToEnd()
	v.Invalidate()
}

var _ scroll.Controller = (*AccordionView)(nil)
