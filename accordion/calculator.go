// Package accordion computes cascading vertical offsets for a list of
// collapsible sections whose expanded heights are known only after the
// content has been measured.
//
// Every section owns a content-height cell (0 when collapsed) and an
// offset cell derived from the previous section:
//
//	offset[0] = 0
//	offset[i] = offset[i-1] + content[i-1] + header[i-1] + margin
//
// Toggle animates one content cell; the offset chain below it follows on
// every frame through the state graph.
package accordion

import (
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/odvcencio/cascade/animation"
	"github.com/odvcencio/cascade/state"
)

// Defaults match the classic measure example.
const (
	DefaultMargin           = 1.0
	DefaultExpandDuration   = 500 * time.Millisecond
	DefaultCollapseDuration = 100 * time.Millisecond
)

// Section is a fixed entry in the accordion.
type Section struct {
	Title        string
	HeaderHeight float64
}

// Phase is the animation state of one section.
type Phase int

const (
	Collapsed Phase = iota
	Expanding
	Expanded
	Collapsing
)

// String returns a lower-case phase name.
func (p Phase) String() string {
	switch p {
	case Collapsed:
		return "collapsed"
	case Expanding:
		return "expanding"
	case Expanded:
		return "expanded"
	case Collapsing:
		return "collapsing"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Config configures a Calculator.
type Config struct {
	Sections []Section
	// Margin is added between consecutive sections. Zero is a valid margin;
	// use DefaultMargin for the classic layout.
	Margin   float64
	Measurer Measurer
	Animator Animator
	// ExpandDuration and CollapseDuration default when non-positive.
	ExpandDuration   time.Duration
	CollapseDuration time.Duration
	// Curve defaults to animation.Ease.
	Curve animation.Curve
	// Graph is created when nil. It must be the graph the Animator batches on.
	Graph  *state.Graph
	Logger *log.Logger
}

// Calculator owns the content-height and offset cells of one accordion.
type Calculator struct {
	graph    *state.Graph
	sections []Section
	margin   float64
	content  []*state.Cell[float64]
	offsets  []*state.Derived[float64]
	measurer Measurer
	animator Animator
	expand   time.Duration
	collapse time.Duration
	curve    animation.Curve
	logger   *log.Logger
}

// New allocates one content cell and one offset cell per section and wires
// each offset to the previous offset and content cells.
func New(cfg Config) (*Calculator, error) {
	if len(cfg.Sections) == 0 {
		return nil, ErrNoSections
	}
	if cfg.Measurer == nil {
		return nil, errors.New("accordion: measurer is required")
	}
	if cfg.Animator == nil {
		return nil, errors.New("accordion: animator is required")
	}
	if cfg.Margin < 0 || math.IsNaN(cfg.Margin) {
		return nil, fmt.Errorf("accordion: invalid margin %v", cfg.Margin)
	}
	for i, s := range cfg.Sections {
		if s.HeaderHeight < 0 || math.IsNaN(s.HeaderHeight) || math.IsInf(s.HeaderHeight, 0) {
			return nil, fmt.Errorf("accordion: section %d: invalid header height %v", i, s.HeaderHeight)
		}
	}

	c := &Calculator{
		graph:    cfg.Graph,
		sections: append([]Section(nil), cfg.Sections...),
		margin:   cfg.Margin,
		measurer: cfg.Measurer,
		animator: cfg.Animator,
		expand:   cfg.ExpandDuration,
		collapse: cfg.CollapseDuration,
		curve:    cfg.Curve,
		logger:   cfg.Logger,
	}
	if c.graph == nil {
		c.graph = state.NewGraph()
	}
	if c.expand <= 0 {
		c.expand = DefaultExpandDuration
	}
	if c.collapse <= 0 {
		c.collapse = DefaultCollapseDuration
	}
	if c.curve == nil {
		c.curve = animation.Ease
	}
	if c.logger == nil {
		c.logger = log.New(io.Discard)
	}

	n := len(c.sections)
	c.content = make([]*state.Cell[float64], n)
	for i := range c.content {
		cell := state.NewCell(c.graph, 0.0)
		cell.SetEqualFunc(state.EqualComparable[float64])
		c.content[i] = cell
	}

	c.offsets = make([]*state.Derived[float64], n)
	c.offsets[0] = state.NewDerived(c.graph, func() float64 { return 0 })
	for i := 1; i < n; i++ {
		prev := c.offsets[i-1]
		above := c.content[i-1]
		step := c.sections[i-1].HeaderHeight + c.margin
		offset := state.NewDerived(c.graph, func() float64 {
			return prev.Get() + above.Get() + step
		}, prev, above)
		offset.SetEqualFunc(state.EqualComparable[float64])
		c.offsets[i] = offset
	}
	return c, nil
}

// Toggle expands a closed section to its measured height, or collapses an
// open one. A section is open when its content height is non-zero or an
// expand is in flight that has not written a frame yet, so two toggles in
// a row always return the section to zero. Exactly one animation starts per
// call, except that a section measuring zero has nothing to expand.
//
// Only the expand path measures. It fails without touching any cell when
// the section cannot be measured yet or the measurement is not a
// non-negative finite number. Collapsing never fails for a valid index.
func (c *Calculator) Toggle(index int) error {
	if index < 0 || index >= len(c.sections) {
		return fmt.Errorf("toggle %d: %w", index, ErrSectionOutOfRange)
	}
	cell := c.content[index]
	if c.open(index) {
		id := c.animator.AnimateTo(cell, 0, c.collapse, c.curve)
		c.logger.Debug("section collapsing", "section", index, "title", c.sections[index].Title, "from", cell.Get(), "run", id)
		return nil
	}
	h, err := c.measure(index)
	if err != nil {
		return fmt.Errorf("toggle %d: %w", index, err)
	}
	if h == 0 {
		c.logger.Debug("section has no content", "section", index, "title", c.sections[index].Title)
		return nil
	}
	id := c.animator.AnimateTo(cell, h, c.expand, c.curve)
	c.logger.Debug("section expanding", "section", index, "title", c.sections[index].Title, "height", h, "run", id)
	return nil
}

// open reports whether Toggle would collapse section index.
func (c *Calculator) open(index int) bool {
	cell := c.content[index]
	if cell.Get() != 0 {
		return true
	}
	run, ok := c.animator.Active(cell)
	return ok && run.Target > 0
}

// SetExpanded toggles index only when its phase does not already head to expanded.
func (c *Calculator) SetExpanded(index int, expanded bool) error {
	if index < 0 || index >= len(c.sections) {
		return fmt.Errorf("set expanded %d: %w", index, ErrSectionOutOfRange)
	}
	phase := c.Phase(index)
	open := phase == Expanded || phase == Expanding
	if open == expanded {
		return nil
	}
	if expanded && c.content[index].Get() != 0 {
		// Collapsing: Toggle would collapse again, so retarget upward.
		h, err := c.measure(index)
		if err != nil {
			return fmt.Errorf("set expanded %d: %w", index, err)
		}
		c.animator.AnimateTo(c.content[index], h, c.expand, c.curve)
		return nil
	}
	return c.Toggle(index)
}

// Remeasure retargets an open section to its current measured height, for
// content that reflowed. Closed sections are left alone.
func (c *Calculator) Remeasure(index int) error {
	if index < 0 || index >= len(c.sections) {
		return fmt.Errorf("remeasure %d: %w", index, ErrSectionOutOfRange)
	}
	phase := c.Phase(index)
	if phase != Expanded && phase != Expanding {
		return nil
	}
	h, err := c.measure(index)
	if err != nil {
		return fmt.Errorf("remeasure %d: %w", index, err)
	}
	cell := c.content[index]
	if run, ok := c.animator.Active(cell); ok {
		if run.Target == h {
			return nil
		}
	} else if cell.Get() == h {
		return nil
	}
	id := c.animator.AnimateTo(cell, h, c.expand, c.curve)
	c.logger.Debug("section remeasured", "section", index, "height", h, "run", id)
	return nil
}

func (c *Calculator) measure(index int) (float64, error) {
	size, err := c.measurer.Measure(index)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrNotMeasured, err)
	}
	h := size.Height
	if math.IsNaN(h) || math.IsInf(h, 0) || h < 0 {
		return 0, fmt.Errorf("%w: %v", ErrInvalidMeasurement, h)
	}
	return h, nil
}

// Phase reports where section index is in its expand/collapse cycle.
func (c *Calculator) Phase(index int) Phase {
	if index < 0 || index >= len(c.content) {
		return Collapsed
	}
	cell := c.content[index]
	if run, ok := c.animator.Active(cell); ok {
		if run.Target > 0 {
			return Expanding
		}
		return Collapsing
	}
	if cell.Get() == 0 {
		return Collapsed
	}
	return Expanded
}

// Len returns the number of sections.
func (c *Calculator) Len() int {
	return len(c.sections)
}

// Section returns section index.
func (c *Calculator) Section(index int) Section {
	if index < 0 || index >= len(c.sections) {
		return Section{}
	}
	return c.sections[index]
}

// Margin returns the gap added between sections.
func (c *Calculator) Margin() float64 {
	return c.margin
}

// Graph returns the graph that owns the calculator's cells.
func (c *Calculator) Graph() *state.Graph {
	return c.graph
}

// Offset returns the current offset of section index.
func (c *Calculator) Offset(index int) float64 {
	if index < 0 || index >= len(c.offsets) {
		return 0
	}
	return c.offsets[index].Get()
}

// ContentHeight returns the current content height of section index.
func (c *Calculator) ContentHeight(index int) float64 {
	if index < 0 || index >= len(c.content) {
		return 0
	}
	return c.content[index].Get()
}

// Offsets returns a snapshot of every offset.
func (c *Calculator) Offsets() []float64 {
	out := make([]float64, len(c.offsets))
	for i, o := range c.offsets {
		out[i] = o.Get()
	}
	return out
}

// ContentHeights returns a snapshot of every content height.
func (c *Calculator) ContentHeights() []float64 {
	out := make([]float64, len(c.content))
	for i, h := range c.content {
		out[i] = h.Get()
	}
	return out
}

// OffsetCell exposes the derived offset of section index for observers.
func (c *Calculator) OffsetCell(index int) state.Readable[float64] {
	if index < 0 || index >= len(c.offsets) {
		return nil
	}
	return c.offsets[index]
}

// ContentCell exposes the content-height cell of section index for observers.
// Writes should go through Toggle.
func (c *Calculator) ContentCell(index int) state.Readable[float64] {
	if index < 0 || index >= len(c.content) {
		return nil
	}
	return c.content[index]
}

// Nodes returns every cell of the calculator, content cells first.
func (c *Calculator) Nodes() []state.Node {
	nodes := make([]state.Node, 0, len(c.content)+len(c.offsets))
	for _, cell := range c.content {
		nodes = append(nodes, cell)
	}
	for _, offset := range c.offsets {
		nodes = append(nodes, offset)
	}
	return nodes
}

// TotalHeight returns the bottom edge of the last section.
func (c *Calculator) TotalHeight() float64 {
	last := len(c.sections) - 1
	return c.Offset(last) + c.sections[last].HeaderHeight + c.ContentHeight(last)
}

// Close detaches the offset cells and cancels running animations.
func (c *Calculator) Close() {
	if canceller, ok := c.animator.(interface {
		Cancel(state.Writable[float64]) bool
	}); ok {
		for _, cell := range c.content {
			canceller.Cancel(cell)
		}
	}
	for _, offset := range c.offsets {
		offset.Stop()
	}
}
