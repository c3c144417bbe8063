package runtime

// Widget is a node in the render tree.
type Widget interface {
	Measure(constraints Constraints) Size
	Layout(bounds Rect)
	Render(ctx RenderContext)
	HandleMessage(msg Message) HandleResult
}

// ChildProvider exposes child widgets for tree walkers.
type ChildProvider interface {
	ChildWidgets() []Widget
}

// BoundsProvider exposes the last laid-out bounds of a widget.
type BoundsProvider interface {
	Bounds() Rect
}

// HandleResult reports whether a message was consumed and which commands it produced.
type HandleResult struct {
	Handled  bool
	Commands []Command
}

// Handled consumes a message.
func Handled() HandleResult {
	return HandleResult{Handled: true}
}

// Unhandled lets a message continue to the next layer.
func Unhandled() HandleResult {
	return HandleResult{}
}

// WithCommand consumes a message and emits commands.
func WithCommand(cmds ...Command) HandleResult {
	return HandleResult{Handled: true, Commands: cmds}
}

// Rect is a cell rectangle.
type Rect struct {
	X, Y          int
	Width, Height int
}

// Contains reports whether (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Intersection returns the overlap of r and o, or an empty rect.
func (r Rect) Intersection(o Rect) Rect {
	x0 := max(r.X, o.X)
	y0 := max(r.Y, o.Y)
	x1 := min(r.X+r.Width, o.X+o.Width)
	y1 := min(r.Y+r.Height, o.Y+o.Height)
	if x1 <= x0 || y1 <= y0 {
		return Rect{}
	}
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Empty reports whether r covers no cells.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Size is a width and height in cells.
type Size struct {
	Width, Height int
}

// Constraints bound a widget's measured size.
type Constraints struct {
	MinWidth, MaxWidth   int
	MinHeight, MaxHeight int
}

// Tight returns constraints that only admit s.
func Tight(s Size) Constraints {
	return Constraints{MinWidth: s.Width, MaxWidth: s.Width, MinHeight: s.Height, MaxHeight: s.Height}
}

// Loose returns constraints from zero up to s.
func Loose(s Size) Constraints {
	return Constraints{MaxWidth: s.Width, MaxHeight: s.Height}
}

// MaxSize returns the largest admitted size.
func (c Constraints) MaxSize() Size {
	return Size{Width: c.MaxWidth, Height: c.MaxHeight}
}

// Constrain clamps s into c.
func (c Constraints) Constrain(s Size) Size {
	s.Width = min(max(s.Width, c.MinWidth), c.MaxWidth)
	s.Height = min(max(s.Height, c.MinHeight), c.MaxHeight)
	return s
}
