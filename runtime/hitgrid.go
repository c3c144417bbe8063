package runtime

// HitGrid maps screen cells to the widget drawn there for mouse routing.
// Later additions win, matching paint order.
type HitGrid struct {
	width, height int
	cells         []int32
	widgets       []Widget
}

// NewHitGrid creates an empty grid.
func NewHitGrid(w, h int) *HitGrid {
	g := &HitGrid{}
	g.Resize(w, h)
	return g
}

// Resize changes the grid size and clears it.
func (g *HitGrid) Resize(w, h int) {
	w, h = max(w, 0), max(h, 0)
	if w == g.width && h == g.height && g.cells != nil {
		return
	}
	g.width, g.height = w, h
	g.cells = make([]int32, w*h)
	g.widgets = g.widgets[:0]
}

// Clear forgets every widget.
func (g *HitGrid) Clear() {
	clear(g.cells)
	clear(g.widgets)
	g.widgets = g.widgets[:0]
}

// Add claims the cells of bounds for w.
func (g *HitGrid) Add(w Widget, bounds Rect) {
	if w == nil {
		return
	}
	r := bounds.Intersection(Rect{Width: g.width, Height: g.height})
	if r.Empty() {
		return
	}
	g.widgets = append(g.widgets, w)
	id := int32(len(g.widgets))
	for y := r.Y; y < r.Y+r.Height; y++ {
		row := g.cells[y*g.width : (y+1)*g.width]
		for x := r.X; x < r.X+r.Width; x++ {
			row[x] = id
		}
	}
}

// WidgetAt returns the topmost widget at (x, y).
func (g *HitGrid) WidgetAt(x, y int) Widget {
	if x < 0 || y < 0 || x >= g.width || y >= g.height {
		return nil
	}
	id := g.cells[y*g.width+x]
	if id == 0 {
		return nil
	}
	return g.widgets[id-1]
}
