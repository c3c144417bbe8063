package runtime

import "github.com/odvcencio/cascade/backend"

// Layer is one entry of the overlay stack.
type Layer struct {
	Root  Widget
	Modal bool // blocks input to layers below
}

// Screen owns the layer stack, the render buffer and the hit grid.
type Screen struct {
	width, height int
	layers        []*Layer
	buffer        *Buffer
	hitGrid       *HitGrid
	hitGridModal  bool
	hitGridDirty  bool
	services      Services
}

// NewScreen creates a w x h screen.
func NewScreen(w, h int) *Screen {
	return &Screen{
		width:        w,
		height:       h,
		buffer:       NewBuffer(w, h),
		hitGrid:      NewHitGrid(w, h),
		hitGridDirty: true,
	}
}

// SetServices configures the services handed to Bindable widgets.
func (s *Screen) SetServices(services Services) {
	s.services = services
}

// Size returns the screen dimensions.
func (s *Screen) Size() (w, h int) {
	return s.width, s.height
}

// Resize changes the dimensions and lays out every layer again.
func (s *Screen) Resize(w, h int) {
	s.width = w
	s.height = h
	s.buffer.Resize(w, h)
	s.hitGrid.Resize(w, h)
	s.hitGridDirty = true

	bounds := Rect{0, 0, w, h}
	for _, layer := range s.layers {
		if layer.Root != nil {
			layer.Root.Layout(bounds)
		}
	}
}

// Buffer returns the render buffer.
func (s *Screen) Buffer() *Buffer {
	return s.buffer
}

// SetRoot replaces the root of the base layer.
func (s *Screen) SetRoot(root Widget) {
	var oldRoot Widget
	if len(s.layers) == 0 {
		s.layers = append(s.layers, &Layer{Root: root})
	} else {
		oldRoot = s.layers[0].Root
		s.layers[0].Root = root
	}
	DetachTree(oldRoot)
	s.attach(root)
}

// Root returns the base layer's root.
func (s *Screen) Root() Widget {
	if len(s.layers) == 0 {
		return nil
	}
	return s.layers[0].Root
}

// PushLayer adds root on top of the stack.
func (s *Screen) PushLayer(root Widget, modal bool) {
	s.layers = append(s.layers, &Layer{Root: root, Modal: modal})
	s.attach(root)
}

func (s *Screen) attach(root Widget) {
	s.hitGridDirty = true
	s.buffer.MarkAllDirty()
	if root == nil {
		return
	}
	BindTree(root, s.services)
	root.Layout(Rect{0, 0, s.width, s.height})
	MountTree(root)
}

// PopLayer removes the top layer. The base layer cannot be popped.
func (s *Screen) PopLayer() bool {
	if len(s.layers) <= 1 {
		return false
	}
	top := s.layers[len(s.layers)-1]
	DetachTree(top.Root)
	s.layers = s.layers[:len(s.layers)-1]
	s.hitGridDirty = true
	s.buffer.MarkAllDirty()
	return true
}

// TopLayer returns the topmost layer.
func (s *Screen) TopLayer() *Layer {
	if len(s.layers) == 0 {
		return nil
	}
	return s.layers[len(s.layers)-1]
}

// Layer returns layer i, counting from the bottom, or nil.
func (s *Screen) Layer(i int) *Layer {
	if i < 0 || i >= len(s.layers) {
		return nil
	}
	return s.layers[i]
}

// LayerCount returns the number of layers.
func (s *Screen) LayerCount() int {
	return len(s.layers)
}

// Render paints the layers bottom to top. Layers under a modal layer are skipped.
func (s *Screen) Render() {
	start := 0
	for i := len(s.layers) - 1; i > 0; i-- {
		if s.layers[i].Modal {
			start = i
			break
		}
	}
	if start > 0 {
		s.buffer.Clear()
	}
	for i := start; i < len(s.layers); i++ {
		layer := s.layers[i]
		if layer.Root == nil {
			continue
		}
		layer.Root.Render(RenderContext{
			Buffer:  s.buffer,
			Focused: i == len(s.layers)-1,
			Bounds:  Rect{0, 0, s.width, s.height},
		})
	}
	// Widgets move every animation frame, so hit targets follow each render.
	s.hitGridDirty = true
}

// HandleMessage routes mouse messages through the hit grid first, then
// offers the message to layers from the top down until one handles it or
// a modal layer stops it.
func (s *Screen) HandleMessage(msg Message) HandleResult {
	if mouse, ok := msg.(MouseMsg); ok {
		if s.hitGridDirty {
			s.buildHitGrid()
		}
		if target := s.hitGrid.WidgetAt(mouse.X, mouse.Y); target != nil {
			result := target.HandleMessage(msg)
			s.handleCommands(result.Commands)
			if result.Handled || s.hitGridModal {
				return result
			}
		} else if s.hitGridModal {
			return Unhandled()
		}
	}

	for i := len(s.layers) - 1; i >= 0; i-- {
		layer := s.layers[i]
		if layer.Root == nil {
			continue
		}
		result := layer.Root.HandleMessage(msg)
		s.handleCommands(result.Commands)
		if result.Handled {
			return result
		}
		if layer.Modal {
			break
		}
	}
	return Unhandled()
}

// handleCommands applies overlay commands. Every command still bubbles to the App.
func (s *Screen) handleCommands(cmds []Command) {
	for _, cmd := range cmds {
		switch c := cmd.(type) {
		case PopOverlay:
			s.PopLayer()
		case PushOverlay:
			s.PushLayer(c.Widget, c.Modal)
		}
	}
}

func (s *Screen) buildHitGrid() {
	s.hitGrid.Resize(s.width, s.height)
	s.hitGrid.Clear()
	s.hitGridDirty = false
	s.hitGridModal = false
	if len(s.layers) == 0 {
		return
	}
	start := 0
	if top := s.layers[len(s.layers)-1]; top.Modal {
		start = len(s.layers) - 1
		s.hitGridModal = true
	}
	for _, layer := range s.layers[start:] {
		s.addHitWidgets(layer.Root)
	}
}

// addHitWidgets registers leaves; a container with children is represented by them.
func (s *Screen) addHitWidgets(widget Widget) {
	if widget == nil {
		return
	}
	if container, ok := widget.(ChildProvider); ok {
		if children := container.ChildWidgets(); len(children) > 0 {
			for _, child := range children {
				s.addHitWidgets(child)
			}
			return
		}
	}
	if bp, ok := widget.(BoundsProvider); ok {
		s.hitGrid.Add(widget, bp.Bounds())
	}
}

// RenderContext is passed to Widget.Render.
type RenderContext struct {
	Buffer  *Buffer
	Focused bool // the widget's layer is on top
	Bounds  Rect
}

// Sub returns a context for a child with bounds.
func (ctx RenderContext) Sub(bounds Rect) RenderContext {
	return RenderContext{Buffer: ctx.Buffer, Focused: ctx.Focused, Bounds: bounds}
}

// Clear fills the context bounds with spaces in style.
func (ctx RenderContext) Clear(style backend.Style) {
	if ctx.Buffer == nil {
		return
	}
	ctx.Buffer.Fill(ctx.Bounds, ' ', style)
}

// SubBuffer returns a buffer view clipped to the context bounds.
func (ctx RenderContext) SubBuffer() *SubBuffer {
	return ctx.Buffer.Sub(ctx.Bounds)
}
