package state

import "sync"

// EqualFunc compares two values for equality.
type EqualFunc[T any] func(a, b T) bool

// EqualComparable compares comparable values with ==.
func EqualComparable[T comparable](a, b T) bool {
	return a == b
}

// Subscribable emits change notifications.
type Subscribable interface {
	Subscribe(fn func()) func()
}

// Node is a cell that derived cells may depend on.
type Node interface {
	Subscribable
	vertexOf() *vertex
}

// Cell is a leaf value written directly by callers.
type Cell[T any] struct {
	v     *vertex
	mu    sync.Mutex
	value T
	equal EqualFunc[T]
}

// NewCell creates a leaf cell in g. A nil graph gets a private one.
func NewCell[T any](g *Graph, initial T) *Cell[T] {
	if g == nil {
		g = NewGraph()
	}
	return &Cell[T]{v: g.newVertex(0, nil), value: initial}
}

// SetEqualFunc configures the equality check used to suppress redundant updates.
func (c *Cell[T]) SetEqualFunc(fn EqualFunc[T]) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.equal = fn
	c.mu.Unlock()
}

// Get returns the current value.
func (c *Cell[T]) Get() T {
	if c == nil {
		var zero T
		return zero
	}
	c.mu.Lock()
	value := c.value
	c.mu.Unlock()
	return value
}

// Set stores value and ripples the change through dependents.
// It reports whether the value changed.
func (c *Cell[T]) Set(value T) bool {
	if c == nil {
		return false
	}
	c.mu.Lock()
	if c.equal != nil && c.equal(c.value, value) {
		c.mu.Unlock()
		return false
	}
	c.value = value
	c.mu.Unlock()

	c.v.g.changed(c.v)
	return true
}

// Update replaces the value using fn.
// fn runs outside the cell lock; Update is not atomic across goroutines.
func (c *Cell[T]) Update(fn func(T) T) bool {
	if c == nil || fn == nil {
		return false
	}
	return c.Set(fn(c.Get()))
}

// Graph returns the graph that owns the cell.
func (c *Cell[T]) Graph() *Graph {
	if c == nil {
		return nil
	}
	return c.v.g
}

// Subscribe registers a listener for change notifications.
func (c *Cell[T]) Subscribe(fn func()) func() {
	return c.SubscribeWithScheduler(nil, fn)
}

// SubscribeWithScheduler registers a listener using a scheduler.
// If scheduler is nil, callbacks run synchronously after propagation.
func (c *Cell[T]) SubscribeWithScheduler(scheduler Scheduler, fn func()) func() {
	if c == nil || fn == nil {
		return func() {}
	}
	return c.v.obs.add(scheduler, fn)
}

func (c *Cell[T]) vertexOf() *vertex {
	if c == nil {
		return nil
	}
	return c.v
}
