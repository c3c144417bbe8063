package state

import "sync"

// Derived is a value recomputed from other cells and never assigned directly.
type Derived[T any] struct {
	v       *vertex
	mu      sync.Mutex
	value   T
	compute func() T
	equal   EqualFunc[T]
	deps    []*vertex
	stopped bool
}

// NewDerived creates a derived cell in g from compute and its dependencies.
// Every dependency must belong to g. A nil graph is taken from the first
// dependency, or created when there is none.
func NewDerived[T any](g *Graph, compute func() T, deps ...Node) *Derived[T] {
	if compute == nil {
		compute = func() T {
			var zero T
			return zero
		}
	}
	upstream := make([]*vertex, 0, len(deps))
	for _, dep := range deps {
		if dep == nil {
			continue
		}
		dv := dep.vertexOf()
		if dv == nil {
			continue
		}
		if g == nil {
			g = dv.g
		}
		if dv.g != g {
			panic("state: dependency belongs to a different graph")
		}
		upstream = append(upstream, dv)
	}
	if g == nil {
		g = NewGraph()
	}

	rank := 1
	for _, dv := range upstream {
		if dv.rank+1 > rank {
			rank = dv.rank + 1
		}
	}
	d := &Derived[T]{
		compute: compute,
		deps:    upstream,
		value:   compute(),
	}
	d.v = g.newVertex(rank, d.recompute)
	for _, dv := range upstream {
		dv.addDependent(d.v)
	}
	return d
}

// SetEqualFunc configures the equality check used to stop propagation.
func (d *Derived[T]) SetEqualFunc(fn EqualFunc[T]) {
	if d == nil {
		return
	}
	d.mu.Lock()
	d.equal = fn
	d.mu.Unlock()
}

// Get returns the current derived value.
func (d *Derived[T]) Get() T {
	if d == nil {
		var zero T
		return zero
	}
	d.mu.Lock()
	value := d.value
	d.mu.Unlock()
	return value
}

// Rank returns the depth of the cell in its graph. Leaf cells have rank 0.
func (d *Derived[T]) Rank() int {
	if d == nil {
		return 0
	}
	return d.v.rank
}

// Subscribe registers a listener for change notifications.
func (d *Derived[T]) Subscribe(fn func()) func() {
	return d.SubscribeWithScheduler(nil, fn)
}

// SubscribeWithScheduler registers a listener using a scheduler.
// If scheduler is nil, callbacks run synchronously after propagation.
func (d *Derived[T]) SubscribeWithScheduler(scheduler Scheduler, fn func()) func() {
	if d == nil || fn == nil {
		return func() {}
	}
	return d.v.obs.add(scheduler, fn)
}

// Stop detaches the cell from its dependencies. The last value is kept.
func (d *Derived[T]) Stop() {
	if d == nil {
		return
	}
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.stopped = true
	deps := d.deps
	d.deps = nil
	d.mu.Unlock()
	for _, dv := range deps {
		dv.removeDependent(d.v)
	}
}

func (d *Derived[T]) recompute() bool {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return false
	}
	compute := d.compute
	d.mu.Unlock()

	next := compute()

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.equal != nil && d.equal(d.value, next) {
		return false
	}
	d.value = next
	return true
}

func (d *Derived[T]) vertexOf() *vertex {
	if d == nil {
		return nil
	}
	return d.v
}
