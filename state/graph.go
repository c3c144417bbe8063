// Package state provides reactive cells for derived layout values.
//
// A Graph owns leaf cells (Cell) and derived cells (Derived). Writing a
// leaf queues its dependents by rank and recomputes each one at most once
// per propagation, so a chain or diamond of derived values is never
// observed half-updated once Set or Batch returns.
package state

import (
	"container/heap"
	"sync"
)

// Graph coordinates propagation between cells.
// Compute functions run while the graph is propagating and must not write cells.
type Graph struct {
	mu    sync.Mutex
	prop  sync.Mutex
	batch int
	dirty []*vertex
	seq   uint64
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{}
}

// Batch runs fn and defers propagation until the outermost batch returns.
func (g *Graph) Batch(fn func()) {
	if g == nil || fn == nil {
		return
	}
	g.mu.Lock()
	g.batch++
	g.mu.Unlock()
	defer func() {
		g.mu.Lock()
		g.batch--
		flush := g.batch == 0
		g.mu.Unlock()
		if flush {
			g.propagate()
		}
	}()
	fn()
}

func (g *Graph) newVertex(rank int, recompute func() bool) *vertex {
	g.mu.Lock()
	g.seq++
	seq := g.seq
	g.mu.Unlock()
	return &vertex{g: g, rank: rank, seq: seq, recompute: recompute}
}

func (g *Graph) changed(v *vertex) {
	g.mu.Lock()
	g.dirty = append(g.dirty, v)
	deferred := g.batch > 0
	g.mu.Unlock()
	if deferred {
		return
	}
	g.propagate()
}

func (g *Graph) propagate() {
	g.prop.Lock()
	g.mu.Lock()
	roots := g.dirty
	g.dirty = nil
	g.mu.Unlock()
	if len(roots) == 0 {
		g.prop.Unlock()
		return
	}

	changed := make([]*vertex, 0, len(roots))
	changed = append(changed, roots...)
	pending := &rankQueue{}
	queued := make(map[*vertex]struct{})
	enqueue := func(v *vertex) {
		for _, d := range v.dependentsSnapshot() {
			if _, ok := queued[d]; ok {
				continue
			}
			queued[d] = struct{}{}
			heap.Push(pending, d)
		}
	}
	for _, root := range roots {
		enqueue(root)
	}
	for pending.Len() > 0 {
		v := heap.Pop(pending).(*vertex)
		delete(queued, v)
		if v.recompute != nil && v.recompute() {
			changed = append(changed, v)
			enqueue(v)
		}
	}
	g.prop.Unlock()

	seen := make(map[*vertex]struct{}, len(changed))
	for _, v := range changed {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		v.obs.notify()
	}
}

// vertex is the graph-facing half of a cell.
type vertex struct {
	g          *Graph
	rank       int
	seq        uint64
	recompute  func() bool
	mu         sync.Mutex
	dependents []*vertex
	obs        observers
}

func (v *vertex) addDependent(d *vertex) {
	v.mu.Lock()
	v.dependents = append(v.dependents, d)
	v.mu.Unlock()
}

func (v *vertex) removeDependent(d *vertex) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for i, existing := range v.dependents {
		if existing == d {
			v.dependents = append(v.dependents[:i], v.dependents[i+1:]...)
			return
		}
	}
}

func (v *vertex) dependentsSnapshot() []*vertex {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.dependents) == 0 {
		return nil
	}
	out := make([]*vertex, len(v.dependents))
	copy(out, v.dependents)
	return out
}

// rankQueue orders vertices by rank, then by creation order.
type rankQueue []*vertex

func (q rankQueue) Len() int { return len(q) }

func (q rankQueue) Less(i, j int) bool {
	if q[i].rank != q[j].rank {
		return q[i].rank < q[j].rank
	}
	return q[i].seq < q[j].seq
}

func (q rankQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *rankQueue) Push(x any) { *q = append(*q, x.(*vertex)) }

func (q *rankQueue) Pop() any {
	old := *q
	n := len(old)
	v := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return v
}
