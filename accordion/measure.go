package accordion

import (
	"fmt"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/odvcencio/cascade/animation"
	"github.com/odvcencio/cascade/state"
)

// Size is the natural size of a section's content.
type Size struct {
	Width  float64
	Height float64
}

// Measurer reports the natural size of a rendered section's content.
// It returns ErrNotLaidOut (or any error) when the content is not mounted yet.
type Measurer interface {
	Measure(index int) (Size, error)
}

// MeasurerFunc adapts a function into a Measurer.
type MeasurerFunc func(index int) (Size, error)

// Measure calls f.
func (f MeasurerFunc) Measure(index int) (Size, error) {
	return f(index)
}

// Animator moves a content-height cell toward a target, one frame at a time.
// animation.Driver implements it.
type Animator interface {
	AnimateTo(cell state.Writable[float64], target float64, duration time.Duration, curve animation.Curve) ulid.ULID
	Active(cell state.Writable[float64]) (animation.Run, bool)
}

// StaticMeasurer serves heights recorded with Set. Indices never set, or
// forgotten, report ErrNotLaidOut.
type StaticMeasurer struct {
	mu      sync.Mutex
	heights map[int]float64
}

// NewStaticMeasurer records heights for indices 0..len(heights)-1.
func NewStaticMeasurer(heights ...float64) *StaticMeasurer {
	m := &StaticMeasurer{heights: make(map[int]float64, len(heights))}
	for i, h := range heights {
		m.heights[i] = h
	}
	return m
}

// Set records the natural height of index.
func (m *StaticMeasurer) Set(index int, height float64) {
	m.mu.Lock()
	if m.heights == nil {
		m.heights = make(map[int]float64)
	}
	m.heights[index] = height
	m.mu.Unlock()
}

// Forget marks index as not laid out.
func (m *StaticMeasurer) Forget(index int) {
	m.mu.Lock()
	delete(m.heights, index)
	m.mu.Unlock()
}

// Measure returns the recorded height of index.
func (m *StaticMeasurer) Measure(index int) (Size, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.heights[index]
	if !ok {
		return Size{}, fmt.Errorf("section %d: %w", index, ErrNotLaidOut)
	}
	return Size{Height: h}, nil
}
